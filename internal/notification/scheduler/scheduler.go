package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"timebeing-backend/internal/notification/domain"
	"timebeing-backend/internal/notification/repository"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Dispatcher is invoked once per fired job, outside the timer bookkeeping.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID string, payload domain.ReminderPayload) error
}

// TaskChecker reports whether the task behind a reminder still exists.
type TaskChecker interface {
	TaskExists(ctx context.Context, taskID string) (bool, error)
}

type Config struct {
	// ReconcileSpec and PruneSpec are cron specs; empty disables the job.
	ReconcileSpec string
	PruneSpec     string
	Retention     time.Duration
	Location      *time.Location
}

type armedJob struct {
	timer    *time.Timer
	revision string
	seq      uint64
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Scheduler arms one-shot timers for durable jobs. Every armed timer has a
// pending row in the ScheduleStore; the row is the source of truth.
type Scheduler struct {
	store      repository.ScheduleStore
	dispatcher Dispatcher
	tasks      TaskChecker
	cfg        Config
	log        *zap.Logger

	mu       sync.Mutex
	armed    map[string]*armedJob
	touched  map[string]uint64
	keyLocks map[string]*keyLock
	seq      uint64
	running  bool
	cron     *cron.Cron
	baseCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a stopped scheduler. tasks may be nil, in which case orphan
// detection on start is skipped.
func New(store repository.ScheduleStore, dispatcher Dispatcher, tasks TaskChecker, cfg Config, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		tasks:      tasks,
		cfg:        cfg,
		log:        log,
		armed:      make(map[string]*armedJob),
		touched:    make(map[string]uint64),
		keyLocks:   make(map[string]*keyLock),
	}
}

// Start reloads pending jobs from the store, re-arms them (past-due jobs fire
// immediately) and starts the housekeeping cron jobs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())
	s.running = true
	s.mu.Unlock()

	jobs, err := s.store.LoadPending(ctx)
	if err != nil {
		s.Stop(ctx)
		return fmt.Errorf("load pending jobs: %w", err)
	}

	restored := 0
	for _, job := range jobs {
		payload, err := job.DecodePayload()
		if err != nil {
			s.log.Error("Dropping job with unreadable payload", zap.String("job_id", job.JobID), zap.Error(err))
			s.cancelOrphan(ctx, job.JobID)
			continue
		}
		if s.tasks != nil {
			exists, err := s.tasks.TaskExists(ctx, payload.TaskID)
			if err != nil {
				s.log.Warn("Could not verify task for job, arming anyway", zap.String("job_id", job.JobID), zap.Error(err))
			} else if !exists {
				s.log.Warn("Skipping job for missing task", zap.String("job_id", job.JobID), zap.String("task_id", payload.TaskID))
				s.cancelOrphan(ctx, job.JobID)
				continue
			}
		}
		s.arm(job.JobID, job.Revision, job.RunAt, payload)
		restored++
	}

	if err := s.startCron(); err != nil {
		s.Stop(ctx)
		return err
	}

	s.log.Info("Scheduler started", zap.Int("restored", restored), zap.Int("loaded", len(jobs)))
	return nil
}

func (s *Scheduler) startCron() error {
	if s.cfg.ReconcileSpec == "" && s.cfg.PruneSpec == "" {
		return nil
	}

	c := cron.New(cron.WithLocation(s.cfg.Location))
	if s.cfg.ReconcileSpec != "" {
		if _, err := c.AddFunc(s.cfg.ReconcileSpec, func() {
			if err := s.Reconcile(s.context()); err != nil {
				s.log.Error("Reconcile failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("invalid reconcile spec %q: %w", s.cfg.ReconcileSpec, err)
		}
	}
	if s.cfg.PruneSpec != "" && s.cfg.Retention > 0 {
		if _, err := c.AddFunc(s.cfg.PruneSpec, func() {
			if _, err := s.Prune(s.context()); err != nil {
				s.log.Error("Prune failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("invalid prune spec %q: %w", s.cfg.PruneSpec, err)
		}
	}
	c.Start()

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()
	return nil
}

// Stop disarms every timer and waits for in-flight dispatches until ctx is done.
// Pending rows stay in the store and are re-armed by the next Start.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	for id, a := range s.armed {
		a.timer.Stop()
		delete(s.armed, id)
	}
	s.touched = make(map[string]uint64)
	c := s.cron
	s.cron = nil
	cancel := s.cancel
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		if c != nil {
			<-c.Stop().Done()
		}
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out with dispatches in flight")
	}
	cancel()
}

// Schedule persists the job and arms it, replacing any job with the same id.
// A run time in the past fires as soon as possible. When the scheduler is not
// running the job is only persisted and will be armed by Start.
func (s *Scheduler) Schedule(ctx context.Context, jobID string, runAt time.Time, payload domain.ReminderPayload) error {
	if jobID == "" {
		return errors.New("job id required")
	}
	raw, err := domain.EncodePayload(payload)
	if err != nil {
		return err
	}

	job := &domain.ScheduledJob{
		JobID:    jobID,
		RunAt:    runAt,
		Revision: uuid.NewString(),
		Payload:  raw,
	}
	// the row write and the timer must land in the same order for a key
	unlock := s.lockKey(jobID)
	defer unlock()

	if err := s.store.Upsert(ctx, job); err != nil {
		return fmt.Errorf("persist job %s: %w", jobID, err)
	}

	s.arm(jobID, job.Revision, runAt, payload)
	s.log.Debug("Job scheduled", zap.String("job_id", jobID), zap.Time("run_at", runAt.In(s.cfg.Location)))
	return nil
}

// Cancel disarms the job and marks its row cancelled. Unknown and already
// fired jobs are a no-op.
func (s *Scheduler) Cancel(ctx context.Context, jobID string) error {
	unlock := s.lockKey(jobID)
	defer unlock()

	s.disarm(jobID)

	changed, err := s.store.Cancel(ctx, jobID)
	if err != nil {
		return fmt.Errorf("cancel job %s: %w", jobID, err)
	}
	if changed {
		s.log.Debug("Job cancelled", zap.String("job_id", jobID))
	}
	return nil
}

// Armed returns the number of timers currently armed in this process.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// Reconcile re-arms pending rows that are not armed at their current revision
// (written by another replica, or whose fire mark failed) and disarms timers
// whose rows are no longer pending.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	before := s.seq
	s.mu.Unlock()

	jobs, err := s.store.LoadPending(ctx)
	if err != nil {
		return fmt.Errorf("load pending jobs: %w", err)
	}

	payloads := make(map[string]domain.ReminderPayload, len(jobs))
	for _, job := range jobs {
		payload, err := job.DecodePayload()
		if err != nil {
			s.log.Error("Skipping job with unreadable payload", zap.String("job_id", job.JobID), zap.Error(err))
			continue
		}
		payloads[job.JobID] = payload
	}

	rearmed := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	for _, job := range jobs {
		payload, ok := payloads[job.JobID]
		if !ok {
			continue
		}
		// keys armed, cancelled or fired after the load started are newer than the row we read
		if s.touched[job.JobID] > before {
			continue
		}
		if a, ok := s.armed[job.JobID]; ok && a.revision == job.Revision {
			continue
		}
		s.armLocked(job.JobID, job.Revision, job.RunAt, payload)
		rearmed++
	}
	for id, a := range s.armed {
		if _, ok := payloads[id]; !ok && a.seq <= before {
			a.timer.Stop()
			delete(s.armed, id)
		}
	}
	for id, seq := range s.touched {
		if seq <= before {
			delete(s.touched, id)
		}
	}
	if rearmed > 0 {
		s.log.Info("Reconciled pending jobs", zap.Int("rearmed", rearmed))
	}
	return nil
}

// Prune deletes fired and cancelled rows older than the retention window.
func (s *Scheduler) Prune(ctx context.Context) (int64, error) {
	n, err := s.store.PruneBefore(ctx, time.Now().Add(-s.cfg.Retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Pruned finished jobs", zap.Int64("deleted", n))
	}
	return n, nil
}

func (s *Scheduler) arm(jobID, revision string, runAt time.Time, payload domain.ReminderPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.armLocked(jobID, revision, runAt, payload)
}

func (s *Scheduler) armLocked(jobID, revision string, runAt time.Time, payload domain.ReminderPayload) {
	if a, ok := s.armed[jobID]; ok {
		a.timer.Stop()
	}

	delay := time.Until(runAt)
	if delay < 0 {
		delay = 0
	}
	s.touchLocked(jobID)
	a := &armedJob{revision: revision, seq: s.seq}
	a.timer = time.AfterFunc(delay, func() {
		s.fire(jobID, revision, payload)
	})
	s.armed[jobID] = a
}

func (s *Scheduler) disarm(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.armed[jobID]; ok {
		a.timer.Stop()
		delete(s.armed, jobID)
	}
	if s.running {
		s.touchLocked(jobID)
	}
}

// lockKey serializes Schedule and Cancel calls for one job id.
func (s *Scheduler) lockKey(jobID string) func() {
	s.mu.Lock()
	l, ok := s.keyLocks[jobID]
	if !ok {
		l = &keyLock{}
		s.keyLocks[jobID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.keyLocks, jobID)
		}
		s.mu.Unlock()
	}
}

func (s *Scheduler) touchLocked(jobID string) {
	s.seq++
	s.touched[jobID] = s.seq
}

// fire runs on the timer's own goroutine, so a slow dispatch never delays
// other timers.
func (s *Scheduler) fire(jobID, revision string, payload domain.ReminderPayload) {
	s.mu.Lock()
	a, ok := s.armed[jobID]
	// replaced or cancelled after this timer was armed
	if !s.running || !ok || a.revision != revision {
		s.mu.Unlock()
		return
	}
	delete(s.armed, jobID)
	s.touchLocked(jobID)
	ctx := s.baseCtx
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	consumed, err := s.store.MarkFired(ctx, jobID, revision, time.Now())
	if err != nil {
		s.log.Error("Failed to mark job fired, leaving it for reconcile", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	if !consumed {
		s.log.Debug("Job already consumed or replaced", zap.String("job_id", jobID))
		return
	}

	if s.tasks != nil {
		if exists, err := s.tasks.TaskExists(ctx, payload.TaskID); err == nil && !exists {
			s.log.Warn("Skipping job for missing task", zap.String("job_id", jobID), zap.String("task_id", payload.TaskID))
			return
		}
	}

	s.dispatch(ctx, jobID, payload)
}

func (s *Scheduler) dispatch(ctx context.Context, jobID string, payload domain.ReminderPayload) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Dispatch panicked, dropping notification", zap.String("job_id", jobID), zap.Any("panic", r))
		}
	}()

	if err := s.dispatcher.Dispatch(ctx, jobID, payload); err != nil {
		s.log.Warn("Dispatch failed, dropping notification", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (s *Scheduler) cancelOrphan(ctx context.Context, jobID string) {
	if _, err := s.store.Cancel(ctx, jobID); err != nil {
		s.log.Error("Failed to cancel orphaned job", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseCtx == nil {
		return context.Background()
	}
	return s.baseCtx
}
