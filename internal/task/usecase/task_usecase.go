package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	notifdomain "timebeing-backend/internal/notification/domain"
	"timebeing-backend/internal/task/domain"
	"timebeing-backend/internal/task/dto"
	"timebeing-backend/internal/task/repository"
	"timebeing-backend/pkg/civiltime"
	"timebeing-backend/pkg/fuzzy"
	"timebeing-backend/pkg/nullable"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxTreeDepth bounds ancestor walks so corrupt parent links cannot loop forever.
const maxTreeDepth = 1000

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo  repository.TaskRepository
	projects  ProjectChecker
	scheduler ReminderScheduler
	clock     *civiltime.Normalizer
	log       *zap.Logger
}

// NewTaskUsecase creates a new instance of taskUsecase. projects may be nil,
// in which case project references are not checked.
func NewTaskUsecase(taskRepo repository.TaskRepository, projects ProjectChecker, scheduler ReminderScheduler, clock *civiltime.Normalizer, log *zap.Logger) TaskUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &taskUsecase{
		taskRepo:  taskRepo,
		projects:  projects,
		scheduler: scheduler,
		clock:     clock,
		log:       log,
	}
}

func (u *taskUsecase) CreateTask(ctx context.Context, userID string, req dto.CreateTaskRequest) (*domain.Task, error) {
	task := &domain.Task{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		Title:                  req.Title,
		Description:            req.Description,
		Priority:               req.Priority,
		DurationEstimateBlocks: req.DurationEstimateBlocks,
		LocationText:           req.LocationText,
		LocationLat:            req.LocationLat,
		LocationLon:            req.LocationLon,
		AIContextText:          req.AIContextText,
		IsFocus:                req.IsFocus,
		Status:                 req.Status,
		NotifyAt:               req.NotifyAt,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityLow
	}

	var err error
	if task.DueDate, err = u.parseTime("due_date", req.DueDate); err != nil {
		return nil, err
	}
	if task.ScheduledStartTime, err = u.parseTime("scheduled_start_time", req.ScheduledStartTime); err != nil {
		return nil, err
	}
	if task.ScheduledEndTime, err = u.parseTime("scheduled_end_time", req.ScheduledEndTime); err != nil {
		return nil, err
	}
	if err := validate(task); err != nil {
		return nil, err
	}

	if req.ParentTaskID != nil {
		parent, err := u.taskRepo.FindByIDForUser(ctx, userID, *req.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrParentNotFound
		}
		task.ParentTaskID = req.ParentTaskID
	}
	if err := u.checkProject(ctx, userID, req.ProjectID); err != nil {
		return nil, err
	}
	task.ProjectID = req.ProjectID

	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	u.log.Info("Task created", zap.String("task_id", task.ID), zap.String("user_id", userID))

	// the row is committed, so the job always references an existing task
	if task.HasReminder() {
		u.scheduleReminder(ctx, task)
	}
	return task, nil
}

func (u *taskUsecase) GetTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByIDForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	u.localize(task)
	return task, nil
}

func (u *taskUsecase) GetUserTasks(ctx context.Context, userID string, filter repository.ListFilter) ([]*domain.Task, int64, error) {
	if strings.TrimSpace(filter.Query) != "" {
		return u.searchTasks(ctx, userID, filter)
	}
	tasks, total, err := u.taskRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	u.localize(tasks...)
	return tasks, total, nil
}

// searchTasks ranks the filtered tasks by fuzzy relevance of title, then
// description, and pages the ranked result.
func (u *taskUsecase) searchTasks(ctx context.Context, userID string, filter repository.ListFilter) ([]*domain.Task, int64, error) {
	query, limit, offset := filter.Query, filter.Limit, filter.Offset
	filter.Query, filter.Limit, filter.Offset = "", 0, 0

	candidates, _, err := u.taskRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	type hit struct {
		task  *domain.Task
		score float64
	}
	var hits []hit
	for _, t := range candidates {
		score := fuzzy.Score(query, t.Title)
		if t.Description != nil {
			score = max(score, fuzzy.Score(query, *t.Description)/2)
		}
		if score > 0 {
			hits = append(hits, hit{task: t, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	total := int64(len(hits))
	if offset > len(hits) {
		offset = len(hits)
	}
	hits = hits[offset:]
	if limit > 0 && limit < len(hits) {
		hits = hits[:limit]
	}

	tasks := make([]*domain.Task, len(hits))
	for i, h := range hits {
		tasks[i] = h.task
	}
	u.localize(tasks...)
	return tasks, total, nil
}

func (u *taskUsecase) GetSubtasks(ctx context.Context, userID, taskID string) ([]*domain.Task, error) {
	if _, err := u.GetTaskByID(ctx, userID, taskID); err != nil {
		return nil, err
	}
	tasks, err := u.taskRepo.FindSubtasks(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	u.localize(tasks...)
	return tasks, nil
}

type reminderState struct {
	has   bool
	due   time.Time
	lead  domain.Lead
	title string
}

func snapshot(t *domain.Task) reminderState {
	s := reminderState{has: t.HasReminder(), title: t.Title}
	if s.has {
		s.due = *t.DueDate
		s.lead = *t.NotifyAt
	}
	return s
}

func (u *taskUsecase) UpdateTask(ctx context.Context, userID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	before := snapshot(task)

	if err := u.applyUpdate(ctx, task, req); err != nil {
		return nil, err
	}
	if err := validate(task); err != nil {
		return nil, err
	}

	if err := u.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	u.log.Info("Task updated", zap.String("task_id", task.ID), zap.String("user_id", userID))

	switch {
	case !task.HasReminder():
		u.cancelReminder(ctx, task.ID)
	case reminderChanged(before, task):
		u.scheduleReminder(ctx, task)
	}
	return task, nil
}

// reminderChanged reports whether the job must be replaced. A title change
// only matters while the reminder has not fired yet.
func reminderChanged(before reminderState, t *domain.Task) bool {
	if !before.has || !before.due.Equal(*t.DueDate) || before.lead != *t.NotifyAt {
		return true
	}
	return before.title != t.Title && t.ReminderRunAt().After(time.Now())
}

// applyUpdate merges the set fields of req onto task. Adding an updatable
// field means adding it here.
func (u *taskUsecase) applyUpdate(ctx context.Context, task *domain.Task, req dto.UpdateTaskRequest) error {
	var err error

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description.Set {
		task.Description = req.Description.Ptr()
	}
	if req.DueDate.Set {
		if task.DueDate, err = u.parseTime("due_date", req.DueDate.Ptr()); err != nil {
			return err
		}
	}
	if req.ScheduledStartTime.Set {
		if task.ScheduledStartTime, err = u.parseTime("scheduled_start_time", req.ScheduledStartTime.Ptr()); err != nil {
			return err
		}
	}
	if req.ScheduledEndTime.Set {
		if task.ScheduledEndTime, err = u.parseTime("scheduled_end_time", req.ScheduledEndTime.Ptr()); err != nil {
			return err
		}
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DurationEstimateBlocks.Set {
		task.DurationEstimateBlocks = req.DurationEstimateBlocks.Ptr()
	}
	if req.LocationText.Set {
		task.LocationText = req.LocationText.Ptr()
	}
	if req.LocationLat.Set {
		task.LocationLat = req.LocationLat.Ptr()
	}
	if req.LocationLon.Set {
		task.LocationLon = req.LocationLon.Ptr()
	}
	if req.AIContextText.Set {
		task.AIContextText = req.AIContextText.Ptr()
	}
	if req.ParentTaskID.Set {
		if err := u.checkParent(ctx, task, req.ParentTaskID); err != nil {
			return err
		}
		task.ParentTaskID = req.ParentTaskID.Ptr()
	}
	if req.ProjectID.Set {
		if err := u.checkProject(ctx, task.UserID, req.ProjectID.Ptr()); err != nil {
			return err
		}
		task.ProjectID = req.ProjectID.Ptr()
	}
	if req.IsFocus != nil {
		task.IsFocus = *req.IsFocus
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.NotifyAt.Set {
		task.NotifyAt = req.NotifyAt.Ptr()
	}
	return nil
}

// checkParent rejects unknown parents and parents that would close a cycle.
func (u *taskUsecase) checkParent(ctx context.Context, task *domain.Task, parent nullable.Field[string]) error {
	if !parent.Valid {
		return nil
	}
	id := parent.Value
	for depth := 0; depth < maxTreeDepth; depth++ {
		if id == task.ID {
			return domain.ErrCyclicParent
		}
		p, err := u.taskRepo.FindByIDForUser(ctx, task.UserID, id)
		if err != nil {
			return err
		}
		if p == nil {
			if depth == 0 {
				return domain.ErrParentNotFound
			}
			return nil
		}
		if p.ParentTaskID == nil {
			return nil
		}
		id = *p.ParentTaskID
	}
	return domain.ErrCyclicParent
}

func (u *taskUsecase) checkProject(ctx context.Context, userID string, projectID *string) error {
	if projectID == nil || u.projects == nil {
		return nil
	}
	ok, err := u.projects.ProjectExists(ctx, userID, *projectID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (u *taskUsecase) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := u.GetTaskByID(ctx, userID, taskID); err != nil {
		return err
	}
	return u.deleteTrees(ctx, userID, []string{taskID})
}

func (u *taskUsecase) DeleteByProject(ctx context.Context, userID, projectID string) error {
	ids, err := u.taskRepo.FindIDsByProject(ctx, userID, projectID)
	if err != nil {
		return err
	}
	return u.deleteTrees(ctx, userID, ids)
}

// deleteTrees deletes the roots and all their descendants, then cancels the
// reminder of every deleted task.
func (u *taskUsecase) deleteTrees(ctx context.Context, userID string, roots []string) error {
	if len(roots) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(roots))
	all := make([]string, 0, len(roots))
	for _, id := range roots {
		if !seen[id] {
			seen[id] = true
			all = append(all, id)
		}
	}

	frontier := all
	for depth := 0; len(frontier) > 0 && depth < maxTreeDepth; depth++ {
		children, err := u.taskRepo.FindChildIDs(ctx, userID, frontier)
		if err != nil {
			return err
		}
		var next []string
		for _, id := range children {
			if !seen[id] {
				seen[id] = true
				next = append(next, id)
			}
		}
		all = append(all, next...)
		frontier = next
	}

	if err := u.taskRepo.DeleteMany(ctx, userID, all); err != nil {
		return err
	}
	u.log.Info("Tasks deleted", zap.Strings("task_ids", all), zap.String("user_id", userID))

	for _, id := range all {
		u.cancelReminder(ctx, id)
	}
	return nil
}

// scheduleReminder never fails the request: the task row is already
// committed, and a lost schedule write is logged.
func (u *taskUsecase) scheduleReminder(ctx context.Context, task *domain.Task) {
	if u.scheduler == nil {
		return
	}
	due := u.clock.Normalize(task.DueDate)
	payload := notifdomain.ReminderPayload{
		TaskID:          task.ID,
		UserID:          task.UserID,
		Title:           task.Title,
		DueDate:         *due,
		NotifyAtSeconds: task.NotifyAt.Seconds(),
	}
	runAt := civiltime.RunAt(*due, task.NotifyAt.Duration())

	if err := u.scheduler.Schedule(ctx, notifdomain.JobIDForTask(task.ID), runAt, payload); err != nil {
		u.log.Error("Failed to schedule reminder", zap.String("task_id", task.ID), zap.Error(err))
	}
}

func (u *taskUsecase) cancelReminder(ctx context.Context, taskID string) {
	if u.scheduler == nil {
		return
	}
	if err := u.scheduler.Cancel(ctx, notifdomain.JobIDForTask(taskID)); err != nil {
		u.log.Error("Failed to cancel reminder", zap.String("task_id", taskID), zap.Error(err))
	}
}

func (u *taskUsecase) parseTime(field string, raw *string) (*time.Time, error) {
	t, err := u.clock.ParsePtr(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, field, err)
	}
	return t, nil
}

// localize presents stored timestamps in the civil zone.
func (u *taskUsecase) localize(tasks ...*domain.Task) {
	for _, t := range tasks {
		t.DueDate = u.clock.Normalize(t.DueDate)
		t.ScheduledStartTime = u.clock.Normalize(t.ScheduledStartTime)
		t.ScheduledEndTime = u.clock.Normalize(t.ScheduledEndTime)
	}
}

func validate(t *domain.Task) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: priority must be one of Baixa, Média, Alta", domain.ErrInvalidInput)
	}
	if t.ScheduledStartTime != nil && t.ScheduledEndTime != nil && t.ScheduledEndTime.Before(*t.ScheduledStartTime) {
		return fmt.Errorf("%w: scheduled_end_time is before scheduled_start_time", domain.ErrInvalidInput)
	}
	return nil
}
