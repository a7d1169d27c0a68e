package repository

import (
	"context"
	"time"

	"timebeing-backend/internal/notification/domain"
)

// ScheduleStore persists scheduled jobs so they survive restarts.
// Implementations must be safe for concurrent use.
type ScheduleStore interface {
	// Upsert inserts the job or replaces the row with the same JobID.
	// The row becomes pending with the job's revision.
	Upsert(ctx context.Context, job *domain.ScheduledJob) error

	// Cancel marks a pending job cancelled. Unknown, fired and already
	// cancelled jobs are left untouched; the bool reports whether a row changed.
	Cancel(ctx context.Context, jobID string) (bool, error)

	// MarkFired consumes a pending job at the given revision. It returns
	// false when the row was cancelled, fired or replaced in the meantime.
	MarkFired(ctx context.Context, jobID, revision string, at time.Time) (bool, error)

	// LoadPending returns every pending job ordered by run time.
	LoadPending(ctx context.Context) ([]*domain.ScheduledJob, error)

	// Get returns the job or nil when absent.
	Get(ctx context.Context, jobID string) (*domain.ScheduledJob, error)

	// PruneBefore deletes fired and cancelled rows last touched before the cutoff.
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
}
