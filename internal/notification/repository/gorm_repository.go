package repository

import (
	"context"
	"errors"
	"time"

	"timebeing-backend/internal/notification/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormScheduleStore implements ScheduleStore using GORM
type gormScheduleStore struct {
	db *gorm.DB
}

// NewGormScheduleStore creates a GORM-backed ScheduleStore living next to the domain tables.
func NewGormScheduleStore(db *gorm.DB) (ScheduleStore, error) {
	if err := db.AutoMigrate(&domain.ScheduledJob{}); err != nil {
		return nil, err
	}
	return &gormScheduleStore{db: db}, nil
}

func (r *gormScheduleStore) Upsert(ctx context.Context, job *domain.ScheduledJob) error {
	now := time.Now().UTC()
	job.RunAt = job.RunAt.UTC()
	job.Status = domain.JobStatusPending
	job.FiredAt = nil
	job.UpdatedAt = now
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}

	// Atomic upsert: INSERT ... ON CONFLICT (job_id) DO UPDATE
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"run_at", "status", "revision", "payload", "fired_at", "updated_at"}),
	}).Create(job).Error
}

func (r *gormScheduleStore) Cancel(ctx context.Context, jobID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.ScheduledJob{}).
		Where("job_id = ? AND status = ?", jobID, domain.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     domain.JobStatusCancelled,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *gormScheduleStore) MarkFired(ctx context.Context, jobID, revision string, at time.Time) (bool, error) {
	at = at.UTC()
	res := r.db.WithContext(ctx).Model(&domain.ScheduledJob{}).
		Where("job_id = ? AND revision = ? AND status = ?", jobID, revision, domain.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     domain.JobStatusFired,
			"fired_at":   at,
			"updated_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *gormScheduleStore) LoadPending(ctx context.Context) ([]*domain.ScheduledJob, error) {
	var jobs []*domain.ScheduledJob
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.JobStatusPending).
		Order("run_at ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *gormScheduleStore) Get(ctx context.Context, jobID string) (*domain.ScheduledJob, error) {
	var job domain.ScheduledJob
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *gormScheduleStore) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []domain.JobStatus{domain.JobStatusFired, domain.JobStatusCancelled}, before.UTC()).
		Delete(&domain.ScheduledJob{})
	return res.RowsAffected, res.Error
}
