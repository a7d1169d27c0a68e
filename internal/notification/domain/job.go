package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// JobStatus is the lifecycle state of a scheduled job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusFired     JobStatus = "fired"
	JobStatusCancelled JobStatus = "cancelled"
)

const taskReminderPrefix = "task-reminder:"

// JobIDForTask derives the job key for a task's reminder. Task ids are
// unique, so at most one live job exists per task.
func JobIDForTask(taskID string) string {
	return taskReminderPrefix + taskID
}

// ScheduledJob is one durable one-shot job. Revision changes on every
// upsert; firing only consumes the row if the revision still matches.
type ScheduledJob struct {
	JobID     string         `json:"job_id" gorm:"primaryKey;column:job_id"`
	RunAt     time.Time      `json:"run_at" gorm:"index;not null"`
	Status    JobStatus      `json:"status" gorm:"index;not null;default:pending"`
	Revision  string         `json:"revision" gorm:"not null"`
	Payload   datatypes.JSON `json:"payload" gorm:"not null"`
	FiredAt   *time.Time     `json:"fired_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (ScheduledJob) TableName() string {
	return "scheduled_jobs"
}

// ReminderPayload is what a task reminder job carries. The contact address
// is not stored: it is resolved when the job fires.
type ReminderPayload struct {
	TaskID          string    `json:"task_id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	DueDate         time.Time `json:"due_date"`
	NotifyAtSeconds int64     `json:"notify_at"`
}

func (p ReminderPayload) NotifyAt() time.Duration {
	return time.Duration(p.NotifyAtSeconds) * time.Second
}

func EncodePayload(p ReminderPayload) (datatypes.JSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return datatypes.JSON(b), nil
}

func (j *ScheduledJob) DecodePayload() (ReminderPayload, error) {
	var p ReminderPayload
	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return p, fmt.Errorf("decode payload for %s: %w", j.JobID, err)
	}
	return p, nil
}
