package usecase

import (
	"context"
	"time"

	notifdomain "timebeing-backend/internal/notification/domain"
	"timebeing-backend/internal/task/domain"
	"timebeing-backend/internal/task/dto"
	"timebeing-backend/internal/task/repository"
)

// TaskUsecase defines the interface for task business logic. Every method is
// scoped to userID; rows owned by someone else are reported as not found.
type TaskUsecase interface {
	// CreateTask creates a task and schedules its reminder when due date and lead are set
	CreateTask(ctx context.Context, userID string, req dto.CreateTaskRequest) (*domain.Task, error)

	// GetTaskByID retrieves a task by ID (with ownership check)
	GetTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error)

	// GetUserTasks retrieves a user's tasks
	GetUserTasks(ctx context.Context, userID string, filter repository.ListFilter) ([]*domain.Task, int64, error)

	// GetSubtasks retrieves the direct children of a task
	GetSubtasks(ctx context.Context, userID, taskID string) ([]*domain.Task, error)

	// UpdateTask applies a partial update and replaces or cancels the reminder
	UpdateTask(ctx context.Context, userID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error)

	// DeleteTask deletes a task with its whole subtask tree and cancels their reminders
	DeleteTask(ctx context.Context, userID, taskID string) error

	// DeleteByProject deletes every task of a project the same way DeleteTask does
	DeleteByProject(ctx context.Context, userID, projectID string) error
}

// ReminderScheduler arms and cancels durable reminder jobs.
type ReminderScheduler interface {
	Schedule(ctx context.Context, jobID string, runAt time.Time, payload notifdomain.ReminderPayload) error
	Cancel(ctx context.Context, jobID string) error
}

// ProjectChecker reports whether a project exists for the user.
type ProjectChecker interface {
	ProjectExists(ctx context.Context, userID, projectID string) (bool, error)
}
