package repository

import (
	"context"

	"timebeing-backend/internal/task/domain"
)

// ListFilter narrows a user's task listing. Nil fields are not applied.
type ListFilter struct {
	Status    *bool
	IsFocus   *bool
	ProjectID *string
	// Query is a fuzzy text search over title and description. It is
	// applied in memory by the usecase, not by repositories.
	Query     string
	Limit     int
	Offset    int
}

// TaskRepository defines the interface for task data access. Every lookup
// except TaskExists is scoped to the owning user.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *domain.Task) error

	// FindByIDForUser returns the task or nil when absent or owned by someone else
	FindByIDForUser(ctx context.Context, userID, id string) (*domain.Task, error)

	// FindByUserID finds a user's tasks, due date first with undated ones last
	FindByUserID(ctx context.Context, userID string, filter ListFilter) ([]*domain.Task, int64, error)

	// FindSubtasks returns the direct children of a task
	FindSubtasks(ctx context.Context, userID, parentID string) ([]*domain.Task, error)

	// FindChildIDs returns the ids of the direct children of any of the parents
	FindChildIDs(ctx context.Context, userID string, parentIDs []string) ([]string, error)

	// FindIDsByProject returns the ids of every task in a project
	FindIDsByProject(ctx context.Context, userID, projectID string) ([]string, error)

	// Update saves every column of an existing task
	Update(ctx context.Context, task *domain.Task) error

	// DeleteMany deletes the user's tasks with the given ids
	DeleteMany(ctx context.Context, userID string, ids []string) error

	// TaskExists reports whether a task with the id exists for any user
	TaskExists(ctx context.Context, id string) (bool, error)
}
