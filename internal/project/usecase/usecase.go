package usecase

import (
	"context"

	"timebeing-backend/internal/project/domain"
	"timebeing-backend/internal/project/dto"
	taskdomain "timebeing-backend/internal/task/domain"
	taskrepo "timebeing-backend/internal/task/repository"
)

// ProjectUsecase defines the interface for project business logic, scoped to userID
type ProjectUsecase interface {
	CreateProject(ctx context.Context, userID string, req dto.CreateProjectRequest) (*domain.Project, error)
	GetProjectByID(ctx context.Context, userID, projectID string) (*domain.Project, error)
	GetUserProjects(ctx context.Context, userID string) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, userID, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error)
	// DeleteProject deletes the project together with its tasks and their reminders
	DeleteProject(ctx context.Context, userID, projectID string) error
	ListTasks(ctx context.Context, userID, projectID string) ([]*taskdomain.Task, error)
}

// TaskService is the part of the task usecase projects depend on.
type TaskService interface {
	GetUserTasks(ctx context.Context, userID string, filter taskrepo.ListFilter) ([]*taskdomain.Task, int64, error)
	DeleteByProject(ctx context.Context, userID, projectID string) error
}
