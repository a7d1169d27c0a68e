package repository

import (
	"context"

	"timebeing-backend/internal/project/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// FindByIDForUser returns nil when the project is absent or owned by someone else
	FindByIDForUser(ctx context.Context, userID, id string) (*domain.Project, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, userID, id string) error
	ProjectExists(ctx context.Context, userID, id string) (bool, error)
}
