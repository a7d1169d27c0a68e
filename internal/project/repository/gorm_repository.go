package repository

import (
	"context"
	"errors"

	"timebeing-backend/internal/project/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository migrates the projects table and returns the repository
func NewGormProjectRepository(db *gorm.DB) (ProjectRepository, error) {
	if err := db.AutoMigrate(&domain.Project{}); err != nil {
		return nil, err
	}
	return &gormProjectRepository{db: db}, nil
}

func (r *gormProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *gormProjectRepository) FindByIDForUser(ctx context.Context, userID, id string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *gormProjectRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *gormProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *gormProjectRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Project{}).Error
}

func (r *gormProjectRepository) ProjectExists(ctx context.Context, userID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	return count > 0, err
}
