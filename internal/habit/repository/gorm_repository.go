package repository

import (
	"context"
	"errors"

	"timebeing-backend/internal/habit/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormHabitRepository struct {
	db *gorm.DB
}

func NewGormHabitRepository(db *gorm.DB) (HabitRepository, error) {
	if err := db.AutoMigrate(&domain.Habit{}); err != nil {
		return nil, err
	}
	return &gormHabitRepository{db: db}, nil
}

func (r *gormHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *gormHabitRepository) FindByIDForUser(ctx context.Context, userID, id string) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&habit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &habit, nil
}

func (r *gormHabitRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error
	return habits, err
}

func (r *gormHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	return r.db.WithContext(ctx).Save(habit).Error
}

func (r *gormHabitRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Habit{}).Error
}
