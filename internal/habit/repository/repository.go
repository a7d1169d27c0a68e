package repository

import (
	"context"

	"timebeing-backend/internal/habit/domain"
)

type HabitRepository interface {
	Create(ctx context.Context, habit *domain.Habit) error
	// FindByIDForUser returns nil when the habit is absent or owned by someone else
	FindByIDForUser(ctx context.Context, userID, id string) (*domain.Habit, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Habit, error)
	Update(ctx context.Context, habit *domain.Habit) error
	Delete(ctx context.Context, userID, id string) error
}
