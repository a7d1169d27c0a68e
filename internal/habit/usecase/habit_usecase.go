package usecase

import (
	"context"
	"fmt"

	"timebeing-backend/internal/habit/domain"
	"timebeing-backend/internal/habit/dto"
	"timebeing-backend/internal/habit/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HabitUsecase defines habit business logic, scoped to userID
type HabitUsecase interface {
	CreateHabit(ctx context.Context, userID string, req dto.CreateHabitRequest) (*domain.Habit, error)
	GetHabitByID(ctx context.Context, userID, habitID string) (*domain.Habit, error)
	GetUserHabits(ctx context.Context, userID string) ([]*domain.Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID string, req dto.UpdateHabitRequest) (*domain.Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID string) error
}

type habitUsecase struct {
	habitRepo repository.HabitRepository
	log       *zap.Logger
}

func NewHabitUsecase(habitRepo repository.HabitRepository, log *zap.Logger) HabitUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &habitUsecase{habitRepo: habitRepo, log: log}
}

func (u *habitUsecase) CreateHabit(ctx context.Context, userID string, req dto.CreateHabitRequest) (*domain.Habit, error) {
	habit := &domain.Habit{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		CurrentScore:    req.CurrentScore,
		AIContextPrompt: req.AIContextPrompt,
	}
	if err := validate(habit); err != nil {
		return nil, err
	}
	if err := u.habitRepo.Create(ctx, habit); err != nil {
		return nil, err
	}
	u.log.Info("Habit created", zap.String("habit_id", habit.ID), zap.String("user_id", userID))
	return habit, nil
}

func (u *habitUsecase) GetHabitByID(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	habit, err := u.habitRepo.FindByIDForUser(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (u *habitUsecase) GetUserHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return u.habitRepo.FindByUserID(ctx, userID)
}

func (u *habitUsecase) UpdateHabit(ctx context.Context, userID, habitID string, req dto.UpdateHabitRequest) (*domain.Habit, error) {
	habit, err := u.GetHabitByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.CurrentScore != nil {
		habit.CurrentScore = *req.CurrentScore
	}
	if req.AIContextPrompt != nil {
		habit.AIContextPrompt = *req.AIContextPrompt
	}
	if err := validate(habit); err != nil {
		return nil, err
	}

	if err := u.habitRepo.Update(ctx, habit); err != nil {
		return nil, err
	}
	u.log.Info("Habit updated", zap.String("habit_id", habit.ID), zap.String("user_id", userID))
	return habit, nil
}

func (u *habitUsecase) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if _, err := u.GetHabitByID(ctx, userID, habitID); err != nil {
		return err
	}
	if err := u.habitRepo.Delete(ctx, userID, habitID); err != nil {
		return err
	}
	u.log.Info("Habit deleted", zap.String("habit_id", habitID), zap.String("user_id", userID))
	return nil
}

func validate(h *domain.Habit) error {
	if h.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if h.CurrentScore < 0 {
		return fmt.Errorf("%w: current_score must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
