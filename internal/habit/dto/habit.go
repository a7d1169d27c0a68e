package dto

import "timebeing-backend/internal/habit/domain"

type CreateHabitRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	CurrentScore    int    `json:"current_score" binding:"min=0"`
	AIContextPrompt string `json:"ai_context_prompt"`
}

type UpdateHabitRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1"`
	Description     *string `json:"description"`
	CurrentScore    *int    `json:"current_score" binding:"omitempty,min=0"`
	AIContextPrompt *string `json:"ai_context_prompt"`
}

type HabitListResponse struct {
	Habits []*domain.Habit `json:"habits"`
}
