package domain

import (
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// Habit is a recurring behaviour the user scores over time.
type Habit struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"-" gorm:"index;not null"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null;default:''"`
	CurrentScore    int       `json:"current_score" gorm:"not null;default:0;check:current_score >= 0"`
	AIContextPrompt string    `json:"ai_context_prompt" gorm:"not null;default:''"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
