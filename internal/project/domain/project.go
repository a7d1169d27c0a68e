package domain

import (
	"errors"
	"time"

	taskdomain "timebeing-backend/internal/task/domain"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// Status is the lifecycle state of a project
type Status string

const (
	StatusCreated    Status = "Criado"
	StatusInProgress Status = "Andamento"
	StatusDone       Status = "Concluído"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// StatusOption describes a status for client pickers
type StatusOption struct {
	Value       Status `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func StatusOptions() []StatusOption {
	return []StatusOption{
		{Value: StatusCreated, Label: "Planejamento", Description: "Projeto em fase de planejamento"},
		{Value: StatusInProgress, Label: "Em Andamento", Description: "Projeto ativo em desenvolvimento"},
		{Value: StatusDone, Label: "Concluído", Description: "Projeto finalizado com sucesso"},
	}
}

// Project groups tasks. Deleting a project deletes its tasks.
type Project struct {
	ID            string              `json:"id" gorm:"primaryKey"`
	UserID        string              `json:"-" gorm:"index;not null"`
	Title         string              `json:"title" gorm:"not null"`
	Description   *string             `json:"description"`
	Status        Status              `json:"status" gorm:"not null;default:Criado"`
	AIContextText *string             `json:"ai_context_text"`
	Priority      taskdomain.Priority `json:"priority" gorm:"not null;default:Baixa"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
