package dto

import (
	"timebeing-backend/internal/project/domain"
	taskdomain "timebeing-backend/internal/task/domain"
	"timebeing-backend/pkg/nullable"
)

type CreateProjectRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   *string             `json:"description"`
	Status        domain.Status       `json:"status"`
	AIContextText *string             `json:"ai_context_text"`
	Priority      taskdomain.Priority `json:"priority"`
}

// UpdateProjectRequest is the PATCH /projects/:id body
type UpdateProjectRequest struct {
	Title         *string                `json:"title" binding:"omitempty,min=1"`
	Description   nullable.Field[string] `json:"description"`
	Status        *domain.Status         `json:"status"`
	AIContextText nullable.Field[string] `json:"ai_context_text"`
	Priority      *taskdomain.Priority   `json:"priority"`
}

type ProjectListResponse struct {
	Projects []*domain.Project `json:"projects"`
}

type StatusOptionsResponse struct {
	StatusOptions []domain.StatusOption `json:"status_options"`
}

type ProjectTasksResponse struct {
	Tasks []*taskdomain.Task `json:"tasks"`
}
