package dto

import (
	"timebeing-backend/internal/task/domain"
	"timebeing-backend/pkg/nullable"
)

// CreateTaskRequest is the POST /tasks body. Timestamps may be naive or carry
// a zone; naive values are read as civil time.
type CreateTaskRequest struct {
	Title                  string          `json:"title" binding:"required"`
	Description            *string         `json:"description"`
	DueDate                *string         `json:"due_date"`
	ScheduledStartTime     *string         `json:"scheduled_start_time"`
	ScheduledEndTime       *string         `json:"scheduled_end_time"`
	Priority               domain.Priority `json:"priority"`
	DurationEstimateBlocks *int            `json:"duration_estimate_blocks" binding:"omitempty,min=0"`
	LocationText           *string         `json:"location_text"`
	LocationLat            *float64        `json:"location_lat" binding:"omitempty,min=-90,max=90"`
	LocationLon            *float64        `json:"location_lon" binding:"omitempty,min=-180,max=180"`
	AIContextText          *string         `json:"ai_context_text"`
	ParentTaskID           *string         `json:"parent_task_id"`
	ProjectID              *string         `json:"project_id"`
	IsFocus                bool            `json:"is_focus"`
	Status                 bool            `json:"status"`
	NotifyAt               *domain.Lead    `json:"notify_at"`
}

// UpdateTaskRequest is the PATCH /tasks/:id body. Absent keys are left
// untouched; an explicit null clears a nullable column.
type UpdateTaskRequest struct {
	Title                  *string                     `json:"title" binding:"omitempty,min=1"`
	Description            nullable.Field[string]      `json:"description"`
	DueDate                nullable.Field[string]      `json:"due_date"`
	ScheduledStartTime     nullable.Field[string]      `json:"scheduled_start_time"`
	ScheduledEndTime       nullable.Field[string]      `json:"scheduled_end_time"`
	Priority               *domain.Priority            `json:"priority"`
	DurationEstimateBlocks nullable.Field[int]         `json:"duration_estimate_blocks"`
	LocationText           nullable.Field[string]      `json:"location_text"`
	LocationLat            nullable.Field[float64]     `json:"location_lat"`
	LocationLon            nullable.Field[float64]     `json:"location_lon"`
	AIContextText          nullable.Field[string]      `json:"ai_context_text"`
	ParentTaskID           nullable.Field[string]      `json:"parent_task_id"`
	ProjectID              nullable.Field[string]      `json:"project_id"`
	IsFocus                *bool                       `json:"is_focus"`
	Status                 *bool                       `json:"status"`
	NotifyAt               nullable.Field[domain.Lead] `json:"notify_at"`
}

// ListTasksQuery binds the GET /tasks query string.
type ListTasksQuery struct {
	Status    *bool   `form:"status"`
	IsFocus   *bool   `form:"is_focus"`
	ProjectID *string `form:"project_id"`
	Q         string  `form:"q"`
	Limit     int     `form:"limit" binding:"omitempty,min=0,max=500"`
	Offset    int     `form:"offset" binding:"omitempty,min=0"`
}

type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Total int64          `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
