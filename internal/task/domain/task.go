package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "Baixa"
	PriorityMedium Priority = "Média"
	PriorityHigh   Priority = "Alta"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a to-do item owned by one user. Subtasks point at their parent
// through ParentTaskID; the tree is walked in application code.
type Task struct {
	ID                     string     `json:"id" gorm:"primaryKey"`
	UserID                 string     `json:"-" gorm:"index;not null"`
	Title                  string     `json:"title" gorm:"not null"`
	Description            *string    `json:"description"`
	DueDate                *time.Time `json:"due_date"`
	ScheduledStartTime     *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime       *time.Time `json:"scheduled_end_time"`
	Priority               Priority   `json:"priority" gorm:"not null;default:Baixa"`
	DurationEstimateBlocks *int       `json:"duration_estimate_blocks"`
	LocationText           *string    `json:"location_text"`
	LocationLat            *float64   `json:"location_lat"`
	LocationLon            *float64   `json:"location_lon"`
	AIContextText          *string    `json:"ai_context_text"`
	ParentTaskID           *string    `json:"parent_task_id" gorm:"index"`
	ProjectID              *string    `json:"project_id" gorm:"index"`
	IsFocus                bool       `json:"is_focus" gorm:"not null;default:false"`
	Status                 bool       `json:"status" gorm:"not null;default:false"`
	NotifyAt               *Lead      `json:"notify_at" gorm:"column:notify_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// HasReminder reports whether the task carries everything a reminder needs.
func (t *Task) HasReminder() bool {
	return t.DueDate != nil && t.NotifyAt != nil
}

// ReminderRunAt is due date minus lead. Only meaningful when HasReminder.
func (t *Task) ReminderRunAt() time.Time {
	return t.DueDate.Add(-t.NotifyAt.Duration())
}
