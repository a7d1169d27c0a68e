package domain

import "time"

// NotificationMessage is the body published to the notifier queue. title,
// email and notify_at keep the shape downstream consumers already read.
type NotificationMessage struct {
	Title           string    `json:"title"`
	Email           string    `json:"email"`
	NotifyAt        string    `json:"notify_at"`
	NotifyAtSeconds int64     `json:"notify_at_seconds"`
	TaskID          string    `json:"task_id"`
	UserID          string    `json:"user_id"`
	DueDate         time.Time `json:"due_date"`
}

func NewNotificationMessage(p ReminderPayload, email string) NotificationMessage {
	return NotificationMessage{
		Title:           p.Title,
		Email:           email,
		NotifyAt:        p.NotifyAt().String(),
		NotifyAtSeconds: p.NotifyAtSeconds,
		TaskID:          p.TaskID,
		UserID:          p.UserID,
		DueDate:         p.DueDate,
	}
}
