package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"timebeing-backend/internal/notification/domain"
	"timebeing-backend/pkg/queue"

	"go.uber.org/zap"
)

// ContactResolver resolves the address a user is notified at.
type ContactResolver interface {
	ResolveContact(ctx context.Context, userID string) (string, error)
}

// Dispatcher turns a fired reminder into a NotificationMessage on the queue.
// It never retries: a failed resolve or publish is returned to the caller,
// which logs and drops it.
type Dispatcher struct {
	contacts  ContactResolver
	publisher queue.Publisher
	log       *zap.Logger
}

func New(contacts ContactResolver, publisher queue.Publisher, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		contacts:  contacts,
		publisher: publisher,
		log:       log,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, jobID string, payload domain.ReminderPayload) error {
	email, err := d.contacts.ResolveContact(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("resolve contact for user %s: %w", payload.UserID, err)
	}

	body, err := json.Marshal(domain.NewNotificationMessage(payload, email))
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := d.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	d.log.Info("Notification published",
		zap.String("job_id", jobID),
		zap.String("task_id", payload.TaskID),
		zap.String("user_id", payload.UserID),
	)
	return nil
}
