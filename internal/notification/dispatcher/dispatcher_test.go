package dispatcher_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	authdomain "timebeing-backend/internal/auth/domain"
	"timebeing-backend/internal/notification/dispatcher"
	"timebeing-backend/internal/notification/domain"
)

type contacts map[string]string

func (c contacts) ResolveContact(_ context.Context, userID string) (string, error) {
	if userID == "down" {
		return "", authdomain.ErrUnavailable
	}
	email, ok := c[userID]
	if !ok {
		return "", authdomain.ErrUserNotFound
	}
	return email, nil
}

type memPublisher struct {
	mu   sync.Mutex
	msgs [][]byte
	err  error
}

func (p *memPublisher) Publish(_ context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, body)
	return nil
}

func (p *memPublisher) Close() error { return nil }

func reminder(userID string) domain.ReminderPayload {
	return domain.ReminderPayload{
		TaskID:          "task-1",
		UserID:          userID,
		Title:           "Write report",
		DueDate:         time.Date(2025, 7, 31, 20, 0, 0, 0, time.FixedZone("-03", -3*3600)),
		NotifyAtSeconds: 5400,
	}
}

func TestDispatch_PublishesMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	pub := &memPublisher{}
	d := dispatcher.New(contacts{"user_1": "ana@example.com"}, pub, zap.New(core))

	require.NoError(t, d.Dispatch(context.Background(), domain.JobIDForTask("task-1"), reminder("user_1")))

	require.Len(t, pub.msgs, 1)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.msgs[0], &msg))
	assert.Equal(t, "Write report", msg["title"])
	assert.Equal(t, "ana@example.com", msg["email"])
	assert.Equal(t, "1h30m0s", msg["notify_at"])
	assert.Equal(t, float64(5400), msg["notify_at_seconds"])
	assert.Equal(t, "task-1", msg["task_id"])
	assert.Equal(t, "user_1", msg["user_id"])
	assert.Equal(t, "2025-07-31T20:00:00-03:00", msg["due_date"])

	assert.Equal(t, 1, logs.FilterMessage("Notification published").Len())
}

func TestDispatch_ResolveFailuresAreNotPublished(t *testing.T) {
	pub := &memPublisher{}
	d := dispatcher.New(contacts{}, pub, zap.NewNop())

	err := d.Dispatch(context.Background(), "job", reminder("ghost"))
	assert.True(t, errors.Is(err, authdomain.ErrUserNotFound))

	err = d.Dispatch(context.Background(), "job", reminder("down"))
	assert.True(t, errors.Is(err, authdomain.ErrUnavailable))

	assert.Empty(t, pub.msgs)
}

func TestDispatch_PublishFailure(t *testing.T) {
	brokerDown := errors.New("connection refused")
	d := dispatcher.New(contacts{"user_1": "ana@example.com"}, &memPublisher{err: brokerDown}, zap.NewNop())

	err := d.Dispatch(context.Background(), "job", reminder("user_1"))
	assert.True(t, errors.Is(err, brokerDown))
}
