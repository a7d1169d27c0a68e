package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes to a JetStream stream whose only subject is the
// queue name, so messages are retained until a consumer reads them.
type NATSPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	log     *zap.Logger
}

func NewNATSPublisher(url, subject string, log *zap.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	nc, err := nats.Connect(url,
		nats.Name("timebeing-notifier"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ensureStream(js, subject, log); err != nil {
		nc.Close()
		return nil, err
	}

	return &NATSPublisher{nc: nc, js: js, subject: subject, log: log}, nil
}

// StreamName is the JetStream stream that carries the subject.
func StreamName(subject string) string {
	return "NOTIFICATIONS_" + subject
}

func ensureStream(js nats.JetStreamContext, subject string, log *zap.Logger) error {
	name := StreamName(subject)
	_, err := js.StreamInfo(name)
	if err == nil {
		log.Info("Using existing stream", zap.String("name", name))
		return nil
	}
	if err != nats.ErrStreamNotFound {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
		MaxMsgs:  -1,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	log.Info("Created stream", zap.String("name", name), zap.String("subject", subject))
	return nil
}

func (p *NATSPublisher) Publish(ctx context.Context, body []byte) error {
	ack, err := p.js.Publish(p.subject, body, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	p.log.Debug("Published to JetStream", zap.String("stream", ack.Stream), zap.Uint64("seq", ack.Sequence))
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
