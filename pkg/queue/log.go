package queue

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes messages to the log instead of a broker. Used for local
// development when no broker is configured.
type LogPublisher struct {
	name string
	log  *zap.Logger
}

func NewLogPublisher(name string, log *zap.Logger) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{name: name, log: log}
}

func (p *LogPublisher) Publish(_ context.Context, body []byte) error {
	p.log.Info("Message published", zap.String("queue", p.name), zap.ByteString("body", body))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
