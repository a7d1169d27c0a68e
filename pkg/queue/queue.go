package queue

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Publisher hands a serialized message to a durable, named queue. Publish
// returns once the transport has accepted the message.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

var ErrUnknownDriver = errors.New("unknown queue driver")

type Config struct {
	Driver string
	Name   string

	GoogleProjectID   string
	GoogleCredentials string
	NATSURL           string
	RabbitMQURL       string
	RedisAddr         string
}

// New builds the publisher selected by cfg.Driver.
func New(ctx context.Context, cfg Config, log *zap.Logger) (Publisher, error) {
	if cfg.Name == "" {
		cfg.Name = "notifier"
	}

	switch cfg.Driver {
	case "", "log":
		return NewLogPublisher(cfg.Name, log), nil
	case "pubsub":
		return NewPubSubPublisher(ctx, cfg.GoogleProjectID, cfg.Name, cfg.GoogleCredentials, log)
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.Name, log)
	case "amqp", "rabbitmq":
		return NewAMQPPublisher(cfg.RabbitMQURL, cfg.Name, log)
	case "asynq":
		return NewAsynqPublisher(cfg.RedisAddr, cfg.Name, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
