package queue

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// PubSubPublisher publishes to a Google Cloud Pub/Sub topic named after the queue.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	log    *zap.Logger
}

func NewPubSubPublisher(ctx context.Context, projectID, topicName, credentialsFile string, log *zap.Logger) (*PubSubPublisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	p, err := NewPubSubPublisherWithClient(ctx, client, topicName, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

// NewPubSubPublisherWithClient uses an existing client, creating the topic
// when it does not exist yet.
func NewPubSubPublisherWithClient(ctx context.Context, client *pubsub.Client, topicName string, log *zap.Logger) (*PubSubPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", topicName, err)
		}
		log.Info("Created pubsub topic", zap.String("topic", topicName))
	}

	return &PubSubPublisher{client: client, topic: topic, log: log}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, body []byte) error {
	res := p.topic.Publish(ctx, &pubsub.Message{Data: body})
	id, err := res.Get(ctx)
	if err != nil {
		return fmt.Errorf("pubsub publish: %w", err)
	}
	p.log.Debug("Published to pubsub", zap.String("topic", p.topic.ID()), zap.String("message_id", id))
	return nil
}

func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
