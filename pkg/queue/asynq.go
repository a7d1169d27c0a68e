package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeNotification is the asynq task type consumers register a handler for.
const TaskTypeNotification = "notification:send"

// AsynqPublisher enqueues each message as an asynq task on the queue. Retries
// are disabled: delivery is at most once.
type AsynqPublisher struct {
	client *asynq.Client
	queue  string
	log    *zap.Logger
}

func NewAsynqPublisher(redisAddr, queue string, log *zap.Logger) *AsynqPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AsynqPublisher{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		queue:  queue,
		log:    log,
	}
}

func (p *AsynqPublisher) Publish(ctx context.Context, body []byte) error {
	task := asynq.NewTask(TaskTypeNotification, body)
	info, err := p.client.EnqueueContext(ctx, task, asynq.Queue(p.queue), asynq.MaxRetry(0))
	if err != nil {
		return fmt.Errorf("asynq enqueue: %w", err)
	}
	p.log.Debug("Enqueued notification task", zap.String("queue", info.Queue), zap.String("task_id", info.ID))
	return nil
}

func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
