package notification

import (
	"fmt"

	"parkhive/config"
	"parkhive/models"
	"parkhive/services/tasks"

	"github.com/hibiken/asynq"
)

// AsynqPublisher implements Publisher on top of a long-lived asynq client.
// The client is created once at process start; each publish is a lightweight
// enqueue over the shared connection pool.
type AsynqPublisher struct {
	Client      *asynq.Client
	MaxAttempts int
}

// NewAsynqPublisher creates a publisher connected to the queue broker.
func NewAsynqPublisher() *AsynqPublisher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqPublisher{
		Client:      client,
		MaxAttempts: config.AppConfig.NotifyMaxAttempts,
	}
}

// Publish serializes the event and enqueues it on the shared queue.
func (p *AsynqPublisher) Publish(event models.NotificationEvent) error {
	task, opts, err := tasks.NewNotificationTask(event, p.MaxAttempts)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	if _, err := p.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying broker connection.
func (p *AsynqPublisher) Close() error {
	return p.Client.Close()
}
