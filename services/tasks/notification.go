package tasks

import (
	"encoding/json"

	"parkhive/models"

	"github.com/hibiken/asynq"
)

const TypeSendNotification = "notification:send"

// QueueName is the single logical queue shared by all producers and consumers.
const QueueName = "notifications"

// NewNotificationTask wraps a notification event as an asynq task bound to the
// shared queue. maxAttempts is the total delivery attempt budget for the task.
func NewNotificationTask(event models.NotificationEvent, maxAttempts int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendNotification, b)
	opts := []asynq.Option{
		asynq.Queue(QueueName),
		// MaxRetry counts redeliveries after the first attempt.
		asynq.MaxRetry(maxAttempts - 1),
	}

	return task, opts, nil
}
