package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"parkhive/config"
	"parkhive/models"
	"parkhive/services/notification"
	"parkhive/services/tasks"
	"parkhive/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the async notification worker in background.
// Each consumer processes one message at a time; scale out by running more
// instances against the same queue.
func InitNotificationWorker(sender notification.EmailSender) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				tasks.QueueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendNotification, handleNotificationTask(sender))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[NotificationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleNotificationTask dispatches a queued event to the matching email
// sender. A failed send is retried by redelivery until the task's attempt
// budget runs out, after which the message is acknowledged and dropped so a
// stuck notification cannot block the queue.
func handleNotificationTask(sender notification.EmailSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var event models.NotificationEvent
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			logger.Error("Invalid notification payload, dropping message", zap.Error(err))
			return nil
		}

		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		return processEvent(sender, event, retried, maxRetry)
	}
}

// processEvent sends one event and applies the bounded-retry policy: a failed
// send is retried by redelivery while attempts remain, then acknowledged and
// dropped so a stuck notification cannot block the queue. No dead-letter.
func processEvent(sender notification.EmailSender, event models.NotificationEvent, retried, maxRetry int) error {
	logger := utils.GetLogger()

	logger.Info("Processing notification event",
		zap.String("type", event.Type),
		zap.String("email", event.Data.Email),
	)

	err := dispatch(sender, event)
	if err == nil {
		return nil
	}

	if retried >= maxRetry {
		logger.Error("Notification delivery failed permanently, dropping message",
			zap.String("type", event.Type),
			zap.String("email", event.Data.Email),
			zap.Int("attempts", retried+1),
			zap.Error(err),
		)
		return nil
	}

	logger.Warn("Notification delivery failed, will retry",
		zap.String("type", event.Type),
		zap.Int("attempt", retried+1),
		zap.Error(err),
	)
	return err
}

// dispatch routes the event to the send capability matching its type.
func dispatch(sender notification.EmailSender, event models.NotificationEvent) error {
	switch event.Type {
	case models.EventReservation:
		return sender.SendReservationEmail(event.Data)
	case models.EventUpdate:
		return sender.SendUpdateEmail(event.Data)
	case models.EventCancellation:
		return sender.SendCancellationEmail(event.Data)
	case models.EventCancellationAdmin:
		return sender.SendAdminCancellationEmail(event.Data)
	default:
		utils.GetLogger().Warn("Unknown notification event type, dropping message",
			zap.String("type", event.Type),
		)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotificationWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
