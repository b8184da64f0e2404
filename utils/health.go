package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest probe result for each backing dependency. Redis
// entries are keyed by role (cache, locks) rather than listed positionally.
type HealthStatus struct {
	ReservationStore bool            `json:"reservationStore"`
	Redis            map[string]bool `json:"redis"`
	CheckedAt        time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor probes the reservation store and each redis role
// periodically and keeps the snapshot served by /health current.
func StartHealthMonitor(redisClients map[string]*redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			redisHealth := make(map[string]bool, len(redisClients))
			for role, client := range redisClients {
				redisHealth[role] = client.Ping(ctx).Err() == nil
			}

			mu.Lock()
			currentHealth = HealthStatus{
				ReservationStore: mongoClient.Ping(ctx, nil) == nil,
				Redis:            redisHealth,
				CheckedAt:        time.Now(),
			}
			mu.Unlock()
		}
	}()
}
