package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest dependency snapshot served on /health. The two
// Redis instances are reported separately because losing the payment
// resolution cache degrades settlement while the general cache only affects
// read performance.
type HealthStatus struct {
	Mongo        bool      `json:"mongo"`
	Cache        bool      `json:"cache"`
	PaymentCache bool      `json:"paymentCache"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks Mongo and both Redis instances once immediately
// and then every minute, keeping the in-memory snapshot current.
func StartHealthMonitor(cache, paymentCache *redis.Client, mongoClient *mongo.Client) {
	check := func(ctx context.Context) {
		snapshot := HealthStatus{
			Mongo:        mongoClient.Ping(ctx, nil) == nil,
			Cache:        cache.Ping(ctx).Err() == nil,
			PaymentCache: paymentCache.Ping(ctx).Err() == nil,
			CheckedAt:    time.Now(),
		}

		healthMu.Lock()
		currentHealth = snapshot
		healthMu.Unlock()
	}

	go func() {
		ctx := context.Background()
		check(ctx)

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			check(ctx)
		}
	}()
}
