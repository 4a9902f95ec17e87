// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"tourly/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// PaymentCacheClient is the dedicated client for resolved-payment caching.
	PaymentCacheClient *redis.Client
)

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitPaymentCache initializes the Redis client used by the payment
// reconciler for terminal-result caching and pending references.
func InitPaymentCache() {
	PaymentCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.PaymentCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PaymentCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Payment Cache): %v", err)
	}
}

// GetPaymentCacheClient returns the Redis client for payment resolution caching.
func GetPaymentCacheClient() *redis.Client {
	if PaymentCacheClient == nil {
		InitPaymentCache()
	}
	return PaymentCacheClient
}
