package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"operator/config"
)

// ConnectRedis returns nil when no Redis URL is configured; the lockout
// service and sync feed degrade gracefully without it.
func ConnectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		log.Println("Redis not configured, lockout and sync disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURL,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisURL, err)
	}

	fmt.Println("Redis connected")
	return rdb
}
