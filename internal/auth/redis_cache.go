package auth

import (
	"context"
	"fmt"
	"time"

	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/logger"

	"github.com/go-redis/redis/v8"
)

// InitializeClaimsCache connects to Redis and checks it accepts writes. Callers treat an
// error as "run without a cache".
func InitializeClaimsCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("AUTH", fmt.Sprintf("Failed to connect to Redis at %s: %v", cfg.Addr, err))
		client.Close()
		return nil, err
	}

	testKey := claimsKeyPrefix + "healthcheck"
	if err := client.Set(ctx, testKey, "ok", 5*time.Second).Err(); err != nil {
		log.Error("AUTH", fmt.Sprintf("Failed to write test value to Redis: %v", err))
		client.Close()
		return nil, err
	}

	log.Info("AUTH", fmt.Sprintf("Redis claims cache ready at %s", cfg.Addr))
	return client, nil
}
