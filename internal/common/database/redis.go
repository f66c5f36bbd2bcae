// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"event-package-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the catalog snapshot cache connection.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	client := &RedisClient{Client: rdb}
	if err := client.Ping(ctx); err != nil {
		rdb.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
