package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RedisLimiter is a fixed-window counter shared by every instance pointing at
// the same Redis.
type RedisLimiter struct {
	client *redis.Client
	store  limiter.Store
}

// NewRedisLimiter parses a redis:// URL and pings the server.
func NewRedisLimiter(ctx context.Context, url string) (*RedisLimiter, error) {
	if url == "" {
		return nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	l, err := NewRedisLimiterFromClient(client, defaultPrefix)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return l, nil
}

func NewRedisLimiterFromClient(client *redis.Client, prefix string) (*RedisLimiter, error) {
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limiter store: %w", err)
	}
	return &RedisLimiter{client: client, store: store}, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return allow(ctx, r.store, key, limit, window)
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
