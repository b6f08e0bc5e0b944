// Package ratelimit bounds how often a key may act inside a fixed window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
)

const defaultPrefix = "racefinder:rl"

// Limiter reports whether one more action for key fits in the current window.
// Every call counts against the window, rejected ones included.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func allow(ctx context.Context, store limiter.Store, key string, limit int, window time.Duration) (bool, error) {
	res, err := store.Get(ctx, key, limiter.Rate{Period: window, Limit: int64(limit)})
	if err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}
	return !res.Reached, nil
}
