package ratelimit

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter keeps per-key counters in process memory. Limits are per
// instance and reset on restart.
type MemoryLimiter struct {
	store limiter.Store
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		store: memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          defaultPrefix,
			CleanUpInterval: 30 * time.Second,
		}),
	}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return allow(ctx, m.store, key, limit, window)
}
