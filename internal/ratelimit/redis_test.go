package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisLimiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l, err := NewRedisLimiterFromClient(client, "test")
	require.NoError(t, err)
	return mr, l
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr, l := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "like:u1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "like:u1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// rejected attempts count too, and do not extend the window
	val, err := mr.Get("test:like:u1")
	require.NoError(t, err)
	assert.Equal(t, "4", val)
	assert.True(t, mr.TTL("test:like:u1") > 0)
	assert.True(t, mr.TTL("test:like:u1") <= time.Minute)

	mr.FastForward(time.Minute + time.Millisecond)

	ok, err = l.Allow(ctx, "like:u1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_SharedAcrossClients(t *testing.T) {
	mr, a := newTestRedis(t)
	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = other.Close() })
	b, err := NewRedisLimiterFromClient(other, "test")
	require.NoError(t, err)
	ctx := context.Background()

	ok, _ := a.Allow(ctx, "k", 2, time.Minute)
	assert.True(t, ok)
	ok, _ = b.Allow(ctx, "k", 2, time.Minute)
	assert.True(t, ok)
	ok, _ = a.Allow(ctx, "k", 2, time.Minute)
	assert.False(t, ok)
}

func TestRedisLimiter_StoreDown(t *testing.T) {
	mr, l := newTestRedis(t)
	mr.Close()

	_, err := l.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestNewRedisLimiter(t *testing.T) {
	_, err := NewRedisLimiter(context.Background(), "")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	l, err := NewRedisLimiter(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
