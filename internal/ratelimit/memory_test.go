package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "like:u1", 10, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}

	ok, err := l.Allow(ctx, "like:u1", 10, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// other keys are independent
	ok, _ = l.Allow(ctx, "like:u2", 10, time.Minute)
	assert.True(t, ok)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()
	window := 150 * time.Millisecond

	ok, err := l.Allow(ctx, "k", 1, window)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, "k", 1, window)
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(window + 50*time.Millisecond)

	ok, err = l.Allow(ctx, "k", 1, window)
	require.NoError(t, err)
	assert.True(t, ok)
}
