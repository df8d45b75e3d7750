package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BurstUpToCapacity(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{MaxRequests: 5, Window: time.Hour})

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(), "token %d should be available", i)
	}
	assert.False(t, rl.Allow(), "bucket should be empty")
}

func TestRateLimiter_LimitedReflectsTokens(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{MaxRequests: 2, Window: time.Hour})

	assert.False(t, rl.Limited())

	rl.Allow()
	rl.Allow()

	assert.True(t, rl.Limited())
}

func TestRateLimiter_AcquireBlocksUntilRefill(t *testing.T) {
	// 20 tokens per second: an empty bucket refills one token in 50ms.
	rl := NewRateLimiter(RateLimiterConfig{MaxRequests: 20, Window: time.Second})
	for i := 0; i < 20; i++ {
		rl.Allow()
	}

	start := time.Now()
	require.NoError(t, rl.Acquire(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRateLimiter_AcquireHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{MaxRequests: 1, Window: time.Hour})
	require.True(t, rl.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Acquire(ctx)
	assert.Error(t, err)
}

func TestRateLimiter_DefaultsApplied(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	assert.InDelta(t, 100, rl.Tokens(), 1)
}
