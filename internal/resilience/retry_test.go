package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, d)
	return nil
}

func TestIsRetryable(t *testing.T) {
	plain := errors.New("boom")
	_, ok := IsRetryable(plain)
	assert.False(t, ok)

	retryable := NewRetryableError(plain, 3*time.Second)
	after, ok := IsRetryable(retryable)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, after)

	// Wrapped retryable errors are still detected.
	wrapped := errors.Join(errors.New("outer"), retryable)
	_, ok = IsRetryable(wrapped)
	assert.True(t, ok)
}

func TestRetryableError_Unwrap(t *testing.T) {
	cause := errors.New("upstream down")
	err := NewRetryableError(cause, 0)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	fn := func() (int, error) {
		attempts++
		if attempts < 3 {
			return 0, NewRetryableError(errors.New("transient"), 0)
		}
		return 42, nil
	}

	sleeper := &recordingSleeper{}
	result, err := Retry(context.Background(), DefaultRetryConfig(), sleeper, fn)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, attempts)
	assert.Len(t, sleeper.calls, 2)
}

func TestRetry_NonRetryableFailsImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	attempts := 0
	fn := func() (int, error) {
		attempts++
		return 0, permanent
	}

	sleeper := &recordingSleeper{}
	_, err := Retry(context.Background(), DefaultRetryConfig(), sleeper, fn)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, sleeper.calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	fn := func() (int, error) {
		attempts++
		return 0, NewRetryableError(errors.New("still failing"), 0)
	}

	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 2

	_, err := Retry(context.Background(), cfg, &recordingSleeper{}, fn)

	assert.Error(t, err)
	assert.Equal(t, 3, attempts, "1 initial attempt + 2 retries")
}

func TestRetry_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := func() (int, error) {
		return 0, NewRetryableError(errors.New("transient"), 0)
	}

	_, err := Retry(ctx, DefaultRetryConfig(), &recordingSleeper{}, fn)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff_ExponentialSchedule(t *testing.T) {
	cfg := RetryConfig{
		BaseWait:   time.Second,
		MaxWait:    30 * time.Second,
		Multiplier: 2.0,
	}

	err := NewRetryableError(errors.New("boom"), 0)
	assert.Equal(t, time.Second, Backoff(cfg, 0, err))
	assert.Equal(t, 2*time.Second, Backoff(cfg, 1, err))
	assert.Equal(t, 4*time.Second, Backoff(cfg, 2, err))
	assert.Equal(t, 8*time.Second, Backoff(cfg, 3, err))
}

func TestBackoff_CappedAtMaxWait(t *testing.T) {
	cfg := RetryConfig{
		BaseWait:   time.Second,
		MaxWait:    5 * time.Second,
		Multiplier: 2.0,
	}

	err := NewRetryableError(errors.New("boom"), 0)
	assert.Equal(t, 5*time.Second, Backoff(cfg, 10, err))
}

func TestBackoff_RetryAfterOverridesSchedule(t *testing.T) {
	cfg := DefaultRetryConfig()

	err := NewRetryableError(errors.New("rate limited"), 17*time.Second)
	assert.Equal(t, 17*time.Second, Backoff(cfg, 0, err))
}

func TestBackoff_ZeroBaseWaitDoesNotPanic(t *testing.T) {
	cfg := RetryConfig{Jitter: 0.2}

	err := NewRetryableError(errors.New("boom"), 0)
	assert.NotPanics(t, func() {
		assert.Equal(t, time.Duration(0), Backoff(cfg, 0, err))
	})
}

func TestBackoff_JitterStaysInBand(t *testing.T) {
	cfg := RetryConfig{
		BaseWait:   time.Second,
		MaxWait:    30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
	}

	err := NewRetryableError(errors.New("boom"), 0)
	for i := 0; i < 50; i++ {
		wait := Backoff(cfg, 1, err)
		assert.GreaterOrEqual(t, wait, 1600*time.Millisecond)
		assert.LessOrEqual(t, wait, 2400*time.Millisecond)
	}
}

func TestRealSleeper_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RealSleeper{}.Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
