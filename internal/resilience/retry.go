package resilience

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int           // Number of retries after the first attempt (0 = no retries)
	BaseWait    time.Duration // Initial wait duration
	MaxWait     time.Duration // Maximum wait duration
	Multiplier  float64       // Backoff multiplier (e.g. 2.0 for exponential)
	Jitter      float64       // Jitter factor (0.0-1.0)
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseWait:    time.Second,
		MaxWait:     30 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
	}
}

// RetryableError wraps an error with retry information.
type RetryableError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a retryable error.
func NewRetryableError(err error, retryAfter time.Duration) *RetryableError {
	return &RetryableError{Err: err, RetryAfter: retryAfter}
}

// IsRetryable checks if an error should be retried.
func IsRetryable(err error) (time.Duration, bool) {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return retryErr.RetryAfter, true
	}
	return 0, false
}

// Sleeper abstracts time-based waiting so retry timing is testable.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper waits on the wall clock.
type RealSleeper struct{}

// Sleep waits for d or until ctx is cancelled.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Retry executes fn with retries according to cfg. Only errors wrapped in
// RetryableError are retried; anything else returns immediately. The sleeper
// may be nil, in which case the wall clock is used.
func Retry[T any](ctx context.Context, cfg RetryConfig, sleeper Sleeper, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	if sleeper == nil {
		sleeper = RealSleeper{}
	}

	for attempt := 0; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if _, ok := IsRetryable(err); !ok {
			return zero, err
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		wait := Backoff(cfg, attempt, lastErr)
		if err := sleeper.Sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

// Backoff computes the wait before retry number attempt+1. A RetryAfter hint
// on the error wins over the exponential schedule.
func Backoff(cfg RetryConfig, attempt int, err error) time.Duration {
	if retryAfter, ok := IsRetryable(err); ok && retryAfter > 0 {
		return retryAfter
	}

	wait := float64(cfg.BaseWait)
	for i := 0; i < attempt; i++ {
		wait *= cfg.Multiplier
	}

	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// Jitter via crypto/rand. rand.Int needs a positive max, so a zero
	// base wait skips jitter instead of panicking.
	if cfg.Jitter > 0 {
		jitterRange := wait * cfg.Jitter
		if bound := int64(jitterRange * 2); bound > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(bound))
			if err == nil {
				wait += float64(n.Int64()) - jitterRange
			}
		}
	}

	return time.Duration(wait)
}
