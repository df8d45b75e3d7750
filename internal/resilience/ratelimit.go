package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig describes a token bucket in the upstream API's terms:
// at most MaxRequests calls per Window.
type RateLimiterConfig struct {
	MaxRequests int           // Bucket capacity
	Window      time.Duration // Time to refill the full bucket
}

// DefaultRateLimiterConfig returns the limits used against public
// Ergast-compatible mirrors: 100 requests per minute.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxRequests: 100,
		Window:      time.Minute,
	}
}

// RateLimiter gates outbound requests with a token bucket. Tokens refill at
// MaxRequests/Window and never accumulate past MaxRequests.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter from cfg. Zero or negative values
// fall back to defaults.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	rps := float64(cfg.MaxRequests) / cfg.Window.Seconds()
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), cfg.MaxRequests),
	}
}

// Acquire blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow takes a token without blocking; false means the caller should back off.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Limited reports whether a call right now would have to wait. Observability
// only; the answer may be stale by the time the caller acts on it.
func (r *RateLimiter) Limited() bool {
	return r.limiter.Tokens() < 1
}

// Tokens returns the number of tokens currently available.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}

// SetLimit updates the rate and capacity at runtime.
func (r *RateLimiter) SetLimit(cfg RateLimiterConfig) {
	rps := float64(cfg.MaxRequests) / cfg.Window.Seconds()
	r.limiter.SetLimit(rate.Limit(rps))
	r.limiter.SetBurst(cfg.MaxRequests)
}
