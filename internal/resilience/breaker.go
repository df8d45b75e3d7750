package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	Name          string
	MaxRequests   uint32        // Max requests in half-open state
	Interval      time.Duration // Counting interval in closed state (0 = never reset)
	Timeout       time.Duration // Time in open state before half-open
	Threshold     uint32        // Consecutive failures before opening
	OnStateChange func(name string, from, to string)
}

// DefaultBreakerConfig returns defaults matching the upstream contract: the
// breaker opens after 5 consecutive failures and allows a single trial
// request after 60 seconds.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		Threshold:   5,
	}
}

// NewBreaker creates a circuit breaker with the given configuration. The
// breaker trips on consecutive failures only; a success anywhere resets the
// count, and a single half-open success closes the circuit again.
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Threshold
		},
	}

	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// IsOpen returns true if the circuit breaker is in the open state.
func IsOpen[T any](cb *gobreaker.CircuitBreaker[T]) bool {
	return cb.State() == gobreaker.StateOpen
}

// BreakerSnapshot is a read-only view of breaker state for observability.
type BreakerSnapshot struct {
	State                string `json:"state"`
	Requests             uint32 `json:"requests"`
	TotalFailures        uint32 `json:"total_failures"`
	ConsecutiveFailures  uint32 `json:"consecutive_failures"`
	ConsecutiveSuccesses uint32 `json:"consecutive_successes"`
}

// Snapshot returns the breaker's current state and counts.
func Snapshot[T any](cb *gobreaker.CircuitBreaker[T]) BreakerSnapshot {
	counts := cb.Counts()
	return BreakerSnapshot{
		State:                cb.State().String(),
		Requests:             counts.Requests,
		TotalFailures:        counts.TotalFailures,
		ConsecutiveFailures:  counts.ConsecutiveFailures,
		ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
	}
}
