package fetcher

import (
	"sync"
	"time"
)

// RequestStats is a read-only snapshot of aggregate request counters plus
// the breaker and limiter state, for observability and health endpoints.
type RequestStats struct {
	RequestsTotal    int64         `json:"requests_total"`
	RequestsSuccess  int64         `json:"requests_success"`
	RequestsFailed   int64         `json:"requests_failed"`
	AvgResponseTime  time.Duration `json:"avg_response_time"`
	ConnectionErrors int64         `json:"connection_errors"`

	CircuitState    string `json:"circuit_breaker_state"`
	CircuitFailures uint32 `json:"circuit_breaker_failures"`
	RateLimited     bool   `json:"rate_limiter_active"`
}

// statsCollector accumulates counters under a mutex; the running latency
// average needs a read-modify-write so atomics alone do not suffice.
type statsCollector struct {
	mu          sync.Mutex
	total       int64
	success     int64
	failed      int64
	connErrors  int64
	avgResponse time.Duration
}

func (s *statsCollector) record(latency time.Duration, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if success {
		s.success++
	} else {
		s.failed++
	}
	s.avgResponse = time.Duration(
		(int64(s.avgResponse)*(s.total-1) + int64(latency)) / s.total,
	)
}

func (s *statsCollector) recordConnError(latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.failed++
	s.connErrors++
	s.avgResponse = time.Duration(
		(int64(s.avgResponse)*(s.total-1) + int64(latency)) / s.total,
	)
}

func (s *statsCollector) snapshot() RequestStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RequestStats{
		RequestsTotal:    s.total,
		RequestsSuccess:  s.success,
		RequestsFailed:   s.failed,
		AvgResponseTime:  s.avgResponse,
		ConnectionErrors: s.connErrors,
	}
}
