package f1

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors - use with errors.Is()
var (
	// Upstream errors
	ErrBadRequest      = errors.New("apexgo: bad request")
	ErrNotFound        = errors.New("apexgo: not found")
	ErrTooManyRequests = errors.New("apexgo: too many requests")
	ErrUpstream        = errors.New("apexgo: upstream server error")

	// Client errors
	ErrCircuitOpen      = errors.New("apexgo: circuit breaker open")
	ErrMaxRetries       = errors.New("apexgo: max retries exceeded")
	ErrResponseTooLarge = errors.New("apexgo: response too large")
	ErrBatchTimeout     = errors.New("apexgo: batch deadline exceeded")

	// Validation errors
	ErrInvalidConfig = errors.New("apexgo: invalid configuration")
)

// APIError represents a non-2xx response from the upstream API.
// Use errors.As() to extract details, errors.Is() to match sentinels.
type APIError struct {
	StatusCode int
	URL        string
	Body       string        // Truncated response body for diagnostics
	RetryAfter time.Duration // From the Retry-After header, when present
	cause      error         // Underlying sentinel for errors.Is()
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("apexgo: %s returned %d (retry_after=%s)",
			e.URL, e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("apexgo: %s returned %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying sentinel error for errors.Is() support.
func (e *APIError) Unwrap() error { return e.cause }

// IsRetryable reports whether the error is transient and may succeed on
// retry: 429 plus the usual transient 5xx family.
func (e *APIError) IsRetryable() bool {
	switch e.StatusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// NewAPIError creates an APIError with automatic sentinel detection.
func NewAPIError(url string, status int, body string) *APIError {
	return &APIError{
		StatusCode: status,
		URL:        url,
		Body:       body,
		cause:      detectSentinel(status),
	}
}

// NewAPIErrorWithRetry creates an APIError carrying a retry-after hint.
func NewAPIErrorWithRetry(url string, status int, body string, retryAfter time.Duration) *APIError {
	e := NewAPIError(url, status, body)
	e.RetryAfter = retryAfter
	return e
}

func detectSentinel(status int) error {
	switch {
	case status == 400:
		return ErrBadRequest
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrTooManyRequests
	case status >= 500:
		return ErrUpstream
	}
	return nil
}
