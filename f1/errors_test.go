package f1

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_SentinelMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{400, ErrBadRequest},
		{404, ErrNotFound},
		{429, ErrTooManyRequests},
		{500, ErrUpstream},
		{502, ErrUpstream},
		{503, ErrUpstream},
	}

	for _, tt := range tests {
		err := NewAPIError("https://example.test/f1", tt.status, "body")
		assert.ErrorIs(t, err, tt.sentinel, "status %d", tt.status)
	}
}

func TestAPIError_Retryability(t *testing.T) {
	retryable := []int{429, 500, 502, 503, 504}
	for _, status := range retryable {
		err := NewAPIError("u", status, "")
		assert.True(t, err.IsRetryable(), "status %d should be retryable", status)
	}

	permanent := []int{400, 401, 403, 404, 422}
	for _, status := range permanent {
		err := NewAPIError("u", status, "")
		assert.False(t, err.IsRetryable(), "status %d should not be retryable", status)
	}
}

func TestAPIError_MessageIncludesStatusAndURL(t *testing.T) {
	err := NewAPIError("https://example.test/current.json", 503, "overloaded")

	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "https://example.test/current.json")
}

func TestAPIError_RetryAfterCarried(t *testing.T) {
	err := NewAPIErrorWithRetry("u", 429, "", 9*time.Second)
	assert.Equal(t, 9*time.Second, err.RetryAfter)
}

func TestAPIError_ErrorsAs(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), NewAPIError("u", 404, ""))

	var apiErr *APIError
	require.ErrorAs(t, wrapped, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}
