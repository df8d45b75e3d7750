package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.jolpi.ca/ergast/f1", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, uint32(5), cfg.FailureThreshold)
	assert.Equal(t, 60*time.Second, cfg.ResetTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 30*time.Second, cfg.BatchTimeout)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("F1_API_BASE_URL", "http://localhost:8080/f1")
	t.Setenv("F1_API_USER_AGENT", "test-agent/2.0")
	t.Setenv("RATE_LIMIT_REQUESTS", "50")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "10")
	t.Setenv("BREAKER_RESET_TIMEOUT", "90s")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("POOL_SIZE", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/f1", cfg.BaseURL)
	assert.Equal(t, "test-agent/2.0", cfg.UserAgent)
	assert.Equal(t, 50, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, uint32(10), cfg.FailureThreshold)
	assert.Equal(t, 90*time.Second, cfg.ResetTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 4, cfg.PoolSize)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")
	t.Setenv("BREAKER_RESET_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, 60*time.Second, cfg.ResetTimeout)
}
