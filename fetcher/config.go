package fetcher

import (
	"os"
	"strconv"
	"time"
)

// Config holds fetcher configuration.
type Config struct {
	// API settings
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	KeepAlive      time.Duration
	MaxIdleConns   int
	IdleTimeout    time.Duration

	// Rate limiting
	RateLimitRequests int           // Max requests per window
	RateLimitWindow   time.Duration // Refill window

	// Circuit breaker
	FailureThreshold uint32        // Consecutive failures before opening
	ResetTimeout     time.Duration // Open-state duration before a trial request

	// Retry settings
	MaxRetries    int
	RetryBaseWait time.Duration
	RetryMaxWait  time.Duration
	RetryFactor   float64

	// Batch settings
	PoolSize     int           // Concurrent workers for Batch/FetchAll
	BatchTimeout time.Duration // Overall deadline for a batch

	// Content limits
	MaxResponseBytes int64
}

// DefaultConfig returns a Config with sensible defaults for the public
// Ergast mirrors.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.jolpi.ca/ergast/f1",
		UserAgent:         "DriveAhead-F1-Analytics/1.0",
		RequestTimeout:    10 * time.Second,
		KeepAlive:         30 * time.Second,
		MaxIdleConns:      100,
		IdleTimeout:       90 * time.Second,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		FailureThreshold:  5,
		ResetTimeout:      60 * time.Second,
		MaxRetries:        3,
		RetryBaseWait:     time.Second,
		RetryMaxWait:      30 * time.Second,
		RetryFactor:       2.0,
		PoolSize:          10,
		BatchTimeout:      30 * time.Second,
		MaxResponseBytes:  10 << 20, // 10MB
	}
}

// applyDefaults fills zero-valued knobs so a hand-built Config behaves like
// DefaultConfig for anything left unset. MaxRetries is left alone: zero
// means no retries.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = def.KeepAlive
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = def.MaxIdleConns
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	if c.RateLimitRequests <= 0 {
		c.RateLimitRequests = def.RateLimitRequests
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = def.RateLimitWindow
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = def.ResetTimeout
	}
	if c.RetryBaseWait <= 0 {
		c.RetryBaseWait = def.RetryBaseWait
	}
	if c.RetryMaxWait <= 0 {
		c.RetryMaxWait = def.RetryMaxWait
	}
	if c.RetryFactor <= 0 {
		c.RetryFactor = def.RetryFactor
	}
	if c.PoolSize <= 0 {
		c.PoolSize = def.PoolSize
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = def.BatchTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = def.MaxResponseBytes
	}
}

// LoadConfig loads configuration from environment variables, falling back
// to defaults for anything unset.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if url := getEnv("F1_API_BASE_URL", ""); url != "" {
		cfg.BaseURL = url
	}

	if ua := getEnv("F1_API_USER_AGENT", ""); ua != "" {
		cfg.UserAgent = ua
	}

	if d, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s")); err == nil {
		cfg.RequestTimeout = d
	}

	if i, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "100")); err == nil {
		cfg.RateLimitRequests = i
	}

	if d, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "60s")); err == nil {
		cfg.RateLimitWindow = d
	}

	if i, err := strconv.ParseUint(getEnv("BREAKER_FAILURE_THRESHOLD", "5"), 10, 32); err == nil {
		cfg.FailureThreshold = uint32(i)
	}

	if d, err := time.ParseDuration(getEnv("BREAKER_RESET_TIMEOUT", "60s")); err == nil {
		cfg.ResetTimeout = d
	}

	if i, err := strconv.Atoi(getEnv("MAX_RETRIES", "3")); err == nil {
		cfg.MaxRetries = i
	}

	if d, err := time.ParseDuration(getEnv("RETRY_BASE_WAIT", "1s")); err == nil {
		cfg.RetryBaseWait = d
	}

	if d, err := time.ParseDuration(getEnv("RETRY_MAX_WAIT", "30s")); err == nil {
		cfg.RetryMaxWait = d
	}

	if f, err := strconv.ParseFloat(getEnv("RETRY_FACTOR", "2.0"), 64); err == nil {
		cfg.RetryFactor = f
	}

	if i, err := strconv.Atoi(getEnv("POOL_SIZE", "10")); err == nil {
		cfg.PoolSize = i
	}

	if d, err := time.ParseDuration(getEnv("BATCH_TIMEOUT", "30s")); err == nil {
		cfg.BatchTimeout = d
	}

	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
