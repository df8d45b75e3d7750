package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/driveahead/apexgo/f1"
	"github.com/driveahead/apexgo/internal/resilience"
)

// Request describes one outbound call. Method defaults to GET; Timeout
// overrides the client's per-call default when positive.
type Request struct {
	Method  string
	URL     string
	Params  url.Values
	Body    any // JSON-encoded for POST/PUT
	Headers http.Header
	Timeout time.Duration
}

// Response is a completed upstream call.
type Response struct {
	StatusCode   int
	Header       http.Header
	Body         []byte
	ResponseTime time.Duration
}

// JSON decodes the response body into out.
func (r *Response) JSON(out any) error {
	return json.Unmarshal(r.Body, out)
}

// Client performs HTTP calls against an Ergast-compatible API with rate
// limiting, circuit breaking, retries and statistics collection.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *resilience.RateLimiter
	breaker    *gobreaker.CircuitBreaker[*Response]
	sleeper    resilience.Sleeper
	stats      *statsCollector
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL sets the API base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.config.BaseURL = url
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.config.UserAgent = ua
	}
}

// WithRetries sets the number of retries after the first attempt.
func WithRetries(max int) Option {
	return func(c *Client) {
		c.config.MaxRetries = max
	}
}

// WithRateLimit caps outbound calls at maxRequests per window.
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(c *Client) {
		c.config.RateLimitRequests = maxRequests
		c.config.RateLimitWindow = window
	}
}

// WithBreaker sets the consecutive-failure threshold and the open-state
// duration before a trial request is allowed.
func WithBreaker(threshold uint32, resetTimeout time.Duration) Option {
	return func(c *Client) {
		c.config.FailureThreshold = threshold
		c.config.ResetTimeout = resetTimeout
	}
}

// WithSleeper sets a custom sleeper for retry timing (useful for testing).
func WithSleeper(s resilience.Sleeper) Option {
	return func(c *Client) {
		c.sleeper = s
	}
}

// WithPoolSize bounds the worker pool used by Batch and FetchAll.
func WithPoolSize(n int) Option {
	return func(c *Client) {
		c.config.PoolSize = n
	}
}

func createHTTPClient(cfg Config) *http.Client {
	return &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: cfg.KeepAlive,
			}).DialContext,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     cfg.IdleTimeout,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// New creates a Client with default configuration and the given options.
func New(opts ...Option) (*Client, error) {
	return NewFromConfig(DefaultConfig(), opts...)
}

// NewFromConfig creates a Client from a Config. Zero-valued knobs fall back
// to the DefaultConfig values, so a minimal Config with just a BaseURL is
// usable.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		config: cfg,
		stats:  &statsCollector{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.config.BaseURL == "" {
		return nil, fmt.Errorf("%w: missing base URL", f1.ErrInvalidConfig)
	}
	c.config.applyDefaults()

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.httpClient == nil {
		c.httpClient = createHTTPClient(c.config)
	}

	if c.sleeper == nil {
		c.sleeper = resilience.RealSleeper{}
	}

	c.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
		MaxRequests: c.config.RateLimitRequests,
		Window:      c.config.RateLimitWindow,
	})

	breakerCfg := resilience.DefaultBreakerConfig("apexgo-fetcher")
	breakerCfg.Threshold = c.config.FailureThreshold
	breakerCfg.Timeout = c.config.ResetTimeout
	breakerCfg.OnStateChange = func(name, from, to string) {
		c.logger.Info("circuit breaker state changed",
			"name", name,
			"from", from,
			"to", to,
		)
	}
	c.breaker = resilience.NewBreaker[*Response](breakerCfg)

	return c, nil
}

// Close releases idle connections. In-flight requests complete normally.
func (c *Client) Close() error {
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// Get performs a GET request through the resilience pipeline.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: rawURL, Params: params})
}

// Post performs a POST request with a JSON body through the resilience
// pipeline.
func (c *Client) Post(ctx context.Context, rawURL string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: rawURL, Body: body})
}

// Do executes a request: circuit breaker gate, rate limiter, pooled
// transport call, bounded retries on transient failures. Transport and
// upstream errors are returned to the caller; a circuit-open rejection is
// reported as f1.ErrCircuitOpen without any network call.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	attempts := 0
	resp, err := resilience.Retry(ctx, c.retryConfig(), c.sleeper, func() (*Response, error) {
		attempts++
		if attempts > 1 {
			c.logger.Debug("retrying request", "url", req.URL, "attempt", attempts)
		}
		return c.doOnce(ctx, req)
	})
	if err != nil {
		// A retryable error surviving the loop means attempts ran out.
		if _, ok := resilience.IsRetryable(err); ok {
			return nil, fmt.Errorf("%w: %w", f1.ErrMaxRetries, err)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) retryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts: c.config.MaxRetries,
		BaseWait:    c.config.RetryBaseWait,
		MaxWait:     c.config.RetryMaxWait,
		Multiplier:  c.config.RetryFactor,
		Jitter:      0.2,
	}
}

// doOnce runs a single attempt through the gates. The breaker is checked
// before the limiter so a fast-fail does not consume a rate token.
func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	if resilience.IsOpen(c.breaker) {
		return nil, f1.ErrCircuitOpen
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.transportCall(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", f1.ErrCircuitOpen, err)
		}
		return nil, err
	}
	return resp, nil
}

// transportCall issues the HTTP call and folds the outcome into the
// statistics. Status < 400 counts as success for the breaker; anything else
// is a failure. Transport-level errors are never swallowed.
func (c *Client) transportCall(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := req.URL
	if len(req.Params) > 0 {
		sep := "?"
		if u, err := url.Parse(target); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target += sep + req.Params.Encode()
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("apexgo: failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("apexgo: failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		c.stats.recordConnError(latency)
		c.logger.Error("request failed", "url", req.URL, "error", err)
		wrapped := fmt.Errorf("apexgo: request failed: %w", err)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, resilience.NewRetryableError(wrapped, 0)
		}
		return nil, wrapped
	}
	defer httpResp.Body.Close()

	// Read one extra byte to detect overflow without a false positive.
	limitedReader := io.LimitReader(httpResp.Body, c.config.MaxResponseBytes+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		c.stats.recordConnError(latency)
		return nil, fmt.Errorf("apexgo: failed to read response: %w", err)
	}
	if int64(len(body)) > c.config.MaxResponseBytes {
		c.stats.record(latency, false)
		return nil, f1.ErrResponseTooLarge
	}

	if httpResp.StatusCode >= 400 {
		c.stats.record(latency, false)
		apiErr := f1.NewAPIErrorWithRetry(
			req.URL, httpResp.StatusCode, truncate(body, 256), parseRetryAfter(httpResp),
		)
		if apiErr.IsRetryable() {
			return nil, resilience.NewRetryableError(apiErr, apiErr.RetryAfter)
		}
		return nil, apiErr
	}

	c.stats.record(latency, true)
	return &Response{
		StatusCode:   httpResp.StatusCode,
		Header:       httpResp.Header,
		Body:         body,
		ResponseTime: latency,
	}, nil
}

// Stats returns the aggregate counters plus breaker and limiter state.
func (c *Client) Stats() RequestStats {
	st := c.stats.snapshot()
	snap := resilience.Snapshot(c.breaker)
	st.CircuitState = snap.State
	st.CircuitFailures = snap.ConsecutiveFailures
	st.RateLimited = c.limiter.Limited()
	return st
}

// parseRetryAfter extracts a Retry-After hint from the response headers.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n])
}
