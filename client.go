package apexgo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/driveahead/apexgo/cache"
	"github.com/driveahead/apexgo/f1"
	"github.com/driveahead/apexgo/fetcher"
)

// Config combines fetcher and cache configuration with the TTLs applied to
// the typed endpoint wrappers.
type Config struct {
	Fetcher fetcher.Config
	Cache   cache.Config

	// StandingsTTL applies to driver/constructor standings. Defaults to
	// 5 minutes.
	StandingsTTL time.Duration

	// ScheduleTTL applies to season calendars, which change rarely.
	// Defaults to 6 hours.
	ScheduleTTL time.Duration

	// ResultsTTL applies to finished-race results, which never change
	// once published. Defaults to 24 hours.
	ResultsTTL time.Duration
}

// DefaultConfig returns a Config with defaults for both layers.
func DefaultConfig() Config {
	return Config{
		Fetcher:      fetcher.DefaultConfig(),
		Cache:        cache.Config{},
		StandingsTTL: 5 * time.Minute,
		ScheduleTTL:  6 * time.Hour,
		ResultsTTL:   24 * time.Hour,
	}
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger for both layers.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithFetcherOptions appends options passed through to the fetcher.
func WithFetcherOptions(opts ...fetcher.Option) Option {
	return func(c *Client) {
		c.fetcherOpts = append(c.fetcherOpts, opts...)
	}
}

// Client composes the resilient fetcher with the two-tier cache. Construct
// one explicitly at process start and Close it at shutdown; there is no
// package-level instance.
type Client struct {
	config      Config
	fetcher     *fetcher.Client
	cache       *cache.Store
	logger      *slog.Logger
	fetcherOpts []fetcher.Option
}

// New creates a Client. The context bounds the cache's background sweep.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if cfg.StandingsTTL <= 0 {
		cfg.StandingsTTL = 5 * time.Minute
	}
	if cfg.ScheduleTTL <= 0 {
		cfg.ScheduleTTL = 6 * time.Hour
	}
	if cfg.ResultsTTL <= 0 {
		cfg.ResultsTTL = 24 * time.Hour
	}

	c := &Client{config: cfg}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	fetcherOpts := append([]fetcher.Option{fetcher.WithLogger(c.logger)}, c.fetcherOpts...)
	f, err := fetcher.NewFromConfig(cfg.Fetcher, fetcherOpts...)
	if err != nil {
		return nil, err
	}

	cacheCfg := cfg.Cache
	cacheCfg.Logger = c.logger
	store, err := cache.New(ctx, cacheCfg)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	c.fetcher = f
	c.cache = store
	return c, nil
}

// Close shuts down both layers.
func (c *Client) Close() error {
	fetchErr := c.fetcher.Close()
	cacheErr := c.cache.Close()
	return errors.Join(fetchErr, cacheErr)
}

// Fetcher exposes the underlying resilient HTTP client.
func (c *Client) Fetcher() *fetcher.Client { return c.fetcher }

// Cache exposes the underlying cache store.
func (c *Client) Cache() *cache.Store { return c.cache }

// Stats merges the fetcher's request counters with the cache counters.
type Stats struct {
	Requests fetcher.RequestStats `json:"requests"`
	Cache    cache.Stats          `json:"cache"`
}

// Stats returns a combined observability snapshot.
func (c *Client) Stats(ctx context.Context) Stats {
	return Stats{
		Requests: c.fetcher.Stats(),
		Cache:    c.cache.Stats(ctx),
	}
}

// CachedJSON is a cache-aside helper: it returns the cached value under key
// when present, otherwise calls fetch, stores the result with the given TTL
// and returns it. Cache failures never fail the call; fetch errors
// propagate untouched so callers can still distinguish a dead upstream from
// an empty one.
func CachedJSON[T any](ctx context.Context, c *Client, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	result, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.cache.Set(ctx, key, result, ttl)
	return result, nil
}

// DriverStandings returns the driver championship table for a season,
// served from cache within StandingsTTL.
func (c *Client) DriverStandings(ctx context.Context, season string) ([]f1.DriverStanding, error) {
	return CachedJSON(ctx, c, "standings:drivers:"+season, c.config.StandingsTTL,
		func(ctx context.Context) ([]f1.DriverStanding, error) {
			return c.fetcher.DriverStandings(ctx, season)
		})
}

// ConstructorStandings returns the constructor championship table for a
// season, served from cache within StandingsTTL.
func (c *Client) ConstructorStandings(ctx context.Context, season string) ([]f1.ConstructorStanding, error) {
	return CachedJSON(ctx, c, "standings:constructors:"+season, c.config.StandingsTTL,
		func(ctx context.Context) ([]f1.ConstructorStanding, error) {
			return c.fetcher.ConstructorStandings(ctx, season)
		})
}

// Schedule returns the race calendar for a season, served from cache
// within ScheduleTTL.
func (c *Client) Schedule(ctx context.Context, season string) ([]f1.Race, error) {
	return CachedJSON(ctx, c, "schedule:"+season, c.config.ScheduleTTL,
		func(ctx context.Context) ([]f1.Race, error) {
			return c.fetcher.Schedule(ctx, season)
		})
}

// NextRace returns the next race on the current calendar. The schedule is
// cached; the "which race is next" selection runs on every call.
func (c *Client) NextRace(ctx context.Context) (*f1.Race, error) {
	races, err := c.Schedule(ctx, "current")
	if err != nil {
		return nil, err
	}
	return f1.NextRace(races, time.Now()), nil
}

// RaceResults returns classified results for one round, served from cache
// within ResultsTTL.
func (c *Client) RaceResults(ctx context.Context, season, round string) (*f1.Race, error) {
	return CachedJSON(ctx, c, fmt.Sprintf("results:%s:%s", season, round), c.config.ResultsTTL,
		func(ctx context.Context) (*f1.Race, error) {
			return c.fetcher.RaceResults(ctx, season, round)
		})
}

// Warm pre-populates the cache with standings and schedules for the given
// seasons. Individual failures are logged and skipped; Warm returns the
// first error only when every fetch failed.
func (c *Client) Warm(ctx context.Context, seasons ...string) error {
	if len(seasons) == 0 {
		seasons = []string{"current"}
	}

	var firstErr error
	var succeeded bool
	for _, season := range seasons {
		for name, fn := range map[string]func() error{
			"driver standings": func() error {
				_, err := c.DriverStandings(ctx, season)
				return err
			},
			"constructor standings": func() error {
				_, err := c.ConstructorStandings(ctx, season)
				return err
			},
			"schedule": func() error {
				_, err := c.Schedule(ctx, season)
				return err
			},
		} {
			if err := fn(); err != nil {
				c.logger.Warn("cache warm fetch failed",
					"endpoint", name,
					"season", season,
					"error", err,
				)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			succeeded = true
		}
	}

	if !succeeded {
		return firstErr
	}
	return nil
}
