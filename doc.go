// Package apexgo provides a resilient Go client for Ergast-compatible
// Formula 1 statistics APIs.
//
// apexgo combines an HTTP fetcher with built-in resilience patterns and a
// two-tier response cache into a single client, so repeated standings and
// schedule lookups are served locally and upstream failures degrade
// gracefully.
//
// # Quick Start
//
//	client, err := apexgo.New(ctx, apexgo.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	standings, err := client.DriverStandings(ctx, "current")
//
// # Separate Fetcher/Cache
//
// For callers that only need one capability:
//
//	// Only the resilient HTTP client
//	import "github.com/driveahead/apexgo/fetcher"
//	f, _ := fetcher.New()
//
//	// Only the two-tier cache
//	import "github.com/driveahead/apexgo/cache"
//	store, _ := cache.New(ctx, cache.Config{Path: "cache.db"})
//
// # Shared Types
//
// All Ergast wire types are in the f1 subpackage:
//
//	import "github.com/driveahead/apexgo/f1"
//	var race f1.Race
//	var standing f1.DriverStanding
//
// # Features
//
//   - Circuit breaker with sony/gobreaker
//   - Token-bucket rate limiting with golang.org/x/time/rate
//   - Retry with exponential backoff and crypto jitter
//   - Two-tier cache: in-memory plus persistent SQLite
//   - msgpack serialization with gzip compression for large payloads
//   - Structured logging with slog
//   - Explicit lifecycle: construct at start, Close at shutdown
package apexgo
