// Package fetcher provides a resilient HTTP client for Ergast-compatible
// F1 statistics APIs.
//
// # Features
//
//   - Circuit breaker for fault tolerance
//   - Token-bucket rate limiting
//   - Retry with exponential backoff on transient status codes
//   - Pooled HTTP transport with per-call timeouts
//   - Concurrent batch requests over a bounded worker pool
//   - Aggregate request statistics for health endpoints
//
// # Usage
//
//	client, err := fetcher.New(
//	    fetcher.WithRateLimit(100, time.Minute),
//	    fetcher.WithRetries(3),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	standings, err := client.DriverStandings(ctx, "2026")
package fetcher
