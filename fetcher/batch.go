package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/driveahead/apexgo/f1"
)

// BatchResult pairs one request of a batch with its outcome. Exactly one of
// Response and Err is set.
type BatchResult struct {
	Index    int
	Response *Response
	Err      error
}

// Batch executes the requests concurrently over a bounded worker pool and
// returns results in input order. Each request goes through the full
// resilience pipeline independently; no cross-request ordering guarantee is
// made. The whole batch is bounded by the configured BatchTimeout; items
// still unfinished at the deadline report f1.ErrBatchTimeout instead of
// blocking indefinitely.
func (c *Client) Batch(ctx context.Context, requests []Request) []BatchResult {
	results := make([]BatchResult, len(requests))

	batchCtx, cancel := context.WithTimeout(ctx, c.config.BatchTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(c.config.PoolSize)

	for i, req := range requests {
		g.Go(func() error {
			resp, err := c.Do(gctx, req)
			if err != nil && errors.Is(gctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %w", f1.ErrBatchTimeout, err)
			}
			results[i] = BatchResult{Index: i, Response: resp, Err: err}
			// Individual failures do not abort the batch.
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// FetchAll fetches the URLs concurrently with bounded concurrency and
// returns results in input order. This is the bulk fan-out surface for
// warming multiple endpoints at once.
func (c *Client) FetchAll(ctx context.Context, urls []string) []BatchResult {
	requests := make([]Request, len(urls))
	for i, u := range urls {
		requests[i] = Request{Method: http.MethodGet, URL: u}
	}
	return c.Batch(ctx, requests)
}
