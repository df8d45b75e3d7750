package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/driveahead/apexgo/fetcher"
)

// NewTestClient creates a fetcher client pointed at the given base URL with
// retries disabled, for simple request/response tests.
func NewTestClient(t *testing.T, baseURL string, opts ...fetcher.Option) *fetcher.Client {
	t.Helper()

	defaultOpts := []fetcher.Option{
		fetcher.WithBaseURL(baseURL),
		fetcher.WithRetries(0),
	}

	client, err := fetcher.New(append(defaultOpts, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })
	return client
}

// NewBreakerTestClient creates a client whose breaker trips after 3
// consecutive failures and stays open for 2 seconds. Retries are disabled
// so breaker behavior can be observed directly.
func NewBreakerTestClient(t *testing.T, baseURL string, opts ...fetcher.Option) *fetcher.Client {
	t.Helper()

	defaultOpts := []fetcher.Option{
		fetcher.WithBaseURL(baseURL),
		fetcher.WithRetries(0),
		fetcher.WithBreaker(3, 2*time.Second),
	}

	client, err := fetcher.New(append(defaultOpts, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })
	return client
}

// NewRetryTestClient creates a client for testing retry behavior. The
// breaker threshold is high enough that it never interferes, and the fake
// sleeper (when non-nil) makes backoff timing observable without delays.
func NewRetryTestClient(t *testing.T, baseURL string, sleeper *FakeSleeper, opts ...fetcher.Option) *fetcher.Client {
	t.Helper()

	defaultOpts := []fetcher.Option{
		fetcher.WithBaseURL(baseURL),
		fetcher.WithBreaker(1000, time.Hour),
	}
	if sleeper != nil {
		defaultOpts = append(defaultOpts, fetcher.WithSleeper(sleeper))
	}

	client, err := fetcher.New(append(defaultOpts, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })
	return client
}
