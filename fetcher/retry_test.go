package fetcher_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveahead/apexgo/f1"
	"github.com/driveahead/apexgo/fetcher"
	"github.com/driveahead/apexgo/internal/testutil"
)

func TestRetry_RecoversFromTransientError(t *testing.T) {
	var attempts atomic.Int32

	server := testutil.NewMockServer(t)
	server.On("/current/driverStandings.json", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			testutil.ReplyServerError(w, http.StatusServiceUnavailable, "warming up")
			return
		}
		testutil.ReplyRaw(w, testutil.DriverStandingsJSON)
	})

	sleeper := &testutil.FakeSleeper{}
	client := testutil.NewRetryTestClient(t, server.URL, sleeper, fetcher.WithRetries(3))

	standings, err := client.DriverStandings(context.Background(), "current")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, int32(3), attempts.Load(), "should have made 3 attempts")
	assert.Equal(t, 2, sleeper.CallCount(), "should have slept twice")
}

func TestRetry_429HonorsRetryAfterHeader(t *testing.T) {
	var attempts atomic.Int32

	server := testutil.NewMockServer(t)
	server.On("/current.json", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			testutil.ReplyRateLimit(w, 5)
			return
		}
		testutil.ReplyEmpty(w)
	})

	sleeper := &testutil.FakeSleeper{}
	client := testutil.NewRetryTestClient(t, server.URL, sleeper, fetcher.WithRetries(3))

	_, err := client.Schedule(context.Background(), "current")
	require.NoError(t, err)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 1, sleeper.CallCount())
	assert.Equal(t, 5*time.Second, sleeper.LastCall(), "should sleep for the Retry-After duration")
}

func TestRetry_BackoffGrowsExponentially(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/current.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, http.StatusInternalServerError, "boom")
	})

	sleeper := &testutil.FakeSleeper{}
	client := testutil.NewRetryTestClient(t, server.URL, sleeper, fetcher.WithRetries(3))

	_, err := client.Schedule(context.Background(), "current")
	require.Error(t, err)
	assert.ErrorIs(t, err, f1.ErrMaxRetries)

	calls := sleeper.Calls()
	require.Len(t, calls, 3)

	// Base 1s, factor 2, jitter 20%: each wait lands within the jitter
	// band around 1s, 2s, 4s.
	expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, wait := range calls {
		low := time.Duration(float64(expected[i]) * 0.8)
		high := time.Duration(float64(expected[i]) * 1.2)
		assert.GreaterOrEqual(t, wait, low, "sleep %d too short", i)
		assert.LessOrEqual(t, wait, high, "sleep %d too long", i)
	}
}

func TestRetry_NotFoundIsNotRetried(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/1949/driverStandings.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyNotFound(w)
	})

	sleeper := &testutil.FakeSleeper{}
	client := testutil.NewRetryTestClient(t, server.URL, sleeper, fetcher.WithRetries(3))

	_, err := client.DriverStandings(context.Background(), "1949")
	require.Error(t, err)
	assert.ErrorIs(t, err, f1.ErrNotFound)
	assert.NotErrorIs(t, err, f1.ErrMaxRetries)
	assert.Equal(t, 1, server.CaptureCount(), "4xx must not be retried")
	assert.Equal(t, 0, sleeper.CallCount())
}

func TestRetry_ExhaustionWrapsLastError(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/current.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, http.StatusBadGateway, "bad gateway")
	})

	sleeper := &testutil.FakeSleeper{}
	client := testutil.NewRetryTestClient(t, server.URL, sleeper, fetcher.WithRetries(2))

	_, err := client.Schedule(context.Background(), "current")
	require.Error(t, err)
	assert.ErrorIs(t, err, f1.ErrMaxRetries)
	assert.ErrorIs(t, err, f1.ErrUpstream)

	var apiErr *f1.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

	assert.Equal(t, 3, server.CaptureCount(), "1 attempt + 2 retries")
}

func TestRetry_ContextCancelAbortsBackoff(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/current.json", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, http.StatusInternalServerError, "boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sleeper := &testutil.FakeSleeper{}
	client := testutil.NewRetryTestClient(t, server.URL, sleeper, fetcher.WithRetries(3))

	_, err := client.Schedule(ctx, "current")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
