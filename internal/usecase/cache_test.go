package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/domain"
)

func newTestCache() *QueryCache {
	return NewQueryCache(CacheConfig{
		StaleWindow: time.Minute,
		Retries:     2,
		BackoffBase: time.Millisecond,
		BackoffCap:  4 * time.Millisecond,
	})
}

func countingFetcher(value any) (Fetcher, *atomic.Int64) {
	var calls atomic.Int64
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}, &calls
}

func TestReadCachesWithinWindow(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	fetch, calls := countingFetcher("v1")

	got, err := c.Read(ctx, "/jobs?page=1", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	got, err = c.Read(ctx, "/jobs?page=1", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
	assert.Equal(t, int64(1), calls.Load(), "second read within the window must not fetch")

	// A different key fetches on its own.
	_, err = c.Read(ctx, "/jobs?page=2", fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestReadRetriesTransientFailures(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) < 3 {
			return nil, &domain.TransientError{Op: "list"}
		}
		return "ok", nil
	}

	got, err := c.Read(ctx, "/candidates", fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int64(3), calls.Load())
}

func TestReadSurfacesErrorKeepsLastKnownGood(t *testing.T) {
	c := NewQueryCache(CacheConfig{
		StaleWindow: time.Nanosecond, // everything immediately stale
		Retries:     1,
		BackoffBase: time.Millisecond,
	})
	ctx := context.Background()

	_, err := c.Read(ctx, "/jobs", func(ctx context.Context) (any, error) { return "good", nil })
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	var calls atomic.Int64
	failing := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, &domain.TransientError{Op: "list"}
	}
	got, err := c.Read(ctx, "/jobs", failing)
	require.Error(t, err)
	assert.True(t, domain.IsTransient(err))
	assert.Equal(t, "good", got, "last-known-good value rides along with the error")
	assert.Equal(t, int64(2), calls.Load(), "one retry beyond the first attempt")
}

func TestNotFoundIsNotRetried(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, &domain.NotFoundError{Table: "jobs", ID: "x"}
	}
	_, err := c.Read(ctx, "/jobs/x", fetch)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, int64(1), calls.Load())
}

func TestConcurrentReadsCoalesce(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Read(ctx, "/jobs", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	// Let the readers pile up on the single in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "all readers share one fetch")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	fetch, calls := countingFetcher("v")

	_, err := c.Read(ctx, "/jobs?page=1", fetch)
	require.NoError(t, err)
	_, err = c.Read(ctx, "/jobs/42", fetch)
	require.NoError(t, err)
	_, err = c.Read(ctx, "/candidates?page=1", fetch)
	require.NoError(t, err)
	require.Equal(t, int64(3), calls.Load())

	c.Invalidate("/jobs")

	// Both jobs keys refetch; the candidates key is untouched.
	_, err = c.Read(ctx, "/jobs?page=1", fetch)
	require.NoError(t, err)
	_, err = c.Read(ctx, "/jobs/42", fetch)
	require.NoError(t, err)
	_, err = c.Read(ctx, "/candidates?page=1", fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(5), calls.Load())
}

func TestSupersededFetchDiscarded(t *testing.T) {
	c := NewQueryCache(CacheConfig{StaleWindow: time.Minute})
	ctx := context.Background()

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	slowDone := make(chan struct{})

	go func() {
		defer close(slowDone)
		_, err := c.Read(ctx, "/jobs", func(ctx context.Context) (any, error) {
			close(slowStarted)
			<-slowRelease
			return "stale", nil
		})
		assert.NoError(t, err)
	}()

	<-slowStarted
	// The resource changes while the fetch is in flight.
	c.Invalidate("/jobs")
	close(slowRelease)
	<-slowDone

	// The stale response must not have been cached: the next read fetches.
	got, err := c.Read(ctx, "/jobs", func(ctx context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestReadHonorsContext(t *testing.T) {
	c := newTestCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Read(ctx, "/jobs", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryKeyNormalization(t *testing.T) {
	a := ListParams{Search: "eng", Page: 2, PageSize: 5}
	b := ListParams{PageSize: 5, Page: 2, Search: "eng"}
	assert.Equal(t, QueryKey("/jobs", a.Values()), QueryKey("/jobs", b.Values()))
}
