package usecase

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"talentflow/internal/domain"
)

// CacheConfig tunes freshness and retry behavior. Windows maps a key prefix
// to a shorter stale window; the job list refreshes more aggressively than
// everything else because the board is the primary surface.
type CacheConfig struct {
	StaleWindow time.Duration
	Windows     map[string]time.Duration
	Retries     int
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		StaleWindow: 5 * time.Minute,
		Windows:     map[string]time.Duration{"/jobs?": time.Minute},
		Retries:     2,
		BackoffBase: time.Second,
		BackoffCap:  30 * time.Second,
	}
}

// Fetcher produces a fresh value for a cache key, typically by calling the
// simulated backend.
type Fetcher func(ctx context.Context) (any, error)

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

type inflight struct {
	done  chan struct{}
	value any
	err   error
}

// QueryCache caches query results per normalized key. Concurrent reads of
// the same key coalesce onto one in-flight fetch; a fetch that resolves
// after its key was invalidated is discarded instead of clobbering newer
// state.
type QueryCache struct {
	cfg CacheConfig

	mu       sync.Mutex
	entries  map[string]*cacheEntry
	calls    map[string]*inflight
	versions map[string]uint64
}

func NewQueryCache(cfg CacheConfig) *QueryCache {
	if cfg.StaleWindow <= 0 {
		cfg.StaleWindow = 5 * time.Minute
	}
	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = 30 * time.Second
	}
	return &QueryCache{
		cfg:      cfg,
		entries:  make(map[string]*cacheEntry),
		calls:    make(map[string]*inflight),
		versions: make(map[string]uint64),
	}
}

// QueryKey builds the normalized cache key for an endpoint and parameter
// set. url.Values encodes sorted by key, so equivalent parameter sets
// collapse to one key.
func QueryKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// Read returns the cached value for key when it is still fresh, otherwise
// fetches. Transient fetch failures are retried with capped exponential
// backoff; after the retries are exhausted the error is surfaced together
// with the last-known-good value, which stays cached.
func (c *QueryCache) Read(ctx context.Context, key string, fetch Fetcher) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Since(e.fetchedAt) < c.windowFor(key) {
		c.mu.Unlock()
		return e.value, nil
	}
	if call, ok := c.calls[key]; ok {
		c.mu.Unlock()
		return c.await(ctx, key, call)
	}
	call := &inflight{done: make(chan struct{})}
	c.calls[key] = call
	version := c.versions[key]
	c.mu.Unlock()

	value, err := c.fetchWithRetry(ctx, fetch)

	c.mu.Lock()
	delete(c.calls, key)
	if err == nil {
		if c.versions[key] == version {
			c.entries[key] = &cacheEntry{value: value, fetchedAt: time.Now()}
		}
		// A bumped version means the key was invalidated while this
		// fetch was in flight; the result is stale on arrival and must
		// not overwrite whatever the next fetch produces.
	}
	c.mu.Unlock()

	call.value, call.err = value, err
	close(call.done)

	if err != nil {
		return c.lastKnownGood(key), err
	}
	return value, nil
}

func (c *QueryCache) await(ctx context.Context, key string, call *inflight) (any, error) {
	select {
	case <-call.done:
		if call.err != nil {
			return c.lastKnownGood(key), call.err
		}
		return call.value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *QueryCache) fetchWithRetry(ctx context.Context, fetch Fetcher) (any, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		// Validation and not-found are terminal for the operation.
		if domain.IsValidation(err) || domain.IsNotFound(err) {
			return nil, err
		}
		lastErr = err
		if attempt >= c.cfg.Retries {
			return nil, lastErr
		}
		backoff := c.cfg.BackoffBase << attempt
		if backoff > c.cfg.BackoffCap {
			backoff = c.cfg.BackoffCap
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Invalidate drops every cache entry whose key is rooted at the given
// resource path ("/jobs" hits "/jobs", "/jobs?page=2" and "/jobs/42"), and
// bumps their versions so in-flight fetches for those keys are discarded on
// arrival.
func (c *QueryCache) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if keyRootedAt(key, resource) {
			delete(c.entries, key)
			c.versions[key]++
		}
	}
	for key := range c.calls {
		if keyRootedAt(key, resource) {
			c.versions[key]++
		}
	}
}

// Reset drops all cached state, in-flight coalescing aside.
func (c *QueryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.versions = make(map[string]uint64)
}

func (c *QueryCache) windowFor(key string) time.Duration {
	for prefix, window := range c.cfg.Windows {
		if strings.HasPrefix(key, prefix) {
			return window
		}
	}
	return c.cfg.StaleWindow
}

func (c *QueryCache) lastKnownGood(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.value
	}
	return nil
}

func keyRootedAt(key, resource string) bool {
	return key == resource ||
		strings.HasPrefix(key, resource+"?") ||
		strings.HasPrefix(key, resource+"/")
}
