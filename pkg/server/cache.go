package server

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tata1mg/catalyst-go/pkg/fetch"
	"github.com/tata1mg/catalyst-go/pkg/render"
)

// PrerenderEntry is a cached prerender pass for one canonical route path:
// the reusable prelude bytes plus the descriptor that replays suspended
// regions against any request.
type PrerenderEntry struct {
	// CacheKey is the canonical path this entry was prerendered for.
	CacheKey string

	// Prelude is the shell markup, served byte for byte to every request.
	Prelude []byte

	// Descriptor lists the suspended regions to fill during resume.
	Descriptor *render.ResumeDescriptor
}

// CacheService owns the process-wide caches: completed prerenders keyed by
// canonical path, and the shared data-fetch cache. Entries never expire;
// staleness is handled by whole-entry replacement on invalidation.
type CacheService struct {
	mu         sync.RWMutex
	prerenders map[string]*PrerenderEntry

	promises *fetch.Cache
	flight   singleflight.Group
}

// CacheOption configures a CacheService.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	promiseCapacity int
	fetchTimeout    time.Duration
}

// WithPromiseCapacity bounds the shared data-fetch cache.
func WithPromiseCapacity(n int) CacheOption {
	return func(c *cacheConfig) {
		c.promiseCapacity = n
	}
}

// WithFetchTimeout bounds how long a detached data fetch may run.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *cacheConfig) {
		c.fetchTimeout = d
	}
}

// NewCacheService creates a CacheService with an empty prerender map and a
// promise cache sized by the given options.
func NewCacheService(opts ...CacheOption) *CacheService {
	cfg := cacheConfig{
		promiseCapacity: fetch.DefaultCapacity,
		fetchTimeout:    fetch.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &CacheService{
		prerenders: make(map[string]*PrerenderEntry),
		promises: fetch.NewCache(
			fetch.WithCapacity(cfg.promiseCapacity),
			fetch.WithTimeout(cfg.fetchTimeout),
		),
	}
}

// Prerender returns the cached entry for a canonical path.
func (c *CacheService) Prerender(key string) (*PrerenderEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.prerenders[key]
	return entry, ok
}

// StorePrerender installs an entry, replacing any previous one for the same
// path. Requests already holding the old entry keep streaming it; new
// requests see the replacement.
func (c *CacheService) StorePrerender(entry *PrerenderEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prerenders[entry.CacheKey] = entry
}

// InvalidatePrerenders drops every cached prerender. Dev mode calls this
// when the build output changes so the next request re-prerenders.
func (c *CacheService) InvalidatePrerenders() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prerenders = make(map[string]*PrerenderEntry)
}

// PrerenderCount reports how many paths have cached prerenders.
func (c *CacheService) PrerenderCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prerenders)
}

// Promises exposes the shared data-fetch cache.
func (c *CacheService) Promises() *fetch.Cache {
	return c.promises
}

// prerenderOnce collapses concurrent prerenders of the same path into one
// execution; every caller receives the single result.
func (c *CacheService) prerenderOnce(key string, fn func() (*PrerenderEntry, error)) (*PrerenderEntry, error) {
	v, err, _ := c.flight.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return v.(*PrerenderEntry), nil
}
