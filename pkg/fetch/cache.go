package fetch

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultCapacity is the default maximum number of cached futures.
const DefaultCapacity = 100

// DefaultTimeout bounds a single underlying fetch. A stalled fetch rejects
// its future instead of suspending the render forever.
const DefaultTimeout = 10 * time.Second

// Cache is a bounded LRU cache of in-flight and resolved fetches.
//
// Futures are inserted before they resolve, which closes the race where two
// near-simultaneous lookups would otherwise start duplicate fetches: callers
// of Get and GetOrCreate for the same key always share one underlying fetch.
// At capacity the least-recently-used entry is evicted; any access (Get or
// Set) moves a key to most-recently-used, protecting it from the next
// eviction.
type Cache struct {
	mu       sync.Mutex
	capacity int
	timeout  time.Duration
	entries  map[string]*list.Element
	order    *list.List // LRU order (front = most recent)

	evictions uint64
	hits      uint64
	misses    uint64
}

// cacheItem holds an entry in the LRU list.
type cacheItem struct {
	key    string
	future *Future
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCapacity sets the maximum number of entries.
func WithCapacity(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTimeout bounds each underlying fetch started by GetOrCreate.
// Zero disables the bound.
func WithTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.timeout = d
	}
}

// NewCache creates a Cache with the default capacity of 100.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		capacity: DefaultCapacity,
		timeout:  DefaultTimeout,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the shared future for key, moving it to the most-recently-used
// position. The same *Future is returned to every caller so concurrent
// interested parties observe one underlying fetch.
func (c *Cache) Get(key string) (*Future, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheItem).future, true
}

// Set stores a future under key before it resolves. An existing key is
// replaced in place and promoted; at capacity the single least-recently-used
// entry is evicted first.
func (c *Cache) Set(key string, future *Future) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, future)
}

func (c *Cache) set(key string, future *Future) {
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheItem).future = future
		c.order.MoveToFront(elem)
		return
	}

	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		item := oldest.Value.(*cacheItem)
		c.order.Remove(oldest)
		delete(c.entries, item.key)
		c.evictions++
	}

	elem := c.order.PushFront(&cacheItem{key: key, future: future})
	c.entries[key] = elem
}

// GetOrCreate returns the shared future for key, starting the fetch if no
// entry exists. The future is inserted under the lock before start runs, so
// at most one fetch per live key executes regardless of concurrency.
//
// The fetch runs on its own goroutine with the cache's timeout applied; it
// deliberately does not inherit cancellation from the requesting render,
// since the result is shared across requests.
func (c *Cache) GetOrCreate(ctx context.Context, key string, start func(ctx context.Context) (any, error)) *Future {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(elem)
		future := elem.Value.(*cacheItem).future
		c.mu.Unlock()
		return future
	}
	c.misses++
	future := NewFuture()
	c.set(key, future)
	c.mu.Unlock()

	go func() {
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}
		v, err := start(fetchCtx)
		if err != nil {
			future.Reject(err)
			return
		}
		future.Resolve(v)
	}()

	return future
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats reports cache counters since construction.
func (c *Cache) Stats() (hits, misses, evictions uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evictions
}
