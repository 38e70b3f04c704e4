package fetch

import (
	"context"
	"sync"
)

// FetcherFunc loads the data for one fetch key. Params carry the matched
// route parameters of the requesting render.
type FetcherFunc func(ctx context.Context, params map[string]string) (any, error)

// Registry maps fetcher identifiers to their implementations. Fetchers are
// registered at startup and looked up read-only at request time.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]FetcherFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]FetcherFunc)}
}

// Register binds a fetcher identifier to its implementation, replacing any
// previous binding.
func (r *Registry) Register(id string, fn FetcherFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[id] = fn
}

// Lookup returns the fetcher bound to id.
func (r *Registry) Lookup(id string) (FetcherFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fetchers[id]
	return fn, ok
}
