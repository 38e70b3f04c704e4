package fetch

import "sync"

// ValueCache holds only resolved results, keyed identically to the promise
// cache. One ValueCache is created per render pass: it carries data resolved
// during prerender across the prerender-to-resume transition and feeds the
// hydration payload embedded in the response, so the client need not
// re-fetch already-known data.
type ValueCache struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewValueCache creates an empty ValueCache.
func NewValueCache() *ValueCache {
	return &ValueCache{values: make(map[string]any)}
}

// Get returns the resolved value for key.
func (v *ValueCache) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.values[key]
	return val, ok
}

// Set records a resolved value.
func (v *ValueCache) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[key] = value
}

// Snapshot returns a copy of all resolved values, for embedding as the
// hydration payload.
func (v *ValueCache) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]any, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// Len returns the number of resolved values.
func (v *ValueCache) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.values)
}
