package render

import "sync"

// Placeholder records one suspended region of a prerendered shell: where it
// sits (ID, in document order), which boundary fills it, and which fetch its
// data comes from. Placeholders are plain data and serialize cleanly, so a
// cached descriptor can be replayed for any later request.
type Placeholder struct {
	// ID is the per-shell placeholder identifier ("b1", "b2", ...).
	ID string `json:"id"`

	// BoundaryID is the boundary (and tracked module) identifier.
	BoundaryID string `json:"boundaryId"`

	// FetcherID names the registered fetcher for this boundary.
	FetcherID string `json:"fetcherId"`

	// FetchKey is the data cache key the boundary suspends on.
	FetchKey string `json:"fetchKey"`
}

// ResumeDescriptor is the replay template produced by a prerender pass: the
// ordered list of suspended regions in an otherwise-static shell. Request
// closures are never stored here; resuming derives fresh resolutions per
// request and looks the rendering closures up in the BoundaryRegistry.
type ResumeDescriptor struct {
	Placeholders []Placeholder `json:"placeholders"`
}

// BoundaryDef holds the process-lifetime rendering closures of a boundary.
type BoundaryDef struct {
	// Content renders the boundary from its resolved fetch value.
	Content func(value any) *Node

	// ErrorContent renders when the fetch was rejected. Nil selects a
	// minimal default error marker.
	ErrorContent *Node
}

// BoundaryRegistry maps boundary identifiers to their definitions. It is
// process-wide and shared across requests: prerender passes register
// definitions (whole-entry replacement), resume passes look them up.
type BoundaryRegistry struct {
	mu   sync.RWMutex
	defs map[string]BoundaryDef
}

// NewBoundaryRegistry creates an empty registry.
func NewBoundaryRegistry() *BoundaryRegistry {
	return &BoundaryRegistry{defs: make(map[string]BoundaryDef)}
}

// Register binds a boundary definition, replacing any previous one whole.
func (r *BoundaryRegistry) Register(boundaryID string, def BoundaryDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[boundaryID] = def
}

// Lookup returns the definition for a boundary.
func (r *BoundaryRegistry) Lookup(boundaryID string) (BoundaryDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[boundaryID]
	return def, ok
}
