// Package classify partitions a compiled module/chunk graph into essential
// assets (needed on every render of an entry) and dynamic assets (needed
// only when a specific async boundary executes), and emits the manifest
// files consumed at runtime.
package classify

import (
	"encoding/json"

	"github.com/tata1mg/catalyst-go/internal/errors"
)

// DynamicImport is an async-boundary import site inside a chunk.
type DynamicImport struct {
	// Chunk is the identifier of the imported chunk.
	Chunk string `json:"chunk"`

	// SSRIncluded marks the import site as eligible for inclusion in the
	// server-rendered shell.
	SSRIncluded bool `json:"ssrIncluded"`
}

// Chunk is one compiled output chunk of the build.
type Chunk struct {
	// File is the fingerprinted JS filename for the chunk.
	File string `json:"file"`

	// CSS lists stylesheets emitted for this chunk, in import order.
	CSS []string `json:"css,omitempty"`

	// Modules are the source module identifiers bundled into this chunk.
	Modules []string `json:"modules"`

	// StaticImports are chunk identifiers imported synchronously.
	StaticImports []string `json:"staticImports,omitempty"`

	// DynamicImports are async-boundary import sites.
	DynamicImports []DynamicImport `json:"dynamicImports,omitempty"`
}

// Graph is the compiled module graph produced by the build tool.
type Graph struct {
	// Chunks maps chunk identifiers to their definitions.
	Chunks map[string]Chunk `json:"chunks"`

	// Entries lists entry-point chunk identifiers.
	Entries []string `json:"entries"`
}

// ParseGraph decodes a module graph from JSON.
func ParseGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.New("E202").Wrap(err)
	}
	return &g, nil
}

// validate checks referential integrity of the graph.
func (g *Graph) validate() error {
	if len(g.Entries) == 0 {
		return errors.New("E204")
	}
	for _, id := range g.Entries {
		if _, ok := g.Chunks[id]; !ok {
			return errors.New("E203").WithDetail("entry chunk " + id + " is not defined")
		}
	}
	for id, chunk := range g.Chunks {
		for _, dep := range chunk.StaticImports {
			if _, ok := g.Chunks[dep]; !ok {
				return errors.New("E203").WithDetail("chunk " + id + " statically imports unknown chunk " + dep)
			}
		}
		for _, imp := range chunk.DynamicImports {
			if _, ok := g.Chunks[imp.Chunk]; !ok {
				return errors.New("E203").WithDetail("chunk " + id + " dynamically imports unknown chunk " + imp.Chunk)
			}
		}
	}
	return nil
}
