package classify

import (
	"encoding/json"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

// Result is the output of a classification pass.
type Result struct {
	// Manifest maps every source module identifier to its chunk's assets,
	// so the runtime can look up assets by the identifier a boundary tracks.
	Manifest manifest.Manifest

	// Category is the derived essential/dynamic asset partition.
	Category manifest.Category

	// EssentialChunks and DynamicChunks list chunk identifiers per category
	// in discovery order.
	EssentialChunks []string
	DynamicChunks   []string

	// SSREligible records, per dynamic chunk, whether any import site
	// reaching it carried the ssr-included flag.
	SSREligible map[string]bool

	// Fingerprint is a stable hash of the input graph, usable as a build
	// identity for cache busting.
	Fingerprint uint64
}

// Classify partitions the graph's chunks into essential and dynamic sets.
//
// Rules, in order:
//  1. Entry chunks are essential.
//  2. Each async-boundary target chunk is dynamic, sub-categorized by its
//     ssr-included eligibility flag (any eligible site wins).
//  3. Essential propagates through static imports. A dependency reachable
//     exclusively through dynamic-only chunks stays dynamic; one reachable
//     from both paths is essential (shared-code rule). Entry status always
//     overrides dynamic classification.
//  4. Chunks unreached by any rule default to essential.
func Classify(g *Graph) (*Result, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	// Essential closure: entries plus everything statically reachable
	// from them. Discovery order is entry order, then import order.
	essential := manifest.NewOrderedSet()
	var walkEssential func(id string)
	walkEssential = func(id string) {
		if !essential.Add(id) {
			return
		}
		for _, dep := range g.Chunks[id].StaticImports {
			walkEssential(dep)
		}
	}
	for _, id := range g.Entries {
		walkEssential(id)
	}

	// Dynamic boundary targets with their eligibility flags. Chunk
	// identifiers are visited in sorted order so output is deterministic.
	chunkIDs := make([]string, 0, len(g.Chunks))
	for id := range g.Chunks {
		chunkIDs = append(chunkIDs, id)
	}
	sort.Strings(chunkIDs)

	eligible := make(map[string]bool)
	targets := manifest.NewOrderedSet()
	for _, id := range chunkIDs {
		for _, imp := range g.Chunks[id].DynamicImports {
			targets.Add(imp.Chunk)
			if imp.SSRIncluded {
				eligible[imp.Chunk] = true
			} else if _, seen := eligible[imp.Chunk]; !seen {
				eligible[imp.Chunk] = false
			}
		}
	}

	// Dynamic closure: everything statically reachable from a boundary
	// target that is not already essential. Essential membership wins for
	// shared code, and entries can never be demoted.
	dynamic := manifest.NewOrderedSet()
	var walkDynamic func(id string)
	walkDynamic = func(id string) {
		if essential.Has(id) {
			return
		}
		if !dynamic.Add(id) {
			return
		}
		for _, dep := range g.Chunks[id].StaticImports {
			walkDynamic(dep)
		}
	}
	for _, id := range targets.Values() {
		walkDynamic(id)
	}

	// Fail-safe bias: anything unreached is essential.
	for _, id := range chunkIDs {
		if !essential.Has(id) && !dynamic.Has(id) {
			essential.Add(id)
		}
	}

	res := &Result{
		Manifest:        make(manifest.Manifest, len(g.Chunks)),
		EssentialChunks: essential.Values(),
		DynamicChunks:   dynamic.Values(),
		SSREligible:     make(map[string]bool),
		Fingerprint:     fingerprint(g),
	}
	for _, id := range res.DynamicChunks {
		res.SSREligible[id] = eligible[id]
	}

	res.Category.Essential = assetGroup(g, res.EssentialChunks)
	res.Category.Dynamic = assetGroup(g, res.DynamicChunks)

	isEntry := make(map[string]bool, len(g.Entries))
	for _, id := range g.Entries {
		isEntry[id] = true
	}
	for _, id := range chunkIDs {
		chunk := g.Chunks[id]
		for _, mod := range chunk.Modules {
			res.Manifest[mod] = manifest.Entry{
				File:    chunk.File,
				CSS:     append([]string(nil), chunk.CSS...),
				IsEntry: isEntry[id],
			}
		}
	}

	return res, nil
}

// assetGroup collects the js/css assets of the given chunks, deduplicated,
// in first-discovery order.
func assetGroup(g *Graph, chunks []string) manifest.AssetGroup {
	js := manifest.NewOrderedSet()
	css := manifest.NewOrderedSet()
	for _, id := range chunks {
		chunk := g.Chunks[id]
		if chunk.File != "" {
			js.Add(chunk.File)
		}
		for _, sheet := range chunk.CSS {
			css.Add(sheet)
		}
	}
	return manifest.AssetGroup{JS: js.Values(), CSS: css.Values()}
}

// fingerprint hashes the canonical JSON serialization of the graph.
// Map keys marshal in sorted order, so the hash is stable per build input.
func fingerprint(g *Graph) uint64 {
	data, err := json.Marshal(g)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
