// Package manifest defines the two JSON shapes exchanged with the build
// tool: the per-module build manifest and the derived essential/dynamic
// categorization. The core is agnostic to how either file was produced.
//
// Build manifest, keyed by source module identifier:
//
//	{
//	  "src/pages/Product": {"file": "product.a1b2c3.js", "css": ["product.css"], "isEntry": false}
//	}
//
// Categorized file:
//
//	{"essential": {"js": [...], "css": [...]}, "dynamic": {"js": [...], "css": [...]}}
package manifest

import (
	"encoding/json"

	"github.com/tata1mg/catalyst-go/internal/errors"
)

// Entry describes the compiled output of one source module.
type Entry struct {
	// File is the fingerprinted JS chunk containing the module.
	File string `json:"file"`

	// CSS lists stylesheets emitted for the chunk, in import order.
	CSS []string `json:"css,omitempty"`

	// IsEntry marks entry-point chunks.
	IsEntry bool `json:"isEntry,omitempty"`
}

// Manifest maps source module identifiers to their compiled entries.
// Produced once per build; read-only at runtime.
type Manifest map[string]Entry

// AssetGroup is an ordered list of JS and CSS assets.
type AssetGroup struct {
	JS  []string `json:"js"`
	CSS []string `json:"css"`
}

// Category partitions build assets into the always-needed essential set and
// the boundary-conditional dynamic set.
type Category struct {
	Essential AssetGroup `json:"essential"`
	Dynamic   AssetGroup `json:"dynamic"`
}

// ParseManifest decodes the build manifest JSON shape.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("E102").Wrap(err)
	}
	return m, nil
}

// ParseCategory decodes the categorized asset JSON shape.
func ParseCategory(data []byte) (*Category, error) {
	var c Category
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.New("E103").Wrap(err)
	}
	return &c, nil
}

// Encode serializes the manifest with stable key order.
func (m Manifest) Encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Encode serializes the categorized asset file.
func (c *Category) Encode() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Lookup returns the entry for a module identifier.
func (m Manifest) Lookup(moduleID string) (Entry, bool) {
	e, ok := m[moduleID]
	return e, ok
}
