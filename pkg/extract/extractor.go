package extract

import (
	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

// Extractor tracks the async boundaries exercised by a single render and
// derives that render's dynamic asset list. One Extractor per render; not
// safe for concurrent use.
type Extractor struct {
	manifest manifest.Manifest
	category *manifest.Category

	essentialJS  map[string]struct{}
	essentialCSS map[string]struct{}

	tracked     map[string]struct{}
	observedJS  *manifest.OrderedSet
	observedCSS *manifest.OrderedSet
}

func newExtractor(m manifest.Manifest, c *manifest.Category) *Extractor {
	e := &Extractor{
		manifest:     m,
		category:     c,
		essentialJS:  make(map[string]struct{}, len(c.Essential.JS)),
		essentialCSS: make(map[string]struct{}, len(c.Essential.CSS)),
		tracked:      make(map[string]struct{}),
		observedJS:   manifest.NewOrderedSet(),
		observedCSS:  manifest.NewOrderedSet(),
	}
	for _, js := range c.Essential.JS {
		e.essentialJS[js] = struct{}{}
	}
	for _, css := range c.Essential.CSS {
		e.essentialCSS[css] = struct{}{}
	}
	return e
}

// EssentialAssets returns the assets required unconditionally for every
// render, in manifest order.
func (e *Extractor) EssentialAssets() manifest.AssetGroup {
	return manifest.AssetGroup{
		JS:  append([]string(nil), e.category.Essential.JS...),
		CSS: append([]string(nil), e.category.Essential.CSS...),
	}
}

// Track records that the boundary identified by moduleID rendered during
// this pass. Tracking the same boundary twice is a no-op; assets already in
// the essential set are never observed as dynamic. Track reports whether
// the module identifier was known to the manifest.
func (e *Extractor) Track(moduleID string) bool {
	if _, done := e.tracked[moduleID]; done {
		return true
	}
	e.tracked[moduleID] = struct{}{}

	entry, ok := e.manifest.Lookup(moduleID)
	if !ok {
		return false
	}
	if entry.File != "" {
		if _, essential := e.essentialJS[entry.File]; !essential {
			e.observedJS.Add(entry.File)
		}
	}
	for _, css := range entry.CSS {
		if _, essential := e.essentialCSS[css]; !essential {
			e.observedCSS.Add(css)
		}
	}
	return true
}

// DynamicAssets returns the assets for boundaries observed during this
// render only, deduplicated, in first-discovery order.
func (e *Extractor) DynamicAssets() manifest.AssetGroup {
	return manifest.AssetGroup{
		JS:  e.observedJS.Values(),
		CSS: e.observedCSS.Values(),
	}
}
