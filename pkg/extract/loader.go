// Package extract provides runtime access to the classified asset manifest.
//
// A process-wide Loader caches the manifest; per-render Extractors track
// which async boundaries actually executed and expose the essential and
// dynamic asset lists for the response.
package extract

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

// Loader loads and caches the build manifest and its categorized companion.
//
// In production the files are fetched once and cached for the process
// lifetime. In development they are refetched for every render, since a
// rebuild may have changed them.
type Loader struct {
	manifestSrc manifest.Source
	categorySrc manifest.Source
	dev         bool
	logger      *slog.Logger

	mu       sync.RWMutex
	manifest manifest.Manifest
	category *manifest.Category
}

// NewLoader creates a Loader over the two manifest sources.
func NewLoader(manifestSrc, categorySrc manifest.Source, dev bool, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		manifestSrc: manifestSrc,
		categorySrc: categorySrc,
		dev:         dev,
		logger:      logger,
	}
}

// Initialize fetches and caches both files. Safe to call more than once;
// later calls refresh the cache.
func (l *Loader) Initialize(ctx context.Context) error {
	m, c, err := l.fetch(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.manifest = m
	l.category = c
	l.mu.Unlock()
	return nil
}

// Invalidate drops the cached manifest so the next Extractor call refetches.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.manifest = nil
	l.category = nil
	l.mu.Unlock()
}

// Extractor returns a per-render Extractor over the current manifest.
// In dev mode the manifest is refetched; in production the cached copy is
// used, fetching lazily if Initialize was never called.
func (l *Loader) Extractor(ctx context.Context) (*Extractor, error) {
	if l.dev {
		m, c, err := l.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return newExtractor(m, c), nil
	}

	l.mu.RLock()
	m, c := l.manifest, l.category
	l.mu.RUnlock()

	if m == nil || c == nil {
		if err := l.Initialize(ctx); err != nil {
			return nil, err
		}
		l.mu.RLock()
		m, c = l.manifest, l.category
		l.mu.RUnlock()
	}
	return newExtractor(m, c), nil
}

// fetch loads both files from their sources.
func (l *Loader) fetch(ctx context.Context) (manifest.Manifest, *manifest.Category, error) {
	rawManifest, err := l.manifestSrc.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	m, err := manifest.ParseManifest(rawManifest)
	if err != nil {
		return nil, nil, err
	}

	rawCategory, err := l.categorySrc.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := manifest.ParseCategory(rawCategory)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Debug("manifest loaded",
		"source", l.manifestSrc.Name(),
		"modules", len(m),
		"essential_js", len(c.Essential.JS),
		"dynamic_js", len(c.Dynamic.JS))
	return m, c, nil
}
