package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeType classifies a detected file change.
type ChangeType int

const (
	ChangeAsset ChangeType = iota
	ChangeCSS
)

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files or directories to watch.
	Paths []string

	// Ignore contains base-name glob patterns to skip.
	Ignore []string

	// Interval is the polling interval.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls build outputs for modification-time changes. Polling keeps
// the dev loop dependency-free and works on network filesystems where
// inotify does not.
type Watcher struct {
	config     WatcherConfig
	onChange   func(Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 250 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching. It blocks until ctx is cancelled or Stop is
// called, so run it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.scan(false)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// scan walks the watched paths; when notify is set, modification-time
// changes fire the callback.
func (w *Watcher) scan(notify bool) {
	for _, root := range w.config.Paths {
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			base := filepath.Base(path)
			if w.ignored(base) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}

			w.mu.Lock()
			prev, seen := w.timestamps[path]
			w.timestamps[path] = info.ModTime()
			fn := w.onChange
			w.mu.Unlock()

			if notify && fn != nil && (!seen || info.ModTime().After(prev)) {
				fn(Change{Path: path, Type: classify(path)})
			}
			return nil
		})
	}
}

func (w *Watcher) ignored(base string) bool {
	for _, pattern := range w.config.Ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func classify(path string) ChangeType {
	if strings.HasSuffix(path, ".css") {
		return ChangeCSS
	}
	return ChangeAsset
}
