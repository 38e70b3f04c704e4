package catalyst

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// staticHandler serves files from the configured static directory. Requests
// that try to escape the directory are rejected before any filesystem
// access; requests with no matching file fall through to the render
// pipeline, which lets the prefix be "/".
func (a *App) staticHandler() http.Handler {
	dir := a.cfg.Static.Dir
	prefix := a.cfg.Static.Prefix

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel, ok := staticRelPath(prefix, r.URL.Path)
		if !ok {
			a.orch.ServeHTTP(w, r)
			return
		}

		full := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			a.orch.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, full)
	})
}

// staticRelPath returns a sanitized path relative to the static directory.
// It rejects traversal and absolute-path tricks so static serving cannot
// escape the configured directory.
func staticRelPath(prefix, urlPath string) (string, bool) {
	rel, ok := strings.CutPrefix(urlPath, prefix)
	if !ok || rel == "" {
		return "", false
	}

	// NUL can appear via %00.
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// A leading "/" after prefix stripping is an absolute-path attempt
	// (e.g. "/static//etc/passwd" => "/etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning so traversal attempts are not
	// cleaned into something that looks safe.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}
