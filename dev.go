package catalyst

import (
	"context"
	"path/filepath"

	"github.com/tata1mg/catalyst-go/internal/dev"
	"github.com/tata1mg/catalyst-go/pkg/render"
	"github.com/tata1mg/catalyst-go/pkg/server"
)

// EnableHotReload mounts the reload WebSocket endpoint at /_catalyst/reload
// and watches paths for build output changes. A change drops the cached
// manifest and prerenders, then pushes a reload to connected browsers.
// Returns the reload server so callers can push their own notifications.
func (a *App) EnableHotReload(ctx context.Context, paths ...string) *dev.ReloadServer {
	rs := dev.NewReloadServer()
	a.router.Handle("/_catalyst/reload", rs)

	w := dev.NewWatcher(dev.WatcherConfig{Paths: paths})
	w.OnChange(func(c dev.Change) {
		a.Invalidate()
		a.logger.Info("build output changed", "path", c.Path)
		if c.Type == dev.ChangeCSS {
			rs.NotifyCSS(filepath.Base(c.Path))
			return
		}
		rs.NotifyReload()
	})
	go w.Start(ctx)

	return rs
}

// wrapPage injects the hot reload client script into every page when dev
// mode is on.
func (a *App) wrapPage(page server.PageFunc) server.PageFunc {
	if !a.cfg.DevMode {
		return page
	}
	return func(ctx context.Context, params map[string]string) *render.Document {
		doc := page(ctx, params)
		if doc == nil {
			return nil
		}
		doc.Head = append(doc.Head, render.Raw(dev.ClientScript))
		return doc
	}
}
