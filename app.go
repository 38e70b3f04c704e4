package catalyst

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tata1mg/catalyst-go/pkg/extract"
	"github.com/tata1mg/catalyst-go/pkg/fetch"
	"github.com/tata1mg/catalyst-go/pkg/routetree"
	"github.com/tata1mg/catalyst-go/pkg/server"
)

// App wires the render pipeline, static file serving, and middleware into a
// single http.Handler.
type App struct {
	cfg    Config
	logger *slog.Logger

	caches   *server.CacheService
	loader   *extract.Loader
	fetchers *fetch.Registry
	orch     *server.Orchestrator
	router   chi.Router
}

// New creates an App from cfg. Pages and fetchers are registered on the
// returned App before serving.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = "/static/"
	}

	var cacheOpts []server.CacheOption
	if cfg.PromiseCapacity > 0 {
		cacheOpts = append(cacheOpts, server.WithPromiseCapacity(cfg.PromiseCapacity))
	}
	if cfg.FetchTimeout > 0 {
		cacheOpts = append(cacheOpts, server.WithFetchTimeout(cfg.FetchTimeout))
	}
	caches := server.NewCacheService(cacheOpts...)

	loader := extract.NewLoader(cfg.Manifest, cfg.Category, cfg.DevMode, logger)
	fetchers := fetch.NewRegistry()

	var metrics *server.Metrics
	if cfg.Metrics != nil {
		metrics = server.NewMetrics(cfg.Metrics)
		cfg.Metrics.MustRegister(server.NewFetchCacheCollector(caches.Promises()))
	}

	orch := server.New(server.Config{
		Caches:      caches,
		Loader:      loader,
		Fetchers:    fetchers,
		Logger:      logger,
		Metrics:     metrics,
		AssetPrefix: cfg.AssetPrefix,
	})

	app := &App{
		cfg:      cfg,
		logger:   logger,
		caches:   caches,
		loader:   loader,
		fetchers: fetchers,
		orch:     orch,
		router:   chi.NewRouter(),
	}

	for _, mw := range cfg.Middleware {
		app.router.Use(mw)
	}
	// Pages are mounted as a real catch-all route. chi serves its NotFound
	// handler without the middleware chain, so routing pages through
	// NotFound alone would skip every registered middleware.
	app.router.Handle("/*", http.HandlerFunc(orch.ServeHTTP))
	if cfg.Static.Dir != "" {
		app.router.Handle(cfg.Static.Prefix+"*", app.staticHandler())
	}
	app.router.NotFound(orch.ServeHTTP)

	return app
}

// Page registers a page for a route pattern (e.g. "/product/:id").
func (a *App) Page(pattern string, page server.PageFunc) error {
	return a.orch.HandlePage(routetree.Route{Pattern: pattern}, a.wrapPage(page))
}

// Route registers a route subtree served by page. Nested patterns can be
// overridden afterwards with a.SetPage.
func (a *App) Route(route routetree.Route, page server.PageFunc) error {
	return a.orch.HandlePage(route, a.wrapPage(page))
}

// SetPage maps a flattened pattern to its own page function.
func (a *App) SetPage(pattern string, page server.PageFunc) {
	a.orch.SetPage(pattern, a.wrapPage(page))
}

// Fetcher registers a data fetcher under id, referenced by boundaries.
func (a *App) Fetcher(id string, fn fetch.FetcherFunc) {
	a.fetchers.Register(id, fn)
}

// Handle mounts an extra handler on the app router (e.g. a promhttp
// endpoint or an API). Static files and pages are unaffected.
func (a *App) Handle(pattern string, h http.Handler) {
	a.router.Handle(pattern, h)
}

// Initialize eagerly loads the build manifest. Production servers call this
// at startup so a broken manifest fails fast instead of on first request.
func (a *App) Initialize(ctx context.Context) error {
	return a.loader.Initialize(ctx)
}

// Invalidate drops the cached build manifest and every cached prerender.
// The dev watcher calls this when build output changes.
func (a *App) Invalidate() {
	a.loader.Invalidate()
	a.caches.InvalidatePrerenders()
}

// Caches exposes the process-wide cache service.
func (a *App) Caches() *server.CacheService {
	return a.caches
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
