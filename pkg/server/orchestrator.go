package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tata1mg/catalyst-go/internal/errors"
	"github.com/tata1mg/catalyst-go/pkg/extract"
	"github.com/tata1mg/catalyst-go/pkg/fetch"
	"github.com/tata1mg/catalyst-go/pkg/render"
	"github.com/tata1mg/catalyst-go/pkg/routetree"
)

// PageFunc builds the document for a matched route. It runs during the
// prerender pass, so it must not touch per-request state; request data
// belongs in boundary fetchers.
type PageFunc func(ctx context.Context, params map[string]string) *render.Document

// Orchestrator is the render pipeline's HTTP entry point. Each request is
// canonicalized, matched, served the cached prerender prelude (prerendering
// on a cold path), then resumed: boundary data is fetched through the shared
// promise cache and completions are streamed in two phases.
type Orchestrator struct {
	routes     *routetree.Tree
	pages      map[string]PageFunc
	fetchers   *fetch.Registry
	boundaries *render.BoundaryRegistry
	caches     *CacheService
	loader     *extract.Loader

	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer
	assetPrefix string
}

// Config wires an Orchestrator.
type Config struct {
	// Caches is the process-wide cache service. Required.
	Caches *CacheService

	// Loader supplies per-render asset extractors. Required.
	Loader *extract.Loader

	// Fetchers resolves fetcher IDs to data loaders. Required.
	Fetchers *fetch.Registry

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional; nil disables collection.
	Metrics *Metrics

	// AssetPrefix is prepended to emitted asset URLs (e.g. a CDN origin).
	AssetPrefix string
}

// New creates an Orchestrator with no routes registered.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		routes:      routetree.New(),
		pages:       make(map[string]PageFunc),
		fetchers:    cfg.Fetchers,
		boundaries:  render.NewBoundaryRegistry(),
		caches:      cfg.Caches,
		loader:      cfg.Loader,
		logger:      logger,
		metrics:     cfg.Metrics,
		tracer:      otel.Tracer("github.com/tata1mg/catalyst-go/pkg/server"),
		assetPrefix: cfg.AssetPrefix,
	}
}

// HandlePage registers a route subtree and serves every pattern in it with
// page. Nested patterns can be overridden afterwards with SetPage.
func (o *Orchestrator) HandlePage(route routetree.Route, page PageFunc) error {
	if err := o.routes.Add(route); err != nil {
		return err
	}
	o.setPages(route, "", page)
	return nil
}

// SetPage maps a flattened pattern to a page function, replacing any
// previous mapping.
func (o *Orchestrator) SetPage(pattern string, page PageFunc) {
	o.pages[pattern] = page
}

func (o *Orchestrator) setPages(route routetree.Route, prefix string, page PageFunc) {
	pattern := routetree.JoinPatterns(prefix, route.Pattern)
	o.pages[pattern] = page
	for _, child := range route.Children {
		o.setPages(child, pattern, page)
	}
}

// Boundaries exposes the boundary registry, used by dev tooling to inspect
// registered continuations.
func (o *Orchestrator) Boundaries() *render.BoundaryRegistry {
	return o.boundaries
}

// ServeHTTP runs the full pipeline for one request.
func (o *Orchestrator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	requestID := uuid.NewString()
	log := o.logger.With(
		slog.String("request_id", requestID),
		slog.String("path", r.URL.Path),
	)

	key, err := routetree.Canonicalize(r.URL.Path)
	if err != nil {
		log.Warn("rejected malformed path", slog.String("error", err.Error()))
		http.Error(w, "400 bad request", http.StatusBadRequest)
		return
	}

	match, ok := o.routes.Match(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page, ok := o.pages[match.Pattern]
	if !ok {
		log.Error("route matched but no page registered", slog.String("pattern", match.Pattern))
		http.NotFound(w, r)
		return
	}
	log = log.With(slog.String("pattern", match.Pattern))

	entry, hit := o.caches.Prerender(key)
	cache := "hit"
	switch {
	case hit:
		o.metrics.prerenderHit()
	default:
		o.metrics.prerenderMissed()
		cache = "miss"
		entry, err = o.caches.prerenderOnce(key, func() (*PrerenderEntry, error) {
			return o.prerender(ctx, key, match, page)
		})
		if err != nil {
			o.metrics.prerenderFailed()
			log.Error("prerender failed, serving uncached render",
				slog.String("error", err.Error()))
			cache = "direct"
			outcome := o.renderDirect(ctx, w, match, page, log)
			o.metrics.observeRender(outcome, cache, time.Since(start))
			return
		}
		o.caches.StorePrerender(entry)
	}

	outcome := o.resume(ctx, w, entry, match, log)
	o.metrics.observeRender(outcome, cache, time.Since(start))
	log.Info("render complete",
		slog.String("outcome", outcome),
		slog.String("cache", cache),
		slog.Duration("elapsed", time.Since(start)))
}

// prerender executes the prerender pass for one canonical path: build the
// document, render the shell, and kick off the fetches its boundaries
// declare so the first resume finds them already in flight.
func (o *Orchestrator) prerender(ctx context.Context, key string, match *routetree.Match, page PageFunc) (entry *PrerenderEntry, err error) {
	ctx, span := o.tracer.Start(ctx, "catalyst.prerender",
		trace.WithAttributes(attribute.String("catalyst.path", key)))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New("E301").WithDetail(fmt.Sprintf("page panic: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := page(ctx, match.Params)
	if doc == nil {
		return nil, errors.New("E301").WithDetail("page returned nil document")
	}

	extractor, err := o.loader.Extractor(ctx)
	if err != nil {
		return nil, err
	}
	if len(doc.Essential.JS) == 0 && len(doc.Essential.CSS) == 0 {
		doc.Essential = extractor.EssentialAssets()
	}
	if doc.AssetPrefix == "" {
		doc.AssetPrefix = o.assetPrefix
	}

	shell, err := render.PrerenderShell(doc, o.boundaries)
	if err != nil {
		return nil, errors.FromError(err, "E301")
	}

	o.startFetches(ctx, shell.Descriptor, match.Params)

	return &PrerenderEntry{
		CacheKey:   key,
		Prelude:    shell.Prelude,
		Descriptor: shell.Descriptor,
	}, nil
}

// startFetches enters every placeholder's fetch into the promise cache.
// Missing fetchers become pre-rejected futures so the boundary renders its
// error content instead of hanging.
func (o *Orchestrator) startFetches(ctx context.Context, desc *render.ResumeDescriptor, params map[string]string) map[string]*fetch.Future {
	futures := make(map[string]*fetch.Future, len(desc.Placeholders))
	for _, ph := range desc.Placeholders {
		fn, ok := o.fetchers.Lookup(ph.FetcherID)
		if !ok {
			f := fetch.NewFuture()
			f.Reject(errors.New("E402").WithDetail("fetcher " + ph.FetcherID + " not registered"))
			futures[ph.ID] = f
			continue
		}
		futures[ph.ID] = o.caches.promises.GetOrCreate(ctx, ph.FetchKey, func(c context.Context) (any, error) {
			return fn(c, params)
		})
	}
	return futures
}

// resume streams the two-phase response: the prelude flushes immediately
// (shell-ready), then once every boundary fetch settles the dynamic asset
// tags, completions, hydration payload, and document close are written
// (all-ready).
func (o *Orchestrator) resume(ctx context.Context, w http.ResponseWriter, entry *PrerenderEntry, match *routetree.Match, log *slog.Logger) string {
	ctx, span := o.tracer.Start(ctx, "catalyst.resume",
		trace.WithAttributes(
			attribute.String("catalyst.path", entry.CacheKey),
			attribute.Int("catalyst.boundaries", len(entry.Descriptor.Placeholders)),
		))
	defer span.End()

	extractor, err := o.loader.Extractor(ctx)
	if err != nil {
		log.Error("asset manifest unavailable", slog.String("error", err.Error()))
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
		return "failed"
	}

	futures := o.startFetches(ctx, entry.Descriptor, match.Params)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sw := render.NewStreamWriter(w)
	if _, err := sw.Write(entry.Prelude); err != nil {
		log.Warn("client gone during prelude", slog.String("error", err.Error()))
		return "aborted"
	}
	sw.Flush()

	if err := waitAll(ctx, futures); err != nil {
		// Mid-stream abort: the connection closes with the document open,
		// which the client treats as a failed navigation.
		log.Warn("render aborted before all-ready", slog.String("error", err.Error()))
		return "aborted"
	}

	values := fetch.NewValueCache()
	var completions bytes.Buffer
	for _, ph := range entry.Descriptor.Placeholders {
		f := futures[ph.ID]
		switch f.Status() {
		case fetch.StatusFulfilled:
			values.Set(ph.FetchKey, f.Value())
		default:
			o.metrics.boundaryErrored()
			log.Warn("boundary fetch rejected",
				slog.String("boundary", ph.BoundaryID),
				slog.String("error", f.Err().Error()))
		}
		extractor.Track(ph.BoundaryID)
		if err := render.WriteBoundary(&completions, o.boundaries, ph, f); err != nil {
			log.Error("resume failed mid-stream",
				slog.String("boundary", ph.BoundaryID),
				slog.String("error", errors.FromError(err, "E303").Error()))
			return "failed"
		}
	}

	render.WriteResumeScript(sw)
	render.WriteDynamicAssetTags(sw, extractor.DynamicAssets(), o.assetPrefix)
	if _, err := sw.Write(completions.Bytes()); err != nil {
		return "aborted"
	}
	render.WriteHydrationPayload(sw, values.Snapshot())
	render.CloseDocument(sw)
	sw.Flush()
	return "ok"
}

// renderDirect is the degraded path after a failed prerender: render the
// document in one pass with boundaries resolved inline, buffer it fully,
// and serve it without touching the prerender cache.
func (o *Orchestrator) renderDirect(ctx context.Context, w http.ResponseWriter, match *routetree.Match, page PageFunc, log *slog.Logger) (outcome string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("direct render panic", slog.Any("panic", rec))
			http.Error(w, "500 internal server error", http.StatusInternalServerError)
			outcome = "failed"
		}
	}()

	extractor, err := o.loader.Extractor(ctx)
	if err != nil {
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
		return "failed"
	}

	doc := page(ctx, match.Params)
	if doc == nil {
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
		return "failed"
	}
	if len(doc.Essential.JS) == 0 && len(doc.Essential.CSS) == 0 {
		doc.Essential = extractor.EssentialAssets()
	}
	if doc.AssetPrefix == "" {
		doc.AssetPrefix = o.assetPrefix
	}

	values := fetch.NewValueCache()
	renderer := render.NewRendererWithBoundary(func(bw io.Writer, n *render.Node) error {
		fn, ok := o.fetchers.Lookup(n.FetcherID)
		var f *fetch.Future
		if !ok {
			f = fetch.NewFuture()
			f.Reject(errors.New("E402").WithDetail("fetcher " + n.FetcherID + " not registered"))
		} else {
			params := match.Params
			f = o.caches.promises.GetOrCreate(ctx, n.FetchKey, func(c context.Context) (any, error) {
				return fn(c, params)
			})
		}
		if _, err := f.Wait(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		extractor.Track(n.BoundaryID)
		if f.Status() == fetch.StatusFulfilled {
			values.Set(n.FetchKey, f.Value())
			if n.Content != nil {
				return render.NewRenderer().RenderToWriter(bw, n.Content(f.Value()))
			}
			return nil
		}
		o.metrics.boundaryErrored()
		if n.ErrorContent != nil {
			return render.NewRenderer().RenderToWriter(bw, n.ErrorContent)
		}
		_, err := io.WriteString(bw, `<div data-catalyst-error="true">Something went wrong.</div>`)
		return err
	})

	var buf bytes.Buffer
	if err := render.WriteDocument(&buf, doc, renderer); err != nil {
		log.Error("direct render failed", slog.String("error", err.Error()))
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
		return "failed"
	}
	render.WriteDynamicAssetTags(&buf, extractor.DynamicAssets(), o.assetPrefix)
	render.WriteHydrationPayload(&buf, values.Snapshot())
	render.CloseDocument(&buf)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return "aborted"
	}
	return "ok"
}

// waitAll blocks until every future settles or ctx is cancelled. Rejected
// fetches are not errors here; they surface as boundary error content.
func waitAll(ctx context.Context, futures map[string]*fetch.Future) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range futures {
		f := f
		g.Go(func() error {
			select {
			case <-f.Done():
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}
