package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tata1mg/catalyst-go/pkg/fetch"
)

// Metrics holds the render pipeline collectors. All methods are nil-safe so
// an Orchestrator without metrics pays nothing.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	prerenderHits  prometheus.Counter
	prerenderMiss  prometheus.Counter
	prerenderFails prometheus.Counter
	boundaryFails  prometheus.Counter
}

// NewMetrics creates and registers the render collectors. Registration
// panics on duplicates, same as promauto, so construct once per registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalyst",
			Subsystem: "render",
			Name:      "requests_total",
			Help:      "Page renders by outcome and cache disposition.",
		}, []string{"outcome", "cache"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalyst",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Full render duration from request to closed document.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"cache"}),
		prerenderHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalyst",
			Subsystem: "prerender",
			Name:      "cache_hits_total",
			Help:      "Requests served from a cached prerender.",
		}),
		prerenderMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalyst",
			Subsystem: "prerender",
			Name:      "cache_misses_total",
			Help:      "Requests that triggered or waited on a prerender.",
		}),
		prerenderFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalyst",
			Subsystem: "prerender",
			Name:      "failures_total",
			Help:      "Prerender passes that failed and fell back to direct rendering.",
		}),
		boundaryFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catalyst",
			Subsystem: "render",
			Name:      "boundary_errors_total",
			Help:      "Boundaries that rendered error content after a rejected fetch.",
		}),
	}

	reg.MustRegister(
		m.renders,
		m.renderDuration,
		m.prerenderHits,
		m.prerenderMiss,
		m.prerenderFails,
		m.boundaryFails,
	)
	return m
}

// fetchCacheCollector reads the promise cache counters on scrape. The cache
// already tracks them under its own lock, so scraping costs one lock
// acquisition and no allocation on the render path.
type fetchCacheCollector struct {
	cache *fetch.Cache

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
}

// NewFetchCacheCollector exports the promise cache counters: deduplicated
// lookups (hits), fetches actually started (misses), LRU evictions, and live
// entries.
func NewFetchCacheCollector(cache *fetch.Cache) prometheus.Collector {
	return &fetchCacheCollector{
		cache: cache,
		hits: prometheus.NewDesc("catalyst_fetch_cache_hits_total",
			"Fetches deduplicated against an existing shared future.", nil, nil),
		misses: prometheus.NewDesc("catalyst_fetch_cache_misses_total",
			"Fetches started because no live entry existed.", nil, nil),
		evictions: prometheus.NewDesc("catalyst_fetch_cache_evictions_total",
			"Entries evicted from the least-recently-used position.", nil, nil),
		entries: prometheus.NewDesc("catalyst_fetch_cache_entries",
			"Live entries in the promise cache.", nil, nil),
	}
}

func (c *fetchCacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
}

func (c *fetchCacheCollector) Collect(ch chan<- prometheus.Metric) {
	hits, misses, evictions := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(evictions))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.cache.Len()))
}

func (m *Metrics) observeRender(outcome, cache string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(outcome, cache).Inc()
	m.renderDuration.WithLabelValues(cache).Observe(elapsed.Seconds())
}

func (m *Metrics) prerenderHit() {
	if m == nil {
		return
	}
	m.prerenderHits.Inc()
}

func (m *Metrics) prerenderMissed() {
	if m == nil {
		return
	}
	m.prerenderMiss.Inc()
}

func (m *Metrics) prerenderFailed() {
	if m == nil {
		return
	}
	m.prerenderFails.Inc()
}

func (m *Metrics) boundaryErrored() {
	if m == nil {
		return
	}
	m.boundaryFails.Inc()
}
