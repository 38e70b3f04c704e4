package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tata1mg/catalyst-go/pkg/fetch"
	"github.com/tata1mg/catalyst-go/pkg/routetree"
)

func TestMetricsCountCacheDispositions(t *testing.T) {
	reg := prometheus.NewRegistry()
	fetchers := fetch.NewRegistry()
	fetchers.Register("reviews", func(ctx context.Context, params map[string]string) (any, error) {
		return "ok", nil
	})
	o := New(Config{
		Caches:   NewCacheService(),
		Loader:   testLoader(),
		Fetchers: fetchers,
		Logger:   discardLogger(),
		Metrics:  NewMetrics(reg),
	})
	mustHandle(t, o, routetree.Route{Pattern: "/product/:id"}, productPage(nil))

	o.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/product/1", nil))
	o.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/product/1", nil))

	if got := testutil.ToFloat64(o.metrics.prerenderMiss); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.metrics.prerenderHits); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.metrics.renders.WithLabelValues("ok", "miss")); got != 1 {
		t.Errorf("ok/miss renders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.metrics.renders.WithLabelValues("ok", "hit")); got != 1 {
		t.Errorf("ok/hit renders = %v, want 1", got)
	}
}

func TestFetchCacheCollectorExportsStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	cache := fetch.NewCache()
	reg.MustRegister(NewFetchCacheCollector(cache))

	f := cache.GetOrCreate(context.Background(), "reviews:1", func(ctx context.Context) (any, error) {
		return "ok", nil
	})
	<-f.Done()
	cache.GetOrCreate(context.Background(), "reviews:1", func(ctx context.Context) (any, error) {
		t.Error("deduplicated fetch must not start")
		return nil, nil
	})

	expected := strings.NewReader(`
# HELP catalyst_fetch_cache_entries Live entries in the promise cache.
# TYPE catalyst_fetch_cache_entries gauge
catalyst_fetch_cache_entries 1
# HELP catalyst_fetch_cache_evictions_total Entries evicted from the least-recently-used position.
# TYPE catalyst_fetch_cache_evictions_total counter
catalyst_fetch_cache_evictions_total 0
# HELP catalyst_fetch_cache_hits_total Fetches deduplicated against an existing shared future.
# TYPE catalyst_fetch_cache_hits_total counter
catalyst_fetch_cache_hits_total 1
# HELP catalyst_fetch_cache_misses_total Fetches started because no live entry existed.
# TYPE catalyst_fetch_cache_misses_total counter
catalyst_fetch_cache_misses_total 1
`)
	if err := testutil.GatherAndCompare(reg, expected); err != nil {
		t.Error(err)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.prerenderHit()
	m.prerenderMissed()
	m.prerenderFailed()
	m.boundaryErrored()
	m.observeRender("ok", "hit", 0)
}
