package catalyst

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDevModeInjectsReloadScript(t *testing.T) {
	cfg := testConfig()
	cfg.DevMode = true
	app := New(cfg)
	app.Fetcher("reviews", func(ctx context.Context, params map[string]string) (any, error) {
		return "ok", nil
	})
	if err := app.Page("/product/:id", productPage); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/product/1", nil))
	if !strings.Contains(rec.Body.String(), "/_catalyst/reload") {
		t.Error("dev page missing hot reload client")
	}

	prod := New(testConfig())
	prod.Fetcher("reviews", func(ctx context.Context, params map[string]string) (any, error) {
		return "ok", nil
	})
	if err := prod.Page("/product/:id", productPage); err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	prod.ServeHTTP(rec, httptest.NewRequest("GET", "/product/1", nil))
	if strings.Contains(rec.Body.String(), "/_catalyst/reload") {
		t.Error("production page carries dev client")
	}
}

func TestEnableHotReloadMountsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.DevMode = true
	app := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rs := app.EnableHotReload(ctx, t.TempDir())
	defer rs.Close()

	// A plain GET is not a WebSocket upgrade; the endpoint must exist and
	// reject it rather than fall through to the render pipeline.
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/_catalyst/reload", nil))
	if rec.Code == 404 {
		t.Error("reload endpoint not mounted")
	}
}
