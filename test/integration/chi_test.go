package integration_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	catalyst "github.com/tata1mg/catalyst-go"
	"github.com/tata1mg/catalyst-go/pkg/manifest"
	"github.com/tata1mg/catalyst-go/pkg/middleware"
	"github.com/tata1mg/catalyst-go/pkg/render"
)

var manifestJSON = []byte(`{
	"src/Main":            {"file": "main.js", "css": ["main.css"], "isEntry": true},
	"src/widgets/Reviews": {"file": "reviews.js"}
}`)

var categoryJSON = []byte(`{
	"essential": {"js": ["main.js"], "css": ["main.css"]},
	"dynamic":   {"js": ["reviews.js"], "css": []}
}`)

func newApp(t *testing.T, reg prometheus.Registerer) *catalyst.App {
	t.Helper()
	app := catalyst.New(catalyst.Config{
		Manifest:   &manifest.BytesSource{Label: "manifest", Data: manifestJSON},
		Category:   &manifest.BytesSource{Label: "category", Data: categoryJSON},
		Metrics:    reg,
		Middleware: []func(http.Handler) http.Handler{middleware.RequestID()},
	})
	app.Fetcher("reviews", func(ctx context.Context, params map[string]string) (any, error) {
		return "reviews for " + params["id"], nil
	})
	err := app.Page("/product/:id", func(ctx context.Context, params map[string]string) *render.Document {
		return &render.Document{
			Title: "Product " + params["id"],
			Body: render.El("main", nil,
				render.Boundary("src/widgets/Reviews", "reviews", "reviews:"+params["id"],
					func(v any) *render.Node { return render.Text(v.(string)) },
					render.Text("loading"),
				),
			),
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	return app
}

// The app mounts inside a chi router behind chi middleware, with a
// Prometheus scrape endpoint alongside it.
func TestChiMountedApp(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := newApp(t, reg)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", app)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/product/42")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("request ID middleware did not run under chi")
	}
	for _, want := range []string{"<title>Product 42</title>", "reviews for 42", "</html>"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body missing %q", want)
		}
	}

	// The render counters are exposed on the scrape endpoint.
	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	metrics, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(metrics), "catalyst_render_requests_total") {
		t.Error("render metrics not exported")
	}
}

// Responses stream: the shell arrives before the slow boundary settles.
func TestStreamingThroughRealServer(t *testing.T) {
	release := make(chan struct{})
	app := catalyst.New(catalyst.Config{
		Manifest: &manifest.BytesSource{Label: "manifest", Data: manifestJSON},
		Category: &manifest.BytesSource{Label: "category", Data: categoryJSON},
	})
	app.Fetcher("slow", func(ctx context.Context, params map[string]string) (any, error) {
		<-release
		return "finally", nil
	})
	err := app.Page("/slow", func(ctx context.Context, params map[string]string) *render.Document {
		return &render.Document{
			Body: render.Boundary("src/widgets/Reviews", "slow", "slow:1",
				func(v any) *render.Node { return render.Text(v.(string)) },
				render.Text("pending"),
			),
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(app)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/slow")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	// The prelude is readable while the fetch is still blocked.
	shell := make([]byte, 4096)
	n, err := resp.Body.Read(shell)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if !strings.Contains(string(shell[:n]), "pending") {
		t.Fatalf("shell not streamed before data ready:\n%s", shell[:n])
	}
	if strings.Contains(string(shell[:n]), "finally") {
		t.Fatal("boundary content arrived with the shell")
	}

	close(release)
	rest, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(rest), "finally") {
		t.Errorf("completion never streamed:\n%s", rest)
	}
}
