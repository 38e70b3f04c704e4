package catalyst

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStaticApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "img", "logo.svg"), []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Static = StaticConfig{Dir: dir}
	return New(cfg), dir
}

func TestStaticServesFiles(t *testing.T) {
	app, _ := newStaticApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/static/app.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/static/img/logo.svg", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("nested file status = %d", rec.Code)
	}
}

func TestStaticMissingFileFallsThrough(t *testing.T) {
	app, _ := newStaticApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/static/ghost.css", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404 from pipeline", rec.Code)
	}
}

func TestStaticRejectsTraversal(t *testing.T) {
	app, dir := newStaticApp(t)

	secret := filepath.Join(filepath.Dir(dir), "secret.txt")
	if err := os.WriteFile(secret, []byte("topsecret"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{
		"/static/../secret.txt",
		"/static/..%2fsecret.txt",
		"/static//etc/passwd",
		"/static/a\\..\\secret.txt",
		"/static/./secret.txt",
	} {
		req := httptest.NewRequest("GET", "/static/x", nil)
		req.URL.Path = p
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		if strings.Contains(rec.Body.String(), "topsecret") {
			t.Errorf("%s leaked file contents", p)
		}
		if rec.Code == http.StatusOK {
			t.Errorf("%s status = 200", p)
		}
	}
}

func TestStaticRelPath(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"/static/app.css", true},
		{"/static/img/logo.svg", true},
		{"/static/", false},
		{"/static/../x", false},
		{"/static//x", false},
		{"/static/a\\b", false},
		{"/static/./x", false},
		{"/other/app.css", false},
	}
	for _, tc := range cases {
		if _, ok := staticRelPath("/static/", tc.in); ok != tc.ok {
			t.Errorf("staticRelPath(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}
