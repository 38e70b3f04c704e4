package manifest

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseManifest(t *testing.T) {
	data := []byte(`{
		"src/pages/Home": {"file": "home.abc.js", "css": ["home.css"], "isEntry": true},
		"src/widgets/Reviews": {"file": "reviews.def.js"}
	}`)

	m, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home, ok := m.Lookup("src/pages/Home")
	if !ok {
		t.Fatal("missing Home entry")
	}
	if home.File != "home.abc.js" || !home.IsEntry {
		t.Errorf("unexpected Home entry: %+v", home)
	}
	if len(home.CSS) != 1 || home.CSS[0] != "home.css" {
		t.Errorf("unexpected Home css: %v", home.CSS)
	}

	reviews, _ := m.Lookup("src/widgets/Reviews")
	if reviews.IsEntry {
		t.Error("Reviews should not be an entry")
	}
}

func TestParseManifestInvalid(t *testing.T) {
	if _, err := ParseManifest([]byte("{nope")); err == nil {
		t.Error("expected parse error")
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	c := &Category{
		Essential: AssetGroup{JS: []string{"app.js"}, CSS: []string{"app.css"}},
		Dynamic:   AssetGroup{JS: []string{"reviews.js"}, CSS: []string{}},
	}

	data, err := c.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := ParseCategory(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(parsed.Essential.JS, c.Essential.JS) {
		t.Errorf("essential js = %v", parsed.Essential.JS)
	}
	if !reflect.DeepEqual(parsed.Dynamic.JS, c.Dynamic.JS) {
		t.Errorf("dynamic js = %v", parsed.Dynamic.JS)
	}
}

func TestOrderedSet(t *testing.T) {
	s := NewOrderedSet()
	if !s.Add("b") || !s.Add("a") {
		t.Error("first inserts should report true")
	}
	if s.Add("b") {
		t.Error("duplicate insert should report false")
	}
	s.Add("c")

	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(s.Values(), want) {
		t.Errorf("values = %v, want %v (insertion order)", s.Values(), want)
	}
	if !s.Has("a") || s.Has("z") {
		t.Error("membership checks failed")
	}
	if s.Len() != 3 {
		t.Errorf("len = %d", s.Len())
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	data, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("data = %q", data)
	}

	missing := NewFileSource(filepath.Join(dir, "absent.json"))
	if _, err := missing.Fetch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
