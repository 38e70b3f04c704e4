package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tata1mg/catalyst-go/pkg/fetch"
	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

func productDoc() *Document {
	return &Document{
		Title: "Product 42",
		Body: El("main", nil,
			El("h1", nil, Text("Catalog")),
			Boundary("src/widgets/ProductDetail", "product", "product:42",
				func(v any) *Node {
					return El("section", nil, Text(v.(string)))
				},
				El("p", nil, Text("loading product...")),
			),
		),
		Essential:   manifest.AssetGroup{JS: []string{"main.js"}, CSS: []string{"main.css"}},
		AssetPrefix: "/assets/",
	}
}

func TestPrerenderShellPrelude(t *testing.T) {
	reg := NewBoundaryRegistry()
	shell, err := PrerenderShell(productDoc(), reg)
	if err != nil {
		t.Fatalf("prerender: %v", err)
	}

	prelude := string(shell.Prelude)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Product 42</title>",
		`<link rel="stylesheet" href="/assets/main.css">`,
		`<script src="/assets/main.js" defer></script>`,
		"<h1>Catalog</h1>",
		`<div data-catalyst-pending="b1">`,
		"loading product...",
	} {
		if !strings.Contains(prelude, want) {
			t.Errorf("prelude missing %q:\n%s", want, prelude)
		}
	}

	// The shell must stay open for the all-ready phase.
	if strings.Contains(prelude, "</body>") || strings.Contains(prelude, "</html>") {
		t.Error("prelude must not close the document")
	}

	// Boundary content must not leak into the shell.
	if strings.Contains(prelude, "<section>") {
		t.Error("boundary content rendered into the prelude")
	}
}

func TestPrerenderShellDescriptor(t *testing.T) {
	reg := NewBoundaryRegistry()
	shell, err := PrerenderShell(productDoc(), reg)
	if err != nil {
		t.Fatal(err)
	}

	if len(shell.Descriptor.Placeholders) != 1 {
		t.Fatalf("placeholders = %d", len(shell.Descriptor.Placeholders))
	}
	ph := shell.Descriptor.Placeholders[0]
	if ph.ID != "b1" || ph.BoundaryID != "src/widgets/ProductDetail" {
		t.Errorf("placeholder = %+v", ph)
	}
	if ph.FetcherID != "product" || ph.FetchKey != "product:42" {
		t.Errorf("placeholder fetch binding = %+v", ph)
	}

	if _, ok := reg.Lookup("src/widgets/ProductDetail"); !ok {
		t.Error("prerender must register the boundary definition")
	}
}

func TestPrerenderShellDeterministic(t *testing.T) {
	a, err := PrerenderShell(productDoc(), NewBoundaryRegistry())
	if err != nil {
		t.Fatal(err)
	}
	b, err := PrerenderShell(productDoc(), NewBoundaryRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Prelude, b.Prelude) {
		t.Error("prelude must be byte-for-byte reproducible")
	}
}

func TestPrerenderShellMultipleBoundaries(t *testing.T) {
	doc := &Document{
		Body: Fragment(
			Boundary("m/a", "fa", "a:1", func(any) *Node { return Text("A") }, nil),
			Boundary("m/b", "fb", "b:1", func(any) *Node { return Text("B") }, nil),
		),
	}
	shell, err := PrerenderShell(doc, NewBoundaryRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(shell.Descriptor.Placeholders) != 2 {
		t.Fatalf("placeholders = %d", len(shell.Descriptor.Placeholders))
	}
	if shell.Descriptor.Placeholders[0].ID != "b1" || shell.Descriptor.Placeholders[1].ID != "b2" {
		t.Errorf("ids = %+v", shell.Descriptor.Placeholders)
	}
}

func TestWriteBoundaryFulfilled(t *testing.T) {
	reg := NewBoundaryRegistry()
	shell, err := PrerenderShell(productDoc(), reg)
	if err != nil {
		t.Fatal(err)
	}
	ph := shell.Descriptor.Placeholders[0]

	var buf bytes.Buffer
	if err := WriteBoundary(&buf, reg, ph, fetch.Fulfilled("Digital Thermometer")); err != nil {
		t.Fatalf("write boundary: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `<template id="catalyst-done-b1">`) {
		t.Errorf("missing completion template: %s", out)
	}
	if !strings.Contains(out, "<section>Digital Thermometer</section>") {
		t.Errorf("missing boundary content: %s", out)
	}
	if !strings.Contains(out, `__CATALYST_RESUME("b1")`) {
		t.Errorf("missing swap call: %s", out)
	}
}

func TestWriteBoundaryRejected(t *testing.T) {
	reg := NewBoundaryRegistry()
	reg.Register("m/x", BoundaryDef{
		Content:      func(any) *Node { return Text("never") },
		ErrorContent: El("p", nil, Text("could not load")),
	})

	f := fetch.NewFuture()
	f.Reject(errString("backend down"))

	var buf bytes.Buffer
	ph := Placeholder{ID: "b1", BoundaryID: "m/x"}
	if err := WriteBoundary(&buf, reg, ph, f); err != nil {
		t.Fatalf("rejected fetch must render error state, not fail: %v", err)
	}
	if !strings.Contains(buf.String(), "could not load") {
		t.Errorf("error state missing: %s", buf.String())
	}
	if strings.Contains(buf.String(), "never") {
		t.Error("content rendered despite rejection")
	}
}

func TestWriteBoundaryNilContent(t *testing.T) {
	reg := NewBoundaryRegistry()
	reg.Register("m/ping", BoundaryDef{})

	var buf bytes.Buffer
	ph := Placeholder{ID: "b1", BoundaryID: "m/ping"}
	if err := WriteBoundary(&buf, reg, ph, fetch.Fulfilled("ignored")); err != nil {
		t.Fatalf("nil content func must render an empty completion: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `<template id="catalyst-done-b1"></template>`) {
		t.Errorf("expected empty completion template: %s", out)
	}
	if !strings.Contains(out, `__CATALYST_RESUME("b1")`) {
		t.Errorf("missing swap call: %s", out)
	}
}

func TestWriteBoundaryUnknown(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBoundary(&buf, NewBoundaryRegistry(), Placeholder{ID: "b1", BoundaryID: "ghost"}, fetch.Fulfilled(nil))
	if err == nil {
		t.Error("unknown boundary must error")
	}
}

func TestWriteHydrationPayload(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHydrationPayload(&buf, map[string]any{
		"product:42": map[string]any{"name": "thermometer</script>"},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "window.__CATALYST_DATA__") {
		t.Errorf("missing payload assignment: %s", out)
	}
	if strings.Contains(out, "</script></script>") || strings.Contains(out, "thermometer</script>") {
		t.Errorf("payload value must not close the script tag: %s", out)
	}
}

func TestCloseDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := CloseDocument(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "</body>\n</html>\n" {
		t.Errorf("close = %q", buf.String())
	}
}

type errString string

func (e errString) Error() string { return string(e) }
