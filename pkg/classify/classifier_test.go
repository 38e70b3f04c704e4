package classify

import (
	"testing"
)

// testGraph builds a small graph:
//
//	main (entry) --static--> shared
//	main --dynamic(eligible)--> reviews --static--> reviewsDep
//	main --dynamic(ineligible)--> adminPanel --static--> adminDep
//	reviews --static--> shared   (shared-code rule: shared stays essential)
//	orphan                        (unreached: defaults essential)
func testGraph() *Graph {
	return &Graph{
		Entries: []string{"main"},
		Chunks: map[string]Chunk{
			"main": {
				File:          "main.1a2b.js",
				CSS:           []string{"main.css"},
				Modules:       []string{"src/Main"},
				StaticImports: []string{"shared"},
				DynamicImports: []DynamicImport{
					{Chunk: "reviews", SSRIncluded: true},
					{Chunk: "adminPanel", SSRIncluded: false},
				},
			},
			"shared": {
				File:    "shared.3c4d.js",
				Modules: []string{"src/lib/Shared"},
			},
			"reviews": {
				File:          "reviews.5e6f.js",
				CSS:           []string{"reviews.css"},
				Modules:       []string{"src/widgets/Reviews"},
				StaticImports: []string{"reviewsDep", "shared"},
			},
			"reviewsDep": {
				File:    "reviews-dep.7a8b.js",
				Modules: []string{"src/widgets/ReviewsDep"},
			},
			"adminPanel": {
				File:          "admin.9c0d.js",
				Modules:       []string{"src/admin/Panel"},
				StaticImports: []string{"adminDep"},
			},
			"adminDep": {
				File:    "admin-dep.1e2f.js",
				Modules: []string{"src/admin/Dep"},
			},
			"orphan": {
				File:    "orphan.3a4b.js",
				Modules: []string{"src/Orphan"},
			},
		},
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestClassifyEntryIsEssential(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if !contains(res.EssentialChunks, "main") {
		t.Error("entry chunk must be essential")
	}
	if !contains(res.Category.Essential.JS, "main.1a2b.js") {
		t.Errorf("essential js missing entry file: %v", res.Category.Essential.JS)
	}
}

func TestClassifySharedCodeRule(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	// shared is reachable from the entry and from the reviews boundary;
	// both-path reachability keeps it essential.
	if !contains(res.EssentialChunks, "shared") {
		t.Error("shared chunk must be essential")
	}
	if contains(res.DynamicChunks, "shared") {
		t.Error("shared chunk must not be dynamic")
	}
}

func TestClassifyDynamicOnlyStaysDynamic(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	for _, id := range []string{"reviews", "reviewsDep", "adminPanel", "adminDep"} {
		if !contains(res.DynamicChunks, id) {
			t.Errorf("%s should be dynamic", id)
		}
		if contains(res.EssentialChunks, id) {
			t.Errorf("%s should not be essential", id)
		}
	}

	// Ineligible-boundary-only modules never leak into the essential set.
	if contains(res.Category.Essential.JS, "admin.9c0d.js") {
		t.Error("ineligible boundary chunk leaked into essential assets")
	}
}

func TestClassifyEligibilityFlags(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if !res.SSREligible["reviews"] {
		t.Error("reviews boundary is ssr-included")
	}
	if res.SSREligible["adminPanel"] {
		t.Error("adminPanel boundary is not ssr-included")
	}
}

func TestClassifyUnreachedDefaultsEssential(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !contains(res.EssentialChunks, "orphan") {
		t.Error("unreached chunk should default to essential")
	}
}

func TestClassifyEntryOverridesDynamic(t *testing.T) {
	g := testGraph()
	// A second entry that is also a dynamic import target elsewhere.
	chunk := g.Chunks["main"]
	chunk.DynamicImports = append(chunk.DynamicImports, DynamicImport{Chunk: "landing", SSRIncluded: false})
	g.Chunks["main"] = chunk
	g.Chunks["landing"] = Chunk{File: "landing.5c6d.js", Modules: []string{"src/Landing"}}
	g.Entries = append(g.Entries, "landing")

	res, err := Classify(g)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !contains(res.EssentialChunks, "landing") {
		t.Error("entry status must override dynamic classification")
	}
	if contains(res.DynamicChunks, "landing") {
		t.Error("entry chunk must not appear in dynamic set")
	}
}

func TestClassifyManifestKeyedByModule(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	entry, ok := res.Manifest.Lookup("src/widgets/Reviews")
	if !ok {
		t.Fatal("manifest should be keyed by source module identifier")
	}
	if entry.File != "reviews.5e6f.js" {
		t.Errorf("file = %q", entry.File)
	}
	if entry.IsEntry {
		t.Error("reviews module is not an entry")
	}

	mainEntry, _ := res.Manifest.Lookup("src/Main")
	if !mainEntry.IsEntry {
		t.Error("main module must be flagged as entry")
	}
}

func TestClassifyNoAssetInBothSets(t *testing.T) {
	res, err := Classify(testGraph())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, js := range res.Category.Dynamic.JS {
		if contains(res.Category.Essential.JS, js) {
			t.Errorf("asset %s appears in both essential and dynamic", js)
		}
	}
	for _, css := range res.Category.Dynamic.CSS {
		if contains(res.Category.Essential.CSS, css) {
			t.Errorf("css %s appears in both essential and dynamic", css)
		}
	}
}

func TestClassifyDeterministicFingerprint(t *testing.T) {
	a, err := Classify(testGraph())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Classify(testGraph())
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint == 0 {
		t.Error("fingerprint should be non-zero")
	}
	if a.Fingerprint != b.Fingerprint {
		t.Error("fingerprint must be stable for identical graphs")
	}
}

func TestClassifyValidation(t *testing.T) {
	if _, err := Classify(&Graph{Chunks: map[string]Chunk{"a": {}}}); err == nil {
		t.Error("graph without entries should be rejected")
	}

	g := &Graph{
		Entries: []string{"a"},
		Chunks: map[string]Chunk{
			"a": {StaticImports: []string{"ghost"}},
		},
	}
	if _, err := Classify(g); err == nil {
		t.Error("unknown static import should be rejected")
	}
}
