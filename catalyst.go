// Package catalyst is a server-side rendering framework built around a
// two-phase streaming pipeline: a cached prerender pass produces a reusable
// page shell, and each request resumes it by filling async boundaries with
// freshly fetched data.
//
// A minimal application:
//
//	app := catalyst.New(catalyst.Config{
//	    Manifest: manifest.NewFileSource("dist/manifest.json"),
//	    Category: manifest.NewFileSource("dist/categorized.json"),
//	})
//
//	app.Fetcher("product", loadProduct)
//	app.Page("/product/:id", productPage)
//
//	http.ListenAndServe(":3005", app)
package catalyst

// Version is the framework version, set at build time via ldflags.
var Version = "dev"
