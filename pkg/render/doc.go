// Package render implements the two-phase streaming render primitive.
//
// A page is described as a tree of Nodes. Regions that depend on
// per-request data are wrapped in async boundaries:
//
//	render.El("main", nil,
//	    render.El("h1", nil, render.Text("Product")),
//	    render.Boundary("product-detail", "product", "product:42",
//	        func(v any) *render.Node { ... },
//	        render.El("p", nil, render.Text("loading...")),
//	    ),
//	)
//
// PrerenderShell renders everything outside boundaries into reusable
// prelude bytes and produces a ResumeDescriptor: a serializable
// record of where each boundary sits and which fetch fills it. The
// descriptor plus the process-wide BoundaryRegistry replace the framework
// continuation with plain data: replaying the descriptor against a fresh
// request's fetch resolutions yields that request's completion stream.
//
// The shell is flushed first (shell-ready phase); once every boundary
// settles, boundary markup, dynamic asset tags, and the hydration payload
// follow (all-ready phase).
package render
