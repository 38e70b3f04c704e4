// Package routetree resolves request paths against an immutable route tree.
//
// Routes are registered once at startup and matched read-only at request
// time. Patterns support static segments, parameter segments (:id), and a
// trailing catch-all segment (*rest):
//
//	tree := routetree.New()
//	tree.Add(routetree.Route{Pattern: "/product/:id", FetcherID: "product"})
//
//	match, ok := tree.Match("/product/42")
//	// match.Params["id"] == "42"
//
// Canonicalize normalizes raw request paths into the canonical form used as
// the prerender cache key: query strings are dropped, duplicate slashes
// collapse, "." and ".." segments resolve, and the trailing slash is removed
// except for the root path.
package routetree
