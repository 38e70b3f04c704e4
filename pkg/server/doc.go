// Package server orchestrates the two-phase render pipeline over HTTP.
//
// A request flows through canonicalization, route matching, the prerender
// cache, and resume. The first request for a route pays the prerender cost
// and caches the resulting shell; every later request replays the cached
// prelude byte for byte and only pays for its own data fetches. Concurrent
// cold requests for the same path collapse into a single prerender.
//
// The response is streamed in two phases. The shell-ready phase flushes the
// prelude immediately, with pending boundaries showing their fallbacks. The
// all-ready phase waits for every boundary fetch to settle, then emits the
// dynamic asset tags, the boundary completions, the hydration payload, and
// the document close.
package server
