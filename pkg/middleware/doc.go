// Package middleware provides HTTP middleware for Catalyst servers.
//
// All middleware is standard net/http (func(http.Handler) http.Handler) so
// it composes with chi or any other router. The response writer wrappers
// preserve http.Flusher, which the streaming renderer depends on.
package middleware
