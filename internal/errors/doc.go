// Package errors provides structured, actionable error messages for Catalyst.
//
// Each error carries a unique code (e.g., "E101") that maps to a registered
// template with a short message, a detailed explanation, and a documentation
// URL. Errors wrap an underlying cause and participate in errors.Is/As.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: configuration file problems
//   - manifest: build manifest loading and shape errors
//   - classify: asset classification errors (build time)
//   - render: prerender/resume failures
//   - server: request handling and streaming errors
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E201").
//	    WithSuggestion("Run `catalyst build` to regenerate the manifest").
//	    Wrap(cause)
package errors
