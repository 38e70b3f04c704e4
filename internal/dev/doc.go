// Package dev provides development-mode support: a WebSocket reload server
// that pushes rebuild notifications to connected browsers, and a polling
// watcher that detects changes to build outputs.
//
// The production server never imports this package's runtime pieces; the
// app wires them only when dev mode is enabled.
package dev
