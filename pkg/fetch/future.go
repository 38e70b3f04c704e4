// Package fetch provides the per-key async data layer for rendering: shared
// futures with synchronous status, a bounded LRU cache deduplicating
// concurrent identical fetches, a value cache carrying resolved results into
// the hydration payload, and the fetcher registry.
package fetch

import (
	"context"
	"sync"
	"sync/atomic"
)

// Status is the synchronous state of a Future.
type Status int32

const (
	StatusPending Status = iota
	StatusFulfilled
	StatusRejected
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Future is a single async result shared by every caller interested in the
// same key. It resolves exactly once; status is readable synchronously so
// render logic can distinguish "still pending" from "value ready" without
// re-awaiting.
type Future struct {
	done   chan struct{}
	once   sync.Once
	status atomic.Int32

	value any
	err   error
}

// NewFuture creates an unresolved Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Fulfilled creates an already-resolved Future holding v.
func Fulfilled(v any) *Future {
	f := NewFuture()
	f.Resolve(v)
	return f
}

// Resolve completes the future with a value. Later calls are no-ops.
func (f *Future) Resolve(v any) {
	f.once.Do(func() {
		f.value = v
		f.status.Store(int32(StatusFulfilled))
		close(f.done)
	})
}

// Reject completes the future with an error. Later calls are no-ops.
func (f *Future) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		f.status.Store(int32(StatusRejected))
		close(f.done)
	})
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Status returns the current state without blocking.
func (f *Future) Status() Status {
	return Status(f.status.Load())
}

// Value returns the resolved value. Only valid after the future settles.
func (f *Future) Value() any {
	return f.value
}

// Err returns the rejection error. Only valid after the future settles.
func (f *Future) Err() error {
	return f.err
}

// Wait blocks until the future settles or ctx is done. A rejected future
// returns its rejection error; a canceled wait returns the ctx error.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
