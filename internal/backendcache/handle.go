// Package backendcache implements the backend cache of C5: two refcounted
// maps (modules, documents), each behind its own mutex (the two maps are
// never locked together), admission-time GC, and the
// get_document/get_module lookup contracts over the on-disk artifact layout
// C6 produces.
package backendcache

import "sync/atomic"

// Handle is a Go stand-in for the specification's Arc<T>: a shared,
// reference-counted pointer to an immutable value. The cache itself holds one
// reference for as long as the entry is admitted; Acquire/Release let callers
// extend that lifetime so admission-time GC can tell "only the cache holds
// this" (refs == 1, eligible for eviction) from "a caller is still using it"
// (refs > 1, retained).
type Handle[T any] struct {
	value T
	refs  int32
}

func newHandle[T any](v T) *Handle[T] {
	return &Handle[T]{value: v, refs: 1}
}

// Value returns the immutable payload. Modules and Documents are never
// mutated after insertion, so no further synchronization is needed to read it.
func (h *Handle[T]) Value() T { return h.value }

// Acquire records an additional outside holder and returns h, so the call can
// be used inline in an assignment. Every Acquire must be matched by a Release.
func (h *Handle[T]) Acquire() *Handle[T] {
	atomic.AddInt32(&h.refs, 1)
	return h
}

// Release drops one outside hold.
func (h *Handle[T]) Release() {
	atomic.AddInt32(&h.refs, -1)
}

// heldExternally reports whether anyone besides the cache's own admission
// reference is still holding h.
func (h *Handle[T]) heldExternally() bool {
	return atomic.LoadInt32(&h.refs) > 1
}
