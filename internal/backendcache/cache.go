package backendcache

import (
	"context"
	"sync"
)

// DefaultGCThreshold is the fixed admission-time GC trigger spec.md §4.5
// names as its example (50).
const DefaultGCThreshold = 50

// Cache is a single mutex guarding a key→*Handle[V] map, with admission-time
// GC and "outside" loads that never run while the mutex is held (§5: "the
// critical section is strictly the map mutation; disk I/O and deserialization
// run outside the lock").
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*Handle[V]
	threshold int
}

func NewCache[K comparable, V any](threshold int) *Cache[K, V] {
	if threshold <= 0 {
		threshold = DefaultGCThreshold
	}
	return &Cache[K, V]{entries: make(map[K]*Handle[V]), threshold: threshold}
}

// Get returns the cached handle for key, loading it with load on a miss. The
// returned handle has been Acquire'd on the caller's behalf; the caller must
// Release it once done. Concurrent misses on the same key are accepted: both
// loads run, and the later insert wins (§4.5 "double-insert is accepted").
func (c *Cache[K, V]) Get(key K, load func() (V, error)) (*Handle[V], error) {
	c.mu.Lock()
	if h, ok := c.entries[key]; ok {
		h.Acquire()
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	v, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	h := newHandle(v)
	c.entries[key] = h
	h.Acquire()
	c.gcLocked()
	c.mu.Unlock()
	return h, nil
}

// GetContext mirrors Get but threads ctx through to load, so a cancelled
// caller observes no partial cache state: if load returns an error (including
// ctx.Err()), nothing is inserted and another caller may redo the work.
func (c *Cache[K, V]) GetContext(ctx context.Context, key K, load func(context.Context) (V, error)) (*Handle[V], error) {
	return c.Get(key, func() (V, error) { return load(ctx) })
}

// gcLocked retains only entries an outside caller still holds, once the map
// has grown past threshold. Must be called with mu held.
func (c *Cache[K, V]) gcLocked() {
	if len(c.entries) <= c.threshold {
		return
	}
	for k, h := range c.entries {
		if !h.heldExternally() {
			delete(c.entries, k)
		}
	}
}

// Len reports the current admitted entry count, for tests and metrics.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
