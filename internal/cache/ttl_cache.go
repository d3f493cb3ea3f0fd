// Package cache provides a lock-free, time-to-live cache for derived
// results that are cheap to recompute but expensive enough to be worth not
// recomputing on every request — e.g. the table of contents toolsurface
// rebuilds per content_toc call, or a Query result from C7's triples.Index.
// Unlike C5's backendcache.Cache (a refcounted handle cache for artifacts
// that must stay open while in use), entries here are plain values with no
// lifecycle of their own, so TTL expiry and LRU-ish eviction are enough.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultMaxEntries     = 400
	DefaultTTL            = 30 * time.Second
	DefaultCleanupInterval = 5 * time.Minute
)

type entry[V any] struct {
	value    V
	cachedAt int64 // UnixNano, read/written atomically
}

// TTLCache is a sync.Map-backed cache keyed by any comparable type, with
// atomic hit/miss/eviction counters and an optional background cleanup
// goroutine. Safe for concurrent use.
type TTLCache[K comparable, V any] struct {
	entries sync.Map // map[K]*entry[V]

	maxEntries int
	ttlNanos   int64

	count     int64
	hits      int64
	misses    int64
	evictions int64

	stop chan struct{}
}

// Config configures a TTLCache. Zero values fall back to the package
// defaults.
type Config struct {
	MaxEntries      int
	TTL             time.Duration
	AutoCleanup     bool
	CleanupInterval time.Duration
}

// New constructs a TTLCache. If cfg.AutoCleanup is set, a goroutine
// periodically sweeps expired entries until Close is called.
func New[K comparable, V any](cfg Config) *TTLCache[K, V] {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	c := &TTLCache[K, V]{maxEntries: cfg.MaxEntries, ttlNanos: cfg.TTL.Nanoseconds()}
	if cfg.AutoCleanup {
		if cfg.CleanupInterval <= 0 {
			cfg.CleanupInterval = DefaultCleanupInterval
		}
		c.stop = make(chan struct{})
		go c.cleanupLoop(cfg.CleanupInterval)
	}
	return c
}

// Get returns the cached value for key if present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	v, ok := c.entries.Load(key)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return zero, false
	}
	e := v.(*entry[V])
	if time.Now().UnixNano()-atomic.LoadInt64(&e.cachedAt) > c.ttlNanos {
		c.entries.Delete(key)
		atomic.AddInt64(&c.count, -1)
		atomic.AddInt64(&c.misses, 1)
		return zero, false
	}
	atomic.AddInt64(&c.hits, 1)
	return e.value, true
}

// Put stores value under key, evicting the oldest entry first if the cache
// is at capacity.
func (c *TTLCache[K, V]) Put(key K, value V) {
	e := &entry[V]{value: value, cachedAt: time.Now().UnixNano()}
	if _, loaded := c.entries.LoadOrStore(key, e); !loaded {
		if atomic.AddInt64(&c.count, 1) > int64(c.maxEntries) {
			c.evictOldest()
		}
		return
	}
	c.entries.Store(key, e)
}

func (c *TTLCache[K, V]) evictOldest() {
	var oldestKey any
	oldestTime := time.Now().UnixNano()
	c.entries.Range(func(key, value any) bool {
		e := value.(*entry[V])
		if t := atomic.LoadInt64(&e.cachedAt); t < oldestTime {
			oldestTime, oldestKey = t, key
		}
		return true
	})
	if oldestKey != nil {
		c.entries.Delete(oldestKey)
		atomic.AddInt64(&c.count, -1)
		atomic.AddInt64(&c.evictions, 1)
	}
}

// Invalidate removes key, if present — the hook a C8 bus subscriber uses to
// drop a cached TOC/query result as soon as its source file changes, rather
// than waiting out the TTL.
func (c *TTLCache[K, V]) Invalidate(key K) {
	if _, ok := c.entries.LoadAndDelete(key); ok {
		atomic.AddInt64(&c.count, -1)
	}
}

// CleanExpired sweeps every expired entry and returns how many it removed.
func (c *TTLCache[K, V]) CleanExpired() int {
	now := time.Now().UnixNano()
	cleaned := 0
	remaining := int64(0)
	c.entries.Range(func(key, value any) bool {
		e := value.(*entry[V])
		if now-atomic.LoadInt64(&e.cachedAt) > c.ttlNanos {
			c.entries.Delete(key)
			cleaned++
		} else {
			remaining++
		}
		return true
	})
	atomic.StoreInt64(&c.count, remaining)
	return cleaned
}

func (c *TTLCache[K, V]) cleanupLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.CleanExpired()
		case <-c.stop:
			return
		}
	}
}

// Close halts the background cleanup goroutine, if one was started. Safe to
// call on a cache built without AutoCleanup.
func (c *TTLCache[K, V]) Close() {
	if c.stop != nil {
		close(c.stop)
	}
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Entries   int64
	Hits      int64
	Misses    int64
	Evictions int64
}

func (c *TTLCache[K, V]) Stats() Stats {
	return Stats{
		Entries:   atomic.LoadInt64(&c.count),
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
	}
}
