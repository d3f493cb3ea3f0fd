package cache

import (
	"testing"
	"time"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New[string, int](Config{})
	if _, ok := c.Get("x"); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	if c.Stats().Misses != 1 {
		t.Fatalf("expected 1 miss, got %+v", c.Stats())
	}
}

func TestPutThenGetHits(t *testing.T) {
	c := New[string, string](Config{})
	c.Put("k", "v")
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("got (%q, %v), want (\"v\", true)", v, ok)
	}
	if c.Stats().Hits != 1 {
		t.Fatalf("expected 1 hit, got %+v", c.Stats())
	}
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	c := New[string, int](Config{TTL: time.Millisecond})
	c.Put("k", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected the entry to have expired")
	}
}

func TestEvictsOldestWhenOverCapacity(t *testing.T) {
	c := New[int, int](Config{MaxEntries: 2, TTL: time.Hour})
	c.Put(1, 1)
	time.Sleep(time.Millisecond)
	c.Put(2, 2)
	time.Sleep(time.Millisecond)
	c.Put(3, 3) // should evict key 1

	if _, ok := c.Get(1); ok {
		t.Fatal("expected key 1 to have been evicted")
	}
	if _, ok := c.Get(2); !ok {
		t.Fatal("expected key 2 to still be present")
	}
	if c.Stats().Evictions != 1 {
		t.Fatalf("expected 1 eviction, got %+v", c.Stats())
	}
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c := New[string, int](Config{})
	c.Put("k", 1)
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected the entry to be gone after Invalidate")
	}
}

func TestCleanExpiredRemovesOnlyExpired(t *testing.T) {
	c := New[string, int](Config{TTL: 50 * time.Millisecond})
	c.Put("stale", 1)
	time.Sleep(60 * time.Millisecond)
	c.Put("fresh", 2)

	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 entry cleaned, got %d", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("expected the fresh entry to survive")
	}
}

func TestCloseStopsCleanupGoroutineWithoutPanic(t *testing.T) {
	c := New[string, int](Config{AutoCleanup: true, CleanupInterval: time.Millisecond})
	c.Put("k", 1)
	time.Sleep(5 * time.Millisecond)
	c.Close()
}
