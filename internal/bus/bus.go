// Package bus implements the change bus (C8): a single in-process,
// multi-producer multi-consumer event stream carrying file-state transitions,
// archive lifecycle events, and cache invalidations from the archive tree
// (C6) out to whatever is watching (the backend cache, C5; the triple store,
// C7; an eventual external notification surface).
//
// There is no external broker here — spec.md's "channel" is realized the
// idiomatic Go way, as buffered channels behind a small mutex-guarded
// registry, the same shape lci's internal/cache uses for its registry plus
// lock-free atomics for counters.
package bus

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/flexiformal/flams-core/internal/uri"
)

// FileState is the totally ordered build state of one file-target pair
// (§3.4): Deleted < New < Stale < UpToDate. The order matters for
// FileStateSummary aggregation in internal/archive, which takes the worst
// (lowest) state across a directory's children.
type FileState uint8

const (
	Deleted FileState = iota
	New
	Stale
	UpToDate
)

func (s FileState) String() string {
	switch s {
	case Deleted:
		return "deleted"
	case New:
		return "new"
	case Stale:
		return "stale"
	case UpToDate:
		return "up-to-date"
	default:
		return "unknown"
	}
}

// Event is the closed union of §4.8's bus payloads.
type Event interface {
	isEvent()
}

// FileChange reports a build-state transition for one (archive, relpath,
// format) triple. Old is nil when the file had no previously observed state
// (spec.md's `Option<FileState>`, absent on first observation).
type FileChange struct {
	Archive      uri.ArchiveURI
	RelativePath string
	Format       string
	Old          *FileState
	New          FileState
}

func (FileChange) isEvent() {}

// ArchiveAdded reports a newly discovered archive in the tree.
type ArchiveAdded struct {
	Archive uri.ArchiveURI
}

func (ArchiveAdded) isEvent() {}

// ArchiveRemoved reports an archive that disappeared from the tree.
type ArchiveRemoved struct {
	Archive uri.ArchiveURI
}

func (ArchiveRemoved) isEvent() {}

// CacheInvalidate tells subscribers (chiefly C5) to drop any cached entry for
// the given URI; the event carries no payload beyond the key because the
// backend cache can always reload on next access.
type CacheInvalidate struct {
	URI uri.URI
}

func (CacheInvalidate) isEvent() {}

const (
	// DefaultBuffer is the per-subscriber channel capacity used when
	// Subscribe is called with a non-positive size.
	DefaultBuffer = 64
	// maxConsecutiveDrops bounds how many back-to-back full-buffer sends a
	// subscriber tolerates before it is disconnected. Reaching it means the
	// subscriber has not drained across an entire buffer's worth of
	// publishes — "a bounded lag" per spec.md §4.8.
	maxConsecutiveDrops = DefaultBuffer
)

// Subscription is a live registration on the Bus. Events is the channel to
// range over; it is closed when the subscriber unsubscribes or is
// disconnected for lagging.
type Subscription struct {
	id     uint64
	bus    *Bus
	ch     chan Event
	closed atomic.Bool

	dropped          atomic.Int64
	consecutiveDrops atomic.Int64
}

// Events returns the channel this subscription receives on.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Dropped returns the total number of events this subscriber missed because
// its buffer was full when they were published.
func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

// Disconnected reports whether the bus has already closed this subscription,
// either by explicit Unsubscribe or by the lagging-subscriber policy.
func (s *Subscription) Disconnected() bool { return s.closed.Load() }

// Unsubscribe removes the subscription from the bus and closes its channel.
// Safe to call more than once and safe to call concurrently with Publish.
func (s *Subscription) Unsubscribe() { s.bus.remove(s.id) }

// Bus is the registry of active subscriptions. The zero value is not usable;
// construct with New.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	log    *zap.Logger
}

// New constructs an empty Bus. A nil logger is replaced with a no-op one, the
// same injection convention as internal/shtml.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{subs: make(map[uint64]*Subscription), log: logger}
}

// Subscribe registers a new subscription with the given buffer capacity
// (DefaultBuffer if size <= 0) and returns it.
func (b *Bus) Subscribe(size int) *Subscription {
	if size <= 0 {
		size = DefaultBuffer
	}
	sub := &Subscription{ch: make(chan Event, size)}
	b.mu.Lock()
	sub.id = b.nextID
	sub.bus = b
	b.nextID++
	b.subs[sub.id] = sub
	b.mu.Unlock()
	return sub
}

// Publish delivers ev to every current subscriber without blocking. A
// subscriber whose buffer is full has its drop counter incremented instead;
// a subscriber that stays full across maxConsecutiveDrops straight publishes
// is disconnected (channel closed, removed from the registry) rather than
// left to apply backpressure to the producer, per §4.8's "slow subscribers
// do not block producers."
//
// Delivery order within one subscriber matches publish order (events for the
// same archive/relpath are FIFO per subscriber); there is no ordering
// guarantee across subscribers, matching §5.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		select {
		case sub.ch <- ev:
			sub.consecutiveDrops.Store(0)
		default:
			sub.dropped.Add(1)
			if sub.consecutiveDrops.Add(1) >= maxConsecutiveDrops {
				b.log.Warn("change bus subscriber disconnected for lagging",
					zap.Uint64("subscriber", id),
					zap.Int64("dropped", sub.dropped.Load()))
				sub.closed.Store(true)
				close(sub.ch)
				delete(b.subs, id)
			}
		}
	}
}

// Count returns the number of currently registered subscribers.
func (b *Bus) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	if !sub.closed.Swap(true) {
		close(sub.ch)
	}
}

// Close disconnects every subscriber. Intended for orderly shutdown; Publish
// after Close is a no-op (the registry is empty).
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		if !sub.closed.Swap(true) {
			close(sub.ch)
		}
		delete(b.subs, id)
	}
}
