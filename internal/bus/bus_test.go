package bus

import (
	"testing"
	"time"

	"github.com/flexiformal/flams-core/internal/uri"
)

func mustArchive(t *testing.T) uri.ArchiveURI {
	t.Helper()
	base, err := uri.ParseBaseURI("https://mathhub.info")
	if err != nil {
		t.Fatalf("ParseBaseURI: %v", err)
	}
	id, err := uri.NewArchiveID("my/archive")
	if err != nil {
		t.Fatalf("NewArchiveID: %v", err)
	}
	return uri.NewArchiveURI(base, id)
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := New(nil)
	s1 := b.Subscribe(4)
	s2 := b.Subscribe(4)
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	b.Publish(ArchiveAdded{Archive: mustArchive(t)})

	for _, s := range []*Subscription{s1, s2} {
		select {
		case ev := <-s.Events():
			if _, ok := ev.(ArchiveAdded); !ok {
				t.Fatalf("expected ArchiveAdded, got %#v", ev)
			}
		default:
			t.Fatalf("subscriber did not receive the event")
		}
	}
}

func TestFileChangeOldNilOnFirstObservation(t *testing.T) {
	b := New(nil)
	s := b.Subscribe(1)
	defer s.Unsubscribe()

	archive := mustArchive(t)
	b.Publish(FileChange{Archive: archive, RelativePath: "a.tex", Format: "omdoc", Old: nil, New: New})

	ev := <-s.Events()
	fc, ok := ev.(FileChange)
	if !ok {
		t.Fatalf("expected FileChange, got %#v", ev)
	}
	if fc.Old != nil {
		t.Fatalf("expected nil Old on first observation, got %v", *fc.Old)
	}
	if fc.New != New {
		t.Fatalf("expected New state, got %v", fc.New)
	}
}

func TestOrderingPerSubscriberIsFIFO(t *testing.T) {
	b := New(nil)
	s := b.Subscribe(8)
	defer s.Unsubscribe()

	archive := mustArchive(t)
	states := []FileState{New, Stale, UpToDate}
	for _, st := range states {
		b.Publish(FileChange{Archive: archive, RelativePath: "a.tex", Format: "omdoc", New: st})
	}

	for _, want := range states {
		ev := <-s.Events()
		fc := ev.(FileChange)
		if fc.New != want {
			t.Fatalf("out-of-order delivery: got %v, want %v", fc.New, want)
		}
	}
}

func TestSlowSubscriberIsDisconnectedNotBlocking(t *testing.T) {
	b := New(nil)
	s := b.Subscribe(1) // tiny buffer, never drained below
	defer func() {
		if !s.Disconnected() {
			s.Unsubscribe()
		}
	}()

	archive := mustArchive(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < maxConsecutiveDrops+10; i++ {
			b.Publish(ArchiveAdded{Archive: archive})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a non-draining subscriber")
	}

	if !s.Disconnected() {
		t.Fatalf("expected subscriber to be disconnected after sustained lag")
	}
	if s.Dropped() == 0 {
		t.Fatalf("expected a non-zero drop count")
	}
	if b.Count() != 0 {
		t.Fatalf("expected disconnected subscriber to be removed from registry, got %d", b.Count())
	}
}

func TestUnsubscribeClosesChannelAndStopsDelivery(t *testing.T) {
	b := New(nil)
	s := b.Subscribe(4)
	s.Unsubscribe()

	if b.Count() != 0 {
		t.Fatalf("expected 0 subscribers after Unsubscribe, got %d", b.Count())
	}
	if _, ok := <-s.Events(); ok {
		t.Fatalf("expected closed channel to drain as zero-value, got an event")
	}

	// Publishing after Unsubscribe must not panic or block.
	b.Publish(ArchiveRemoved{Archive: mustArchive(t)})
}

func TestCacheInvalidateCarriesURI(t *testing.T) {
	b := New(nil)
	s := b.Subscribe(1)
	defer s.Unsubscribe()

	archive := mustArchive(t)
	b.Publish(CacheInvalidate{URI: archive})

	ev := <-s.Events()
	ci, ok := ev.(CacheInvalidate)
	if !ok {
		t.Fatalf("expected CacheInvalidate, got %#v", ev)
	}
	if ci.URI.String() != archive.String() {
		t.Fatalf("URI mismatch: got %q, want %q", ci.URI.String(), archive.String())
	}
}
