package artifact

import "github.com/flexiformal/flams-core/internal/uri"

// LazyDocRef is a slice into the resource blob: (start, end) are absolute
// file offsets, and Document names which document's extraction produced the
// referenced resource. Readers decode T from exactly that byte range on
// demand (§3.3).
type LazyDocRef struct {
	Start    uint32
	End      uint32
	Document uri.DocumentURI
}

func (ref LazyDocRef) Len() int { return int(ref.End - ref.Start) }
