package idcodec

import (
	"github.com/flexiformal/flams-core/internal/encoding"
)

// EncodeEdge packs two document ordinals — the stable per-DocumentURI
// index a DependencyIndex assigns as it sees each URI — into a single
// base-63 token, so one short string can name a dependency edge (from ->
// target) instead of restating both URIs.
func EncodeEdge(from, target uint32) string {
	return Encode(encoding.PackUint32Pair(from, target))
}

// DecodeEdge reverses EncodeEdge.
func DecodeEdge(encoded string) (from, target uint32, err error) {
	if encoded == "" {
		return 0, 0, ErrEmptyString
	}
	packed, err := Decode(encoded)
	if err != nil {
		return 0, 0, err
	}
	from, target = encoding.UnpackUint32Pair(packed)
	return from, target, nil
}

// PackEdge packs two ordinals into a raw uint64, for callers that want the
// packed value rather than its string encoding.
func PackEdge(from, target uint32) uint64 {
	return encoding.PackUint32Pair(from, target)
}

// UnpackEdge reverses PackEdge.
func UnpackEdge(packed uint64) (from, target uint32) {
	return encoding.UnpackUint32Pair(packed)
}
