// Package artifact implements the persisted document format of C4: a single
// file carrying a checked Document, a resource blob, a CSS list, and the
// rendered HTML body, addressable by byte offset for random access.
//
// The format is a fixed 20-byte header of absolute u32 offsets followed by
// four regions (§3.3). This is deliberately not routed through a general
// serialization library: the whole point of the format is precise,
// independently-seekable byte ranges (LazyDocRef slices into the resource
// blob, a CSS+body region readable without touching the Document tree), which
// an opaque message format (protobuf, msgpack) does not expose. encoding/binary
// plus a small hand-rolled tagged encoder is the correct tool here, not a
// shortcut — see DESIGN.md.
package artifact

import (
	"encoding/binary"
	"fmt"
	"io"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
)

// HeaderSize is the fixed 20-byte header: five LE u32 fields.
const HeaderSize = 20

const formatVersion uint32 = 1

// Header mirrors §3.3's layout. All offsets are absolute from file start.
type Header struct {
	RefsOffset uint32 // resource blob start (Document region ends here)
	CSSOffset  uint32 // CSS list start (resource blob ends here)
	HTMLOffset uint32 // HTML bytes start (CSS list ends here)
	BodyStart  uint32 // absolute offset of the rendered body within the HTML region
	BodyLen    uint32
}

func (h Header) encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.RefsOffset)
	binary.LittleEndian.PutUint32(buf[4:8], h.CSSOffset)
	binary.LittleEndian.PutUint32(buf[8:12], h.HTMLOffset)
	binary.LittleEndian.PutUint32(buf[12:16], h.BodyStart)
	binary.LittleEndian.PutUint32(buf[16:20], h.BodyLen)
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, flerrors.NewPersistenceError(flerrors.PersistenceCorruptOffsetTable, "", fmt.Errorf("header truncated"))
	}
	return Header{
		RefsOffset: binary.LittleEndian.Uint32(buf[0:4]),
		CSSOffset:  binary.LittleEndian.Uint32(buf[4:8]),
		HTMLOffset: binary.LittleEndian.Uint32(buf[8:12]),
		BodyStart:  binary.LittleEndian.Uint32(buf[12:16]),
		BodyLen:    binary.LittleEndian.Uint32(buf[16:20]),
	}, nil
}

// readHeader reads and validates the header from the start of r.
func readHeader(r io.ReaderAt) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return Header{}, flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
	}
	h, err := decodeHeader(buf[:])
	if err != nil {
		return Header{}, err
	}
	if h.RefsOffset < HeaderSize || h.CSSOffset < h.RefsOffset || h.HTMLOffset < h.CSSOffset {
		return Header{}, flerrors.NewPersistenceError(flerrors.PersistenceCorruptOffsetTable, "", fmt.Errorf("non-monotonic region offsets"))
	}
	return h, nil
}
