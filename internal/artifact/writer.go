package artifact

import (
	"bytes"
	"context"
	"io"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/uri"
)

// ResourceInput is one blob to place in the resource region; the writer
// returns the LazyDocRef each one was assigned once absolute offsets are
// known.
type ResourceInput struct {
	Document uri.DocumentURI
	Data     []byte
}

// Write encodes doc, the resource inputs, the CSS list and the HTML body into
// the §3.3 layout and writes it to w. It returns the header actually written
// and the LazyDocRefs assigned to each resource input, in the same order.
func Write(w io.Writer, doc Document, resources []ResourceInput, css []CSS, html []byte) (Header, []LazyDocRef, error) {
	var docBuf bytes.Buffer
	bw := newBinWriter(&docBuf)
	encodeDocument(bw, doc)
	if _, err := bw.flush(); bw.err != nil || err != nil {
		if bw.err != nil {
			err = bw.err
		}
		return Header{}, nil, flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}

	refsOffset := uint32(HeaderSize + docBuf.Len())
	refs := make([]LazyDocRef, 0, len(resources))
	var blobBuf bytes.Buffer
	running := refsOffset
	for _, r := range resources {
		refs = append(refs, LazyDocRef{Start: running, End: running + uint32(len(r.Data)), Document: r.Document})
		blobBuf.Write(r.Data)
		running += uint32(len(r.Data))
	}

	cssOffset := running
	var cssBuf bytes.Buffer
	cw := newBinWriter(&cssBuf)
	encodeCSSList(cw, css)
	if _, err := cw.flush(); cw.err != nil || err != nil {
		if cw.err != nil {
			err = cw.err
		}
		return Header{}, nil, flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}

	htmlOffset := cssOffset + uint32(cssBuf.Len())
	h := Header{
		RefsOffset: refsOffset,
		CSSOffset:  cssOffset,
		HTMLOffset: htmlOffset,
		BodyStart:  htmlOffset,
		BodyLen:    uint32(len(html)),
	}

	headerBytes := h.encode()
	for _, chunk := range [][]byte{headerBytes[:], docBuf.Bytes(), blobBuf.Bytes(), cssBuf.Bytes(), html} {
		if _, err := w.Write(chunk); err != nil {
			return Header{}, nil, flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
		}
	}
	return h, refs, nil
}

// WriteContext is Write's context-aware form: the encode-and-write sequence
// runs on its own goroutine so a caller can abandon it on cancellation
// without the writer holding any lock across the handoff.
func WriteContext(ctx context.Context, w io.Writer, doc Document, resources []ResourceInput, css []CSS, html []byte) (Header, []LazyDocRef, error) {
	type result struct {
		h    Header
		refs []LazyDocRef
		err  error
	}
	done := make(chan result, 1)
	go func() {
		h, refs, err := Write(w, doc, resources, css, html)
		done <- result{h, refs, err}
	}()
	select {
	case <-ctx.Done():
		return Header{}, nil, ctx.Err()
	case r := <-done:
		return r.h, r.refs, r.err
	}
}
