package artifact

import (
	"context"
	"io"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
)

// ReadDocument decodes just the Document region, leaving the resource blob,
// CSS list and HTML body untouched (§4.4).
func ReadDocument(r io.ReaderAt) (Document, error) {
	h, err := readHeader(r)
	if err != nil {
		return Document{}, err
	}
	buf := make([]byte, h.RefsOffset-HeaderSize)
	if _, err := r.ReadAt(buf, HeaderSize); err != nil {
		return Document{}, flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
	}
	doc, err := decodeDocument(newBinReader(buf))
	if err != nil {
		return Document{}, flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}
	return doc, nil
}

// ReadCSSAndBody decodes the CSS list and the rendered HTML body without
// touching the Document tree or the resource blob.
func ReadCSSAndBody(r io.ReaderAt) ([]CSS, string, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, "", err
	}
	cssBuf := make([]byte, h.HTMLOffset-h.CSSOffset)
	if _, err := r.ReadAt(cssBuf, int64(h.CSSOffset)); err != nil {
		return nil, "", flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
	}
	css, err := decodeCSSList(newBinReader(cssBuf))
	if err != nil {
		return nil, "", flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}
	body := make([]byte, h.BodyLen)
	if h.BodyLen > 0 {
		if _, err := r.ReadAt(body, int64(h.BodyStart)); err != nil {
			return nil, "", flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
		}
	}
	return css, string(body), nil
}

// ReadResource seeks to ref's recorded byte range and decodes T from exactly
// that slice.
func ReadResource[T any](r io.ReaderAt, ref LazyDocRef, decode func([]byte) (T, error)) (T, error) {
	var zero T
	buf := make([]byte, ref.Len())
	if len(buf) > 0 {
		if _, err := r.ReadAt(buf, int64(ref.Start)); err != nil {
			return zero, flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
		}
	}
	v, err := decode(buf)
	if err != nil {
		return zero, flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}
	return v, nil
}

// ReadDocumentContext, ReadCSSAndBodyContext and ReadResourceContext mirror
// their blocking counterparts but run the seek-and-decode sequence on its own
// goroutine, respecting ctx cancellation (§4.4: "does not hold any lock"
// across the handoff — io.ReaderAt already requires none internally).
func ReadDocumentContext(ctx context.Context, r io.ReaderAt) (Document, error) {
	type result struct {
		doc Document
		err error
	}
	done := make(chan result, 1)
	go func() {
		doc, err := ReadDocument(r)
		done <- result{doc, err}
	}()
	select {
	case <-ctx.Done():
		return Document{}, ctx.Err()
	case res := <-done:
		return res.doc, res.err
	}
}

func ReadCSSAndBodyContext(ctx context.Context, r io.ReaderAt) ([]CSS, string, error) {
	type result struct {
		css  []CSS
		body string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		css, body, err := ReadCSSAndBody(r)
		done <- result{css, body, err}
	}()
	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case res := <-done:
		return res.css, res.body, res.err
	}
}

func ReadResourceContext[T any](ctx context.Context, r io.ReaderAt, ref LazyDocRef, decode func([]byte) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := ReadResource(r, ref, decode)
		done <- result{v, err}
	}()
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-done:
		return res.v, res.err
	}
}
