package artifact

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

// slowReaderAt pads every read with a small delay so a canceled context is
// observed before the blocking call can complete.
type slowReaderAt struct {
	inner *bytes.Reader
}

func (s slowReaderAt) ReadAt(p []byte, off int64) (int, error) {
	time.Sleep(20 * time.Millisecond)
	return s.inner.ReadAt(p, off)
}

func mustDocURI(t *testing.T, s string) uri.DocumentURI {
	t.Helper()
	d, err := uri.ParseDocumentURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustSymURI(t *testing.T, s string) uri.SymbolURI {
	t.Helper()
	sym, err := uri.ParseSymbolURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return sym
}

func sampleDocument(t *testing.T) Document {
	sym := mustSymURI(t, "https://mathhub.info?a=x&p=y&m=Group&l=en&s=mul")
	sec := narrative.Section{
		URI:   mustDocElemURI(t, "https://mathhub.info?a=x&d=doc&l=en&e=intro"),
		Level: 1,
		Range: narrative.DocumentRange{Start: 0, End: 40},
		Elements: []narrative.DocumentElement{
			narrative.TopTerm{
				Range: narrative.DocumentRange{Start: 5, End: 30},
				Term: content.OMA{
					Head: content.OMS{Symbol: sym},
					Args: []content.Arg{
						{Value: content.OneTerm{Term: content.OMV{Name: content.LocalVar("x")}}, Type: content.ArgNormal},
					},
				},
			},
			narrative.Problem{
				URI:    mustDocElemURI(t, "https://mathhub.info?a=x&d=doc&l=en&e=ex.1"),
				Points: 1.5,
			},
		},
	}
	return narrative.Document[content.Checked]{
		URI:      mustDocURI(t, "https://mathhub.info?a=x&d=doc&l=en"),
		Title:    "Introduction",
		Language: uri.LanguageEn,
		Elements: []narrative.DocumentElement{sec},
	}
}

func mustDocElemURI(t *testing.T, s string) uri.DocumentElementURI {
	t.Helper()
	e, err := uri.ParseDocumentElementURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestWriteReadDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	css := []CSS{{Kind: CSSLink, Value: "/style.css"}, {Kind: CSSInline, Value: "body{color:red}"}}
	html := []byte("<body><section>hello</section></body>")
	resources := []ResourceInput{{Document: doc.URI, Data: []byte("resource-one")}}

	var buf bytes.Buffer
	h, refs, err := Write(&buf, doc, resources, css, html)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 resource ref, got %d", len(refs))
	}
	ra := bytes.NewReader(buf.Bytes())

	got, err := ReadDocument(ra)
	if err != nil {
		t.Fatal(err)
	}
	if got.URI.String() != doc.URI.String() || got.Title != doc.Title {
		t.Fatalf("round-tripped document mismatch: %+v", got)
	}
	if len(got.Elements) != 1 {
		t.Fatalf("expected 1 top-level element, got %d", len(got.Elements))
	}
	sec, ok := got.Elements[0].(narrative.Section)
	if !ok || len(sec.Elements) != 2 {
		t.Fatalf("unexpected section shape: %+v", got.Elements[0])
	}

	gotCSS, gotBody, err := ReadCSSAndBody(ra)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotCSS) != 2 || gotCSS[0].Value != "/style.css" || string(gotBody) != string(html) {
		t.Fatalf("css/body mismatch: %+v %q", gotCSS, gotBody)
	}

	resBytes, err := ReadResource(ra, refs[0], func(b []byte) (string, error) { return string(b), nil })
	if err != nil {
		t.Fatal(err)
	}
	if resBytes != "resource-one" {
		t.Fatalf("resource mismatch: %q", resBytes)
	}
	if h.BodyLen != uint32(len(html)) {
		t.Fatalf("BodyLen = %d, want %d", h.BodyLen, len(html))
	}
}

func TestReadDocumentContextCancellation(t *testing.T) {
	doc := sampleDocument(t)
	var buf bytes.Buffer
	if _, _, err := Write(&buf, doc, nil, nil, []byte("x")); err != nil {
		t.Fatal(err)
	}
	ra := slowReaderAt{inner: bytes.NewReader(buf.Bytes())}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ReadDocumentContext(ctx, ra); err == nil {
		t.Fatal("expected cancellation error")
	}
}
