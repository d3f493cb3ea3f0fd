package triples

import (
	"strings"
	"testing"

	"github.com/flexiformal/flams-core/internal/shtml"
	"github.com/flexiformal/flams-core/internal/uri"
)

func mustDocURI(t *testing.T, s string) uri.DocumentURI {
	t.Helper()
	u, err := uri.ParseDocumentURI(s)
	if err != nil {
		t.Fatalf("ParseDocumentURI(%q): %v", s, err)
	}
	return u
}

func TestSubmitReplacesAtomicallyPerKey(t *testing.T) {
	idx := NewIndex(nil)
	archive, _ := uri.ParseArchiveURI("https://mathhub.info?a=my/archive")
	doc := mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en")

	idx.Submit(doc, archive, "doc.tex", []Quad{
		{Subject: "urn:a", Predicate: rdfType, Object: ClassFile},
	})
	if got := idx.Query(Pattern{Subject: ptr(NamedNode("urn:a"))}); len(got) != 1 {
		t.Fatalf("expected 1 quad after first submit, got %d", len(got))
	}

	idx.Submit(doc, archive, "doc.tex", []Quad{
		{Subject: "urn:b", Predicate: rdfType, Object: ClassFile},
	})
	if got := idx.Query(Pattern{Subject: ptr(NamedNode("urn:a"))}); len(got) != 0 {
		t.Fatalf("expected the old quad set to be fully replaced, found %d leftover", len(got))
	}
	if got := idx.Query(Pattern{Subject: ptr(NamedNode("urn:b"))}); len(got) != 1 {
		t.Fatalf("expected the new quad to be present, got %d", len(got))
	}
}

func TestSubmitEmptyClearsKey(t *testing.T) {
	idx := NewIndex(nil)
	archive, _ := uri.ParseArchiveURI("https://mathhub.info?a=my/archive")
	doc := mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en")

	idx.Submit(doc, archive, "doc.tex", []Quad{{Subject: "urn:a", Predicate: rdfType, Object: ClassFile}})
	idx.Submit(doc, archive, "doc.tex", nil)

	if got := idx.Query(Pattern{Subject: ptr(NamedNode("urn:a"))}); len(got) != 0 {
		t.Fatalf("expected key cleared, got %d quads", len(got))
	}
}

func TestVocabularyAxiomsArePreloaded(t *testing.T) {
	idx := NewIndex(nil)
	got := idx.Query(Pattern{Subject: ptr(ClassTheorem), Predicate: ptr(rdfsSubClassOf)})
	if len(got) == 0 {
		t.Fatalf("expected ulo:theorem's subClassOf axiom to be present at construction")
	}
}

func TestUsesDualRangePreserved(t *testing.T) {
	idx := NewIndex(nil)
	ranges := idx.Query(Pattern{Subject: ptr(PropUses), Predicate: ptr(rdfsRange)})
	if len(ranges) != 2 {
		t.Fatalf("expected both FUNCTION and TYPE ranges for ulo:uses, got %d: %+v", len(ranges), ranges)
	}
	seen := map[string]bool{}
	for _, q := range ranges {
		seen[q.Object.String()] = true
	}
	if !seen[ClassFunction.String()] || !seen[ClassType.String()] {
		t.Fatalf("expected ranges {FUNCTION, TYPE}, got %+v", seen)
	}
}

func TestNotationsForRoundTripsThroughExtraction(t *testing.T) {
	html := `<div shtml:theory="https://mathhub.info?a=my/archive&m=Group&l=en">
  <span shtml:symdecl="op"></span>
  <span shtml:notation="https://mathhub.info?a=my/archive&m=Group&l=en&s=op">
    <span shtml:head="https://mathhub.info?a=my/archive&m=Group&l=en&s=op"></span> the op
  </span>
</div>`
	docURI := mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en")
	res, err := shtml.Extract(strings.NewReader(html), shtml.Options{DocumentURI: docURI})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	idx := NewIndex(nil)
	archive, _ := uri.ParseArchiveURI("https://mathhub.info?a=my/archive")
	var quads []Quad
	quads = append(quads, QuadsForDocument(res.Document)...)
	for _, m := range res.Modules {
		quads = append(quads, QuadsForModule(m)...)
	}
	idx.Submit(docURI, archive, "doc.tex", quads)

	sym, err := uri.ParseSymbolURI("https://mathhub.info?a=my/archive&m=Group&l=en&s=op")
	if err != nil {
		t.Fatalf("ParseSymbolURI: %v", err)
	}
	notations := idx.NotationsFor(sym)
	if len(notations) != 1 {
		t.Fatalf("expected 1 notation for the symbol, got %d: %+v", len(notations), notations)
	}
}

func ptr(n NamedNode) *NamedNode { return &n }
