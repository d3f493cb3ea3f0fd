package narrative

import (
	"testing"

	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/uri"
)

func mustDocURI(t *testing.T, s string) uri.DocumentURI {
	t.Helper()
	d, err := uri.ParseDocumentURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustDocElemURI(t *testing.T, s string) uri.DocumentElementURI {
	t.Helper()
	e, err := uri.ParseDocumentElementURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestFindDescendsIntoSections(t *testing.T) {
	inner := Paragraph{
		URI:  mustDocElemURI(t, "https://mathhub.info?a=x&d=doc&l=en&e=intro/p1"),
		Kind: ParagraphDefinition,
	}
	sec := Section{
		URI:      mustDocElemURI(t, "https://mathhub.info?a=x&d=doc&l=en&e=intro"),
		Level:    1,
		Elements: []DocumentElement{inner},
	}
	doc := Document[content.Unchecked]{
		URI:      mustDocURI(t, "https://mathhub.info?a=x&d=doc&l=en"),
		Language: uri.LanguageEn,
		Elements: []DocumentElement{sec},
	}
	found, ok := doc.Find([]uri.NameStep{"intro", "p1"})
	if !ok {
		t.Fatal("expected to find nested paragraph")
	}
	p, ok := found.(Paragraph)
	if !ok || p.Kind != ParagraphDefinition {
		t.Fatalf("unexpected result %+v", found)
	}
}

func TestFindMissingReturnsFalse(t *testing.T) {
	doc := Document[content.Unchecked]{
		URI:      mustDocURI(t, "https://mathhub.info?a=x&d=doc&l=en"),
		Language: uri.LanguageEn,
	}
	if _, ok := doc.Find([]uri.NameStep{"nope"}); ok {
		t.Fatal("expected no match in empty document")
	}
}

func TestIterVisitsNestedProblem(t *testing.T) {
	prob := Problem{
		URI:    mustDocElemURI(t, "https://mathhub.info?a=x&d=doc&l=en&e=ex.1"),
		Points: 2.5,
	}
	sec := Section{
		URI:      mustDocElemURI(t, "https://mathhub.info?a=x&d=doc&l=en&e=sec"),
		Elements: []DocumentElement{prob},
	}
	doc := Document[content.Unchecked]{
		URI:      mustDocURI(t, "https://mathhub.info?a=x&d=doc&l=en"),
		Elements: []DocumentElement{sec},
	}
	var sawProblem bool
	doc.Iter(func(e DocumentElement) {
		if p, ok := e.(Problem); ok && p.Points == 2.5 {
			sawProblem = true
		}
	})
	if !sawProblem {
		t.Fatal("expected Iter to visit the nested problem")
	}
}
