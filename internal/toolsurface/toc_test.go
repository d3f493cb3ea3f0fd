package toolsurface

import (
	"testing"

	"github.com/flexiformal/flams-core/internal/narrative"
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

func mustElementURI(t *testing.T, doc uri.DocumentURI, step string) uri.DocumentElementURI {
	t.Helper()
	name, err := uri.NewName(uri.NameStep(step))
	if err != nil {
		t.Fatalf("NewName(%q): %v", step, err)
	}
	return uri.NewDocumentElementURI(doc, name)
}

func TestBuildTOCNestsSectionsAndParagraphs(t *testing.T) {
	doc := mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en")
	sectionURI := mustElementURI(t, doc, "intro")
	paraURI := mustElementURI(t, doc, "def1")

	elements := []narrative.DocumentElement{
		narrative.Section{
			URI:       sectionURI,
			Level:     1,
			TitleHTML: "Introduction",
			Elements: []narrative.DocumentElement{
				narrative.Paragraph{URI: paraURI, Kind: narrative.ParagraphDefinition},
			},
		},
	}

	toc := buildTOC(elements)
	if len(toc) != 1 {
		t.Fatalf("expected 1 top-level entry, got %d", len(toc))
	}
	section := toc[0]
	if section.Kind != "section" || section.Title != "Introduction" || section.Level != 1 {
		t.Fatalf("unexpected section entry: %+v", section)
	}
	if len(section.Children) != 1 || section.Children[0].Kind != "definition" {
		t.Fatalf("expected a nested definition paragraph, got %+v", section.Children)
	}
}

func TestBuildTOCFlattensUnrecognizedParenter(t *testing.T) {
	doc := mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en")
	sectionURI := mustElementURI(t, doc, "s")
	moduleName, err := uri.NewName(uri.NameStep("mod"))
	if err != nil {
		t.Fatalf("NewName: %v", err)
	}
	_ = moduleName

	elements := []narrative.DocumentElement{
		narrative.ModuleElement{
			Elements: []narrative.DocumentElement{
				narrative.Section{URI: sectionURI, Level: 2, TitleHTML: "Nested"},
			},
		},
	}

	toc := buildTOC(elements)
	if len(toc) != 1 || toc[0].Kind != "section" || toc[0].Title != "Nested" {
		t.Fatalf("expected the module's section to surface directly, got %+v", toc)
	}
}

func TestParagraphKindNameCoversEveryKind(t *testing.T) {
	cases := map[narrative.ParagraphKind]string{
		narrative.ParagraphPlain:      "paragraph",
		narrative.ParagraphDefinition: "definition",
		narrative.ParagraphAssertion:  "assertion",
		narrative.ParagraphProof:      "proof",
		narrative.ParagraphSubproof:   "subproof",
		narrative.ParagraphExample:    "example",
	}
	for kind, want := range cases {
		if got := paragraphKindName(kind); got != want {
			t.Fatalf("paragraphKindName(%v) = %q, want %q", kind, got, want)
		}
	}
}

func TestStringifyURIs(t *testing.T) {
	doc := mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en")
	elems := []uri.DocumentElementURI{mustElementURI(t, doc, "a"), mustElementURI(t, doc, "b")}
	out := stringifyURIs(elems)
	if len(out) != 2 || out[0] == "" || out[1] == "" {
		t.Fatalf("expected 2 non-empty URI strings, got %v", out)
	}
}
