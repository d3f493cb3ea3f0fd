package shtml

import (
	"strings"
	"testing"

	"github.com/flexiformal/flams-core/internal/artifact"
	"github.com/flexiformal/flams-core/internal/content"
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

func extract(t *testing.T, html string) Result {
	t.Helper()
	res, err := Extract(strings.NewReader(html), Options{
		DocumentURI: mustDocURI(t, "https://mathhub.info?a=my/archive&d=doc&l=en"),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return res
}

func TestExtractModuleWithSymbolAndNotation(t *testing.T) {
	html := `<div shtml:theory="https://mathhub.info?a=my/archive&m=Group&l=en">
  <span shtml:symdecl="op"></span>
  <span shtml:notation="https://mathhub.info?a=my/archive&m=Group&l=en&s=op">
    <span shtml:head="https://mathhub.info?a=my/archive&m=Group&l=en&s=op"></span> the op
  </span>
</div>`
	res := extract(t, html)
	if res.Log.HasStructured {
		t.Fatalf("unexpected structured errors: %+v", res.Log)
	}
	if len(res.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(res.Modules))
	}
	mod := res.Modules[0]
	foundSymbol, foundNotation := false, false
	for _, el := range mod.Elements {
		switch el.(type) {
		case content.Symbol:
			foundSymbol = true
		case content.Notation:
			foundNotation = true
		}
	}
	if !foundSymbol {
		t.Errorf("expected a content.Symbol element in module, got %#v", mod.Elements)
	}
	if !foundNotation {
		t.Errorf("expected a content.Notation element in module, got %#v", mod.Elements)
	}
}

func TestDroppedSubtreeOffsetsStayConsistent(t *testing.T) {
	html := `<div shtml:section="1"><div shtml:sectiontitle="true">Intro</div>` +
		`<p>kept before</p>` +
		`<div shtml:visible="false">dropped entirely should not appear</div>` +
		`<p>kept after</p></div>`
	res := extract(t, html)
	if strings.Contains(res.Body, "dropped entirely") {
		t.Fatalf("dropped subtree leaked into body: %q", res.Body)
	}
	if !strings.Contains(res.Body, "kept before") || !strings.Contains(res.Body, "kept after") {
		t.Fatalf("surviving siblings missing from body: %q", res.Body)
	}
	if len(res.Document.Elements) != 1 {
		t.Fatalf("expected 1 top-level element (the section), got %d", len(res.Document.Elements))
	}
	sec, ok := res.Document.Elements[0].(narrative.Section)
	if !ok {
		t.Fatalf("expected narrative.Section, got %#v", res.Document.Elements[0])
	}
	if sec.Range.Start < 0 || sec.Range.End > len(res.Body) || sec.Range.Start > sec.Range.End {
		t.Fatalf("section range %v out of bounds for body length %d", sec.Range, len(res.Body))
	}
	foundSkip := false
	for _, el := range sec.Elements {
		if _, ok := el.(narrative.SkipSection); ok {
			foundSkip = true
		}
	}
	if !foundSkip {
		t.Errorf("expected a SkipSection placeholder for the invisible div, got %#v", sec.Elements)
	}
}

func TestSectionCounterAsymmetricReset(t *testing.T) {
	var c sectionCounter
	if n := c.increment(1); n != 1 {
		t.Fatalf("level 1 first increment: got %d, want 1", n)
	}
	if n := c.increment(2); n != 1 {
		t.Fatalf("level 2 first increment: got %d, want 1", n)
	}
	if n := c.increment(2); n != 2 {
		t.Fatalf("level 2 second increment: got %d, want 2", n)
	}
	// incrementing a shallower level must reset every deeper one
	if n := c.increment(1); n != 2 {
		t.Fatalf("level 1 second increment: got %d, want 2", n)
	}
	if n := c.increment(2); n != 1 {
		t.Fatalf("level 2 after shallow reset: got %d, want 1 (deeper level should have reset)", n)
	}
}

type fakeImageResolver struct{}

func (fakeImageResolver) ArchiveRelative(src string) (string, string, bool) {
	if src == "figures/diagram.png" {
		return "my/archive", "figures/diagram.png", true
	}
	return "", "", false
}

func (fakeImageResolver) KpseBasename(basename string) bool {
	return basename == "amssymb.sty"
}

func TestImageSrcRewriting(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"figures/diagram.png", "/img?a=my%2Farchive&rp=figures%2Fdiagram.png"},
		{"amssymb.sty", "/img?kpse=amssymb.sty"},
		{"https://example.com/x.png", "/img?file=https%3A%2F%2Fexample.com%2Fx.png"},
	}
	for _, c := range cases {
		got := rewriteImageSrc(c.src, fakeImageResolver{})
		if got != c.want {
			t.Errorf("rewriteImageSrc(%q) = %q, want %q", c.src, got, c.want)
		}
	}
}

func TestHeadCSSExtractedAndStripped(t *testing.T) {
	html := `<html><head>` +
		`<link rel="stylesheet" href="/style.css">` +
		`<style>.x { color: red }</style>` +
		`</head><body><p>hi</p></body></html>`
	res := extract(t, html)
	if strings.Contains(res.Body, "style.css") || strings.Contains(res.Body, "color: red") {
		t.Fatalf("head CSS leaked into body: %q", res.Body)
	}
	if len(res.CSS) != 2 {
		t.Fatalf("expected 2 CSS entries, got %d: %+v", len(res.CSS), res.CSS)
	}
	foundLink, foundInline := false, false
	for _, c := range res.CSS {
		if c.Kind == artifact.CSSLink && c.Value == "/style.css" {
			foundLink = true
		}
		if c.Kind == artifact.CSSInline && strings.Contains(c.Value, "color: red") {
			foundInline = true
		}
	}
	if !foundLink {
		t.Errorf("expected a CSSLink entry for /style.css, got %+v", res.CSS)
	}
	if !foundInline {
		t.Errorf("expected a CSSInline entry containing the style text, got %+v", res.CSS)
	}
}

func TestUnrecognizedAttributeIsDiagnosticNotStructured(t *testing.T) {
	html := `<div shtml:bogus="whatever"><p>text</p></div>`
	res := extract(t, html)
	if res.Log.HasStructured {
		t.Fatalf("unrecognized attribute should be Diagnostic, not Structured: %+v", res.Log)
	}
	if len(res.Log.Errors) == 0 {
		t.Fatalf("expected at least one diagnostic entry to be recorded")
	}
}

func TestInvalidURIAttributeIsStructured(t *testing.T) {
	html := `<div shtml:theory="not a uri"><p>text</p></div>`
	res := extract(t, html)
	if !res.Log.HasStructured {
		t.Fatalf("malformed shtml:theory URI should be recorded as Structured")
	}
}

func TestUnbalancedTagsAreStructured(t *testing.T) {
	html := `<div shtml:section="1"><p>unterminated`
	res := extract(t, html)
	if !res.Log.HasStructured {
		t.Fatalf("unbalanced shtml nesting should be recorded as Structured")
	}
}
