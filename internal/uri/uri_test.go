package uri

import "testing"

func TestRoundTripEndToEndScenario(t *testing.T) {
	// §8 scenario 1.
	input := "https://mathhub.info?a=Papers/foo&p=x/y&d=doc&l=en&e=sec.1"
	u, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	elem, ok := u.(DocumentElementURI)
	if !ok {
		t.Fatalf("expected DocumentElementURI, got %T", u)
	}
	if elem.Document().PathURI().Archive().Archive().String() != "Papers/foo" {
		t.Errorf("archive id = %q", elem.Document().PathURI().Archive().Archive().String())
	}
	if got, want := elem.String(), input; got != want {
		t.Errorf("round-trip = %q, want %q", got, want)
	}
}

func TestParsePrintRoundTripTable(t *testing.T) {
	cases := []string{
		"https://mathhub.info?a=Papers/foo",
		"https://mathhub.info?a=Papers/foo&p=x/y",
		"https://mathhub.info?a=Papers/foo&p=x/y&m=Group&l=en",
		"https://mathhub.info?a=Papers/foo&p=x/y&m=Group&l=en&s=mul",
		"https://mathhub.info?a=Papers/foo&d=doc&l=de",
		"https://mathhub.info?a=Papers/foo&d=doc&l=de&e=sec.1",
		"https://mathhub.info",
	}
	for _, c := range cases {
		u, err := Parse(c)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c, err)
		}
		if got := u.String(); got != c {
			t.Errorf("Parse(%q).String() = %q, want %q", c, got, c)
		}
	}
}

func TestParseUnrecognizedPart(t *testing.T) {
	_, err := Parse("https://mathhub.info?a=x&q=y")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseTooManyPartsForSymbolURI(t *testing.T) {
	// an 'e' following an 's' makes no sense: branch is 'm' not 'd'.
	_, err := Parse("https://mathhub.info?a=x&m=M&l=en&s=foo&e=bar")
	if err == nil {
		t.Fatal("expected TooManyPartsFor error")
	}
}

func TestParseInvalidLanguage(t *testing.T) {
	_, err := Parse("https://mathhub.info?a=x&m=M&l=xx")
	if err == nil {
		t.Fatal("expected InvalidLanguage error")
	}
}

func TestParseMissingLanguageForModule(t *testing.T) {
	_, err := Parse("https://mathhub.info?a=x&m=M")
	if err == nil {
		t.Fatal("expected InvalidLanguage error for missing l=")
	}
}

func TestProjections(t *testing.T) {
	sym, err := ParseSymbolURI("https://mathhub.info?a=x&p=y&m=M&l=en&s=plus")
	if err != nil {
		t.Fatal(err)
	}
	arch, ok := ArchiveOf(sym)
	if !ok || arch.Archive().String() != "x" {
		t.Fatalf("ArchiveOf = %+v, %v", arch, ok)
	}
	mod, ok := ModuleOf(sym)
	if !ok || mod.Name().String() != "M" {
		t.Fatalf("ModuleOf = %+v, %v", mod, ok)
	}
}

func TestEqualityIsCanonicalForm(t *testing.T) {
	a, _ := Parse("https://mathhub.info?a=x&p=y")
	b, _ := Parse("https://mathhub.info?a=x&p=y")
	if !Equal(a, b) {
		t.Fatal("expected equal URIs to compare equal")
	}
	if Hash(a) != Hash(b) {
		t.Fatal("expected equal URIs to hash equal")
	}
}

func TestEscapingRoundTrip(t *testing.T) {
	n, err := ParseName("a%26b")
	if err != nil {
		t.Fatal(err)
	}
	if n.String() != "a%26b" {
		t.Fatalf("unexpected name %q", n.String())
	}
	archiveID, _ := NewArchiveID("x")
	base, _ := ParseBaseURI("https://mathhub.info")
	archive := NewArchiveURI(base, archiveID)
	path := NewPathURI(archive, &n)
	if got, want := path.String(), "https://mathhub.info?a=x&p=a%2526b"; got != want {
		t.Errorf("escaped path = %q, want %q", got, want)
	}
	back, err := Parse(path.String())
	if err != nil {
		t.Fatal(err)
	}
	p2, ok := back.(PathURI)
	if !ok {
		t.Fatalf("expected PathURI, got %T", back)
	}
	gotPath, _ := p2.Path()
	if gotPath.String() != "a%26b" {
		t.Errorf("round-tripped path = %q", gotPath.String())
	}
}
