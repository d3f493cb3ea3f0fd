package content

import (
	"strings"
	"testing"

	"github.com/flexiformal/flams-core/internal/uri"
)

func mustModuleURI(t *testing.T, s string) uri.ModuleURI {
	t.Helper()
	m, err := uri.ParseModuleURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func mustSymbolURI(t *testing.T, s string) uri.SymbolURI {
	t.Helper()
	sym, err := uri.ParseSymbolURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return sym
}

func TestModuleGetIgnoresImports(t *testing.T) {
	mod := Module[Unchecked]{
		URI: mustModuleURI(t, "https://mathhub.info?a=x&m=Group&l=en"),
		Elements: []ContentElement{
			Symbol{Name: "mul"},
			Import{Module: mustModuleURI(t, "https://mathhub.info?a=x&m=Monoid&l=en")},
		},
	}
	if _, ok := mod.Get("mul"); !ok {
		t.Fatal("expected to find local symbol mul")
	}
	if _, ok := mod.Get("e"); ok {
		t.Fatal("Get must not resolve names from imported modules")
	}
}

func TestModuleIterDescendsNestedModules(t *testing.T) {
	inner := Module[Unchecked]{
		URI:      mustModuleURI(t, "https://mathhub.info?a=x&m=Group/Inner&l=en"),
		Elements: []ContentElement{Symbol{Name: "id"}},
	}
	outer := Module[Unchecked]{
		URI: mustModuleURI(t, "https://mathhub.info?a=x&m=Group&l=en"),
		Elements: []ContentElement{
			Symbol{Name: "mul"},
			NestedModule[Unchecked]{Body: inner},
		},
	}
	var seen []string
	outer.Iter(func(e ContentElement) {
		if s, ok := e.(Symbol); ok {
			seen = append(seen, string(s.Name))
		}
	})
	if len(seen) != 2 || seen[0] != "mul" || seen[1] != "id" {
		t.Fatalf("unexpected traversal order: %v", seen)
	}
}

func TestPresentOMSFallsBackWithoutNotation(t *testing.T) {
	p := Presenter{}
	var sb strings.Builder
	sym := mustSymbolURI(t, "https://mathhub.info?a=x&m=Group&l=en&s=mul")
	if err := p.Present(&sb, OMS{Symbol: sym}, maxArgPrecedence); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `shtml:term="OMID"`) {
		t.Fatalf("expected OMID fallback, got %s", sb.String())
	}
}

func TestPresentOMAUsesMatchingNotation(t *testing.T) {
	sym := mustSymbolURI(t, "https://mathhub.info?a=x&m=Group&l=en&s=mul")
	notation := Notation{
		Symbol:         sym,
		Precedence:     5,
		ArgPrecedences: []ArgPrecedence{5, 5},
		Components: []NotationComponent{
			ArgComponent{Index: 1, Type: ArgNormal, Precedence: 5},
			MainComp{Text: "*"},
			ArgComponent{Index: 2, Type: ArgNormal, Precedence: 5},
		},
	}
	p := Presenter{Notations: func(s uri.SymbolURI) []Notation {
		if uri.Equal(s, sym) {
			return []Notation{notation}
		}
		return nil
	}}
	var sb strings.Builder
	term := OMA{
		Head: OMS{Symbol: sym},
		Args: []Arg{
			{Value: OneTerm{Term: OMV{Name: LocalVar("x")}}, Type: ArgNormal},
			{Value: OneTerm{Term: OMV{Name: LocalVar("y")}}, Type: ArgNormal},
		},
	}
	if err := p.Present(&sb, term, maxArgPrecedence); err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	if !strings.Contains(got, "maincomp") || !strings.Contains(got, "OMA") {
		t.Fatalf("expected notation-driven rendering, got %s", got)
	}
}

func TestNotationArityMismatchFallsThrough(t *testing.T) {
	sym := mustSymbolURI(t, "https://mathhub.info?a=x&m=Group&l=en&s=mul")
	notation := Notation{
		Symbol:     sym,
		Precedence: 5,
		Components: []NotationComponent{
			ArgComponent{Index: 1, Type: ArgNormal},
			ArgComponent{Index: 2, Type: ArgNormal},
		},
	}
	p := Presenter{Notations: func(uri.SymbolURI) []Notation { return []Notation{notation} }}
	var sb strings.Builder
	term := OMA{
		Head: OMS{Symbol: sym},
		Args: []Arg{{Value: OneTerm{Term: OMV{Name: LocalVar("x")}}, Type: ArgNormal}},
	}
	if err := p.Present(&sb, term, maxArgPrecedence); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `shtml:term="OMID"`) {
		t.Fatalf("expected fallback on arity mismatch, got %s", sb.String())
	}
}
