package content

import "github.com/flexiformal/flams-core/internal/uri"

// CheckingState distinguishes a Module/Document that has only been parsed
// (Unchecked) from one an external checker has validated (Checked). Unlike a
// discriminated-union approach, references inside both states are plain URIs
// (see DESIGN.md on C5 resolution) — Checked carries no extra pointer fields,
// only the type-level guarantee that every URI mentioned below was looked up
// successfully at least once. Transition is one-shot and one-directional.
type CheckingState interface {
	checkingState()
}

type Unchecked struct{}

func (Unchecked) checkingState() {}

type Checked struct{}

func (Checked) checkingState() {}

// Module is a content theory: a ModuleURI, optional meta-theory/signature
// references, and an ordered element sequence (§3.2).
type Module[S CheckingState] struct {
	URI         uri.ModuleURI
	MetaTheory  *uri.ModuleURI
	Signature   *uri.ModuleURI
	Elements    []ContentElement
}

// Get performs local lookup by name step, excluding transitively imported
// modules (§4.2) — only elements declared directly in this module's own
// sequence are visible.
func (m Module[S]) Get(step uri.NameStep) (ContentElement, bool) {
	for _, e := range m.Elements {
		if n, ok := elementName(e); ok && n == step {
			return e, true
		}
	}
	return nil, false
}

// Iter performs a depth-first traversal over every ContentElement, descending
// into NestedModule and MathStructure bodies.
func (m Module[S]) Iter(visit func(ContentElement)) {
	for _, e := range m.Elements {
		visit(e)
		switch v := e.(type) {
		case NestedModule[S]:
			v.Body.Iter(visit)
		case MathStructure[S]:
			for _, c := range v.Elements {
				visit(c)
			}
		}
	}
}

func elementName(e ContentElement) (uri.NameStep, bool) {
	switch v := e.(type) {
	case Symbol:
		return v.Name, true
	case NestedModule[Unchecked]:
		return v.Body.URI.Name().Leaf(), true
	case NestedModule[Checked]:
		return v.Body.URI.Name().Leaf(), true
	case MathStructure[Unchecked]:
		return v.Name, true
	case MathStructure[Checked]:
		return v.Name, true
	case Extension:
		return v.Name, true
	case Morphism:
		return v.Name, true
	default:
		return "", false
	}
}

// ContentElement is the tagged-variant sum of §3.2: Symbol, NestedModule,
// MathStructure, Extension, Morphism, Notation, Import.
type ContentElement interface {
	isContentElement()
}

// ArgSpec captures a symbol's arity and the positionality of each slot.
type ArgSpec struct {
	Arity        int
	Positionality []ArgType // len == Arity; element order matches declaration order
}

// AssociationStyle records left/right-associative rendering intent for an
// operator symbol, when declared.
type AssociationStyle uint8

const (
	AssocNone AssociationStyle = iota
	AssocLeft
	AssocRight
	AssocPairwise
)

// ArgReorder permutes declared argument positions to presentation positions,
// e.g. for symbols whose notation lists arguments in a different order than
// their OMA encoding.
type ArgReorder []int

// Symbol is a declared content constant.
type Symbol struct {
	Name       uri.NameStep
	Args       ArgSpec
	Macro      string // optional, "" if absent
	Type       Term   // optional, nil if absent
	Definiens  Term   // optional, nil if absent
	Assoc      AssociationStyle
	Reorder    ArgReorder // optional, nil if absent
}

func (Symbol) isContentElement() {}

// NestedModule embeds a full module as a sub-theory.
type NestedModule[S CheckingState] struct {
	Body Module[S]
}

func (NestedModule[S]) isContentElement() {}

// MathStructure is a record-like bundle of symbols (a "structure" in the
// OMDoc sense): it carries its own local element sequence.
type MathStructure[S CheckingState] struct {
	Name     uri.NameStep
	Elements []ContentElement
}

func (MathStructure[S]) isContentElement() {}

// Extension attaches further symbols to an existing module without altering
// its identity (a "view"-like extension of a structure).
type Extension struct {
	Name   uri.NameStep
	Target uri.ModuleURI
}

func (Extension) isContentElement() {}

// MorphismAssignment sends a single domain symbol to an image term.
type MorphismAssignment struct {
	Symbol uri.SymbolURI
	Value  Term
}

// Morphism declares a structure-preserving map from one module to another.
// Assignments are kept as an ordered list rather than a map: SymbolURI embeds
// a Name whose backing slice makes it unsuitable as a Go map key, and
// declaration order matters for diagnostics anyway.
type Morphism struct {
	Name        uri.NameStep
	Domain      uri.ModuleURI
	Target      uri.ModuleURI
	Assignments []MorphismAssignment
}

func (Morphism) isContentElement() {}

// Import pulls another module's elements into scope, as a visible or
// "structural" (realizing) dependency.
type Import struct {
	Module    uri.ModuleURI
	Realizing bool
}

func (Import) isContentElement() {}

func (Notation) isContentElement() {}
