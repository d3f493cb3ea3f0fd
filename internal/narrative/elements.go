package narrative

import (
	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/uri"
)

// DocumentElement is the tagged-variant sum of §3.2.
type DocumentElement interface {
	isDocumentElement()
}

// ElementURIer is implemented by the variants that carry their own
// DocumentElementURI (§3.2 invariant: Section/Paragraph/Problem/Slide).
type ElementURIer interface {
	ElementURI() uri.DocumentElementURI
}

// Parenter is implemented by variants with a child sequence, for Find and
// Document.Iter to descend into.
type Parenter interface {
	Children() []DocumentElement
}

// SetSectionLevel carries no content; it only resets the ambient section
// counter the extractor maintains.
type SetSectionLevel struct {
	Level int
}

func (SetSectionLevel) isDocumentElement() {}

// ParagraphKind distinguishes the shtml:definition/assertion/paragraph/proof/
// subproof/example family.
type ParagraphKind uint8

const (
	ParagraphPlain ParagraphKind = iota
	ParagraphDefinition
	ParagraphAssertion
	ParagraphProof
	ParagraphSubproof
	ParagraphExample
)

type Section struct {
	URI        uri.DocumentElementURI
	Level      int
	Range      DocumentRange
	TitleRange DocumentRange
	TitleHTML  string
	Elements   []DocumentElement
}

func (s Section) isDocumentElement()               {}
func (s Section) ElementURI() uri.DocumentElementURI { return s.URI }
func (s Section) Children() []DocumentElement      { return s.Elements }

type Slide struct {
	URI      uri.DocumentElementURI
	Range    DocumentRange
	Elements []DocumentElement
}

func (s Slide) isDocumentElement()               {}
func (s Slide) ElementURI() uri.DocumentElementURI { return s.URI }
func (s Slide) Children() []DocumentElement      { return s.Elements }

// ModuleElement opens a content module inline in the narrative (§3.2's
// Module{range, module, children} variant).
type ModuleElement struct {
	Range    DocumentRange
	Module   uri.ModuleURI
	Elements []DocumentElement
}

func (m ModuleElement) isDocumentElement()          {}
func (m ModuleElement) Children() []DocumentElement { return m.Elements }

type MathStructureElement struct {
	Range    DocumentRange
	Name     uri.NameStep
	Elements []DocumentElement
}

func (m MathStructureElement) isDocumentElement()          {}
func (m MathStructureElement) Children() []DocumentElement { return m.Elements }

type MorphismElement struct {
	Range    DocumentRange
	Name     uri.NameStep
	Domain   uri.ModuleURI
	Target   uri.ModuleURI
	Elements []DocumentElement
}

func (m MorphismElement) isDocumentElement()          {}
func (m MorphismElement) Children() []DocumentElement { return m.Elements }

type ExtensionElement struct {
	Range    DocumentRange
	Name     uri.NameStep
	Target   uri.ModuleURI
	Elements []DocumentElement
}

func (e ExtensionElement) isDocumentElement()          {}
func (e ExtensionElement) Children() []DocumentElement { return e.Elements }

// DocumentReference is the inline `shtml:inputref` placeholder: the body was
// replaced with a generated-id span (§4.3).
type DocumentReference struct {
	Range       DocumentRange
	Target      uri.DocumentURI
	GeneratedID string
}

func (DocumentReference) isDocumentElement() {}

type SymbolDeclaration struct {
	Range  DocumentRange
	Symbol uri.SymbolURI
}

func (SymbolDeclaration) isDocumentElement() {}

type NotationElement struct {
	Range    DocumentRange
	Symbol   uri.SymbolURI
	Notation content.Notation
}

func (NotationElement) isDocumentElement() {}

type VariableNotationElement struct {
	Range    DocumentRange
	Variable uri.DocumentElementURI
	Notation content.VariableNotation
}

func (VariableNotationElement) isDocumentElement() {}

// Variable declares a locally-scoped variable with an optional type/value,
// addressable by its own DocumentElementURI.
type Variable struct {
	URI   uri.DocumentElementURI
	Range DocumentRange
	Type  content.Term // optional, nil if absent
	Def   content.Term // optional, nil if absent
}

func (Variable) isDocumentElement() {}

type Definiendum struct {
	Range  DocumentRange
	Symbol uri.SymbolURI
}

func (Definiendum) isDocumentElement() {}

type SymbolReference struct {
	Range  DocumentRange
	Symbol uri.SymbolURI
}

func (SymbolReference) isDocumentElement() {}

type VariableReference struct {
	Range    DocumentRange
	Variable uri.DocumentElementURI
}

func (VariableReference) isDocumentElement() {}

// TopTerm marks a fully elaborated term occupying a document range (e.g. the
// body of an shtml:term="..." island).
type TopTerm struct {
	Range DocumentRange
	Term  content.Term
}

func (TopTerm) isDocumentElement() {}

type UseModule struct {
	Module uri.ModuleURI
}

func (UseModule) isDocumentElement() {}

type ImportModule struct {
	Module uri.ModuleURI
}

func (ImportModule) isDocumentElement() {}

type Paragraph struct {
	URI      uri.DocumentElementURI
	Kind     ParagraphKind
	Range    DocumentRange
	Elements []DocumentElement
}

func (p Paragraph) isDocumentElement()               {}
func (p Paragraph) ElementURI() uri.DocumentElementURI { return p.URI }
func (p Paragraph) Children() []DocumentElement      { return p.Elements }

// Problem carries the grading metadata supplemented from the original
// implementation: a point value and an optional autograder id, alongside the
// sub-problem flag shtml:subproblem sets.
type Problem struct {
	URI            uri.DocumentElementURI
	Range          DocumentRange
	Sub            bool
	Points         float64
	AutogradableID string
	Elements       []DocumentElement
}

func (p Problem) isDocumentElement()               {}
func (p Problem) ElementURI() uri.DocumentElementURI { return p.URI }
func (p Problem) Children() []DocumentElement      { return p.Elements }

// SkipSection marks a span the extractor deliberately did not descend into
// (e.g. shtml:visible=false content), kept for range bookkeeping only.
type SkipSection struct {
	Range DocumentRange
}

func (SkipSection) isDocumentElement() {}
