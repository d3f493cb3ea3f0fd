package content

import "github.com/flexiformal/flams-core/internal/uri"

// ArgPrecedence is bounded to 9 distinct levels (§3.2), matching the
// attribute-driven precedence scheme the extractor reads off shtml markup.
type ArgPrecedence uint8

const maxArgPrecedence ArgPrecedence = 9

// NotationComponent is the tagged-variant sum of §4.2: literal string,
// component marker, main-component marker, argument reference,
// argument-with-separator, argument-mapping.
type NotationComponent interface {
	isNotationComponent()
}

// Literal is emitted as-is.
type Literal struct {
	Text string
}

func (Literal) isNotationComponent() {}

// Comp marks a literal as a plain (non-main) notation component.
type Comp struct {
	Text string
}

func (Comp) isNotationComponent() {}

// MainComp marks a literal as the main operator, for subscript-attachment
// (§4.2 Field rendering).
type MainComp struct {
	Text string
}

func (MainComp) isNotationComponent() {}

// ArgComponent renders args[Index-1] at ArgType's binding mode and Precedence.
type ArgComponent struct {
	Index      int
	Type       ArgType
	Precedence ArgPrecedence
}

func (ArgComponent) isNotationComponent() {}

// ArgSep renders a sequence argument, joined by Sep (default "," if Sep is
// nil). Nested Arg markers inside Sep stand for the sequence element
// position and are not independently resolved (§4.2).
type ArgSep struct {
	Index int
	Type  ArgType
	Sep   []NotationComponent
}

func (ArgSep) isNotationComponent() {}

// ArgMap applies Segments to a key/value-pair view of args[Index-1], joined
// by Join.
type ArgMap struct {
	Index    int
	Segments []NotationComponent
	Join     []NotationComponent
}

func (ArgMap) isNotationComponent() {}

// Notation attaches a rendering to a symbol: a fixed precedence, the bounded
// per-argument precedence list, the extractor's attribute offset, and the
// component sequence.
type Notation struct {
	Symbol         uri.SymbolURI
	Precedence     ArgPrecedence
	ArgPrecedences []ArgPrecedence // len <= arity; bounded to maxArgPrecedence each
	AttributeOffset int
	Components     []NotationComponent
}

// VariableNotation is the OMV analogue of Notation, keyed by the variable's
// DocumentElementURI instead of a SymbolURI.
type VariableNotation struct {
	Variable       uri.DocumentElementURI
	Precedence     ArgPrecedence
	ArgPrecedences []ArgPrecedence
	Components     []NotationComponent
}
