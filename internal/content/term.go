// Package content implements the content-model half of C2: Module, ContentElement
// and the Term language that symbol types/definientia are expressed in.
package content

import "github.com/flexiformal/flams-core/internal/uri"

// ArgType tags how an application argument binds, mirroring the notation
// component kinds it has to line up with (§4.2): a plain argument, a bound
// variable, a sequence argument, or a sequence of bound variables.
type ArgType uint8

const (
	ArgNormal ArgType = iota
	ArgBinding
	ArgSequence
	ArgBindingSequence
)

func (t ArgType) IsSequence() bool {
	return t == ArgSequence || t == ArgBindingSequence
}

// TermOrList is either a single Term or a list of Terms, the shape a sequence
// argument slot takes (§3.2 OMA args).
type TermOrList interface {
	isTermOrList()
}

type OneTerm struct{ Term Term }

func (OneTerm) isTermOrList() {}

type ManyTerms struct{ Terms []Term }

func (ManyTerms) isTermOrList() {}

// Arg pairs a term/list argument with the binding mode it was applied under.
type Arg struct {
	Value TermOrList
	Type  ArgType
}

// Term is the sum type of §3.2: OMS, OMV, OML, OMID, OMA, OMBIND, Field, Informal.
// Terms are DAGs by construction — nothing here offers a mutating "set child"
// operation, so cycles cannot be built through this API.
type Term interface {
	isTerm()
}

// OMS references a declared symbol directly.
type OMS struct {
	Symbol uri.SymbolURI
}

func (OMS) isTerm() {}

// VarName is either a bound local name or a full DocumentElementURI naming a
// variable declared elsewhere.
type VarName struct {
	Local string
	URI   *uri.DocumentElementURI
}

func LocalVar(name string) VarName { return VarName{Local: name} }

func URIVar(u uri.DocumentElementURI) VarName { return VarName{URI: &u} }

func (v VarName) String() string {
	if v.URI != nil {
		return v.URI.String()
	}
	return v.Local
}

// OMV references a variable, bound locally or by URI.
type OMV struct {
	Name VarName
}

func (OMV) isTerm() {}

// OML is an "OpenMath literal" binding: a field/let name with optional type
// and definiens, used both as a record field and as a let-bound name.
type OML struct {
	Name string
	Type Term // optional, nil if absent
	Def  Term // optional, nil if absent
}

func (OML) isTerm() {}

// OMID references a module (as opposed to OMS's symbol reference).
type OMID struct {
	Module uri.ModuleURI
}

func (OMID) isTerm() {}

// OMA is an application: a head term plus an optional fully-elaborated head
// symbol (for the case where head is itself notation-rewritten), and the
// argument list.
type OMA struct {
	Head     Term
	HeadTerm *OMS // set once the head has been resolved to a concrete symbol
	Args     []Arg
}

func (OMA) isTerm() {}

// BoundVar is a single variable introduced by an OMBIND, with optional type
// and optional attached value (as in typed/let-style binders).
type BoundVar struct {
	Name VarName
	Type Term
	Def  Term
}

// OMBIND is a binder: a head (the binding operator), the bound variables, and
// the scope term.
type OMBIND struct {
	Head Term
	Vars []BoundVar
	Body Term
}

func (OMBIND) isTerm() {}

// Field selects a named component out of a record-valued term.
type Field struct {
	Record Term
	Key    uri.SymbolURI
	Owner  *uri.ModuleURI // optional, nil if absent
}

func (Field) isTerm() {}

// InformalChild is either literal HTML/MathML structure or a reference back
// into Informal.Subterms, per §4.2's recursive InformalChild::Term(i) rule.
type InformalChild interface {
	isInformalChild()
}

type InformalHTML struct {
	Tag        string
	Attributes map[string]string
	Children   []InformalChild
}

func (InformalHTML) isInformalChild() {}

type InformalTermRef struct {
	Index int // index into the enclosing Informal.Subterms
}

func (InformalTermRef) isInformalChild() {}

// Informal wraps content the extractor could not fully elaborate: the
// original tag/attributes/children are kept so the presenter can echo them
// verbatim, with Subterms available for any InformalTermRef children.
type Informal struct {
	Tag        string
	Attributes map[string]string
	Children   []InformalChild
	Subterms   []Term
}

func (Informal) isTerm() {}
