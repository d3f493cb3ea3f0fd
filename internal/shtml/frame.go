package shtml

import (
	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

type frameKind uint8

const (
	frameGeneric frameKind = iota
	frameDropped
	frameDoctitle
	frameSectiontitle
	frameSection
	frameModule
	frameStructure
	frameMorphism
	frameExtension
	frameParagraph
	frameProblem
	frameNotation
	frameVarnotation
	frameTerm
	frameHead
)

// frame is one open HTML element's bookkeeping. Most fields are only
// meaningful for the frame kinds that use them; this single mutable struct
// (rather than one type per kind) mirrors the stack-machine shape a streaming
// tokenizer pass naturally wants.
type frame struct {
	kind  frameKind
	tag   string
	start int
	end   int

	children    []narrative.DocumentElement
	contentKids []content.ContentElement

	visible bool // true unless shtml:visible="false" was set

	// frameDoctitle / frameSectiontitle
	titleText []byte

	// frameSection
	level             int
	sectionURI        uri.DocumentElementURI
	sectionTitleHTML  string
	sectionTitleRange narrative.DocumentRange

	// frameModule / frameStructure / frameMorphism / frameExtension
	moduleURI  uri.ModuleURI
	metaTheory *uri.ModuleURI
	signature  *uri.ModuleURI
	structName uri.NameStep
	morphDom   uri.ModuleURI
	morphTgt   uri.ModuleURI
	morphAsgn  []content.MorphismAssignment
	extTarget  uri.ModuleURI

	// frameParagraph / frameProblem
	paraKind       narrative.ParagraphKind
	paraURI        uri.DocumentElementURI
	problemSub     bool
	problemPoints  float64
	problemAutoID  string

	// frameNotation / frameVarnotation
	notationSymbol uri.SymbolURI
	notationVar    uri.DocumentElementURI
	notationHead   bool // true once a shtml:head child has been seen
	notationLit    []byte

	// frameTerm / frameHead
	termHeadRef string // raw attribute value, resolved at close
	termArgs    []content.Term
	resultTerm  content.Term // the term this frame resolved to, read by its parent
}

func newFrame(kind frameKind, tag string, start int) *frame {
	return &frame{kind: kind, tag: tag, start: start, end: start, visible: true}
}
