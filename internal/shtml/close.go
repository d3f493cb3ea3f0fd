package shtml

import (
	"golang.org/x/net/html"

	"github.com/flexiformal/flams-core/internal/artifact"
	"github.com/flexiformal/flams-core/internal/content"
	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

func (e *extractor) handleEnd(z *html.Tokenizer, raw []byte) {
	tok := z.Token()
	if e.inHead && tok.Data == "head" {
		e.inHead = false
	}

	f := e.top()
	if f == nil {
		// A close tag with nothing open is unbalanced SHTML only when it was
		// one of ours; a bare HTML closer with no matching frame is normal
		// (the root document body/html tags never get frames).
		e.write(raw)
		return
	}
	if f.tag != tok.Data {
		// Not every HTML element we pushed a frame for needs exact pairing
		// (e.g. a <br> would never reach here), but a genuine mismatch means
		// an shtml-bearing element was left unclosed by something nested.
		e.structured(flerrors.ExtractionUnbalancedShtml, f.tag, nil)
	}
	e.write(raw)
	e.stack = e.stack[:len(e.stack)-1]
	e.closeFrame(f)
}

func (e *extractor) closeFrame(f *frame) {
	rng := e.rangeFor(f)

	if !f.visible && f.kind != frameDropped {
		e.truncateTo(f)
		e.attach(narrative.SkipSection{Range: rng})
		return
	}

	switch f.kind {
	case frameDropped:
		e.truncateTo(f)

	case frameDoctitle:
		e.title = string(f.titleText)
		e.truncateTo(f)

	case frameSectiontitle:
		if f.tag == "style" {
			e.css = append(e.css, artifact.CSS{Kind: artifact.CSSInline, Value: string(f.titleText)})
			e.truncateTo(f)
			return
		}
		if parent := e.top(); parent != nil && parent.kind == frameSection {
			parent.sectionTitleHTML = string(f.titleText)
			parent.sectionTitleRange = rng
		}

	case frameSection:
		e.attach(narrative.Section{
			URI: f.sectionURI, Level: f.level, Range: rng,
			TitleRange: f.sectionTitleRange, TitleHTML: f.sectionTitleHTML,
			Elements: f.children,
		})

	case frameModule:
		mod := content.Module[content.Unchecked]{URI: f.moduleURI, MetaTheory: f.metaTheory, Signature: f.signature, Elements: f.contentKids}
		if parent := e.nearestModuleFrame(); parent != nil {
			parent.contentKids = append(parent.contentKids, content.NestedModule[content.Unchecked]{Body: mod})
		} else {
			e.mods = append(e.mods, mod)
		}
		e.attach(narrative.ModuleElement{Range: rng, Module: mod.URI, Elements: f.children})

	case frameStructure:
		ms := content.MathStructure[content.Unchecked]{Name: f.structName, Elements: f.contentKids}
		if parent := e.nearestModuleFrame(); parent != nil {
			parent.contentKids = append(parent.contentKids, ms)
		} else {
			e.diag(flerrors.ExtractionMissingRequired, attrStructure, nil)
		}
		e.attach(narrative.MathStructureElement{Range: rng, Name: f.structName, Elements: f.children})

	case frameMorphism:
		m := content.Morphism{Name: f.structName, Domain: f.morphDom, Target: f.morphTgt, Assignments: f.morphAsgn}
		if parent := e.nearestModuleFrame(); parent != nil {
			parent.contentKids = append(parent.contentKids, m)
		}
		e.attach(narrative.MorphismElement{Range: rng, Name: f.structName, Domain: f.morphDom, Target: f.morphTgt, Elements: f.children})

	case frameExtension:
		ext := content.Extension{Name: f.structName, Target: f.extTarget}
		if parent := e.nearestModuleFrame(); parent != nil {
			parent.contentKids = append(parent.contentKids, ext)
		}
		e.attach(narrative.ExtensionElement{Range: rng, Name: f.structName, Target: f.extTarget, Elements: f.children})

	case frameParagraph:
		e.attach(narrative.Paragraph{URI: f.paraURI, Kind: f.paraKind, Range: rng, Elements: f.children})

	case frameProblem:
		e.attach(narrative.Problem{
			URI: f.paraURI, Range: rng, Sub: f.problemSub,
			Points: f.problemPoints, AutogradableID: f.problemAutoID, Elements: f.children,
		})

	case frameNotation:
		n := content.Notation{Symbol: f.notationSymbol, Components: notationComponents(f)}
		if parent := e.nearestModuleFrame(); parent != nil {
			parent.contentKids = append(parent.contentKids, n)
		}
		e.attach(narrative.NotationElement{Range: rng, Symbol: f.notationSymbol, Notation: n})

	case frameVarnotation:
		vn := content.VariableNotation{Variable: f.notationVar, Components: notationComponents(f)}
		e.attach(narrative.VariableNotationElement{Range: rng, Variable: f.notationVar, Notation: vn})

	case frameTerm:
		t := e.resolveTerm(f)
		f.resultTerm = t
		if parent := e.topTermParent(); parent != nil {
			parent.termArgs = append(parent.termArgs, t)
		} else {
			e.attach(narrative.TopTerm{Range: rng, Term: t})
		}

	case frameHead:
		// structural only; consumed by the enclosing term/notation frame
		// when it opened (see openRole's attrHead case).

	case frameGeneric:
		for _, c := range f.children {
			e.attach(c)
		}
	}
}

func (e *extractor) topTermParent() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	if p := e.stack[len(e.stack)-1]; p.kind == frameTerm {
		return p
	}
	return nil
}

// resolveTerm builds this term frame's Term from its head reference (tried as
// a symbol, then a variable, then a module) and any nested shtml:term children
// accumulated as arguments; zero arguments collapses to the bare head form.
func (e *extractor) resolveTerm(f *frame) content.Term {
	head := e.resolveHeadRef(f.termHeadRef)
	if len(f.termArgs) == 0 {
		return head
	}
	args := make([]content.Arg, len(f.termArgs))
	for i, t := range f.termArgs {
		args[i] = content.Arg{Value: content.OneTerm{Term: t}, Type: content.ArgNormal}
	}
	oma := content.OMA{Head: head, Args: args}
	if oms, ok := head.(content.OMS); ok {
		oma.HeadTerm = &oms
	}
	return oma
}

func (e *extractor) resolveHeadRef(ref string) content.Term {
	if ref == "" {
		return nil
	}
	if sym, err := uri.ParseSymbolURI(ref); err == nil {
		return content.OMS{Symbol: sym}
	}
	if elem, err := uri.ParseDocumentElementURI(ref); err == nil {
		return content.OMV{Name: content.URIVar(elem)}
	}
	if mod, err := uri.ParseModuleURI(ref); err == nil {
		return content.OMID{Module: mod}
	}
	e.structured(flerrors.ExtractionInvalidURI, attrHead, nil)
	return content.OMV{Name: content.LocalVar(ref)}
}

// notationComponents reduces a notation frame's accumulated literal text into
// the Notation component language: a MainComp wrapping the captured text when
// a head marker was seen, a bare Literal otherwise. The extractor does not
// attempt to recover argument placeholders, precedence, or separators from
// HTML structure alone; richer notations are declared directly against the
// content API rather than produced by HTML round-trip.
func notationComponents(f *frame) []content.NotationComponent {
	text := string(f.notationLit)
	if text == "" {
		return nil
	}
	if f.notationHead {
		return []content.NotationComponent{content.MainComp{Text: text}}
	}
	return []content.NotationComponent{content.Literal{Text: text}}
}
