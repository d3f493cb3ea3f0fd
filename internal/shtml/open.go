package shtml

import (
	"golang.org/x/net/html"

	"github.com/flexiformal/flams-core/internal/artifact"
	"github.com/flexiformal/flams-core/internal/content"
	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

func (e *extractor) handleStart(z *html.Tokenizer, raw []byte, selfClosing bool) {
	tok := z.Token()
	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		key := a.Key
		if len(key) > 5 && key[:5] == "ftml:" {
			key = "shtml:" + key[5:]
		}
		attrs[key] = a.Val
	}

	for k := range attrs {
		if hasShtmlPrefix(k) && !recognizedAttrs[k] {
			e.diag(flerrors.ExtractionUnrecognizedAttribute, k, nil)
		}
	}

	if tok.Data == "head" {
		e.inHead = true
	}

	if e.inHead {
		if tok.Data == "link" && attrs["rel"] == "stylesheet" {
			if href, ok := attrs["href"]; ok {
				e.css = append(e.css, artifact.CSS{Kind: artifact.CSSLink, Value: href})
			}
			return
		}
		if tok.Data == "style" {
			e.pushStyleCapture(tok.Data)
			return
		}
	}

	if tok.Data == "img" {
		if src, ok := attrs["src"]; ok {
			rewritten := rewriteImageSrc(src, e.opts.Images)
			e.write([]byte(`<img src="` + htmlEscapeAttr(rewritten) + `"`))
			for _, a := range tok.Attr {
				if a.Key == "src" {
					continue
				}
				e.write([]byte(` ` + a.Key + `="` + htmlEscapeAttr(a.Val) + `"`))
			}
			if selfClosing {
				e.write([]byte("/>"))
			} else {
				e.write([]byte(">"))
			}
			return
		}
	}

	start := e.out.Len()
	e.write(raw)
	f := newFrame(frameGeneric, tok.Data, start)
	if v, ok := attrs[attrVisible]; ok && v == "false" {
		f.visible = false
	}

	e.openRole(f, attrs)
	if !selfClosing {
		e.stack = append(e.stack, f)
	} else {
		e.closeFrame(f)
	}
}

func (e *extractor) pushStyleCapture(tag string) {
	f := newFrame(frameGeneric, tag, e.out.Len())
	f.kind = frameSectiontitle // reuse the text-capture plumbing; value read back as CSS inline text
	e.stack = append(e.stack, f)
}

// openRole assigns f's behavioral kind from the shtml attributes present on
// its opening tag. Several "theory-defining" attributes can combine on one
// element (shtml:theory + shtml:language + shtml:metatheory + shtml:signature
// together open a single module), so this inspects the whole attrs map rather
// than the first recognized key.
func (e *extractor) openRole(f *frame, attrs map[string]string) {
	switch {
	case hasAttr(attrs, attrSectionLevel):
		n, ok := parseIntAttr(attrs[attrSectionLevel])
		if !ok {
			e.diag(flerrors.ExtractionMissingRequired, attrSectionLevel, nil)
			return
		}
		e.attach(narrative.SetSectionLevel{Level: n})
		e.counter.increment(n)
		f.kind = frameDropped

	case hasAttr(attrs, attrInputref):
		target, err := uri.ParseDocumentURI(attrs[attrInputref])
		if err != nil {
			e.structured(flerrors.ExtractionInvalidURI, attrInputref, err)
			f.kind = frameDropped
			return
		}
		id := e.next("ref")
		e.attach(narrative.DocumentReference{Range: narrative.DocumentRange{Start: f.start, End: f.start}, Target: target, GeneratedID: string(id)})
		f.kind = frameDropped

	case hasAttr(attrs, attrDoctitle):
		f.kind = frameDoctitle

	case hasAttr(attrs, attrSection):
		n, ok := parseIntAttr(attrs[attrSection])
		if !ok {
			e.diag(flerrors.ExtractionMissingRequired, attrSection, nil)
			n = len(e.currentSectionDepth()) + 1
		}
		f.kind = frameSection
		f.level = n
		f.sectionURI = e.elemURI("sec")

	case hasAttr(attrs, attrSectiontitle):
		f.kind = frameSectiontitle

	case hasAttr(attrs, attrTheory):
		mod, err := uri.ParseModuleURI(attrs[attrTheory])
		if err != nil {
			e.structured(flerrors.ExtractionInvalidURI, attrTheory, err)
			return
		}
		f.kind = frameModule
		f.moduleURI = mod
		if v, ok := attrs[attrMetatheory]; ok {
			if mt, err := uri.ParseModuleURI(v); err == nil {
				f.metaTheory = &mt
			} else {
				e.structured(flerrors.ExtractionInvalidURI, attrMetatheory, err)
			}
		}
		if v, ok := attrs[attrSignature]; ok {
			if sg, err := uri.ParseModuleURI(v); err == nil {
				f.signature = &sg
			} else {
				e.structured(flerrors.ExtractionInvalidURI, attrSignature, err)
			}
		}
		if v, ok := attrs[attrLanguage]; ok {
			if lang, ok := uri.ParseLanguage(v); ok {
				e.lang = lang
			} else {
				e.diag(flerrors.ExtractionMissingRequired, attrLanguage, nil)
			}
		}

	case hasAttr(attrs, attrStructure):
		f.kind = frameStructure
		f.structName = uri.NameStep(attrs[attrStructure])
		if owner := e.nearestModuleFrame(); owner != nil {
			f.moduleURI = owner.moduleURI
		} else {
			e.diag(flerrors.ExtractionMissingRequired, attrStructure, nil)
		}

	case hasAttr(attrs, attrMorphism):
		f.kind = frameMorphism
		f.structName = uri.NameStep(attrs[attrMorphism])
		if dom, err := uri.ParseModuleURI(attrs[attrMorphismDomain]); err == nil {
			f.morphDom = dom
		} else {
			e.structured(flerrors.ExtractionInvalidURI, attrMorphismDomain, err)
		}
		if tgt, err := uri.ParseModuleURI(attrs[attrMorphismTarget]); err == nil {
			f.morphTgt = tgt
		} else {
			e.structured(flerrors.ExtractionInvalidURI, attrMorphismTarget, err)
		}

	case hasAttr(attrs, attrExtension):
		f.kind = frameExtension
		f.structName = uri.NameStep(attrs[attrExtension])
		if tgt, err := uri.ParseModuleURI(attrs[attrExtensionOf]); err == nil {
			f.extTarget = tgt
		} else {
			e.structured(flerrors.ExtractionInvalidURI, attrExtensionOf, err)
		}

	case hasAttr(attrs, attrSymdecl):
		e.openSymdecl(f, attrs[attrSymdecl])
		f.kind = frameGeneric

	case hasAttr(attrs, attrNotation):
		sym, err := uri.ParseSymbolURI(attrs[attrNotation])
		if err != nil {
			e.structured(flerrors.ExtractionInvalidURI, attrNotation, err)
			return
		}
		f.kind = frameNotation
		f.notationSymbol = sym

	case hasAttr(attrs, attrVarnotation):
		v, err := uri.ParseDocumentElementURI(attrs[attrVarnotation])
		if err != nil {
			e.structured(flerrors.ExtractionInvalidURI, attrVarnotation, err)
			return
		}
		f.kind = frameVarnotation
		f.notationVar = v

	case hasAttr(attrs, attrDefiniendum):
		e.openSymbolRefList(attrs[attrDefiniendum], func(s uri.SymbolURI) {
			e.attach(narrative.Definiendum{Range: narrative.DocumentRange{Start: f.start, End: f.start}, Symbol: s})
		}, attrDefiniendum)

	case hasAttr(attrs, attrDefines):
		e.openSymbolRefList(attrs[attrDefines], func(s uri.SymbolURI) {
			e.attach(narrative.Definiendum{Range: narrative.DocumentRange{Start: f.start, End: f.start}, Symbol: s})
		}, attrDefines)

	case hasAttr(attrs, attrUses):
		e.openSymbolRefList(attrs[attrUses], func(s uri.SymbolURI) {
			e.attach(narrative.SymbolReference{Range: narrative.DocumentRange{Start: f.start, End: f.start}, Symbol: s})
		}, attrUses)

	case hasAttr(attrs, attrImports):
		mod, err := uri.ParseModuleURI(attrs[attrImports])
		if err != nil {
			e.structured(flerrors.ExtractionInvalidURI, attrImports, err)
			return
		}
		if parent := e.nearestModuleFrame(); parent != nil {
			parent.contentKids = append(parent.contentKids, contentImport(mod))
		} else {
			e.diag(flerrors.ExtractionMissingRequired, attrImports, nil)
		}
		e.attach(narrative.ImportModule{Module: mod})

	case hasAttr(attrs, attrTerm):
		f.kind = frameTerm
		if v, ok := attrs[attrHead]; ok {
			f.termHeadRef = v
		}

	case hasAttr(attrs, attrHead):
		f.kind = frameHead
		f.termHeadRef = attrs[attrHead]
		if parent := e.topTermOrNotation(); parent != nil {
			parent.termHeadRef = f.termHeadRef
			parent.notationHead = true
		}

	case hasAttr(attrs, attrVariable):
		name := attrs[attrVariable]
		n, _ := uri.NewName(uri.NameStep(name))
		varURI := uri.NewDocumentElementURI(e.opts.DocumentURI, n)
		e.attach(narrative.Variable{URI: varURI, Range: narrative.DocumentRange{Start: f.start, End: f.start}})

	case hasAttr(attrs, attrDefinition):
		f.kind, f.paraKind, f.paraURI = frameParagraph, narrative.ParagraphDefinition, e.elemURI("def")
	case hasAttr(attrs, attrAssertion):
		f.kind, f.paraKind, f.paraURI = frameParagraph, narrative.ParagraphAssertion, e.elemURI("asrt")
	case hasAttr(attrs, attrParagraph):
		f.kind, f.paraKind, f.paraURI = frameParagraph, narrative.ParagraphPlain, e.elemURI("para")
	case hasAttr(attrs, attrProof):
		f.kind, f.paraKind, f.paraURI = frameParagraph, narrative.ParagraphProof, e.elemURI("proof")
	case hasAttr(attrs, attrSubproof):
		f.kind, f.paraKind, f.paraURI = frameParagraph, narrative.ParagraphSubproof, e.elemURI("subproof")
	case hasAttr(attrs, attrExample):
		f.kind, f.paraKind, f.paraURI = frameParagraph, narrative.ParagraphExample, e.elemURI("ex")

	case hasAttr(attrs, attrProblem), hasAttr(attrs, attrSubproblem):
		f.kind = frameProblem
		f.problemSub = hasAttr(attrs, attrSubproblem)
		f.paraURI = e.elemURI("prob")
		if v, ok := attrs[attrProblemPoints]; ok {
			if p, ok := parseFloatAttr(v); ok {
				f.problemPoints = p
			}
		}
		f.problemAutoID = attrs[attrProblemAutogradableID]
	}
}

func hasAttr(attrs map[string]string, key string) bool {
	_, ok := attrs[key]
	return ok
}

func (e *extractor) currentSectionDepth() []int {
	var depth []int
	for _, f := range e.stack {
		if f.kind == frameSection {
			depth = append(depth, f.level)
		}
	}
	return depth
}

func (e *extractor) topTermOrNotation() *frame {
	for i := len(e.stack) - 1; i >= 0; i-- {
		switch e.stack[i].kind {
		case frameTerm, frameNotation, frameVarnotation:
			return e.stack[i]
		}
	}
	return nil
}

func (e *extractor) openSymbolRefList(raw string, each func(uri.SymbolURI), attr string) {
	for _, part := range splitList(raw) {
		s, err := uri.ParseSymbolURI(part)
		if err != nil {
			e.structured(flerrors.ExtractionInvalidURI, attr, err)
			continue
		}
		each(s)
	}
}

func htmlEscapeAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, []byte("&amp;")...)
		case '"':
			out = append(out, []byte("&quot;")...)
		case '<':
			out = append(out, []byte("&lt;")...)
		case '>':
			out = append(out, []byte("&gt;")...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

// openSymdecl declares a new symbol on the nearest enclosing module/structure
// and emits the corresponding SymbolDeclaration narrative element.
func (e *extractor) openSymdecl(f *frame, name string) {
	parent := e.nearestModuleFrame()
	if parent == nil {
		e.diag(flerrors.ExtractionMissingRequired, attrSymdecl, nil)
		return
	}
	step := uri.NameStep(name)
	parent.contentKids = append(parent.contentKids, content.Symbol{Name: step})
	symURI := symbolURIFor(parent, step)
	e.attach(narrative.SymbolDeclaration{Range: narrative.DocumentRange{Start: f.start, End: f.start}, Symbol: symURI})
}

// symbolURIFor builds the SymbolURI a symbol declared inside parent resolves
// to: parent.moduleURI for a module frame, or the enclosing module's URI with
// the structure's own name appended for a structure frame (OMDoc structures
// share their parent theory's namespace).
func symbolURIFor(parent *frame, step uri.NameStep) uri.SymbolURI {
	if parent.kind == frameModule {
		n, _ := uri.NewName(step)
		return uri.NewSymbolURI(parent.moduleURI, n)
	}
	n, _ := uri.NewName(parent.structName, step)
	return uri.NewSymbolURI(parent.moduleURI, n)
}

func contentImport(mod uri.ModuleURI) content.ContentElement {
	return content.Import{Module: mod, Realizing: false}
}
