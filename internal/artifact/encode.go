package artifact

import (
	"fmt"

	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/narrative"
)

// Document is the persisted form's document type: always a checked document,
// per §3.3 ("encoded checked Document").
type Document = narrative.Document[content.Checked]

func encodeDocument(w *binWriter, d Document) {
	w.str(d.URI.String())
	w.optStr(d.Title, d.Title != "")
	w.u8(uint8(d.Language))
	w.u32(uint32(len(d.Elements)))
	for _, e := range d.Elements {
		encodeDocElement(w, e)
	}
}

func encodeRange(w *binWriter, r narrative.DocumentRange) {
	w.u32(uint32(r.Start))
	w.u32(uint32(r.End))
}

const (
	tagSetSectionLevel uint8 = iota
	tagSection
	tagSlide
	tagModuleElement
	tagMathStructureElement
	tagMorphismElement
	tagExtensionElement
	tagDocumentReference
	tagSymbolDeclaration
	tagNotationElement
	tagVariableNotationElement
	tagVariable
	tagDefiniendum
	tagSymbolReference
	tagVariableReference
	tagTopTerm
	tagUseModule
	tagImportModule
	tagParagraph
	tagProblem
	tagSkipSection
)

func encodeDocElements(w *binWriter, es []narrative.DocumentElement) {
	w.u32(uint32(len(es)))
	for _, e := range es {
		encodeDocElement(w, e)
	}
}

func encodeDocElement(w *binWriter, e narrative.DocumentElement) {
	switch v := e.(type) {
	case narrative.SetSectionLevel:
		w.u8(tagSetSectionLevel)
		w.u32(uint32(v.Level))
	case narrative.Section:
		w.u8(tagSection)
		w.str(v.URI.String())
		w.u32(uint32(v.Level))
		encodeRange(w, v.Range)
		encodeRange(w, v.TitleRange)
		w.str(v.TitleHTML)
		encodeDocElements(w, v.Elements)
	case narrative.Slide:
		w.u8(tagSlide)
		w.str(v.URI.String())
		encodeRange(w, v.Range)
		encodeDocElements(w, v.Elements)
	case narrative.ModuleElement:
		w.u8(tagModuleElement)
		encodeRange(w, v.Range)
		w.str(v.Module.String())
		encodeDocElements(w, v.Elements)
	case narrative.MathStructureElement:
		w.u8(tagMathStructureElement)
		encodeRange(w, v.Range)
		w.str(string(v.Name))
		encodeDocElements(w, v.Elements)
	case narrative.MorphismElement:
		w.u8(tagMorphismElement)
		encodeRange(w, v.Range)
		w.str(string(v.Name))
		w.str(v.Domain.String())
		w.str(v.Target.String())
		encodeDocElements(w, v.Elements)
	case narrative.ExtensionElement:
		w.u8(tagExtensionElement)
		encodeRange(w, v.Range)
		w.str(string(v.Name))
		w.str(v.Target.String())
		encodeDocElements(w, v.Elements)
	case narrative.DocumentReference:
		w.u8(tagDocumentReference)
		encodeRange(w, v.Range)
		w.str(v.Target.String())
		w.str(v.GeneratedID)
	case narrative.SymbolDeclaration:
		w.u8(tagSymbolDeclaration)
		encodeRange(w, v.Range)
		w.str(v.Symbol.String())
	case narrative.NotationElement:
		w.u8(tagNotationElement)
		encodeRange(w, v.Range)
		w.str(v.Symbol.String())
		encodeNotation(w, v.Notation)
	case narrative.VariableNotationElement:
		w.u8(tagVariableNotationElement)
		encodeRange(w, v.Range)
		w.str(v.Variable.String())
		encodeVariableNotation(w, v.Notation)
	case narrative.Variable:
		w.u8(tagVariable)
		w.str(v.URI.String())
		encodeRange(w, v.Range)
		encodeOptTerm(w, v.Type)
		encodeOptTerm(w, v.Def)
	case narrative.Definiendum:
		w.u8(tagDefiniendum)
		encodeRange(w, v.Range)
		w.str(v.Symbol.String())
	case narrative.SymbolReference:
		w.u8(tagSymbolReference)
		encodeRange(w, v.Range)
		w.str(v.Symbol.String())
	case narrative.VariableReference:
		w.u8(tagVariableReference)
		encodeRange(w, v.Range)
		w.str(v.Variable.String())
	case narrative.TopTerm:
		w.u8(tagTopTerm)
		encodeRange(w, v.Range)
		encodeTerm(w, v.Term)
	case narrative.UseModule:
		w.u8(tagUseModule)
		w.str(v.Module.String())
	case narrative.ImportModule:
		w.u8(tagImportModule)
		w.str(v.Module.String())
	case narrative.Paragraph:
		w.u8(tagParagraph)
		w.str(v.URI.String())
		w.u8(uint8(v.Kind))
		encodeRange(w, v.Range)
		encodeDocElements(w, v.Elements)
	case narrative.Problem:
		w.u8(tagProblem)
		w.str(v.URI.String())
		encodeRange(w, v.Range)
		w.bool(v.Sub)
		w.f64(v.Points)
		w.optStr(v.AutogradableID, v.AutogradableID != "")
		encodeDocElements(w, v.Elements)
	case narrative.SkipSection:
		w.u8(tagSkipSection)
		encodeRange(w, v.Range)
	default:
		w.fail(fmt.Errorf("artifact: unknown document element %T", e))
	}
}

const (
	tagOMS uint8 = iota
	tagOMV
	tagOML
	tagOMID
	tagOMA
	tagOMBIND
	tagField
	tagInformal
)

func encodeOptTerm(w *binWriter, t content.Term) {
	w.bool(t != nil)
	if t != nil {
		encodeTerm(w, t)
	}
}

func encodeVarName(w *binWriter, v content.VarName) {
	w.bool(v.URI != nil)
	if v.URI != nil {
		w.str(v.URI.String())
	} else {
		w.str(v.Local)
	}
}

func encodeTerm(w *binWriter, t content.Term) {
	switch v := t.(type) {
	case content.OMS:
		w.u8(tagOMS)
		w.str(v.Symbol.String())
	case content.OMV:
		w.u8(tagOMV)
		encodeVarName(w, v.Name)
	case content.OML:
		w.u8(tagOML)
		w.str(v.Name)
		encodeOptTerm(w, v.Type)
		encodeOptTerm(w, v.Def)
	case content.OMID:
		w.u8(tagOMID)
		w.str(v.Module.String())
	case content.OMA:
		w.u8(tagOMA)
		encodeTerm(w, v.Head)
		w.bool(v.HeadTerm != nil)
		if v.HeadTerm != nil {
			w.str(v.HeadTerm.Symbol.String())
		}
		w.u32(uint32(len(v.Args)))
		for _, a := range v.Args {
			encodeArg(w, a)
		}
	case content.OMBIND:
		w.u8(tagOMBIND)
		encodeTerm(w, v.Head)
		w.u32(uint32(len(v.Vars)))
		for _, bv := range v.Vars {
			encodeVarName(w, bv.Name)
			encodeOptTerm(w, bv.Type)
			encodeOptTerm(w, bv.Def)
		}
		encodeTerm(w, v.Body)
	case content.Field:
		w.u8(tagField)
		encodeTerm(w, v.Record)
		w.str(v.Key.String())
		w.bool(v.Owner != nil)
		if v.Owner != nil {
			w.str(v.Owner.String())
		}
	case content.Informal:
		w.u8(tagInformal)
		w.str(v.Tag)
		encodeAttrs(w, v.Attributes)
		w.u32(uint32(len(v.Children)))
		for _, c := range v.Children {
			encodeInformalChild(w, c)
		}
		w.u32(uint32(len(v.Subterms)))
		for _, s := range v.Subterms {
			encodeTerm(w, s)
		}
	default:
		w.fail(fmt.Errorf("artifact: unknown term %T", t))
	}
}

func encodeArg(w *binWriter, a content.Arg) {
	w.u8(uint8(a.Type))
	switch v := a.Value.(type) {
	case content.OneTerm:
		w.u8(0)
		encodeTerm(w, v.Term)
	case content.ManyTerms:
		w.u8(1)
		w.u32(uint32(len(v.Terms)))
		for _, t := range v.Terms {
			encodeTerm(w, t)
		}
	default:
		w.fail(fmt.Errorf("artifact: unknown term-or-list %T", a.Value))
	}
}

func encodeAttrs(w *binWriter, attrs map[string]string) {
	w.u32(uint32(len(attrs)))
	for k, v := range attrs {
		w.str(k)
		w.str(v)
	}
}

const (
	tagInformalHTML uint8 = iota
	tagInformalTermRef
)

func encodeInformalChild(w *binWriter, c content.InformalChild) {
	switch v := c.(type) {
	case content.InformalHTML:
		w.u8(tagInformalHTML)
		w.str(v.Tag)
		encodeAttrs(w, v.Attributes)
		w.u32(uint32(len(v.Children)))
		for _, ch := range v.Children {
			encodeInformalChild(w, ch)
		}
	case content.InformalTermRef:
		w.u8(tagInformalTermRef)
		w.u32(uint32(v.Index))
	default:
		w.fail(fmt.Errorf("artifact: unknown informal child %T", c))
	}
}

const (
	tagLiteral uint8 = iota
	tagComp
	tagMainComp
	tagArgComponent
	tagArgSep
	tagArgMap
)

func encodeNotationComponents(w *binWriter, cs []content.NotationComponent) {
	w.u32(uint32(len(cs)))
	for _, c := range cs {
		encodeNotationComponent(w, c)
	}
}

func encodeNotationComponent(w *binWriter, c content.NotationComponent) {
	switch v := c.(type) {
	case content.Literal:
		w.u8(tagLiteral)
		w.str(v.Text)
	case content.Comp:
		w.u8(tagComp)
		w.str(v.Text)
	case content.MainComp:
		w.u8(tagMainComp)
		w.str(v.Text)
	case content.ArgComponent:
		w.u8(tagArgComponent)
		w.u32(uint32(v.Index))
		w.u8(uint8(v.Type))
		w.u8(uint8(v.Precedence))
	case content.ArgSep:
		w.u8(tagArgSep)
		w.u32(uint32(v.Index))
		w.u8(uint8(v.Type))
		encodeNotationComponents(w, v.Sep)
	case content.ArgMap:
		w.u8(tagArgMap)
		w.u32(uint32(v.Index))
		encodeNotationComponents(w, v.Segments)
		encodeNotationComponents(w, v.Join)
	default:
		w.fail(fmt.Errorf("artifact: unknown notation component %T", c))
	}
}

func encodeArgPrecedences(w *binWriter, ps []content.ArgPrecedence) {
	w.u32(uint32(len(ps)))
	for _, p := range ps {
		w.u8(uint8(p))
	}
}

func encodeNotation(w *binWriter, n content.Notation) {
	w.str(n.Symbol.String())
	w.u8(uint8(n.Precedence))
	encodeArgPrecedences(w, n.ArgPrecedences)
	w.u32(uint32(n.AttributeOffset))
	encodeNotationComponents(w, n.Components)
}

func encodeVariableNotation(w *binWriter, n content.VariableNotation) {
	w.str(n.Variable.String())
	w.u8(uint8(n.Precedence))
	encodeArgPrecedences(w, n.ArgPrecedences)
	encodeNotationComponents(w, n.Components)
}
