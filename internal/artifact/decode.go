package artifact

import (
	"fmt"

	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

func decodeDocument(r *binReader) (Document, error) {
	var doc Document
	s, err := r.str()
	if err != nil {
		return doc, err
	}
	docURI, err := uri.ParseDocumentURI(s)
	if err != nil {
		return doc, err
	}
	title, _, err := r.optStr()
	if err != nil {
		return doc, err
	}
	langByte, err := r.u8()
	if err != nil {
		return doc, err
	}
	n, err := r.u32()
	if err != nil {
		return doc, err
	}
	elements, err := decodeDocElements(r, n)
	if err != nil {
		return doc, err
	}
	doc.URI = docURI
	doc.Title = title
	doc.Language = uri.Language(langByte)
	doc.Elements = elements
	return doc, nil
}

func decodeRange(r *binReader) (narrative.DocumentRange, error) {
	start, err := r.u32()
	if err != nil {
		return narrative.DocumentRange{}, err
	}
	end, err := r.u32()
	if err != nil {
		return narrative.DocumentRange{}, err
	}
	return narrative.DocumentRange{Start: int(start), End: int(end)}, nil
}

func decodeDocElements(r *binReader, n uint32) ([]narrative.DocumentElement, error) {
	out := make([]narrative.DocumentElement, 0, n)
	for i := uint32(0); i < n; i++ {
		e, err := decodeDocElement(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeDocElementsCounted(r *binReader) ([]narrative.DocumentElement, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	return decodeDocElements(r, n)
}

func decodeDocElement(r *binReader) (narrative.DocumentElement, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagSetSectionLevel:
		lvl, err := r.u32()
		if err != nil {
			return nil, err
		}
		return narrative.SetSectionLevel{Level: int(lvl)}, nil
	case tagSection:
		uStr, err := r.str()
		if err != nil {
			return nil, err
		}
		u, err := uri.ParseDocumentElementURI(uStr)
		if err != nil {
			return nil, err
		}
		lvl, err := r.u32()
		if err != nil {
			return nil, err
		}
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		titleRng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		titleHTML, err := r.str()
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.Section{URI: u, Level: int(lvl), Range: rng, TitleRange: titleRng, TitleHTML: titleHTML, Elements: children}, nil
	case tagSlide:
		uStr, err := r.str()
		if err != nil {
			return nil, err
		}
		u, err := uri.ParseDocumentElementURI(uStr)
		if err != nil {
			return nil, err
		}
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.Slide{URI: u, Range: rng, Elements: children}, nil
	case tagModuleElement:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		mStr, err := r.str()
		if err != nil {
			return nil, err
		}
		m, err := uri.ParseModuleURI(mStr)
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.ModuleElement{Range: rng, Module: m, Elements: children}, nil
	case tagMathStructureElement:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.MathStructureElement{Range: rng, Name: uri.NameStep(name), Elements: children}, nil
	case tagMorphismElement:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		domStr, err := r.str()
		if err != nil {
			return nil, err
		}
		dom, err := uri.ParseModuleURI(domStr)
		if err != nil {
			return nil, err
		}
		tgtStr, err := r.str()
		if err != nil {
			return nil, err
		}
		tgt, err := uri.ParseModuleURI(tgtStr)
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.MorphismElement{Range: rng, Name: uri.NameStep(name), Domain: dom, Target: tgt, Elements: children}, nil
	case tagExtensionElement:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		tgtStr, err := r.str()
		if err != nil {
			return nil, err
		}
		tgt, err := uri.ParseModuleURI(tgtStr)
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.ExtensionElement{Range: rng, Name: uri.NameStep(name), Target: tgt, Elements: children}, nil
	case tagDocumentReference:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		tgtStr, err := r.str()
		if err != nil {
			return nil, err
		}
		tgt, err := uri.ParseDocumentURI(tgtStr)
		if err != nil {
			return nil, err
		}
		gid, err := r.str()
		if err != nil {
			return nil, err
		}
		return narrative.DocumentReference{Range: rng, Target: tgt, GeneratedID: gid}, nil
	case tagSymbolDeclaration:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		sym, err := decodeSymbolURIStr(r)
		if err != nil {
			return nil, err
		}
		return narrative.SymbolDeclaration{Range: rng, Symbol: sym}, nil
	case tagNotationElement:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		sym, err := decodeSymbolURIStr(r)
		if err != nil {
			return nil, err
		}
		n, err := decodeNotation(r)
		if err != nil {
			return nil, err
		}
		return narrative.NotationElement{Range: rng, Symbol: sym, Notation: n}, nil
	case tagVariableNotationElement:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		vStr, err := r.str()
		if err != nil {
			return nil, err
		}
		v, err := uri.ParseDocumentElementURI(vStr)
		if err != nil {
			return nil, err
		}
		n, err := decodeVariableNotation(r)
		if err != nil {
			return nil, err
		}
		return narrative.VariableNotationElement{Range: rng, Variable: v, Notation: n}, nil
	case tagVariable:
		uStr, err := r.str()
		if err != nil {
			return nil, err
		}
		u, err := uri.ParseDocumentElementURI(uStr)
		if err != nil {
			return nil, err
		}
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		typ, err := decodeOptTerm(r)
		if err != nil {
			return nil, err
		}
		def, err := decodeOptTerm(r)
		if err != nil {
			return nil, err
		}
		return narrative.Variable{URI: u, Range: rng, Type: typ, Def: def}, nil
	case tagDefiniendum:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		sym, err := decodeSymbolURIStr(r)
		if err != nil {
			return nil, err
		}
		return narrative.Definiendum{Range: rng, Symbol: sym}, nil
	case tagSymbolReference:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		sym, err := decodeSymbolURIStr(r)
		if err != nil {
			return nil, err
		}
		return narrative.SymbolReference{Range: rng, Symbol: sym}, nil
	case tagVariableReference:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		vStr, err := r.str()
		if err != nil {
			return nil, err
		}
		v, err := uri.ParseDocumentElementURI(vStr)
		if err != nil {
			return nil, err
		}
		return narrative.VariableReference{Range: rng, Variable: v}, nil
	case tagTopTerm:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		t, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		return narrative.TopTerm{Range: rng, Term: t}, nil
	case tagUseModule:
		mStr, err := r.str()
		if err != nil {
			return nil, err
		}
		m, err := uri.ParseModuleURI(mStr)
		if err != nil {
			return nil, err
		}
		return narrative.UseModule{Module: m}, nil
	case tagImportModule:
		mStr, err := r.str()
		if err != nil {
			return nil, err
		}
		m, err := uri.ParseModuleURI(mStr)
		if err != nil {
			return nil, err
		}
		return narrative.ImportModule{Module: m}, nil
	case tagParagraph:
		uStr, err := r.str()
		if err != nil {
			return nil, err
		}
		u, err := uri.ParseDocumentElementURI(uStr)
		if err != nil {
			return nil, err
		}
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.Paragraph{URI: u, Kind: narrative.ParagraphKind(kind), Range: rng, Elements: children}, nil
	case tagProblem:
		uStr, err := r.str()
		if err != nil {
			return nil, err
		}
		u, err := uri.ParseDocumentElementURI(uStr)
		if err != nil {
			return nil, err
		}
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		sub, err := r.boolean()
		if err != nil {
			return nil, err
		}
		points, err := r.f64()
		if err != nil {
			return nil, err
		}
		autogradable, _, err := r.optStr()
		if err != nil {
			return nil, err
		}
		children, err := decodeDocElementsCounted(r)
		if err != nil {
			return nil, err
		}
		return narrative.Problem{URI: u, Range: rng, Sub: sub, Points: points, AutogradableID: autogradable, Elements: children}, nil
	case tagSkipSection:
		rng, err := decodeRange(r)
		if err != nil {
			return nil, err
		}
		return narrative.SkipSection{Range: rng}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown document element tag %d", tag)
	}
}

func decodeSymbolURIStr(r *binReader) (uri.SymbolURI, error) {
	s, err := r.str()
	if err != nil {
		return uri.SymbolURI{}, err
	}
	return uri.ParseSymbolURI(s)
}

func decodeOptTerm(r *binReader) (content.Term, error) {
	present, err := r.boolean()
	if err != nil || !present {
		return nil, err
	}
	return decodeTerm(r)
}

func decodeVarName(r *binReader) (content.VarName, error) {
	hasURI, err := r.boolean()
	if err != nil {
		return content.VarName{}, err
	}
	if hasURI {
		s, err := r.str()
		if err != nil {
			return content.VarName{}, err
		}
		u, err := uri.ParseDocumentElementURI(s)
		if err != nil {
			return content.VarName{}, err
		}
		return content.URIVar(u), nil
	}
	s, err := r.str()
	if err != nil {
		return content.VarName{}, err
	}
	return content.LocalVar(s), nil
}

func decodeTerm(r *binReader) (content.Term, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagOMS:
		sym, err := decodeSymbolURIStr(r)
		if err != nil {
			return nil, err
		}
		return content.OMS{Symbol: sym}, nil
	case tagOMV:
		name, err := decodeVarName(r)
		if err != nil {
			return nil, err
		}
		return content.OMV{Name: name}, nil
	case tagOML:
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		typ, err := decodeOptTerm(r)
		if err != nil {
			return nil, err
		}
		def, err := decodeOptTerm(r)
		if err != nil {
			return nil, err
		}
		return content.OML{Name: name, Type: typ, Def: def}, nil
	case tagOMID:
		s, err := r.str()
		if err != nil {
			return nil, err
		}
		m, err := uri.ParseModuleURI(s)
		if err != nil {
			return nil, err
		}
		return content.OMID{Module: m}, nil
	case tagOMA:
		head, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		hasHeadTerm, err := r.boolean()
		if err != nil {
			return nil, err
		}
		var headTerm *content.OMS
		if hasHeadTerm {
			sym, err := decodeSymbolURIStr(r)
			if err != nil {
				return nil, err
			}
			headTerm = &content.OMS{Symbol: sym}
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		args := make([]content.Arg, 0, n)
		for i := uint32(0); i < n; i++ {
			a, err := decodeArg(r)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		return content.OMA{Head: head, HeadTerm: headTerm, Args: args}, nil
	case tagOMBIND:
		head, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		vars := make([]content.BoundVar, 0, n)
		for i := uint32(0); i < n; i++ {
			name, err := decodeVarName(r)
			if err != nil {
				return nil, err
			}
			typ, err := decodeOptTerm(r)
			if err != nil {
				return nil, err
			}
			def, err := decodeOptTerm(r)
			if err != nil {
				return nil, err
			}
			vars = append(vars, content.BoundVar{Name: name, Type: typ, Def: def})
		}
		body, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		return content.OMBIND{Head: head, Vars: vars, Body: body}, nil
	case tagField:
		record, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		key, err := decodeSymbolURIStr(r)
		if err != nil {
			return nil, err
		}
		hasOwner, err := r.boolean()
		if err != nil {
			return nil, err
		}
		var owner *uri.ModuleURI
		if hasOwner {
			s, err := r.str()
			if err != nil {
				return nil, err
			}
			m, err := uri.ParseModuleURI(s)
			if err != nil {
				return nil, err
			}
			owner = &m
		}
		return content.Field{Record: record, Key: key, Owner: owner}, nil
	case tagInformal:
		t, err := r.str()
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttrs(r)
		if err != nil {
			return nil, err
		}
		nc, err := r.u32()
		if err != nil {
			return nil, err
		}
		children := make([]content.InformalChild, 0, nc)
		for i := uint32(0); i < nc; i++ {
			c, err := decodeInformalChild(r)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		ns, err := r.u32()
		if err != nil {
			return nil, err
		}
		subterms := make([]content.Term, 0, ns)
		for i := uint32(0); i < ns; i++ {
			st, err := decodeTerm(r)
			if err != nil {
				return nil, err
			}
			subterms = append(subterms, st)
		}
		return content.Informal{Tag: t, Attributes: attrs, Children: children, Subterms: subterms}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown term tag %d", tag)
	}
}

func decodeArg(r *binReader) (content.Arg, error) {
	typ, err := r.u8()
	if err != nil {
		return content.Arg{}, err
	}
	kind, err := r.u8()
	if err != nil {
		return content.Arg{}, err
	}
	if kind == 0 {
		t, err := decodeTerm(r)
		if err != nil {
			return content.Arg{}, err
		}
		return content.Arg{Value: content.OneTerm{Term: t}, Type: content.ArgType(typ)}, nil
	}
	n, err := r.u32()
	if err != nil {
		return content.Arg{}, err
	}
	terms := make([]content.Term, 0, n)
	for i := uint32(0); i < n; i++ {
		t, err := decodeTerm(r)
		if err != nil {
			return content.Arg{}, err
		}
		terms = append(terms, t)
	}
	return content.Arg{Value: content.ManyTerms{Terms: terms}, Type: content.ArgType(typ)}, nil
}

func decodeAttrs(r *binReader) (map[string]string, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	m := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		k, err := r.str()
		if err != nil {
			return nil, err
		}
		v, err := r.str()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func decodeInformalChild(r *binReader) (content.InformalChild, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagInformalHTML:
		t, err := r.str()
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttrs(r)
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		children := make([]content.InformalChild, 0, n)
		for i := uint32(0); i < n; i++ {
			c, err := decodeInformalChild(r)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		return content.InformalHTML{Tag: t, Attributes: attrs, Children: children}, nil
	case tagInformalTermRef:
		idx, err := r.u32()
		if err != nil {
			return nil, err
		}
		return content.InformalTermRef{Index: int(idx)}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown informal child tag %d", tag)
	}
}

func decodeNotationComponents(r *binReader) ([]content.NotationComponent, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]content.NotationComponent, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := decodeNotationComponent(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeNotationComponent(r *binReader) (content.NotationComponent, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagLiteral:
		s, err := r.str()
		return content.Literal{Text: s}, err
	case tagComp:
		s, err := r.str()
		return content.Comp{Text: s}, err
	case tagMainComp:
		s, err := r.str()
		return content.MainComp{Text: s}, err
	case tagArgComponent:
		idx, err := r.u32()
		if err != nil {
			return nil, err
		}
		typ, err := r.u8()
		if err != nil {
			return nil, err
		}
		prec, err := r.u8()
		if err != nil {
			return nil, err
		}
		return content.ArgComponent{Index: int(idx), Type: content.ArgType(typ), Precedence: content.ArgPrecedence(prec)}, nil
	case tagArgSep:
		idx, err := r.u32()
		if err != nil {
			return nil, err
		}
		typ, err := r.u8()
		if err != nil {
			return nil, err
		}
		sep, err := decodeNotationComponents(r)
		if err != nil {
			return nil, err
		}
		return content.ArgSep{Index: int(idx), Type: content.ArgType(typ), Sep: sep}, nil
	case tagArgMap:
		idx, err := r.u32()
		if err != nil {
			return nil, err
		}
		segments, err := decodeNotationComponents(r)
		if err != nil {
			return nil, err
		}
		join, err := decodeNotationComponents(r)
		if err != nil {
			return nil, err
		}
		return content.ArgMap{Index: int(idx), Segments: segments, Join: join}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown notation component tag %d", tag)
	}
}

func decodeArgPrecedences(r *binReader) ([]content.ArgPrecedence, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]content.ArgPrecedence, 0, n)
	for i := uint32(0); i < n; i++ {
		p, err := r.u8()
		if err != nil {
			return nil, err
		}
		out = append(out, content.ArgPrecedence(p))
	}
	return out, nil
}

func decodeNotation(r *binReader) (content.Notation, error) {
	var n content.Notation
	s, err := r.str()
	if err != nil {
		return n, err
	}
	sym, err := uri.ParseSymbolURI(s)
	if err != nil {
		return n, err
	}
	prec, err := r.u8()
	if err != nil {
		return n, err
	}
	argPrecs, err := decodeArgPrecedences(r)
	if err != nil {
		return n, err
	}
	offset, err := r.u32()
	if err != nil {
		return n, err
	}
	comps, err := decodeNotationComponents(r)
	if err != nil {
		return n, err
	}
	n.Symbol = sym
	n.Precedence = content.ArgPrecedence(prec)
	n.ArgPrecedences = argPrecs
	n.AttributeOffset = int(offset)
	n.Components = comps
	return n, nil
}

func decodeVariableNotation(r *binReader) (content.VariableNotation, error) {
	var n content.VariableNotation
	s, err := r.str()
	if err != nil {
		return n, err
	}
	v, err := uri.ParseDocumentElementURI(s)
	if err != nil {
		return n, err
	}
	prec, err := r.u8()
	if err != nil {
		return n, err
	}
	argPrecs, err := decodeArgPrecedences(r)
	if err != nil {
		return n, err
	}
	comps, err := decodeNotationComponents(r)
	if err != nil {
		return n, err
	}
	n.Variable = v
	n.Precedence = content.ArgPrecedence(prec)
	n.ArgPrecedences = argPrecs
	n.Components = comps
	return n, nil
}
