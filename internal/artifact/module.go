package artifact

import (
	"bufio"
	"fmt"
	"io"

	"github.com/flexiformal/flams-core/internal/content"
	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/uri"
)

// CheckedModule is the persisted form's module type (the `.comd` files C5
// reads per §4.5), always checked for the same reason Document is.
type CheckedModule = content.Module[content.Checked]

// WriteModule encodes a checked module to w. Unlike the Document format
// there is no resource blob or CSS/HTML region to offset against, so a
// module file is just the tagged encoding with no separate header.
func WriteModule(w io.Writer, m CheckedModule) error {
	bw := newBinWriter(w)
	encodeModule(bw, m)
	if _, err := bw.flush(); err != nil || bw.err != nil {
		if bw.err != nil {
			err = bw.err
		}
		return flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}
	return nil
}

// ReadModule decodes a checked module previously written by WriteModule.
func ReadModule(r io.Reader) (CheckedModule, error) {
	buf, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return CheckedModule{}, flerrors.NewPersistenceError(flerrors.PersistenceIO, "", err)
	}
	m, err := decodeModule(newBinReader(buf))
	if err != nil {
		return CheckedModule{}, flerrors.NewPersistenceError(flerrors.PersistenceDecode, "", err)
	}
	return m, nil
}

func encodeModule(w *binWriter, m CheckedModule) {
	w.str(m.URI.String())
	w.bool(m.MetaTheory != nil)
	if m.MetaTheory != nil {
		w.str(m.MetaTheory.String())
	}
	w.bool(m.Signature != nil)
	if m.Signature != nil {
		w.str(m.Signature.String())
	}
	w.u32(uint32(len(m.Elements)))
	for _, e := range m.Elements {
		encodeContentElement(w, e)
	}
}

func decodeModule(r *binReader) (CheckedModule, error) {
	var m CheckedModule
	s, err := r.str()
	if err != nil {
		return m, err
	}
	u, err := uri.ParseModuleURI(s)
	if err != nil {
		return m, err
	}
	hasMeta, err := r.boolean()
	if err != nil {
		return m, err
	}
	var meta *uri.ModuleURI
	if hasMeta {
		s, err := r.str()
		if err != nil {
			return m, err
		}
		mm, err := uri.ParseModuleURI(s)
		if err != nil {
			return m, err
		}
		meta = &mm
	}
	hasSig, err := r.boolean()
	if err != nil {
		return m, err
	}
	var sig *uri.ModuleURI
	if hasSig {
		s, err := r.str()
		if err != nil {
			return m, err
		}
		ss, err := uri.ParseModuleURI(s)
		if err != nil {
			return m, err
		}
		sig = &ss
	}
	n, err := r.u32()
	if err != nil {
		return m, err
	}
	elements := make([]content.ContentElement, 0, n)
	for i := uint32(0); i < n; i++ {
		e, err := decodeContentElement(r)
		if err != nil {
			return m, err
		}
		elements = append(elements, e)
	}
	m.URI = u
	m.MetaTheory = meta
	m.Signature = sig
	m.Elements = elements
	return m, nil
}

const (
	tagSymbol uint8 = iota
	tagNestedModule
	tagMathStructure
	tagExtension
	tagMorphism
	tagNotation
	tagImport
)

func encodeArgSpec(w *binWriter, a content.ArgSpec) {
	w.u32(uint32(a.Arity))
	w.u32(uint32(len(a.Positionality)))
	for _, p := range a.Positionality {
		w.u8(uint8(p))
	}
}

func decodeArgSpec(r *binReader) (content.ArgSpec, error) {
	arity, err := r.u32()
	if err != nil {
		return content.ArgSpec{}, err
	}
	n, err := r.u32()
	if err != nil {
		return content.ArgSpec{}, err
	}
	pos := make([]content.ArgType, 0, n)
	for i := uint32(0); i < n; i++ {
		p, err := r.u8()
		if err != nil {
			return content.ArgSpec{}, err
		}
		pos = append(pos, content.ArgType(p))
	}
	return content.ArgSpec{Arity: int(arity), Positionality: pos}, nil
}

func encodeContentElement(w *binWriter, e content.ContentElement) {
	switch v := e.(type) {
	case content.Symbol:
		w.u8(tagSymbol)
		w.str(string(v.Name))
		encodeArgSpec(w, v.Args)
		w.optStr(v.Macro, v.Macro != "")
		encodeOptTerm(w, v.Type)
		encodeOptTerm(w, v.Definiens)
		w.u8(uint8(v.Assoc))
		w.u32(uint32(len(v.Reorder)))
		for _, r := range v.Reorder {
			w.u32(uint32(r))
		}
	case content.NestedModule[content.Checked]:
		w.u8(tagNestedModule)
		encodeModule(w, v.Body)
	case content.MathStructure[content.Checked]:
		w.u8(tagMathStructure)
		w.str(string(v.Name))
		w.u32(uint32(len(v.Elements)))
		for _, c := range v.Elements {
			encodeContentElement(w, c)
		}
	case content.Extension:
		w.u8(tagExtension)
		w.str(string(v.Name))
		w.str(v.Target.String())
	case content.Morphism:
		w.u8(tagMorphism)
		w.str(string(v.Name))
		w.str(v.Domain.String())
		w.str(v.Target.String())
		w.u32(uint32(len(v.Assignments)))
		for _, a := range v.Assignments {
			w.str(a.Symbol.String())
			encodeTerm(w, a.Value)
		}
	case content.Notation:
		w.u8(tagNotation)
		encodeNotation(w, v)
	case content.Import:
		w.u8(tagImport)
		w.str(v.Module.String())
		w.bool(v.Realizing)
	default:
		w.fail(fmt.Errorf("artifact: unknown content element %T", e))
	}
}

func decodeContentElement(r *binReader) (content.ContentElement, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagSymbol:
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		args, err := decodeArgSpec(r)
		if err != nil {
			return nil, err
		}
		macro, _, err := r.optStr()
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
		assoc, err := r.u8()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		reorder := make(content.ArgReorder, 0, n)
		for i := uint32(0); i < n; i++ {
			v, err := r.u32()
			if err != nil {
				return nil, err
			}
			reorder = append(reorder, int(v))
		}
		return content.Symbol{
			Name: uri.NameStep(name), Args: args, Macro: macro, Type: typ, Definiens: def,
			Assoc: content.AssociationStyle(assoc), Reorder: reorder,
		}, nil
	case tagNestedModule:
		body, err := decodeModule(r)
		if err != nil {
			return nil, err
		}
		return content.NestedModule[content.Checked]{Body: body}, nil
	case tagMathStructure:
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		elements := make([]content.ContentElement, 0, n)
		for i := uint32(0); i < n; i++ {
			e, err := decodeContentElement(r)
			if err != nil {
				return nil, err
			}
			elements = append(elements, e)
		}
		return content.MathStructure[content.Checked]{Name: uri.NameStep(name), Elements: elements}, nil
	case tagExtension:
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		tStr, err := r.str()
		if err != nil {
			return nil, err
		}
		target, err := uri.ParseModuleURI(tStr)
		if err != nil {
			return nil, err
		}
		return content.Extension{Name: uri.NameStep(name), Target: target}, nil
	case tagMorphism:
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
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		assignments := make([]content.MorphismAssignment, 0, n)
		for i := uint32(0); i < n; i++ {
			sym, err := decodeSymbolURIStr(r)
			if err != nil {
				return nil, err
			}
			val, err := decodeTerm(r)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, content.MorphismAssignment{Symbol: sym, Value: val})
		}
		return content.Morphism{Name: uri.NameStep(name), Domain: dom, Target: tgt, Assignments: assignments}, nil
	case tagNotation:
		n, err := decodeNotation(r)
		if err != nil {
			return nil, err
		}
		return n, nil
	case tagImport:
		s, err := r.str()
		if err != nil {
			return nil, err
		}
		m, err := uri.ParseModuleURI(s)
		if err != nil {
			return nil, err
		}
		realizing, err := r.boolean()
		if err != nil {
			return nil, err
		}
		return content.Import{Module: m, Realizing: realizing}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown content element tag %d", tag)
	}
}
