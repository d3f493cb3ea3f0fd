package content

import (
	"fmt"
	"io"

	"github.com/flexiformal/flams-core/internal/uri"
)

// NotationsFor returns the notations declared for a symbol, in lookup order
// (the first applicable one wins).
type NotationsFor func(uri.SymbolURI) []Notation

// VarNotationsFor returns the variable notations available for a bound
// variable's declaration site.
type VarNotationsFor func(uri.DocumentElementURI) []VariableNotation

// Presenter renders Terms to HTML/MathML fragments per §4.2.
type Presenter struct {
	Notations    NotationsFor
	VarNotations VarNotationsFor
}

// Present writes t to w at the given outer (caller-supplied) precedence
// context. A caller presenting a top-level term should pass maxArgPrecedence
// so nothing is ever spuriously parenthesized.
func (p Presenter) Present(w io.Writer, t Term, outer ArgPrecedence) error {
	switch v := t.(type) {
	case OMS:
		return p.presentSymbolLike(w, v.Symbol, nil, outer)
	case OMA:
		if head, ok := v.Head.(OMS); ok {
			return p.presentSymbolLike(w, head.Symbol, v.Args, outer)
		}
		return p.presentGenericApply(w, "OMA", v.Head, v.Args, outer)
	case OMBIND:
		if head, ok := v.Head.(OMS); ok {
			args := bindVarsToArgs(v.Vars, v.Body)
			if ok2 := p.tryApply(w, head.Symbol, args, "OMBIND", outer); ok2 {
				return nil
			}
		}
		return p.presentFallbackBind(w, v)
	case OMV:
		return p.presentVarLike(w, v.Name, nil, outer)
	case OML:
		fmt.Fprintf(w, `<mi shtml:term="OML" shtml:name=%q>%s</mi>`, v.Name, v.Name)
		return nil
	case OMID:
		fmt.Fprintf(w, `<mi shtml:term="OMMOD" shtml:head=%q>%s</mi>`, v.Module.String(), v.Module.Name().Leaf())
		return nil
	case Field:
		return p.presentField(w, v, outer)
	case Informal:
		return p.presentInformal(w, v)
	default:
		return fmt.Errorf("content: unknown term kind %T", t)
	}
}

func bindVarsToArgs(vars []BoundVar, body Term) []Arg {
	args := make([]Arg, 0, len(vars)+1)
	for _, bv := range vars {
		args = append(args, Arg{Value: OneTerm{Term: OMV{Name: bv.Name}}, Type: ArgBinding})
	}
	args = append(args, Arg{Value: OneTerm{Term: body}, Type: ArgNormal})
	return args
}

// presentSymbolLike implements the OMS/OMA-with-symbol-head rule: try every
// notation in declaration order, first applicable one renders; otherwise fall
// back to a bare <mi> carrying shtml:term/shtml:head.
func (p Presenter) presentSymbolLike(w io.Writer, s uri.SymbolURI, args []Arg, outer ArgPrecedence) error {
	if ok := p.tryApply(w, s, args, termKindFor(args), outer); ok {
		return nil
	}
	fmt.Fprintf(w, `<mi shtml:term="OMID" shtml:head=%q>%s</mi>`, s.String(), s.Name().Leaf())
	return nil
}

func termKindFor(args []Arg) string {
	if args == nil {
		return "OMID"
	}
	return "OMA"
}

func (p Presenter) tryApply(w io.Writer, s uri.SymbolURI, args []Arg, termKind string, outer ArgPrecedence) bool {
	if p.Notations == nil {
		return false
	}
	for _, n := range p.Notations(s) {
		if args == nil {
			// apply_op: a zero-argument match, i.e. the notation itself has no
			// argument components.
			if hasArgComponent(n.Components) {
				continue
			}
		} else if declaredArity(n.Components) != len(args) {
			continue
		}
		wrap := n.Precedence > outer
		if wrap {
			io.WriteString(w, "<mrow>(")
		}
		fmt.Fprintf(w, `<mrow shtml:term=%q shtml:head=%q>`, termKind, s.String())
		for _, c := range n.Components {
			p.renderComponent(w, c, args, n)
		}
		io.WriteString(w, "</mrow>")
		if wrap {
			io.WriteString(w, ")</mrow>")
		}
		return true
	}
	return false
}

func hasArgComponent(components []NotationComponent) bool {
	for _, c := range components {
		switch c.(type) {
		case ArgComponent, ArgSep, ArgMap:
			return true
		}
	}
	return false
}

func declaredArity(components []NotationComponent) int {
	max := 0
	for _, c := range components {
		switch v := c.(type) {
		case ArgComponent:
			if v.Index > max {
				max = v.Index
			}
		case ArgSep:
			if v.Index > max {
				max = v.Index
			}
		case ArgMap:
			if v.Index > max {
				max = v.Index
			}
		}
	}
	return max
}

func (p Presenter) renderComponent(w io.Writer, c NotationComponent, args []Arg, n Notation) {
	switch v := c.(type) {
	case Literal:
		io.WriteString(w, v.Text)
	case Comp:
		fmt.Fprintf(w, `<mo>%s</mo>`, v.Text)
	case MainComp:
		fmt.Fprintf(w, `<mo shtml:maincomp="true">%s</mo>`, v.Text)
	case ArgComponent:
		p.renderArg(w, args, v.Index, argPrecedenceAt(n, v.Index))
	case ArgSep:
		p.renderArgSep(w, args, v)
	case ArgMap:
		p.renderArgMap(w, args, v)
	}
}

func argPrecedenceAt(n Notation, index int) ArgPrecedence {
	if index-1 >= 0 && index-1 < len(n.ArgPrecedences) {
		return n.ArgPrecedences[index-1]
	}
	return maxArgPrecedence
}

func (p Presenter) renderArg(w io.Writer, args []Arg, index int, prec ArgPrecedence) {
	if index-1 < 0 || index-1 >= len(args) {
		return
	}
	switch v := args[index-1].Value.(type) {
	case OneTerm:
		p.Present(w, v.Term, prec)
	case ManyTerms:
		for i, t := range v.Terms {
			if i > 0 {
				io.WriteString(w, "<mo>,</mo>")
			}
			p.Present(w, t, prec)
		}
	}
}

func (p Presenter) renderArgSep(w io.Writer, args []Arg, sep ArgSep) {
	if sep.Index-1 < 0 || sep.Index-1 >= len(args) {
		return
	}
	list, ok := args[sep.Index-1].Value.(ManyTerms)
	if !ok {
		return
	}
	for i, t := range list.Terms {
		if i > 0 {
			if len(sep.Sep) == 0 {
				io.WriteString(w, "<mo>,</mo>")
			} else {
				for _, s := range sep.Sep {
					// Arg markers nested in a separator stand for the sequence
					// element position, not independent argument lookups.
					if _, isArg := s.(ArgComponent); isArg {
						continue
					}
					p.renderComponent(w, s, args, Notation{})
				}
			}
		}
		p.Present(w, t, maxArgPrecedence)
	}
}

func (p Presenter) renderArgMap(w io.Writer, args []Arg, m ArgMap) {
	if m.Index-1 < 0 || m.Index-1 >= len(args) {
		return
	}
	list, ok := args[m.Index-1].Value.(ManyTerms)
	if !ok {
		return
	}
	for i, t := range list.Terms {
		if i > 0 {
			for _, s := range m.Join {
				p.renderComponent(w, s, args, Notation{})
			}
		}
		for _, s := range m.Segments {
			if _, isArg := s.(ArgComponent); isArg {
				p.Present(w, t, maxArgPrecedence)
				continue
			}
			p.renderComponent(w, s, args, Notation{})
		}
	}
}

func (p Presenter) presentGenericApply(w io.Writer, kind string, head Term, args []Arg, outer ArgPrecedence) error {
	fmt.Fprintf(w, `<mrow shtml:term=%q>`, kind)
	if err := p.Present(w, head, maxArgPrecedence); err != nil {
		return err
	}
	io.WriteString(w, "<mo>(</mo>")
	for i, a := range args {
		if i > 0 {
			io.WriteString(w, "<mo>,</mo>")
		}
		switch v := a.Value.(type) {
		case OneTerm:
			if err := p.Present(w, v.Term, maxArgPrecedence); err != nil {
				return err
			}
		case ManyTerms:
			for j, t := range v.Terms {
				if j > 0 {
					io.WriteString(w, "<mo>,</mo>")
				}
				if err := p.Present(w, t, maxArgPrecedence); err != nil {
					return err
				}
			}
		}
	}
	io.WriteString(w, "<mo>)</mo></mrow>")
	return nil
}

func (p Presenter) presentFallbackBind(w io.Writer, b OMBIND) error {
	io.WriteString(w, `<mrow shtml:term="OMBIND">`)
	if err := p.Present(w, b.Head, maxArgPrecedence); err != nil {
		return err
	}
	for _, v := range b.Vars {
		fmt.Fprintf(w, `<mi shtml:term="OMV">%s</mi>`, v.Name.String())
	}
	io.WriteString(w, "<mo>.</mo>")
	if err := p.Present(w, b.Body, maxArgPrecedence); err != nil {
		return err
	}
	io.WriteString(w, "</mrow>")
	return nil
}

// presentVarLike mirrors presentSymbolLike for OMV, using VarNotations
// instead of Notations.
func (p Presenter) presentVarLike(w io.Writer, v VarName, args []Arg, outer ArgPrecedence) error {
	if v.URI != nil && p.VarNotations != nil {
		for _, n := range p.VarNotations(*v.URI) {
			if args != nil && declaredArity(n.Components) != len(args) {
				continue
			}
			fmt.Fprintf(w, `<mrow shtml:term="OMV" shtml:head=%q>`, v.URI.String())
			for _, c := range n.Components {
				p.renderComponent(w, c, args, Notation{Precedence: n.Precedence, ArgPrecedences: n.ArgPrecedences})
			}
			io.WriteString(w, "</mrow>")
			return nil
		}
	}
	fmt.Fprintf(w, `<mi shtml:term="OMV">%s</mi>`, v.String())
	return nil
}

// presentField renders the symbol's own notation, subscripted by the owning
// record term (§4.2).
func (p Presenter) presentField(w io.Writer, f Field, outer ArgPrecedence) error {
	io.WriteString(w, `<msub><mrow>`)
	if err := p.presentSymbolLike(w, f.Key, nil, maxArgPrecedence); err != nil {
		return err
	}
	io.WriteString(w, `</mrow><mrow>`)
	if err := p.Present(w, f.Record, maxArgPrecedence); err != nil {
		return err
	}
	io.WriteString(w, `</mrow></msub>`)
	return nil
}

// presentInformal echoes the original markup verbatim with a distinguishing
// style, resolving InformalChild::Term(i) references into Subterms (§4.2).
func (p Presenter) presentInformal(w io.Writer, in Informal) error {
	fmt.Fprintf(w, `<span shtml:term="informal" style="background:repeating-linear-gradient(45deg,#0001,#0001 4px,transparent 4px,transparent 8px)">`)
	for _, c := range in.Children {
		if err := p.presentInformalChild(w, c, in.Subterms); err != nil {
			return err
		}
	}
	io.WriteString(w, `</span>`)
	return nil
}

func (p Presenter) presentInformalChild(w io.Writer, c InformalChild, subterms []Term) error {
	switch v := c.(type) {
	case InformalHTML:
		fmt.Fprintf(w, "<%s", v.Tag)
		for k, val := range v.Attributes {
			fmt.Fprintf(w, " %s=%q", k, val)
		}
		io.WriteString(w, ">")
		for _, ch := range v.Children {
			if err := p.presentInformalChild(w, ch, subterms); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "</%s>", v.Tag)
		return nil
	case InformalTermRef:
		if v.Index < 0 || v.Index >= len(subterms) {
			return fmt.Errorf("content: informal subterm index %d out of range", v.Index)
		}
		return p.Present(w, subterms[v.Index], maxArgPrecedence)
	default:
		return fmt.Errorf("content: unknown informal child %T", c)
	}
}
