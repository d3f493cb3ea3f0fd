package artifact

import "fmt"

// CSSKind distinguishes a <link rel=stylesheet> reference from an inline
// <style> block (§4.3 CSS handling).
type CSSKind uint8

const (
	CSSLink CSSKind = iota
	CSSInline
)

// CSS is one entry of the document's CSS list, in source order.
type CSS struct {
	Kind  CSSKind
	Value string // href for CSSLink, the inline text for CSSInline
}

func encodeCSSList(w *binWriter, list []CSS) {
	w.u32(uint32(len(list)))
	for _, c := range list {
		w.u8(uint8(c.Kind))
		w.str(c.Value)
	}
}

func decodeCSSList(r *binReader) ([]CSS, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]CSS, 0, n)
	for i := uint32(0); i < n; i++ {
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		if kind != uint8(CSSLink) && kind != uint8(CSSInline) {
			return nil, fmt.Errorf("artifact: unknown css kind %d", kind)
		}
		v, err := r.str()
		if err != nil {
			return nil, err
		}
		out = append(out, CSS{Kind: CSSKind(kind), Value: v})
	}
	return out, nil
}
