// Package narrative implements the narrative-document half of C2: Document,
// DocumentElement, and the byte-range bookkeeping the extractor (C3) attaches
// to every structurally significant element.
package narrative

// DocumentRange is a byte-offset interval into the rendered HTML body
// (§3.2). Sibling ranges never overlap; a parent's range contains the union
// of its children's ranges.
type DocumentRange struct {
	Start int
	End   int
}

func (r DocumentRange) Len() int { return r.End - r.Start }

// Contains reports whether o lies entirely within r.
func (r DocumentRange) Contains(o DocumentRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}
