package narrative

import (
	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/uri"
)

// Document is a narrative document: a DocumentURI, optional title, language,
// and an ordered element sequence (§3.2). As with content.Module, S is a
// type-level marker only — element references are always plain URIs, and
// Checked merely witnesses that every one of them resolved during checking.
type Document[S content.CheckingState] struct {
	URI      uri.DocumentURI
	Title    string // optional, "" if absent
	Language uri.Language
	Elements []DocumentElement
}

func (d Document[S]) TitleOrEmpty() string    { return d.Title }
func (d Document[S]) Lang() uri.Language      { return d.Language }
func (d Document[S]) Children() []DocumentElement { return d.Elements }

// Find resolves a name path to the element whose DocumentElementURI carries
// exactly that Name, depth-first, in document order. Elements with no
// DocumentElementURI are skipped but still searched through (their children
// remain reachable).
func (d Document[S]) Find(steps []uri.NameStep) (DocumentElement, bool) {
	target, err := uri.NewName(steps...)
	if err != nil {
		return nil, false
	}
	return findIn(d.Elements, target)
}

func findIn(elements []DocumentElement, target uri.Name) (DocumentElement, bool) {
	for _, e := range elements {
		if u, ok := e.(ElementURIer); ok && u.ElementURI().Name().Equal(target) {
			return e, true
		}
		if p, ok := e.(Parenter); ok {
			if found, ok := findIn(p.Children(), target); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Iter performs a depth-first traversal over every DocumentElement.
func (d Document[S]) Iter(visit func(DocumentElement)) {
	iterIn(d.Elements, visit)
}

func iterIn(elements []DocumentElement, visit func(DocumentElement)) {
	for _, e := range elements {
		visit(e)
		if p, ok := e.(Parenter); ok {
			iterIn(p.Children(), visit)
		}
	}
}
