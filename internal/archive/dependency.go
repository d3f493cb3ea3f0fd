package archive

import (
	"sync"

	"github.com/flexiformal/flams-core/internal/idcodec"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

// DependencyIndex is the supplemented inventory/dependency listing (from
// original_source's source/ftml/system/src/inventory.rs and
// source/stex/src/dependencies.rs): a DocumentURI → []DocumentURI
// reverse-dependency map, so a change to one document can be propagated to
// whatever else structurally depends on it — the mechanism spec.md's own
// §2 phrase "propagates changes upward" for C6 otherwise leaves
// unspecified. Populated from the ImportModule/UseModule/DocumentReference
// elements C3's extractor emits.
//
// Every DocumentURI it sees is also assigned a stable ordinal, so a single
// edge can be named by a short idcodec token (EdgeToken) instead of
// restating both URIs in full.
type DependencyIndex struct {
	mu sync.RWMutex
	// dependents[target] is the set of documents that depend on target.
	dependents map[string]map[string]uri.DocumentURI
	ordinals   map[string]uint32
	nextOrdinal uint32
}

// NewDependencyIndex constructs an empty index.
func NewDependencyIndex() *DependencyIndex {
	return &DependencyIndex{
		dependents: map[string]map[string]uri.DocumentURI{},
		ordinals:   map[string]uint32{},
	}
}

// ordinalLocked returns doc's ordinal, assigning the next free one the
// first time doc is seen. Callers must hold d.mu.
func (d *DependencyIndex) ordinalLocked(doc string) uint32 {
	if ord, ok := d.ordinals[doc]; ok {
		return ord
	}
	ord := d.nextOrdinal
	d.ordinals[doc] = ord
	d.nextOrdinal++
	return ord
}

// Add records that from depends on target (from references target via an
// import, use, or inputref).
func (d *DependencyIndex) Add(from, target uri.DocumentURI) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := target.String()
	set, ok := d.dependents[key]
	if !ok {
		set = map[string]uri.DocumentURI{}
		d.dependents[key] = set
	}
	set[from.String()] = from
	d.ordinalLocked(key)
	d.ordinalLocked(from.String())
}

// EdgeToken returns a compact idcodec token for the (from -> target) edge,
// built from the ordinals DependencyIndex assigned each URI. The empty
// string is returned if either URI hasn't been seen by Add.
func (d *DependencyIndex) EdgeToken(from, target uri.DocumentURI) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fOrd, ok := d.ordinals[from.String()]
	if !ok {
		return ""
	}
	tOrd, ok := d.ordinals[target.String()]
	if !ok {
		return ""
	}
	return idcodec.EncodeEdge(fOrd, tOrd)
}

// DependentsOf returns every document known to depend on target, in no
// particular order.
func (d *DependencyIndex) DependentsOf(target uri.DocumentURI) []uri.DocumentURI {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.dependents[target.String()]
	if !ok {
		return nil
	}
	out := make([]uri.DocumentURI, 0, len(set))
	for _, u := range set {
		out = append(out, u)
	}
	return out
}

// RecordDependencies walks a document's elements (as C3 produces them) and
// registers a reverse-dependency edge for every ImportModule/UseModule
// (resolved via their owning module's document, since those elements carry
// only a ModuleURI) and every DocumentReference (which names its target
// document directly).
func RecordDependencies(idx *DependencyIndex, from uri.DocumentURI, elements []narrative.DocumentElement, moduleDoc func(uri.ModuleURI) (uri.DocumentURI, bool)) {
	for _, e := range elements {
		switch v := e.(type) {
		case narrative.DocumentReference:
			idx.Add(from, v.Target)
		case narrative.ImportModule:
			if moduleDoc == nil {
				continue
			}
			if target, ok := moduleDoc(v.Module); ok {
				idx.Add(from, target)
			}
		case narrative.UseModule:
			if moduleDoc == nil {
				continue
			}
			if target, ok := moduleDoc(v.Module); ok {
				idx.Add(from, target)
			}
		}
		if p, ok := e.(narrative.Parenter); ok {
			RecordDependencies(idx, from, p.Children(), moduleDoc)
		}
	}
}
