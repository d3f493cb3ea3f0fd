// Package triples implements the triple store facade (C7): an in-memory RDF
// quad index keyed per (archive, relative path), a minimal pattern-matching
// query surface, and the fixed ULO vocabulary (ulo2.go) spec.md §6 names.
//
// No external RDF store is wired here — SPEC_FULL.md's Domain Stack section
// evaluated google/mangle (a Datalog engine, not an RDF quad store) and
// rejected it for this role; nothing else in the example pack offers a quad
// store, so the index below is the hand-rolled exception the rest of this
// module avoids being. It still reuses the pack's idioms where they fit: the
// registry shape (mutex-guarded map, lock never held across caller-supplied
// work) mirrors internal/backendcache's Cache[K,V], and logging follows
// internal/logging's injected *zap.Logger convention.
package triples

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/flexiformal/flams-core/internal/uri"
)

// NamedNode is an absolute IRI. Both predicates and (for the subjects we
// ever submit) classes/instances are NamedNodes; spec.md's documents only
// ever assert object-property and rdf:type quads about URI-identified
// things, never blank nodes.
type NamedNode string

func (NamedNode) isTerm() {}

// String renders the IRI form.
func (n NamedNode) String() string { return string(n) }

// Literal is a plain RDF literal (no language tag or datatype beyond the
// vocabulary's own xsd: annotations, which are static and never submitted by
// documents).
type Literal struct {
	Value string
}

func (Literal) isTerm() {}

func (l Literal) String() string { return l.Value }

// Term is the RDF object position: a NamedNode or a Literal.
type Term interface {
	isTerm()
	String() string
}

// Quad is one (subject, predicate, object) triple plus its implicit graph —
// the graph is always the submitting document's key, so it is not carried on
// the Quad value itself (see key, below).
type Quad struct {
	Subject   NamedNode
	Predicate NamedNode
	Object    Term
}

// key identifies the (archive, relpath) graph a batch of quads was submitted
// under (§4.7: "atomically replaces the set of quads for the given (archive,
// relpath) key").
type key struct {
	archive string
	relpath string
}

func keyFor(archive uri.ArchiveURI, relpath string) key {
	return key{archive: archive.String(), relpath: relpath}
}

// Index is the C7 facade. The zero value is not usable; construct with
// NewIndex.
type Index struct {
	mu   sync.RWMutex
	docs map[key][]Quad
	log  *zap.Logger
}

// NewIndex constructs an empty Index, pre-loaded with the static ULO
// vocabulary axioms under a reserved vocabulary key so Query can answer
// schema questions (subclass/subproperty/domain/range) the same way it
// answers document-derived ones.
func NewIndex(logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx := &Index{docs: make(map[key][]Quad), log: logger}
	idx.docs[key{archive: "", relpath: "ulo2"}] = classAxioms
	return idx
}

// Submit atomically replaces the quad set for (archive, relpath) with quads.
// A nil or empty quads clears the key's entry (equivalent to a document with
// no remaining RDF content, e.g. after a re-extraction that dropped every
// Notation/Symbol element).
func (idx *Index) Submit(document uri.DocumentURI, archive uri.ArchiveURI, relpath string, quads []Quad) {
	k := keyFor(archive, relpath)
	cp := make([]Quad, len(quads))
	copy(cp, quads)
	idx.mu.Lock()
	if len(cp) == 0 {
		delete(idx.docs, k)
	} else {
		idx.docs[k] = cp
	}
	idx.mu.Unlock()
	idx.log.Debug("triples submitted",
		zap.String("document", document.String()),
		zap.String("archive", archive.String()),
		zap.String("relpath", relpath),
		zap.Int("quads", len(cp)))
}

// Pattern is a triple pattern over the whole index; a nil field matches
// anything. Object comparison is by String() so a Pattern can match either a
// NamedNode or a Literal object without the caller needing to know which.
type Pattern struct {
	Subject   *NamedNode
	Predicate *NamedNode
	Object    Term
}

func (p Pattern) matches(q Quad) bool {
	if p.Subject != nil && *p.Subject != q.Subject {
		return false
	}
	if p.Predicate != nil && *p.Predicate != q.Predicate {
		return false
	}
	if p.Object != nil && p.Object.String() != q.Object.String() {
		return false
	}
	return true
}

// Query returns every quad across every submitted graph matching pattern, in
// no particular order (callers needing determinism sort the result).
// `query` in spec.md §4.7 names a SPARQL surface; this facade exposes the
// same two shapes spec.md's own grounding queries need (triple-pattern match
// and a subject-preserving join, see Join) rather than a general SPARQL
// parser, since no example repo in the pack carries a SPARQL engine to
// ground one on (see DESIGN.md).
func (idx *Index) Query(pattern Pattern) []Quad {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []Quad
	for _, quads := range idx.docs {
		for _, q := range quads {
			if pattern.matches(q) {
				out = append(out, q)
			}
		}
	}
	return out
}

// Join returns the subjects satisfying both patterns (a two-triple
// conjunctive query joined on subject), e.g. §4.7's notation lookup:
//
//	Join(Pattern{Predicate: &rdfType, Object: ClassNotation},
//	     Pattern{Predicate: &PropNotationFor, Object: sym})
func (idx *Index) Join(a, b Pattern) []NamedNode {
	left := idx.Query(a)
	right := idx.Query(b)
	rightSubjects := make(map[NamedNode]struct{}, len(right))
	for _, q := range right {
		rightSubjects[q.Subject] = struct{}{}
	}
	seen := make(map[NamedNode]struct{})
	var out []NamedNode
	for _, q := range left {
		if _, ok := rightSubjects[q.Subject]; !ok {
			continue
		}
		if _, dup := seen[q.Subject]; dup {
			continue
		}
		seen[q.Subject] = struct{}{}
		out = append(out, q.Subject)
	}
	return out
}

var rdfTypePredicate = rdfType

// NotationsFor implements §4.7's grounding example: "notations for a symbol
// are retrieved by a two-triple query (?x rdf:type ulo:NOTATION . ?x
// ulo:NOTATION_FOR <sym>)".
func (idx *Index) NotationsFor(sym uri.SymbolURI) []uri.DocumentElementURI {
	symNode := NamedNode(sym.String())
	notationClass := ClassNotation
	notationFor := PropNotationFor
	subjects := idx.Join(
		Pattern{Predicate: &rdfTypePredicate, Object: notationClass},
		Pattern{Predicate: &notationFor, Object: symNode},
	)
	return DocElemIter(subjects)
}

// DefinitionsFor implements §4.7's other grounding example: "definitions by
// (?x ulo:DEFINES <sym>)".
func (idx *Index) DefinitionsFor(sym uri.SymbolURI) []uri.DocumentElementURI {
	symNode := NamedNode(sym.String())
	defines := PropDefines
	matches := idx.Query(Pattern{Predicate: &defines, Object: symNode})
	subjects := make([]NamedNode, 0, len(matches))
	for _, q := range matches {
		subjects = append(subjects, q.Subject)
	}
	return DocElemIter(subjects)
}

// SymbolIter materializes every subject that parses as a SymbolURI, skipping
// (not erroring on) any that does not — §4.7: "skipping rows whose URI does
// not parse".
func SymbolIter(subjects []NamedNode) []uri.SymbolURI {
	var out []uri.SymbolURI
	for _, s := range subjects {
		if !strings.Contains(string(s), "?a=") {
			continue // not one of ours (e.g. a vocabulary IRI); not a parse failure worth logging
		}
		u, err := uri.ParseSymbolURI(string(s))
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}

// DocElemIter is SymbolIter's counterpart for DocumentElementURI subjects.
func DocElemIter(subjects []NamedNode) []uri.DocumentElementURI {
	var out []uri.DocumentElementURI
	for _, s := range subjects {
		if !strings.Contains(string(s), "?a=") {
			continue
		}
		u, err := uri.ParseDocumentElementURI(string(s))
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}
