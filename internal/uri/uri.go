// Package uri implements the hierarchical, structurally-typed URI algebra of the
// core specification (C1): BaseURI, ArchiveURI, PathURI, ModuleURI, SymbolURI,
// DocumentURI, DocumentElementURI, their sum type URI, parsing, canonical printing,
// and ancestor projection.
//
// Every concrete URI type here is an immutable value built out of strings and other
// immutable values; Go strings are themselves zero-copy slices into backing arrays,
// so there is no separate "URIRef" type the way the specification's source language
// needs one for lifetime-scoped borrows — a URI value already behaves as its own
// zero-copy view. Ownership: once constructed, nothing in this package ever mutates
// a URI value in place.
package uri

import "github.com/cespare/xxhash/v2"

// URI is the sum of all seven shapes (§3.1). Equality is defined as byte-equality of
// the canonical printed form.
type URI interface {
	String() string
	Base() BaseURI
	isURI()
}

// Equal compares two URIs by their canonical printed form, per spec.md §3.1's
// invariant that URIs are fully canonical.
func Equal(a, b URI) bool {
	return a.String() == b.String()
}

// Hash returns a content hash of the canonical printed form, suitable for map keys
// and the backend cache (C5) and change bus (C8) dispatch tables.
func Hash(u URI) uint64 {
	return xxhash.Sum64String(u.String())
}

// ArchiveOf projects any URI down to its owning ArchiveURI, if it has one.
func ArchiveOf(u URI) (ArchiveURI, bool) {
	switch v := u.(type) {
	case ArchiveURI:
		return v, true
	case PathURI:
		return v.Archive(), true
	case ModuleURI:
		return v.Archive(), true
	case SymbolURI:
		return v.Module().Archive(), true
	case DocumentURI:
		return v.Archive(), true
	case DocumentElementURI:
		return v.Document().Archive(), true
	default:
		return ArchiveURI{}, false
	}
}

// PathOf projects any URI down to its owning PathURI, if it has one.
func PathOf(u URI) (PathURI, bool) {
	switch v := u.(type) {
	case PathURI:
		return v, true
	case ModuleURI:
		return v.PathURI(), true
	case SymbolURI:
		return v.Module().PathURI(), true
	case DocumentURI:
		return v.PathURI(), true
	case DocumentElementURI:
		return v.Document().PathURI(), true
	default:
		return PathURI{}, false
	}
}

// ModuleOf projects any content URI down to its owning ModuleURI, if it has one.
func ModuleOf(u URI) (ModuleURI, bool) {
	switch v := u.(type) {
	case ModuleURI:
		return v, true
	case SymbolURI:
		return v.Module(), true
	default:
		return ModuleURI{}, false
	}
}

// DocumentOf projects any narrative URI down to its owning DocumentURI, if it has one.
func DocumentOf(u URI) (DocumentURI, bool) {
	switch v := u.(type) {
	case DocumentURI:
		return v, true
	case DocumentElementURI:
		return v.Document(), true
	default:
		return DocumentURI{}, false
	}
}
