package uri

import (
	"strings"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
)

// NameStep is one non-empty segment of a slash-separated Name.
type NameStep string

// Name is a `/`-separated list of NameSteps; the last step is the leaf name.
type Name struct {
	steps []NameStep
}

// NewName validates and constructs a Name from already-split steps.
func NewName(steps ...NameStep) (Name, error) {
	if len(steps) == 0 {
		return Name{}, flerrors.NewURIError(flerrors.URIInvalidName, "")
	}
	for _, s := range steps {
		if s == "" {
			return Name{}, flerrors.NewURIError(flerrors.URIInvalidName, string(s))
		}
	}
	cp := make([]NameStep, len(steps))
	copy(cp, steps)
	return Name{steps: cp}, nil
}

// ParseName splits s on '/' and validates every step is non-empty.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Name{}, flerrors.NewURIError(flerrors.URIInvalidName, s)
	}
	parts := strings.Split(s, "/")
	steps := make([]NameStep, len(parts))
	for i, p := range parts {
		if p == "" {
			return Name{}, flerrors.NewURIError(flerrors.URIInvalidName, s)
		}
		steps[i] = NameStep(p)
	}
	return Name{steps: steps}, nil
}

// Steps returns the underlying slice of steps. Callers must not mutate it.
func (n Name) Steps() []NameStep { return n.steps }

// Leaf returns the last step, the leaf name.
func (n Name) Leaf() NameStep {
	if len(n.steps) == 0 {
		return ""
	}
	return n.steps[len(n.steps)-1]
}

// String renders the canonical slash-joined form.
func (n Name) String() string {
	ss := make([]string, len(n.steps))
	for i, s := range n.steps {
		ss[i] = string(s)
	}
	return strings.Join(ss, "/")
}

// IsZero reports whether n was never assigned (the zero Name is never a valid,
// parsed Name, since NameStep must be non-empty).
func (n Name) IsZero() bool { return len(n.steps) == 0 }

// Equal performs structural, canonical-form comparison.
func (n Name) Equal(o Name) bool {
	if len(n.steps) != len(o.steps) {
		return false
	}
	for i := range n.steps {
		if n.steps[i] != o.steps[i] {
			return false
		}
	}
	return true
}

// ArchiveID is the `/`-separated non-empty sequence of name steps identifying an
// archive; structurally identical to Name but kept as a distinct type so archive
// ids and module/document names are never interchanged by accident.
type ArchiveID struct{ Name }

func NewArchiveID(s string) (ArchiveID, error) {
	n, err := ParseName(s)
	if err != nil {
		return ArchiveID{}, err
	}
	return ArchiveID{n}, nil
}
