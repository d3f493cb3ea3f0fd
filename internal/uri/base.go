package uri

import (
	"strings"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
)

// BaseURI is an absolute URL with no query or fragment (§3.1).
type BaseURI struct {
	raw string // scheme://host/path, never containing '?' or '#'
}

// ParseBaseURI validates s has no query/fragment component.
func ParseBaseURI(s string) (BaseURI, error) {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return BaseURI{}, flerrors.NewURIError(flerrors.URIInvalidName, s)
	}
	if s == "" {
		return BaseURI{}, flerrors.NewURIError(flerrors.URIInvalidName, s)
	}
	return BaseURI{raw: s}, nil
}

func (b BaseURI) String() string { return b.raw }

func (b BaseURI) Base() BaseURI { return b }

func (b BaseURI) Equal(o BaseURI) bool { return b.raw == o.raw }

func (b BaseURI) isURI() {}
