package uri

// PathURI = ArchiveURI + optional "p=" relative path (§3.1).
type PathURI struct {
	archive ArchiveURI
	path    *Name // nil when absent
}

func NewPathURI(archive ArchiveURI, path *Name) PathURI {
	return PathURI{archive: archive, path: path}
}

func (p PathURI) Base() BaseURI       { return p.archive.Base() }
func (p PathURI) Archive() ArchiveURI { return p.archive }
func (p PathURI) PathURI() PathURI    { return p }

// Path returns the relative path and whether it was present.
func (p PathURI) Path() (Name, bool) {
	if p.path == nil {
		return Name{}, false
	}
	return *p.path, true
}

func (p PathURI) String() string {
	s := p.archive.String()
	if p.path != nil {
		s += "&p=" + escapeComponent(p.path.String())
	}
	return s
}

func (p PathURI) Equal(o PathURI) bool {
	if !p.archive.Equal(o.archive) {
		return false
	}
	pa, pok := p.Path()
	pb, pbok := o.Path()
	if pok != pbok {
		return false
	}
	return !pok || pa.Equal(pb)
}

func (p PathURI) isURI() {}
