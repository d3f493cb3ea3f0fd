package uri

import (
	"strings"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
)

// Parse is total and error-returning (§4.1): a single left-to-right pass over the
// query string, each recognized component consuming its fixed key prefix in the
// order a=, p=, (m=, l=, s=) | (d=, l=, e=). Unknown keys fail UnrecognizedPart;
// more components than the recognized shape allows fail TooManyPartsFor; an
// unparseable l= fails InvalidLanguage.
func Parse(s string) (URI, error) {
	qi := strings.IndexByte(s, '?')
	if qi < 0 {
		base, err := ParseBaseURI(s)
		if err != nil {
			return nil, err
		}
		return base, nil
	}
	baseStr, query := s[:qi], s[qi+1:]
	base, err := ParseBaseURI(baseStr)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return base, nil
	}

	var (
		archiveRaw, pathRaw, mRaw, lRaw, sRaw, dRaw, eRaw string
		haveArchive, havePath, haveM, haveL, haveS, haveD, haveE bool
		branch byte // 0 = undetermined, 'm' = content, 'd' = narrative
	)

	for _, tok := range strings.Split(query, "&") {
		key, val, ok := cutOnce(tok, '=')
		if !ok {
			return nil, flerrors.NewURIError(flerrors.URIUnrecognizedPart, s).WithComponent(tok)
		}
		val = unescapeComponent(val)
		switch key {
		case "a":
			if haveArchive {
				return nil, tooMany(s, "ArchiveURI")
			}
			archiveRaw, haveArchive = val, true
		case "p":
			if !haveArchive || havePath || haveM || haveD {
				return nil, tooMany(s, "PathURI")
			}
			pathRaw, havePath = val, true
		case "m":
			if !haveArchive || haveM || haveD {
				return nil, tooMany(s, "ModuleURI")
			}
			mRaw, haveM, branch = val, true, 'm'
		case "d":
			if !haveArchive || haveD || haveM {
				return nil, tooMany(s, "DocumentURI")
			}
			dRaw, haveD, branch = val, true, 'd'
		case "l":
			if haveL || (!haveM && !haveD) {
				return nil, tooMany(s, "ModuleURI/DocumentURI")
			}
			lRaw, haveL = val, true
		case "s":
			if branch != 'm' || !haveL || haveS {
				return nil, tooMany(s, "SymbolURI")
			}
			sRaw, haveS = val, true
		case "e":
			if branch != 'd' || !haveL || haveE {
				return nil, tooMany(s, "DocumentElementURI")
			}
			eRaw, haveE = val, true
		default:
			return nil, flerrors.NewURIError(flerrors.URIUnrecognizedPart, s).WithComponent(key)
		}
	}

	if !haveArchive {
		return nil, flerrors.NewURIError(flerrors.URIUnrecognizedPart, s).WithComponent("a")
	}
	archiveID, err := ParseName(archiveRaw)
	if err != nil {
		return nil, err
	}
	archive := NewArchiveURI(base, ArchiveID{archiveID})

	var pathPtr *Name
	if havePath {
		p, err := ParseName(pathRaw)
		if err != nil {
			return nil, err
		}
		pathPtr = &p
	}
	path := NewPathURI(archive, pathPtr)

	switch {
	case haveM:
		if !haveL {
			return nil, flerrors.NewURIError(flerrors.URIInvalidLanguage, s).WithComponent("")
		}
		name, err := ParseName(mRaw)
		if err != nil {
			return nil, err
		}
		lang, ok := ParseLanguage(lRaw)
		if !ok {
			return nil, flerrors.NewURIError(flerrors.URIInvalidLanguage, s).WithComponent(lRaw)
		}
		mod := NewModuleURI(path, name, lang)
		if haveS {
			sname, err := ParseName(sRaw)
			if err != nil {
				return nil, err
			}
			return NewSymbolURI(mod, sname), nil
		}
		return mod, nil
	case haveD:
		if !haveL {
			return nil, flerrors.NewURIError(flerrors.URIInvalidLanguage, s).WithComponent("")
		}
		name, err := ParseName(dRaw)
		if err != nil {
			return nil, err
		}
		lang, ok := ParseLanguage(lRaw)
		if !ok {
			return nil, flerrors.NewURIError(flerrors.URIInvalidLanguage, s).WithComponent(lRaw)
		}
		doc := NewDocumentURI(path, name, lang)
		if haveE {
			ename, err := ParseName(eRaw)
			if err != nil {
				return nil, err
			}
			return NewDocumentElementURI(doc, ename), nil
		}
		return doc, nil
	case havePath:
		return path, nil
	default:
		return archive, nil
	}
}

func tooMany(input, kind string) error {
	return flerrors.NewURIError(flerrors.URITooManyParts, input).WithURIKind(kind)
}

func cutOnce(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// ParseArchiveURI parses s and requires the result to be exactly an ArchiveURI.
func ParseArchiveURI(s string) (ArchiveURI, error) {
	u, err := Parse(s)
	if err != nil {
		return ArchiveURI{}, err
	}
	v, ok := u.(ArchiveURI)
	if !ok {
		return ArchiveURI{}, tooMany(s, "ArchiveURI")
	}
	return v, nil
}

// ParseModuleURI parses s and requires the result to be exactly a ModuleURI.
func ParseModuleURI(s string) (ModuleURI, error) {
	u, err := Parse(s)
	if err != nil {
		return ModuleURI{}, err
	}
	v, ok := u.(ModuleURI)
	if !ok {
		return ModuleURI{}, tooMany(s, "ModuleURI")
	}
	return v, nil
}

// ParseSymbolURI parses s and requires the result to be exactly a SymbolURI.
func ParseSymbolURI(s string) (SymbolURI, error) {
	u, err := Parse(s)
	if err != nil {
		return SymbolURI{}, err
	}
	v, ok := u.(SymbolURI)
	if !ok {
		return SymbolURI{}, tooMany(s, "SymbolURI")
	}
	return v, nil
}

// ParseDocumentURI parses s and requires the result to be exactly a DocumentURI.
func ParseDocumentURI(s string) (DocumentURI, error) {
	u, err := Parse(s)
	if err != nil {
		return DocumentURI{}, err
	}
	v, ok := u.(DocumentURI)
	if !ok {
		return DocumentURI{}, tooMany(s, "DocumentURI")
	}
	return v, nil
}

// ParseDocumentElementURI parses s and requires the result to be exactly a
// DocumentElementURI.
func ParseDocumentElementURI(s string) (DocumentElementURI, error) {
	u, err := Parse(s)
	if err != nil {
		return DocumentElementURI{}, err
	}
	v, ok := u.(DocumentElementURI)
	if !ok {
		return DocumentElementURI{}, tooMany(s, "DocumentElementURI")
	}
	return v, nil
}
