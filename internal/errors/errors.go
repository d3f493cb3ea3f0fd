// Package errors defines the closed error kinds named in the core specification
// (URI errors, extraction errors, persistence errors, lookup errors, build-state
// errors), each a small struct carrying a Kind and an Unwrap-able underlying cause.
package errors

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// URIErrorKind enumerates the ways a URI can fail to parse.
type URIErrorKind string

const (
	URIUnrecognizedPart URIErrorKind = "unrecognized_part"
	URITooManyParts     URIErrorKind = "too_many_parts_for"
	URIInvalidLanguage  URIErrorKind = "invalid_language"
	URIInvalidName      URIErrorKind = "invalid_name"
)

// URIError is the single structured error every URI parse failure returns.
type URIError struct {
	Kind      URIErrorKind
	Component string // the query key ("a", "p", "m", ...) or "" if not component-specific
	Input     string // the full string that failed to parse
	URIKind   string // which URI shape was being parsed, for TooManyPartsFor
}

func NewURIError(kind URIErrorKind, input string) *URIError {
	return &URIError{Kind: kind, Input: input}
}

func (e *URIError) WithComponent(c string) *URIError {
	e.Component = c
	return e
}

func (e *URIError) WithURIKind(k string) *URIError {
	e.URIKind = k
	return e
}

func (e *URIError) Error() string {
	switch e.Kind {
	case URITooManyParts:
		return fmt.Sprintf("too many parts for %s in %q", e.URIKind, e.Input)
	case URIInvalidLanguage:
		return fmt.Sprintf("invalid language %q in %q", e.Component, e.Input)
	case URIUnrecognizedPart:
		return fmt.Sprintf("unrecognized part %q in %q", e.Component, e.Input)
	default:
		return fmt.Sprintf("invalid name in %q", e.Input)
	}
}

// ExtractionErrorKind enumerates the failure levels/variants of the SHTML extractor (§4.3).
type ExtractionErrorKind string

const (
	ExtractionUnrecognizedAttribute ExtractionErrorKind = "unrecognized_shtml_attribute"
	ExtractionUnbalancedShtml       ExtractionErrorKind = "unbalanced_shtml"
	ExtractionInvalidURI            ExtractionErrorKind = "invalid_uri_in_attribute"
	ExtractionMissingRequired       ExtractionErrorKind = "missing_required_attribute"
)

// Severity is the three-level failure model of §4.3.
type Severity uint8

const (
	SeverityDiagnostic Severity = iota // recorded, processing continues, artifact IS written
	SeverityStructured                 // recorded, processing continues, artifact is NOT written
	SeverityFatal                      // parse aborted, nothing persisted
)

func (s Severity) String() string {
	switch s {
	case SeverityDiagnostic:
		return "diagnostic"
	case SeverityStructured:
		return "structured"
	default:
		return "fatal"
	}
}

// ExtractionError is one entry in a document's accumulated error log.
type ExtractionError struct {
	Kind       ExtractionErrorKind
	Severity   Severity
	Attribute  string
	Offset     int
	Underlying error
	Timestamp  time.Time
}

func NewExtractionError(kind ExtractionErrorKind, sev Severity, attribute string, offset int, err error) *ExtractionError {
	return &ExtractionError{
		Kind:       kind,
		Severity:   sev,
		Attribute:  attribute,
		Offset:     offset,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ExtractionError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s %s at offset %d (attribute %q): %v", e.Severity, e.Kind, e.Offset, e.Attribute, e.Underlying)
	}
	return fmt.Sprintf("%s %s at offset %d (attribute %q)", e.Severity, e.Kind, e.Offset, e.Attribute)
}

func (e *ExtractionError) Unwrap() error { return e.Underlying }

// ExtractionLog accumulates errors produced while extracting one document; Structured
// errors flip HasStructured so the caller knows not to persist the artifact.
type ExtractionLog struct {
	Errors        []*ExtractionError
	HasStructured bool
}

func (l *ExtractionLog) Record(e *ExtractionError) {
	l.Errors = append(l.Errors, e)
	if e.Severity == SeverityStructured {
		l.HasStructured = true
	}
}

// PersistenceErrorKind enumerates C4's failure modes (§7).
type PersistenceErrorKind string

const (
	PersistenceIO                 PersistenceErrorKind = "io"
	PersistenceDecode             PersistenceErrorKind = "decode"
	PersistenceVersionMismatch    PersistenceErrorKind = "version_mismatch"
	PersistenceCorruptOffsetTable PersistenceErrorKind = "corrupt_offset_table"
)

type PersistenceError struct {
	Kind       PersistenceErrorKind
	Path       string
	Underlying error
}

func NewPersistenceError(kind PersistenceErrorKind, path string, err error) *PersistenceError {
	return &PersistenceError{Kind: kind, Path: path, Underlying: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s for %s: %v", e.Kind, e.Path, e.Underlying)
}

func (e *PersistenceError) Unwrap() error { return e.Underlying }

// LookupErrorKind enumerates C5's failure modes (§7).
type LookupErrorKind string

const (
	LookupNotFound     LookupErrorKind = "not_found"
	LookupTypeMismatch LookupErrorKind = "type_mismatch"
)

type LookupError struct {
	Kind LookupErrorKind
	URI  string
	Want string
	Got  string
}

func NewLookupError(kind LookupErrorKind, uri string) *LookupError {
	return &LookupError{Kind: kind, URI: uri}
}

func (e *LookupError) WithTypes(want, got string) *LookupError {
	e.Want, e.Got = want, got
	return e
}

func (e *LookupError) Error() string {
	if e.Kind == LookupTypeMismatch {
		return fmt.Sprintf("lookup type mismatch for %s: wanted %s, got %s", e.URI, e.Want, e.Got)
	}
	return fmt.Sprintf("not found: %s", e.URI)
}

// BuildStateErrorKind enumerates C6's failure modes (§7).
type BuildStateErrorKind string

const (
	BuildStateFormatUnknown    BuildStateErrorKind = "format_unknown"
	BuildStateIgnoreInvalid    BuildStateErrorKind = "ignore_regex_invalid"
)

type BuildStateError struct {
	Kind       BuildStateErrorKind
	Detail     string
	Underlying error
}

func NewBuildStateError(kind BuildStateErrorKind, detail string, err error) *BuildStateError {
	return &BuildStateError{Kind: kind, Detail: detail, Underlying: err}
}

func (e *BuildStateError) Error() string {
	return fmt.Sprintf("build state %s (%s): %v", e.Kind, e.Detail, e.Underlying)
}

func (e *BuildStateError) Unwrap() error { return e.Underlying }

// Append accumulates err into acc using hashicorp/go-multierror, the aggregation
// mechanism spec.md §4.3/§4.6 requires for "processing continues past the offending
// element/file and errors accumulate".
func Append(acc error, err error) error {
	if err == nil {
		return acc
	}
	return multierror.Append(acc, err)
}
