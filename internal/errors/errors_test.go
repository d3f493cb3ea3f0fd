package errors

import (
	"errors"
	"testing"
)

func TestURIErrorMessages(t *testing.T) {
	err := NewURIError(URITooManyParts, "https://mathhub.info?a=x&p=y&m=z&s=s&d=d").
		WithURIKind("SymbolURI")
	if got, want := err.Error(), `too many parts for SymbolURI in "https://mathhub.info?a=x&p=y&m=z&s=s&d=d"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	lang := NewURIError(URIInvalidLanguage, "...&l=xx").WithComponent("xx")
	if lang.Kind != URIInvalidLanguage {
		t.Errorf("Kind = %v, want URIInvalidLanguage", lang.Kind)
	}
}

func TestExtractionLogStructuredBlocksPersistence(t *testing.T) {
	var log ExtractionLog
	log.Record(NewExtractionError(ExtractionMissingRequired, SeverityDiagnostic, "shtml:theory", 12, nil))
	if log.HasStructured {
		t.Fatalf("diagnostic-only log should not set HasStructured")
	}
	log.Record(NewExtractionError(ExtractionUnbalancedShtml, SeverityStructured, "shtml:section", 40, errors.New("no matching open")))
	if !log.HasStructured {
		t.Fatalf("structured error must set HasStructured")
	}
	if len(log.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(log.Errors))
	}
}

func TestLookupErrorTypeMismatch(t *testing.T) {
	err := NewLookupError(LookupTypeMismatch, "https://mathhub.info?a=x&m=y").WithTypes("Module", "Symbol")
	want := `lookup type mismatch for https://mathhub.info?a=x&m=y: wanted Module, got Symbol`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAppendAccumulates(t *testing.T) {
	var acc error
	acc = Append(acc, errors.New("first"))
	acc = Append(acc, errors.New("second"))
	acc = Append(acc, nil)
	if acc == nil {
		t.Fatal("expected accumulated error")
	}
	if got := acc.Error(); got == "first" {
		t.Errorf("expected multi-error aggregation, got single error %q", got)
	}
}
