// Package shtml implements the C3 extractor: a single streaming pass over an
// HTML byte stream that recognizes the closed `shtml:`/`ftml:` attribute
// vocabulary and produces an Unchecked Document, its Unchecked Modules, a CSS
// list, and a rewritten HTML body. It does not emit RDF triples itself:
// Result.Triples is left empty, and internal/triples derives quads from the
// extracted Document and Modules (QuadsForDocument, QuadsForModule).
//
// One Extractor is used per document and never shared across goroutines, the
// same single-goroutine-per-request discipline the teacher's internal/server
// applies to a connection.
package shtml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/flexiformal/flams-core/internal/artifact"
	"github.com/flexiformal/flams-core/internal/content"
	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

// Triple is the element type of Result.Triples: three IRI-or-literal strings,
// implicitly graphed under the document's own URI. Extract leaves that list
// empty, and internal/triples does not read it.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// ImageResolver decides how an <img src> is rewritten (§4.3 image rewriting).
// It is injected because only the caller (C6's archive tree) knows which
// archives' source trees and LaTeX search paths exist.
type ImageResolver interface {
	// ArchiveRelative returns (archive, relpath, true) if src names a file
	// inside some known archive's source tree.
	ArchiveRelative(src string) (archive, relpath string, ok bool)
	// KpseBasename returns true if basename(src) is found on the LaTeX
	// search path.
	KpseBasename(basename string) bool
}

// Result is everything Extract produces from one HTML document.
type Result struct {
	Body     string
	Document narrative.Document[content.Unchecked]
	Modules  []content.Module[content.Unchecked]
	CSS      []artifact.CSS
	Triples  []Triple
	Log      *flerrors.ExtractionLog
}

// Options configures one Extract call.
type Options struct {
	DocumentURI uri.DocumentURI
	Images      ImageResolver
	Logger      *zap.Logger
}

// Extract runs the full extractor over r. A Fatal-severity error (malformed
// byte stream) is returned directly and nothing is persisted; Structured and
// Diagnostic errors are recorded on Result.Log instead, per §4.3's three-level
// failure model. The caller must check Log.HasStructured before persisting
// the artifact.
func Extract(r io.Reader, opts Options) (Result, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	e := newExtractor(opts)
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && err != io.EOF {
				return Result{}, fmt.Errorf("shtml: tokenizer error: %w", err)
			}
			break
		}
		e.handleToken(z, tt)
	}
	return e.finish()
}

type extractor struct {
	opts        Options
	out         strings.Builder
	log         *flerrors.ExtractionLog
	stack       []*frame
	css         []artifact.CSS
	mods        []content.Module[content.Unchecked]
	rootChildren []narrative.DocumentElement
	counter     sectionCounter
	triples     []Triple
	inHead      bool
	title       string
	lang        uri.Language
	autoID      int
}

// next returns a freshly generated NameStep for elements with no explicit id
// (auto-numbered sections, paragraphs, problems).
func (e *extractor) next(prefix string) uri.NameStep {
	e.autoID++
	return uri.NameStep(fmt.Sprintf("%s%d", prefix, e.autoID))
}

func (e *extractor) elemURI(prefix string) uri.DocumentElementURI {
	n, _ := uri.NewName(e.next(prefix))
	return uri.NewDocumentElementURI(e.opts.DocumentURI, n)
}

// attach routes a just-closed frame's narrative element to whatever is above
// it: the parent frame's children if one is open, the document root otherwise.
func (e *extractor) attach(el narrative.DocumentElement) {
	if len(e.stack) == 0 {
		e.rootChildren = append(e.rootChildren, el)
		return
	}
	parent := e.top()
	parent.children = append(parent.children, el)
}

// nearestModuleFrame finds the innermost currently-open module or structure
// frame, for content elements declared inside it (symbols, imports, nested
// modules/structures, extensions, morphisms).
func (e *extractor) nearestModuleFrame() *frame {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if e.stack[i].kind == frameModule || e.stack[i].kind == frameStructure {
			return e.stack[i]
		}
	}
	return nil
}

func newExtractor(opts Options) *extractor {
	return &extractor{
		opts: opts,
		log:  &flerrors.ExtractionLog{},
		lang: uri.LanguageEn,
	}
}

func (e *extractor) diag(kind flerrors.ExtractionErrorKind, attr string, err error) {
	ee := flerrors.NewExtractionError(kind, flerrors.SeverityDiagnostic, attr, e.out.Len(), err)
	e.log.Record(ee)
	e.opts.Logger.Debug("shtml diagnostic", zap.String("kind", string(kind)), zap.String("attribute", attr), zap.Int("offset", ee.Offset))
}

func (e *extractor) structured(kind flerrors.ExtractionErrorKind, attr string, err error) {
	ee := flerrors.NewExtractionError(kind, flerrors.SeverityStructured, attr, e.out.Len(), err)
	e.log.Record(ee)
	e.opts.Logger.Warn("shtml structured error", zap.String("kind", string(kind)), zap.String("attribute", attr), zap.Int("offset", ee.Offset), zap.Error(err))
}

func (e *extractor) top() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

func (e *extractor) write(b []byte) {
	e.out.Write(b)
	for _, f := range e.stack {
		f.end += len(b)
	}
}

func (e *extractor) rangeFor(f *frame) narrative.DocumentRange {
	return narrative.DocumentRange{Start: f.start, End: e.out.Len()}
}

// truncateTo drops everything written since f was opened, used for dropped
// subtrees (shtml:visible=false, shtml:inputref, shtml:sectionlevel). Any
// still-open ancestor whose end offset reached past the dropped bytes is
// clamped back down, since those bytes no longer exist in the output.
func (e *extractor) truncateTo(f *frame) {
	kept := e.out.String()[:f.start]
	e.out.Reset()
	e.out.WriteString(kept)
	newLen := e.out.Len()
	for _, anc := range e.stack {
		if anc.end > newLen {
			anc.end = newLen
		}
	}
}

func (e *extractor) handleToken(z *html.Tokenizer, tt html.TokenType) {
	raw := append([]byte(nil), z.Raw()...)
	switch tt {
	case html.StartTagToken, html.SelfClosingTagToken:
		e.handleStart(z, raw, tt == html.SelfClosingTagToken)
	case html.EndTagToken:
		e.handleEnd(z, raw)
	case html.TextToken:
		e.handleText(raw)
	case html.CommentToken, html.DoctypeToken:
		e.write(raw)
	}
}

func (e *extractor) handleText(raw []byte) {
	if f := e.top(); f != nil && (f.kind == frameDoctitle || f.kind == frameSectiontitle) {
		f.titleText = append(f.titleText, raw...)
	}
	if f := e.top(); f != nil && f.kind == frameNotation {
		f.notationLit = append(f.notationLit, raw...)
	}
	if e.inHead {
		return
	}
	e.write(raw)
}

func (e *extractor) finish() (Result, error) {
	doc := narrative.Document[content.Unchecked]{
		URI:      e.opts.DocumentURI,
		Title:    e.title,
		Language: e.lang,
		Elements: e.rootChildren,
	}
	if len(e.stack) > 0 {
		e.structured(flerrors.ExtractionUnbalancedShtml, "", fmt.Errorf("%d element(s) never closed", len(e.stack)))
	}
	return Result{
		Body:     e.out.String(),
		Document: doc,
		Modules:  e.mods,
		CSS:      e.css,
		Triples:  e.triples,
		Log:      e.log,
	}, nil
}

func parseIntAttr(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func parseFloatAttr(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
