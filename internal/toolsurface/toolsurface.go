// Package toolsurface exposes §6's HTTP content contract
// (content/document, content/fragment, content/toc, content/omdoc,
// content/los, content/notations) as MCP tools, so an agent can resolve and
// browse FLAMS content the same way an HTTP client would, without a second
// REST layer to maintain alongside it. It is a thin adapter: every tool
// resolves its `uri` argument and forwards to C5's Store and C7's Index,
// which already hold the answers.
package toolsurface

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/flexiformal/flams-core/internal/backendcache"
	"github.com/flexiformal/flams-core/internal/cache"
	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/triples"
	"github.com/flexiformal/flams-core/internal/uri"
)

// Server wraps an *mcp.Server exposing the content contract as tools.
type Server struct {
	mcp   *mcp.Server
	store *backendcache.Store
	index *triples.Index
	log   *zap.Logger

	toc *cache.TTLCache[string, []tocEntry]
}

// NewServer constructs a Server over an already-populated Store (C5) and
// Index (C7). logger may be nil. content_toc responses are cached briefly
// (cache.DefaultTTL) since assembling one walks a document's whole element
// tree; InvalidateTOC drops a cached entry the moment its source document
// changes instead of waiting out the TTL.
func NewServer(store *backendcache.Store, index *triples.Index, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp:   mcp.NewServer(&mcp.Implementation{Name: "flams-content", Version: "0.1.0"}, nil),
		store: store,
		index: index,
		log:   logger,
		toc:   cache.New[string, []tocEntry](cache.Config{}),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying *mcp.Server, e.g. to attach a stdio/SSE
// transport.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// InvalidateTOC drops any cached content_toc result for docURI.
func (s *Server) InvalidateTOC(docURI string) { s.toc.Invalidate(docURI) }

// Close releases the server's background resources (the TOC cache's
// cleanup goroutine, if any was started).
func (s *Server) Close() { s.toc.Close() }

type uriParams struct {
	URI string `json:"uri"`
}

type losParams struct {
	URI       string `json:"uri"`
	Exercises bool   `json:"exercises,omitempty"`
}

func uriSchema(extra map[string]*jsonschema.Schema) *jsonschema.Schema {
	props := map[string]*jsonschema.Schema{
		"uri": {Type: "string", Description: "a canonical FLAMS URI"},
	}
	for k, v := range extra {
		props[k] = v
	}
	return &jsonschema.Schema{Type: "object", Properties: props, Required: []string{"uri"}}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "content_document",
		Description: "Resolve a document URI to its (DocumentURI, CSS[], HTML) per §6's content/document.",
		InputSchema: uriSchema(nil),
	}, s.handleDocument)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content_fragment",
		Description: "Resolve a document or document-element URI to a (CSS[], HTML) fragment: the whole body of the document; for an element URI, the whole body of its owning document (the element's byte range is not sliced out).",
		InputSchema: uriSchema(nil),
	}, s.handleFragment)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content_toc",
		Description: "Resolve a document URI to its nested table of contents (section/paragraph/slide entries).",
		InputSchema: uriSchema(nil),
	}, s.handleTOC)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content_omdoc",
		Description: "Resolve any URI to a typed summary of the module/symbol/document it names.",
		InputSchema: uriSchema(nil),
	}, s.handleOMDoc)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content_los",
		Description: "List the learning objects (notations and definitions) declared for a symbol URI; exercise-kind learning objects are not listed.",
		InputSchema: uriSchema(map[string]*jsonschema.Schema{
			"exercises": {Type: "boolean", Description: "accepted but has no effect on the result"},
		}),
	}, s.handleLOs)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content_notations",
		Description: "List the notations declared for a symbol URI.",
		InputSchema: uriSchema(nil),
	}, s.handleNotations)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, nil
}

func errResult(err error) (*mcp.CallToolResult, error) {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}, IsError: true}, nil
}

func parseUIParams(raw json.RawMessage) (uriParams, error) {
	var p uriParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, flerrors.NewLookupError(flerrors.LookupTypeMismatch, string(raw))
	}
	if p.URI == "" {
		return p, flerrors.NewLookupError(flerrors.LookupNotFound, "")
	}
	return p, nil
}

func (s *Server) handleDocument(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseUIParams(req.Params.Arguments)
	if err != nil {
		return errResult(err)
	}
	docURI, err := uri.ParseDocumentURI(p.URI)
	if err != nil {
		return errResult(err)
	}
	h, err := s.store.GetDocument(docURI)
	if err != nil {
		return errResult(err)
	}
	defer h.Release()
	return jsonResult(map[string]any{
		"uri":  docURI.String(),
		"css":  h.Value().CSS,
		"html": h.Value().Body,
	})
}

// handleFragment resolves the body for a document, or the whole body for
// any other URI that shares the document (no sub-range extraction is
// attempted beyond what the loaded document offers as its plain body; a
// finer byte-range lookup belongs to the artifact reader's LazyDocRef API
// once a caller has an element's offsets in hand).
func (s *Server) handleFragment(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseUIParams(req.Params.Arguments)
	if err != nil {
		return errResult(err)
	}
	parsed, err := uri.Parse(p.URI)
	if err != nil {
		return errResult(err)
	}
	var docURI uri.DocumentURI
	switch v := parsed.(type) {
	case uri.DocumentURI:
		docURI = v
	case uri.DocumentElementURI:
		docURI = v.Document()
	default:
		return errResult(flerrors.NewLookupError(flerrors.LookupTypeMismatch, p.URI).WithTypes("DocumentURI|DocumentElementURI", fmt.Sprintf("%T", parsed)))
	}
	h, err := s.store.GetDocument(docURI)
	if err != nil {
		return errResult(err)
	}
	defer h.Release()
	return jsonResult(map[string]any{"css": h.Value().CSS, "html": h.Value().Body})
}

func (s *Server) handleTOC(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseUIParams(req.Params.Arguments)
	if err != nil {
		return errResult(err)
	}
	docURI, err := uri.ParseDocumentURI(p.URI)
	if err != nil {
		return errResult(err)
	}
	h, err := s.store.GetDocument(docURI)
	if err != nil {
		return errResult(err)
	}
	defer h.Release()
	toc, ok := s.toc.Get(p.URI)
	if !ok {
		toc = buildTOC(h.Value().Document.Elements)
		s.toc.Put(p.URI, toc)
	}
	return jsonResult(map[string]any{"css": h.Value().CSS, "toc": toc})
}

func (s *Server) handleOMDoc(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseUIParams(req.Params.Arguments)
	if err != nil {
		return errResult(err)
	}
	parsed, err := uri.Parse(p.URI)
	if err != nil {
		return errResult(err)
	}
	switch v := parsed.(type) {
	case uri.ModuleURI:
		h, err := s.store.GetModule(v)
		if err != nil {
			return errResult(err)
		}
		defer h.Release()
		return jsonResult(map[string]any{"kind": "module", "uri": v.String()})
	case uri.SymbolURI:
		return jsonResult(map[string]any{
			"kind":        "symbol",
			"uri":         v.String(),
			"notations":   stringifyURIs(s.index.NotationsFor(v)),
			"definitions": stringifyURIs(s.index.DefinitionsFor(v)),
		})
	case uri.DocumentURI:
		h, err := s.store.GetDocument(v)
		if err != nil {
			return errResult(err)
		}
		defer h.Release()
		return jsonResult(map[string]any{"kind": "document", "uri": v.String(), "toc": buildTOC(h.Value().Document.Elements)})
	default:
		return jsonResult(map[string]any{"kind": "uri", "uri": parsed.String()})
	}
}

func (s *Server) handleLOs(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p losParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errResult(flerrors.NewLookupError(flerrors.LookupTypeMismatch, string(req.Params.Arguments)))
	}
	sym, err := uri.ParseSymbolURI(p.URI)
	if err != nil {
		return errResult(err)
	}
	type lo struct {
		Element string `json:"element"`
		Kind    string `json:"kind"`
	}
	var out []lo
	for _, e := range s.index.NotationsFor(sym) {
		out = append(out, lo{Element: e.String(), Kind: "notation"})
	}
	for _, e := range s.index.DefinitionsFor(sym) {
		out = append(out, lo{Element: e.String(), Kind: "definition"})
	}
	return jsonResult(map[string]any{"uri": sym.String(), "learning_objects": out})
}

func (s *Server) handleNotations(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := parseUIParams(req.Params.Arguments)
	if err != nil {
		return errResult(err)
	}
	sym, err := uri.ParseSymbolURI(p.URI)
	if err != nil {
		return errResult(err)
	}
	return jsonResult(map[string]any{"uri": sym.String(), "notations": stringifyURIs(s.index.NotationsFor(sym))})
}

func stringifyURIs(elems []uri.DocumentElementURI) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.String()
	}
	return out
}
