package backendcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flexiformal/flams-core/internal/artifact"
	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

func TestCacheMissLoadsAndHitsReuse(t *testing.T) {
	c := NewCache[string, int](DefaultGCThreshold)
	loads := 0
	load := func() (int, error) { loads++; return 42, nil }

	h1, err := c.Get("a", load)
	if err != nil {
		t.Fatal(err)
	}
	if h1.Value() != 42 {
		t.Fatalf("got %d", h1.Value())
	}
	h2, err := c.Get("a", load)
	if err != nil {
		t.Fatal(err)
	}
	if loads != 1 {
		t.Fatalf("expected a single load on repeated Get, got %d", loads)
	}
	h2.Release()
	h1.Release()
}

func TestCacheGCEvictsUnheldEntries(t *testing.T) {
	c := NewCache[int, int](2)
	var kept *Handle[int]
	for i := 0; i < 5; i++ {
		h, err := c.Get(i, func() (int, error) { return i, nil })
		if err != nil {
			t.Fatal(err)
		}
		if i == 4 {
			kept = h // leave this one acquired, so GC must spare it
			continue
		}
		h.Release()
	}
	if c.Len() > 2 {
		t.Fatalf("expected GC to shrink the map toward the threshold, got len=%d", c.Len())
	}
	if _, ok := c.entries[4]; !ok {
		t.Fatal("externally held entry was evicted")
	}
	kept.Release()
}

func mustArchiveURI(t *testing.T, s string) uri.ArchiveURI {
	t.Helper()
	a, err := uri.ParseArchiveURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func mustDocURI(t *testing.T, s string) uri.DocumentURI {
	t.Helper()
	d, err := uri.ParseDocumentURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustModURI(t *testing.T, s string) uri.ModuleURI {
	t.Helper()
	m, err := uri.ParseModuleURI(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// writeFixtureArchive lays out a minimal output directory matching §4.5's
// lookup conventions: `<leaf>[.<lang>]/index.omdoc` for documents,
// `.modules/<leaf>/<lang>.comd` for modules.
func writeFixtureArchive(t *testing.T, root string) {
	t.Helper()
	docDir := filepath.Join(root, "doc.en")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		t.Fatal(err)
	}
	docURI := mustDocURI(t, "https://mathhub.info?a=x&d=doc&l=en")
	doc := narrative.Document[content.Checked]{
		URI:      docURI,
		Title:    "Fixture",
		Language: uri.LanguageEn,
	}
	f, err := os.Create(filepath.Join(docDir, "index.omdoc"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, _, err := artifact.Write(f, doc, nil, nil, []byte("<body></body>")); err != nil {
		t.Fatal(err)
	}

	modDir := filepath.Join(root, ".modules", "Group")
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		t.Fatal(err)
	}
	modURI := mustModURI(t, "https://mathhub.info?a=x&m=Group&l=en")
	mf, err := os.Create(filepath.Join(modDir, "en.comd"))
	if err != nil {
		t.Fatal(err)
	}
	defer mf.Close()
	mod := content.Module[content.Checked]{URI: modURI}
	if err := artifact.WriteModule(mf, mod); err != nil {
		t.Fatal(err)
	}
}

func TestStoreGetDocumentLocatesAndLoads(t *testing.T) {
	root := t.TempDir()
	writeFixtureArchive(t, root)
	archive := mustArchiveURI(t, "https://mathhub.info?a=x")

	s := NewStore(func(a uri.ArchiveURI) (string, error) { return root, nil }, DefaultGCThreshold)
	docURI := mustDocURI(t, "https://mathhub.info?a=x&d=doc&l=en")
	h, err := s.GetDocument(docURI)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()
	if h.Value().Document.Title != "Fixture" {
		t.Fatalf("unexpected document: %+v", h.Value())
	}
	_ = archive
}

func TestStoreGetModuleLoadsTopLevel(t *testing.T) {
	root := t.TempDir()
	writeFixtureArchive(t, root)

	s := NewStore(func(a uri.ArchiveURI) (string, error) { return root, nil }, DefaultGCThreshold)
	modURI := mustModURI(t, "https://mathhub.info?a=x&m=Group&l=en")
	h, err := s.GetModule(modURI)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()
	plain, ok := h.Value().(PlainModule)
	if !ok {
		t.Fatalf("expected PlainModule, got %T", h.Value())
	}
	if plain.Module.URI.String() != modURI.String() {
		t.Fatalf("module URI mismatch: %s", plain.Module.URI.String())
	}
}

func TestStoreGetDocumentMissingReturnsError(t *testing.T) {
	root := t.TempDir()
	s := NewStore(func(a uri.ArchiveURI) (string, error) { return root, nil }, DefaultGCThreshold)
	docURI := mustDocURI(t, "https://mathhub.info?a=x&d=missing&l=en")
	if _, err := s.GetDocument(docURI); err == nil {
		t.Fatal("expected lookup error for missing document")
	}
}
