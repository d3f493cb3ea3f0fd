package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flexiformal/flams-core/internal/bus"
	"github.com/flexiformal/flams-core/internal/uri"
)

func mustBase(t *testing.T) uri.BaseURI {
	t.Helper()
	b, err := uri.ParseBaseURI("https://mathhub.info")
	if err != nil {
		t.Fatalf("ParseBaseURI: %v", err)
	}
	return b
}

func mustDocURI(t *testing.T, s string) uri.DocumentURI {
	t.Helper()
	u, err := uri.ParseDocumentURI(s)
	if err != nil {
		t.Fatalf("ParseDocumentURI(%q): %v", s, err)
	}
	return u
}

// --- ignore.go ---

func TestIgnoreBasicGlob(t *testing.T) {
	ig := NewIgnoreSource()
	ig.Add("*.log")
	if !ig.Ignored("build/out.log", false) {
		t.Fatalf("expected out.log to be ignored")
	}
	if ig.Ignored("build/out.tex", false) {
		t.Fatalf("did not expect out.tex to be ignored")
	}
}

func TestIgnoreNegationOverridesEarlierMatch(t *testing.T) {
	ig := NewIgnoreSource()
	ig.Add("*.log")
	ig.Add("!keep.log")
	if ig.Ignored("keep.log", false) {
		t.Fatalf("expected keep.log to survive negation")
	}
	if !ig.Ignored("drop.log", false) {
		t.Fatalf("expected drop.log to remain ignored")
	}
}

func TestIgnoreDirectoryOnlyPattern(t *testing.T) {
	ig := NewIgnoreSource()
	ig.Add("build/")
	if !ig.Ignored("build", true) {
		t.Fatalf("expected build/ directory to be ignored")
	}
	if ig.Ignored("build", false) {
		t.Fatalf("a file named build should not match a directory-only pattern")
	}
}

func TestIgnoreAnchoredPattern(t *testing.T) {
	ig := NewIgnoreSource()
	ig.Add("/only-root.tex")
	if !ig.Ignored("only-root.tex", false) {
		t.Fatalf("expected root-level match")
	}
	if ig.Ignored("nested/only-root.tex", false) {
		t.Fatalf("anchored pattern should not match nested path")
	}
}

func TestIgnoreLoadFileMissingIsNotError(t *testing.T) {
	ig := NewIgnoreSource()
	if err := ig.LoadFile(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Fatalf("missing ignore file should not error: %v", err)
	}
}

// --- state.go ---

func TestFileStateSummaryMergeSumsCountsAndTakesMaxTime(t *testing.T) {
	t1 := time.Now().Add(-time.Hour)
	t2 := time.Now()
	a := singleFileStateSummary(bus.Stale, ChangeState{LastChanged: t1})
	b := singleFileStateSummary(bus.UpToDate, ChangeState{LastChanged: t2})
	merged := a.merge(b)
	if merged.Total() != 2 {
		t.Fatalf("expected total 2, got %d", merged.Total())
	}
	if !merged.Max.LastChanged.Equal(t2) {
		t.Fatalf("expected max LastChanged to be the later time")
	}
}

func TestFileStateSummaryWorstPicksLowestState(t *testing.T) {
	s := singleFileStateSummary(bus.UpToDate, ChangeState{}).merge(singleFileStateSummary(bus.Stale, ChangeState{}))
	worst, ok := s.Worst()
	if !ok || worst != bus.Stale {
		t.Fatalf("expected worst=Stale, got %v ok=%v", worst, ok)
	}
}

func TestMergeAllFileStatesSumsAcrossFormats(t *testing.T) {
	a := FileStates{"omdoc": singleFileStateSummary(bus.New, ChangeState{})}
	b := FileStates{"omdoc": singleFileStateSummary(bus.UpToDate, ChangeState{}), "sms": singleFileStateSummary(bus.Stale, ChangeState{})}
	merged := mergeAllFileStates([]FileStates{a, b})
	if merged["omdoc"].Total() != 2 {
		t.Fatalf("expected omdoc total 2, got %d", merged["omdoc"].Total())
	}
	if merged["sms"].Total() != 1 {
		t.Fatalf("expected sms total 1, got %d", merged["sms"].Total())
	}
}

// --- sourcedir.go ---

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestScanSourceDirClassifiesNewFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "source", "a.tex"), "\\documentclass{article}")
	sd, err := ScanSourceDir(filepath.Join(root, "source"), filepath.Join(root, "build"), nil, DefaultTargets)
	if err != nil {
		t.Fatalf("ScanSourceDir: %v", err)
	}
	f, ok := sd.Root.Children["a.tex"].(*File)
	if !ok {
		t.Fatalf("expected a.tex File entry")
	}
	if f.Formats["omdoc"].State != bus.New {
		t.Fatalf("expected New state for file with no build log, got %v", f.Formats["omdoc"].State)
	}
}

func TestScanSourceDirUpToDateWhenLogNewerThanSource(t *testing.T) {
	root := t.TempDir()
	srcPath := filepath.Join(root, "source", "a.tex")
	writeFile(t, srcPath, "content")
	logPath := filepath.Join(root, "build", "a.omdoc.log")
	writeFile(t, logPath, "built")
	// Ensure the log is strictly newer than the source.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(srcPath, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	sd, err := ScanSourceDir(filepath.Join(root, "source"), filepath.Join(root, "build"), nil, DefaultTargets)
	if err != nil {
		t.Fatalf("ScanSourceDir: %v", err)
	}
	f := sd.Root.Children["a.tex"].(*File)
	if f.Formats["omdoc"].State != bus.UpToDate {
		t.Fatalf("expected UpToDate, got %v", f.Formats["omdoc"].State)
	}
}

func TestScanSourceDirStaleWhenSourceNewerThanLog(t *testing.T) {
	root := t.TempDir()
	logPath := filepath.Join(root, "build", "a.omdoc.log")
	writeFile(t, logPath, "built")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(logPath, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	writeFile(t, filepath.Join(root, "source", "a.tex"), "content")

	sd, err := ScanSourceDir(filepath.Join(root, "source"), filepath.Join(root, "build"), nil, DefaultTargets)
	if err != nil {
		t.Fatalf("ScanSourceDir: %v", err)
	}
	f := sd.Root.Children["a.tex"].(*File)
	if f.Formats["omdoc"].State != bus.Stale {
		t.Fatalf("expected Stale, got %v", f.Formats["omdoc"].State)
	}
}

func TestScanSourceDirSkipsUnrecognizedExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "source", "readme.md"), "notes")
	sd, err := ScanSourceDir(filepath.Join(root, "source"), filepath.Join(root, "build"), nil, DefaultTargets)
	if err != nil {
		t.Fatalf("ScanSourceDir: %v", err)
	}
	if _, ok := sd.Root.Children["readme.md"]; ok {
		t.Fatalf("did not expect readme.md to be represented")
	}
}

func TestScanSourceDirRespectsIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "source", "skip.tex"), "x")
	ig := NewIgnoreSource()
	ig.Add("skip.tex")
	sd, err := ScanSourceDir(filepath.Join(root, "source"), filepath.Join(root, "build"), ig, DefaultTargets)
	if err != nil {
		t.Fatalf("ScanSourceDir: %v", err)
	}
	if _, ok := sd.Root.Children["skip.tex"]; ok {
		t.Fatalf("expected skip.tex to be ignored")
	}
}

func TestDirStatesRollUpFromNestedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "source", "nested", "a.tex"), "x")
	sd, err := ScanSourceDir(filepath.Join(root, "source"), filepath.Join(root, "build"), nil, DefaultTargets)
	if err != nil {
		t.Fatalf("ScanSourceDir: %v", err)
	}
	if sd.Root.States()["omdoc"].Total() != 1 {
		t.Fatalf("expected root states to roll up nested file")
	}
	nested := sd.Root.Children["nested"].(*Dir)
	if nested.States()["omdoc"].Total() != 1 {
		t.Fatalf("expected nested dir state total 1")
	}
}

// --- archive.go / Scanner ---

func writeManifest(t *testing.T, archiveDir string) {
	t.Helper()
	writeFile(t, filepath.Join(archiveDir, "META-INF", "MANIFEST.MF"), "id: my/archive\n")
}

func TestScannerScanFindsArchiveByManifest(t *testing.T) {
	lib := t.TempDir()
	archiveDir := filepath.Join(lib, "my", "archive")
	writeManifest(t, archiveDir)
	writeFile(t, filepath.Join(archiveDir, "source", "a.tex"), "x")

	b := bus.New(nil)
	sub := b.Subscribe(16)
	defer sub.Unsubscribe()

	s := NewScanner(mustBase(t), b, nil, nil)
	group, err := s.Scan(lib)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	my, ok := group.Children["my"].(*Group)
	if !ok {
		t.Fatalf("expected 'my' to be a Group")
	}
	a, ok := my.Children["archive"].(*Archive)
	if !ok {
		t.Fatalf("expected 'archive' to be an Archive")
	}
	if a.Name() != "archive" {
		t.Fatalf("unexpected archive name %q", a.Name())
	}

	sawAdded := false
	drain:
	for {
		select {
		case ev := <-sub.Events():
			if _, ok := ev.(bus.ArchiveAdded); ok {
				sawAdded = true
			}
		default:
			break drain
		}
	}
	if !sawAdded {
		t.Fatalf("expected an ArchiveAdded event during Scan")
	}
}

func TestScannerRescanDetectsNewAndDeletedFiles(t *testing.T) {
	lib := t.TempDir()
	archiveDir := filepath.Join(lib, "my", "archive")
	writeManifest(t, archiveDir)
	srcA := filepath.Join(archiveDir, "source", "a.tex")
	writeFile(t, srcA, "x")

	b := bus.New(nil)
	s := NewScanner(mustBase(t), b, nil, nil)
	if _, err := s.Scan(lib); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	sub := b.Subscribe(32)
	defer sub.Unsubscribe()

	if err := os.Remove(srcA); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	writeFile(t, filepath.Join(archiveDir, "source", "b.tex"), "y")

	if err := s.Rescan(); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	var sawDeleted, sawNew bool
	drain:
	for {
		select {
		case ev := <-sub.Events():
			fc, ok := ev.(bus.FileChange)
			if !ok {
				continue
			}
			if fc.RelativePath == "a.tex" && fc.New == bus.Deleted {
				sawDeleted = true
			}
			if fc.RelativePath == "b.tex" && fc.New == bus.New {
				sawNew = true
			}
		default:
			break drain
		}
	}
	if !sawDeleted {
		t.Fatalf("expected a Deleted FileChange for a.tex")
	}
	if !sawNew {
		t.Fatalf("expected a New FileChange for b.tex")
	}
}

func TestScannerRescanDetectsRemovedArchive(t *testing.T) {
	lib := t.TempDir()
	archiveDir := filepath.Join(lib, "my", "archive")
	writeManifest(t, archiveDir)
	writeFile(t, filepath.Join(archiveDir, "source", "a.tex"), "x")

	b := bus.New(nil)
	s := NewScanner(mustBase(t), b, nil, nil)
	if _, err := s.Scan(lib); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	sub := b.Subscribe(8)
	defer sub.Unsubscribe()

	if err := os.RemoveAll(archiveDir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if err := s.Rescan(); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	select {
	case ev := <-sub.Events():
		if _, ok := ev.(bus.ArchiveRemoved); !ok {
			t.Fatalf("expected ArchiveRemoved, got %#v", ev)
		}
	default:
		t.Fatalf("expected an ArchiveRemoved event")
	}
	if len(s.archives) != 0 {
		t.Fatalf("expected the archive registry to be empty after removal")
	}
}

// --- dependency.go ---

func TestDependencyIndexDependentsOf(t *testing.T) {
	idx := NewDependencyIndex()
	from := mustDocURI(t, "https://mathhub.info?a=my/archive&d=from&l=en")
	target := mustDocURI(t, "https://mathhub.info?a=my/archive&d=target&l=en")
	idx.Add(from, target)

	deps := idx.DependentsOf(target)
	if len(deps) != 1 || deps[0].String() != from.String() {
		t.Fatalf("expected exactly [from], got %v", deps)
	}
	if len(idx.DependentsOf(from)) != 0 {
		t.Fatalf("expected no dependents of 'from'")
	}
}

func TestDependencyIndexEdgeTokenRoundTrips(t *testing.T) {
	idx := NewDependencyIndex()
	from := mustDocURI(t, "https://mathhub.info?a=my/archive&d=from&l=en")
	target := mustDocURI(t, "https://mathhub.info?a=my/archive&d=target&l=en")
	idx.Add(from, target)

	tok := idx.EdgeToken(from, target)
	if tok == "" {
		t.Fatal("expected a non-empty edge token")
	}
	if tok2 := idx.EdgeToken(from, target); tok2 != tok {
		t.Fatalf("expected a stable token, got %q then %q", tok, tok2)
	}

	unseen := mustDocURI(t, "https://mathhub.info?a=my/archive&d=unseen&l=en")
	if got := idx.EdgeToken(from, unseen); got != "" {
		t.Fatalf("expected empty token for an unseen URI, got %q", got)
	}
}
