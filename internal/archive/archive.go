// Package archive implements the archive tree and file index (C6): the
// ArchiveOrGroup tree mirroring a library's on-disk layout, each archive's
// SourceDir and aggregated FileStates, the build-state update protocol, and
// the supplemented DependencyIndex. Changed file states and archive
// lifecycle events are published on an injected *bus.Bus (C8); git
// enrichment (go-git) and live rescanning (fsnotify) are both read-only from
// this package's perspective, per spec.md's non-goal on git sync details.
package archive

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flexiformal/flams-core/internal/bus"
	"github.com/flexiformal/flams-core/internal/uri"
)

// scanConcurrency bounds how many directory subtrees a Scanner walks at
// once, the same backpressure discipline the teacher's errgroup use applies
// to its concurrent search requests (see internal/mcp/integration_test.go).
const scanConcurrency = 8

// manifestPath is the file whose presence marks a directory as an archive
// leaf rather than a group (§4.6, grounded in the original sTeX build's
// META-INF/MANIFEST.MF convention — see original_source/source/stex/src/lib.rs).
const manifestPath = "META-INF/MANIFEST.MF"

// ArchiveOrGroup is the closed sum §4.6 describes: a Group (a directory of
// further groups/archives) or an Archive (a leaf with its own SourceDir).
type ArchiveOrGroup interface {
	isArchiveOrGroup()
	Name() string
}

// Group is an interior tree node. Its States is the merge of its direct
// children's summaries (§4.6: "a group's summary is the merge of its direct
// children's summaries").
type Group struct {
	name     string
	Path     string
	Children map[string]ArchiveOrGroup
}

func (*Group) isArchiveOrGroup() {}
func (g *Group) Name() string    { return g.name }

// States merges every child's FileStates (archives contribute their
// SourceDir root; nested groups contribute their own merge).
func (g *Group) States() FileStates {
	names := make([]string, 0, len(g.Children))
	for name := range g.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	all := make([]FileStates, 0, len(names))
	for _, name := range names {
		switch c := g.Children[name].(type) {
		case *Group:
			all = append(all, c.States())
		case *Archive:
			all = append(all, c.Source.Root.States())
		}
	}
	return mergeAllFileStates(all)
}

// Archive is a leaf of the tree: one identified, scannable unit with its own
// source/ directory and build state.
type Archive struct {
	URI        uri.ArchiveURI
	Path       string // absolute path to the archive's root directory
	Source     *SourceDir
	Deps       *DependencyIndex
	Targets    TargetsFor
	Ignore     *IgnoreSource
}

func (*Archive) isArchiveOrGroup() {}
func (a *Archive) Name() string    { return string(a.URI.Archive().Leaf()) }

// OutDir is the conventional build-output directory for an archive: its own
// root plus "/build" (the directory update protocol reads `.log` files
// from).
func (a *Archive) OutDir() string { return filepath.Join(a.Path, "build") }

// SourceRoot is the conventional source directory §4.6 walks.
func (a *Archive) SourceRoot() string { return filepath.Join(a.Path, "source") }

// Scanner walks a library root building the ArchiveOrGroup tree and
// publishing ArchiveAdded/FileChange events for whatever it finds, the way a
// first cold scan would. Reuse the same Scanner for later Rescan calls so
// previously observed archives are diffed rather than treated as new.
type Scanner struct {
	base    uri.BaseURI
	bus     *bus.Bus
	log     *zap.Logger
	targets TargetsFor

	mu       sync.Mutex
	archives map[string]*Archive // keyed by ArchiveURI.String()
}

// NewScanner constructs a Scanner. bus and logger may be nil (a nil bus
// disables event publication entirely, useful for one-shot inspection
// tools); targets defaults to DefaultTargets.
func NewScanner(base uri.BaseURI, b *bus.Bus, logger *zap.Logger, targets TargetsFor) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if targets == nil {
		targets = DefaultTargets
	}
	return &Scanner{base: base, bus: b, log: logger, targets: targets, archives: map[string]*Archive{}}
}

// Scan walks libraryRoot, classifying each directory as a Group or an
// Archive (by the presence of META-INF/MANIFEST.MF), recursing into groups,
// and building a SourceDir for each archive found. scanInto's idPrefix
// accumulates the Name steps that become the ArchiveID as the walk
// descends, e.g. scanning "my/archive" assigns that as the archive's id.
func (s *Scanner) Scan(libraryRoot string) (*Group, error) {
	root := &Group{name: "", Path: libraryRoot, Children: map[string]ArchiveOrGroup{}}
	if err := s.scanInto(root, libraryRoot, nil); err != nil {
		return nil, err
	}
	return root, nil
}

// scanInto walks dir's subdirectories concurrently (bounded by
// scanConcurrency via errgroup, the same structured-concurrency-with-
// backpressure pattern used elsewhere in this stack for parallel work over
// a fan-out of independent units) since sibling archives/groups never
// depend on one another. Writes to parent.Children and the Scanner-wide
// archive registry are serialized by a dedicated mutex; bus.Bus is already
// safe for concurrent Publish.
func (s *Scanner) scanInto(parent *Group, dir string, idPrefix []string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var childrenMu sync.Mutex
	g := &errgroup.Group{}
	g.SetLimit(scanConcurrency)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		childPath := filepath.Join(dir, name)
		childID := append(append([]string{}, idPrefix...), name)
		g.Go(func() error {
			if isArchiveDir(childPath) {
				a, err := s.buildArchive(childPath, childID)
				if err != nil {
					return err
				}
				childrenMu.Lock()
				parent.Children[name] = a
				childrenMu.Unlock()
				s.mu.Lock()
				s.archives[a.URI.String()] = a
				s.mu.Unlock()
				if s.bus != nil {
					s.bus.Publish(bus.ArchiveAdded{Archive: a.URI})
				}
				return nil
			}
			group := &Group{name: name, Path: childPath, Children: map[string]ArchiveOrGroup{}}
			if err := s.scanInto(group, childPath, childID); err != nil {
				return err
			}
			childrenMu.Lock()
			parent.Children[name] = group
			childrenMu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func isArchiveDir(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(manifestPath)))
	return err == nil
}

func (s *Scanner) buildArchive(dir string, idSteps []string) (*Archive, error) {
	steps := make([]uri.NameStep, len(idSteps))
	for i, step := range idSteps {
		steps[i] = uri.NameStep(step)
	}
	name, err := uri.NewName(steps...)
	if err != nil {
		return nil, err
	}
	archiveURI := uri.NewArchiveURI(s.base, uri.ArchiveID{Name: name})

	ignore := NewIgnoreSource()
	_ = ignore.LoadFile(filepath.Join(dir, ".gitignore"))

	a := &Archive{URI: archiveURI, Path: dir, Deps: NewDependencyIndex(), Targets: s.targets, Ignore: ignore}
	src, err := ScanSourceDir(a.SourceRoot(), a.OutDir(), ignore, s.targets)
	if err != nil {
		if os.IsNotExist(err) {
			src = &SourceDir{Root: newDir("", "")}
		} else {
			return nil, err
		}
	}
	a.Source = src
	if s.bus != nil {
		emitInitialFileChanges(s.bus, a)
	}
	return a, nil
}

func emitInitialFileChanges(b *bus.Bus, a *Archive) {
	walkFiles(a.Source.Root, func(f *File) {
		for format, fs := range f.Formats {
			st := fs.State
			b.Publish(bus.FileChange{
				Archive:      a.URI,
				RelativePath: f.RelPath,
				Format:       format,
				Old:          nil,
				New:          st,
			})
		}
	})
}

func walkFiles(d *Dir, visit func(*File)) {
	names := make([]string, 0, len(d.Children))
	for name := range d.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch c := d.Children[name].(type) {
		case *File:
			visit(c)
		case *Dir:
			walkFiles(c, visit)
		}
	}
}

// Archive returns the archive the Scanner has registered under u, if any.
// This is the lookup a RootResolver (C5's backendcache.Store) uses to turn
// an ArchiveURI back into the on-disk `<out>` directory it should read from.
func (s *Scanner) Archive(u uri.ArchiveURI) (*Archive, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.archives[u.String()]
	return a, ok
}

// Rescan re-walks every previously discovered archive's source tree,
// diffing against the prior SourceDir so changed/deleted files emit
// bus.FileChange events with a non-nil Old (§4.6's update protocol: "reuse
// previous entries when present; when a previously-present entry
// disappears, mark Deleted"). Archives removed from disk entirely emit
// ArchiveRemoved and drop out of the Scanner's registry.
func (s *Scanner) Rescan() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.archives {
		if _, err := os.Stat(a.Path); err != nil {
			if s.bus != nil {
				s.bus.Publish(bus.ArchiveRemoved{Archive: a.URI})
			}
			delete(s.archives, key)
			continue
		}
		prev := a.Source
		next, err := ScanSourceDir(a.SourceRoot(), a.OutDir(), a.Ignore, a.Targets)
		if err != nil {
			return err
		}
		if s.bus != nil {
			diffAndPublish(s.bus, a.URI, prev.Root, next.Root)
		}
		a.Source = next
	}
	return nil
}

func diffAndPublish(b *bus.Bus, archiveURI uri.ArchiveURI, prev, next *Dir) {
	prevFiles := map[string]*File{}
	walkFiles(prev, func(f *File) { prevFiles[f.RelPath] = f })
	nextFiles := map[string]bool{}

	walkFiles(next, func(f *File) {
		nextFiles[f.RelPath] = true
		old := prevFiles[f.RelPath]
		for format, fs := range f.Formats {
			var oldState *bus.FileState
			if old != nil {
				if os, ok := old.Formats[format]; ok {
					s := os.State
					oldState = &s
					if s == fs.State {
						continue // unchanged: no event
					}
				}
			}
			b.Publish(bus.FileChange{
				Archive: archiveURI, RelativePath: f.RelPath, Format: format,
				Old: oldState, New: fs.State,
			})
		}
	})

	for relPath, old := range prevFiles {
		if nextFiles[relPath] {
			continue
		}
		for format, fs := range old.Formats {
			st := fs.State
			b.Publish(bus.FileChange{
				Archive: archiveURI, RelativePath: relPath, Format: format,
				Old: &st, New: bus.Deleted,
			})
		}
	}
}
