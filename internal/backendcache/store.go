package backendcache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flexiformal/flams-core/internal/artifact"
	"github.com/flexiformal/flams-core/internal/content"
	flerrors "github.com/flexiformal/flams-core/internal/errors"
	"github.com/flexiformal/flams-core/internal/uri"
)

// RootResolver maps an archive to its physical `<archive out>` directory;
// this is environment-specific (owned by the archive tree, C6) and injected
// rather than guessed.
type RootResolver func(uri.ArchiveURI) (string, error)

// Store is the C5 facade: two refcounted caches behind the RootResolver that
// locates files on disk.
type Store struct {
	Root     RootResolver
	modules  *Cache[uri.ModuleURI, ModuleLike]
	documents *Cache[uri.DocumentURI, *DocData]
}

func NewStore(root RootResolver, threshold int) *Store {
	return &Store{
		Root:      root,
		modules:   NewCache[uri.ModuleURI, ModuleLike](threshold),
		documents: NewCache[uri.DocumentURI, *DocData](threshold),
	}
}

// GetDocument implements §4.5's get_document: cache hit returns the acquired
// handle, a miss scans `<archive out>/<path>/` for a subdirectory matching
// `<leaf>[.<lang>]` that contains `index.omdoc` and loads it.
func (s *Store) GetDocument(u uri.DocumentURI) (*Handle[*DocData], error) {
	return s.documents.Get(u, func() (*DocData, error) {
		path, err := s.locateDocumentFile(u)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, flerrors.NewPersistenceError(flerrors.PersistenceIO, path, err)
		}
		defer f.Close()
		doc, err := artifact.ReadDocument(f)
		if err != nil {
			return nil, err
		}
		css, body, err := artifact.ReadCSSAndBody(f)
		if err != nil {
			return nil, err
		}
		return &DocData{Document: doc, CSS: css, Body: body, Path: path}, nil
	})
}

func (s *Store) locateDocumentFile(u uri.DocumentURI) (string, error) {
	root, err := s.Root(u.Archive())
	if err != nil {
		return "", err
	}
	path, _ := u.PathURI().Path()
	dir := filepath.Join(root, filepath.FromSlash(path.String()))
	leaf := string(u.Name().Leaf())
	candidates := []string{leaf + "." + u.Language().String(), leaf}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", flerrors.NewPersistenceError(flerrors.PersistenceIO, dir, err)
	}
	for _, want := range candidates {
		for _, e := range entries {
			if !e.IsDir() || e.Name() != want {
				continue
			}
			candidate := filepath.Join(dir, e.Name(), "index.omdoc")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", flerrors.NewLookupError(flerrors.LookupNotFound, u.String())
}

// GetModule implements §4.5's get_module: a top-level module is read from
// `.modules/<leaf>/<language>.comd`; a name with `/` steps beyond the leaf
// descends into the loaded parent's elements.
func (s *Store) GetModule(u uri.ModuleURI) (*Handle[ModuleLike], error) {
	return s.modules.Get(u, func() (ModuleLike, error) {
		return s.loadModule(u)
	})
}

func (s *Store) loadModule(u uri.ModuleURI) (ModuleLike, error) {
	steps := u.Name().Steps()
	top := steps[0]
	root, err := s.Root(u.Archive())
	if err != nil {
		return nil, err
	}
	path, _ := u.PathURI().Path()
	file := filepath.Join(root, filepath.FromSlash(path.String()), ".modules", string(top), u.Language().String()+".comd")
	f, err := os.Open(file)
	if err != nil {
		return nil, flerrors.NewPersistenceError(flerrors.PersistenceIO, file, err)
	}
	defer f.Close()
	mod, err := artifact.ReadModule(f)
	if err != nil {
		return nil, err
	}
	if len(steps) == 1 {
		m := mod
		return PlainModule{Module: &m}, nil
	}
	return descend(mod, steps[1:])
}

func descend(parent content.Module[content.Checked], steps []uri.NameStep) (ModuleLike, error) {
	if len(steps) == 0 {
		p := parent
		return PlainModule{Module: &p}, nil
	}
	for _, e := range parent.Elements {
		switch v := e.(type) {
		case content.NestedModule[content.Checked]:
			if v.Body.URI.Name().Leaf() == steps[0] {
				if len(steps) == 1 {
					p := parent
					return NestedModuleLike{Parent: &p, Child: v}, nil
				}
				return descend(v.Body, steps[1:])
			}
		case content.MathStructure[content.Checked]:
			if v.Name == steps[0] && len(steps) == 1 {
				p := parent
				return StructureLike{Parent: &p, Child: v}, nil
			}
		}
	}
	return nil, flerrors.NewLookupError(flerrors.LookupNotFound, pathString(steps))
}

func pathString(steps []uri.NameStep) string {
	ss := make([]string, len(steps))
	for i, s := range steps {
		ss[i] = string(s)
	}
	return strings.Join(ss, "/")
}
