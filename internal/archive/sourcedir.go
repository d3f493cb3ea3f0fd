package archive

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/flexiformal/flams-core/internal/bus"
)

// SourceEntry is the recursive name → (Dir | File) sum §4.6 describes for an
// archive's source/ tree.
type SourceEntry interface {
	isSourceEntry()
	Name() string
	States() FileStates
}

// File is one leaf of the tree: a source file and its per-format build
// state, e.g. a `.tex` file that produces an `omdoc` and/or `sms` target.
type File struct {
	name     string
	RelPath  string // slash-separated, relative to source/
	Formats  map[string]FileFormatState
	Commit   time.Time // zero if no git history observed (§4.6 git enrichment)
}

type FileFormatState struct {
	State       bus.FileState
	ChangeState ChangeState
}

func (*File) isSourceEntry() {}
func (f *File) Name() string { return f.name }

func (f *File) States() FileStates {
	out := make(FileStates, len(f.Formats))
	for format, fs := range f.Formats {
		out[format] = singleFileStateSummary(fs.State, fs.ChangeState)
	}
	return out
}

// Dir is an interior node: its own States is always the merge of its
// children's, recomputed by recomputeStates after any mutation.
type Dir struct {
	name     string
	RelPath  string
	Children map[string]SourceEntry
	states   FileStates
}

func newDir(name, relPath string) *Dir {
	return &Dir{name: name, RelPath: relPath, Children: map[string]SourceEntry{}}
}

func (*Dir) isSourceEntry()  {}
func (d *Dir) Name() string  { return d.name }
func (d *Dir) States() FileStates { return d.states }

// recomputeStates merges every child's States bottom-up; call after any
// mutation to Children (§4.6: "each directory's FileStates is the merge of
// its descendants' states").
func (d *Dir) recomputeStates() {
	all := make([]FileStates, 0, len(d.Children))
	names := make([]string, 0, len(d.Children))
	for name := range d.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		child := d.Children[name]
		if sub, ok := child.(*Dir); ok {
			sub.recomputeStates()
		}
		all = append(all, child.States())
	}
	d.states = mergeAllFileStates(all)
}

// SourceDir is the top-level handle onto one archive's source/ tree.
type SourceDir struct {
	Root *Dir
}

// TargetsFor maps a recognized source extension to the build targets (log
// files) produced for it, e.g. ".tex" -> ["omdoc"]. Callers needing a
// different mapping (other source languages in the pack's corpus) build
// their own map; DefaultTargets covers the sTeX/FTML family §6 names.
type TargetsFor map[string][]string

// DefaultTargets is the recognized-extension → targets map for the sTeX
// toolchain's usual outputs.
var DefaultTargets = TargetsFor{
	".tex":  {"omdoc"},
	".ftml": {"omdoc"},
}

// ScanSourceDir walks sourceRoot (an archive's source/ directory) and builds
// a SourceDir, computing each recognized file's FileFormatState by comparing
// its mtime against the build log `<outRoot>/<rel without extension>.<target>.log`
// (source `a.tex` with target "omdoc" is checked against `<outRoot>/a.omdoc.log`);
// a log at `<outRoot>/<rel>/<target>.log` is not consulted. Files whose extension has no entry in targets are skipped
// entirely (not even represented as an empty File), and files/directories
// matched by ignore are skipped.
func ScanSourceDir(sourceRoot, outRoot string, ignore *IgnoreSource, targets TargetsFor) (*SourceDir, error) {
	root := newDir("", "")
	err := filepath.WalkDir(sourceRoot, func(fsPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fsPath == sourceRoot {
			return nil
		}
		rel, err := filepath.Rel(sourceRoot, fsPath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		isDir := d.IsDir()
		if ignore != nil && ignore.Ignored(rel, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}
		if isDir {
			ensureDir(root, rel)
			return nil
		}
		ext := filepath.Ext(fsPath)
		formats, recognized := targets[ext]
		if !recognized {
			return nil
		}
		f, err := buildFile(fsPath, outRoot, rel, formats)
		if err != nil {
			return err
		}
		parent := ensureDir(root, path.Dir(rel))
		parent.Children[f.name] = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	root.recomputeStates()
	return &SourceDir{Root: root}, nil
}

func ensureDir(root *Dir, rel string) *Dir {
	if rel == "." || rel == "" {
		return root
	}
	cur := root
	relSoFar := ""
	for _, step := range splitPath(rel) {
		if relSoFar == "" {
			relSoFar = step
		} else {
			relSoFar = relSoFar + "/" + step
		}
		child, ok := cur.Children[step]
		if !ok {
			d := newDir(step, relSoFar)
			cur.Children[step] = d
			cur = d
			continue
		}
		d, ok := child.(*Dir)
		if !ok {
			// A file occupies this path segment (shouldn't happen for a
			// well-formed tree); replace with a directory so the walk can
			// keep going rather than panicking on a cast.
			d = newDir(step, relSoFar)
			cur.Children[step] = d
		}
		cur = d
	}
	return cur
}

func splitPath(rel string) []string {
	rel = filepath.ToSlash(rel)
	var steps []string
	for _, s := range splitNonEmpty(rel, '/') {
		steps = append(steps, s)
	}
	return steps
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func buildFile(fsPath, outRoot, rel string, formats []string) (*File, error) {
	srcInfo, err := os.Stat(fsPath)
	if err != nil {
		return nil, err
	}
	f := &File{name: filepath.Base(fsPath), RelPath: rel, Formats: make(map[string]FileFormatState, len(formats))}
	relNoExt := rel[:len(rel)-len(filepath.Ext(rel))]
	for _, format := range formats {
		logPath := filepath.Join(outRoot, filepath.FromSlash(relNoExt)+"."+format+".log")
		state, cs := computeFileState(srcInfo.ModTime(), logPath)
		f.Formats[format] = FileFormatState{State: state, ChangeState: cs}
	}
	return f, nil
}

// computeFileState implements §4.6's update protocol for one file/target
// pair: UpToDate if the log is newer than the source, Stale otherwise, New
// if the log is absent.
func computeFileState(sourceModTime time.Time, logPath string) (bus.FileState, ChangeState) {
	logInfo, err := os.Stat(logPath)
	if err != nil {
		return bus.New, ChangeState{LastChanged: sourceModTime}
	}
	built := logInfo.ModTime()
	if built.Before(sourceModTime) {
		return bus.Stale, ChangeState{LastBuilt: built, LastChanged: sourceModTime}
	}
	return bus.UpToDate, ChangeState{LastBuilt: built, LastChanged: sourceModTime}
}
