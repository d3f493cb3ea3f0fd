package archive

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreSource is a .gitignore-shaped filter over an archive's source/ tree
// (§4.6: "Walk source/ filtering via an IgnoreSource pattern"). Grounded on
// lci's internal/config/gitignore.go for the pattern shape (negation with
// `!`, directory-only with a trailing `/`, root-anchored with a leading
// `/`) and line-scanning/comment-skipping behavior, but matching itself is
// delegated to doublestar.Match instead of a hand-rolled regex compiler:
// doublestar already implements gitignore-compatible `**`/`*`/`?`/`[...]`
// glob semantics, so there is nothing for a bespoke matcher to add here.
type IgnoreSource struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	glob      string
	negate    bool
	directory bool
	anchored  bool
}

// NewIgnoreSource returns an IgnoreSource with no patterns; every path is
// kept until patterns are loaded.
func NewIgnoreSource() *IgnoreSource {
	return &IgnoreSource{}
}

// LoadFile reads gitignore-style lines from path and appends them. A missing
// file is not an error — an archive need not carry an ignore file.
func (s *IgnoreSource) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.Add(line)
	}
	return sc.Err()
}

// Add appends a single pattern line.
func (s *IgnoreSource) Add(line string) {
	p := ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	}
	if !p.anchored && !strings.Contains(line, "/") {
		// An unanchored, slash-free pattern matches at any depth, the same
		// way plain gitignore entries like "*.aux" do.
		line = "**/" + line
	}
	p.glob = line
	s.patterns = append(s.patterns, p)
}

// Ignored reports whether relPath (slash-separated, relative to the
// archive's source/ root) should be skipped. Later patterns override
// earlier ones, and a `!`-negated pattern un-ignores a path an earlier
// pattern matched — standard gitignore last-match-wins semantics.
func (s *IgnoreSource) Ignored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	ignored := false
	for _, p := range s.patterns {
		if p.directory && !isDir && !s.withinIgnoredDir(p, relPath) {
			continue
		}
		glob := p.glob
		if p.directory {
			glob = glob + "/**"
		}
		match, _ := doublestar.Match(glob, relPath)
		if !match && p.directory {
			// also match the bare directory path itself
			match, _ = doublestar.Match(p.glob, relPath)
		}
		if match {
			ignored = !p.negate
		}
	}
	return ignored
}

func (s *IgnoreSource) withinIgnoredDir(p ignorePattern, relPath string) bool {
	match, _ := doublestar.Match(p.glob, filepath.Dir(relPath))
	if match {
		return true
	}
	match, _ = doublestar.Match(p.glob+"/**", relPath)
	return match
}
