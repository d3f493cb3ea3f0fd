package archive

import (
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	flerrors "github.com/flexiformal/flams-core/internal/errors"
)

// GitEnrich observes (never writes) an archive's git history when its root
// is inside a working tree: it opens the repository containing a.Path
// (searching ancestors the way `git` itself does via DetectDotGit),
// resolves HEAD, and for each file in a's SourceDir walks that file's most
// recent commit time, filling in File.Commit. Per §4.6/§4.8's git non-goal,
// this package only ever reads HEAD and per-file last-commit time — it
// never stages, commits, or otherwise mutates the repository.
//
// A missing repository (the archive is not inside a git working tree) is
// not an error: GitEnrich is a no-op enrichment, and every File.Commit stays
// the zero time.
func GitEnrich(a *Archive) error {
	repo, err := git.PlainOpenWithOptions(a.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil
		}
		return flerrors.NewPersistenceError(flerrors.PersistenceIO, a.Path, err)
	}
	head, err := repo.Head()
	if err != nil {
		// An empty or detached-unborn repository has no HEAD commit yet;
		// nothing to enrich with.
		return nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil
	}

	enrichDir(repo, head, wt.Filesystem.Root(), a.SourceRoot(), a.Source.Root)
	return nil
}

// enrichDir walks d, computing each File's path relative to the repository
// root (repoRoot) from its path relative to the archive's source/ directory
// (sourceRoot), and looks up that path's most recent commit time.
func enrichDir(repo *git.Repository, head *plumbing.Reference, repoRoot, sourceRoot string, d *Dir) {
	for _, child := range d.Children {
		switch c := child.(type) {
		case *File:
			abs := filepath.Join(sourceRoot, filepath.FromSlash(c.RelPath))
			if t, ok := lastCommitTimeFor(repo, head, repoRoot, abs); ok {
				c.Commit = t
			}
		case *Dir:
			enrichDir(repo, head, repoRoot, sourceRoot, c)
		}
	}
}

func lastCommitTimeFor(repo *git.Repository, head *plumbing.Reference, repoRoot, absPath string) (time.Time, bool) {
	rel, err := filepath.Rel(repoRoot, absPath)
	if err != nil {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)
	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()
	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, false
	}
	return commit.Author.When, true
}
