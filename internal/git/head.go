package git

import (
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
)

// Revision describes the checked out commit of a work tree.
type Revision struct {
	Hash   string
	Branch string // empty on a detached HEAD
}

// Short returns the abbreviated commit hash used in log lines.
func (r Revision) Short() string {
	if len(r.Hash) > 12 {
		return r.Hash[:12]
	}
	return r.Hash
}

// ReadRepoHead returns the HEAD revision of the repository containing path.
// Parent directories are searched for the .git directory.
func ReadRepoHead(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Revision{}, err
	}
	head, err := repo.Head()
	if err != nil {
		return Revision{}, err
	}
	rev := Revision{Hash: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev, nil
}

// SourceRevision is ReadRepoHead without the error. Sources outside a git
// work tree, or a repository without commits, yield the zero Revision.
func SourceRevision(path string) Revision {
	rev, err := ReadRepoHead(path)
	switch {
	case err == nil:
		return rev
	case errors.Is(err, git.ErrRepositoryNotExists), errors.Is(err, plumbing.ErrReferenceNotFound):
		return Revision{}
	default:
		slog.Debug("Could not read source revision", logfields.Path(path), logfields.Error(err))
		return Revision{}
	}
}
