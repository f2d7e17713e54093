package gitlib

import (
	"fmt"
	"os"

	git2go "github.com/libgit2/git2go/v34"
)

// Repository wraps a libgit2 repository. A Repository must not be shared
// between goroutines; concurrent readers each open their own handle on Path.
type Repository struct {
	repo     *git2go.Repository
	path     string
	diffOpts *git2go.DiffOptions

	// cloneDir is removed on Free when the repository was cloned by Load.
	cloneDir string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// IsClone reports whether the repository lives in a temporary clone directory.
func (r *Repository) IsClone() bool {
	return r.cloneDir != ""
}

// Free releases the repository resources and removes any temporary clone.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}

	if r.cloneDir != "" {
		_ = os.RemoveAll(r.cloneDir)
		r.cloneDir = ""
	}
}

// IsEmpty reports whether the repository has no commits yet.
func (r *Repository) IsEmpty() (bool, error) {
	empty, err := r.repo.IsEmpty()
	if err != nil {
		return false, fmt.Errorf("check empty repository: %w", err)
	}

	return empty, nil
}

// Head returns the HEAD reference target.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", hash, err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// Walk creates a new revision walker. Nothing is pushed yet.
func (r *Repository) Walk() (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	return &RevWalk{walk: walk, repo: r}, nil
}

// DiffTreeToTree computes the diff between two trees. A nil oldTree diffs
// against the empty tree.
func (r *Repository) DiffTreeToTree(oldTree, newTree *Tree) (*Diff, error) {
	if r.diffOpts == nil {
		opts, err := git2go.DefaultDiffOptions()
		if err != nil {
			return nil, fmt.Errorf("get diff options: %w", err)
		}

		r.diffOpts = &opts
	}

	var oldT, newT *git2go.Tree
	if oldTree != nil {
		oldT = oldTree.tree
	}

	if newTree != nil {
		newT = newTree.tree
	}

	diff, err := r.repo.DiffTreeToTree(oldT, newT, r.diffOpts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	return &Diff{diff: diff}, nil
}

// Native returns the underlying libgit2 repository for advanced operations.
func (r *Repository) Native() *git2go.Repository {
	return r.repo
}
