// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitlens/pkg/gitlib"
)

// DefaultAuthor is the signature used when a commit names no author.
var DefaultAuthor = Author{Name: "Test User", Email: "test@example.com"}

// Author identifies who makes a test commit.
type Author struct {
	Name  string
	Email string
}

// Commit describes a commit to create.
type Commit struct {
	Message string
	Author  Author
	When    time.Time

	// Ref is the reference to update. Empty means HEAD.
	Ref string

	// Parents overrides the default parent, the current target of Ref.
	Parents []gitlib.Hash
}

// Repo is a non-bare repository in a temporary directory.
type Repo struct {
	t      testing.TB
	Path   string
	native *git2go.Repository
}

// New initializes an empty repository, freed when the test ends.
func New(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()

	native, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(native.Free)

	return &Repo{t: t, Path: dir, native: native}
}

// WriteFile creates or overwrites a file in the working directory.
func (r *Repo) WriteFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Path, name)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
}

// RemoveFile deletes a file from the working directory.
func (r *Repo) RemoveFile(name string) {
	r.t.Helper()

	require.NoError(r.t, os.Remove(filepath.Join(r.Path, name)))
}

// Commit stages the whole working tree and records a commit.
func (r *Repo) Commit(c Commit) gitlib.Hash {
	r.t.Helper()

	index, err := r.native.Index()
	require.NoError(r.t, err)

	defer index.Free()

	require.NoError(r.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(r.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(r.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(r.t, err)

	tree, err := r.native.LookupTree(treeID)
	require.NoError(r.t, err)

	defer tree.Free()

	author := c.Author
	if author.Name == "" {
		author = DefaultAuthor
	}

	when := c.When
	if when.IsZero() {
		when = time.Now()
	}

	sig := &git2go.Signature{Name: author.Name, Email: author.Email, When: when}

	ref := c.Ref
	if ref == "" {
		ref = "HEAD"
	}

	parents := r.parents(ref, c.Parents)
	defer func() {
		for _, p := range parents {
			p.Free()
		}
	}()

	oid, err := r.native.CreateCommit(ref, sig, sig, c.Message, tree, parents...)
	require.NoError(r.t, err)

	return gitlib.HashFromOid(oid)
}

// QuickCommit writes name with content and commits it as author at when.
func (r *Repo) QuickCommit(name, content, author string, when time.Time) gitlib.Hash {
	r.t.Helper()

	r.WriteFile(name, content)

	return r.Commit(Commit{
		Message: "update " + name,
		Author:  Author{Name: author, Email: author + "@example.com"},
		When:    when,
	})
}

func (r *Repo) parents(ref string, explicit []gitlib.Hash) []*git2go.Commit {
	var parents []*git2go.Commit

	if explicit != nil {
		for _, h := range explicit {
			commit, err := r.native.LookupCommit(h.ToOid())
			require.NoError(r.t, err)

			parents = append(parents, commit)
		}

		return parents
	}

	var (
		target *git2go.Oid
		err    error
	)

	if ref == "HEAD" {
		head, headErr := r.native.Head()
		if headErr != nil {
			return nil
		}

		target = head.Target()
		head.Free()
	} else {
		reference, lookupErr := r.native.References.Lookup(ref)
		if lookupErr != nil {
			return nil
		}

		target = reference.Target()
		reference.Free()
	}

	commit, err := r.native.LookupCommit(target)
	require.NoError(r.t, err)

	return append(parents, commit)
}
