package gitlib_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitlens/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitlens/pkg/gitlib/gittest"
)

var t0 = time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)

func TestOpenRepository(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	repo.QuickCommit("a.txt", "a\n", "alice", t0)

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	defer r.Free()

	assert.Equal(t, repo.Path, r.Path())
	assert.False(t, r.IsClone())
	assert.NotNil(t, r.Native())
}

func TestOpenRepositoryNotFound(t *testing.T) {
	t.Parallel()

	r, err := gitlib.OpenRepository("/nonexistent/path/to/repo")

	assert.Nil(t, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open repository")
}

func TestRepositoryFreeTwice(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	repo.QuickCommit("x.txt", "x", "alice", t0)

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	r.Free()
	r.Free()
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://github.com/owner/repo.git": true,
		"git@github.com:owner/repo.git":     true,
		"file:///tmp/repo":                  true,
		"/home/user/repo":                   false,
		"./repo":                            false,
		"C:\\repos\\project":                false,
	}

	for source, want := range tests {
		assert.Equal(t, want, gitlib.IsRemote(source), source)
	}
}

func TestLoad_LocalWithTrailingSeparator(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	head := repo.QuickCommit("a.txt", "a\n", "alice", t0)

	r, err := gitlib.Load(context.Background(), repo.Path+string(os.PathSeparator), "")
	require.NoError(t, err)

	defer r.Free()

	got, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, head, got)
}

func TestLoad_EmptySource(t *testing.T) {
	t.Parallel()

	_, err := gitlib.Load(context.Background(), "  ", "")
	require.ErrorIs(t, err, gitlib.ErrEmptySource)
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gitlib.Load(ctx, "/some/path", "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_RemoteIsClonedAndRemoved(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	head := repo.QuickCommit("a.txt", "a\n", "alice", t0)

	r, err := gitlib.Load(context.Background(), "file://"+repo.Path, t.TempDir())
	require.NoError(t, err)

	assert.True(t, r.IsClone())

	got, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, head, got)

	dir := r.Path()
	r.Free()

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHash(t *testing.T) {
	t.Parallel()

	const hex = "0123456789abcdef0123456789abcdef01234567"

	h, err := gitlib.ParseHash(hex)
	require.NoError(t, err)
	assert.Equal(t, hex, h.String())
	assert.False(t, h.IsZero())
	assert.Equal(t, h, gitlib.HashFromOid(h.ToOid()))

	assert.True(t, gitlib.Hash{}.IsZero())

	_, err = gitlib.ParseHash("abc")
	require.ErrorIs(t, err, gitlib.ErrInvalidHash)

	_, err = gitlib.ParseHash("zz23456789abcdef0123456789abcdef01234567")
	require.ErrorIs(t, err, gitlib.ErrInvalidHash)
}

func TestRevWalk_OldestFirst(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	first := repo.QuickCommit("a.txt", "1\n", "alice", t0)
	second := repo.QuickCommit("a.txt", "2\n", "bob", t0.Add(time.Hour))
	third := repo.QuickCommit("b.txt", "3\n", "alice", t0.Add(2*time.Hour))

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	defer r.Free()

	walk, err := r.Walk()
	require.NoError(t, err)

	defer walk.Free()

	require.NoError(t, walk.PushHead())
	walk.OldestFirst()

	var got []gitlib.Hash

	require.NoError(t, walk.Iterate(func(c *gitlib.Commit) bool {
		got = append(got, c.Hash())

		return true
	}))

	assert.Equal(t, []gitlib.Hash{first, second, third}, got)
}

func TestCommit_Metadata(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	repo.WriteFile("main.go", "package main\n")

	when := time.Date(2021, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 2*60*60))
	hash := repo.Commit(gittest.Commit{
		Message: "add main\n\nbody",
		Author:  gittest.Author{Name: "Alice", Email: "alice@example.com"},
		When:    when,
	})

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	defer r.Free()

	c, err := r.LookupCommit(hash)
	require.NoError(t, err)

	defer c.Free()

	assert.Equal(t, hash, c.Hash())
	assert.Equal(t, "Alice", c.Author().Name)
	assert.Equal(t, "alice@example.com", c.Committer().Email)
	assert.True(t, when.Equal(c.Committer().When))
	assert.Equal(t, "add main\n\nbody", c.Message())
	assert.Equal(t, 0, c.NumParents())
	assert.False(t, c.IsMerge())

	parentTree, err := c.FirstParentTree()
	require.NoError(t, err)
	assert.Nil(t, parentTree)
}

func TestCommit_DiffAgainstParent(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	repo.WriteFile("a.txt", "one\ntwo\nthree\n")
	repo.WriteFile("b.py", "print(1)\n")
	repo.Commit(gittest.Commit{Message: "init", When: t0})

	repo.WriteFile("a.txt", "one\nTWO\nthree\nfour\n")
	repo.RemoveFile("b.py")
	hash := repo.Commit(gittest.Commit{Message: "edit", When: t0.Add(time.Hour)})

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	defer r.Free()

	c, err := r.LookupCommit(hash)
	require.NoError(t, err)

	defer c.Free()

	diff, err := c.Diff()
	require.NoError(t, err)

	defer diff.Free()

	ins, del, err := diff.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, ins)
	assert.Equal(t, 2, del)

	paths, err := diff.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.py"}, paths)

	lines, err := diff.LinesByFile()
	require.NoError(t, err)
	assert.Equal(t, []gitlib.FileLines{
		{Path: "a.txt", Added: 2, Removed: 1},
		{Path: "b.py", Added: 0, Removed: 1},
	}, lines)
}

func TestCommit_Merge(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)
	base := repo.QuickCommit("a.txt", "a\n", "alice", t0)

	repo.WriteFile("side.txt", "side\n")
	side := repo.Commit(gittest.Commit{
		Message: "side",
		When:    t0.Add(time.Hour),
		Ref:     "refs/heads/side",
		Parents: []gitlib.Hash{base},
	})

	tip := repo.QuickCommit("a.txt", "b\n", "bob", t0.Add(2*time.Hour))
	merge := repo.Commit(gittest.Commit{
		Message: "merge side",
		When:    t0.Add(3 * time.Hour),
		Parents: []gitlib.Hash{tip, side},
	})

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	defer r.Free()

	c, err := r.LookupCommit(merge)
	require.NoError(t, err)

	defer c.Free()

	assert.Equal(t, 2, c.NumParents())
	assert.True(t, c.IsMerge())
}

func TestRepository_IsEmpty(t *testing.T) {
	t.Parallel()

	repo := gittest.New(t)

	r, err := gitlib.OpenRepository(repo.Path)
	require.NoError(t, err)

	defer r.Free()

	empty, err := r.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	repo.QuickCommit("a.txt", "a", "alice", t0)

	empty, err = r.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)
}
