package gitlib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	git2go "github.com/libgit2/git2go/v34"
)

// ErrEmptySource is returned when no repository location is given.
var ErrEmptySource = errors.New("empty repository source")

// scpLikeURL matches git@host:owner/repo style remotes.
var scpLikeURL = regexp.MustCompile(`^[A-Za-z]\w*@[A-Za-z0-9][\w.]*:`)

// IsRemote reports whether source names a remote repository rather than a
// local path.
func IsRemote(source string) bool {
	return strings.Contains(source, "://") || scpLikeURL.MatchString(source)
}

// Load opens a local repository or clones a remote one into a fresh
// directory under cloneRoot (os.TempDir when empty). Freeing the returned
// repository removes the clone.
func Load(ctx context.Context, source, cloneRoot string) (*Repository, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !IsRemote(source) {
		return OpenRepository(strings.TrimRight(source, string(os.PathSeparator)))
	}

	return Clone(ctx, source, cloneRoot)
}

// Clone performs a bare clone of url into a new directory under cloneRoot.
func Clone(ctx context.Context, url, cloneRoot string) (*Repository, error) {
	if cloneRoot == "" {
		cloneRoot = os.TempDir()
	}

	dir := filepath.Join(cloneRoot, "commitlens-"+uuid.NewString())

	opts := &git2go.CloneOptions{
		Bare: true,
		FetchOptions: git2go.FetchOptions{
			RemoteCallbacks: git2go.RemoteCallbacks{
				TransferProgressCallback: func(git2go.TransferProgress) error {
					return ctx.Err()
				},
			},
		},
	}

	native, err := git2go.Clone(url, dir, opts)
	if err != nil {
		_ = os.RemoveAll(dir)

		return nil, fmt.Errorf("clone %s: %w", url, err)
	}

	return &Repository{repo: native, path: dir, cloneDir: dir}, nil
}
