package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Diff wraps a libgit2 diff.
type Diff struct {
	diff *git2go.Diff
}

// Paths returns the path of every delta in diff order. Deleted files report
// their old path.
func (d *Diff) Paths() ([]string, error) {
	n, err := d.diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	paths := make([]string, 0, n)

	for i := range n {
		delta, deltaErr := d.diff.Delta(i)
		if deltaErr != nil {
			return nil, fmt.Errorf("get delta %d: %w", i, deltaErr)
		}

		paths = append(paths, deltaPath(delta))
	}

	return paths, nil
}

func deltaPath(delta git2go.DiffDelta) string {
	if delta.NewFile.Path != "" {
		return delta.NewFile.Path
	}

	return delta.OldFile.Path
}

// Stats returns the insertion and deletion totals of the diff.
func (d *Diff) Stats() (insertions, deletions int, err error) {
	stats, err := d.diff.Stats()
	if err != nil {
		return 0, 0, fmt.Errorf("get diff stats: %w", err)
	}

	insertions, deletions = stats.Insertions(), stats.Deletions()
	// Free errors are non-actionable once the counts are read.
	_ = stats.Free()

	return insertions, deletions, nil
}

// FileLines is the per-file line delta produced by LinesByFile.
type FileLines struct {
	Path    string
	Added   int
	Removed int
}

// LinesByFile walks every diff line and returns per-file added/removed
// counts in diff order. It is considerably slower than Stats.
func (d *Diff) LinesByFile() ([]FileLines, error) {
	var files []FileLines

	err := d.diff.ForEach(func(delta git2go.DiffDelta, _ float64) (git2go.DiffForEachHunkCallback, error) {
		files = append(files, FileLines{Path: deltaPath(delta)})
		idx := len(files) - 1

		return func(git2go.DiffHunk) (git2go.DiffForEachLineCallback, error) {
			return func(line git2go.DiffLine) error {
				switch line.Origin {
				case git2go.DiffLineAddition:
					files[idx].Added++
				case git2go.DiffLineDeletion:
					files[idx].Removed++
				case git2go.DiffLineContext, git2go.DiffLineContextEOFNL,
					git2go.DiffLineAddEOFNL, git2go.DiffLineDelEOFNL,
					git2go.DiffLineFileHdr, git2go.DiffLineHunkHdr, git2go.DiffLineBinary:
				}

				return nil
			}, nil
		}, nil
	}, git2go.DiffDetailLines)
	if err != nil {
		return nil, fmt.Errorf("diff foreach: %w", err)
	}

	return files, nil
}

// Free releases the diff resources.
func (d *Diff) Free() {
	if d.diff == nil {
		return
	}

	// Free errors are non-actionable in cleanup.
	_ = d.diff.Free()
	d.diff = nil
}
