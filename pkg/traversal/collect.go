package traversal

import (
	"fmt"

	"github.com/Sumatoshi-tech/commitlens/pkg/gitlib"
)

// collectHashes walks history reachable from HEAD, oldest first, and keeps
// the commits whose committer time falls in rng.
func collectHashes(repo *gitlib.Repository, rng Range) ([]gitlib.Hash, error) {
	empty, err := repo.IsEmpty()
	if err != nil {
		return nil, err
	}

	if empty {
		return nil, nil
	}

	walk, err := repo.Walk()
	if err != nil {
		return nil, err
	}
	defer walk.Free()

	if err = walk.PushHead(); err != nil {
		return nil, err
	}

	walk.OldestFirst()

	var hashes []gitlib.Hash

	err = walk.Iterate(func(commit *gitlib.Commit) bool {
		if rng.Contains(commit.Committer().When) {
			hashes = append(hashes, commit.Hash())
		}

		return true
	})
	if err != nil {
		return nil, fmt.Errorf("collect commits: %w", err)
	}

	return hashes, nil
}

// partition splits hashes into at most n contiguous chunks of near equal size.
func partition(hashes []gitlib.Hash, n int) [][]gitlib.Hash {
	if len(hashes) == 0 {
		return nil
	}

	n = max(1, min(n, len(hashes)))
	size := (len(hashes) + n - 1) / n

	chunks := make([][]gitlib.Hash, 0, n)

	for start := 0; start < len(hashes); start += size {
		chunks = append(chunks, hashes[start:min(start+size, len(hashes))])
	}

	return chunks
}
