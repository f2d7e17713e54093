package traversal

import (
	"github.com/Sumatoshi-tech/commitlens/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitlens/pkg/langs"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// convert turns one commit into a Record. Line counts come from libgit2 diff
// stats against the first parent; the per-language breakdown walks every
// diff line and is only computed when requested.
func convert(repo *gitlib.Repository, hash gitlib.Hash, languageStats bool) (record.Record, error) {
	commit, err := repo.LookupCommit(hash)
	if err != nil {
		return record.Record{}, err
	}
	defer commit.Free()

	diff, err := commit.Diff()
	if err != nil {
		return record.Record{}, err
	}
	defer diff.Free()

	added, deleted, err := diff.Stats()
	if err != nil {
		return record.Record{}, err
	}

	paths, err := diff.Paths()
	if err != nil {
		return record.Record{}, err
	}

	var languages map[string]record.LineStats

	if languageStats {
		languages, err = languageBreakdown(diff)
		if err != nil {
			return record.Record{}, err
		}
	}

	author := commit.Author()

	return record.New(record.Fields{
		Hash:         hash.String(),
		Author:       author.Name,
		CommittedOn:  commit.Committer().When,
		AuthoredOn:   author.When,
		LinesAdded:   added,
		LinesDeleted: deleted,
		FilesTouched: paths,
		IsMerge:      commit.IsMerge(),
		Message:      commit.Message(),
		Languages:    languages,
	})
}

func languageBreakdown(diff *gitlib.Diff) (map[string]record.LineStats, error) {
	files, err := diff.LinesByFile()
	if err != nil {
		return nil, err
	}

	out := make(map[string]record.LineStats)

	for _, f := range files {
		if f.Added == 0 && f.Removed == 0 {
			continue
		}

		lang := langs.Detect(f.Path)
		stats := out[lang]
		stats.Added += f.Added
		stats.Removed += f.Removed
		out[lang] = stats
	}

	return out, nil
}
