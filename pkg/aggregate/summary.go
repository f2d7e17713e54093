package aggregate

import (
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/filter"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// RepositoryStats summarizes a whole record sequence.
type RepositoryStats struct {
	Commits      int `json:"commits"       yaml:"commits"`
	Merges       int `json:"merges"        yaml:"merges"`
	Contributors int `json:"contributors"  yaml:"contributors"`
	LinesAdded   int `json:"lines_added"   yaml:"lines_added"`
	LinesDeleted int `json:"lines_deleted" yaml:"lines_deleted"`
}

// ContributorStats summarizes one contributor within a sequence.
// Percentages are ratios in [0, 1]; they are 0 when the denominator is 0.
type ContributorStats struct {
	Contributor       string  `json:"contributor"          yaml:"contributor"`
	Commits           int     `json:"commits"              yaml:"commits"`
	TotalLines        int     `json:"total_lines"          yaml:"total_lines"`
	LinesAdded        int     `json:"lines_added"          yaml:"lines_added"`
	LinesDeleted      int     `json:"lines_deleted"        yaml:"lines_deleted"`
	PctAdded          float64 `json:"pct_added"            yaml:"pct_added"`
	PctDeleted        float64 `json:"pct_deleted"          yaml:"pct_deleted"`
	PctCommits        float64 `json:"pct_commits"          yaml:"pct_commits"`
	AvgLinesPerCommit float64 `json:"avg_lines_per_commit" yaml:"avg_lines_per_commit"`
}

// Span is the first and last commit time of a sequence.
type Span struct {
	First time.Time `json:"first" yaml:"first"`
	Last  time.Time `json:"last"  yaml:"last"`
}

// RepositorySummary counts commits, merges, distinct authors and lines.
func RepositorySummary(records []record.Record) RepositoryStats {
	stats := RepositoryStats{Commits: len(records)}
	authors := make(map[string]struct{})

	for _, r := range records {
		if r.IsMerge() {
			stats.Merges++
		}

		authors[r.Author()] = struct{}{}
		stats.LinesAdded += r.LinesAdded()
		stats.LinesDeleted += r.LinesDeleted()
	}

	stats.Contributors = len(authors)

	return stats
}

// ContributorSummary computes the statistics of contributor over records.
// PctAdded and PctDeleted split the contributor's own changed lines;
// PctCommits is their share of all commits in records. Without a
// contributor the result is all zeros, as for an author with no commits.
func ContributorSummary(records []record.Record, contributor string) ContributorStats {
	stats := ContributorStats{Contributor: contributor}
	if contributor == "" {
		return stats
	}

	for _, r := range records {
		if r.Author() != contributor {
			continue
		}

		stats.Commits++
		stats.LinesAdded += r.LinesAdded()
		stats.LinesDeleted += r.LinesDeleted()
		stats.TotalLines += r.TotalLines()
	}

	stats.PctAdded = ratio(stats.LinesAdded, stats.TotalLines)
	stats.PctDeleted = ratio(stats.LinesDeleted, stats.TotalLines)
	stats.PctCommits = ratio(stats.Commits, len(records))
	stats.AvgLinesPerCommit = ratio(stats.TotalLines, stats.Commits)

	return stats
}

// Bounds returns the first and last commit time, zero for empty input.
func Bounds(records []record.Record) Span {
	first, last := filter.Bounds(records)

	return Span{First: first, Last: last}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
