package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Default ranking sizes.
const (
	DefaultTopN           = 30
	DefaultCumulativeTopN = 20
)

// Rank is a contributor's commit count.
type Rank struct {
	Author  string `json:"author"  yaml:"author"`
	Commits int    `json:"commits" yaml:"commits"`
}

// CumulativeLines is a contributor's lines added in one month and the
// running total through that month.
type CumulativeLines struct {
	Month      time.Time `json:"month"       yaml:"month"`
	Author     string    `json:"author"      yaml:"author"`
	LinesAdded int       `json:"lines_added" yaml:"lines_added"`
	Cumulative int       `json:"cumulative"  yaml:"cumulative"`
}

// Contributors lists distinct authors in first-seen order.
func Contributors(records []record.Record) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, r := range records {
		if _, ok := seen[r.Author()]; ok {
			continue
		}

		seen[r.Author()] = struct{}{}
		out = append(out, r.Author())
	}

	return out
}

// TopContributors ranks authors by commit count, descending. Ties keep the
// order in which authors first appear in records. n <= 0 uses DefaultTopN.
func TopContributors(records []record.Record, n int) []Rank {
	if n <= 0 {
		n = DefaultTopN
	}

	ranks := rankAll(records)

	return ranks[:min(n, len(ranks))]
}

func rankAll(records []record.Record) []Rank {
	index := make(map[string]int)
	ranks := []Rank{}

	for _, r := range records {
		i, ok := index[r.Author()]
		if !ok {
			i = len(ranks)
			index[r.Author()] = i
			ranks = append(ranks, Rank{Author: r.Author()})
		}

		ranks[i].Commits++
	}

	slices.SortStableFunc(ranks, func(a, b Rank) int {
		return cmp.Compare(b.Commits, a.Commits)
	})

	return ranks
}

// CumulativeLinesByTopContributors picks the n most active authors by
// commit count (n <= 0 uses DefaultCumulativeTopN), sums their lines added
// per month, and accumulates per author. Every selected author gets a row
// for every month between the first and last commit of the selection.
// Rows are grouped by author in rank order, months ascending. Authors
// outside the top n are excluded.
func CumulativeLinesByTopContributors(records []record.Record, n int) []CumulativeLines {
	if n <= 0 {
		n = DefaultCumulativeTopN
	}

	top := TopContributors(records, n)
	if len(top) == 0 {
		return []CumulativeLines{}
	}

	selected := make(map[string]map[time.Time]int, len(top))
	for _, rank := range top {
		selected[rank.Author] = make(map[time.Time]int)
	}

	var first, last time.Time

	for _, r := range records {
		byMonth, ok := selected[r.Author()]
		if !ok {
			continue
		}

		month := Month.Floor(r.CommittedOn())
		byMonth[month] += r.LinesAdded()

		if first.IsZero() || month.Before(first) {
			first = month
		}

		if month.After(last) {
			last = month
		}
	}

	months := Month.span(first, last)
	out := make([]CumulativeLines, 0, len(top)*len(months))

	for _, rank := range top {
		total := 0

		for _, month := range months {
			added := selected[rank.Author][month]
			total += added
			out = append(out, CumulativeLines{
				Month:      month,
				Author:     rank.Author,
				LinesAdded: added,
				Cumulative: total,
			})
		}
	}

	return out
}
