package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
)

func rankingFixture(t *testing.T) []commit {
	t.Helper()

	// A:5, B:3, C:3 with B seen before C.
	return []commit{
		{author: "A", when: "2021-01-01 09:00:00"},
		{author: "B", when: "2021-01-02 09:00:00"},
		{author: "C", when: "2021-01-03 09:00:00"},
		{author: "A", when: "2021-01-04 09:00:00"},
		{author: "C", when: "2021-01-05 09:00:00"},
		{author: "B", when: "2021-01-06 09:00:00"},
		{author: "A", when: "2021-01-07 09:00:00"},
		{author: "C", when: "2021-01-08 09:00:00"},
		{author: "B", when: "2021-01-09 09:00:00"},
		{author: "A", when: "2021-01-10 09:00:00"},
		{author: "A", when: "2021-01-11 09:00:00"},
	}
}

func TestTopContributors_TieBreakFirstSeen(t *testing.T) {
	t.Parallel()

	got := aggregate.TopContributors(build(t, rankingFixture(t)...), 2)

	assert.Equal(t, []aggregate.Rank{{Author: "A", Commits: 5}, {Author: "B", Commits: 3}}, got)
}

func TestTopContributors_DefaultAndOversizedN(t *testing.T) {
	t.Parallel()

	records := build(t, rankingFixture(t)...)

	assert.Len(t, aggregate.TopContributors(records, 0), 3)
	assert.Len(t, aggregate.TopContributors(records, 100), 3)
	assert.Empty(t, aggregate.TopContributors(nil, 5))
}

func TestContributors_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B", "C"}, aggregate.Contributors(build(t, rankingFixture(t)...)))
	assert.Empty(t, aggregate.Contributors(nil))
}

func TestCumulativeLinesByTopContributors(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-05 09:00:00", added: 10},
		commit{author: "A", when: "2021-01-06 09:00:00", added: 5},
		commit{author: "B", when: "2021-03-01 09:00:00", added: 7},
		commit{author: "A", when: "2021-03-09 09:00:00", added: 1},
		commit{author: "C", when: "2021-06-01 09:00:00", added: 100},
	)

	got := aggregate.CumulativeLinesByTopContributors(records, 2)

	assert.Equal(t, []aggregate.CumulativeLines{
		{Month: day("2021-01-01"), Author: "A", LinesAdded: 15, Cumulative: 15},
		{Month: day("2021-02-01"), Author: "A", LinesAdded: 0, Cumulative: 15},
		{Month: day("2021-03-01"), Author: "A", LinesAdded: 1, Cumulative: 16},
		{Month: day("2021-01-01"), Author: "B", LinesAdded: 0, Cumulative: 0},
		{Month: day("2021-02-01"), Author: "B", LinesAdded: 0, Cumulative: 0},
		{Month: day("2021-03-01"), Author: "B", LinesAdded: 7, Cumulative: 7},
	}, got, "C is outside the top 2 and its months are not part of the span")
}

func TestCumulativeLinesByTopContributors_OneRowPerKey(t *testing.T) {
	t.Parallel()

	got := aggregate.CumulativeLinesByTopContributors(build(t, rankingFixture(t)...), 0)

	type key struct {
		author string
		month  string
	}

	seen := make(map[key]bool)
	for _, row := range got {
		k := key{row.Author, row.Month.Format("2006-01")}
		require.False(t, seen[k], "duplicate row %v", k)
		seen[k] = true
	}

	assert.Len(t, got, 3)
	assert.Empty(t, aggregate.CumulativeLinesByTopContributors(nil, 5))
}
