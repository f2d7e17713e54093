package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
)

func TestRepositorySummary(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-01 09:00:00", added: 10, deleted: 2},
		commit{author: "B", when: "2021-01-02 09:00:00", added: 3, deleted: 4, merge: true},
		commit{author: "A", when: "2021-01-03 09:00:00", added: 1, deleted: 0},
	)

	assert.Equal(t, aggregate.RepositoryStats{
		Commits:      3,
		Merges:       1,
		Contributors: 2,
		LinesAdded:   14,
		LinesDeleted: 6,
	}, aggregate.RepositorySummary(records))

	assert.Equal(t, aggregate.RepositoryStats{}, aggregate.RepositorySummary(nil))
}

func TestContributorSummary(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-01 09:00:00", added: 6, deleted: 2},
		commit{author: "B", when: "2021-01-02 09:00:00", added: 3, deleted: 4},
		commit{author: "A", when: "2021-01-03 09:00:00", added: 2, deleted: 0},
		commit{author: "C", when: "2021-01-04 09:00:00"},
	)

	got := aggregate.ContributorSummary(records, "A")

	assert.Equal(t, "A", got.Contributor)
	assert.Equal(t, 2, got.Commits)
	assert.Equal(t, 8, got.LinesAdded)
	assert.Equal(t, 2, got.LinesDeleted)
	assert.Equal(t, 10, got.TotalLines)
	assert.InDelta(t, 0.8, got.PctAdded, 1e-9)
	assert.InDelta(t, 0.2, got.PctDeleted, 1e-9)
	assert.InDelta(t, 0.5, got.PctCommits, 1e-9)
	assert.InDelta(t, 5.0, got.AvgLinesPerCommit, 1e-9)
}

func TestContributorSummary_ZeroSentinels(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-01 09:00:00", added: 6, deleted: 2},
		commit{author: "C", when: "2021-01-04 09:00:00"},
	)

	absent := aggregate.ContributorSummary(records, "nobody")
	assert.Equal(t, aggregate.ContributorStats{Contributor: "nobody"}, absent)

	noLines := aggregate.ContributorSummary(records, "C")
	assert.Equal(t, 1, noLines.Commits)
	assert.Zero(t, noLines.PctAdded)
	assert.Zero(t, noLines.PctDeleted)
	assert.Zero(t, noLines.AvgLinesPerCommit)
	assert.InDelta(t, 0.5, noLines.PctCommits, 1e-9)

	assert.Equal(t, aggregate.ContributorStats{Contributor: "A"}, aggregate.ContributorSummary(nil, "A"))
}

func TestContributorSummary_NoContributorIsZero(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-01 09:00:00", added: 6, deleted: 2},
		commit{author: "C", when: "2021-01-04 09:00:00", added: 2},
	)

	assert.Equal(t, aggregate.ContributorStats{}, aggregate.ContributorSummary(records, ""))
	assert.Nil(t, aggregate.QuarterlyCommits(records, ""))
}

func TestBounds(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-03 09:00:00"},
		commit{author: "B", when: "2021-01-01 09:00:00"},
	)

	assert.Equal(t, aggregate.Span{First: at("2021-01-01 09:00:00"), Last: at("2021-01-03 09:00:00")},
		aggregate.Bounds(records))
	assert.Equal(t, aggregate.Span{}, aggregate.Bounds(nil))
}
