package aggregate_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
	"github.com/Sumatoshi-tech/commitlens/pkg/metrics"
)

func TestCatalog_ListsEveryQuery(t *testing.T) {
	t.Parallel()

	names := aggregate.Catalog().Names()

	assert.Equal(t, []string{
		aggregate.QueryRepositorySummary,
		aggregate.QueryContributorSummary,
		aggregate.QueryDailyCommits,
		aggregate.QueryDailyCommitsDense,
		aggregate.QueryDailyLineDeltas,
		aggregate.QueryMonthlyCumulative,
		aggregate.QueryCalendarHeatmap,
		aggregate.QueryTopContributors,
		aggregate.QueryCumulativeLinesByTopN,
		aggregate.QueryQuarterlyCommits,
		aggregate.QueryContributors,
		aggregate.QueryBounds,
		aggregate.QueryFileLanguages,
		aggregate.QueryLanguageLines,
	}, names)

	for _, q := range aggregate.Catalog().All() {
		assert.NotEmpty(t, q.DisplayName(), q.Name())
		assert.NotEmpty(t, q.Description(), q.Name())
		assert.NotEmpty(t, q.Type(), q.Name())
	}
}

func TestRun_EveryQueryHandlesEmptyInput(t *testing.T) {
	t.Parallel()

	for _, name := range aggregate.Catalog().Names() {
		_, err := aggregate.Run(name, nil, aggregate.Params{Contributor: "A"})
		require.NoError(t, err, name)

		out, err := aggregate.Run(name, nil, aggregate.Params{})
		require.NoError(t, err, name)

		_, err = json.Marshal(out)
		require.NoError(t, err, name)
	}
}

func TestRun_AppliesWindowAndContributor(t *testing.T) {
	t.Parallel()

	records := build(t, rankingFixture(t)...)
	params := aggregate.Params{
		Contributor: "B",
		Start:       day("2021-01-02"),
		End:         at("2021-01-06 23:59:59"),
		N:           1,
	}

	summary, err := aggregate.Run(aggregate.QueryRepositorySummary, records, params)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.(aggregate.RepositoryStats).Commits)

	contributor, err := aggregate.Run(aggregate.QueryContributorSummary, records, params)
	require.NoError(t, err)

	stats := contributor.(aggregate.ContributorStats)
	assert.Equal(t, 2, stats.Commits)
	assert.InDelta(t, 0.4, stats.PctCommits, 1e-9, "share of the five commits in the window")

	top, err := aggregate.Run(aggregate.QueryTopContributors, records, params)
	require.NoError(t, err)
	assert.Equal(t, []aggregate.Rank{{Author: "B", Commits: 2}}, top,
		"rankings ignore the contributor selector")

	dense, err := aggregate.Run(aggregate.QueryDailyCommitsDense, records, params)
	require.NoError(t, err)
	assert.Len(t, dense, 5)
}

func TestRun_UnknownQuery(t *testing.T) {
	t.Parallel()

	_, err := aggregate.Run("nope", nil, aggregate.Params{})
	require.ErrorIs(t, err, metrics.ErrUnknownMetric)
}
