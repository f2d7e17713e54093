package aggregate

import (
	"sync"
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/filter"
	"github.com/Sumatoshi-tech/commitlens/pkg/metrics"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Query names.
const (
	QueryRepositorySummary     = "repository_summary"
	QueryContributorSummary    = "contributor_summary"
	QueryDailyCommits          = "daily_commits"
	QueryDailyCommitsDense     = "daily_commits_dense"
	QueryDailyLineDeltas       = "daily_line_deltas"
	QueryMonthlyCumulative     = "monthly_cumulative_commits"
	QueryCalendarHeatmap       = "calendar_heatmap"
	QueryTopContributors       = "top_contributors"
	QueryCumulativeLinesByTopN = "cumulative_lines_by_top_contributors"
	QueryQuarterlyCommits      = "quarterly_commits"
	QueryContributors          = "contributors"
	QueryBounds                = "bounds"
	QueryFileLanguages         = "file_languages"
	QueryLanguageLines         = "language_lines"
)

const (
	typeSummary    = "summary"
	typeTimeSeries = "time_series"
	typeRanking    = "ranking"
	typeDimension  = "dimension"
)

// Params are the optional query parameters. Start and End restrict every
// query to that commit time window. Contributor restricts sequence-level
// queries to one author and selects the subject of contributor queries.
type Params struct {
	N           int       `json:"n,omitempty"`
	Contributor string    `json:"contributor,omitempty"`
	Start       time.Time `json:"start,omitzero"`
	End         time.Time `json:"end,omitzero"`
}

// Input is what every catalog query computes over.
type Input struct {
	Records []record.Record
	Params  Params
}

// window applies the date range only.
func (in Input) window() []record.Record {
	return filter.ByDate(in.Records, in.Params.Start, in.Params.End)
}

// scoped applies the date range and the contributor filter.
func (in Input) scoped() []record.Record {
	return filter.ByContributor(in.window(), in.Params.Contributor)
}

// Query is a named aggregation over an Input.
type Query = metrics.Metric[Input, any]

var catalog = sync.OnceValue(buildCatalog)

// Catalog returns the registry of every aggregation query.
func Catalog() *metrics.Registry[Input, any] {
	return catalog()
}

// Run computes the named query. Unknown names fail with
// metrics.ErrUnknownMetric.
func Run(name string, records []record.Record, params Params) (any, error) {
	return Catalog().Compute(name, Input{Records: records, Params: params})
}

func query(name, display, typ, desc string, fn func(Input) any) Query {
	return metrics.Func[Input, any]{
		MetricMeta: metrics.MetricMeta{
			MetricName:        name,
			MetricDisplayName: display,
			MetricDescription: desc,
			MetricType:        typ,
		},
		Fn: func(in Input) (any, error) { return fn(in), nil },
	}
}

func buildCatalog() *metrics.Registry[Input, any] {
	r := metrics.NewRegistry[Input, any]()

	r.Register(query(QueryRepositorySummary, "Repository summary", typeSummary,
		"Commits, merges, distinct contributors and lines added/deleted.",
		func(in Input) any { return RepositorySummary(in.scoped()) }))
	r.Register(query(QueryContributorSummary, "Contributor summary", typeSummary,
		"Commits, line totals, added/deleted ratios, share of commits and average lines per commit for the selected contributor.",
		func(in Input) any { return ContributorSummary(in.window(), in.Params.Contributor) }))
	r.Register(query(QueryDailyCommits, "Daily commits", typeTimeSeries,
		"Commits per calendar day; days without commits are omitted.",
		func(in Input) any { return DailyCommits(in.scoped()) }))
	r.Register(query(QueryDailyCommitsDense, "Daily commits (dense)", typeTimeSeries,
		"Commits per calendar day for every day between start and end, zero-filled.",
		func(in Input) any { return DailyCommitsDense(in.scoped(), in.Params.Start, in.Params.End) }))
	r.Register(query(QueryDailyLineDeltas, "Daily line deltas", typeTimeSeries,
		"Lines added (positive) and deleted (negative) per day.",
		func(in Input) any { return DailyLineDeltas(in.scoped()) }))
	r.Register(query(QueryMonthlyCumulative, "Cumulative commits", typeTimeSeries,
		"Commits per month with the running total.",
		func(in Input) any { return MonthlyCumulativeCommits(in.scoped()) }))
	r.Register(query(QueryCalendarHeatmap, "Calendar heatmap", typeTimeSeries,
		"Commits for every day of every year with activity, with ISO week and year.",
		func(in Input) any { return CalendarHeatmap(in.scoped()) }))
	r.Register(query(QueryTopContributors, "Top contributors", typeRanking,
		"Authors ranked by commit count, truncated to n (default 30).",
		func(in Input) any { return TopContributors(in.window(), in.Params.N) }))
	r.Register(query(QueryCumulativeLinesByTopN, "Cumulative lines by top contributors", typeRanking,
		"Monthly cumulative lines added for the n most active authors (default 20).",
		func(in Input) any { return CumulativeLinesByTopContributors(in.window(), in.Params.N) }))
	r.Register(query(QueryQuarterlyCommits, "Quarterly commits", typeTimeSeries,
		"Commits per quarter for the selected contributor; null without one.",
		func(in Input) any { return QuarterlyCommits(in.window(), in.Params.Contributor) }))
	r.Register(query(QueryContributors, "Contributors", typeDimension,
		"Distinct authors in first-seen order.",
		func(in Input) any { return Contributors(in.window()) }))
	r.Register(query(QueryBounds, "Date bounds", typeDimension,
		"First and last commit time.",
		func(in Input) any { return Bounds(in.scoped()) }))
	r.Register(query(QueryFileLanguages, "File languages", typeRanking,
		"Touched files and commits per language detected from file names.",
		func(in Input) any { return FileLanguages(in.scoped()) }))
	r.Register(query(QueryLanguageLines, "Language lines", typeRanking,
		"Lines added and removed per language when extracted with language stats.",
		func(in Input) any { return LanguageLineTotals(in.scoped()) }))

	return r
}
