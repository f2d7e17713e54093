package aggregate

import (
	"maps"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Line delta variable names.
const (
	VarLinesAdded   = "lines_added"
	VarLinesDeleted = "lines_deleted"
)

// Count is the number of commits in one bucket.
type Count struct {
	Period time.Time `json:"period" yaml:"period"`
	Label  string    `json:"label"  yaml:"label"`
	Count  int       `json:"count"  yaml:"count"`
}

// LineDelta is one day's signed line change for one variable. Added lines
// are positive and deleted lines negative.
type LineDelta struct {
	Day      time.Time `json:"day"      yaml:"day"`
	Variable string    `json:"variable" yaml:"variable"`
	Value    int       `json:"value"    yaml:"value"`
}

// CumulativeCount is a month's commit count and the running total through
// that month.
type CumulativeCount struct {
	Month   time.Time `json:"month"   yaml:"month"`
	Commits int       `json:"commits" yaml:"commits"`
	Total   int       `json:"total"   yaml:"total"`
}

// CountBy counts commits per bucket of committed_on. Buckets without
// commits are absent. The result is ordered by period.
func CountBy(records []record.Record, b Bucket) []Count {
	counts := make(map[time.Time]int)
	for _, r := range records {
		counts[b.Floor(r.CommittedOn())]++
	}

	out := make([]Count, 0, len(counts))
	for _, period := range slices.SortedFunc(maps.Keys(counts), time.Time.Compare) {
		out = append(out, Count{Period: period, Label: b.Label(period), Count: counts[period]})
	}

	return out
}

// Densify reindexes counts so every bucket from start through end appears
// exactly once, zero-filled. A zero start or end defaults to the first or
// last period in counts. Counts outside the range are dropped.
func Densify(counts []Count, b Bucket, start, end time.Time) []Count {
	if len(counts) > 0 {
		if start.IsZero() {
			start = counts[0].Period
		}

		if end.IsZero() {
			end = counts[len(counts)-1].Period
		}
	}

	if start.IsZero() || end.IsZero() {
		return []Count{}
	}

	byPeriod := make(map[time.Time]int, len(counts))
	for _, c := range counts {
		byPeriod[b.Floor(c.Period)] += c.Count
	}

	periods := b.span(start, end)
	out := make([]Count, 0, len(periods))

	for _, period := range periods {
		out = append(out, Count{Period: period, Label: b.Label(period), Count: byPeriod[period]})
	}

	return out
}

// DailyCommits counts commits per calendar day. Days without commits are
// absent; use DailyCommitsDense for a gap-free series.
func DailyCommits(records []record.Record) []Count {
	return CountBy(records, Day)
}

// DailyCommitsDense counts commits for every day from start through end.
// Zero bounds default to the first and last commit day.
func DailyCommitsDense(records []record.Record, start, end time.Time) []Count {
	return Densify(CountBy(records, Day), Day, start, end)
}

// DailyLineDeltas sums added and deleted lines per day. Each day with
// commits yields two rows, lines_added (>= 0) then lines_deleted (<= 0).
func DailyLineDeltas(records []record.Record) []LineDelta {
	type sums struct{ added, deleted int }

	days := make(map[time.Time]*sums)

	for _, r := range records {
		day := Day.Floor(r.CommittedOn())

		s, ok := days[day]
		if !ok {
			s = &sums{}
			days[day] = s
		}

		s.added += r.LinesAdded()
		s.deleted += r.LinesDeleted()
	}

	out := make([]LineDelta, 0, 2*len(days))

	for _, day := range slices.SortedFunc(maps.Keys(days), time.Time.Compare) {
		s := days[day]
		out = append(out,
			LineDelta{Day: day, Variable: VarLinesAdded, Value: s.added},
			LineDelta{Day: day, Variable: VarLinesDeleted, Value: -s.deleted},
		)
	}

	return out
}

// MonthlyCumulativeCommits returns, for every month between the first and
// last commit, the month's commit count and the running total. Totals never
// decrease.
func MonthlyCumulativeCommits(records []record.Record) []CumulativeCount {
	monthly := Densify(CountBy(records, Month), Month, time.Time{}, time.Time{})
	out := make([]CumulativeCount, 0, len(monthly))
	total := 0

	for _, c := range monthly {
		total += c.Count
		out = append(out, CumulativeCount{Month: c.Period, Commits: c.Count, Total: total})
	}

	return out
}

// QuarterlyCommits counts the contributor's commits per quarter, densely
// from their first to last commit. It returns nil when contributor is
// empty and an empty slice when the contributor has no commits.
func QuarterlyCommits(records []record.Record, contributor string) []Count {
	if contributor == "" {
		return nil
	}

	var own []record.Record

	for _, r := range records {
		if r.Author() == contributor {
			own = append(own, r)
		}
	}

	return Densify(CountBy(own, Quarter), Quarter, time.Time{}, time.Time{})
}
