// Package filter narrows a record sequence by date range and contributor.
// Filters are pure: they never modify their input, preserve order and
// commute with each other.
package filter

import (
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Criteria combines the date and contributor filters. Zero fields disable
// the corresponding filter.
type Criteria struct {
	Start       time.Time
	End         time.Time
	Contributor string
}

// Apply runs the date filter, then the contributor filter.
func Apply(records []record.Record, c Criteria) []record.Record {
	return ByContributor(ByDate(records, c.Start, c.End), c.Contributor)
}

// ByDate keeps records with start <= committed_on <= end. A zero start or
// end defaults to the earliest or latest commit time in records. An
// inverted range yields an empty result, not an error.
func ByDate(records []record.Record, start, end time.Time) []record.Record {
	if start.IsZero() && end.IsZero() {
		return clone(records)
	}

	lo, hi := Bounds(records)
	if start.IsZero() {
		start = lo
	}

	if end.IsZero() {
		end = hi
	}

	out := make([]record.Record, 0, len(records))

	if start.After(end) {
		return out
	}

	for _, r := range records {
		t := r.CommittedOn()
		if !t.Before(start) && !t.After(end) {
			out = append(out, r)
		}
	}

	return out
}

// ByContributor keeps records whose author equals target exactly. An empty
// target returns all records.
func ByContributor(records []record.Record, target string) []record.Record {
	if target == "" {
		return clone(records)
	}

	out := make([]record.Record, 0, len(records))

	for _, r := range records {
		if r.Author() == target {
			out = append(out, r)
		}
	}

	return out
}

// Bounds returns the earliest and latest commit times in records, or zero
// times for an empty input.
func Bounds(records []record.Record) (earliest, latest time.Time) {
	for i, r := range records {
		t := r.CommittedOn()
		if i == 0 || t.Before(earliest) {
			earliest = t
		}

		if i == 0 || t.After(latest) {
			latest = t
		}
	}

	return earliest, latest
}

// DayRange widens calendar dates to whole days: start moves to 00:00:00
// and end to 23:59:59 of its day, both in UTC. Zero values stay zero.
func DayRange(start, end time.Time) (time.Time, time.Time) {
	if !start.IsZero() {
		start = truncateDay(start)
	}

	if !end.IsZero() {
		end = truncateDay(end).AddDate(0, 0, 1).Add(-time.Second)
	}

	return start, end
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clone(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	copy(out, records)

	return out
}
