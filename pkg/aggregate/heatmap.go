package aggregate

import (
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// HeatmapCell is one calendar day of a commit heatmap.
type HeatmapCell struct {
	Day     time.Time    `json:"day"      yaml:"day"`
	Count   int          `json:"count"    yaml:"count"`
	Year    int          `json:"year"     yaml:"year"`
	ISOWeek int          `json:"iso_week" yaml:"iso_week"`
	Weekday time.Weekday `json:"weekday"  yaml:"weekday"`
}

// CalendarHeatmap returns one cell per day from January 1 of the first
// commit's year through December 31 of the last commit's year, with zero
// counts for days without commits. Year is the calendar year of the day,
// ISOWeek its ISO 8601 week number.
func CalendarHeatmap(records []record.Record) []HeatmapCell {
	daily := CountBy(records, Day)
	if len(daily) == 0 {
		return []HeatmapCell{}
	}

	first := daily[0].Period
	last := daily[len(daily)-1].Period
	start := time.Date(first.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	dense := Densify(daily, Day, start, end)
	out := make([]HeatmapCell, 0, len(dense))

	for _, c := range dense {
		_, week := c.Period.ISOWeek()
		out = append(out, HeatmapCell{
			Day:     c.Period,
			Count:   c.Count,
			Year:    c.Period.Year(),
			ISOWeek: week,
			Weekday: c.Period.Weekday(),
		})
	}

	return out
}
