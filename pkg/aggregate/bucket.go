// Package aggregate computes grouped, windowed and cumulative statistics
// over commit record sequences. Every function is pure: it reads its input,
// never modifies it, and returns zero or empty values for empty input
// instead of failing.
package aggregate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownBucket is returned by ParseBucket for unsupported names.
var ErrUnknownBucket = errors.New("unknown bucket")

// Bucket is a calendar grouping key. All buckets are computed in UTC.
type Bucket int

// Supported buckets.
const (
	Day Bucket = iota
	Month
	Quarter
)

// ParseBucket parses "day", "month" or "quarter".
func ParseBucket(name string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "day", "daily":
		return Day, nil
	case "month", "monthly":
		return Month, nil
	case "quarter", "quarterly":
		return Quarter, nil
	default:
		return Day, fmt.Errorf("%w: %q", ErrUnknownBucket, name)
	}
}

func (b Bucket) String() string {
	switch b {
	case Day:
		return "day"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// Floor returns the start of the bucket containing t.
func (b Bucket) Floor(t time.Time) time.Time {
	t = t.UTC()

	switch b {
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Quarter:
		first := time.Month((int(t.Month())-1)/3*3 + 1)

		return time.Date(t.Year(), first, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the bucket after the one containing t.
func (b Bucket) Next(t time.Time) time.Time {
	start := b.Floor(t)

	switch b {
	case Month:
		return start.AddDate(0, 1, 0)
	case Quarter:
		return start.AddDate(0, 3, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Label formats the bucket containing t: 2021-01-31, 2021-01 or 2021-Q1.
func (b Bucket) Label(t time.Time) string {
	t = t.UTC()

	switch b {
	case Month:
		return t.Format("2006-01")
	case Quarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	default:
		return t.Format(time.DateOnly)
	}
}

// span returns every bucket start from Floor(start) through Floor(end).
// It returns an empty slice when start is after end.
func (b Bucket) span(start, end time.Time) []time.Time {
	first, last := b.Floor(start), b.Floor(end)
	out := []time.Time{}

	for t := first; !t.After(last); t = b.Next(t) {
		out = append(out, t)
	}

	return out
}
