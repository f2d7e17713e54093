package traversal

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Sentinel errors.
var (
	// ErrSourceUnavailable is returned before any worker starts when the
	// source cannot be opened or cloned.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEmptyResult signals that traversal found no commits. It is never
	// returned by Extract; see Result.Signal.
	ErrEmptyResult = errors.New("empty result")

	// ErrPartialRange is returned when only one of since and to is given.
	ErrPartialRange = errors.New("since and to must be given together")
)

// Range bounds traversal by commit time. Both ends are inclusive; a zero
// end is unbounded.
type Range struct {
	Since time.Time
	To    time.Time
}

// ParseRange builds a Range from YYYY-MM-DD strings. Both must be set or
// both empty. The to day is included in full.
func ParseRange(since, to string) (Range, error) {
	if since == "" && to == "" {
		return Range{}, nil
	}

	if since == "" || to == "" {
		return Range{}, ErrPartialRange
	}

	start, err := record.ParseDate(since)
	if err != nil {
		return Range{}, fmt.Errorf("since: %w", err)
	}

	end, err := record.ParseDate(to)
	if err != nil {
		return Range{}, fmt.Errorf("to: %w", err)
	}

	return Range{Since: start, To: end.AddDate(0, 0, 1).Add(-time.Second)}, nil
}

// IsZero reports whether the range is unbounded.
func (r Range) IsZero() bool {
	return r.Since.IsZero() && r.To.IsZero()
}

// Contains reports whether t lies within the range.
func (r Range) Contains(t time.Time) bool {
	if !r.Since.IsZero() && t.Before(r.Since) {
		return false
	}

	if !r.To.IsZero() && t.After(r.To) {
		return false
	}

	return true
}

// Result is the outcome of one extraction.
type Result struct {
	Source string
	Range  Range

	// Records are sorted by commit time, ties in revision walk order, with
	// unique hashes.
	Records []record.Record

	// Warnings lists commits that were skipped and duplicate hashes that
	// were dropped.
	Warnings []record.Warning
}

// Empty reports whether no records were produced.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Signal returns ErrEmptyResult for an empty result and nil otherwise.
func (r *Result) Signal() error {
	if r.Empty() {
		return ErrEmptyResult
	}

	return nil
}
