package record

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateHash marks a record dropped because its hash was already seen.
var ErrDuplicateHash = errors.New("duplicate commit hash")

// Warning describes a record that was skipped during conversion or
// normalization. Warnings are collected, never returned as errors.
type Warning struct {
	Hash string
	Err  error
}

// Error implements error so warnings can be logged and inspected with errors.Is.
func (w Warning) Error() string {
	if w.Hash == "" {
		return w.Err.Error()
	}

	return fmt.Sprintf("%s: %v", w.Hash, w.Err)
}

// Unwrap returns the underlying cause.
func (w Warning) Unwrap() error { return w.Err }

// Normalize stable-sorts records by commit time and drops repeated hashes,
// keeping the first occurrence. The input slice is not modified.
func Normalize(records []Record) ([]Record, []Warning) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return a.committedOn.Compare(b.committedOn)
	})

	out := make([]Record, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))

	var warnings []Warning

	for _, r := range sorted {
		if _, dup := seen[r.hash]; dup {
			warnings = append(warnings, Warning{Hash: r.hash, Err: ErrDuplicateHash})

			continue
		}

		seen[r.hash] = struct{}{}
		out = append(out, r)
	}

	return out, warnings
}

// IsSorted reports whether records are in non-decreasing commit time order.
func IsSorted(records []Record) bool {
	return slices.IsSortedFunc(records, func(a, b Record) int {
		return a.committedOn.Compare(b.committedOn)
	})
}
