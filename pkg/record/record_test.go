package record_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

var baseTime = time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)

func fields(hash string, offset time.Duration) record.Fields {
	return record.Fields{
		Hash:         hash,
		Author:       "Alice",
		CommittedOn:  baseTime.Add(offset),
		AuthoredOn:   baseTime.Add(offset),
		LinesAdded:   3,
		LinesDeleted: 1,
		FilesTouched: []string{"main.go"},
		Message:      "msg",
	}
}

func TestNew_DerivesTotalLines(t *testing.T) {
	t.Parallel()

	r, err := record.New(fields("a", 0))
	require.NoError(t, err)

	assert.Equal(t, 4, r.TotalLines())
	assert.Equal(t, "a", r.Hash())
	assert.Equal(t, "Alice", r.Author())
	assert.Equal(t, []string{"main.go"}, r.FilesTouched())
	assert.Nil(t, r.Languages())
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*record.Fields)
		want   error
	}{
		{"empty hash", func(f *record.Fields) { f.Hash = "" }, record.ErrEmptyHash},
		{"negative added", func(f *record.Fields) { f.LinesAdded = -1 }, record.ErrNegativeLines},
		{"negative deleted", func(f *record.Fields) { f.LinesDeleted = -5 }, record.ErrNegativeLines},
		{"zero commit time", func(f *record.Fields) { f.CommittedOn = time.Time{} }, record.ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := fields("x", 0)
			tt.mutate(&f)

			_, err := record.New(f)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNew_NormalizesTimestamps(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("UTC+3", 3*60*60)
	f := fields("a", 0)
	f.CommittedOn = time.Date(2021, 1, 1, 15, 0, 0, 999, zone)
	f.AuthoredOn = time.Time{}

	r := record.MustNew(f)

	assert.Equal(t, time.UTC, r.CommittedOn().Location())
	assert.Equal(t, baseTime, r.CommittedOn())
	assert.Equal(t, r.CommittedOn(), r.AuthoredOn())
}

func TestRecord_IsImmutable(t *testing.T) {
	t.Parallel()

	f := fields("a", 0)
	f.Languages = map[string]record.LineStats{"Go": {Added: 3, Removed: 1}}

	r := record.MustNew(f)

	f.FilesTouched[0] = "changed.go"
	f.Languages["Go"] = record.LineStats{}

	files := r.FilesTouched()
	files[0] = "mutated.go"

	langs := r.Languages()
	langs["Python"] = record.LineStats{Added: 1}

	assert.Equal(t, []string{"main.go"}, r.FilesTouched())
	assert.Equal(t, map[string]record.LineStats{"Go": {Added: 3, Removed: 1}}, r.Languages())
}

func TestNew_ReplacesInvalidUTF8(t *testing.T) {
	t.Parallel()

	f := fields("a", 0)
	f.Author = "Jos\xe9"
	f.Message = "caf\xe9 latin1\n"
	f.FilesTouched = []string{"docs/r\xe9sum\xe9.txt", "main.go"}

	r := record.MustNew(f)

	assert.Equal(t, "Jos\uFFFD", r.Author())
	assert.Equal(t, "caf\uFFFD latin1\n", r.Message())
	assert.Equal(t, []string{"docs/r\uFFFDsum\uFFFD.txt", "main.go"}, r.FilesTouched())
	assert.True(t, r.Equal(record.MustNew(r.Fields())))
}

func TestRecord_FieldsRoundTrip(t *testing.T) {
	t.Parallel()

	r := record.MustNew(fields("a", time.Hour))
	again := record.MustNew(r.Fields())

	assert.True(t, r.Equal(again))
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	got, err := record.ParseTime("2021-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), got)

	got, err = record.ParseTime("2021-01-02T05:04:05+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), got)

	_, err = record.ParseTime("yesterday")
	require.ErrorIs(t, err, record.ErrInvalidTimestamp)

	assert.Equal(t, "2021-01-02 03:04:05", record.FormatTime(got))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := record.ParseDate("2021-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), got)

	_, err = record.ParseDate("04/03/2021")
	require.ErrorIs(t, err, record.ErrInvalidTimestamp)
}

func TestNormalize_SortsAndDedups(t *testing.T) {
	t.Parallel()

	in := []record.Record{
		record.MustNew(fields("c", 2*time.Hour)),
		record.MustNew(fields("a", 0)),
		record.MustNew(fields("b", 0)),
		record.MustNew(fields("a", time.Hour)),
	}

	out, warnings := record.Normalize(in)

	hashes := make([]string, 0, len(out))
	for _, r := range out {
		hashes = append(hashes, r.Hash())
	}

	assert.Equal(t, []string{"a", "b", "c"}, hashes)
	require.Len(t, warnings, 1)
	assert.Equal(t, "a", warnings[0].Hash)
	assert.ErrorIs(t, warnings[0], record.ErrDuplicateHash)

	// Input order untouched.
	assert.Equal(t, "c", in[0].Hash())
}

func TestWarning_Error(t *testing.T) {
	t.Parallel()

	w := record.Warning{Hash: "abc", Err: record.ErrNegativeLines}
	assert.Equal(t, "abc: negative line count", w.Error())
	assert.True(t, errors.Is(w, record.ErrNegativeLines))

	assert.Equal(t, "negative line count", record.Warning{Err: record.ErrNegativeLines}.Error())
}

func TestNormalize_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		in := make([]record.Record, 0, n)

		for i := range n {
			hash := fmt.Sprintf("h%d", rapid.IntRange(0, 15).Draw(t, fmt.Sprintf("hash%d", i)))
			offset := time.Duration(rapid.IntRange(0, 72).Draw(t, fmt.Sprintf("offset%d", i))) * time.Hour
			in = append(in, record.MustNew(fields(hash, offset)))
		}

		out, warnings := record.Normalize(in)

		if !record.IsSorted(out) {
			t.Fatalf("output not sorted")
		}

		seen := map[string]bool{}
		for _, r := range out {
			if seen[r.Hash()] {
				t.Fatalf("duplicate hash %s", r.Hash())
			}

			seen[r.Hash()] = true
		}

		if len(out)+len(warnings) != len(in) {
			t.Fatalf("lost records: in=%d out=%d warnings=%d", len(in), len(out), len(warnings))
		}
	})
}
