package report_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
	"github.com/Sumatoshi-tech/commitlens/pkg/report"
)

var start = time.Date(2021, 1, 10, 12, 0, 0, 0, time.UTC)

func history(t *testing.T) []record.Record {
	t.Helper()

	authors := []string{"Ann", "Bob", "Ann", "Cid", "Ann", "Bob"}
	out := make([]record.Record, 0, len(authors))

	for i, a := range authors {
		out = append(out, record.MustNew(record.Fields{
			Hash:         fmt.Sprintf("%040d", i),
			Author:       a,
			CommittedOn:  start.AddDate(0, i, 0),
			LinesAdded:   1000 * (i + 1),
			LinesDeleted: i,
			IsMerge:      i == 5,
		}))
	}

	return out
}

func TestBuild(t *testing.T) {
	t.Parallel()

	rep := report.Build("repo", history(t), 2, report.Options{TopN: 2, Months: 3, Contributor: "Ann"})

	assert.Equal(t, 6, rep.Repository.Commits)
	assert.Equal(t, 1, rep.Repository.Merges)
	require.Len(t, rep.Top, 2)
	assert.Equal(t, "Ann", rep.Top[0].Author)
	require.Len(t, rep.Monthly, 3)
	assert.Equal(t, 6, rep.Monthly[2].Total)
	require.NotNil(t, rep.Contributor)
	assert.Equal(t, 3, rep.Contributor.Commits)
	assert.Equal(t, 2, rep.Warnings)

	assert.Nil(t, report.Build("repo", history(t), 0, report.Options{}).Contributor)
}

func TestRender(t *testing.T) {
	t.Parallel()

	opts := report.Options{TopN: 3, Contributor: "Ann", NoColor: true, Now: start.AddDate(1, 0, 0)}
	rep := report.Build("github.com/acme/widgets", history(t), 1, opts)

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, rep, opts))

	out := buf.String()
	assert.Contains(t, out, "=== github.com/acme/widgets ===")
	assert.Contains(t, out, "Period: 2021-01-10 .. 2021-06-10")
	assert.Contains(t, out, "ago")
	assert.Contains(t, out, "+21,000")
	assert.Contains(t, out, "-15")
	assert.Contains(t, out, "Contributor: Ann")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "Top contributors")
	assert.Contains(t, out, "2021-06")
	assert.Contains(t, out, "1 commits skipped with warnings")
	assert.NotContains(t, out, "\x1b[", "colors must be disabled")
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.Build("empty", nil, 0, report.Options{}), report.Options{NoColor: true}))

	assert.Contains(t, buf.String(), "No commits in the selected range.")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRender_WriteError(t *testing.T) {
	t.Parallel()

	err := report.Render(brokenWriter{}, report.Build("x", history(t), 0, report.Options{}), report.Options{NoColor: true})
	require.Error(t, err)
}
