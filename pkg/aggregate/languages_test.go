package aggregate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
	"github.com/Sumatoshi-tech/commitlens/pkg/langs"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

func TestFileLanguages(t *testing.T) {
	t.Parallel()

	records := build(t,
		commit{author: "A", when: "2021-01-01 09:00:00", files: []string{"main.go", "pkg/util.go", "data/blob.zzzunknown"}},
		commit{author: "B", when: "2021-01-02 09:00:00", files: []string{"tool.py", "cmd/run.go"}},
	)

	got := aggregate.FileLanguages(records)

	assert.Equal(t, []aggregate.LanguageFiles{
		{Language: "Go", Touches: 3, Commits: 2},
		{Language: "Python", Touches: 1, Commits: 1},
		{Language: langs.Other, Touches: 1, Commits: 1},
	}, got)
	assert.Empty(t, aggregate.FileLanguages(nil))
}

func TestLanguageLineTotals(t *testing.T) {
	t.Parallel()

	when := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []record.Record{
		record.MustNew(record.Fields{Hash: "a", Author: "A", CommittedOn: when, Languages: map[string]record.LineStats{
			"Go": {Added: 3, Removed: 1}, "Python": {Added: 1},
		}}),
		record.MustNew(record.Fields{Hash: "b", Author: "A", CommittedOn: when, Languages: map[string]record.LineStats{
			"Go": {Added: 2},
		}}),
		record.MustNew(record.Fields{Hash: "c", Author: "A", CommittedOn: when}),
	}

	assert.Equal(t, []aggregate.LanguageLines{
		{Language: "Go", Added: 5, Removed: 1},
		{Language: "Python", Added: 1},
	}, aggregate.LanguageLineTotals(records))
}
