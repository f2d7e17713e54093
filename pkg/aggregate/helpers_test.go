package aggregate_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

func at(date string) time.Time {
	t, err := time.Parse(time.DateTime, date)
	if err != nil {
		panic(err)
	}

	return t
}

func day(date string) time.Time {
	return at(date + " 00:00:00")
}

type commit struct {
	author  string
	when    string
	added   int
	deleted int
	merge   bool
	files   []string
}

func build(t *testing.T, commits ...commit) []record.Record {
	t.Helper()

	out := make([]record.Record, 0, len(commits))

	for i, s := range commits {
		out = append(out, record.MustNew(record.Fields{
			Hash:         fmt.Sprintf("%040x", i+1),
			Author:       s.author,
			CommittedOn:  at(s.when),
			LinesAdded:   s.added,
			LinesDeleted: s.deleted,
			IsMerge:      s.merge,
			FilesTouched: s.files,
		}))
	}

	return out
}
