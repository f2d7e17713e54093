// Package dataset serializes commit record sequences to CSV, JSON and YAML
// and ingests them back, optionally LZ4-framed. total_lines is never
// written; it is recomputed on ingestion.
package dataset

import (
	"fmt"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Column names, in CSV order.
const (
	colHash         = "hash"
	colAuthor       = "author"
	colCommittedOn  = "committed_on"
	colAuthoredOn   = "authored_on"
	colLinesAdded   = "lines_added"
	colLinesDeleted = "lines_deleted"
	colFilesTouched = "files_touched"
	colIsMerge      = "is_merge"
	colMessage      = "message"
)

// Columns is the CSV header.
var Columns = []string{
	colHash, colAuthor, colCommittedOn, colAuthoredOn,
	colLinesAdded, colLinesDeleted, colFilesTouched, colIsMerge, colMessage,
}

// Row is the serialized form of a record. Timestamps use record.TimeLayout.
type Row struct {
	Hash         string                      `json:"hash"                yaml:"hash"`
	Author       string                      `json:"author"              yaml:"author"`
	CommittedOn  string                      `json:"committed_on"        yaml:"committed_on"`
	AuthoredOn   string                      `json:"authored_on"         yaml:"authored_on"`
	LinesAdded   int                         `json:"lines_added"         yaml:"lines_added"`
	LinesDeleted int                         `json:"lines_deleted"       yaml:"lines_deleted"`
	FilesTouched []string                    `json:"files_touched"       yaml:"files_touched"`
	IsMerge      bool                        `json:"is_merge"            yaml:"is_merge"`
	Message      string                      `json:"message"             yaml:"message"`
	Languages    map[string]record.LineStats `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// FromRecord converts r to its serialized form.
func FromRecord(r record.Record) Row {
	return Row{
		Hash:         r.Hash(),
		Author:       r.Author(),
		CommittedOn:  record.FormatTime(r.CommittedOn()),
		AuthoredOn:   record.FormatTime(r.AuthoredOn()),
		LinesAdded:   r.LinesAdded(),
		LinesDeleted: r.LinesDeleted(),
		FilesTouched: r.FilesTouched(),
		IsMerge:      r.IsMerge(),
		Message:      r.Message(),
		Languages:    r.Languages(),
	}
}

// Record validates the row and builds a record from it. An empty
// authored_on falls back to committed_on.
func (row Row) Record() (record.Record, error) {
	committed, err := record.ParseTime(row.CommittedOn)
	if err != nil {
		return record.Record{}, fmt.Errorf("%s: %w", colCommittedOn, err)
	}

	f := record.Fields{
		Hash:         row.Hash,
		Author:       row.Author,
		CommittedOn:  committed,
		LinesAdded:   row.LinesAdded,
		LinesDeleted: row.LinesDeleted,
		FilesTouched: row.FilesTouched,
		IsMerge:      row.IsMerge,
		Message:      row.Message,
		Languages:    row.Languages,
	}

	if row.AuthoredOn != "" {
		f.AuthoredOn, err = record.ParseTime(row.AuthoredOn)
		if err != nil {
			return record.Record{}, fmt.Errorf("%s: %w", colAuthoredOn, err)
		}
	}

	return record.New(f)
}

// Rows converts records to rows.
func Rows(records []record.Record) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = FromRecord(r)
	}

	return rows
}
