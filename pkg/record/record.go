// Package record defines the Commit Record, the normalized unit produced by
// history traversal and consumed by the filter and aggregation stages.
package record

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Validation errors. Each is wrapped in a Warning when a record is skipped.
var (
	ErrEmptyHash        = errors.New("empty commit hash")
	ErrNegativeLines    = errors.New("negative line count")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// LineStats counts added and removed lines for one language.
type LineStats struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
}

// Fields is the mutable construction input of a Record.
type Fields struct {
	Hash         string
	Author       string
	CommittedOn  time.Time
	AuthoredOn   time.Time
	LinesAdded   int
	LinesDeleted int
	FilesTouched []string
	IsMerge      bool
	Message      string

	// Languages is only populated when language statistics were requested
	// during traversal.
	Languages map[string]LineStats
}

// Record is one commit in normalized form. It is a value type; slices and
// maps are copied on construction and on access, so a Record never changes
// after New returns.
type Record struct {
	hash         string
	author       string
	committedOn  time.Time
	authoredOn   time.Time
	linesAdded   int
	linesDeleted int
	totalLines   int
	filesTouched []string
	isMerge      bool
	message      string
	languages    map[string]LineStats
}

// New validates f and builds a Record. Timestamps are normalized to UTC at
// second precision so that serialized records round-trip exactly.
func New(f Fields) (Record, error) {
	if f.Hash == "" {
		return Record{}, ErrEmptyHash
	}

	if f.LinesAdded < 0 || f.LinesDeleted < 0 {
		return Record{}, fmt.Errorf("%w: added=%d deleted=%d", ErrNegativeLines, f.LinesAdded, f.LinesDeleted)
	}

	if f.CommittedOn.IsZero() {
		return Record{}, fmt.Errorf("%w: committed_on is unset", ErrInvalidTimestamp)
	}

	authored := f.AuthoredOn
	if authored.IsZero() {
		authored = f.CommittedOn
	}

	return Record{
		hash:         f.Hash,
		author:       validText(f.Author),
		committedOn:  normalizeTime(f.CommittedOn),
		authoredOn:   normalizeTime(authored),
		linesAdded:   f.LinesAdded,
		linesDeleted: f.LinesDeleted,
		totalLines:   f.LinesAdded + f.LinesDeleted,
		filesTouched: cloneFiles(f.FilesTouched),
		isMerge:      f.IsMerge,
		message:      validText(f.Message),
		languages:    cloneLanguages(f.Languages),
	}, nil
}

// MustNew is New for fixtures and literals known to be valid.
func MustNew(f Fields) Record {
	r, err := New(f)
	if err != nil {
		panic(err)
	}

	return r
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// validText replaces invalid UTF-8, as left by legacy-encoded commit
// messages, with U+FFFD so every serialized form carries the same text.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func cloneFiles(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = validText(f)
	}

	return out
}

func cloneLanguages(langs map[string]LineStats) map[string]LineStats {
	if len(langs) == 0 {
		return nil
	}

	return maps.Clone(langs)
}

// Hash returns the commit identifier.
func (r Record) Hash() string { return r.hash }

// Author returns the author display name.
func (r Record) Author() string { return r.author }

// CommittedOn returns the commit timestamp in UTC.
func (r Record) CommittedOn() time.Time { return r.committedOn }

// AuthoredOn returns the authoring timestamp in UTC.
func (r Record) AuthoredOn() time.Time { return r.authoredOn }

// LinesAdded returns the number of inserted lines.
func (r Record) LinesAdded() int { return r.linesAdded }

// LinesDeleted returns the number of removed lines.
func (r Record) LinesDeleted() int { return r.linesDeleted }

// TotalLines returns LinesAdded + LinesDeleted.
func (r Record) TotalLines() int { return r.totalLines }

// FilesTouched returns a copy of the touched paths in diff order.
func (r Record) FilesTouched() []string { return slices.Clone(r.filesTouched) }

// NumFiles returns the number of touched paths without copying them.
func (r Record) NumFiles() int { return len(r.filesTouched) }

// IsMerge reports whether the commit has more than one parent.
func (r Record) IsMerge() bool { return r.isMerge }

// Message returns the full commit message.
func (r Record) Message() string { return r.message }

// Languages returns a copy of the per-language line stats, or nil.
func (r Record) Languages() map[string]LineStats { return cloneLanguages(r.languages) }

// Fields returns the construction input that reproduces r.
func (r Record) Fields() Fields {
	return Fields{
		Hash:         r.hash,
		Author:       r.author,
		CommittedOn:  r.committedOn,
		AuthoredOn:   r.authoredOn,
		LinesAdded:   r.linesAdded,
		LinesDeleted: r.linesDeleted,
		FilesTouched: slices.Clone(r.filesTouched),
		IsMerge:      r.isMerge,
		Message:      r.message,
		Languages:    cloneLanguages(r.languages),
	}
}

// Equal reports whether two records carry the same data.
func (r Record) Equal(other Record) bool {
	return r.hash == other.hash &&
		r.author == other.author &&
		r.committedOn.Equal(other.committedOn) &&
		r.authoredOn.Equal(other.authoredOn) &&
		r.linesAdded == other.linesAdded &&
		r.linesDeleted == other.linesDeleted &&
		r.isMerge == other.isMerge &&
		r.message == other.message &&
		slices.Equal(r.filesTouched, other.filesTouched) &&
		maps.Equal(r.languages, other.languages)
}
