package aggregate

import (
	"cmp"
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/commitlens/pkg/langs"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// LanguageFiles counts how often files of one language were touched.
type LanguageFiles struct {
	Language string `json:"language" yaml:"language"`
	Touches  int    `json:"touches"  yaml:"touches"`
	Commits  int    `json:"commits"  yaml:"commits"`
}

// LanguageLines sums per-language line changes recorded at extraction.
type LanguageLines struct {
	Language string `json:"language" yaml:"language"`
	Added    int    `json:"added"    yaml:"added"`
	Removed  int    `json:"removed"  yaml:"removed"`
}

// FileLanguages classifies every touched path by file name and counts
// touches and distinct commits per language, most touched first.
func FileLanguages(records []record.Record) []LanguageFiles {
	byLang := make(map[string]*LanguageFiles)

	for _, r := range records {
		inCommit := make(map[string]bool)

		for _, path := range r.FilesTouched() {
			lang := langs.Detect(path)

			entry, ok := byLang[lang]
			if !ok {
				entry = &LanguageFiles{Language: lang}
				byLang[lang] = entry
			}

			entry.Touches++

			if !inCommit[lang] {
				inCommit[lang] = true
				entry.Commits++
			}
		}
	}

	out := make([]LanguageFiles, 0, len(byLang))
	for _, entry := range byLang {
		out = append(out, *entry)
	}

	slices.SortFunc(out, func(a, b LanguageFiles) int {
		return cmp.Or(cmp.Compare(b.Touches, a.Touches), cmp.Compare(a.Language, b.Language))
	})

	return out
}

// LanguageLineTotals sums the per-language breakdown carried by records.
// Records extracted without language stats contribute nothing.
func LanguageLineTotals(records []record.Record) []LanguageLines {
	totals := make(map[string]record.LineStats)

	for _, r := range records {
		for lang, stats := range r.Languages() {
			t := totals[lang]
			t.Added += stats.Added
			t.Removed += stats.Removed
			totals[lang] = t
		}
	}

	out := make([]LanguageLines, 0, len(totals))
	for _, lang := range slices.Sorted(maps.Keys(totals)) {
		out = append(out, LanguageLines{Language: lang, Added: totals[lang].Added, Removed: totals[lang].Removed})
	}

	slices.SortStableFunc(out, func(a, b LanguageLines) int {
		return cmp.Compare(b.Added+b.Removed, a.Added+a.Removed)
	})

	return out
}
