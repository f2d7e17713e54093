// Package report renders a plain-text overview of a record sequence:
// repository totals, an optional contributor breakdown, top contributors
// and recent monthly activity.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

const (
	percentageValue  = 100
	defaultMonths    = 12
	msgNoCommitsSeen = "No commits in the selected range."
)

// Options controls rendering.
type Options struct {
	// TopN bounds the contributor table. Zero uses aggregate.DefaultTopN.
	TopN int
	// Months bounds the activity table to the most recent months.
	Months int
	// Contributor adds a per-contributor section when set.
	Contributor string
	// NoColor disables ANSI colors.
	NoColor bool
	// Now anchors relative dates. Zero uses time.Now.
	Now time.Time
}

// Report is the data behind a rendered overview.
type Report struct {
	Source      string
	Span        aggregate.Span
	Repository  aggregate.RepositoryStats
	Contributor *aggregate.ContributorStats
	Top         []aggregate.Rank
	Monthly     []aggregate.CumulativeCount
	Warnings    int
}

// Build computes a Report from records.
func Build(source string, records []record.Record, warnings int, opts Options) Report {
	rep := Report{
		Source:     source,
		Span:       aggregate.Bounds(records),
		Repository: aggregate.RepositorySummary(records),
		Top:        aggregate.TopContributors(records, opts.TopN),
		Monthly:    aggregate.MonthlyCumulativeCommits(records),
		Warnings:   warnings,
	}

	if opts.Contributor != "" {
		stats := aggregate.ContributorSummary(records, opts.Contributor)
		rep.Contributor = &stats
	}

	months := opts.Months
	if months <= 0 {
		months = defaultMonths
	}

	if len(rep.Monthly) > months {
		rep.Monthly = rep.Monthly[len(rep.Monthly)-months:]
	}

	return rep
}

// Render writes rep to w.
func Render(w io.Writer, rep Report, opts Options) error {
	p := newPalette(opts.NoColor)

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var sections []string

	sections = append(sections, p.heading.Sprintf("=== %s ===", rep.Source))

	if rep.Repository.Commits == 0 {
		sections = append(sections, msgNoCommitsSeen)

		return write(w, sections)
	}

	sections = append(sections, fmt.Sprintf("Period: %s .. %s (last commit %s)",
		rep.Span.First.Format(time.DateOnly),
		rep.Span.Last.Format(time.DateOnly),
		humanize.RelTime(rep.Span.Last, now, "ago", "from now"),
	))

	sections = append(sections, p.title.Sprint("Repository")+"\n"+repositoryTable(rep.Repository, p))

	if rep.Contributor != nil {
		sections = append(sections, p.title.Sprintf("Contributor: %s", rep.Contributor.Contributor)+"\n"+
			contributorTable(*rep.Contributor, p))
	}

	sections = append(sections, p.title.Sprint("Top contributors")+"\n"+topTable(rep.Top, rep.Repository.Commits))
	sections = append(sections, p.title.Sprint("Monthly activity")+"\n"+monthlyTable(rep.Monthly))

	if rep.Warnings > 0 {
		sections = append(sections, p.warn.Sprintf("%s commits skipped with warnings", humanize.Comma(int64(rep.Warnings))))
	}

	return write(w, sections)
}

func write(w io.Writer, sections []string) error {
	if _, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

type palette struct {
	heading *color.Color
	title   *color.Color
	added   *color.Color
	deleted *color.Color
	warn    *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading: color.New(color.FgCyan, color.Bold),
		title:   color.New(color.Bold),
		added:   color.New(color.FgGreen),
		deleted: color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
	}

	for _, c := range []*color.Color{p.heading, p.title, p.added, p.deleted, p.warn} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return p
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = true

	return tbl
}

func rightAligned(numbers ...int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, len(numbers))
	for _, n := range numbers {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}

	return cfgs
}

func percent(ratio float64) string {
	return humanize.FtoaWithDigits(ratio*percentageValue, 1) + "%"
}

func repositoryTable(s aggregate.RepositoryStats, p palette) string {
	tbl := newTable()
	tbl.SetColumnConfigs(rightAligned(2))
	tbl.AppendRows([]table.Row{
		{"Commits", humanize.Comma(int64(s.Commits))},
		{"Merges", humanize.Comma(int64(s.Merges))},
		{"Contributors", humanize.Comma(int64(s.Contributors))},
		{"Lines added", p.added.Sprint("+" + humanize.Comma(int64(s.LinesAdded)))},
		{"Lines deleted", p.deleted.Sprint("-" + humanize.Comma(int64(s.LinesDeleted)))},
	})

	return tbl.Render()
}

func contributorTable(s aggregate.ContributorStats, p palette) string {
	tbl := newTable()
	tbl.SetColumnConfigs(rightAligned(2))
	tbl.AppendRows([]table.Row{
		{"Commits", humanize.Comma(int64(s.Commits))},
		{"Share of commits", percent(s.PctCommits)},
		{"Lines changed", humanize.Comma(int64(s.TotalLines))},
		{"Added", p.added.Sprintf("+%s (%s)", humanize.Comma(int64(s.LinesAdded)), percent(s.PctAdded))},
		{"Deleted", p.deleted.Sprintf("-%s (%s)", humanize.Comma(int64(s.LinesDeleted)), percent(s.PctDeleted))},
		{"Lines per commit", humanize.FtoaWithDigits(s.AvgLinesPerCommit, 1)},
	})

	return tbl.Render()
}

func topTable(ranks []aggregate.Rank, total int) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Author", "Commits", "Share"})
	tbl.SetColumnConfigs(rightAligned(1, 3, 4))

	for i, r := range ranks {
		share := 0.0
		if total > 0 {
			share = float64(r.Commits) / float64(total)
		}

		tbl.AppendRow(table.Row{i + 1, r.Author, humanize.Comma(int64(r.Commits)), percent(share)})
	}

	return tbl.Render()
}

func monthlyTable(months []aggregate.CumulativeCount) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Month", "Commits", "Total"})
	tbl.SetColumnConfigs(rightAligned(2, 3))

	for _, m := range months {
		tbl.AppendRow(table.Row{
			aggregate.Month.Label(m.Month),
			humanize.Comma(int64(m.Commits)),
			humanize.Comma(int64(m.Total)),
		})
	}

	return tbl.Render()
}
