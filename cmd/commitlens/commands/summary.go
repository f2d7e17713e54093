package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitlens/pkg/filter"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
	"github.com/Sumatoshi-tech/commitlens/pkg/report"
)

// SummaryCommand holds flags and dependencies for the summary command.
type SummaryCommand struct {
	inputFlags
	windowFlags

	topN    int
	months  int
	noColor bool

	newExtractor extractorFactory
	now          func() time.Time
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	return newSummaryCommandWithDeps(defaultExtractor, time.Now)
}

func newSummaryCommandWithDeps(newExtractor extractorFactory, now func() time.Time) *cobra.Command {
	sc := &SummaryCommand{newExtractor: newExtractor, now: now}

	cmd := &cobra.Command{
		Use:   "summary [source]",
		Short: "Print repository and contributor statistics",
		Long: `Print repository totals, top contributors and recent monthly activity.

Reads a repository (path or URL) or, with --input, an exported dataset.
--start/--end narrow the analysis window after extraction; --contributor
adds a section for one author.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sc.run,
	}

	sc.inputFlags.register(cmd)
	sc.windowFlags.register(cmd)

	cmd.Flags().IntVarP(&sc.topN, "top", "n", 0, "Number of top contributors (0 = aggregate.top_n from config)")
	cmd.Flags().IntVar(&sc.months, "months", 0, "Number of recent months in the activity table (0 = 12)")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (sc *SummaryCommand) run(cmd *cobra.Command, args []string) error {
	start, end, err := sc.bounds()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close()

	ctx := cmd.Context()

	return sess.red.Observe(ctx, "cli.summary", func() error {
		records, warnings, loadErr := sc.load(ctx, sess, sc.newExtractor, sourceArg(args))
		if loadErr != nil {
			return loadErr
		}

		opts := report.Options{
			TopN:        sc.topN,
			Months:      sc.months,
			Contributor: sc.contributor,
			NoColor:     sc.noColor,
			Now:         sc.now(),
		}
		if opts.TopN <= 0 {
			opts.TopN = sess.cfg.Aggregate.TopN
		}

		name := sourceArg(args)
		if name == "" {
			name = sc.input
		}

		rep := report.Build(name, filter.ByDate(records, start, end), len(warnings), opts)

		return report.Render(cmd.OutOrStdout(), rep, opts)
	})
}
