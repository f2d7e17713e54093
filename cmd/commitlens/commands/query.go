package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
	"github.com/Sumatoshi-tech/commitlens/pkg/config"
	"github.com/Sumatoshi-tech/commitlens/pkg/dataset"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
)

// ErrUnknownQuery is returned for names missing from the catalog.
var ErrUnknownQuery = errors.New("unknown query")

// QueryCommand holds flags and dependencies for the query command.
type QueryCommand struct {
	inputFlags
	windowFlags

	n      int
	format string

	newExtractor extractorFactory
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	return newQueryCommandWithDeps(defaultExtractor)
}

func newQueryCommandWithDeps(newExtractor extractorFactory) *cobra.Command {
	qc := &QueryCommand{newExtractor: newExtractor}

	cmd := &cobra.Command{
		Use:   "query <name> [source]",
		Short: "Run one aggregation and print its result",
		Long: `Run one aggregation from the catalog (see "commitlens queries") over a
repository or, with --input, an exported dataset, and print the result as
JSON or YAML.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: qc.run,
	}

	qc.inputFlags.register(cmd)
	qc.windowFlags.register(cmd)

	cmd.Flags().IntVar(&qc.n, "n", 0, "Ranking size for top-n queries (0 = config default)")
	cmd.Flags().StringVarP(&qc.format, "format", "f", string(dataset.FormatJSON), "Output format: json, yaml")

	return cmd
}

func (qc *QueryCommand) run(cmd *cobra.Command, args []string) error {
	name := args[0]

	if _, ok := aggregate.Catalog().Get(name); !ok {
		return fmt.Errorf("%w %q; available: %s", ErrUnknownQuery, name, strings.Join(aggregate.Catalog().Names(), ", "))
	}

	format, err := dataset.ParseFormat(qc.format)
	if err != nil {
		return err
	}

	if format == dataset.FormatCSV {
		return fmt.Errorf("%w: query results support json and yaml", dataset.ErrUnknownFormat)
	}

	start, end, err := qc.bounds()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close()

	ctx := cmd.Context()

	return sess.red.Observe(ctx, "cli.query."+name, func() error {
		records, _, loadErr := qc.load(ctx, sess, qc.newExtractor, sourceArg(args[1:]))
		if loadErr != nil {
			return loadErr
		}

		params := aggregate.Params{
			N:           rankingSize(name, qc.n, sess.cfg),
			Contributor: qc.contributor,
			Start:       start,
			End:         end,
		}

		result, runErr := aggregate.Run(name, records, params)
		if runErr != nil {
			return runErr
		}

		return writeResult(cmd.OutOrStdout(), format, result)
	})
}

// rankingSize fills an unset n from the configured ranking defaults.
func rankingSize(name string, n int, cfg *config.Config) int {
	if n > 0 {
		return n
	}

	switch name {
	case aggregate.QueryTopContributors:
		return cfg.Aggregate.TopN
	case aggregate.QueryCumulativeLinesByTopN:
		return cfg.Aggregate.CumulativeTopN
	default:
		return 0
	}
}

func writeResult(w io.Writer, format dataset.Format, result any) error {
	if format == dataset.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}
