package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitlens/pkg/dataset"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
)

// ExtractCommand holds flags and dependencies for the extract command.
type ExtractCommand struct {
	since        string
	to           string
	outputPath   string
	outputFormat string

	newExtractor extractorFactory
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	return newExtractCommandWithDeps(defaultExtractor)
}

func newExtractCommandWithDeps(newExtractor extractorFactory) *cobra.Command {
	ec := &ExtractCommand{newExtractor: newExtractor}

	cmd := &cobra.Command{
		Use:   "extract <source>",
		Short: "Extract the commit history of a repository into a dataset",
		Long: `Extract the commit history of a repository into a dataset.

The source is a path on this machine or a remote URL
(e.g. https://github.com/owner/repo.git). Without --output-path the
dataset is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: ec.run,
	}

	cmd.Flags().StringVarP(&ec.since, "since", "s", "", "First day to extract (YYYY-MM-DD); requires --to")
	cmd.Flags().StringVarP(&ec.to, "to", "t", "", "Last day to extract (YYYY-MM-DD); requires --since")
	cmd.Flags().StringVarP(&ec.outputPath, "output-path", "o", "", "Path of the output file (.lz4 suffix compresses)")
	cmd.Flags().StringVarP(&ec.outputFormat, "output-format", "f", "",
		"Format of the output: csv, json, yaml (default: from --output-path, else csv)")

	return cmd
}

func (ec *ExtractCommand) run(cmd *cobra.Command, args []string) error {
	format, err := ec.resolveFormat()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer sess.close()

	ctx := cmd.Context()
	source := args[0]

	records, _, err := extract(ctx, sess, ec.newExtractor, source, ec.since, ec.to)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d commits downloaded for %s\n", len(records), source)

	if ec.outputPath == "" {
		return dataset.Export(cmd.OutOrStdout(), format, records)
	}

	err = dataset.ExportFile(ctx, ec.outputPath, format, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s exported\n", ec.outputPath)

	return nil
}

// resolveFormat picks the explicit format, else the output extension, else CSV.
func (ec *ExtractCommand) resolveFormat() (dataset.Format, error) {
	if ec.outputFormat != "" {
		return dataset.ParseFormat(ec.outputFormat)
	}

	if ec.outputPath != "" {
		format, _, err := dataset.FormatFromPath(ec.outputPath)

		return format, err
	}

	return dataset.FormatCSV, nil
}
