package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
)

// NewQueriesCommand creates the command listing the aggregation catalog.
func NewQueriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the available aggregation queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := table.NewWriter()
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Name", "Type", "Description"})

			for _, q := range aggregate.Catalog().All() {
				tw.AppendRow(table.Row{q.Name(), q.Type(), q.Description()})
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), tw.Render())

			return err
		},
	}
}
