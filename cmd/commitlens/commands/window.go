package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitlens/pkg/filter"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// windowFlags restricts already extracted records to a day window and
// optionally one contributor.
type windowFlags struct {
	start       string
	end         string
	contributor string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "First day of the analysis window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day of the analysis window (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.contributor, "contributor", "c", "", "Author name to select")
}

// bounds parses the window. Missing ends stay zero, meaning unbounded.
func (f *windowFlags) bounds() (start, end time.Time, err error) {
	if f.start != "" {
		start, err = record.ParseDate(f.start)
		if err != nil {
			return start, end, fmt.Errorf("--start: %w", err)
		}
	}

	if f.end != "" {
		end, err = record.ParseDate(f.end)
		if err != nil {
			return start, end, fmt.Errorf("--end: %w", err)
		}
	}

	start, end = filter.DayRange(start, end)

	return start, end, nil
}
