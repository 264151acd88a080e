package cli

import (
	"github.com/spf13/cobra"

	"github.com/rmgdb/kineticdb/internal/metrics"
	"github.com/rmgdb/kineticdb/internal/model"
)

// StatsResult holds the stats command JSON output.
type StatsResult struct {
	Events     int64              `json:"events"`
	Repository map[model.Kind]int `json:"repository"`
	Database   map[model.Kind]int `json:"database"`
	Metrics    []metrics.Sample   `json:"metrics"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print pipeline metrics",
		Long: `Print the pipeline metrics collected while opening the store and
catching the read models up, in the Prometheus text exposition format.
With --format json, entity counts and flattened samples are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	a, err := openApp(cmd.Context(), opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.Store.Len(cmd.Context())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, err.Error(), nil)
	}
	a.Metrics.LogLength(events)

	if !f.JSON() {
		if err := a.Metrics.WriteText(cmd.OutOrStdout()); err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		return nil
	}

	samples, err := a.Metrics.Samples()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	return f.Success(StatsResult{
		Events:     events,
		Repository: a.Repository.Snapshot().Counts(),
		Database:   a.Database.Counts(),
		Metrics:    samples,
	})
}
