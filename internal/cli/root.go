package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rmgdb/kineticdb/internal/app"
	"github.com/rmgdb/kineticdb/internal/config"
	"github.com/rmgdb/kineticdb/internal/eventstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Driver     string // overrides the configured event store driver
	DBPath     string // overrides the configured store path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kineticdb CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kineticdb",
		Short: "kineticdb - event-sourced kinetic model database",
		Long: `An event-sourced store for chemical kinetic models.

Every submitted model is appended to an event log and fanned out to the
repository and the content-addressed database. Both can be rebuilt from
the log at any time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeGeneric, msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "event store driver (memory|sqlite|badger)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite file or Badger directory")

	// Add subcommands
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newFormatter builds the formatter for one command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadConfig resolves the configuration: defaults, the config file, the
// environment and finally the command-line flags.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Driver != "" {
		cfg.Driver = opts.Driver
	}
	if opts.DBPath != "" {
		cfg.Path = opts.DBPath
		// A path alone implies the durable default.
		if opts.Driver == "" && cfg.Driver == string(eventstore.DriverMemory) {
			cfg.Driver = string(eventstore.DriverSQLite)
		}
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// openApp opens an instance for a command. Logs go to the command's error
// stream so they never mix with JSON output.
func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*app.App, error) {
	f := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("invalid configuration: %v", err), nil)
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	a, err := app.Open(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeIO, fmt.Sprintf("failed to open store: %v", err), nil)
	}
	f.VerboseLog("opened %s store %s (%s database)", cfg.Driver, cfg.Path, cfg.Database)
	return a, nil
}
