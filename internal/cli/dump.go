package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmgdb/kineticdb/internal/model"
)

// DumpResult maps each kind to the sorted content keys in the database.
type DumpResult map[model.Kind][]string

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the content keys of every database bucket",
		Long: `Print the sorted content keys held by the database, per kind.

Two stores with equal dumps hold the same content regardless of the order
their models were appended in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, cmd)
		},
	}
}

func runDump(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	a, err := openApp(cmd.Context(), opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	digest, err := a.Database.Digest()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if f.JSON() {
		return f.Success(DumpResult(digest))
	}
	w := cmd.OutOrStdout()
	for _, kind := range model.Kinds {
		for _, key := range digest[kind] {
			fmt.Fprintf(w, "%s %s\n", kind, key)
		}
	}
	return nil
}
