package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the latest kinetic model with an id",
		Long: `Print the kinetic model most recently appended with the given id, as
held by the repository.

Exit codes:
  0 - Model found
  1 - No model with that id (E_NOT_FOUND)
  2 - Command error (malformed id, store cannot be opened)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}
}

func runGet(opts *RootOptions, rawID string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	id, err := uuid.Parse(rawID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidID, fmt.Sprintf("invalid id %q: %v", rawID, err), nil)
	}

	a, err := openApp(cmd.Context(), opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	km, ok := a.GetKineticModel(id)
	if !ok {
		return f.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("kinetic model %s not found", id), nil)
	}

	if f.JSON() {
		return f.Success(km)
	}
	out, err := json.MarshalIndent(km, "", "  ")
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
