package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rmgdb/kineticdb/internal/eventsource"
	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/schema"
)

// ImportedModel is one appended model.
type ImportedModel struct {
	Position int64     `json:"position"`
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
}

// ImportedFile lists the models appended from one document.
type ImportedFile struct {
	Path   string          `json:"path"`
	Models []ImportedModel `json:"models"`
}

// ImportResult holds the import command output.
type ImportResult struct {
	Files  []ImportedFile `json:"files"`
	Events int64          `json:"events"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Validate and append kinetic model documents",
		Long: `Validate JSON or YAML kinetic model documents and append every model to
the event log. A document holds one model or a list of models. Models
without an id get a fresh one.

Every document is validated before anything is appended.

Exit codes:
  0 - All models appended
  1 - A document is invalid, or an observer failed after append
  2 - Command error (unreadable file, store cannot be opened)

Examples:
  kineticdb import --db ./kinetics.db methane.yaml
  kineticdb import --driver badger --db ./kinetics models/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args, cmd)
		},
	}
}

func runImport(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	docs := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeIO, fmt.Sprintf("failed to read %s: %v", p, err), nil)
		}
		docs[i] = data
	}

	a, err := openApp(ctx, opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	// Validate everything first so a bad file appends nothing.
	decoded := make([][]model.KineticModel, len(paths))
	for i, p := range paths {
		models, err := a.Validator.DecodeFile(p, docs[i])
		if err != nil {
			return reportValidation(f, err)
		}
		decoded[i] = models
	}

	result := ImportResult{Files: make([]ImportedFile, 0, len(paths))}
	var fanOut *eventsource.FanOutError
	for i, p := range paths {
		submitted, err := a.SubmitModels(ctx, decoded[i])
		file := ImportedFile{Path: p, Models: make([]ImportedModel, 0, len(submitted))}
		for _, s := range submitted {
			file.Models = append(file.Models, ImportedModel{Position: s.Position, ID: s.Model.ID, Name: s.Model.Name})
			f.VerboseLog("appended %s (%s) at %d", s.Model.Name, s.Model.ID, s.Position)
		}
		result.Files = append(result.Files, file)

		if err != nil {
			if errors.As(err, &fanOut) {
				continue
			}
			return f.Fail(ExitCommandError, ErrCodeIO, fmt.Sprintf("failed to append %s: %v", p, err), nil)
		}
	}

	if result.Events, err = a.Store.Len(ctx); err != nil {
		return f.Fail(ExitCommandError, ErrCodeIO, err.Error(), nil)
	}

	if fanOut != nil {
		return f.Fail(ExitFailure, ErrCodeObserver, fanOut.Error(), map[string]any{
			"observers": fanOut.FailedObservers(),
			"import":    result,
		})
	}

	if f.JSON() {
		return f.Success(result)
	}
	w := cmd.OutOrStdout()
	for _, file := range result.Files {
		for _, m := range file.Models {
			fmt.Fprintf(w, "✓ %s: %s %s at position %d\n", file.Path, m.Name, m.ID, m.Position)
		}
	}
	fmt.Fprintf(w, "%d event(s) in log\n", result.Events)
	return nil
}

// reportValidation prints schema violations and returns the exit error.
func reportValidation(f *OutputFormatter, err error) error {
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		return f.Fail(ExitFailure, ErrCodeValidation, err.Error(), nil)
	}
	if f.JSON() {
		return f.Fail(ExitFailure, ErrCodeValidation, "invalid kinetic model document "+verr.Source, verr.Violations)
	}
	fmt.Fprintf(f.Writer, "✗ %s\n", verr.Source)
	for _, v := range verr.Violations {
		if v.Path != "" {
			fmt.Fprintf(f.Writer, "  [%d] %s: %s\n", v.Index, v.Path, v.Message)
		} else {
			fmt.Fprintf(f.Writer, "  [%d] %s\n", v.Index, v.Message)
		}
	}
	return NewExitError(ExitFailure, verr.Error())
}
