package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmgdb/kineticdb/internal/schema"
)

// FileValidation is the validation outcome for one document.
type FileValidation struct {
	Path       string             `json:"path"`
	Models     int                `json:"models"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check kinetic model documents without appending them",
		Long: `Check JSON or YAML kinetic model documents against the input schema.
Nothing is appended and no store is opened. Every violation in every
document is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	v, err := schema.NewValidator(nil)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeIO, fmt.Sprintf("failed to read %s: %v", p, err), nil)
		}

		fv := FileValidation{Path: p}
		models, err := v.DecodeFile(p, data)
		var verr *schema.ValidationError
		switch {
		case errors.As(err, &verr):
			fv.Violations = verr.Violations
			result.Valid = false
		case err != nil:
			fv.Violations = []schema.Violation{{Message: err.Error()}}
			result.Valid = false
		default:
			fv.Models = len(models)
		}
		f.VerboseLog("%s: %d model(s), %d violation(s)", p, fv.Models, len(fv.Violations))
		result.Files = append(result.Files, fv)
	}

	if f.JSON() {
		if result.Valid {
			return f.Success(result)
		}
		return f.Fail(ExitFailure, ErrCodeValidation, "validation failed", result)
	}

	w := cmd.OutOrStdout()
	for _, fv := range result.Files {
		if len(fv.Violations) == 0 {
			fmt.Fprintf(w, "✓ %s (%d model(s))\n", fv.Path, fv.Models)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.Path)
		for _, viol := range fv.Violations {
			if viol.Path != "" {
				fmt.Fprintf(w, "  [%d] %s: %s\n", viol.Index, viol.Path, viol.Message)
			} else {
				fmt.Fprintf(w, "  [%d] %s\n", viol.Index, viol.Message)
			}
		}
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
