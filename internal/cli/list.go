package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmgdb/kineticdb/internal/database"
	"github.com/rmgdb/kineticdb/internal/model"
	"github.com/rmgdb/kineticdb/internal/repository"
)

// List sources.
const (
	ListFromDatabase   = "database"
	ListFromRepository = "repository"
)

// ListedEntity is one entity with its content key.
type ListedEntity struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ListResult holds the list command output.
type ListResult struct {
	Kind  model.Kind     `json:"kind"`
	From  string         `json:"from"`
	Count int            `json:"count"`
	Items []ListedEntity `json:"items"`
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	From string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List every entity of a kind",
		Long: `List every entity of one kind with its content key.

Kinds: structure, isomer, species, source, reaction, kinetics, thermo,
transport, kinetic_model (plural forms accepted).

The database holds each distinct value once. The repository keeps lists
in acceptance order and has no reaction or source list.

Examples:
  kineticdb list species --db ./kinetics.db
  kineticdb list kinetics --from repository --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", ListFromDatabase, "read model to list (database|repository)")

	return cmd
}

func runList(opts *ListOptions, rawKind string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	kind, err := model.ParseKind(rawKind)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeKind, err.Error(), nil)
	}
	if opts.From != ListFromDatabase && opts.From != ListFromRepository {
		return f.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid --from %q: must be database or repository", opts.From), nil)
	}

	a, err := openApp(cmd.Context(), opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var items []ListedEntity
	if opts.From == ListFromRepository {
		items, err = listRepository(a.Repository, kind)
	} else {
		items, err = listDatabase(a.Database, kind)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeKind, err.Error(), nil)
	}

	result := ListResult{Kind: kind, From: opts.From, Count: len(items), Items: items}
	if f.JSON() {
		return f.Success(result)
	}
	w := cmd.OutOrStdout()
	for _, item := range items {
		fmt.Fprintf(w, "%s  %s\n", item.Key, item.Value)
	}
	fmt.Fprintf(w, "%d %s\n", result.Count, kind)
	return nil
}

func listDatabase(db *database.DB, kind model.Kind) ([]ListedEntity, error) {
	switch kind {
	case model.KindStructure:
		return collect(kind, db.Structures)
	case model.KindIsomer:
		return collect(kind, db.Isomers)
	case model.KindSpecies:
		return collect(kind, db.Species)
	case model.KindSource:
		return collect(kind, db.Sources)
	case model.KindReaction:
		return collect(kind, db.Reactions)
	case model.KindKinetics:
		return collect(kind, db.Kinetics)
	case model.KindThermo:
		return collect(kind, db.Thermo)
	case model.KindTransport:
		return collect(kind, db.Transport)
	case model.KindKineticModel:
		return collect(kind, db.KineticModels)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

func listRepository(r *repository.Repository, kind model.Kind) ([]ListedEntity, error) {
	switch kind {
	case model.KindStructure:
		return collect(kind, infallible(r.Structures))
	case model.KindIsomer:
		return collect(kind, infallible(r.Isomers))
	case model.KindSpecies:
		return collect(kind, infallible(r.Species))
	case model.KindKinetics:
		return collect(kind, infallible(r.Kinetics))
	case model.KindThermo:
		return collect(kind, infallible(r.Thermo))
	case model.KindTransport:
		return collect(kind, infallible(r.Transport))
	case model.KindKineticModel:
		return collect(kind, infallible(r.KineticModels))
	}
	return nil, fmt.Errorf("the repository keeps no %s list", kind)
}

func infallible[T any](fn func() []T) func() ([]T, error) {
	return func() ([]T, error) { return fn(), nil }
}

func collect[T model.Entity](kind model.Kind, fetch func() ([]T, error)) ([]ListedEntity, error) {
	values, err := fetch()
	if err != nil {
		return nil, err
	}
	out := make([]ListedEntity, 0, len(values))
	for _, v := range values {
		key, err := model.Key(kind, v)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", kind, err)
		}
		out = append(out, ListedEntity{Key: key, Value: raw})
	}
	return out, nil
}
