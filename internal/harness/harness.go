package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rmgdb/kineticdb/internal/app"
	"github.com/rmgdb/kineticdb/internal/config"
	"github.com/rmgdb/kineticdb/internal/eventstore"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory event log for isolation.
//
// Execution flow:
// 1. Open an instance with the memory driver and the object database
// 2. Submit every model document in order
// 3. Rebuild fresh read models from the log and compare with the live ones
// 4. Check the expected counts
//
// A returned error means the scenario could not be executed. Failed checks
// are reported through Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := config.Default()
	cfg.Driver = string(eventstore.DriverMemory)
	cfg.Path = ""
	cfg.SetSemantics = scenario.SetSemantics

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.Open(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open instance: %w", err)
	}
	defer a.Close()

	for i, path := range scenario.Models {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		if _, err := a.Submit(ctx, path, data); err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
	}

	result := NewResult(scenario.Name)

	v, err := a.Verify(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to replay log: %w", err)
	}
	result.Events = v.Events
	if !v.RepositoryMatches {
		result.AddError("repository does not match a replay of the log")
	}
	if !v.DatabaseMatches {
		result.AddError("database does not match a replay of the log")
	}

	result.Repository = a.Repository.Snapshot().Counts()
	result.Database = a.Database.Counts()

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}
