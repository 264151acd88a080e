package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rmgdb/kineticdb/internal/canon"
	"github.com/rmgdb/kineticdb/internal/model"
)

// Summary renders the counts of a result as canonical JSON: sorted keys,
// no whitespace. Kinds with a zero count are kept so the summary shape does
// not depend on the scenario.
func Summary(result *Result) ([]byte, error) {
	return canon.Marshal(canon.Object{
		"scenario":   canon.String(result.Name),
		"events":     canon.Int(result.Events),
		"repository": countsObject(result.Repository, repositoryKinds),
		"database":   countsObject(result.Database, model.Kinds),
	})
}

func countsObject(counts map[model.Kind]int, kinds []model.Kind) canon.Object {
	obj := make(canon.Object, len(kinds))
	for _, k := range kinds {
		obj[string(k)] = canon.Int(counts[k])
	}
	return obj
}

// RunWithGolden executes a scenario and compares its count summary against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be executed.
// Test failure (via goldie) occurs if the summary doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	summary, err := Summary(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, summary)
	return nil
}
