package harness

import (
	"fmt"
	"sort"

	"github.com/rmgdb/kineticdb/internal/model"
)

// CountMismatchError describes one expected count that did not hold.
type CountMismatchError struct {
	Target   string // "repository", "database" or "log"
	Kind     model.Kind
	Expected int64
	Actual   int64
}

// Error implements the error interface.
func (e *CountMismatchError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: expected %d events, got %d", e.Target, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %d %s, got %d", e.Target, e.Expected, e.Kind, e.Actual)
}

// EvaluateExpectations compares result against exp and returns one message
// per mismatch, ordered by target then kind.
func EvaluateExpectations(result *Result, exp Expectation) []string {
	var errs []string
	if exp.Events != nil && *exp.Events != result.Events {
		errs = append(errs, (&CountMismatchError{
			Target:   "log",
			Expected: *exp.Events,
			Actual:   result.Events,
		}).Error())
	}
	errs = append(errs, compareCounts("repository", exp.Repository, result.Repository)...)
	errs = append(errs, compareCounts("database", exp.Database, result.Database)...)
	return errs
}

func compareCounts(target string, want map[string]int, got map[model.Kind]int) []string {
	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	for _, name := range names {
		kind, err := model.ParseKind(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", target, err))
			continue
		}
		if got[kind] != want[name] {
			errs = append(errs, (&CountMismatchError{
				Target:   target,
				Kind:     kind,
				Expected: int64(want[name]),
				Actual:   int64(got[kind]),
			}).Error())
		}
	}
	return errs
}
