package harness

import "github.com/rmgdb/kineticdb/internal/model"

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall success.
	// True if replay matched the live read models and every expected count held.
	Pass bool `json:"pass"`

	// Events is the number of events in the log after submission.
	Events int64 `json:"events"`

	// Repository holds the repository list lengths per kind.
	Repository map[model.Kind]int `json:"repository"`

	// Database holds the object database bucket sizes per kind.
	Database map[model.Kind]int `json:"database"`

	// Errors contains failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:       name,
		Pass:       true,
		Repository: map[model.Kind]int{},
		Database:   map[model.Kind]int{},
		Errors:     []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
