package eventsource

import (
	"errors"
	"fmt"
	"strings"
)

// ObserverFailure records one observer that returned an error.
type ObserverFailure struct {
	Observer string
	Err      error
}

// FanOutError reports observers that failed after an event was appended, or
// during catch-up. The event at Position is durable regardless.
type FanOutError struct {
	// Position is the log position of the event being delivered. For
	// catch-up it is the last position in the replayed history.
	Position int64

	Failures []ObserverFailure

	// Skipped lists observers that were not notified because the policy is
	// AbortOnFailure.
	Skipped []string
}

func (e *FanOutError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Observer, f.Err))
	}
	msg := fmt.Sprintf("fan-out at position %d: %s", e.Position, strings.Join(parts, "; "))
	if len(e.Skipped) > 0 {
		msg += fmt.Sprintf(" (skipped %s)", strings.Join(e.Skipped, ", "))
	}
	return msg
}

// Unwrap exposes the observer errors to errors.Is and errors.As.
func (e *FanOutError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// FailedObservers returns the names of the observers that failed.
func (e *FanOutError) FailedObservers() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Observer
	}
	return names
}

// IsFanOutError returns true if err is or wraps a *FanOutError.
func IsFanOutError(err error) bool {
	var fe *FanOutError
	return errors.As(err, &fe)
}
