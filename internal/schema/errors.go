package schema

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// Violation is one schema failure inside an input document.
type Violation struct {
	// Index is the position of the model in a list document, or 0 for a
	// single-model document.
	Index   int    `json:"index"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every violation found in a document.
type ValidationError struct {
	Source     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid kinetic model document")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	for i, v := range e.Violations {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		if v.Path != "" {
			fmt.Fprintf(&b, "[%d] %s: %s", v.Index, v.Path, v.Message)
		} else {
			fmt.Fprintf(&b, "[%d] %s", v.Index, v.Message)
		}
	}
	return b.String()
}

// violations flattens a CUE error tree.
func violations(index int, err error) []Violation {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []Violation{{Index: index, Message: err.Error()}}
	}
	out := make([]Violation, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		out = append(out, Violation{
			Index:   index,
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return out
}
