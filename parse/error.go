package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/rdparse/source"
)

var (
	// ErrNoMatch marks a parse whose root could not be matched.
	ErrNoMatch = errors.New("no match")
	// ErrTrailing marks input left over after the root matched.
	ErrTrailing = errors.New("unmatched trailing symbols")
	// ErrStepLimit marks a parse stopped by WithStepLimit.
	ErrStepLimit = errors.New("step limit exceeded")
)

// Frame is one open node at the point of failure.
type Frame struct {
	Type     string
	Field    string
	Excerpt  string // source consumed by the node up to the failure
	Location source.Location
}

func (f Frame) String() string {
	name := f.Type
	if f.Field != "" {
		name = f.Field + " " + f.Type
	}
	return fmt.Sprintf("%s at %s: %q", name, f.Location, f.Excerpt)
}

// Error is a failed parse. Trace lists the open nodes, innermost first.
type Error struct {
	Message  string
	Location source.Location
	Expected []string
	Trace    []Frame
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail renders the error with its trace, one frame per line.
func (e *Error) Detail() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n")
	for _, f := range e.Trace {
		sb.WriteString("  in ")
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
