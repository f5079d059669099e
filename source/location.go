// Package source provides the buffered, re-readable character source the parser reads
// from, together with the locations it hands out.
package source

import "fmt"

// Location is a position in a named source.
// Line and Column are 1-based; Column counts runes, Offset counts bytes.
type Location struct {
	Source string
	Offset int
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Source != "" {
		return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports whether l comes strictly before other.
func (l Location) Before(other Location) bool {
	return l.Offset < other.Offset
}

// Span represents a range in the source. End is never before Start.
type Span struct {
	Start Location
	End   Location
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// NewSpan builds a span, clamping end to start.
func NewSpan(start, end Location) Span {
	if end.Offset < start.Offset {
		end = start
	}
	return Span{Start: start, End: end}
}
