// Package match implements the matchers leaf tokens are driven by.
//
// A matcher is a pure function from the characters a leaf has accumulated so far
// to one of four outcomes. Matchers never see ignored characters and never read
// input on their own; the caller grows the buffer one character at a time.
package match

import "fmt"

// Status is the outcome of testing a buffer.
type Status int

const (
	// Fail means no extension of the buffer can match.
	Fail Status = iota
	// Continue means the buffer does not match yet but an extension might.
	Continue
	// MatchContinue means buffer[:Length] matches and a longer match may follow.
	MatchContinue
	// Match means buffer[:Length] is the final match; the rest is excess.
	Match
)

var statusNames = map[Status]string{
	Fail:          "FAIL",
	Continue:      "CONTINUE",
	MatchContinue: "MATCH_CONTINUE",
	Match:         "MATCH",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is what a matcher reports for a buffer. Length is in bytes.
type Result struct {
	Status Status
	Length int
	Value  any
}

func (r Result) String() string {
	switch r.Status {
	case MatchContinue, Match:
		return fmt.Sprintf("%s(%d, %v)", r.Status, r.Length, r.Value)
	}
	return r.Status.String()
}

// Matcher tests an accumulated buffer.
type Matcher func(buf string) Result

func failed() Result {
	return Result{Status: Fail}
}

func continuing() Result {
	return Result{Status: Continue}
}

func partial(length int, value any) Result {
	return Result{Status: MatchContinue, Length: length, Value: value}
}

func matched(length int, value any) Result {
	return Result{Status: Match, Length: length, Value: value}
}
