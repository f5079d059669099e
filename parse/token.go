package parse

import (
	"strings"

	"github.com/dhamidi/rdparse/schema"
	"github.com/dhamidi/rdparse/source"
)

type state uint8

const (
	unpopulated state = iota
	populated
	failed
)

var stateNames = [...]string{"unpopulated", "populated", "failed"}

func (s state) String() string {
	return stateNames[s]
}

type stepKind uint8

const (
	// stepStay keeps the same token active.
	stepStay stepKind = iota
	// stepPush makes a newly created child the active token.
	stepPush
	// stepDone pops a populated token.
	stepDone
	// stepFail pops a failed token and releases what it consumed.
	stepFail
	// stepRetry means the trace was rebuilt around a reopened choice point.
	stepRetry
)

type step struct {
	kind  stepKind
	child token
}

// token is a node under construction.
type token interface {
	base() *partial
	// advance performs one step of the driving loop for the active token.
	advance(p *Parser) step
	// alternatives reports whether the token, or something it completed,
	// still has an untried choice.
	alternatives() bool
	// reopen rewinds the token to its most recent choice point, pushing the
	// path to that point onto the trace. Only called when alternatives holds.
	reopen(p *Parser)
	// pullback returns the characters consumed by the token and its descendants.
	pullback(p *Parser) string
}

// partial holds what every token shares.
type partial struct {
	typ    *schema.Type
	field  *schema.Field // field filled in the parent, nil for candidates, members and the root
	parent token         // never owning
	start  source.Location
	end    source.Location
	state  state
	absent bool
	value  *Node
}

func (t *partial) base() *partial {
	return t
}

func (t *partial) describe() string {
	var sb strings.Builder
	sb.WriteString(t.typ.Name)
	if t.field != nil {
		sb.WriteString(" (")
		sb.WriteString(t.field.Label())
		sb.WriteString(")")
	}
	sb.WriteString(" @")
	sb.WriteString(t.start.String())
	return sb.String()
}

// absentToken stands for an optional field that was left out.
type absentToken struct {
	partial
}

func newAbsent(f *schema.Field, typ *schema.Type, parent token, at source.Location) *absentToken {
	return &absentToken{partial{
		typ:    typ,
		field:  f,
		parent: parent,
		start:  at,
		end:    at,
		state:  populated,
		absent: true,
	}}
}

func (t *absentToken) advance(*Parser) step    { return step{kind: stepDone} }
func (t *absentToken) alternatives() bool      { return false }
func (t *absentToken) reopen(*Parser)          {}
func (t *absentToken) pullback(*Parser) string { return "" }

// pullbackAll concatenates what a run of sibling tokens consumed.
func pullbackAll(p *Parser, tokens []token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.pullback(p))
	}
	return sb.String()
}

// retryFrom searches tokens backwards for the latest one with an untried
// choice, starting at index from. It truncates the run after it, reopens it and
// returns the kept run.
func retryFrom(p *Parser, tokens []token, from int) ([]token, bool) {
	for j := from; j >= 0; j-- {
		c := tokens[j]
		if c.base().absent || !c.alternatives() {
			continue
		}
		p.release(tokens[j+1:])
		p.push(c)
		c.reopen(p)
		return tokens[:j+1], true
	}
	return tokens, false
}
