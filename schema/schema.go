// Package schema describes grammars as node types with ordered, typed fields.
//
// A grammar is served by a Provider. Concrete node types (KindRule) list their
// fields in parse order; sum types (KindSum) list the concrete or sum types that
// may stand in for them; leaves are text, enum or number types. Each field carries
// directives telling the parser how to match and when the field may be absent.
package schema

import (
	"fmt"
	"strings"

	"github.com/dhamidi/rdparse/match"
)

// Kind classifies a node type.
type Kind int

const (
	KindRule Kind = iota
	KindSum
	KindEnum
	KindText
	KindNumber
	KindList
)

var kindNames = map[Kind]string{
	KindRule:   "Rule",
	KindSum:    "Sum",
	KindEnum:   "Enum",
	KindText:   "Text",
	KindNumber: "Number",
	KindList:   "List",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Leaf reports whether values of this kind are matched character by character.
func (k Kind) Leaf() bool {
	return k == KindEnum || k == KindText || k == KindNumber
}

// Built-in type names.
const (
	Text   = "string"
	Int    = "int"
	Float  = "float"
	BigInt = "bigint"
)

// ListOf returns the name of the list type with the given element type.
func ListOf(elem string) string {
	return "[]" + elem
}

// Type describes a node type.
type Type struct {
	Name       string
	Kind       Kind
	Fields     []*Field        // KindRule
	Candidates []string        // KindSum, in declaration order
	Options    []Option        // KindEnum
	Elem       string          // KindList
	Convert    match.Converter // KindNumber
	Priority   *int            // explicit priority, overrides the computed one
	Ignore     *Ignore
}

// WithPriority sets an explicit priority. Lower priorities are tried first and
// bind tighter.
func (t *Type) WithPriority(p int) *Type {
	t.Priority = &p
	return t
}

// WithIgnore sets the characters skipped before leaves of this type's fields.
// With inherit the set also applies to leaves further down the tree.
func (t *Type) WithIgnore(chars string, inherit bool) *Type {
	t.Ignore = &Ignore{Chars: chars, Inherit: inherit}
	return t
}

// BasePriority returns the explicit priority or zero.
func (t *Type) BasePriority() int {
	if t.Priority != nil {
		return *t.Priority
	}
	return 0
}

// FieldIndex returns the index of the named field, or -1.
func (t *Type) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name != "" && f.Name == name {
			return i
		}
	}
	return -1
}

// Option returns the enum option with the given literal.
func (t *Type) Option(literal string) (Option, bool) {
	for _, opt := range t.Options {
		if opt.Literal == literal {
			return opt, true
		}
	}
	return Option{}, false
}

func (t *Type) String() string {
	switch t.Kind {
	case KindSum:
		return t.Name + " = " + strings.Join(t.Candidates, " | ")
	case KindList:
		return t.Name
	}
	return t.Name
}

// Option is one literal of an enum type.
type Option struct {
	Literal  string
	Priority int
}

// Opt is shorthand for an enum option.
func Opt(literal string, priority int) Option {
	return Option{Literal: literal, Priority: priority}
}

// Field is one ordered slot of a rule type.
type Field struct {
	Name     string
	Type     string
	Literal  string // fixed literal for text fields
	Pattern  *Pattern
	Optional *Optionality
	Limit    *Limit
	Ignore   *Ignore
	Equals   string // sibling whose consumed text this field must repeat
	Adjust   *Adjust
}

func (f *Field) String() string {
	if f.Name == "" {
		return fmt.Sprintf("%q", f.Literal)
	}
	return f.Name + " " + f.Type
}

// Label names the field in messages.
func (f *Field) Label() string {
	if f.Name != "" {
		return f.Name
	}
	if f.Literal != "" {
		return fmt.Sprintf("%q", f.Literal)
	}
	return "_"
}

// Pattern configures a text field matched by a regular expression. Exactly one
// of Value and Until is set.
type Pattern struct {
	Value   string  // grow to the longest match of this expression
	Until   string  // accumulate until this terminator expression matches
	Replace *string // optional rewrite of the match or the terminator
}

// OptionalKind says when an optional field may be absent.
type OptionalKind int

const (
	// Always lets the field be absent whenever it fails to match.
	Always OptionalKind = iota
	// FollowedBy makes the field absent, without trying it, when the input
	// continues with Text.
	FollowedBy
	// IfNull lets the field be absent when Sibling is absent.
	IfNull
	// IfSet lets the field be absent when Sibling is present.
	IfSet
)

// Optionality marks a field that may be left absent.
type Optionality struct {
	Kind    OptionalKind
	Text    string
	Sibling string
}

// Limit bounds the number of members of a list field. Max zero is unbounded.
type Limit struct {
	Min int
	Max int
}

// Ignore is a set of characters skipped before a leaf starts matching.
type Ignore struct {
	Chars   string
	Inherit bool
}

// Has reports whether r is in the set.
func (ig *Ignore) Has(r rune) bool {
	return ig != nil && strings.ContainsRune(ig.Chars, r)
}

// Adjust shifts the priority of the node holding the field. With Propagate the
// adjustment counts toward the node's own priority.
type Adjust struct {
	Value     int
	Propagate bool
}

// Provider supplies node types by name.
type Provider interface {
	Lookup(name string) (*Type, error)
}

// Defaults is implemented by providers with a grammar-wide ignored character set.
type Defaults interface {
	Ignored() *Ignore
}

// Error reports a malformed schema.
type Error struct {
	Type   string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: %s.%s: %s", e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema: %s: %s", e.Type, e.Reason)
}
