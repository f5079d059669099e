package schema

import (
	"sort"
	"strings"

	"github.com/dhamidi/rdparse/match"
)

// Grammar is an in-memory Provider assembled from declarations.
type Grammar struct {
	types  map[string]*Type
	order  []string
	ignore *Ignore
}

// New returns an empty grammar.
func New() *Grammar {
	return &Grammar{types: make(map[string]*Type)}
}

// Add registers a type, replacing any earlier type with the same name.
func (g *Grammar) Add(t *Type) *Type {
	if _, ok := g.types[t.Name]; !ok {
		g.order = append(g.order, t.Name)
	}
	g.types[t.Name] = t
	return t
}

// Rule declares a concrete node type with ordered fields.
func (g *Grammar) Rule(name string, fields ...*Field) *Type {
	return g.Add(&Type{Name: name, Kind: KindRule, Fields: fields})
}

// Sum declares a sum type over candidate types.
func (g *Grammar) Sum(name string, candidates ...string) *Type {
	return g.Add(&Type{Name: name, Kind: KindSum, Candidates: candidates})
}

// Enum declares a leaf type matching one of a set of literals.
func (g *Grammar) Enum(name string, options ...Option) *Type {
	return g.Add(&Type{Name: name, Kind: KindEnum, Options: options})
}

// Number declares a numeric leaf type with its own converter.
func (g *Grammar) Number(name string, convert match.Converter) *Type {
	return g.Add(&Type{Name: name, Kind: KindNumber, Convert: convert})
}

// SetIgnore sets the grammar-wide ignored characters.
func (g *Grammar) SetIgnore(chars string) *Grammar {
	g.ignore = &Ignore{Chars: chars, Inherit: true}
	return g
}

// Ignored implements Defaults.
func (g *Grammar) Ignored() *Ignore {
	return g.ignore
}

// Names returns the declared type names in declaration order.
func (g *Grammar) Names() []string {
	return append([]string(nil), g.order...)
}

var builtins = map[string]*Type{
	Text:   {Name: Text, Kind: KindText},
	Int:    {Name: Int, Kind: KindNumber, Convert: match.ParseInt},
	Float:  {Name: Float, Kind: KindNumber, Convert: match.ParseFloat},
	BigInt: {Name: BigInt, Kind: KindNumber, Convert: match.ParseBigInt},
}

// Builtin returns the built-in type with the given name.
func Builtin(name string) (*Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

// BuiltinNames lists the built-in type names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup implements Provider.
func (g *Grammar) Lookup(name string) (*Type, error) {
	if t, ok := g.types[name]; ok {
		return t, nil
	}
	if t, ok := builtins[name]; ok {
		return t, nil
	}
	if elem, ok := strings.CutPrefix(name, "[]"); ok && elem != "" {
		return &Type{Name: name, Kind: KindList, Elem: elem}, nil
	}
	return nil, &Error{Type: name, Reason: "unknown type"}
}
