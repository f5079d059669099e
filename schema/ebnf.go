package schema

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// ProductionName maps a type name to the EBNF production rendering it.
// Built-in leaves keep their lower-case (lexical) names; node types are
// capitalized so they are never lexical.
func ProductionName(name string) string {
	if _, ok := builtins[name]; ok {
		return name
	}
	if elem, ok := strings.CutPrefix(name, "[]"); ok {
		return ProductionName(elem) + "List"
	}
	r, w := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[w:]
}

// EBNF renders the types reachable from root as an EBNF grammar. Types the
// provider does not know are referenced but not defined, so Verify reports them.
func EBNF(p Provider, root string) ebnf.Grammar {
	r := &renderer{provider: p, grammar: make(ebnf.Grammar), visited: make(map[string]bool)}
	r.visit(root)
	return r.grammar
}

// Verify renders the grammar reachable from root and checks it with
// ebnf.Verify: every referenced type must be defined and every rendered
// production reachable.
func Verify(p Provider, root string) error {
	return ebnf.Verify(EBNF(p, root), ProductionName(root))
}

type renderer struct {
	provider Provider
	grammar  ebnf.Grammar
	visited  map[string]bool
}

func (r *renderer) define(name string, expr ebnf.Expression) {
	r.grammar[name] = &ebnf.Production{Name: &ebnf.Name{String: name}, Expr: expr}
}

func (r *renderer) visit(name string) {
	if r.visited[name] {
		return
	}
	r.visited[name] = true

	t, err := r.provider.Lookup(name)
	if err != nil {
		return
	}
	prod := ProductionName(name)
	switch t.Kind {
	case KindRule:
		seq := ebnf.Sequence{}
		for _, f := range t.Fields {
			seq = append(seq, r.field(f))
		}
		switch len(seq) {
		case 0:
			r.define(prod, nil)
		case 1:
			r.define(prod, seq[0])
		default:
			r.define(prod, seq)
		}
	case KindSum:
		alt := ebnf.Alternative{}
		for _, c := range t.Candidates {
			alt = append(alt, &ebnf.Name{String: ProductionName(c)})
			r.visit(c)
		}
		r.define(prod, alt)
	case KindEnum:
		alt := ebnf.Alternative{}
		for _, opt := range t.Options {
			alt = append(alt, &ebnf.Token{String: opt.Literal})
		}
		r.define(prod, alt)
	case KindNumber:
		r.digits()
		r.define(prod, numberExpr(t.Name))
	case KindList:
		r.define(prod, &ebnf.Repetition{Body: r.ref(t.Elem)})
	}
}

func (r *renderer) digits() {
	if _, ok := r.grammar["digit"]; ok {
		return
	}
	r.define("digit", &ebnf.Range{Begin: &ebnf.Token{String: "0"}, End: &ebnf.Token{String: "9"}})
}

func numberExpr(name string) ebnf.Expression {
	digits := ebnf.Sequence{&ebnf.Name{String: "digit"}, &ebnf.Repetition{Body: &ebnf.Name{String: "digit"}}}
	sign := &ebnf.Option{Body: &ebnf.Token{String: "-"}}
	if name == Float {
		return ebnf.Sequence{sign, digits, &ebnf.Option{Body: ebnf.Sequence{&ebnf.Token{String: "."}, digits}}}
	}
	return ebnf.Sequence{sign, digits}
}

func (r *renderer) ref(name string) ebnf.Expression {
	r.visit(name)
	return &ebnf.Name{String: ProductionName(name)}
}

func (r *renderer) field(f *Field) ebnf.Expression {
	var x ebnf.Expression
	switch {
	case f.Literal != "":
		x = &ebnf.Token{String: f.Literal}
	case f.Pattern != nil && f.Pattern.Value != "":
		x = &ebnf.Token{String: "/" + f.Pattern.Value + "/"}
	case f.Pattern != nil:
		x = &ebnf.Token{String: "…/" + f.Pattern.Until + "/"}
	case f.Equals != "":
		x = &ebnf.Token{String: "=" + f.Equals}
	default:
		x = r.typed(f)
	}
	if strings.HasPrefix(f.Type, "[]") && f.Equals == "" && (f.Literal != "" || f.Pattern != nil) {
		x = repeat(x, f.Limit)
	}
	if f.Optional != nil {
		return &ebnf.Option{Body: x}
	}
	return x
}

func (r *renderer) typed(f *Field) ebnf.Expression {
	elem, isList := strings.CutPrefix(f.Type, "[]")
	if !isList {
		return r.ref(f.Type)
	}
	return repeat(r.ref(elem), f.Limit)
}

// repeat renders a bounded repetition of x.
func repeat(x ebnf.Expression, l *Limit) ebnf.Expression {
	limit := Limit{}
	if l != nil {
		limit = *l
	}
	seq := ebnf.Sequence{}
	for i := 0; i < limit.Min; i++ {
		seq = append(seq, x)
	}
	switch {
	case limit.Max == 0:
		seq = append(seq, &ebnf.Repetition{Body: x})
	default:
		for i := limit.Min; i < limit.Max; i++ {
			seq = append(seq, &ebnf.Option{Body: x})
		}
	}
	if len(seq) == 1 {
		return seq[0]
	}
	return seq
}

// WriteEBNF prints a grammar with the start production first.
func WriteEBNF(w io.Writer, g ebnf.Grammar, start string) error {
	names := make([]string, 0, len(g))
	for name := range g {
		if name != start {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := g[start]; ok {
		names = append([]string{start}, names...)
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s = %s .\n", name, formatExpr(g[name].Expr, false)); err != nil {
			return err
		}
	}
	return nil
}

func formatExpr(x ebnf.Expression, nested bool) string {
	switch e := x.(type) {
	case nil:
		return ""
	case ebnf.Alternative:
		parts := make([]string, len(e))
		for i, sub := range e {
			parts[i] = formatExpr(sub, false)
		}
		s := strings.Join(parts, " | ")
		if nested && len(e) > 1 {
			return "( " + s + " )"
		}
		return s
	case ebnf.Sequence:
		parts := make([]string, len(e))
		for i, sub := range e {
			parts[i] = formatExpr(sub, true)
		}
		return strings.Join(parts, " ")
	case *ebnf.Name:
		return e.String
	case *ebnf.Token:
		return strconv.Quote(e.String)
	case *ebnf.Range:
		return strconv.Quote(e.Begin.String) + " … " + strconv.Quote(e.End.String)
	case *ebnf.Group:
		return "( " + formatExpr(e.Body, false) + " )"
	case *ebnf.Option:
		return "[ " + formatExpr(e.Body, false) + " ]"
	case *ebnf.Repetition:
		return "{ " + formatExpr(e.Body, false) + " }"
	}
	return fmt.Sprintf("%v", x)
}
