package parse

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/rdparse/match"
	"github.com/dhamidi/rdparse/schema"
)

const (
	abstractPenalty      = 1000
	leftRecursivePenalty = 1000
)

// Session caches what parsing learns about a schema: validated types,
// candidate orders and compiled matchers. A session may be shared by
// concurrent parses of the same schema.
type Session struct {
	provider schema.Provider
	ignore   *schema.Ignore
	log      commonlog.Logger

	mu        sync.Mutex
	types     map[string]*schema.Type
	orders    map[string][]*schema.Type
	matchers  map[*schema.Field]match.Matcher
	reachable map[[2]string]bool
}

func NewSession(provider schema.Provider) *Session {
	s := &Session{
		provider:  provider,
		log:       commonlog.GetLogger("rdparse.parse"),
		types:     map[string]*schema.Type{},
		orders:    map[string][]*schema.Type{},
		matchers:  map[*schema.Field]match.Matcher{},
		reachable: map[[2]string]bool{},
	}
	if d, ok := provider.(schema.Defaults); ok {
		s.ignore = d.Ignored()
	}
	return s
}

// Parse reads r to the end and parses it as the named root type.
func (s *Session) Parse(r io.Reader, root string, opts ...Option) (*Node, error) {
	p := newParser(s, opts)
	return p.run(r, root)
}

func (s *Session) ParseString(text, root string, opts ...Option) (*Node, error) {
	return s.Parse(strings.NewReader(text), root, opts...)
}

// Parse parses r with a fresh session.
func Parse(provider schema.Provider, r io.Reader, root string, opts ...Option) (*Node, error) {
	return NewSession(provider).Parse(r, root, opts...)
}

func ParseString(provider schema.Provider, text, root string, opts ...Option) (*Node, error) {
	return NewSession(provider).ParseString(text, root, opts...)
}

// lookup resolves a type name, validating the type on first use.
func (s *Session) lookup(name string) (*schema.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.types[name]; ok {
		return t, nil
	}
	t, err := s.provider.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(s.provider, t); err != nil {
		return nil, err
	}
	s.types[name] = t
	return t, nil
}

// Candidates returns the candidates of a sum type in the order they are tried.
func (s *Session) Candidates(sum string) ([]*schema.Type, error) {
	t, err := s.lookup(sum)
	if err != nil {
		return nil, err
	}
	if t.Kind != schema.KindSum {
		return nil, &schema.Error{Type: sum, Reason: "not a sum type"}
	}
	return s.candidates(t)
}

func (s *Session) candidates(sum *schema.Type) ([]*schema.Type, error) {
	s.mu.Lock()
	order, ok := s.orders[sum.Name]
	s.mu.Unlock()
	if ok {
		return order, nil
	}

	order = make([]*schema.Type, 0, len(sum.Candidates))
	prio := map[string]int{}
	for _, name := range sum.Candidates {
		c, err := s.lookup(name)
		if err != nil {
			return nil, fmt.Errorf("candidate of %s: %w", sum.Name, err)
		}
		order = append(order, c)
		prio[c.Name] = s.candidatePriority(sum, c)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return prio[order[i].Name] < prio[order[j].Name]
	})
	if s.log.AllowLevel(commonlog.Debug) {
		names := make([]string, len(order))
		for i, c := range order {
			names[i] = fmt.Sprintf("%s:%d", c.Name, prio[c.Name])
		}
		s.log.Debugf("candidates of %s: %s", sum.Name, strings.Join(names, " "))
	}

	s.mu.Lock()
	s.orders[sum.Name] = order
	s.mu.Unlock()
	return order, nil
}

func (s *Session) candidatePriority(sum, c *schema.Type) int {
	if c.Priority != nil {
		return *c.Priority
	}
	prio := 0
	if c.Kind != schema.KindRule {
		prio += abstractPenalty
	}
	if s.leftRecursive(c, sum.Name) {
		prio += leftRecursivePenalty
	}
	for _, f := range c.Fields {
		if f.Adjust != nil && f.Adjust.Propagate {
			prio += f.Adjust.Value
		}
	}
	return prio
}

// leftRecursive reports whether choosing c for sum re-enters sum before
// consuming anything.
func (s *Session) leftRecursive(c *schema.Type, sum string) bool {
	switch c.Kind {
	case schema.KindRule:
		return len(c.Fields) > 0 && s.accepts(c.Fields[0].Type, sum)
	case schema.KindSum:
		return s.accepts(c.Name, sum)
	}
	return false
}

// accepts reports whether a value of type name may fill a slot declared as holder.
func (s *Session) accepts(holder, name string) bool {
	key := [2]string{holder, name}
	s.mu.Lock()
	ok, seen := s.reachable[key]
	s.mu.Unlock()
	if seen {
		return ok
	}
	ok = s.reaches(holder, name, map[string]bool{})
	s.mu.Lock()
	s.reachable[key] = ok
	s.mu.Unlock()
	return ok
}

func (s *Session) reaches(holder, name string, visited map[string]bool) bool {
	if holder == name {
		return true
	}
	if visited[holder] {
		return false
	}
	visited[holder] = true
	t, err := s.lookup(holder)
	if err != nil || t.Kind != schema.KindSum {
		return false
	}
	for _, c := range t.Candidates {
		if s.reaches(c, name, visited) {
			return true
		}
	}
	return false
}

// rotatable reports whether t is a binary shape: at least three fields with
// both ends holding t itself.
func (s *Session) rotatable(t *schema.Type) bool {
	if t == nil || t.Kind != schema.KindRule || len(t.Fields) < 3 {
		return false
	}
	return s.accepts(t.Fields[0].Type, t.Name) && s.accepts(t.Fields[len(t.Fields)-1].Type, t.Name)
}

// nodePriority is the base priority of the node's type adjusted by its
// propagating fields.
func (s *Session) nodePriority(n *Node) int {
	prio := n.typ.BasePriority()
	for i, f := range n.typ.Fields {
		if f.Adjust == nil || !f.Adjust.Propagate || n.Fields[i] == nil {
			continue
		}
		if v := n.Fields[i]; v.Kind == schema.KindEnum {
			prio += v.Priority
		} else {
			prio += f.Adjust.Value
		}
	}
	return prio
}

// matcher returns the compiled matcher for a leaf field of type t.
func (s *Session) matcher(f *schema.Field, t *schema.Type) (match.Matcher, error) {
	s.mu.Lock()
	m, ok := s.matchers[f]
	s.mu.Unlock()
	if ok {
		return m, nil
	}

	var err error
	switch t.Kind {
	case schema.KindText:
		switch {
		case f == nil:
			err = &schema.Error{Type: t.Name, Reason: "text leaf without a field directive"}
		case f.Literal != "":
			m = match.Terminal(f.Literal)
		case f.Pattern != nil && f.Pattern.Until != "":
			m, err = match.Until(f.Pattern.Until, f.Pattern.Replace)
		case f.Pattern != nil:
			m, err = match.Pattern(f.Pattern.Value, f.Pattern.Replace)
		default:
			err = &schema.Error{Type: t.Name, Field: f.Label(), Reason: "text field needs a literal, pattern or equals directive"}
		}
	case schema.KindEnum:
		literals := make([]string, len(t.Options))
		for i, o := range t.Options {
			literals[i] = o.Literal
		}
		m = match.Enum(literals)
	case schema.KindNumber:
		m = match.Number(t.Convert)
	default:
		err = &schema.Error{Type: t.Name, Reason: t.Kind.String() + " is not a leaf"}
	}
	if err != nil {
		return nil, err
	}
	if f != nil {
		s.mu.Lock()
		s.matchers[f] = m
		s.mu.Unlock()
	}
	return m, nil
}

// expectation describes what a leaf field would have accepted.
func expectation(f *schema.Field, t *schema.Type) string {
	switch t.Kind {
	case schema.KindEnum:
		opts := make([]string, len(t.Options))
		for i, o := range t.Options {
			opts[i] = fmt.Sprintf("%q", o.Literal)
		}
		return strings.Join(opts, " | ")
	case schema.KindNumber:
		return t.Name
	}
	switch {
	case f == nil:
		return t.Name
	case f.Equals != "":
		return "repeat of " + f.Equals
	case f.Literal != "":
		return fmt.Sprintf("%q", f.Literal)
	case f.Pattern != nil && f.Pattern.Until != "":
		return "text until /" + f.Pattern.Until + "/"
	case f.Pattern != nil:
		return "/" + f.Pattern.Value + "/"
	}
	return t.Name
}
