package schema

import (
	"fmt"

	"github.com/dhamidi/rdparse/match"
)

// Validate checks a single type against the provider. Referenced types must
// exist, but are not validated themselves; callers validate each type the
// first time they use it.
func Validate(p Provider, t *Type) error {
	switch t.Kind {
	case KindRule:
		return validateRule(p, t)
	case KindSum:
		if len(t.Candidates) == 0 {
			return &Error{Type: t.Name, Reason: "sum type without candidates"}
		}
		for _, name := range t.Candidates {
			c, err := p.Lookup(name)
			if err != nil {
				return &Error{Type: t.Name, Reason: fmt.Sprintf("candidate %s: %v", name, err)}
			}
			if c.Kind.Leaf() || c.Kind == KindList {
				return &Error{Type: t.Name, Reason: fmt.Sprintf("candidate %s is a %s, not a node type", name, c.Kind)}
			}
		}
	case KindEnum:
		if len(t.Options) == 0 {
			return &Error{Type: t.Name, Reason: "enum without options"}
		}
		for _, opt := range t.Options {
			if opt.Literal == "" {
				return &Error{Type: t.Name, Reason: "empty enum option"}
			}
		}
	case KindNumber:
		if t.Convert == nil {
			return &Error{Type: t.Name, Reason: "number type without converter"}
		}
	case KindList:
		if _, err := p.Lookup(t.Elem); err != nil {
			return &Error{Type: t.Name, Reason: fmt.Sprintf("element: %v", err)}
		}
	}
	return nil
}

func validateRule(p Provider, t *Type) error {
	seen := make(map[string]bool)
	for _, f := range t.Fields {
		fail := func(format string, args ...any) error {
			return &Error{Type: t.Name, Field: f.Label(), Reason: fmt.Sprintf(format, args...)}
		}
		ft, err := p.Lookup(f.Type)
		if err != nil {
			return fail("%v", err)
		}
		if f.Literal != "" && f.Pattern != nil {
			return fail("both a literal and a pattern")
		}
		if f.Equals != "" && (f.Literal != "" || f.Pattern != nil) {
			return fail("context equality combined with a literal or pattern")
		}
		kind := ft.Kind
		if kind == KindList {
			// directives of a text list apply to each member
			if et, err := p.Lookup(ft.Elem); err == nil && et.Kind == KindText {
				if f.Equals != "" {
					return fail("context equality on a list field")
				}
				kind = KindText
			}
		}
		if kind == KindText {
			if f.Literal == "" && f.Pattern == nil && f.Equals == "" {
				return fail("text field needs a literal, pattern or equality directive")
			}
		} else if f.Literal != "" || f.Pattern != nil || f.Equals != "" {
			return fail("matching directive on a %s field", ft.Kind)
		}
		if f.Pattern != nil {
			if err := validatePattern(f.Pattern); err != nil {
				return fail("%v", err)
			}
		}
		if f.Equals != "" && !seen[f.Equals] {
			return fail("equality refers to %q, which is not an earlier field", f.Equals)
		}
		if o := f.Optional; o != nil {
			switch o.Kind {
			case FollowedBy:
				if o.Text == "" {
					return fail("optional lookahead without text")
				}
			case IfNull, IfSet:
				if !seen[o.Sibling] {
					return fail("optional condition refers to %q, which is not an earlier field", o.Sibling)
				}
			}
		}
		if l := f.Limit; l != nil {
			if ft.Kind != KindList {
				return fail("capture limit on a %s field", ft.Kind)
			}
			if l.Min < 0 || (l.Max > 0 && l.Min > l.Max) {
				return fail("invalid capture limit %d..%d", l.Min, l.Max)
			}
		}
		if f.Name != "" {
			if seen[f.Name] {
				return fail("duplicate field name")
			}
			seen[f.Name] = true
		}
	}
	return nil
}

func validatePattern(p *Pattern) error {
	switch {
	case p.Value != "" && p.Until != "":
		return fmt.Errorf("pattern has both a value and an until expression")
	case p.Value == "" && p.Until == "":
		return fmt.Errorf("empty pattern")
	case p.Value != "":
		_, err := match.Pattern(p.Value, p.Replace)
		return err
	default:
		_, err := match.Until(p.Until, p.Replace)
		return err
	}
}
