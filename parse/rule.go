package parse

import (
	"github.com/dhamidi/rdparse/schema"
	"github.com/dhamidi/rdparse/source"
)

// ruleToken fills the fields of a rule type in order.
type ruleToken struct {
	partial
	children []token
}

func (r *ruleToken) advance(p *Parser) step {
	for {
		if n := len(r.children); n > 0 && r.children[n-1].base().state == failed {
			last := r.children[n-1]
			f := r.typ.Fields[n-1]
			if !r.mayBeAbsent(p, f) {
				return r.traceback(p)
			}
			p.debugf("field %s of %s left absent", f.Label(), r.describe())
			r.children[n-1] = newAbsent(f, last.base().typ, r, last.base().start)
		}

		i := len(r.children)
		if i == len(r.typ.Fields) {
			r.complete(p)
			return step{kind: stepDone}
		}

		f := r.typ.Fields[i]
		at := p.src.Here()
		if o := f.Optional; o != nil && o.Kind == schema.FollowedBy && p.lookahead(f, r, o.Text) {
			ft, err := p.session.lookup(f.Type)
			if err != nil {
				return p.abort(err)
			}
			r.children = append(r.children, newAbsent(f, ft, r, at))
			continue
		}

		child, err := p.newField(f, r, at)
		if err != nil {
			return p.abort(err)
		}
		r.children = append(r.children, child)
		if p.stalled(child) {
			child.base().state = failed
			continue
		}
		return step{kind: stepPush, child: child}
	}
}

// mayBeAbsent checks the optional conditions of a field that failed to match.
// The cursor is back at the field's start.
func (r *ruleToken) mayBeAbsent(p *Parser, f *schema.Field) bool {
	o := f.Optional
	if o == nil {
		return false
	}
	switch o.Kind {
	case schema.Always:
		return true
	case schema.FollowedBy:
		return p.lookahead(f, r, o.Text)
	case schema.IfNull:
		s := r.sibling(o.Sibling)
		return s == nil || s.base().absent
	case schema.IfSet:
		s := r.sibling(o.Sibling)
		return s != nil && !s.base().absent
	}
	return false
}

// sibling returns the token already filled for the named field.
func (r *ruleToken) sibling(name string) token {
	i := r.typ.FieldIndex(name)
	if i < 0 || i >= len(r.children) {
		return nil
	}
	return r.children[i]
}

// traceback retries the latest earlier field with an untried choice, or fails
// the rule.
func (r *ruleToken) traceback(p *Parser) step {
	kept, ok := retryFrom(p, r.children, len(r.children)-2)
	if !ok {
		r.state = failed
		return step{kind: stepFail}
	}
	r.children = kept
	return step{kind: stepRetry}
}

func (r *ruleToken) complete(p *Parser) {
	fields := make([]*Node, len(r.children))
	first := -1
	for i, c := range r.children {
		if c.base().absent {
			continue
		}
		fields[i] = c.base().value
		if first < 0 {
			first = i
		}
	}
	r.end = p.src.Here()
	start := r.start
	if first >= 0 {
		start = fields[first].Span.Start
	}
	n := &Node{
		Type:   r.typ.Name,
		Kind:   schema.KindRule,
		Fields: fields,
		Span:   source.NewSpan(start, r.end),
		Text:   p.src.Slice(start.Offset, r.end.Offset),
		typ:    r.typ,
	}
	n.Priority = p.session.nodePriority(n)
	r.value = p.unrotate(n)
	r.state = populated
	p.debugf("rule %s populated %q", r.describe(), r.value.Text)
}

func (r *ruleToken) alternatives() bool {
	for _, c := range r.children {
		if !c.base().absent && c.alternatives() {
			return true
		}
	}
	return false
}

func (r *ruleToken) reopen(p *Parser) {
	r.state = unpopulated
	r.value = nil
	if kept, ok := retryFrom(p, r.children, len(r.children)-1); ok {
		r.children = kept
	}
}

func (r *ruleToken) pullback(p *Parser) string {
	return pullbackAll(p, r.children)
}
