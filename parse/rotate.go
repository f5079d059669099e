package parse

import "github.com/dhamidi/rdparse/source"

// unrotate fixes the nesting of a completed binary node. Descent parses
// 2*3+1 as 2*(3+1); when the right operand is a binary node that binds no
// tighter than n, n takes the operand's left side and becomes its new left
// operand: (2*3)+1. Equal priorities associate to the left. Applying it to
// an already consistent node returns the node unchanged.
//
// Only the last field is inspected: the left-recursion guard keeps descent
// from reopening the same binary type at its own start offset, so operator
// chains always nest to the right.
func (p *Parser) unrotate(n *Node) *Node {
	s := p.session
	if !s.rotatable(n.typ) {
		return n
	}
	last := len(n.Fields) - 1
	c := n.Fields[last]
	if c == nil || !s.rotatable(c.typ) || c.Priority < n.Priority {
		return n
	}
	pivot := c.Fields[0]
	if pivot == nil || !s.accepts(c.typ.Fields[0].Type, n.Type) || !s.accepts(n.typ.Fields[last].Type, pivot.Type) {
		return n
	}

	inner := n.clone()
	inner.Fields[last] = pivot
	p.respan(inner)
	inner.Priority = s.nodePriority(inner)
	inner = p.unrotate(inner)

	outer := c.clone()
	outer.Fields[0] = inner
	p.respan(outer)
	outer.Priority = s.nodePriority(outer)
	p.debugf("rotated %s (%d) above %s (%d)", outer.Type, outer.Priority, inner.Type, inner.Priority)
	return outer
}

// respan recomputes the span and text of a rule node from its fields.
func (p *Parser) respan(n *Node) {
	var start, end *source.Location
	for _, f := range n.Fields {
		if f == nil {
			continue
		}
		if start == nil {
			start = &f.Span.Start
		}
		end = &f.Span.End
	}
	if start == nil {
		return
	}
	n.Span = source.NewSpan(*start, *end)
	n.Text = p.src.Slice(start.Offset, end.Offset)
}
