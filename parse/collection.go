package parse

import (
	"github.com/dhamidi/rdparse/schema"
	"github.com/dhamidi/rdparse/source"
)

// collectionToken matches a bounded run of members of one type.
type collectionToken struct {
	partial
	elem     *schema.Type
	limit    schema.Limit
	children []token
}

func (c *collectionToken) advance(p *Parser) step {
	for {
		if n := len(c.children); n > 0 {
			last := c.children[n-1].base()
			switch last.state {
			case failed:
				c.children = c.children[:n-1]
				if len(c.children) >= c.limit.Min {
					c.complete(p)
					return step{kind: stepDone}
				}
				return c.traceback(p)
			case populated:
				// an empty member ends the list and only counts when the
				// minimum needs it
				if last.end.Offset == last.start.Offset {
					if n-1 >= c.limit.Min {
						c.children = c.children[:n-1]
					}
					c.complete(p)
					return step{kind: stepDone}
				}
			}
		}
		if c.limit.Max > 0 && len(c.children) >= c.limit.Max {
			c.complete(p)
			return step{kind: stepDone}
		}

		child, err := p.newMember(c.elem, c, p.src.Here())
		if err != nil {
			return p.abort(err)
		}
		c.children = append(c.children, child)
		if p.stalled(child) {
			child.base().state = failed
			continue
		}
		return step{kind: stepPush, child: child}
	}
}

func (c *collectionToken) traceback(p *Parser) step {
	kept, ok := retryFrom(p, c.children, len(c.children)-1)
	if !ok {
		p.debugf("list %s has %d of at least %d members", c.describe(), len(c.children), c.limit.Min)
		c.state = failed
		return step{kind: stepFail}
	}
	c.children = kept
	return step{kind: stepRetry}
}

func (c *collectionToken) complete(p *Parser) {
	items := make([]*Node, len(c.children))
	for i, ch := range c.children {
		items[i] = ch.base().value
	}
	c.end = p.src.Here()
	start := c.start
	if len(items) > 0 {
		start = items[0].Span.Start
	}
	c.value = &Node{
		Type:  c.typ.Name,
		Kind:  schema.KindList,
		Items: items,
		Span:  source.NewSpan(start, c.end),
		Text:  p.src.Slice(start.Offset, c.end.Offset),
		typ:   c.typ,
	}
	c.state = populated
}

func (c *collectionToken) alternatives() bool {
	for _, ch := range c.children {
		if ch.alternatives() {
			return true
		}
	}
	return false
}

func (c *collectionToken) reopen(p *Parser) {
	c.state = unpopulated
	c.value = nil
	if kept, ok := retryFrom(p, c.children, len(c.children)-1); ok {
		c.children = kept
	}
}

func (c *collectionToken) pullback(p *Parser) string {
	return pullbackAll(p, c.children)
}
