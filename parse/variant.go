package parse

import "github.com/dhamidi/rdparse/schema"

// variantToken resolves a sum type by trying its candidates in priority order.
type variantToken struct {
	partial
	candidates []*schema.Type
	next       int
	child      token
}

func (v *variantToken) advance(p *Parser) step {
	if v.child != nil {
		switch v.child.base().state {
		case populated:
			v.value = v.child.base().value
			v.end = v.child.base().end
			v.state = populated
			return step{kind: stepDone}
		case failed:
			v.child = nil
		}
	}

	for v.next < len(v.candidates) {
		cand := v.candidates[v.next]
		v.next++
		if p.onTrace(cand.Name, v.start.Offset) {
			p.debugf("variant %s skips %s, already open here", v.describe(), cand.Name)
			continue
		}
		child, err := p.newCandidate(cand, v, v.start)
		if err != nil {
			return p.abort(err)
		}
		v.child = child
		return step{kind: stepPush, child: child}
	}

	v.state = failed
	return step{kind: stepFail}
}

func (v *variantToken) alternatives() bool {
	if v.next < len(v.candidates) {
		return true
	}
	return v.child != nil && v.child.base().state == populated && v.child.alternatives()
}

// reopen retries inside the chosen candidate when it has choices left, and
// otherwise discards it so the next candidate is tried from the variant's start.
func (v *variantToken) reopen(p *Parser) {
	v.state = unpopulated
	v.value = nil
	if v.child != nil && v.child.base().state == populated && v.child.alternatives() {
		p.push(v.child)
		v.child.reopen(p)
		return
	}
	if v.child != nil {
		p.release([]token{v.child})
		v.child = nil
	}
	p.src.Seek(v.start.Offset)
}

func (v *variantToken) pullback(p *Parser) string {
	if v.child == nil {
		return ""
	}
	return v.child.pullback(p)
}
