package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/rdparse/match"
	"github.com/dhamidi/rdparse/schema"
	"github.com/dhamidi/rdparse/source"
)

// consumption feeds characters to a matcher one at a time.
type consumption struct {
	matcher match.Matcher
	ignore  *schema.Ignore
	text    int // offset of the first character handed to the matcher
	at      int // where the matcher gave up
	probed  bool
	buf     strings.Builder
	last    *match.Result // most recent MatchContinue
}

// step consumes at most one character. It reports done once the matcher has
// either matched or failed.
func (c *consumption) step(src *source.Buffer) (match.Result, bool) {
	if !c.probed {
		if r, ok := src.Peek(); ok && c.ignore.Has(r) {
			src.Next()
			return match.Result{}, false
		}
		c.probed = true
		c.text = src.Offset()
		c.at = c.text
		return c.handle(c.matcher(""))
	}

	r, ok := src.Next()
	if !ok {
		c.at = src.Offset()
		if c.last != nil {
			return *c.last, true
		}
		return match.Result{Status: match.Fail}, true
	}
	c.at = src.Offset() - utf8.RuneLen(r)
	c.buf.WriteRune(r)
	return c.handle(c.matcher(c.buf.String()))
}

func (c *consumption) handle(res match.Result) (match.Result, bool) {
	switch res.Status {
	case match.Continue:
		return res, false
	case match.MatchContinue:
		c.last = &res
		return res, false
	}
	return res, true
}

type leafToken struct {
	partial
	cons   consumption
	expect string
}

func (t *leafToken) advance(p *Parser) step {
	res, done := t.cons.step(p.src)
	if !done {
		return step{kind: stepStay}
	}
	if res.Status == match.Fail {
		p.noteFailure(t, t.cons.at)
		t.state = failed
		return step{kind: stepFail}
	}

	end := t.cons.text + res.Length
	p.src.Seek(end)
	t.end = p.src.Location(end)
	t.state = populated
	t.value = &Node{
		Type:  t.typ.Name,
		Kind:  t.typ.Kind,
		Value: res.Value,
		Span:  source.NewSpan(p.src.Location(t.cons.text), t.end),
		Text:  p.src.Slice(t.cons.text, end),
		typ:   t.typ,
	}
	if t.typ.Kind == schema.KindEnum {
		if s, ok := res.Value.(string); ok {
			if o, ok := t.typ.Option(s); ok {
				t.value.Priority = o.Priority
			}
		}
	}
	p.debugf("leaf %s matched %q", t.describe(), t.value.Text)
	return step{kind: stepDone}
}

func (t *leafToken) alternatives() bool { return false }

func (t *leafToken) reopen(*Parser) {}

func (t *leafToken) pullback(p *Parser) string {
	if t.state != populated {
		return ""
	}
	return p.src.Slice(t.start.Offset, t.end.Offset)
}
