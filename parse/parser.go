package parse

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/rdparse/match"
	"github.com/dhamidi/rdparse/schema"
	"github.com/dhamidi/rdparse/source"
)

// Option configures a single parse.
type Option func(*Parser)

// WithSourceName names the input in locations and errors.
func WithSourceName(name string) Option {
	return func(p *Parser) {
		p.name = name
	}
}

// WithStepLimit aborts the parse with ErrStepLimit after n steps of the
// driving loop. Zero means no limit.
func WithStepLimit(n int) Option {
	return func(p *Parser) {
		p.limit = n
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser drives one parse over a shared cursor. The trace holds the tokens
// from the root down to the active one.
type Parser struct {
	session *Session
	src     *source.Buffer
	name    string
	limit   int
	steps   int
	log     commonlog.Logger
	debug   bool
	trace   []token
	fatal   error

	far      int // furthest offset a leaf failed at, -1 before any failure
	frames   []Frame
	expected []string

	trailing *Error // longest root completion that left input behind
}

func newParser(s *Session, opts []Option) *Parser {
	p := &Parser{
		session: s,
		name:    "<input>",
		log:     s.log,
		far:     -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.debug = p.log.AllowLevel(commonlog.Debug)
	return p
}

func (p *Parser) run(r io.Reader, root string) (*Node, error) {
	p.src = source.NewBuffer(p.name, r)
	rt, err := p.session.lookup(root)
	if err != nil {
		return nil, err
	}
	top, err := p.newToken(rt, nil, nil, p.src.Here())
	if err != nil {
		return nil, err
	}
	p.push(top)

	for {
		if p.fatal != nil {
			return nil, p.fatal
		}
		if err := p.src.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", p.name, err)
		}

		if len(p.trace) == 0 {
			b := top.base()
			if b.state == failed {
				if p.trailing != nil && p.trailing.Location.Offset >= p.far {
					return nil, p.trailing
				}
				return nil, p.failure()
			}
			if p.finished(rt) {
				p.debugf("parsed %s in %d steps", rt.Name, p.steps)
				return b.value, nil
			}
			p.noteTrailing(top)
			if !top.alternatives() {
				return nil, p.trailing
			}
			p.debugf("trailing input after %s, retrying", b.describe())
			p.push(top)
			top.reopen(p)
			continue
		}

		if p.limit > 0 && p.steps >= p.limit {
			return nil, &Error{
				Message:  fmt.Sprintf("gave up after %d steps", p.steps),
				Location: p.src.Here(),
				Trace:    p.snapshot(p.src.Offset()),
				Err:      ErrStepLimit,
			}
		}
		p.steps++

		active := p.trace[len(p.trace)-1]
		s := active.advance(p)
		switch s.kind {
		case stepPush:
			p.push(s.child)
		case stepDone:
			p.pop()
		case stepFail:
			p.pop()
			p.src.Seek(active.base().start.Offset)
			p.debugf("%s failed", active.base().describe())
		}
	}
}

func (p *Parser) push(t token) {
	p.trace = append(p.trace, t)
}

func (p *Parser) pop() {
	p.trace = p.trace[:len(p.trace)-1]
}

// onTrace reports whether a token of the named type started at offset is
// still open.
func (p *Parser) onTrace(name string, offset int) bool {
	for _, t := range p.trace {
		b := t.base()
		if b.typ.Name == name && b.start.Offset == offset {
			return true
		}
	}
	return false
}

// stalled reports whether a freshly created rule child would re-enter a rule
// already open at the same offset.
func (p *Parser) stalled(t token) bool {
	b := t.base()
	if b.typ.Kind != schema.KindRule || !p.onTrace(b.typ.Name, b.start.Offset) {
		return false
	}
	p.debugf("%s stalls on left recursion", b.describe())
	return true
}

// release gives back what discarded tokens consumed.
func (p *Parser) release(tokens []token) {
	if len(tokens) == 0 {
		return
	}
	if p.debug {
		var live []token
		for _, t := range tokens {
			if t.base().state == populated {
				live = append(live, t)
			}
		}
		if text := pullbackAll(p, live); text != "" {
			p.debugf("released %q", text)
		}
	}
	p.src.Seek(tokens[0].base().start.Offset)
}

func (p *Parser) abort(err error) step {
	p.fatal = err
	return step{kind: stepFail}
}

func (p *Parser) debugf(format string, args ...any) {
	if p.debug {
		p.log.Debugf(format, args...)
	}
}

// newToken creates the token for a value of type t.
func (p *Parser) newToken(t *schema.Type, f *schema.Field, parent token, at source.Location) (token, error) {
	base := partial{typ: t, field: f, parent: parent, start: at}
	switch t.Kind {
	case schema.KindRule:
		return &ruleToken{partial: base}, nil
	case schema.KindSum:
		cands, err := p.session.candidates(t)
		if err != nil {
			return nil, err
		}
		return &variantToken{partial: base, candidates: cands}, nil
	case schema.KindList:
		elem, err := p.session.lookup(t.Elem)
		if err != nil {
			return nil, err
		}
		c := &collectionToken{partial: base, elem: elem}
		if f != nil && f.Limit != nil {
			c.limit = *f.Limit
		}
		return c, nil
	}
	return p.newLeaf(t, f, f, parent, at)
}

// newLeaf creates a leaf token. directives is the field whose matching
// directives apply, which for list members is the list's field.
func (p *Parser) newLeaf(t *schema.Type, f, directives *schema.Field, parent token, at source.Location) (token, error) {
	var m match.Matcher
	if directives != nil && directives.Equals != "" {
		m = p.equalsMatcher(directives, parent)
	} else {
		var err error
		if m, err = p.session.matcher(directives, t); err != nil {
			return nil, err
		}
	}
	return &leafToken{
		partial: partial{typ: t, field: f, parent: parent, start: at},
		cons: consumption{
			matcher: m,
			ignore:  p.ignoreFor(directives, parent),
		},
		expect: expectation(directives, t),
	}, nil
}

func (p *Parser) newField(f *schema.Field, parent token, at source.Location) (token, error) {
	t, err := p.session.lookup(f.Type)
	if err != nil {
		return nil, err
	}
	return p.newToken(t, f, parent, at)
}

func (p *Parser) newCandidate(t *schema.Type, parent token, at source.Location) (token, error) {
	return p.newToken(t, nil, parent, at)
}

func (p *Parser) newMember(t *schema.Type, list *collectionToken, at source.Location) (token, error) {
	if t.Kind.Leaf() {
		return p.newLeaf(t, nil, list.field, list, at)
	}
	return p.newToken(t, nil, list, at)
}

// equalsMatcher matches the text consumed by an earlier sibling, or nothing
// when that sibling was left absent.
func (p *Parser) equalsMatcher(f *schema.Field, parent token) match.Matcher {
	r, ok := parent.(*ruleToken)
	if !ok {
		return match.Null
	}
	s := r.sibling(f.Equals)
	if s == nil || s.base().absent || s.base().value == nil {
		return match.Null
	}
	return match.Terminal(s.base().value.Text)
}

// ignoreFor resolves the characters skipped before a leaf of field f under
// parent: the field's own set, then the closest rule's set, then sets of
// rules and fields further out that are inherited, then the grammar default.
func (p *Parser) ignoreFor(f *schema.Field, parent token) *schema.Ignore {
	if f != nil && f.Ignore != nil {
		return f.Ignore
	}
	closest := true
	for t := parent; t != nil; t = t.base().parent {
		b := t.base()
		if b.typ.Kind == schema.KindRule {
			if ig := b.typ.Ignore; ig != nil && (closest || ig.Inherit) {
				return ig
			}
			closest = false
		}
		if b.field != nil && b.field.Ignore != nil && b.field.Ignore.Inherit {
			return b.field.Ignore
		}
	}
	return p.session.ignore
}

// lookahead reports whether the input continues with text once the characters
// ignored before field f are skipped. The cursor does not move.
func (p *Parser) lookahead(f *schema.Field, parent token, text string) bool {
	ig := p.ignoreFor(f, parent)
	p.src.Mark()
	defer p.src.Restore()
	for {
		r, ok := p.src.Peek()
		if !ok || !ig.Has(r) {
			break
		}
		p.src.Next()
	}
	return p.src.HasPrefix(text)
}

// finished reports whether everything after the cursor may be ignored at the
// root.
func (p *Parser) finished(root *schema.Type) bool {
	ig := root.Ignore
	if ig == nil {
		ig = p.session.ignore
	}
	for _, r := range p.src.Rest() {
		if !ig.Has(r) {
			return false
		}
	}
	return true
}

// noteFailure records the trace when a leaf fails at or beyond the furthest
// offset seen so far.
func (p *Parser) noteFailure(t *leafToken, at int) {
	switch {
	case at > p.far:
		p.far = at
		p.frames = p.snapshot(at)
		p.expected = p.expected[:0]
	case at < p.far:
		return
	}
	for _, e := range p.expected {
		if e == t.expect {
			return
		}
	}
	p.expected = append(p.expected, t.expect)
}

// snapshot captures the trace, innermost first.
func (p *Parser) snapshot(at int) []Frame {
	frames := make([]Frame, 0, len(p.trace))
	for i := len(p.trace) - 1; i >= 0; i-- {
		b := p.trace[i].base()
		fr := Frame{
			Type:     b.typ.Name,
			Excerpt:  excerpt(p.src.Slice(b.start.Offset, at)),
			Location: b.start,
		}
		if b.field != nil {
			fr.Field = b.field.Label()
		}
		frames = append(frames, fr)
	}
	return frames
}

func (p *Parser) noteTrailing(root token) {
	b := root.base()
	if p.trailing != nil && p.trailing.Location.Offset >= b.end.Offset {
		return
	}
	rest := p.src.Rest()
	at := b.end.Offset
	ig := b.typ.Ignore
	if ig == nil {
		ig = p.session.ignore
	}
	trimmed := strings.TrimLeftFunc(rest, ig.Has)
	at += len(rest) - len(trimmed)
	p.trailing = &Error{
		Message:  fmt.Sprintf("unmatched trailing symbols %q", excerpt(trimmed)),
		Location: p.src.Location(at),
		Trace:    []Frame{{Type: b.typ.Name, Excerpt: excerpt(b.value.Text), Location: b.start}},
		Err:      ErrTrailing,
	}
}

// failure builds the error for a parse whose root failed.
func (p *Parser) failure() *Error {
	if p.far < 0 {
		return &Error{
			Message:  "no candidate matched",
			Location: p.src.Location(0),
			Err:      ErrNoMatch,
		}
	}
	found := "end of input"
	p.src.Seek(p.far)
	if r, ok := p.src.Peek(); ok {
		found = fmt.Sprintf("%q", r)
	}
	return &Error{
		Message:  fmt.Sprintf("unexpected %s, expected %s", found, strings.Join(p.expected, " or ")),
		Location: p.src.Location(p.far),
		Expected: append([]string(nil), p.expected...),
		Trace:    p.frames,
		Err:      ErrNoMatch,
	}
}

const excerptLength = 40

func excerpt(s string) string {
	if len(s) <= excerptLength {
		return s
	}
	cut := excerptLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
