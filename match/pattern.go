package match

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"unicode/utf8"
)

// Pattern matches the longest prefix accepted by a regular expression, growing
// while more input could still extend the match. When replace is non-nil the
// matched text is rewritten with Regexp.ReplaceAllString before it becomes the value.
func Pattern(expr string, replace *string) (Matcher, error) {
	prog, err := compileProg(expr)
	if err != nil {
		return nil, err
	}
	var re *regexp.Regexp
	if replace != nil {
		if re, err = regexp.Compile(expr); err != nil {
			return nil, err
		}
	}
	value := func(text string) any {
		if re == nil {
			return text
		}
		return re.ReplaceAllString(text, *replace)
	}
	return func(buf string) Result {
		longest, alive := scan(prog, buf)
		switch {
		case longest == len(buf) && alive:
			return partial(longest, value(buf))
		case longest == len(buf):
			return matched(longest, value(buf))
		case alive:
			return continuing()
		case longest >= 0:
			return matched(longest, value(buf[:longest]))
		}
		return failed()
	}, nil
}

// Until accumulates input until the terminator expression matches anywhere in
// the buffer. The terminator is consumed but stripped from the value, or
// replaced by the expansion of replace when it is non-nil. Until the terminator
// shows up the buffer is a MatchContinue, so an unterminated run is accepted at
// end of input.
func Until(terminator string, replace *string) (Matcher, error) {
	re, err := regexp.Compile(terminator)
	if err != nil {
		return nil, err
	}
	return func(buf string) Result {
		loc := re.FindStringIndex(buf)
		if loc == nil || loc[1] == 0 {
			return partial(len(buf), buf)
		}
		text := buf[:loc[0]]
		if replace != nil {
			text += re.ReplaceAllString(buf[loc[0]:loc[1]], *replace)
		}
		return matched(loc[1], text)
	}, nil
}

func compileProg(expr string) (*syntax.Prog, error) {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("parse pattern %q: %w", expr, err)
	}
	prog, err := syntax.Compile(re.Simplify())
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return prog, nil
}

// threads is a set of program counters, kept in insertion order. visited
// holds every pc marked in seen, including the empty transitions followed on
// the way to pcs.
type threads struct {
	seen    []bool
	visited []uint32
	pcs     []uint32
}

func newThreads(n int) *threads {
	return &threads{seen: make([]bool, n)}
}

func (t *threads) clear() {
	for _, pc := range t.visited {
		t.seen[pc] = false
	}
	t.visited = t.visited[:0]
	t.pcs = t.pcs[:0]
}

// add follows empty transitions from pc. prev and next are the runes around
// the current position, -1 at the buffer edges.
func (t *threads) add(prog *syntax.Prog, pc uint32, prev, next rune) {
	if t.seen[pc] {
		return
	}
	t.seen[pc] = true
	t.visited = append(t.visited, pc)
	inst := &prog.Inst[pc]
	switch inst.Op {
	case syntax.InstAlt, syntax.InstAltMatch:
		t.add(prog, inst.Out, prev, next)
		t.add(prog, inst.Arg, prev, next)
	case syntax.InstCapture, syntax.InstNop:
		t.add(prog, inst.Out, prev, next)
	case syntax.InstEmptyWidth:
		if syntax.EmptyOp(inst.Arg)&^syntax.EmptyOpContext(prev, next) == 0 {
			t.add(prog, inst.Out, prev, next)
		}
	case syntax.InstFail:
	default:
		t.pcs = append(t.pcs, pc)
	}
}

func consumes(inst *syntax.Inst, r rune) bool {
	switch inst.Op {
	case syntax.InstRune1:
		return r == inst.Rune[0]
	case syntax.InstRune:
		return inst.MatchRune(r)
	case syntax.InstRuneAny:
		return true
	case syntax.InstRuneAnyNotNL:
		return r != '\n'
	}
	return false
}

// scan simulates prog over buf anchored at its start. It returns the length of
// the longest matching prefix (-1 if there is none) and whether some thread is
// still waiting for input once the whole buffer has been consumed.
//
// End-of-text assertions are evaluated against the end of the buffer, which
// may not be the end of the input.
func scan(prog *syntax.Prog, buf string) (longest int, alive bool) {
	longest = -1
	clist := newThreads(len(prog.Inst))
	nlist := newThreads(len(prog.Inst))

	prev := rune(-1)
	next, width := rune(-1), 0
	if len(buf) > 0 {
		next, width = utf8.DecodeRuneInString(buf)
	}
	clist.add(prog, uint32(prog.Start), prev, next)

	for pos := 0; ; {
		for _, pc := range clist.pcs {
			if prog.Inst[pc].Op == syntax.InstMatch {
				longest = pos
				break
			}
		}
		if pos >= len(buf) {
			for _, pc := range clist.pcs {
				if prog.Inst[pc].Op != syntax.InstMatch {
					return longest, true
				}
			}
			return longest, false
		}

		r := next
		pos += width
		prev = r
		next, width = -1, 0
		if pos < len(buf) {
			next, width = utf8.DecodeRuneInString(buf[pos:])
		}

		nlist.clear()
		for _, pc := range clist.pcs {
			inst := &prog.Inst[pc]
			if consumes(inst, r) {
				nlist.add(prog, inst.Out, prev, next)
			}
		}
		clist, nlist = nlist, clist
		if len(clist.pcs) == 0 {
			return longest, false
		}
	}
}
