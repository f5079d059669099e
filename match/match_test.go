package match

import (
	"math/big"
	"testing"
)

func TestTerminal(t *testing.T) {
	m := Terminal("/*")
	tests := []struct {
		buf  string
		want Status
		len  int
	}{
		{"", Continue, 0},
		{"/", Continue, 0},
		{"/*", Match, 2},
		{"/*x", Match, 2},
		{"//", Fail, 0},
		{"x", Fail, 0},
	}
	for _, tt := range tests {
		t.Run(tt.buf, func(t *testing.T) {
			got := m(tt.buf)
			if got.Status != tt.want || got.Length != tt.len {
				t.Errorf("Terminal(%q) = %v, want %v(%d)", tt.buf, got, tt.want, tt.len)
			}
		})
	}
}

func TestEnumPrefersLongestOption(t *testing.T) {
	m := Enum([]string{"<", "<=", "="})
	tests := []struct {
		buf   string
		want  Status
		value any
	}{
		{"<", MatchContinue, "<"},
		{"<=", Match, "<="},
		{"<x", Match, "<"},
		{"=", Match, "="},
		{"!", Fail, nil},
	}
	for _, tt := range tests {
		t.Run(tt.buf, func(t *testing.T) {
			got := m(tt.buf)
			if got.Status != tt.want || got.Value != tt.value {
				t.Errorf("Enum(%q) = %v, want %v %v", tt.buf, got, tt.want, tt.value)
			}
		})
	}
}

func TestPatternGrowsThenStalls(t *testing.T) {
	m, err := Pattern(`[^;\n]+`, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		buf   string
		want  Status
		len   int
		value any
	}{
		{"", Continue, 0, nil},
		{"t", MatchContinue, 1, "t"},
		{"test", MatchContinue, 4, "test"},
		{"test;", Match, 4, "test"},
		{";", Fail, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.buf, func(t *testing.T) {
			got := m(tt.buf)
			if got.Status != tt.want || got.Length != tt.len || got.Value != tt.value {
				t.Errorf("Pattern(%q) = %v, want %v(%d, %v)", tt.buf, got, tt.want, tt.len, tt.value)
			}
		})
	}
}

func TestPatternLoopsKeepGrowing(t *testing.T) {
	tests := []struct {
		expr string
		buf  string
		want Status
		len  int
	}{
		{`[a-z]+`, "hello", MatchContinue, 5},
		{`[a-z]+`, "hello world", Match, 5},
		{`[^;\n]+`, "a longer command", MatchContinue, 16},
		{`(ab)*c`, "ababab", Continue, 0},
		{`(ab)*c`, "abababc", Match, 7},
		{`x*`, "xxxxxxxx", MatchContinue, 8},
	}
	for _, tt := range tests {
		t.Run(tt.expr+"/"+tt.buf, func(t *testing.T) {
			m, err := Pattern(tt.expr, nil)
			if err != nil {
				t.Fatal(err)
			}
			got := m(tt.buf)
			if got.Status != tt.want || got.Length != tt.len {
				t.Errorf("Pattern(%q)(%q) = %v, want %v(%d)", tt.expr, tt.buf, got, tt.want, tt.len)
			}
		})
	}
}

func TestPatternPrefixNeedsMoreInput(t *testing.T) {
	m, err := Pattern(`0x[0-9a-f]+`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m("0"); got.Status != Continue {
		t.Errorf("m(0) = %v, want CONTINUE", got)
	}
	if got := m("0x"); got.Status != Continue {
		t.Errorf("m(0x) = %v, want CONTINUE", got)
	}
	if got := m("0x1f"); got.Status != MatchContinue || got.Length != 4 {
		t.Errorf("m(0x1f) = %v, want MATCH_CONTINUE(4)", got)
	}
	if got := m("0y"); got.Status != Fail {
		t.Errorf("m(0y) = %v, want FAIL", got)
	}
}

func TestPatternAlternationKeepsShorterMatch(t *testing.T) {
	m, err := Pattern(`ab|abcd`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m("abc"); got.Status != Continue {
		t.Errorf("m(abc) = %v, want CONTINUE", got)
	}
	if got := m("abcx"); got.Status != Match || got.Length != 2 {
		t.Errorf("m(abcx) = %v, want MATCH(2)", got)
	}
	if got := m("abcd"); got.Status != Match || got.Length != 4 {
		t.Errorf("m(abcd) = %v, want MATCH(4)", got)
	}
}

func TestPatternReplace(t *testing.T) {
	repl := "<$1>"
	m, err := Pattern(`#(\w+)`, &repl)
	if err != nil {
		t.Fatal(err)
	}
	got := m("#tag ")
	if got.Status != Match || got.Value != "<tag>" {
		t.Errorf("m(#tag ) = %v, want MATCH(4, <tag>)", got)
	}
}

func TestUntil(t *testing.T) {
	m, err := Until(`\*/`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m(" body *"); got.Status != MatchContinue {
		t.Errorf("unterminated = %v, want MATCH_CONTINUE", got)
	}
	got := m(" body */")
	if got.Status != Match || got.Length != 8 || got.Value != " body " {
		t.Errorf("terminated = %v, want MATCH(8,  body )", got)
	}

	repl := ";"
	m, err = Until(`\n`, &repl)
	if err != nil {
		t.Fatal(err)
	}
	if got := m("line\n"); got.Value != "line;" {
		t.Errorf("replaced terminator = %v", got)
	}
}

func TestNumber(t *testing.T) {
	m := Number(ParseInt)
	tests := []struct {
		buf   string
		want  Status
		len   int
		value any
	}{
		{"", Continue, 0, nil},
		{"-", Continue, 0, nil},
		{"12", MatchContinue, 2, int64(12)},
		{"12 ", Match, 2, int64(12)},
		{"12+", Match, 2, int64(12)},
		{"1.", Continue, 0, nil},
		{"1.x", Match, 1, int64(1)},
		{"x", Fail, 0, nil},
		{"99999999999999999999", Fail, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.buf, func(t *testing.T) {
			got := m(tt.buf)
			if got.Status != tt.want || got.Length != tt.len || got.Value != tt.value {
				t.Errorf("Number(%q) = %v, want %v(%d, %v)", tt.buf, got, tt.want, tt.len, tt.value)
			}
		})
	}
}

func TestNumberFloatExponent(t *testing.T) {
	m := Number(ParseFloat)
	if got := m("1e"); got.Status != Continue {
		t.Errorf("m(1e) = %v, want CONTINUE", got)
	}
	if got := m("1e5"); got.Status != MatchContinue || got.Value != 1e5 {
		t.Errorf("m(1e5) = %v", got)
	}
	if got := m("1e999"); got.Status != Fail {
		t.Errorf("overflow = %v, want FAIL", got)
	}
}

func TestNumberBigInt(t *testing.T) {
	m := Number(ParseBigInt)
	got := m("123456789012345678901234567890")
	n, ok := got.Value.(*big.Int)
	if got.Status != MatchContinue || !ok || n.String() != "123456789012345678901234567890" {
		t.Errorf("big = %v", got)
	}
}

func TestNull(t *testing.T) {
	if got := Null("anything"); got.Status != Match || got.Length != 0 || got.Value != nil {
		t.Errorf("Null = %v", got)
	}
}
