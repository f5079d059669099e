package schema

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func arith() *Grammar {
	g := New().SetIgnore(" ")
	g.Sum("Expr", "Num", "Binary")
	g.Rule("Num", F("value", Int))
	g.Rule("Binary",
		F("left", "Expr"),
		F("op", "Op", AdjustPriority(0, true)),
		F("right", "Expr"),
	)
	g.Enum("Op", Opt("+", 2), Opt("*", 1))
	return g
}

func TestLookup(t *testing.T) {
	g := arith()
	tests := []struct {
		name string
		kind Kind
	}{
		{"Expr", KindSum},
		{"Binary", KindRule},
		{"Op", KindEnum},
		{Int, KindNumber},
		{Text, KindText},
		{ListOf("Expr"), KindList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := g.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.name, err)
			}
			if typ.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", typ.Kind, tt.kind)
			}
		})
	}

	_, err := g.Lookup("Missing")
	var serr *Error
	if !errors.As(err, &serr) || serr.Reason != "unknown type" {
		t.Errorf("Lookup(Missing) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		typ    *Type
		reason string
	}{
		{"ok", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{Mark(":"), F("command", Text, Regex(`[^;\n]+`))}}, ""},
		{"missing directive", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("command", Text)}}, "text field needs"},
		{"literal and pattern", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", Text, Literal("a"), Regex("b"))}}, "both a literal and a pattern"},
		{"value and until", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{{Name: "x", Type: Text, Pattern: &Pattern{Value: "a", Until: "b"}}}}, "both a value and an until"},
		{"bad regex", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", Text, Regex("("))}}, "missing closing"},
		{"later sibling", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", Int, OptionalIfNull("y")), F("y", Int)}}, "not an earlier field"},
		{"equals later", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", Text, Equals("y")), F("y", Text, Literal("a"))}}, "not an earlier field"},
		{"limit on scalar", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", Int, Between(1, 2))}}, "capture limit"},
		{"bad limit", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", ListOf(Int), Between(3, 2))}}, "invalid capture limit"},
		{"unknown field type", &Type{Name: "Cmd", Kind: KindRule, Fields: []*Field{F("x", "Nope")}}, "unknown type"},
		{"empty sum", &Type{Name: "S", Kind: KindSum}, "without candidates"},
		{"leaf candidate", &Type{Name: "S", Kind: KindSum, Candidates: []string{Int}}, "not a node type"},
		{"empty enum", &Type{Name: "E", Kind: KindEnum}, "without options"},
	}
	g := arith()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(g, tt.typ)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.reason)
			}
		})
	}
}

func TestEBNFRendering(t *testing.T) {
	g := arith()
	if err := Verify(g, "Expr"); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteEBNF(&buf, EBNF(g, "Expr"), "Expr"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`Expr = Num | Binary .`,
		`Binary = Expr Op Expr .`,
		`Num = int .`,
		`Op = "+" | "*" .`,
		`digit = "0" … "9" .`,
		`int = [ "-" ] digit { digit } .`,
	}
	out := buf.String()
	if !strings.HasPrefix(out, want[0]) {
		t.Errorf("start production not first:\n%s", out)
	}
	for _, line := range want {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("missing %q in:\n%s", line, out)
		}
	}
}

func TestVerifyReportsMissingTypes(t *testing.T) {
	g := New()
	g.Rule("Doc", F("body", "Body"))
	err := Verify(g, "Doc")
	if err == nil || !strings.Contains(err.Error(), "missing production Body") {
		t.Errorf("Verify() = %v, want missing production", err)
	}
}

func TestListFieldRendering(t *testing.T) {
	g := New()
	g.Rule("Doc", F("items", ListOf("Item"), Between(1, 0)))
	g.Rule("Item", Mark("x"))
	var buf bytes.Buffer
	if err := WriteEBNF(&buf, EBNF(g, "Doc"), "Doc"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Doc = Item { Item } .") {
		t.Errorf("unexpected rendering:\n%s", buf.String())
	}
}

func TestOptionalDirectives(t *testing.T) {
	tests := []struct {
		name string
		opt  FieldOption
		want Optionality
	}{
		{"always", Optional(), Optionality{Kind: Always}},
		{"followed by", OptionalFollowedBy("hi"), Optionality{Kind: FollowedBy, Text: "hi"}},
		{"if null", OptionalIfNull("x"), Optionality{Kind: IfNull, Sibling: "x"}},
		{"if set", OptionalIfSet("x"), Optionality{Kind: IfSet, Sibling: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := F("y", Text, Literal("y"), tt.opt)
			if f.Optional == nil {
				t.Fatal("Optional not set")
			}
			if *f.Optional != tt.want {
				t.Errorf("Optional = %+v, want %+v", *f.Optional, tt.want)
			}
		})
	}
}
