package grammars

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/rdparse/parse"
	"github.com/dhamidi/rdparse/schema"
)

func TestExamplesParse(t *testing.T) {
	for _, g := range All() {
		t.Run(g.Name, func(t *testing.T) {
			n, err := parse.ParseString(g.Schema, g.Example, g.Root)
			require.NoError(t, err)
			require.NotEmpty(t, n.Text)
			require.True(t, strings.HasPrefix(g.Example, n.Text), "consumed %q", n.Text)
		})
	}
}

func TestSchemasVerify(t *testing.T) {
	for _, g := range All() {
		t.Run(g.Name, func(t *testing.T) {
			require.NoError(t, schema.Verify(g.Schema, g.Root))
		})
	}
}

func TestLookup(t *testing.T) {
	g, err := Lookup("json")
	require.NoError(t, err)
	require.Equal(t, "Value", g.Root)

	_, err = Lookup("jsn")
	var unknown *UnknownError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, []string{"json"}, unknown.Suggestions)
	require.Contains(t, err.Error(), `did you mean json?`)

	_, err = Lookup("zzz")
	require.EqualError(t, err, `unknown grammar "zzz"`)
}

func TestArith(t *testing.T) {
	g := Arith()
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "BinaryOp(left=Number(value=1), op=+, right=BinaryOp(left=Number(value=2), op=*, right=Number(value=3)))"},
		{"8 / 4 / 2", "BinaryOp(left=BinaryOp(left=Number(value=8), op=/, right=Number(value=4)), op=/, right=Number(value=2))"},
		{"2 ** 3 * 4", "BinaryOp(left=BinaryOp(left=Number(value=2), op=**, right=Number(value=3)), op=*, right=Number(value=4))"},
		{"-1 - -2", "BinaryOp(left=Number(value=-1), op=-, right=Number(value=-2))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := parse.ParseString(g.Schema, tt.input, g.Root)
			require.NoError(t, err)
			require.Equal(t, tt.want, n.Inline())
		})
	}
}

func TestJSON(t *testing.T) {
	g := JSON()
	n, err := parse.ParseString(g.Schema, `{"a": [1, {"b": null}], "c": "x \"y\""}`, g.Root)
	require.NoError(t, err)
	require.Equal(t, "Object", n.Type)

	first := n.Field("first")
	require.Equal(t, "a", first.Field("key").Field("value").Value)
	require.Equal(t, "Array", first.Field("value").Type)

	rest := n.Field("rest").Items
	require.Len(t, rest, 1)
	require.Equal(t, `x \"y\"`, rest[0].Field("member").Field("value").Field("value").Value)

	n, err = parse.ParseString(g.Schema, `[]`, g.Root)
	require.NoError(t, err)
	require.False(t, n.Has("first"))

	_, err = parse.ParseString(g.Schema, `{"a" 1}`, g.Root)
	require.Error(t, err)
	_, err = parse.ParseString(g.Schema, `[1, 2,]`, g.Root)
	require.Error(t, err)
}

func TestTag(t *testing.T) {
	g := Tag()
	n, err := parse.ParseString(g.Schema, "<a>x<b>y</b>z</a>", g.Root)
	require.NoError(t, err)
	require.Len(t, n.Field("children").Items, 3)

	_, err = parse.ParseString(g.Schema, "<a>x</b>", g.Root)
	var perr *parse.Error
	require.True(t, errors.As(err, &perr), "got %v", err)
	require.Equal(t, 6, perr.Location.Offset)
}

func TestINI(t *testing.T) {
	g := INI()
	n, err := parse.ParseString(g.Schema, g.Example, g.Root)
	require.NoError(t, err)

	entries := n.Field("entries").Items
	require.Len(t, entries, 4)
	require.Equal(t, "Section", entries[0].Type)
	require.Equal(t, "8080", entries[1].Field("value").Value)
	require.Equal(t, " local only", entries[2].Field("text").Value)
	require.Equal(t, "localhost", entries[3].Field("value").Value)
}

func TestGreeting(t *testing.T) {
	g := Greeting()
	tests := []struct {
		input string
		want  string
	}{
		{"hi", "Greeting(salutation=nil, name=nil)"},
		{"hi Bob", `Greeting(salutation=nil, name="Bob")`},
		{"well hi Bob", `Greeting(salutation="well", name="Bob")`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := parse.ParseString(g.Schema, tt.input, g.Root)
			require.NoError(t, err)
			require.Equal(t, tt.want, n.Inline())
		})
	}
}
