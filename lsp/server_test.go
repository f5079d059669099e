package lsp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/rdparse/grammars"
)

func TestDiagnose(t *testing.T) {
	g, err := grammars.Lookup("arith")
	require.NoError(t, err)
	s := NewServer(g, "test")

	require.Empty(t, s.Diagnose("file:///tmp/ok.txt", "1 + 2"))

	diags := s.Diagnose("file:///tmp/bad.txt", "1 +\n  * 2")
	require.Len(t, diags, 1)
	require.EqualValues(t, 1, diags[0].Range.Start.Line)
	require.EqualValues(t, 2, diags[0].Range.Start.Character)
	require.Contains(t, diags[0].Message, "unexpected '*'")

	diags = s.Diagnose("file:///tmp/trailing.txt", "(1) )")
	require.Len(t, diags, 1)
	require.EqualValues(t, 4, diags[0].Range.Start.Character)
	require.EqualValues(t, 5, diags[0].Range.End.Character)
}

func TestDiagnoseWideRune(t *testing.T) {
	g, err := grammars.Lookup("arith")
	require.NoError(t, err)
	s := NewServer(g, "test")

	diags := s.Diagnose("file:///tmp/emoji.txt", "1 + 😀")
	require.Len(t, diags, 1)
	require.EqualValues(t, 4, diags[0].Range.Start.Character)
	require.EqualValues(t, 6, diags[0].Range.End.Character)
	require.Contains(t, diags[0].Message, "unexpected '😀'")
}

func TestPosition(t *testing.T) {
	text := "ab\nçd€x"
	p := position(text, len("ab\nçd€"))
	require.EqualValues(t, 1, p.Line)
	require.EqualValues(t, 3, p.Character)

	p = position(text, 100)
	require.EqualValues(t, 4, p.Character)
}

func TestURIToPath(t *testing.T) {
	require.Equal(t, "/tmp/a b.txt", uriToPath("file:///tmp/a%20b.txt"))
	require.Equal(t, "untitled:1", uriToPath("untitled:1"))
}
