package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/rdparse/source"
)

func TestUnrotateIsIdempotent(t *testing.T) {
	inputs := []string{"1 + 2", "2 * 3 + 1", "1 - 2 - 3 - 4", "1 * 2 + 3 * 4", "(1 + 2) * 3"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			s := NewSession(arithGrammar())
			n, err := s.ParseString(input, "Token")
			require.NoError(t, err)

			p := newParser(s, nil)
			p.src = source.FromString("", input)
			p.src.Rest()
			n.Walk(func(n *Node, _ int) bool {
				if n.typ != nil && s.rotatable(n.typ) {
					require.Same(t, n, p.unrotate(n), "rotating %q again", n.Text)
				}
				return true
			})
		})
	}
}

func TestPrioritiesDecreaseWithDepth(t *testing.T) {
	n, err := ParseString(arithGrammar(), "1 * 2 + 3 * 4 - 5 / 6", "Token")
	require.NoError(t, err)
	require.Equal(t,
		"BinaryOp(left=BinaryOp(left=BinaryOp(left=Number(value=1), op=*, right=Number(value=2)), op=+, right=BinaryOp(left=Number(value=3), op=*, right=Number(value=4))), op=-, right=BinaryOp(left=Number(value=5), op=/, right=Number(value=6)))",
		n.Inline())

	n.Walk(func(n *Node, _ int) bool {
		for _, c := range n.Children() {
			if c.Type == "BinaryOp" && n.Type == "BinaryOp" && c == n.Field("right") {
				require.Less(t, c.Priority, n.Priority)
			}
		}
		return true
	})
}
