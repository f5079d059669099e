package format

import (
	"io"

	"github.com/dhamidi/rdparse/parse"
)

// TreeEncoder prints the indented tree returned by Node.String.
type TreeEncoder struct {
	w         io.Writer
	node      *parse.Node
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parse.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.positions {
		return []byte(e.node.StringWithPositions()), nil
	}
	return []byte(e.node.String()), nil
}
