package format

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/dhamidi/rdparse/parse"
)

// CBOREncoder writes the JSON document model in CBOR.
type CBOREncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) Encode(node *parse.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *CBOREncoder) MarshalText() ([]byte, error) {
	return cbor.Marshal(e.node)
}
