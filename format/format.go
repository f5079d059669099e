// Package format writes parse trees in the output formats of the rdp tool.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/rdparse/parse"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node *parse.Node) error
}

// Names lists the formats accepted by New.
var Names = []string{"tree", "line", "json", "cbor"}

// New returns the encoder for a format name.
func New(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case "tree":
		return NewTreeEncoder(w, positions), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "cbor":
		return NewCBOREncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

func write(w io.Writer, e Encoder) error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
