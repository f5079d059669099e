package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/rdparse/parse"
	"github.com/dhamidi/rdparse/schema"
)

// LineEncoder prints one tab-separated line per node:
// path, type, span and, for leaves, the quoted text.
type LineEncoder struct {
	w    io.Writer
	node *parse.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *parse.Node) error {
	e.node = node
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, e.node, "$")
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, n *parse.Node, path string) {
	if n == nil {
		return
	}
	fmt.Fprintf(sb, "%s\t%s\t%d:%d-%d:%d",
		path,
		n.Type,
		n.Span.Start.Line, n.Span.Start.Column,
		n.Span.End.Line, n.Span.End.Column,
	)
	if n.Kind.Leaf() {
		fmt.Fprintf(sb, "\t%q", n.Text)
	}
	sb.WriteString("\n")

	switch n.Kind {
	case schema.KindRule:
		for i, f := range n.Fields {
			if name := n.FieldName(i); name != "" {
				e.writeNode(sb, f, path+"."+name)
			}
		}
	case schema.KindList:
		for i, item := range n.Items {
			e.writeNode(sb, item, fmt.Sprintf("%s[%d]", path, i))
		}
	}
}
