package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/rdparse/schema"
	"github.com/dhamidi/rdparse/source"
)

// Node is a value of a schema type. Rule nodes have one entry in Fields per
// declared field, nil where an optional field was left absent. List nodes
// have Items. Leaves carry the matched Value.
type Node struct {
	Type     string
	Kind     schema.Kind
	Fields   []*Node
	Items    []*Node
	Value    any
	Priority int
	Span     source.Span
	Text     string // source consumed by the node, leading ignored characters excluded

	typ *schema.Type
}

// Schema returns the type the node was parsed as.
func (n *Node) Schema() *schema.Type {
	return n.typ
}

// Field returns the value of the named field, or nil when the field is absent
// or not declared.
func (n *Node) Field(name string) *Node {
	if n == nil || n.typ == nil {
		return nil
	}
	i := n.typ.FieldIndex(name)
	if i < 0 || i >= len(n.Fields) {
		return nil
	}
	return n.Fields[i]
}

// Has reports whether the named field is present.
func (n *Node) Has(name string) bool {
	return n.Field(name) != nil
}

// FieldName returns the name of the i-th field, empty for markers.
func (n *Node) FieldName(i int) string {
	if n.typ == nil || i < 0 || i >= len(n.typ.Fields) {
		return ""
	}
	return n.typ.Fields[i].Name
}

// Children returns the present fields or the items, in order.
func (n *Node) Children() []*Node {
	if n.Kind == schema.KindList {
		return n.Items
	}
	var result []*Node
	for _, f := range n.Fields {
		if f != nil {
			result = append(result, f)
		}
	}
	return result
}

// Walk visits the tree depth first. Returning false from visit skips the
// node's children.
func (n *Node) Walk(visit func(n *Node, depth int) bool) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(*Node, int) bool, depth int) {
	if n == nil || !visit(n, depth) {
		return
	}
	for _, child := range n.Children() {
		child.walk(visit, depth+1)
	}
}

func (n *Node) clone() *Node {
	c := *n
	if n.Fields != nil {
		c.Fields = append([]*Node(nil), n.Fields...)
	}
	return &c
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, "", false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, "", true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, label string, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(label)
	if n == nil {
		sb.WriteString("<absent>\n")
		return
	}
	sb.WriteString(n.Type)
	if showPositions {
		sb.WriteString(" [" + n.Span.String() + "]")
	}
	if n.Kind.Leaf() {
		sb.WriteString(" " + formatValue(n))
	}
	sb.WriteString("\n")

	switch n.Kind {
	case schema.KindRule:
		for i, f := range n.Fields {
			name := n.FieldName(i)
			if name == "" {
				continue
			}
			f.writeIndent(sb, indent+1, name+": ", showPositions)
		}
	case schema.KindList:
		for _, item := range n.Items {
			item.writeIndent(sb, indent+1, "- ", showPositions)
		}
	}
}

// Inline renders the tree on one line, leaving out markers:
// Binary(left=1, op=+, right=2).
func (n *Node) Inline() string {
	var sb strings.Builder
	n.writeInline(&sb)
	return sb.String()
}

func (n *Node) writeInline(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	switch n.Kind {
	case schema.KindRule:
		sb.WriteString(n.Type)
		sb.WriteString("(")
		first := true
		for i, f := range n.Fields {
			name := n.FieldName(i)
			if name == "" {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(name)
			sb.WriteString("=")
			f.writeInline(sb)
		}
		sb.WriteString(")")
	case schema.KindList:
		sb.WriteString("[")
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeInline(sb)
		}
		sb.WriteString("]")
	default:
		if v, ok := n.Value.(string); ok && n.Kind == schema.KindText {
			fmt.Fprintf(sb, "%q", v)
		} else {
			fmt.Fprint(sb, n.Value)
		}
	}
}

func formatValue(n *Node) string {
	switch v := n.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "null"
	}
	return fmt.Sprint(n.Value)
}
