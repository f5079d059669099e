package parse

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

type jsonNode struct {
	Type     string       `json:"type"`
	Kind     string       `json:"kind"`
	Span     *jsonSpan    `json:"span,omitempty"`
	Value    any          `json:"value,omitempty"`
	Priority int          `json:"priority,omitempty"`
	Fields   []*jsonField `json:"fields,omitempty"`
	Items    []*jsonNode  `json:"items,omitempty"`
}

type jsonField struct {
	Name string    `json:"name"`
	Node *jsonNode `json:"node"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

// MarshalCBOR encodes the same document as MarshalJSON in CBOR.
func (n *Node) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{
		Type:     n.Type,
		Kind:     n.Kind.String(),
		Value:    n.Value,
		Priority: n.Priority,
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	for i, f := range n.Fields {
		name := n.FieldName(i)
		if name == "" {
			continue
		}
		jn.Fields = append(jn.Fields, &jsonField{Name: name, Node: f.toJSON()})
	}

	if len(n.Items) > 0 {
		jn.Items = make([]*jsonNode, len(n.Items))
		for i, item := range n.Items {
			jn.Items[i] = item.toJSON()
		}
	}

	return jn
}
