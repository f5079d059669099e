package parse

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON(t *testing.T) {
	n, err := ParseString(commandGrammar(), ":test", "Command")
	require.NoError(t, err)

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var doc struct {
		Type   string `json:"type"`
		Kind   string `json:"kind"`
		Fields []struct {
			Name string `json:"name"`
			Node struct {
				Value string `json:"value"`
			} `json:"node"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "Command", doc.Type)
	require.Equal(t, "Rule", doc.Kind)
	require.Len(t, doc.Fields, 1)
	require.Equal(t, "command", doc.Fields[0].Name)
	require.Equal(t, "test", doc.Fields[0].Node.Value)
}

func TestMarshalCBOR(t *testing.T) {
	n, err := ParseString(arithGrammar(), "1 + 2", "Token")
	require.NoError(t, err)

	data, err := cbor.Marshal(n)
	require.NoError(t, err)

	var doc jsonNode
	require.NoError(t, cbor.Unmarshal(data, &doc))
	require.Equal(t, "BinaryOp", doc.Type)
	require.Len(t, doc.Fields, 3)
	require.Equal(t, "op", doc.Fields[1].Name)
	require.Equal(t, "+", doc.Fields[1].Node.Value)
	require.Equal(t, 6, doc.Span.End.Column)
}
