package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptReply struct {
	Script          string `json:"script"`
	ThumbnailPrompt string `json:"thumbnailPrompt"`
}

func TestDecodeStructured(t *testing.T) {
	t.Parallel()

	schema, err := Schema(&scriptReply{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", `{"script":"s","thumbnailPrompt":"p"}`, false},
		{"json fence", "```json\n{\"script\":\"s\",\"thumbnailPrompt\":\"p\"}\n```", false},
		{"bare fence", "```\n{\"script\":\"s\",\"thumbnailPrompt\":\"p\"}\n```", false},
		{"surrounding prose", "Here you go:\n{\"script\":\"s\",\"thumbnailPrompt\":\"p\"}\nEnjoy!", false},
		{"empty", "   ", true},
		{"prose only", "Sorry, I can't do that.", true},
		{"truncated", `{"script":"s","thumbnailPr`, true},
		{"missing field", `{"script":"s"}`, true},
		{"extra field", `{"script":"s","thumbnailPrompt":"p","rating":5}`, true},
		{"wrong type", `{"script":1,"thumbnailPrompt":"p"}`, true},
		{"not json", "{script: s}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeStructured(tt.input, schema)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTransport)
				return
			}
			require.NoError(t, err)

			var reply scriptReply
			require.NoError(t, json.Unmarshal(got, &reply))
			require.Equal(t, scriptReply{Script: "s", ThumbnailPrompt: "p"}, reply)
		})
	}
}

func TestDecodeStructuredWithoutSchema(t *testing.T) {
	got, err := DecodeStructured("```json\n{\"anything\": [1, 2]}\n```", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"anything":[1,2]}`, string(got))
}

func TestSchemaIsStrict(t *testing.T) {
	type payload struct {
		Name  string   `json:"name"`
		Notes []string `json:"notes,omitempty"`
	}

	raw, err := Schema(&payload{})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.NotContains(t, doc, "$schema")
	require.NotContains(t, doc, "$id")
	require.Equal(t, false, doc["additionalProperties"])
	require.Equal(t, []any{"name"}, doc["required"])
}

func TestStripCodeFences(t *testing.T) {
	require.Equal(t, "", stripCodeFences(`{"a":1}`))
	require.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}"))
}
