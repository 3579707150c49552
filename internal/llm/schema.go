package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema reflects a strict JSON schema from a Go value. Every field without
// omitempty is required and no additional properties are allowed.
func Schema(v any) (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	data, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	// Providers reject the meta-schema keys in response_format.
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	delete(doc, "$schema")
	delete(doc, "$id")
	return json.Marshal(doc)
}

// MustSchema is Schema for package-level values whose types are known to reflect.
func MustSchema(v any) json.RawMessage {
	s, err := Schema(v)
	if err != nil {
		panic(err)
	}
	return s
}
