package schema

import (
	"testing"

	"github.com/githubnext/validata/pkg/codec"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		expected string
	}{
		{"string", `{"type": "string"}`, "str"},
		{"integer", `{"type": "integer"}`, "int"},
		{"number", `{"type": "number"}`, "float"},
		{"boolean", `{"type": "boolean"}`, "bool"},
		{"date-time", `{"type": "string", "format": "date-time"}`, "datetime"},
		{"uuid", `{"type": "string", "format": "uuid"}`, "UUID"},
		{"ref", `{"$ref": "#/$defs/Address"}`, "Address"},
		{"single allOf", `{"allOf": [{"$ref": "#/$defs/Address"}]}`, "Address"},
		{"titled object", `{"type": "object", "title": "Point"}`, "Point"},
		{"plain object", `{"type": "object"}`, "dict"},
		{"plain array", `{"type": "array"}`, "list"},
		{"typed array", `{"type": "array", "items": {"type": "integer"}}`, "list[int]"},
		{"typed map", `{"type": "object", "additionalProperties": {"type": "number"}}`, "dict[str, float]"},
		{"optional", `{"anyOf": [{"type": "string"}, {"type": "null"}]}`, "Optional[str]"},
		{"union", `{"anyOf": [{"type": "string"}, {"type": "integer"}]}`, "Union[str, int]"},
		{"type list", `{"type": ["integer", "null"]}`, "Optional[int]"},
		{"enum", `{"enum": ["a", "b"]}`, "Literal['a', 'b']"},
		{"const", `{"const": 3}`, "Literal[3]"},
		{"true schema", `true`, "Any"},
		{"false schema", `false`, "Never"},
		{"empty", `{}`, "Any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := codec.Decode(tt.schema, codec.JSON)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if got := TypeName(parseNode(raw)); got != tt.expected {
				t.Errorf("TypeName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
