package validator

import (
	"strings"
	"testing"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/document"
	"github.com/githubnext/validata/pkg/schema"
)

func mustSchema(t *testing.T, text string) *schema.Schema {
	t.Helper()
	raw, err := codec.Decode(text, codec.JSON)
	if err != nil {
		t.Fatalf("failed to decode schema: %v", err)
	}
	s, err := schema.Parse(raw, schema.Options{Source: "test.json"})
	if err != nil {
		t.Fatalf("failed to parse schema: %v", err)
	}
	return s
}

func mustDoc(t *testing.T, text string) document.Value {
	t.Helper()
	doc, err := codec.Decode(text, codec.JSON)
	if err != nil {
		t.Fatalf("failed to decode document: %v", err)
	}
	return doc
}

const personSchema = `{
  "title": "Person",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0},
    "tags": {"type": "array", "items": {"type": "integer"}},
    "nickname": {"anyOf": [{"type": "integer"}, {"type": "null"}]},
    "role": {"enum": ["admin", "user"]}
  },
  "required": ["name", "age"],
  "additionalProperties": false
}`

func TestValidateValidDocument(t *testing.T) {
	s := mustSchema(t, personSchema)
	result, err := New().Validate(mustDoc(t, `{"name": "Ada", "age": 36, "tags": [1, 2]}`), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid() {
		t.Errorf("expected valid result, got %+v", result.Failures)
	}
}

func TestValidateMissingFieldsSplitAndOrdered(t *testing.T) {
	s := mustSchema(t, personSchema)
	result, err := New().Validate(mustDoc(t, `{}`), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d: %+v", len(result.Failures), result.Failures)
	}
	for i, name := range []string{"name", "age"} {
		f := result.Failures[i]
		if f.Path.String() != name {
			t.Errorf("failure %d: expected path %s, got %s", i, name, f.Path)
		}
		if f.Kind != KindMissing {
			t.Errorf("failure %d: expected kind missing, got %s", i, f.Kind)
		}
		if f.Message != "Field required" {
			t.Errorf("failure %d: unexpected message %q", i, f.Message)
		}
	}
}

func TestValidateFailureKinds(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		path     string
		kind     Kind
		contains string
	}{
		{
			name:     "type mismatch",
			doc:      `{"name": "Ada", "age": "old"}`,
			path:     "age",
			kind:     KindTypeMismatch,
			contains: "got string, want integer",
		},
		{
			name: "minimum",
			doc:  `{"name": "Ada", "age": -1}`,
			path: "age",
			kind: KindTooSmall,
		},
		{
			name: "enum",
			doc:  `{"name": "Ada", "age": 1, "role": "root"}`,
			path: "role",
			kind: KindEnum,
		},
		{
			name:     "extra field",
			doc:      `{"name": "Ada", "age": 1, "email": "a@b.c"}`,
			path:     "email",
			kind:     KindExtraForbidden,
			contains: "Extra inputs are not permitted",
		},
		{
			name: "union",
			doc:  `{"name": "Ada", "age": 1, "nickname": "x"}`,
			path: "nickname",
			kind: KindUnionMismatch,
		},
	}

	s := mustSchema(t, personSchema)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Validate(mustDoc(t, tt.doc), s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Failures) != 1 {
				t.Fatalf("expected 1 failure, got %+v", result.Failures)
			}
			f := result.Failures[0]
			if f.Path.String() != tt.path {
				t.Errorf("expected path %s, got %s", tt.path, f.Path)
			}
			if f.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, f.Kind)
			}
			if tt.contains != "" && !strings.Contains(f.Message, tt.contains) {
				t.Errorf("expected message to contain %q, got %q", tt.contains, f.Message)
			}
		})
	}
}

func TestValidateIndexSegmentsAreTyped(t *testing.T) {
	s := mustSchema(t, personSchema)
	result, err := New().Validate(mustDoc(t, `{"name": "Ada", "age": 1, "tags": [1, "two"]}`), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %+v", result.Failures)
	}

	path := result.Failures[0].Path
	if path.String() != "tags.1" {
		t.Fatalf("expected path tags.1, got %s", path)
	}
	if path[0].IsIndex || !path[1].IsIndex || path[1].Index != 1 {
		t.Errorf("unexpected segment types %+v", path)
	}
}

func TestValidateOrdersByDeclaration(t *testing.T) {
	s := mustSchema(t, `{
  "type": "object",
  "properties": {
    "a": {"type": "integer"},
    "b": {"type": "integer"},
    "c": {"type": "integer"}
  },
  "additionalProperties": false
}`)

	for range 5 {
		result, err := New().Validate(mustDoc(t, `{"zeta": 1, "c": "x", "alpha": 2, "a": "y", "b": 1}`), s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []string
		for _, f := range result.Failures {
			got = append(got, f.Path.String())
		}
		want := "a,c,zeta,alpha"
		if strings.Join(got, ",") != want {
			t.Fatalf("expected order %s, got %s", want, strings.Join(got, ","))
		}
	}
}

func TestValidateNestedPaths(t *testing.T) {
	s := mustSchema(t, `{
  "$defs": {
    "Item": {
      "type": "object",
      "properties": {"sku": {"type": "string"}, "qty": {"type": "integer"}},
      "required": ["sku", "qty"]
    }
  },
  "type": "object",
  "properties": {
    "items": {"type": "array", "items": {"$ref": "#/$defs/Item"}}
  }
}`)

	result, err := New().Validate(mustDoc(t, `{"items": [{"sku": "a", "qty": 1}, {"qty": "two"}]}`), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, f := range result.Failures {
		got = append(got, f.Path.String()+"["+string(f.Kind)+"]")
	}
	want := "items.1.sku[missing],items.1.qty[type_mismatch]"
	if strings.Join(got, ",") != want {
		t.Errorf("expected %s, got %s", want, strings.Join(got, ","))
	}
}

func TestValidateWithoutSchema(t *testing.T) {
	if _, err := New().Validate(document.Map{}, nil); err == nil {
		t.Error("expected error for nil schema")
	}
}

func TestValidateUnionMessageIsStable(t *testing.T) {
	s := mustSchema(t, `{
  "type": "object",
  "$defs": {
    "Inner": {
      "type": "object",
      "properties": {
        "a": {"type": "string"},
        "b": {"type": "integer"},
        "c": {"type": "boolean"},
        "d": {"type": "array"},
        "e": {"type": "object"},
        "f": {"type": "null"}
      }
    }
  },
  "properties": {
    "inner": {"anyOf": [{"$ref": "#/$defs/Inner"}, {"type": "null"}]}
  }
}`)
	doc := mustDoc(t, `{"inner": {"a": 1.5, "b": 1.5, "c": 1.5, "d": 1.5, "e": 1.5, "f": 1.5}}`)

	var first string
	for i := 0; i < 100; i++ {
		result, err := New().Validate(doc, s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Failures) != 1 || result.Failures[0].Kind != KindUnionMismatch {
			t.Fatalf("expected one union failure, got %+v", result.Failures)
		}
		msg := result.Failures[0].Message
		if i == 0 {
			first = msg
			continue
		}
		if msg != first {
			t.Fatalf("run %d gave a different message:\n%s\nwant:\n%s", i, msg, first)
		}
	}

	// Reasons follow the declaration order of the member's properties.
	a := strings.Index(first, "want string")
	d := strings.Index(first, "want array")
	e := strings.Index(first, "want object")
	if a < 0 || d < 0 || e < 0 || a > d || d > e {
		t.Errorf("reasons are not in declaration order: %s", first)
	}
}
