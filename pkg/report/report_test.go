package report

import (
	"errors"
	"testing"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/document"
	"github.com/githubnext/validata/pkg/schema"
	"github.com/githubnext/validata/pkg/validator"
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

const profileSchema = `{
  "title": "Profile",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer"},
    "home": {"$ref": "#/$defs/Address"},
    "tags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["name", "age", "home"],
  "$defs": {
    "Address": {
      "title": "Address",
      "type": "object",
      "properties": {"city": {"type": "string"}},
      "required": ["city"]
    }
  }
}`

func TestFormatFailures(t *testing.T) {
	s := mustSchema(t, profileSchema)

	tests := []struct {
		name     string
		failure  validator.Failure
		expected string
	}{
		{
			name:     "missing top-level field",
			failure:  validator.Failure{Path: document.ParsePath("age"), Message: "Field required", Kind: validator.KindMissing},
			expected: "- age: Field required (expected type: int) [missing]",
		},
		{
			name:     "missing nested field uses top-level type",
			failure:  validator.Failure{Path: document.ParsePath("home.city"), Message: "Field required", Kind: validator.KindMissing},
			expected: "- home.city: Field required (expected type: Address) [missing]",
		},
		{
			name:     "missing field not in schema",
			failure:  validator.Failure{Path: document.ParsePath("extra"), Message: "Field required", Kind: validator.KindMissing},
			expected: "- extra: Field required [missing]",
		},
		{
			name:     "missing under index has no hint",
			failure:  validator.Failure{Path: document.Path{document.Index(0), document.Key("name")}, Message: "Field required", Kind: validator.KindMissing},
			expected: "- 0.name: Field required [missing]",
		},
		{
			name:     "other kinds are not enriched",
			failure:  validator.Failure{Path: document.ParsePath("tags.1"), Message: "got number, want string", Kind: validator.KindTypeMismatch},
			expected: "- tags.1: got number, want string [type_mismatch]",
		},
		{
			name:     "root path",
			failure:  validator.Failure{Path: document.Path{}, Message: "got array, want object", Kind: validator.KindTypeMismatch},
			expected: "- (root): got array, want object [type_mismatch]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := FormatFailures([]validator.Failure{tt.failure}, s)
			if len(lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(lines))
			}
			if lines[0] != tt.expected {
				t.Errorf("got %q, want %q", lines[0], tt.expected)
			}
		})
	}
}

func TestFromFailuresKeepsOrder(t *testing.T) {
	s := mustSchema(t, profileSchema)
	failures := []validator.Failure{
		{Path: document.ParsePath("name"), Message: "Field required", Kind: validator.KindMissing},
		{Path: document.ParsePath("age"), Message: "Field required", Kind: validator.KindMissing},
	}

	r := FromFailures(failures, s)
	if r.OK() {
		t.Fatal("expected failing report")
	}
	want := []string{
		"- name: Field required (expected type: str) [missing]",
		"- age: Field required (expected type: int) [missing]",
	}
	got := r.Strings()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
		if r.Lines[i].Class != SchemaViolation {
			t.Errorf("line %d: expected schema violation class", i)
		}
	}
	if !r.HasClass(SchemaViolation) || r.HasClass(ParseError) {
		t.Error("unexpected classes in report")
	}
}

func TestParseAndUnexpectedLines(t *testing.T) {
	located := FromParseError(&codec.ParseError{Format: codec.JSON, Line: 1, Column: 7, Message: "invalid character '}'"})
	if got := located.String(); got != "JSON parsing error at line 1, column 7: invalid character '}'" {
		t.Errorf("unexpected parse line %q", got)
	}
	if located.Lines[0].Line != 1 || located.Lines[0].Column != 7 {
		t.Errorf("expected location to be carried, got %+v", located.Lines[0])
	}

	unlocated := FromParseError(&codec.ParseError{Format: codec.YAML, Message: "bad document"})
	if got := unlocated.String(); got != "YAML parsing error: bad document" {
		t.Errorf("unexpected parse line %q", got)
	}

	unexpected := FromUnexpected(errors.New("boom"))
	if got := unexpected.String(); got != "Error: boom" || unexpected.Lines[0].Class != Unexpected {
		t.Errorf("unexpected line %+v", unexpected.Lines[0])
	}
}

func TestZeroReportIsOK(t *testing.T) {
	var r Report
	if !r.OK() || r.String() != "" {
		t.Error("zero report should be OK and empty")
	}
}
