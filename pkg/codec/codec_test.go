package codec

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/githubnext/validata/pkg/document"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "json", input: "json", want: JSON},
		{name: "yaml", input: "yaml", want: YAML},
		{name: "yml alias", input: "yml", want: YAML},
		{name: "extension with dot", input: ".JSON", want: JSON},
		{name: "unsupported", input: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFormat(t *testing.T) {
	f, err := ResolveFormat("", "config/app.yml")
	require.NoError(t, err)
	require.Equal(t, YAML, f)

	f, err = ResolveFormat("json", "config/app.yml")
	require.NoError(t, err)
	require.Equal(t, JSON, f)

	_, err = ResolveFormat("", "Makefile")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeJSONKeepsOrderAndTypes(t *testing.T) {
	doc, err := Decode(`{"b": 1, "a": [true, null, 2.5, "x"], "c": {"z": -3}}`, JSON)
	require.NoError(t, err)

	want := document.Map{
		{Key: "b", Value: int64(1)},
		{Key: "a", Value: []any{true, nil, 2.5, "x"}},
		{Key: "c", Value: document.Map{{Key: "z", Value: int64(-3)}}},
	}
	require.True(t, document.Equal(want, doc), "got %#v", doc)
}

func TestDecodeJSONParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantLine   int
		wantColumn int
	}{
		{name: "missing value", text: `{"a": }`, wantLine: 1},
		{name: "second line", text: "{\n  \"a\": 1,\n  \"b\" 2\n}", wantLine: 3},
		{name: "empty input", text: "", wantLine: 1, wantColumn: 1},
		{name: "truncated", text: `{"a": [1, 2`, wantLine: 1},
		{name: "trailing data", text: "{}\n{}", wantLine: 2, wantColumn: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text, JSON)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			require.Equal(t, JSON, perr.Format)
			require.Equal(t, tt.wantLine, perr.Line)
			require.Positive(t, perr.Column)
			if tt.wantColumn > 0 {
				require.Equal(t, tt.wantColumn, perr.Column)
			}
			require.NotEmpty(t, perr.Message)
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	doc, err := Decode("b: 1\na:\n  - x\n  - 2.5\nc: null\n", YAML)
	require.NoError(t, err)

	want := document.Map{
		{Key: "b", Value: int64(1)},
		{Key: "a", Value: []any{"x", 2.5}},
		{Key: "c", Value: nil},
	}
	require.True(t, document.Equal(want, doc), "got %#v", doc)
}

func TestDecodeYAMLEmpty(t *testing.T) {
	doc, err := Decode("", YAML)
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestDecodeYAMLParseError(t *testing.T) {
	_, err := Decode("a: b: c\n", YAML)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
	require.Equal(t, YAML, perr.Format)
	require.Equal(t, 1, perr.Line)
	require.NotEmpty(t, perr.Message)
}

func TestEncodeJSONIndentation(t *testing.T) {
	doc := document.Map{
		{Key: "name", Value: "x"},
		{Key: "tags", Value: []any{"a"}},
	}
	got := Encode(doc, JSON)
	want := "{\n  \"name\": \"x\",\n  \"tags\": [\n    \"a\"\n  ]\n}\n"
	require.Equal(t, want, got)
}

func TestEncodeYAMLPreservesKeyOrder(t *testing.T) {
	doc := document.Map{{Key: "b", Value: int64(1)}, {Key: "a", Value: int64(2)}}
	text := Encode(doc, YAML)

	require.Less(t, strings.Index(text, "b:"), strings.Index(text, "a:"))

	back, err := Decode(text, YAML)
	require.NoError(t, err)
	require.True(t, document.Equal(doc, back), "got %#v", back)
}

func TestRoundTrip(t *testing.T) {
	docs := []document.Value{
		document.Map{},
		document.Map{
			{Key: "count", Value: int64(0)},
			{Key: "ratio", Value: 0.0},
			{Key: "big", Value: 1.5e300},
			{Key: "enabled", Value: false},
			{Key: "label", Value: "123"},
			{Key: "empty", Value: ""},
			{Key: "items", Value: []any{}},
			{Key: "nested", Value: document.Map{
				{Key: "z", Value: []any{int64(1), "two", nil, document.Map{{Key: "k", Value: true}}}},
				{Key: "a", Value: "multi\nline"},
			}},
		},
		[]any{int64(1), int64(2)},
		"just a string",
	}

	for _, format := range []Format{JSON, YAML} {
		for i, doc := range docs {
			text := Encode(doc, format)
			back, err := Decode(text, format)
			require.NoError(t, err, "%s doc %d:\n%s", format, i, text)
			require.True(t, document.Equal(doc, back), "%s doc %d: got %#v from\n%s", format, i, back, text)
		}
	}
}

func TestDecodeJSONNested(t *testing.T) {
	tests := []struct {
		name string
		text string
		want document.Value
	}{
		{
			name: "object in object",
			text: `{"a": {"b": 1}}`,
			want: document.Map{{Key: "a", Value: document.Map{{Key: "b", Value: int64(1)}}}},
		},
		{
			name: "array then scalar",
			text: `{"a": [1, 2], "b": 2}`,
			want: document.Map{{Key: "a", Value: []any{int64(1), int64(2)}}, {Key: "b", Value: int64(2)}},
		},
		{
			name: "deep nesting",
			text: `{"x": {"y": [{"z": {"w": []}}, {}]}, "after": "ok"}`,
			want: document.Map{
				{Key: "x", Value: document.Map{{Key: "y", Value: []any{
					document.Map{{Key: "z", Value: document.Map{{Key: "w", Value: []any{}}}}},
					document.Map{},
				}}}},
				{Key: "after", Value: "ok"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.text, JSON)
			require.NoError(t, err)
			require.True(t, document.Equal(tt.want, doc), "got %#v", doc)
		})
	}
}

func TestDecodeJSONManyNestedKeys(t *testing.T) {
	var b strings.Builder
	b.WriteString("{")
	for i := 0; i < 40; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, `"k%d": {"v": [%d]}`, i, i)
	}
	b.WriteString("}")

	doc, err := Decode(b.String(), JSON)
	require.NoError(t, err)
	m, ok := doc.(document.Map)
	require.True(t, ok)
	require.Len(t, m, 40)
	require.Equal(t, "k39", m[39].Key)
}

func TestRoundTripScalars(t *testing.T) {
	values := []document.Value{
		1e20,
		1e-7,
		-2.0,
		1.5e300,
		0.1,
		int64(-42),
		".inf",
		"-.inf",
		".nan",
		"? x",
		"tab\there",
		"true",
		"False",
		"null",
		"~",
		"123",
		"1e3",
		"0x1F",
		"",
		" leading",
		"trailing ",
		"a: b",
		"- item",
		"#hash",
		"quote\"inside",
		"back\\slash",
		"multi\nline",
		"unicode é ✓",
		"plain words",
		"2024-01-01",
	}

	for _, format := range []Format{JSON, YAML} {
		for _, v := range values {
			t.Run(fmt.Sprintf("%s %q", format, fmt.Sprint(v)), func(t *testing.T) {
				doc := document.Map{{Key: "v", Value: v}}
				text := Encode(doc, format)
				back, err := Decode(text, format)
				require.NoError(t, err, "encoded:\n%s", text)
				require.True(t, document.Equal(doc, back), "got %#v from\n%s", back, text)
			})
		}
	}
}

func TestEncodeYAMLBlockStyle(t *testing.T) {
	doc := document.Map{
		{Key: "name", Value: "x"},
		{Key: "tags", Value: []any{"a", document.Map{{Key: "k", Value: int64(1)}, {Key: "j", Value: []any{}}}}},
		{Key: "empty", Value: document.Map{}},
		{Key: "nested", Value: document.Map{{Key: "ratio", Value: 0.5}}},
	}
	want := "name: x\ntags:\n  - a\n  - k: 1\n    j: []\nempty: {}\nnested:\n  ratio: 0.5\n"
	require.Equal(t, want, Encode(doc, YAML))
}

func TestEncodeYAMLQuotesKeys(t *testing.T) {
	doc := document.Map{{Key: "123", Value: int64(1)}, {Key: "a b", Value: int64(2)}, {Key: "", Value: int64(3)}}
	text := Encode(doc, YAML)

	back, err := Decode(text, YAML)
	require.NoError(t, err)
	require.True(t, document.Equal(doc, back), "got %#v from\n%s", back, text)
}
