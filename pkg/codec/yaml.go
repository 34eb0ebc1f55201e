package codec

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/githubnext/validata/pkg/document"
	"github.com/goccy/go-yaml"
)

func decodeYAML(text string) (document.Value, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions([]byte(text), &raw, yaml.UseOrderedMap()); err != nil {
		line, column, msg := ExtractYAMLError(err, 0)
		return nil, &ParseError{Format: YAML, Line: line, Column: column, Message: msg}
	}
	return fromYAML(raw), nil
}

// fromYAML converts goccy/go-yaml output into the document model.
func fromYAML(v any) document.Value {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := make(document.Map, 0, len(t))
		for _, item := range t {
			m = append(m, document.Entry{Key: yamlKey(item.Key), Value: fromYAML(item.Value)})
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = fromYAML(item)
		}
		return out
	case map[string]any:
		m := make(document.Map, 0, len(t))
		for _, k := range sortedStringKeys(t) {
			m = append(m, document.Entry{Key: k, Value: fromYAML(t[k])})
		}
		return m
	case map[any]any:
		converted := make(map[string]any, len(t))
		for k, val := range t {
			converted[yamlKey(k)] = val
		}
		return fromYAML(converted)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return document.Normalize(t)
	}
}

func yamlKey(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}

func sortedStringKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// encodeYAML renders doc in block style with 2-space indentation, keeping
// mapping keys in insertion order.
func encodeYAML(doc document.Value) string {
	var b strings.Builder
	writeYAMLBlock(&b, document.Normalize(doc), 0)
	return b.String()
}

// writeYAMLBlock writes v starting on a fresh line at the given indent.
func writeYAMLBlock(b *strings.Builder, v document.Value, indent int) {
	pad := strings.Repeat(" ", indent)
	switch t := v.(type) {
	case document.Map:
		if len(t) == 0 {
			break
		}
		for _, e := range t {
			b.WriteString(pad + yamlString(e.Key) + ":")
			writeYAMLNested(b, e.Value, indent+2)
		}
		return
	case []any:
		if len(t) == 0 {
			break
		}
		for _, item := range t {
			b.WriteString(pad + "-")
			writeYAMLItem(b, item, indent+2)
		}
		return
	}
	b.WriteString(pad + yamlScalar(v) + "\n")
}

// writeYAMLNested writes the value of a mapping entry after its "key:".
func writeYAMLNested(b *strings.Builder, v document.Value, indent int) {
	if isBlockCollection(v) {
		b.WriteString("\n")
		writeYAMLBlock(b, v, indent)
		return
	}
	b.WriteString(" " + yamlScalar(v) + "\n")
}

// writeYAMLItem writes a sequence item after its "-". Collections start on
// the same line as the dash.
func writeYAMLItem(b *strings.Builder, v document.Value, indent int) {
	if isBlockCollection(v) {
		var inner strings.Builder
		writeYAMLBlock(&inner, v, indent)
		b.WriteString(" " + inner.String()[indent:])
		return
	}
	b.WriteString(" " + yamlScalar(v) + "\n")
}

func isBlockCollection(v document.Value) bool {
	switch t := v.(type) {
	case document.Map:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return false
}

func yamlScalar(v document.Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return yamlFloat(t)
	case string:
		return yamlString(t)
	case document.Map:
		return "{}"
	case []any:
		return "[]"
	default:
		return yamlScalar(document.Normalize(t))
	}
}

// yamlFloat writes floats in positional notation with a fraction;
// goccy/go-yaml reads exponent forms such as "1e+20" back as strings.
func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var plainScalarPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_./@-]*( [A-Za-z0-9_./@-]+)*$`)

// yamlString returns s as a plain scalar when it reads back as the same
// string, and double-quoted otherwise.
func yamlString(s string) string {
	if isPlainSafe(s) {
		return s
	}
	quoted, err := jsontext.AppendQuote(nil, s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(quoted)
}

func isPlainSafe(s string) bool {
	if !plainScalarPattern.MatchString(s) {
		return false
	}
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return false
	}
	got, ok := v.(string)
	return ok && got == s
}
