package codec

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/githubnext/validata/pkg/document"
)

func decodeJSON(text string) (document.Value, error) {
	dec := jsontext.NewDecoder(strings.NewReader(text))
	value, err := readJSONValue(dec)
	if err != nil {
		return nil, jsonParseError(text, err)
	}

	// Exactly one top-level value is allowed.
	end := dec.InputOffset()
	if _, err := dec.ReadToken(); err != io.EOF {
		if err != nil {
			return nil, jsonParseError(text, err)
		}
		return nil, newJSONParseError(text, skipSpace(text, int(end)), "unexpected data after top-level value")
	}
	return value, nil
}

func readJSONValue(dec *jsontext.Decoder) (document.Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case '{':
		obj := document.Map{}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			// The token is only valid until the next read.
			key := name.String()
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, document.Entry{Key: key, Value: value})
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.PeekKind() != ']' {
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil
	case '"':
		return tok.String(), nil
	case '0':
		return parseJSONNumber(tok.String()), nil
	case 't', 'f':
		return tok.Bool(), nil
	case 'n':
		return nil, nil
	default:
		return nil, errors.New("unexpected token " + tok.String())
	}
}

func parseJSONNumber(raw string) document.Value {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
	}
	// Out of range values come back as +/-Inf, which is what the text says.
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func jsonParseError(text string, err error) *ParseError {
	var synErr *jsontext.SyntacticError
	if errors.As(err, &synErr) {
		msg := synErr.Error()
		if synErr.Err != nil {
			msg = synErr.Err.Error()
		}
		if errors.Is(synErr.Err, io.ErrUnexpectedEOF) {
			msg = "unexpected end of input"
		}
		return newJSONParseError(text, int(synErr.ByteOffset), msg)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newJSONParseError(text, len(text), "unexpected end of input")
	}
	return &ParseError{Format: JSON, Message: err.Error()}
}

func newJSONParseError(text string, offset int, msg string) *ParseError {
	line, column := lineColumn(text, offset)
	return &ParseError{Format: JSON, Line: line, Column: column, Message: msg}
}

// lineColumn converts a byte offset into a 1-based line and character column.
func lineColumn(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := text[:offset]
	line := strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return line, utf8.RuneCountInString(prefix[lineStart:]) + 1
}

func skipSpace(text string, offset int) int {
	for offset < len(text) && unicode.IsSpace(rune(text[offset])) {
		offset++
	}
	return offset
}

func encodeJSON(doc document.Value) string {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf,
		jsontext.WithIndent("  "),
		jsontext.AllowInvalidUTF8(true),
		jsontext.AllowDuplicateNames(true),
	)
	// Writing to a bytes.Buffer with validation relaxed cannot fail.
	_ = writeJSONValue(enc, doc)
	return buf.String()
}

func writeJSONValue(enc *jsontext.Encoder, v document.Value) error {
	switch t := v.(type) {
	case nil:
		return enc.WriteToken(jsontext.Null)
	case document.Map:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, e := range t {
			if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
				return err
			}
			if err := writeJSONValue(enc, e.Value); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	case []any:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, item := range t {
			if err := writeJSONValue(enc, item); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case string:
		return enc.WriteToken(jsontext.String(t))
	case bool:
		return enc.WriteToken(jsontext.Bool(t))
	case int64:
		return enc.WriteToken(jsontext.Int(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return enc.WriteToken(jsontext.Null)
		}
		return enc.WriteValue(jsontext.Value(formatFloat(t)))
	default:
		return writeJSONValue(enc, document.Normalize(t))
	}
}

// formatFloat keeps a fraction or exponent so the value decodes as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
