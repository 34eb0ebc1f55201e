// Package codec converts between editable text and documents for each
// supported serialization format.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/githubnext/validata/pkg/document"
)

// ErrUnsupportedFormat is returned when a format name or file extension is
// not JSON or YAML.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format selects the serialization used for a session.
type Format int

const (
	JSON Format = iota + 1
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Label is the name used in user-facing messages.
func (f Format) Label() string {
	return strings.ToUpper(f.String())
}

// ParseFormat maps a format name (json, yaml, yml) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// ResolveFormat returns the forced format when set, otherwise the one implied
// by path.
func ResolveFormat(forced, path string) (Format, error) {
	if forced != "" {
		return ParseFormat(forced)
	}
	return FormatFromPath(path)
}

// ParseError reports text that could not be decoded. Line and Column are
// 1-based and zero when the decoder gave no location.
type ParseError struct {
	Format  Format
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s parsing error at line %d, column %d: %s", e.Format.Label(), e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s parsing error: %s", e.Format.Label(), e.Message)
}

// HasLocation reports whether the error carries a line/column position.
func (e *ParseError) HasLocation() bool {
	return e.Line > 0
}

// Decode parses text under the given format.
func Decode(text string, format Format) (document.Value, error) {
	switch format {
	case JSON:
		return decodeJSON(text)
	case YAML:
		return decodeYAML(text)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(format))
	}
}

// Encode renders doc under the given format. It never fails for documents
// built from Maps, sequences and scalars.
func Encode(doc document.Value, format Format) string {
	if format == YAML {
		return encodeYAML(doc)
	}
	return encodeJSON(doc)
}
