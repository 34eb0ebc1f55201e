// Package report turns parse errors and schema failures into the ordered,
// human-readable lines shown to the user.
package report

import (
	"fmt"
	"strings"

	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/document"
	"github.com/githubnext/validata/pkg/schema"
	"github.com/githubnext/validata/pkg/validator"
)

// Class groups report lines by the stage that produced them.
type Class int

const (
	ParseError Class = iota + 1
	SchemaViolation
	Unexpected
)

func (c Class) String() string {
	switch c {
	case ParseError:
		return "parse_error"
	case SchemaViolation:
		return "schema_violation"
	case Unexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// RootPath is how the empty path is displayed.
const RootPath = "(root)"

// Line is one entry of a report. Line and Column are a 1-based source
// position, zero when unknown.
type Line struct {
	Text   string
	Path   document.Path
	Kind   validator.Kind
	Class  Class
	Line   int
	Column int
}

// Report is the result of checking one text. The zero value is a passing
// report.
type Report struct {
	Lines []Line
}

// OK reports whether the text parsed and satisfied the schema.
func (r Report) OK() bool {
	return len(r.Lines) == 0
}

// Strings returns the display text of each line.
func (r Report) Strings() []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.Text
	}
	return out
}

func (r Report) String() string {
	return strings.Join(r.Strings(), "\n")
}

// HasClass reports whether any line belongs to class c.
func (r Report) HasClass(c Class) bool {
	for _, l := range r.Lines {
		if l.Class == c {
			return true
		}
	}
	return false
}

// FormatFailures renders one line per failure, in order:
//
//	- <path>: <message> [<kind>]
//
// Missing fields get the declared type of the top-level field named by the
// first path segment appended, when the schema has such a field.
func FormatFailures(failures []validator.Failure, s *schema.Schema) []string {
	lines := make([]string, len(failures))
	for i, f := range failures {
		lines[i] = formatFailure(f, s)
	}
	return lines
}

func formatFailure(f validator.Failure, s *schema.Schema) string {
	msg := f.Message
	if f.Kind == validator.KindMissing {
		if hint := expectedType(f.Path, s); hint != "" {
			msg += " (expected type: " + hint + ")"
		}
	}
	return fmt.Sprintf("- %s: %s [%s]", displayPath(f.Path), msg, f.Kind)
}

// expectedType only looks at the top-level field, even for nested paths.
func expectedType(path document.Path, s *schema.Schema) string {
	first, ok := path.First()
	if !ok || first.IsIndex || s == nil {
		return ""
	}
	field, ok := s.Field(first.Key)
	if !ok {
		return ""
	}
	return field.TypeName
}

func displayPath(p document.Path) string {
	if len(p) == 0 {
		return RootPath
	}
	return p.String()
}

// FromFailures builds a schema violation report.
func FromFailures(failures []validator.Failure, s *schema.Schema) Report {
	texts := FormatFailures(failures, s)
	r := Report{Lines: make([]Line, len(failures))}
	for i, f := range failures {
		r.Lines[i] = Line{
			Text:  texts[i],
			Path:  f.Path,
			Kind:  f.Kind,
			Class: SchemaViolation,
		}
	}
	return r
}

// FromParseError builds the single-line report for text that did not decode.
func FromParseError(err *codec.ParseError) Report {
	return Report{Lines: []Line{ParseLine(err)}}
}

// ParseLine renders a decode failure, with its location when known.
func ParseLine(err *codec.ParseError) Line {
	return Line{
		Text:   err.Error(),
		Class:  ParseError,
		Line:   err.Line,
		Column: err.Column,
	}
}

// FromUnexpected builds the single-line report for any other failure.
func FromUnexpected(err error) Report {
	return Report{Lines: []Line{UnexpectedLine(err)}}
}

// UnexpectedLine renders an error that is neither a parse error nor a schema
// violation.
func UnexpectedLine(err error) Line {
	return Line{
		Text:  "Error: " + err.Error(),
		Class: Unexpected,
	}
}
