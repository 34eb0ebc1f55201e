// Package validator runs a compiled schema against a document and turns the
// validator's error tree into a flat, deterministically ordered list of
// field-addressed failures.
package validator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/githubnext/validata/pkg/document"
	"github.com/githubnext/validata/pkg/schema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Failure is one schema violation.
type Failure struct {
	Path    document.Path
	Message string
	Kind    Kind
}

// Result is the outcome of a validation run. Failures are ordered by schema
// declaration order.
type Result struct {
	Failures []Failure
}

// Valid reports whether the document satisfied the schema.
func (r Result) Valid() bool {
	return len(r.Failures) == 0
}

// Validator adapts the compiled JSON schema validator.
type Validator struct {
	printer *message.Printer
}

// New creates a Validator rendering messages in English.
func New() *Validator {
	return &Validator{printer: message.NewPrinter(language.English)}
}

// Validate checks doc against s. A non-nil error means validation could not
// run at all; schema violations are reported in the Result.
func (v *Validator) Validate(doc document.Value, s *schema.Schema) (Result, error) {
	if s == nil || s.Compiled() == nil {
		return Result{}, errors.New("no compiled schema to validate against")
	}

	err := s.Compiled().Validate(document.ToJSONModel(doc))
	if err == nil {
		return Result{}, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return Result{}, fmt.Errorf("validation failed: %w", err)
	}

	var failures []Failure
	v.collect(verr, doc, s, &failures)
	if len(failures) == 0 {
		// The tree had no usable leaves; report the root error itself.
		failures = append(failures, Failure{
			Path:    typedPath(doc, verr.InstanceLocation),
			Message: verr.ErrorKind.LocalizedString(v.printer),
			Kind:    classify(verr.ErrorKind),
		})
	}

	sortFailures(failures, doc, s)
	return Result{Failures: failures}, nil
}

func (v *Validator) collect(e *jsonschema.ValidationError, doc document.Value, s *schema.Schema, out *[]Failure) {
	path := typedPath(doc, e.InstanceLocation)

	switch k := e.ErrorKind.(type) {
	case *kind.AnyOf, *kind.OneOf:
		*out = append(*out, Failure{Path: path, Message: v.unionMessage(e, doc, s), Kind: KindUnionMismatch})
		return
	case *kind.Required:
		for _, name := range k.Missing {
			*out = append(*out, Failure{Path: path.Append(document.Key(name)), Message: missingMessage, Kind: KindMissing})
		}
		return
	case *kind.Dependency:
		for _, name := range k.Missing {
			*out = append(*out, Failure{Path: path.Append(document.Key(name)), Message: missingMessage, Kind: KindMissing})
		}
		return
	case *kind.DependentRequired:
		for _, name := range k.Missing {
			*out = append(*out, Failure{Path: path.Append(document.Key(name)), Message: missingMessage, Kind: KindMissing})
		}
		return
	case *kind.AdditionalProperties:
		for _, name := range k.Properties {
			*out = append(*out, Failure{Path: path.Append(document.Key(name)), Message: extraMessage, Kind: KindExtraForbidden})
		}
		return
	case *kind.FalseSchema:
		*out = append(*out, Failure{Path: path, Message: extraMessage, Kind: KindExtraForbidden})
		return
	}

	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			v.collect(cause, doc, s, out)
		}
		return
	}

	switch e.ErrorKind.(type) {
	case *kind.Schema, *kind.Group, *kind.Reference, *kind.AllOf:
		// Container without causes carries no information of its own.
		return
	}
	*out = append(*out, Failure{
		Path:    path,
		Message: e.ErrorKind.LocalizedString(v.printer),
		Kind:    classify(e.ErrorKind),
	})
}

// unionMessage summarizes why no member of an anyOf/oneOf matched. Reasons
// are ordered like failures, then by text, since the validator reports
// property causes in map order.
func (v *Validator) unionMessage(e *jsonschema.ValidationError, doc document.Value, s *schema.Schema) string {
	msg := e.ErrorKind.LocalizedString(v.printer)

	type reason struct {
		rank []int
		text string
	}
	var reasons []reason
	var walk func(*jsonschema.ValidationError)
	walk = func(c *jsonschema.ValidationError) {
		if len(c.Causes) == 0 {
			reasons = append(reasons, reason{
				rank: rankPath(typedPath(doc, c.InstanceLocation), doc, s),
				text: c.ErrorKind.LocalizedString(v.printer),
			})
			return
		}
		for _, cc := range c.Causes {
			walk(cc)
		}
	}
	for _, c := range e.Causes {
		walk(c)
	}

	slices.SortFunc(reasons, func(a, b reason) int {
		if c := slices.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		return strings.Compare(a.text, b.text)
	})

	var texts []string
	seen := make(map[string]bool)
	for _, r := range reasons {
		if !seen[r.text] {
			seen[r.text] = true
			texts = append(texts, r.text)
		}
	}
	if len(texts) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(texts, "; ")
}

// typedPath converts an instance location into a Path, using the document to
// tell sequence indices from mapping keys that look like numbers.
func typedPath(doc document.Value, location []string) document.Path {
	path := make(document.Path, 0, len(location))
	cur := doc
	for _, token := range location {
		switch c := cur.(type) {
		case []any:
			if i, err := strconv.Atoi(token); err == nil && i >= 0 {
				path = append(path, document.Index(i))
				if i < len(c) {
					cur = c[i]
				} else {
					cur = nil
				}
				continue
			}
			cur = nil
		case document.Map:
			cur, _ = c.Get(token)
		default:
			cur = nil
		}
		path = append(path, document.Key(token))
	}
	return path
}
