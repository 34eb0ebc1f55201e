// Package defaults synthesizes a minimal starting document from a schema:
// every required field gets a placeholder, optional fields are left out.
package defaults

import (
	"fmt"

	"github.com/githubnext/validata/pkg/document"
	"github.com/githubnext/validata/pkg/schema"
)

// SynthesisError reports a field whose type has no usable placeholder.
type SynthesisError struct {
	Path   document.Path
	Reason string
}

func (e *SynthesisError) Error() string {
	if len(e.Path) == 0 {
		return "cannot synthesize default document: " + e.Reason
	}
	return fmt.Sprintf("cannot synthesize default for '%s': %s", e.Path, e.Reason)
}

var formatSamples = map[string]string{
	"date-time":     "1970-01-01T00:00:00Z",
	"date":          "1970-01-01",
	"time":          "00:00:00Z",
	"duration":      "P0D",
	"email":         "user@example.com",
	"idn-email":     "user@example.com",
	"hostname":      "localhost",
	"idn-hostname":  "localhost",
	"ipv4":          "0.0.0.0",
	"ipv6":          "::",
	"uri":           "https://example.com",
	"iri":           "https://example.com",
	"uri-reference": "https://example.com",
	"iri-reference": "https://example.com",
	"uuid":          "00000000-0000-0000-0000-000000000000",
	"json-pointer":  "",
	"regex":         ".*",
}

// Synthesize builds the default document for s.
func Synthesize(s *schema.Schema) (document.Map, error) {
	if s == nil {
		return nil, &SynthesisError{Reason: "no schema"}
	}
	sy := &synthesizer{schema: s, active: make(map[*schema.Node]bool)}
	v, err := sy.value(s.Root(), document.Path{})
	if err != nil {
		return nil, err
	}
	m, ok := v.(document.Map)
	if !ok {
		return nil, &SynthesisError{Reason: "schema does not describe an object"}
	}
	return m, nil
}

// OrEmpty is Synthesize for callers that fall back to an empty document. The
// error is still returned so it can be reported.
func OrEmpty(s *schema.Schema) (document.Map, error) {
	m, err := Synthesize(s)
	if err != nil {
		return document.Map{}, err
	}
	return m, nil
}

type synthesizer struct {
	schema *schema.Schema
	// active holds the object nodes currently being expanded; meeting one
	// again means a required field recurses into itself.
	active map[*schema.Node]bool
}

func (sy *synthesizer) value(n *schema.Node, path document.Path) (document.Value, error) {
	if n == nil {
		return nil, nil
	}
	if n.Ref != "" {
		resolved := sy.schema.Resolve(n)
		if resolved == nil {
			return nil, &SynthesisError{Path: path, Reason: fmt.Sprintf("unresolvable reference %s", n.Ref)}
		}
		n = resolved
	}

	switch {
	case n.Bool != nil:
		if *n.Bool {
			return nil, nil
		}
		return nil, &SynthesisError{Path: path, Reason: "no value is allowed"}
	case n.HasDefault:
		return n.Default, nil
	case n.HasConst:
		return n.Const, nil
	case len(n.Enum) > 0:
		return n.Enum[0], nil
	case len(n.AnyOf) > 0:
		return sy.union(n.AnyOf, path)
	case len(n.AllOf) > 0:
		return sy.intersection(n, path)
	}

	if len(n.Types) == 0 {
		if len(n.Properties) > 0 {
			return sy.object(n, path)
		}
		// Unconstrained.
		return nil, nil
	}
	return sy.typed(n, n.Types[0], path)
}

func (sy *synthesizer) typed(n *schema.Node, t string, path document.Path) (document.Value, error) {
	switch t {
	case "string":
		return formatSamples[n.Format], nil
	case "integer":
		return int64(0), nil
	case "number":
		return float64(0), nil
	case "boolean":
		return false, nil
	case "null":
		return nil, nil
	case "array":
		return []any{}, nil
	case "object":
		return sy.object(n, path)
	default:
		return nil, &SynthesisError{Path: path, Reason: fmt.Sprintf("unsupported type %q", t)}
	}
}

func (sy *synthesizer) object(n *schema.Node, path document.Path) (document.Value, error) {
	if sy.active[n] {
		return nil, &SynthesisError{Path: path, Reason: "required fields form a cycle"}
	}
	sy.active[n] = true
	defer delete(sy.active, n)

	m := document.Map{}
	for _, p := range n.Properties {
		if !p.Required {
			continue
		}
		v, err := sy.value(p.Node, path.Append(document.Key(p.Name)))
		if err != nil {
			return nil, err
		}
		m = append(m, document.Entry{Key: p.Name, Value: v})
	}
	return m, nil
}

// union takes the first member that can be synthesized.
func (sy *synthesizer) union(members []*schema.Node, path document.Path) (document.Value, error) {
	var firstErr error
	for _, m := range members {
		v, err := sy.value(m, path)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// intersection merges the object members of an allOf. A single member is
// used as is.
func (sy *synthesizer) intersection(n *schema.Node, path document.Path) (document.Value, error) {
	if len(n.AllOf) == 1 && len(n.Properties) == 0 {
		return sy.value(n.AllOf[0], path)
	}

	merged := document.Map{}
	if len(n.Properties) > 0 {
		v, err := sy.object(n, path)
		if err != nil {
			return nil, err
		}
		merged = v.(document.Map)
	}
	for _, member := range n.AllOf {
		v, err := sy.value(member, path)
		if err != nil {
			return nil, err
		}
		m, ok := v.(document.Map)
		if !ok {
			return nil, &SynthesisError{Path: path, Reason: "allOf members must all be objects"}
		}
		for _, e := range m {
			if _, exists := merged.Get(e.Key); !exists {
				merged = append(merged, e)
			}
		}
	}
	return merged, nil
}
