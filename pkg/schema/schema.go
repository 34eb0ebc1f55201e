// Package schema models an already-loaded JSON schema as the read-only
// capability the validation engine works with: a compiled validator plus an
// explicit, pre-computed view of the declared fields and their types.
package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/githubnext/validata/pkg/document"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrDefinitionNotFound is returned when the requested definition does not
// exist in the schema document.
var ErrDefinitionNotFound = errors.New("schema definition not found")

const maxRefDepth = 32

// FieldDescriptor describes a top-level field of a schema.
type FieldDescriptor struct {
	Name     string
	Required bool
	TypeName string
	Node     *Node
}

// Schema is a compiled, immutable schema definition.
type Schema struct {
	name     string
	source   string
	root     *Node
	defs     map[string]*Node
	compiled *jsonschema.Schema
	fields   []FieldDescriptor
}

// Options controls how a schema document is turned into a Schema.
type Options struct {
	// Name selects a definition under $defs or definitions, or the root
	// schema when its title matches.
	Name string
	// Source is the path or URL the document was read from. It becomes the
	// base URL for relative references.
	Source string
	// URLLoader resolves references to other documents. Nil uses the
	// validator's default file loader.
	URLLoader jsonschema.URLLoader
}

// Parse builds a Schema from a decoded schema document.
func Parse(raw document.Value, opts Options) (*Schema, error) {
	doc, ok := raw.(document.Map)
	if !ok {
		return nil, fmt.Errorf("schema document must be an object, got %s", describeValue(raw))
	}

	s := &Schema{
		name:   opts.Name,
		source: opts.Source,
		defs:   make(map[string]*Node),
	}

	rootNode := parseNode(doc)
	s.defs["#"] = rootNode
	for _, section := range []string{"$defs", "definitions"} {
		if defs, ok := doc.Get(section); ok {
			if m, ok := defs.(document.Map); ok {
				for _, e := range m {
					s.defs["#/"+section+"/"+e.Key] = parseNode(e.Value)
				}
			}
		}
	}

	fragment, err := s.selectDefinition(doc, rootNode)
	if err != nil {
		return nil, err
	}

	s.compiled, err = compile(doc, resourceURL(opts.Source), fragment, opts.URLLoader)
	if err != nil {
		return nil, err
	}

	if resolved := s.Resolve(s.root); resolved != nil {
		for _, p := range resolved.Properties {
			s.fields = append(s.fields, FieldDescriptor{
				Name:     p.Name,
				Required: p.Required,
				TypeName: TypeName(p.Node),
				Node:     p.Node,
			})
		}
	}
	return s, nil
}

func (s *Schema) selectDefinition(doc document.Map, rootNode *Node) (string, error) {
	if s.name != "" {
		for _, section := range []string{"$defs", "definitions"} {
			if node, ok := s.defs["#/"+section+"/"+s.name]; ok {
				s.root = node
				return "#/" + section + "/" + s.name, nil
			}
		}
	}
	if s.name == "" || rootNode.Title == s.name {
		s.root = rootNode
		if rootNode.Title != "" && s.name == "" {
			s.name = rootNode.Title
		}
		return "", nil
	}
	return "", fmt.Errorf("%w: '%s' not found in '%s'", ErrDefinitionNotFound, s.name, s.source)
}

func compile(doc document.Map, url, fragment string, loader jsonschema.URLLoader) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	compiler.AssertFormat()
	if loader != nil {
		compiler.UseLoader(loader)
	}

	if err := compiler.AddResource(url, document.ToJSONModel(doc)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(url + fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// resourceURL returns the absolute URL the document is registered under.
func resourceURL(source string) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	if source == "" {
		source = "schema.json"
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	return "file://" + filepath.ToSlash(abs)
}

// Name is the selected definition name.
func (s *Schema) Name() string {
	return s.name
}

// Source is where the schema document came from.
func (s *Schema) Source() string {
	return s.source
}

// Root is the node of the selected definition.
func (s *Schema) Root() *Node {
	return s.root
}

// Compiled is the validator's compiled form of the selected definition.
func (s *Schema) Compiled() *jsonschema.Schema {
	return s.compiled
}

// Fields lists the top-level fields in declaration order.
func (s *Schema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a top-level field by name.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Resolve follows local $ref chains. It returns nil for references it cannot
// resolve and for reference cycles.
func (s *Schema) Resolve(n *Node) *Node {
	for depth := 0; n != nil && n.Ref != ""; depth++ {
		if depth >= maxRefDepth {
			return nil
		}
		target, ok := s.defs[n.Ref]
		if !ok {
			return nil
		}
		n = target
	}
	return n
}

func describeValue(v document.Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
