package schema

import (
	"github.com/githubnext/validata/pkg/document"
)

// Node is the subset of a JSON schema the editor needs to reason about field
// types and placeholders. Validation itself is done by the compiled schema.
type Node struct {
	Types                []string
	Ref                  string
	Title                string
	Format               string
	Properties           []Property
	Items                *Node
	AdditionalProperties *Node
	AnyOf                []*Node // anyOf and oneOf members
	AllOf                []*Node
	Enum                 []document.Value
	Const                document.Value
	HasConst             bool
	Default              document.Value
	HasDefault           bool
	// Bool is set for the boolean schemas true and false.
	Bool *bool
}

// Property is a declared object property, in declaration order.
type Property struct {
	Name     string
	Required bool
	Node     *Node
}

// Property looks up a declared property and its declaration index.
func (n *Node) Property(name string) (Property, int, bool) {
	if n == nil {
		return Property{}, -1, false
	}
	for i, p := range n.Properties {
		if p.Name == name {
			return p, i, true
		}
	}
	return Property{}, -1, false
}

// HasType reports whether t is one of the node's declared types.
func (n *Node) HasType(t string) bool {
	for _, have := range n.Types {
		if have == t {
			return true
		}
	}
	return false
}

func parseNode(v document.Value) *Node {
	switch t := v.(type) {
	case bool:
		b := t
		return &Node{Bool: &b}
	case document.Map:
		return parseObjectNode(t)
	default:
		return &Node{}
	}
}

func parseObjectNode(m document.Map) *Node {
	n := &Node{}
	var required []string

	for _, e := range m {
		switch e.Key {
		case "type":
			switch tv := e.Value.(type) {
			case string:
				n.Types = []string{tv}
			case []any:
				for _, item := range tv {
					if s, ok := item.(string); ok {
						n.Types = append(n.Types, s)
					}
				}
			}
		case "$ref":
			n.Ref, _ = e.Value.(string)
		case "title":
			n.Title, _ = e.Value.(string)
		case "format":
			n.Format, _ = e.Value.(string)
		case "properties":
			if props, ok := e.Value.(document.Map); ok {
				for _, p := range props {
					n.Properties = append(n.Properties, Property{Name: p.Key, Node: parseNode(p.Value)})
				}
			}
		case "required":
			if list, ok := e.Value.([]any); ok {
				for _, item := range list {
					if s, ok := item.(string); ok {
						required = append(required, s)
					}
				}
			}
		case "items":
			if _, tuple := e.Value.([]any); !tuple {
				n.Items = parseNode(e.Value)
			}
		case "additionalProperties":
			if _, ok := e.Value.(document.Map); ok {
				n.AdditionalProperties = parseNode(e.Value)
			}
		case "anyOf", "oneOf":
			if list, ok := e.Value.([]any); ok {
				for _, item := range list {
					n.AnyOf = append(n.AnyOf, parseNode(item))
				}
			}
		case "allOf":
			if list, ok := e.Value.([]any); ok {
				for _, item := range list {
					n.AllOf = append(n.AllOf, parseNode(item))
				}
			}
		case "enum":
			if list, ok := e.Value.([]any); ok {
				n.Enum = list
			}
		case "const":
			n.Const, n.HasConst = e.Value, true
		case "default":
			n.Default, n.HasDefault = e.Value, true
		}
	}

	for i := range n.Properties {
		for _, r := range required {
			if n.Properties[i].Name == r {
				n.Properties[i].Required = true
			}
		}
	}
	// Required names with no declared property still count as fields.
	for _, r := range required {
		if _, _, ok := n.Property(r); !ok {
			n.Properties = append(n.Properties, Property{Name: r, Required: true, Node: &Node{}})
		}
	}
	return n
}
