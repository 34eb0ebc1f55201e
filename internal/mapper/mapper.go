// Package mapper locates document paths in the source text they were decoded
// from, so report lines can point at a line and column.
package mapper

import (
	"fmt"
	"strconv"

	"github.com/githubnext/validata/pkg/document"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// Source is a parsed document text. JSON is parsed as YAML flow style.
type Source struct {
	root ast.Node
}

// Parse builds the position tree of text.
func Parse(text []byte) (*Source, error) {
	file, err := parser.ParseBytes(text, 0)
	if err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	src := &Source{}
	if len(file.Docs) > 0 {
		src.root = file.Docs[0].Body
	}
	return src, nil
}

// Locate finds the position of path in the source. It returns false when no
// part of the path can be found.
func (s *Source) Locate(path document.Path, anchor Anchor) (Position, bool) {
	if s == nil || s.root == nil {
		return Position{}, false
	}

	if anchor == AnchorInsert && len(path) > 0 {
		parent, _, _ := traverse(s.root, path[:len(path)-1])
		if parent != nil {
			return insertionAnchor(parent, path[len(path)-1].String()), true
		}
		return s.nearestParent(path)
	}

	node, parent, key := traverse(s.root, path)
	if node == nil {
		if anchor == AnchorKey && len(path) > 0 {
			if k := findKeyInMapping(parent, path[len(path)-1].String()); k != nil {
				return nodePosition(k, "key of undeclared property"), true
			}
		}
		return s.nearestParent(path)
	}

	if anchor == AnchorKey && key != nil {
		return nodePosition(key, "mapping key"), true
	}
	return nodePosition(node, "value node"), true
}

// nearestParent falls back to the deepest existing ancestor of path.
func (s *Source) nearestParent(path document.Path) (Position, bool) {
	for i := len(path) - 1; i > 0; i-- {
		if node, _, _ := traverse(s.root, path[:i]); node != nil {
			return nodePosition(node, fmt.Sprintf("parent context at depth %d", i)), true
		}
	}
	return nodePosition(s.root, "document root"), true
}

// traverse walks the AST along path. It returns the node at path, its parent
// node and, for mapping entries, the key node.
func traverse(root ast.Node, path document.Path) (ast.Node, ast.Node, ast.Node) {
	current := unwrap(root)
	var parent ast.Node
	var parentKey ast.Node

	for _, seg := range path {
		parent = current
		parentKey = nil

		switch node := current.(type) {
		case *ast.MappingNode:
			found := false
			for _, valueNode := range node.Values {
				if keyMatches(valueNode.Key, seg.String()) {
					current = unwrap(valueNode.Value)
					parentKey = valueNode.Key
					found = true
					break
				}
			}
			if !found {
				return nil, parent, nil
			}

		case *ast.MappingValueNode:
			if !keyMatches(node.Key, seg.String()) {
				return nil, parent, nil
			}
			current = unwrap(node.Value)
			parentKey = node.Key

		case *ast.SequenceNode:
			idx, ok := indexOf(seg)
			if !ok || idx >= len(node.Values) {
				return nil, parent, nil
			}
			current = unwrap(node.Values[idx])

		default:
			return nil, parent, nil
		}
	}

	return current, parent, parentKey
}

// unwrap skips anchors and tags, which wrap the node holding the value.
func unwrap(n ast.Node) ast.Node {
	for {
		switch t := n.(type) {
		case *ast.AnchorNode:
			n = t.Value
		case *ast.TagNode:
			n = t.Value
		default:
			return n
		}
	}
}

func indexOf(seg document.Segment) (int, bool) {
	if seg.IsIndex {
		return seg.Index, seg.Index >= 0
	}
	i, err := strconv.Atoi(seg.Key)
	return i, err == nil && i >= 0
}

// keyMatches checks if a mapping key node matches the expected segment string
func keyMatches(keyNode ast.MapKeyNode, segment string) bool {
	switch key := keyNode.(type) {
	case *ast.StringNode:
		return key.Value == segment
	case *ast.MappingKeyNode:
		return key.Value.GetToken().Value == segment
	default:
		if token := key.GetToken(); token != nil {
			return token.Value == segment
		}
		return false
	}
}

// findKeyInMapping searches mapping children for key and returns the key node.
func findKeyInMapping(parent ast.Node, key string) ast.Node {
	switch node := parent.(type) {
	case *ast.MappingNode:
		for _, valueNode := range node.Values {
			if keyMatches(valueNode.Key, key) {
				return valueNode.Key
			}
		}
	case *ast.MappingValueNode:
		if keyMatches(node.Key, key) {
			return node.Key
		}
	}
	return nil
}

// insertionAnchor determines where a missing key would go: the opening brace
// of a flow mapping, otherwise the line after the last entry of a block
// mapping.
func insertionAnchor(parent ast.Node, property string) Position {
	reason := fmt.Sprintf("insertion anchor for missing property '%s'", property)

	var last *ast.MappingValueNode
	switch node := parent.(type) {
	case *ast.MappingNode:
		if node.IsFlowStyle || len(node.Values) == 0 {
			return nodePosition(node, reason)
		}
		last = node.Values[len(node.Values)-1]
	case *ast.MappingValueNode:
		last = node
	default:
		return nodePosition(parent, reason)
	}

	keyTok := last.Key.GetToken()
	if keyTok == nil {
		return nodePosition(parent, reason)
	}
	return Position{Line: lastLine(last) + 1, Column: keyTok.Position.Column, Reason: reason}
}

// lastLine is the line of the last token that belongs to node.
func lastLine(node ast.Node) int {
	switch n := unwrap(node).(type) {
	case *ast.MappingNode:
		if len(n.Values) > 0 {
			return lastLine(n.Values[len(n.Values)-1])
		}
	case *ast.MappingValueNode:
		if n.Value != nil {
			return lastLine(n.Value)
		}
	case *ast.SequenceNode:
		if len(n.Values) > 0 {
			return lastLine(n.Values[len(n.Values)-1])
		}
	}
	if tok := node.GetToken(); tok != nil {
		return tok.Position.Line
	}
	return 0
}

// nodePosition reports where node starts. Block mappings and mapping entries
// start at their first key rather than at the ':' token they carry.
func nodePosition(node ast.Node, reason string) Position {
	switch n := node.(type) {
	case *ast.MappingNode:
		if !n.IsFlowStyle && len(n.Values) > 0 {
			return nodePosition(n.Values[0].Key, reason)
		}
	case *ast.MappingValueNode:
		return nodePosition(n.Key, reason)
	}
	if tok := node.GetToken(); tok != nil {
		return tokenPosition(tok, reason)
	}
	return Position{Line: 1, Column: 1, Reason: reason + " (no position)"}
}

func tokenPosition(tok *token.Token, reason string) Position {
	return Position{Line: tok.Position.Line, Column: tok.Position.Column, Reason: reason}
}
