package validator

import (
	"slices"

	"github.com/githubnext/validata/pkg/document"
	"github.com/githubnext/validata/pkg/schema"
)

// sortFailures orders failures by where their path sits in the schema:
// declared properties by declaration position, undeclared keys after them in
// document order, sequence items by index. Ties keep the validator's order.
func sortFailures(failures []Failure, doc document.Value, s *schema.Schema) {
	type ranked struct {
		failure Failure
		rank    []int
	}
	items := make([]ranked, len(failures))
	for i, f := range failures {
		items[i] = ranked{failure: f, rank: rankPath(f.Path, doc, s)}
	}

	slices.SortStableFunc(items, func(a, b ranked) int {
		return slices.Compare(a.rank, b.rank)
	})

	for i := range items {
		failures[i] = items[i].failure
	}
}

func rankPath(path document.Path, doc document.Value, s *schema.Schema) []int {
	rank := make([]int, 0, len(path))
	node := s.Root()
	cur := doc

	for _, seg := range path {
		node = s.Resolve(node)
		if seg.IsIndex {
			rank = append(rank, seg.Index)
			node = itemsOf(node, s)
			if items, ok := cur.([]any); ok && seg.Index < len(items) {
				cur = items[seg.Index]
			} else {
				cur = nil
			}
			continue
		}

		owner := propertyOwner(node, seg.Key, s)
		if p, idx, ok := owner.Property(seg.Key); ok {
			rank = append(rank, idx)
			node = p.Node
		} else {
			declared := 0
			if owner != nil {
				declared = len(owner.Properties)
			}
			rank = append(rank, declared+documentPosition(cur, seg.Key))
			node = additionalOf(owner)
		}

		if m, ok := cur.(document.Map); ok {
			cur, _ = m.Get(seg.Key)
		} else {
			cur = nil
		}
	}
	return rank
}

// propertyOwner finds the object node declaring key, looking through unions
// and intersections. It falls back to n itself.
func propertyOwner(n *schema.Node, key string, s *schema.Schema) *schema.Node {
	n = s.Resolve(n)
	if n == nil {
		return nil
	}
	if _, _, ok := n.Property(key); ok {
		return n
	}
	for _, members := range [][]*schema.Node{n.AllOf, n.AnyOf} {
		for _, m := range members {
			if owner := propertyOwner(m, key, s); owner != nil {
				if _, _, ok := owner.Property(key); ok {
					return owner
				}
			}
		}
	}
	return n
}

func itemsOf(n *schema.Node, s *schema.Schema) *schema.Node {
	if n == nil {
		return nil
	}
	if n.Items != nil {
		return n.Items
	}
	for _, m := range n.AnyOf {
		if r := s.Resolve(m); r != nil && r.Items != nil {
			return r.Items
		}
	}
	return nil
}

func additionalOf(n *schema.Node) *schema.Node {
	if n == nil {
		return nil
	}
	return n.AdditionalProperties
}

// documentPosition is the index of key in the mapping, or the mapping's
// length when the key is absent.
func documentPosition(v document.Value, key string) int {
	m, ok := v.(document.Map)
	if !ok {
		return 0
	}
	for i, e := range m {
		if e.Key == key {
			return i
		}
	}
	return len(m)
}
