package document

import (
	"slices"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a mapping key segment.
func Key(name string) Segment {
	return Segment{Key: name}
}

// Index returns a sequence index segment.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses a location inside a document or schema.
type Path []Segment

// ParsePath builds a Path from dot-joined text. All-digit segments become
// indices.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))
	for _, p := range parts {
		if i, err := strconv.Atoi(p); err == nil && i >= 0 {
			path = append(path, Index(i))
			continue
		}
		path = append(path, Key(p))
	}
	return path
}

// String renders the path dot-joined, indices as bare numbers: items.0.name
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Strings returns the raw segments as strings, the shape JSON pointer based
// tools expect.
func (p Path) Strings() []string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return parts
}

// Append returns a new path with seg added at the end.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// First returns the first segment, if any.
func (p Path) First() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[0], true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
