package mapper

// Position is a 1-based location in document text.
type Position struct {
	Line   int
	Column int
	Reason string // short reason why this position was chosen
}

// Anchor selects which part of a located node a position points at.
type Anchor int

const (
	// AnchorValue points at the value found at the path.
	AnchorValue Anchor = iota
	// AnchorKey points at the mapping key of the last path segment.
	AnchorKey
	// AnchorInsert points where the last path segment would be added to
	// its parent mapping.
	AnchorInsert
)
