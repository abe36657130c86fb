package render

import "fmt"

// NodeID identifies an element in the display tree that can be targeted
// by an incremental mutation or used as a caret container.
type NodeID string

// SpanID identifies a syntax span element.
type SpanID string

// Position is a location on the display surface: a node plus an offset
// measured in UTF-16 code units within that node's own text content.
type Position struct {
	Node   NodeID
	UTF16  int
}

func (p Position) String() string {
	return fmt.Sprintf("%s@%d", p.Node, p.UTF16)
}

// OffsetMapping associates a contiguous, homogeneous run of rendered
// content with a position inside a display node.
//
// A run is homogeneous when every char in it occupies the same number of
// UTF-16 code units on the display surface, so positions inside it can be
// interpolated linearly. The writer splits text at width changes to keep
// this property.
//
// UTF16Len reflects what the display surface actually contains: it is 0
// for runs rendered without text content (newlines shown as breaks) and
// exceeds CharRange.Len() for runs of surrogate-pair glyphs. Mapping
// correctness, not length equality, is the contract.
type OffsetMapping struct {
	ByteRange ByteRange
	CharRange CharRange

	// Node is the display element whose text content this run is part of.
	Node NodeID

	// NodeOffset is the UTF-16 offset of the run's first unit within Node.
	NodeOffset int

	// UTF16Len is the number of UTF-16 units the run occupies in Node.
	UTF16Len int

	// ChildIndex optionally records the child slot the run occupies in
	// its container. -1 when not tracked.
	ChildIndex int
}

// IsAnchor reports whether the mapping is a zero-length caret anchor:
// it covers no source chars and exists only to seat the caret inside an
// otherwise empty container.
func (m OffsetMapping) IsAnchor() bool {
	return m.CharRange.IsEmpty() && m.UTF16Len == 0
}
