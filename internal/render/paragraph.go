package render

import "hash/fnv"

// Paragraph is the render output for one top-level block: a paragraph,
// heading, list, blockquote, code block, footnote definition, or raw
// block. Paragraphs are the unit of incremental display mutation.
//
// Instances are rebuilt on every render pass and compared by ContentHash
// against the prior pass; they are never persisted.
type Paragraph struct {
	// Index is the paragraph's position in the document, 0-based.
	Index int

	// Node is the display element holding this paragraph's markup.
	Node NodeID

	ByteRange ByteRange
	CharRange CharRange

	// HTML is the paragraph's full markup, including syntax span
	// elements and their ids.
	HTML string

	Mappings []OffsetMapping
	Spans    []SyntaxSpan

	// ContentHash summarizes HTML for change detection.
	ContentHash uint64

	// Synthetic marks the empty trailing paragraph appended when the
	// source ends on a blank line, so the caret has somewhere to land.
	Synthetic bool
}

// HashContent computes the content hash for a paragraph's markup.
func HashContent(html string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(html))
	return h.Sum64()
}
