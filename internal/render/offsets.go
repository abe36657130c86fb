package render

import (
	"fmt"
	"unicode/utf16"
)

// CharOffset is a position measured in Unicode scalars (runes).
// This is the coordinate system of the text buffer.
type CharOffset = int

// ByteOffset is a UTF-8 byte position in the raw source.
type ByteOffset = int

// CharRange is a half-open [Start, End) range of char offsets.
type CharRange struct {
	Start CharOffset
	End   CharOffset
}

// NewCharRange creates a char range, normalizing a reversed pair.
func NewCharRange(start, end CharOffset) CharRange {
	if end < start {
		start, end = end, start
	}
	return CharRange{Start: start, End: end}
}

// Len returns the number of chars covered.
func (r CharRange) Len() int { return r.End - r.Start }

// IsEmpty returns true if the range covers nothing.
func (r CharRange) IsEmpty() bool { return r.End <= r.Start }

// Contains reports whether the offset lies inside the range.
func (r CharRange) Contains(off CharOffset) bool {
	return off >= r.Start && off < r.End
}

// ContainsRange reports whether other lies entirely inside r.
func (r CharRange) ContainsRange(other CharRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Intersects reports whether the two ranges share at least one char,
// or whether a zero-length range sits strictly inside r.
func (r CharRange) Intersects(other CharRange) bool {
	if other.IsEmpty() {
		return other.Start > r.Start && other.Start < r.End
	}
	return other.Start < r.End && other.End > r.Start
}

// Touches is like Intersects but also accepts positions on either
// boundary. A caret at the edge of a construct still "touches" it.
func (r CharRange) Touches(off CharOffset) bool {
	return off >= r.Start && off <= r.End
}

func (r CharRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// ByteRange is a half-open [Start, End) range of byte offsets.
type ByteRange struct {
	Start ByteOffset
	End   ByteOffset
}

// Len returns the number of bytes covered.
func (r ByteRange) Len() int { return r.End - r.Start }

// IsEmpty returns true if the range covers nothing.
func (r ByteRange) IsEmpty() bool { return r.End <= r.Start }

// IsZero reports whether the range is the zero value. Used to tell
// "no outer extent recorded" apart from a real range at offset zero.
func (r ByteRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
// Runes above the BMP count as two units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += RuneUTF16Width(r)
	}
	return n
}

// RuneUTF16Width returns 2 for runes encoded as surrogate pairs, else 1.
// Invalid runes are replaced by the display surface with a single unit.
func RuneUTF16Width(r rune) int {
	if len(utf16.Encode([]rune{r})) == 2 {
		return 2
	}
	return 1
}
