package textbuf

// Selection represents a range of selected text. Anchor is where the
// selection started; Head is the current cursor position. When
// Anchor == Head the selection is just a caret. Selection is an
// immutable value type; offsets are char offsets.
type Selection struct {
	Anchor int
	Head   int
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool { return s.Anchor == s.Head }

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Len returns the number of selected chars.
func (s Selection) Len() int { return s.End() - s.Start() }

// Extend returns a new selection with the head moved to offset; the
// anchor stays fixed.
func (s Selection) Extend(offset int) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// Collapse collapses the selection to a caret at the head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// Clamp returns the selection limited to [0, max].
func (s Selection) Clamp(max int) Selection {
	c := s
	if c.Anchor < 0 {
		c.Anchor = 0
	}
	if c.Anchor > max {
		c.Anchor = max
	}
	if c.Head < 0 {
		c.Head = 0
	}
	if c.Head > max {
		c.Head = max
	}
	return c
}
