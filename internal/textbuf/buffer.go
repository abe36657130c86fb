package textbuf

// Buffer is the capability interface the editing core operates through.
// Implementations must treat out-of-range positions as no-ops for
// mutations and zero values for reads; callers clamp defensively and
// never receive errors for bad positions.
type Buffer interface {
	// CharAt returns the rune at the given char offset.
	CharAt(off int) (rune, bool)

	// LenChars returns the document length in chars.
	LenChars() int

	// Slice returns the text in [start, end) char offsets.
	Slice(start, end int) string

	// Insert inserts text at the given char offset.
	Insert(off int, text string)

	// Delete removes the chars in [start, end).
	Delete(start, end int)

	// Replace substitutes the chars in [start, end) with text, as one
	// atomic operation for undo purposes.
	Replace(start, end int, text string)

	// Cursor returns the caret char offset.
	Cursor() int

	// SetCursor moves the caret, clamping to the document.
	SetCursor(off int)

	// Selection returns the active selection, if any.
	Selection() (Selection, bool)

	// SetSelection activates a selection.
	SetSelection(sel Selection)

	// ClearSelection deactivates any selection.
	ClearSelection()

	// Undo reverts the most recent mutation. Returns false when there
	// is nothing to undo.
	Undo() bool

	// Redo re-applies the most recently undone mutation.
	Redo() bool

	// Revision is an opaque version that changes with every mutation,
	// including mutations applied by an external merge.
	Revision() uint64
}
