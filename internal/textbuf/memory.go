package textbuf

// DefaultMaxUndoEntries bounds the undo stack of the reference buffer.
const DefaultMaxUndoEntries = 1000

// appliedEdit records a mutation that has already been applied, with
// the information needed to undo and redo it.
type appliedEdit struct {
	start        int
	oldText      string
	newText      string
	cursorBefore int
	cursorAfter  int
}

// MemoryBuffer is the reference Buffer implementation: a rune slice
// with undo/redo stacks. It is not a rope; storage performance is the
// host's concern, correctness of the capability contract is this
// type's.
type MemoryBuffer struct {
	runes    []rune
	cursor   int
	sel      Selection
	hasSel   bool
	undo     []appliedEdit
	redo     []appliedEdit
	revision uint64
	maxUndo  int
}

// Option configures a MemoryBuffer during creation.
type Option func(*MemoryBuffer)

// WithContent sets the initial content.
func WithContent(content string) Option {
	return func(b *MemoryBuffer) {
		b.runes = []rune(content)
	}
}

// WithMaxUndoEntries bounds the undo stack.
func WithMaxUndoEntries(max int) Option {
	return func(b *MemoryBuffer) {
		if max > 0 {
			b.maxUndo = max
		}
	}
}

var _ Buffer = (*MemoryBuffer)(nil)

// NewMemoryBuffer creates a reference buffer.
func NewMemoryBuffer(opts ...Option) *MemoryBuffer {
	b := &MemoryBuffer{maxUndo: DefaultMaxUndoEntries}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CharAt returns the rune at off.
func (b *MemoryBuffer) CharAt(off int) (rune, bool) {
	if off < 0 || off >= len(b.runes) {
		return 0, false
	}
	return b.runes[off], true
}

// LenChars returns the document length in chars.
func (b *MemoryBuffer) LenChars() int { return len(b.runes) }

// Slice returns the text in [start, end).
func (b *MemoryBuffer) Slice(start, end int) string {
	start, end, ok := b.clampRange(start, end)
	if !ok {
		return ""
	}
	return string(b.runes[start:end])
}

// Text returns the full content.
func (b *MemoryBuffer) Text() string { return string(b.runes) }

// Insert inserts text at off. Out-of-range offsets are a no-op.
func (b *MemoryBuffer) Insert(off int, text string) {
	if off < 0 || off > len(b.runes) || text == "" {
		return
	}
	b.apply(appliedEdit{
		start:        off,
		newText:      text,
		cursorBefore: b.cursor,
		cursorAfter:  off + len([]rune(text)),
	})
}

// Delete removes [start, end). Invalid ranges are a no-op.
func (b *MemoryBuffer) Delete(start, end int) {
	start, end, ok := b.clampRange(start, end)
	if !ok || start == end {
		return
	}
	b.apply(appliedEdit{
		start:        start,
		oldText:      string(b.runes[start:end]),
		cursorBefore: b.cursor,
		cursorAfter:  start,
	})
}

// Replace substitutes [start, end) with text as one undoable step.
func (b *MemoryBuffer) Replace(start, end int, text string) {
	start, end, ok := b.clampRange(start, end)
	if !ok {
		return
	}
	if start == end && text == "" {
		return
	}
	b.apply(appliedEdit{
		start:        start,
		oldText:      string(b.runes[start:end]),
		newText:      text,
		cursorBefore: b.cursor,
		cursorAfter:  start + len([]rune(text)),
	})
}

// SetContent replaces the whole document and clears history.
func (b *MemoryBuffer) SetContent(content string) {
	b.runes = []rune(content)
	b.undo = nil
	b.redo = nil
	b.hasSel = false
	b.revision++
	if b.cursor > len(b.runes) {
		b.cursor = len(b.runes)
	}
}

// Cursor returns the caret position.
func (b *MemoryBuffer) Cursor() int { return b.cursor }

// SetCursor moves the caret, clamped to the document.
func (b *MemoryBuffer) SetCursor(off int) {
	if off < 0 {
		off = 0
	}
	if off > len(b.runes) {
		off = len(b.runes)
	}
	b.cursor = off
}

// Selection returns the active selection, if any.
func (b *MemoryBuffer) Selection() (Selection, bool) {
	return b.sel, b.hasSel
}

// SetSelection activates a selection, clamped to the document.
func (b *MemoryBuffer) SetSelection(sel Selection) {
	b.sel = sel.Clamp(len(b.runes))
	b.hasSel = true
	b.cursor = b.sel.Head
}

// ClearSelection deactivates any selection.
func (b *MemoryBuffer) ClearSelection() { b.hasSel = false }

// Undo reverts the most recent mutation.
func (b *MemoryBuffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	e := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.splice(e.start, e.start+len([]rune(e.newText)), e.oldText)
	b.cursor = clampOffset(e.cursorBefore, len(b.runes))
	b.hasSel = false
	b.redo = append(b.redo, e)
	b.revision++
	return true
}

// Redo re-applies the most recently undone mutation.
func (b *MemoryBuffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	e := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.splice(e.start, e.start+len([]rune(e.oldText)), e.newText)
	b.cursor = clampOffset(e.cursorAfter, len(b.runes))
	b.hasSel = false
	b.undo = append(b.undo, e)
	b.revision++
	return true
}

// Revision returns the opaque mutation counter.
func (b *MemoryBuffer) Revision() uint64 { return b.revision }

func (b *MemoryBuffer) apply(e appliedEdit) {
	b.splice(e.start, e.start+len([]rune(e.oldText)), e.newText)
	b.cursor = clampOffset(e.cursorAfter, len(b.runes))
	b.hasSel = false
	b.undo = append(b.undo, e)
	if len(b.undo) > b.maxUndo {
		b.undo = b.undo[len(b.undo)-b.maxUndo:]
	}
	b.redo = b.redo[:0]
	b.revision++
}

func (b *MemoryBuffer) splice(start, end int, text string) {
	repl := []rune(text)
	out := make([]rune, 0, len(b.runes)-(end-start)+len(repl))
	out = append(out, b.runes[:start]...)
	out = append(out, repl...)
	out = append(out, b.runes[end:]...)
	b.runes = out
}

func (b *MemoryBuffer) clampRange(start, end int) (int, int, bool) {
	if start > end {
		return 0, 0, false
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.runes) {
		end = len(b.runes)
	}
	if start > len(b.runes) {
		return 0, 0, false
	}
	return start, end, true
}

func clampOffset(off, max int) int {
	if off < 0 {
		return 0
	}
	if off > max {
		return max
	}
	return off
}
