package action

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/markweave/internal/textbuf"
)

// Executor applies edit actions to a buffer. It holds no state of its
// own; every decision is read from the buffer at apply time.
type Executor struct {
	buf textbuf.Buffer
}

// NewExecutor creates an executor over buf.
func NewExecutor(buf textbuf.Buffer) *Executor {
	return &Executor{buf: buf}
}

// Apply performs one action. Clipboard actions return ErrUnhandled;
// everything else is best-effort and returns nil.
func (e *Executor) Apply(a Action) error {
	switch a.Kind {
	case Insert:
		e.insert(a.Text)
	case InsertLineBreak:
		e.insertBreak(false)
	case InsertParagraph:
		e.insertBreak(true)
	case DeleteBackward:
		e.deleteBackward()
	case DeleteForward:
		e.deleteForward()
	case DeleteWordBackward:
		e.deleteWordBackward()
	case DeleteWordForward:
		e.deleteWordForward()
	case DeleteToLineStart:
		e.buf.Delete(e.lineStart(e.buf.Cursor()), e.buf.Cursor())
	case DeleteToLineEnd:
		e.buf.Delete(e.buf.Cursor(), e.lineEnd(e.buf.Cursor()))
	case Undo:
		if e.buf.Undo() {
			e.reclamp()
		}
	case Redo:
		if e.buf.Redo() {
			e.reclamp()
		}
	case ToggleBold:
		e.toggle("**")
	case ToggleItalic:
		e.toggle("*")
	case ToggleCode:
		e.toggle("`")
	case ToggleStrikethrough:
		e.toggle("~~")
	case SelectAll:
		e.buf.SetSelection(textbuf.NewSelection(0, e.buf.LenChars()))
	case MoveCursor:
		e.buf.ClearSelection()
		e.buf.SetCursor(a.Offset)
	case ExtendSelection:
		sel, ok := e.buf.Selection()
		if !ok {
			sel = textbuf.NewSelection(e.buf.Cursor(), e.buf.Cursor())
		}
		e.buf.SetSelection(sel.Extend(a.Offset))
	case Cut, Copy, Paste:
		return ErrUnhandled
	}
	return nil
}

// reclamp pins the caret inside the document and drops any selection
// after a history move.
func (e *Executor) reclamp() {
	if e.buf.Cursor() > e.buf.LenChars() {
		e.buf.SetCursor(e.buf.LenChars())
	}
	e.buf.ClearSelection()
}

// ---- insertion ----

// insert types text at the caret, replacing the selection when one is
// active. The caret case strips placeholders sitting immediately
// before the caret so invisible characters do not accumulate behind
// typed text.
func (e *Executor) insert(text string) {
	if sel, ok := e.activeSelection(); ok {
		e.buf.Replace(sel.Start(), sel.End(), text)
		e.buf.ClearSelection()
		return
	}
	c := e.buf.Cursor()
	start := c
	for start > 0 {
		r, ok := e.buf.CharAt(start - 1)
		if !ok || r != Placeholder {
			break
		}
		start--
	}
	if start < c {
		e.buf.Replace(start, c, text)
		return
	}
	e.buf.Insert(c, text)
}

func (e *Executor) insertBreak(paragraph bool) {
	if sel, ok := e.activeSelection(); ok {
		e.buf.Replace(sel.Start(), sel.End(), "")
		e.buf.ClearSelection()
	}
	c := e.buf.Cursor()

	// A break right after a soft break's placeholder promotes it to a
	// paragraph break.
	if c >= 2 {
		prev, _ := e.buf.CharAt(c - 1)
		before, _ := e.buf.CharAt(c - 2)
		if prev == Placeholder && before == '\n' {
			e.buf.Replace(c-1, c, "\n")
			return
		}
	}

	if e.applyListBreak(c) {
		return
	}
	if paragraph {
		e.buf.Insert(c, "\n\n")
		return
	}
	e.buf.Insert(c, "\n"+string(Placeholder))
}

// applyListBreak handles breaks inside a list item: an empty item
// exits the list, a non-empty one continues it with the next marker.
func (e *Executor) applyListBreak(c int) bool {
	ls, le := e.lineStart(c), e.lineEnd(c)
	line := e.buf.Slice(ls, le)
	indent, marker, ordinal, ordered, ok := parseListMarker(line)
	if !ok {
		return false
	}

	content := strings.TrimLeft(line[len(indent)+len(marker):], string(Placeholder))
	if strings.TrimSpace(content) == "" {
		// Empty item: remove its line plus the trailing newline and
		// leave a paragraph break behind.
		end := le
		if _, exists := e.buf.CharAt(le); exists {
			end = le + 1
		}
		e.buf.Replace(ls, end, "\n")
		return true
	}

	next := marker
	if ordered {
		next = nextOrderedMarker(marker, ordinal)
	}
	e.buf.Insert(c, "\n"+indent+next)
	return true
}

// parseListMarker recognizes a bullet or ordered list marker at the
// start of line, after optional indentation. marker includes its
// trailing space.
func parseListMarker(line string) (indent, marker string, ordinal int, ordered, ok bool) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	indent = line[:i]
	rest := line[i:]
	if len(rest) >= 2 && (rest[0] == '-' || rest[0] == '*' || rest[0] == '+') && rest[1] == ' ' {
		return indent, rest[:2], 0, false, true
	}
	d := 0
	for d < len(rest) && rest[d] >= '0' && rest[d] <= '9' {
		d++
	}
	if d > 0 && d < len(rest)-1 && (rest[d] == '.' || rest[d] == ')') && rest[d+1] == ' ' {
		n, err := strconv.Atoi(rest[:d])
		if err == nil {
			return indent, rest[:d+2], n, true, true
		}
	}
	return "", "", 0, false, false
}

// nextOrderedMarker produces the marker for the following item,
// keeping the delimiter style.
func nextOrderedMarker(marker string, ordinal int) string {
	i := 0
	for i < len(marker) && marker[i] >= '0' && marker[i] <= '9' {
		i++
	}
	return strconv.Itoa(ordinal+1) + marker[i:]
}

// ---- deletion ----

// deleteBackward merges paragraphs when the caret sits at a newline
// boundary, absorbing up to two characters behind the newline and any
// placeholder runs on both sides, so one backspace removes the whole
// break including its invisible scaffolding.
func (e *Executor) deleteBackward() {
	if sel, ok := e.activeSelection(); ok {
		e.buf.Delete(sel.Start(), sel.End())
		e.buf.ClearSelection()
		return
	}
	c := e.buf.Cursor()
	if c == 0 {
		return
	}

	i := c
	for i > 0 {
		r, _ := e.buf.CharAt(i - 1)
		if r != Placeholder {
			break
		}
		i--
	}
	if i > 0 {
		if r, _ := e.buf.CharAt(i - 1); r == '\n' {
			delStart := i - 1
			if delStart > 0 {
				if r, _ := e.buf.CharAt(delStart - 1); r == '\n' {
					delStart--
				}
			}
			for delStart > 0 {
				r, _ := e.buf.CharAt(delStart - 1)
				if r != Placeholder {
					break
				}
				delStart--
			}
			delEnd := c
			for {
				r, ok := e.buf.CharAt(delEnd)
				if !ok || r != Placeholder {
					break
				}
				delEnd++
			}
			e.buf.Delete(delStart, delEnd)
			return
		}
	}
	e.buf.Delete(c-1, c)
}

func (e *Executor) deleteForward() {
	if sel, ok := e.activeSelection(); ok {
		e.buf.Delete(sel.Start(), sel.End())
		e.buf.ClearSelection()
		return
	}
	c := e.buf.Cursor()
	if c >= e.buf.LenChars() {
		return
	}

	i := c
	for {
		r, ok := e.buf.CharAt(i)
		if !ok || r != Placeholder {
			break
		}
		i++
	}
	if r, ok := e.buf.CharAt(i); ok && r == '\n' {
		delStart := c
		for delStart > 0 {
			r, _ := e.buf.CharAt(delStart - 1)
			if r != Placeholder {
				break
			}
			delStart--
		}
		delEnd := i + 1
		if r, ok := e.buf.CharAt(delEnd); ok && r == '\n' {
			delEnd++
		}
		for {
			r, ok := e.buf.CharAt(delEnd)
			if !ok || r != Placeholder {
				break
			}
			delEnd++
		}
		e.buf.Delete(delStart, delEnd)
		return
	}
	e.buf.Delete(c, c+1)
}

func (e *Executor) deleteWordBackward() {
	if sel, ok := e.activeSelection(); ok {
		e.buf.Delete(sel.Start(), sel.End())
		e.buf.ClearSelection()
		return
	}
	c := e.buf.Cursor()
	i := c
	for i > 0 {
		r, _ := e.buf.CharAt(i - 1)
		if !isWordBoundary(r) {
			break
		}
		i--
	}
	for i > 0 {
		r, _ := e.buf.CharAt(i - 1)
		if isWordBoundary(r) {
			break
		}
		i--
	}
	e.buf.Delete(i, c)
}

func (e *Executor) deleteWordForward() {
	if sel, ok := e.activeSelection(); ok {
		e.buf.Delete(sel.Start(), sel.End())
		e.buf.ClearSelection()
		return
	}
	c := e.buf.Cursor()
	i := c
	n := e.buf.LenChars()
	for i < n {
		r, _ := e.buf.CharAt(i)
		if !isWordBoundary(r) {
			break
		}
		i++
	}
	for i < n {
		r, _ := e.buf.CharAt(i)
		if isWordBoundary(r) {
			break
		}
		i++
	}
	e.buf.Delete(c, i)
}

// isWordBoundary treats whitespace and engine placeholders as word
// separators. Full Unicode segmentation is out of scope.
func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == Placeholder
}

// ---- formatting toggles ----

// toggle wraps the selection, or the word under the caret, in a marker
// pair. When the target is already wrapped the markers are removed
// instead. The trailing marker is placed first so the leading position
// never shifts under the edit.
func (e *Executor) toggle(marker string) {
	var start, end int
	hadSel := false
	if sel, ok := e.activeSelection(); ok {
		start, end = sel.Start(), sel.End()
		hadSel = true
	} else {
		start, end = e.wordAt(e.buf.Cursor())
	}
	ml := len([]rune(marker))

	if start >= ml && e.buf.Slice(start-ml, start) == marker && e.buf.Slice(end, end+ml) == marker {
		e.buf.Delete(end, end+ml)
		e.buf.Delete(start-ml, start)
		if hadSel {
			e.buf.SetSelection(textbuf.NewSelection(start-ml, end-ml))
		} else {
			e.buf.SetCursor(end - ml)
		}
		return
	}

	if start == end {
		e.buf.Insert(start, marker+marker)
		e.buf.SetCursor(start + ml)
		return
	}
	e.buf.Insert(end, marker)
	e.buf.Insert(start, marker)
	if hadSel {
		e.buf.SetSelection(textbuf.NewSelection(start+ml, end+ml))
	} else {
		e.buf.SetCursor(end + ml)
	}
}

// wordAt returns the word surrounding off, bounded by whitespace.
func (e *Executor) wordAt(off int) (int, int) {
	start := off
	for start > 0 {
		r, _ := e.buf.CharAt(start - 1)
		if isWordBoundary(r) {
			break
		}
		start--
	}
	end := off
	n := e.buf.LenChars()
	for end < n {
		r, _ := e.buf.CharAt(end)
		if isWordBoundary(r) {
			break
		}
		end++
	}
	return start, end
}

// ---- line and selection helpers ----

func (e *Executor) activeSelection() (textbuf.Selection, bool) {
	sel, ok := e.buf.Selection()
	if !ok || sel.IsEmpty() {
		return textbuf.Selection{}, false
	}
	return sel, true
}

// lineStart returns the char offset just after the previous newline.
func (e *Executor) lineStart(off int) int {
	for off > 0 {
		r, _ := e.buf.CharAt(off - 1)
		if r == '\n' {
			break
		}
		off--
	}
	return off
}

// lineEnd returns the offset of the next newline, or the document end.
func (e *Executor) lineEnd(off int) int {
	n := e.buf.LenChars()
	for off < n {
		r, _ := e.buf.CharAt(off)
		if r == '\n' {
			break
		}
		off++
	}
	return off
}
