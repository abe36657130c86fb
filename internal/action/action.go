package action

// Placeholder is the zero-width character the engine inserts to give
// the caret a landing spot after soft breaks and list exits. It is
// never typed by the user and is stripped before user text.
const Placeholder rune = '\u200B'

// Kind discriminates edit intents.
type Kind uint8

const (
	Insert Kind = iota
	InsertLineBreak
	InsertParagraph
	DeleteBackward
	DeleteForward
	DeleteWordBackward
	DeleteWordForward
	DeleteToLineStart
	DeleteToLineEnd
	Undo
	Redo
	ToggleBold
	ToggleItalic
	ToggleCode
	ToggleStrikethrough
	SelectAll
	MoveCursor
	ExtendSelection
	Cut
	Copy
	Paste
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case InsertLineBreak:
		return "insert-line-break"
	case InsertParagraph:
		return "insert-paragraph"
	case DeleteBackward:
		return "delete-backward"
	case DeleteForward:
		return "delete-forward"
	case DeleteWordBackward:
		return "delete-word-backward"
	case DeleteWordForward:
		return "delete-word-forward"
	case DeleteToLineStart:
		return "delete-to-line-start"
	case DeleteToLineEnd:
		return "delete-to-line-end"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	case ToggleBold:
		return "toggle-bold"
	case ToggleItalic:
		return "toggle-italic"
	case ToggleCode:
		return "toggle-code"
	case ToggleStrikethrough:
		return "toggle-strikethrough"
	case SelectAll:
		return "select-all"
	case MoveCursor:
		return "move-cursor"
	case ExtendSelection:
		return "extend-selection"
	case Cut:
		return "cut"
	case Copy:
		return "copy"
	case Paste:
		return "paste"
	default:
		return "unknown"
	}
}

// Action is one edit intent. Text is the payload for Insert; Offset is
// the target for MoveCursor and ExtendSelection.
type Action struct {
	Kind   Kind
	Text   string
	Offset int
}

// IsMutation reports whether the action can change buffer content.
// Used by the composition machine to decide what to block while an
// IME preview is active.
func (a Action) IsMutation() bool {
	switch a.Kind {
	case SelectAll, MoveCursor, ExtendSelection, Copy:
		return false
	default:
		return true
	}
}
