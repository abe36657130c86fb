package token

import "github.com/dshills/markweave/internal/render"

// Kind discriminates event types.
type Kind uint8

const (
	// KindStart opens a tagged construct.
	KindStart Kind = iota

	// KindEnd closes a tagged construct.
	KindEnd

	// KindText is a run of literal text.
	KindText

	// KindCode is an inline code span. Range covers the inner content;
	// Outer covers the content plus its backtick delimiters.
	KindCode

	// KindInlineMath is a $...$ construct. Range covers the whole
	// construct including delimiters; Literal holds the inner LaTeX.
	KindInlineMath

	// KindDisplayMath is a $$...$$ construct.
	KindDisplayMath

	// KindHTML is a raw HTML block (or any block rendered as opaque
	// source text, such as a table).
	KindHTML

	// KindInlineHTML is a raw inline HTML run.
	KindInlineHTML

	// KindSoftBreak covers a line break inside a paragraph.
	KindSoftBreak

	// KindHardBreak covers a hard line break (trailing spaces or a
	// backslash, plus the newline).
	KindHardBreak

	// KindRule is a thematic break line.
	KindRule

	// KindFootnoteReference is a [^label] reference.
	KindFootnoteReference

	// KindTaskListMarker is a [x] or [ ] checkbox in a list item.
	KindTaskListMarker

	// KindAttribute is a {...} attribute block attached to a heading.
	KindAttribute
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindText:
		return "text"
	case KindCode:
		return "code"
	case KindInlineMath:
		return "inline-math"
	case KindDisplayMath:
		return "display-math"
	case KindHTML:
		return "html"
	case KindInlineHTML:
		return "inline-html"
	case KindSoftBreak:
		return "soft-break"
	case KindHardBreak:
		return "hard-break"
	case KindRule:
		return "rule"
	case KindFootnoteReference:
		return "footnote-ref"
	case KindTaskListMarker:
		return "task-marker"
	case KindAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Tag identifies the construct a Start or End event refers to.
type Tag uint8

const (
	TagNone Tag = iota
	TagParagraph
	TagHeading
	TagBlockQuote
	TagList
	TagItem
	TagCodeBlock
	TagFootnoteDefinition
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
)

// String returns the string representation of the tag.
func (t Tag) String() string {
	switch t {
	case TagParagraph:
		return "paragraph"
	case TagHeading:
		return "heading"
	case TagBlockQuote:
		return "blockquote"
	case TagList:
		return "list"
	case TagItem:
		return "item"
	case TagCodeBlock:
		return "codeblock"
	case TagFootnoteDefinition:
		return "footnote-def"
	case TagEmphasis:
		return "emphasis"
	case TagStrong:
		return "strong"
	case TagStrikethrough:
		return "strikethrough"
	case TagLink:
		return "link"
	case TagImage:
		return "image"
	default:
		return "none"
	}
}

// IsBlock reports whether the tag is a block-level construct.
func (t Tag) IsBlock() bool {
	switch t {
	case TagParagraph, TagHeading, TagBlockQuote, TagList, TagItem,
		TagCodeBlock, TagFootnoteDefinition:
		return true
	default:
		return false
	}
}

// StartsParagraph reports whether the tag opens a new top-level
// incremental render unit. List items are absent: splitting each item
// into its own render unit would destroy list-level diff granularity,
// so items stay inside the enclosing list's paragraph like any other
// nested block.
func (t Tag) StartsParagraph() bool {
	switch t {
	case TagParagraph, TagHeading, TagBlockQuote, TagList, TagCodeBlock,
		TagFootnoteDefinition:
		return true
	default:
		return false
	}
}

// Event is one tokenizer output: a kind, an optional tag, and the byte
// range of consumed source. Payload fields are populated per kind.
type Event struct {
	Kind  Kind
	Tag   Tag
	Range render.ByteRange

	// Outer is the construct's full extent where it differs from Range
	// (inline code including backticks). Zero value means "same as
	// Range".
	Outer render.ByteRange

	// Literal carries content that is not read back from Range: decoded
	// entities, inline code text, math source.
	Literal string

	// Heading level for TagHeading, 1-6.
	Level int

	// Ordered and ListStart describe a TagList.
	Ordered   bool
	ListStart int

	// Fence is the info string of a fenced code block.
	Fence string

	// Destination and Title describe a TagLink or TagImage.
	Destination string
	Title       string

	// Label is a footnote label.
	Label string

	// Checked is the state of a task list marker.
	Checked bool
}

// Tokenizer turns markdown source into an ordered event stream.
type Tokenizer interface {
	Tokenize(source []byte) []Event
}
