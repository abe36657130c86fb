// Package highlight defines the external rendering collaborators the
// writer consumes as black boxes: code syntax highlighting and formula
// rendering. Both must be synchronous and bounded, since they run
// inside a render pass.
package highlight

import (
	"errors"
	"html"
)

// ErrUnsupported indicates a language or formula the renderer cannot
// handle; callers fall back to plain escaped text.
var ErrUnsupported = errors.New("unsupported input")

// Highlighter turns code into markup. The returned string is trusted
// HTML inserted verbatim into a paragraph's render.
type Highlighter interface {
	Highlight(lang, code string) (string, error)
}

// MathRenderer turns a LaTeX formula into markup (typically MathML).
// display selects display-style layout over inline.
type MathRenderer interface {
	Render(latex string, display bool) (string, error)
}

// Plain is a Highlighter that escapes the code and applies no styling.
type Plain struct{}

// Highlight returns the code HTML-escaped.
func (Plain) Highlight(_, code string) (string, error) {
	return html.EscapeString(code), nil
}

// NoMath is a MathRenderer that handles nothing, leaving formulas
// rendered as their raw source.
type NoMath struct{}

// Render always fails with ErrUnsupported.
func (NoMath) Render(string, bool) (string, error) {
	return "", ErrUnsupported
}
