package render

// SpanKind classifies a syntax span for visibility decisions.
type SpanKind uint8

const (
	// SpanInline marks syntax belonging to an inline construct. It is
	// shown only when the caret or selection touches its formatted range.
	SpanInline SpanKind = iota

	// SpanBlock marks block-level syntax (heading hashes, list bullets,
	// fences). It is shown whenever the caret is in the same paragraph.
	SpanBlock
)

// String returns the string representation of the span kind.
func (k SpanKind) String() string {
	switch k {
	case SpanInline:
		return "inline"
	case SpanBlock:
		return "block"
	default:
		return "unknown"
	}
}

// SyntaxSpan describes one run of markdown syntax characters written to
// the display tree as a hideable element.
type SyntaxSpan struct {
	ID        SpanID
	CharRange CharRange
	Kind      SpanKind

	// Formatted, when non-nil, is the full extent of the construct the
	// syntax belongs to (the whole bolded phrase for a ** marker). It
	// always contains CharRange. Paired markers share one formatted
	// range so both toggle together.
	Formatted *CharRange
}

// VisibilityRange returns the range that governs whether the span is
// shown: the formatted range when present, else the span's own range.
func (s SyntaxSpan) VisibilityRange() CharRange {
	if s.Formatted != nil {
		return *s.Formatted
	}
	return s.CharRange
}
