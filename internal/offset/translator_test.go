package offset

import (
	"testing"

	"github.com/dshills/markweave/internal/render"
	"github.com/dshills/markweave/internal/token"
	"github.com/dshills/markweave/internal/writer"
)

func renderEvents(t *testing.T, source string, events []token.Event) []render.Paragraph {
	t.Helper()
	return writer.New([]byte(source)).Render(events)
}

func para(start, end int) []token.Event {
	return []token.Event{
		{Kind: token.KindStart, Tag: token.TagParagraph, Range: render.ByteRange{Start: start, End: start}},
		{Kind: token.KindText, Range: render.ByteRange{Start: start, End: end}},
		{Kind: token.KindEnd, Tag: token.TagParagraph, Range: render.ByteRange{Start: end, End: end}},
	}
}

func TestRoundTripPlainText(t *testing.T) {
	source := "Hello"
	tr := NewTranslator(renderEvents(t, source, para(0, 5)))
	for off := 0; off <= 5; off++ {
		pos, ok := tr.FromSource(off)
		if !ok {
			t.Fatalf("FromSource(%d) failed", off)
		}
		if pos.Node != "mw-p0" || pos.UTF16 != off {
			t.Errorf("FromSource(%d) = %v", off, pos)
		}
		back, ok := tr.ToSource(pos)
		if !ok || back != off {
			t.Errorf("ToSource(%v) = %d,%v, want %d", pos, back, ok, off)
		}
	}
}

func TestRoundTripAstralGlyphs(t *testing.T) {
	// Two emoji: 2 chars, 4 UTF-16 units.
	source := "\U0001F600\U0001F601x"
	events := para(0, len(source))
	tr := NewTranslator(renderEvents(t, source, events))

	wantUnits := []int{0, 2, 4, 5}
	for off, units := range wantUnits {
		pos, ok := tr.FromSource(off)
		if !ok {
			t.Fatalf("FromSource(%d) failed", off)
		}
		if pos.UTF16 != units {
			t.Errorf("FromSource(%d).UTF16 = %d, want %d", off, pos.UTF16, units)
		}
		back, ok := tr.ToSource(pos)
		if !ok || back != off {
			t.Errorf("round trip %d -> %v -> %d,%v", off, pos, back, ok)
		}
	}

	// A position in the middle of a surrogate pair floors to the glyph.
	back, ok := tr.ToSource(render.Position{Node: "mw-p0", UTF16: 1})
	if !ok || back != 0 {
		t.Errorf("mid-pair ToSource = %d,%v, want 0,true", back, ok)
	}
}

func TestFromSourceInsideSyntaxSpan(t *testing.T) {
	source := "Hello **world**"
	events := []token.Event{
		{Kind: token.KindStart, Tag: token.TagParagraph},
		{Kind: token.KindText, Range: render.ByteRange{Start: 0, End: 6}},
		{Kind: token.KindStart, Tag: token.TagStrong, Range: render.ByteRange{Start: 8, End: 8}},
		{Kind: token.KindText, Range: render.ByteRange{Start: 8, End: 13}},
		{Kind: token.KindEnd, Tag: token.TagStrong, Range: render.ByteRange{Start: 15, End: 15}},
		{Kind: token.KindEnd, Tag: token.TagParagraph, Range: render.ByteRange{Start: 15, End: 15}},
	}
	tr := NewTranslator(renderEvents(t, source, events))

	// Offset 7 is between the two asterisks; it maps into the marker
	// span's own node, one unit in.
	pos, ok := tr.FromSource(7)
	if !ok {
		t.Fatal("FromSource(7) failed")
	}
	if pos.Node != "mw-p0-s0" || pos.UTF16 != 1 {
		t.Errorf("FromSource(7) = %v, want mw-p0-s0@1", pos)
	}
	back, ok := tr.ToSource(pos)
	if !ok || back != 7 {
		t.Errorf("ToSource(%v) = %d,%v, want 7", pos, back, ok)
	}
}

func TestRoundTripAcrossSyntaxSpans(t *testing.T) {
	// An astral glyph before the emphasis shifts the UTF-16 offsets, and
	// the hidden markers split the paragraph node's text into two runs.
	source := "a\U0001F600b *c*"
	events := []token.Event{
		{Kind: token.KindStart, Tag: token.TagParagraph},
		{Kind: token.KindText, Range: render.ByteRange{Start: 0, End: 7}},
		{Kind: token.KindStart, Tag: token.TagEmphasis, Range: render.ByteRange{Start: 8, End: 8}},
		{Kind: token.KindText, Range: render.ByteRange{Start: 8, End: 9}},
		{Kind: token.KindEnd, Tag: token.TagEmphasis, Range: render.ByteRange{Start: 10, End: 10}},
		{Kind: token.KindEnd, Tag: token.TagParagraph, Range: render.ByteRange{Start: 10, End: 10}},
	}
	tr := NewTranslator(renderEvents(t, source, events))

	chars := len([]rune(source))
	for off := 0; off <= chars; off++ {
		pos, ok := tr.FromSource(off)
		if !ok {
			t.Fatalf("FromSource(%d) failed", off)
		}
		back, ok := tr.ToSource(pos)
		if !ok || back != off {
			t.Errorf("round trip %d -> %v -> %d,%v", off, pos, back, ok)
		}
	}

	// The char right after the hidden opening marker belongs to the
	// paragraph run that resumes there, not to the run that ended before
	// the marker.
	pos, ok := tr.FromSource(5)
	if !ok || pos.Node != "mw-p0" || pos.UTF16 != 5 {
		t.Fatalf("FromSource(5) = %v,%v, want mw-p0@5", pos, ok)
	}
	back, ok := tr.ToSource(pos)
	if !ok || back != 5 {
		t.Errorf("ToSource(%v) = %d,%v, want 5", pos, back, ok)
	}
}

func TestBreakSharesDisplayPosition(t *testing.T) {
	// A soft break renders as <br> with no UTF-16 width, so the newline
	// and the char after it collapse onto one display position. Going
	// back, that position seats on the start of the next line.
	source := "a\nb"
	events := []token.Event{
		{Kind: token.KindStart, Tag: token.TagParagraph},
		{Kind: token.KindText, Range: render.ByteRange{Start: 0, End: 1}},
		{Kind: token.KindSoftBreak, Range: render.ByteRange{Start: 1, End: 2}},
		{Kind: token.KindText, Range: render.ByteRange{Start: 2, End: 3}},
		{Kind: token.KindEnd, Tag: token.TagParagraph, Range: render.ByteRange{Start: 3, End: 3}},
	}
	tr := NewTranslator(renderEvents(t, source, events))

	for _, off := range []int{1, 2} {
		pos, ok := tr.FromSource(off)
		if !ok || pos.Node != "mw-p0" || pos.UTF16 != 1 {
			t.Errorf("FromSource(%d) = %v,%v, want mw-p0@1", off, pos, ok)
		}
	}
	back, ok := tr.ToSource(render.Position{Node: "mw-p0", UTF16: 1})
	if !ok || back != 2 {
		t.Errorf("ToSource(mw-p0@1) = %d,%v, want 2 (after the break)", back, ok)
	}
}

func TestUnknownPositions(t *testing.T) {
	tr := NewTranslator(renderEvents(t, "Hi", para(0, 2)))
	if _, ok := tr.ToSource(render.Position{Node: "nope", UTF16: 0}); ok {
		t.Error("unknown node should not resolve")
	}
	if _, ok := tr.ToSource(render.Position{Node: "mw-p0", UTF16: 99}); ok {
		t.Error("offset past node content should not resolve")
	}
	if _, ok := tr.FromSource(99); ok {
		t.Error("offset past document should not resolve")
	}
	if _, ok := tr.FromSource(-1); ok {
		t.Error("negative offset should not resolve")
	}
}

func TestParagraphAt(t *testing.T) {
	source := "A\n\nB"
	events := append(para(0, 1), para(3, 4)...)
	tr := NewTranslator(renderEvents(t, source, events))

	tests := []struct {
		off  int
		want int
	}{
		{0, 0},
		{1, 1}, // separator belongs to the following paragraph
		{2, 1},
		{3, 1},
		{4, 1}, // document end belongs to the last paragraph
	}
	for _, tt := range tests {
		got, ok := tr.ParagraphAt(tt.off)
		if !ok || got != tt.want {
			t.Errorf("ParagraphAt(%d) = %d,%v, want %d", tt.off, got, ok, tt.want)
		}
	}
	if _, ok := tr.ParagraphAt(5); ok {
		t.Error("offset past document should not resolve to a paragraph")
	}
}
