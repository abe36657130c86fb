package visibility

import (
	"testing"

	"github.com/dshills/markweave/internal/render"
	"github.com/dshills/markweave/internal/textbuf"
	"github.com/dshills/markweave/internal/token"
	"github.com/dshills/markweave/internal/writer"
)

func strongParas(t *testing.T) []render.Paragraph {
	t.Helper()
	source := "Hello **world**"
	events := []token.Event{
		{Kind: token.KindStart, Tag: token.TagParagraph},
		{Kind: token.KindText, Range: render.ByteRange{Start: 0, End: 6}},
		{Kind: token.KindStart, Tag: token.TagStrong, Range: render.ByteRange{Start: 8, End: 8}},
		{Kind: token.KindText, Range: render.ByteRange{Start: 8, End: 13}},
		{Kind: token.KindEnd, Tag: token.TagStrong, Range: render.ByteRange{Start: 15, End: 15}},
		{Kind: token.KindEnd, Tag: token.TagParagraph, Range: render.ByteRange{Start: 15, End: 15}},
	}
	return writer.New([]byte(source)).Render(events)
}

func TestInlineMarkersFollowCaret(t *testing.T) {
	paras := strongParas(t)
	tests := []struct {
		name  string
		caret int
		want  bool
	}{
		{"inside construct", 10, true},
		{"at formatted start", 6, true},
		{"at formatted end", 15, true},
		{"outside construct", 0, false},
		{"just before", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vis := Visible(tt.caret, nil, paras)
			for _, s := range paras[0].Spans {
				if vis[s.ID] != tt.want {
					t.Errorf("span %s visible = %v, want %v", s.ID, vis[s.ID], tt.want)
				}
			}
		})
	}
}

func TestSelectionRevealsOverlappedInline(t *testing.T) {
	paras := strongParas(t)
	sel := textbuf.NewSelection(0, 7)
	vis := Visible(7, &sel, paras)
	for _, s := range paras[0].Spans {
		if !vis[s.ID] {
			t.Errorf("span %s hidden under overlapping selection", s.ID)
		}
	}

	sel = textbuf.NewSelection(0, 3)
	vis = Visible(3, &sel, paras)
	for _, s := range paras[0].Spans {
		if vis[s.ID] {
			t.Errorf("span %s visible under non-overlapping selection", s.ID)
		}
	}
}

func TestBlockSyntaxFollowsParagraph(t *testing.T) {
	source := "## Title\n\nBody"
	events := []token.Event{
		{Kind: token.KindStart, Tag: token.TagHeading, Level: 2, Range: render.ByteRange{Start: 3, End: 3}},
		{Kind: token.KindText, Range: render.ByteRange{Start: 3, End: 8}},
		{Kind: token.KindEnd, Tag: token.TagHeading, Level: 2, Range: render.ByteRange{Start: 8, End: 8}},
		{Kind: token.KindStart, Tag: token.TagParagraph, Range: render.ByteRange{Start: 10, End: 10}},
		{Kind: token.KindText, Range: render.ByteRange{Start: 10, End: 14}},
		{Kind: token.KindEnd, Tag: token.TagParagraph, Range: render.ByteRange{Start: 14, End: 14}},
	}
	paras := writer.New([]byte(source)).Render(events)
	if len(paras) != 2 || len(paras[0].Spans) == 0 {
		t.Fatalf("unexpected render shape: %d paragraphs", len(paras))
	}
	hash := paras[0].Spans[0].ID

	if vis := Visible(4, nil, paras); !vis[hash] {
		t.Error("hash span hidden with caret in heading")
	}
	if vis := Visible(12, nil, paras); vis[hash] {
		t.Error("hash span visible with caret in body paragraph")
	}
}

func TestCaretAtDocumentEnd(t *testing.T) {
	paras := strongParas(t)
	vis := Visible(15, nil, paras)
	if len(vis) == 0 {
		t.Error("caret at document end should reveal last paragraph's touched spans")
	}
}
