// Package visibility decides which syntax spans are revealed for a
// given caret and selection. It is a pure computation over one pass's
// paragraphs; the host applies the result by toggling span elements.
package visibility

import (
	"github.com/dshills/markweave/internal/render"
	"github.com/dshills/markweave/internal/textbuf"
)

// Visible returns the ids of the syntax spans to show. sel is nil when
// there is no active selection.
//
// Block syntax (heading hashes, bullets, fences) shows whenever the
// caret or selection is in the span's paragraph. Inline syntax shows
// only when the caret touches the construct's formatted range or the
// selection overlaps it.
func Visible(caret render.CharOffset, sel *textbuf.Selection, paras []render.Paragraph) map[render.SpanID]bool {
	out := make(map[render.SpanID]bool)
	for i, p := range paras {
		last := i == len(paras)-1
		inPara := p.CharRange.Contains(caret) || (last && caret == p.CharRange.End)
		if !inPara && sel != nil && !sel.IsEmpty() {
			inPara = render.NewCharRange(sel.Start(), sel.End()).Intersects(p.CharRange)
		}
		for _, s := range p.Spans {
			switch s.Kind {
			case render.SpanBlock:
				if inPara {
					out[s.ID] = true
				}
			case render.SpanInline:
				r := s.VisibilityRange()
				show := r.Touches(caret)
				if !show && sel != nil && !sel.IsEmpty() {
					show = r.Intersects(render.NewCharRange(sel.Start(), sel.End()))
				}
				if show {
					out[s.ID] = true
				}
			}
		}
	}
	return out
}
