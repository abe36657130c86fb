package token

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/markweave/internal/render"
)

// GoldmarkTokenizer adapts a goldmark AST walk into the ordered event
// stream the writer consumes. GFM (strikethrough, task lists, tables)
// and footnotes are enabled; tables are emitted as opaque raw blocks.
type GoldmarkTokenizer struct {
	md goldmark.Markdown
}

// NewGoldmarkTokenizer creates a tokenizer with the standard extension set.
func NewGoldmarkTokenizer() *GoldmarkTokenizer {
	return &GoldmarkTokenizer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAttribute(),
			),
		),
	}
}

// Tokenize parses source and returns its event stream.
func (t *GoldmarkTokenizer) Tokenize(source []byte) []Event {
	doc := t.md.Parser().Parse(text.NewReader(source))
	w := &walker{source: source}
	_ = ast.Walk(doc, w.walk)
	return w.finish()
}

// footnoteGroup holds the events of one footnote definition. Goldmark
// moves definitions to the end of the AST regardless of where they sit
// in the source, so their events are collected separately and merged
// back by source position.
type footnoteGroup struct {
	pos    int
	events []Event
}

type walker struct {
	source []byte
	events []Event

	// cursor tracks the end of the last emitted range, used as the
	// search origin for nodes that carry no position of their own.
	cursor int

	groups   []footnoteGroup
	curGroup *footnoteGroup
}

func (w *walker) emit(ev Event) {
	if w.curGroup != nil {
		w.curGroup.events = append(w.curGroup.events, ev)
	} else {
		w.events = append(w.events, ev)
	}
	if ev.Range.End > w.cursor {
		w.cursor = ev.Range.End
	}
}

func (w *walker) finish() []Event {
	out := w.events
	for _, g := range w.groups {
		idx := len(out)
		for i, ev := range out {
			if ev.Range.Start >= g.pos {
				idx = i
				break
			}
		}
		merged := make([]Event, 0, len(out)+len(g.events))
		merged = append(merged, out[:idx]...)
		merged = append(merged, g.events...)
		merged = append(merged, out[idx:]...)
		out = merged
	}
	return out
}

func zeroAt(pos int) render.ByteRange {
	return render.ByteRange{Start: pos, End: pos}
}

func (w *walker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil

	case *ast.Paragraph:
		cs, ce := w.blockContentBounds(node)
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagParagraph, Range: zeroAt(cs)})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagParagraph, Range: zeroAt(ce)})
		}

	case *ast.TextBlock:
		// Bare list item content; the item owns the boundary, so no
		// paragraph events are needed.
		return ast.WalkContinue, nil

	case *ast.Heading:
		cs, ce := w.blockContentBounds(node)
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagHeading, Level: node.Level, Range: zeroAt(cs)})
		} else {
			end := ce
			if node.Attributes() != nil {
				if as, ae, ok := attributeSpan(w.source, ce); ok {
					w.emit(Event{Kind: KindAttribute, Range: render.ByteRange{Start: as, End: ae}})
					end = ae
				}
			}
			w.emit(Event{Kind: KindEnd, Tag: TagHeading, Level: node.Level, Range: zeroAt(end)})
		}

	case *ast.Blockquote:
		cs, ce := w.blockContentBounds(node)
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagBlockQuote, Range: zeroAt(cs)})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagBlockQuote, Range: zeroAt(ce)})
		}

	case *ast.List:
		cs, ce := w.blockContentBounds(node)
		if entering {
			w.emit(Event{
				Kind:      KindStart,
				Tag:       TagList,
				Ordered:   node.IsOrdered(),
				ListStart: node.Start,
				Range:     zeroAt(lineStartOf(w.source, cs)),
			})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagList, Range: zeroAt(ce)})
		}

	case *ast.ListItem:
		cs, ce := w.blockContentBounds(node)
		if entering {
			markerEnd := listMarkerEnd(w.source, lineStartOf(w.source, cs))
			w.emit(Event{Kind: KindStart, Tag: TagItem, Range: zeroAt(markerEnd)})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagItem, Range: zeroAt(ce)})
		}

	case *east.TaskCheckBox:
		if entering {
			w.emitTaskMarker(node.IsChecked)
		}

	case *ast.FencedCodeBlock:
		if entering {
			w.emitCodeBlock(node, string(node.Language(w.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			w.emitCodeBlock(node, "")
			return ast.WalkSkipChildren, nil
		}

	case *ast.ThematicBreak:
		if entering {
			hs := skipBlank(w.source, w.cursor)
			le := lineEndOf(w.source, hs)
			w.emit(Event{Kind: KindRule, Range: render.ByteRange{Start: hs, End: le}})
		}

	case *ast.HTMLBlock:
		if entering {
			w.emitHTMLBlock(node)
			return ast.WalkSkipChildren, nil
		}

	case *east.Table:
		if entering {
			w.emitOpaqueBlock(node)
			return ast.WalkSkipChildren, nil
		}

	case *east.FootnoteList:
		return ast.WalkContinue, nil

	case *east.Footnote:
		if entering {
			w.curGroup = &footnoteGroup{}
			cs, _ := w.blockContentBounds(node)
			w.curGroup.pos = lineStartOf(w.source, cs)
			w.emit(Event{
				Kind:  KindStart,
				Tag:   TagFootnoteDefinition,
				Label: string(node.Ref),
				Range: zeroAt(cs),
			})
		} else {
			_, ce := w.blockContentBounds(node)
			w.emit(Event{Kind: KindEnd, Tag: TagFootnoteDefinition, Range: zeroAt(ce)})
			w.groups = append(w.groups, *w.curGroup)
			w.curGroup = nil
		}

	case *east.FootnoteBacklink:
		return ast.WalkSkipChildren, nil

	case *east.FootnoteLink:
		if entering {
			w.emitFootnoteRef(node.Index)
		}

	case *ast.Text:
		if entering {
			w.emitText(node)
		}

	case *ast.String:
		if entering && len(node.Value) > 0 {
			w.emit(Event{Kind: KindText, Range: zeroAt(w.cursor), Literal: string(node.Value)})
		}

	case *ast.CodeSpan:
		if entering {
			w.emitCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		cover, ok := w.inlineCover(node)
		if !ok {
			return ast.WalkContinue, nil
		}
		tag := TagEmphasis
		if node.Level == 2 {
			tag = TagStrong
		}
		if entering {
			w.emit(Event{Kind: KindStart, Tag: tag, Range: zeroAt(cover.Start)})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: tag, Range: zeroAt(cover.End + node.Level)})
		}

	case *east.Strikethrough:
		cover, ok := w.inlineCover(node)
		if !ok {
			return ast.WalkContinue, nil
		}
		run := runLen(w.source, cover.Start, -1, '~')
		if run > 2 {
			run = 2
		}
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagStrikethrough, Range: zeroAt(cover.Start)})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagStrikethrough, Range: zeroAt(cover.End + run)})
		}

	case *ast.Link:
		cover, ok := w.inlineCover(node)
		if !ok {
			return ast.WalkContinue, nil
		}
		if entering {
			w.emit(Event{
				Kind:        KindStart,
				Tag:         TagLink,
				Destination: string(node.Destination),
				Title:       string(node.Title),
				Range:       zeroAt(cover.Start),
			})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagLink, Range: zeroAt(scanLinkClose(w.source, cover.End))})
		}

	case *ast.Image:
		cover, ok := w.inlineCover(node)
		if !ok {
			return ast.WalkContinue, nil
		}
		if entering {
			w.emit(Event{
				Kind:        KindStart,
				Tag:         TagImage,
				Destination: string(node.Destination),
				Title:       string(node.Title),
				Range:       zeroAt(cover.Start),
			})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagImage, Range: zeroAt(scanLinkClose(w.source, cover.End))})
		}

	case *ast.AutoLink:
		if entering {
			w.emitAutoLink(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		if entering {
			cover, ok := segmentsCover(node.Segments)
			if ok {
				w.emit(Event{Kind: KindInlineHTML, Range: cover})
			}
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// blockContentBounds returns the byte offsets where a block node's own
// content begins and ends, derived from recorded line segments and text
// children. Falls back to the scan cursor for empty constructs.
func (w *walker) blockContentBounds(n ast.Node) (int, int) {
	cover, ok := w.contentCover(n)
	if !ok {
		return w.cursor, w.cursor
	}
	return cover.Start, cover.End
}

// contentCover computes the extent of positions the node's content
// occupies, without surrounding syntax.
func (w *walker) contentCover(n ast.Node) (render.ByteRange, bool) {
	var out render.ByteRange
	found := false
	extend := func(r render.ByteRange) {
		if !found {
			out = r
			found = true
			return
		}
		if r.Start < out.Start {
			out.Start = r.Start
		}
		if r.End > out.End {
			out.End = r.End
		}
	}
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			extend(render.ByteRange{Start: seg.Start, End: seg.Stop})
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			if r, ok := w.contentCover(c); ok {
				extend(r)
			}
			continue
		}
		if r, ok := w.fullExtent(c); ok {
			extend(r)
		}
	}
	return out, found
}

// inlineCover returns the extent covering all children of an inline
// container, including the children's own syntax.
func (w *walker) inlineCover(n ast.Node) (render.ByteRange, bool) {
	var out render.ByteRange
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r, ok := w.fullExtent(c)
		if !ok {
			continue
		}
		if !found {
			out = r
			found = true
			continue
		}
		if r.Start < out.Start {
			out.Start = r.Start
		}
		if r.End > out.End {
			out.End = r.End
		}
	}
	return out, found
}

// fullExtent returns the byte range an inline node occupies in the
// source including its own markers, when that can be derived.
func (w *walker) fullExtent(n ast.Node) (render.ByteRange, bool) {
	switch node := n.(type) {
	case *ast.Text:
		return render.ByteRange{Start: node.Segment.Start, End: node.Segment.Stop}, true
	case *ast.CodeSpan:
		cover, ok := w.inlineCover(node)
		if !ok {
			return render.ByteRange{}, false
		}
		open := runLen(w.source, cover.Start, -1, '`')
		closing := runLen(w.source, cover.End, 1, '`')
		return render.ByteRange{Start: cover.Start - open, End: cover.End + closing}, true
	case *ast.Emphasis:
		cover, ok := w.inlineCover(node)
		if !ok {
			return render.ByteRange{}, false
		}
		return render.ByteRange{Start: cover.Start - node.Level, End: cover.End + node.Level}, true
	case *east.Strikethrough:
		cover, ok := w.inlineCover(node)
		if !ok {
			return render.ByteRange{}, false
		}
		run := runLen(w.source, cover.Start, -1, '~')
		if run > 2 {
			run = 2
		}
		return render.ByteRange{Start: cover.Start - run, End: cover.End + run}, true
	case *ast.Link:
		cover, ok := w.inlineCover(node)
		if !ok {
			return render.ByteRange{}, false
		}
		return render.ByteRange{Start: cover.Start - 1, End: scanLinkClose(w.source, cover.End)}, true
	case *ast.Image:
		cover, ok := w.inlineCover(node)
		if !ok {
			return render.ByteRange{}, false
		}
		return render.ByteRange{Start: cover.Start - 2, End: scanLinkClose(w.source, cover.End)}, true
	case *ast.RawHTML:
		return segmentsCover(node.Segments)
	default:
		return w.inlineCover(n)
	}
}

func segmentsCover(segs *text.Segments) (render.ByteRange, bool) {
	if segs == nil || segs.Len() == 0 {
		return render.ByteRange{}, false
	}
	first := segs.At(0)
	last := segs.At(segs.Len() - 1)
	return render.ByteRange{Start: first.Start, End: last.Stop}, true
}

func (w *walker) emitCodeBlock(n ast.Node, lang string) {
	lines := n.Lines()
	var cs int
	if lines.Len() > 0 {
		cs = lines.At(0).Start
	} else {
		// Empty block: content begins after the opening fence line.
		hs := skipBlank(w.source, w.cursor)
		le := lineEndOf(w.source, hs)
		cs = le
		if cs < len(w.source) {
			cs++ // past the newline
		}
	}
	w.emit(Event{Kind: KindStart, Tag: TagCodeBlock, Fence: lang, Range: zeroAt(cs)})

	last := cs
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.emit(Event{Kind: KindText, Range: render.ByteRange{Start: seg.Start, End: seg.Stop}})
		last = seg.Stop
	}

	outerEnd := last
	if _, fenced := n.(*ast.FencedCodeBlock); fenced {
		// The closing fence line, when present, belongs to the block.
		le := lineEndOf(w.source, last)
		line := bytes.TrimSpace(w.source[last:le])
		if len(line) >= 3 && (bytes.Count(line, []byte{'`'}) == len(line) || bytes.Count(line, []byte{'~'}) == len(line)) {
			outerEnd = le
		}
	}
	w.emit(Event{Kind: KindEnd, Tag: TagCodeBlock, Fence: lang, Range: zeroAt(outerEnd)})
}

func (w *walker) emitHTMLBlock(n *ast.HTMLBlock) {
	cover, ok := segmentsCover(n.Lines())
	if n.HasClosure() {
		closure := n.ClosureLine
		if closure.Start >= 0 {
			if !ok {
				cover = render.ByteRange{Start: closure.Start, End: closure.Stop}
				ok = true
			} else if closure.Stop > cover.End {
				cover.End = closure.Stop
			}
		}
	}
	if !ok {
		return
	}
	w.emit(Event{Kind: KindHTML, Range: cover})
}

// emitOpaqueBlock covers a block by its text descendants expanded to
// line boundaries and emits it as raw source. Used for tables, which
// are not editable in place.
func (w *walker) emitOpaqueBlock(n ast.Node) {
	cover, ok := w.textDescendantCover(n)
	if !ok {
		return
	}
	cover.Start = lineStartOf(w.source, cover.Start)
	cover.End = lineEndOf(w.source, cover.End)
	w.emit(Event{Kind: KindHTML, Range: cover})
}

func (w *walker) textDescendantCover(n ast.Node) (render.ByteRange, bool) {
	var out render.ByteRange
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var r render.ByteRange
		var ok bool
		if t, isText := c.(*ast.Text); isText {
			r = render.ByteRange{Start: t.Segment.Start, End: t.Segment.Stop}
			ok = true
		} else {
			r, ok = w.textDescendantCover(c)
		}
		if !ok {
			continue
		}
		if !found {
			out = r
			found = true
			continue
		}
		if r.Start < out.Start {
			out.Start = r.Start
		}
		if r.End > out.End {
			out.End = r.End
		}
	}
	return out, found
}

func (w *walker) emitCodeSpan(n *ast.CodeSpan) {
	cover, ok := w.inlineCover(n)
	if !ok {
		return
	}
	open := runLen(w.source, cover.Start, -1, '`')
	closing := runLen(w.source, cover.End, 1, '`')
	w.emit(Event{
		Kind:    KindCode,
		Range:   cover,
		Outer:   render.ByteRange{Start: cover.Start - open, End: cover.End + closing},
		Literal: string(w.source[cover.Start:cover.End]),
	})
}

func (w *walker) emitAutoLink(n *ast.AutoLink) {
	label := n.Label(w.source)
	url := n.URL(w.source)
	idx := bytes.Index(w.source[w.cursor:], label)
	if idx < 0 {
		return
	}
	start := w.cursor + idx
	r := render.ByteRange{Start: start, End: start + len(label)}
	dest := string(url)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(url, []byte("mailto:")) {
		dest = "mailto:" + dest
	}
	w.emit(Event{Kind: KindStart, Tag: TagLink, Destination: dest, Range: zeroAt(r.Start)})
	w.emit(Event{Kind: KindText, Range: r})
	w.emit(Event{Kind: KindEnd, Tag: TagLink, Range: zeroAt(r.End)})
}

func (w *walker) emitTaskMarker(checked bool) {
	i := w.cursor
	for i < len(w.source) && w.source[i] == ' ' {
		i++
	}
	if i+2 < len(w.source) && w.source[i] == '[' && w.source[i+2] == ']' {
		w.emit(Event{
			Kind:    KindTaskListMarker,
			Checked: checked,
			Range:   render.ByteRange{Start: i, End: i + 3},
		})
	}
}

func (w *walker) emitFootnoteRef(index int) {
	idx := bytes.Index(w.source[w.cursor:], []byte("[^"))
	if idx < 0 {
		return
	}
	start := w.cursor + idx
	end := start + 2
	for end < len(w.source) && w.source[end] != ']' && w.source[end] != '\n' {
		end++
	}
	if end >= len(w.source) || w.source[end] != ']' {
		return
	}
	end++
	w.emit(Event{
		Kind:    KindFootnoteReference,
		Label:   string(w.source[start+2 : end-1]),
		Literal: strconv.Itoa(index),
		Range:   render.ByteRange{Start: start, End: end},
	})
}

// emitText emits a text node's content, splitting out math constructs,
// then any line break the node is flagged with.
func (w *walker) emitText(n *ast.Text) {
	seg := n.Segment
	if seg.Stop > seg.Start {
		w.emitTextWithMath(seg.Start, seg.Stop)
	}
	switch {
	case n.HardLineBreak():
		p := seg.Stop
		for p < len(w.source) && (w.source[p] == ' ' || w.source[p] == '\\') {
			p++
		}
		if p < len(w.source) && w.source[p] == '\r' {
			p++
		}
		if p < len(w.source) && w.source[p] == '\n' {
			p++
			w.emit(Event{Kind: KindHardBreak, Range: render.ByteRange{Start: seg.Stop, End: p}})
		}
	case n.SoftLineBreak():
		p := seg.Stop
		if p < len(w.source) && w.source[p] == '\r' {
			p++
		}
		if p < len(w.source) && w.source[p] == '\n' {
			p++
			w.emit(Event{Kind: KindSoftBreak, Range: render.ByteRange{Start: seg.Stop, End: p}})
		}
	}
}
