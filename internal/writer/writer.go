package writer

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/dshills/markweave/internal/highlight"
	"github.com/dshills/markweave/internal/render"
	"github.com/dshills/markweave/internal/token"
)

// Writer renders one event stream over one source snapshot. Create a
// fresh Writer per pass.
type Writer struct {
	source   []byte
	hl       highlight.Highlighter
	math     highlight.MathRenderer
	resolve  func(string) string
	validate func(string) bool
	instance string

	paras []render.Paragraph
	cur   *paraBuilder

	// Monotonic consumption cursors over source.
	lastByte int
	lastChar render.CharOffset

	blockDepth int
	inlines    []openInline
	codeBuf    *codeBlock
	imageBuf   *imageCapture
	imageDepth int
}

// Option configures a Writer during creation.
type Option func(*Writer)

// WithHighlighter sets the fenced-code highlighter.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(w *Writer) {
		if h != nil {
			w.hl = h
		}
	}
}

// WithMathRenderer sets the formula renderer.
func WithMathRenderer(m highlight.MathRenderer) Option {
	return func(w *Writer) {
		if m != nil {
			w.math = m
		}
	}
}

// WithInstanceID sets the id prefix for generated node and span ids,
// keeping ids from different editor instances on one page disjoint.
func WithInstanceID(id string) Option {
	return func(w *Writer) {
		if id != "" {
			w.instance = id
		}
	}
}

// WithImageResolver sets the hook that rewrites image destinations
// (relative paths, attachment schemes) into displayable URLs.
func WithImageResolver(fn func(string) string) Option {
	return func(w *Writer) { w.resolve = fn }
}

// WithLinkChecker sets the hook that reports whether a link destination
// resolves; failing links are classed for styling.
func WithLinkChecker(fn func(string) bool) Option {
	return func(w *Writer) { w.validate = fn }
}

// New creates a Writer over one source snapshot.
func New(source []byte, opts ...Option) *Writer {
	w := &Writer{
		source:   source,
		hl:       highlight.Plain{},
		math:     highlight.NoMath{},
		instance: "mw",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Render consumes the event stream and returns the finished paragraphs.
// Paragraph char ranges partition [0, len chars) of the source; any
// trailing source the stream did not cover is emitted as a visible
// placeholder span so the partition stays complete.
func (w *Writer) Render(events []token.Event) []render.Paragraph {
	for _, ev := range events {
		w.handle(ev)
	}
	w.finishTrailing()
	return w.paras
}

func (w *Writer) handle(ev token.Event) {
	if w.imageBuf != nil {
		w.handleCaptured(ev)
		return
	}
	if w.codeBuf != nil && ev.Kind == token.KindText {
		w.codeBuf.segments = append(w.codeBuf.segments, ev.Range)
		return
	}
	switch ev.Kind {
	case token.KindStart:
		w.handleStart(ev)
	case token.KindEnd:
		w.handleEnd(ev)
	case token.KindText:
		w.handleText(ev)
	case token.KindCode:
		w.emitCodeSpan(ev)
	case token.KindInlineMath:
		w.emitMath(ev, false)
	case token.KindDisplayMath:
		w.emitMath(ev, true)
	case token.KindHTML:
		w.emitRawBlock(ev)
	case token.KindInlineHTML:
		w.emitInlineHTML(ev)
	case token.KindSoftBreak:
		w.emitBreak(ev, false)
	case token.KindHardBreak:
		w.emitBreak(ev, true)
	case token.KindRule:
		w.emitRule(ev)
	case token.KindFootnoteReference:
		w.emitFootnoteRef(ev)
	case token.KindTaskListMarker:
		w.emitTaskMarker(ev)
	case token.KindAttribute:
		w.emitAttribute(ev)
	}
}

func (w *Writer) handleStart(ev token.Event) {
	switch ev.Tag {
	case token.TagImage:
		w.startImageCapture(ev)
		return
	case token.TagEmphasis, token.TagStrong, token.TagStrikethrough, token.TagLink:
		w.openInlineTag(ev)
		return
	}
	if !ev.Tag.IsBlock() {
		return
	}
	name, attrs := blockElem(ev)
	if w.blockDepth == 0 && ev.Tag.StartsParagraph() {
		w.beginParagraph(name, attrs)
	} else {
		w.ensurePara()
		w.openElem(name, attrs, false)
	}
	w.blockDepth++
	if ev.Tag == token.TagCodeBlock {
		w.startCodeBlock(ev)
		return
	}
	w.gapTo(ev.Range.Start, render.SpanBlock)
}

func (w *Writer) handleEnd(ev token.Event) {
	switch ev.Tag {
	case token.TagImage:
		return
	case token.TagEmphasis, token.TagStrong, token.TagStrikethrough, token.TagLink:
		w.closeInlineTag(ev)
		return
	}
	if !ev.Tag.IsBlock() || w.blockDepth == 0 {
		return
	}
	if ev.Tag == token.TagCodeBlock && w.codeBuf != nil {
		w.flushCodeBlock(ev)
	} else {
		w.gapTo(ev.Range.End, render.SpanBlock)
	}
	w.blockDepth--
	if w.blockDepth == 0 {
		w.endParagraph()
	} else {
		w.closeElem()
	}
}

func (w *Writer) handleText(ev token.Event) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, w.autoGapKind(ev.Range.Start))
	if ev.Range.IsEmpty() && ev.Literal != "" {
		w.emitLiteral(ev.Literal)
		return
	}
	w.emitSourceText(ev.Range)
}

// ---- paragraph lifecycle ----

type paraBuilder struct {
	index     int
	node      render.NodeID
	byteStart int
	charStart render.CharOffset
	html      strings.Builder
	stack     []string
	maps      []render.OffsetMapping
	spans     []render.SyntaxSpan
	utf16     int
	seq       int
}

func (p *paraBuilder) nextSpanID() render.SpanID {
	id := render.SpanID(fmt.Sprintf("%s-s%d", p.node, p.seq))
	p.seq++
	return id
}

func (w *Writer) ensurePara() {
	if w.cur == nil {
		w.beginParagraph("p", "")
	}
}

func (w *Writer) beginParagraph(name, attrs string) {
	p := &paraBuilder{
		index:     len(w.paras),
		byteStart: w.lastByte,
		charStart: w.lastChar,
	}
	p.node = render.NodeID(fmt.Sprintf("%s-p%d", w.instance, p.index))
	w.cur = p
	w.openElem(name, attrs, true)
}

func (w *Writer) openElem(name, attrs string, withID bool) {
	p := w.cur
	p.html.WriteString("<")
	p.html.WriteString(name)
	if withID {
		p.html.WriteString(` id="`)
		p.html.WriteString(string(p.node))
		p.html.WriteString(`"`)
	}
	p.html.WriteString(attrs)
	p.html.WriteString(">")
	p.stack = append(p.stack, "</"+name+">")
}

func (w *Writer) closeElem() {
	p := w.cur
	if len(p.stack) == 0 {
		return
	}
	p.html.WriteString(p.stack[len(p.stack)-1])
	p.stack = p.stack[:len(p.stack)-1]
}

func (w *Writer) endParagraph() {
	p := w.cur
	if p == nil {
		return
	}
	for i := len(w.inlines) - 1; i >= 0; i-- {
		p.html.WriteString(w.inlines[i].closing)
	}
	w.inlines = w.inlines[:0]
	for len(p.stack) > 0 {
		w.closeElem()
	}
	if len(p.maps) == 0 {
		// Caret anchor for paragraphs with no content of their own.
		p.maps = append(p.maps, render.OffsetMapping{
			ByteRange:  render.ByteRange{Start: w.lastByte, End: w.lastByte},
			CharRange:  render.NewCharRange(w.lastChar, w.lastChar),
			Node:       p.node,
			ChildIndex: -1,
		})
	}
	markup := p.html.String()
	w.paras = append(w.paras, render.Paragraph{
		Index:       p.index,
		Node:        p.node,
		ByteRange:   render.ByteRange{Start: p.byteStart, End: w.lastByte},
		CharRange:   render.NewCharRange(p.charStart, w.lastChar),
		HTML:        markup,
		Mappings:    p.maps,
		Spans:       p.spans,
		ContentHash: render.HashContent(markup),
	})
	w.cur = nil
	w.blockDepth = 0
}

// ---- inline constructs ----

type openInline struct {
	tag       token.Tag
	openSpan  int
	startChar render.CharOffset
	closing   string
}

func (w *Writer) openInlineTag(ev token.Event) {
	w.ensurePara()
	start := w.lastChar
	idx := w.gapTo(ev.Range.Start, render.SpanInline)
	open, closing := w.inlineElem(ev)
	w.cur.html.WriteString(open)
	w.inlines = append(w.inlines, openInline{
		tag:       ev.Tag,
		openSpan:  idx,
		startChar: start,
		closing:   closing,
	})
}

// closeInlineTag closes the element first, then emits the closing
// syntax gap, so the markers sit outside the formatted element while
// both share one formatted range.
func (w *Writer) closeInlineTag(ev token.Event) {
	if len(w.inlines) == 0 || w.cur == nil {
		return
	}
	in := w.inlines[len(w.inlines)-1]
	w.inlines = w.inlines[:len(w.inlines)-1]
	w.cur.html.WriteString(in.closing)
	closeIdx := w.gapTo(ev.Range.End, render.SpanInline)
	formatted := render.NewCharRange(in.startChar, w.lastChar)
	if in.openSpan >= 0 {
		w.cur.spans[in.openSpan].Formatted = &formatted
	}
	if closeIdx >= 0 {
		w.cur.spans[closeIdx].Formatted = &formatted
	}
}

func (w *Writer) inlineElem(ev token.Event) (string, string) {
	switch ev.Tag {
	case token.TagStrong:
		return "<strong>", "</strong>"
	case token.TagStrikethrough:
		return "<del>", "</del>"
	case token.TagLink:
		var b strings.Builder
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(ev.Destination))
		b.WriteString(`"`)
		if ev.Title != "" {
			b.WriteString(` title="`)
			b.WriteString(html.EscapeString(ev.Title))
			b.WriteString(`"`)
		}
		if w.validate != nil && !w.validate(ev.Destination) {
			b.WriteString(` class="mw-broken"`)
		}
		b.WriteString(`>`)
		return b.String(), "</a>"
	default:
		return "<em>", "</em>"
	}
}

// ---- element selection ----

func blockElem(ev token.Event) (name, attrs string) {
	switch ev.Tag {
	case token.TagHeading:
		lvl := ev.Level
		if lvl < 1 {
			lvl = 1
		}
		if lvl > 6 {
			lvl = 6
		}
		return "h" + strconv.Itoa(lvl), ""
	case token.TagBlockQuote:
		return "blockquote", ""
	case token.TagList:
		if ev.Ordered {
			if ev.ListStart > 1 {
				return "ol", ` start="` + strconv.Itoa(ev.ListStart) + `"`
			}
			return "ol", ""
		}
		return "ul", ""
	case token.TagItem:
		return "li", ""
	case token.TagCodeBlock:
		if lang := fenceLang(ev.Fence); lang != "" {
			return "pre", ` data-lang="` + html.EscapeString(lang) + `"`
		}
		return "pre", ""
	case token.TagFootnoteDefinition:
		return "div", ` class="mw-footnote" data-label="` + html.EscapeString(ev.Label) + `"`
	default:
		return "p", ""
	}
}

// fenceLang returns the language portion of a fence info string.
func fenceLang(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
