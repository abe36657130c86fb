package writer

import (
	"bytes"
	"fmt"
	"html"
	"unicode/utf8"

	"github.com/dshills/markweave/internal/render"
	"github.com/dshills/markweave/internal/token"
)

// advanceTo moves both consumption cursors forward to byte offset b.
func (w *Writer) advanceTo(b int) {
	if b > len(w.source) {
		b = len(w.source)
	}
	if b <= w.lastByte {
		return
	}
	w.lastChar += utf8.RuneCount(w.source[w.lastByte:b])
	w.lastByte = b
}

// gapTo writes the unconsumed source up to target as a hideable syntax
// span and returns its index in the current paragraph's span list, or
// -1 when there was no gap.
func (w *Writer) gapTo(target int, kind render.SpanKind) int {
	if target > len(w.source) {
		target = len(w.source)
	}
	if target <= w.lastByte {
		return -1
	}
	w.ensurePara()
	p := w.cur
	text := string(w.source[w.lastByte:target])
	sid := p.nextSpanID()
	bs, cs := w.lastByte, w.lastChar
	w.advanceTo(target)

	p.html.WriteString(`<span id="`)
	p.html.WriteString(string(sid))
	p.html.WriteString(`" class="mw-syntax">`)
	p.html.WriteString(html.EscapeString(text))
	p.html.WriteString(`</span>`)

	p.spans = append(p.spans, render.SyntaxSpan{
		ID:        sid,
		CharRange: render.NewCharRange(cs, w.lastChar),
		Kind:      kind,
	})
	p.maps, _ = appendRunMappings(p.maps, text, bs, cs, render.NodeID(sid), 0)
	return len(p.spans) - 1
}

// autoGapKind classifies a pending gap: syntax at a line start or
// spanning a newline is block-level (prefixes, separators), anything
// mid-line is inline.
func (w *Writer) autoGapKind(target int) render.SpanKind {
	if w.lastByte == 0 {
		return render.SpanBlock
	}
	if w.source[w.lastByte-1] == '\n' {
		return render.SpanBlock
	}
	if target > len(w.source) {
		target = len(w.source)
	}
	if target > w.lastByte && bytes.IndexByte(w.source[w.lastByte:target], '\n') >= 0 {
		return render.SpanBlock
	}
	return render.SpanInline
}

// ---- text ----

// emitSourceText writes source bytes as escaped, always-visible
// paragraph text.
func (w *Writer) emitSourceText(b render.ByteRange) {
	if b.Start < w.lastByte {
		b.Start = w.lastByte
	}
	if b.End > len(w.source) {
		b.End = len(w.source)
	}
	if b.End <= b.Start {
		return
	}
	w.cur.html.WriteString(html.EscapeString(string(w.source[b.Start:b.End])))
	w.mapParagraphText(b.Start, b.End)
}

// mapParagraphText records mappings for source text whose markup is
// already written, crediting it to the paragraph's own text content.
func (w *Writer) mapParagraphText(from, to int) {
	p := w.cur
	text := string(w.source[from:to])
	var used int
	p.maps, used = appendRunMappings(p.maps, text, from, w.lastChar, p.node, p.utf16)
	p.utf16 += used
	w.advanceTo(to)
}

// emitLiteral writes decoded text that has no source extent of its own
// (entity replacements). The mapping is a zero-char run carrying the
// displayed UTF-16 width; the entity's source bytes surface later as a
// syntax gap.
func (w *Writer) emitLiteral(lit string) {
	p := w.cur
	p.html.WriteString(html.EscapeString(lit))
	units := render.UTF16Len(lit)
	p.maps = append(p.maps, render.OffsetMapping{
		ByteRange:  render.ByteRange{Start: w.lastByte, End: w.lastByte},
		CharRange:  render.NewCharRange(w.lastChar, w.lastChar),
		Node:       p.node,
		NodeOffset: p.utf16,
		UTF16Len:   units,
		ChildIndex: -1,
	})
	p.utf16 += units
}

func (w *Writer) emitBreak(ev token.Event, hard bool) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, render.SpanInline)
	p := w.cur
	bs, cs := w.lastByte, w.lastChar
	w.advanceTo(ev.Range.End)
	if hard {
		p.html.WriteString(`<br class="mw-hard">`)
	} else {
		p.html.WriteString(`<br>`)
	}
	// The newline occupies no display text; with UTF16Len 0 the break
	// and the text after it share one display position, which resolves
	// to the start of the next line on the way back.
	p.maps = append(p.maps, render.OffsetMapping{
		ByteRange:  render.ByteRange{Start: bs, End: w.lastByte},
		CharRange:  render.NewCharRange(cs, w.lastChar),
		Node:       p.node,
		NodeOffset: p.utf16,
		UTF16Len:   0,
		ChildIndex: -1,
	})
}

// ---- marker spans ----

// emitMarkerSpan writes [w.lastByte, b.End) as a syntax span with its
// own mapping and no formatted range: an atomic construct whose
// visibility is governed by its own extent.
func (w *Writer) emitMarkerSpan(b render.ByteRange, kind render.SpanKind) (render.SpanID, bool) {
	end := b.End
	if end > len(w.source) {
		end = len(w.source)
	}
	if end <= w.lastByte {
		return "", false
	}
	p := w.cur
	text := string(w.source[w.lastByte:end])
	sid := p.nextSpanID()
	bs, cs := w.lastByte, w.lastChar
	w.advanceTo(end)

	p.html.WriteString(`<span id="`)
	p.html.WriteString(string(sid))
	p.html.WriteString(`" class="mw-syntax">`)
	p.html.WriteString(html.EscapeString(text))
	p.html.WriteString(`</span>`)

	p.spans = append(p.spans, render.SyntaxSpan{
		ID:        sid,
		CharRange: render.NewCharRange(cs, w.lastChar),
		Kind:      kind,
	})
	p.maps, _ = appendRunMappings(p.maps, text, bs, cs, render.NodeID(sid), 0)
	return sid, true
}

// ---- atomic constructs ----

func (w *Writer) emitCodeSpan(ev token.Event) {
	w.ensurePara()
	outer := ev.Outer
	if outer.IsZero() {
		outer = ev.Range
	}
	w.gapTo(outer.Start, w.autoGapKind(outer.Start))
	start := w.lastChar
	openIdx := w.gapTo(ev.Range.Start, render.SpanInline)
	w.cur.html.WriteString(`<code>`)
	w.emitSourceText(ev.Range)
	w.cur.html.WriteString(`</code>`)
	closeIdx := w.gapTo(outer.End, render.SpanInline)
	formatted := render.NewCharRange(start, w.lastChar)
	if openIdx >= 0 {
		w.cur.spans[openIdx].Formatted = &formatted
	}
	if closeIdx >= 0 {
		w.cur.spans[closeIdx].Formatted = &formatted
	}
}

func (w *Writer) emitMath(ev token.Event, display bool) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, w.autoGapKind(ev.Range.Start))
	markup, err := w.math.Render(ev.Literal, display)
	if err != nil {
		// No rendering available; keep the formula readable as text.
		w.emitSourceText(ev.Range)
		return
	}
	sid, ok := w.emitMarkerSpan(ev.Range, render.SpanInline)
	if !ok {
		return
	}
	class := "mw-math"
	if display {
		class = "mw-math mw-math-display"
	}
	fmt.Fprintf(&w.cur.html, `<span class="%s" data-for="%s">%s</span>`, class, sid, markup)
}

func (w *Writer) emitFootnoteRef(ev token.Event) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, w.autoGapKind(ev.Range.Start))
	sid, ok := w.emitMarkerSpan(ev.Range, render.SpanInline)
	if !ok {
		return
	}
	fmt.Fprintf(&w.cur.html, `<sup class="mw-fnref" data-for="%s">%s</sup>`,
		sid, html.EscapeString(ev.Literal))
}

func (w *Writer) emitTaskMarker(ev token.Event) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, render.SpanBlock)
	sid, ok := w.emitMarkerSpan(ev.Range, render.SpanBlock)
	if !ok {
		return
	}
	checked := ""
	if ev.Checked {
		checked = " checked"
	}
	fmt.Fprintf(&w.cur.html, `<input type="checkbox" data-for="%s"%s disabled>`, sid, checked)
}

// emitAttribute writes a heading attribute block as plain hideable
// syntax; it has no rendered companion element.
func (w *Writer) emitAttribute(ev token.Event) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, w.autoGapKind(ev.Range.Start))
	w.emitMarkerSpan(ev.Range, render.SpanInline)
}

func (w *Writer) emitRule(ev token.Event) {
	top := w.cur == nil && w.blockDepth == 0
	if top {
		w.beginParagraph("div", ` class="mw-rule"`)
	}
	w.ensurePara()
	w.gapTo(ev.Range.Start, render.SpanBlock)
	if sid, ok := w.emitMarkerSpan(ev.Range, render.SpanBlock); ok {
		fmt.Fprintf(&w.cur.html, `<hr data-for="%s">`, sid)
	}
	if top {
		w.endParagraph()
	}
}

func (w *Writer) emitRawBlock(ev token.Event) {
	top := w.cur == nil && w.blockDepth == 0
	if top {
		w.beginParagraph("pre", ` class="mw-raw"`)
	}
	w.ensurePara()
	w.gapTo(ev.Range.Start, render.SpanBlock)
	w.emitSourceText(ev.Range)
	if top {
		w.endParagraph()
	}
}

func (w *Writer) emitInlineHTML(ev token.Event) {
	w.ensurePara()
	w.gapTo(ev.Range.Start, w.autoGapKind(ev.Range.Start))
	w.cur.html.WriteString(`<span class="mw-raw-inline">`)
	w.emitSourceText(ev.Range)
	w.cur.html.WriteString(`</span>`)
}

// ---- fenced code buffering ----

type codeBlock struct {
	lang      string
	openIdx   int
	startChar render.CharOffset
	segments  []render.ByteRange
}

// startCodeBlock emits the opening fence gap and switches text events
// into buffering so the whole block can be highlighted in one call.
func (w *Writer) startCodeBlock(ev token.Event) {
	startChar := w.lastChar
	idx := w.gapTo(ev.Range.Start, render.SpanBlock)
	w.codeBuf = &codeBlock{
		lang:      fenceLang(ev.Fence),
		openIdx:   idx,
		startChar: startChar,
	}
}

// flushCodeBlock highlights the buffered code, emits the closing fence
// gap, and back-fills the block's formatted range onto both fence
// spans. Contiguous segments highlight as one unit; indentation gaps
// between segments become block syntax spans.
func (w *Writer) flushCodeBlock(ev token.Event) {
	cb := w.codeBuf
	w.codeBuf = nil
	p := w.cur
	p.html.WriteString(`<code>`)
	for i := 0; i < len(cb.segments); {
		seg := cb.segments[i]
		if seg.End <= w.lastByte {
			i++
			continue
		}
		if seg.Start < w.lastByte {
			seg.Start = w.lastByte
		}
		w.gapTo(seg.Start, render.SpanBlock)
		end := seg.End
		j := i + 1
		for j < len(cb.segments) && cb.segments[j].Start == end {
			end = cb.segments[j].End
			j++
		}
		if end > len(w.source) {
			end = len(w.source)
		}
		code := string(w.source[seg.Start:end])
		markup, err := w.hl.Highlight(cb.lang, code)
		if err != nil {
			markup = html.EscapeString(code)
		}
		p.html.WriteString(markup)
		w.mapParagraphText(seg.Start, end)
		i = j
	}
	p.html.WriteString(`</code>`)
	closeIdx := w.gapTo(ev.Range.End, render.SpanBlock)
	formatted := render.NewCharRange(cb.startChar, w.lastChar)
	if cb.openIdx >= 0 {
		p.spans[cb.openIdx].Formatted = &formatted
	}
	if closeIdx >= 0 {
		p.spans[closeIdx].Formatted = &formatted
	}
}

// ---- image capture ----

type imageCapture struct {
	dest  string
	title string
	alt   bytes.Buffer
}

// startImageCapture begins swallowing events; the whole image construct
// renders atomically when its end event arrives.
func (w *Writer) startImageCapture(ev token.Event) {
	w.ensurePara()
	w.imageBuf = &imageCapture{dest: ev.Destination, title: ev.Title}
	w.imageDepth = 0
}

func (w *Writer) handleCaptured(ev token.Event) {
	switch {
	case ev.Kind == token.KindStart && ev.Tag == token.TagImage:
		w.imageDepth++
	case ev.Kind == token.KindEnd && ev.Tag == token.TagImage:
		if w.imageDepth > 0 {
			w.imageDepth--
			return
		}
		w.endImageCapture(ev)
	case ev.Kind == token.KindText:
		if !ev.Range.IsEmpty() {
			end := ev.Range.End
			if end > len(w.source) {
				end = len(w.source)
			}
			if ev.Range.Start < end {
				w.imageBuf.alt.Write(w.source[ev.Range.Start:end])
			}
			return
		}
		w.imageBuf.alt.WriteString(ev.Literal)
	}
}

// endImageCapture emits the whole construct as one syntax span plus an
// img element sharing its id, so show/hide toggles them together.
func (w *Writer) endImageCapture(ev token.Event) {
	img := w.imageBuf
	w.imageBuf = nil
	sid, ok := w.emitMarkerSpan(ev.Range, render.SpanInline)
	if !ok {
		return
	}
	src := img.dest
	if w.resolve != nil {
		src = w.resolve(src)
	}
	p := w.cur
	fmt.Fprintf(&p.html, `<img src="%s" alt="%s"`,
		html.EscapeString(src), html.EscapeString(img.alt.String()))
	if img.title != "" {
		fmt.Fprintf(&p.html, ` title="%s"`, html.EscapeString(img.title))
	}
	fmt.Fprintf(&p.html, ` data-for="%s">`, sid)
}

// ---- end of input ----

// finishTrailing accounts for any source the event stream left behind
// and appends the synthetic empty paragraph when the source ends on a
// blank-line paragraph break.
func (w *Writer) finishTrailing() {
	w.imageBuf = nil
	w.codeBuf = nil
	if w.lastByte < len(w.source) {
		w.ensurePara()
		p := w.cur
		text := string(w.source[w.lastByte:])
		sid := p.nextSpanID()
		bs, cs := w.lastByte, w.lastChar
		w.advanceTo(len(w.source))
		p.html.WriteString(`<span id="`)
		p.html.WriteString(string(sid))
		p.html.WriteString(`" class="mw-trailing">`)
		p.html.WriteString(html.EscapeString(text))
		p.html.WriteString(`</span>`)
		p.maps, _ = appendRunMappings(p.maps, text, bs, cs, render.NodeID(sid), 0)
	}
	w.endParagraph()

	n := len(w.source)
	endsOnBreak := n >= 2 && w.source[n-1] == '\n' && w.source[n-2] == '\n' ||
		n == 1 && w.source[0] == '\n'
	if !endsOnBreak {
		return
	}
	node := render.NodeID(fmt.Sprintf("%s-p%d", w.instance, len(w.paras)))
	markup := fmt.Sprintf(`<p id="%s"><br></p>`, node)
	w.paras = append(w.paras, render.Paragraph{
		Index:     len(w.paras),
		Node:      node,
		ByteRange: render.ByteRange{Start: n, End: n},
		CharRange: render.NewCharRange(w.lastChar, w.lastChar),
		HTML:      markup,
		Mappings: []render.OffsetMapping{{
			ByteRange:  render.ByteRange{Start: n, End: n},
			CharRange:  render.NewCharRange(w.lastChar, w.lastChar),
			Node:       node,
			ChildIndex: -1,
		}},
		ContentHash: render.HashContent(markup),
		Synthetic:   true,
	})
}

// ---- mapping construction ----

// appendRunMappings splits text at UTF-16 width changes and appends one
// mapping per homogeneous run, so positions inside any run interpolate
// linearly. Returns the extended slice and the total UTF-16 units.
func appendRunMappings(maps []render.OffsetMapping, text string, byteStart int, charStart render.CharOffset, node render.NodeID, nodeOff int) ([]render.OffsetMapping, int) {
	total := 0
	runByte, runChar, runOff := byteStart, charStart, nodeOff
	width, count, size := 0, 0, 0
	flush := func() {
		if count == 0 {
			return
		}
		units := width * count
		maps = append(maps, render.OffsetMapping{
			ByteRange:  render.ByteRange{Start: runByte, End: runByte + size},
			CharRange:  render.NewCharRange(runChar, runChar+count),
			Node:       node,
			NodeOffset: runOff,
			UTF16Len:   units,
			ChildIndex: -1,
		})
		runByte += size
		runChar += count
		runOff += units
		total += units
		count, size = 0, 0
	}
	for i := 0; i < len(text); {
		r, n := utf8.DecodeRuneInString(text[i:])
		rw := render.RuneUTF16Width(r)
		if rw != width {
			flush()
			width = rw
		}
		count++
		size += n
		i += n
	}
	flush()
	return maps, total
}
