package token

import "github.com/dshills/markweave/internal/render"

// emitTextWithMath emits the source bytes [start, stop) as text,
// splitting out $...$ and $$...$$ constructs. Math never spans text
// segments, so a single segment is scanned at a time.
func (w *walker) emitTextWithMath(start, stop int) {
	raw := w.source[start:stop]
	emitted := 0
	i := 0
	for i < len(raw) {
		j := indexUnescapedDollar(raw, i)
		if j < 0 {
			break
		}
		if j+1 < len(raw) && raw[j+1] == '$' {
			// Display math: $$...$$
			k := indexDoubleDollar(raw, j+2)
			if k > j+2 {
				w.flushText(start, emitted, j)
				w.emit(Event{
					Kind:    KindDisplayMath,
					Range:   render.ByteRange{Start: start + j, End: start + k + 2},
					Literal: string(raw[j+2 : k]),
				})
				emitted = k + 2
				i = k + 2
				continue
			}
			i = j + 2
			continue
		}
		// Inline math: $...$, content must not begin or end with a space.
		k := indexUnescapedDollar(raw, j+1)
		if k > j+1 && raw[j+1] != ' ' && raw[k-1] != ' ' {
			w.flushText(start, emitted, j)
			w.emit(Event{
				Kind:    KindInlineMath,
				Range:   render.ByteRange{Start: start + j, End: start + k + 1},
				Literal: string(raw[j+1 : k]),
			})
			emitted = k + 1
			i = k + 1
			continue
		}
		i = j + 1
	}
	w.flushText(start, emitted, len(raw))
}

// flushText emits the pending plain-text run raw[from:to].
func (w *walker) flushText(base, from, to int) {
	if to <= from {
		return
	}
	w.emit(Event{Kind: KindText, Range: render.ByteRange{Start: base + from, End: base + to}})
}

func indexUnescapedDollar(raw []byte, from int) int {
	for i := from; i < len(raw); i++ {
		if raw[i] == '$' && (i == 0 || raw[i-1] != '\\') {
			return i
		}
	}
	return -1
}

func indexDoubleDollar(raw []byte, from int) int {
	for i := from; i+1 < len(raw); i++ {
		if raw[i] == '$' && raw[i+1] == '$' && raw[i-1] != '\\' {
			return i
		}
	}
	return -1
}
