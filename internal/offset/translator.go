package offset

import (
	"sort"

	"github.com/dshills/markweave/internal/render"
)

// Translator indexes one render pass's mappings for bidirectional
// lookup between char offsets and display positions.
type Translator struct {
	paras []render.Paragraph

	// ordered holds every mapping in ascending char order.
	ordered []render.OffsetMapping

	// byNode holds each node's mappings in ascending node offset order.
	byNode map[render.NodeID][]render.OffsetMapping
}

// NewTranslator builds a translator over the paragraphs of one pass.
func NewTranslator(paras []render.Paragraph) *Translator {
	t := &Translator{
		paras:  paras,
		byNode: make(map[render.NodeID][]render.OffsetMapping),
	}
	for _, p := range paras {
		for _, m := range p.Mappings {
			t.ordered = append(t.ordered, m)
			t.byNode[m.Node] = append(t.byNode[m.Node], m)
		}
	}
	for _, maps := range t.byNode {
		sort.SliceStable(maps, func(i, j int) bool {
			return maps[i].NodeOffset < maps[j].NodeOffset
		})
	}
	return t
}

// FromSource maps a buffer char offset to a display position. The end
// of the document maps to the end of the last mapping. Offsets outside
// every mapping report ok=false.
func (t *Translator) FromSource(off render.CharOffset) (render.Position, bool) {
	n := len(t.ordered)
	if n == 0 || off < 0 {
		return render.Position{}, false
	}
	i := sort.Search(n, func(i int) bool {
		return t.ordered[i].CharRange.End > off
	})
	if i == n {
		last := t.ordered[n-1]
		if off == last.CharRange.End {
			return render.Position{Node: last.Node, UTF16: last.NodeOffset + last.UTF16Len}, true
		}
		return render.Position{}, false
	}
	m := t.ordered[i]
	if off < m.CharRange.Start {
		return render.Position{}, false
	}
	return render.Position{Node: m.Node, UTF16: interpolate(m, off)}, true
}

// ToSource maps a display position back to a buffer char offset. At a
// boundary shared by two runs the run starting there wins, keeping
// ToSource the inverse of FromSource even where the node's char ranges
// are discontiguous because hidden syntax maps through its own node.
// A run's end is accepted only when no later run resumes at that
// offset. Unknown nodes and offsets beyond the node's content report
// ok=false.
func (t *Translator) ToSource(pos render.Position) (render.CharOffset, bool) {
	maps, ok := t.byNode[pos.Node]
	if !ok || pos.UTF16 < 0 {
		return 0, false
	}
	for i, m := range maps {
		if pos.UTF16 < m.NodeOffset {
			break
		}
		if pos.UTF16 < m.NodeOffset+m.UTF16Len {
			if m.CharRange.Len() == 0 {
				return m.CharRange.Start, true
			}
			width := m.UTF16Len / m.CharRange.Len()
			return m.CharRange.Start + (pos.UTF16-m.NodeOffset)/width, true
		}
		if pos.UTF16 == m.NodeOffset+m.UTF16Len && !resumesAt(maps[i+1:], pos.UTF16) {
			return m.CharRange.End, true
		}
	}
	return 0, false
}

// resumesAt reports whether any of the runs (sorted by node offset)
// starts at off.
func resumesAt(maps []render.OffsetMapping, off int) bool {
	for _, m := range maps {
		if m.NodeOffset > off {
			return false
		}
		if m.NodeOffset == off {
			return true
		}
	}
	return false
}

// ParagraphAt returns the index of the paragraph containing the char
// offset. The document end belongs to the last paragraph.
func (t *Translator) ParagraphAt(off render.CharOffset) (int, bool) {
	n := len(t.paras)
	if n == 0 || off < 0 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool {
		return t.paras[i].CharRange.End > off
	})
	if i == n {
		if off == t.paras[n-1].CharRange.End {
			return n - 1, true
		}
		return 0, false
	}
	return i, true
}

// interpolate converts a char offset inside m to a UTF-16 offset. Runs
// are homogeneous, so each char is worth the same number of units.
func interpolate(m render.OffsetMapping, off render.CharOffset) int {
	if m.CharRange.Len() == 0 || m.UTF16Len == 0 {
		return m.NodeOffset
	}
	width := m.UTF16Len / m.CharRange.Len()
	return m.NodeOffset + (off-m.CharRange.Start)*width
}
