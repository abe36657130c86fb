package paracache

import "github.com/dshills/markweave/internal/render"

// OpKind discriminates display mutations.
type OpKind uint8

const (
	// OpReplace swaps the markup of an existing paragraph node.
	OpReplace OpKind = iota

	// OpAppend adds a new paragraph node at the end of the document.
	OpAppend

	// OpRemove deletes a trailing paragraph node.
	OpRemove
)

// String returns the string representation of the op kind.
func (k OpKind) String() string {
	switch k {
	case OpReplace:
		return "replace"
	case OpAppend:
		return "append"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Op is one display mutation. Para is nil for removals.
type Op struct {
	Kind  OpKind
	Index int
	Para  *render.Paragraph
}

// Diff is the mutation set between two passes.
type Diff struct {
	Ops []Op

	// CaretReplaced reports whether the paragraph holding the caret was
	// replaced or removed, meaning the host must restore the caret after
	// applying the ops.
	CaretReplaced bool
}

// Cache remembers the content hashes of the last applied pass.
type Cache struct {
	hashes []uint64
}

// NewCache creates an empty cache; the first Diff appends everything.
func NewCache() *Cache {
	return &Cache{}
}

// Len returns the number of paragraphs in the last applied pass.
func (c *Cache) Len() int { return len(c.hashes) }

// Reset forgets the last pass, forcing the next Diff to rebuild.
func (c *Cache) Reset() { c.hashes = nil }

// Diff compares the new pass against the cached one and advances the
// cache. caretPara is the index of the paragraph holding the caret, or
// -1 when the caret is not placed.
//
// Removals are emitted highest index first so hosts can apply ops in
// order without index shifting.
func (c *Cache) Diff(paras []render.Paragraph, caretPara int) Diff {
	var d Diff
	common := len(c.hashes)
	if len(paras) < common {
		common = len(paras)
	}
	for i := 0; i < common; i++ {
		if c.hashes[i] == paras[i].ContentHash {
			continue
		}
		p := paras[i]
		d.Ops = append(d.Ops, Op{Kind: OpReplace, Index: i, Para: &p})
		if i == caretPara {
			d.CaretReplaced = true
		}
	}
	for i := common; i < len(paras); i++ {
		p := paras[i]
		d.Ops = append(d.Ops, Op{Kind: OpAppend, Index: i, Para: &p})
	}
	for i := len(c.hashes) - 1; i >= len(paras); i-- {
		d.Ops = append(d.Ops, Op{Kind: OpRemove, Index: i})
		if i == caretPara {
			d.CaretReplaced = true
		}
	}

	if cap(c.hashes) < len(paras) {
		c.hashes = make([]uint64, len(paras))
	} else {
		c.hashes = c.hashes[:len(paras)]
	}
	for i, p := range paras {
		c.hashes[i] = p.ContentHash
	}
	return d
}
