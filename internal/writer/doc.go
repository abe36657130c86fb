// Package writer turns a tokenizer event stream plus the raw markdown
// source into per-paragraph HTML, offset mappings, and syntax spans.
//
// The writer advances two monotonic cursors, one in bytes and one in
// chars, exactly as far as source has been accounted for. Source bytes
// the event stream skips over are markdown syntax: each such gap is
// written as a hideable span element with its own id, recorded both as
// a syntax span (for the visibility layer) and as an offset mapping
// (so the caret can sit inside revealed syntax).
//
// Display contract: every element carrying an id owns its text content
// for offset purposes. A paragraph's own UTF-16 text excludes the text
// inside id-carrying children (syntax spans, atomic constructs), which
// map through their own ids instead.
//
// One Writer renders one pass and is then discarded; id generation is
// writer-local state, never process-global.
package writer
