// Package token defines the typed event stream the rendering pipeline
// consumes, plus a goldmark-backed tokenizer that produces it.
//
// Events carry non-overlapping byte ranges with monotonically
// non-decreasing starts. The ranges cover only the source bytes an event
// consumes; markdown syntax characters (fence markers, heading hashes,
// emphasis delimiters, list bullets, blockquote prefixes) are left
// uncovered. Consumers detect those uncovered gaps and render them as
// hideable syntax.
//
// Positional conventions:
//
//   - Start events carry a zero-length range at the construct's content
//     start, after any opening syntax.
//   - End events carry a zero-length range at the construct's outer end,
//     after any closing syntax.
//   - All other events cover exactly the bytes they consume.
//
// Heading attribute blocks ({#id .class}) are emitted as KindAttribute
// events and render as hideable syntax.
package token
