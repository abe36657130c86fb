// Package render defines the data model shared by the rendering pipeline:
// byte and char ranges over the markdown source, per-paragraph render
// output, offset mappings into the display surface, and syntax spans.
//
// Three coordinate systems are in play and must never be conflated:
//
//   - byte offsets: UTF-8 positions in the raw source
//   - char offsets: Unicode scalar positions, used by the text buffer
//   - UTF-16 offsets: code-unit positions, used by the display surface
//
// CharRange and ByteRange carry the first two; OffsetMapping ties a char
// range to a (node, UTF-16) position in the display tree.
package render
