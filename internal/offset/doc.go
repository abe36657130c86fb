// Package offset translates between buffer char offsets and display
// surface positions (node id plus UTF-16 offset), using the offset
// mappings produced by a render pass.
//
// A Translator is a read-only index over one pass's paragraphs; it is
// rebuilt whenever the paragraphs are. Lookups in both directions are
// logarithmic and never guess: positions the mappings cannot account
// for report ok=false, and the caller decides how to degrade.
package offset
