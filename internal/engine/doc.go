// Package engine is the editing core's facade. It owns one text buffer
// and wires the render pipeline around it: tokenize, write paragraph
// markup, run render filters, diff against the previous frame, and
// resolve caret position and syntax-span visibility.
//
// The engine is single-threaded. Hosts call Apply for edits and
// RenderPass after each batch of edits; the returned PassResult is
// everything the display layer needs to update its tree.
package engine
