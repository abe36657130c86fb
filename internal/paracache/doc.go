// Package paracache diffs successive render passes at paragraph
// granularity. Paragraphs are compared index-by-index using their
// content hashes, yielding the minimal set of display mutations:
// replace a changed paragraph in place, append new trailing
// paragraphs, remove vanished ones. Typing inside one paragraph
// touches exactly that paragraph's display node.
package paracache
