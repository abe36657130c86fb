// Package action defines the editor's structured edit intents and the
// executor that interprets them against the abstract text buffer.
//
// All markdown-aware editing behavior lives here: list continuation
// and exit on break insertion, paragraph merging that absorbs the
// invisible scaffolding around a deleted newline, whitespace-bounded
// word operations, and marker-pair toggles. The executor never parses
// markdown beyond line-local inspection; rendering concerns stay in
// the writer.
//
// Clipboard intents are part of the action vocabulary but are not
// executed here; the host owns clipboard access and receives
// ErrUnhandled for them.
package action
