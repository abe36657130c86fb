// Package textbuf defines the narrow capability interface the editing
// core uses to talk to a text buffer, plus a string-backed reference
// implementation with undo/redo.
//
// The core never assumes a concrete storage type: hosts with their own
// storage (ropes, CRDTs) implement Buffer and keep full ownership of
// versioning and merge semantics. The reference implementation exists
// for tests, the demo binary, and embedders without a storage layer.
//
// All offsets are char offsets: positions measured in Unicode scalars,
// never bytes. Mutations are best-effort: an invalid range is a no-op,
// not an error, so callers clamp defensively.
package textbuf
