// Package plugin hosts Lua render filters: small scripts that may
// rewrite a paragraph's HTML after the writer produces it (badge
// injection, link decoration, custom shortcodes).
//
// Scripts run in a sandboxed interpreter with file and module loading
// removed, and each filter call is bounded by a deadline since filters
// run inside the render pass. Filters see markup only; they can never
// touch the text buffer, so a misbehaving filter can corrupt one
// paragraph's display at worst.
package plugin
