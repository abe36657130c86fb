package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/markweave/internal/composition"
	"github.com/dshills/markweave/internal/highlight"
	"github.com/dshills/markweave/internal/plugin"
	"github.com/dshills/markweave/internal/token"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTokenizer replaces the markdown tokenizer.
func WithTokenizer(t token.Tokenizer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tok = t
		}
	}
}

// WithHighlighter sets the code highlighter used for fenced blocks.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(e *Engine) {
		if h != nil {
			e.hl = h
		}
	}
}

// WithMathRenderer sets the formula renderer.
func WithMathRenderer(m highlight.MathRenderer) Option {
	return func(e *Engine) {
		if m != nil {
			e.math = m
		}
	}
}

// WithFilters attaches a render-filter host. The engine takes
// ownership and closes it on Close.
func WithFilters(h *plugin.Host) Option {
	return func(e *Engine) { e.filters = h }
}

// WithComposition sets the IME timing windows.
func WithComposition(cfg composition.Config) Option {
	return func(e *Engine) { e.comp = composition.NewMachine(cfg) }
}

// WithInstanceID overrides the generated element-id prefix. Useful for
// tests that assert on ids.
func WithInstanceID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// WithImageResolver rewrites image destinations before they reach the
// rendered markup.
func WithImageResolver(fn func(dest string) string) Option {
	return func(e *Engine) { e.resolveImage = fn }
}

// WithLinkChecker marks link destinations as valid or broken.
func WithLinkChecker(fn func(dest string) bool) Option {
	return func(e *Engine) { e.checkLink = fn }
}
