package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/markweave/internal/action"
	"github.com/dshills/markweave/internal/composition"
	"github.com/dshills/markweave/internal/config"
	"github.com/dshills/markweave/internal/highlight"
	"github.com/dshills/markweave/internal/logger"
	"github.com/dshills/markweave/internal/offset"
	"github.com/dshills/markweave/internal/paracache"
	"github.com/dshills/markweave/internal/plugin"
	"github.com/dshills/markweave/internal/render"
	"github.com/dshills/markweave/internal/textbuf"
	"github.com/dshills/markweave/internal/token"
	"github.com/dshills/markweave/internal/visibility"
	"github.com/dshills/markweave/internal/writer"
)

// Engine binds one buffer to the render pipeline and the input state
// machines. Not safe for concurrent use.
type Engine struct {
	id      string
	buf     textbuf.Buffer
	exec    *action.Executor
	comp    *composition.Machine
	cache   *paracache.Cache
	tok     token.Tokenizer
	hl      highlight.Highlighter
	math    highlight.MathRenderer
	filters *plugin.Host
	log     *zap.SugaredLogger

	resolveImage func(string) string
	checkLink    func(string) bool

	// fallback is the deletion a predictive input method claimed it
	// would perform, applied only if the claim never materializes.
	fallback action.Action

	paras []render.Paragraph
	trans *offset.Translator
}

// New creates an engine over buf. Element ids get a fresh random
// prefix so two engines on one page never collide.
func New(buf textbuf.Buffer, opts ...Option) *Engine {
	e := &Engine{
		id:    "mw-" + uuid.NewString()[:8],
		buf:   buf,
		exec:  action.NewExecutor(buf),
		comp:  composition.NewMachine(composition.Config{}),
		cache: paracache.NewCache(),
		tok:   token.NewGoldmarkTokenizer(),
		hl:    highlight.Plain{},
		math:  highlight.NoMath{},
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig assembles an engine from file configuration: the
// highlighter choice, the filter directory, and the IME windows.
func NewFromConfig(buf textbuf.Buffer, cfg config.Config, log *zap.SugaredLogger) (*Engine, error) {
	opts := []Option{
		WithLogger(log),
		WithComposition(composition.Config{
			ConfirmSuppress:    cfg.Composition.ConfirmSuppress(),
			PredictiveFallback: cfg.Composition.PredictiveFallback(),
		}),
	}
	if cfg.Render.HighlightCode {
		opts = append(opts, WithHighlighter(highlight.NewTreeSitter()))
	}
	if cfg.Render.FilterDir != "" {
		host := plugin.NewHost()
		if err := host.LoadDir(cfg.Render.FilterDir); err != nil {
			host.Close()
			return nil, err
		}
		opts = append(opts, WithFilters(host))
	}
	return New(buf, opts...), nil
}

// ID returns the element-id prefix for this engine instance.
func (e *Engine) ID() string { return e.id }

// Buffer exposes the underlying text buffer.
func (e *Engine) Buffer() textbuf.Buffer { return e.buf }

// Paragraphs returns the paragraphs from the last render pass.
func (e *Engine) Paragraphs() []render.Paragraph { return e.paras }

// Translator returns the offset translator from the last render pass,
// or nil before the first pass.
func (e *Engine) Translator() *offset.Translator { return e.trans }

// Close releases the filter host, if any.
func (e *Engine) Close() {
	if e.filters != nil {
		e.filters.Close()
	}
}

// PassResult is one frame of display state.
type PassResult struct {
	// Paragraphs is the full current frame, in document order.
	Paragraphs []render.Paragraph

	// Ops is the minimal patch from the previous frame.
	Ops []paracache.Op

	// CaretRebuilt reports that the paragraph under the caret was
	// replaced or removed, so the host must restore the caret from
	// Caret after patching.
	CaretRebuilt bool

	// Caret is the display position of the buffer caret. CaretKnown is
	// false when the caret maps to no rendered content (empty document);
	// hosts fall back to the end of the last paragraph.
	Caret      render.Position
	CaretKnown bool

	// Visible lists the syntax spans to show; every id-bearing span
	// absent from the set is hidden.
	Visible map[render.SpanID]bool
}

// RenderPass renders the buffer and diffs it against the previous
// frame.
func (e *Engine) RenderPass() PassResult {
	n := e.buf.LenChars()
	caret := e.buf.Cursor()
	if caret > n {
		e.buf.SetCursor(n)
		caret = n
	}

	source := []byte(e.buf.Slice(0, n))
	events := e.tok.Tokenize(source)

	wopts := []writer.Option{
		writer.WithInstanceID(e.id),
		writer.WithHighlighter(e.hl),
		writer.WithMathRenderer(e.math),
	}
	if e.resolveImage != nil {
		wopts = append(wopts, writer.WithImageResolver(e.resolveImage))
	}
	if e.checkLink != nil {
		wopts = append(wopts, writer.WithLinkChecker(e.checkLink))
	}
	paras := writer.New(source, wopts...).Render(events)

	if e.filters != nil && e.filters.FilterCount() > 0 {
		for i := range paras {
			out, err := e.filters.Apply(string(paras[i].Node), paras[i].HTML)
			if err != nil {
				e.log.Debugw("render filter failed", "node", paras[i].Node, "error", err)
			}
			if out != paras[i].HTML {
				paras[i].HTML = out
				paras[i].ContentHash = render.HashContent(out)
			}
		}
	}

	e.paras = paras
	e.trans = offset.NewTranslator(paras)

	caretPara := -1
	if idx, ok := e.trans.ParagraphAt(caret); ok {
		caretPara = idx
	}
	diff := e.cache.Diff(paras, caretPara)

	var selPtr *textbuf.Selection
	if sel, ok := e.buf.Selection(); ok && !sel.IsEmpty() {
		s := sel
		selPtr = &s
	}
	vis := visibility.Visible(caret, selPtr, paras)

	pos, known := e.trans.FromSource(caret)
	e.log.Debugw("render pass",
		"chars", n,
		"paragraphs", len(paras),
		"ops", len(diff.Ops),
		"caret", caret,
	)
	return PassResult{
		Paragraphs:   paras,
		Ops:          diff.Ops,
		CaretRebuilt: diff.CaretReplaced,
		Caret:        pos,
		CaretKnown:   known,
		Visible:      vis,
	}
}

// Apply runs one editing action against the buffer. Mutations are
// rejected with ErrComposing while an IME preview is active.
func (e *Engine) Apply(a action.Action) error {
	if e.comp.ShouldBlock(a) {
		e.log.Debugw("action blocked by composition", "kind", a.Kind)
		return ErrComposing
	}
	return e.exec.Apply(a)
}

// ---- composition ----

// IsComposing reports whether an IME preview is active.
func (e *Engine) IsComposing() bool { return e.comp.IsComposing() }

// StartComposition enters composition at the caret. An active
// selection is deleted first; the commit replaces it.
func (e *Engine) StartComposition() {
	if sel, ok := e.buf.Selection(); ok && !sel.IsEmpty() {
		e.buf.Delete(sel.Start(), sel.End())
	}
	e.buf.ClearSelection()
	e.comp.Start(e.buf.Cursor())
}

// UpdateComposition replaces the preview text. The buffer is not
// touched; the preview lives in the host's display layer.
func (e *Engine) UpdateComposition(preview string) {
	e.comp.Update(preview)
}

// EndComposition commits the active composition, inserting its text
// exactly once. Returns false when nothing was committed.
func (e *Engine) EndComposition(now time.Time) bool {
	c, ok := e.comp.End(now)
	if !ok {
		return false
	}
	e.buf.Insert(c.Offset, c.Text)
	e.log.Debugw("composition committed", "text", c.Text, "offset", c.Offset)
	return true
}

// CancelComposition discards the active composition.
func (e *Engine) CancelComposition() { e.comp.Cancel() }

// ConfirmText handles a platform text-confirmation signal. A signal
// duplicating the commit just made is dropped; anything else is
// inserted at the caret. Returns whether the text was applied.
func (e *Engine) ConfirmText(text string, now time.Time) bool {
	if e.comp.SuppressConfirm(text, now) {
		e.log.Debugw("duplicate confirmation suppressed", "text", text)
		return false
	}
	return e.Apply(action.Action{Kind: action.Insert, Text: text}) == nil
}

// ExpectPredictiveChange records that a predictive input method
// claimed it will apply the given action itself.
func (e *Engine) ExpectPredictiveChange(a action.Action, now time.Time) {
	e.fallback = a
	e.comp.ExpectChange(e.buf.Revision(), now)
}

// PredictiveFallback applies the recorded action if the claimed change
// never reached the buffer within the fallback window. Returns whether
// the fallback ran.
func (e *Engine) PredictiveFallback(now time.Time) bool {
	if !e.comp.FallbackNeeded(e.buf.Revision(), now) {
		return false
	}
	e.log.Debugw("predictive change missing, applying fallback", "kind", e.fallback.Kind)
	return e.exec.Apply(e.fallback) == nil
}
