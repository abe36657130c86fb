package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds one filter invocation.
const DefaultCallTimeout = 100 * time.Millisecond

type filter struct {
	name string
	fn   *lua.LFunction
}

// Host owns one Lua state and the filters registered in it. The engine
// is single-threaded, so Host is not safe for concurrent use.
type Host struct {
	state   *lua.LState
	filters []filter
	timeout time.Duration
	closed  bool
}

// Option configures a Host during creation.
type Option func(*Host)

// WithCallTimeout bounds each filter call.
func WithCallTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHost creates a sandboxed filter host.
func NewHost(opts ...Option) *Host {
	h := &Host{
		state:   lua.NewState(),
		timeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.sandbox()
	h.installAPI()
	return h
}

// sandbox removes script-controlled code loading. Scripts are loaded
// only by the Go side.
func (h *Host) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		h.state.SetGlobal(name, lua.LNil)
	}
	if pkg, ok := h.state.GetGlobal("package").(*lua.LTable); ok {
		h.state.SetField(pkg, "path", lua.LString(""))
		h.state.SetField(pkg, "cpath", lua.LString(""))
	}
}

// installAPI exposes the markweave table with register_filter.
func (h *Host) installAPI() {
	mod := h.state.NewTable()
	h.state.SetField(mod, "register_filter", h.state.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		h.filters = append(h.filters, filter{name: name, fn: fn})
		return 0
	}))
	h.state.SetGlobal("markweave", mod)
}

// LoadScript runs one script source; its register_filter calls take
// effect immediately.
func (h *Host) LoadScript(name, src string) error {
	if h.closed {
		return ErrClosed
	}
	if err := h.state.DoString(src); err != nil {
		return fmt.Errorf("loading filter script %s: %w", name, err)
	}
	return nil
}

// LoadDir loads every .lua file in dir, in name order so filter
// ordering is deterministic. A missing directory loads nothing.
func (h *Host) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading filter directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading filter %s: %w", name, err)
		}
		if err := h.LoadScript(name, string(src)); err != nil {
			return err
		}
	}
	return nil
}

// FilterCount returns the number of registered filters.
func (h *Host) FilterCount() int { return len(h.filters) }

// Apply runs every filter over the paragraph's markup in registration
// order. A filter returning a string replaces the markup; nil leaves
// it unchanged. A failing or overrunning filter is skipped and its
// error returned alongside the best markup produced so far.
func (h *Host) Apply(node, html string) (string, error) {
	if h.closed {
		return html, ErrClosed
	}
	var firstErr error
	for _, f := range h.filters {
		out, err := h.callFilter(f, node, html)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("filter %s: %w", f.name, err)
			}
			continue
		}
		html = out
	}
	return html, firstErr
}

func (h *Host) callFilter(f filter, node, html string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.state.SetContext(ctx)
	defer h.state.SetContext(context.Background())

	err := h.state.CallByParam(lua.P{Fn: f.fn, NRet: 1, Protect: true},
		lua.LString(node), lua.LString(html))
	if err != nil {
		return html, err
	}
	ret := h.state.Get(-1)
	h.state.Pop(1)
	if s, ok := ret.(lua.LString); ok {
		return string(s), nil
	}
	return html, nil
}

// Close releases the interpreter.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.state.Close()
}
