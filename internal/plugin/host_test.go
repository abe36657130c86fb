package plugin

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilterRewritesMarkup(t *testing.T) {
	h := NewHost()
	defer h.Close()
	script := `
markweave.register_filter("upper", function(node, html)
  return string.upper(html)
end)
`
	if err := h.LoadScript("upper.lua", script); err != nil {
		t.Fatal(err)
	}
	out, err := h.Apply("p0", "<p>hi</p>")
	if err != nil {
		t.Fatal(err)
	}
	if out != "<P>HI</P>" {
		t.Errorf("got %q", out)
	}
}

func TestFilterReturningNilLeavesMarkup(t *testing.T) {
	h := NewHost()
	defer h.Close()
	script := `
markweave.register_filter("noop", function(node, html)
  return nil
end)
`
	if err := h.LoadScript("noop.lua", script); err != nil {
		t.Fatal(err)
	}
	out, err := h.Apply("p0", "<p>hi</p>")
	if err != nil || out != "<p>hi</p>" {
		t.Errorf("got %q, %v", out, err)
	}
}

func TestFiltersRunInOrder(t *testing.T) {
	h := NewHost()
	defer h.Close()
	script := `
markweave.register_filter("a", function(node, html) return html .. "a" end)
markweave.register_filter("b", function(node, html) return html .. "b" end)
`
	if err := h.LoadScript("order.lua", script); err != nil {
		t.Fatal(err)
	}
	out, _ := h.Apply("p0", "x")
	if out != "xab" {
		t.Errorf("got %q, want xab", out)
	}
}

func TestFailingFilterIsSkipped(t *testing.T) {
	h := NewHost()
	defer h.Close()
	script := `
markweave.register_filter("boom", function(node, html) error("nope") end)
markweave.register_filter("tail", function(node, html) return html .. "!" end)
`
	if err := h.LoadScript("boom.lua", script); err != nil {
		t.Fatal(err)
	}
	out, err := h.Apply("p0", "x")
	if err == nil {
		t.Error("expected an error from the failing filter")
	}
	if out != "x!" {
		t.Errorf("got %q, want the surviving filter applied", out)
	}
}

func TestRunawayFilterTimesOut(t *testing.T) {
	h := NewHost(WithCallTimeout(10 * time.Millisecond))
	defer h.Close()
	script := `
markweave.register_filter("spin", function(node, html)
  while true do end
end)
`
	if err := h.LoadScript("spin.lua", script); err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := h.Apply("p0", "x"); err == nil {
			t.Error("runaway filter should error")
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("filter did not time out")
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	h := NewHost()
	defer h.Close()
	for _, g := range []string{"dofile", "loadfile", "load", "require"} {
		if err := h.LoadScript("loaders.lua", g+`("x")`); err == nil {
			t.Errorf("%s should be unavailable", g)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	a := `markweave.register_filter("a", function(n, h) return h .. "1" end)`
	b := `markweave.register_filter("b", function(n, h) return h .. "2" end)`
	if err := os.WriteFile(filepath.Join(dir, "b.lua"), []byte(b), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte(a), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHost()
	defer h.Close()
	if err := h.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if h.FilterCount() != 2 {
		t.Fatalf("loaded %d filters, want 2", h.FilterCount())
	}
	out, _ := h.Apply("p0", "x")
	if out != "x12" {
		t.Errorf("got %q, want x12 (name order)", out)
	}
}

func TestLoadDirMissingIsNoop(t *testing.T) {
	h := NewHost()
	defer h.Close()
	if err := h.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("missing directory should load nothing: %v", err)
	}
}

func TestClosedHost(t *testing.T) {
	h := NewHost()
	h.Close()
	if _, err := h.Apply("p0", "x"); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if err := h.LoadScript("x.lua", ""); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
