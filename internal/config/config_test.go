package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Composition.ConfirmSuppress() != 500*time.Millisecond {
		t.Errorf("confirm suppress = %v, want 500ms", cfg.Composition.ConfirmSuppress())
	}
	if cfg.Composition.PredictiveFallback() != 50*time.Millisecond {
		t.Errorf("predictive fallback = %v, want 50ms", cfg.Composition.PredictiveFallback())
	}
	if cfg.Editor.MaxUndoEntries != 1000 {
		t.Errorf("max undo = %d, want 1000", cfg.Editor.MaxUndoEntries)
	}
	if !cfg.Render.HighlightCode {
		t.Error("highlighting should default on")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markweave.toml")
	body := `
[composition]
confirm_suppress_ms = 250

[render]
highlight_code = false

[log]
debug = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Composition.ConfirmSuppressMS != 250 {
		t.Errorf("confirm_suppress_ms = %d, want 250", cfg.Composition.ConfirmSuppressMS)
	}
	if cfg.Composition.PredictiveFallbackMS != 50 {
		t.Errorf("untouched key predictive_fallback_ms = %d, want default 50", cfg.Composition.PredictiveFallbackMS)
	}
	if cfg.Render.HighlightCode {
		t.Error("highlight_code should be overridden to false")
	}
	if !cfg.Log.Debug {
		t.Error("log.debug should be true")
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[[["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed TOML should error")
	}
}
