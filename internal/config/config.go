package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full engine configuration.
type Config struct {
	Editor      Editor      `toml:"editor"`
	Composition Composition `toml:"composition"`
	Render      Render      `toml:"render"`
	Log         Log         `toml:"log"`
}

// Editor holds buffer and editing behavior.
type Editor struct {
	// MaxUndoEntries bounds the reference buffer's history.
	MaxUndoEntries int `toml:"max_undo_entries"`
}

// Composition holds the IME timing windows in milliseconds. Both were
// tuned against real input methods.
type Composition struct {
	ConfirmSuppressMS    int `toml:"confirm_suppress_ms"`
	PredictiveFallbackMS int `toml:"predictive_fallback_ms"`
}

// ConfirmSuppress returns the duplicate-confirmation window.
func (c Composition) ConfirmSuppress() time.Duration {
	return time.Duration(c.ConfirmSuppressMS) * time.Millisecond
}

// PredictiveFallback returns the predictive-text check delay.
func (c Composition) PredictiveFallback() time.Duration {
	return time.Duration(c.PredictiveFallbackMS) * time.Millisecond
}

// Render holds render pass behavior.
type Render struct {
	// HighlightCode enables tree-sitter highlighting of fenced blocks.
	HighlightCode bool `toml:"highlight_code"`

	// FilterDir is a directory of Lua render filters loaded at startup.
	// Empty disables filters.
	FilterDir string `toml:"filter_dir"`
}

// Log holds logging behavior.
type Log struct {
	Debug bool `toml:"debug"`

	// File receives log output; empty logs to stderr.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{
			MaxUndoEntries: 1000,
		},
		Composition: Composition{
			ConfirmSuppressMS:    500,
			PredictiveFallbackMS: 50,
		},
		Render: Render{
			HighlightCode: true,
		},
	}
}

// Load reads TOML configuration from path over the defaults. A missing
// file returns the defaults with no error; a malformed file is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
