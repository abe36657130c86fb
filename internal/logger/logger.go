// Package logger builds the engine's zap logger. Loggers are handed to
// components explicitly; there is no process-global logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/markweave/internal/config"
)

// New creates a logger per the config. With an empty file it writes to
// stderr. The returned close function flushes and releases the sink.
func New(cfg config.Log) (*zap.SugaredLogger, func(), error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	sink := zapcore.AddSync(os.Stderr)
	cleanup := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		cleanup = func() { _ = f.Close() }
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	l := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
	closeFn := func() {
		_ = l.Sync()
		cleanup()
	}
	return l.Sugar(), closeFn, nil
}

// Nop returns a logger that discards everything, for tests and
// library use without logging configured.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
