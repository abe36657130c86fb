// Package main is a demo driver for the markweave engine: it renders a
// markdown file to per-paragraph HTML and, in watch mode, re-renders on
// change and prints the incremental ops instead of the whole document.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/markweave/internal/config"
	"github.com/dshills/markweave/internal/engine"
	"github.com/dshills/markweave/internal/logger"
	"github.com/dshills/markweave/internal/paracache"
	"github.com/dshills/markweave/internal/textbuf"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// debounceWindow coalesces the event bursts editors produce on save.
const debounceWindow = 100 * time.Millisecond

type options struct {
	ConfigPath string
	Debug      bool
	Watch      bool
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.Debug {
		cfg.Log.Debug = true
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	src, err := os.ReadFile(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	buf := textbuf.NewMemoryBuffer(
		textbuf.WithContent(string(src)),
		textbuf.WithMaxUndoEntries(cfg.Editor.MaxUndoEntries),
	)
	eng, err := engine.NewFromConfig(buf, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer eng.Close()

	res := eng.RenderPass()
	for _, p := range res.Paragraphs {
		fmt.Println(p.HTML)
	}

	if !opts.Watch {
		return 0
	}
	if err := watch(eng, buf, opts.File, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// watch re-renders the file on change until interrupted. The parent
// directory is watched rather than the file itself because most
// editors save by replacing the file.
func watch(eng *engine.Engine, buf *textbuf.MemoryBuffer, path string, log *zap.SugaredLogger) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	log.Infow("watching", "file", target)
	var debounce <-chan time.Time
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(debounceWindow)

		case err := <-w.Errors:
			log.Warnw("watch error", "error", err)

		case <-debounce:
			debounce = nil
			src, err := os.ReadFile(target)
			if err != nil {
				log.Warnw("reload failed", "error", err)
				continue
			}
			buf.SetContent(string(src))
			printOps(eng.RenderPass())

		case <-signals:
			return nil
		}
	}
}

func printOps(res engine.PassResult) {
	if len(res.Ops) == 0 {
		fmt.Println("-- no paragraphs changed --")
		return
	}
	for _, op := range res.Ops {
		switch op.Kind {
		case paracache.OpRemove:
			fmt.Printf("%s %d\n", op.Kind, op.Index)
		default:
			fmt.Printf("%s %d: %s\n", op.Kind, op.Index, op.Para.HTML)
		}
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Re-render on file change")
	flag.BoolVar(&opts.Watch, "w", false, "Re-render on file change (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Markweave - markdown paragraph renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: markweave [options] file.md\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  markweave README.md          Render once to stdout\n")
		fmt.Fprintf(os.Stderr, "  markweave -w notes.md        Re-render on change, print diffs\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Markweave %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.File = flag.Arg(0)
	return opts
}
