package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/pdbtypes"
	"github.com/wippyai/pdbtypes/tpi"
)

type config struct {
	path    string
	format  string
	depth   int
	cache   int
	verbose bool
}

func main() {
	var (
		tpiFile     = flag.String("tpi", "", "Path to a dumped TPI stream (raw or .zst)")
		format      = flag.String("format", "text", "Output format: text, json or yaml")
		depth       = flag.Int("depth", 0, "Maximum LF_INDEX continuation depth (0 = default)")
		cache       = flag.Int("cache", tpi.DefaultOptions().FieldListCacheSize, "Field list cache size (0 disables)")
		verbose     = flag.Bool("v", false, "Log decoding warnings to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *tpiFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: pdbenum -tpi <stream> [-format text|json|yaml] [-v]")
		fmt.Fprintln(os.Stderr, "       pdbenum -tpi <stream> -i  (interactive mode)")
		os.Exit(1)
	}

	cfg := config{
		path:    *tpiFile,
		format:  *format,
		depth:   *depth,
		cache:   *cache,
		verbose: *verbose,
	}

	log := zap.NewNop()
	if cfg.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
		defer func() { _ = log.Sync() }()
	}

	if *interactive {
		if err := runInteractive(cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	styled := cfg.format == "text" && term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(cfg, log, os.Stdout, os.Stderr, styled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, log *zap.Logger, stdout, stderr io.Writer, styled bool) error {
	w, err := writerFor(cfg.format, styled)
	if err != nil {
		return err
	}

	rep, err := load(cfg, log)
	if err != nil {
		return err
	}
	if rep.Unavailable != "" {
		fmt.Fprintf(stderr, "warning: %s: no type information loaded\n", rep.Unavailable)
	}
	return w(stdout, rep)
}

// load reads cfg.path and decodes it into a report. A stream that carries
// no usable type information is not an error: the report comes back empty
// with Unavailable set.
func load(cfg config, log *zap.Logger) (*report, error) {
	data, err := readStream(cfg.path)
	if err != nil {
		return nil, err
	}

	opts := tpi.DefaultOptions()
	opts.Logger = log
	opts.MaxContinuationDepth = cfg.depth
	opts.FieldListCacheSize = cfg.cache

	tab, stats, err := pdbtypes.Load(bytes.NewReader(data), opts)

	rep := newReport(cfg.path, tab, stats)
	switch {
	case errors.Is(err, tpi.ErrTypesUnavailable):
		rep.Unavailable = err.Error()
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", cfg.path, err)
	}
	return rep, nil
}
