package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/peterstace/tac"
	"github.com/peterstace/tac/config"
	"github.com/peterstace/tac/term"
)

const version = "tac <unversioned>"

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2

	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Environ(), term.StdinIsTerminal))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, environ []string, stdinIsTerminal func() bool) int {
	fs := flag.NewFlagSet("tac", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tac [flags] [FILE...]\n\nWrite each FILE to standard output, last line first.\nWith no FILE, or when FILE is -, read standard input.\n\n")
		fs.PrintDefaults()
	}

	def := config.Defaults()
	var (
		cfg        config.Config
		configFile string
		vFlag      bool
	)
	fs.IntVar(&cfg.BufSize, "bufsize", def.BufSize, "chunk size in bytes")
	fs.IntVar(&cfg.BufSize, "b", def.BufSize, "shorthand for -bufsize")
	fs.StringVar(&cfg.Strategy, "strategy", def.Strategy, "file access strategy: read or mmap")
	fs.StringVar(&cfg.Separator, "separator", def.Separator, "line separator byte (Go escapes such as \\x00 allowed)")
	fs.StringVar(&cfg.Separator, "s", def.Separator, "shorthand for -separator")
	fs.StringVar(&cfg.Format, "format", def.Format, "output format: text, quoted or json")
	fs.BoolVar(&cfg.Headers, "headers", false, "print a ==> FILE <== header before each file (text format)")
	fs.BoolVar(&cfg.SkipBlank, "skip-blank", false, "omit lines that are empty or only whitespace")
	fs.StringVar(&cfg.Match, "match", "", "print only lines matching this regular expression")
	fs.StringVar(&cfg.Match, "e", "", "shorthand for -match")
	fs.BoolVar(&cfg.Unique, "unique", false, "print only the last occurrence of each line in a file")
	fs.StringVar(&cfg.Hash, "hash", def.Hash, "line digest for -unique: xxh3, fnv or blake2b")
	fs.IntVar(&cfg.Lines, "n", 0, "print at most this many lines per file (0 for all)")
	fs.BoolVar(&cfg.NoDecompress, "no-decompress", false, "read .zst and .gz files as they are")
	fs.StringVar(&cfg.TmpDir, "tmpdir", "", "directory for decompression spool files")
	fs.StringVar(&cfg.DebugLogfile, "debug-logfile", "", "debug logfile")
	fs.StringVar(&configFile, "config", "", "JSON config file")
	fs.BoolVar(&vFlag, "version", false, "version")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if vFlag {
		fmt.Fprintln(stdout, version)
		return exitOK
	}

	// Flags given on the command line win over the file and the environment.
	base, err := config.Load(configFile, environ)
	if err != nil {
		fmt.Fprintf(stderr, "Could not load config: %v\n", err)
		return exitUsage
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bufsize", "b":
			base.BufSize = cfg.BufSize
		case "strategy":
			base.Strategy = cfg.Strategy
		case "separator", "s":
			base.Separator = cfg.Separator
		case "format":
			base.Format = cfg.Format
		case "headers":
			base.Headers = cfg.Headers
		case "skip-blank":
			base.SkipBlank = cfg.SkipBlank
		case "match", "e":
			base.Match = cfg.Match
		case "unique":
			base.Unique = cfg.Unique
		case "hash":
			base.Hash = cfg.Hash
		case "n":
			base.Lines = cfg.Lines
		case "no-decompress":
			base.NoDecompress = cfg.NoDecompress
		case "tmpdir":
			base.TmpDir = cfg.TmpDir
		case "debug-logfile":
			base.DebugLogfile = cfg.DebugLogfile
		}
	})
	cfg = base

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid options: %v\n", err)
		return exitUsage
	}
	opts.Stdin = stdin
	format, err := cfg.OutputFormat()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid options: %v\n", err)
		return exitUsage
	}

	if cfg.DebugLogfile != "" {
		lg, err := tac.FileLogger(cfg.DebugLogfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not open debug logfile %q: %s\n", cfg.DebugLogfile, err)
			return exitUsage
		}
		tac.SetLogger(lg)
		defer tac.SetLogger(nil)
	}

	paths := fs.Args()
	if len(paths) == 0 {
		if stdinIsTerminal() {
			fmt.Fprintf(stderr, "Missing filename (use \"tac -help\" for usage)\n")
			return exitUsage
		}
		paths = []string{tac.StdinPath}
	}

	sink, err := tac.NewSink(format, stdout, cfg.Headers, opts.Sep())
	if err != nil {
		fmt.Fprintf(stderr, "Invalid options: %v\n", err)
		return exitUsage
	}

	opts.Cancel = &tac.Cancellable{}
	defer cancelOnSignal(opts.Cancel, os.Interrupt)()

	failed, err := tac.Run(paths, opts, sink)
	for _, ferr := range failed {
		fmt.Fprintf(stderr, "tac: %v\n", ferr)
	}
	if errors.Is(err, tac.ErrCancelled) {
		return exitInterrupted
	}
	if err != nil {
		fmt.Fprintf(stderr, "tac: write output: %v\n", err)
		return exitFailed
	}
	if len(failed) > 0 {
		return exitFailed
	}
	return exitOK
}

// cancelOnSignal cancels c when sig arrives, so open files are closed and
// spool files removed before exit. The returned func stops listening.
func cancelOnSignal(c *tac.Cancellable, sig os.Signal) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			c.Cancel()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
