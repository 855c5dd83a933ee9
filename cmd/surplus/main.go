// Command surplus drives the preprocessor from the shell: one-shot
// compilation, a watch mode that recompiles on write, and an interactive
// REPL for trying out markup expressions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/irisjay/surplus"
)

const (
	appName     = "surplus"
	historyFile = ".surplus_history"
	promptMain  = "==> "
)

var banner = fmt.Sprintf("surplus %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", surplus.Version)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
	Level(zerolog.InfoLevel).With().Timestamp().Logger()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "compile":
		os.Exit(cmdCompile(os.Args[2:]))
	case "watch":
		os.Exit(cmdWatch(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(surplus.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`surplus %s

Usage:
  %s compile [flags] [file]      Compile a file (stdin when omitted) to the base language.
  %s watch [flags] <file>        Recompile the file every time it changes.
  %s repl                        Start the interactive REPL.
  %s version                     Print the version.

Flags for compile and watch:
  -o <file>        Write output here instead of stdout (watch requires it).
  -jsx=<bool>      Dialect: true for {...} (default), false for @-prefixed.
  -sourcemap <m>   "extract" writes <out>.map next to -o, "append" inlines the map.
  -sourcefile <s>  Source name recorded in the map.
  -targetfile <s>  Target name recorded in the map.
  -v               Verbose logging.

`, surplus.Version, appName, appName, appName, appName)
}

// buildFlags is the flag surface shared by compile and watch.
type buildFlags struct {
	out        string
	jsx        bool
	sourcemap  string
	sourcefile string
	targetfile string
	verbose    bool
}

func parseBuildFlags(name string, args []string) (*buildFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	bf := &buildFlags{}
	fs.StringVar(&bf.out, "o", "", "output file")
	fs.BoolVar(&bf.jsx, "jsx", true, "use the JSX dialect")
	fs.StringVar(&bf.sourcemap, "sourcemap", "", `sourcemap mode: "extract" or "append"`)
	fs.StringVar(&bf.sourcefile, "sourcefile", "", "source name recorded in the map")
	fs.StringVar(&bf.targetfile, "targetfile", "", "target name recorded in the map")
	fs.BoolVar(&bf.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	switch bf.sourcemap {
	case "", surplus.SourcemapExtract, surplus.SourcemapAppend:
	default:
		return nil, nil, fmt.Errorf(`-sourcemap must be "extract" or "append"`)
	}
	if bf.verbose {
		log = log.Level(zerolog.DebugLevel)
	}
	return bf, fs.Args(), nil
}

func (bf *buildFlags) options(inPath string) *surplus.Options {
	opts := surplus.DefaultOptions()
	if !bf.jsx {
		opts.Dialect = surplus.DialectNative
	}
	opts.Sourcemap = bf.sourcemap
	if bf.sourcefile != "" {
		opts.Sourcefile = bf.sourcefile
	} else if inPath != "" {
		opts.Sourcefile = filepath.Base(inPath)
	}
	if bf.targetfile != "" {
		opts.Targetfile = bf.targetfile
	} else if bf.out != "" {
		opts.Targetfile = filepath.Base(bf.out)
	}
	return opts
}

// -----------------------------------------------------------------------------
// compile
// -----------------------------------------------------------------------------

func cmdCompile(args []string) int {
	bf, rest, err := parseBuildFlags("compile", args)
	if err != nil {
		return 2
	}
	inPath := ""
	if len(rest) > 0 {
		inPath = rest[0]
	}

	var src []byte
	if inPath == "" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(inPath)
	}
	if err != nil {
		log.Error().Err(err).Str("file", inPath).Msg("cannot read input")
		return 1
	}

	if err := build(string(src), inPath, bf); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// build runs one compilation and writes its outputs.
func build(src, inPath string, bf *buildFlags) error {
	started := time.Now()
	opts := bf.options(inPath)

	var out string
	var m *surplus.SourceMap
	var err error
	if bf.sourcemap == surplus.SourcemapExtract {
		out, m, err = surplus.PreprocessExtract(src, opts)
	} else {
		out, err = surplus.Preprocess(src, opts)
	}
	if err != nil {
		return surplus.WrapErrorWithName(err, displayName(inPath), src)
	}

	if bf.out == "" {
		fmt.Print(out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Println()
		}
	} else {
		if err := os.WriteFile(bf.out, []byte(out), 0o644); err != nil {
			return err
		}
		if m != nil {
			data, err := m.JSON()
			if err != nil {
				return err
			}
			if err := os.WriteFile(bf.out+".map", data, 0o644); err != nil {
				return err
			}
		}
	}
	log.Debug().Str("file", displayName(inPath)).Dur("took", time.Since(started)).Msg("compiled")
	return nil
}

func displayName(inPath string) string {
	if inPath == "" {
		return "<stdin>"
	}
	return inPath
}

// -----------------------------------------------------------------------------
// watch
// -----------------------------------------------------------------------------

func cmdWatch(args []string) int {
	bf, rest, err := parseBuildFlags("watch", args)
	if err != nil {
		return 2
	}
	if len(rest) < 1 || bf.out == "" {
		fmt.Fprintf(os.Stderr, "usage: %s watch -o <out.js> [flags] <file>\n", appName)
		return 2
	}
	inPath := rest[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error().Err(err).Msg("cannot start watcher")
		return 1
	}
	defer watcher.Close()

	// watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself
	if err := watcher.Add(filepath.Dir(inPath)); err != nil {
		log.Error().Err(err).Str("dir", filepath.Dir(inPath)).Msg("cannot watch")
		return 1
	}

	rebuild := func() {
		src, err := os.ReadFile(inPath)
		if err != nil {
			log.Error().Err(err).Str("file", inPath).Msg("cannot read input")
			return
		}
		if err := build(string(src), inPath, bf); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return
		}
		log.Info().Str("file", inPath).Str("out", bf.out).Msg("compiled")
	}

	rebuild()
	log.Info().Str("file", inPath).Msg("watching")

	abs, _ := filepath.Abs(inPath)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Msg("change detected")
			rebuild()
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			log.Error().Err(err).Msg("watch error")
		}
	}
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) int {
	jsx := true
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.BoolVar(&jsx, "jsx", true, "use the JSX dialect")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	opts := surplus.DefaultOptions()
	if !jsx {
		opts.Dialect = surplus.DialectNative
	}

	for {
		line, err := ln.Prompt(promptMain)
		if err == liner.ErrPromptAborted {
			// Ctrl+C drops the current input and prompts again
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			switch strings.TrimSpace(strings.ToLower(line)) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		ln.AppendHistory(line)

		out, err := surplus.Preprocess(line, opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, surplus.WrapErrorWithSource(err, line).Error())
			continue
		}
		fmt.Println(out)
	}
}
