// Package main provides the calc entry point.
//
// With a file argument, calc runs the whole file as one input and prints its
// value. With -strict the file must follow the plain statement grammar and
// its value is that of its last top-level return. Without a file argument,
// calc starts an interactive REPL:
//
//	calc> function sq(n) return n * n end
//	calc> sq(12)
//	144
//
// Settings come from ~/.calc.yaml (or -config) and may be overridden by
// flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/peterh/liner"

	"github.com/hassan/calc/internal/config"
	"github.com/hassan/calc/internal/diag"
	"github.com/hassan/calc/internal/lexer"
	"github.com/hassan/calc/internal/parser"
	"github.com/hassan/calc/internal/parser/ast"
	"github.com/hassan/calc/internal/repl"
)

const banner = "calc REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands."

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	configPath := fs.String("config", "", "read settings from this YAML file instead of ~/"+config.DefaultFile)
	showTokens := fs.Bool("tokens", false, "print the tokens of the file instead of running it")
	showAST := fs.Bool("ast", false, "print the syntax tree of the file instead of running it")
	fold := fs.Bool("fold", false, "fold constant arithmetic before evaluation")
	trace := fs.String("trace", "", "trace level: error, info or debug")
	strict := fs.Bool("strict", false, "parse the file as statements only, without a trailing expression")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: calc [flags] [source-file]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *fold {
		cfg.FoldConstants = true
	}
	if *trace != "" {
		cfg.Trace = *trace
	}
	setupTracing(cfg.TraceLevel())

	if fs.NArg() == 0 {
		return runREPL(cfg)
	}

	filename := fs.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return 1
	}

	switch {
	case *showTokens:
		return printTokens(string(source), filename)
	case *showAST:
		return printAST(string(source), filename)
	default:
		return runFile(cfg, string(source), filename, *strict)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

// setupTracing routes all global tracers to the standard logger at level.
func setupTracing(level tracing.TraceLevel) {
	if err := gtrace.CreateTracers(gologadapter.GetAdapter()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for _, t := range []tracing.Trace{
		gtrace.SyntaxTracer,
		gtrace.InterpreterTracer,
		gtrace.EquationsTracer,
		gtrace.CommandTracer,
	} {
		t.SetTraceLevel(level)
	}
	gtrace.CommandTracer.Infof("tracing at level %s", level)
}

func printTokens(source, filename string) int {
	tokens, err := lexer.Tokenize(source, filename)
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err))
		return 1
	}
	return 0
}

func printAST(source, filename string) int {
	chunk, err := parser.Parse(source, filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err))
		return 1
	}
	if err := ast.FprintChunk(os.Stdout, chunk); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runFile(cfg *config.Config, source, filename string, strict bool) int {
	session := repl.NewSession(cfg, os.Stdout, os.Stderr)
	exec := session.Eval
	if strict {
		exec = session.ExecProgram
	}
	if err := exec(source, filename); err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err))
		return 1
	}
	return 0
}

func runREPL(cfg *config.Config) int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	saveHistory := historySaver(ln, histPath)
	defer saveHistory()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		saveHistory()
		ln.Close()
		os.Exit(130)
	}()

	session := repl.NewSession(cfg, os.Stdout, os.Stderr)
	if t := repl.T(); t != nil {
		t.Infof("max call depth %d", session.Interpreter().MaxCallDepth())
	}
	for {
		input, ok := readInput(ln, cfg)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if session.Handle(input) {
			return 0
		}
	}
}

// historyWriter is the part of liner.State that saves history.
type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// historySaver returns a func that writes h's history to path. Only the
// first call writes, so the signal handler and the normal exit path can
// both call it. An empty path disables saving.
func historySaver(h historyWriter, path string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			if path == "" {
				return
			}
			f, err := os.Create(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error saving history: %v\n", err)
				return
			}
			_, _ = h.WriteHistory(f)
			_ = f.Close()
		})
	}
}

// readInput reads one input, prompting for more lines while the input so
// far is an unfinished construct. An empty continuation line submits what
// was typed. It returns false at end of input.
func readInput(ln *liner.State, cfg *config.Config) (string, bool) {
	var b strings.Builder

	for {
		prompt := cfg.Prompt
		if b.Len() > 0 {
			prompt = cfg.ContinuationPrompt
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(src), ":") || !repl.NeedsMore(src) {
			return src, true
		}
	}
}
