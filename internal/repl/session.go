// Package repl implements the line-by-line driver around the interpreter.
//
// A Session takes one input at a time, either calc source or a meta-command
// starting with ':'. Values and errors are written to the session's writers,
// and bindings persist from one input to the next. Reading lines from a
// terminal is left to the caller, so a Session can be driven from tests or
// from a file.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hassan/calc/internal/config"
	"github.com/hassan/calc/internal/diag"
	"github.com/hassan/calc/internal/interp"
	"github.com/hassan/calc/internal/lexer"
	"github.com/hassan/calc/internal/optimizer"
	"github.com/hassan/calc/internal/parser"
	"github.com/hassan/calc/internal/parser/ast"
)

// Filename labels positions of interactive input.
const Filename = "<stdin>"

const helpText = `REPL commands:
  :help           Show this text
  :quit           Exit the REPL
  :globals        List the global bindings
  :tokens <src>   Show the tokens of src
  :ast <src>      Show the syntax tree of src
`

// Session holds the interpreter state shared by successive inputs.
type Session struct {
	interp      *interp.Interpreter
	optimizer   *optimizer.Optimizer
	out         io.Writer
	errOut      io.Writer
	showGlobals bool
}

// NewSession creates a session configured by cfg. Values go to out,
// diagnostics to errOut.
func NewSession(cfg *config.Config, out, errOut io.Writer) *Session {
	s := &Session{
		interp:      interp.New(interp.WithMaxCallDepth(cfg.MaxCallDepth)),
		out:         out,
		errOut:      errOut,
		showGlobals: cfg.ShowGlobals,
	}
	if cfg.FoldConstants {
		s.optimizer = optimizer.New()
	}
	return s
}

// Interpreter returns the session's interpreter.
func (s *Session) Interpreter() *interp.Interpreter {
	return s.interp
}

// Handle processes one input and reports whether the session should end.
// Blank input is ignored.
func (s *Session) Handle(input string) (quit bool) {
	line := strings.TrimSpace(input)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}

	if err := s.Eval(input, Filename); err != nil {
		if t := T(); t != nil {
			t.P("kind", diag.KindOf(err)).Infof("input rejected")
		}
		fmt.Fprintln(s.errOut, diag.Format(err))
		return false
	}
	if s.showGlobals {
		s.printGlobals()
	}
	return false
}

// Eval runs text as one chunk and prints its value, if it has one.
func (s *Session) Eval(text, filename string) error {
	if s.optimizer == nil {
		v, err := s.interp.EvalString(text, filename)
		if err != nil {
			return err
		}
		s.printValue(v)
		return nil
	}

	chunk, err := parser.Parse(text, filename)
	if err != nil {
		return err
	}
	if chunk, err = s.optimizer.Optimize(chunk); err != nil {
		return err
	}
	s.traceStats()

	v, err := s.interp.Run(chunk)
	if err != nil {
		return err
	}
	s.printValue(v)
	return nil
}

// ExecProgram runs text with the strict statement grammar, which has no
// trailing bare expression, and prints the value of the last top-level
// return, if one ran.
func (s *Session) ExecProgram(text, filename string) error {
	list, err := parser.ParseProgram(text, filename)
	if err != nil {
		return err
	}
	if s.optimizer != nil {
		if list, err = s.optimizer.OptimizeProgram(list); err != nil {
			return err
		}
		s.traceStats()
	}

	v, err := s.interp.Exec(list)
	if err != nil {
		return err
	}
	s.printValue(v)
	return nil
}

func (s *Session) printValue(v interp.Value) {
	if v != nil {
		fmt.Fprintln(s.out, v)
	}
}

func (s *Session) traceStats() {
	if t := T(); t != nil {
		t.Debugf("%s", s.optimizer.Stats())
	}
}

// command runs a meta-command.
func (s *Session) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	if t := T(); t != nil {
		t.Debugf("command %s", name)
	}

	switch strings.ToLower(name) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(s.out, helpText)
	case ":globals":
		s.printGlobals()
	case ":tokens":
		s.printTokens(arg)
	case ":ast":
		s.printTree(arg)
	default:
		fmt.Fprintf(s.errOut, "unknown command %s. Type :help for a list.\n", name)
	}
	return false
}

func (s *Session) printGlobals() {
	globals := s.interp.Globals()
	for _, name := range globals.Names() {
		v, _ := globals.Lookup(name)
		fmt.Fprintf(s.out, "%s = %s\n", name, describe(v))
	}
}

func (s *Session) printTokens(src string) {
	tokens, err := lexer.Tokenize(src, Filename)
	for _, tok := range tokens {
		fmt.Fprintln(s.out, tok)
	}
	if err != nil {
		fmt.Fprintln(s.errOut, diag.Format(err))
	}
}

func (s *Session) printTree(src string) {
	chunk, err := parser.Parse(src, Filename)
	if err != nil {
		fmt.Fprintln(s.errOut, diag.Format(err))
		return
	}
	if err := ast.FprintChunk(s.out, chunk); err != nil {
		fmt.Fprintln(s.errOut, diag.Format(err))
	}
}

// describe renders a binding's value, including the absent value.
func describe(v interp.Value) string {
	if v == nil {
		return "<no value>"
	}
	return v.String()
}

// Incomplete reports whether err means the input ended before the construct
// it started was finished, as in "function f(a)" or "x = (1 +". More input
// on a following line may complete it.
func Incomplete(err error) bool {
	var d *diag.Error
	if !errors.As(err, &d) {
		return false
	}
	return d.Kind == diag.KindSyntax && d.Subject == lexer.TokenEOF.String()
}

// NeedsMore reports whether text is an unfinished input. An identifier
// spelled EOF does not count; the error must be at the very end of text.
func NeedsMore(text string) bool {
	_, err := parser.Parse(text, Filename)
	if !Incomplete(err) {
		return false
	}
	var d *diag.Error
	errors.As(err, &d)
	return d.Pos.Offset == len(text)
}
