// Package diag defines the error taxonomy shared by the lexer, the parser and
// the interpreter.
//
// Every failure in the pipeline is a *Error carrying a Kind, a message and,
// where one exists, the source position that triggered it. Errors are raised
// where they are detected and travel unchanged to the driver; nothing in the
// core recovers from them.
package diag

import (
	"errors"
	"fmt"

	"github.com/hassan/calc/internal/source"
)

// Kind classifies an Error.
type Kind int

const (
	// KindLexical is an unrecognized character in the source.
	KindLexical Kind = iota + 1

	// KindSyntax is a token sequence that does not match the grammar.
	KindSyntax

	// KindUndefinedSymbol is a read of a name bound in neither the
	// current nor the global space.
	KindUndefinedSymbol

	// KindArityMismatch is a call whose argument count differs from the
	// definition's parameter count.
	KindArityMismatch

	// KindType is an operation applied to a value of the wrong kind,
	// such as calling an integer.
	KindType

	// KindDivisionByZero is an integer division by zero.
	KindDivisionByZero

	// KindRecursionLimit is a call that would exceed the maximum call depth.
	KindRecursionLimit
)

// String returns the name used for the kind in user-facing messages.
func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "LexicalError"
	case KindSyntax:
		return "SyntaxError"
	case KindUndefinedSymbol:
		return "UndefinedSymbolError"
	case KindArityMismatch:
		return "ArityMismatchError"
	case KindType:
		return "TypeError"
	case KindDivisionByZero:
		return "DivisionByZeroError"
	case KindRecursionLimit:
		return "RecursionLimitError"
	default:
		return "Error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrLexical         = &Error{Kind: KindLexical}
	ErrSyntax          = &Error{Kind: KindSyntax}
	ErrUndefinedSymbol = &Error{Kind: KindUndefinedSymbol}
	ErrArityMismatch   = &Error{Kind: KindArityMismatch}
	ErrType            = &Error{Kind: KindType}
	ErrDivisionByZero  = &Error{Kind: KindDivisionByZero}
	ErrRecursionLimit  = &Error{Kind: KindRecursionLimit}
)

// Error is a located, classified failure.
type Error struct {
	Kind Kind

	// Message is the human-readable description, without position.
	Message string

	// Subject is the offending text: the character, token text or
	// identifier the error is about. Empty when not applicable.
	Subject string

	// Pos is where the error was detected. May be the zero Position.
	Pos source.Position
}

// Error implements the error interface.
// Format: "<position>: <Kind>: <message>"
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error with a formatted message.
func New(kind Kind, pos source.Position, subject, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Subject: subject,
		Pos:     pos,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Format renders err for a terminal:
//
//	error[UndefinedSymbolError]: undefined symbol 'y'
//	  --> <stdin>:1:1
//
// Errors outside the taxonomy are rendered with their plain message.
func Format(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "error: " + err.Error()
	}
	out := fmt.Sprintf("error[%s]: %s", e.Kind, e.Message)
	if e.Pos.IsValid() {
		out += fmt.Sprintf("\n  --> %s", e.Pos)
	}
	return out
}
