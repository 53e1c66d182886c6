package interp

import (
	"math/big"
	"strings"

	"github.com/hassan/calc/internal/parser/ast"
)

// Value is the result of evaluating an expression. It is either an *Integer
// or a *Function. A nil Value means "no value", for example the result of a
// call whose body never ran a return statement.
type Value interface {
	// String renders the value the way the REPL prints it.
	String() string

	// TypeName names the kind of value in error messages.
	TypeName() string
}

// Integer is an arbitrary-precision signed integer. Integers are immutable;
// arithmetic always produces a new Integer.
type Integer struct {
	v *big.Int
}

// ParseInteger parses a string of decimal digits, optionally signed.
func ParseInteger(text string) (*Integer, bool) {
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, false
	}
	return &Integer{v: v}, true
}

func (i *Integer) String() string   { return i.v.String() }
func (i *Integer) TypeName() string { return "integer" }

// Function is a function value: the definition node it was created from.
// Evaluating a definition does not copy or compile anything, so two
// evaluations of the same definition share the node.
type Function struct {
	Def *ast.FunctionDef
}

func (f *Function) String() string {
	return "function(" + strings.Join(f.Def.Params().Names(), ", ") + ")"
}

func (f *Function) TypeName() string { return "function" }

// Arity returns the number of declared parameters.
func (f *Function) Arity() int {
	return f.Def.Params().Len()
}

// Format renders v for display; nil renders as the empty string.
func Format(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func typeName(v Value) string {
	if v == nil {
		return "no value"
	}
	return v.TypeName()
}
