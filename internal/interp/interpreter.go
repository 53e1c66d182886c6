// Package interp evaluates calc syntax trees.
//
// The Interpreter is an ast.Visitor. It owns one global memory space, which
// lives as long as the Interpreter, and a stack of activations, one per
// function call in progress. Name resolution looks at the innermost
// activation's space and then at the global space. There is nothing in
// between: a function body never sees the locals of its caller, and function
// values do not capture anything.
//
// ASSIGNMENT:
// The right-hand side is evaluated first. If the target name is already bound
// in the current space or in the global space, it is overwritten there;
// otherwise it is created in the current space. So a call that assigns to an
// existing global changes the global, while a new name assigned inside a call
// disappears when the call returns.
//
// RETURN:
// A return statement stores its value in the active call's result slot and
// does not stop the statement list. Statements after it still run, and a later
// return overwrites the result.
//
// ERRORS:
// Every error aborts the current input and is returned as a *diag.Error.
// Bindings already changed before the error stay changed.
package interp

import (
	"math/big"

	"github.com/hassan/calc/internal/diag"
	"github.com/hassan/calc/internal/lexer"
	"github.com/hassan/calc/internal/memory"
	"github.com/hassan/calc/internal/parser"
	"github.com/hassan/calc/internal/parser/ast"
)

// DefaultMaxCallDepth is the number of nested calls allowed when no
// WithMaxCallDepth option is given.
const DefaultMaxCallDepth = 1000

// MaxCallDepthLimit is the largest call depth an Interpreter accepts. Each
// calc call takes several Go frames, and deeper recursion would exhaust the
// goroutine stack before RecursionLimitError could be raised.
const MaxCallDepthLimit = 100000

// anonymous names the call space of a callee that is not a plain identifier.
const anonymous = "anonymous"

// activation is one entry of the call stack.
type activation struct {
	// space holds the call's parameters and locals.
	space *memory.Space[Value]

	// result is the value of the last return statement executed, nil if
	// none has run yet.
	result Value
}

// Interpreter evaluates chunks against persistent global state. It is not
// safe for concurrent use.
//
// DESIGN CHOICE: Tree-walking over the AST because:
// - Inputs are single lines; there is nothing to amortize a compile step over
// - Function values are their definition nodes, so calls just walk the body
// - Errors carry the position of the node that failed
//
// DESIGN CHOICE: Return writes a result slot instead of unwinding.
// A return statement stores into the active activation and evaluation of the
// statement list continues. The call reads the slot once the body is done.
// This keeps Visit methods free of a control-flow signal that every list
// walker would otherwise have to check.
//
// ALTERNATIVE DESIGNS CONSIDERED:
// 1. Compile to bytecode first: More code, no benefit for one-line inputs
// 2. Panic/recover for return: Would make return unwind
// 3. Go recursion without a depth counter: Overflows the goroutine stack
type Interpreter struct {
	globals *memory.Space[Value]

	// top is the activation of top-level code; its space is the global
	// space and its result is set by a top-level return.
	top *activation

	stack        []*activation
	maxCallDepth int
}

var _ ast.Visitor = (*Interpreter)(nil)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxCallDepth limits the number of nested calls. Values below one mean
// DefaultMaxCallDepth; values above MaxCallDepthLimit are clamped to it.
func WithMaxCallDepth(depth int) Option {
	return func(in *Interpreter) {
		switch {
		case depth > MaxCallDepthLimit:
			in.maxCallDepth = MaxCallDepthLimit
		case depth > 0:
			in.maxCallDepth = depth
		}
	}
}

// New creates an Interpreter with an empty global space.
func New(opts ...Option) *Interpreter {
	globals := memory.NewGlobal[Value]()
	in := &Interpreter{
		globals:      globals,
		top:          &activation{space: globals},
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Globals returns the global space. Callers may read it between inputs.
func (in *Interpreter) Globals() *memory.Space[Value] {
	return in.globals
}

// MaxCallDepth returns the configured call depth limit.
func (in *Interpreter) MaxCallDepth() int {
	return in.maxCallDepth
}

// Depth returns the number of calls in progress. It is zero between inputs.
func (in *Interpreter) Depth() int {
	return len(in.stack)
}

// Run evaluates one chunk and returns its value: the value of the trailing
// expression if there is one, otherwise the value of the last top-level
// return statement, otherwise nil.
func (in *Interpreter) Run(chunk *ast.Chunk) (Value, error) {
	in.reset()

	if _, err := chunk.Body.Accept(in); err != nil {
		return nil, err
	}
	if chunk.Tail != nil {
		return in.eval(chunk.Tail)
	}
	return in.top.result, nil
}

// Exec evaluates a statement list at top level and returns the value of the
// last top-level return statement, or nil.
func (in *Interpreter) Exec(list *ast.StatementList) (Value, error) {
	in.reset()

	if _, err := list.Accept(in); err != nil {
		return nil, err
	}
	return in.top.result, nil
}

// EvalString parses text as a chunk and runs it.
func (in *Interpreter) EvalString(text, filename string) (Value, error) {
	chunk, err := parser.Parse(text, filename)
	if err != nil {
		return nil, err
	}
	return in.Run(chunk)
}

func (in *Interpreter) reset() {
	in.top.result = nil
	in.stack = in.stack[:0]
}

// current returns the innermost activation.
func (in *Interpreter) current() *activation {
	if n := len(in.stack); n > 0 {
		return in.stack[n-1]
	}
	return in.top
}

func (in *Interpreter) eval(n ast.Node) (Value, error) {
	r, err := n.Accept(in)
	if err != nil || r == nil {
		return nil, err
	}
	return r.(Value), nil
}

// integerOperand evaluates n and fails with a type error unless the result
// is an integer. op is the operator token the operand belongs to.
func (in *Interpreter) integerOperand(n ast.Node, op lexer.Token) (*big.Int, error) {
	v, err := in.eval(n)
	if err != nil {
		return nil, err
	}
	i, ok := v.(*Integer)
	if !ok {
		return nil, diag.New(diag.KindType, op.Position, op.Lexeme,
			"operand of '%s' must be an integer, got %s", op.Lexeme, typeName(v))
	}
	return i.v, nil
}

func (in *Interpreter) VisitIntegerLiteral(lit *ast.IntegerLiteral) (interface{}, error) {
	i, ok := ParseInteger(lit.Text())
	if !ok {
		return nil, diag.New(diag.KindLexical, lit.Pos(), lit.Text(),
			"malformed integer literal '%s'", lit.Text())
	}
	return i, nil
}

func (in *Interpreter) VisitIdentifier(ident *ast.Identifier) (interface{}, error) {
	_, v, ok := memory.Resolve(ident.Name(), in.current().space, in.globals)
	if !ok {
		return nil, diag.New(diag.KindUndefinedSymbol, ident.Pos(), ident.Name(),
			"undefined symbol '%s'", ident.Name())
	}
	return v, nil
}

func (in *Interpreter) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	if expr.IsAssignment() {
		return in.assign(expr)
	}

	op := expr.Token()
	left, err := in.integerOperand(expr.Left(), op)
	if err != nil {
		return nil, err
	}
	right, err := in.integerOperand(expr.Right(), op)
	if err != nil {
		return nil, err
	}

	result := new(big.Int)
	switch expr.Operator() {
	case lexer.TokenPlus:
		result.Add(left, right)
	case lexer.TokenMinus:
		result.Sub(left, right)
	case lexer.TokenStar:
		result.Mul(left, right)
	case lexer.TokenSlash:
		if right.Sign() == 0 {
			return nil, diag.New(diag.KindDivisionByZero, op.Position, op.Lexeme, "division by zero")
		}
		result.Quo(left, right)
	default:
		return nil, diag.New(diag.KindSyntax, op.Position, op.Lexeme,
			"unknown binary operator '%s'", op.Lexeme)
	}
	return &Integer{v: result}, nil
}

func (in *Interpreter) assign(expr *ast.BinaryExpr) (interface{}, error) {
	target := expr.Target()
	if target == nil {
		return nil, diag.New(diag.KindSyntax, expr.Pos(), "=", "assignment target is not a name")
	}

	value, err := in.eval(expr.Right())
	if err != nil {
		return nil, err
	}

	name := target.Name()
	current := in.current().space
	space, _, ok := memory.Resolve(name, current, in.globals)
	if !ok {
		space = current
	}
	space.Define(name, value)

	if t := T(); t != nil {
		t.P("space", space.Name).Debugf("%s = %s", name, Format(value))
	}
	return value, nil
}

// VisitUnaryExpr negates an integer operand. Unary plus returns its operand
// untouched, so +f is still the function f.
func (in *Interpreter) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	op := expr.Token()

	switch expr.Operator() {
	case lexer.TokenPlus:
		return in.eval(expr.Operand())
	case lexer.TokenMinus:
		operand, err := in.integerOperand(expr.Operand(), op)
		if err != nil {
			return nil, err
		}
		return &Integer{v: new(big.Int).Neg(operand)}, nil
	default:
		return nil, diag.New(diag.KindSyntax, op.Position, op.Lexeme,
			"unknown unary operator '%s'", op.Lexeme)
	}
}

func (in *Interpreter) VisitStatementList(list *ast.StatementList) (interface{}, error) {
	for _, stmt := range list.Statements() {
		if _, err := stmt.Accept(in); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Parameter and argument lists are consumed by VisitFunctionCall and have
// no value of their own.

func (in *Interpreter) VisitParameterList(list *ast.ParameterList) (interface{}, error) {
	return nil, nil
}

func (in *Interpreter) VisitArgumentList(list *ast.ArgumentList) (interface{}, error) {
	return nil, nil
}

func (in *Interpreter) VisitFunctionDef(def *ast.FunctionDef) (interface{}, error) {
	return &Function{Def: def}, nil
}

// VisitFunctionCall evaluates the callee, checks the argument count, binds
// the arguments (evaluated left to right in the caller's space) in a fresh
// call space, runs the body with that space on top of the stack and returns
// the call's result slot.
func (in *Interpreter) VisitFunctionCall(call *ast.FunctionCall) (interface{}, error) {
	callee, err := in.eval(call.Callee())
	if err != nil {
		return nil, err
	}

	name := calleeName(call.Callee())
	fn, ok := callee.(*Function)
	if !ok {
		return nil, diag.New(diag.KindType, call.Pos(), name,
			"cannot call '%s': it is %s, not a function", name, typeName(callee))
	}

	if call.Args().Len() != fn.Arity() {
		return nil, diag.New(diag.KindArityMismatch, call.Pos(), name,
			"function '%s' expects %d arguments, got %d", name, fn.Arity(), call.Args().Len())
	}

	args := call.Args().Args()
	params := fn.Def.Params().Names()

	space := memory.NewCall[Value](name)
	for i, arg := range args {
		v, err := in.eval(arg)
		if err != nil {
			return nil, err
		}
		space.Define(params[i], v)
	}

	if in.Depth() >= in.maxCallDepth {
		return nil, diag.New(diag.KindRecursionLimit, call.Pos(), name,
			"maximum call depth %d exceeded calling '%s'", in.maxCallDepth, name)
	}

	act := &activation{space: space}
	in.stack = append(in.stack, act)
	defer func() {
		in.stack = in.stack[:len(in.stack)-1]
	}()

	if t := T(); t != nil {
		t.P("depth", in.Depth()).Debugf("call %s", name)
	}

	if _, err := fn.Def.Body().Accept(in); err != nil {
		return nil, err
	}
	return act.result, nil
}

func (in *Interpreter) VisitReturnStmt(stmt *ast.ReturnStmt) (interface{}, error) {
	v, err := in.eval(stmt.Value())
	if err != nil {
		return nil, err
	}
	in.current().result = v
	return nil, nil
}

// calleeName returns the identifier a call goes through, or "anonymous".
func calleeName(callee ast.Node) string {
	if ident, ok := callee.(*ast.Identifier); ok {
		return ident.Name()
	}
	return anonymous
}
