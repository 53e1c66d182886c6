package optimizer

import (
	"math/big"

	"github.com/hassan/calc/internal/lexer"
	"github.com/hassan/calc/internal/parser/ast"
)

// ConstantFoldingPass replaces arithmetic on literals by its result.
//
// EXAMPLE:
//
//	Before:  x = 2 * 3 + y - (4 - 10)
//	After:   x = 6 + y - -6
//
// Negative results are written as a unary minus applied to a literal, the
// shape the parser builds for "-6". Division by zero is left in place so that
// it still fails when evaluated. Nothing that involves a name is folded,
// since names are resolved only at run time.
type ConstantFoldingPass struct{}

// Name returns the name of this optimization pass.
func (c *ConstantFoldingPass) Name() string {
	return "ConstantFolding"
}

// Run folds every foldable subtree of chunk, inside function bodies too.
func (c *ConstantFoldingPass) Run(chunk *ast.Chunk, stats *Stats) (*ast.Chunk, error) {
	f := &folder{stats: stats}

	body, err := chunk.Body.Accept(f)
	if err != nil {
		return nil, err
	}
	out := &ast.Chunk{Body: body.(*ast.StatementList)}

	if chunk.Tail != nil {
		tail, err := chunk.Tail.Accept(f)
		if err != nil {
			return nil, err
		}
		out.Tail = tail.(ast.Node)
	}
	return out, nil
}

// folder is the Visitor behind ConstantFoldingPass. Each method returns the
// rewritten node.
type folder struct {
	stats *Stats
}

var _ ast.Visitor = (*folder)(nil)

func (f *folder) fold(n ast.Node) (ast.Node, error) {
	r, err := n.Accept(f)
	if err != nil {
		return nil, err
	}
	return r.(ast.Node), nil
}

func (f *folder) folded() {
	if f.stats != nil {
		f.stats.ConstantsFolded++
	}
}

// constant returns the value of a literal or of a negated literal.
func constant(n ast.Node) (*big.Int, bool) {
	switch n := n.(type) {
	case *ast.IntegerLiteral:
		return new(big.Int).SetString(n.Text(), 10)
	case *ast.UnaryExpr:
		lit, ok := n.Operand().(*ast.IntegerLiteral)
		if !ok || n.Operator() != lexer.TokenMinus {
			return nil, false
		}
		v, ok := new(big.Int).SetString(lit.Text(), 10)
		if !ok {
			return nil, false
		}
		return v.Neg(v), true
	default:
		return nil, false
	}
}

// literal builds the tree for v at pos.
func literal(v *big.Int, pos lexer.Token) ast.Node {
	if v.Sign() >= 0 {
		return ast.NewInteger(lexer.Token{Type: lexer.TokenInteger, Lexeme: v.String(), Position: pos.Position})
	}
	abs := new(big.Int).Neg(v)
	return ast.NewUnary(
		lexer.Token{Type: lexer.TokenMinus, Lexeme: "-", Position: pos.Position},
		ast.NewInteger(lexer.Token{Type: lexer.TokenInteger, Lexeme: abs.String(), Position: pos.Position}),
	)
}

func (f *folder) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	if expr.IsAssignment() {
		value, err := f.fold(expr.Right())
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(expr.Token(), expr.Target(), value), nil
	}

	left, err := f.fold(expr.Left())
	if err != nil {
		return nil, err
	}
	right, err := f.fold(expr.Right())
	if err != nil {
		return nil, err
	}

	l, lok := constant(left)
	r, rok := constant(right)
	if !lok || !rok {
		return ast.NewBinary(expr.Token(), left, right), nil
	}

	result := new(big.Int)
	switch expr.Operator() {
	case lexer.TokenPlus:
		result.Add(l, r)
	case lexer.TokenMinus:
		result.Sub(l, r)
	case lexer.TokenStar:
		result.Mul(l, r)
	case lexer.TokenSlash:
		if r.Sign() == 0 {
			return ast.NewBinary(expr.Token(), left, right), nil
		}
		result.Quo(l, r)
	default:
		return ast.NewBinary(expr.Token(), left, right), nil
	}

	f.folded()
	return literal(result, expr.Token()), nil
}

func (f *folder) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	operand, err := f.fold(expr.Operand())
	if err != nil {
		return nil, err
	}

	// -<literal> is already as small as it gets.
	if _, isLit := operand.(*ast.IntegerLiteral); isLit && expr.Operator() == lexer.TokenMinus {
		return ast.NewUnary(expr.Token(), operand), nil
	}

	v, ok := constant(operand)
	if !ok {
		return ast.NewUnary(expr.Token(), operand), nil
	}
	if expr.Operator() == lexer.TokenMinus {
		v.Neg(v)
	}
	f.folded()
	return literal(v, expr.Token()), nil
}

func (f *folder) VisitIntegerLiteral(lit *ast.IntegerLiteral) (interface{}, error) {
	return lit, nil
}

func (f *folder) VisitIdentifier(ident *ast.Identifier) (interface{}, error) {
	return ident, nil
}

func (f *folder) VisitStatementList(list *ast.StatementList) (interface{}, error) {
	out := ast.NewStatementList(list.Token())
	for _, stmt := range list.Statements() {
		s, err := f.fold(stmt)
		if err != nil {
			return nil, err
		}
		out.Append(s)
	}
	return out, nil
}

func (f *folder) VisitParameterList(list *ast.ParameterList) (interface{}, error) {
	return list, nil
}

func (f *folder) VisitArgumentList(list *ast.ArgumentList) (interface{}, error) {
	out := ast.NewArgumentList(list.Token())
	for _, arg := range list.Args() {
		a, err := f.fold(arg)
		if err != nil {
			return nil, err
		}
		out.Append(a)
	}
	return out, nil
}

func (f *folder) VisitFunctionDef(def *ast.FunctionDef) (interface{}, error) {
	body, err := def.Body().Accept(f)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDef(def.Token(), def.Params(), body.(*ast.StatementList)), nil
}

func (f *folder) VisitFunctionCall(call *ast.FunctionCall) (interface{}, error) {
	callee, err := f.fold(call.Callee())
	if err != nil {
		return nil, err
	}
	args, err := call.Args().Accept(f)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(call.Token(), callee, args.(*ast.ArgumentList)), nil
}

func (f *folder) VisitReturnStmt(stmt *ast.ReturnStmt) (interface{}, error) {
	value, err := f.fold(stmt.Value())
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(stmt.Token(), value), nil
}
