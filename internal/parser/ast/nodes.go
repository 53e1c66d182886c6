package ast

import (
	"github.com/hassan/calc/internal/lexer"
)

// BinaryExpr represents left op right for + - * / and assignment.
//
// Assignment is a BinaryExpr whose operator is TokenAssign and whose left
// child is the target Identifier.
type BinaryExpr struct {
	node
}

// NewBinary builds a BinaryExpr labeled with the operator token op.
func NewBinary(op lexer.Token, left, right Node) *BinaryExpr {
	b := &BinaryExpr{node{token: op}}
	b.add(left)
	b.add(right)
	return b
}

// NewAssignment builds target = value. assign is the '=' token, real or
// synthesized by the function-definition shorthand.
func NewAssignment(assign lexer.Token, target *Identifier, value Node) *BinaryExpr {
	return NewBinary(assign, target, value)
}

func (b *BinaryExpr) Kind() Kind { return KindBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitBinaryExpr(b)
}

// Operator returns the operator's token type.
func (b *BinaryExpr) Operator() lexer.TokenType { return b.token.Type }

// Left returns child 0.
func (b *BinaryExpr) Left() Node { return b.child(0) }

// Right returns child 1.
func (b *BinaryExpr) Right() Node { return b.child(1) }

// IsAssignment reports whether this is target = value.
func (b *BinaryExpr) IsAssignment() bool { return b.token.Type == lexer.TokenAssign }

// Target returns the assigned identifier, or nil if b is not an assignment.
func (b *BinaryExpr) Target() *Identifier {
	if !b.IsAssignment() {
		return nil
	}
	ident, _ := b.Left().(*Identifier)
	return ident
}

// UnaryExpr represents a prefix + or - applied to one operand.
type UnaryExpr struct {
	node
}

// NewUnary builds op operand.
func NewUnary(op lexer.Token, operand Node) *UnaryExpr {
	u := &UnaryExpr{node{token: op}}
	u.add(operand)
	return u
}

func (u *UnaryExpr) Kind() Kind { return KindUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitUnaryExpr(u)
}

// Operator returns the operator's token type.
func (u *UnaryExpr) Operator() lexer.TokenType { return u.token.Type }

// Operand returns child 0.
func (u *UnaryExpr) Operand() Node { return u.child(0) }

// IntegerLiteral represents a run of decimal digits. The value is parsed by
// whoever needs it; the node keeps the digits exactly as written.
type IntegerLiteral struct {
	node
}

// NewInteger wraps an INTEGER token.
func NewInteger(tok lexer.Token) *IntegerLiteral {
	return &IntegerLiteral{node{token: tok}}
}

func (i *IntegerLiteral) Kind() Kind { return KindIntegerLiteral }
func (i *IntegerLiteral) Accept(v Visitor) (interface{}, error) {
	return v.VisitIntegerLiteral(i)
}

// Text returns the digits.
func (i *IntegerLiteral) Text() string { return i.token.Lexeme }

// Identifier represents a name, either read or assigned.
type Identifier struct {
	node
}

// NewIdentifier wraps an IDENTIFIER token.
func NewIdentifier(tok lexer.Token) *Identifier {
	return &Identifier{node{token: tok}}
}

func (i *Identifier) Kind() Kind { return KindIdentifier }
func (i *Identifier) Accept(v Visitor) (interface{}, error) {
	return v.VisitIdentifier(i)
}

// Name returns the identifier text.
func (i *Identifier) Name() string { return i.token.Lexeme }

// StatementList is an ordered sequence of statements: assignments, possibly
// ending in a ReturnStmt.
type StatementList struct {
	node
}

// NewStatementList creates an empty list labeled with a phony STATEMENTS token.
func NewStatementList(tok lexer.Token) *StatementList {
	return &StatementList{node{token: tok}}
}

func (s *StatementList) Kind() Kind { return KindStatementList }
func (s *StatementList) Accept(v Visitor) (interface{}, error) {
	return v.VisitStatementList(s)
}

// Append adds a statement at the end. Only the parser calls it.
func (s *StatementList) Append(stmt Node) { s.add(stmt) }

// Statements returns the statements in order.
func (s *StatementList) Statements() []Node { return s.children }

// Len returns the number of statements.
func (s *StatementList) Len() int { return len(s.children) }

// ParameterList is the list of parameter names of a definition.
type ParameterList struct {
	node
}

// NewParameterList creates an empty list labeled with a phony PARAMETERS token.
func NewParameterList(tok lexer.Token) *ParameterList {
	return &ParameterList{node{token: tok}}
}

func (p *ParameterList) Kind() Kind { return KindParameterList }
func (p *ParameterList) Accept(v Visitor) (interface{}, error) {
	return v.VisitParameterList(p)
}

// Append adds a parameter. Only the parser calls it.
func (p *ParameterList) Append(param *Identifier) { p.add(param) }

// Len returns the number of parameters.
func (p *ParameterList) Len() int { return len(p.children) }

// Names returns the parameter names in declaration order.
func (p *ParameterList) Names() []string {
	names := make([]string, 0, len(p.children))
	for _, child := range p.children {
		names = append(names, child.(*Identifier).Name())
	}
	return names
}

// ArgumentList is the list of argument expressions of a call.
type ArgumentList struct {
	node
}

// NewArgumentList creates an empty list labeled with a phony ARGUMENTS token.
func NewArgumentList(tok lexer.Token) *ArgumentList {
	return &ArgumentList{node{token: tok}}
}

func (a *ArgumentList) Kind() Kind { return KindArgumentList }
func (a *ArgumentList) Accept(v Visitor) (interface{}, error) {
	return v.VisitArgumentList(a)
}

// Append adds an argument. Only the parser calls it.
func (a *ArgumentList) Append(arg Node) { a.add(arg) }

// Args returns the argument expressions in order.
func (a *ArgumentList) Args() []Node { return a.children }

// Len returns the number of arguments.
func (a *ArgumentList) Len() int { return len(a.children) }

// FunctionDef is a function literal: function(params) body end.
//
// Child 0 is always the ParameterList, child 1 always the body.
type FunctionDef struct {
	node
}

// NewFunctionDef builds a definition labeled with a phony DEFINE token.
func NewFunctionDef(tok lexer.Token, params *ParameterList, body *StatementList) *FunctionDef {
	f := &FunctionDef{node{token: tok}}
	f.add(params)
	f.add(body)
	return f
}

func (f *FunctionDef) Kind() Kind { return KindFunctionDef }
func (f *FunctionDef) Accept(v Visitor) (interface{}, error) {
	return v.VisitFunctionDef(f)
}

// Params returns child 0.
func (f *FunctionDef) Params() *ParameterList { return f.children[0].(*ParameterList) }

// Body returns child 1.
func (f *FunctionDef) Body() *StatementList { return f.children[1].(*StatementList) }

// FunctionCall applies a callee expression to an argument list.
//
// Child 0 is the callee (any prefix expression, including another call),
// child 1 the ArgumentList.
type FunctionCall struct {
	node
}

// NewCall builds a call labeled with a phony CALL token.
func NewCall(tok lexer.Token, callee Node, args *ArgumentList) *FunctionCall {
	c := &FunctionCall{node{token: tok}}
	c.add(callee)
	c.add(args)
	return c
}

func (c *FunctionCall) Kind() Kind { return KindFunctionCall }
func (c *FunctionCall) Accept(v Visitor) (interface{}, error) {
	return v.VisitFunctionCall(c)
}

// Callee returns child 0.
func (c *FunctionCall) Callee() Node { return c.child(0) }

// Args returns child 1.
func (c *FunctionCall) Args() *ArgumentList { return c.children[1].(*ArgumentList) }

// ReturnStmt stores its value as the result of the active call.
type ReturnStmt struct {
	node
}

// NewReturn builds return value, labeled with the 'return' token.
func NewReturn(tok lexer.Token, value Node) *ReturnStmt {
	r := &ReturnStmt{node{token: tok}}
	r.add(value)
	return r
}

func (r *ReturnStmt) Kind() Kind { return KindReturnStmt }
func (r *ReturnStmt) Accept(v Visitor) (interface{}, error) {
	return v.VisitReturnStmt(r)
}

// Value returns child 0.
func (r *ReturnStmt) Value() Node { return r.child(0) }
