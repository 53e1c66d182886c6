// Package ast defines the abstract syntax tree of calc programs.
//
// The tree is made of a closed set of node types. Each node carries the token
// that produced (or labels) it and an ordered list of children; order matters
// both for evaluation and for the fixed slots some node types have, such as a
// definition's parameter list and body.
//
// Operations on the tree are visitors. Node.Accept calls the Visitor method
// for the node's concrete type, so a visitor that lacks a method for some node
// type does not compile.
package ast

import (
	"github.com/hassan/calc/internal/lexer"
	"github.com/hassan/calc/internal/source"
)

// Kind tags the concrete type of a node.
type Kind int

const (
	KindBinaryExpr Kind = iota
	KindUnaryExpr
	KindIntegerLiteral
	KindIdentifier
	KindStatementList
	KindParameterList
	KindArgumentList
	KindFunctionDef
	KindFunctionCall
	KindReturnStmt
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBinaryExpr:
		return "BinaryExpr"
	case KindUnaryExpr:
		return "UnaryExpr"
	case KindIntegerLiteral:
		return "IntegerLiteral"
	case KindIdentifier:
		return "Identifier"
	case KindStatementList:
		return "StatementList"
	case KindParameterList:
		return "ParameterList"
	case KindArgumentList:
		return "ArgumentList"
	case KindFunctionDef:
		return "FunctionDef"
	case KindFunctionCall:
		return "FunctionCall"
	case KindReturnStmt:
		return "ReturnStmt"
	default:
		return "Unknown"
	}
}

// Node is the interface implemented by every AST node.
type Node interface {
	// Kind returns the node's type tag.
	Kind() Kind

	// Token returns the token the node was built from. Structural nodes
	// carry a phony token.
	Token() lexer.Token

	// Children returns the ordered child list. Callers must not modify it.
	Children() []Node

	// Pos returns the position of the node's token.
	Pos() source.Position

	// Accept dispatches to the Visitor method for the node's type.
	Accept(v Visitor) (interface{}, error)
}

// Visitor is the interface for AST traversal.
//
// Every node type has exactly one method. A visitor decides itself whether
// and in which order to visit children.
//
// EXAMPLE:
//
//	func (in *Interpreter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
//	    v, err := expr.Operand().Accept(in)
//	    ...
//	}
type Visitor interface {
	VisitBinaryExpr(expr *BinaryExpr) (interface{}, error)
	VisitUnaryExpr(expr *UnaryExpr) (interface{}, error)
	VisitIntegerLiteral(lit *IntegerLiteral) (interface{}, error)
	VisitIdentifier(ident *Identifier) (interface{}, error)
	VisitStatementList(list *StatementList) (interface{}, error)
	VisitParameterList(list *ParameterList) (interface{}, error)
	VisitArgumentList(list *ArgumentList) (interface{}, error)
	VisitFunctionDef(def *FunctionDef) (interface{}, error)
	VisitFunctionCall(call *FunctionCall) (interface{}, error)
	VisitReturnStmt(stmt *ReturnStmt) (interface{}, error)
}

// Chunk is the result of parsing one top-level input.
//
// Body holds the statements. Tail is the optional bare expression that ends
// an interactive line (as in "x + 1"); it is nil for programs and for lines
// made only of statements.
type Chunk struct {
	Body *StatementList
	Tail Node
}

// node holds what every node type shares.
type node struct {
	token    lexer.Token
	children []Node
}

func (n *node) Token() lexer.Token   { return n.token }
func (n *node) Children() []Node     { return n.children }
func (n *node) Pos() source.Position { return n.token.Position }

func (n *node) add(child Node) {
	n.children = append(n.children, child)
}

// child returns the child in slot i, or nil if the slot is empty.
func (n *node) child(i int) Node {
	if i < len(n.children) {
		return n.children[i]
	}
	return nil
}

// Equal reports whether two trees have the same shape: the same node kinds,
// token types and lexemes, and children in the same order. Positions are not
// compared.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	ta, tb := a.Token(), b.Token()
	if ta.Type != tb.Type || ta.Lexeme != tb.Lexeme {
		return false
	}
	ca, cb := a.Children(), b.Children()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !Equal(ca[i], cb[i]) {
			return false
		}
	}
	return true
}

// EqualChunks is Equal for whole chunks.
func EqualChunks(a, b *Chunk) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Equal(a.Body, b.Body) && Equal(a.Tail, b.Tail)
}
