package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer is a Visitor that writes an indented outline of a tree.
//
// EXAMPLE: the tree of "3 * 2 + 5" prints as
//
//	+
//	    *
//	        3
//	        2
//	    5
type Printer struct {
	w      io.Writer
	indent int
}

var _ Visitor = (*Printer)(nil)

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Fprint writes the outline of n to w.
func Fprint(w io.Writer, n Node) error {
	_, err := n.Accept(NewPrinter(w))
	return err
}

// FprintChunk writes the outline of a whole chunk: its statements, then the
// trailing expression if there is one.
func FprintChunk(w io.Writer, c *Chunk) error {
	p := NewPrinter(w)
	if _, err := c.Body.Accept(p); err != nil {
		return err
	}
	if c.Tail == nil {
		return nil
	}
	_, err := c.Tail.Accept(p)
	return err
}

// Sprint returns the outline of n as a string.
func Sprint(n Node) string {
	var b strings.Builder
	_ = Fprint(&b, n)
	return b.String()
}

func (p *Printer) write(text string) error {
	_, err := fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("    ", p.indent), text)
	return err
}

// label is the text a node's token contributes to the outline.
func label(n Node) string {
	tok := n.Token()
	if tok.IsPhony() {
		return tok.Type.String()
	}
	return tok.Lexeme
}

// nested writes heading and then the children one level deeper.
func (p *Printer) nested(heading string, children []Node) error {
	if err := p.write(heading); err != nil {
		return err
	}
	p.indent++
	defer func() { p.indent-- }()

	if len(children) == 0 {
		return p.write("<null>")
	}
	for _, child := range children {
		if _, err := child.Accept(p); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	return nil, p.nested(label(expr), expr.Children())
}

func (p *Printer) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	return nil, p.nested(label(expr)+" (Unary)", expr.Children())
}

func (p *Printer) VisitIntegerLiteral(lit *IntegerLiteral) (interface{}, error) {
	return nil, p.write(lit.Text())
}

func (p *Printer) VisitIdentifier(ident *Identifier) (interface{}, error) {
	return nil, p.write(ident.Name())
}

func (p *Printer) VisitStatementList(list *StatementList) (interface{}, error) {
	return nil, p.nested(label(list), list.Statements())
}

// Parameter and argument lists are printed by their definition or call.

func (p *Printer) VisitParameterList(list *ParameterList) (interface{}, error) {
	return nil, nil
}

func (p *Printer) VisitArgumentList(list *ArgumentList) (interface{}, error) {
	return nil, nil
}

func (p *Printer) VisitFunctionDef(def *FunctionDef) (interface{}, error) {
	if err := p.nested("function definition (parameters part):", def.Params().Children()); err != nil {
		return nil, err
	}
	return nil, p.nested("function definition (body part):", []Node{def.Body()})
}

func (p *Printer) VisitFunctionCall(call *FunctionCall) (interface{}, error) {
	if err := p.nested("function call (prefix part):", []Node{call.Callee()}); err != nil {
		return nil, err
	}
	return nil, p.nested("function call (arguments part):", call.Args().Args())
}

func (p *Printer) VisitReturnStmt(stmt *ReturnStmt) (interface{}, error) {
	return nil, p.nested(label(stmt), stmt.Children())
}
