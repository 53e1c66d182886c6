// Package parser implements a recursive descent parser for calc.
//
// There is one method per grammar rule. Each method returns the finished
// subtree and leaves the lexer on the first token after the construct.
// Precedence is encoded by nesting: expression calls term, term calls factor,
// so * and / bind tighter than + and -.
//
//	statements      ::= (assignment)* (returnStatement)?
//	assignment      ::= identifier '=' expression
//	                  | 'function' identifier definition
//	returnStatement ::= 'return' expression
//	expression      ::= term (('+'|'-') term)* | 'function' definition
//	definition      ::= '(' parameters ')' statements 'end'
//	parameters      ::= (identifier (',' identifier)*)?
//	term            ::= factor (('*'|'/') factor)*
//	factor          ::= integer | ('+'|'-') factor | prefixExpr
//	prefixExpr      ::= (identifier | '(' expression ')') ('(' arguments ')')*
//	arguments       ::= (expression (',' expression)*)?
//
// Interactive input is parsed with one extra top-level rule that lets a line
// end in a bare expression whose value gets reported:
//
//	chunk ::= (assignment)* (returnStatement | expression)? EOF
//
// ERROR HANDLING:
// The first syntax or lexical error aborts the parse. Rules raise it with a
// bailout panic that the exported entry points recover and return.
// Input nested deeper than MaxNesting is a syntax error as well.
package parser

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/hassan/calc/internal/diag"
	"github.com/hassan/calc/internal/lexer"
	"github.com/hassan/calc/internal/parser/ast"
)

// MaxNesting bounds how deeply parenthesized expressions, unary operators,
// argument lists and function definitions may nest inside each other.
const MaxNesting = 1000

// Parser converts the token stream of one Lexer into a tree.
//
// DESIGN CHOICE: Hand-written recursive descent because:
// - The grammar is LL(1) apart from the chunk rule's identifier lookahead
// - Each rule maps to one method, so the tree shape follows the grammar
// - Error messages name the token the parser stopped at
//
// DESIGN CHOICE: Panic with bailout instead of returning errors.
// Every rule would otherwise return (node, error) and check it after each
// sub-rule. The panic never leaves the package; ParseChunk and
// ParseStatements turn it back into an error.
//
// ALTERNATIVE DESIGNS CONSIDERED:
// 1. Pratt parsing: Overkill for two precedence levels
// 2. Parser generator: Adds a build step for a dozen rules
// 3. Error recovery and multiple diagnostics: Inputs are one line long
type Parser struct {
	lexer *lexer.Lexer

	// depth counts the nesting levels currently open. See MaxNesting.
	depth int
}

// bailout carries the error that aborts a parse up to the entry point.
type bailout struct {
	err error
}

// New creates a parser reading from l. The lexer must be freshly created,
// positioned on the first token.
func New(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// Parse parses one interactive input (a chunk).
func Parse(text, filename string) (*ast.Chunk, error) {
	l, err := lexer.New(text, filename)
	if err != nil {
		return nil, err
	}
	return New(l).ParseChunk()
}

// ParseProgram parses text with the strict statements grammar.
func ParseProgram(text, filename string) (*ast.StatementList, error) {
	l, err := lexer.New(text, filename)
	if err != nil {
		return nil, err
	}
	return New(l).ParseStatements()
}

// ParseChunk parses statements optionally ending in a bare expression, up
// to the end of input.
func (p *Parser) ParseChunk() (chunk *ast.Chunk, err error) {
	defer p.recover(&err)
	chunk = p.chunk()
	p.expectEOF()

	if t := T(); t != nil && t.GetTraceLevel() >= tracing.LevelDebug {
		t.Debugf("parsed %d statements:\n%s", chunk.Body.Len(), ast.Sprint(chunk.Body))
	}
	return chunk, nil
}

// ParseStatements parses a statement list that must cover the whole input.
func (p *Parser) ParseStatements() (list *ast.StatementList, err error) {
	defer p.recover(&err)
	list = p.statements()
	p.expectEOF()
	return list, nil
}

func (p *Parser) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	debugf("parse aborted: %v", b.err)
	*err = b.err
}

// chunk parses the interactive top-level form.
//
// An identifier at the start of a statement cannot be told apart from the
// start of an expression with one token of lookahead, so it is parsed as an
// expression first. A lone identifier followed by '=' becomes an assignment;
// anything else is the trailing expression of the line.
func (p *Parser) chunk() *ast.Chunk {
	body := ast.NewStatementList(lexer.Phony(lexer.TokenStatements, p.current().Position))
	chunk := &ast.Chunk{Body: body}

	for {
		switch p.current().Type {
		case lexer.TokenIdentifier:
			expr := p.expression()
			if target, ok := expr.(*ast.Identifier); ok && p.check(lexer.TokenAssign) {
				assign := p.match(lexer.TokenAssign)
				body.Append(ast.NewAssignment(assign, target, p.expression()))
				continue
			}
			chunk.Tail = expr
			return chunk

		case lexer.TokenFunction:
			fn := p.match(lexer.TokenFunction)
			if p.check(lexer.TokenIdentifier) {
				body.Append(p.namedFunction(fn))
				continue
			}
			chunk.Tail = p.definition()
			return chunk

		case lexer.TokenReturn:
			body.Append(p.returnStatement())
			return chunk

		case lexer.TokenInteger, lexer.TokenLeftParen, lexer.TokenPlus, lexer.TokenMinus:
			chunk.Tail = p.expression()
			return chunk

		default:
			return chunk
		}
	}
}

// statements ::= (assignment)* (returnStatement)?
func (p *Parser) statements() *ast.StatementList {
	list := ast.NewStatementList(lexer.Phony(lexer.TokenStatements, p.current().Position))

	for p.check(lexer.TokenIdentifier) || p.check(lexer.TokenFunction) {
		list.Append(p.assignment())
	}
	if p.check(lexer.TokenReturn) {
		list.Append(p.returnStatement())
	}
	return list
}

// assignment ::= identifier '=' expression | 'function' identifier definition
func (p *Parser) assignment() ast.Node {
	if p.check(lexer.TokenFunction) {
		return p.namedFunction(p.match(lexer.TokenFunction))
	}

	target := ast.NewIdentifier(p.match(lexer.TokenIdentifier))
	assign := p.match(lexer.TokenAssign)
	return ast.NewAssignment(assign, target, p.expression())
}

// namedFunction parses the rest of "function name(...) ... end" after the
// keyword fn and builds the same tree as "name = function(...) ... end".
// The '=' token is synthesized at the keyword's position.
func (p *Parser) namedFunction(fn lexer.Token) *ast.BinaryExpr {
	target := ast.NewIdentifier(p.match(lexer.TokenIdentifier))
	assign := lexer.Token{Type: lexer.TokenAssign, Lexeme: "=", Position: fn.Position}
	return ast.NewAssignment(assign, target, p.definition())
}

// returnStatement ::= 'return' expression
func (p *Parser) returnStatement() *ast.ReturnStmt {
	tok := p.match(lexer.TokenReturn)
	return ast.NewReturn(tok, p.expression())
}

// expression ::= term (('+'|'-') term)* | 'function' definition
func (p *Parser) expression() ast.Node {
	if p.check(lexer.TokenFunction) {
		p.match(lexer.TokenFunction)
		return p.definition()
	}

	left := p.term()
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.current()
		p.advance()
		left = ast.NewBinary(op, left, p.term())
	}
	return left
}

// definition ::= '(' parameters ')' statements 'end'
func (p *Parser) definition() *ast.FunctionDef {
	defer p.nest(p.current())()
	define := lexer.Phony(lexer.TokenDefine, p.current().Position)

	p.match(lexer.TokenLeftParen)
	params := p.parameters()
	p.match(lexer.TokenRightParen)
	body := p.statements()
	p.match(lexer.TokenEnd)

	return ast.NewFunctionDef(define, params, body)
}

// parameters ::= (identifier (',' identifier)*)?
//
// A comma directly before ')' is accepted.
func (p *Parser) parameters() *ast.ParameterList {
	list := ast.NewParameterList(lexer.Phony(lexer.TokenParameters, p.current().Position))

	for !p.check(lexer.TokenRightParen) {
		list.Append(ast.NewIdentifier(p.match(lexer.TokenIdentifier)))
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	return list
}

// term ::= factor (('*'|'/') factor)*
func (p *Parser) term() ast.Node {
	left := p.factor()
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) {
		op := p.current()
		p.advance()
		left = ast.NewBinary(op, left, p.factor())
	}
	return left
}

// factor ::= integer | ('+'|'-') factor | prefixExpr
func (p *Parser) factor() ast.Node {
	tok := p.current()
	switch tok.Type {
	case lexer.TokenPlus, lexer.TokenMinus:
		defer p.nest(tok)()
		p.advance()
		return ast.NewUnary(tok, p.factor())
	case lexer.TokenInteger:
		p.advance()
		return ast.NewInteger(tok)
	case lexer.TokenIdentifier, lexer.TokenLeftParen:
		return p.prefixExpr()
	default:
		p.fail(tok, "expected expression")
		return nil
	}
}

// prefixExpr ::= (identifier | '(' expression ')') ('(' arguments ')')*
//
// Each argument list wraps everything parsed so far, so f(1)(2) calls the
// result of f(1).
func (p *Parser) prefixExpr() ast.Node {
	var root ast.Node
	if p.check(lexer.TokenIdentifier) {
		root = ast.NewIdentifier(p.match(lexer.TokenIdentifier))
	} else {
		root = p.group()
	}

	for p.check(lexer.TokenLeftParen) {
		root = p.call(root)
	}
	return root
}

// group parses '(' expression ')'.
func (p *Parser) group() ast.Node {
	defer p.nest(p.current())()
	p.match(lexer.TokenLeftParen)
	expr := p.expression()
	p.match(lexer.TokenRightParen)
	return expr
}

// call parses '(' arguments ')' applied to callee.
func (p *Parser) call(callee ast.Node) *ast.FunctionCall {
	defer p.nest(p.current())()
	call := lexer.Phony(lexer.TokenCall, p.current().Position)
	p.advance()
	args := p.arguments()
	p.match(lexer.TokenRightParen)
	return ast.NewCall(call, callee, args)
}

// arguments ::= (expression (',' expression)*)?
//
// A comma directly before ')' is accepted.
func (p *Parser) arguments() *ast.ArgumentList {
	list := ast.NewArgumentList(lexer.Phony(lexer.TokenArguments, p.current().Position))

	for !p.check(lexer.TokenRightParen) {
		list.Append(p.expression())
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	return list
}

// Helper methods

func (p *Parser) current() lexer.Token {
	return p.lexer.Current()
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current().Type == tokenType
}

func (p *Parser) advance() {
	if err := p.lexer.Advance(); err != nil {
		panic(bailout{err: err})
	}
}

// match consumes the current token if it has the expected type and returns
// it; otherwise the parse fails on the current token.
func (p *Parser) match(tokenType lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tokenType {
		p.fail(tok, fmt.Sprintf("expected %s", tokenType))
	}
	p.advance()
	return tok
}

// nest opens one nesting level at tok and returns the func that closes it.
// The parse fails once more than MaxNesting levels are open.
func (p *Parser) nest(tok lexer.Token) func() {
	p.depth++
	if p.depth > MaxNesting {
		p.fail(tok, fmt.Sprintf("nested deeper than %d levels", MaxNesting))
	}
	return func() { p.depth-- }
}

func (p *Parser) expectEOF() {
	if tok := p.current(); tok.Type != lexer.TokenEOF {
		p.fail(tok, "expected end of input")
	}
}

// fail aborts the parse with a syntax error around tok.
func (p *Parser) fail(tok lexer.Token, expected string) {
	panic(bailout{err: diag.New(diag.KindSyntax, tok.Position, tok.Text(),
		"syntax error around '%s' (%s)", tok.Text(), expected)})
}
