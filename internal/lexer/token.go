package lexer

import (
	"fmt"

	"github.com/hassan/calc/internal/source"
)

// TokenType represents the type of a token.
type TokenType int

// Token type enumeration.
//
// The phony types at the end never come out of the scanner. The parser uses
// them to label AST nodes that are not derived from a single source token
// (statement lists, parameter and argument lists, calls, definitions).
const (
	// TokenEOF marks the end of the input. The lexer keeps returning it
	// once the source is exhausted.
	TokenEOF TokenType = iota

	// Literals and names
	TokenInteger
	TokenIdentifier

	// Keywords
	TokenFunction
	TokenEnd
	TokenReturn

	// Operators
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenAssign // =

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenComma      // ,

	// Phony types
	TokenStatements
	TokenArguments
	TokenParameters
	TokenCall
	TokenDefine
)

// Token represents a single lexical token.
type Token struct {
	// Type is the token type.
	Type TokenType

	// Lexeme is the exact source text of the token. Empty for EOF and
	// phony tokens.
	Lexeme string

	// Position is where the token's first character appears.
	Position source.Position
}

// String renders the token the way the token dump prints it:
// "<offset> : (<TYPE>, <lexeme>)". Example: "4 : (INTEGER, 42)"
func (t Token) String() string {
	return fmt.Sprintf("%d : (%s, %s)", t.Position.Offset, t.Type, t.Lexeme)
}

// Text returns the lexeme, or "EOF" for the end-of-input token. It is the
// form used in syntax error messages.
func (t Token) Text() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return t.Lexeme
}

// Phony creates a synthetic token of the given type at pos.
func Phony(tokenType TokenType, pos source.Position) Token {
	return Token{Type: tokenType, Position: pos}
}

// IsPhony reports whether the token was synthesized by the parser.
func (t Token) IsPhony() bool {
	return t.Type.IsPhony()
}

// String returns the string representation of a token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenInteger:
		return "INTEGER"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenFunction:
		return "FUNCTION"
	case TokenEnd:
		return "END"
	case TokenReturn:
		return "RETURN"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenStar:
		return "STAR"
	case TokenSlash:
		return "SLASH"
	case TokenAssign:
		return "ASSIGN"
	case TokenLeftParen:
		return "LPAREN"
	case TokenRightParen:
		return "RPAREN"
	case TokenComma:
		return "COMMA"
	case TokenStatements:
		return "STATEMENTS"
	case TokenArguments:
		return "ARGUMENTS"
	case TokenParameters:
		return "PARAMETERS"
	case TokenCall:
		return "CALL"
	case TokenDefine:
		return "DEFINE"
	default:
		return "UNKNOWN"
	}
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"function": TokenFunction,
	"end":      TokenEnd,
	"return":   TokenReturn,
}

// LookupKeyword returns the keyword type for word, or TokenIdentifier if
// word is not reserved.
func LookupKeyword(word string) TokenType {
	if tokenType, ok := keywords[word]; ok {
		return tokenType
	}
	return TokenIdentifier
}

// IsPhony returns true for the parser-only types.
func (tt TokenType) IsPhony() bool {
	return tt >= TokenStatements && tt <= TokenDefine
}
