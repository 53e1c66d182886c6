// Package lexer turns calc source text into a stream of tokens.
//
// The stream is lazy and forward-only: the Lexer holds exactly one token of
// lookahead (Current) and produces the next one on Advance. The parser drives
// it token by token.
package lexer

import (
	"unicode"

	"github.com/hassan/calc/internal/diag"
)

// Lexer performs lexical analysis on one source text.
type Lexer struct {
	cursor *Cursor

	// current is the most recently produced token.
	current Token

	// err is the first lexical error. Once set, the lexer is stuck on it:
	// there is no recovery in the middle of a token stream.
	err error
}

// New creates a Lexer for text and scans the first token.
//
// The returned error is a *diag.Error of kind KindLexical if the very first
// token is invalid.
func New(text, filename string) (*Lexer, error) {
	l := &Lexer{cursor: NewCursor(text, filename)}
	if err := l.Advance(); err != nil {
		return nil, err
	}
	return l, nil
}

// Current returns the token under the lexer. It is TokenEOF once the text
// is exhausted.
func (l *Lexer) Current() Token {
	return l.current
}

// Advance consumes the current token and scans the next one.
//
// Advancing past EOF keeps producing EOF tokens.
func (l *Lexer) Advance() error {
	if l.err != nil {
		return l.err
	}
	tok, err := l.scan()
	if err != nil {
		l.err = err
		return err
	}
	l.current = tok
	return nil
}

// Tokenize scans all of text and returns its tokens, the final EOF token
// included. It is the debug view of the token stream.
func Tokenize(text, filename string) ([]Token, error) {
	l, err := New(text, filename)
	if err != nil {
		return nil, err
	}
	tokens := []Token{l.Current()}
	for l.Current().Type != TokenEOF {
		if err := l.Advance(); err != nil {
			return tokens, err
		}
		tokens = append(tokens, l.Current())
	}
	return tokens, nil
}

// scan produces the token starting at the next non-space rune.
func (l *Lexer) scan() (Token, error) {
	c := l.cursor
	c.SkipWhitespace()

	pos := c.Position()
	ch := c.Current()

	switch {
	case ch == EOF:
		return Token{Type: TokenEOF, Position: pos}, nil
	case isDigit(ch):
		return l.scanInteger(), nil
	case isLetter(ch):
		return l.scanWord(), nil
	}

	var tokenType TokenType
	switch ch {
	case '+':
		tokenType = TokenPlus
	case '-':
		tokenType = TokenMinus
	case '*':
		tokenType = TokenStar
	case '/':
		tokenType = TokenSlash
	case '(':
		tokenType = TokenLeftParen
	case ')':
		tokenType = TokenRightParen
	case '=':
		tokenType = TokenAssign
	case ',':
		tokenType = TokenComma
	default:
		return Token{}, diag.New(diag.KindLexical, pos, string(ch),
			"invalid character %q at offset %d", ch, pos.Offset)
	}

	c.Advance()
	return Token{Type: tokenType, Lexeme: string(ch), Position: pos}, nil
}

// scanInteger scans a maximal run of digits.
//
// integer ::= digit+
func (l *Lexer) scanInteger() Token {
	c := l.cursor
	pos := c.Position()
	start := c.Offset()
	for isDigit(c.Current()) {
		c.Advance()
	}
	return Token{Type: TokenInteger, Lexeme: c.Slice(start, c.Offset()), Position: pos}
}

// scanWord scans an identifier and then checks it against the keywords.
//
// identifier ::= letter (letter | digit)*
func (l *Lexer) scanWord() Token {
	c := l.cursor
	pos := c.Position()
	start := c.Offset()
	for ch := c.Current(); isLetter(ch) || isDigit(ch); ch = c.Current() {
		c.Advance()
	}
	text := c.Slice(start, c.Offset())
	return Token{Type: LookupKeyword(text), Lexeme: text, Position: pos}
}

// isLetter accepts Unicode letters. Underscore is not a letter in calc.
func isLetter(ch rune) bool {
	return ch != EOF && unicode.IsLetter(ch)
}

// isDigit accepts ASCII digits only, so every integer lexeme is a valid
// base-10 number.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
