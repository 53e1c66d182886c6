package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/hassan/calc/internal/source"
)

// EOF is the sentinel rune Cursor.Current returns past the last character.
const EOF rune = -1

// Cursor walks the source text one rune at a time.
//
// It always has a current rune (or EOF) available and knows the position of
// that rune, which is what the lexer stamps onto the token it starts there.
type Cursor struct {
	text     string
	filename string

	// offset is the byte offset of ch; width is its encoded size.
	offset int
	width  int
	ch     rune

	// line is 1-based; lineStart is the byte offset where it begins.
	line      int
	lineStart int
}

// NewCursor creates a cursor positioned on the first rune of text.
func NewCursor(text, filename string) *Cursor {
	c := &Cursor{
		text:     text,
		filename: filename,
		line:     1,
	}
	c.decode()
	return c
}

// Current returns the rune under the cursor, or EOF.
func (c *Cursor) Current() rune {
	return c.ch
}

// Advance moves one rune forward. It is a no-op at EOF.
func (c *Cursor) Advance() {
	if c.ch == EOF {
		return
	}
	if c.ch == '\n' {
		c.line++
		c.lineStart = c.offset + c.width
	}
	c.offset += c.width
	c.decode()
}

// SkipWhitespace advances while the current rune is whitespace.
func (c *Cursor) SkipWhitespace() {
	for c.ch != EOF && unicode.IsSpace(c.ch) {
		c.Advance()
	}
}

// Offset returns the byte offset of the current rune.
func (c *Cursor) Offset() int {
	return c.offset
}

// Position returns the full position of the current rune.
func (c *Cursor) Position() source.Position {
	return source.Position{
		Filename: c.filename,
		Offset:   c.offset,
		Line:     c.line,
		Column:   utf8.RuneCountInString(c.text[c.lineStart:c.offset]) + 1,
	}
}

// Slice returns the text between two offsets previously reported by Offset.
func (c *Cursor) Slice(start, end int) string {
	return c.text[start:end]
}

func (c *Cursor) decode() {
	if c.offset >= len(c.text) {
		c.ch, c.width = EOF, 0
		return
	}
	c.ch, c.width = utf8.DecodeRuneInString(c.text[c.offset:])
}
