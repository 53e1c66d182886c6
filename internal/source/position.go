// Package source describes locations in calc source text.
//
// Every token, AST node and diagnostic carries a Position so that errors can
// point back at the exact character that caused them.
package source

import "strconv"

// Position represents a location in the source text.
//
// Offset is the one value the language itself cares about: it is the byte
// offset of a token's first character and is what the token dump prints.
// Line and Column are derived while scanning and only used for diagnostics.
type Position struct {
	// Filename is the name of the source ("<stdin>" for REPL lines).
	Filename string

	// Offset is the 0-based byte offset from the start of the text.
	Offset int

	// Line is the 1-based line number. Zero means "no position".
	Line int

	// Column is the 1-based column, counted in runes.
	Column int
}

// String returns the position in the familiar file:line:column form.
// Example: "<stdin>:1:7"
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	name := p.Filename
	if name == "" {
		name = "<input>"
	}
	return name + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position was produced by the scanner.
// The zero Position is invalid.
func (p Position) IsValid() bool {
	return p.Line > 0
}
