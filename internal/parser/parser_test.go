package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/hassan/calc/internal/diag"
	"github.com/hassan/calc/internal/parser/ast"
)

// outline parses src as a chunk and returns its printed tree.
func outline(t *testing.T, src string) string {
	t.Helper()
	chunk, err := Parse(src, "test")
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	var b strings.Builder
	if err := ast.FprintChunk(&b, chunk); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	return b.String()
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "product binds tighter than sum",
			src:  "3 * 2 + 5",
			want: lines("STATEMENTS", "    <null>", "+", "    *", "        3", "        2", "    5"),
		},
		{
			name: "sum then product",
			src:  "2 + 3 * 4",
			want: lines("STATEMENTS", "    <null>", "+", "    2", "    *", "        3", "        4"),
		},
		{
			name: "subtraction is left associative",
			src:  "10 - 3 - 2",
			want: lines("STATEMENTS", "    <null>", "-", "    -", "        10", "        3", "    2"),
		},
		{
			name: "division is left associative",
			src:  "8 / 4 / 2",
			want: lines("STATEMENTS", "    <null>", "/", "    /", "        8", "        4", "    2"),
		},
		{
			name: "parentheses override precedence",
			src:  "(2 + 3) * 4",
			want: lines("STATEMENTS", "    <null>", "*", "    +", "        2", "        3", "    4"),
		},
		{
			name: "unary minus nests",
			src:  "- -3",
			want: lines("STATEMENTS", "    <null>", "- (Unary)", "    - (Unary)", "        3"),
		},
		{
			name: "unary binds tighter than product",
			src:  "-2 * 3",
			want: lines("STATEMENTS", "    <null>", "*", "    - (Unary)", "        2", "    3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outline(t, tt.src); got != tt.want {
				t.Errorf("Parse(%q):\n%s\nwant:\n%s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParse_Assignment(t *testing.T) {
	chunk, err := Parse("x = 5 y = x + 1", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Tail != nil {
		t.Errorf("expected no tail, got %v", chunk.Tail.Kind())
	}
	if chunk.Body.Len() != 2 {
		t.Fatalf("expected 2 statements, got %d", chunk.Body.Len())
	}
	for i, name := range []string{"x", "y"} {
		stmt, ok := chunk.Body.Statements()[i].(*ast.BinaryExpr)
		if !ok || !stmt.IsAssignment() {
			t.Fatalf("statement %d is not an assignment", i)
		}
		if stmt.Target().Name() != name {
			t.Errorf("statement %d assigns %q, want %q", i, stmt.Target().Name(), name)
		}
	}
}

func TestParse_Tail(t *testing.T) {
	chunk, err := Parse("x = 5 x + 1", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Body.Len() != 1 {
		t.Errorf("expected 1 statement, got %d", chunk.Body.Len())
	}
	if chunk.Tail == nil || chunk.Tail.Kind() != ast.KindBinaryExpr {
		t.Fatalf("expected a sum as tail, got %v", chunk.Tail)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, src := range []string{"", "   \n\t "} {
		chunk, err := Parse(src, "test")
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", src, err)
		}
		if chunk.Body.Len() != 0 || chunk.Tail != nil {
			t.Errorf("Parse(%q) should be empty", src)
		}
	}
}

func TestParse_ChainedCalls(t *testing.T) {
	want := lines(
		"STATEMENTS",
		"    <null>",
		"function call (prefix part):",
		"    function call (prefix part):",
		"        f",
		"    function call (arguments part):",
		"        1",
		"function call (arguments part):",
		"    2",
		"    3",
	)
	if got := outline(t, "f(1)(2, 3)"); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestParse_CallOfParenthesized(t *testing.T) {
	chunk, err := Parse("(function(a) return a end)(3)", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := chunk.Tail.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected a call, got %T", chunk.Tail)
	}
	if _, ok := call.Callee().(*ast.FunctionDef); !ok {
		t.Errorf("expected a definition as callee, got %T", call.Callee())
	}
}

func TestParse_TrailingComma(t *testing.T) {
	tests := []struct {
		src    string
		params int
		args   int
	}{
		{"f = function(a, b,) return a end f(1, 2,)", 2, 2},
		{"f = function() return 1 end f()", 0, 0},
		{"f = function(a) return a end f(1)", 1, 1},
	}

	for _, tt := range tests {
		chunk, err := Parse(tt.src, "test")
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.src, err)
		}
		def := chunk.Body.Statements()[0].(*ast.BinaryExpr).Right().(*ast.FunctionDef)
		if def.Params().Len() != tt.params {
			t.Errorf("%q: expected %d parameters, got %d", tt.src, tt.params, def.Params().Len())
		}
		call := chunk.Tail.(*ast.FunctionCall)
		if call.Args().Len() != tt.args {
			t.Errorf("%q: expected %d arguments, got %d", tt.src, tt.args, call.Args().Len())
		}
	}
}

func TestParse_FunctionShorthand(t *testing.T) {
	sugar, err := Parse("function f(a, b) return a + b end", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plain, err := Parse("f = function(a, b) return a + b end", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ast.EqualChunks(sugar, plain) {
		t.Errorf("shorthand differs from assignment:\n%s\nvs\n%s",
			ast.Sprint(sugar.Body), ast.Sprint(plain.Body))
	}
}

func TestParse_FunctionBody(t *testing.T) {
	src := "function f(a) x = a * 2 y = x + 1 return y end"
	chunk, err := Parse(src, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := chunk.Body.Statements()[0].(*ast.BinaryExpr).Right().(*ast.FunctionDef)
	body := def.Body().Statements()
	if len(body) != 3 {
		t.Fatalf("expected 3 body statements, got %d", len(body))
	}
	if _, ok := body[2].(*ast.ReturnStmt); !ok {
		t.Errorf("expected return last, got %T", body[2])
	}
}

func TestParse_NestedDefinition(t *testing.T) {
	src := "function outer(a) function inner(b) return a + b end return inner end"
	chunk, err := Parse(src, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer := chunk.Body.Statements()[0].(*ast.BinaryExpr).Right().(*ast.FunctionDef)
	inner, ok := outer.Body().Statements()[0].(*ast.BinaryExpr)
	if !ok || inner.Target().Name() != "inner" {
		t.Fatalf("expected inner definition, got %v", outer.Body().Statements()[0])
	}
}

func TestParse_AnonymousTail(t *testing.T) {
	chunk, err := Parse("function(a) return a end", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Body.Len() != 0 {
		t.Errorf("expected no statements, got %d", chunk.Body.Len())
	}
	if _, ok := chunk.Tail.(*ast.FunctionDef); !ok {
		t.Errorf("expected a definition as tail, got %T", chunk.Tail)
	}
}

func TestParse_TopLevelReturn(t *testing.T) {
	chunk, err := Parse("x = 2 return x * 3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunk.Body.Len() != 2 || chunk.Tail != nil {
		t.Fatalf("expected 2 statements and no tail")
	}
	if _, ok := chunk.Body.Statements()[1].(*ast.ReturnStmt); !ok {
		t.Errorf("expected a return statement, got %T", chunk.Body.Statements()[1])
	}
}

func TestParse_Idempotent(t *testing.T) {
	src := "function f(n) return n * 2 end x = f(3) + -1 x"
	a, err := Parse(src, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Parse(src, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ast.EqualChunks(a, b) {
		t.Error("parsing the same text twice gave different trees")
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		subject string
	}{
		{"missing operand", "x = 1 +", "EOF"},
		{"unclosed paren", "(1 + 2", "EOF"},
		{"missing end", "function f() return 1", "EOF"},
		{"reserved word as target", "return = 3", "="},
		{"keyword as parameter", "function f(end) return 1 end", "end"},
		{"arguments need commas", "f(1 2)", "2"},
		{"only a name can be assigned", "f(1) = 3", "="},
		{"sum cannot be assigned", "x + 1 = 3", "="},
		{"nothing after return", "return 1 x = 2", "x"},
		{"stray closing paren", ")", ")"},
		{"leading comma", "f(,)", ","},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "test")
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.src)
			}
			if !errors.Is(err, diag.ErrSyntax) {
				t.Fatalf("expected a syntax error, got %v", err)
			}
			var d *diag.Error
			if !errors.As(err, &d) {
				t.Fatalf("expected *diag.Error, got %T", err)
			}
			if d.Subject != tt.subject {
				t.Errorf("error is around %q, want %q", d.Subject, tt.subject)
			}
			if !strings.Contains(d.Message, "'"+tt.subject+"'") {
				t.Errorf("message %q does not quote %q", d.Message, tt.subject)
			}
		})
	}
}

func TestParse_SyntaxErrorPosition(t *testing.T) {
	_, err := Parse("x = 1\ny = * 2", "input.calc")
	var d *diag.Error
	if !errors.As(err, &d) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if d.Pos.Line != 2 || d.Pos.Column != 5 {
		t.Errorf("error at %s, want line 2 column 5", d.Pos)
	}
	if d.Pos.Filename != "input.calc" {
		t.Errorf("unexpected filename %q", d.Pos.Filename)
	}
}

func TestParse_LexicalError(t *testing.T) {
	_, err := Parse("x = 1 $ 2", "test")
	if !errors.Is(err, diag.ErrLexical) {
		t.Fatalf("expected a lexical error, got %v", err)
	}

	_, err = Parse("$", "test")
	if !errors.Is(err, diag.ErrLexical) {
		t.Fatalf("expected a lexical error on the first token, got %v", err)
	}
}

func TestParseProgram(t *testing.T) {
	list, err := ParseProgram("function sq(n) return n * n end\nx = sq(4)\nreturn x", "prog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Len() != 3 {
		t.Errorf("expected 3 statements, got %d", list.Len())
	}

	// The strict grammar has no bare expressions.
	if _, err := ParseProgram("x + 1", "prog"); !errors.Is(err, diag.ErrSyntax) {
		t.Errorf("expected a syntax error, got %v", err)
	}
}

func TestParse_Nesting(t *testing.T) {
	nested := func(open, inner, close string, n int) string {
		return strings.Repeat(open, n) + inner + strings.Repeat(close, n)
	}

	tests := []struct {
		name string
		src  string
		ok   bool
	}{
		{"parens at the limit", nested("(", "1", ")", MaxNesting), true},
		{"parens over the limit", nested("(", "1", ")", MaxNesting+1), false},
		{"unary at the limit", nested("-", "1", "", MaxNesting), true},
		{"unary over the limit", nested("-", "1", "", MaxNesting+1), false},
		{"mixed unary and parens", nested("-(", "1", ")", MaxNesting), false},
		{"nested calls", nested("f(", "1", ")", MaxNesting+1), false},
		{"nested definitions", nested("function() return ", "1", " end", MaxNesting+1), false},
		{"runaway parens", strings.Repeat("(", 1_000_000), false},
		{"runaway minus signs", strings.Repeat("-", 1_000_000) + "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, "test")
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, diag.ErrSyntax) {
				t.Fatalf("expected a syntax error, got %v", err)
			}
			if !strings.Contains(err.Error(), "nested deeper than") {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestParse_ChainedCallsDoNotNest(t *testing.T) {
	src := "f" + strings.Repeat("()", MaxNesting*2)
	if _, err := Parse(src, "test"); err != nil {
		t.Fatalf("a long call chain is not nesting: %v", err)
	}
}
