package optimizer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/hassan/calc/internal/diag"
	"github.com/hassan/calc/internal/interp"
	"github.com/hassan/calc/internal/parser"
	"github.com/hassan/calc/internal/parser/ast"
)

func parse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := parser.Parse(src, "test")
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return chunk
}

// TestConstantFolding tests the constant folding pass
func TestConstantFolding(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string // source whose tree the result must equal
		folded int
	}{
		{name: "fold simple addition", src: "2 + 3", want: "5", folded: 1},
		{name: "fold multiplication", src: "7 * 8", want: "56", folded: 1},
		{name: "fold nested expression", src: "(2 + 3) * 4 - 1", want: "19", folded: 3},
		{name: "negative result", src: "3 - 10", want: "-7", folded: 1},
		{name: "double negation", src: "--3", want: "3", folded: 1},
		{name: "unary plus", src: "+4", want: "4", folded: 1},
		{name: "negative literal stays", src: "-4", want: "-4", folded: 0},
		{name: "truncating division", src: "-7 / 2", want: "-3", folded: 1},
		{name: "division by zero is kept", src: "1 / 0", want: "1 / 0", folded: 0},
		{name: "names are not folded", src: "x + 2 * 3", want: "x + 6", folded: 1},
		{name: "left to right grouping", src: "x + 1 + 2", want: "x + 1 + 2", folded: 0},
		{name: "assignment value", src: "y = 10 * 10", want: "y = 100", folded: 1},
		{
			name:   "function body",
			src:    "function f(a) return a * (2 + 2) end",
			want:   "function f(a) return a * 4 end",
			folded: 1,
		},
		{name: "call arguments", src: "g(1 + 1, 3 * 3)", want: "g(2, 9)", folded: 2},
		{name: "top-level return", src: "return 6 / 3", want: "return 2", folded: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := New()
			got, err := opt.Optimize(parse(t, tt.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := parse(t, tt.want)
			if !ast.EqualChunks(got, want) {
				var g, w strings.Builder
				_ = ast.FprintChunk(&g, got)
				_ = ast.FprintChunk(&w, want)
				t.Errorf("folded tree:\n%s\nwant:\n%s", g.String(), w.String())
			}
			if opt.Stats().ConstantsFolded != tt.folded {
				t.Errorf("folded %d nodes, want %d", opt.Stats().ConstantsFolded, tt.folded)
			}
		})
	}
}

func TestConstantFolding_InputUnchanged(t *testing.T) {
	chunk := parse(t, "x = 2 + 3")
	before := ast.Sprint(chunk.Body)

	if _, err := New().Optimize(chunk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after := ast.Sprint(chunk.Body); after != before {
		t.Errorf("input tree was modified:\n%s\nwas:\n%s", after, before)
	}
}

// TestConstantFolding_SameResult checks that folded and unfolded trees
// evaluate the same way.
func TestConstantFolding_SameResult(t *testing.T) {
	inputs := []string{
		"function sq(n) return n * n end",
		"x = 3 * (4 - 6)",
		"sq(x + 2 * 2) - 10 / 3",
		"-(-(5 - 2))",
		"99999999999999999999 * 3 + x",
	}

	plain := interp.New()
	folded := interp.New()
	opt := New()

	for _, src := range inputs {
		want, err := plain.Run(parse(t, src))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", src, err)
		}

		chunk, err := opt.Optimize(parse(t, src))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", src, err)
		}
		got, err := folded.Run(chunk)
		if err != nil {
			t.Fatalf("%q folded: unexpected error: %v", src, err)
		}

		if interp.Format(got) != interp.Format(want) {
			t.Errorf("%q: folded gives %q, unfolded %q", src, interp.Format(got), interp.Format(want))
		}
	}
}

func TestConstantFolding_KeepsDivisionError(t *testing.T) {
	chunk, err := New().Optimize(parse(t, "(4 - 4) * 0 + 8 / (2 - 2)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = interp.New().Run(chunk)
	if diag.KindOf(err) != diag.KindDivisionByZero {
		t.Errorf("expected DivisionByZeroError, got %v", err)
	}
}

func TestOptimizeProgram(t *testing.T) {
	list, err := parser.ParseProgram("a = 1 + 1 return a * (3 - 1)", "prog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := New().OptimizeProgram(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := parser.ParseProgram("a = 2 return a * 2", "prog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ast.Equal(out, want) {
		t.Errorf("unexpected program:\n%s", ast.Sprint(out))
	}
}

type countingPass struct {
	runs int
}

func (p *countingPass) Name() string { return "Counting" }

func (p *countingPass) Run(chunk *ast.Chunk, stats *Stats) (*ast.Chunk, error) {
	p.runs++
	return chunk, nil
}

func TestOptimizer_AddPass(t *testing.T) {
	opt := New()
	pass := &countingPass{}
	opt.AddPass(pass)

	for i := 0; i < 3; i++ {
		if _, err := opt.Optimize(parse(t, "1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if pass.runs != 3 {
		t.Errorf("custom pass ran %d times, want 3", pass.runs)
	}
	stats := opt.Stats()
	if stats.PassExecutions["ConstantFolding"] != 3 || stats.PassExecutions["Counting"] != 3 {
		t.Errorf("unexpected pass executions %v", stats.PassExecutions)
	}
	if !strings.Contains(stats.String(), "Pass runs: 6") {
		t.Errorf("unexpected summary %q", stats.String())
	}
}

func TestOptimizer_TracesUnchangedTrees(t *testing.T) {
	var buf bytes.Buffer
	tracer := gologadapter.New()
	tracer.SetOutput(&buf)
	tracer.SetTraceLevel(tracing.LevelDebug)

	saved := gtrace.EquationsTracer
	gtrace.EquationsTracer = tracer
	defer func() { gtrace.EquationsTracer = saved }()

	opt := New()
	if _, err := opt.Optimize(parse(t, "x + 1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "ConstantFolding left the tree unchanged") {
		t.Errorf("unchanged tree not traced:\n%s", buf.String())
	}

	buf.Reset()
	if _, err := opt.Optimize(parse(t, "x + 2 * 3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "unchanged") {
		t.Errorf("folded tree traced as unchanged:\n%s", buf.String())
	}
}
