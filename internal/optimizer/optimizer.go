// Package optimizer rewrites calc syntax trees before evaluation.
//
// Passes never modify the tree they are given. Each returns a new tree, which
// may share unchanged subtrees with the input. A rewritten tree evaluates to
// the same value and raises the same errors as the unoptimized one.
package optimizer

import (
	"fmt"

	"github.com/hassan/calc/internal/parser/ast"
)

// Pass is one tree rewrite.
type Pass interface {
	// Name returns a human-readable name for this pass
	Name() string

	// Run rewrites chunk and returns the result. It reports how many
	// nodes it replaced in stats.
	Run(chunk *ast.Chunk, stats *Stats) (*ast.Chunk, error)
}

// Optimizer runs a sequence of passes.
type Optimizer struct {
	passes []Pass
	stats  *Stats
}

// New creates an optimizer with the default passes.
func New() *Optimizer {
	o := &Optimizer{stats: NewStats()}
	o.AddPass(&ConstantFoldingPass{})
	return o
}

// AddPass appends a pass to run after the existing ones.
func (o *Optimizer) AddPass(pass Pass) {
	o.passes = append(o.passes, pass)
}

// Stats returns the counters accumulated over all Optimize calls.
func (o *Optimizer) Stats() *Stats {
	return o.stats
}

// Optimize runs every pass in order on chunk.
func (o *Optimizer) Optimize(chunk *ast.Chunk) (*ast.Chunk, error) {
	for _, pass := range o.passes {
		if t := T(); t != nil {
			t.Debugf("running %s", pass.Name())
		}

		out, err := pass.Run(chunk, o.stats)
		if err != nil {
			return nil, fmt.Errorf("pass %s failed: %w", pass.Name(), err)
		}
		o.stats.PassExecutions[pass.Name()]++
		if t := T(); t != nil && ast.EqualChunks(chunk, out) {
			t.Debugf("%s left the tree unchanged", pass.Name())
		}
		chunk = out
	}
	return chunk, nil
}

// OptimizeProgram runs every pass on a statement list.
func (o *Optimizer) OptimizeProgram(list *ast.StatementList) (*ast.StatementList, error) {
	chunk, err := o.Optimize(&ast.Chunk{Body: list})
	if err != nil {
		return nil, err
	}
	return chunk.Body, nil
}

// Stats tracks what the passes did.
type Stats struct {
	// ConstantsFolded is the number of operator nodes replaced by their value
	ConstantsFolded int

	// PassExecutions tracks how many times each pass ran
	PassExecutions map[string]int
}

// NewStats creates a new stats tracker.
func NewStats() *Stats {
	return &Stats{
		PassExecutions: make(map[string]int),
	}
}

// String returns a human-readable summary of optimization statistics.
func (s *Stats) String() string {
	runs := 0
	for _, n := range s.PassExecutions {
		runs += n
	}
	return fmt.Sprintf("Optimization Stats:\n"+
		"  Pass runs: %d\n"+
		"  Constants folded: %d\n",
		runs,
		s.ConstantsFolded)
}
