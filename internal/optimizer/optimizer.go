// Package optimizer implements the syntax-level optimization pipeline of
// the Quill compiler. It rewrites a parsed program in place into a smaller
// but observably equivalent tree before code generation: constant folding,
// dead code elimination and algebraic simplification, driven to a fixed
// point by the Pipeline.
//
// The optimizer runs before type checking, so every rule is restricted to
// rewrites that are safe without type information. Rules never fail on a
// well-formed tree; they either fire or leave the node untouched.
package optimizer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/quill-lang/quill/internal/ast"
)

// Pass is one optimization transformation over the syntax tree.
// All three operations mutate the tree in place and report whether
// anything under the given node changed.
type Pass interface {
	// Name returns a human-readable name for this pass.
	Name() string

	// RewriteExpression rewrites the expression held in the given slot,
	// recursing into every child position.
	RewriteExpression(expr *ast.Expression) bool

	// RewriteStatement rewrites one statement, recursing into held
	// expressions and nested blocks according to the pass's scope.
	RewriteStatement(stmt ast.Statement) bool

	// RewriteProgram rewrites every function body of the program.
	RewriteProgram(prog *ast.Program) bool

	// Stats returns the counters accumulated since the pass was created.
	Stats() Stats
}

// Stats tracks the effectiveness of a pass across pipeline rounds.
type Stats struct {
	PassName         string
	NodesVisited     int
	NodesTransformed int
	ConstantsFolded  int
	DeadCodeRemoved  int
	Simplified       int
}

// String returns a one-line rendering of the counters.
func (s Stats) String() string {
	return fmt.Sprintf("pass: %s, visited: %d, transformed: %d, constants: %d, dead: %d, simplified: %d",
		s.PassName, s.NodesVisited, s.NodesTransformed, s.ConstantsFolded, s.DeadCodeRemoved, s.Simplified)
}

// Logger prints pipeline diagnostics. Output never influences the tree.
type Logger struct {
	Debug bool
	Out   io.Writer
}

// NewLogger creates a logger writing to stderr.
func NewLogger(debug bool) *Logger {
	return &Logger{Debug: debug, Out: os.Stderr}
}

// Debugf logs a debug message when debug logging is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || !l.Debug {
		return
	}
	fmt.Fprintf(l.Out, "[DEBUG] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// Warnf logs a warning message unconditionally.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.Out, "[WARN] %s: %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// DefaultMaxRounds bounds the fixed-point loop. The pipeline converges in
// a handful of rounds on real programs; the cap exists purely as a
// termination guarantee against undiscovered rule cycles.
const DefaultMaxRounds = 64

// Options configures a Pipeline.
type Options struct {
	// Debug enables per-round diagnostic logging.
	Debug bool
	// MaxRounds overrides DefaultMaxRounds when positive.
	MaxRounds int
}

// Pipeline owns the ordered pass list and drives it to a fixed point.
//
// The order matters: constant folding runs first because it produces the
// literal conditions and operands the other two passes act on.
type Pipeline struct {
	passes []Pass
	opts   Options
	logger *Logger
	rounds int
}

// NewPipeline creates a pipeline with the standard pass order:
// constant folding, dead code elimination, algebraic simplification.
func NewPipeline(opts Options) *Pipeline {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	return &Pipeline{
		passes: []Pass{
			NewConstantFolding(),
			NewDeadCodeElimination(),
			NewSimplification(),
		},
		opts:   opts,
		logger: NewLogger(opts.Debug),
	}
}

// SetLogger replaces the pipeline's logger. Passing nil silences it.
func (p *Pipeline) SetLogger(logger *Logger) {
	p.logger = logger
}

// Optimize rewrites the program in place until a full round changes
// nothing or the round cap is hit. It reports whether anything changed
// overall. The error return exists for composability with the rest of the
// compiler's conventions; no rule is defined to fail on a well-formed
// tree, so the only error is a nil program.
func (p *Pipeline) Optimize(prog *ast.Program) (bool, error) {
	if prog == nil {
		return false, fmt.Errorf("optimizer: cannot optimize nil program")
	}

	overall := false
	converged := false
	p.rounds = 0
	p.logger.Debugf("optimizing program at %s", prog.Pos())

	for round := 1; round <= p.opts.MaxRounds; round++ {
		p.rounds = round
		var touched []string

		for _, pass := range p.passes {
			if pass.RewriteProgram(prog) {
				touched = append(touched, pass.Name())
			}
		}

		if len(touched) == 0 {
			converged = true
			p.logger.Debugf("round %d: fixed point reached", round)
			break
		}

		overall = true
		p.logger.Debugf("round %d: changed by %s", round, strings.Join(touched, ", "))
	}

	if !converged {
		// The rule set is designed to converge; hitting the cap signals an
		// internal rule cycle. The partially optimized tree is still valid,
		// so it is used as-is rather than failing the compilation.
		p.logger.Warnf("optimizer: round cap %d exhausted without fixed point, using best-effort tree", p.opts.MaxRounds)
	}

	return overall, nil
}

// Rounds returns the number of rounds the last Optimize call executed,
// including the final unchanged round that confirmed the fixed point.
func (p *Pipeline) Rounds() int {
	return p.rounds
}

// Stats returns the per-pass counters accumulated so far, in pass order.
func (p *Pipeline) Stats() []Stats {
	out := make([]Stats, 0, len(p.passes))
	for _, pass := range p.passes {
		out = append(out, pass.Stats())
	}
	return out
}
