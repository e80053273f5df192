package optimizer

import (
	"github.com/quill-lang/quill/internal/ast"
)

// DeadCodeElimination removes statements that cannot execute or cannot
// affect observable behavior. Two rules run per block:
//
//  1. Unreachable suffix: return, break and continue unconditionally
//     transfer control, so every statement after one of them in the same
//     block is deleted.
//  2. Effect-free expression-statement: a bare expression-statement whose
//     expression is proven effect-free (see ExprHasSideEffect) is deleted.
//
// Recursion covers function bodies, both branches of a conditional and
// while-loop bodies. For-loop bodies, match arms and unsafe blocks are
// deliberately not entered; only their header expressions are part of the
// traversal, and this pass never rewrites expressions. This scope gap is
// inherited behavior and is preserved as-is rather than widened.
type DeadCodeElimination struct {
	stats Stats
}

// NewDeadCodeElimination creates the dead code elimination pass.
func NewDeadCodeElimination() *DeadCodeElimination {
	return &DeadCodeElimination{stats: Stats{PassName: "dead-code-elimination"}}
}

// Name returns the pass name.
func (p *DeadCodeElimination) Name() string { return p.stats.PassName }

// Stats returns the accumulated counters.
func (p *DeadCodeElimination) Stats() Stats { return p.stats }

// RewriteExpression never changes an expression: this pass deletes whole
// statements only. Present to satisfy the shared pass contract.
func (p *DeadCodeElimination) RewriteExpression(expr *ast.Expression) bool {
	return false
}

// RewriteStatement applies both deletion rules to the statement's blocks.
func (p *DeadCodeElimination) RewriteStatement(stmt ast.Statement) bool {
	p.stats.NodesVisited++

	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return p.rewriteBlock(s)
	case *ast.IfStatement:
		changed := p.rewriteBlock(s.Then)
		if s.Else != nil && p.RewriteStatement(s.Else) {
			changed = true
		}
		return changed
	case *ast.WhileStatement:
		return p.rewriteBlock(s.Body)
	default:
		// For-loop bodies, match arms and unsafe blocks are out of scope;
		// other statement kinds hold no blocks to clean.
		return false
	}
}

// RewriteProgram cleans every function body of the program.
func (p *DeadCodeElimination) RewriteProgram(prog *ast.Program) bool {
	return rewriteFunctionBodies(prog, p.RewriteStatement)
}

// rewriteBlock applies the unreachable-suffix rule, then the effect-free
// rule, then recurses into the surviving statements.
func (p *DeadCodeElimination) rewriteBlock(block *ast.BlockStatement) bool {
	if block == nil {
		return false
	}
	changed := false

	// Rule 1: drop everything after an unconditional control transfer.
	for i, stmt := range block.Statements {
		if terminatesBlock(stmt) && i+1 < len(block.Statements) {
			p.stats.DeadCodeRemoved += len(block.Statements) - i - 1
			p.stats.NodesTransformed++
			block.Statements = block.Statements[:i+1]
			changed = true
			break
		}
	}

	// Rule 2: drop expression-statements proven effect-free.
	kept := block.Statements[:0]
	for _, stmt := range block.Statements {
		if es, ok := stmt.(*ast.ExpressionStatement); ok && !ExprHasSideEffect(es.Expression) {
			p.stats.DeadCodeRemoved++
			p.stats.NodesTransformed++
			changed = true
			continue
		}
		kept = append(kept, stmt)
	}
	block.Statements = kept

	for _, stmt := range block.Statements {
		if p.RewriteStatement(stmt) {
			changed = true
		}
	}

	return changed
}

// terminatesBlock reports whether the statement unconditionally transfers
// control out of its block.
func terminatesBlock(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return true
	default:
		return false
	}
}
