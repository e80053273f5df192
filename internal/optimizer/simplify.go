package optimizer

import (
	"github.com/quill-lang/quill/internal/ast"
)

// Simplification rewrites boolean expression shapes into cheaper
// equivalents, bottom-up:
//
//	x == true, true == x   ->  x
//	x == false, false == x ->  !x
//	x != false, false != x ->  x
//	x != true, true != x   ->  !x
//	!(!x)                  ->  x
//
// Rewrites apply bottom-up, so negation chains collapse pairwise from the
// inside out; the pipeline's fixed-point loop confirms the result with one
// more unchanged round.
//
// Statement recursion matches dead code elimination: for-loop bodies,
// match arms and unsafe blocks are not entered, only their header
// expressions are visited.
type Simplification struct {
	stats Stats
}

// NewSimplification creates the algebraic simplification pass.
func NewSimplification() *Simplification {
	return &Simplification{stats: Stats{PassName: "simplification"}}
}

// Name returns the pass name.
func (p *Simplification) Name() string { return p.stats.PassName }

// Stats returns the accumulated counters.
func (p *Simplification) Stats() Stats { return p.stats }

// RewriteExpression simplifies the expression held in the slot, children
// first.
func (p *Simplification) RewriteExpression(expr *ast.Expression) bool {
	if expr == nil || *expr == nil {
		return false
	}
	p.stats.NodesVisited++

	changed := rewriteExprChildren(*expr, p.RewriteExpression)

	if simplified, ok := p.simplify(*expr); ok {
		*expr = simplified
		p.stats.NodesTransformed++
		p.stats.Simplified++
		changed = true
	}

	return changed
}

// RewriteStatement simplifies the expressions held by the statement,
// honoring the for/match/unsafe scope restriction.
func (p *Simplification) RewriteStatement(stmt ast.Statement) bool {
	changed := false

	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, inner := range s.Statements {
			if p.RewriteStatement(inner) {
				changed = true
			}
		}
	case *ast.ExpressionStatement:
		changed = p.RewriteExpression(&s.Expression)
	case *ast.LetStatement:
		if s.Value != nil {
			changed = p.RewriteExpression(&s.Value)
		}
	case *ast.AssignStatement:
		changed = p.RewriteExpression(&s.Target)
		if p.RewriteExpression(&s.Value) {
			changed = true
		}
	case *ast.IfStatement:
		changed = p.RewriteExpression(&s.Condition)
		if p.RewriteStatement(s.Then) {
			changed = true
		}
		if s.Else != nil && p.RewriteStatement(s.Else) {
			changed = true
		}
	case *ast.WhileStatement:
		changed = p.RewriteExpression(&s.Condition)
		if p.RewriteStatement(s.Body) {
			changed = true
		}
	case *ast.ForInStatement:
		// header only
		changed = p.RewriteExpression(&s.Iterable)
	case *ast.ReturnStatement:
		if s.Value != nil {
			changed = p.RewriteExpression(&s.Value)
		}
	case *ast.MatchStatement:
		// scrutinee only
		changed = p.RewriteExpression(&s.Scrutinee)
	case *ast.UnsafeStatement:
		// opaque
	case *ast.BreakStatement, *ast.ContinueStatement:
		// nothing held
	}

	return changed
}

// RewriteProgram simplifies every function body of the program.
func (p *Simplification) RewriteProgram(prog *ast.Program) bool {
	return rewriteFunctionBodies(prog, p.RewriteStatement)
}

func (p *Simplification) simplify(expr ast.Expression) (ast.Expression, bool) {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		return p.simplifyBoolComparison(e)
	case *ast.UnaryExpression:
		if e.Operator != ast.OpNot {
			return nil, false
		}
		if inner, ok := e.Operand.(*ast.UnaryExpression); ok && inner.Operator == ast.OpNot {
			return inner.Operand, true
		}
	}
	return nil, false
}

// simplifyBoolComparison rewrites comparisons against boolean literals.
// The non-literal operand is reused at the node's position; negations are
// synthesized fresh so no node gains a second parent.
func (p *Simplification) simplifyBoolComparison(bin *ast.BinaryExpression) (ast.Expression, bool) {
	if bin.Operator != ast.OpEq && bin.Operator != ast.OpNe {
		return nil, false
	}

	other, value, ok := boolLiteralOperand(bin)
	if !ok {
		return nil, false
	}

	// x == true and x != false keep x; the other two shapes negate it.
	keep := value == (bin.Operator == ast.OpEq)
	if keep {
		return other, true
	}
	return &ast.UnaryExpression{Span: bin.Span, Operator: ast.OpNot, Operand: other}, true
}

// boolLiteralOperand returns the surviving operand and the value of the
// boolean literal operand, when exactly that shape is present. A literal
// of another kind on the surviving side is ill-typed and declines, same
// as the folding rules.
func boolLiteralOperand(bin *ast.BinaryExpression) (ast.Expression, bool, bool) {
	if lit, ok := bin.Left.(*ast.Literal); ok {
		if v, ok := lit.BoolValue(); ok && canBeBool(bin.Right) {
			return bin.Right, v, true
		}
	}
	if lit, ok := bin.Right.(*ast.Literal); ok {
		if v, ok := lit.BoolValue(); ok && canBeBool(bin.Left) {
			return bin.Left, v, true
		}
	}
	return nil, false, false
}

// canBeBool reports whether the expression can evaluate to a boolean:
// any non-literal expression, or a boolean literal.
func canBeBool(expr ast.Expression) bool {
	lit, ok := expr.(*ast.Literal)
	return !ok || lit.Kind == ast.LiteralBoolean
}
