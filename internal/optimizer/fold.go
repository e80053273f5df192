package optimizer

import (
	"math"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/position"
)

// ConstantFolding evaluates compile-time-determined expressions and
// replaces them with literal results. It runs before type checking, so
// folding only fires when both operand kinds are known from the literals
// themselves; mixed-kind operands (e.g. integer + text) are left alone.
//
// Integer arithmetic uses 64-bit two's-complement wraparound. Division and
// modulo by a literal zero are never folded: the node is kept so the
// runtime failure it produces survives optimization.
type ConstantFolding struct {
	stats Stats
}

// NewConstantFolding creates the constant folding pass.
func NewConstantFolding() *ConstantFolding {
	return &ConstantFolding{stats: Stats{PassName: "constant-folding"}}
}

// Name returns the pass name.
func (p *ConstantFolding) Name() string { return p.stats.PassName }

// Stats returns the accumulated counters.
func (p *ConstantFolding) Stats() Stats { return p.stats }

// RewriteExpression folds the expression held in the slot, children first.
func (p *ConstantFolding) RewriteExpression(expr *ast.Expression) bool {
	if expr == nil || *expr == nil {
		return false
	}
	p.stats.NodesVisited++

	changed := rewriteExprChildren(*expr, p.RewriteExpression)

	if folded, ok := p.fold(*expr); ok {
		*expr = folded
		p.stats.NodesTransformed++
		changed = true
	}

	return changed
}

// RewriteStatement folds every expression held by the statement. Unlike
// the other passes, folding recurses into for-loop bodies, match arms and
// unsafe blocks: replacing a constant subexpression is safe anywhere.
func (p *ConstantFolding) RewriteStatement(stmt ast.Statement) bool {
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
		changed = p.RewriteExpression(&s.Iterable)
		if p.RewriteStatement(s.Body) {
			changed = true
		}
	case *ast.ReturnStatement:
		if s.Value != nil {
			changed = p.RewriteExpression(&s.Value)
		}
	case *ast.MatchStatement:
		changed = p.RewriteExpression(&s.Scrutinee)
		for _, arm := range s.Arms {
			if p.RewriteStatement(arm.Body) {
				changed = true
			}
		}
	case *ast.UnsafeStatement:
		changed = p.RewriteStatement(s.Body)
	case *ast.BreakStatement, *ast.ContinueStatement:
		// nothing to fold
	}

	return changed
}

// RewriteProgram folds every function body of the program.
func (p *ConstantFolding) RewriteProgram(prog *ast.Program) bool {
	return rewriteFunctionBodies(prog, p.RewriteStatement)
}

// fold tries to replace the parent node itself. Children have already
// been folded when this runs.
func (p *ConstantFolding) fold(expr ast.Expression) (ast.Expression, bool) {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		return p.foldBinary(e)
	case *ast.UnaryExpression:
		return p.foldUnary(e)
	}
	return nil, false
}

// foldedSpan is the span a synthesized literal carries: the source range
// covering both operands of the node it replaces.
func foldedSpan(bin *ast.BinaryExpression) position.Span {
	return bin.Left.Pos().Union(bin.Right.Pos())
}

func (p *ConstantFolding) foldBinary(bin *ast.BinaryExpression) (ast.Expression, bool) {
	leftLit, leftIsLit := bin.Left.(*ast.Literal)
	rightLit, rightIsLit := bin.Right.(*ast.Literal)

	if leftIsLit && rightIsLit {
		if folded := p.foldLiteralBinary(bin, leftLit, rightLit); folded != nil {
			p.stats.ConstantsFolded++
			return folded, true
		}
		// Both literal but not foldable (mixed kinds, division by zero):
		// fall through to the identity rules, which may still apply.
	}

	// Short-circuit mirror: the literal operand alone determines the
	// result, so the other operand is never evaluated at runtime either.
	if leftIsLit {
		if v, ok := leftLit.BoolValue(); ok {
			if bin.Operator == ast.OpAnd && !v {
				p.stats.ConstantsFolded++
				return ast.NewBoolLiteral(foldedSpan(bin), false), true
			}
			if bin.Operator == ast.OpOr && v {
				p.stats.ConstantsFolded++
				return ast.NewBoolLiteral(foldedSpan(bin), true), true
			}
		}
	}

	if folded, ok := p.foldIdentity(bin, leftLit, leftIsLit, rightLit, rightIsLit); ok {
		p.stats.ConstantsFolded++
		return folded, true
	}
	return nil, false
}

// foldLiteralBinary folds a binary node whose operands are both literals
// of the same kind. Mixed kinds return nil: this runs pre-typecheck and
// must not guess at coercions.
func (p *ConstantFolding) foldLiteralBinary(bin *ast.BinaryExpression, left, right *ast.Literal) ast.Expression {
	if l, ok := left.IntValue(); ok {
		r, ok := right.IntValue()
		if !ok {
			return nil
		}
		return p.foldIntBinary(bin, l, r)
	}

	if l, ok := left.BoolValue(); ok {
		r, ok := right.BoolValue()
		if !ok {
			return nil
		}
		switch bin.Operator {
		case ast.OpAnd:
			return ast.NewBoolLiteral(foldedSpan(bin), l && r)
		case ast.OpOr:
			return ast.NewBoolLiteral(foldedSpan(bin), l || r)
		case ast.OpEq:
			return ast.NewBoolLiteral(foldedSpan(bin), l == r)
		case ast.OpNe:
			return ast.NewBoolLiteral(foldedSpan(bin), l != r)
		}
		return nil
	}

	if l, ok := left.TextValue(); ok {
		r, ok := right.TextValue()
		if !ok {
			return nil
		}
		switch bin.Operator {
		case ast.OpAdd:
			return ast.NewTextLiteral(foldedSpan(bin), l+r)
		case ast.OpEq:
			return ast.NewBoolLiteral(foldedSpan(bin), l == r)
		case ast.OpNe:
			return ast.NewBoolLiteral(foldedSpan(bin), l != r)
		}
		return nil
	}

	return nil
}

// foldIntBinary folds integer arithmetic and comparisons. Arithmetic
// wraps in 64 bits; MinInt64 / -1 and MinInt64 % -1 would panic in Go, so
// the wrapped results are produced explicitly.
func (p *ConstantFolding) foldIntBinary(bin *ast.BinaryExpression, l, r int64) ast.Expression {
	switch bin.Operator {
	case ast.OpAdd:
		return ast.NewIntLiteral(foldedSpan(bin), l+r)
	case ast.OpSub:
		return ast.NewIntLiteral(foldedSpan(bin), l-r)
	case ast.OpMul:
		return ast.NewIntLiteral(foldedSpan(bin), l*r)
	case ast.OpDiv:
		if r == 0 {
			// Preserve the runtime division-by-zero failure.
			return nil
		}
		if l == math.MinInt64 && r == -1 {
			return ast.NewIntLiteral(foldedSpan(bin), math.MinInt64)
		}
		return ast.NewIntLiteral(foldedSpan(bin), l/r)
	case ast.OpMod:
		if r == 0 {
			return nil
		}
		if l == math.MinInt64 && r == -1 {
			return ast.NewIntLiteral(foldedSpan(bin), 0)
		}
		return ast.NewIntLiteral(foldedSpan(bin), l%r)
	case ast.OpEq:
		return ast.NewBoolLiteral(foldedSpan(bin), l == r)
	case ast.OpNe:
		return ast.NewBoolLiteral(foldedSpan(bin), l != r)
	case ast.OpLt:
		return ast.NewBoolLiteral(foldedSpan(bin), l < r)
	case ast.OpLe:
		return ast.NewBoolLiteral(foldedSpan(bin), l <= r)
	case ast.OpGt:
		return ast.NewBoolLiteral(foldedSpan(bin), l > r)
	case ast.OpGe:
		return ast.NewBoolLiteral(foldedSpan(bin), l >= r)
	}
	return nil
}

// foldIdentity applies the algebraic identities that hold with one
// non-literal operand: x+0, 0+x, x-0 -> x; x*0, 0*x -> 0; x*1, 1*x,
// x/1 -> x.
func (p *ConstantFolding) foldIdentity(bin *ast.BinaryExpression, leftLit *ast.Literal, leftIsLit bool, rightLit *ast.Literal, rightIsLit bool) (ast.Expression, bool) {
	// Two literals of different kinds are ill-typed; the node must reach
	// the type checker intact.
	if leftIsLit && rightIsLit && leftLit.Kind != rightLit.Kind {
		return nil, false
	}

	leftInt, leftIsInt := int64(0), false
	if leftIsLit {
		leftInt, leftIsInt = leftLit.IntValue()
	}
	rightInt, rightIsInt := int64(0), false
	if rightIsLit {
		rightInt, rightIsInt = rightLit.IntValue()
	}

	switch bin.Operator {
	case ast.OpAdd:
		if leftIsInt && leftInt == 0 {
			return bin.Right, true
		}
		if rightIsInt && rightInt == 0 {
			return bin.Left, true
		}
	case ast.OpSub:
		if rightIsInt && rightInt == 0 {
			return bin.Left, true
		}
	case ast.OpMul:
		if leftIsInt && leftInt == 0 {
			return leftLit, true
		}
		if rightIsInt && rightInt == 0 {
			return rightLit, true
		}
		if leftIsInt && leftInt == 1 {
			return bin.Right, true
		}
		if rightIsInt && rightInt == 1 {
			return bin.Left, true
		}
	case ast.OpDiv:
		if rightIsInt && rightInt == 1 {
			return bin.Left, true
		}
	}

	return nil, false
}

func (p *ConstantFolding) foldUnary(unary *ast.UnaryExpression) (ast.Expression, bool) {
	lit, ok := unary.Operand.(*ast.Literal)
	if !ok {
		return nil, false
	}

	switch unary.Operator {
	case ast.OpSub:
		if v, ok := lit.IntValue(); ok {
			// -MinInt64 wraps back to MinInt64.
			p.stats.ConstantsFolded++
			return ast.NewIntLiteral(unary.Span, -v), true
		}
	case ast.OpNot:
		if v, ok := lit.BoolValue(); ok {
			p.stats.ConstantsFolded++
			return ast.NewBoolLiteral(unary.Span, !v), true
		}
	}

	return nil, false
}
