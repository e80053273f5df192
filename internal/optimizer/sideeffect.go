package optimizer

import (
	"github.com/quill-lang/quill/internal/ast"
)

// ExprHasSideEffect reports whether evaluating the expression can have an
// observable effect. The rule is purely structural: an expression has a
// side effect iff it is, or contains, a call. Everything else (literals,
// identifier reads, arithmetic, indexing, field reads, aggregate
// construction) is effect-free.
//
// The switch is exhaustive over the closed expression set; a kind this
// package does not know is treated as effectful so that dead code
// elimination stays deletion-safe when the tree model grows.
func ExprHasSideEffect(expr ast.Expression) bool {
	switch e := expr.(type) {
	case nil:
		return false
	case *ast.Literal, *ast.Identifier:
		return false
	case *ast.BinaryExpression:
		return ExprHasSideEffect(e.Left) || ExprHasSideEffect(e.Right)
	case *ast.UnaryExpression:
		return ExprHasSideEffect(e.Operand)
	case *ast.CallExpression:
		return true
	case *ast.ArrayLiteral:
		for _, elem := range e.Elements {
			if ExprHasSideEffect(elem) {
				return true
			}
		}
		return false
	case *ast.ArrayRepeat:
		return ExprHasSideEffect(e.Value) || ExprHasSideEffect(e.Count)
	case *ast.IndexExpression:
		return ExprHasSideEffect(e.Object) || ExprHasSideEffect(e.Index)
	case *ast.FieldAccessExpression:
		return ExprHasSideEffect(e.Object)
	case *ast.StructLiteral:
		for _, field := range e.Fields {
			if ExprHasSideEffect(field.Value) {
				return true
			}
		}
		return false
	case *ast.VariantExpression:
		for _, arg := range e.Args {
			if ExprHasSideEffect(arg) {
				return true
			}
		}
		return false
	case *ast.RangeExpression:
		return ExprHasSideEffect(e.Start) || ExprHasSideEffect(e.End)
	case *ast.ReferenceExpression:
		return ExprHasSideEffect(e.Operand)
	case *ast.DereferenceExpression:
		return ExprHasSideEffect(e.Operand)
	default:
		return true
	}
}

// StmtHasSideEffect reports whether executing the statement can have an
// observable effect. Only a binding and an effect-free
// expression-statement are classified effect-free; every other statement
// kind (assignment, control flow, return/break/continue) counts as
// effectful and is only ever removed by the unreachability rule.
func StmtHasSideEffect(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return ExprHasSideEffect(s.Expression)
	case *ast.LetStatement:
		if s.Value == nil {
			return false
		}
		return ExprHasSideEffect(s.Value)
	default:
		return true
	}
}
