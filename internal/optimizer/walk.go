package optimizer

import (
	"github.com/quill-lang/quill/internal/ast"
)

// rewriteExprChildren applies rw to every child expression slot of expr
// and reports whether any child subtree changed. The switch is exhaustive
// over the closed expression set of the ast package; a kind without child
// expressions falls through untouched.
//
// Passing the slot (pointer to the interface field) lets rw replace the
// child at its existing position without creating a second reference.
func rewriteExprChildren(expr ast.Expression, rw func(*ast.Expression) bool) bool {
	changed := false

	visit := func(slot *ast.Expression) {
		if slot == nil || *slot == nil {
			return
		}
		if rw(slot) {
			changed = true
		}
	}

	switch e := expr.(type) {
	case *ast.Literal, *ast.Identifier:
		// leaves
	case *ast.BinaryExpression:
		visit(&e.Left)
		visit(&e.Right)
	case *ast.UnaryExpression:
		visit(&e.Operand)
	case *ast.CallExpression:
		visit(&e.Callee)
		for i := range e.Arguments {
			visit(&e.Arguments[i])
		}
	case *ast.ArrayLiteral:
		for i := range e.Elements {
			visit(&e.Elements[i])
		}
	case *ast.ArrayRepeat:
		visit(&e.Value)
		visit(&e.Count)
	case *ast.IndexExpression:
		visit(&e.Object)
		visit(&e.Index)
	case *ast.FieldAccessExpression:
		visit(&e.Object)
	case *ast.StructLiteral:
		for _, field := range e.Fields {
			visit(&field.Value)
		}
	case *ast.VariantExpression:
		for i := range e.Args {
			visit(&e.Args[i])
		}
	case *ast.RangeExpression:
		visit(&e.Start)
		visit(&e.End)
	case *ast.ReferenceExpression:
		visit(&e.Operand)
	case *ast.DereferenceExpression:
		visit(&e.Operand)
	}

	return changed
}

// rewriteFunctionBodies applies rewrite to the body of every function
// declaration in the program. Struct and enum declarations hold no
// executable code and are passed through.
func rewriteFunctionBodies(prog *ast.Program, rewrite func(ast.Statement) bool) bool {
	changed := false
	for _, fn := range prog.Functions() {
		if fn.Body == nil {
			continue
		}
		if rewrite(fn.Body) {
			changed = true
		}
	}
	return changed
}
