// Package main demonstrates the Quill AST optimization pipeline.
// It builds a small program tree by hand, runs the optimizer to a fixed
// point, and prints the tree before and after along with pass statistics.
//
// Set QUILL_OPT_DEBUG=1 to see the per-round diagnostic log.
package main

import (
	"fmt"

	"github.com/xyproto/env/v2"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/optimizer"
	"github.com/quill-lang/quill/internal/position"
)

func demoSpan(line, col int) position.Span {
	return position.Span{
		Start: position.Position{Filename: "demo.ql", Line: line, Column: col, Offset: 0},
		End:   position.Position{Filename: "demo.ql", Line: line, Column: col + 1, Offset: 1},
	}
}

// buildDemoProgram constructs the equivalent of:
//
//	fn main() {
//	    let msg = "Hello, " + "World!";
//	    let n = (2 + 3) * 4 + x * 1;
//	    40 + 2;
//	    print(msg);
//	    if n == n {
//	        return;
//	        print("unreachable");
//	    }
//	}
func buildDemoProgram() *ast.Program {
	span := demoSpan(1, 1)

	msgInit := &ast.BinaryExpression{
		Span:     span,
		Left:     ast.NewTextLiteral(demoSpan(2, 15), "Hello, "),
		Operator: ast.OpAdd,
		Right:    ast.NewTextLiteral(demoSpan(2, 27), "World!"),
	}

	nInit := &ast.BinaryExpression{
		Span: span,
		Left: &ast.BinaryExpression{
			Span: span,
			Left: &ast.BinaryExpression{
				Span:     span,
				Left:     ast.NewIntLiteral(demoSpan(3, 14), 2),
				Operator: ast.OpAdd,
				Right:    ast.NewIntLiteral(demoSpan(3, 18), 3),
			},
			Operator: ast.OpMul,
			Right:    ast.NewIntLiteral(demoSpan(3, 23), 4),
		},
		Operator: ast.OpAdd,
		Right: &ast.BinaryExpression{
			Span:     span,
			Left:     &ast.Identifier{Span: demoSpan(3, 27), Name: "x"},
			Operator: ast.OpMul,
			Right:    ast.NewIntLiteral(demoSpan(3, 31), 1),
		},
	}

	body := &ast.BlockStatement{
		Span: span,
		Statements: []ast.Statement{
			&ast.LetStatement{Span: span, Name: &ast.Identifier{Span: span, Name: "msg"}, Value: msgInit},
			&ast.LetStatement{Span: span, Name: &ast.Identifier{Span: span, Name: "n"}, Value: nInit},
			&ast.ExpressionStatement{Span: span, Expression: &ast.BinaryExpression{
				Span:     span,
				Left:     ast.NewIntLiteral(span, 40),
				Operator: ast.OpAdd,
				Right:    ast.NewIntLiteral(span, 2),
			}},
			&ast.ExpressionStatement{Span: span, Expression: &ast.CallExpression{
				Span:      span,
				Callee:    &ast.Identifier{Span: span, Name: "print"},
				Arguments: []ast.Expression{&ast.Identifier{Span: span, Name: "msg"}},
			}},
			&ast.IfStatement{
				Span: span,
				Condition: &ast.BinaryExpression{
					Span:     span,
					Left:     &ast.Identifier{Span: span, Name: "n"},
					Operator: ast.OpEq,
					Right:    &ast.Identifier{Span: span, Name: "n"},
				},
				Then: &ast.BlockStatement{Span: span, Statements: []ast.Statement{
					&ast.ReturnStatement{Span: span},
					&ast.ExpressionStatement{Span: span, Expression: &ast.CallExpression{
						Span:      span,
						Callee:    &ast.Identifier{Span: span, Name: "print"},
						Arguments: []ast.Expression{ast.NewTextLiteral(span, "unreachable")},
					}},
				}},
			},
		},
	}

	return &ast.Program{
		Span: span,
		Declarations: []ast.Declaration{
			&ast.FunctionDeclaration{
				Span: span,
				Name: &ast.Identifier{Span: span, Name: "main"},
				Body: body,
			},
		},
	}
}

// printProgram lists each function with per-statement source spans.
func printProgram(prog *ast.Program) {
	for _, fn := range prog.Functions() {
		fmt.Printf("fn %s [%s]\n", fn.Name, fn.Pos())
		for _, stmt := range fn.Body.Statements {
			fmt.Printf("  %s  %s\n", stmt.Pos(), stmt.String())
		}
	}
}

func main() {
	prog := buildDemoProgram()

	fmt.Println("=== before ===")
	printProgram(prog)

	pipeline := optimizer.NewPipeline(optimizer.Options{
		Debug: env.Bool("QUILL_OPT_DEBUG"),
	})

	changed, err := pipeline.Optimize(prog)
	if err != nil {
		fmt.Printf("optimize failed: %v\n", err)
		return
	}

	fmt.Println("\n=== after ===")
	printProgram(prog)

	fmt.Printf("\nchanged: %v, rounds: %d\n", changed, pipeline.Rounds())
	for _, stats := range pipeline.Stats() {
		fmt.Println(stats.String())
	}
}
