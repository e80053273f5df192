package ast

import (
	"math"
	"strings"
	"testing"

	"github.com/quill-lang/quill/internal/position"
)

func astTestSpan(line, col int) position.Span {
	return position.Span{
		Start: position.Position{Filename: "test.ql", Line: line, Column: col, Offset: 0},
		End:   position.Position{Filename: "test.ql", Line: line, Column: col + 1, Offset: 1},
	}
}

func TestLiteralConstructors(t *testing.T) {
	span := astTestSpan(1, 1)

	intLit := NewIntLiteral(span, 42)
	if v, ok := intLit.IntValue(); !ok || v != 42 {
		t.Errorf("IntValue() = %d, %v; want 42, true", v, ok)
	}
	if intLit.Raw != "42" {
		t.Errorf("Raw = %q, want %q", intLit.Raw, "42")
	}
	if _, ok := intLit.BoolValue(); ok {
		t.Error("integer literal must not report a boolean value")
	}

	negLit := NewIntLiteral(span, math.MinInt64)
	if negLit.Raw != "-9223372036854775808" {
		t.Errorf("Raw = %q, want canonical minimum", negLit.Raw)
	}

	boolLit := NewBoolLiteral(span, true)
	if v, ok := boolLit.BoolValue(); !ok || !v {
		t.Errorf("BoolValue() = %v, %v; want true, true", v, ok)
	}
	if boolLit.Raw != "true" {
		t.Errorf("Raw = %q, want %q", boolLit.Raw, "true")
	}

	textLit := NewTextLiteral(span, "hi\n")
	if v, ok := textLit.TextValue(); !ok || v != "hi\n" {
		t.Errorf("TextValue() = %q, %v; want %q, true", v, ok, "hi\n")
	}
	if textLit.Raw != `"hi\n"` {
		t.Errorf("Raw = %q, want quoted form", textLit.Raw)
	}
	if _, ok := textLit.IntValue(); ok {
		t.Error("text literal must not report an integer value")
	}
}

func TestLiteralKindString(t *testing.T) {
	tests := []struct {
		kind LiteralKind
		want string
	}{
		{LiteralInteger, "integer"},
		{LiteralBoolean, "boolean"},
		{LiteralText, "text"},
		{LiteralKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("LiteralKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestExpressionRendering(t *testing.T) {
	span := astTestSpan(1, 1)
	x := &Identifier{Span: span, Name: "x"}

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"binary", &BinaryExpression{Span: span, Left: NewIntLiteral(span, 1), Operator: OpAdd, Right: NewIntLiteral(span, 2)}, "(1 + 2)"},
		{"comparison", &BinaryExpression{Span: span, Left: x, Operator: OpLe, Right: NewIntLiteral(span, 9)}, "(x <= 9)"},
		{"unary not", &UnaryExpression{Span: span, Operator: OpNot, Operand: x}, "(!x)"},
		{"unary negation", &UnaryExpression{Span: span, Operator: OpSub, Operand: x}, "(-x)"},
		{"call", &CallExpression{Span: span, Callee: &Identifier{Span: span, Name: "print"}, Arguments: []Expression{x, NewIntLiteral(span, 1)}}, "print(x, 1)"},
		{"array", &ArrayLiteral{Span: span, Elements: []Expression{NewIntLiteral(span, 1), NewIntLiteral(span, 2)}}, "[1, 2]"},
		{"array repeat", &ArrayRepeat{Span: span, Value: NewIntLiteral(span, 0), Count: NewIntLiteral(span, 4)}, "[0; 4]"},
		{"index", &IndexExpression{Span: span, Object: x, Index: NewIntLiteral(span, 0)}, "x[0]"},
		{"field access", &FieldAccessExpression{Span: span, Object: x, Field: &Identifier{Span: span, Name: "len"}}, "x.len"},
		{"struct literal", &StructLiteral{Span: span, Name: &Identifier{Span: span, Name: "Point"}, Fields: []*FieldInit{
			{Span: span, Name: &Identifier{Span: span, Name: "x"}, Value: NewIntLiteral(span, 1)},
		}}, "Point { x: 1 }"},
		{"variant", &VariantExpression{Span: span, Enum: &Identifier{Span: span, Name: "Opt"}, Variant: &Identifier{Span: span, Name: "None"}}, "Opt::None"},
		{"variant with args", &VariantExpression{Span: span, Enum: &Identifier{Span: span, Name: "Opt"}, Variant: &Identifier{Span: span, Name: "Some"}, Args: []Expression{x}}, "Opt::Some(x)"},
		{"range", &RangeExpression{Span: span, Start: NewIntLiteral(span, 0), End: NewIntLiteral(span, 10)}, "0..10"},
		{"inclusive range", &RangeExpression{Span: span, Start: NewIntLiteral(span, 0), End: NewIntLiteral(span, 10), Inclusive: true}, "0..=10"},
		{"reference", &ReferenceExpression{Span: span, Operand: x}, "&x"},
		{"mutable reference", &ReferenceExpression{Span: span, IsMutable: true, Operand: x}, "&mut x"},
		{"dereference", &DereferenceExpression{Span: span, Operand: x}, "*x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatementRendering(t *testing.T) {
	span := astTestSpan(1, 1)
	x := &Identifier{Span: span, Name: "x"}

	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{"expression statement", &ExpressionStatement{Span: span, Expression: x}, "x;"},
		{"let", &LetStatement{Span: span, Name: x, Value: NewIntLiteral(span, 1)}, "let x = 1;"},
		{"let mut with type", &LetStatement{Span: span, Name: x, Type: &BasicType{Span: span, Kind: BasicInt}, Value: NewIntLiteral(span, 1), IsMutable: true}, "let mut x: int = 1;"},
		{"uninitialized let", &LetStatement{Span: span, Name: x}, "let x;"},
		{"assignment", &AssignStatement{Span: span, Target: x, Value: NewIntLiteral(span, 2)}, "x = 2;"},
		{"bare return", &ReturnStatement{Span: span}, "return;"},
		{"valued return", &ReturnStatement{Span: span, Value: x}, "return x;"},
		{"break", &BreakStatement{Span: span}, "break;"},
		{"continue", &ContinueStatement{Span: span}, "continue;"},
		{"empty block", &BlockStatement{Span: span}, "{}"},
		{"unsafe", &UnsafeStatement{Span: span, Body: &BlockStatement{Span: span}}, "unsafe {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlockAndControlFlowRendering(t *testing.T) {
	span := astTestSpan(1, 1)
	cond := &IfStatement{
		Span:      span,
		Condition: &Identifier{Span: span, Name: "ready"},
		Then: &BlockStatement{Span: span, Statements: []Statement{
			&ReturnStatement{Span: span},
		}},
		Else: &BlockStatement{Span: span, Statements: []Statement{
			&ExpressionStatement{Span: span, Expression: &CallExpression{Span: span, Callee: &Identifier{Span: span, Name: "wait"}}},
		}},
	}

	got := cond.String()
	for _, want := range []string{"if ready {", "return;", "} else {", "wait();"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendering missing %q:\n%s", want, got)
		}
	}

	loop := &WhileStatement{
		Span:      span,
		Condition: &Identifier{Span: span, Name: "run"},
		Body:      &BlockStatement{Span: span, Statements: []Statement{&BreakStatement{Span: span}}},
	}
	if got := loop.String(); !strings.HasPrefix(got, "while run {") {
		t.Errorf("unexpected while rendering: %q", got)
	}

	match := &MatchStatement{
		Span:      span,
		Scrutinee: &Identifier{Span: span, Name: "v"},
		Arms: []*MatchArm{{
			Span:    span,
			Pattern: &WildcardPattern{Span: span},
			Body:    &BlockStatement{Span: span},
		}},
	}
	if got := match.String(); !strings.Contains(got, "_ => {}") {
		t.Errorf("unexpected match rendering: %q", got)
	}
}

func TestFunctionRendering(t *testing.T) {
	span := astTestSpan(1, 1)
	fn := &FunctionDeclaration{
		Span: span,
		Name: &Identifier{Span: span, Name: "add"},
		Parameters: []*Parameter{
			{Span: span, Name: &Identifier{Span: span, Name: "a"}, Type: &BasicType{Span: span, Kind: BasicInt}},
			{Span: span, Name: &Identifier{Span: span, Name: "b"}, Type: &BasicType{Span: span, Kind: BasicInt}},
		},
		ReturnType: &BasicType{Span: span, Kind: BasicInt},
		Body: &BlockStatement{Span: span, Statements: []Statement{
			&ReturnStatement{Span: span, Value: &BinaryExpression{
				Span:     span,
				Left:     &Identifier{Span: span, Name: "a"},
				Operator: OpAdd,
				Right:    &Identifier{Span: span, Name: "b"},
			}},
		}},
	}

	got := fn.String()
	if !strings.HasPrefix(got, "fn add(a: int, b: int) -> int {") {
		t.Errorf("unexpected function header: %q", got)
	}
	if !strings.Contains(got, "return (a + b);") {
		t.Errorf("unexpected function body: %q", got)
	}
}

func TestProgramFunctions(t *testing.T) {
	span := astTestSpan(1, 1)
	main := &FunctionDeclaration{Span: span, Name: &Identifier{Span: span, Name: "main"}, Body: &BlockStatement{Span: span}}
	helper := &FunctionDeclaration{Span: span, Name: &Identifier{Span: span, Name: "helper"}, Body: &BlockStatement{Span: span}}
	prog := &Program{
		Span: span,
		Declarations: []Declaration{
			&StructDeclaration{Span: span, Name: &Identifier{Span: span, Name: "Point"}},
			main,
			&EnumDeclaration{Span: span, Name: &Identifier{Span: span, Name: "Opt"}},
			helper,
		},
	}

	fns := prog.Functions()
	if len(fns) != 2 {
		t.Fatalf("Functions() returned %d, want 2", len(fns))
	}
	if fns[0] != main || fns[1] != helper {
		t.Error("Functions() did not preserve declaration order")
	}
}

func TestOperatorString(t *testing.T) {
	tests := []struct {
		op   Operator
		want string
	}{
		{OpAdd, "+"}, {OpSub, "-"}, {OpMul, "*"}, {OpDiv, "/"}, {OpMod, "%"},
		{OpEq, "=="}, {OpNe, "!="}, {OpLt, "<"}, {OpLe, "<="}, {OpGt, ">"}, {OpGe, ">="},
		{OpAnd, "&&"}, {OpOr, "||"}, {OpNot, "!"},
		{Operator(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operator(%d).String() = %q, want %q", int(tt.op), got, tt.want)
		}
	}
}

func TestOperatorIsComparison(t *testing.T) {
	comparisons := []Operator{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe}
	for _, op := range comparisons {
		if !op.IsComparison() {
			t.Errorf("%s should be a comparison", op)
		}
	}
	others := []Operator{OpAdd, OpSub, OpMul, OpDiv, OpMod, OpAnd, OpOr, OpNot}
	for _, op := range others {
		if op.IsComparison() {
			t.Errorf("%s should not be a comparison", op)
		}
	}
}
