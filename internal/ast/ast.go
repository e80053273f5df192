// Package ast defines the syntax tree for the Quill programming language.
// The tree is produced by the parser, rewritten in place by the optimizer,
// and consumed by code generation. Nodes form a closed set: the optimizer
// dispatches over every concrete kind with exhaustive type switches, so
// adding a node kind here forces every pass to handle it.
//
// Ownership is strictly top-down. Every node has exactly one parent and a
// rewrite may only replace a node at its existing position; no rewrite may
// introduce a second reference to the same node.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/position"
)

// Node is the interface shared by every syntax tree node.
type Node interface {
	// Pos returns the source span covered by this node.
	Pos() position.Span
	// String renders the node as Quill-like source text.
	String() string
}

// Declaration is a top-level item of a program.
type Declaration interface {
	Node
	declNode()
}

// Statement is any node that can appear inside a block.
type Statement interface {
	Node
	stmtNode()
}

// Expression is any node that evaluates to a value.
type Expression interface {
	Node
	exprNode()
}

// Pattern is a match-arm pattern. The optimizer never rewrites patterns.
type Pattern interface {
	Node
	patternNode()
}

// Type is a declared-type annotation. Never rewritten by the optimizer.
type Type interface {
	Node
	typeNode()
}

// ===== Program =====

// Program is the root of the tree: one Quill compilation unit.
type Program struct {
	Span         position.Span
	Declarations []Declaration
}

func (p *Program) Pos() position.Span { return p.Span }
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Declarations))
	for _, decl := range p.Declarations {
		parts = append(parts, decl.String())
	}
	return strings.Join(parts, "\n\n")
}

// Functions returns the function declarations of the program in order.
func (p *Program) Functions() []*FunctionDeclaration {
	var fns []*FunctionDeclaration
	for _, decl := range p.Declarations {
		if fn, ok := decl.(*FunctionDeclaration); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// ===== Declarations =====

// FunctionDeclaration is a named function with a body block.
type FunctionDeclaration struct {
	Span       position.Span
	Name       *Identifier
	Parameters []*Parameter
	ReturnType Type // nil for unit-returning functions
	Body       *BlockStatement
}

func (f *FunctionDeclaration) Pos() position.Span { return f.Span }
func (f *FunctionDeclaration) declNode()          {}
func (f *FunctionDeclaration) String() string {
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	ret := ""
	if f.ReturnType != nil {
		ret = " -> " + f.ReturnType.String()
	}
	return fmt.Sprintf("fn %s(%s)%s %s", f.Name.String(), strings.Join(params, ", "), ret, f.Body.String())
}

// Parameter is a single function parameter.
type Parameter struct {
	Span      position.Span
	Name      *Identifier
	Type      Type
	IsMutable bool
}

func (p *Parameter) Pos() position.Span { return p.Span }
func (p *Parameter) String() string {
	mut := ""
	if p.IsMutable {
		mut = "mut "
	}
	if p.Type == nil {
		return mut + p.Name.String()
	}
	return fmt.Sprintf("%s%s: %s", mut, p.Name.String(), p.Type.String())
}

// StructDeclaration is a struct type definition. The optimizer passes it
// through untouched.
type StructDeclaration struct {
	Span   position.Span
	Name   *Identifier
	Fields []*StructField
}

func (d *StructDeclaration) Pos() position.Span { return d.Span }
func (d *StructDeclaration) declNode()          {}
func (d *StructDeclaration) String() string     { return "struct " + d.Name.String() }

// StructField is one field of a struct declaration.
type StructField struct {
	Span position.Span
	Name *Identifier
	Type Type
}

func (sf *StructField) Pos() position.Span { return sf.Span }
func (sf *StructField) String() string {
	return fmt.Sprintf("%s: %s", sf.Name.String(), sf.Type.String())
}

// EnumDeclaration is an enum type definition. Passed through untouched.
type EnumDeclaration struct {
	Span     position.Span
	Name     *Identifier
	Variants []*EnumVariant
}

func (d *EnumDeclaration) Pos() position.Span { return d.Span }
func (d *EnumDeclaration) declNode()          {}
func (d *EnumDeclaration) String() string     { return "enum " + d.Name.String() }

// EnumVariant is one variant of an enum, with optional payload types.
type EnumVariant struct {
	Span    position.Span
	Name    *Identifier
	Payload []Type
}

func (v *EnumVariant) Pos() position.Span { return v.Span }
func (v *EnumVariant) String() string     { return v.Name.String() }

// ===== Statements =====

// BlockStatement is an ordered sequence of statements in braces.
type BlockStatement struct {
	Span       position.Span
	Statements []Statement
}

func (b *BlockStatement) Pos() position.Span { return b.Span }
func (b *BlockStatement) stmtNode()          {}
func (b *BlockStatement) String() string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, stmt := range b.Statements {
		for _, line := range strings.Split(stmt.String(), "\n") {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// ExpressionStatement is an expression evaluated for its effect.
type ExpressionStatement struct {
	Span       position.Span
	Expression Expression
}

func (e *ExpressionStatement) Pos() position.Span { return e.Span }
func (e *ExpressionStatement) stmtNode()          {}
func (e *ExpressionStatement) String() string     { return e.Expression.String() + ";" }

// LetStatement binds a name to a value.
type LetStatement struct {
	Span      position.Span
	Name      *Identifier
	Type      Type       // nil when inferred
	Value     Expression // nil for an uninitialized binding
	IsMutable bool
}

func (l *LetStatement) Pos() position.Span { return l.Span }
func (l *LetStatement) stmtNode()          {}
func (l *LetStatement) String() string {
	mut := ""
	if l.IsMutable {
		mut = "mut "
	}
	typ := ""
	if l.Type != nil {
		typ = ": " + l.Type.String()
	}
	val := ""
	if l.Value != nil {
		val = " = " + l.Value.String()
	}
	return fmt.Sprintf("let %s%s%s%s;", mut, l.Name.String(), typ, val)
}

// AssignStatement stores a value into an existing place.
type AssignStatement struct {
	Span   position.Span
	Target Expression
	Value  Expression
}

func (a *AssignStatement) Pos() position.Span { return a.Span }
func (a *AssignStatement) stmtNode()          {}
func (a *AssignStatement) String() string {
	return fmt.Sprintf("%s = %s;", a.Target.String(), a.Value.String())
}

// IfStatement is a conditional with an optional else branch.
// Else is either a *BlockStatement or another *IfStatement (else-if chain).
type IfStatement struct {
	Span      position.Span
	Condition Expression
	Then      *BlockStatement
	Else      Statement // nil when absent
}

func (i *IfStatement) Pos() position.Span { return i.Span }
func (i *IfStatement) stmtNode()          {}
func (i *IfStatement) String() string {
	s := fmt.Sprintf("if %s %s", i.Condition.String(), i.Then.String())
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// WhileStatement is a condition-driven loop.
type WhileStatement struct {
	Span      position.Span
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) Pos() position.Span { return w.Span }
func (w *WhileStatement) stmtNode()          {}
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while %s %s", w.Condition.String(), w.Body.String())
}

// ForInStatement iterates a variable over an iterable expression.
type ForInStatement struct {
	Span     position.Span
	Variable *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (f *ForInStatement) Pos() position.Span { return f.Span }
func (f *ForInStatement) stmtNode()          {}
func (f *ForInStatement) String() string {
	return fmt.Sprintf("for %s in %s %s", f.Variable.String(), f.Iterable.String(), f.Body.String())
}

// ReturnStatement leaves the enclosing function, optionally with a value.
type ReturnStatement struct {
	Span  position.Span
	Value Expression // nil for bare return
}

func (r *ReturnStatement) Pos() position.Span { return r.Span }
func (r *ReturnStatement) stmtNode()          {}
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// BreakStatement leaves the enclosing loop.
type BreakStatement struct {
	Span position.Span
}

func (b *BreakStatement) Pos() position.Span { return b.Span }
func (b *BreakStatement) stmtNode()          {}
func (b *BreakStatement) String() string     { return "break;" }

// ContinueStatement skips to the next iteration of the enclosing loop.
type ContinueStatement struct {
	Span position.Span
}

func (c *ContinueStatement) Pos() position.Span { return c.Span }
func (c *ContinueStatement) stmtNode()          {}
func (c *ContinueStatement) String() string     { return "continue;" }

// MatchStatement dispatches over a scrutinee with ordered arms.
type MatchStatement struct {
	Span      position.Span
	Scrutinee Expression
	Arms      []*MatchArm
}

func (m *MatchStatement) Pos() position.Span { return m.Span }
func (m *MatchStatement) stmtNode()          {}
func (m *MatchStatement) String() string {
	var sb strings.Builder
	sb.WriteString("match ")
	sb.WriteString(m.Scrutinee.String())
	sb.WriteString(" {\n")
	for _, arm := range m.Arms {
		sb.WriteString("    ")
		sb.WriteString(arm.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// MatchArm is one pattern with its body.
type MatchArm struct {
	Span    position.Span
	Pattern Pattern
	Body    *BlockStatement
}

func (a *MatchArm) Pos() position.Span { return a.Span }
func (a *MatchArm) String() string {
	return fmt.Sprintf("%s => %s", a.Pattern.String(), a.Body.String())
}

// UnsafeStatement is an opaque block the optimizer must not look into.
type UnsafeStatement struct {
	Span position.Span
	Body *BlockStatement
}

func (u *UnsafeStatement) Pos() position.Span { return u.Span }
func (u *UnsafeStatement) stmtNode()          {}
func (u *UnsafeStatement) String() string     { return "unsafe " + u.Body.String() }

// ===== Patterns =====

// WildcardPattern matches anything without binding.
type WildcardPattern struct {
	Span position.Span
}

func (w *WildcardPattern) Pos() position.Span { return w.Span }
func (w *WildcardPattern) patternNode()       {}
func (w *WildcardPattern) String() string     { return "_" }

// LiteralPattern matches a literal value.
type LiteralPattern struct {
	Span  position.Span
	Value *Literal
}

func (l *LiteralPattern) Pos() position.Span { return l.Span }
func (l *LiteralPattern) patternNode()       {}
func (l *LiteralPattern) String() string     { return l.Value.String() }

// BindingPattern matches anything and binds it to a name.
type BindingPattern struct {
	Span position.Span
	Name *Identifier
}

func (b *BindingPattern) Pos() position.Span { return b.Span }
func (b *BindingPattern) patternNode()       {}
func (b *BindingPattern) String() string     { return b.Name.String() }

// VariantPattern matches an enum variant, optionally destructuring payloads.
type VariantPattern struct {
	Span     position.Span
	Enum     *Identifier
	Variant  *Identifier
	Elements []Pattern
}

func (v *VariantPattern) Pos() position.Span { return v.Span }
func (v *VariantPattern) patternNode()       {}
func (v *VariantPattern) String() string {
	base := fmt.Sprintf("%s::%s", v.Enum.String(), v.Variant.String())
	if len(v.Elements) == 0 {
		return base
	}
	parts := make([]string, 0, len(v.Elements))
	for _, e := range v.Elements {
		parts = append(parts, e.String())
	}
	return fmt.Sprintf("%s(%s)", base, strings.Join(parts, ", "))
}

// ===== Expressions =====

// LiteralKind discriminates literal values.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota // 64-bit signed, two's complement
	LiteralBoolean
	LiteralText
)

func (lk LiteralKind) String() string {
	switch lk {
	case LiteralInteger:
		return "integer"
	case LiteralBoolean:
		return "boolean"
	case LiteralText:
		return "text"
	default:
		return "unknown"
	}
}

// Literal is a literal value. Value holds int64, bool or string depending
// on Kind; Raw keeps the source text (synthesized literals render a
// canonical form). Literal equality is value equality: a folded literal is
// indistinguishable from a parsed one.
type Literal struct {
	Span  position.Span
	Kind  LiteralKind
	Value interface{}
	Raw   string
}

func (l *Literal) Pos() position.Span { return l.Span }
func (l *Literal) exprNode()          {}
func (l *Literal) String() string     { return l.Raw }

// IntValue returns the integer value when Kind is LiteralInteger.
func (l *Literal) IntValue() (int64, bool) {
	if l.Kind != LiteralInteger {
		return 0, false
	}
	v, ok := l.Value.(int64)
	return v, ok
}

// BoolValue returns the boolean value when Kind is LiteralBoolean.
func (l *Literal) BoolValue() (bool, bool) {
	if l.Kind != LiteralBoolean {
		return false, false
	}
	v, ok := l.Value.(bool)
	return v, ok
}

// TextValue returns the text value when Kind is LiteralText.
func (l *Literal) TextValue() (string, bool) {
	if l.Kind != LiteralText {
		return "", false
	}
	v, ok := l.Value.(string)
	return v, ok
}

// NewIntLiteral synthesizes an integer literal with canonical raw text.
func NewIntLiteral(span position.Span, value int64) *Literal {
	return &Literal{Span: span, Kind: LiteralInteger, Value: value, Raw: strconv.FormatInt(value, 10)}
}

// NewBoolLiteral synthesizes a boolean literal.
func NewBoolLiteral(span position.Span, value bool) *Literal {
	return &Literal{Span: span, Kind: LiteralBoolean, Value: value, Raw: strconv.FormatBool(value)}
}

// NewTextLiteral synthesizes a text literal.
func NewTextLiteral(span position.Span, value string) *Literal {
	return &Literal{Span: span, Kind: LiteralText, Value: value, Raw: strconv.Quote(value)}
}

// Identifier is a reference to a named binding.
type Identifier struct {
	Span position.Span
	Name string
}

func (i *Identifier) Pos() position.Span { return i.Span }
func (i *Identifier) exprNode()          {}
func (i *Identifier) String() string     { return i.Name }

// BinaryExpression applies a binary operator to two operands.
type BinaryExpression struct {
	Span     position.Span
	Left     Expression
	Operator Operator
	Right    Expression
}

func (b *BinaryExpression) Pos() position.Span { return b.Span }
func (b *BinaryExpression) exprNode()          {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator.String(), b.Right.String())
}

// UnaryExpression applies a unary operator to one operand.
// OpSub is negation, OpNot is logical not.
type UnaryExpression struct {
	Span     position.Span
	Operator Operator
	Operand  Expression
}

func (u *UnaryExpression) Pos() position.Span { return u.Span }
func (u *UnaryExpression) exprNode()          {}
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator.String(), u.Operand.String())
}

// CallExpression invokes a callee with ordered arguments.
type CallExpression struct {
	Span      position.Span
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) Pos() position.Span { return c.Span }
func (c *CallExpression) exprNode()          {}
func (c *CallExpression) String() string {
	args := make([]string, 0, len(c.Arguments))
	for _, arg := range c.Arguments {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(args, ", "))
}

// ArrayLiteral is an ordered element list: [a, b, c].
type ArrayLiteral struct {
	Span     position.Span
	Elements []Expression
}

func (a *ArrayLiteral) Pos() position.Span { return a.Span }
func (a *ArrayLiteral) exprNode()          {}
func (a *ArrayLiteral) String() string {
	parts := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ArrayRepeat is the repeated-element form: [value; count].
type ArrayRepeat struct {
	Span  position.Span
	Value Expression
	Count Expression
}

func (a *ArrayRepeat) Pos() position.Span { return a.Span }
func (a *ArrayRepeat) exprNode()          {}
func (a *ArrayRepeat) String() string {
	return fmt.Sprintf("[%s; %s]", a.Value.String(), a.Count.String())
}

// IndexExpression reads an element: object[index].
type IndexExpression struct {
	Span   position.Span
	Object Expression
	Index  Expression
}

func (i *IndexExpression) Pos() position.Span { return i.Span }
func (i *IndexExpression) exprNode()          {}
func (i *IndexExpression) String() string {
	return fmt.Sprintf("%s[%s]", i.Object.String(), i.Index.String())
}

// FieldAccessExpression reads a named field: object.field.
type FieldAccessExpression struct {
	Span   position.Span
	Object Expression
	Field  *Identifier
}

func (f *FieldAccessExpression) Pos() position.Span { return f.Span }
func (f *FieldAccessExpression) exprNode()          {}
func (f *FieldAccessExpression) String() string {
	return fmt.Sprintf("%s.%s", f.Object.String(), f.Field.String())
}

// FieldInit is one field initializer of a struct literal.
type FieldInit struct {
	Span  position.Span
	Name  *Identifier
	Value Expression
}

func (f *FieldInit) Pos() position.Span { return f.Span }
func (f *FieldInit) String() string {
	return fmt.Sprintf("%s: %s", f.Name.String(), f.Value.String())
}

// StructLiteral constructs a struct value: Name { field: value, ... }.
type StructLiteral struct {
	Span   position.Span
	Name   *Identifier
	Fields []*FieldInit
}

func (s *StructLiteral) Pos() position.Span { return s.Span }
func (s *StructLiteral) exprNode()          {}
func (s *StructLiteral) String() string {
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s { %s }", s.Name.String(), strings.Join(parts, ", "))
}

// VariantExpression constructs an enum variant: Enum::Variant(args).
type VariantExpression struct {
	Span    position.Span
	Enum    *Identifier
	Variant *Identifier
	Args    []Expression
}

func (v *VariantExpression) Pos() position.Span { return v.Span }
func (v *VariantExpression) exprNode()          {}
func (v *VariantExpression) String() string {
	base := fmt.Sprintf("%s::%s", v.Enum.String(), v.Variant.String())
	if len(v.Args) == 0 {
		return base
	}
	parts := make([]string, 0, len(v.Args))
	for _, a := range v.Args {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("%s(%s)", base, strings.Join(parts, ", "))
}

// RangeExpression is a bounded range: start..end or start..=end.
type RangeExpression struct {
	Span      position.Span
	Start     Expression
	End       Expression
	Inclusive bool
}

func (r *RangeExpression) Pos() position.Span { return r.Span }
func (r *RangeExpression) exprNode()          {}
func (r *RangeExpression) String() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%s%s%s", r.Start.String(), op, r.End.String())
}

// ReferenceExpression takes a reference: &x or &mut x.
type ReferenceExpression struct {
	Span      position.Span
	IsMutable bool
	Operand   Expression
}

func (r *ReferenceExpression) Pos() position.Span { return r.Span }
func (r *ReferenceExpression) exprNode()          {}
func (r *ReferenceExpression) String() string {
	if r.IsMutable {
		return "&mut " + r.Operand.String()
	}
	return "&" + r.Operand.String()
}

// DereferenceExpression reads through a reference: *x.
type DereferenceExpression struct {
	Span    position.Span
	Operand Expression
}

func (d *DereferenceExpression) Pos() position.Span { return d.Span }
func (d *DereferenceExpression) exprNode()          {}
func (d *DereferenceExpression) String() string     { return "*" + d.Operand.String() }

// ===== Types =====

// BasicKind discriminates built-in types.
type BasicKind int

const (
	BasicInt BasicKind = iota
	BasicBool
	BasicText
	BasicUnit
)

func (bk BasicKind) String() string {
	switch bk {
	case BasicInt:
		return "int"
	case BasicBool:
		return "bool"
	case BasicText:
		return "text"
	case BasicUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// BasicType is a built-in type annotation.
type BasicType struct {
	Span position.Span
	Kind BasicKind
}

func (b *BasicType) Pos() position.Span { return b.Span }
func (b *BasicType) typeNode()          {}
func (b *BasicType) String() string     { return b.Kind.String() }

// NamedType is a user-defined type referenced by name.
type NamedType struct {
	Span position.Span
	Name *Identifier
}

func (n *NamedType) Pos() position.Span { return n.Span }
func (n *NamedType) typeNode()          {}
func (n *NamedType) String() string     { return n.Name.String() }

// ReferenceType is a reference type annotation: &T or &mut T.
type ReferenceType struct {
	Span      position.Span
	IsMutable bool
	Elem      Type
}

func (r *ReferenceType) Pos() position.Span { return r.Span }
func (r *ReferenceType) typeNode()          {}
func (r *ReferenceType) String() string {
	if r.IsMutable {
		return "&mut " + r.Elem.String()
	}
	return "&" + r.Elem.String()
}

// ===== Operators =====

// Operator enumerates the Quill operators the tree can carry.
type Operator int

const (
	OpAdd Operator = iota // +
	OpSub                 // - (binary subtraction and unary negation)
	OpMul                 // *
	OpDiv                 // /
	OpMod                 // %

	OpEq // ==
	OpNe // !=
	OpLt // <
	OpLe // <=
	OpGt // >
	OpGe // >=

	OpAnd // && (short-circuiting)
	OpOr  // || (short-circuiting)
	OpNot // !
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpNot:
		return "!"
	default:
		return "unknown"
	}
}

// IsComparison reports whether op is one of the six comparison operators.
func (op Operator) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}
