package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	String() string
	Pos() Position
}

// ===== Expressions =====

// Expr represents an expression
type Expr interface {
	Node
	exprNode()
}

// Ident represents an identifier reference
type Ident struct {
	Name     string
	Position Position
}

func (i *Ident) exprNode()      {}
func (i *Ident) Pos() Position  { return i.Position }
func (i *Ident) String() string { return i.Name }

// IntLit represents an integer literal
type IntLit struct {
	Value    string // decimal digits, e.g. "123"
	Position Position
}

func (i *IntLit) exprNode()      {}
func (i *IntLit) Pos() Position  { return i.Position }
func (i *IntLit) String() string { return i.Value }

// BoolLit represents true/false
type BoolLit struct {
	Value    bool
	Position Position
}

func (b *BoolLit) exprNode()     {}
func (b *BoolLit) Pos() Position { return b.Position }
func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}

	return "false"
}

// AssignExpr represents `name = value`, usable as a statement via ExprStmt.
type AssignExpr struct {
	Name     string
	Value    Expr
	Position Position
}

func (a *AssignExpr) exprNode()     {}
func (a *AssignExpr) Pos() Position { return a.Position }
func (a *AssignExpr) String() string {
	return fmt.Sprintf("%s = %s", a.Name, a.Value.String())
}

// UnaryExpr represents a prefix operator (only `!` is surface syntax)
type UnaryExpr struct {
	Op       string
	Operand  Expr
	Position Position
}

func (u *UnaryExpr) exprNode()     {}
func (u *UnaryExpr) Pos() Position { return u.Position }
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Operand.String())
}

// BinaryExpr represents a binary operation
type BinaryExpr struct {
	Left     Expr
	Op       string
	Right    Expr
	Position Position
}

func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) Pos() Position { return b.Position }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// ParenExpr represents a parenthesized expression, kept so diagnostics can
// point at the original grouping rather than the unwrapped inner node.
type ParenExpr struct {
	Inner    Expr
	Position Position
}

func (p *ParenExpr) exprNode()     {}
func (p *ParenExpr) Pos() Position { return p.Position }
func (p *ParenExpr) String() string {
	return "(" + p.Inner.String() + ")"
}

// ===== Statements =====

// Stmt represents a statement
type Stmt interface {
	Node
	stmtNode()
}

// Block is an ordered sequence of statements delimited by `{ }`
type Block struct {
	Stmts    []Stmt
	Position Position
}

func (b *Block) stmtNode()     {}
func (b *Block) Pos() Position { return b.Position }
func (b *Block) String() string {
	stmts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = s.String()
	}

	return "{ " + strings.Join(stmts, "; ") + " }"
}

// VarDeclStmt represents `var name = value` or `let name = value`
type VarDeclStmt struct {
	Name     string
	ReadOnly bool // true for `let`, false for `var`
	Value    Expr
	Position Position
}

func (v *VarDeclStmt) stmtNode()     {}
func (v *VarDeclStmt) Pos() Position { return v.Position }
func (v *VarDeclStmt) String() string {
	kw := "var"
	if v.ReadOnly {
		kw = "let"
	}

	return fmt.Sprintf("%s %s = %s", kw, v.Name, v.Value.String())
}

// ExprStmt wraps an expression evaluated for its side effect
type ExprStmt struct {
	Expr     Expr
	Position Position
}

func (e *ExprStmt) stmtNode()      {}
func (e *ExprStmt) Pos() Position  { return e.Position }
func (e *ExprStmt) String() string { return e.Expr.String() }

// IfStmt represents `if cond { ... } else { ... }`; Else is nil, a *Block,
// or another *IfStmt (for `else if`).
type IfStmt struct {
	Cond     Expr
	Then     *Block
	Else     Stmt
	Position Position
}

func (i *IfStmt) stmtNode()     {}
func (i *IfStmt) Pos() Position { return i.Position }
func (i *IfStmt) String() string {
	if i.Else != nil {
		return fmt.Sprintf("if %s %s else %s", i.Cond.String(), i.Then.String(), i.Else.String())
	}

	return fmt.Sprintf("if %s %s", i.Cond.String(), i.Then.String())
}

// WhileStmt represents `while cond { ... }`
type WhileStmt struct {
	Cond     Expr
	Body     *Block
	Position Position
}

func (w *WhileStmt) stmtNode()     {}
func (w *WhileStmt) Pos() Position { return w.Position }
func (w *WhileStmt) String() string {
	return fmt.Sprintf("while %s %s", w.Cond.String(), w.Body.String())
}

// DoWhileStmt represents `do { ... } while cond`
type DoWhileStmt struct {
	Body     *Block
	Cond     Expr
	Position Position
}

func (d *DoWhileStmt) stmtNode()     {}
func (d *DoWhileStmt) Pos() Position { return d.Position }
func (d *DoWhileStmt) String() string {
	return fmt.Sprintf("do %s while %s", d.Body.String(), d.Cond.String())
}

// ForStmt represents `for v = lower to upper [step s] { ... }`. Step is nil
// when the source omitted the `step` clause.
type ForStmt struct {
	Var      string
	Lower    Expr
	Upper    Expr
	Step     Expr // nil if omitted
	Body     *Block
	Position Position
}

func (f *ForStmt) stmtNode()     {}
func (f *ForStmt) Pos() Position { return f.Position }
func (f *ForStmt) String() string {
	if f.Step != nil {
		return fmt.Sprintf("for %s = %s to %s step %s %s",
			f.Var, f.Lower.String(), f.Upper.String(), f.Step.String(), f.Body.String())
	}

	return fmt.Sprintf("for %s = %s to %s %s", f.Var, f.Lower.String(), f.Upper.String(), f.Body.String())
}
