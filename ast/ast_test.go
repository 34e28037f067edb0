package ast

import "testing"

func TestIntLitString(t *testing.T) {
	lit := &IntLit{Value: "42"}
	if lit.String() != "42" {
		t.Errorf("IntLit.String() wrong. got=%q", lit.String())
	}
}

func TestBinaryExprString(t *testing.T) {
	expr := &BinaryExpr{
		Left:  &IntLit{Value: "1"},
		Op:    "+",
		Right: &IntLit{Value: "2"},
	}
	if expr.String() != "(1 + 2)" {
		t.Errorf("BinaryExpr.String() wrong. got=%q", expr.String())
	}
}

func TestIdentPos(t *testing.T) {
	ident := &Ident{
		Name:     "foo",
		Position: Position{Line: 1, Column: 5},
	}

	if ident.Name != "foo" {
		t.Errorf("Name = %s, want foo", ident.Name)
	}

	if ident.Pos().Line != 1 || ident.Pos().Column != 5 {
		t.Errorf("Pos() incorrect: %+v", ident.Pos())
	}
}

func TestForStmtStepOptional(t *testing.T) {
	noStep := &ForStmt{Var: "i", Lower: &IntLit{Value: "1"}, Upper: &IntLit{Value: "5"}, Body: &Block{}}
	if noStep.Step != nil {
		t.Error("expected nil Step when omitted")
	}

	withStep := &ForStmt{
		Var: "i", Lower: &IntLit{Value: "10"}, Upper: &IntLit{Value: "1"},
		Step: &UnaryExpr{Op: "-", Operand: &IntLit{Value: "1"}}, Body: &Block{},
	}
	if withStep.Step == nil {
		t.Error("expected non-nil Step")
	}
}

func TestBlockString(t *testing.T) {
	b := &Block{Stmts: []Stmt{
		&VarDeclStmt{Name: "x", Value: &IntLit{Value: "0"}},
		&ExprStmt{Expr: &AssignExpr{Name: "x", Value: &IntLit{Value: "1"}}},
	}}

	want := "{ var x = 0; x = 1 }"
	if b.String() != want {
		t.Errorf("Block.String() = %q, want %q", b.String(), want)
	}
}
