package parser

import (
	"testing"

	"github.com/yarlson/yarc/ast"
	"github.com/yarlson/yarc/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Block {
	t.Helper()

	l := lexer.New(input)
	p := New(l)

	prog := p.ParseProgram()

	checkParserErrors(t, p)

	return prog
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()

	errs := p.Errors()
	if len(errs) == 0 {
		return
	}

	t.Errorf("parser had %d errors", len(errs))

	for _, msg := range errs {
		t.Errorf("parser error: %s", msg)
	}

	t.FailNow()
}

func TestParseVarDecl(t *testing.T) {
	prog := parseProgram(t, "var x = 5")

	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}

	decl, ok := prog.Stmts[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.VarDeclStmt, got %T", prog.Stmts[0])
	}

	if decl.Name != "x" {
		t.Errorf("Name = %s, want x", decl.Name)
	}

	if decl.ReadOnly {
		t.Error("var should not be ReadOnly")
	}

	lit, ok := decl.Value.(*ast.IntLit)
	if !ok || lit.Value != "5" {
		t.Errorf("Value = %v, want IntLit(5)", decl.Value)
	}
}

func TestParseLetDecl(t *testing.T) {
	prog := parseProgram(t, "let y = true")

	decl, ok := prog.Stmts[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.VarDeclStmt, got %T", prog.Stmts[0])
	}

	if !decl.ReadOnly {
		t.Error("let should be ReadOnly")
	}

	lit, ok := decl.Value.(*ast.BoolLit)
	if !ok || !lit.Value {
		t.Errorf("Value = %v, want BoolLit(true)", decl.Value)
	}
}

func TestParseAssignment(t *testing.T) {
	prog := parseProgram(t, "x = x + 1")

	stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Stmts[0])
	}

	assign, ok := stmt.Expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected *ast.AssignExpr, got %T", stmt.Expr)
	}

	if assign.Name != "x" {
		t.Errorf("Name = %s, want x", assign.Name)
	}

	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected binary +, got %v", assign.Value)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "(1 + 2)"},
		{"a == b", "(a == b)"},
		{"a < b && c > d", "((a < b) && (c > d))"},
		{"a && b || c", "((a && b) || c)"},
		{"!a || b", "((!a) || b)"},
		{"-a + b", "((-a) + b)"},
		{"(a + b)", "(a + b)"},
	}

	for _, tt := range tests {
		prog := parseProgram(t, tt.input)

		stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
		if !ok {
			t.Fatalf("input %q: expected *ast.ExprStmt, got %T", tt.input, prog.Stmts[0])
		}

		if got := stmt.Expr.String(); got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseProgram(t, `
if x < 5 {
	y = 1
} else {
	y = 2
}
`)

	ifStmt, ok := prog.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Stmts[0])
	}

	if len(ifStmt.Then.Stmts) != 1 {
		t.Errorf("Then has %d statements, want 1", len(ifStmt.Then.Stmts))
	}

	elseBlock, ok := ifStmt.Else.(*ast.Block)
	if !ok {
		t.Fatalf("expected Else to be *ast.Block, got %T", ifStmt.Else)
	}

	if len(elseBlock.Stmts) != 1 {
		t.Errorf("Else has %d statements, want 1", len(elseBlock.Stmts))
	}
}

func TestParseElseIfChain(t *testing.T) {
	prog := parseProgram(t, `
if x == 1 {
	y = 1
} else if x == 2 {
	y = 2
} else {
	y = 3
}
`)

	ifStmt, ok := prog.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Stmts[0])
	}

	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected Else to be *ast.IfStmt (else-if chain), got %T", ifStmt.Else)
	}

	if _, ok := elseIf.Else.(*ast.Block); !ok {
		t.Fatalf("expected innermost Else to be *ast.Block, got %T", elseIf.Else)
	}
}

func TestParseWhile(t *testing.T) {
	prog := parseProgram(t, `
while x < 10 {
	x = x + 1
}
`)

	w, ok := prog.Stmts[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", prog.Stmts[0])
	}

	if len(w.Body.Stmts) != 1 {
		t.Errorf("Body has %d statements, want 1", len(w.Body.Stmts))
	}
}

func TestParseDoWhile(t *testing.T) {
	prog := parseProgram(t, `
do {
	x = x + 1
} while x < 10
`)

	d, ok := prog.Stmts[0].(*ast.DoWhileStmt)
	if !ok {
		t.Fatalf("expected *ast.DoWhileStmt, got %T", prog.Stmts[0])
	}

	if len(d.Body.Stmts) != 1 {
		t.Errorf("Body has %d statements, want 1", len(d.Body.Stmts))
	}

	bin, ok := d.Cond.(*ast.BinaryExpr)
	if !ok || bin.Op != "<" {
		t.Errorf("Cond = %v, want binary <", d.Cond)
	}
}

func TestParseForNoStep(t *testing.T) {
	prog := parseProgram(t, `
for i = 1 to 10 {
	sum = sum + i
}
`)

	f, ok := prog.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected *ast.ForStmt, got %T", prog.Stmts[0])
	}

	if f.Var != "i" {
		t.Errorf("Var = %s, want i", f.Var)
	}

	if f.Step != nil {
		t.Errorf("Step = %v, want nil", f.Step)
	}
}

func TestParseForWithStep(t *testing.T) {
	prog := parseProgram(t, `
for i = 10 to 1 step -1 {
	count = count + 1
}
`)

	f, ok := prog.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected *ast.ForStmt, got %T", prog.Stmts[0])
	}

	if f.Step == nil {
		t.Fatal("Step = nil, want non-nil")
	}

	unary, ok := f.Step.(*ast.UnaryExpr)
	if !ok || unary.Op != "-" {
		t.Errorf("Step = %v, want unary -1", f.Step)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	prog := parseProgram(t, `
if true {
	while x < 5 {
		x = x + 1
	}
}
`)

	ifStmt, ok := prog.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Stmts[0])
	}

	if len(ifStmt.Then.Stmts) != 1 {
		t.Fatalf("Then has %d statements, want 1", len(ifStmt.Then.Stmts))
	}

	if _, ok := ifStmt.Then.Stmts[0].(*ast.WhileStmt); !ok {
		t.Errorf("expected nested *ast.WhileStmt, got %T", ifStmt.Then.Stmts[0])
	}
}

func TestParserReportsError(t *testing.T) {
	l := lexer.New("var = 5")
	p := New(l)

	p.ParseProgram()

	if len(p.Errors()) == 0 {
		t.Error("expected parser errors for missing identifier after var")
	}
}
