package binder

import (
	"fmt"
	"strconv"

	"go.uber.org/multierr"

	"github.com/yarlson/yarc/ast"
	"github.com/yarlson/yarc/types"
)

// Diagnostic is a single source-level binding error, carrying enough
// position information for a caller (the CLI, the language server) to
// point at the offending source text.
type Diagnostic struct {
	Pos     ast.Position
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s", d.Pos.Line, d.Pos.Column, d.Message)
}

// Binder performs name resolution and type checking over a parsed
// ast.Block, producing a BoundBlockStatement. Unlike the lowerer, a
// source-level binding failure (undefined name, mistyped expression,
// reassignment of a `let`) is an expected outcome, not a bug: Bind
// aggregates every diagnostic it finds via multierr and reports them
// together rather than stopping at the first one.
type Binder struct {
	scope *types.Scope
	err   error
}

// NewBinder creates a Binder with a fresh outermost scope.
func NewBinder() *Binder {
	return &Binder{scope: types.NewScope(nil)}
}

func (b *Binder) error(node ast.Node, format string, args ...any) {
	b.err = multierr.Append(b.err, Diagnostic{Pos: node.Pos(), Message: fmt.Sprintf(format, args...)})
}

// Bind resolves and type-checks block, returning the bound tree and any
// accumulated diagnostics. The returned statement is always non-nil, even
// when err is non-nil, so callers that want best-effort diagnostics from
// a partially valid program may still inspect it.
func Bind(block *ast.Block) (*BoundBlockStatement, error) {
	b := NewBinder()
	bound := b.bindBlock(block)

	return bound, b.err
}

func (b *Binder) bindBlock(block *ast.Block) *BoundBlockStatement {
	b.scope = types.NewScope(b.scope)
	defer func() { b.scope = b.scope.Parent() }()

	stmts := make([]BoundStatement, 0, len(block.Stmts))
	for _, s := range block.Stmts {
		stmts = append(stmts, b.bindStatement(s))
	}

	return &BoundBlockStatement{Stmts: stmts, SyntaxNode: block}
}

func (b *Binder) bindStatement(stmt ast.Stmt) BoundStatement {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		return b.bindVarDecl(s)
	case *ast.ExprStmt:
		return &BoundExpressionStatement{Expr: b.bindExpression(s.Expr), SyntaxNode: s}
	case *ast.IfStmt:
		return b.bindIf(s)
	case *ast.WhileStmt:
		return b.bindWhile(s)
	case *ast.DoWhileStmt:
		return b.bindDoWhile(s)
	case *ast.ForStmt:
		return b.bindFor(s)
	case *ast.Block:
		return b.bindBlock(s)
	default:
		b.error(stmt, "unsupported statement %T", stmt)
		return &BoundBlockStatement{SyntaxNode: stmt}
	}
}

func (b *Binder) bindVarDecl(s *ast.VarDeclStmt) BoundStatement {
	value := b.bindExpression(s.Value)

	if b.scope.DeclaredLocally(s.Name) {
		b.error(s, "%s is already declared in this scope", s.Name)
	}

	sym := b.scope.Declare(s.Name, s.ReadOnly, value.Type())

	return &BoundVariableDeclaration{Symbol: sym, Initializer: value, SyntaxNode: s}
}

func (b *Binder) bindIf(s *ast.IfStmt) BoundStatement {
	cond := b.bindExpression(s.Cond)
	b.requireType(s.Cond, cond.Type(), types.Bool)

	then := b.bindBlock(s.Then)

	var elseStmt BoundStatement
	if s.Else != nil {
		elseStmt = b.bindStatement(s.Else)
	}

	return &BoundIfStatement{Condition: cond, Then: then, Else: elseStmt, SyntaxNode: s}
}

func (b *Binder) bindWhile(s *ast.WhileStmt) BoundStatement {
	cond := b.bindExpression(s.Cond)
	b.requireType(s.Cond, cond.Type(), types.Bool)

	body := b.bindBlock(s.Body)

	return &BoundWhileStatement{Condition: cond, Body: body, SyntaxNode: s}
}

func (b *Binder) bindDoWhile(s *ast.DoWhileStmt) BoundStatement {
	body := b.bindBlock(s.Body)

	cond := b.bindExpression(s.Cond)
	b.requireType(s.Cond, cond.Type(), types.Bool)

	return &BoundDoWhileStatement{Body: body, Condition: cond, SyntaxNode: s}
}

func (b *Binder) bindFor(s *ast.ForStmt) BoundStatement {
	lower := b.bindExpression(s.Lower)
	b.requireType(s.Lower, lower.Type(), types.Int)

	upper := b.bindExpression(s.Upper)
	b.requireType(s.Upper, upper.Type(), types.Int)

	var stepper BoundExpression
	if s.Step != nil {
		stepper = b.bindExpression(s.Step)
		b.requireType(s.Step, stepper.Type(), types.Int)
	}

	// The loop variable is in scope for the body but not for lower/upper/
	// step, matching the source's "L, U, S evaluated in the enclosing
	// scope" semantics (§4.2.4/4.2.5 of the lowering contract).
	b.scope = types.NewScope(b.scope)
	variable := b.scope.Declare(s.Var, false, types.Int)
	body := b.bindBlock(s.Body)
	b.scope = b.scope.Parent()

	return &BoundForStatement{
		Variable:   variable,
		Lower:      lower,
		Upper:      upper,
		Stepper:    stepper,
		Body:       body,
		SyntaxNode: s,
	}
}

func (b *Binder) requireType(node ast.Node, got, want types.Type) {
	if !types.Equal(got, want) {
		b.error(node, "expected type %s, got %s", want, got)
	}
}

func (b *Binder) bindExpression(expr ast.Expr) BoundExpression {
	switch e := expr.(type) {
	case *ast.IntLit:
		n, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			b.error(e, "invalid integer literal %q", e.Value)
		}

		return &BoundLiteralExpression{Value: n, ValueType: types.Int, SyntaxNode: e}
	case *ast.BoolLit:
		return &BoundLiteralExpression{Value: e.Value, ValueType: types.Bool, SyntaxNode: e}
	case *ast.Ident:
		sym, ok := b.scope.Lookup(e.Name)
		if !ok {
			b.error(e, "undefined name %s", e.Name)
			return &BoundLiteralExpression{Value: int64(0), ValueType: types.Int, SyntaxNode: e}
		}

		return &BoundVariableReference{Symbol: sym, SyntaxNode: e}
	case *ast.AssignExpr:
		return b.bindAssignment(e)
	case *ast.UnaryExpr:
		return b.bindUnary(e)
	case *ast.BinaryExpr:
		return b.bindBinary(e)
	case *ast.ParenExpr:
		return b.bindExpression(e.Inner)
	default:
		b.error(expr, "unsupported expression %T", expr)
		return &BoundLiteralExpression{Value: int64(0), ValueType: types.Int, SyntaxNode: expr}
	}
}

func (b *Binder) bindAssignment(e *ast.AssignExpr) BoundExpression {
	value := b.bindExpression(e.Value)

	sym, ok := b.scope.Lookup(e.Name)
	if !ok {
		b.error(e, "undefined name %s", e.Name)
		return value
	}

	if sym.ReadOnly {
		b.error(e, "cannot assign to read-only variable %s", e.Name)
	}

	b.requireType(e, value.Type(), sym.Type)

	return &BoundAssignmentExpression{Symbol: sym, Value: value, SyntaxNode: e}
}

func (b *Binder) bindUnary(e *ast.UnaryExpr) BoundExpression {
	operand := b.bindExpression(e.Operand)

	op, err := BindUnaryOperator(e.Op, operand.Type())
	if err != nil {
		b.error(e, "%s", err)
		op = &BoundUnaryOperator{Syntax: e.Op, OperandType: operand.Type(), ResultType: operand.Type()}
	}

	return &BoundUnaryExpression{Op: op, Operand: operand, SyntaxNode: e}
}

func (b *Binder) bindBinary(e *ast.BinaryExpr) BoundExpression {
	left := b.bindExpression(e.Left)
	right := b.bindExpression(e.Right)

	op, err := BindBinaryOperator(e.Op, left.Type(), right.Type())
	if err != nil {
		b.error(e, "%s", err)
		op = &BoundBinaryOperator{Syntax: e.Op, LeftType: left.Type(), RightType: right.Type(), ResultType: left.Type()}
	}

	return &BoundBinaryExpression{Left: left, Op: op, Right: right, SyntaxNode: e}
}
