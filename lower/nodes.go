package lower

import (
	"github.com/yarlson/yarc/ast"
	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/types"
)

// The helpers below synthesize bound nodes the rewriter needs. Every
// synthesized expression resolves its operator through
// binder.BindBinaryOperator, the same oracle the binder itself uses on
// source expressions, so a broken rewrite surfaces as a resolution
// failure rather than a silently mistyped tree.

func label(target binder.Label, syntax ast.Node) *binder.BoundLabelStatement {
	return &binder.BoundLabelStatement{Label: target, SyntaxNode: syntax}
}

func gotoUnconditional(target binder.Label, syntax ast.Node) *binder.BoundGotoStatement {
	return &binder.BoundGotoStatement{Target: target, SyntaxNode: syntax}
}

func gotoTrue(target binder.Label, cond binder.BoundExpression, syntax ast.Node) *binder.BoundConditionalGotoStatement {
	return &binder.BoundConditionalGotoStatement{Target: target, Condition: cond, JumpIfTrue: true, SyntaxNode: syntax}
}

func gotoFalse(target binder.Label, cond binder.BoundExpression, syntax ast.Node) *binder.BoundConditionalGotoStatement {
	return &binder.BoundConditionalGotoStatement{Target: target, Condition: cond, JumpIfTrue: false, SyntaxNode: syntax}
}

func variableRef(sym *types.Symbol, syntax ast.Node) *binder.BoundVariableReference {
	return &binder.BoundVariableReference{Symbol: sym, SyntaxNode: syntax}
}

func intLiteral(n int64, syntax ast.Node) *binder.BoundLiteralExpression {
	return &binder.BoundLiteralExpression{Value: n, ValueType: types.Int, SyntaxNode: syntax}
}

// binaryExpr resolves op against left's and right's types via the same
// oracle the binder uses. Every operator this package asks for (<=, >=,
// <, >, +, &&, ||) is a required resolution per the operator-resolution
// contract; a miss here means the lowerer handed mismatched types to
// itself, which is a programming bug, not a user diagnostic.
func binaryExpr(left binder.BoundExpression, op string, right binder.BoundExpression, syntax ast.Node) *binder.BoundBinaryExpression {
	resolved, err := binder.BindBinaryOperator(op, left.Type(), right.Type())
	if err != nil {
		panic("lower: " + err.Error())
	}

	return &binder.BoundBinaryExpression{Left: left, Op: resolved, Right: right, SyntaxNode: syntax}
}

// incrementStatement synthesizes `v = v + amount` as an expression
// statement, used for both the implicit +1 step and the explicit
// stepper increment.
func incrementStatement(v *types.Symbol, amount binder.BoundExpression, syntax ast.Node) *binder.BoundExpressionStatement {
	sum := binaryExpr(variableRef(v, syntax), "+", amount, syntax)
	assign := &binder.BoundAssignmentExpression{Symbol: v, Value: sum, SyntaxNode: syntax}

	return &binder.BoundExpressionStatement{Expr: assign, SyntaxNode: syntax}
}
