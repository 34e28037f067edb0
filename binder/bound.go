// Package binder resolves names and types over a parsed ast.Block,
// producing the bound tree that the lower package rewrites. The bound
// tree is the same tagged-union style as the ast package, extended with
// the three low-level statement kinds (Label, Goto, ConditionalGoto) that
// only the lowerer ever constructs.
package binder

import (
	"github.com/yarlson/yarc/ast"
	"github.com/yarlson/yarc/types"
)

// Kind identifies the concrete variant of a BoundStatement or
// BoundExpression, letting the lowerer and evaluator switch on shape
// without type assertions on every node.
type Kind int

const (
	KindBlock Kind = iota
	KindVariableDeclaration
	KindExpressionStatement
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindLabel
	KindGoto
	KindConditionalGoto

	KindLiteral
	KindVariableReference
	KindAssignment
	KindBinary
	KindUnary
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "Block"
	case KindVariableDeclaration:
		return "VariableDeclaration"
	case KindExpressionStatement:
		return "ExpressionStatement"
	case KindIf:
		return "If"
	case KindWhile:
		return "While"
	case KindDoWhile:
		return "DoWhile"
	case KindFor:
		return "For"
	case KindLabel:
		return "Label"
	case KindGoto:
		return "Goto"
	case KindConditionalGoto:
		return "ConditionalGoto"
	case KindLiteral:
		return "Literal"
	case KindVariableReference:
		return "VariableReference"
	case KindAssignment:
		return "Assignment"
	case KindBinary:
		return "Binary"
	case KindUnary:
		return "Unary"
	default:
		return "Unknown"
	}
}

// BoundStatement is implemented by every statement-shaped bound node,
// including the low-level forms the lowerer introduces.
type BoundStatement interface {
	BoundKind() Kind
	Syntax() ast.Node
}

// BoundExpression is implemented by every expression-shaped bound node.
type BoundExpression interface {
	BoundKind() Kind
	Syntax() ast.Node
	Type() types.Type
}

// Label is an opaque, comparable marker identifying a position in a
// lowered block. Labels compare by Name; the lowerer guarantees
// uniqueness within one invocation.
type Label struct {
	Name string
}

// ---- Statements ----

// BoundBlockStatement is an ordered sequence of statements. The lowerer's
// output is always a single BoundBlockStatement with no nested block
// among its direct children.
type BoundBlockStatement struct {
	Stmts      []BoundStatement
	SyntaxNode ast.Node
}

func (b *BoundBlockStatement) BoundKind() Kind  { return KindBlock }
func (b *BoundBlockStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundVariableDeclaration binds a symbol to the value of Initializer.
type BoundVariableDeclaration struct {
	Symbol      *types.Symbol
	Initializer BoundExpression
	SyntaxNode  ast.Node
}

func (b *BoundVariableDeclaration) BoundKind() Kind  { return KindVariableDeclaration }
func (b *BoundVariableDeclaration) Syntax() ast.Node { return b.SyntaxNode }

// BoundExpressionStatement evaluates Expr for its side effect and
// discards the result.
type BoundExpressionStatement struct {
	Expr       BoundExpression
	SyntaxNode ast.Node
}

func (b *BoundExpressionStatement) BoundKind() Kind  { return KindExpressionStatement }
func (b *BoundExpressionStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundIfStatement is `if Condition Then [else Else]`. Else is nil when
// the source omitted an else branch.
type BoundIfStatement struct {
	Condition  BoundExpression
	Then       BoundStatement
	Else       BoundStatement // nil if absent
	SyntaxNode ast.Node
}

func (b *BoundIfStatement) BoundKind() Kind  { return KindIf }
func (b *BoundIfStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundWhileStatement is a check-at-top loop: Body runs while Condition
// holds.
type BoundWhileStatement struct {
	Condition  BoundExpression
	Body       BoundStatement
	SyntaxNode ast.Node
}

func (b *BoundWhileStatement) BoundKind() Kind  { return KindWhile }
func (b *BoundWhileStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundDoWhileStatement executes Body once, then repeats while Condition
// holds.
type BoundDoWhileStatement struct {
	Body       BoundStatement
	Condition  BoundExpression
	SyntaxNode ast.Node
}

func (b *BoundDoWhileStatement) BoundKind() Kind  { return KindDoWhile }
func (b *BoundDoWhileStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundForStatement is a counted loop over Variable from Lower to
// Upper, in Stepper increments (nil Stepper means an implicit step
// of 1).
type BoundForStatement struct {
	Variable   *types.Symbol
	Lower      BoundExpression
	Upper      BoundExpression
	Stepper    BoundExpression // nil if the source omitted `step`
	Body       BoundStatement
	SyntaxNode ast.Node
}

func (b *BoundForStatement) BoundKind() Kind  { return KindFor }
func (b *BoundForStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundLabelStatement marks the position of the statement that follows
// it in a flattened block. Only introduced by the lowerer.
type BoundLabelStatement struct {
	Label      Label
	SyntaxNode ast.Node
}

func (b *BoundLabelStatement) BoundKind() Kind  { return KindLabel }
func (b *BoundLabelStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundGotoStatement is an unconditional jump to Target. Only introduced
// by the lowerer.
type BoundGotoStatement struct {
	Target     Label
	SyntaxNode ast.Node
}

func (b *BoundGotoStatement) BoundKind() Kind  { return KindGoto }
func (b *BoundGotoStatement) Syntax() ast.Node { return b.SyntaxNode }

// BoundConditionalGotoStatement jumps to Target iff Condition evaluates
// to JumpIfTrue. Only introduced by the lowerer.
type BoundConditionalGotoStatement struct {
	Target     Label
	Condition  BoundExpression
	JumpIfTrue bool
	SyntaxNode ast.Node
}

func (b *BoundConditionalGotoStatement) BoundKind() Kind  { return KindConditionalGoto }
func (b *BoundConditionalGotoStatement) Syntax() ast.Node { return b.SyntaxNode }

// ---- Expressions ----

// BoundLiteralExpression is a constant value of known type.
type BoundLiteralExpression struct {
	Value      any // int64 or bool
	ValueType  types.Type
	SyntaxNode ast.Node
}

func (b *BoundLiteralExpression) BoundKind() Kind  { return KindLiteral }
func (b *BoundLiteralExpression) Syntax() ast.Node { return b.SyntaxNode }
func (b *BoundLiteralExpression) Type() types.Type { return b.ValueType }

// BoundVariableReference reads the current value of Symbol.
type BoundVariableReference struct {
	Symbol     *types.Symbol
	SyntaxNode ast.Node
}

func (b *BoundVariableReference) BoundKind() Kind  { return KindVariableReference }
func (b *BoundVariableReference) Syntax() ast.Node { return b.SyntaxNode }
func (b *BoundVariableReference) Type() types.Type { return b.Symbol.Type }

// BoundAssignmentExpression assigns the value of Value to Symbol; its own
// type is Symbol's type, matching source assignment-as-expression
// semantics.
type BoundAssignmentExpression struct {
	Symbol     *types.Symbol
	Value      BoundExpression
	SyntaxNode ast.Node
}

func (b *BoundAssignmentExpression) BoundKind() Kind  { return KindAssignment }
func (b *BoundAssignmentExpression) Syntax() ast.Node { return b.SyntaxNode }
func (b *BoundAssignmentExpression) Type() types.Type { return b.Symbol.Type }

// BoundBinaryOperator is the resolved operator for a BoundBinaryExpression:
// its syntax (e.g. "+"), and the operand/result types the binder verified
// against the oracle of BindBinaryOperator.
type BoundBinaryOperator struct {
	Syntax     string
	LeftType   types.Type
	RightType  types.Type
	ResultType types.Type
}

// BoundBinaryExpression is Left Op Right, where Op was resolved by
// BindBinaryOperator against Left's and Right's types.
type BoundBinaryExpression struct {
	Left       BoundExpression
	Op         *BoundBinaryOperator
	Right      BoundExpression
	SyntaxNode ast.Node
}

func (b *BoundBinaryExpression) BoundKind() Kind  { return KindBinary }
func (b *BoundBinaryExpression) Syntax() ast.Node { return b.SyntaxNode }
func (b *BoundBinaryExpression) Type() types.Type { return b.Op.ResultType }

// BoundUnaryOperator is the resolved operator for a BoundUnaryExpression.
type BoundUnaryOperator struct {
	Syntax      string
	OperandType types.Type
	ResultType  types.Type
}

// BoundUnaryExpression is Op Operand, where Op was resolved against
// Operand's type.
type BoundUnaryExpression struct {
	Op         *BoundUnaryOperator
	Operand    BoundExpression
	SyntaxNode ast.Node
}

func (b *BoundUnaryExpression) BoundKind() Kind  { return KindUnary }
func (b *BoundUnaryExpression) Syntax() ast.Node { return b.SyntaxNode }
func (b *BoundUnaryExpression) Type() types.Type { return b.Op.ResultType }
