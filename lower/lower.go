// Package lower rewrites a bound tree's structured control flow
// (if/else, while, do-while, for-to-step) into a flat sequence of
// labels, gotos, conditional gotos, declarations, assignments, and
// expression evaluations, suitable for direct emission by an evaluator
// or a basic-block-oriented code generator.
package lower

import (
	"fmt"

	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/types"
)

// Lowerer owns the label counter for a single invocation of Lower. It is
// created fresh per call and discarded afterward; no state survives
// across invocations.
type Lowerer struct {
	labelCount int
}

// Lower rewrites stmt into an equivalent flat block containing no If,
// While, DoWhile, or For node. It is idempotent modulo label renaming:
// an already-lowered block passed back through Lower is unchanged in
// every respect but label names.
func Lower(stmt binder.BoundStatement) *binder.BoundBlockStatement {
	l := &Lowerer{}

	rewritten := l.rewriteStatement(stmt)

	return l.flatten(rewritten)
}

func (l *Lowerer) newLabel() binder.Label {
	l.labelCount++
	return binder.Label{Name: fmt.Sprintf("Label%d", l.labelCount)}
}

// newSynthSymbol allocates a read-only Int symbol with a name unique
// within this invocation, sharing the label counter so that two
// synthesized symbols (or a symbol and a label) never collide. Used for
// the per-for-loop upperBound/stepper bindings: like labels, these must
// not alias across nested loops, since eval and codegen both key their
// runtime environments by Symbol.Name.
func (l *Lowerer) newSynthSymbol(base string) *types.Symbol {
	l.labelCount++
	return &types.Symbol{Name: fmt.Sprintf("%s%d", base, l.labelCount), ReadOnly: true, Type: types.Int}
}

// rewriteStatement dispatches on statement kind. Control-flow kinds
// synthesize a replacement subtree and recursively rewrite it to a fixed
// point; all other kinds structurally recurse into their children,
// returning the original node by reference when nothing changed.
func (l *Lowerer) rewriteStatement(stmt binder.BoundStatement) binder.BoundStatement {
	switch s := stmt.(type) {
	case *binder.BoundBlockStatement:
		return l.rewriteBlock(s)
	case *binder.BoundVariableDeclaration:
		return s
	case *binder.BoundExpressionStatement:
		return s
	case *binder.BoundIfStatement:
		return l.rewriteIf(s)
	case *binder.BoundWhileStatement:
		return l.rewriteWhile(s)
	case *binder.BoundDoWhileStatement:
		return l.rewriteDoWhile(s)
	case *binder.BoundForStatement:
		return l.rewriteFor(s)
	case *binder.BoundLabelStatement, *binder.BoundGotoStatement, *binder.BoundConditionalGotoStatement:
		return s
	default:
		panic(fmt.Sprintf("lower: unsupported statement kind %T", stmt))
	}
}

func (l *Lowerer) rewriteBlock(b *binder.BoundBlockStatement) *binder.BoundBlockStatement {
	changed := false

	stmts := make([]binder.BoundStatement, len(b.Stmts))
	for i, s := range b.Stmts {
		rewritten := l.rewriteStatement(s)
		stmts[i] = rewritten

		if rewritten != s {
			changed = true
		}
	}

	if !changed {
		return b
	}

	return &binder.BoundBlockStatement{Stmts: stmts, SyntaxNode: b.SyntaxNode}
}

// rewriteIf implements §4.2.1: a gotoFalse past the then-branch, and for
// the two-branch form an unconditional jump past the else-branch.
func (l *Lowerer) rewriteIf(s *binder.BoundIfStatement) binder.BoundStatement {
	endLabel := l.newLabel()

	if s.Else == nil {
		block := &binder.BoundBlockStatement{
			SyntaxNode: s.SyntaxNode,
			Stmts: []binder.BoundStatement{
				gotoFalse(endLabel, s.Condition, s.SyntaxNode),
				s.Then,
				label(endLabel, s.SyntaxNode),
			},
		}

		return l.rewriteStatement(block)
	}

	elseLabel := l.newLabel()

	block := &binder.BoundBlockStatement{
		SyntaxNode: s.SyntaxNode,
		Stmts: []binder.BoundStatement{
			gotoFalse(elseLabel, s.Condition, s.SyntaxNode),
			s.Then,
			gotoUnconditional(endLabel, s.SyntaxNode),
			label(elseLabel, s.SyntaxNode),
			s.Else,
			label(endLabel, s.SyntaxNode),
		},
	}

	return l.rewriteStatement(block)
}

// rewriteWhile implements §4.2.2: a check-at-bottom form, so the
// condition is tested exactly once per iteration with a single
// unconditional jump on the hot path.
func (l *Lowerer) rewriteWhile(s *binder.BoundWhileStatement) binder.BoundStatement {
	checkLabel := l.newLabel()
	continueLabel := l.newLabel()

	block := &binder.BoundBlockStatement{
		SyntaxNode: s.SyntaxNode,
		Stmts: []binder.BoundStatement{
			gotoUnconditional(checkLabel, s.SyntaxNode),
			label(continueLabel, s.SyntaxNode),
			s.Body,
			label(checkLabel, s.SyntaxNode),
			gotoTrue(continueLabel, s.Condition, s.SyntaxNode),
		},
	}

	return l.rewriteStatement(block)
}

// rewriteDoWhile implements §4.2.3: the body runs once unconditionally
// before the first condition test.
func (l *Lowerer) rewriteDoWhile(s *binder.BoundDoWhileStatement) binder.BoundStatement {
	continueLabel := l.newLabel()

	block := &binder.BoundBlockStatement{
		SyntaxNode: s.SyntaxNode,
		Stmts: []binder.BoundStatement{
			label(continueLabel, s.SyntaxNode),
			s.Body,
			gotoTrue(continueLabel, s.Condition, s.SyntaxNode),
		},
	}

	return l.rewriteStatement(block)
}

// rewriteFor implements §4.2.4 (no step) and §4.2.5 (with step): it
// desugars into a declaration block followed by a while loop, then
// recursively rewrites that while via rewriteWhile. L, U, and S (when
// present) are each evaluated exactly once, in source order.
func (l *Lowerer) rewriteFor(s *binder.BoundForStatement) binder.BoundStatement {
	upperSym := l.newSynthSymbol("upperBound")

	varDecl := &binder.BoundVariableDeclaration{
		Symbol:      s.Variable,
		Initializer: s.Lower,
		SyntaxNode:  s.SyntaxNode,
	}
	upperDecl := &binder.BoundVariableDeclaration{
		Symbol:      upperSym,
		Initializer: s.Upper,
		SyntaxNode:  s.SyntaxNode,
	}

	varRef := variableRef(s.Variable, s.SyntaxNode)
	upperRef := variableRef(upperSym, s.SyntaxNode)

	if s.Stepper == nil {
		cond := binaryExpr(varRef, "<=", upperRef, s.SyntaxNode)
		increment := incrementStatement(s.Variable, intLiteral(1, s.SyntaxNode), s.SyntaxNode)

		body := &binder.BoundBlockStatement{
			SyntaxNode: s.SyntaxNode,
			Stmts:      []binder.BoundStatement{s.Body, increment},
		}

		whileStmt := &binder.BoundWhileStatement{Condition: cond, Body: body, SyntaxNode: s.SyntaxNode}

		block := &binder.BoundBlockStatement{
			SyntaxNode: s.SyntaxNode,
			Stmts:      []binder.BoundStatement{varDecl, upperDecl, whileStmt},
		}

		return l.rewriteStatement(block)
	}

	stepperSym := l.newSynthSymbol("stepper")
	stepperDecl := &binder.BoundVariableDeclaration{
		Symbol:      stepperSym,
		Initializer: s.Stepper,
		SyntaxNode:  s.SyntaxNode,
	}
	stepperRef := variableRef(stepperSym, s.SyntaxNode)

	zero := intLiteral(0, s.SyntaxNode)

	ascending := binaryExpr(
		binaryExpr(stepperRef, ">", zero, s.SyntaxNode),
		"&&",
		binaryExpr(varRef, "<=", upperRef, s.SyntaxNode),
		s.SyntaxNode,
	)
	descending := binaryExpr(
		binaryExpr(stepperRef, "<", zero, s.SyntaxNode),
		"&&",
		binaryExpr(varRef, ">=", upperRef, s.SyntaxNode),
		s.SyntaxNode,
	)
	cond := binaryExpr(ascending, "||", descending, s.SyntaxNode)

	increment := incrementStatement(s.Variable, stepperRef, s.SyntaxNode)

	body := &binder.BoundBlockStatement{
		SyntaxNode: s.SyntaxNode,
		Stmts:      []binder.BoundStatement{s.Body, increment},
	}

	whileStmt := &binder.BoundWhileStatement{Condition: cond, Body: body, SyntaxNode: s.SyntaxNode}

	block := &binder.BoundBlockStatement{
		SyntaxNode: s.SyntaxNode,
		Stmts:      []binder.BoundStatement{varDecl, upperDecl, stepperDecl, whileStmt},
	}

	return l.rewriteStatement(block)
}
