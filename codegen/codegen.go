// Package codegen emits LLVM IR for a lowered bound block. Because the
// lowering pass has already turned every structured control-flow
// construct into labels and gotos, code generation here is a single
// linear walk: split the statement sequence into LLVM basic blocks at
// Label boundaries and translate each Goto/ConditionalGoto into a
// terminator instruction. There is no if/while/for case to generate —
// that complexity was resolved once, upstream, by lower.Lower.
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/types"
)

// Generator translates a lowered block into an LLVM module containing a
// single `main` function.
type Generator struct {
	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	currentFunc llvm.Value

	// blocks maps each Label to the LLVM basic block that starts at it.
	// Pre-allocated in a first pass so forward jumps can reference a
	// block before it is populated.
	blocks map[binder.Label]llvm.BasicBlock

	// allocas maps a variable's symbol name to its stack slot. The
	// lowerer uniquifies every synthesized symbol name (upperBound,
	// stepper) the same way it uniquifies labels, so no two variables in
	// one lowered block share a name and a flat map keyed by name is
	// sufficient here.
	allocas map[string]llvm.Value

	// allBlocks records every basic block created for currentFunc, in
	// creation order: the entry block, one per allocated Label, and the
	// synthetic fallthrough/rhs/merge blocks opened mid-expression. Tests
	// walk this instead of the LLVM function's own block list.
	allBlocks []llvm.BasicBlock
}

// New creates a Generator with a fresh LLVM context and module.
func New() *Generator {
	ctx := llvm.NewContext()
	mod := ctx.NewModule("yarc")
	builder := ctx.NewBuilder()

	return &Generator{
		context: ctx,
		module:  mod,
		builder: builder,
		blocks:  make(map[binder.Label]llvm.BasicBlock),
		allocas: make(map[string]llvm.Value),
	}
}

// Generate emits a `main` function whose body executes block, and
// returns an error if the block references a type or operator the
// generator does not know how to lower to LLVM (a precondition
// violation: the binder and lowerer guarantee well-typed input, so this
// only fires on a malformed caller-constructed tree).
func (g *Generator) Generate(block *binder.BoundBlockStatement) error {
	mainType := llvm.FunctionType(g.context.Int32Type(), nil, false)
	mainFunc := llvm.AddFunction(g.module, "main", mainType)
	g.currentFunc = mainFunc

	entry := g.addBasicBlock("entry")
	g.builder.SetInsertPointAtEnd(entry)

	g.predeclareBlocks(block)

	current := entry

	for _, stmt := range block.Stmts {
		if label, ok := stmt.(*binder.BoundLabelStatement); ok {
			target := g.blocks[label.Label]

			if !blockHasTerminator(current) {
				g.builder.SetInsertPointAtEnd(current)
				g.builder.CreateBr(target)
			}

			current = target
			g.builder.SetInsertPointAtEnd(current)

			continue
		}

		next, err := g.generateStatement(stmt, current)
		if err != nil {
			return err
		}

		current = next
	}

	if !blockHasTerminator(current) {
		g.builder.SetInsertPointAtEnd(current)
		g.builder.CreateRet(llvm.ConstInt(g.context.Int32Type(), 0, false))
	}

	return nil
}

// predeclareBlocks creates one LLVM basic block per Label in the
// lowered sequence, in order, before any instructions are emitted, so
// that a ConditionalGoto or Goto appearing before its target's Label
// statement still has a valid llvm.BasicBlock to branch to.
func (g *Generator) predeclareBlocks(block *binder.BoundBlockStatement) {
	for _, stmt := range block.Stmts {
		if label, ok := stmt.(*binder.BoundLabelStatement); ok {
			g.blocks[label.Label] = g.addBasicBlock(label.Label.Name)
		}
	}
}

// addBasicBlock creates a basic block on currentFunc and records it in
// allBlocks, so every block this Generator ever opens - labeled or
// synthetic - is accounted for in one place.
func (g *Generator) addBasicBlock(name string) llvm.BasicBlock {
	bb := g.context.AddBasicBlock(g.currentFunc, name)
	g.allBlocks = append(g.allBlocks, bb)

	return bb
}

func blockHasTerminator(bb llvm.BasicBlock) bool {
	last := bb.LastInstruction()
	return !last.IsNil() && !last.IsATerminatorInst().IsNil()
}

// generateStatement emits stmt and returns the basic block execution
// falls into afterward, which the caller must carry forward as its new
// current: both a ConditionalGoto's fallthrough and a short-circuited
// &&/|| initializer leave the builder positioned in a block other than
// current, and the next Goto/ConditionalGoto/Label in the sequence must
// branch from wherever the builder actually landed, not from the stale
// block it started in.
func (g *Generator) generateStatement(stmt binder.BoundStatement, current llvm.BasicBlock) (llvm.BasicBlock, error) {
	switch s := stmt.(type) {
	case *binder.BoundVariableDeclaration:
		if err := g.generateVarDecl(s); err != nil {
			return current, err
		}

		return g.builder.GetInsertBlock(), nil
	case *binder.BoundExpressionStatement:
		if _, err := g.generateExpr(s.Expr); err != nil {
			return current, err
		}

		return g.builder.GetInsertBlock(), nil
	case *binder.BoundGotoStatement:
		g.builder.SetInsertPointAtEnd(current)
		g.builder.CreateBr(g.blocks[s.Target])

		return current, nil
	case *binder.BoundConditionalGotoStatement:
		return g.generateConditionalGoto(s, current)
	default:
		return current, fmt.Errorf("codegen: unsupported lowered statement kind %T", stmt)
	}
}

// generateConditionalGoto lowers a ConditionalGoto to a conditional
// branch with a synthetic fallthrough block: LLVM's `br i1` always
// needs two successors, so a third basic block is created to represent
// "did not jump", and it is returned as the new current so statements
// following the ConditionalGoto in source order are emitted there.
func (g *Generator) generateConditionalGoto(s *binder.BoundConditionalGotoStatement, current llvm.BasicBlock) (llvm.BasicBlock, error) {
	g.builder.SetInsertPointAtEnd(current)

	cond, err := g.generateExpr(s.Condition)
	if err != nil {
		return current, err
	}

	fallthroughBlock := g.addBasicBlock("fallthrough")

	target := g.blocks[s.Target]

	if s.JumpIfTrue {
		g.builder.CreateCondBr(cond, target, fallthroughBlock)
	} else {
		g.builder.CreateCondBr(cond, fallthroughBlock, target)
	}

	g.builder.SetInsertPointAtEnd(fallthroughBlock)

	return fallthroughBlock, nil
}

func (g *Generator) generateVarDecl(s *binder.BoundVariableDeclaration) error {
	value, err := g.generateExpr(s.Initializer)
	if err != nil {
		return err
	}

	alloca := g.builder.CreateAlloca(g.llvmType(s.Symbol.Type), s.Symbol.Name)
	g.builder.CreateStore(value, alloca)
	g.allocas[s.Symbol.Name] = alloca

	return nil
}

func (g *Generator) llvmType(t types.Type) llvm.Type {
	if types.Equal(t, types.Bool) {
		return g.context.Int1Type()
	}

	return g.context.Int64Type()
}

func (g *Generator) generateExpr(expr binder.BoundExpression) (llvm.Value, error) {
	switch e := expr.(type) {
	case *binder.BoundLiteralExpression:
		return g.generateLiteral(e)
	case *binder.BoundVariableReference:
		alloca, ok := g.allocas[e.Symbol.Name]
		if !ok {
			return llvm.Value{}, fmt.Errorf("codegen: reference to undeclared variable %s", e.Symbol.Name)
		}

		return g.builder.CreateLoad(g.llvmType(e.Symbol.Type), alloca, e.Symbol.Name), nil
	case *binder.BoundAssignmentExpression:
		return g.generateAssignment(e)
	case *binder.BoundUnaryExpression:
		return g.generateUnary(e)
	case *binder.BoundBinaryExpression:
		return g.generateBinary(e)
	default:
		return llvm.Value{}, fmt.Errorf("codegen: unsupported expression kind %T", expr)
	}
}

func (g *Generator) generateLiteral(e *binder.BoundLiteralExpression) (llvm.Value, error) {
	switch v := e.Value.(type) {
	case int64:
		return llvm.ConstInt(g.context.Int64Type(), uint64(v), true), nil
	case bool:
		n := uint64(0)
		if v {
			n = 1
		}

		return llvm.ConstInt(g.context.Int1Type(), n, false), nil
	default:
		return llvm.Value{}, fmt.Errorf("codegen: unsupported literal value %v (%T)", v, v)
	}
}

func (g *Generator) generateAssignment(e *binder.BoundAssignmentExpression) (llvm.Value, error) {
	value, err := g.generateExpr(e.Value)
	if err != nil {
		return llvm.Value{}, err
	}

	alloca, ok := g.allocas[e.Symbol.Name]
	if !ok {
		return llvm.Value{}, fmt.Errorf("codegen: assignment to undeclared variable %s", e.Symbol.Name)
	}

	g.builder.CreateStore(value, alloca)

	return value, nil
}

func (g *Generator) generateUnary(e *binder.BoundUnaryExpression) (llvm.Value, error) {
	operand, err := g.generateExpr(e.Operand)
	if err != nil {
		return llvm.Value{}, err
	}

	switch e.Op.Syntax {
	case "-":
		return g.builder.CreateNeg(operand, "negtmp"), nil
	case "!":
		return g.builder.CreateNot(operand, "nottmp"), nil
	default:
		return llvm.Value{}, fmt.Errorf("codegen: unsupported unary operator %q", e.Op.Syntax)
	}
}

func (g *Generator) generateBinary(e *binder.BoundBinaryExpression) (llvm.Value, error) {
	// && and || short-circuit at the LLVM level too: the right operand is
	// generated in its own block, reached only when the left operand
	// didn't already decide the result, mirroring the evaluator's
	// short-circuit semantics (required for the for-with-step zero-stepper
	// case, §9).
	if e.Op.Syntax == "&&" || e.Op.Syntax == "||" {
		return g.generateShortCircuit(e)
	}

	left, err := g.generateExpr(e.Left)
	if err != nil {
		return llvm.Value{}, err
	}

	right, err := g.generateExpr(e.Right)
	if err != nil {
		return llvm.Value{}, err
	}

	switch e.Op.Syntax {
	case "+":
		return g.builder.CreateAdd(left, right, "addtmp"), nil
	case "-":
		return g.builder.CreateSub(left, right, "subtmp"), nil
	case "<":
		return g.builder.CreateICmp(llvm.IntSLT, left, right, "lttmp"), nil
	case "<=":
		return g.builder.CreateICmp(llvm.IntSLE, left, right, "letmp"), nil
	case ">":
		return g.builder.CreateICmp(llvm.IntSGT, left, right, "gttmp"), nil
	case ">=":
		return g.builder.CreateICmp(llvm.IntSGE, left, right, "getmp"), nil
	case "==":
		return g.builder.CreateICmp(llvm.IntEQ, left, right, "eqtmp"), nil
	case "!=":
		return g.builder.CreateICmp(llvm.IntNE, left, right, "netmp"), nil
	default:
		return llvm.Value{}, fmt.Errorf("codegen: unsupported binary operator %q", e.Op.Syntax)
	}
}

func (g *Generator) generateShortCircuit(e *binder.BoundBinaryExpression) (llvm.Value, error) {
	left, err := g.generateExpr(e.Left)
	if err != nil {
		return llvm.Value{}, err
	}

	startBlock := g.builder.GetInsertBlock()
	rhsBlock := g.addBasicBlock("rhs")
	mergeBlock := g.addBasicBlock("scmerge")

	if e.Op.Syntax == "&&" {
		g.builder.CreateCondBr(left, rhsBlock, mergeBlock)
	} else {
		g.builder.CreateCondBr(left, mergeBlock, rhsBlock)
	}

	g.builder.SetInsertPointAtEnd(rhsBlock)

	right, err := g.generateExpr(e.Right)
	if err != nil {
		return llvm.Value{}, err
	}

	rhsEndBlock := g.builder.GetInsertBlock()
	g.builder.CreateBr(mergeBlock)

	g.builder.SetInsertPointAtEnd(mergeBlock)

	phi := g.builder.CreatePHI(g.context.Int1Type(), "scresult")
	phi.AddIncoming([]llvm.Value{left}, []llvm.BasicBlock{startBlock})
	phi.AddIncoming([]llvm.Value{right}, []llvm.BasicBlock{rhsEndBlock})

	return phi, nil
}

// EmitIR returns the textual LLVM IR of the generated module.
func (g *Generator) EmitIR() string {
	return g.module.String()
}
