package binder

import (
	"fmt"

	"github.com/yarlson/yarc/types"
)

// binaryOperators is the resolution table for every binary operator the
// source language's grammar admits. It is a strict superset of the
// operators the lowerer itself synthesizes (<=, >=, <, >, +, &&, ||, per
// the operator-resolution contract): source expressions may also use -,
// == and != directly, so the binder needs to resolve those even though
// lower never builds them.
var binaryOperators = []*BoundBinaryOperator{
	{Syntax: "+", LeftType: types.Int, RightType: types.Int, ResultType: types.Int},
	{Syntax: "-", LeftType: types.Int, RightType: types.Int, ResultType: types.Int},
	{Syntax: "<", LeftType: types.Int, RightType: types.Int, ResultType: types.Bool},
	{Syntax: "<=", LeftType: types.Int, RightType: types.Int, ResultType: types.Bool},
	{Syntax: ">", LeftType: types.Int, RightType: types.Int, ResultType: types.Bool},
	{Syntax: ">=", LeftType: types.Int, RightType: types.Int, ResultType: types.Bool},
	{Syntax: "==", LeftType: types.Int, RightType: types.Int, ResultType: types.Bool},
	{Syntax: "!=", LeftType: types.Int, RightType: types.Int, ResultType: types.Bool},
	{Syntax: "==", LeftType: types.Bool, RightType: types.Bool, ResultType: types.Bool},
	{Syntax: "!=", LeftType: types.Bool, RightType: types.Bool, ResultType: types.Bool},
	{Syntax: "&&", LeftType: types.Bool, RightType: types.Bool, ResultType: types.Bool},
	{Syntax: "||", LeftType: types.Bool, RightType: types.Bool, ResultType: types.Bool},
}

var unaryOperators = []*BoundUnaryOperator{
	{Syntax: "-", OperandType: types.Int, ResultType: types.Int},
	{Syntax: "!", OperandType: types.Bool, ResultType: types.Bool},
}

// BindBinaryOperator is the operator-resolution oracle: given the
// operator's surface syntax and its operand types, it returns the bound
// operator or an error if no resolution exists. Called both by the
// binder (on source expressions, where a miss is a legitimate
// diagnostic) and, in principle, by the lowerer when it synthesizes
// operators (where a miss is a precondition violation, since every
// operator the lowerer builds is one of the resolutions in this table).
func BindBinaryOperator(syntax string, left, right types.Type) (*BoundBinaryOperator, error) {
	for _, op := range binaryOperators {
		if op.Syntax == syntax && types.Equal(op.LeftType, left) && types.Equal(op.RightType, right) {
			return op, nil
		}
	}

	return nil, fmt.Errorf("operator %q is not defined for %s and %s", syntax, left, right)
}

// BindUnaryOperator resolves a prefix operator against its operand type.
func BindUnaryOperator(syntax string, operand types.Type) (*BoundUnaryOperator, error) {
	for _, op := range unaryOperators {
		if op.Syntax == syntax && types.Equal(op.OperandType, operand) {
			return op, nil
		}
	}

	return nil, fmt.Errorf("operator %q is not defined for %s", syntax, operand)
}
