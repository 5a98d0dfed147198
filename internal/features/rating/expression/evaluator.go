// Package expression interprets the extra-fee rule expressions authored in the
// channel editor. An expression is a flat list of operands and operators folded
// strictly left to right; the only way to change evaluation order is an explicit
// group. There is deliberately no operator precedence: existing rules were
// written against this behaviour.
package expression

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyExpression is returned for an empty node list or an empty group.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrMalformed is returned when the node stream is not operand (operator operand)*.
	ErrMalformed = errors.New("malformed expression")
)

// equalityTolerance absorbs binary floating point noise in == and !=.
const equalityTolerance = 1e-9

// Context carries the numeric shipment attributes visible to expressions.
type Context map[string]float64

// Result is either a number or a boolean.
type Result struct {
	number float64
	truth  bool
	isBool bool
}

// NumberResult wraps a numeric result.
func NumberResult(v float64) Result { return Result{number: v} }

// BoolResult wraps a boolean result.
func BoolResult(b bool) Result { return Result{truth: b, isBool: true} }

// IsBool reports whether the result came from a comparison.
func (r Result) IsBool() bool { return r.isBool }

// Float returns the numeric view of the result; booleans are 1 or 0.
func (r Result) Float() float64 {
	if r.isBool {
		if r.truth {
			return 1
		}
		return 0
	}
	return r.number
}

// Truthy reports whether the result satisfies a rule condition.
func (r Result) Truthy() bool {
	if r.isBool {
		return r.truth
	}
	return r.number != 0
}

// Interface returns the result as a bool or float64, for JSON encoding.
func (r Result) Interface() any {
	if r.isBool {
		return r.truth
	}
	return r.number
}

// Evaluator folds expressions under a numeric Policy. It holds no state
// between calls and is safe for concurrent use.
type Evaluator struct {
	policy Policy
}

// NewEvaluator creates an Evaluator with the given policy.
func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

// Evaluate runs nodes against ctx using the FailOpen policy.
func Evaluate(nodes []Node, ctx Context) (Result, error) {
	return NewEvaluator(FailOpen).Evaluate(nodes, ctx)
}

// Evaluate folds nodes left to right against ctx.
//
// Arithmetic operators fold into the accumulator. A comparison operator ends the
// list: its right-hand side is the arithmetic fold of every remaining node and
// the comparison result is the value of the list. Conditions are combined
// through groups, whose boolean results count as 1 or 0 in arithmetic.
func (e *Evaluator) Evaluate(nodes []Node, ctx Context) (Result, error) {
	return e.fold(nodes, ctx, 0, true)
}

func (e *Evaluator) fold(nodes []Node, ctx Context, depth int, allowCompare bool) (Result, error) {
	if len(nodes) == 0 {
		return Result{}, ErrEmptyExpression
	}

	acc, err := e.operand(nodes[0], ctx, depth, 0)
	if err != nil {
		return Result{}, err
	}

	for i := 1; i < len(nodes); i += 2 {
		node := nodes[i]
		if node.Type != NodeOperator {
			return Result{}, fmt.Errorf("%w: expected operator at position %d, got %s", ErrMalformed, i, node.Type)
		}
		if i+1 >= len(nodes) {
			return Result{}, fmt.Errorf("%w: operator %q at position %d has no right operand", ErrMalformed, node.Op, i)
		}

		switch {
		case node.Op.IsArithmetic():
			rhs, err := e.operand(nodes[i+1], ctx, depth, i+1)
			if err != nil {
				return Result{}, err
			}
			acc = NumberResult(e.apply(node.Op, acc.Float(), rhs.Float()))

		case node.Op.IsComparison():
			if !allowCompare {
				return Result{}, fmt.Errorf("%w: chained comparison %q at position %d, use a group", ErrMalformed, node.Op, i)
			}
			rhs, err := e.fold(nodes[i+1:], ctx, depth, false)
			if err != nil {
				return Result{}, err
			}
			return BoolResult(compare(node.Op, acc.Float(), rhs.Float())), nil

		default:
			return Result{}, fmt.Errorf("%w: unknown operator %q at position %d", ErrMalformed, node.Op, i)
		}
	}

	return acc, nil
}

func (e *Evaluator) operand(node Node, ctx Context, depth, pos int) (Result, error) {
	switch node.Type {
	case NodeField:
		return NumberResult(e.policy.Resolve(ctx, node.Field)), nil
	case NodeValue:
		return NumberResult(e.policy.Sanitize(node.Number)), nil
	case NodeGroup:
		if e.policy.TooDeep(depth + 1) {
			return BoolResult(false), nil
		}
		return e.fold(node.Children, ctx, depth+1, true)
	case NodeOperator:
		return Result{}, fmt.Errorf("%w: expected operand at position %d, got operator %q", ErrMalformed, pos, node.Op)
	default:
		return Result{}, fmt.Errorf("%w: unknown node type %q at position %d", ErrMalformed, node.Type, pos)
	}
}

func (e *Evaluator) apply(op Operator, a, b float64) float64 {
	switch op {
	case OpAdd:
		return e.policy.Sanitize(a + b)
	case OpSub:
		return e.policy.Sanitize(a - b)
	case OpMul:
		return e.policy.Sanitize(a * b)
	case OpDiv:
		return e.policy.Divide(a, b)
	}
	return 0
}

func compare(op Operator, a, b float64) bool {
	switch op {
	case OpGreater:
		return a > b
	case OpLess:
		return a < b
	case OpGreaterEqual:
		return a >= b
	case OpLessEqual:
		return a <= b
	case OpEqual:
		return math.Abs(a-b) <= equalityTolerance
	case OpNotEqual:
		return math.Abs(a-b) > equalityTolerance
	}
	return false
}
