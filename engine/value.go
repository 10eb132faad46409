// Package engine implements a scalar reverse-mode automatic
// differentiation engine.
//
// Every computation is a graph of Value nodes. Applying an operator
// computes its numeric result immediately and records which nodes fed
// into it; calling Backward on any node later walks that lineage in
// reverse topological order and fills in the partial derivative of the
// root with respect to every ancestor.
//
// The engine is single-goroutine by contract: callers that share a
// graph across goroutines must serialize construction and backward
// passes behind one lock per graph.
package engine

import (
	"fmt"
	"math"
)

// Op identifies the operator that produced a Value. Leaves carry OpNone.
//
// The tag carries no behavior of its own; the local-derivative rule for
// each tag is dispatched in propagate (backward.go) and the forward
// formula in recompute (forward.go).
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpMul
	OpPow
	OpReLU
	OpTanh
	OpExp
	OpLog
)

// arity is the number of parent operands each operator takes.
func (op Op) arity() int {
	switch op {
	case OpNone:
		return 0
	case OpAdd, OpMul:
		return 2
	default:
		return 1
	}
}

func (op Op) String() string {
	switch op {
	case OpNone:
		return ""
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpPow:
		return "**"
	case OpReLU:
		return "relu"
	case OpTanh:
		return "tanh"
	case OpExp:
		return "exp"
	case OpLog:
		return "log"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Value is one node in the computation graph: a scalar with memory.
//
// - Data is the number itself. It is fixed at construction; the only
//   sanctioned later write is an optimizer adjusting a parameter
//   between training steps.
// - Grad accumulates the partial derivative of the backward root with
//   respect to this node. It starts at 0 and is only ever added to by
//   the backward pass or reset by ZeroGrad.
// - parents are the operand nodes this one was built from, in operand
//   order. They are shared, never owned: one leaf can feed many
//   downstream nodes, which is exactly why gradients accumulate
//   instead of being assigned.
type Value struct {
	Data float64
	Grad float64

	op      Op
	parents []*Value

	// exponent is the constant b in a**b. Meaningful only for OpPow.
	exponent float64
}

// NewValue creates a leaf node wrapping a plain scalar.
func NewValue(data float64) *Value {
	return &Value{Data: data}
}

// Op reports which operator produced this node (OpNone for leaves).
func (v *Value) Op() Op {
	return v.op
}

// IsLeaf reports whether this node is an input rather than an operator
// result.
func (v *Value) IsLeaf() bool {
	return v.op == OpNone
}

// Parents returns the operand nodes this one was built from, in
// operand order. The slice is a copy; the lineage of a node never
// changes after construction.
func (v *Value) Parents() []*Value {
	if len(v.parents) == 0 {
		return nil
	}
	out := make([]*Value, len(v.parents))
	copy(out, v.parents)
	return out
}

// OpLabel returns a display label for the producing operator, with the
// exponent spelled out for Pow nodes (e.g. "**2").
func (v *Value) OpLabel() string {
	if v.op == OpPow {
		return fmt.Sprintf("**%g", v.exponent)
	}
	return v.op.String()
}

func (v *Value) String() string {
	if v.IsLeaf() {
		return fmt.Sprintf("Value(data=%g, grad=%g)", v.Data, v.Grad)
	}
	return fmt.Sprintf("Value(data=%g, grad=%g, op=%s)", v.Data, v.Grad, v.OpLabel())
}

// Add creates the node z = v + other.
func (v *Value) Add(other *Value) *Value {
	return &Value{
		Data:    v.Data + other.Data,
		op:      OpAdd,
		parents: []*Value{v, other},
	}
}

// AddScalar creates z = v + s by wrapping s in a fresh leaf.
func (v *Value) AddScalar(s float64) *Value {
	return v.Add(NewValue(s))
}

// Mul creates the node z = v * other.
func (v *Value) Mul(other *Value) *Value {
	return &Value{
		Data:    v.Data * other.Data,
		op:      OpMul,
		parents: []*Value{v, other},
	}
}

// MulScalar creates z = v * s by wrapping s in a fresh leaf.
func (v *Value) MulScalar(s float64) *Value {
	return v.Mul(NewValue(s))
}

// Pow creates the node z = v ** exponent. The exponent is a
// construction-time constant, not a graph node, so no gradient flows
// into it.
//
// A negative base with a fractional exponent follows IEEE 754 and
// produces NaN; it is not guarded here.
func (v *Value) Pow(exponent float64) *Value {
	return &Value{
		Data:     math.Pow(v.Data, exponent),
		op:       OpPow,
		parents:  []*Value{v},
		exponent: exponent,
	}
}

// ReLU creates the node z = max(0, v).
func (v *Value) ReLU() *Value {
	return &Value{
		Data:    math.Max(0, v.Data),
		op:      OpReLU,
		parents: []*Value{v},
	}
}

// Tanh creates the node z = tanh(v).
func (v *Value) Tanh() *Value {
	return &Value{
		Data:    math.Tanh(v.Data),
		op:      OpTanh,
		parents: []*Value{v},
	}
}

// Exp creates the node z = e ** v.
func (v *Value) Exp() *Value {
	return &Value{
		Data:    math.Exp(v.Data),
		op:      OpExp,
		parents: []*Value{v},
	}
}

// Log creates the node z = ln(v). The natural log is undefined for
// non-positive operands; that is a DomainError, not a silent NaN.
func (v *Value) Log() (*Value, error) {
	if v.Data <= 0 {
		return nil, newDomainError("log", v.Data, ErrLogDomain)
	}
	return &Value{
		Data:    math.Log(v.Data),
		op:      OpLog,
		parents: []*Value{v},
	}, nil
}

// Neg creates z = -v, expressed as v * -1 so the derivative table
// stays the single source of differentiation logic.
func (v *Value) Neg() *Value {
	return v.MulScalar(-1)
}

// Sub creates z = v - other, expressed as v + (-other).
func (v *Value) Sub(other *Value) *Value {
	return v.Add(other.Neg())
}

// Div creates z = v / other, expressed as v * other**-1. Division by
// zero is a DomainError, the same contract as Log.
func (v *Value) Div(other *Value) (*Value, error) {
	if other.Data == 0 {
		return nil, newDomainError("div", other.Data, ErrDivByZero)
	}
	return v.Mul(other.Pow(-1)), nil
}
