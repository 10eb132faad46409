package engine

import (
	"fmt"
	"math"
)

// Backward runs reverse-mode autodiff from this node to all ancestors.
//
// Steps:
//  1. Order the reachable subgraph topologically, so every node's
//     gradient is fully accumulated before it pushes gradient further
//     upstream.
//  2. Seed this node's Grad with 1 (d(root)/d(root) = 1).
//  3. Walk the order in reverse, applying each node's local-derivative
//     rule to add contributions into its parents' Grad.
//
// Backward never resets gradients: repeated calls over overlapping
// graphs keep accumulating, which is deliberate (it supports
// gradient-accumulation training). Callers that want fresh gradients
// reset explicitly with ZeroGrad first.
func (v *Value) Backward() {
	topo := Topo(v)
	v.Grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		topo[i].propagate()
	}
}

// ZeroGrad resets Grad to 0 on every node reachable from this one.
// Idempotent; sweeps the same set Backward would visit.
func (v *Value) ZeroGrad() {
	for _, n := range Topo(v) {
		n.Grad = 0
	}
}

// propagate applies this node's local-derivative rule, adding
// upstream-grad * local-derivative into each parent's Grad. This
// switch is the derivative table; differentiation logic lives here and
// nowhere else.
//
// A malformed node (operator tag with the wrong parent count, or a tag
// this table does not know) is a graph-construction bug, not a
// recoverable condition, so it panics with the node's context.
func (v *Value) propagate() {
	if v.op == OpNone {
		if len(v.parents) != 0 {
			panic(fmt.Sprintf("engine: leaf node with %d parents (data=%g)", len(v.parents), v.Data))
		}
		return
	}
	v.mustArity()

	switch v.op {
	case OpAdd:
		a, b := v.parents[0], v.parents[1]
		a.Grad += v.Grad
		b.Grad += v.Grad
	case OpMul:
		a, b := v.parents[0], v.parents[1]
		a.Grad += b.Data * v.Grad
		b.Grad += a.Data * v.Grad
	case OpPow:
		a := v.parents[0]
		a.Grad += v.exponent * math.Pow(a.Data, v.exponent-1) * v.Grad
	case OpReLU:
		a := v.parents[0]
		if a.Data > 0 {
			a.Grad += v.Grad
		}
	case OpTanh:
		// d tanh(a)/da = 1 - tanh(a)^2, and v.Data already holds tanh(a).
		a := v.parents[0]
		a.Grad += (1 - v.Data*v.Data) * v.Grad
	case OpExp:
		// d e^a/da = e^a, which is v.Data itself.
		v.parents[0].Grad += v.Data * v.Grad
	case OpLog:
		a := v.parents[0]
		a.Grad += v.Grad / a.Data
	default:
		panic(fmt.Sprintf("engine: no derivative rule for operator %s (data=%g)", v.op, v.Data))
	}
}

func (v *Value) mustArity() {
	if want := v.op.arity(); len(v.parents) != want {
		panic(fmt.Sprintf("engine: %s node has %d parents, want %d (data=%g)", v.op, len(v.parents), want, v.Data))
	}
}
