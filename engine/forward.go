package engine

import (
	"fmt"
	"math"
)

// Recompute re-evaluates Data for every operator node reachable from
// this one, leaves first, using the parents' current Data. Leaf Data
// is left untouched.
//
// This is how a finished graph is replayed after a leaf changes: the
// numeric gradient check perturbs one input and re-reads the root, and
// an optimizer that has stepped the parameters can refresh a held
// graph the same way. Domain conditions are re-checked, so a
// perturbation that pushes a Log operand to zero or below surfaces as
// a DomainError rather than NaN.
func (v *Value) Recompute() error {
	for _, n := range Topo(v) {
		if err := n.recompute(); err != nil {
			return err
		}
	}
	return nil
}

// recompute is the forward half of the operator table: one formula per
// tag, reading the parents' Data. It mirrors propagate's structure so
// the two stay auditable side by side.
func (v *Value) recompute() error {
	if v.op == OpNone {
		return nil
	}
	v.mustArity()

	switch v.op {
	case OpAdd:
		v.Data = v.parents[0].Data + v.parents[1].Data
	case OpMul:
		v.Data = v.parents[0].Data * v.parents[1].Data
	case OpPow:
		v.Data = math.Pow(v.parents[0].Data, v.exponent)
	case OpReLU:
		v.Data = math.Max(0, v.parents[0].Data)
	case OpTanh:
		v.Data = math.Tanh(v.parents[0].Data)
	case OpExp:
		v.Data = math.Exp(v.parents[0].Data)
	case OpLog:
		a := v.parents[0].Data
		if a <= 0 {
			return newDomainError("log", a, ErrLogDomain)
		}
		v.Data = math.Log(a)
	default:
		panic(fmt.Sprintf("engine: no forward rule for operator %s (data=%g)", v.op, v.Data))
	}
	return nil
}
