// Package nn builds small feed-forward networks on top of the engine
// package. Neurons, layers, and networks are thin graph builders:
// every forward call grows a fresh computation graph over the shared
// parameter leaves, and gradient flow is entirely the engine's job.
package nn

import (
	"math/rand"

	"scalargrad/engine"
)

// Module is anything that owns trainable parameter nodes.
type Module interface {
	Parameters() []*engine.Value
}

// ZeroGrad resets the gradient of every parameter of m. Call it before
// each fresh backward pass; the engine never auto-resets.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.Grad = 0
	}
}

// Neuron computes tanh(sum(w_i * x_i) + b), or the raw affine sum when
// nonlin is false.
type Neuron struct {
	w      []*engine.Value
	b      *engine.Value
	nonlin bool
}

// NewNeuron creates a neuron with nin inputs. Weights start uniform in
// [-1, 1) from rng; the bias starts at 0.
func NewNeuron(rng *rand.Rand, nin int, nonlin bool) *Neuron {
	w := make([]*engine.Value, nin)
	for i := range w {
		w[i] = engine.NewValue(rng.Float64()*2 - 1)
	}
	return &Neuron{
		w:      w,
		b:      engine.NewValue(0),
		nonlin: nonlin,
	}
}

// Forward applies the neuron to x, which must have one entry per weight.
func (n *Neuron) Forward(x []*engine.Value) *engine.Value {
	act := n.b
	for i, wi := range n.w {
		act = act.Add(wi.Mul(x[i]))
	}
	if n.nonlin {
		return act.Tanh()
	}
	return act
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*engine.Value {
	return append(append([]*engine.Value(nil), n.w...), n.b)
}

// Layer is a set of neurons sharing the same input vector.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a fully connected layer mapping nin inputs to nout
// outputs.
func NewLayer(rng *rand.Rand, nin, nout int, nonlin bool) *Layer {
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(rng, nin, nonlin)
	}
	return &Layer{neurons: neurons}
}

// Forward applies every neuron to x.
func (l *Layer) Forward(x []*engine.Value) []*engine.Value {
	out := make([]*engine.Value, len(l.neurons))
	for i, n := range l.neurons {
		out[i] = n.Forward(x)
	}
	return out
}

// Parameters returns all neuron parameters in layer order.
func (l *Layer) Parameters() []*engine.Value {
	var params []*engine.Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// MLP is a stack of fully connected layers. All layers apply tanh
// except the last, which stays linear.
type MLP struct {
	layers []*Layer
}

// NewMLP creates a multi-layer perceptron with nin inputs and one
// layer per entry of nouts. NewMLP(rng, 2, []int{4, 4, 1}) is a
// 2-4-4-1 network.
func NewMLP(rng *rand.Rand, nin int, nouts []int) *MLP {
	sizes := append([]int{nin}, nouts...)
	layers := make([]*Layer, len(nouts))
	for i := range layers {
		layers[i] = NewLayer(rng, sizes[i], sizes[i+1], i != len(nouts)-1)
	}
	return &MLP{layers: layers}
}

// Forward runs the input vector through every layer.
func (m *MLP) Forward(x []*engine.Value) []*engine.Value {
	for _, l := range m.layers {
		x = l.Forward(x)
	}
	return x
}

// Parameters returns all layer parameters in network order.
func (m *MLP) Parameters() []*engine.Value {
	var params []*engine.Value
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}
