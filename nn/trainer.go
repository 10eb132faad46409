package nn

import "scalargrad/engine"

// Sample pairs one input vector with its scalar target.
type Sample struct {
	Input  []float64 `json:"input"`
	Target float64   `json:"target"`
}

// XORDataset returns the four-sample XOR truth table, the demo problem
// this repository trains on.
func XORDataset() []Sample {
	return []Sample{
		{Input: []float64{0, 0}, Target: 0},
		{Input: []float64{0, 1}, Target: 1},
		{Input: []float64{1, 0}, Target: 1},
		{Input: []float64{1, 1}, Target: 0},
	}
}

// Trainer drives gradient-descent training of an MLP with one scalar
// output over a fixed dataset.
//
// Each Step builds a fresh forward graph over all samples (the
// parameter leaves are shared across steps, the rest of the graph is
// rebuilt), so gradients from the previous step never leak into the
// next one as long as ZeroGrad runs first, which Step does.
type Trainer struct {
	model *MLP
	opt   *SGD
	data  []Sample
	steps int
}

// NewTrainer creates a trainer for model over data with the given
// learning rate.
func NewTrainer(model *MLP, lr float64, data []Sample) *Trainer {
	return &Trainer{
		model: model,
		opt:   NewSGD(model.Parameters(), lr),
		data:  data,
	}
}

// Step runs one full-batch training step: forward pass over every
// sample, mean-squared-error loss, gradient reset, backward pass, and
// one SGD update. It returns the loss value together with the loss
// root node, whose finished graph observers can inspect or draw.
func (t *Trainer) Step() (float64, *engine.Value) {
	loss := engine.NewValue(0)
	for _, s := range t.data {
		pred := t.model.Forward(leaves(s.Input))[0]
		diff := pred.Sub(engine.NewValue(s.Target))
		loss = loss.Add(diff.Mul(diff))
	}
	loss = loss.MulScalar(1 / float64(len(t.data)))

	ZeroGrad(t.model)
	loss.Backward()
	t.opt.Step()
	t.steps++

	return loss.Data, loss
}

// Predict runs a plain forward pass for one input vector.
func (t *Trainer) Predict(input []float64) float64 {
	return t.model.Forward(leaves(input))[0].Data
}

// Model returns the network being trained.
func (t *Trainer) Model() *MLP {
	return t.model
}

// Steps reports how many training steps have run.
func (t *Trainer) Steps() int {
	return t.steps
}

func leaves(xs []float64) []*engine.Value {
	out := make([]*engine.Value, len(xs))
	for i, x := range xs {
		out[i] = engine.NewValue(x)
	}
	return out
}
