package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalargrad/engine"
)

func TestNeuronParameterCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := NewNeuron(rng, 3, true)
	assert.Len(t, n.Parameters(), 4) // 3 weights + bias
}

func TestMLPParameterCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMLP(rng, 2, []int{4, 4, 1})
	// (2+1)*4 + (4+1)*4 + (4+1)*1
	assert.Len(t, m.Parameters(), 37)
}

func TestMLPForwardShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMLP(rng, 2, []int{4, 3})

	out := m.Forward([]*engine.Value{engine.NewValue(2.0), engine.NewValue(3.0)})
	assert.Len(t, out, 3)
}

func TestNeuronForwardLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := NewNeuron(rng, 2, false)

	x := []*engine.Value{engine.NewValue(2.0), engine.NewValue(3.0)}
	out := n.Forward(x)

	params := n.Parameters()
	want := params[0].Data*2.0 + params[1].Data*3.0 + params[2].Data
	assert.InDelta(t, want, out.Data, 1e-12)
}

func TestZeroGradClearsParameters(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m := NewMLP(rng, 2, []int{3, 1})

	out := m.Forward([]*engine.Value{engine.NewValue(1.0), engine.NewValue(-1.0)})
	out[0].Backward()

	dirty := false
	for _, p := range m.Parameters() {
		if p.Grad != 0 {
			dirty = true
		}
	}
	require.True(t, dirty, "backward should have produced some gradient")

	ZeroGrad(m)
	for _, p := range m.Parameters() {
		assert.Zero(t, p.Grad)
	}
}

func TestSGDStep(t *testing.T) {
	p := engine.NewValue(2.0)
	p.Grad = 0.5

	opt := NewSGD([]*engine.Value{p}, 0.1)
	opt.Step()
	assert.InDelta(t, 1.95, p.Data, 1e-12)

	opt.ZeroGrad()
	assert.Zero(t, p.Grad)
}

func TestNetworkGradsMatchNumericEstimates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMLP(rng, 2, []int{3, 1})

	out := m.Forward([]*engine.Value{engine.NewValue(0.5), engine.NewValue(-1.5)})[0]
	ZeroGrad(m)
	out.Backward()

	for i, p := range m.Parameters() {
		numeric, err := engine.NumericGrad(out, p, 1e-6)
		require.NoError(t, err)
		assert.InDelta(t, p.Grad, numeric, 1e-4, "parameter %d", i)
	}
}

func TestTrainerLearnsXOR(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	model := NewMLP(rng, 2, []int{4, 4, 1})
	trainer := NewTrainer(model, 0.1, XORDataset())

	firstLoss, root := trainer.Step()
	require.NotNil(t, root)

	var loss float64
	for i := 1; i < 3000; i++ {
		loss, _ = trainer.Step()
	}

	assert.Equal(t, 3000, trainer.Steps())
	assert.Less(t, loss, firstLoss)
	assert.Less(t, loss, 0.05)

	for _, s := range XORDataset() {
		pred := trainer.Predict(s.Input)
		assert.InDelta(t, s.Target, pred, 0.3, "input %v", s.Input)
	}
}

func TestTrainerStepExposesLossGraph(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	model := NewMLP(rng, 2, []int{2, 1})
	trainer := NewTrainer(model, 0.05, XORDataset())

	lossValue, root := trainer.Step()
	assert.InDelta(t, lossValue, root.Data, 1e-12)
	// The loss graph reaches back to the shared parameter leaves.
	reachable := make(map[*engine.Value]bool)
	for _, n := range engine.Topo(root) {
		reachable[n] = true
	}
	for _, p := range model.Parameters() {
		assert.True(t, reachable[p])
	}
}
