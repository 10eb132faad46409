package nn

import "scalargrad/engine"

// SGD is plain gradient descent over a fixed parameter list.
//
// Step reads each parameter's accumulated Grad and nudges Data against
// it. It deliberately does not reset gradients: that stays an explicit
// caller decision (via ZeroGrad), so gradients can be accumulated over
// several backward passes before one update.
type SGD struct {
	params []*engine.Value
	lr     float64
}

// NewSGD creates an optimizer over params with the given learning rate.
func NewSGD(params []*engine.Value, lr float64) *SGD {
	return &SGD{params: params, lr: lr}
}

// Step applies p.Data -= lr * p.Grad to every parameter.
func (s *SGD) Step() {
	for _, p := range s.params {
		p.Data -= s.lr * p.Grad
	}
}

// ZeroGrad resets every parameter's gradient to 0.
func (s *SGD) ZeroGrad() {
	for _, p := range s.params {
		p.Grad = 0
	}
}
