package engine

// NumericGrad estimates the partial derivative of root with respect to
// x by symmetric finite differences: (f(x+h) - f(x-h)) / (2h).
//
// It perturbs x.Data in place, replays the forward pass with
// Recompute, and restores both x and the graph before returning, so a
// successful call leaves the graph exactly as it found it. This is the
// verification half of the engine: tests compare the estimate against
// the analytic x.Grad produced by Backward.
func NumericGrad(root, x *Value, h float64) (grad float64, err error) {
	orig := x.Data
	defer func() {
		x.Data = orig
		if rerr := root.Recompute(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	x.Data = orig + h
	if err = root.Recompute(); err != nil {
		return 0, err
	}
	fPlus := root.Data

	x.Data = orig - h
	if err = root.Recompute(); err != nil {
		return 0, err
	}
	fMinus := root.Data

	return (fPlus - fMinus) / (2 * h), nil
}
