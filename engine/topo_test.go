package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// positionOf maps each node to its index in the order.
func positionOf(order []*Value) map[*Value]int {
	pos := make(map[*Value]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	return pos
}

func TestTopoParentsBeforeChildren(t *testing.T) {
	x := NewValue(2.0)
	y := NewValue(3.0)
	a := x.Mul(y)
	b := x.Add(a)
	root := b.Tanh()

	order := Topo(root)
	require.Len(t, order, 5)

	pos := positionOf(order)
	for _, n := range order {
		for _, p := range n.Parents() {
			assert.Less(t, pos[p], pos[n], "parent must precede its consumer")
		}
	}
	assert.Equal(t, root, order[len(order)-1])
}

func TestTopoDiamondVisitedOnce(t *testing.T) {
	// x feeds both sides of a diamond; it must appear exactly once.
	x := NewValue(1.5)
	left := x.Mul(x)
	right := x.AddScalar(1)
	root := left.Add(right)

	order := Topo(root)

	seen := make(map[*Value]int)
	for _, n := range order {
		seen[n]++
	}
	for n, count := range seen {
		assert.Equal(t, 1, count, "node %v appended more than once", n)
	}
	assert.Equal(t, 1, seen[x])
}

func TestTopoDeterministic(t *testing.T) {
	x := NewValue(2.0)
	y := NewValue(-1.0)
	root := x.Mul(y).Add(x.Tanh()).Pow(2)

	first := Topo(root)
	second := Topo(root)
	assert.Equal(t, first, second)
}

func TestTopoSingleLeaf(t *testing.T) {
	x := NewValue(4.0)
	order := Topo(x)
	require.Len(t, order, 1)
	assert.Equal(t, x, order[0])
}
