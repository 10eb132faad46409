// Package viz renders finished computation graphs for external
// display. It only reads node state (data, grad, operator tag,
// parents) through the engine's public surface and never mutates a
// graph; the engine does not know this package exists.
package viz

import (
	"fmt"

	"scalargrad/engine"
)

// Node is one graph node prepared for display.
type Node struct {
	ID    int     `json:"id"`
	Data  float64 `json:"data"`
	Grad  float64 `json:"grad"`
	Op    string  `json:"op,omitempty"`
	Label string  `json:"label"`
}

// Edge is one parent-to-child dependency.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is a JSON-serializable snapshot of everything reachable from
// one root node.
type Graph struct {
	Root  int    `json:"root"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Snapshot walks root's ancestry and captures every node and edge.
// IDs are positions in the topological order, so they are stable for a
// fixed graph and the root always gets the highest ID.
func Snapshot(root *engine.Value) Graph {
	order := engine.Topo(root)
	ids := make(map[*engine.Value]int, len(order))

	g := Graph{
		Root:  len(order) - 1,
		Nodes: make([]Node, 0, len(order)),
	}
	for i, n := range order {
		ids[n] = i
		g.Nodes = append(g.Nodes, Node{
			ID:    i,
			Data:  n.Data,
			Grad:  n.Grad,
			Op:    n.OpLabel(),
			Label: nodeLabel(n),
		})
	}
	for i, n := range order {
		for _, p := range n.Parents() {
			g.Edges = append(g.Edges, Edge{From: ids[p], To: i})
		}
	}
	return g
}

func nodeLabel(n *engine.Value) string {
	if n.IsLeaf() {
		return fmt.Sprintf("%.4f | grad %.4f", n.Data, n.Grad)
	}
	return fmt.Sprintf("%s | %.4f | grad %.4f", n.OpLabel(), n.Data, n.Grad)
}
