package viz

import (
	"fmt"
	"io"

	"scalargrad/engine"
)

// WriteDOT writes root's graph in Graphviz DOT form, left to right.
// Each value gets a record box with its data and grad; each operator
// node additionally gets a small junction circle between its operands
// and its result, the usual rendering for these graphs.
//
//	dot -Tsvg graph.dot -o graph.svg
func WriteDOT(w io.Writer, root *engine.Value) error {
	order := engine.Topo(root)
	ids := make(map[*engine.Value]int, len(order))
	for i, n := range order {
		ids[n] = i
	}

	if _, err := fmt.Fprintln(w, "digraph {\n  rankdir=LR;"); err != nil {
		return err
	}
	for i, n := range order {
		_, err := fmt.Fprintf(w, "  n%d [shape=record, label=\"{ data %.4f | grad %.4f }\"];\n", i, n.Data, n.Grad)
		if err != nil {
			return err
		}
		if n.IsLeaf() {
			continue
		}
		if _, err := fmt.Fprintf(w, "  n%dop [shape=circle, label=%q];\n", i, n.OpLabel()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  n%dop -> n%d;\n", i, i); err != nil {
			return err
		}
		for _, p := range n.Parents() {
			if _, err := fmt.Fprintf(w, "  n%d -> n%dop;\n", ids[p], i); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
