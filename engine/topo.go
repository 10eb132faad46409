package engine

// Topo returns every node reachable from root through parent edges,
// each exactly once, ordered so that every node appears after all of
// its parents (post-order depth-first).
//
// The visited set is keyed by node identity, not value: two nodes with
// equal Data are still distinct graph positions, and a node reached
// through several consumers (fan-in, diamond shapes) is appended only
// once. For a fixed graph and fixed operand order the result is
// deterministic.
func Topo(root *Value) []*Value {
	topo := make([]*Value, 0)
	visited := make(map[*Value]bool)

	var build func(*Value)
	build = func(v *Value) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, p := range v.parents {
			build(p)
		}
		topo = append(topo, v)
	}
	build(root)

	return topo
}
