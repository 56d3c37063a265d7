package depgraph

// FindCycles walks the graph defined by next from every root and returns one cycle
// per back edge, each as the ordered vertices from the first occurrence back to
// itself, e.g. [A B A]. Cycles are returned in discovery order; the result is empty
// when the reachable graph is acyclic.
func FindCycles[V comparable](roots []V, next func(V) []V) [][]V {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[V]int)
	var path []V
	var cycles [][]V

	var visit func(u V)
	visit = func(u V) {
		state[u] = visiting
		path = append(path, u)

		for _, v := range next(u) {
			switch state[v] {
			case visiting:
				cycles = append(cycles, closeCycle(path, v))
			case unvisited:
				visit(v)
			}
		}

		state[u] = visited
		path = path[:len(path)-1]
	}

	for _, r := range roots {
		if state[r] == unvisited {
			visit(r)
		}
	}
	return cycles
}

func closeCycle[V comparable](path []V, v V) []V {
	start := 0
	for i, u := range path {
		if u == v {
			start = i
			break
		}
	}
	out := make([]V, 0, len(path)-start+1)
	out = append(out, path[start:]...)
	return append(out, v)
}
