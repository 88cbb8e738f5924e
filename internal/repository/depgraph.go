package repository

import "github.com/google/uuid"

// hasCycle reports whether the directed graph has a cycle. Three-color
// DFS; node order does not matter for the answer.
func hasCycle(adj map[uuid.UUID][]uuid.UUID) bool {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[uuid.UUID]int, len(adj))

	var visit func(node uuid.UUID) bool
	visit = func(node uuid.UUID) bool {
		color[node] = grey
		for _, next := range adj[node] {
			switch color[next] {
			case grey:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for node := range adj {
		if color[node] == white && visit(node) {
			return true
		}
	}
	return false
}
