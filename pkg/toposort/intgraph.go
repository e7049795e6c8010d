package toposort

import "sort"

// IntGraph is a directed graph over dense integer IDs. It backs Graph
// with an adjacency list representation.
type IntGraph struct {
	nodes    [][]int
	inDegree []int
}

// NewIntGraph creates an empty IntGraph.
func NewIntGraph() *IntGraph {
	return &IntGraph{}
}

// Grow ensures the graph holds IDs up to n-1.
func (g *IntGraph) Grow(n int) {
	if n <= len(g.nodes) {
		return
	}

	nodes := make([][]int, n)
	copy(nodes, g.nodes)
	g.nodes = nodes

	inDegree := make([]int, n)
	copy(inDegree, g.inDegree)
	g.inDegree = inDegree
}

// Len returns the number of IDs the graph holds.
func (g *IntGraph) Len() int {
	return len(g.nodes)
}

// AddEdge inserts the edge u -> v, growing the graph as needed. It
// reports false when the edge already exists.
func (g *IntGraph) AddEdge(u, v int) bool {
	g.Grow(max(u, v) + 1)

	for _, neighbor := range g.nodes[u] {
		if neighbor == v {
			return false
		}
	}

	g.nodes[u] = append(g.nodes[u], v)
	g.inDegree[v]++

	return true
}

// TopoSort runs Kahn's algorithm over the graph. It returns the IDs in
// topological order, ties resolved in ascending ID order. The second
// result is false when a cycle keeps some IDs unsorted; those IDs are
// left out of the result.
func (g *IntGraph) TopoSort() ([]int, bool) {
	inDegree := make([]int, len(g.inDegree))
	copy(inDegree, g.inDegree)

	queue := make([]int, 0, len(g.nodes))

	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	result := make([]int, 0, len(g.nodes))

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		result = append(result, u)

		for _, v := range g.nodes[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				insertSorted(&queue, v)
			}
		}
	}

	return result, len(result) == len(g.nodes)
}

// FindCycle returns a cycle through start as an ID sequence that
// starts and ends at start, or nil when none exists.
func (g *IntGraph) FindCycle(start int) []int {
	if start < 0 || start >= len(g.nodes) {
		return nil
	}

	parent := map[int]int{start: -1}
	queue := []int{start}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range g.nodes[u] {
			if v == start {
				path := []int{}
				for walk := u; walk != -1; walk = parent[walk] {
					path = append(path, walk)
				}

				// path runs u back to start; flip it and close the loop.
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}

				return append(path, start)
			}

			if _, seen := parent[v]; !seen {
				parent[v] = u
				queue = append(queue, v)
			}
		}
	}

	return nil
}

// insertSorted inserts v into the sorted slice s.
func insertSorted(s *[]int, v int) {
	i := sort.SearchInts(*s, v)
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = v
}
