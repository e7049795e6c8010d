package depgraph

import (
	"github.com/Sumatoshi-tech/codeloom/pkg/toposort"
)

// sorter mirrors the graph nodes and edges into a topological sorter.
func sorter(g *Graph) *toposort.Graph {
	ts := toposort.NewGraph()

	for _, node := range g.Nodes {
		ts.AddNode(node.ID)
	}

	for _, edge := range g.Edges {
		ts.AddEdge(edge.Source, edge.Target)
	}

	return ts
}

// Order returns the graph files sorted so that every file appears
// after the files it imports. The second result is false when the
// imports contain a cycle; the order then covers only the acyclic
// part of the graph.
func Order(g *Graph) ([]string, bool) {
	sorted, ok := sorter(g).Toposort()

	// Toposort puts importers first; flip for a dependencies-first order.
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}

	return sorted, ok
}

// FirstCycle returns one import cycle as a file sequence that starts
// and ends at the same file, or nil when the graph is acyclic. Node
// order decides which cycle is found first.
func FirstCycle(g *Graph) []string {
	ts := sorter(g)

	if _, ok := ts.Toposort(); ok {
		return nil
	}

	for _, node := range g.Nodes {
		if cycle := ts.FindCycle(node.ID); len(cycle) > 0 {
			return cycle
		}
	}

	return nil
}
