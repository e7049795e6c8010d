// Package toposort provides deterministic topological ordering and
// cycle discovery for directed graphs keyed by string names.
package toposort

// Graph is a directed graph over string-named nodes. Names are
// interned to dense integer IDs in insertion order.
type Graph struct {
	ids   map[string]int
	names []string
	adj   *IntGraph
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		ids: make(map[string]int),
		adj: NewIntGraph(),
	}
}

// intern returns the ID for name, assigning the next one on first use.
func (g *Graph) intern(name string) int {
	if id, ok := g.ids[name]; ok {
		return id
	}

	id := len(g.names)
	g.names = append(g.names, name)
	g.ids[name] = id
	g.adj.Grow(id + 1)

	return id
}

// AddNode registers name as a node. Re-adding an existing node is a
// no-op; the return reports whether the node was new.
func (g *Graph) AddNode(name string) bool {
	_, exists := g.ids[name]
	g.intern(name)

	return !exists
}

// AddEdge inserts the directed edge from -> to, interning both names.
// Duplicate edges collapse to one; the return reports whether the edge
// was new.
func (g *Graph) AddEdge(from, to string) bool {
	return g.adj.AddEdge(g.intern(from), g.intern(to))
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.names)
}

// Toposort returns the nodes in topological order, edge sources before
// the nodes they point at. Ties resolve in node insertion order. The
// second result is false when the graph contains a cycle; the returned
// order then covers only the acyclic part.
func (g *Graph) Toposort() ([]string, bool) {
	ids, ok := g.adj.TopoSort()

	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = g.names[id]
	}

	return result, ok
}

// FindCycle returns a cycle through seed as a node sequence that
// starts and ends at seed. It returns nil when seed is unknown or no
// cycle passes through it.
func (g *Graph) FindCycle(seed string) []string {
	id, ok := g.ids[seed]
	if !ok {
		return nil
	}

	cycleIDs := g.adj.FindCycle(id)
	if len(cycleIDs) == 0 {
		return nil
	}

	cycle := make([]string, len(cycleIDs))
	for i, cid := range cycleIDs {
		cycle[i] = g.names[cid]
	}

	return cycle
}
