package toposort_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeloom/pkg/toposort"
)

func TestIntGraphGrow(t *testing.T) {
	t.Parallel()

	graph := toposort.NewIntGraph()
	assert.Equal(t, 0, graph.Len())

	graph.Grow(4)
	assert.Equal(t, 4, graph.Len())

	// Growing smaller is a no-op.
	graph.Grow(2)
	assert.Equal(t, 4, graph.Len())
}

func TestIntGraphAddEdge(t *testing.T) {
	t.Parallel()

	graph := toposort.NewIntGraph()

	assert.True(t, graph.AddEdge(0, 5))
	assert.False(t, graph.AddEdge(0, 5))
	assert.Equal(t, 6, graph.Len())
}

func TestIntGraphTopoSort(t *testing.T) {
	t.Parallel()

	graph := toposort.NewIntGraph()
	graph.AddEdge(2, 0)
	graph.AddEdge(2, 1)
	graph.AddEdge(1, 0)

	result, ok := graph.TopoSort()
	require.True(t, ok)
	assert.Equal(t, []int{2, 1, 0}, result)
}

func TestIntGraphTopoSort_CycleLeavesPartialOrder(t *testing.T) {
	t.Parallel()

	graph := toposort.NewIntGraph()
	graph.AddEdge(0, 1)
	graph.AddEdge(1, 2)
	graph.AddEdge(2, 1)

	result, ok := graph.TopoSort()
	assert.False(t, ok)
	assert.Equal(t, []int{0}, result)
}

func TestIntGraphFindCycle(t *testing.T) {
	t.Parallel()

	graph := toposort.NewIntGraph()
	graph.AddEdge(0, 1)
	graph.AddEdge(1, 2)
	graph.AddEdge(2, 0)

	assert.Equal(t, []int{0, 1, 2, 0}, graph.FindCycle(0))
	assert.Equal(t, []int{1, 2, 0, 1}, graph.FindCycle(1))
}

func TestIntGraphFindCycle_OutOfRange(t *testing.T) {
	t.Parallel()

	graph := toposort.NewIntGraph()
	graph.AddEdge(0, 1)

	assert.Nil(t, graph.FindCycle(7))
	assert.Nil(t, graph.FindCycle(-1))
}
