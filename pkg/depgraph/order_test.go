package depgraph_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeloom/pkg/depgraph"
)

func TestOrder_DependenciesFirst(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"app.py":        "from lib.runner import run\n",
		"lib/runner.py": "from lib.base import setup\n",
		"lib/base.py":   "def setup():\n    pass\n",
	})

	order, ok := depgraph.Order(depgraph.Build(tree))
	require.True(t, ok)
	require.Len(t, order, 3)

	base := indexOf(order, "lib/base.py")
	runner := indexOf(order, "lib/runner.py")
	app := indexOf(order, "app.py")

	assert.Less(t, base, runner)
	assert.Less(t, runner, app)
}

func TestOrder_CycleReportsNotOK(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "from .a import other\n",
	})

	order, ok := depgraph.Order(depgraph.Build(tree))
	assert.False(t, ok)
	assert.NotContains(t, order, "a.py")
	assert.NotContains(t, order, "b.py")
}

func TestFirstCycle(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "from .a import other\n",
		"c.py": "from .a import thing\n",
	})

	cycle := depgraph.FirstCycle(depgraph.Build(tree))
	require.NotEmpty(t, cycle)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.Contains(t, cycle, "a.py")
	assert.Contains(t, cycle, "b.py")
	assert.NotContains(t, cycle, "c.py")
}

func TestFirstCycle_Acyclic(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	assert.Nil(t, depgraph.FirstCycle(depgraph.Build(tree)))
}

func TestWriteTable_CycleNote(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "from .a import other\n",
	})

	var buf bytes.Buffer

	err := depgraph.WriteTable(depgraph.Build(tree), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "import cycle: ")
	assert.Contains(t, out, "a.py -> b.py -> a.py")
}

func indexOf(list []string, val string) int {
	for idx, str := range list {
		if str == val {
			return idx
		}
	}

	return -1
}
