package depgraph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeloom/pkg/depgraph"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

func buildTree(t *testing.T, files map[string]string) *project.Tree {
	t.Helper()

	entries := make([]project.Entry, 0, len(files))
	for path, content := range files {
		entries = append(entries, project.Entry{
			Path:       path,
			Size:       int64(len(content)),
			Content:    content,
			HasContent: true,
		})
	}

	return project.Build(entries)
}

func findNode(g *depgraph.Graph, id string) *depgraph.Node {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

func TestBuild_PythonRelativeImport(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "a.py", graph.Edges[0].Source)
	assert.Equal(t, "b.py", graph.Edges[0].Target)
	assert.Equal(t, depgraph.EdgeTypeImports, graph.Edges[0].Type)

	from := findNode(graph, "a.py")
	to := findNode(graph, "b.py")
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, []string{"b.py"}, from.Dependencies)
	assert.Equal(t, []string{"a.py"}, to.Dependents)
	assert.Empty(t, from.Dependents)
	assert.Empty(t, to.Dependencies)
}

func TestBuild_DottedModulePath(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"app.py":     "from lib.helpers import run\n",
		"helpers.py": "def run():\n    pass\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "app.py", graph.Edges[0].Source)
	assert.Equal(t, "helpers.py", graph.Edges[0].Target)
}

func TestBuild_RelativeJSWithSuffix(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"src/app.js":         "import helper from './util/helper';\n",
		"src/util/helper.js": "export function helper() {}\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "src/app.js", graph.Edges[0].Source)
	assert.Equal(t, "src/util/helper.js", graph.Edges[0].Target)
}

func TestBuild_IndexSuffixResolution(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"src/app.ts":        "import { api } from './util';\n",
		"src/util/index.ts": "export const api = 1;\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "src/util/index.ts", graph.Edges[0].Target)
}

func TestBuild_SelfImportDropped(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .a import helper\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
	assert.Empty(t, graph.Nodes[0].Dependencies)
	assert.Empty(t, graph.Nodes[0].Dependents)
}

func TestBuild_UnresolvableImportsDropped(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "import os\nimport numpy\nfrom ./missing import x\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
}

func TestBuild_DuplicateEdgesKeptDependenciesUnique(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import one\nfrom .b import two\n",
		"b.py": "def one():\n    pass\ndef two():\n    pass\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Edges, 2)

	from := findNode(graph, "a.py")
	to := findNode(graph, "b.py")
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, []string{"b.py"}, from.Dependencies)
	assert.Equal(t, []string{"a.py"}, to.Dependents)
}

func TestBuild_SkipsNonCodeAndContentlessFiles(t *testing.T) {
	t.Parallel()

	tree := project.Build([]project.Entry{
		{Path: "README.md", Content: "# hi", HasContent: true},
		{Path: "large.py", Size: 1 << 20},
		{Path: "ok.py", Content: "import os\n", HasContent: true},
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "ok.py", graph.Nodes[0].ID)
}

func TestBuild_NodeMetadata(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"svc.py": "import os\ndef run():\n    pass\nclass Service:\n    pass\n",
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Nodes, 1)
	node := graph.Nodes[0]
	assert.Equal(t, "svc.py", node.ID)
	assert.Equal(t, "svc.py", node.Label)
	assert.Equal(t, depgraph.NodeTypeFile, node.Type)
	assert.Equal(t, "python", node.Metadata.Language)
	assert.Equal(t, []string{"run"}, node.Metadata.Functions)
	assert.Equal(t, []string{"Service"}, node.Metadata.Classes)
	assert.Positive(t, node.Metadata.Lines)
}

func TestBuild_NameCollisionLastRegistrationWins(t *testing.T) {
	t.Parallel()

	tree := project.Build([]project.Entry{
		{Path: "one/util.py", Content: "def a():\n    pass\n", HasContent: true},
		{Path: "two/util.py", Content: "def b():\n    pass\n", HasContent: true},
		{Path: "main.py", Content: "import util\n", HasContent: true},
	})

	graph := depgraph.Build(tree)

	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "main.py", graph.Edges[0].Source)
	assert.Equal(t, "two/util.py", graph.Edges[0].Target)
}

func TestWriteTable_ListsFilesAndTotals(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	var out strings.Builder

	require.NoError(t, depgraph.WriteTable(depgraph.Build(tree), &out))

	assert.Contains(t, out.String(), "a.py")
	assert.Contains(t, out.String(), "b.py")
	assert.Contains(t, out.String(), "2 files, 1 imports")
}

func TestWriteCompact_OneLinePerEdge(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	var out strings.Builder

	require.NoError(t, depgraph.WriteCompact(depgraph.Build(tree), &out))

	assert.Contains(t, out.String(), "a.py -> b.py")
	assert.Contains(t, out.String(), "2 files, 1 imports")
}

func TestWriteJSON_RoundTripsShape(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	var out strings.Builder

	require.NoError(t, depgraph.WriteJSON(depgraph.Build(tree), &out))

	assert.Contains(t, out.String(), `"nodes"`)
	assert.Contains(t, out.String(), `"edges"`)
	assert.Contains(t, out.String(), `"type": "imports"`)
}

func TestWriteYAML_KeysAndEdge(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	var out strings.Builder

	require.NoError(t, depgraph.WriteYAML(depgraph.Build(tree), &out))

	assert.Contains(t, out.String(), "nodes:")
	assert.Contains(t, out.String(), "edges:")
	assert.Contains(t, out.String(), "source: a.py")
	assert.Contains(t, out.String(), "target: b.py")
}

func TestWritePlot_SelfContainedHTML(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, map[string]string{
		"a.py": "from .b import thing\n",
		"b.py": "def thing():\n    pass\n",
	})

	var out strings.Builder

	require.NoError(t, depgraph.WritePlot(depgraph.Build(tree), &out))

	html := out.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Dependency Graph")
	assert.Contains(t, html, "a.py")
	assert.Contains(t, html, "echarts")
}
