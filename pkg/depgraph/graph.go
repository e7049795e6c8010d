// Package depgraph builds a directed import graph over the code files
// of a project tree.
package depgraph

import (
	"path"
	"strings"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/source"
	"github.com/Sumatoshi-tech/codeloom/pkg/textutil"
)

// Node and edge types emitted by Build.
const (
	NodeTypeFile    = "file"
	EdgeTypeImports = "imports"
)

// DefaultSuffixes are tried, in order, when a relative import does not
// resolve as written.
var DefaultSuffixes = []string{".py", ".js", ".ts", ".tsx", "/index.ts", "/index.js"}

// Metadata summarizes the analyzed contents of one file node.
type Metadata struct {
	Lines     int      `json:"lines"     yaml:"lines"`
	Language  string   `json:"language"  yaml:"language"`
	Functions []string `json:"functions" yaml:"functions"`
	Classes   []string `json:"classes"   yaml:"classes"`
}

// Node is one code file in the dependency graph. Dependencies and
// Dependents hold node ids and stay symmetric with the edge set.
type Node struct {
	ID           string   `json:"id"           yaml:"id"`
	Label        string   `json:"label"        yaml:"label"`
	Type         string   `json:"type"         yaml:"type"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Dependents   []string `json:"dependents"   yaml:"dependents"`
	Metadata     Metadata `json:"metadata"     yaml:"metadata"`
}

// Edge is one resolved import between two nodes. Multiple import
// statements targeting the same file produce multiple edges.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type"   yaml:"type"`
}

// Graph is the dependency graph of one project tree.
type Graph struct {
	Nodes []*Node `json:"nodes" yaml:"nodes"`
	Edges []Edge  `json:"edges" yaml:"edges"`
}

// Build constructs the dependency graph over every code file in the
// tree that carries content. Imports that do not resolve to another
// file in the tree are dropped.
func Build(tree *project.Tree) *Graph {
	return BuildWithSuffixes(tree, DefaultSuffixes)
}

// BuildWithSuffixes is Build with a caller-chosen suffix list.
func BuildWithSuffixes(tree *project.Tree, suffixes []string) *Graph {
	b := &builder{lookup: make(map[string]*Node)}

	tree.Walk(func(node project.Node) {
		file, ok := node.(*project.File)
		if !ok || !file.HasContent || !lang.IsCodeFile(file.Name) {
			return
		}

		b.addFile(file)
	})

	graph := &Graph{Nodes: make([]*Node, 0, len(b.files)), Edges: []Edge{}}

	for _, entry := range b.files {
		graph.Nodes = append(graph.Nodes, entry.node)
	}

	for _, entry := range b.files {
		for _, imp := range entry.imports {
			target := b.resolve(entry.dir, imp.Source, suffixes)
			if target == nil || target == entry.node {
				continue
			}

			graph.Edges = append(graph.Edges, Edge{
				Source: entry.node.ID,
				Target: target.ID,
				Type:   EdgeTypeImports,
			})

			entry.node.Dependencies = appendUnique(entry.node.Dependencies, target.ID)
			target.Dependents = appendUnique(target.Dependents, entry.node.ID)
		}
	}

	return graph
}

type fileEntry struct {
	node    *Node
	dir     string
	imports []source.Import
}

type builder struct {
	files []fileEntry

	// lookup maps full path, bare filename, and extension-stripped
	// filename to a node. Later files win colliding name keys.
	lookup map[string]*Node
}

func (b *builder) addFile(file *project.File) {
	analysis := source.Analyze(file.Content, file.Language)

	node := &Node{
		ID:           file.Path,
		Label:        file.Name,
		Type:         NodeTypeFile,
		Dependencies: []string{},
		Dependents:   []string{},
		Metadata: Metadata{
			Lines:     textutil.CountLines([]byte(file.Content)),
			Language:  file.Language,
			Functions: analysis.Functions,
			Classes:   analysis.Classes,
		},
	}

	b.files = append(b.files, fileEntry{
		node:    node,
		dir:     path.Dir(file.Path),
		imports: analysis.Imports,
	})

	b.lookup[file.Path] = node
	b.lookup[file.Name] = node

	if stem := strings.TrimSuffix(file.Name, path.Ext(file.Name)); stem != "" {
		b.lookup[stem] = node
	}
}

// resolve maps one import source to a registered node, or nil when the
// import points outside the tree.
func (b *builder) resolve(dir, src string, suffixes []string) *Node {
	if strings.HasPrefix(src, "./") || strings.HasPrefix(src, "../") {
		return b.resolveRelative(dir, src, suffixes)
	}

	segment := src
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}

	if node, ok := b.lookup[segment]; ok {
		return node
	}

	// Dotted module paths ("pkg.mod", ".sibling") fall back to their
	// final dot segment so they can match an extension-stripped name.
	if i := strings.LastIndex(segment, "."); i >= 0 {
		if node, ok := b.lookup[segment[i+1:]]; ok {
			return node
		}
	}

	return nil
}

func (b *builder) resolveRelative(dir, src string, suffixes []string) *Node {
	base := src
	if dir == "." || dir == "" {
		base = strings.TrimPrefix(base, "./")
	} else {
		base = dir + "/" + base
	}

	for strings.Contains(base, "/./") {
		base = strings.ReplaceAll(base, "/./", "/")
	}

	if node, ok := b.lookup[base]; ok {
		return node
	}

	for _, suffix := range suffixes {
		if node, ok := b.lookup[base+suffix]; ok {
			return node
		}
	}

	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}

	return append(ids, id)
}
