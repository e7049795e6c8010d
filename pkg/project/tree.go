package project

import (
	"strings"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
)

// Entry is one uploaded file before tree assembly. Content is present
// only when the source was text-decodable and under the intake size
// cap; HasContent records that distinction even for empty files.
type Entry struct {
	Path       string
	Size       int64
	Content    string
	HasContent bool
}

// Tree is the project model: an ordered sequence of root-level nodes.
type Tree struct {
	Roots []Node
}

// NormalizePath converts back-slashes to forward slashes and strips
// leading and trailing separators. It does not collapse interior empty
// segments; Build skips those during splitting.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")

	return strings.Trim(p, "/")
}

func splitSegments(p string) []string {
	segs := []string{}

	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}

	return segs
}

// Build assembles a tree from a flat entry list. Directory
// materialization is idempotent and duplicate file paths keep the
// first occurrence. Structure depends only on the path set, not on
// input order beyond sibling ordering.
func Build(entries []Entry) *Tree {
	tree := &Tree{Roots: []Node{}}
	dirs := map[string]*Dir{}
	seen := map[string]bool{}

	for _, entry := range entries {
		segs := splitSegments(NormalizePath(entry.Path))
		if len(segs) == 0 {
			continue
		}

		canonical := strings.Join(segs, "/")
		if seen[canonical] {
			continue
		}

		seen[canonical] = true

		var parent *Dir

		cumulative := ""

		for _, seg := range segs[:len(segs)-1] {
			if cumulative == "" {
				cumulative = seg
			} else {
				cumulative = cumulative + "/" + seg
			}

			dir, ok := dirs[cumulative]
			if !ok {
				dir = &Dir{ID: cumulative, Name: seg, Path: cumulative, Children: []Node{}}
				dirs[cumulative] = dir
				tree.attach(parent, dir)
			}

			parent = dir
		}

		name := segs[len(segs)-1]
		file := &File{
			ID:         canonical,
			Name:       name,
			Path:       canonical,
			Size:       entry.Size,
			Language:   lang.ForFilename(name),
			Content:    entry.Content,
			HasContent: entry.HasContent,
		}

		tree.attach(parent, file)
	}

	return tree
}

func (t *Tree) attach(parent *Dir, node Node) {
	if parent == nil {
		t.Roots = append(t.Roots, node)

		return
	}

	parent.Children = append(parent.Children, node)
}

// FindFile returns the file with the given id, or nil.
func (t *Tree) FindFile(id string) *File {
	var found *File

	t.Walk(func(n Node) {
		if f, ok := n.(*File); ok && f.ID == id && found == nil {
			found = f
		}
	})

	return found
}

// WriteFileContent writes content back into the tree at the given file
// id and reports whether the file was found. Every other node is left
// untouched; the file's recorded size is not revised.
func (t *Tree) WriteFileContent(id, content string) bool {
	file := t.FindFile(id)
	if file == nil {
		return false
	}

	file.Content = content
	file.HasContent = true

	return true
}

// Walk visits every node depth-first in insertion order.
func (t *Tree) Walk(fn func(Node)) {
	var visit func(nodes []Node)

	visit = func(nodes []Node) {
		for _, node := range nodes {
			fn(node)

			if dir, ok := node.(*Dir); ok {
				visit(dir.Children)
			}
		}
	}

	visit(t.Roots)
}

// FlattenFiles returns all file leaves depth-first.
func (t *Tree) FlattenFiles() []*File {
	files := []*File{}

	t.Walk(func(n Node) {
		if f, ok := n.(*File); ok {
			files = append(files, f)
		}
	})

	return files
}

// Count returns the number of file and directory nodes.
func (t *Tree) Count() (files, dirs int) {
	t.Walk(func(n Node) {
		if n.Kind() == KindFile {
			files++
		} else {
			dirs++
		}
	})

	return files, dirs
}
