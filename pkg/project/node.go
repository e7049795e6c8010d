// Package project models an uploaded codebase as a tree of file and
// directory nodes and provides the intake paths that produce the tree
// from a directory walk or an upload manifest.
package project

import "encoding/gob"

// Kind tags the two node variants.
type Kind string

// Node kinds.
const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Node is one project tree node: either a *File or a *Dir. The variant
// is always explicit; the presence of children never implies the kind.
type Node interface {
	Kind() Kind
	NodeID() string
	NodeName() string
	NodePath() string
}

// File is a leaf node. Content is meaningful only when HasContent is
// set: text-readable files under the intake size cap carry their
// content, everything else is metadata only.
type File struct {
	ID         string
	Name       string
	Path       string
	Size       int64
	Language   string
	Content    string
	HasContent bool
}

// Kind returns KindFile.
func (f *File) Kind() Kind { return KindFile }

// NodeID returns the unique id (the full normalized path).
func (f *File) NodeID() string { return f.ID }

// NodeName returns the file name.
func (f *File) NodeName() string { return f.Name }

// NodePath returns the full normalized path.
func (f *File) NodePath() string { return f.Path }

// Dir is an interior node. Children holds each immediate child exactly
// once, in insertion order.
type Dir struct {
	ID       string
	Name     string
	Path     string
	Children []Node
}

// Kind returns KindDirectory.
func (d *Dir) Kind() Kind { return KindDirectory }

// NodeID returns the unique id (the directory path).
func (d *Dir) NodeID() string { return d.ID }

// NodeName returns the directory name.
func (d *Dir) NodeName() string { return d.Name }

// NodePath returns the directory path.
func (d *Dir) NodePath() string { return d.Path }

//nolint:gochecknoinits // gob registration for the snapshot codecs.
func init() {
	gob.Register(&File{})
	gob.Register(&Dir{})
}
