// Package workspace ties the project tree and the document store
// together and snapshots them to disk.
package workspace

import (
	"github.com/Sumatoshi-tech/codeloom/pkg/document"
	"github.com/Sumatoshi-tech/codeloom/pkg/persist"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

// SnapshotBasename is the filename stem snapshots are stored under.
const SnapshotBasename = "workspace"

// Snapshot is the persistable workspace state.
type Snapshot struct {
	Tree             *project.Tree        `json:"tree"`
	Documents        []*document.Document `json:"documents"`
	ActiveDocumentID string               `json:"activeDocumentId"`
}

// Workspace bundles a project tree with the documents opened over it.
type Workspace struct {
	Tree *project.Tree
	Docs *document.Store
}

// New creates an empty workspace with no project loaded.
func New() *Workspace {
	return &Workspace{Docs: document.NewStore(nil)}
}

// LoadTree replaces the project tree. Open documents stay; write-back
// targets resolve against the new tree.
func (w *Workspace) LoadTree(tree *project.Tree) {
	w.Tree = tree
	w.Docs.SetTree(tree)
}

// Snapshot captures the tree, document list, and active document id.
func (w *Workspace) Snapshot() *Snapshot {
	return &Snapshot{
		Tree:             w.Tree,
		Documents:        w.Docs.Documents(),
		ActiveDocumentID: w.Docs.ActiveID(),
	}
}

// Restore replaces the workspace state from a snapshot.
func (w *Workspace) Restore(snap *Snapshot) {
	w.Tree = snap.Tree
	w.Docs.SetTree(snap.Tree)
	w.Docs.Restore(snap.Documents, snap.ActiveDocumentID)
}

// Save writes the workspace snapshot into dir with the codec.
func (w *Workspace) Save(dir string, codec persist.Codec) error {
	return persist.NewPersister[Snapshot](SnapshotBasename, codec).Save(dir, w.Snapshot)
}

// Load restores the workspace from a snapshot in dir.
func (w *Workspace) Load(dir string, codec persist.Codec) error {
	return persist.NewPersister[Snapshot](SnapshotBasename, codec).Load(dir, w.Restore)
}
