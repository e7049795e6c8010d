// Package document implements the multi-document editing model layered
// over a project tree: open buffers, the active document, and edits
// that write back into linked project files.
package document

import (
	"github.com/Sumatoshi-tech/codeloom/pkg/textpos"
)

// Source classifies where a document's content came from.
type Source string

// Document sources.
const (
	SourceProject Source = "project"
	SourceExample Source = "example"
	SourceScratch Source = "scratch"
)

// Document is one open editor buffer. Dirty is set by every content,
// rename, and language-mode change and is never cleared here.
type Document struct {
	ID                  string             `json:"id"                            yaml:"id"`
	Name                string             `json:"name"                          yaml:"name"`
	Path                string             `json:"path,omitempty"                yaml:"path,omitempty"`
	Content             string             `json:"content"                       yaml:"content"`
	LanguageMode        string             `json:"languageMode"                  yaml:"languageMode"`
	Source              Source             `json:"source"                        yaml:"source"`
	LinkedProjectFileID string             `json:"linkedProjectFileId,omitempty" yaml:"linkedProjectFileId,omitempty"`
	Dirty               bool               `json:"isDirty"                       yaml:"isDirty"`
	Selection           *textpos.Selection `json:"selection,omitempty"           yaml:"selection,omitempty"`

	// baseline is the content the document was created with. It backs
	// session-local diffs and does not persist.
	baseline string
}

// Example is a built-in sample snippet a document can be opened from.
type Example struct {
	ID       string
	Name     string
	Language string
	Content  string
}
