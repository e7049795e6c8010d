package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/textpos"
	"github.com/Sumatoshi-tech/codeloom/pkg/textutil"
)

const examplePathScheme = "example://"

// Store owns the open documents, the active document id, and the
// project file selection other panels follow.
type Store struct {
	tree           *project.Tree
	docs           []*Document
	activeID       string
	selectedFileID string
	nextID         int
}

// NewStore creates an empty store over the given tree. The tree may be
// nil until a project is loaded.
func NewStore(tree *project.Tree) *Store {
	return &Store{tree: tree}
}

// SetTree replaces the project tree documents write back into.
func (s *Store) SetTree(tree *project.Tree) {
	s.tree = tree
}

// Documents returns the open documents in creation order.
func (s *Store) Documents() []*Document {
	out := make([]*Document, len(s.docs))
	copy(out, s.docs)

	return out
}

// ActiveID returns the active document id, or "" when none is active.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Active returns the active document, or nil when none is active.
func (s *Store) Active() *Document {
	return s.Get(s.activeID)
}

// SelectedFileID returns the project file id the active document is
// linked to, tracked for tree-panel synchronization.
func (s *Store) SelectedFileID() string {
	return s.selectedFileID
}

// Get returns the document with the given id, or nil.
func (s *Store) Get(id string) *Document {
	if id == "" {
		return nil
	}

	for _, doc := range s.docs {
		if doc.ID == id {
			return doc
		}
	}

	return nil
}

// OpenProjectFile opens the project file with the given id as a
// document. An existing document linked to the same file is activated
// and returned instead of creating a duplicate. Returns nil when the
// file is not in the tree.
func (s *Store) OpenProjectFile(fileID string) *Document {
	if s.tree == nil {
		return nil
	}

	file := s.tree.FindFile(fileID)
	if file == nil {
		return nil
	}

	for _, doc := range s.docs {
		if doc.LinkedProjectFileID == fileID {
			s.activate(doc)

			return doc
		}
	}

	doc := &Document{
		ID:                  s.newID(),
		Name:                file.Name,
		Path:                file.Path,
		Content:             file.Content,
		LanguageMode:        file.Language,
		Source:              SourceProject,
		LinkedProjectFileID: file.ID,
		baseline:            file.Content,
	}

	s.docs = append(s.docs, doc)
	s.activate(doc)

	return doc
}

// OpenExample opens a built-in example as a document, deduplicated by
// its synthetic example:// path.
func (s *Store) OpenExample(example Example) *Document {
	syntheticPath := examplePathScheme + example.ID

	for _, doc := range s.docs {
		if doc.Source == SourceExample && doc.Path == syntheticPath {
			s.activate(doc)

			return doc
		}
	}

	languageMode := example.Language
	if languageMode == "" {
		languageMode = lang.ForFilename(example.Name)
	}

	doc := &Document{
		ID:           s.newID(),
		Name:         example.Name,
		Path:         syntheticPath,
		Content:      example.Content,
		LanguageMode: languageMode,
		Source:       SourceExample,
		baseline:     example.Content,
	}

	s.docs = append(s.docs, doc)
	s.activate(doc)

	return doc
}

// NewScratch creates a fresh scratch document. The name is sanitized
// for filesystem safety; an empty languageMode defaults from the
// sanitized name's extension.
func (s *Store) NewScratch(name, content, languageMode string) *Document {
	sanitized := textutil.SanitizeFilename(name)

	if languageMode == "" {
		languageMode = lang.ForFilename(sanitized)
	}

	doc := &Document{
		ID:           s.newID(),
		Name:         sanitized,
		Content:      content,
		LanguageMode: languageMode,
		Source:       SourceScratch,
		baseline:     content,
	}

	s.docs = append(s.docs, doc)
	s.activate(doc)

	return doc
}

// SetActiveDocument makes the document active and re-selects its
// linked project file so other panels stay in sync. Unknown ids are
// ignored.
func (s *Store) SetActiveDocument(id string) bool {
	doc := s.Get(id)
	if doc == nil {
		return false
	}

	s.activate(doc)

	return true
}

// RemoveDocument closes the document. Removing the active document
// promotes the document now at the same index, falling back to the
// previous one, or clears the active id when none remain.
func (s *Store) RemoveDocument(id string) bool {
	index := -1

	for i, doc := range s.docs {
		if doc.ID == id {
			index = i

			break
		}
	}

	if index < 0 {
		return false
	}

	wasActive := s.docs[index].ID == s.activeID
	s.docs = append(s.docs[:index], s.docs[index+1:]...)

	if !wasActive {
		return true
	}

	switch {
	case len(s.docs) == 0:
		s.activeID = ""
		s.selectedFileID = ""
	case index < len(s.docs):
		s.activate(s.docs[index])
	default:
		s.activate(s.docs[index-1])
	}

	return true
}

// UpdateContent replaces the document's content, marks it dirty, and
// writes the content back into the linked project file when there is
// one.
func (s *Store) UpdateContent(id, content string) bool {
	doc := s.Get(id)
	if doc == nil {
		return false
	}

	doc.Content = content
	doc.Dirty = true

	if doc.LinkedProjectFileID != "" && s.tree != nil {
		s.tree.WriteFileContent(doc.LinkedProjectFileID, content)
	}

	return true
}

// Rename changes the document's display name and marks it dirty.
func (s *Store) Rename(id, name string) bool {
	doc := s.Get(id)
	if doc == nil {
		return false
	}

	doc.Name = name
	doc.Dirty = true

	return true
}

// SetLanguageMode changes the document's language mode and marks it
// dirty.
func (s *Store) SetLanguageMode(id, mode string) bool {
	doc := s.Get(id)
	if doc == nil {
		return false
	}

	doc.LanguageMode = mode
	doc.Dirty = true

	return true
}

// SetSelection stores the document's latest selection, replacing any
// previous one.
func (s *Store) SetSelection(id string, sel textpos.Selection) bool {
	doc := s.Get(id)
	if doc == nil {
		return false
	}

	doc.Selection = &sel

	return true
}

// InsertInto applies payload to the document per the insertion mode
// and routes the result through exactly one UpdateContent call.
func (s *Store) InsertInto(id, payload string, mode textpos.Mode) bool {
	doc := s.Get(id)
	if doc == nil {
		return false
	}

	return s.UpdateContent(id, textpos.Apply(doc.Content, doc.Selection, payload, mode))
}

// Restore replaces the store's state with a persisted document list
// and active id, re-seeding the id counter past every restored id.
func (s *Store) Restore(docs []*Document, activeID string) {
	s.docs = make([]*Document, len(docs))
	copy(s.docs, docs)

	s.nextID = 0

	for _, doc := range s.docs {
		if doc.baseline == "" {
			doc.baseline = doc.Content
		}

		numeric := strings.TrimPrefix(doc.ID, "doc-")
		if n, err := strconv.Atoi(numeric); err == nil && n > s.nextID {
			s.nextID = n
		}
	}

	s.activeID = ""
	s.selectedFileID = ""

	if doc := s.Get(activeID); doc != nil {
		s.activate(doc)
	}
}

func (s *Store) activate(doc *Document) {
	s.activeID = doc.ID

	if doc.LinkedProjectFileID != "" && s.tree != nil && s.tree.FindFile(doc.LinkedProjectFileID) != nil {
		s.selectedFileID = doc.LinkedProjectFileID
	}
}

func (s *Store) newID() string {
	s.nextID++

	return fmt.Sprintf("doc-%d", s.nextID)
}
