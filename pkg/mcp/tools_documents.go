package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codeloom/pkg/document"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/textpos"
)

// DocumentList is the list_documents result payload.
type DocumentList struct {
	Documents        []*document.Document `json:"documents"`
	ActiveDocumentID string               `json:"activeDocumentId"`
}

// handleListDocuments processes list_documents tool calls.
func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ ListDocumentsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	return jsonResult(DocumentList{
		Documents:        s.ws.Docs.Documents(),
		ActiveDocumentID: s.ws.Docs.ActiveID(),
	})
}

// handleOpenDocument processes open_document tool calls.
func (s *Server) handleOpenDocument(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input OpenDocumentInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if s.ws.Tree == nil {
		return errorResult(ErrNoProject)
	}

	doc := s.ws.Docs.OpenProjectFile(project.NormalizePath(input.Path))
	if doc == nil {
		return errorResult(fileNotFoundError(s.ws.Tree, input.Path))
	}

	return jsonResult(doc)
}

// handleInsertText processes insert_text tool calls.
func (s *Server) handleInsertText(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input InsertTextInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.DocumentID == "" {
		return errorResult(ErrEmptyDocumentID)
	}

	err := validateContentInput(input.Text)
	if err != nil {
		return errorResult(err)
	}

	modeName := input.Mode
	if modeName == "" {
		modeName = string(textpos.ModeInsertAtCursor)
	}

	mode, err := textpos.ParseMode(modeName)
	if err != nil {
		return errorResult(err)
	}

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if !s.ws.Docs.InsertInto(input.DocumentID, input.Text, mode) {
		return errorResult(fmt.Errorf("%w: %s", ErrDocumentNotFound, input.DocumentID))
	}

	return jsonResult(s.ws.Docs.Get(input.DocumentID))
}

// handleUpdateDocument processes update_document tool calls.
func (s *Server) handleUpdateDocument(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input UpdateDocumentInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.DocumentID == "" {
		return errorResult(ErrEmptyDocumentID)
	}

	err := validateContentInput(input.Content)
	if err != nil {
		return errorResult(err)
	}

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if !s.ws.Docs.UpdateContent(input.DocumentID, input.Content) {
		return errorResult(fmt.Errorf("%w: %s", ErrDocumentNotFound, input.DocumentID))
	}

	return jsonResult(s.ws.Docs.Get(input.DocumentID))
}
