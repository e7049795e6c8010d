package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codeloom/pkg/levenshtein"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

// Registered tool names.
const (
	ToolNameIngest         = "ingest_project"
	ToolNameTree           = "project_tree"
	ToolNameGraph          = "dependency_graph"
	ToolNameAnalyzeFile    = "analyze_file"
	ToolNameListDocuments  = "list_documents"
	ToolNameOpenDocument   = "open_document"
	ToolNameInsertText     = "insert_text"
	ToolNameUpdateDocument = "update_document"
)

// MaxContentBytes caps inline document content at 1 MB. Larger
// payloads are rejected before touching the workspace.
const MaxContentBytes = 1 << 20

// Validation errors surfaced to MCP clients as isError results.
var (
	// ErrEmptyRoot indicates the root parameter is empty.
	ErrEmptyRoot = errors.New("root parameter is required and must not be empty")
	// ErrRootNotAbsolute indicates the root is not an absolute path.
	ErrRootNotAbsolute = errors.New("root must be an absolute path")
	// ErrRootNotFound indicates the project root does not exist.
	ErrRootNotFound = errors.New("project root does not exist")
	// ErrNoProject indicates no project has been ingested yet.
	ErrNoProject = errors.New("no project loaded; call ingest_project first")
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrFileNotFound indicates the path does not name a file in the project tree.
	ErrFileNotFound = errors.New("file not found in project tree")
	// ErrNoFileContent indicates the file was ingested without content.
	ErrNoFileContent = errors.New("file has no loaded content")
	// ErrEmptyDocumentID indicates the document_id parameter is empty.
	ErrEmptyDocumentID = errors.New("document_id parameter is required and must not be empty")
	// ErrDocumentNotFound indicates no open document has the given id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrContentTooLarge indicates the content input exceeds the size limit.
	ErrContentTooLarge = errors.New("content input exceeds maximum size")
)

// Tool inputs. The SDK derives each tool's JSON schema from the struct
// tags below.

// IngestInput is the input schema for the ingest_project tool.
type IngestInput struct {
	IgnoreDirs  []string `json:"ignore_dirs,omitempty"   jsonschema:"optional directory names to skip anywhere in a path"`
	MaxFileSize string   `json:"max_file_size,omitempty" jsonschema:"optional content size cap (e.g. 500KiB or 2MB)"`
	Root        string   `json:"root"                    jsonschema:"absolute path to the project directory"`
}

// TreeInput is the input schema for the project_tree tool.
type TreeInput struct{}

// GraphInput is the input schema for the dependency_graph tool.
type GraphInput struct{}

// AnalyzeFileInput is the input schema for the analyze_file tool.
type AnalyzeFileInput struct {
	Path string `json:"path" jsonschema:"project-relative path of the file to analyze"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// OpenDocumentInput is the input schema for the open_document tool.
type OpenDocumentInput struct {
	Path string `json:"path" jsonschema:"project-relative path of the file to open"`
}

// InsertTextInput is the input schema for the insert_text tool.
type InsertTextInput struct {
	DocumentID string `json:"document_id"    jsonschema:"id of the open document to edit"`
	Mode       string `json:"mode,omitempty" jsonschema:"insert_at_cursor (default) | replace_selection | replace_all"`
	Text       string `json:"text"           jsonschema:"text to insert"`
}

// UpdateDocumentInput is the input schema for the update_document tool.
type UpdateDocumentInput struct {
	Content    string `json:"content"     jsonschema:"replacement content for the document"`
	DocumentID string `json:"document_id" jsonschema:"id of the open document to update"`
}

// ToolOutput is the structured-output envelope every tool returns.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult converts err into an isError tool result rather than a
// protocol-level failure.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult renders value as indented JSON text content, mirroring it
// in the structured output.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// fileNotFoundError builds the not-found error for path, adding a
// near-miss suggestion from the tree when one exists.
func fileNotFoundError(tree *project.Tree, path string) error {
	files := tree.FlattenFiles()

	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = file.ID
	}

	if hint, ok := levenshtein.Suggest(project.NormalizePath(path), paths); ok {
		return fmt.Errorf("%w: %s (did you mean %s?)", ErrFileNotFound, path, hint)
	}

	return fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

// validateContentInput checks inline content size constraints.
func validateContentInput(content string) error {
	if len(content) > MaxContentBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrContentTooLarge, len(content), MaxContentBytes)
	}

	return nil
}
