package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codeloom/pkg/mcp"
)

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// connect runs srv on an in-memory transport pair and returns a live
// client session. Teardown is registered on t.
func connect(t *testing.T, srv *mcp.Server) (*mcpsdk.ClientSession, context.Context) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-serverDone
	})

	return session, ctx
}

func call(t *testing.T, ctx context.Context, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)

	return result
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])

	return text.Text
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
	}

	assert.Contains(t, toolNames, "ingest_project")
	assert.Contains(t, toolNames, "project_tree")
	assert.Contains(t, toolNames, "dependency_graph")
	assert.Contains(t, toolNames, "analyze_file")
	assert.Contains(t, toolNames, "list_documents")
	assert.Contains(t, toolNames, "open_document")
	assert.Contains(t, toolNames, "insert_text")
	assert.Contains(t, toolNames, "update_document")
	assert.Len(t, toolNames, 8)

	for _, tool := range toolsResult.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

func TestMCPServer_IngestGraphDocumentFlow(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProjectFile(t, root, "src/main.py", "from .util import helper\n\ndef run():\n    helper()\n")
	writeProjectFile(t, root, "src/util.py", "def helper():\n    pass\n")

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	// Ingest the project directory.
	result := call(t, ctx, session, "ingest_project", map[string]any{"root": root})
	require.False(t, result.IsError, textOf(t, result))
	assert.Contains(t, textOf(t, result), `"files": 2`)

	// Build the dependency graph: main.py imports util.py.
	result = call(t, ctx, session, "dependency_graph", map[string]any{})
	require.False(t, result.IsError, textOf(t, result))

	graphJSON := textOf(t, result)
	assert.Contains(t, graphJSON, `"source": "src/main.py"`)
	assert.Contains(t, graphJSON, `"target": "src/util.py"`)

	// Open main.py as a document.
	result = call(t, ctx, session, "open_document", map[string]any{"path": "src/main.py"})
	require.False(t, result.IsError, textOf(t, result))

	var doc map[string]any

	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &doc))
	assert.Equal(t, "doc-1", doc["id"])
	assert.Equal(t, "python", doc["languageMode"])

	// Replace the document content.
	result = call(t, ctx, session, "update_document", map[string]any{
		"document_id": "doc-1",
		"content":     "import os\n\ndef fresh():\n    pass\n",
	})
	require.False(t, result.IsError, textOf(t, result))
	assert.Contains(t, textOf(t, result), `"isDirty": true`)

	// Analysis of the linked file sees the written-back content.
	result = call(t, ctx, session, "analyze_file", map[string]any{"path": "src/main.py"})
	require.False(t, result.IsError, textOf(t, result))

	analysisJSON := textOf(t, result)
	assert.Contains(t, analysisJSON, `"os"`)
	assert.Contains(t, analysisJSON, `"fresh"`)
	assert.NotContains(t, analysisJSON, `"helper"`)

	// Near-miss paths get a suggestion in the error text.
	result = call(t, ctx, session, "analyze_file", map[string]any{"path": "src/mian.py"})
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "did you mean src/main.py?")
}

func TestMCPServer_InMemoryTransport_CallErrors(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	// Graph before ingest reports the missing project in-band.
	result := call(t, ctx, session, "dependency_graph", map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "no project loaded")

	// Relative ingest roots are rejected.
	result = call(t, ctx, session, "ingest_project", map[string]any{"root": "relative/path"})
	assert.True(t, result.IsError)

	// Edits against unknown documents are rejected.
	result = call(t, ctx, session, "insert_text", map[string]any{
		"document_id": "doc-42",
		"text":        "anything",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "document not found")
}

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	names := srv.ListToolNames()
	assert.Equal(t, []string{
		"analyze_file", "dependency_graph", "ingest_project", "insert_text",
		"list_documents", "open_document", "project_tree", "update_document",
	}, names)
}
