// Package mcp implements a Model Context Protocol server exposing the
// Codeloom workspace as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codeloom/pkg/cache"
	"github.com/Sumatoshi-tech/codeloom/pkg/depgraph"
	"github.com/Sumatoshi-tech/codeloom/pkg/observability"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/workspace"
)

// Implementation identity reported during the MCP handshake.
const (
	serverName    = "codeloom"
	serverVersion = "1.0.0"

	// toolCount sizes the tool name slice up front.
	toolCount = 8
)

// ServerDeps carries the server's injectable collaborators. Leave a
// field zero to get the production default.
type ServerDeps struct {
	// Logger receives SDK diagnostics. Nil falls back to slog's default.
	Logger *slog.Logger

	// Metrics records per-tool RED metrics when set.
	Metrics *observability.REDMetrics

	// Tracer opens a span around each tool call when set.
	Tracer trace.Tracer

	// Workspace is the workspace to serve. Nil creates an empty one.
	Workspace *workspace.Workspace

	// Intake supplies the default limits for ingest_project calls.
	Intake project.IntakeOptions

	// Suffixes override the import resolution suffix list. Nil uses the
	// dependency graph defaults.
	Suffixes []string
}

// Server wraps the MCP SDK server with Codeloom tool registrations.
// The SDK may run tool handlers concurrently, so all workspace access
// goes through wsMu.
type Server struct {
	inner    *mcpsdk.Server
	mu       sync.RWMutex
	wsMu     sync.Mutex
	ws       *workspace.Workspace
	tools    []string
	metrics  *observability.REDMetrics
	tracer   trace.Tracer
	intake   project.IntakeOptions
	suffixes []string
}

// NewServer creates a new MCP server with all Codeloom tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		opts,
	)

	ws := deps.Workspace
	if ws == nil {
		ws = workspace.New()
	}

	suffixes := deps.Suffixes
	if suffixes == nil {
		suffixes = depgraph.DefaultSuffixes
	}

	intake := deps.Intake
	if intake.Cache == nil {
		// Repeated ingest_project calls reread only changed files.
		intake.Cache = cache.NewFileCache(0)
	}

	srv := &Server{
		inner:    inner,
		ws:       ws,
		tools:    make([]string, 0, toolCount),
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
		intake:   intake,
		suffixes: suffixes,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns every registered tool name in sorted order.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run serves MCP over stdio, returning when the context is canceled or
// the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport serves MCP over the given transport, returning when
// the context is canceled or the peer disconnects.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all Codeloom MCP tools to the server.
func (s *Server) registerTools() {
	s.registerIngestTool()
	s.registerTreeTool()
	s.registerGraphTool()
	s.registerAnalyzeFileTool()
	s.registerListDocumentsTool()
	s.registerOpenDocumentTool()
	s.registerInsertTextTool()
	s.registerUpdateDocumentTool()
}

func (s *Server) registerIngestTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameIngest,
		Description: ingestToolDescription,
	}, withMetrics(s.metrics, ToolNameIngest, withTracing(s.tracer, ToolNameIngest, s.handleIngest)))

	s.trackTool(ToolNameIngest)
}

func (s *Server) registerTreeTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameTree,
		Description: treeToolDescription,
	}, withMetrics(s.metrics, ToolNameTree, withTracing(s.tracer, ToolNameTree, s.handleTree)))

	s.trackTool(ToolNameTree)
}

func (s *Server) registerGraphTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameGraph,
		Description: graphToolDescription,
	}, withMetrics(s.metrics, ToolNameGraph, withTracing(s.tracer, ToolNameGraph, s.handleGraph)))

	s.trackTool(ToolNameGraph)
}

func (s *Server) registerAnalyzeFileTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameAnalyzeFile,
		Description: analyzeFileToolDescription,
	}, withMetrics(s.metrics, ToolNameAnalyzeFile, withTracing(s.tracer, ToolNameAnalyzeFile, s.handleAnalyzeFile)))

	s.trackTool(ToolNameAnalyzeFile)
}

func (s *Server) registerListDocumentsTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameListDocuments,
		Description: listDocumentsToolDescription,
	}, withMetrics(s.metrics, ToolNameListDocuments, withTracing(s.tracer, ToolNameListDocuments, s.handleListDocuments)))

	s.trackTool(ToolNameListDocuments)
}

func (s *Server) registerOpenDocumentTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameOpenDocument,
		Description: openDocumentToolDescription,
	}, withMetrics(s.metrics, ToolNameOpenDocument, withTracing(s.tracer, ToolNameOpenDocument, s.handleOpenDocument)))

	s.trackTool(ToolNameOpenDocument)
}

func (s *Server) registerInsertTextTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameInsertText,
		Description: insertTextToolDescription,
	}, withMetrics(s.metrics, ToolNameInsertText, withTracing(s.tracer, ToolNameInsertText, s.handleInsertText)))

	s.trackTool(ToolNameInsertText)
}

func (s *Server) registerUpdateDocumentTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameUpdateDocument,
		Description: updateDocumentToolDescription,
	}, withMetrics(s.metrics, ToolNameUpdateDocument, withTracing(s.tracer, ToolNameUpdateDocument, s.handleUpdateDocument)))

	s.trackTool(ToolNameUpdateDocument)
}

// mcpSpanPrefix namespaces tool spans and metric names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey labels the trace id appended to tool responses.
const traceIDMetaKey = "trace_id"

// withTracing opens a server span around each tool call and, when the
// span is sampled, appends its trace id to the response content.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics records request count, duration, and in-flight gauge for
// each tool call. Handler errors and isError results both count as
// failures.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, mcpSpanPrefix+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Descriptions shown to MCP clients in tools/list.
const (
	ingestToolDescription = "Ingest a project directory into the workspace: " +
		"walk the root, read text files under the size cap, and build the " +
		"project tree. Replaces any previously loaded project."

	treeToolDescription = "Return the current project tree as nested " +
		"directory and file nodes with per-file metadata."

	graphToolDescription = "Build the file dependency graph for the loaded " +
		"project: one node per analyzable file, one edge per resolved import."

	analyzeFileToolDescription = "Extract imports, exports, functions, and " +
		"classes from a single project file using the heuristic source analyzer."

	listDocumentsToolDescription = "List all open documents with their " +
		"content, language mode, dirty state, and the active document id."

	openDocumentToolDescription = "Open a project file as an editable " +
		"document. Reopening an already open file activates the existing " +
		"document instead of creating a duplicate."

	insertTextToolDescription = "Insert text into an open document at the " +
		"cursor, over the selection, or replacing the whole content. " +
		"Documents linked to project files write the result back to the tree."

	updateDocumentToolDescription = "Replace the full content of an open " +
		"document and mark it dirty. Linked project files receive the new " +
		"content as well."
)
