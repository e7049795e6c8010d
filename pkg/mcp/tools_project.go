package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codeloom/pkg/depgraph"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/safeconv"
	"github.com/Sumatoshi-tech/codeloom/pkg/source"
)

// IngestSummary describes the outcome of an ingest_project call.
type IngestSummary struct {
	Root        string `json:"root"`
	Files       int    `json:"files"`
	Dirs        int    `json:"dirs"`
	WithContent int    `json:"withContent"`
}

// handleIngest processes ingest_project tool calls.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input IngestInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateIngestInput(input)
	if err != nil {
		return errorResult(err)
	}

	opts := s.intake

	if input.MaxFileSize != "" {
		size, parseErr := humanize.ParseBytes(input.MaxFileSize)
		if parseErr != nil {
			return errorResult(fmt.Errorf("parse max_file_size: %w", parseErr))
		}

		capped, ok := safeconv.Uint64ToInt64(size)
		if !ok {
			return errorResult(fmt.Errorf("parse max_file_size: %s overflows", input.MaxFileSize))
		}

		opts.MaxFileSize = capped
	}

	if len(input.IgnoreDirs) > 0 {
		opts.IgnoreDirs = input.IgnoreDirs
	}

	entries, err := project.ReadDir(ctx, input.Root, opts)
	if err != nil {
		return errorResult(fmt.Errorf("read project: %w", err))
	}

	tree := project.Build(entries)

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	s.ws.LoadTree(tree)

	files, dirs := tree.Count()

	withContent := 0

	for _, file := range tree.FlattenFiles() {
		if file.HasContent {
			withContent++
		}
	}

	return jsonResult(IngestSummary{
		Root:        input.Root,
		Files:       files,
		Dirs:        dirs,
		WithContent: withContent,
	})
}

// handleTree processes project_tree tool calls.
func (s *Server) handleTree(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ TreeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if s.ws.Tree == nil {
		return errorResult(ErrNoProject)
	}

	return jsonResult(s.ws.Tree)
}

// GraphResult is the dependency_graph payload: the graph plus one
// detected import cycle, when present.
type GraphResult struct {
	*depgraph.Graph
	Cycle []string `json:"cycle,omitempty"`
}

// handleGraph processes dependency_graph tool calls.
func (s *Server) handleGraph(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ GraphInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if s.ws.Tree == nil {
		return errorResult(ErrNoProject)
	}

	graph := depgraph.BuildWithSuffixes(s.ws.Tree, s.suffixes)

	return jsonResult(GraphResult{Graph: graph, Cycle: depgraph.FirstCycle(graph)})
}

// handleAnalyzeFile processes analyze_file tool calls.
func (s *Server) handleAnalyzeFile(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input AnalyzeFileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	if s.ws.Tree == nil {
		return errorResult(ErrNoProject)
	}

	file := s.ws.Tree.FindFile(project.NormalizePath(input.Path))
	if file == nil {
		return errorResult(fileNotFoundError(s.ws.Tree, input.Path))
	}

	if !file.HasContent {
		return errorResult(fmt.Errorf("%w: %s", ErrNoFileContent, input.Path))
	}

	return jsonResult(source.Analyze(file.Content, file.Language))
}

// validateIngestInput validates the ingest tool input parameters.
func validateIngestInput(input IngestInput) error {
	if input.Root == "" {
		return ErrEmptyRoot
	}

	if !filepath.IsAbs(input.Root) {
		return ErrRootNotAbsolute
	}

	info, err := os.Stat(input.Root)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRootNotFound, input.Root)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, input.Root)
	}

	return nil
}
