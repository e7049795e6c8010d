package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/config"
	"github.com/Sumatoshi-tech/codeloom/pkg/depgraph"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

// ErrUnknownGraphFormat indicates a graph output format outside the
// supported set.
var ErrUnknownGraphFormat = fmt.Errorf("unknown graph format")

// GraphCommand holds configuration and dependencies for the graph
// command.
type GraphCommand struct {
	format       string
	output       string
	workspaceDir string
	maxFileSize  string
	ignoreDirs   []string

	readTree treeReader
}

// NewGraphCommand creates the graph command with default dependencies.
func NewGraphCommand() *cobra.Command {
	return newGraphCommandWithDeps(buildTree)
}

func newGraphCommandWithDeps(readTree treeReader) *cobra.Command {
	gc := &GraphCommand{readTree: readTree}

	cmd := &cobra.Command{
		Use:   "graph [dir|manifest.json]",
		Short: "Derive and print the project dependency graph",
		Long: `Builds the import dependency graph of a project and writes it in
the chosen format. The project comes from a directory walk, an upload
manifest, or a saved workspace snapshot (--workspace).`,
		Args: cobra.MaximumNArgs(1),
		RunE: gc.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&gc.format, "format", "f", "text", "output format: text, json, yaml, compact, plot")
	flags.StringVarP(&gc.output, "output", "o", "", "write output to a file instead of stdout")
	flags.StringVarP(&gc.workspaceDir, "workspace", "w", "", "load the project from a saved workspace snapshot")
	flags.StringVar(&gc.maxFileSize, "max-file-size", "", "content load cutoff, e.g. 500KiB (default from config)")
	flags.StringSliceVar(&gc.ignoreDirs, "ignore-dir", nil, "directory names to skip (default from config)")

	return cmd
}

func (gc *GraphCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tree, err := gc.resolveTree(cmd, args, cfg)
	if err != nil {
		return err
	}

	graph := depgraph.BuildWithSuffixes(tree, cfg.Resolver.Suffixes)

	writer := cmd.OutOrStdout()

	if gc.output != "" {
		file, err := os.Create(gc.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()

		writer = file
	}

	return writeGraph(graph, gc.format, writer)
}

func (gc *GraphCommand) resolveTree(cmd *cobra.Command, args []string, cfg *config.Config) (*project.Tree, error) {
	if len(args) == 1 {
		opts, err := intakeOptions(cfg, gc.maxFileSize, gc.ignoreDirs)
		if err != nil {
			return nil, err
		}

		return gc.readTree(cmd.Context(), args[0], opts)
	}

	if gc.workspaceDir == "" {
		return nil, ErrNoInput
	}

	ws, _, err := openWorkspace(gc.workspaceDir)
	if err != nil {
		return nil, err
	}

	if ws.Tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWorkspace, gc.workspaceDir)
	}

	return ws.Tree, nil
}

func writeGraph(graph *depgraph.Graph, format string, writer io.Writer) error {
	switch format {
	case "text":
		return depgraph.WriteTable(graph, writer)
	case "json":
		return depgraph.WriteJSON(graph, writer)
	case "yaml":
		return depgraph.WriteYAML(graph, writer)
	case "compact":
		return depgraph.WriteCompact(graph, writer)
	case "plot":
		return depgraph.WritePlot(graph, writer)
	default:
		return fmt.Errorf("%w: %s (available: text, json, yaml, compact, plot)", ErrUnknownGraphFormat, format)
	}
}
