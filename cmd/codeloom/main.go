// Package main provides the entry point for the codeloom CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/cmd/codeloom/commands"
	"github.com/Sumatoshi-tech/codeloom/pkg/version"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "codeloom",
		Short: "Codeloom Project Workspace - dependency graphs and live documents",
		Long: `Codeloom reads a project from a directory or an upload manifest,
derives its import dependency graph, and manages editable documents
linked back to project files.

Commands:
  ingest    Read a project and save a workspace snapshot
  graph     Derive and print the dependency graph
  docs      Inspect and edit workspace documents
  watch     Rebuild the tree and graph on file changes
  validate  Validate an upload manifest
  mcp       Serve workspace tools over MCP stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewIngestCommand())
	rootCmd.AddCommand(commands.NewGraphCommand())
	rootCmd.AddCommand(commands.NewDocsCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "codeloom %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
