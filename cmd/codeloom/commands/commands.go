// Package commands implements CLI command handlers for codeloom.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/config"
	"github.com/Sumatoshi-tech/codeloom/pkg/persist"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/safeconv"
	"github.com/Sumatoshi-tech/codeloom/pkg/workspace"
)

var (
	// ErrNoInput is returned when a command gets neither a source path
	// nor a workspace snapshot to operate on.
	ErrNoInput = errors.New(
		"no input: pass a project directory or manifest, or --workspace with a saved snapshot",
	)
	// ErrNoSnapshot indicates a workspace directory without a snapshot
	// file in any known format.
	ErrNoSnapshot = errors.New("no workspace snapshot found")
	// ErrEmptyWorkspace indicates a snapshot that carries no project tree.
	ErrEmptyWorkspace = errors.New("workspace snapshot has no project tree")
	// ErrManifestInvalid indicates a manifest that failed schema validation.
	ErrManifestInvalid = errors.New("manifest failed validation")
	// ErrDocumentNotFound indicates an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrFileNotFound indicates a path outside the project tree.
	ErrFileNotFound = errors.New("file not found in project tree")
)

// treeReader produces a project tree from a directory or manifest
// path. Commands take it as a dependency so tests can substitute
// failures.
type treeReader func(ctx context.Context, source string, opts project.IntakeOptions) (*project.Tree, error)

// buildTree reads a project from a directory or a manifest file and
// assembles its tree.
func buildTree(ctx context.Context, source string, opts project.IntakeOptions) (*project.Tree, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if info.IsDir() {
		entries, err := project.ReadDir(ctx, source, opts)
		if err != nil {
			return nil, fmt.Errorf("read project: %w", err)
		}

		return project.Build(entries), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	manifest, err := project.ParseManifest(data)
	if err != nil {
		return nil, err
	}

	return project.Build(project.EntriesFromManifest(manifest, opts)), nil
}

// loadConfig resolves the configuration for a command run, honoring
// the root --config flag when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = ""
	}

	return config.LoadConfig(path)
}

// intakeOptions builds intake options from configuration, letting
// non-empty flag values override it.
func intakeOptions(cfg *config.Config, maxFileSize string, ignoreDirs []string) (project.IntakeOptions, error) {
	size, err := cfg.Ingest.MaxFileSizeBytes()
	if err != nil {
		return project.IntakeOptions{}, err
	}

	opts := project.IntakeOptions{
		MaxFileSize: size,
		IgnoreDirs:  cfg.Ingest.IgnoreDirs,
	}

	if maxFileSize != "" {
		parsed, err := humanize.ParseBytes(maxFileSize)
		if err != nil {
			return project.IntakeOptions{}, fmt.Errorf("%w for max-file-size: %s", config.ErrInvalidMaxFileSize, maxFileSize)
		}

		capped, ok := safeconv.Uint64ToInt64(parsed)
		if !ok {
			return project.IntakeOptions{}, fmt.Errorf("%w for max-file-size: %s", config.ErrInvalidMaxFileSize, maxFileSize)
		}

		opts.MaxFileSize = capped
	}

	if len(ignoreDirs) > 0 {
		opts.IgnoreDirs = ignoreDirs
	}

	return opts, nil
}

// snapshotFormats lists the codec identifiers probed when loading a
// workspace directory without an explicit format.
var snapshotFormats = []string{"json", "gob", "json.lz4", "gob.lz4"}

// openWorkspace loads the workspace snapshot in dir, probing the known
// codec formats, and reports the format it found.
func openWorkspace(dir string) (*workspace.Workspace, string, error) {
	for _, format := range snapshotFormats {
		codec, err := persist.ForFormat(format)
		if err != nil {
			return nil, "", err
		}

		persister := persist.NewPersister[workspace.Snapshot](workspace.SnapshotBasename, codec)
		if _, err := os.Stat(persister.Path(dir)); err != nil {
			continue
		}

		ws := workspace.New()
		if err := ws.Load(dir, codec); err != nil {
			return nil, "", fmt.Errorf("load workspace: %w", err)
		}

		return ws, format, nil
	}

	return nil, "", fmt.Errorf("%w in %s", ErrNoSnapshot, dir)
}

const lz4Suffix = ".lz4"

// snapshotCodec resolves the snapshot codec from the configured
// format, an optional codec name override, and the compress switch.
func snapshotCodec(defaultFormat, codecName string, compress bool) (persist.Codec, string, error) {
	format := defaultFormat
	if codecName != "" {
		format = codecName
	}

	if compress && !strings.HasSuffix(format, lz4Suffix) {
		format += lz4Suffix
	}

	codec, err := persist.ForFormat(format)
	if err != nil {
		return nil, "", err
	}

	return codec, format, nil
}

func isSilent(cmd *cobra.Command, silent bool) bool {
	if silent {
		return true
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return false
	}

	return quiet
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}

	return verbose
}

func progressf(silent bool, writer io.Writer, format string, args ...any) {
	if silent {
		return
	}

	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}
