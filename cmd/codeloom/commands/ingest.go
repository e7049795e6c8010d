package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/render"
	"github.com/Sumatoshi-tech/codeloom/pkg/safeconv"
	"github.com/Sumatoshi-tech/codeloom/pkg/workspace"
)

// IngestCommand holds configuration and dependencies for the ingest
// command.
type IngestCommand struct {
	out         string
	codecName   string
	compress    bool
	stats       bool
	maxFileSize string
	ignoreDirs  []string
	silent      bool

	readTree treeReader
}

// NewIngestCommand creates the ingest command with default
// dependencies.
func NewIngestCommand() *cobra.Command {
	return newIngestCommandWithDeps(buildTree)
}

func newIngestCommandWithDeps(readTree treeReader) *cobra.Command {
	ic := &IngestCommand{readTree: readTree}

	cmd := &cobra.Command{
		Use:   "ingest <dir|manifest.json>",
		Short: "Read a project into a tree and optionally save a workspace snapshot",
		Long: `Reads a project from a directory walk or an upload manifest,
assembles the project tree, and prints an intake summary. With --out
the resulting workspace is saved as a snapshot that graph and docs
can load later.`,
		Args: cobra.ExactArgs(1),
		RunE: ic.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&ic.out, "out", "o", "", "directory to save the workspace snapshot into")
	flags.StringVar(&ic.codecName, "codec", "", "snapshot codec: json or gob (default from config)")
	flags.BoolVar(&ic.compress, "compress", false, "lz4-compress the snapshot")
	flags.BoolVar(&ic.stats, "stats", false, "print per-language statistics")
	flags.StringVar(&ic.maxFileSize, "max-file-size", "", "content load cutoff, e.g. 500KiB (default from config)")
	flags.StringSliceVar(&ic.ignoreDirs, "ignore-dir", nil, "directory names to skip (default from config)")
	flags.BoolVar(&ic.silent, "silent", false, "disable progress output")

	return cmd
}

func (ic *IngestCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := intakeOptions(cfg, ic.maxFileSize, ic.ignoreDirs)
	if err != nil {
		return err
	}

	silent := isSilent(cmd, ic.silent)
	progressWriter := cmd.ErrOrStderr()
	writer := cmd.OutOrStdout()

	if isVerbose(cmd) && !silent {
		opts.Progress = func(path string, index, total int) {
			progressf(false, progressWriter, "read %d/%d %s", index, total, path)
		}
	}

	source := args[0]
	startedAt := time.Now()
	progressf(silent, progressWriter, "ingest started source=%s", source)

	tree, err := ic.readTree(cmd.Context(), source, opts)
	if err != nil {
		return err
	}

	files := tree.FlattenFiles()
	loaded := 0

	for _, file := range files {
		if file.HasContent {
			loaded++
		}
	}

	_, dirs := tree.Count()

	progressf(silent, progressWriter, "ingest finished in %s", time.Since(startedAt).Round(time.Millisecond))
	fmt.Fprintf(writer, "ingested %s: %d files (%d with content), %d directories\n", source, len(files), loaded, dirs)

	if ic.stats {
		fmt.Fprint(writer, languageTable(files))
	}

	if ic.out == "" {
		return nil
	}

	codec, format, err := snapshotCodec(cfg.Snapshot.Format, ic.codecName, ic.compress)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(ic.out, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	ws := workspace.New()
	ws.LoadTree(tree)

	if err := ws.Save(ic.out, codec); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}

	progressf(silent, progressWriter, "snapshot saved dir=%s format=%s", ic.out, format)

	return nil
}

// languageTable renders per-language file, byte, and line counts for
// the ingested files.
func languageTable(files []*project.File) string {
	acc := lang.NewAccumulator()
	for _, file := range files {
		acc.Add(file.Name, file.Size, []byte(file.Content))
	}

	stats := acc.Stats()
	rows := make([][]string, 0, len(stats))

	for _, stat := range stats {
		rows = append(rows, []string{
			stat.Language,
			strconv.Itoa(stat.Files),
			humanize.Bytes(safeconv.MustInt64ToUint64(stat.Bytes)),
			humanize.Comma(int64(stat.Lines)),
		})
	}

	footer := fmt.Sprintf("%d languages", len(stats))

	return render.Table([]string{"LANGUAGE", "FILES", "BYTES", "LINES"}, rows, footer)
}
