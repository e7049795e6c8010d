package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/cache"
	"github.com/Sumatoshi-tech/codeloom/pkg/depgraph"
	"github.com/Sumatoshi-tech/codeloom/pkg/observability"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

// ErrUnknownWatchFormat indicates a watch output format outside the
// supported set.
var ErrUnknownWatchFormat = errors.New("unknown watch format")

// WatchCommand holds configuration for the watch command.
type WatchCommand struct {
	debounce time.Duration
	format   string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	wc := &WatchCommand{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Rebuild the project tree and dependency graph on file changes",
		Long: `Watches a project directory and rebuilds the tree and dependency
graph whenever files change, printing a one-line delta summary per
rebuild. Changes are debounced so editor save bursts trigger a single
rebuild.`,
		Args: cobra.ExactArgs(1),
		RunE: wc.run,
	}

	flags := cmd.Flags()
	flags.DurationVar(&wc.debounce, "debounce", 300*time.Millisecond, "delay before rebuilding after a change")
	flags.StringVar(&wc.format, "format", "text", "delta output format: text")

	return cmd
}

// watchSnapshot captures the tree and graph sizes one rebuild
// produced.
type watchSnapshot struct {
	files   int
	loaded  int
	imports int
	cycle   []string
}

func (s watchSnapshot) summary() string {
	return fmt.Sprintf("watching: files=%d loaded=%d imports=%d", s.files, s.loaded, s.imports)
}

// formatDelta renders the one-line rebuild summary with signed changes
// against the previous snapshot.
func formatDelta(prev, cur watchSnapshot, elapsed time.Duration) string {
	return fmt.Sprintf("rebuilt: files=%d (%+d) imports=%d (%+d) in %s",
		cur.files, cur.files-prev.files,
		cur.imports, cur.imports-prev.imports,
		elapsed.Round(time.Millisecond))
}

// watchSession carries the state one watch run threads through its
// rebuild loop.
type watchSession struct {
	root     string
	opts     project.IntakeOptions
	suffixes []string
	prev     watchSnapshot
	writer   io.Writer
	logger   *slog.Logger
}

func (wc *WatchCommand) run(cmd *cobra.Command, args []string) error {
	if wc.format != "text" {
		return fmt.Errorf("%w: %s (available: text)", ErrUnknownWatchFormat, wc.format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := intakeOptions(cfg, "", nil)
	if err != nil {
		return err
	}

	// Rebuilds reread only files that changed on disk.
	opts.Cache = cache.NewFileCache(0)

	obsCfg, err := observabilityConfig(cfg, observability.ModeWatch, false)
	if err != nil {
		return err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	root := args[0]
	ctx := cmd.Context()

	session := &watchSession{
		root:     root,
		opts:     opts,
		suffixes: cfg.Resolver.Suffixes,
		writer:   cmd.OutOrStdout(),
		logger:   providers.Logger,
	}

	session.prev, err = buildWatchSnapshot(ctx, root, opts, session.suffixes)
	if err != nil {
		return err
	}

	fmt.Fprintln(session.writer, session.prev.summary())
	warnOnCycle(session.logger, session.prev)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchTargets(watcher, root, opts.IgnoreDirs); err != nil {
		return err
	}

	providers.Logger.Info("watch started", "root", root, "debounce", wc.debounce.String())

	return wc.loop(ctx, watcher, session)
}

func buildWatchSnapshot(ctx context.Context, root string, opts project.IntakeOptions, suffixes []string) (watchSnapshot, error) {
	entries, err := project.ReadDir(ctx, root, opts)
	if err != nil {
		return watchSnapshot{}, fmt.Errorf("read project: %w", err)
	}

	tree := project.Build(entries)
	files := tree.FlattenFiles()
	loaded := 0

	for _, file := range files {
		if file.HasContent {
			loaded++
		}
	}

	graph := depgraph.BuildWithSuffixes(tree, suffixes)

	return watchSnapshot{
		files:   len(files),
		loaded:  loaded,
		imports: len(graph.Edges),
		cycle:   depgraph.FirstCycle(graph),
	}, nil
}

// warnOnCycle logs the import cycle a snapshot carries, if any.
func warnOnCycle(logger *slog.Logger, snap watchSnapshot) {
	if len(snap.cycle) > 0 {
		logger.Warn("import cycle detected", "cycle", strings.Join(snap.cycle, " -> "))
	}
}

// addWatchTargets registers root and every non-ignored directory under
// it with the watcher.
func addWatchTargets(watcher *fsnotify.Watcher, root string, ignoreDirs []string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		if skippedPath(root, path, ignoreDirs) {
			return filepath.SkipDir
		}

		if addErr := watcher.Add(path); addErr != nil {
			return fmt.Errorf("watch %s: %w", path, addErr)
		}

		return nil
	})
}

// skippedPath reports whether path falls inside an ignored directory
// relative to the watch root.
func skippedPath(root, path string, ignoreDirs []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}

	return project.IgnoredPath(filepath.ToSlash(rel), ignoreDirs)
}

func (wc *WatchCommand) loop(ctx context.Context, watcher *fsnotify.Watcher, session *watchSession) error {
	timer := time.NewTimer(wc.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	defer timer.Stop()

	pending := false

	for {
		select {
		case <-ctx.Done():
			session.logger.Debug("watch stopped")

			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if skippedPath(session.root, event.Name, session.opts.IgnoreDirs) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := addWatchTargets(watcher, event.Name, session.opts.IgnoreDirs); addErr != nil {
						session.logger.Warn("watch add failed", "path", event.Name, "error", addErr)
					}
				}
			}

			pending = true

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

			timer.Reset(wc.debounce)

		case <-timer.C:
			if !pending {
				continue
			}

			pending = false

			startedAt := time.Now()

			snap, err := buildWatchSnapshot(ctx, session.root, session.opts, session.suffixes)
			if err != nil {
				session.logger.Warn("rebuild failed", "error", err)

				continue
			}

			fmt.Fprintln(session.writer, formatDelta(session.prev, snap, time.Since(startedAt)))
			warnOnCycle(session.logger, snap)
			session.logger.Debug("rebuilt",
				"files", snap.files,
				"loaded", snap.loaded,
				"imports", snap.imports,
			)

			session.prev = snap

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			session.logger.Warn("watch error", "error", err)
		}
	}
}
