package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeloom/pkg/document"
	"github.com/Sumatoshi-tech/codeloom/pkg/levenshtein"
	"github.com/Sumatoshi-tech/codeloom/pkg/persist"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
	"github.com/Sumatoshi-tech/codeloom/pkg/render"
	"github.com/Sumatoshi-tech/codeloom/pkg/textpos"
	"github.com/Sumatoshi-tech/codeloom/pkg/workspace"
)

var (
	// ErrNoEditPayload indicates an edit invocation without text to insert.
	ErrNoEditPayload = errors.New("no edit payload: pass --text or --from-file")
	// ErrDocumentNotLinked indicates a diff against a scratch or example
	// document that has no project file behind it.
	ErrDocumentNotLinked = errors.New("document is not linked to a project file")
)

// DocsCommand holds the workspace flag shared by the docs subcommands.
type DocsCommand struct {
	workspaceDir string
}

// NewDocsCommand creates the docs command tree.
func NewDocsCommand() *cobra.Command {
	dc := &DocsCommand{}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Inspect and edit workspace documents",
		Long: `Documents are the open editor buffers stored in a workspace
snapshot. Each subcommand loads the snapshot, operates on it, and
saves mutations back in the format the snapshot was found in.`,
	}

	cmd.PersistentFlags().StringVarP(&dc.workspaceDir, "workspace", "w", "", "workspace snapshot directory (default from config)")

	cmd.AddCommand(dc.listCommand())
	cmd.AddCommand(dc.openCommand())
	cmd.AddCommand(dc.editCommand())
	cmd.AddCommand(dc.diffCommand())

	return cmd
}

// docsSession is one loaded workspace snapshot plus what is needed to
// save it back in place.
type docsSession struct {
	ws     *workspace.Workspace
	dir    string
	format string
}

func (dc *DocsCommand) openSession(cmd *cobra.Command) (*docsSession, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dir := dc.workspaceDir
	if dir == "" {
		dir = cfg.Snapshot.Dir
	}

	ws, format, err := openWorkspace(dir)
	if err != nil {
		return nil, err
	}

	return &docsSession{ws: ws, dir: dir, format: format}, nil
}

func (s *docsSession) save() error {
	codec, err := persist.ForFormat(s.format)
	if err != nil {
		return err
	}

	if err := s.ws.Save(s.dir, codec); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}

	return nil
}

func (dc *DocsCommand) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := dc.openSession(cmd)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), documentsTable(session.ws.Docs))

			return nil
		},
	}
}

func (dc *DocsCommand) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Open a project file as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := dc.openSession(cmd)
			if err != nil {
				return err
			}

			if session.ws.Tree == nil {
				return fmt.Errorf("%w: %s", ErrEmptyWorkspace, session.dir)
			}

			doc := session.ws.Docs.OpenProjectFile(project.NormalizePath(args[0]))
			if doc == nil {
				return fileNotFoundError(session.ws.Tree, args[0])
			}

			if err := session.save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "opened %s as %s (%s)\n", doc.Name, doc.ID, doc.LanguageMode)

			return nil
		},
	}
}

// docsEditOptions holds the flags of the docs edit subcommand.
type docsEditOptions struct {
	text     string
	fromFile string
	mode     string
	showDiff bool
}

func (dc *DocsCommand) editCommand() *cobra.Command {
	opts := &docsEditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <doc-id>",
		Short: "Insert text into a document",
		Long: `Applies an edit to a document. The payload lands at the cursor,
replaces the current selection, or replaces the whole content
depending on --mode. Edits to documents linked to a project file are
written back into the tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dc.runEdit(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.text, "text", "", "text to insert")
	flags.StringVar(&opts.fromFile, "from-file", "", "read the text from a file, or - for stdin")
	flags.StringVar(&opts.mode, "mode", string(textpos.ModeInsertAtCursor), "insert_at_cursor, replace_selection, or replace_all")
	flags.BoolVar(&opts.showDiff, "diff", false, "print the resulting change as a line diff")

	return cmd
}

func (dc *DocsCommand) runEdit(cmd *cobra.Command, id string, opts *docsEditOptions) error {
	payload, err := editPayload(opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	mode, err := textpos.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	session, err := dc.openSession(cmd)
	if err != nil {
		return err
	}

	if !session.ws.Docs.InsertInto(id, payload, mode) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	if err := session.save(); err != nil {
		return err
	}

	doc := session.ws.Docs.Get(id)
	writer := cmd.OutOrStdout()
	fmt.Fprintf(writer, "edited %s: %d bytes\n", doc.ID, len(doc.Content))

	if opts.showDiff {
		return document.WriteDiff(document.DiffBaseline(doc), writer)
	}

	return nil
}

// editPayload resolves the text to insert from --text or --from-file.
func editPayload(opts *docsEditOptions, stdin io.Reader) (string, error) {
	if opts.text != "" {
		return opts.text, nil
	}

	if opts.fromFile == "" {
		return "", ErrNoEditPayload
	}

	if opts.fromFile == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(opts.fromFile)
	if err != nil {
		return "", fmt.Errorf("read edit payload: %w", err)
	}

	return string(data), nil
}

func (dc *DocsCommand) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <doc-id> <dir>",
		Short: "Diff a document against its project file on disk",
		Long: `Compares a linked document's content with the current content of
its project file under dir. Baselines are session-scoped, so across
invocations the project files on disk are the reference.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dc.runDiff(cmd, args[0], args[1])
		},
	}
}

func (dc *DocsCommand) runDiff(cmd *cobra.Command, id, root string) error {
	session, err := dc.openSession(cmd)
	if err != nil {
		return err
	}

	doc := session.ws.Docs.Get(id)
	if doc == nil {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	if doc.LinkedProjectFileID == "" {
		return fmt.Errorf("%w: %s", ErrDocumentNotLinked, id)
	}

	path := filepath.Join(root, filepath.FromSlash(doc.LinkedProjectFileID))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read project file: %w", err)
	}

	writer := cmd.OutOrStdout()

	diffs := document.Diff(string(data), doc.Content)
	if len(diffs) == 0 {
		fmt.Fprintf(writer, "no changes: %s matches %s\n", doc.ID, doc.LinkedProjectFileID)

		return nil
	}

	return document.WriteDiff(diffs, writer)
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

// documentsTable renders the document list with the active document
// marked in the first column.
func documentsTable(docs *document.Store) string {
	list := docs.Documents()
	rows := make([][]string, 0, len(list))

	for _, doc := range list {
		active := ""
		if doc.ID == docs.ActiveID() {
			active = "*"
		}

		dirty := ""
		if doc.Dirty {
			dirty = "yes"
		}

		rows = append(rows, []string{active, doc.ID, doc.Name, doc.LanguageMode, string(doc.Source), dirty})
	}

	footer := fmt.Sprintf("%d documents", len(list))

	return render.Table([]string{"", "ID", "NAME", "LANGUAGE", "SOURCE", "DIRTY"}, rows, footer)
}
