package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff computes a line diff from src to dst. Identical texts yield
// nil.
func Diff(src, dst string) []diffmatchpatch.Diff {
	if src == dst {
		return nil
	}

	dmp := diffmatchpatch.New()
	srcRunes, dstRunes, lineArray := dmp.DiffLinesToRunes(src, dst)
	diffs := dmp.DiffMainRunes(srcRunes, dstRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	return dmp.DiffCleanupMerge(diffs)
}

// DiffBaseline computes a line diff between the content the document
// was created with and its current content.
func DiffBaseline(doc *Document) []diffmatchpatch.Diff {
	if doc == nil {
		return nil
	}

	return Diff(doc.baseline, doc.Content)
}

// WriteDiff renders line diffs with +/- markers, one line per change.
func WriteDiff(diffs []diffmatchpatch.Diff, w io.Writer) error {
	for _, diff := range diffs {
		prefix := "  "

		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range splitDiffLines(diff.Text) {
			_, err := fmt.Fprintf(w, "%s%s\n", prefix, line)
			if err != nil {
				return fmt.Errorf("writediff: %w", err)
			}
		}
	}

	return nil
}

func splitDiffLines(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}

	return lines
}
