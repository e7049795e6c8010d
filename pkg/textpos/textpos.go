// Package textpos converts line/column positions into byte offsets and
// applies position-based text mutations. Positions are 1-based and are
// clamped to the content bounds, so stale coordinates degrade to the
// nearest valid offset instead of failing.
package textpos

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode string does not name a
// supported insert mode.
var ErrUnknownMode = errors.New("unknown insert mode")

// Mode selects how Apply splices the payload into the content.
type Mode string

// Insert modes. The wire names are shared with the CLI and MCP surfaces.
const (
	ModeInsertAtCursor   Mode = "insert_at_cursor"
	ModeReplaceSelection Mode = "replace_selection"
	ModeReplaceAll       Mode = "replace_all"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInsertAtCursor, ModeReplaceSelection, ModeReplaceAll:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("parsemode %q: %w", s, ErrUnknownMode)
	}
}

// Selection is a line/column range. Lines and columns are 1-based.
// A collapsed selection (start == end) is a caret, not a span.
type Selection struct {
	StartLine   int `json:"startLine" yaml:"startLine"`
	StartColumn int `json:"startColumn" yaml:"startColumn"`
	EndLine     int `json:"endLine" yaml:"endLine"`
	EndColumn   int `json:"endColumn" yaml:"endColumn"`
}

// Collapsed reports whether the selection is a caret.
func (s Selection) Collapsed() bool {
	return s.StartLine == s.EndLine && s.StartColumn == s.EndColumn
}

// Offset resolves a 1-based (line, column) position to a byte offset in
// content. Line is clamped to [1, lineCount] and column to
// [1, lineLength+1], so the result is always within [0, len(content)].
func Offset(content string, line, column int) int {
	lines := strings.Split(content, "\n")

	if line < 1 {
		line = 1
	}

	if line > len(lines) {
		line = len(lines)
	}

	target := lines[line-1]

	if column < 1 {
		column = 1
	}

	if column > len(target)+1 {
		column = len(target) + 1
	}

	offset := 0
	for i := range line - 1 {
		offset += len(lines[i]) + 1
	}

	return offset + column - 1
}

// Apply splices payload into content according to mode and the stored
// selection (which may be nil).
//
//   - ModeReplaceAll: the content becomes payload.
//   - ModeReplaceSelection: a non-collapsed selection is replaced by
//     payload; a collapsed or missing selection degrades to an insert at
//     the selection end (or end of content).
//   - ModeInsertAtCursor (and any unrecognized mode): payload is
//     inserted at the selection end (or end of content), ignoring any
//     selected span.
func Apply(content string, sel *Selection, payload string, mode Mode) string {
	switch mode {
	case ModeReplaceAll:
		return payload

	case ModeReplaceSelection:
		if sel != nil && !sel.Collapsed() {
			start := Offset(content, sel.StartLine, sel.StartColumn)
			end := Offset(content, sel.EndLine, sel.EndColumn)

			if start > end {
				start, end = end, start
			}

			return content[:start] + payload + content[end:]
		}

		return insertAtCursor(content, sel, payload)

	default:
		return insertAtCursor(content, sel, payload)
	}
}

func insertAtCursor(content string, sel *Selection, payload string) string {
	at := len(content)
	if sel != nil {
		at = Offset(content, sel.EndLine, sel.EndColumn)
	}

	return content[:at] + payload + content[at:]
}
