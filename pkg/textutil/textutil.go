// Package textutil provides small byte-level text helpers shared by the
// intake and reporting paths: binary sniffing, line counting, and
// filename sanitizing.
package textutil

import (
	"bytes"
	"strings"
)

// SniffLimit bounds how many leading bytes IsBinary inspects. The
// null-byte-in-prefix heuristic is the same one Git applies when
// deciding whether a file diffs as text.
const SniffLimit = 8000

// IsBinary reports whether data looks like binary content, meaning a
// null byte appears within the first SniffLimit bytes. Empty input is
// treated as text.
func IsBinary(data []byte) bool {
	window := min(len(data), SniffLimit)

	return bytes.IndexByte(data[:window], 0) != -1
}

// CountLines returns how many lines data holds. A trailing chunk with
// no final newline still counts as a line. Empty input has zero lines.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	full := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] == '\n' {
		return full
	}

	return full + 1
}

const sanitizeFallback = "untitled"

// SanitizeFilename replaces characters that are unsafe in file names
// (path separators, shell-hostile punctuation, control bytes) with
// underscores and trims surrounding whitespace. An empty or fully
// consumed name becomes "untitled".
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(name))

	if cleaned == "" || strings.Trim(cleaned, "_") == "" {
		return sanitizeFallback
	}

	return cleaned
}
