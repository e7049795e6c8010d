// Package lang classifies project files: it maps filenames to editor
// language tags and decides which files are text-readable and which
// participate in dependency analysis. Classification is a fixed
// extension table, so results never depend on file content.
package lang

import (
	"path"
	"strings"
)

// DefaultLanguage is the tag assigned to unknown extensions.
const DefaultLanguage = "plaintext"

// languageByExt maps a lowercase extension (with dot) to the language
// tag used by the editor and the source analyzer.
var languageByExt = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "javascriptreact",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".json":  "json",
	".md":    "markdown",
	".html":  "html",
	".htm":   "html",
	".css":   "css",
	".scss":  "scss",
	".yaml":  "yaml",
	".yml":   "yaml",
	".xml":   "xml",
	".sh":    "shell",
	".sql":   "sql",
	".toml":  "toml",
	".txt":   "plaintext",
}

// codeExts lists the extensions that participate in dependency
// analysis. Every entry must also be text-readable; IsTextFile
// guarantees that structurally.
var codeExts = map[string]bool{
	".py":    true,
	".js":    true,
	".mjs":   true,
	".cjs":   true,
	".jsx":   true,
	".ts":    true,
	".tsx":   true,
	".java":  true,
	".go":    true,
	".rs":    true,
	".c":     true,
	".h":     true,
	".cpp":   true,
	".cc":    true,
	".cxx":   true,
	".hpp":   true,
	".cs":    true,
	".rb":    true,
	".php":   true,
	".swift": true,
	".kt":    true,
}

// textExts lists non-code extensions whose content is still worth
// reading into the tree (structured text, docs, config).
var textExts = map[string]bool{
	".json":       true,
	".md":         true,
	".html":       true,
	".htm":        true,
	".css":        true,
	".scss":       true,
	".yaml":       true,
	".yml":        true,
	".xml":        true,
	".sh":         true,
	".sql":        true,
	".toml":       true,
	".txt":        true,
	".ini":        true,
	".cfg":        true,
	".env":        true,
	".gitignore":  true,
	".dockerfile": true,
	".lock":       true,
	".svg":        true,
	".csv":        true,
}

func ext(name string) string {
	return strings.ToLower(path.Ext(name))
}

// ForFilename returns the language tag for a filename, defaulting to
// DefaultLanguage for unknown extensions.
func ForFilename(name string) string {
	if lang, ok := languageByExt[ext(name)]; ok {
		return lang
	}

	return DefaultLanguage
}

// IsCodeFile reports whether the file participates in dependency
// analysis.
func IsCodeFile(name string) bool {
	return codeExts[ext(name)]
}

// IsTextFile reports whether the file's content should be read at all.
// Every code file is a text file.
func IsTextFile(name string) bool {
	return codeExts[ext(name)] || textExts[ext(name)]
}
