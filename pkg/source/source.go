// Package source extracts imports, exports, and top-level
// function/class names from file content using per-language regex
// passes. This is heuristic static text scanning, not parsing: it is
// documented best-effort, tolerates malformed or partial code, and
// always returns a result instead of failing the caller.
package source

// ImportType classifies how an import statement binds names.
type ImportType string

// Import kinds.
const (
	ImportDefault    ImportType = "default"
	ImportNamed      ImportType = "named"
	ImportNamespace  ImportType = "namespace"
	ImportSideEffect ImportType = "side-effect"
)

// Import is one import statement found in a file.
//
// Specifiers holds the bound names and is empty for side-effect and
// default-only imports.
type Import struct {
	Source     string     `json:"source" yaml:"source"`
	Specifiers []string   `json:"specifiers" yaml:"specifiers"`
	Type       ImportType `json:"type" yaml:"type"`
}

// Analysis is the result of scanning one file. Instances are
// recomputed on demand and never cached across edits.
type Analysis struct {
	Imports   []Import `json:"imports" yaml:"imports"`
	Exports   []string `json:"exports" yaml:"exports"`
	Functions []string `json:"functions" yaml:"functions"`
	Classes   []string `json:"classes" yaml:"classes"`
}

func emptyAnalysis() Analysis {
	return Analysis{
		Imports:   []Import{},
		Exports:   []string{},
		Functions: []string{},
		Classes:   []string{},
	}
}

// Analyze scans content according to the language tag produced by the
// classifier. Python gets its own pass; every other code language goes
// through the C-family pass, whose patterns simply do not match in
// languages they do not cover.
func Analyze(content, language string) Analysis {
	if language == "python" {
		return analyzePython(content)
	}

	return analyzeCFamily(content)
}

// appendUnique keeps name sets ordered by first occurrence.
func appendUnique(names []string, name string) []string {
	for _, have := range names {
		if have == name {
			return names
		}
	}

	return append(names, name)
}
