package source

import (
	"regexp"
	"strings"
)

var (
	// Binding imports: optional default, optional named braces,
	// optional namespace, then the quoted source.
	cfImportRe = regexp.MustCompile(
		`import\s+(?:(\w+)\s*,?\s*)?(?:\{([^}]*)\})?\s*(?:\*\s*as\s+(\w+))?\s*from\s+['"]([^'"]+)['"]`)

	// Bare side-effect imports: import 'styles.css'.
	cfSideEffectRe = regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)

	cfExportRe = regexp.MustCompile(
		`export\s+(?:default\s+)?(?:function|class|const|let|var|interface|type)\s+(\w+)`)

	// Function declarations and const/let/var bindings whose value is a
	// function expression or arrow.
	cfFuncRe = regexp.MustCompile(
		`(?:function\s+(\w+)\s*\()|(?:(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:function\b|\(|\w+\s*=>))`)

	cfClassRe = regexp.MustCompile(`class\s+(\w+)`)
)

func analyzeCFamily(content string) Analysis {
	result := emptyAnalysis()
	seenSources := map[string]bool{}

	for _, m := range cfImportRe.FindAllStringSubmatch(content, -1) {
		defaultName, namedList, nsName, src := m[1], m[2], m[3], m[4]

		seenSources[src] = true

		specs := []string{}
		if defaultName != "" {
			specs = append(specs, defaultName)
		}

		named := splitNamed(namedList)
		specs = append(specs, named...)

		switch {
		case nsName != "":
			result.Imports = append(result.Imports, Import{
				Source:     src,
				Specifiers: append(specs, nsName),
				Type:       ImportNamespace,
			})
		case len(named) > 0:
			result.Imports = append(result.Imports, Import{
				Source:     src,
				Specifiers: specs,
				Type:       ImportNamed,
			})
		case defaultName != "":
			// Default-only imports bind one name; specifiers stay empty.
			result.Imports = append(result.Imports, Import{
				Source:     src,
				Specifiers: []string{},
				Type:       ImportDefault,
			})
		}
	}

	// Second pass: side-effect imports, skipping sources the binding
	// pass already captured.
	for _, m := range cfSideEffectRe.FindAllStringSubmatch(content, -1) {
		src := m[1]
		if seenSources[src] {
			continue
		}

		seenSources[src] = true
		result.Imports = append(result.Imports, Import{
			Source:     src,
			Specifiers: []string{},
			Type:       ImportSideEffect,
		})
	}

	for _, m := range cfExportRe.FindAllStringSubmatch(content, -1) {
		result.Exports = appendUnique(result.Exports, m[1])
	}

	for _, m := range cfFuncRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}

		if name != "" {
			result.Functions = appendUnique(result.Functions, name)
		}
	}

	for _, m := range cfClassRe.FindAllStringSubmatch(content, -1) {
		result.Classes = appendUnique(result.Classes, m[1])
	}

	return result
}

func splitNamed(list string) []string {
	named := []string{}

	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			named = append(named, raw)
		}
	}

	return named
}
