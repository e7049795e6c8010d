package source

import (
	"regexp"
	"strings"
)

var (
	// Matches both "import a, b" and "from X import a, b as c" at line
	// start. Group 1 is the from-module (empty for plain imports),
	// group 2 the import list.
	pyImportRe = regexp.MustCompile(`(?m)^(?:from[ \t]+(\S+)[ \t]+)?import[ \t]+(.+)$`)

	// Top-level definitions only: column zero, nothing indented.
	pyTopLevelRe = regexp.MustCompile(`(?m)^(def|class)[ \t]+(\w+)`)
)

func analyzePython(content string) Analysis {
	result := emptyAnalysis()

	for _, m := range pyImportRe.FindAllStringSubmatch(content, -1) {
		fromModule, list := m[1], m[2]

		if fromModule != "" {
			result.Imports = append(result.Imports, Import{
				Source:     fromModule,
				Specifiers: pySpecifiers(list),
				Type:       ImportNamed,
			})

			continue
		}

		// "import a, b" binds each module as its own default import.
		for _, module := range strings.Split(list, ",") {
			module = strings.TrimSpace(module)
			if module == "" {
				continue
			}

			// "import numpy as np" keeps the module name, not the alias.
			if fields := strings.Fields(module); len(fields) > 0 {
				module = fields[0]
			}

			result.Imports = append(result.Imports, Import{
				Source:     module,
				Specifiers: []string{},
				Type:       ImportDefault,
			})
		}
	}

	for _, m := range pyTopLevelRe.FindAllStringSubmatch(content, -1) {
		keyword, name := m[1], m[2]

		result.Exports = appendUnique(result.Exports, name)

		if keyword == "def" {
			result.Functions = appendUnique(result.Functions, name)
		} else {
			result.Classes = appendUnique(result.Classes, name)
		}
	}

	return result
}

// pySpecifiers splits "baz, qux as q" into ["baz", "qux"]: comma-split,
// trimmed, keeping the pre-"as" name.
func pySpecifiers(list string) []string {
	specs := []string{}

	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if fields := strings.Fields(raw); len(fields) > 0 {
			specs = append(specs, fields[0])
		}
	}

	return specs
}
