package lang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeloom/pkg/lang"
)

func TestForFilename_KnownExtensions(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"main.py":        "python",
		"app.js":         "javascript",
		"app.jsx":        "javascriptreact",
		"index.ts":       "typescript",
		"view.tsx":       "typescriptreact",
		"Main.java":      "java",
		"server.go":      "go",
		"lib.rs":         "rust",
		"core.c":         "c",
		"core.cpp":       "cpp",
		"package.json":   "json",
		"README.md":      "markdown",
		"page.html":      "html",
		"style.css":      "css",
		"theme.scss":     "scss",
		"config.yaml":    "yaml",
		"pom.xml":        "xml",
		"notes.txt":      "plaintext",
		"deep/path/x.py": "python",
	}

	for name, want := range cases {
		assert.Equal(t, want, lang.ForFilename(name), name)
	}
}

func TestForFilename_UnknownDefaultsToPlaintext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plaintext", lang.ForFilename("photo.jpg"))
	assert.Equal(t, "plaintext", lang.ForFilename("Makefile"))
	assert.Equal(t, "plaintext", lang.ForFilename(""))
}

func TestForFilename_CaseInsensitiveExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "python", lang.ForFilename("SCRIPT.PY"))
}

func TestIsCodeFile_SourceOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, lang.IsCodeFile("a.py"))
	assert.True(t, lang.IsCodeFile("a.tsx"))
	assert.False(t, lang.IsCodeFile("a.json"))
	assert.False(t, lang.IsCodeFile("a.md"))
	assert.False(t, lang.IsCodeFile("a.bin"))
}

func TestIsTextFile_IncludesStructuredText(t *testing.T) {
	t.Parallel()

	assert.True(t, lang.IsTextFile("a.json"))
	assert.True(t, lang.IsTextFile("a.yaml"))
	assert.True(t, lang.IsTextFile("a.md"))
	assert.False(t, lang.IsTextFile("a.png"))
	assert.False(t, lang.IsTextFile("a.exe"))
}

func TestIsTextFile_SupersetOfCodeFiles(t *testing.T) {
	t.Parallel()

	// Every extension the analyzer accepts must also be readable.
	for _, name := range []string{
		"a.py", "a.js", "a.mjs", "a.cjs", "a.jsx", "a.ts", "a.tsx",
		"a.java", "a.go", "a.rs", "a.c", "a.h", "a.cpp", "a.cc",
		"a.cxx", "a.hpp", "a.cs", "a.rb", "a.php", "a.swift", "a.kt",
	} {
		if lang.IsCodeFile(name) {
			assert.True(t, lang.IsTextFile(name), name)
		}
	}
}

func TestDetect_ByNameAndContent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Python", lang.Detect("tool.py", []byte("import os\n")))
	assert.Equal(t, lang.OtherLanguage, lang.Detect("blob", []byte{0x00, 0x01, 0x02}))
}

func TestAccumulator_AggregatesAndSorts(t *testing.T) {
	t.Parallel()

	acc := lang.NewAccumulator()
	acc.Add("a.py", 10, []byte("import os\n"))
	acc.Add("b.py", 20, []byte("import sys\nimport os\n"))
	acc.Add("c.md", 5, []byte("# title\n"))

	stats := acc.Stats()

	assert.Len(t, stats, 2)
	assert.Equal(t, "Python", stats[0].Language)
	assert.Equal(t, 2, stats[0].Files)
	assert.Equal(t, int64(30), stats[0].Bytes)
	assert.Equal(t, 3, stats[0].Lines)
}
