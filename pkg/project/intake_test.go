package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeloom/pkg/cache"
	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestIgnoredPath_SegmentsAnywhere(t *testing.T) {
	t.Parallel()

	ignore := project.DefaultIgnoreDirs

	assert.True(t, project.IgnoredPath(".git/config", ignore))
	assert.True(t, project.IgnoredPath("src/node_modules/lib/a.js", ignore))
	assert.True(t, project.IgnoredPath("dist", ignore))
	assert.True(t, project.IgnoredPath("app/build/out.js", ignore))
	assert.False(t, project.IgnoredPath("src/builder/a.js", ignore))
	assert.False(t, project.IgnoredPath("distribution/a.js", ignore))
}

func TestReadDir_ReadsTextSkipsIgnoredAndBinary(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "main.py", []byte("import os\n"))
	writeFile(t, root, "sub/util.js", []byte("export const x = 1\n"))
	writeFile(t, root, "node_modules/dep/index.js", []byte("ignored"))
	writeFile(t, root, "image.png", []byte{0x89, 0x50, 0x4e, 0x47})
	writeFile(t, root, "weird.py", []byte("ok\x00binary"))

	entries, err := project.ReadDir(context.Background(), root, project.IntakeOptions{})
	require.NoError(t, err)

	byPath := map[string]project.Entry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}

	require.Len(t, byPath, 4)
	assert.NotContains(t, byPath, "node_modules/dep/index.js")

	assert.True(t, byPath["main.py"].HasContent)
	assert.Equal(t, "import os\n", byPath["main.py"].Content)

	assert.True(t, byPath["sub/util.js"].HasContent)

	// Non-text extension: size recorded, content unread.
	assert.False(t, byPath["image.png"].HasContent)

	// Text extension but binary payload: sniffed out.
	assert.False(t, byPath["weird.py"].HasContent)
}

func TestReadDir_SizeCap(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "big.py", []byte("x = 1\n"))
	writeFile(t, root, "small.py", []byte("y = 2\n"))

	entries, err := project.ReadDir(context.Background(), root, project.IntakeOptions{MaxFileSize: 3})
	require.NoError(t, err)

	for _, e := range entries {
		assert.False(t, e.HasContent, e.Path)
	}
}

func TestReadDir_ProgressPerFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("a"))
	writeFile(t, root, "b.py", []byte("b"))
	writeFile(t, root, "c.md", []byte("c"))

	calls := 0
	total := 0

	_, err := project.ReadDir(context.Background(), root, project.IntakeOptions{
		Progress: func(_ string, index, totalFiles int) {
			calls++
			total = totalFiles

			assert.Equal(t, calls, index)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, total)
}

func TestReadDir_CacheReusesContents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("x = 1\n"))

	fileCache := cache.NewFileCache(0)
	opts := project.IntakeOptions{Cache: fileCache}

	first, err := project.ReadDir(context.Background(), root, opts)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "x = 1\n", first[0].Content)
	assert.Equal(t, int64(0), fileCache.Stats().Hits)

	second, err := project.ReadDir(context.Background(), root, opts)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "x = 1\n", second[0].Content)
	assert.Equal(t, int64(1), fileCache.Stats().Hits)
}

func TestReadDir_CacheServesChangedFileFresh(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("x = 1\n"))

	fileCache := cache.NewFileCache(0)
	opts := project.IntakeOptions{Cache: fileCache}

	_, err := project.ReadDir(context.Background(), root, opts)
	require.NoError(t, err)

	// A different size guarantees the cached entry is invalid.
	writeFile(t, root, "a.py", []byte("x = 1234\n"))

	entries, err := project.ReadDir(context.Background(), root, opts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x = 1234\n", entries[0].Content)
}

func TestReadDir_CancelledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.py", []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := project.ReadDir(ctx, root, project.IntakeOptions{})

	require.ErrorIs(t, err, context.Canceled)
}

func TestReadDir_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := project.ReadDir(context.Background(), filepath.Join(t.TempDir(), "gone"), project.IntakeOptions{})

	require.Error(t, err)
}

func TestValidateManifest_AcceptsDocumentedShape(t *testing.T) {
	t.Parallel()

	issues, err := project.ValidateManifest([]byte(`{
		"files": [
			{"path": "a.py", "size": 3, "content": "x=1"},
			{"path": "b.bin", "size": 9000}
		]
	}`))

	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateManifest_RejectsMissingPath(t *testing.T) {
	t.Parallel()

	issues, err := project.ValidateManifest([]byte(`{"files": [{"size": 3}]}`))

	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestParseManifest_InvalidShapeSentinel(t *testing.T) {
	t.Parallel()

	_, err := project.ParseManifest([]byte(`{"files": [{"size": 1}]}`))

	require.ErrorIs(t, err, project.ErrInvalidManifest)
}

func TestEntriesFromManifest_AppliesGates(t *testing.T) {
	t.Parallel()

	content := "print('hi')\n"
	big := string(make([]byte, 600*1024))

	manifest := &project.Manifest{Files: []project.ManifestFile{
		{Path: "keep.py", Size: int64(len(content)), Content: &content},
		{Path: "node_modules/x.js", Size: 1, Content: &content},
		{Path: "huge.py", Size: int64(len(big)), Content: &big},
		{Path: "noread.dat", Size: 7},
	}}

	entries := project.EntriesFromManifest(manifest, project.IntakeOptions{})

	require.Len(t, entries, 3)

	byPath := map[string]project.Entry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}

	assert.True(t, byPath["keep.py"].HasContent)
	assert.False(t, byPath["huge.py"].HasContent)
	assert.False(t, byPath["noread.dat"].HasContent)
	assert.NotContains(t, byPath, "node_modules/x.js")
}

func TestEntriesFromManifest_SizeInferredFromContent(t *testing.T) {
	t.Parallel()

	content := "abc"
	manifest := &project.Manifest{Files: []project.ManifestFile{
		{Path: "a.py", Content: &content},
	}}

	entries := project.EntriesFromManifest(manifest, project.IntakeOptions{})

	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].Size)
}
