package document_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeloom/pkg/document"
)

func TestDiffBaseline_NoChanges(t *testing.T) {
	t.Parallel()

	store := document.NewStore(nil)
	doc := store.NewScratch("a.py", "x = 1\n", "")

	assert.Nil(t, document.DiffBaseline(doc))
	assert.Nil(t, document.DiffBaseline(nil))
}

func TestDiffBaseline_TracksEdits(t *testing.T) {
	t.Parallel()

	store := document.NewStore(nil)
	doc := store.NewScratch("a.py", "keep\nold\n", "")
	require.True(t, store.UpdateContent(doc.ID, "keep\nnew\n"))

	diffs := document.DiffBaseline(doc)
	require.NotEmpty(t, diffs)

	var out strings.Builder

	require.NoError(t, document.WriteDiff(diffs, &out))

	assert.Contains(t, out.String(), "  keep\n")
	assert.Contains(t, out.String(), "- old\n")
	assert.Contains(t, out.String(), "+ new\n")
}
