package render_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeloom/pkg/render"
)

func TestTable_RendersHeaderRowsAndFooter(t *testing.T) {
	t.Parallel()

	out := render.Table(
		[]string{"FILE", "LINES"},
		[][]string{{"a.py", "10"}, {"b.py", "3"}},
		"Total: 2 files",
	)

	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "LINES")
	assert.Contains(t, out, "a.py")
	assert.Contains(t, out, "b.py")
	assert.Contains(t, out, "Total: 2 files")
}

func TestTable_NoFooter(t *testing.T) {
	t.Parallel()

	out := render.Table([]string{"NAME"}, [][]string{{"x"}}, "")

	assert.Contains(t, out, "x")
	assert.NotContains(t, out, "Total")
}

func TestDetectWidth_Default(t *testing.T) {
	t.Setenv("COLUMNS", "")

	assert.Equal(t, render.DefaultWidth, render.DetectWidth())
}

func TestDetectWidth_FromEnv(t *testing.T) {
	t.Setenv("COLUMNS", "96")

	assert.Equal(t, 96, render.DetectWidth())
}

func TestDetectWidth_Invalid(t *testing.T) {
	t.Setenv("COLUMNS", "not-a-number")

	assert.Equal(t, render.DefaultWidth, render.DetectWidth())
}

func TestDetectWidth_Clamped(t *testing.T) {
	t.Setenv("COLUMNS", "10")
	assert.Equal(t, render.MinWidth, render.DetectWidth())

	t.Setenv("COLUMNS", "999")
	assert.Equal(t, render.MaxWidth, render.DetectWidth())
}

func TestNewConfig_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	cfg := render.NewConfig()

	assert.True(t, cfg.NoColor)
}

type fragmentChart struct {
	html string
}

func (f fragmentChart) Render(w io.Writer) error {
	_, err := w.Write([]byte(f.html))

	return err
}

func TestPage_Render_EmbedsSections(t *testing.T) {
	t.Parallel()

	page := render.NewPage("Dependency Graph", "Imports between project files")
	page.Add(render.Section{
		Title:    "Files",
		Subtitle: "One node per code file.",
		Chart:    fragmentChart{html: `<div id="chart-1"></div>`},
	})

	var out strings.Builder

	require.NoError(t, page.Render(&out))

	html := out.String()
	assert.Contains(t, html, "<h1>Dependency Graph</h1>")
	assert.Contains(t, html, "Imports between project files")
	assert.Contains(t, html, "<h2>Files</h2>")
	assert.Contains(t, html, `<div id="chart-1"></div>`)
}

func TestPage_Render_ExtractsChartFromFullPage(t *testing.T) {
	t.Parallel()

	full := `<!DOCTYPE html><html><head></head><body>` +
		`<div class="container"><div id="c"></div>` +
		`<style>.chart-junk{}</style><script>option = {};</script></div>` +
		`</body></html>`

	page := render.NewPage("Report", "")
	page.Add(render.Section{Title: "Chart", Chart: fragmentChart{html: full}})

	var out strings.Builder

	require.NoError(t, page.Render(&out))

	html := out.String()
	assert.Contains(t, html, `class="echart-box"`)
	assert.NotContains(t, html, `class="container"`)
	assert.NotContains(t, html, ".chart-junk")
	assert.Contains(t, html, "option = {};")
	assert.NotContains(t, html, "<!DOCTYPE html><html><head></head>")
}
