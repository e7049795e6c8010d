package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleTagLen = 8 // len("</style>")

// Style defines chart dimensions on a page.
type Style struct {
	Width  string
	Height string
}

// DefaultStyle sizes a chart to fill the page width.
func DefaultStyle() Style {
	return Style{Width: "100%", Height: "640px"}
}

// Renderable is the interface chart components implement.
type Renderable interface {
	Render(w io.Writer) error
}

// Section pairs one chart with its heading on a page.
type Section struct {
	Title    string
	Subtitle string
	Chart    Renderable
}

// Page is a self-contained HTML document of chart sections.
type Page struct {
	Title       string
	Description string
	Sections    []Section
}

// NewPage creates an empty page with the given heading.
func NewPage(title, description string) *Page {
	return &Page{Title: title, Description: description}
}

// Add appends sections in render order.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as a standalone HTML document.
func (p *Page) Render(w io.Writer) error {
	type sectionData struct {
		Title    string
		Subtitle string
		Chart    template.HTML
	}

	data := struct {
		Title       string
		Description string
		Sections    []sectionData
	}{Title: p.Title, Description: p.Description}

	for _, section := range p.Sections {
		data.Sections = append(data.Sections, sectionData{
			Title:    section.Title,
			Subtitle: section.Subtitle,
			Chart:    template.HTML(renderChart(section.Chart)),
		})
	}

	var buf bytes.Buffer

	err := pageTemplate.Execute(&buf, data)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("write page: %w", err)
	}

	return nil
}

func renderChart(chart Renderable) string {
	if chart == nil {
		return ""
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return ""
	}

	return extractChartContent(buf.String())
}

// extractChartContent pulls the chart container and its script out of
// the full HTML page go-echarts emits, so it can be embedded in a
// section. Fragments that are not full pages pass through unchanged.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		start := strings.Index(content, "<style")
		if start == -1 {
			return content
		}

		end := strings.Index(content[start:], "</style>")
		if end == -1 {
			return content
		}

		content = content[:start] + content[start+end+styleTagLen:]
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
<style>
body { margin: 0; padding: 24px; background: #0f1115; color: #e6e6e6; font-family: -apple-system, "Segoe UI", sans-serif; }
h1 { margin: 0 0 4px; font-size: 22px; }
p.desc { margin: 0 0 24px; color: #9aa0a6; }
.section { margin-bottom: 32px; }
.section h2 { margin: 0 0 2px; font-size: 16px; }
.section p { margin: 0 0 12px; color: #9aa0a6; font-size: 13px; }
.echart-box { width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="desc">{{.Description}}</p>
{{range .Sections}}<div class="section">
<h2>{{.Title}}</h2>
<p>{{.Subtitle}}</p>
{{.Chart}}
</div>
{{end}}</body>
</html>
`))
