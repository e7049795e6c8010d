package depgraph

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/codeloom/pkg/render"
)

const (
	plotHeight         = "720px"
	minSymbolSize      = 10
	maxSymbolSize      = 40
	linesPerSymbolStep = 10
	forceRepulsion     = 400
	forceEdgeLength    = 90
)

// WritePlot renders the graph as a self-contained HTML page with a
// force-directed chart.
func WritePlot(g *Graph, w io.Writer) error {
	page := render.NewPage(
		"Dependency Graph",
		"Resolved imports between project files",
	)

	page.Add(render.Section{
		Title:    "Imports",
		Subtitle: "Node size follows line count; arrows point at the imported file.",
		Chart:    buildGraphChart(g),
	})

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("writeplot: %w", err)
	}

	return nil
}

func buildGraphChart(g *Graph) *charts.Graph {
	chart := charts.NewGraph()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: plotHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.GraphNode, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       node.ID,
			Value:      float32(node.Metadata.Lines),
			SymbolSize: symbolSize(node.Metadata.Lines),
		})
	}

	links := make([]opts.GraphLink, 0, len(g.Edges))
	for _, edge := range g.Edges {
		links = append(links, opts.GraphLink{Source: edge.Source, Target: edge.Target})
	}

	chart.AddSeries("imports", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:             "force",
			Roam:               opts.Bool(true),
			FocusNodeAdjacency: opts.Bool(true),
			EdgeSymbol:         []string{"none", "arrow"},
			Force:              &opts.GraphForce{Repulsion: forceRepulsion, EdgeLength: forceEdgeLength},
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)

	return chart
}

func symbolSize(lines int) int {
	size := minSymbolSize + lines/linesPerSymbolStep
	if size > maxSymbolSize {
		size = maxSymbolSize
	}

	return size
}
