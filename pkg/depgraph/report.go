package depgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codeloom/pkg/render"
)

// WriteJSON writes the graph as indented JSON.
func WriteJSON(g *Graph, w io.Writer) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("writejson: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	if err != nil {
		return fmt.Errorf("writejson: %w", err)
	}

	return nil
}

// WriteYAML writes the graph as YAML.
func WriteYAML(g *Graph, w io.Writer) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Errorf("writeyaml: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writeyaml: %w", err)
	}

	return nil
}

// WriteTable renders one row per node with a summary footer.
func WriteTable(g *Graph, w io.Writer) error {
	rows := make([][]string, 0, len(g.Nodes))

	for _, node := range g.Nodes {
		rows = append(rows, []string{
			node.ID,
			node.Metadata.Language,
			strconv.Itoa(node.Metadata.Lines),
			strconv.Itoa(len(node.Dependencies)),
			strconv.Itoa(len(node.Dependents)),
		})
	}

	footer := fmt.Sprintf("%s files, %s imports",
		humanize.Comma(int64(len(g.Nodes))),
		humanize.Comma(int64(len(g.Edges))))

	out := render.Table(
		[]string{"FILE", "LANGUAGE", "LINES", "DEPS", "DEPENDENTS"},
		rows,
		footer,
	)

	if cycle := FirstCycle(g); len(cycle) > 0 {
		out += "\nimport cycle: " + strings.Join(cycle, " -> ")
	}

	_, err := fmt.Fprintln(w, out)
	if err != nil {
		return fmt.Errorf("writetable: %w", err)
	}

	return nil
}

// WriteCompact writes one "source -> target" line per resolved import.
func WriteCompact(g *Graph, w io.Writer) error {
	var sb strings.Builder

	for _, edge := range g.Edges {
		sb.WriteString(edge.Source)
		sb.WriteString(" -> ")
		sb.WriteString(edge.Target)
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "%d files, %d imports\n", len(g.Nodes), len(g.Edges))

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("writecompact: %w", err)
	}

	return nil
}
