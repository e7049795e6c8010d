package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders header and rows as a light-styled text table without
// borders, capped at the detected terminal width. A non-empty footer
// is appended as a single summary cell.
func Table(header []string, rows [][]string, footer string) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetAllowedRowLength(NewConfig().Width)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	head := make(table.Row, len(header))
	for i, col := range header {
		head[i] = col
	}

	tbl.AppendHeader(head)

	for _, cells := range rows {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}

		tbl.AppendRow(row)
	}

	if footer != "" {
		tbl.AppendFooter(table.Row{footer})
	}

	return tbl.Render()
}
