package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column for plain-text output.
type column struct {
	title string
	right bool
}

// formatTable lays out rows under the column titles, padding cells to the
// widest display width in each column.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, widths, header))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := widths[i] - runewidth.StringWidth(cell)
		switch {
		case pad <= 0:
			cells[i] = cell
		case col.right:
			cells[i] = strings.Repeat(" ", pad) + cell
		default:
			cells[i] = cell + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(cells, " ")
}
