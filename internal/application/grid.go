package application

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	gridChrome    = 6 // help line, header, status and edit lines
)

// grid is the spreadsheet view of the subset. Column 0 is frozen; the rest
// scroll horizontally in a window of `visible` columns.
type grid struct {
	columns []string
	row     int
	col     int
	visible int
}

func newGrid(columns []string, visible int) *grid {
	if visible < 1 {
		visible = 1
	}
	return &grid{columns: columns, visible: visible}
}

// move shifts the cursor, clamped to rows × columns.
func (g *grid) move(dRow, dCol, rows int) {
	g.row = clamp(g.row+dRow, 0, rows-1)
	g.col = clamp(g.col+dCol, 0, len(g.columns)-1)
}

// clampTo keeps the cursor inside a table that may have shrunk.
func (g *grid) clampTo(rows int) {
	g.move(0, 0, rows)
}

// column returns the name of the selected column.
func (g *grid) column() string {
	if len(g.columns) == 0 {
		return ""
	}
	return g.columns[g.col]
}

// window returns the column positions on screen: the frozen column followed
// by the scroll window centered on the cursor where possible.
func (g *grid) window() []int {
	n := len(g.columns)
	if n == 0 {
		return nil
	}
	slots := g.visible
	start := min(max(1, g.col-slots/2), max(1, n-slots))
	end := min(n, start+slots)

	cols := []int{0}
	for c := start; c < end; c++ {
		cols = append(cols, c)
	}
	return cols
}

// rowWindow returns the [start, end) rows shown for a viewport height.
func (g *grid) rowWindow(rows, height int) (int, int) {
	visible := max(1, height-gridChrome)
	start := max(0, g.row-visible/2)
	end := min(rows, start+visible)
	return start, end
}

func (g *grid) view(items []core.Item, width, height int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	cols := g.window()
	colW := max(12, width/max(1, len(cols)))

	var b strings.Builder
	b.WriteString(helpStyle.Render("[←↑→↓ navigate] [Enter edit] [F2/s save] [Esc back]"))
	b.WriteString("\n")

	var header []string
	for _, c := range cols {
		header = append(header, gridHeaderStyle.Width(colW).Render(truncate(g.columns[c], colW-1)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	start, end := g.rowWindow(len(items), height)
	for r := start; r < end; r++ {
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			style := gridCellStyle
			switch {
			case r == g.row && c == g.col:
				style = gridCursorStyle
			case r == g.row:
				style = gridRowStyle
			}
			text := truncate(items[r].Field(g.columns[c]), colW-1)
			cells = append(cells, style.Width(colW).Render(text))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	if len(items) == 0 {
		b.WriteString(helpStyle.Render("No rows match the current filters."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Row %d/%d, Col %d/%d (%s)",
		g.row+1, len(items), g.col+1, len(g.columns), g.column()))
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 4 {
		return string(r[:max(0, width)])
	}
	return string(r[:width-3]) + "..."
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
