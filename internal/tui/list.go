package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mickamy/ora-ttc/cursor"
)

// minColWidth and maxColWidth bound a single column's rendered width,
// keeping wide VARCHAR2/CLOB columns from dominating the table and narrow
// NUMBER columns from collapsing to nothing.
const (
	minColWidth = 6
	maxColWidth = 32
	colMarker   = 2 // "▶ " or "  "
)

func cellString(c cursor.Cell) string {
	switch c.Kind {
	case cursor.CellNull:
		return "NULL"
	case cursor.CellLOBLocator:
		if c.LOB == nil {
			return "<LOB>"
		}
		return fmt.Sprintf("<LOB %d bytes>", c.LOB.Size)
	case cursor.CellInline, cursor.CellChunked:
		return string(c.Bytes)
	default:
		return ""
	}
}

// columnWidths derives a display width per column from its name and the
// values fetched so far, clamped to [minColWidth, maxColWidth].
func columnWidths(columns []cursor.ColumnDescriptor, rows []cursor.Row) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(minColWidth, lipgloss.Width(col.Name))
	}
	for _, row := range rows {
		for i := range row.Cells {
			if i >= len(widths) {
				break
			}
			if w := lipgloss.Width(cellString(row.Cells[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColWidth)
	}
	return widths
}

func (m Model) renderTable(maxRows int) string {
	innerWidth := max(m.width-4, 20)
	widths := columnWidths(m.columns, m.fetched)

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", colMarker))
	for i, col := range m.columns {
		if i > 0 {
			header.WriteString(" ")
		}
		header.WriteString(padRight(truncate(col.Name, widths[i]), widths[i]))
	}

	dataRows := max(maxRows-1, 1) // -1 for header row
	start := 0
	if len(m.fetched) > dataRows {
		start = max(m.cursor-dataRows/2, 0)
		if start+dataRows > len(m.fetched) {
			start = len(m.fetched) - dataRows
		}
	}
	end := min(start+dataRows, len(m.fetched))

	var rows []string
	rows = append(rows, lipgloss.NewStyle().Bold(true).Render(header.String()))
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(i, widths))
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(innerWidth).
		BorderForeground(lipgloss.Color("240"))

	content := strings.Join(rows, "\n")
	box := border.Render(content)

	title := m.title()
	lines := strings.Split(box, "\n")
	if len(lines) > 0 {
		borderFg := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		titleStyle := lipgloss.NewStyle().Bold(true)
		dashes := max(innerWidth-len([]rune(title)), 0)
		lines[0] = borderFg.Render("╭") +
			titleStyle.Render(title) +
			borderFg.Render(strings.Repeat("─", dashes)+"╮")
		box = strings.Join(lines, "\n")
	}
	return box
}

func (m Model) title() string {
	status := strconv.Itoa(len(m.fetched)) + " rows"
	if !m.done {
		status += ", fetching"
	}
	return fmt.Sprintf(" %s (%s) ", m.label, status)
}

func (m Model) renderRow(idx int, widths []int) string {
	row := m.fetched[idx]
	marker := "  "
	if idx == m.cursor {
		marker = "▶ "
	}

	var sb strings.Builder
	sb.WriteString(marker)
	for i := range m.columns {
		if i > 0 {
			sb.WriteString(" ")
		}
		var text string
		if i < len(row.Cells) {
			text = cellString(row.Cells[i])
		}
		cell := padRight(truncate(text, widths[i]), widths[i])
		if i < len(row.Cells) && row.Cells[i].Kind == cursor.CellNull {
			cell = lipgloss.NewStyle().Faint(true).Render(cell)
		}
		sb.WriteString(cell)
	}

	line := sb.String()
	if idx == m.cursor {
		line = lipgloss.NewStyle().Bold(true).Render(line)
	}
	return line
}

// renderDetail shows the full, untruncated value of every cell in the
// currently selected row.
func (m Model) renderDetail() string {
	innerWidth := max(m.width-4, 20)
	if m.cursor < 0 || m.cursor >= len(m.fetched) {
		return ""
	}
	row := m.fetched[m.cursor]

	nameWidth := 0
	for _, col := range m.columns {
		nameWidth = max(nameWidth, lipgloss.Width(col.Name))
	}

	var lines []string
	for i, col := range m.columns {
		var text string
		if i < len(row.Cells) {
			text = cellString(row.Cells[i])
		}
		lines = append(lines, padRight(col.Name, nameWidth)+"  "+text)
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(innerWidth).
		BorderForeground(lipgloss.Color("240"))
	return border.Render(strings.Join(lines, "\n"))
}
