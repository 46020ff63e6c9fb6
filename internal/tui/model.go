// Package tui implements a terminal row browser for rows fetched over an
// Oracle TNS/TTC connection: a scrollable table driven by a live cursor.Row
// stream, plus a detail view and JSON/CSV export of whatever has been
// fetched so far.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/highlight"
)

// rowMsg carries one row received from the fetch stream.
type rowMsg struct{ Row cursor.Row }

// streamDoneMsg is sent once the row channel closes.
type streamDoneMsg struct{}

// errMsg carries a fetch error.
type errMsg struct{ Err error }

// exportResultMsg carries the outcome of a w/W export key press.
type exportResultMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the row browser.
type Model struct {
	label string // the statement's text, shown (highlighted) in the header
	rows  <-chan cursor.Row

	columns []cursor.ColumnDescriptor
	fetched []cursor.Row
	cursor  int
	follow  bool
	done    bool
	err     error

	width, height int
	detail        bool

	searchMode   bool
	searchQuery  string
	searchCursor int

	exportDir string
	status    string
}

// New creates a Model that browses rows arriving on rows, with columns
// describing the shape of each row. label is typically the statement text
// that produced the stream, shown (syntax highlighted) above the table.
func New(label string, columns []cursor.ColumnDescriptor, rows <-chan cursor.Row) Model {
	return Model{
		label:   label,
		columns: columns,
		rows:    rows,
		follow:  true,
	}
}

// WithExportDir sets the directory export files are written to.
func (m Model) WithExportDir(dir string) Model {
	m.exportDir = dir
	return m
}

func (m Model) Init() tea.Cmd {
	return recvRow(m.rows)
}

func recvRow(rows <-chan cursor.Row) tea.Cmd {
	return func() tea.Msg {
		row, ok := <-rows
		if !ok {
			return streamDoneMsg{}
		}
		return rowMsg{Row: row}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowMsg:
		m.fetched = append(m.fetched, msg.Row)
		if m.follow {
			m.cursor = len(m.fetched) - 1
		}
		return m, recvRow(m.rows)

	case streamDoneMsg:
		m.done = true
		return m, nil

	case errMsg:
		m.err = msg.Err
		m.done = true
		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.detail = !m.detail
		return m, nil
	case "j", "down":
		return m.navigate(1), nil
	case "k", "up":
		return m.navigate(-1), nil
	case "ctrl+d", "pgdown":
		return m.navigate(m.pageSize()), nil
	case "ctrl+u", "pgup":
		return m.navigate(-m.pageSize()), nil
	case "g", "home":
		m.follow = false
		m.cursor = 0
		return m, nil
	case "G", "end":
		m.follow = true
		m.cursor = max(len(m.fetched)-1, 0)
		return m, nil
	case "/":
		m.searchMode = true
		m.searchQuery = ""
		m.searchCursor = 0
		return m, nil
	case "esc":
		m.searchQuery = ""
		return m, nil
	case "w", "W":
		format := exportJSON
		if msg.String() == "W" {
			format = exportCSV
		}
		rows := append([]cursor.Row(nil), m.fetched...)
		columns := m.columns
		dir := m.exportDir
		return m, func() tea.Msg {
			path, err := writeExport(columns, rows, format, dir)
			return exportResultMsg{path: path, err: err}
		}
	}
	return m, nil
}

func (m Model) navigate(delta int) Model {
	if len(m.fetched) == 0 {
		return m
	}
	m.follow = false
	m.cursor = max(0, min(len(m.fetched)-1, m.cursor+delta))
	return m
}

func (m Model) pageSize() int {
	h := m.listHeight()
	if h <= 0 {
		return 10
	}
	return h
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m = m.jumpToNextMatch()
		return m, nil
	case "esc":
		m.searchMode = false
		m.searchQuery = ""
		return m, nil
	case "backspace":
		if m.searchCursor > 0 {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:m.searchCursor-1]) + string(runes[m.searchCursor:])
			m.searchCursor--
		}
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "left":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case "right":
		if m.searchCursor < len([]rune(m.searchQuery)) {
			m.searchCursor++
		}
		return m, nil
	}

	r := msg.Runes
	if len(r) == 0 {
		return m, nil
	}
	runes := []rune(m.searchQuery)
	m.searchQuery = string(runes[:m.searchCursor]) + string(r) + string(runes[m.searchCursor:])
	m.searchCursor += len(r)
	return m, nil
}

// jumpToNextMatch moves the cursor to the next fetched row (after the
// current one, wrapping) containing the search query in any cell.
func (m Model) jumpToNextMatch() Model {
	if m.searchQuery == "" || len(m.fetched) == 0 {
		return m
	}
	needle := strings.ToLower(m.searchQuery)
	n := len(m.fetched)
	for i := 1; i <= n; i++ {
		idx := (m.cursor + i) % n
		if rowContains(m.fetched[idx], needle) {
			m.follow = false
			m.cursor = idx
			return m
		}
	}
	return m
}

func rowContains(row cursor.Row, needleLower string) bool {
	for _, c := range row.Cells {
		if strings.Contains(strings.ToLower(cellString(c)), needleLower) {
			return true
		}
	}
	return false
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.err != nil {
		return friendlyError(m.err, m.width)
	}
	if len(m.fetched) == 0 && m.done {
		return "Query returned no rows."
	}

	header := highlight.SQL(truncate(m.label, max(m.width-2, 10)))

	var body string
	if m.detail {
		body = m.renderDetail()
	} else {
		body = m.renderTable(m.listHeight())
	}

	footer := m.footer()

	return strings.Join([]string{header, body, footer}, "\n")
}

func (m Model) footer() string {
	if m.searchMode {
		return "  / " + renderInputWithCursor(m.searchQuery, m.searchCursor)
	}
	items := "q: quit  j/k: navigate  g/G: top/bottom  enter: detail  /: search  w: export json  W: export csv"
	if m.status != "" {
		items += "  [" + m.status + "]"
	}
	if !m.done {
		items += "  [fetching...]"
	}
	return "  " + items
}

func (m Model) listHeight() int {
	// 4 = header line (1) + border top/bottom (2) + footer (1).
	return max(m.height-4, 3)
}
