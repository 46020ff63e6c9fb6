package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/ora-ttc/cursor"
)

func TestUpdateRowMsgAppendsAndFollowsCursor(t *testing.T) {
	t.Parallel()
	m := New("select 1 from dual", sampleColumns(), nil)

	next, cmd := m.Update(rowMsg{Row: sampleRows()[0]})
	m = next.(Model)
	if len(m.fetched) != 1 {
		t.Fatalf("got %d fetched rows, want 1", len(m.fetched))
	}
	if m.cursor != 0 {
		t.Fatalf("got cursor %d, want 0", m.cursor)
	}
	if cmd == nil {
		t.Fatal("expected a command to keep receiving rows")
	}
}

func TestUpdateStreamDoneMsgMarksDone(t *testing.T) {
	t.Parallel()
	m := New("select 1 from dual", sampleColumns(), nil)
	next, _ := m.Update(streamDoneMsg{})
	m = next.(Model)
	if !m.done {
		t.Fatal("expected done to be true after streamDoneMsg")
	}
}

func TestNavigateClampsToFetchedBounds(t *testing.T) {
	t.Parallel()
	m := New("select 1 from dual", sampleColumns(), nil)
	m.fetched = sampleRows()
	m.cursor = 0

	m = m.navigate(-5)
	if m.cursor != 0 {
		t.Fatalf("got cursor %d, want clamped to 0", m.cursor)
	}

	m = m.navigate(5)
	if m.cursor != len(m.fetched)-1 {
		t.Fatalf("got cursor %d, want clamped to %d", m.cursor, len(m.fetched)-1)
	}
}

func TestJumpToNextMatchFindsContainingRow(t *testing.T) {
	t.Parallel()
	m := New("select 1 from dual", sampleColumns(), nil)
	m.fetched = sampleRows()
	m.cursor = 0
	m.searchQuery = "Ada"

	m = m.jumpToNextMatch()
	if m.cursor != 0 {
		t.Fatalf("got cursor %d, want 0 (only row containing 'Ada')", m.cursor)
	}
}

func TestUpdateKeyQuitReturnsQuitCommand(t *testing.T) {
	t.Parallel()
	m := New("select 1 from dual", sampleColumns(), nil)
	_, cmd := m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a non-nil command for 'q'")
	}
}

func TestRowContainsIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	row := cursor.Row{Cells: []cursor.Cell{{Kind: cursor.CellInline, Bytes: []byte("Hello")}}}
	if !rowContains(row, "hello") {
		t.Fatal("expected case-insensitive match")
	}
	if rowContains(row, "goodbye") {
		t.Fatal("expected no match")
	}
}
