package cursor

import (
	"testing"

	"github.com/mickamy/ora-ttc/stmt"
)

func TestCursorBufferAndNext(t *testing.T) {
	t.Parallel()
	c := NewCursor(7, stmt.KindQuery, 2, 50)
	c.Buffer([]Row{{Cells: []Cell{{Kind: CellInline, Bytes: []byte("a")}}}})

	row, ok := c.Next()
	if !ok {
		t.Fatal("expected a row")
	}
	if string(row.Cells[0].Bytes) != "a" {
		t.Fatalf("got %q", row.Cells[0].Bytes)
	}
	if _, ok := c.Next(); ok {
		t.Fatal("expected buffer exhausted")
	}
}

func TestCursorBufferResetsAfterDrain(t *testing.T) {
	t.Parallel()
	c := NewCursor(1, stmt.KindQuery, 2, 50)
	c.Buffer([]Row{{}, {}})
	c.Next()
	c.Next()
	if c.Pending() != 0 {
		t.Fatalf("got pending %d, want 0", c.Pending())
	}
	c.Buffer([]Row{{}})
	if c.Pending() != 1 {
		t.Fatalf("got pending %d, want 1", c.Pending())
	}
}

func TestCursorSetColumnsReplaces(t *testing.T) {
	t.Parallel()
	c := NewCursor(1, stmt.KindQuery, 2, 50)
	c.SetColumns([]ColumnDescriptor{{Name: "a"}})
	c.SetColumns([]ColumnDescriptor{{Name: "b"}, {Name: "c"}})
	if len(c.Columns) != 2 || c.Columns[0].Name != "b" {
		t.Fatalf("got %+v", c.Columns)
	}
}
