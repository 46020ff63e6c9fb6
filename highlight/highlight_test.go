package highlight

import "testing"

func TestSQLReturnsEmptyUnchanged(t *testing.T) {
	t.Parallel()
	if got := SQL(""); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestSQLHighlightsNonEmptyInput(t *testing.T) {
	t.Parallel()
	got := SQL("SELECT * FROM dual")
	if got == "" {
		t.Fatal("expected non-empty output")
	}
}
