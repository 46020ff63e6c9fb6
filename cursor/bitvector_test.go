package cursor

import "testing"

func TestBitVectorLenRoundsUp(t *testing.T) {
	t.Parallel()
	for cols, want := range map[int]int{0: 0, 1: 1, 8: 1, 9: 2, 16: 2, 17: 3} {
		if got := BitVectorLen(cols); got != want {
			t.Errorf("BitVectorLen(%d) = %d, want %d", cols, got, want)
		}
	}
}

func TestBitVectorSet(t *testing.T) {
	t.Parallel()
	vec := []byte{0b00000101} // columns 0 and 2 set
	if !BitVectorSet(vec, 0) {
		t.Error("expected column 0 set")
	}
	if BitVectorSet(vec, 1) {
		t.Error("did not expect column 1 set")
	}
	if !BitVectorSet(vec, 2) {
		t.Error("expected column 2 set")
	}
	if BitVectorSet(vec, 100) {
		t.Error("out-of-range column must read as unset")
	}
}

func TestMergeRowNoVectorMarksAllChanged(t *testing.T) {
	t.Parallel()
	prev := Row{Cells: []Cell{{Bytes: []byte("old")}}}
	cur := Row{Cells: []Cell{{Bytes: []byte("new")}}}
	merged := MergeRow(nil, prev, cur)
	if !merged.Cells[0].Changed || string(merged.Cells[0].Bytes) != "new" {
		t.Fatalf("got %+v", merged.Cells[0])
	}
}

func TestMergeRowCarriesForwardUnsetColumns(t *testing.T) {
	t.Parallel()
	prev := Row{Cells: []Cell{{Bytes: []byte("old0")}, {Bytes: []byte("old1")}}}
	cur := Row{Cells: []Cell{{Bytes: []byte("new0")}, {}}}
	vec := []byte{0b00000001} // only column 0 resent

	merged := MergeRow(vec, prev, cur)
	if string(merged.Cells[0].Bytes) != "new0" || !merged.Cells[0].Changed {
		t.Fatalf("got column 0: %+v", merged.Cells[0])
	}
	if string(merged.Cells[1].Bytes) != "old1" || merged.Cells[1].Changed {
		t.Fatalf("got column 1: %+v", merged.Cells[1])
	}
}
