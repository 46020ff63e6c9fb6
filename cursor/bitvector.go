package cursor

// BitVectorLen returns the byte count of a RowHeader bit vector covering
// columnCount columns: ceil(columnCount / 8).
func BitVectorLen(columnCount int) int {
	return (columnCount + 7) / 8
}

// BitVectorSet reports whether bit i (column i) is set in vec, meaning the
// column is re-sent for the current row rather than carried forward from
// the previous row.
func BitVectorSet(vec []byte, i int) bool {
	byteIdx, bitIdx := i/8, i%8
	if byteIdx >= len(vec) {
		return false
	}
	return vec[byteIdx]&(1<<bitIdx) != 0
}

// ApplyBitVector copies vec (subsequent packets may overwrite the input
// buffer) and returns it for later interpretation against RowData. A
// nil/empty vec means every column is resent.
func ApplyBitVector(vec []byte) []byte {
	if len(vec) == 0 {
		return nil
	}
	out := make([]byte, len(vec))
	copy(out, vec)
	return out
}

// MergeRow applies bit-vector column reuse: for each column not marked
// Changed (per BitVectorSet against vec), the previous row's cell is
// carried forward into current.
func MergeRow(vec []byte, previous, current Row) Row {
	if len(vec) == 0 {
		for i := range current.Cells {
			current.Cells[i].Changed = true
		}
		return current
	}
	merged := Row{Cells: make([]Cell, len(current.Cells))}
	for i := range current.Cells {
		if BitVectorSet(vec, i) || i >= len(previous.Cells) {
			merged.Cells[i] = current.Cells[i]
			merged.Cells[i].Changed = true
		} else {
			merged.Cells[i] = previous.Cells[i]
			merged.Cells[i].Changed = false
		}
	}
	return merged
}
