package cursor

// CellKind distinguishes how a row's column cell is represented on the
// wire.
type CellKind int

const (
	CellNull CellKind = iota
	CellInline
	CellChunked
	CellLOBLocator
)

// LOBLocator carries an out-of-band LOB reference: its declared size,
// chunk size, and the opaque locator bytes the server uses to address it
// in subsequent LOB read/write requests.
type LOBLocator struct {
	Size      uint64
	ChunkSize uint32
	Locator   []byte
}

// Cell is one column's value within a Row.
type Cell struct {
	Kind    CellKind
	Bytes   []byte      // valid for CellInline and CellChunked
	LOB     *LOBLocator // valid for CellLOBLocator
	Changed bool        // array-fetch bit-vector: resent vs. carried forward
}

// Row is one fetched row: a sequence of cells, one per described column.
type Row struct {
	Cells []Cell
}
