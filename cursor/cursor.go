// Package cursor models server-side cursor state: the assigned cursor id,
// column descriptors, buffered rows, bit-vector column-reuse tracking
// across an array fetch, and the cleanup queue that reclaims cursors and
// temporary LOB locators the client drops early.
package cursor

import "github.com/mickamy/ora-ttc/stmt"

// ColumnDescriptor is one column's metadata, as produced by a DescribeInfo
// message.
type ColumnDescriptor struct {
	Type          stmt.DataType
	Precision     int8
	Scale         int8
	BufferSize    uint32
	MaxArrayElems uint32
	ContentFlags  uint64
	OID           []byte
	Version       uint16
	CharsetID     uint16
	CSForm        uint8
	ColumnSize    uint32
	OACColID      uint32
	NullsAllowed  bool
	Name          string
	Schema        string
	TypeName      string
	Position      int
}

// Cursor tracks server-assigned execution state for one statement.
type Cursor struct {
	ID            uint16
	Kind          stmt.Kind
	FetchArray    uint32 // array fetch size for subsequent fetches
	Prefetch      uint32 // rows returned with the initial response
	Columns       []ColumnDescriptor
	rows          []Row
	nextRow       int
	MoreRows      bool
	lastBitVector []byte
}

// NewCursor creates a Cursor for a freshly assigned server cursor id.
func NewCursor(id uint16, kind stmt.Kind, prefetch, fetchArray uint32) *Cursor {
	return &Cursor{ID: id, Kind: kind, Prefetch: prefetch, FetchArray: fetchArray}
}

// SetColumns installs column metadata from a DescribeInfo response,
// replacing any prior definitions (a requery may redefine columns).
func (c *Cursor) SetColumns(cols []ColumnDescriptor) {
	c.Columns = cols
}

// Buffer appends freshly fetched rows and resets the read cursor to the
// start of the newly buffered batch only if it had been fully drained.
func (c *Cursor) Buffer(rows []Row) {
	if c.nextRow >= len(c.rows) {
		c.rows = nil
		c.nextRow = 0
	}
	c.rows = append(c.rows, rows...)
}

// Next returns the next buffered row and advances the read position, or
// false if the buffer is exhausted (the caller should fetch more if
// MoreRows is true).
func (c *Cursor) Next() (Row, bool) {
	if c.nextRow >= len(c.rows) {
		return Row{}, false
	}
	r := c.rows[c.nextRow]
	c.nextRow++
	return r, true
}

// Pending returns the count of buffered, not-yet-consumed rows.
func (c *Cursor) Pending() int {
	return len(c.rows) - c.nextRow
}
