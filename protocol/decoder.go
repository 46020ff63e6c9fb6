package protocol

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/stmt"
	"github.com/mickamy/ora-ttc/tnsproto"
	"github.com/mickamy/ora-ttc/wire"
)

// EventKind tags the decoded shape returned by ResponseDecoder.Decode.
type EventKind uint8

const (
	EventDescribeInfo EventKind = iota
	EventRowHeader
	EventRowData
	EventBitVector
	EventIOVector
	EventFlushOutBinds
	EventError
	EventWarning
	EventImplicitResultset
	EventPiggyback
	EventStatus
)

// Event is one decoded TTC message, tagged by Kind with only the matching
// field populated.
type Event struct {
	Kind EventKind

	Columns          []cursor.ColumnDescriptor // EventDescribeInfo
	ColumnCount      int                       // EventRowHeader
	Row              cursor.Row                // EventRowData
	BitVector        []byte                    // EventBitVector, EventIOVector
	OracleErr        *OracleError              // EventError, EventWarning
	ImplicitCursorID uint16                    // EventImplicitResultset
	Piggyback        Piggyback                 // EventPiggyback
	CallStatus       uint32                    // EventStatus
	EndToEndSeqNum   uint32                    // EventStatus
	StatusTrailing   []byte                    // EventStatus, unconsumed trailer after known fields
}

// ResponseDecoder turns a sequence of logical TTC message bytes into typed
// Events. It is stateless across calls except for the charset decoder,
// which is fixed for the lifetime of a negotiated connection.
type ResponseDecoder struct {
	caps        tnsproto.Capabilities
	textDecoder *encoding.Decoder
}

// NewResponseDecoder builds a decoder bound to a connection's negotiated
// capabilities. When caps.CharacterConversion is set, non-UTF8 column text
// is transcoded through a single-byte charmap codec; ImplicitUTF8CharsetID
// and other UTF8-compatible charset ids need no conversion.
func NewResponseDecoder(caps tnsproto.Capabilities) *ResponseDecoder {
	d := &ResponseDecoder{caps: caps}
	if caps.CharacterConversion && caps.CharsetID != tnsproto.ImplicitUTF8CharsetID {
		if cm := charmapForCharsetID(caps.CharsetID); cm != nil {
			d.textDecoder = cm.NewDecoder()
		}
	}
	return d
}

// charmapForCharsetID maps a subset of Oracle charset ids to their
// single-byte encoding/charmap equivalent. Charsets outside this table pass
// through unconverted rather than failing the fetch.
func charmapForCharsetID(id uint16) *charmap.Charmap {
	switch id {
	case 1: // US7ASCII
		return charmap.ISO8859_1
	case 31: // WE8ISO8859P1 (exact alias)
		return charmap.ISO8859_1
	case 46: // WE8ISO8859P15
		return charmap.ISO8859_15
	default:
		return nil
	}
}

// decodeText applies the negotiated charset conversion to a raw column
// text cell, returning the original bytes unchanged if no conversion is
// configured or the column is not textual.
func (d *ResponseDecoder) decodeText(raw []byte) []byte {
	if d.textDecoder == nil || raw == nil {
		return raw
	}
	out, err := d.textDecoder.Bytes(raw)
	if err != nil {
		return raw
	}
	return out
}

// Decode consumes one logical TTC message starting at offset in data and
// returns the decoded Event along with the number of bytes consumed.
func (d *ResponseDecoder) Decode(data []byte, offset int) (Event, int, error) {
	if offset >= len(data) {
		return Event{}, 0, fmt.Errorf("protocol: decode: need more data")
	}
	id := MessageID(data[offset])
	pos := offset + 1

	switch id {
	case MessageDescribeInfo:
		return d.decodeDescribeInfo(data, offset, pos)
	case MessageRowHeader:
		return d.decodeRowHeader(data, offset, pos)
	case MessageRowData:
		return d.decodeRowData(data, offset, pos)
	case MessageBitVector:
		return d.decodeBitVector(data, offset, pos, EventBitVector)
	case MessageIOVector:
		return d.decodeBitVector(data, offset, pos, EventIOVector)
	case MessageFlushOutBinds:
		return Event{Kind: EventFlushOutBinds}, pos - offset, nil
	case MessageError, MessageWarning:
		return d.decodeError(data, offset, pos, id)
	case MessageImplicitResultset:
		return d.decodeImplicitResultset(data, offset, pos)
	case MessageServerSidePiggyback:
		pb, n, err := decodePiggyback(data, pos)
		if err != nil {
			return Event{}, 0, err
		}
		return Event{Kind: EventPiggyback, Piggyback: pb}, (pos - offset) + n, nil
	case MessageStatus:
		return d.decodeStatus(data, offset, pos)
	default:
		return Event{}, 0, fmt.Errorf("protocol: unknown message id 0x%02x", byte(id))
	}
}

func (d *ResponseDecoder) decodeDescribeInfo(data []byte, start, pos int) (Event, int, error) {
	count, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: describeInfo column count: %w", err)
	}
	pos += n

	cols := make([]cursor.ColumnDescriptor, 0, count)
	for i := 0; i < int(count); i++ {
		col, n, err := decodeColumnDescriptor(data, pos, i)
		if err != nil {
			return Event{}, 0, fmt.Errorf("protocol: describeInfo column %d: %w", i, err)
		}
		pos += n
		cols = append(cols, col)
	}
	return Event{Kind: EventDescribeInfo, Columns: cols}, pos - start, nil
}

func decodeColumnDescriptor(data []byte, pos, position int) (cursor.ColumnDescriptor, int, error) {
	start := pos
	if pos >= len(data) {
		return cursor.ColumnDescriptor{}, 0, wire.ErrNeedMoreData
	}
	typ := stmt.DataType(data[pos])
	pos++

	precision, n, err := wire.ReadSB(data, pos)
	if err != nil {
		return cursor.ColumnDescriptor{}, 0, err
	}
	pos += n

	scale, n, err := wire.ReadSB(data, pos)
	if err != nil {
		return cursor.ColumnDescriptor{}, 0, err
	}
	pos += n

	bufferSize, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return cursor.ColumnDescriptor{}, 0, err
	}
	pos += n

	nameBytes, _, n, err := wire.ReadChunked(data, pos)
	if err != nil {
		return cursor.ColumnDescriptor{}, 0, err
	}
	pos += n

	charsetID, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return cursor.ColumnDescriptor{}, 0, err
	}
	pos += n

	if pos >= len(data) {
		return cursor.ColumnDescriptor{}, 0, wire.ErrNeedMoreData
	}
	flags := data[pos]
	pos++
	nullsAllowed := flags&0x01 != 0

	col := cursor.ColumnDescriptor{
		Type:         typ,
		Precision:    int8(precision), //nolint:gosec // TNS precision fits a signed byte
		Scale:        int8(scale),     //nolint:gosec // TNS scale fits a signed byte
		BufferSize:   uint32(bufferSize),
		CharsetID:    uint16(charsetID),
		NullsAllowed: nullsAllowed,
		Name:         string(nameBytes),
		Position:     position,
	}
	return col, pos - start, nil
}

func (d *ResponseDecoder) decodeRowHeader(data []byte, start, pos int) (Event, int, error) {
	count, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: rowHeader column count: %w", err)
	}
	pos += n
	return Event{Kind: EventRowHeader, ColumnCount: int(count)}, pos - start, nil
}

// decodeRowData consumes only the RowData message id byte. The cells are
// read by DecodeRow, which takes the column count from the caller because
// RowData itself carries no count of its own.
func (d *ResponseDecoder) decodeRowData(data []byte, start, pos int) (Event, int, error) {
	// The column count isn't self-describing at this layer: callers invoke
	// DecodeRow directly once they know it from the active cursor.
	return Event{Kind: EventRowData}, pos - start, nil
}

// DecodeRow decodes columnCount cells of RowData payload starting at
// offset, applying charset conversion to textual cells.
func (d *ResponseDecoder) DecodeRow(data []byte, offset int, columnCount int, columnTypes []stmt.DataType) (cursor.Row, int, error) {
	start := offset
	cells := make([]cursor.Cell, 0, columnCount)
	for i := 0; i < columnCount; i++ {
		raw, isNull, n, err := wire.ReadChunked(data, offset)
		if err != nil {
			return cursor.Row{}, 0, fmt.Errorf("protocol: row cell %d: %w", i, err)
		}
		offset += n

		cell := cursor.Cell{Kind: cursor.CellInline, Changed: true}
		if isNull {
			cell.Kind = cursor.CellNull
		} else {
			if i < len(columnTypes) && isTextType(columnTypes[i]) {
				raw = d.decodeText(raw)
			}
			cell.Bytes = raw
		}
		cells = append(cells, cell)
	}
	return cursor.Row{Cells: cells}, offset - start, nil
}

// isTextType reports whether t is one of the character-family wire types
// that charset conversion applies to (VARCHAR2, CHAR, LONG).
func isTextType(t stmt.DataType) bool {
	switch t {
	case stmt.DataTypeVarchar2, stmt.DataTypeChar, stmt.DataTypeLong:
		return true
	default:
		return false
	}
}

func (d *ResponseDecoder) decodeBitVector(data []byte, start, pos int, kind EventKind) (Event, int, error) {
	raw, _, n, err := wire.ReadChunked(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: bit vector: %w", err)
	}
	pos += n
	return Event{Kind: kind, BitVector: cursor.ApplyBitVector(raw)}, pos - start, nil
}

func (d *ResponseDecoder) decodeError(data []byte, start, pos int, id MessageID) (Event, int, error) {
	code, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: error code: %w", err)
	}
	pos += n

	rowCount, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: error row count: %w", err)
	}
	pos += n

	msgBytes, _, n, err := wire.ReadChunked(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: error message: %w", err)
	}
	pos += n

	oraErr := &OracleError{
		Number:   int(code), //nolint:gosec // ORA codes fit an int
		Message:  string(d.decodeText(msgBytes)),
		RowCount: int64(rowCount), //nolint:gosec // row counts fit int64 in practice
	}
	kind := EventError
	if id == MessageWarning {
		kind = EventWarning
	}
	return Event{Kind: kind, OracleErr: oraErr}, pos - start, nil
}

func (d *ResponseDecoder) decodeImplicitResultset(data []byte, start, pos int) (Event, int, error) {
	cursorID, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: implicit resultset cursor id: %w", err)
	}
	pos += n
	return Event{Kind: EventImplicitResultset, ImplicitCursorID: uint16(cursorID)}, pos - start, nil //nolint:gosec // cursor ids are 16-bit on the wire
}

// decodeStatus decodes the terminal Status message: call status followed by
// the end-to-end sequence number. The server may append fields this client
// doesn't know about; any bytes remaining after these two are returned
// rather than treated as an error.
func (d *ResponseDecoder) decodeStatus(data []byte, start, pos int) (Event, int, error) {
	callStatus, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: status: call status: %w", err)
	}
	pos += n

	endToEndSeqNum, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Event{}, 0, fmt.Errorf("protocol: status: end-to-end seq num: %w", err)
	}
	pos += n

	return Event{
		Kind:           EventStatus,
		CallStatus:     uint32(callStatus),     //nolint:gosec // call status fits uint32
		EndToEndSeqNum: uint32(endToEndSeqNum), //nolint:gosec // sequence number fits uint32
		StatusTrailing: data[pos:],
	}, len(data) - start, nil
}
