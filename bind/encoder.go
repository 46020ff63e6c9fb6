// Package bind implements the wire encoding of bind values: the
// short/long buffer split, array encoding, named-type null prefixes, and
// identity-bound OracleRef reuse.
package bind

import (
	"github.com/mickamy/ora-ttc/stmt"
	"github.com/mickamy/ora-ttc/wire"
)

// LongLengthThreshold is the encoded-value size at or above which a value
// is written to the long buffer instead of inline with the short binds of
// its iteration.
const LongLengthThreshold = 250

// objTopLevelFlag marks a named-type null prefix as the top-level object in
// its bind (as opposed to a nested attribute), per TNS_OBJ_TOP_LEVEL.
const objTopLevelFlag = 0x01

// booleanNullEscape is the sentinel byte preceding 0x01 that encodes a null
// boolean bind, distinct from the plain zero-length-byte null encoding
// every other type uses.
const booleanNullEscape = 0xFF

// Value is one bind position's encoded payload for a single execution
// iteration. Encoded is nil (and Null is true) for a null value.
type Value struct {
	Null    bool
	Encoded []byte
}

// Encoder accumulates bind metadata and per-iteration values across a
// batch, splitting each iteration's wire bytes into a short buffer and a
// long buffer per LongLengthThreshold, and tracks OracleRef identity so a
// bind used both as input and output occupies a single position.
type Encoder struct {
	bindings []stmt.Binding
	refs     map[uint64]int // OracleRef identity -> index into bindings
	nextRef  uint64
}

// NewEncoder creates an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{refs: make(map[uint64]int)}
}

// Bindings returns the accumulated bind metadata, in position order.
func (e *Encoder) Bindings() []stmt.Binding {
	return e.bindings
}

// Position returns the bind index for name, allocating metadata for it if
// this is the first time name (or ref, when non-nil) has been seen. A
// reused ref always returns its original index regardless of name.
func (e *Encoder) Position(name string, ref *Ref, md stmt.Metadata) int {
	if ref != nil {
		if idx, ok := e.refs[ref.id]; ok {
			e.bindings[idx].Metadata.GrowTo(md)
			return idx
		}
	}

	idx := len(e.bindings)
	e.bindings = append(e.bindings, stmt.Binding{Name: name, Metadata: md})
	if ref != nil {
		e.refs[ref.id] = idx
		e.bindings[idx].RefID = ref.id
	}
	return idx
}

// Row encodes one iteration's values into short and long wire buffers.
// values must align with the positions returned from prior Position calls:
// values[i] encodes into the bind at index i.
func (e *Encoder) Row(values []Value) (short, long []byte) {
	for _, v := range values {
		enc := encodeValue(v)
		if len(enc) >= LongLengthThreshold {
			long = append(long, enc...)
		} else {
			short = append(short, enc...)
		}
	}
	return short, long
}

// encodeValue renders one value: a null is a single zero length byte, any
// other value is its Encoded bytes written as a chunked string. Boolean
// nulls, arrays and named-type prefixes are not produced here; see
// EncodeBooleanNull, EncodeArray and EncodeNamedTypeNullPrefix.
func encodeValue(v Value) []byte {
	if v.Null {
		return []byte{0}
	}
	return wire.PutChunked(nil, v.Encoded, 0xFFFF)
}

// EncodeBooleanNull returns the wire bytes for a null BOOLEAN bind: the
// escape byte followed by 0x01, distinct from every other type's
// single-zero-byte null encoding.
func EncodeBooleanNull() []byte {
	return []byte{booleanNullEscape, 0x01}
}

// EncodeArray encodes a sequence of already-encoded element buffers as a
// UB4 element-count prefix followed by each element in order.
func EncodeArray(elements [][]byte) []byte {
	out := wire.PutUB(nil, uint64(len(elements)), wire.MaxUB4Len)
	for _, el := range elements {
		out = append(out, el...)
	}
	return out
}

// EncodeNamedTypeNullPrefix returns the fixed 24-byte null prefix written
// for a named-type (object) bind: TOID/OID/snapshot/version/packed-length
// all zero, with the TNS_OBJ_TOP_LEVEL flag set in the flag byte.
func EncodeNamedTypeNullPrefix() []byte {
	prefix := make([]byte, 24)
	prefix[0] = objTopLevelFlag
	return prefix
}
