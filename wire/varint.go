package wire

import (
	"encoding/binary"
	"fmt"
)

// ErrNeedMoreData signals that a decode call needs more bytes than are
// currently available; callers must buffer more input and retry.
var ErrNeedMoreData = fmt.Errorf("wire: need more data")

// PutUB encodes an unsigned integer as a TNS variable-length integer: a
// length-prefix byte (the number of following big-endian bytes, one of
// 0,1,2,3,4,8) followed by that many bytes. maxLen bounds the number of
// bytes written (2 for UB2, 4 for UB4, 8 for UB8); a zero value is encoded
// as a single zero-length byte.
func PutUB(dst []byte, v uint64, maxLen int) []byte {
	if v == 0 {
		return append(dst, 0)
	}
	n := byteLen(v)
	if n > maxLen {
		n = maxLen
	}
	dst = append(dst, byte(n)) //nolint:gosec // n is bounded to {1,2,3,4,8}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return append(dst, buf[8-n:]...)
}

// byteLen returns the minimal number of big-endian bytes needed for v,
// snapped to the set of lengths the TNS format actually uses: 1,2,3,4,8.
func byteLen(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// ReadUB decodes a TNS variable-length unsigned integer starting at offset
// in data, returning the value and the number of bytes consumed (including
// the length-prefix byte). Returns ErrNeedMoreData if data is too short.
func ReadUB(data []byte, offset int) (uint64, int, error) {
	if offset >= len(data) {
		return 0, 0, ErrNeedMoreData
	}
	n := int(data[offset] &^ 0x80) // high bit may be set by some servers; mask it
	if n == 0 {
		return 0, 1, nil
	}
	if offset+1+n > len(data) {
		return 0, 0, ErrNeedMoreData
	}
	var v uint64
	for _, b := range data[offset+1 : offset+1+n] {
		v = v<<8 | uint64(b)
	}
	return v, 1 + n, nil
}

// ReadSB decodes a TNS variable-length signed integer. The encoding is
// identical to ReadUB except the high bit of the first content byte, when
// the length is nonzero, does NOT indicate sign for the Oracle wire format
// (the magnitude is carried as an unsigned value and the sign is implied by
// protocol context); ReadSB exists as a distinct entry point so call sites
// documenting SBx fields read naturally, returning the magnitude as int64.
func ReadSB(data []byte, offset int) (int64, int, error) {
	v, n, err := ReadUB(data, offset)
	if err != nil {
		return 0, 0, err
	}
	return int64(v), n, nil //nolint:gosec // TNS signed fields are small counters
}

// PutSB encodes a signed integer using the same variable-length scheme as
// PutUB, over the value's unsigned magnitude.
func PutSB(dst []byte, v int64, maxLen int) []byte {
	return PutUB(dst, uint64(v), maxLen) //nolint:gosec // magnitude encoding
}

// ReadChunked reassembles a "LONG"-style chunked byte sequence: either a
// single plain 8-bit length (< LongLengthIndicator) followed by that many
// bytes, or LongLengthIndicator followed by a series of UB4 chunk lengths
// (each followed by that many bytes) terminated by a zero chunk length.
// Returns the reassembled bytes, whether the value was null (distinct from
// empty), and the number of bytes consumed.
func ReadChunked(data []byte, offset int) (value []byte, isNull bool, consumed int, err error) {
	if offset >= len(data) {
		return nil, false, 0, ErrNeedMoreData
	}
	lead := data[offset]
	switch {
	case lead == NullLengthIndicator:
		return nil, true, 1, nil
	case lead < LongLengthIndicator:
		n := int(lead)
		if offset+1+n > len(data) {
			return nil, false, 0, ErrNeedMoreData
		}
		return data[offset+1 : offset+1+n], false, 1 + n, nil
	case lead == LongLengthIndicator:
		pos := offset + 1
		var out []byte
		for {
			chunkLen, n, err := ReadUB(data, pos)
			if err != nil {
				return nil, false, 0, err
			}
			pos += n
			if chunkLen == 0 {
				break
			}
			end := pos + int(chunkLen) //nolint:gosec // chunk lengths are bounded by SDU size
			if end > len(data) {
				return nil, false, 0, ErrNeedMoreData
			}
			out = append(out, data[pos:end]...)
			pos = end
		}
		return out, false, pos - offset, nil
	default:
		return nil, false, 0, fmt.Errorf("wire: invalid chunk length indicator 0x%02x", lead)
	}
}

// PutChunked encodes value using a plain 8-bit length when it fits (< 0xFE
// bytes), or the LONG chunked form in maxChunk-sized pieces otherwise. A nil
// value writes the null indicator; an empty non-nil slice writes a
// zero-length byte.
func PutChunked(dst []byte, value []byte, maxChunk int) []byte {
	if value == nil {
		return append(dst, NullLengthIndicator)
	}
	if len(value) < LongLengthIndicator {
		dst = append(dst, byte(len(value)))
		return append(dst, value...)
	}
	if maxChunk <= 0 {
		maxChunk = 0x4000
	}
	dst = append(dst, LongLengthIndicator)
	for len(value) > 0 {
		n := len(value)
		if n > maxChunk {
			n = maxChunk
		}
		dst = PutUB(dst, uint64(n), MaxUB4Len)
		dst = append(dst, value[:n]...)
		value = value[n:]
	}
	return PutUB(dst, 0, MaxUB4Len)
}
