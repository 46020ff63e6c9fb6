package protocol

import (
	"fmt"

	"github.com/mickamy/ora-ttc/wire"
)

// Piggyback is one decoded ServerSidePiggyback sub-message.
type Piggyback struct {
	OpCode PiggybackOpCode
	// SessionStateInvalidated is set by a sessRet piggyback that signals a
	// DRCP session change invalidating the statement cache.
	SessionStateInvalidated bool
}

// decodePiggyback consumes one ServerSidePiggyback sub-message starting at
// offset in data. Every op-code is read the same way: a UB length followed
// by that many payload bytes, which are skipped; there is no per-op-code
// layout. sessRet is the one op-code whose payload is inspected, for a
// session-invalidating flag in its first byte.
func decodePiggyback(data []byte, offset int) (Piggyback, int, error) {
	if offset >= len(data) {
		return Piggyback{}, 0, fmt.Errorf("protocol: truncated piggyback at offset %d", offset)
	}
	op := PiggybackOpCode(data[offset])
	pos := offset + 1

	length, n, err := wire.ReadUB(data, pos)
	if err != nil {
		return Piggyback{}, 0, fmt.Errorf("protocol: piggyback %#x length: %w", op, err)
	}
	pos += n
	end := pos + int(length) //nolint:gosec // piggyback payloads are bounded by SDU size
	if end > len(data) {
		return Piggyback{}, 0, fmt.Errorf("protocol: piggyback %#x payload truncated", op)
	}
	payload := data[pos:end]
	pos = end

	pb := Piggyback{OpCode: op}
	if op == PiggybackSessRet && len(payload) > 0 {
		pb.SessionStateInvalidated = payload[0] != 0
	}
	return pb, pos - offset, nil
}
