package oraconn

import (
	"fmt"
	"sort"

	"github.com/mickamy/ora-ttc/auth"
	"github.com/mickamy/ora-ttc/tnsproto"
	"github.com/mickamy/ora-ttc/wire"
)

// functionCodeAuthPhaseOne and functionCodeAuthPhaseTwo are the TTC
// function codes wrapping the two AUTH round-trips.
const (
	functionCodeAuthPhaseOne = 0x4B
	functionCodeAuthPhaseTwo = 0x4B
	authModeContinue         = 0x0002
)

// sendAuthParams writes one AUTH request: function code, mode word,
// username, then each parameter as a key/value pair, sorted so wire output
// is deterministic (useful for tests; the server does not care about
// order).
func sendAuthParams(framer *tnsproto.Framer, username string, mode uint32, params auth.Params) error {
	var out []byte
	out = append(out, functionCodeAuthPhaseOne)
	out = wire.PutUB(out, uint64(mode), wire.MaxUB4Len)
	out = wire.PutChunked(out, []byte(username), 0)
	out = wire.PutUB(out, uint64(len(params)), wire.MaxUB2Len)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = wire.PutChunked(out, []byte(k), 0)
		out = wire.PutChunked(out, []byte(params[k]), 0)
	}

	if err := framer.Send(tnsproto.PacketTypeData, out); err != nil {
		return fmt.Errorf("oraconn: send auth params: %w", err)
	}
	return nil
}

// recvAuthParams reads an AUTH response: a status word followed by a
// key/value parameter list in the same shape sendAuthParams writes.
func recvAuthParams(framer *tnsproto.Framer) (auth.Params, error) {
	_, payload, err := framer.Recv()
	if err != nil {
		return nil, fmt.Errorf("oraconn: recv auth response: %w", err)
	}

	pos := 0
	if _, n, err := wire.ReadUB(payload, pos); err != nil {
		return nil, fmt.Errorf("oraconn: auth response status: %w", err)
	} else {
		pos += n
	}

	count, n, err := wire.ReadUB(payload, pos)
	if err != nil {
		return nil, fmt.Errorf("oraconn: auth response param count: %w", err)
	}
	pos += n

	params := make(auth.Params, count)
	for i := 0; i < int(count); i++ {
		key, _, n, err := wire.ReadChunked(payload, pos)
		if err != nil {
			return nil, fmt.Errorf("oraconn: auth response key %d: %w", i, err)
		}
		pos += n
		val, _, n, err := wire.ReadChunked(payload, pos)
		if err != nil {
			return nil, fmt.Errorf("oraconn: auth response value %d: %w", i, err)
		}
		pos += n
		params[string(key)] = string(val)
	}
	return params, nil
}
