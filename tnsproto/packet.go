// Package tnsproto implements the TNS (Transparent Network Substrate)
// packet layer: framing, the connect handshake, and capability negotiation
// that everything above it (authentication, statement execution) rides on
// top of.
package tnsproto

import "fmt"

// PacketType identifies the kind of TNS packet in a header.
type PacketType uint8

const (
	PacketTypeConnect  PacketType = 1
	PacketTypeAccept   PacketType = 2
	PacketTypeAck      PacketType = 3
	PacketTypeRefuse   PacketType = 4
	PacketTypeRedirect PacketType = 5
	PacketTypeData     PacketType = 6
	PacketTypeNull     PacketType = 7
	PacketTypeAbort    PacketType = 9
	PacketTypeResend   PacketType = 11
	PacketTypeMarker   PacketType = 12
	PacketTypeControl  PacketType = 14
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeConnect:
		return "Connect"
	case PacketTypeAccept:
		return "Accept"
	case PacketTypeAck:
		return "Ack"
	case PacketTypeRefuse:
		return "Refuse"
	case PacketTypeRedirect:
		return "Redirect"
	case PacketTypeData:
		return "Data"
	case PacketTypeNull:
		return "Null"
	case PacketTypeAbort:
		return "Abort"
	case PacketTypeResend:
		return "Resend"
	case PacketTypeMarker:
		return "Marker"
	case PacketTypeControl:
		return "Control"
	}
	return fmt.Sprintf("UnknownPacketType(%d)", uint8(t))
}

// DataFlag marks properties of a DATA packet's payload.
type DataFlag uint16

const (
	DataFlagEndOfRequest DataFlag = 0x0001 // last packet of a logical request/response
	DataFlagConfirm      DataFlag = 0x0002
	DataFlagMoreData     DataFlag = 0x2000
)

func (f DataFlag) Has(flag DataFlag) bool { return f&flag != 0 }

// HeaderLen is the size of a TNS packet header once SDU negotiation settles
// on the modern (length-prefixed-with-checksum) layout.
const HeaderLen = 8

// Header is a decoded TNS packet header.
type Header struct {
	Length     uint32
	PacketType PacketType
	Flags      uint8
}

// MarshalHeader encodes h into the wire header layout: a big-endian length
// (4 bytes when useLongLength, else 2 bytes followed by 2 reserved bytes),
// packet type, a reserved flag byte, and a 2-byte checksum placeholder.
func MarshalHeader(h Header, useLongLength bool) []byte {
	buf := make([]byte, HeaderLen)
	if useLongLength {
		buf[0] = byte(h.Length >> 24)
		buf[1] = byte(h.Length >> 16)
		buf[2] = byte(h.Length >> 8)
		buf[3] = byte(h.Length)
	} else {
		buf[0] = byte(h.Length >> 8)
		buf[1] = byte(h.Length)
		// bytes 2-3 reserved, left zero
	}
	buf[4] = byte(h.PacketType)
	buf[5] = h.Flags
	// bytes 6-7 checksum, left zero (unused by modern servers)
	return buf
}

// UnmarshalHeader decodes a header from the front of data.
func UnmarshalHeader(data []byte, useLongLength bool) (Header, error) {
	if len(data) < HeaderLen {
		return Header{}, fmt.Errorf("tnsproto: short header: %d bytes", len(data))
	}
	var h Header
	if useLongLength {
		h.Length = uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	} else {
		h.Length = uint32(data[0])<<8 | uint32(data[1])
	}
	h.PacketType = PacketType(data[4])
	h.Flags = data[5]
	return h, nil
}
