package tnsproto

import (
	"fmt"
)

// DataType pairs an ORA data type code with the conversion type and
// representation the client advertises support for in the DataTypes
// message.
type DataType struct {
	Code           uint16
	ConvertCode    uint16
	Representation uint8
}

// Negotiator drives the Connect/Accept/Protocol/DataTypes exchange that
// precedes authentication. It owns the Framer for the duration of the
// handshake.
type Negotiator struct {
	framer *Framer

	// DriverName and Version populate the Protocol message.
	DriverName string
	Version    uint8

	// SupportedDataTypes lists every ORA data type this client can encode
	// or decode; sent in the DataTypes message, terminated by a zero type.
	SupportedDataTypes []DataType
}

// NewNegotiator creates a Negotiator bound to framer.
func NewNegotiator(framer *Framer, driverName string) *Negotiator {
	return &Negotiator{framer: framer, DriverName: driverName, Version: 6}
}

// Negotiate performs the full Connect -> Accept -> Protocol -> DataTypes
// exchange and returns the resulting Capabilities, only after the server
// has answered the DataTypes message.
func (n *Negotiator) Negotiate(descriptor ConnectDescriptor) (Capabilities, error) {
	connectString := BuildConnectString(descriptor)
	if err := n.framer.Send(PacketTypeConnect, []byte(connectString)); err != nil {
		return Capabilities{}, fmt.Errorf("tnsproto: send connect: %w", err)
	}

	typ, payload, err := n.framer.Recv()
	if err != nil && typ != PacketTypeResend {
		return Capabilities{}, fmt.Errorf("tnsproto: recv accept: %w", err)
	}
	if typ == PacketTypeResend {
		if err := n.framer.Send(PacketTypeConnect, []byte(connectString)); err != nil {
			return Capabilities{}, fmt.Errorf("tnsproto: resend connect: %w", err)
		}
		typ, payload, err = n.framer.Recv()
		if err != nil {
			return Capabilities{}, fmt.Errorf("tnsproto: recv accept after resend: %w", err)
		}
	}
	if typ != PacketTypeAccept {
		return Capabilities{}, fmt.Errorf("tnsproto: expected accept packet, got %s", typ)
	}
	accept, err := decodeAccept(payload)
	if err != nil {
		return Capabilities{}, fmt.Errorf("tnsproto: decode accept: %w", err)
	}
	n.framer.SetSDU(accept.SDU)
	n.framer.SetLongLength(accept.ProtocolVersion >= largeSDUProtocolVersion)

	if err := n.sendProtocol(); err != nil {
		return Capabilities{}, err
	}
	proto, err := n.recvProtocol()
	if err != nil {
		return Capabilities{}, err
	}

	caps := DeriveCapabilities(accept.ProtocolVersion, accept.ProtocolOptions, accept.SDU,
		proto.ServerBanner, proto.CharsetID, proto.ServerFlags, proto.TTCFieldVersion, proto.NationalCharsetID)

	if err := n.sendDataTypes(caps); err != nil {
		return Capabilities{}, err
	}

	return caps, nil
}

type acceptPayload struct {
	ProtocolVersion uint8
	ProtocolOptions uint16
	SDU             uint32
}

// decodeAccept parses the fixed-layout portion of an Accept packet's
// payload: protocol version and options followed by the negotiated SDU.
// Recent servers append a 5-byte trailer (OOB check + fast-auth
// eligibility) which is ignored here since Capabilities derives those
// facts from the protocol version instead.
func decodeAccept(payload []byte) (acceptPayload, error) {
	if len(payload) < 8 {
		return acceptPayload{}, fmt.Errorf("tnsproto: accept payload too short: %d bytes", len(payload))
	}
	return acceptPayload{
		ProtocolVersion: payload[0],
		ProtocolOptions: uint16(payload[2])<<8 | uint16(payload[3]),
		SDU:             uint32(payload[4])<<8 | uint32(payload[5]),
	}, nil
}

// sendProtocol sends the client's Protocol message: a function byte, the
// protocol version, and the driver name as a NUL-terminated string.
func (n *Negotiator) sendProtocol() error {
	payload := make([]byte, 0, len(n.DriverName)+4)
	payload = append(payload, 0x01, n.Version)
	payload = append(payload, n.DriverName...)
	payload = append(payload, 0)
	if err := n.framer.Send(PacketTypeData, payload); err != nil {
		return fmt.Errorf("tnsproto: send protocol: %w", err)
	}
	return nil
}

type protocolResponse struct {
	ServerBanner      string
	CharsetID         uint16
	ServerFlags       uint8
	TTCFieldVersion   uint8
	NationalCharsetID uint16
}

// recvProtocol reads and parses the server's Protocol response: a banner
// string, charset id, server flags, a variable-length element list, and the
// compile/runtime capability blobs. The element list and capability blobs
// are consumed but not individually modeled; TTCFieldVersion and national
// charset are pulled from fixed offsets following the banner.
func (n *Negotiator) recvProtocol() (protocolResponse, error) {
	_, payload, err := n.framer.Recv()
	if err != nil {
		return protocolResponse{}, fmt.Errorf("tnsproto: recv protocol: %w", err)
	}
	if len(payload) < 2 {
		return protocolResponse{}, fmt.Errorf("tnsproto: protocol response too short: %d bytes", len(payload))
	}

	// byte 0: function/version echo, byte 1: server flags start; banner is a
	// NUL-terminated string starting at a small fixed offset.
	offset := 2
	start := offset
	for offset < len(payload) && payload[offset] != 0 {
		offset++
	}
	banner := string(payload[start:offset])
	offset++ // skip NUL

	if offset+3 > len(payload) {
		return protocolResponse{}, fmt.Errorf("tnsproto: protocol response truncated after banner")
	}
	charsetID := uint16(payload[offset])<<8 | uint16(payload[offset+1])
	serverFlags := payload[offset+2]
	offset += 3

	var ttcFieldVersion uint8
	var nationalCharsetID uint16
	if offset < len(payload) {
		ttcFieldVersion = payload[offset]
		offset++
	}
	if offset+2 <= len(payload) {
		nationalCharsetID = uint16(payload[offset])<<8 | uint16(payload[offset+1])
	}

	return protocolResponse{
		ServerBanner:      banner,
		CharsetID:         charsetID,
		ServerFlags:       serverFlags,
		TTCFieldVersion:   ttcFieldVersion,
		NationalCharsetID: nationalCharsetID,
	}, nil
}

// sendDataTypes emits every entry in SupportedDataTypes, terminated by a
// zero-code entry, and waits for the server's acknowledgement.
func (n *Negotiator) sendDataTypes(caps Capabilities) error {
	payload := make([]byte, 0, len(n.SupportedDataTypes)*5+5)
	for _, dt := range n.SupportedDataTypes {
		payload = append(payload, byte(dt.Code>>8), byte(dt.Code), byte(dt.ConvertCode>>8), byte(dt.ConvertCode), dt.Representation)
	}
	payload = append(payload, 0, 0) // zero type terminator

	if err := n.framer.Send(PacketTypeData, payload); err != nil {
		return fmt.Errorf("tnsproto: send data types: %w", err)
	}
	if _, _, err := n.framer.Recv(); err != nil {
		return fmt.Errorf("tnsproto: recv data types ack: %w", err)
	}
	return nil
}
