package tnsproto

import (
	"errors"
	"fmt"
	"io"
)

// DefaultSDU and MaxSDU bound the size of a single TNS packet's payload.
// DefaultSDU is what a Connect packet proposes before negotiation; MaxSDU is
// a hard ceiling past which an incoming length is treated as a fatal framing
// error rather than merely "need more data".
const (
	DefaultSDU = 8192
	MaxSDU     = 2 * 1024 * 1024
)

// ErrRefused is returned when the peer responds to a Connect with a Refuse
// packet.
var ErrRefused = errors.New("tnsproto: connection refused")

// ErrMarker is returned by Recv when a Marker packet (attention/break
// notification) arrives instead of the expected data.
var ErrMarker = errors.New("tnsproto: marker packet received")

// Framer reads and writes whole TNS packets over an underlying stream,
// handling the length-prefixed framing, SDU negotiation, and out-of-band
// Marker/Resend control packets.
type Framer struct {
	rw            io.ReadWriter
	sdu           uint32
	useLongLength bool
}

// NewFramer creates a Framer using DefaultSDU and the short (2-byte) length
// header, matching the layout used before SDU negotiation completes.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{rw: rw, sdu: DefaultSDU}
}

// SetSDU records the negotiated session data unit size. Send does not read
// it: outgoing packets are bounded only by MaxSDU.
func (f *Framer) SetSDU(sdu uint32) { f.sdu = sdu }

// SetLongLength switches the header's length field between its 2-byte and
// 4-byte wire forms; 12c+ servers negotiate the 4-byte form.
func (f *Framer) SetLongLength(v bool) { f.useLongLength = v }

// Send writes a single TNS packet of the given type carrying payload.
func (f *Framer) Send(typ PacketType, payload []byte) error {
	total := HeaderLen + len(payload)
	if total > MaxSDU {
		return fmt.Errorf("tnsproto: outgoing packet %d bytes exceeds max SDU %d", total, MaxSDU)
	}
	hdr := MarshalHeader(Header{Length: uint32(total), PacketType: typ}, f.useLongLength) //nolint:gosec // bounded above
	buf := make([]byte, 0, total)
	buf = append(buf, hdr...)
	buf = append(buf, payload...)
	if _, err := f.rw.Write(buf); err != nil {
		return fmt.Errorf("tnsproto: write packet: %w", err)
	}
	return nil
}

// Recv reads the next packet. A Refuse packet is returned together with
// ErrRefused and a Marker packet together with ErrMarker; Recv does not
// retry either, the caller decides how to proceed.
func (f *Framer) Recv() (PacketType, []byte, error) {
	hdr, err := f.readHeader()
	if err != nil {
		return 0, nil, err
	}
	if hdr.Length < HeaderLen {
		return 0, nil, fmt.Errorf("tnsproto: packet length %d shorter than header", hdr.Length)
	}
	payloadLen := hdr.Length - HeaderLen
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(f.rw, payload); err != nil {
		return 0, nil, fmt.Errorf("tnsproto: read payload: %w", err)
	}

	switch hdr.PacketType {
	case PacketTypeRefuse:
		return hdr.PacketType, payload, ErrRefused
	case PacketTypeMarker:
		return hdr.PacketType, payload, ErrMarker
	}
	return hdr.PacketType, payload, nil
}

func (f *Framer) readHeader() (Header, error) {
	hdrLen := HeaderLen
	raw := make([]byte, hdrLen)
	if _, err := io.ReadFull(f.rw, raw); err != nil {
		return Header{}, fmt.Errorf("tnsproto: read header: %w", err)
	}
	hdr, err := UnmarshalHeader(raw, f.useLongLength)
	if err != nil {
		return Header{}, err
	}
	if hdr.Length > MaxSDU {
		return Header{}, fmt.Errorf("tnsproto: packet length %d exceeds max SDU %d", hdr.Length, MaxSDU)
	}
	return hdr, nil
}

// SendResend asks the peer to retransmit its last packet, used when a
// Resend packet is received during the connect phase.
func (f *Framer) SendResend() error {
	return f.Send(PacketTypeResend, nil)
}
