package tnsproto

// Capabilities is the immutable result of a completed negotiation: what the
// server and client agreed to use for the rest of the session.
type Capabilities struct {
	ProtocolVersion     uint8
	ProtocolOptions     uint16
	SDU                 uint32
	ServerBanner        string
	CharsetID           uint16
	ServerFlags         uint8
	TTCFieldVersion     uint8
	CharacterConversion bool // charset != implicit UTF-8 id
	NationalCharsetID   uint16
	LargeSDU            bool
	FastAuth            bool
	EndOfRequest        bool
}

// ImplicitUTF8CharsetID is the character set id Oracle treats as needing no
// conversion on the wire.
const ImplicitUTF8CharsetID = 873

// largeSDUProtocolVersion, fastAuthProtocolVersion and eorProtocolVersion
// gate feature eligibility by
// negotiated protocol version, per the server's Accept/Protocol response.
const (
	largeSDUProtocolVersion = 315 // TNS 3.15+ allows SDUs beyond the legacy 2-byte length field
	fastAuthProtocolVersion = 313
	eorProtocolVersion      = 300
)

// DeriveCapabilities folds an Accept response and a Protocol response into
// the client's effective Capabilities.
func DeriveCapabilities(protocolVersion uint8, protocolOptions uint16, sdu uint32, serverBanner string, charsetID uint16, serverFlags uint8, ttcFieldVersion uint8, nationalCharsetID uint16) Capabilities {
	return Capabilities{
		ProtocolVersion:     protocolVersion,
		ProtocolOptions:     protocolOptions,
		SDU:                 sdu,
		ServerBanner:        serverBanner,
		CharsetID:           charsetID,
		ServerFlags:         serverFlags,
		TTCFieldVersion:     ttcFieldVersion,
		CharacterConversion: charsetID != ImplicitUTF8CharsetID,
		NationalCharsetID:   nationalCharsetID,
		LargeSDU:            uint16(protocolVersion) >= largeSDUProtocolVersion,
		FastAuth:            uint16(protocolVersion) >= fastAuthProtocolVersion,
		EndOfRequest:        uint16(protocolVersion) >= eorProtocolVersion,
	}
}
