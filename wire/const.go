// Package wire implements the bespoke primitive codecs of the Oracle TNS/TTC
// wire format: variable-length integers, Oracle NUMBER, date/timestamp,
// interval-day-to-second, binary float/double, and RowID.
package wire

// Sentinel and layout constants for the TNS wire format, centralized here so
// both encoders and decoders reference a single table.
const (
	// LongLengthIndicator introduces a chunked ("LONG") length sequence:
	// a series of UB4 chunk lengths terminated by a zero chunk length.
	LongLengthIndicator = 0xFE

	// NullLengthIndicator marks an explicit null, distinct from a
	// zero-length (empty, non-null) value.
	NullLengthIndicator = 0xFF

	// MaxUB2Len, MaxUB4Len are the maximum byte counts a UBx length prefix
	// can declare for those widths.
	MaxUB2Len = 2
	MaxUB4Len = 4

	// NumberExponentBias is added to the true base-100 exponent before
	// encoding, and subtracted after decoding.
	NumberExponentBias = 193

	// NumberNegativeTerminator is an optional sentinel byte appended after
	// a negative NUMBER's mantissa digits.
	NumberNegativeTerminator = 0x66

	// NumberZero is the single-byte encoding of zero.
	NumberZero = 0x80

	// MaxNumberDigits is the maximum number of significant decimal digits
	// an Oracle NUMBER can represent.
	MaxNumberDigits = 40

	// MaxNumberExponent and MinNumberExponent bound the decimal exponent
	// (power of 10) of a NUMBER's leading digit: Min <= exponent < Max.
	MaxNumberExponent = 126
	MinNumberExponent = -129

	// TZHourOffset and TZMinuteOffset are added to the timezone hour/minute
	// components of a date/timestamp's optional trailing bytes.
	TZHourOffset   = 20
	TZMinuteOffset = 60

	// TZRegionIDFlag is the high bit of the timezone-hour byte; when set,
	// the timezone is encoded as a named region id, which this codec does
	// not support.
	TZRegionIDFlag = 0x80

	// IntervalDayMid and IntervalSubMid are the bias values subtracted from
	// the day and fractional-second fields of an interval-day-to-second
	// value. IntervalFieldOffset biases the hour/minute/second bytes.
	IntervalDayMid      = 0x80000000
	IntervalFieldOffset = 60
	IntervalSubMid      = 0x80000000

	// Base64Alphabet is the RowID's 64-character alphabet: uppercase,
	// lowercase, digits, '+', '/', the same order as standard base64.
	Base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

	// RowIDMarker is the leading byte of a RowID's textual "universal row
	// id" representation.
	RowIDMarker = '*'
)
