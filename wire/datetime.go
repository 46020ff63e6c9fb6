package wire

import (
	"fmt"
	"time"
)

// EncodeDate encodes t as an Oracle DATE/TIMESTAMP value. If includeNanos is
// false, the fractional-second bytes are omitted (plain DATE, 7 bytes). If
// includeTZ is true, a 2-byte timezone offset is appended (named-region
// timezones are not supported).
func EncodeDate(t time.Time, includeNanos, includeTZ bool) []byte {
	year := t.Year()
	century := year/100 + 100
	yearByte := year%100 + 100

	out := make([]byte, 0, 13)
	out = append(out,
		byte(century), //nolint:gosec // century fits a byte for supported years
		byte(yearByte),
		byte(t.Month()),
		byte(t.Day()),
		byte(t.Hour()+1),
		byte(t.Minute()+1),
		byte(t.Second()+1),
	)
	if includeNanos {
		ms := uint32(t.Nanosecond() / 1_000_000) //nolint:gosec // nanosecond fraction fits ms range
		out = append(out, byte(ms>>24), byte(ms>>16), byte(ms>>8), byte(ms))
	}
	if includeTZ {
		_, offset := t.Zone()
		hours := offset / 3600
		mins := (offset % 3600) / 60
		out = append(out, byte(hours+TZHourOffset), byte(mins+TZMinuteOffset)) //nolint:gosec // tz offsets are small
	}
	return out
}

// DecodeDate decodes an Oracle DATE/TIMESTAMP wire value. Returns
// ErrNamedTimeZoneNotSupported if the high bit of the timezone-hour byte
// indicates a region-id encoding.
func DecodeDate(data []byte) (time.Time, error) {
	if len(data) < 7 {
		return time.Time{}, fmt.Errorf("wire: date too short: %d bytes", len(data))
	}
	year := (int(data[0])-100)*100 + (int(data[1]) - 100)
	month := time.Month(data[2])
	day := int(data[3])
	hour := int(data[4]) - 1
	minute := int(data[5]) - 1
	second := int(data[6]) - 1

	var nanos int
	loc := time.UTC
	rest := data[7:]
	if len(rest) >= 4 {
		ms := uint32(rest[0])<<24 | uint32(rest[1])<<16 | uint32(rest[2])<<8 | uint32(rest[3])
		nanos = int(ms) * 1_000_000
		rest = rest[4:]
	}
	if len(rest) >= 2 {
		if rest[0]&TZRegionIDFlag != 0 {
			return time.Time{}, ErrNamedTimeZoneNotSupported
		}
		hours := int(rest[0]) - TZHourOffset
		mins := int(rest[1]) - TZMinuteOffset
		loc = time.FixedZone("", hours*3600+mins*60)
	}

	return time.Date(year, month, day, hour, minute, second, nanos, loc), nil
}

// ErrNamedTimeZoneNotSupported is returned when a date/timestamp value uses
// a named-region timezone, which this codec does not implement.
var ErrNamedTimeZoneNotSupported = fmt.Errorf("wire: named timezone (region id) not supported")

// EncodeIntervalDS encodes a duration as an Oracle INTERVAL DAY TO SECOND
// value: 11 bytes of (days, hours, minutes, seconds, fractional
// milliseconds), each biased toward a fixed midpoint.
func EncodeIntervalDS(d time.Duration) []byte {
	totalMs := d.Milliseconds()
	neg := totalMs < 0
	if neg {
		totalMs = -totalMs
	}
	days := totalMs / (86400 * 1000)
	rem := totalMs % (86400 * 1000)
	hours := rem / (3600 * 1000)
	rem %= 3600 * 1000
	minutes := rem / (60 * 1000)
	rem %= 60 * 1000
	seconds := rem / 1000
	fracMs := rem % 1000

	if neg {
		days, hours, minutes, seconds, fracMs = -days, -hours, -minutes, -seconds, -fracMs
	}

	out := make([]byte, 11)
	putInt32BE(out[0:4], uint32(days+IntervalDayMid)) //nolint:gosec // bounded by the ±100y day range
	out[4] = byte(hours + IntervalFieldOffset)
	out[5] = byte(minutes + IntervalFieldOffset)
	out[6] = byte(seconds + IntervalFieldOffset)
	putInt32BE(out[7:11], uint32(fracMs*1_000_000+IntervalSubMid)) //nolint:gosec // ms fraction is small
	return out
}

// DecodeIntervalDS decodes an 11-byte INTERVAL DAY TO SECOND value into a
// time.Duration.
func DecodeIntervalDS(data []byte) (time.Duration, error) {
	if len(data) < 11 {
		return 0, fmt.Errorf("wire: interval too short: %d bytes", len(data))
	}
	days := int64(getInt32BE(data[0:4])) - IntervalDayMid
	hours := int64(data[4]) - IntervalFieldOffset
	minutes := int64(data[5]) - IntervalFieldOffset
	seconds := int64(data[6]) - IntervalFieldOffset
	fracNanos := int64(getInt32BE(data[7:11])) - IntervalSubMid

	total := days*86400 + hours*3600 + minutes*60 + seconds
	return time.Duration(total)*time.Second + time.Duration(fracNanos)*time.Nanosecond, nil
}

func putInt32BE(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

func getInt32BE(src []byte) uint32 {
	return uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
}
