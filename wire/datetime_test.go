package wire_test

import (
	"testing"
	"time"

	"github.com/mickamy/ora-ttc/wire"
)

func TestDateRoundTripNoFraction(t *testing.T) {
	t.Parallel()
	want := time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)
	enc := wire.EncodeDate(want, false, false)
	got, err := wire.DecodeDate(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDateRoundTripWithNanos(t *testing.T) {
	t.Parallel()
	want := time.Date(2024, time.March, 15, 13, 45, 30, 123_000_000, time.UTC)
	enc := wire.EncodeDate(want, true, false)
	got, err := wire.DecodeDate(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDateNamedTimeZoneRejected(t *testing.T) {
	t.Parallel()
	data := []byte{120, 124, 3, 15, 14, 46, 31, 0, 0, 0, 0, 0x80, 30}
	if _, err := wire.DecodeDate(data); err != wire.ErrNamedTimeZoneNotSupported {
		t.Fatalf("got %v, want ErrNamedTimeZoneNotSupported", err)
	}
}

func TestIntervalDSRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []time.Duration{
		0,
		5 * time.Second,
		-5 * time.Second,
		90 * 24 * time.Hour,
		-90 * 24 * time.Hour,
		time.Hour + 30*time.Minute + 15*time.Second + 250*time.Millisecond,
	}
	for _, want := range tests {
		enc := wire.EncodeIntervalDS(want)
		got, err := wire.DecodeIntervalDS(enc)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != want {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
