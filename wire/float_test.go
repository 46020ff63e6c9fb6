package wire_test

import (
	"math"
	"testing"

	"github.com/mickamy/ora-ttc/wire"
)

func TestBinaryFloatRoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []float32{0, 1, -1, 3.14159, -3.14159, 1e30, -1e30} {
		enc := wire.EncodeBinaryFloat(v)
		if len(enc) != 4 {
			t.Fatalf("EncodeBinaryFloat(%v): got %d bytes, want 4", v, len(enc))
		}
		got := wire.DecodeBinaryFloat(enc)
		if got != v {
			t.Fatalf("got %v, want %v", got, v)
		}
	}
}

func TestBinaryFloatNegativeZero(t *testing.T) {
	t.Parallel()
	enc := wire.EncodeBinaryFloat(float32(math.Copysign(0, -1)))
	got := wire.DecodeBinaryFloat(enc)
	if got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestBinaryDoubleRoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{0, 1, -1, 2.718281828459045, -2.718281828459045, 1e300, -1e300} {
		enc := wire.EncodeBinaryDouble(v)
		if len(enc) != 8 {
			t.Fatalf("EncodeBinaryDouble(%v): got %d bytes, want 8", v, len(enc))
		}
		got := wire.DecodeBinaryDouble(enc)
		if got != v {
			t.Fatalf("got %v, want %v", got, v)
		}
	}
}
