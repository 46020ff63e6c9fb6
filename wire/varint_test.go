package wire_test

import (
	"bytes"
	"testing"

	"github.com/mickamy/ora-ttc/wire"
)

func TestUBRoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []uint64{0, 1, 255, 256, 65535, 65536, 1<<32 - 1, 1 << 40} {
		enc := wire.PutUB(nil, v, 8)
		got, n, err := wire.ReadUB(enc, 0)
		if err != nil {
			t.Fatalf("ReadUB(%d): %v", v, err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("got (%d,%d), want (%d,%d)", got, n, v, len(enc))
		}
	}
}

func TestUBZeroIsSingleByte(t *testing.T) {
	t.Parallel()
	enc := wire.PutUB(nil, 0, 4)
	if !bytes.Equal(enc, []byte{0}) {
		t.Fatalf("got %x, want [00]", enc)
	}
}

func TestReadUBNeedsMoreData(t *testing.T) {
	t.Parallel()
	if _, _, err := wire.ReadUB([]byte{2, 0x01}, 0); err != wire.ErrNeedMoreData {
		t.Fatalf("got %v, want ErrNeedMoreData", err)
	}
}

func TestChunkedPlainRoundTrip(t *testing.T) {
	t.Parallel()
	value := []byte("hello, oracle")
	enc := wire.PutChunked(nil, value, 0)
	got, isNull, n, err := wire.ReadChunked(enc, 0)
	if err != nil {
		t.Fatalf("ReadChunked: %v", err)
	}
	if isNull {
		t.Fatal("unexpected null")
	}
	if !bytes.Equal(got, value) || n != len(enc) {
		t.Fatalf("got (%q,%d), want (%q,%d)", got, n, value, len(enc))
	}
}

func TestChunkedLongRoundTrip(t *testing.T) {
	t.Parallel()
	value := bytes.Repeat([]byte("x"), 1000)
	enc := wire.PutChunked(nil, value, 64)
	got, isNull, n, err := wire.ReadChunked(enc, 0)
	if err != nil {
		t.Fatalf("ReadChunked: %v", err)
	}
	if isNull {
		t.Fatal("unexpected null")
	}
	if !bytes.Equal(got, value) || n != len(enc) {
		t.Fatalf("length mismatch: got %d want %d bytes, consumed %d of %d", len(got), len(value), n, len(enc))
	}
}

func TestChunkedNull(t *testing.T) {
	t.Parallel()
	enc := wire.PutChunked(nil, nil, 0)
	_, isNull, n, err := wire.ReadChunked(enc, 0)
	if err != nil {
		t.Fatalf("ReadChunked: %v", err)
	}
	if !isNull || n != 1 {
		t.Fatalf("got (isNull=%v,n=%d), want (true,1)", isNull, n)
	}
}

func TestChunkedEmptyNonNull(t *testing.T) {
	t.Parallel()
	enc := wire.PutChunked(nil, []byte{}, 0)
	got, isNull, n, err := wire.ReadChunked(enc, 0)
	if err != nil {
		t.Fatalf("ReadChunked: %v", err)
	}
	if isNull {
		t.Fatal("expected non-null empty value")
	}
	if len(got) != 0 || n != 1 {
		t.Fatalf("got (%v,%d), want (empty,1)", got, n)
	}
}
