package wire_test

import (
	"testing"

	"github.com/mickamy/ora-ttc/wire"
)

func TestRowIDBinaryRoundTrip(t *testing.T) {
	t.Parallel()
	want := wire.RowID{RBA: 0x00ABCDEF, PartitionID: 12, Reserved: 0, BlockNumber: 987654, SlotNumber: 3}
	enc := wire.EncodeRowID(want)
	if len(enc) != wire.RowIDLen {
		t.Fatalf("got %d bytes, want %d", len(enc), wire.RowIDLen)
	}
	got, err := wire.DecodeRowID(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRowIDTextRoundTrip(t *testing.T) {
	t.Parallel()
	want := wire.RowID{RBA: 1, PartitionID: 0, Reserved: 0, BlockNumber: 42, SlotNumber: 7}
	text := wire.FormatRowID(want)
	if text[0] != '*' {
		t.Fatalf("got marker %q, want '*'", text[0])
	}
	got, err := wire.ParseRowID(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRowIDTextMissingMarker(t *testing.T) {
	t.Parallel()
	if _, err := wire.ParseRowID("AAAAAAAAAAAAAAAAAA"); err == nil {
		t.Fatal("expected error for missing marker")
	}
}
