package tnsproto_test

import (
	"testing"

	"github.com/mickamy/ora-ttc/tnsproto"
)

func TestHeaderRoundTripShortLength(t *testing.T) {
	t.Parallel()
	want := tnsproto.Header{Length: 42, PacketType: tnsproto.PacketTypeData, Flags: 0x01}
	enc := tnsproto.MarshalHeader(want, false)
	got, err := tnsproto.UnmarshalHeader(enc, false)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHeaderRoundTripLongLength(t *testing.T) {
	t.Parallel()
	want := tnsproto.Header{Length: 1 << 20, PacketType: tnsproto.PacketTypeAccept, Flags: 0}
	enc := tnsproto.MarshalHeader(want, true)
	got, err := tnsproto.UnmarshalHeader(enc, true)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPacketTypeString(t *testing.T) {
	t.Parallel()
	if got := tnsproto.PacketTypeData.String(); got != "Data" {
		t.Fatalf("got %q, want Data", got)
	}
	if got := tnsproto.PacketType(200).String(); got == "" {
		t.Fatal("expected non-empty string for unknown packet type")
	}
}

func TestDataFlagHas(t *testing.T) {
	t.Parallel()
	f := tnsproto.DataFlagEndOfRequest | tnsproto.DataFlagMoreData
	if !f.Has(tnsproto.DataFlagEndOfRequest) {
		t.Fatal("expected EndOfRequest flag set")
	}
	if f.Has(tnsproto.DataFlagConfirm) {
		t.Fatal("did not expect Confirm flag set")
	}
}
