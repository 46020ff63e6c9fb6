package bind

import (
	"bytes"
	"testing"

	"github.com/mickamy/ora-ttc/stmt"
)

func TestPositionAllocatesNewIndexPerName(t *testing.T) {
	t.Parallel()
	e := NewEncoder()
	p1 := e.Position("id", nil, stmt.Metadata{BufferSize: 4})
	p2 := e.Position("name", nil, stmt.Metadata{BufferSize: 32})
	if p1 == p2 {
		t.Fatal("expected distinct positions for distinct names")
	}
	if len(e.Bindings()) != 2 {
		t.Fatalf("got %d bindings, want 2", len(e.Bindings()))
	}
}

func TestPositionReusesRefIdentity(t *testing.T) {
	t.Parallel()
	e := NewEncoder()
	ref := e.NewRef()
	p1 := e.Position("out_id", &ref, stmt.Metadata{BufferSize: 4})
	p2 := e.Position("out_id", &ref, stmt.Metadata{BufferSize: 8})
	if p1 != p2 {
		t.Fatalf("got positions %d and %d, want equal", p1, p2)
	}
	if len(e.Bindings()) != 1 {
		t.Fatalf("got %d bindings, want 1", len(e.Bindings()))
	}
	if e.Bindings()[0].Metadata.BufferSize != 8 {
		t.Fatalf("got buffer size %d, want grown to 8", e.Bindings()[0].Metadata.BufferSize)
	}
}

func TestRowSplitsShortAndLongBuffers(t *testing.T) {
	t.Parallel()
	e := NewEncoder()
	short, long := e.Row([]Value{
		{Encoded: []byte("short value")},
		{Encoded: bytes.Repeat([]byte{'x'}, LongLengthThreshold)},
	})
	if len(short) == 0 {
		t.Fatal("expected non-empty short buffer")
	}
	if len(long) == 0 {
		t.Fatal("expected non-empty long buffer")
	}
}

func TestRowEncodesNullAsZeroLengthByte(t *testing.T) {
	t.Parallel()
	e := NewEncoder()
	short, long := e.Row([]Value{{Null: true}})
	if len(long) != 0 {
		t.Fatalf("expected empty long buffer, got %d bytes", len(long))
	}
	if !bytes.Equal(short, []byte{0}) {
		t.Fatalf("got %x, want [00]", short)
	}
}

func TestEncodeBooleanNullIsDistinctFromPlainNull(t *testing.T) {
	t.Parallel()
	got := EncodeBooleanNull()
	if bytes.Equal(got, []byte{0}) {
		t.Fatal("boolean null must not collapse to the plain null encoding")
	}
	if !bytes.Equal(got, []byte{0xFF, 0x01}) {
		t.Fatalf("got %x, want [FF 01]", got)
	}
}

func TestEncodeArrayPrefixesElementCount(t *testing.T) {
	t.Parallel()
	got := EncodeArray([][]byte{{1, 2}, {3, 4}, {5}})
	// UB4 length-prefixed count of 3 elements, then the concatenated payloads.
	want := append([]byte{1, 3}, []byte{1, 2, 3, 4, 5}...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestEncodeNamedTypeNullPrefixSetsTopLevelFlag(t *testing.T) {
	t.Parallel()
	got := EncodeNamedTypeNullPrefix()
	if len(got) != 24 {
		t.Fatalf("got %d bytes, want 24", len(got))
	}
	if got[0]&objTopLevelFlag == 0 {
		t.Fatal("expected TNS_OBJ_TOP_LEVEL flag set")
	}
}
