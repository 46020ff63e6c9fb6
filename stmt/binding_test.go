package stmt

import "testing"

func TestMetadataGrowToTakesElementwiseMax(t *testing.T) {
	t.Parallel()
	m := Metadata{BufferSize: 10, ArrayMaxSize: 5}
	m.GrowTo(Metadata{BufferSize: 20, ArrayMaxSize: 3, IsArray: true, ArrayElements: 7})

	if m.BufferSize != 20 {
		t.Errorf("got BufferSize %d, want 20", m.BufferSize)
	}
	if m.ArrayMaxSize != 5 {
		t.Errorf("got ArrayMaxSize %d, want 5 (unchanged)", m.ArrayMaxSize)
	}
	if !m.IsArray {
		t.Error("expected IsArray to become true")
	}
	if m.ArrayElements != 7 {
		t.Errorf("got ArrayElements %d, want 7", m.ArrayElements)
	}
}

func TestMetadataGrowToNeverShrinks(t *testing.T) {
	t.Parallel()
	m := Metadata{BufferSize: 100}
	m.GrowTo(Metadata{BufferSize: 10})
	if m.BufferSize != 100 {
		t.Fatalf("got %d, want 100 (should not shrink)", m.BufferSize)
	}
}
