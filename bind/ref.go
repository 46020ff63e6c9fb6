package bind

// Ref is an opaque identity token for a bind value that is both input and
// output (an INOUT bind). Passing the same Ref across calls to
// Encoder.Position reuses the same bind position instead of allocating a
// new one.
type Ref struct{ id uint64 }

// NewRef allocates a fresh identity for an INOUT bind from e's arena.
func (e *Encoder) NewRef() Ref {
	e.nextRef++
	return Ref{id: e.nextRef}
}
