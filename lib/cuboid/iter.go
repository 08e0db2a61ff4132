package cuboid

import "iter"

// All yields the index and a clone of the value of every cell.
func (c *Cuboid[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, slot := range c.indices {
			if !yield(i, (*c.palette[slot]).Clone()) {
				return
			}
		}
	}
}

// AllByRef yields the index and the palette entry of every cell.
// The warning of GetByRef applies to every yielded pointer.
func (c *Cuboid[E]) AllByRef() iter.Seq2[int, *E] {
	return func(yield func(int, *E) bool) {
		for i, slot := range c.indices {
			if !yield(i, c.palette[slot]) {
				return
			}
		}
	}
}

// Palette yields the live palette entries by reference, skipping holes.
func (c *Cuboid[E]) Palette() iter.Seq[*E] {
	return func(yield func(*E) bool) {
		for _, p := range c.palette {
			if p != nil && !yield(p) {
				return
			}
		}
	}
}

// ForEachByRef calls fn with the index and palette entry of every cell.
func (c *Cuboid[E]) ForEachByRef(fn func(index int, v *E)) {
	for i, slot := range c.indices {
		fn(i, c.palette[slot])
	}
}
