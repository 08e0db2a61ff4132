package cuboid

import "github.com/ValentinKolb/palcube/lib/value"

// Cursor walks the cells of a cuboid in index order. Unlike a plain
// iterator it exposes the position of the element last returned by Next
// and can overwrite that cell.
//
// A cursor returns clones unless created by reference, in which case Next
// and Current return palette entries (see GetByRef for the hazards).
//
// Usage:
//
//	it := c.IteratorIf(isAir)
//	for it.HasNext() {
//		if _, err := it.Next(); err != nil { ... }
//		p, _ := it.XYZ()
//		...
//	}
type Cursor[E value.Value[E]] struct {
	c      *Cuboid[E]
	pred   Predicate[E]
	byRef  bool
	cur    int  // index of the element last returned, -1 before the first Next
	next   int  // next index to consider
	probed bool // next is known to match pred
}

// Iterator returns a by-value cursor over all cells.
func (c *Cuboid[E]) Iterator() *Cursor[E] {
	return &Cursor[E]{c: c, cur: -1}
}

// IteratorByRef returns a by-reference cursor over all cells.
func (c *Cuboid[E]) IteratorByRef() *Cursor[E] {
	return &Cursor[E]{c: c, byRef: true, cur: -1}
}

// IteratorIf returns a by-value cursor over the cells matching pred.
// pred is evaluated on palette entries and must not modify them.
func (c *Cuboid[E]) IteratorIf(pred Predicate[E]) *Cursor[E] {
	return &Cursor[E]{c: c, pred: pred, cur: -1}
}

// IteratorByRefIf returns a by-reference cursor over the cells matching pred.
func (c *Cuboid[E]) IteratorByRefIf(pred Predicate[E]) *Cursor[E] {
	return &Cursor[E]{c: c, pred: pred, byRef: true, cur: -1}
}

func (it *Cursor[E]) get(index int) *E {
	if it.byRef {
		return it.c.palette[it.c.indices[index]]
	}
	return clonePtr(*it.c.palette[it.c.indices[index]])
}

func (it *Cursor[E]) matches(index int) bool {
	return it.pred(*it.c.palette[it.c.indices[index]])
}

// HasNext reports whether Next will return another element. With a filter
// this probes ahead without consuming.
func (it *Cursor[E]) HasNext() bool {
	if it.pred == nil {
		return it.next < it.c.Size()
	}
	if !it.probed {
		for it.next < it.c.Size() && !it.matches(it.next) {
			it.next++
		}
		it.probed = true
	}
	return it.next < it.c.Size()
}

// Next advances the cursor and returns the new current element.
func (it *Cursor[E]) Next() (*E, error) {
	if !it.HasNext() {
		return nil, ErrExhausted
	}
	it.cur = it.next
	it.next++
	it.probed = false
	return it.get(it.cur), nil
}

// Current returns the element last returned by Next, re-read from the cuboid.
func (it *Cursor[E]) Current() (*E, error) {
	if it.cur < 0 {
		return nil, ErrNoCurrent
	}
	return it.get(it.cur), nil
}

// CurrentByRef returns the palette entry of the current cell regardless of
// the cursor mode.
func (it *Cursor[E]) CurrentByRef() (*E, error) {
	if it.cur < 0 {
		return nil, ErrNoCurrent
	}
	return it.c.palette[it.c.indices[it.cur]], nil
}

// Index returns the flat index of the current element.
func (it *Cursor[E]) Index() (int, error) {
	if it.cur < 0 {
		return 0, ErrNoCurrent
	}
	return it.cur, nil
}

// XYZ returns the position of the current element.
func (it *Cursor[E]) XYZ() (Point, error) {
	if it.cur < 0 {
		return Point{}, ErrNoCurrent
	}
	return it.c.XYZOf(it.cur), nil
}

// X returns the x coordinate of the current element.
func (it *Cursor[E]) X() (int, error) {
	p, err := it.XYZ()
	return p.X, err
}

// Y returns the y coordinate of the current element.
func (it *Cursor[E]) Y() (int, error) {
	p, err := it.XYZ()
	return p.Y, err
}

// Z returns the z coordinate of the current element.
func (it *Cursor[E]) Z() (int, error) {
	p, err := it.XYZ()
	return p.Z, err
}

// Set replaces the value of the current cell, as Cuboid.Set does.
func (it *Cursor[E]) Set(v E) error {
	if it.cur < 0 {
		return ErrNoCurrent
	}
	return it.c.Set(it.cur, v)
}

// ByRef reports whether the cursor hands out palette entries.
func (it *Cursor[E]) ByRef() bool {
	return it.byRef
}
