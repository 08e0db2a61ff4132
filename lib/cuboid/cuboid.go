package cuboid

import (
	"fmt"

	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("cuboid")

// Predicate tests a palette value. Predicates must not modify the value.
type Predicate[E any] func(v E) bool

// --------------------------------------------------------------------------
// Core Cuboid structure
// --------------------------------------------------------------------------

// Cuboid is a cube of EdgeLength()^3 cells that stores each distinct value
// once in a palette and one palette index per cell.
//
// The palette may contain holes (nil slots) left behind by mutations. Holes
// are never referenced by a cell and are removed by OptimizePalette, which
// Pack and Clone call implicitly.
//
// Thread-safety: a Cuboid is not safe for concurrent use.
type Cuboid[E value.Value[E]] struct {
	edge   int
	mask   int
	zShift int
	yShift int

	palette []*E    // slot -> value, nil marks a hole
	indices []int32 // cell -> slot
}

// newEmpty allocates a cuboid with an empty palette. The caller must fill
// the palette before handing the cuboid out.
func newEmpty[E value.Value[E]](edge int) (*Cuboid[E], error) {
	if err := ValidateEdge(edge); err != nil {
		return nil, err
	}
	b, _ := log2Exact(edge)
	return &Cuboid[E]{
		edge:    edge,
		mask:    edge - 1,
		zShift:  b,
		yShift:  b * 2,
		indices: make([]int32, edge*edge*edge),
	}, nil
}

// New creates a cuboid of edge^3 cells, all set to a clone of fill.
// The edge length must be a power of two, typically 16 (blocks) or 4 (biomes).
func New[E value.Value[E]](edge int, fill E) (*Cuboid[E], error) {
	c, err := newEmpty[E](edge)
	if err != nil {
		return nil, err
	}
	c.palette = []*E{clonePtr(fill)}
	return c, nil
}

// FromSlice creates a cuboid from one value per cell. The length of values
// must be a cube whose root is a power of two (e.g. 4096 = 16^3, 64 = 4^3).
// Values are cloned; repeated values share one palette slot, in order of
// first appearance.
func FromSlice[E value.Value[E]](values []E) (*Cuboid[E], error) {
	edge, err := cubeRoot(len(values))
	if err != nil {
		return nil, err
	}
	c, err := newEmpty[E](edge)
	if err != nil {
		return nil, err
	}

	// hash -> candidate slots, resolved with Equal
	lookup := make(map[uint64][]int32)
	for i, v := range values {
		h := v.Hash()
		slot := int32(-1)
		for _, candidate := range lookup[h] {
			if (*c.palette[candidate]).Equal(v) {
				slot = candidate
				break
			}
		}
		if slot < 0 {
			slot = int32(len(c.palette))
			c.palette = append(c.palette, clonePtr(v))
			lookup[h] = append(lookup[h], slot)
		}
		c.indices[i] = slot
	}
	return c, nil
}

func clonePtr[E value.Value[E]](v E) *E {
	cl := v.Clone()
	return &cl
}

// --------------------------------------------------------------------------
// Size and Palette Information
// --------------------------------------------------------------------------

// Size returns the number of cells (e.g. 64 for a 4x4x4 cuboid).
func (c *Cuboid[E]) Size() int {
	return len(c.indices)
}

// EdgeLength returns the length of one edge (e.g. 4 for a 4x4x4 cuboid).
func (c *Cuboid[E]) EdgeLength() int {
	return c.edge
}

// PaletteLen returns the current palette length including holes. Call
// OptimizePalette first for an exact count of distinct values.
func (c *Cuboid[E]) PaletteLen() int {
	return len(c.palette)
}

// Contains reports whether v is a live palette entry. A value that is no
// longer referenced by any cell may still be reported until the palette is
// optimized.
func (c *Cuboid[E]) Contains(v E) bool {
	return c.slotOf(v) >= 0
}

// slotOf returns the first live slot equal to v or -1.
func (c *Cuboid[E]) slotOf(v E) int {
	for i, p := range c.palette {
		if p != nil && (*p).Equal(v) {
			return i
		}
	}
	return -1
}

// slotFor returns the slot holding v, appending a clone of v if needed.
func (c *Cuboid[E]) slotFor(v E) int32 {
	if slot := c.slotOf(v); slot >= 0 {
		return int32(slot)
	}
	c.palette = append(c.palette, clonePtr(v))
	return int32(len(c.palette) - 1)
}

// --------------------------------------------------------------------------
// Cell Access
// --------------------------------------------------------------------------

func (c *Cuboid[E]) checkIndex(index int) error {
	if index < 0 || index >= len(c.indices) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfBounds, index, len(c.indices))
	}
	return nil
}

// Get returns a clone of the value at index. Modifying the returned value has
// no effect on the cuboid. Use GetByRef to avoid the copy.
func (c *Cuboid[E]) Get(index int) (E, error) {
	if err := c.checkIndex(index); err != nil {
		var zero E
		return zero, err
	}
	return (*c.palette[c.indices[index]]).Clone(), nil
}

// GetXYZ returns a clone of the value at x, y, z. Coordinates are wrapped.
func (c *Cuboid[E]) GetXYZ(x, y, z int) E {
	return (*c.palette[c.indices[c.IndexOf(x, y, z)]]).Clone()
}

// GetByRef returns the palette entry used by the cell at index.
//
// WARNING: modifying the returned value modifies every cell that references
// the same palette entry. The pointer must not be used across OptimizePalette
// or any other mutation.
func (c *Cuboid[E]) GetByRef(index int) (*E, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	return c.palette[c.indices[index]], nil
}

// GetByRefXYZ is GetByRef with wrapped coordinates. Same warning applies.
func (c *Cuboid[E]) GetByRefXYZ(x, y, z int) *E {
	return c.palette[c.indices[c.IndexOf(x, y, z)]]
}

// Set replaces the value at index. If no equal value is in the palette a clone
// of v is added.
func (c *Cuboid[E]) Set(index int, v E) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.indices[index] = c.slotFor(v)
	return nil
}

// SetXYZ replaces the value at x, y, z. Coordinates are wrapped.
func (c *Cuboid[E]) SetXYZ(x, y, z int, v E) {
	c.indices[c.IndexOf(x, y, z)] = c.slotFor(v)
}

// SetRange sets every cell of the inclusive box spanned by p1 and p2 to v.
// The corners may be given in any order but must lie inside the cuboid,
// wrapping a box would produce strange artifacts.
func (c *Cuboid[E]) SetRange(p1 Point, v E, p2 Point) error {
	if !c.inBounds(p1) || !c.inBounds(p2) {
		return fmt.Errorf("%w: box %v..%v not inside edge %d", ErrOutOfBounds, p1, p2, c.edge)
	}
	lo := Point{min(p1.X, p2.X), min(p1.Y, p2.Y), min(p1.Z, p2.Z)}
	hi := Point{max(p1.X, p2.X), max(p1.Y, p2.Y), max(p1.Z, p2.Z)}

	if (hi.X-lo.X+1)*(hi.Y-lo.Y+1)*(hi.Z-lo.Z+1) == c.Size() {
		c.Fill(v)
		return nil
	}

	slot := c.slotFor(v)

	// full xz planes are contiguous in the index array
	if lo.X == 0 && lo.Z == 0 && hi.X == c.edge-1 && hi.Z == c.edge-1 {
		start, end := c.IndexOf(0, lo.Y, 0), c.IndexOf(hi.X, hi.Y, hi.Z)
		for i := start; i <= end; i++ {
			c.indices[i] = slot
		}
		return nil
	}

	for y := lo.Y; y <= hi.Y; y++ {
		for z := lo.Z; z <= hi.Z; z++ {
			for x := lo.X; x <= hi.X; x++ {
				c.indices[c.IndexOf(x, y, z)] = slot
			}
		}
	}
	return nil
}

// Fill sets the entire volume to a clone of v and resets the palette to it.
func (c *Cuboid[E]) Fill(v E) {
	c.palette = []*E{clonePtr(v)}
	clear(c.indices)
}

// --------------------------------------------------------------------------
// Bulk Access
// --------------------------------------------------------------------------

// ToSlice returns a clone of the value of every cell, in index order.
func (c *Cuboid[E]) ToSlice() []E {
	out := make([]E, len(c.indices))
	for i, slot := range c.indices {
		out[i] = (*c.palette[slot]).Clone()
	}
	return out
}

// ToSliceByRef returns the palette entry of every cell, in index order.
//
// WARNING: modifying a returned value modifies every cell that references the
// same palette entry. Modifying the returned slice itself is safe.
func (c *Cuboid[E]) ToSliceByRef() []*E {
	out := make([]*E, len(c.indices))
	for i, slot := range c.indices {
		out[i] = c.palette[slot]
	}
	return out
}

// Clone optimizes the palette of c and returns an independent deep copy.
func (c *Cuboid[E]) Clone() (*Cuboid[E], error) {
	if _, err := c.OptimizePalette(); err != nil {
		return nil, err
	}
	cl := &Cuboid[E]{
		edge:    c.edge,
		mask:    c.mask,
		zShift:  c.zShift,
		yShift:  c.yShift,
		palette: make([]*E, len(c.palette)),
		indices: make([]int32, len(c.indices)),
	}
	for i, p := range c.palette {
		cl.palette[i] = clonePtr(*p)
	}
	copy(cl.indices, c.indices)
	return cl, nil
}
