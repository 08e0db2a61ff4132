package cuboid

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// OptimizePalette removes unused palette entries and remaps the cell indices
// so the palette is dense again. Any pointer obtained by reference before the
// call must be considered invalid afterwards.
//
// Returns true if the palette changed. ErrPaletteCorrupted is returned if a
// cell references a slot that does not exist or is a hole; the cuboid is
// unusable in that case.
func (c *Cuboid[E]) OptimizePalette() (bool, error) {
	seen := bitset.New(uint(len(c.palette)))
	for i, slot := range c.indices {
		if slot < 0 || int(slot) >= len(c.palette) {
			return false, fmt.Errorf("%w: cell %d references slot %d of %d", ErrPaletteCorrupted, i, slot, len(c.palette))
		}
		if c.palette[slot] == nil {
			return false, fmt.Errorf("%w: cell %d references hole %d", ErrPaletteCorrupted, i, slot)
		}
		seen.Set(uint(slot))
	}

	if seen.Count() == uint(len(c.palette)) {
		return false, nil
	}

	// compact in place, next <= i at all times
	remap := make([]int32, len(c.palette))
	next := 0
	for i := range c.palette {
		if c.palette[i] == nil || !seen.Test(uint(i)) {
			continue
		}
		remap[i] = int32(next)
		c.palette[next] = c.palette[i]
		next++
	}
	removed := len(c.palette) - next
	clear(c.palette[next:])
	c.palette = c.palette[:next]

	for i, slot := range c.indices {
		c.indices[i] = remap[slot]
	}

	Logger.Debugf("optimized palette: removed %d slots, %d remain", removed, next)
	return true, nil
}
