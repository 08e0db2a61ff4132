package cuboid

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// --------------------------------------------------------------------------
// Bulk Replacement
// --------------------------------------------------------------------------

// Replace replaces every occurrence of old with replacement. The palette slot
// of old becomes a hole if at least one cell was rewritten.
// Returns true if any cell changed.
func (c *Cuboid[E]) Replace(old, replacement E) bool {
	if old.Equal(replacement) {
		return false
	}
	slot := c.slotOf(old)
	if slot < 0 {
		return false
	}
	set := bitset.New(uint(len(c.palette)))
	set.Set(uint(slot))
	return c.replaceSlots(set, replacement)
}

// ReplaceAll replaces every occurrence of any of values with replacement.
// Returns true if any cell changed.
func (c *Cuboid[E]) ReplaceAll(values []E, replacement E) bool {
	set := bitset.New(uint(len(c.palette)))
	for _, v := range values {
		if slot := c.slotOf(v); slot >= 0 {
			set.Set(uint(slot))
		}
	}
	return c.replaceSlots(set, replacement)
}

// ReplaceIf replaces every value matching pred with replacement. pred is
// called once per live palette entry, not once per cell.
// Returns true if any cell changed.
func (c *Cuboid[E]) ReplaceIf(pred Predicate[E], replacement E) bool {
	set := bitset.New(uint(len(c.palette)))
	for i, p := range c.palette {
		if p != nil && pred(*p) {
			set.Set(uint(i))
		}
	}
	return c.replaceSlots(set, replacement)
}

// RetainAll replaces every value NOT in keep with replacement.
// Returns true if any cell changed.
func (c *Cuboid[E]) RetainAll(keep []E, replacement E) bool {
	set := bitset.New(uint(len(c.palette)))
	for i, p := range c.palette {
		if p != nil {
			set.Set(uint(i))
		}
	}
	for _, v := range keep {
		if slot := c.slotOf(v); slot >= 0 {
			set.Clear(uint(slot))
		}
	}
	return c.replaceSlots(set, replacement)
}

// replaceSlots points every cell referencing a slot in set at replacement
// and turns the slots in set into holes. The slot of replacement itself is
// never retired.
func (c *Cuboid[E]) replaceSlots(set *bitset.BitSet, replacement E) bool {
	target := int32(c.slotOf(replacement))
	if target >= 0 {
		set.Clear(uint(target))
	}
	if set.None() {
		return false
	}

	appendTarget := target < 0
	if appendTarget {
		target = int32(len(c.palette))
	}

	modified := false
	for i, slot := range c.indices {
		if set.Test(uint(slot)) {
			c.indices[i] = target
			modified = true
		}
	}
	if !modified {
		return false
	}

	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		c.palette[i] = nil
	}
	if appendTarget {
		c.palette = append(c.palette, clonePtr(replacement))
	}
	return true
}

// --------------------------------------------------------------------------
// Counting
// --------------------------------------------------------------------------

// CountIf returns the number of cells whose value matches pred. pred is
// called once per live palette entry and must not modify the value; a value
// whose hash changes during the call fails with ErrPaletteCorrupted.
func (c *Cuboid[E]) CountIf(pred Predicate[E]) (int, error) {
	matching := bitset.New(uint(len(c.palette)))
	for i, p := range c.palette {
		if p == nil {
			continue
		}
		before := (*p).Hash()
		ok := pred(*p)
		if (*p).Hash() != before {
			return 0, fmt.Errorf("%w: predicate modified palette entry %d", ErrPaletteCorrupted, i)
		}
		if ok {
			matching.Set(uint(i))
		}
	}
	if matching.None() {
		return 0, nil
	}

	count := 0
	for _, slot := range c.indices {
		if matching.Test(uint(slot)) {
			count++
		}
	}
	return count, nil
}
