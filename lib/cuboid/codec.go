package cuboid

import (
	"fmt"

	"github.com/ValentinKolb/palcube/lib/value"
)

// Data versions relevant to the packed layout.
const (
	// DataVersion1_16_20w17a is the first data version whose packed indices
	// never span a word boundary. Older versions are not supported.
	DataVersion1_16_20w17a = 2529
	// LatestDataVersion is used by the convenience functions that take no
	// explicit data version.
	LatestDataVersion = 3953
)

// sectionCells is the cell count from which the bit width is read from the
// word count instead of the palette length.
const sectionCells = 4096

// Packed is the serialized form of a cuboid: the dense palette and, if the
// palette has more than one entry, the bit-packed cell indices.
type Packed[E any] struct {
	Palette []E     `nbt:"palette" json:"palette"`
	Data    []int64 `nbt:"data,omitempty" json:"data,omitempty"`
}

// BitsPerValue returns the width a palette of paletteLen entries is packed
// with, 0 for palettes that need no data.
func BitsPerValue(paletteLen int) int {
	return log2Ceil(paletteLen)
}

// --------------------------------------------------------------------------
// Packing
// --------------------------------------------------------------------------

// Pack optimizes the palette and returns the packed form of c for the given
// data version. The palette values are cloned.
func (c *Cuboid[E]) Pack(dataVersion int) (*Packed[E], error) {
	if dataVersion < DataVersion1_16_20w17a {
		return nil, fmt.Errorf("%w: %d < %d", ErrUnsupportedVersion, dataVersion, DataVersion1_16_20w17a)
	}
	if _, err := c.OptimizePalette(); err != nil {
		return nil, err
	}

	p := &Packed[E]{Palette: make([]E, len(c.palette))}
	for i, v := range c.palette {
		p.Palette[i] = (*v).Clone()
	}
	if len(c.palette) > 1 {
		p.Data = packIndices(c.indices, BitsPerValue(len(c.palette)))
	}
	return p, nil
}

// ToPacked is Pack with LatestDataVersion.
func (c *Cuboid[E]) ToPacked() (*Packed[E], error) {
	return c.Pack(LatestDataVersion)
}

// packIndices packs indices low bits first into words of 64/bitsPerValue
// entries each. The remaining high bits of every word stay zero.
func packIndices(indices []int32, bitsPerValue int) []int64 {
	perWord := 64 / bitsPerValue
	words := make([]int64, (len(indices)+perWord-1)/perWord)
	for w, i := 0, 0; w < len(words); w++ {
		var word uint64
		for j := 0; j < perWord && i < len(indices); j, i = j+1, i+1 {
			word |= uint64(indices[i]) << (j * bitsPerValue)
		}
		words[w] = int64(word)
	}
	return words
}

// --------------------------------------------------------------------------
// Unpacking
// --------------------------------------------------------------------------

// FromPacked decodes a packed cuboid with the given edge length. The palette
// values of p are cloned, p may be decoded again or modified afterwards. A
// nil p yields a nil cuboid and no error.
func FromPacked[E value.Value[E]](p *Packed[E], edge int, dataVersion int) (*Cuboid[E], error) {
	if p == nil {
		return nil, nil
	}
	if dataVersion < DataVersion1_16_20w17a {
		return nil, fmt.Errorf("%w: %d < %d", ErrUnsupportedVersion, dataVersion, DataVersion1_16_20w17a)
	}
	if len(p.Palette) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrMalformedData)
	}
	if len(p.Data) == 0 && len(p.Palette) > 1 {
		return nil, fmt.Errorf("%w: missing data for palette of %d", ErrMalformedData, len(p.Palette))
	}

	c, err := newEmpty[E](edge)
	if err != nil {
		return nil, err
	}
	if len(p.Palette) == 1 {
		// indices are implicitly 0, data may be present but is ignored
		c.palette = []*E{clonePtr(p.Palette[0])}
		return c, nil
	}

	c.palette = make([]*E, len(p.Palette))
	for i := range p.Palette {
		c.palette[i] = clonePtr(p.Palette[i])
	}

	bitsPerValue := unpackWidth(c.Size(), len(p.Palette), len(p.Data))
	if bitsPerValue < 1 || bitsPerValue > 32 {
		return nil, fmt.Errorf("%w: %d words can't encode %d cells", ErrMalformedData, len(p.Data), c.Size())
	}
	perWord := 64 / bitsPerValue
	if expected := (c.Size() + perWord - 1) / perWord; expected != len(p.Data) {
		return nil, fmt.Errorf("%w: expected %d words at %d bits per value, got %d", ErrMalformedData, expected, bitsPerValue, len(p.Data))
	}

	mask := bitMask(bitsPerValue)
	for w, i := 0, 0; w < len(p.Data); w++ {
		word := uint64(p.Data[w])
		for j := 0; j < perWord && i < c.Size(); j, i = j+1, i+1 {
			slot := word & mask
			if slot >= uint64(len(p.Palette)) {
				return nil, fmt.Errorf("%w: cell %d references slot %d of %d", ErrMalformedData, i, slot, len(p.Palette))
			}
			c.indices[i] = int32(slot)
			word >>= bitsPerValue
		}
	}
	return c, nil
}

// FromPackedLatest is FromPacked with LatestDataVersion.
func FromPackedLatest[E value.Value[E]](p *Packed[E], edge int) (*Cuboid[E], error) {
	return FromPacked(p, edge, LatestDataVersion)
}

// unpackWidth recovers the bits per value of packed data.
//
// Full sections (>= 4096 cells) are written with a minimum width larger than
// the palette needs, so the width is read from the word count. Smaller
// cuboids (biomes) use the palette width. Widths sharing the same entries per
// word produce the same word count (11 and 12 bits both pack 5 per word), so
// the palette width wins whenever it is compatible with the word count.
func unpackWidth(cells, paletteLen, words int) int {
	fromPalette := BitsPerValue(paletteLen)
	if cells < sectionCells {
		return fromPalette
	}
	shift, err := log2Exact(cells / 64)
	if err != nil {
		return 0
	}
	fromWords := words >> shift
	if fromPalette >= 1 && fromWords >= 1 && fromWords <= 64 && 64/fromPalette == 64/fromWords {
		return fromPalette
	}
	return fromWords
}
