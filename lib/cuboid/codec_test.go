package cuboid

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/stretchr/testify/require"
)

func TestPackRoundTrip(t *testing.T) {
	tests := []struct {
		edge        int
		paletteSize int
		bits        int
	}{
		{edge: 4, paletteSize: 1, bits: 0},
		{edge: 4, paletteSize: 2, bits: 1},
		{edge: 4, paletteSize: 3, bits: 2},
		{edge: 4, paletteSize: 5, bits: 3},
		{edge: 4, paletteSize: 17, bits: 5},
		{edge: 4, paletteSize: 64, bits: 6},
		{edge: 16, paletteSize: 1, bits: 0},
		{edge: 16, paletteSize: 2, bits: 1},
		{edge: 16, paletteSize: 3, bits: 2},
		{edge: 16, paletteSize: 16, bits: 4},
		{edge: 16, paletteSize: 17, bits: 5},
		{edge: 16, paletteSize: 300, bits: 9},
		{edge: 16, paletteSize: 2048, bits: 11},
		{edge: 16, paletteSize: 3000, bits: 12},
		{edge: 16, paletteSize: 4096, bits: 12},
		{edge: 32, paletteSize: 33, bits: 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("edge=%d/palette=%d", tt.edge, tt.paletteSize), func(t *testing.T) {
			c, err := FromSlice(randomBiomes(tt.edge, tt.paletteSize, uint64(tt.paletteSize)))
			require.NoError(t, err)
			require.Equal(t, tt.paletteSize, c.PaletteLen())

			p, err := c.ToPacked()
			require.NoError(t, err)
			require.Len(t, p.Palette, tt.paletteSize)
			if tt.bits == 0 {
				require.Nil(t, p.Data)
			} else {
				perWord := 64 / tt.bits
				require.Len(t, p.Data, (c.Size()+perWord-1)/perWord)
			}

			got, err := FromPackedLatest(p, tt.edge)
			require.NoError(t, err)
			require.Equal(t, c.PaletteLen(), got.PaletteLen())
			require.Equal(t, c.ToSlice(), got.ToSlice())
		})
	}
}

func TestPackCompactsFirst(t *testing.T) {
	c := stripes(t, plains, desert, ocean, plains)
	require.True(t, c.Replace(desert, ocean))
	require.Equal(t, 3, c.PaletteLen())

	p, err := c.Pack(LatestDataVersion)
	require.NoError(t, err)
	require.Equal(t, []value.Biome{plains, ocean}, p.Palette)
	require.Len(t, p.Data, 1)

	got, err := FromPackedLatest(p, 4)
	require.NoError(t, err)
	require.Equal(t, 2, got.PaletteLen())
	require.Equal(t, c.ToSlice(), got.ToSlice())
}

func TestPackStoneAir(t *testing.T) {
	c, err := New(4, stone)
	require.NoError(t, err)
	c.SetXYZ(1, 0, 0, air)
	require.Equal(t, 2, c.PaletteLen())

	p, err := c.Pack(LatestDataVersion)
	require.NoError(t, err)
	require.Equal(t, []value.BlockState{stone, air}, p.Palette)
	// one bit per value, 64 values per word
	require.Equal(t, []int64{1 << 1}, p.Data)

	got, err := FromPacked(p, 4, LatestDataVersion)
	require.NoError(t, err)
	require.Equal(t, air, got.GetXYZ(1, 0, 0))
	for i := 0; i < got.Size(); i++ {
		if i == got.IndexOf(1, 0, 0) {
			continue
		}
		v, err := got.Get(i)
		require.NoError(t, err)
		require.Equal(t, stone, v, "cell %d", i)
	}
}

func TestPackHighBitsUnused(t *testing.T) {
	// 5 bits: 12 values per word, the top 4 bits stay zero
	c, err := FromSlice(randomBiomes(4, 17, 3))
	require.NoError(t, err)
	p, err := c.ToPacked()
	require.NoError(t, err)
	require.Len(t, p.Data, 6)
	for _, w := range p.Data {
		require.Zero(t, uint64(w)>>60)
	}
}

func TestUnpackSectionMinimumWidth(t *testing.T) {
	// full sections may be written with more bits than the palette needs
	indices := make([]int32, 4096)
	for i := range indices {
		indices[i] = int32(i % 2)
	}
	p := &Packed[value.BlockState]{
		Palette: []value.BlockState{air, stone},
		Data:    packIndices(indices, 4),
	}
	require.Len(t, p.Data, 256)

	c, err := FromPackedLatest(p, 16)
	require.NoError(t, err)
	for i := 0; i < c.Size(); i++ {
		v, err := c.Get(i)
		require.NoError(t, err)
		require.Equal(t, []value.BlockState{air, stone}[i%2], v, "cell %d", i)
	}
}

func TestUnpackWidth(t *testing.T) {
	tests := []struct {
		cells, paletteLen, words, want int
	}{
		{cells: 64, paletteLen: 2, words: 1, want: 1},
		{cells: 64, paletteLen: 17, words: 6, want: 5},
		{cells: 4096, paletteLen: 2, words: 64, want: 1},
		{cells: 4096, paletteLen: 2, words: 256, want: 4},
		{cells: 4096, paletteLen: 17, words: 342, want: 5},
		{cells: 4096, paletteLen: 2048, words: 820, want: 11},
		{cells: 4096, paletteLen: 3000, words: 820, want: 12},
		{cells: 4096, paletteLen: 5, words: 820, want: 12},
		{cells: 4096, paletteLen: 2, words: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d/%d", tt.cells, tt.paletteLen, tt.words), func(t *testing.T) {
			require.Equal(t, tt.want, unpackWidth(tt.cells, tt.paletteLen, tt.words))
		})
	}
}

func TestPackedSinglePalette(t *testing.T) {
	p := &Packed[value.Biome]{Palette: []value.Biome{ocean}, Data: []int64{-1, -1}}
	c, err := FromPackedLatest(p, 4)
	require.NoError(t, err)
	require.Equal(t, 1, c.PaletteLen())
	for _, v := range c.ToSlice() {
		require.Equal(t, ocean, v)
	}

	// never written
	out, err := c.ToPacked()
	require.NoError(t, err)
	require.Nil(t, out.Data)
}

func TestFromPackedNil(t *testing.T) {
	c, err := FromPackedLatest[value.Biome](nil, 4)
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestFromPackedOwnsPalette(t *testing.T) {
	src, err := New(4, stone)
	require.NoError(t, err)
	src.SetXYZ(1, 0, 0, air)
	p, err := src.ToPacked()
	require.NoError(t, err)

	a, err := FromPackedLatest(p, 4)
	require.NoError(t, err)
	b, err := FromPackedLatest(p, 4)
	require.NoError(t, err)

	ref, err := a.GetByRef(0)
	require.NoError(t, err)
	ref.SetProperty("k", "v")

	got, err := b.Get(0)
	require.NoError(t, err)
	require.Equal(t, stone, got)
	require.Equal(t, stone, p.Palette[0])
	require.Equal(t, stone, src.GetXYZ(0, 0, 0))

	// single entry palettes take the other path
	single := &Packed[value.BlockState]{Palette: []value.BlockState{stone}}
	c, err := FromPackedLatest(single, 4)
	require.NoError(t, err)
	c.GetByRefXYZ(0, 0, 0).SetProperty("k", "v")
	require.Equal(t, stone, single.Palette[0])
}

func TestBitsPerValue(t *testing.T) {
	tests := []struct {
		paletteLen int
		want       int
	}{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {16, 4}, {17, 5},
		{1024, 10}, {1025, 11}, {2048, 11}, {2049, 12}, {4096, 12},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BitsPerValue(tt.paletteLen), "palette of %d", tt.paletteLen)
	}
}

func TestVersionGate(t *testing.T) {
	c, err := New(4, plains)
	require.NoError(t, err)

	_, err = c.Pack(DataVersion1_16_20w17a - 1)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
	_, err = c.Pack(DataVersion1_16_20w17a)
	require.NoError(t, err)

	p := &Packed[value.Biome]{Palette: []value.Biome{plains}}
	_, err = FromPacked(p, 4, 1976)
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	var buf bytes.Buffer
	require.ErrorIs(t, c.WriteNBT(&buf, "", 100), ErrUnsupportedVersion)
}

func TestFromPackedMalformed(t *testing.T) {
	tests := []struct {
		name string
		p    *Packed[value.Biome]
		edge int
		want error
	}{
		{
			name: "empty palette",
			p:    &Packed[value.Biome]{Data: []int64{0}},
			edge: 4,
			want: ErrMalformedData,
		},
		{
			name: "missing data",
			p:    &Packed[value.Biome]{Palette: []value.Biome{plains, desert}},
			edge: 4,
			want: ErrMalformedData,
		},
		{
			name: "too many words",
			p:    &Packed[value.Biome]{Palette: []value.Biome{plains, desert}, Data: []int64{0, 0}},
			edge: 4,
			want: ErrMalformedData,
		},
		{
			name: "too few words for section",
			p:    &Packed[value.Biome]{Palette: []value.Biome{plains, desert}, Data: make([]int64, 5)},
			edge: 16,
			want: ErrMalformedData,
		},
		{
			name: "width above 32 bits",
			p:    &Packed[value.Biome]{Palette: []value.Biome{plains, desert}, Data: make([]int64, 64*40)},
			edge: 16,
			want: ErrMalformedData,
		},
		{
			name: "index outside palette",
			p:    &Packed[value.Biome]{Palette: []value.Biome{plains, desert, ocean}, Data: []int64{3, 0}},
			edge: 4,
			want: ErrMalformedData,
		},
		{
			name: "edge not a power of two",
			p:    &Packed[value.Biome]{Palette: []value.Biome{plains}},
			edge: 5,
			want: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromPackedLatest(tt.p, tt.edge)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, c)
		})
	}
}

// --------------------------------------------------------------------------
// NBT
// --------------------------------------------------------------------------

func TestNBTRoundTrip(t *testing.T) {
	t.Run("biomes", func(t *testing.T) {
		c, err := FromSlice(randomBiomes(4, 7, 4))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, c.WriteNBT(&buf, "biomes", LatestDataVersion))

		got, name, err := ReadNBT[value.Biome](&buf, 4, LatestDataVersion)
		require.NoError(t, err)
		require.Equal(t, "biomes", name)
		require.Equal(t, c.ToSlice(), got.ToSlice())
	})

	t.Run("block states", func(t *testing.T) {
		c := stripes(t, stone, water, value.NewBlockState("minecraft:oak_log", "axis", "x"), air)
		big, err := New(16, air)
		require.NoError(t, err)
		require.NoError(t, big.SetRange(Point{0, 0, 0}, water, Point{15, 3, 15}))
		big.SetXYZ(7, 8, 9, stone)

		for _, cub := range []*Cuboid[value.BlockState]{c, big} {
			var buf bytes.Buffer
			require.NoError(t, cub.WriteNBT(&buf, "block_states", LatestDataVersion))

			got, _, err := ReadNBT[value.BlockState](&buf, cub.EdgeLength(), LatestDataVersion)
			require.NoError(t, err)
			require.Equal(t, cub.PaletteLen(), got.PaletteLen())
			for i := 0; i < cub.Size(); i++ {
				want, _ := cub.Get(i)
				have, _ := got.Get(i)
				require.True(t, want.Equal(have), "cell %d: %v != %v", i, want, have)
			}
		}
	})

	t.Run("single value", func(t *testing.T) {
		c, err := New(4, ocean)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, c.WriteNBT(&buf, "", LatestDataVersion))
		got, _, err := ReadNBT[value.Biome](&buf, 4, LatestDataVersion)
		require.NoError(t, err)
		require.Equal(t, 1, got.PaletteLen())
		require.Equal(t, ocean, got.GetXYZ(3, 3, 3))
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := ReadNBT[value.Biome](bytes.NewReader([]byte{0xff, 0x00}), 4, LatestDataVersion)
		require.ErrorIs(t, err, ErrMalformedData)
	})
}
