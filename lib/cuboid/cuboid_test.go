package cuboid

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/stretchr/testify/require"
)

var (
	stone = value.NewBlockState("minecraft:stone")
	air   = value.NewBlockState("minecraft:air")
	dirt  = value.NewBlockState("minecraft:dirt")
	water = value.NewBlockState("minecraft:water", "level", "0")

	plains = value.Biome("minecraft:plains")
	desert = value.Biome("minecraft:desert")
	ocean  = value.Biome("minecraft:ocean")
)

func isValue[E value.Value[E]](v E) Predicate[E] {
	return func(other E) bool { return other.Equal(v) }
}

// countOf counts cells equal to v and fails the test on error
func countOf[E value.Value[E]](t *testing.T, c *Cuboid[E], v E) int {
	t.Helper()
	n, err := c.CountIf(isValue(v))
	require.NoError(t, err)
	return n
}

// randomBiomes creates edge^3 biomes drawn from paletteSize distinct ids
func randomBiomes(edge, paletteSize int, seed uint64) []value.Biome {
	r := rand.New(rand.NewPCG(seed, seed))
	values := make([]value.Biome, edge*edge*edge)
	for i := range values {
		// make sure every id appears at least once
		id := i
		if i >= paletteSize {
			id = r.IntN(paletteSize)
		}
		values[i] = value.Biome(fmt.Sprintf("biome:%d", id))
	}
	return values
}

// --------------------------------------------------------------------------
// Construction
// --------------------------------------------------------------------------

func TestNew(t *testing.T) {
	tests := []struct {
		edge    int
		wantErr bool
	}{
		{edge: 1},
		{edge: 4},
		{edge: 16},
		{edge: 0, wantErr: true},
		{edge: 3, wantErr: true},
		{edge: 12, wantErr: true},
		{edge: -4, wantErr: true},
		{edge: 2048, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("edge=%d", tt.edge), func(t *testing.T) {
			c, err := New(tt.edge, plains)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.edge, c.EdgeLength())
			require.Equal(t, tt.edge*tt.edge*tt.edge, c.Size())
			require.Equal(t, 1, c.PaletteLen())
		})
	}
}

func TestFromSliceDedup(t *testing.T) {
	values := make([]value.Biome, 64)
	for i := range values {
		values[i] = plains
		if i%3 == 0 {
			values[i] = desert
		}
	}

	c, err := FromSlice(values)
	require.NoError(t, err)
	require.Equal(t, 4, c.EdgeLength())
	require.Equal(t, 2, c.PaletteLen())

	// discovery order: index 0 is desert
	first, err := c.GetByRef(0)
	require.NoError(t, err)
	require.Equal(t, desert, *first)
	require.Equal(t, values, c.ToSlice())
}

func TestFromSliceInvalidLength(t *testing.T) {
	for _, n := range []int{0, 63, 27, 1000} {
		_, err := FromSlice(make([]value.Biome, n))
		require.ErrorIs(t, err, ErrInvalidArgument, "length %d", n)
	}
}

func TestFromSliceClonesValues(t *testing.T) {
	values := make([]value.BlockState, 8)
	for i := range values {
		values[i] = value.NewBlockState("minecraft:oak_log", "axis", "y")
	}
	c, err := FromSlice(values)
	require.NoError(t, err)

	values[0].SetProperty("axis", "x")
	v, err := c.Get(0)
	require.NoError(t, err)
	prop, _ := v.Property("axis")
	require.Equal(t, "y", prop)
}

// --------------------------------------------------------------------------
// Coordinates
// --------------------------------------------------------------------------

func TestCoordinateRoundTrip(t *testing.T) {
	for _, edge := range []int{4, 16} {
		t.Run(fmt.Sprintf("edge=%d", edge), func(t *testing.T) {
			c, err := New(edge, plains)
			require.NoError(t, err)
			for i := 0; i < c.Size(); i++ {
				p := c.XYZOf(i)
				require.Equal(t, i, c.IndexOfPoint(p))
				require.Equal(t, i, c.IndexOf(p.X, p.Y, p.Z))
			}
		})
	}
}

func TestCoordinateLayout(t *testing.T) {
	c, err := New(16, plains)
	require.NoError(t, err)

	require.Equal(t, 1, c.IndexOf(1, 0, 0))
	require.Equal(t, 16, c.IndexOf(0, 0, 1))
	require.Equal(t, 256, c.IndexOf(0, 1, 0))
	require.Equal(t, Point{X: 15, Y: 15, Z: 15}, c.XYZOf(4095))
}

func TestCoordinateWrap(t *testing.T) {
	c, err := New(16, plains)
	require.NoError(t, err)

	require.Equal(t, c.IndexOf(4, 0, 0), c.IndexOf(20, 0, 0))
	require.Equal(t, c.IndexOf(15, 15, 15), c.IndexOf(-1, -1, -1))
	require.Equal(t, Point{X: 4, Y: 1, Z: 15}, c.Wrap(20, 17, -1))

	c.SetXYZ(20, 0, 0, desert)
	require.Equal(t, desert, c.GetXYZ(4, 0, 0))
}

// --------------------------------------------------------------------------
// Cell Access
// --------------------------------------------------------------------------

func TestFill(t *testing.T) {
	c, err := FromSlice(randomBiomes(4, 5, 1))
	require.NoError(t, err)

	c.Fill(ocean)
	require.Equal(t, 1, c.PaletteLen())
	for i := 0; i < c.Size(); i++ {
		v, err := c.Get(i)
		require.NoError(t, err)
		require.Equal(t, ocean, v)
	}
}

func TestGetSetBounds(t *testing.T) {
	c, err := New(4, plains)
	require.NoError(t, err)

	for _, i := range []int{-1, 64, 1000} {
		_, err := c.Get(i)
		require.ErrorIs(t, err, ErrOutOfBounds)
		_, err = c.GetByRef(i)
		require.ErrorIs(t, err, ErrOutOfBounds)
		require.ErrorIs(t, c.Set(i, desert), ErrOutOfBounds)
	}

	require.NoError(t, c.Set(63, desert))
	require.Equal(t, 2, c.PaletteLen())
	require.True(t, c.Contains(desert))

	// setting an existing value reuses its slot
	require.NoError(t, c.Set(0, desert))
	require.Equal(t, 2, c.PaletteLen())
}

func TestGetReturnsClone(t *testing.T) {
	c, err := New(4, water)
	require.NoError(t, err)

	v, err := c.Get(5)
	require.NoError(t, err)
	v.SetProperty("level", "7")

	require.Equal(t, water, c.GetXYZ(0, 0, 0))
}

func TestAliasByRef(t *testing.T) {
	c, err := New(4, water)
	require.NoError(t, err)

	a, err := c.GetByRef(c.IndexOf(0, 0, 0))
	require.NoError(t, err)
	b := c.GetByRefXYZ(3, 3, 3)
	require.Same(t, a, b)

	a.SetProperty("level", "7")

	for _, p := range []Point{{0, 0, 0}, {3, 3, 3}, {1, 2, 3}} {
		got := c.GetXYZ(p.X, p.Y, p.Z)
		level, _ := got.Property("level")
		require.Equal(t, "7", level, "cell %v", p)
	}
}

func TestSetRange(t *testing.T) {
	tests := []struct {
		name    string
		p1, p2  Point
		want    int
		wantErr bool
	}{
		{name: "single", p1: Point{1, 1, 1}, p2: Point{1, 1, 1}, want: 1},
		{name: "box", p1: Point{0, 0, 0}, p2: Point{1, 2, 3}, want: 2 * 3 * 4},
		{name: "swapped", p1: Point{3, 2, 1}, p2: Point{1, 0, 0}, want: 3 * 3 * 2},
		{name: "layers", p1: Point{0, 1, 0}, p2: Point{3, 2, 3}, want: 2 * 16},
		{name: "full", p1: Point{3, 3, 3}, p2: Point{0, 0, 0}, want: 64},
		{name: "outside", p1: Point{0, 0, 0}, p2: Point{4, 0, 0}, wantErr: true},
		{name: "negative", p1: Point{-1, 0, 0}, p2: Point{1, 0, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(4, plains)
			require.NoError(t, err)

			err = c.SetRange(tt.p1, desert, tt.p2)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOutOfBounds)
				require.Equal(t, 64, countOf(t, c, plains))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, countOf(t, c, desert))
			require.Equal(t, 64-tt.want, countOf(t, c, plains))

			// every cell inside the box is desert
			lo := Point{min(tt.p1.X, tt.p2.X), min(tt.p1.Y, tt.p2.Y), min(tt.p1.Z, tt.p2.Z)}
			hi := Point{max(tt.p1.X, tt.p2.X), max(tt.p1.Y, tt.p2.Y), max(tt.p1.Z, tt.p2.Z)}
			for i := 0; i < c.Size(); i++ {
				p := c.XYZOf(i)
				inside := p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y && p.Z >= lo.Z && p.Z <= hi.Z
				v, _ := c.Get(i)
				require.Equal(t, inside, v == desert, "cell %v", p)
			}
		})
	}
}

func TestToSliceByRef(t *testing.T) {
	c, err := FromSlice(randomBiomes(4, 3, 2))
	require.NoError(t, err)

	refs := c.ToSliceByRef()
	require.Len(t, refs, c.Size())
	for i, r := range refs {
		ref, err := c.GetByRef(i)
		require.NoError(t, err)
		require.Same(t, ref, r)
	}
}

func TestClone(t *testing.T) {
	c, err := New(4, water)
	require.NoError(t, err)
	require.NoError(t, c.Set(0, stone))
	c.Replace(stone, dirt) // leaves a hole

	cl, err := c.Clone()
	require.NoError(t, err)
	require.Equal(t, 2, c.PaletteLen(), "source is compacted")
	require.Equal(t, c.ToSlice(), cl.ToSlice())

	ref := cl.GetByRefXYZ(1, 0, 0)
	ref.SetProperty("level", "3")
	require.Equal(t, water, c.GetXYZ(1, 0, 0))
}
