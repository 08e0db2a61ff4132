package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/stretchr/testify/require"
)

var (
	air     = value.NewBlockState("minecraft:air")
	stone   = value.NewBlockState("minecraft:stone")
	bedrock = value.NewBlockState("minecraft:bedrock")
)

func newTestStore(t *testing.T, name string) *SectionStore[value.BlockState] {
	t.Helper()
	opts := DefaultOptions()
	opts.Name = name
	s, err := NewSectionStore[value.BlockState](opts)
	require.NoError(t, err)
	return s
}

func newSection(t *testing.T, fill value.BlockState) *cuboid.Cuboid[value.BlockState] {
	t.Helper()
	c, err := cuboid.New(16, fill)
	require.NoError(t, err)
	return c
}

func TestNewSectionStoreInvalidEdge(t *testing.T) {
	_, err := NewSectionStore[value.Biome](&Options{Name: "bad", Edge: 6})
	require.Error(t, err)
	require.ErrorIs(t, err, cuboid.ErrInvalidArgument)

	var storeErr *Error
	require.True(t, errors.As(err, &storeErr))
	require.Equal(t, RetCInvalidOperation, storeErr.Code)
}

func TestPutGet(t *testing.T) {
	s := newTestStore(t, "put-get")
	key := SectionKey{X: 1, Y: -4, Z: 7}

	_, ok, err := s.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, s.Has(key))

	require.NoError(t, s.Put(key, newSection(t, stone)))
	require.True(t, s.Has(key))
	require.Equal(t, 1, s.Len())

	c, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stone, c.GetXYZ(0, 0, 0))

	// the returned cuboid is a copy
	c.Fill(air)
	c2, _, err := s.Get(key)
	require.NoError(t, err)
	require.Equal(t, stone, c2.GetXYZ(0, 0, 0))
}

func TestPutInvalid(t *testing.T) {
	s := newTestStore(t, "put-invalid")

	err := s.Put(SectionKey{}, nil)
	require.Equal(t, RetCInvalidOperation, err.(*Error).Code)

	small, err := cuboid.New(4, air)
	require.NoError(t, err)
	err = s.Put(SectionKey{}, small)
	require.Equal(t, RetCInvalidOperation, err.(*Error).Code)
	require.Equal(t, 0, s.Len())
}

func TestUpdateAndView(t *testing.T) {
	s := newTestStore(t, "update-view")
	key := SectionKey{Y: -4}

	err := s.Update(key, func(*cuboid.Cuboid[value.BlockState]) error { return nil })
	require.True(t, IsNotFound(err))
	err = s.View(key, func(*cuboid.Cuboid[value.BlockState]) error { return nil })
	require.True(t, IsNotFound(err))

	require.NoError(t, s.UpdateOrCreate(key, air, func(c *cuboid.Cuboid[value.BlockState]) error {
		return c.SetRange(cuboid.Point{}, bedrock, cuboid.Point{X: 15, Z: 15})
	}))
	require.NoError(t, s.Update(key, func(c *cuboid.Cuboid[value.BlockState]) error {
		c.Replace(air, stone)
		return nil
	}))

	require.NoError(t, s.View(key, func(c *cuboid.Cuboid[value.BlockState]) error {
		n, err := c.CountIf(func(b value.BlockState) bool { return b.Equal(stone) })
		require.NoError(t, err)
		require.Equal(t, 4096-256, n)
		return nil
	}))

	// errors of fn are passed through
	sentinel := errors.New("boom")
	require.ErrorIs(t, s.Update(key, func(*cuboid.Cuboid[value.BlockState]) error { return sentinel }), sentinel)
}

func TestUpdateOrCreateConcurrent(t *testing.T) {
	s := newTestStore(t, "concurrent")
	key := SectionKey{}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 64; i++ {
				idx := g*64 + i
				err := s.UpdateOrCreate(key, air, func(c *cuboid.Cuboid[value.BlockState]) error {
					return c.Set(idx, stone)
				})
				require.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 1, s.Len())
	require.NoError(t, s.View(key, func(c *cuboid.Cuboid[value.BlockState]) error {
		n, err := c.CountIf(func(b value.BlockState) bool { return b.Equal(stone) })
		require.NoError(t, err)
		require.Equal(t, 8*64, n)
		return nil
	}))
}

func TestDeleteRangeClear(t *testing.T) {
	s := newTestStore(t, "delete-range")
	for y := int32(-4); y < 4; y++ {
		require.NoError(t, s.Put(SectionKey{Y: y}, newSection(t, air)))
	}
	require.Equal(t, 8, s.Len())

	require.True(t, s.Delete(SectionKey{Y: 0}))
	require.False(t, s.Delete(SectionKey{Y: 0}))

	seen := 0
	s.Range(func(key SectionKey, c *cuboid.Cuboid[value.BlockState]) bool {
		require.NotEqual(t, int32(0), key.Y)
		seen++
		return true
	})
	require.Equal(t, 7, seen)

	s.Clear()
	require.Equal(t, 0, s.Len())
}

func TestCompactAndInfo(t *testing.T) {
	s := newTestStore(t, "compact-info")

	mixed := newSection(t, air)
	require.NoError(t, mixed.SetRange(cuboid.Point{}, stone, cuboid.Point{X: 15, Y: 7, Z: 15}))
	mixed.Replace(stone, bedrock) // leaves a hole
	require.NoError(t, s.Put(SectionKey{Y: 0}, mixed))
	require.NoError(t, s.Put(SectionKey{Y: 1}, newSection(t, air)))

	changed, err := s.Compact()
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	changed, err = s.Compact()
	require.NoError(t, err)
	require.Equal(t, 0, changed)

	info, err := s.Info()
	require.NoError(t, err)
	require.Equal(t, 2, info.Sections)
	require.Equal(t, 1.0, info.PaletteLen.Min)
	require.Equal(t, 2.0, info.PaletteLen.Max)
	require.Equal(t, map[int]int{0: 1, 1: 1}, info.BitsPerValue)
	require.Equal(t, int64(2), info.PackedSize.Count())
	require.Contains(t, info.String(), "Sections:        2")
}

func TestSaveLoad(t *testing.T) {
	s := newTestStore(t, "save")
	for i := int32(0); i < 5; i++ {
		c := newSection(t, air)
		for j := 0; j <= int(i); j++ {
			c.SetXYZ(j, int(i), j, value.NewBlockState("minecraft:wool", "color", fmt.Sprint(j)))
		}
		require.NoError(t, s.Put(SectionKey{X: i, Y: -i, Z: 2 * i}, c))
	}

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded := newTestStore(t, "load")
	require.NoError(t, loaded.Put(SectionKey{X: 99}, newSection(t, stone)))
	require.NoError(t, loaded.Load(bytes.NewReader(buf.Bytes())))

	require.Equal(t, 5, loaded.Len())
	require.False(t, loaded.Has(SectionKey{X: 99}))
	s.Range(func(key SectionKey, want *cuboid.Cuboid[value.BlockState]) bool {
		got, ok, err := loaded.Get(key)
		require.NoError(t, err)
		require.True(t, ok, "section %v", key)
		for i, w := range want.All() {
			g, _ := got.Get(i)
			require.True(t, w.Equal(g), "section %v cell %d", key, i)
		}
		return true
	})
}

func TestLoadInvalid(t *testing.T) {
	s := newTestStore(t, "load-invalid")
	require.NoError(t, s.Put(SectionKey{}, newSection(t, stone)))

	t.Run("not zstd", func(t *testing.T) {
		require.Error(t, s.Load(strings.NewReader("PALCUBE\x00 but not compressed")))
	})

	t.Run("edge mismatch", func(t *testing.T) {
		biomes, err := NewSectionStore[value.BlockState](&Options{Name: "biomes", Edge: 4, DataVersion: cuboid.LatestDataVersion})
		require.NoError(t, err)
		c, err := cuboid.New(4, air)
		require.NoError(t, err)
		require.NoError(t, biomes.Put(SectionKey{}, c))

		var buf bytes.Buffer
		require.NoError(t, biomes.Save(&buf))
		err = s.Load(&buf)
		require.Equal(t, RetCInvalidOperation, err.(*Error).Code)
	})

	// the failed loads did not touch the content
	require.Equal(t, 1, s.Len())
}

func TestSaveUnsupportedVersion(t *testing.T) {
	s, err := NewSectionStore[value.BlockState](&Options{Name: "old", Edge: 16, DataVersion: 1343})
	require.NoError(t, err)
	require.NoError(t, s.Put(SectionKey{}, newSection(t, stone)))

	var buf bytes.Buffer
	require.ErrorIs(t, s.Save(&buf), cuboid.ErrUnsupportedVersion)
}

func TestWritePrometheus(t *testing.T) {
	s := newTestStore(t, "prom")
	require.NoError(t, s.Put(SectionKey{}, newSection(t, stone)))
	require.NoError(t, s.Update(SectionKey{}, func(*cuboid.Cuboid[value.BlockState]) error { return nil }))

	var buf bytes.Buffer
	s.WritePrometheus(&buf)
	out := buf.String()
	require.Contains(t, out, `palcube_store_sections{store="prom"} 1`)
	require.Contains(t, out, `palcube_store_updates_total{store="prom"} 1`)
	require.Contains(t, out, `palcube_store_puts_total{store="prom"} 1`)
}

func TestErrorString(t *testing.T) {
	err := wrapError(RetCInternalError, "pack", cuboid.ErrPaletteCorrupted)
	require.Contains(t, err.Error(), "InternalError")
	require.ErrorIs(t, err, cuboid.ErrPaletteCorrupted)
	require.False(t, IsNotFound(err))
	require.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NewError(RetCNotFound, "x"))))
}
