package util

import (
	"fmt"
	"math/rand/v2"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
)

// BlockValue creates the i-th distinct block state for generated cuboids
func BlockValue(i int) value.BlockState {
	if i == 0 {
		return value.NewBlockState("minecraft:air")
	}
	return value.NewBlockState("minecraft:wool", "color", fmt.Sprint(i))
}

// BiomeValue creates the i-th distinct biome for generated cuboids
func BiomeValue(i int) value.Biome {
	if i == 0 {
		return "minecraft:plains"
	}
	return value.Biome(fmt.Sprintf("palcube:biome_%d", i))
}

// RandomCuboid creates a cuboid with exactly min(paletteSize, edge^3)
// distinct values created by newValue. The first value fills the lower half
// of the cuboid, the upper half is random, like terrain below open air.
func RandomCuboid[E value.Value[E]](edge, paletteSize int, seed uint64, newValue func(i int) E) (*cuboid.Cuboid[E], error) {
	if err := cuboid.ValidateEdge(edge); err != nil {
		return nil, err
	}
	if paletteSize < 1 {
		return nil, fmt.Errorf("palette size must be at least 1, got %d", paletteSize)
	}
	size := edge * edge * edge
	paletteSize = min(paletteSize, size)

	palette := make([]E, paletteSize)
	for i := range palette {
		palette[i] = newValue(i)
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	values := make([]E, size)
	for i := range values {
		switch {
		case i < paletteSize:
			values[i] = palette[i] // every value at least once
		case i < size/2:
			values[i] = palette[0]
		default:
			values[i] = palette[r.IntN(paletteSize)]
		}
	}
	return cuboid.FromSlice(values)
}
