package value

import "github.com/ValentinKolb/palcube/lib/util"

// Biome is a namespaced biome id (e.g. "minecraft:plains"), the palette value
// of the 4x4x4 biome grid of a section.
type Biome string

// Clone returns the biome itself, strings are immutable.
func (b Biome) Clone() Biome { return b }

func (b Biome) Equal(other Biome) bool { return b == other }

func (b Biome) Hash() uint64 { return util.HashString(string(b), 0) }

func (b Biome) String() string { return string(b) }
