package value

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ValentinKolb/palcube/lib/util"
)

// BlockState is a block name plus its state properties, e.g.
// {Name: "minecraft:oak_log", Properties: {"axis": "y"}}. It is the palette
// value of the 16x16x16 block grid of a section.
//
// The nbt/json field names follow the world format: "Name" and "Properties",
// where Properties is omitted for blocks without state.
type BlockState struct {
	Name       string            `nbt:"Name" json:"Name"`
	Properties map[string]string `nbt:"Properties,omitempty" json:"Properties,omitempty"`
}

// NewBlockState creates a block state from a name and alternating key/value
// property pairs. A trailing key without value is ignored.
func NewBlockState(name string, kv ...string) BlockState {
	b := BlockState{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		b.SetProperty(kv[i], kv[i+1])
	}
	return b
}

// Property returns the value of a property and whether it is set
func (b BlockState) Property(key string) (string, bool) {
	v, ok := b.Properties[key]
	return v, ok
}

// SetProperty sets a property. Note that BlockState holds its properties in a
// map: setting a property on a value obtained by reference from a cuboid
// mutates the shared palette entry.
func (b *BlockState) SetProperty(key, val string) {
	if b.Properties == nil {
		b.Properties = make(map[string]string)
	}
	b.Properties[key] = val
}

// --------------------------------------------------------------------------
// Interface Methods (docu see value.Value)
// --------------------------------------------------------------------------

func (b BlockState) Clone() BlockState {
	return BlockState{Name: b.Name, Properties: maps.Clone(b.Properties)}
}

// Equal treats a nil and an empty property map as equal.
func (b BlockState) Equal(other BlockState) bool {
	return b.Name == other.Name && maps.Equal(b.Properties, other.Properties)
}

// Hash combines the name with an order independent hash of the properties.
func (b BlockState) Hash() uint64 {
	h := util.HashString(b.Name, 0)
	var props uint64
	for k, v := range b.Properties {
		props ^= util.HashCombine(util.HashString(k, 0), util.HashString(v, 0))
	}
	return util.HashCombine(h, props)
}

// String formats the block state like the game does: name[k=v,...]
func (b BlockState) String() string {
	if len(b.Properties) == 0 {
		return b.Name
	}
	keys := slices.Sorted(maps.Keys(b.Properties))
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%s", k, b.Properties[k])
	}
	return b.Name + "[" + strings.Join(pairs, ",") + "]"
}
