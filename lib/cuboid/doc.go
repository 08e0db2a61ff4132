/*
Package cuboid implements a palette compressed, power of two sized cube of
cells as used for the block states (16^3) and biomes (4^3) of a world section.

Every distinct value is stored once in a palette, every cell holds an index
into that palette. Mutations that stop using a palette entry leave a hole
behind instead of shrinking the palette; OptimizePalette removes the holes
and is called implicitly by Pack and Clone.

# Coordinates

Cells are addressed either by flat index (bounds checked) or by x, y, z
(wrapped into the cube, never fails). The layout is x fastest, then z,
then y.

# Access modes

Get, ToSlice, All and Iterator hand out clones. GetByRef, ToSliceByRef,
AllByRef and IteratorByRef hand out the palette entries themselves: mutating
such a value changes every cell that shares the entry, and the pointers are
invalidated by OptimizePalette.

# Packed form

Pack produces a Packed value holding the palette and the indices packed into
64 bit words with the minimum bit width (no entry spans two words). Only data
versions >= DataVersion1_16_20w17a are supported. WriteNBT and ReadNBT
encode the packed form as NBT via github.com/Tnze/go-mc/nbt.

A Cuboid is not safe for concurrent use.
*/
package cuboid
