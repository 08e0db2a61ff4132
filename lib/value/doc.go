// Package value defines the contract for palette values (Value) and the two
// value types stored in world sections.
//
// Key Components:
//
//   - Value[E]: deep clone, equality and a stable hash. Any type satisfying it
//     can be stored in a cuboid.Cuboid[E].
//
//   - Biome: a namespaced biome id. Immutable, Clone is the identity.
//
//   - BlockState: a block name with string properties. Holds a map, so values
//     handed out by reference alias the palette entry they came from.
//
// The testing sub package (github.com/ValentinKolb/palcube/lib/value/testing)
// provides a conformance suite for Value implementations.
package value
