package value

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Value is the contract for everything that can occupy a palette slot.
//
// Implementations must guarantee that:
//   - Clone returns a deep copy, mutating the copy never affects the receiver
//   - Equal is an equivalence relation (reflexive, symmetric, transitive)
//   - Hash is stable while the value is not modified and equal values have
//     equal hashes
//
// The type parameter doubles as the type witness for allocating palettes and
// value slices, no runtime type inspection is needed.
type Value[E any] interface {
	Clone() E
	Equal(other E) bool
	Hash() uint64
}
