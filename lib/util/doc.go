// Package util provides small helpers shared by the palcube libraries:
//
//   - HashString / HashUint64 / HashCombine: seeded FNV-1a hashing used by the
//     palette value types to implement a stable Hash().
//   - GenerateSeed: random seed for generators.
//   - Stats / SizeHistogram: descriptive statistics used by the section store
//     to report on palette lengths and encoded sizes.
package util
