package util

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// --------------------------------------------------------------------------
// General Utility Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a random seed, e.g. for the generator of the gen command
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fall back to the current time, only in the worst case
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// HashString is FNV-1a over the bytes of s, with the offset basis xored with
// seed. Value types use it with seed 0 for names and property strings.
func HashString(s string, seed uint64) uint64 {
	hash := uint64(offset64) ^ seed

	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}

	return hash
}

// HashUint64 feeds the eight little endian bytes of v into FNV-1a, starting from seed
func HashUint64(v uint64, seed uint64) uint64 {
	hash := uint64(offset64) ^ seed
	for i := 0; i < 8; i++ {
		hash ^= v & 0xff
		hash *= prime64
		v >>= 8
	}
	return hash
}

// HashCombine mixes h into seed. The result depends on the order of the calls,
// use a commutative operation (e.g. xor) on the inputs if order must not matter.
func HashCombine(seed, h uint64) uint64 {
	return HashUint64(h, seed)
}
