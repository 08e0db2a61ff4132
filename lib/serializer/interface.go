package serializer

import (
	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
)

// ISerializer turns cuboids into bytes and back. Every implementation is
// bound to an edge length and a data version at construction time.
type ISerializer[E value.Value[E]] interface {
	// Serialize optimizes the palette of c and encodes it.
	// It returns the encoded bytes and an error if any
	Serialize(c *cuboid.Cuboid[E]) ([]byte, error)
	// Deserialize decodes a cuboid previously encoded by the same kind of
	// serializer. Malformed input results in an error wrapping
	// cuboid.ErrMalformedData.
	Deserialize(b []byte) (*cuboid.Cuboid[E], error)
	// Name returns the format name as accepted by New
	Name() string
}
