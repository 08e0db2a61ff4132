package serializer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
)

// NewNBTSerializer creates a serializer writing the packed layout as a named
// NBT compound, optionally compressed. This is the on-disk format of world
// sections.
func NewNBTSerializer[E value.Value[E]](edge, dataVersion int, compression Compression) ISerializer[E] {
	return &nbtSerializerImpl[E]{
		edge:        edge,
		dataVersion: dataVersion,
		compression: compression,
		rootName:    "",
	}
}

// nbtSerializerImpl implements the ISerializer interface using go-mc nbt
type nbtSerializerImpl[E value.Value[E]] struct {
	edge        int
	dataVersion int
	compression Compression
	rootName    string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (n *nbtSerializerImpl[E]) Serialize(c *cuboid.Cuboid[E]) ([]byte, error) {
	return n.compression.compress(func(w io.Writer) error {
		return c.WriteNBT(w, n.rootName, n.dataVersion)
	})
}

func (n *nbtSerializerImpl[E]) Deserialize(b []byte) (*cuboid.Cuboid[E], error) {
	r, err := n.compression.reader(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cuboid.ErrMalformedData, err)
	}
	defer r.Close()

	// the nbt decoder wants a byte reader, buffer the decompressed stream
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cuboid.ErrMalformedData, err)
	}
	c, _, err := cuboid.ReadNBT[E](bytes.NewReader(raw), n.edge, n.dataVersion)
	return c, err
}

func (n *nbtSerializerImpl[E]) Name() string {
	if n.compression == CompressionNone {
		return FormatNBT
	}
	return FormatNBT + "+" + string(n.compression)
}
