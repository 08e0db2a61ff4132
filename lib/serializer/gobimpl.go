package serializer

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
)

// NewGOBSerializer creates a serializer using Go's binary gob format
func NewGOBSerializer[E value.Value[E]](edge, dataVersion int) ISerializer[E] {
	return &gobSerializerImpl[E]{edge: edge, dataVersion: dataVersion}
}

// gobSerializerImpl implements the ISerializer interface using gob encoding
type gobSerializerImpl[E value.Value[E]] struct {
	edge        int
	dataVersion int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (g *gobSerializerImpl[E]) Serialize(c *cuboid.Cuboid[E]) ([]byte, error) {
	d, err := newDocument(c, g.dataVersion)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *gobSerializerImpl[E]) Deserialize(b []byte) (*cuboid.Cuboid[E], error) {
	var d document[E]
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", cuboid.ErrMalformedData, err)
	}
	return d.cuboid(g.edge, g.dataVersion)
}

func (g *gobSerializerImpl[E]) Name() string { return FormatGOB }
