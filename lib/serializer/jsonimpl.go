package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
)

// NewJSONSerializer creates a serializer using json encoding. The output is a
// self describing document including edge length and data version.
func NewJSONSerializer[E value.Value[E]](edge, dataVersion int) ISerializer[E] {
	return &jsonSerializerImpl[E]{edge: edge, dataVersion: dataVersion}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl[E value.Value[E]] struct {
	edge        int
	dataVersion int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (j *jsonSerializerImpl[E]) Serialize(c *cuboid.Cuboid[E]) ([]byte, error) {
	d, err := newDocument(c, j.dataVersion)
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

func (j *jsonSerializerImpl[E]) Deserialize(b []byte) (*cuboid.Cuboid[E], error) {
	var d document[E]
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", cuboid.ErrMalformedData, err)
	}
	return d.cuboid(j.edge, j.dataVersion)
}

func (j *jsonSerializerImpl[E]) Name() string { return FormatJSON }
