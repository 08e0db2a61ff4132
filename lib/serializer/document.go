package serializer

import (
	"fmt"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
)

// document is the self describing envelope used by the json and gob formats
type document[E value.Value[E]] struct {
	Edge        int     `json:"edge"`
	DataVersion int     `json:"dataVersion"`
	Palette     []E     `json:"palette"`
	Data        []int64 `json:"data,omitempty"`
}

func newDocument[E value.Value[E]](c *cuboid.Cuboid[E], dataVersion int) (*document[E], error) {
	p, err := c.Pack(dataVersion)
	if err != nil {
		return nil, err
	}
	return &document[E]{
		Edge:        c.EdgeLength(),
		DataVersion: dataVersion,
		Palette:     p.Palette,
		Data:        p.Data,
	}, nil
}

// cuboid decodes the document. The edge must match the expected one, the
// data version of the document is used if set.
func (d *document[E]) cuboid(edge, dataVersion int) (*cuboid.Cuboid[E], error) {
	if d.Edge != edge {
		return nil, fmt.Errorf("%w: edge %d, expected %d", cuboid.ErrMalformedData, d.Edge, edge)
	}
	if d.DataVersion != 0 {
		dataVersion = d.DataVersion
	}
	return cuboid.FromPacked(&cuboid.Packed[E]{Palette: d.Palette, Data: d.Data}, edge, dataVersion)
}
