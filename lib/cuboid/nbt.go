package cuboid

import (
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
	"github.com/ValentinKolb/palcube/lib/value"
)

// WriteNBT packs c for dataVersion and writes it as a named NBT compound
// with the members "palette" and, for palettes larger than one, "data".
func (c *Cuboid[E]) WriteNBT(w io.Writer, name string, dataVersion int) error {
	p, err := c.Pack(dataVersion)
	if err != nil {
		return err
	}
	return nbt.NewEncoder(w).Encode(p, name)
}

// ReadNBT reads a compound written by WriteNBT and returns the decoded cuboid
// together with the name of the root tag.
func ReadNBT[E value.Value[E]](r io.Reader, edge int, dataVersion int) (*Cuboid[E], string, error) {
	var p Packed[E]
	name, err := nbt.NewDecoder(r).Decode(&p)
	if err != nil {
		return nil, name, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	c, err := FromPacked(&p, edge, dataVersion)
	return c, name, err
}
