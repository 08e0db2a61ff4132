package cuboid

import "errors"

var (
	// ErrOutOfBounds is returned for flat index access outside [0, Size())
	// and for region corners outside the cuboid.
	ErrOutOfBounds = errors.New("cuboid: index out of bounds")
	// ErrInvalidArgument is returned for edge lengths that are not a power of
	// two, value slices whose length is not a cube and similar caller errors.
	ErrInvalidArgument = errors.New("cuboid: invalid argument")
	// ErrPaletteCorrupted means the palette and the index array disagree. The
	// instance must be discarded and re-derived from its source.
	ErrPaletteCorrupted = errors.New("cuboid: palette corrupted")
	// ErrMalformedData is returned when a packed cuboid cannot be decoded.
	ErrMalformedData = errors.New("cuboid: malformed packed data")
	// ErrUnsupportedVersion is returned for data versions that predate the
	// supported packing scheme.
	ErrUnsupportedVersion = errors.New("cuboid: unsupported data version")
	// ErrNoCurrent is returned by cursor accessors before the first Next.
	ErrNoCurrent = errors.New("cuboid: cursor has no current element")
	// ErrExhausted is returned by Next when there are no more elements.
	ErrExhausted = errors.New("cuboid: cursor exhausted")
)
