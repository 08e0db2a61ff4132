package cuboid

import (
	"fmt"
	"math"
	"math/bits"
)

// maxEdgeBits bounds the edge length to 2^10, so every flat index fits an int32.
const maxEdgeBits = 10

// ValidateEdge checks that edge is a power of two no larger than 1024.
func ValidateEdge(edge int) error {
	b, err := log2Exact(edge)
	if err != nil {
		return err
	}
	if b > maxEdgeBits {
		return fmt.Errorf("%w: edge length %d exceeds %d", ErrInvalidArgument, edge, 1<<maxEdgeBits)
	}
	return nil
}

// Point is a position in cuboid space.
type Point struct {
	X, Y, Z int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// IndexOf computes the wrapped flat index of x, y, z. Each axis is wrapped
// into [0, EdgeLength()): with an edge of 16, x = 20 addresses the same cell as
// x = 4. Never fails.
//
// The layout is x fastest, then z, then y: idx = y<<2b | z<<b | x.
func (c *Cuboid[E]) IndexOf(x, y, z int) int {
	return ((y & c.mask) << c.yShift) | ((z & c.mask) << c.zShift) | (x & c.mask)
}

// IndexOfPoint is IndexOf for a Point.
func (c *Cuboid[E]) IndexOfPoint(p Point) int {
	return c.IndexOf(p.X, p.Y, p.Z)
}

// XYZOf is the inverse of IndexOf. The index is masked, not bounds checked.
func (c *Cuboid[E]) XYZOf(index int) Point {
	return Point{
		X: index & c.mask,
		Y: (index >> c.yShift) & c.mask,
		Z: (index >> c.zShift) & c.mask,
	}
}

// Wrap wraps x, y, z into cuboid space.
func (c *Cuboid[E]) Wrap(x, y, z int) Point {
	return c.XYZOf(c.IndexOf(x, y, z))
}

func (c *Cuboid[E]) inBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < c.edge && p.Y < c.edge && p.Z < c.edge
}

// --------------------------------------------------------------------------
// Bit Helpers
// --------------------------------------------------------------------------

// isPow2 determines if num is a perfect power of 2.
func isPow2(num int) bool {
	return num > 0 && num&(num-1) == 0
}

// log2Exact returns k for num = 2^k and an error for anything else.
func log2Exact(num int) (int, error) {
	if !isPow2(num) {
		return 0, fmt.Errorf("%w: %d isn't a power of two", ErrInvalidArgument, num)
	}
	return bits.Len(uint(num)) - 1, nil
}

// log2Ceil returns the number of bits needed to address num distinct values,
// i.e. the smallest k with 2^k >= num. Returns 0 for num <= 1.
func log2Ceil(num int) int {
	if num <= 1 {
		return 0
	}
	return bits.Len(uint(num - 1))
}

// bitMask returns a mask with the lowest n bits set.
func bitMask(n int) uint64 {
	if n >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(n) - 1
}

// cubeRoot returns the integer cube root of num or an error if num is not a cube.
func cubeRoot(num int) (int, error) {
	k := int(math.Round(math.Cbrt(float64(num))))
	if num <= 0 || k*k*k != num {
		return 0, fmt.Errorf("%w: the cube root of %d is not an integer", ErrInvalidArgument, num)
	}
	return k, nil
}
