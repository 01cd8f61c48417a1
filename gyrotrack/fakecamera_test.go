package gyrotrack

import "github.com/golang/geo/r3"

// fakeCamera is a pass-through pinhole model (cx=cy=0, f=1) used only by
// tests: BackProject/Project are exact inverses for any point with a
// positive bearing depth, which keeps prediction arithmetic easy to
// reason about without a real calibration.
type fakeCamera struct {
	width, height int
}

func (c *fakeCamera) ImageWidth() int  { return c.width }
func (c *fakeCamera) ImageHeight() int { return c.height }

func (c *fakeCamera) BackProject(pixel Point) (r3.Vector, bool) {
	return r3.Vector{X: pixel.X, Y: pixel.Y, Z: 1}, true
}

func (c *fakeCamera) Project(bearing r3.Vector) (Point, bool) {
	if bearing.Z <= 0 {
		return Point{}, false
	}
	return Point{X: bearing.X / bearing.Z, Y: bearing.Y / bearing.Z}, true
}

// descriptor builds a fixed-width byte-string descriptor whose bits are
// determined entirely by seed, so that two descriptors built from the
// same seed are identical and descriptors from different seeds differ.
func descriptor(width int, seed byte) []byte {
	d := make([]byte, width)
	for i := range d {
		d[i] = seed + byte(i)
	}
	return d
}

// flipBits returns a copy of d with the low n bits of its first bytes
// flipped, used to synthesize descriptors a known Hamming distance apart.
func flipBits(d []byte, n int) []byte {
	out := append([]byte(nil), d...)
	for i := 0; i < n; i++ {
		byteIdx := i / 8
		bitIdx := uint(i % 8)
		out[byteIdx] ^= 1 << bitIdx
	}
	return out
}
