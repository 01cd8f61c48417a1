package triangulate

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Pose is a rigid-body transform: Rotation is a 3x3 orthonormal matrix
// and Translation is the origin of the source frame expressed in the
// destination frame, so that a point p in the source frame maps to
// Rotation*p + Translation in the destination frame.
type Pose struct {
	Rotation    *mat.Dense
	Translation r3.Vector
}

// rotate applies a Pose's rotation to a vector, leaving translation out.
func rotate(r *mat.Dense, v r3.Vector) r3.Vector {
	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(r, in)
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// apply maps a point from the source frame to the destination frame.
func (p Pose) apply(v r3.Vector) r3.Vector {
	return rotate(p.Rotation, v).Add(p.Translation)
}
