package gyrotrack

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// rotateBearing applies a 3x3 rotation matrix (row-major, camera-to-camera)
// to a bearing vector.
func rotateBearing(c *mat.Dense, b r3.Vector) r3.Vector {
	v := mat.NewVecDense(3, []float64{b.X, b.Y, b.Z})
	var out mat.VecDense
	out.MulVec(c, v)
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// predictKeypoint predicts where a previous-frame keypoint lands in the
// current image, using a rotation-only motion model that ignores
// translation and depth. ok is false if either the back-projection or
// the re-projection fails (bearing behind the camera or outside the
// valid field); the caller must then skip the search for this keypoint.
func predictKeypoint(p Point, cam CameraModel, cCurrentPrev *mat.Dense) (Point, bool) {
	bearingPrev, ok := cam.BackProject(p)
	if !ok {
		return Point{}, false
	}
	bearingCurrent := rotateBearing(cCurrentPrev, bearingPrev)
	return cam.Project(bearingCurrent)
}
