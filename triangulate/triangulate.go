// Package triangulate implements closed-form linear N-view
// triangulation: given normalized-plane bearing measurements of one
// landmark across several body poses (and, in the multi-camera
// variant, several rigidly-mounted cameras), it solves for the
// landmark's position in the world frame along with a status tag
// describing why the solve did or did not succeed.
package triangulate

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// kRankLossTolerance is the singular-value tolerance (relative to the
// largest singular value) used to determine the effective rank
// of the assembled system.
const kRankLossTolerance = 1e-3

// Triangulate solves for the world-frame position of a landmark seen
// from a single, rigidly-mounted camera across n body poses.
//
// measurements are bearings on the normalized camera plane; posesWB[i]
// is the body-to-world pose at the time measurements[i] was taken;
// poseBC is the (constant) body-to-camera pose of the one camera. All
// three must agree in length (poseBC is shared across every i).
func Triangulate(measurements []r2.Point, posesWB []Pose, poseBC Pose, logger *zap.Logger) (r3.Vector, Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(posesWB) != len(measurements) {
		return r3.Vector{}, Result{}, errLengthMismatch("posesWB", len(posesWB), len(measurements))
	}
	posesBC := make([]Pose, len(measurements))
	for i := range posesBC {
		posesBC[i] = poseBC
	}
	return triangulateCore(measurements, posesWB, posesBC, logger)
}

// TriangulateMultiCam solves for the world-frame position of a
// landmark seen from m rigidly-mounted cameras across n body poses.
// cameraIndices[i] selects, for measurements[i], which of posesBC
// describes that camera's mount.
func TriangulateMultiCam(measurements []r2.Point, cameraIndices []int, posesWB []Pose, posesBC []Pose, logger *zap.Logger) (r3.Vector, Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(posesWB) != len(measurements) {
		return r3.Vector{}, Result{}, errLengthMismatch("posesWB", len(posesWB), len(measurements))
	}
	if len(cameraIndices) != len(measurements) {
		return r3.Vector{}, Result{}, errLengthMismatch("cameraIndices", len(cameraIndices), len(measurements))
	}
	resolvedBC := make([]Pose, len(measurements))
	for i, camIdx := range cameraIndices {
		if camIdx < 0 || camIdx >= len(posesBC) {
			return r3.Vector{}, Result{}, errCameraIndexRange(camIdx, len(posesBC))
		}
		resolvedBC[i] = posesBC[camIdx]
	}
	return triangulateCore(measurements, posesWB, resolvedBC, logger)
}

// triangulateCore assembles and solves the stacked 3n x (3+n) linear
// system: block row i enforces
//
//	W_point - lambda_i * (R_W_B[i] * R_B_C[i] * [u_i, v_i, 1]^T) = p_W_B[i] + R_W_B[i] * p_B_C[i]
//
// with the identity in the first three columns of every block and the
// negated rotated bearing in column 3+i, then solves it in the
// minimum-norm least-squares sense via SVD.
func triangulateCore(measurements []r2.Point, posesWB []Pose, posesBC []Pose, logger *zap.Logger) (r3.Vector, Result, error) {
	n := len(measurements)
	if n < 2 {
		logger.Debug("triangulate", zap.Int("measurements", n), zap.String("status", StatusTooFewMeasurements.String()))
		return r3.Vector{}, Result{Status: StatusTooFewMeasurements}, nil
	}

	a := mat.NewDense(3*n, 3+n, nil)
	b := mat.NewVecDense(3*n, nil)

	for i := 0; i < n; i++ {
		bearing := r3.Vector{X: measurements[i].X, Y: measurements[i].Y, Z: 1}
		direction := rotate(posesWB[i].Rotation, rotate(posesBC[i].Rotation, bearing))
		rhs := posesWB[i].Translation.Add(rotate(posesWB[i].Rotation, posesBC[i].Translation))

		row := 3 * i
		a.Set(row+0, 0, 1)
		a.Set(row+1, 1, 1)
		a.Set(row+2, 2, 1)
		a.Set(row+0, 3+i, -direction.X)
		a.Set(row+1, 3+i, -direction.Y)
		a.Set(row+2, 3+i, -direction.Z)
		b.SetVec(row+0, rhs.X)
		b.SetVec(row+1, rhs.Y)
		b.SetVec(row+2, rhs.Z)
	}

	x, rank, ok := svdMinNormSolve(a, b, kRankLossTolerance)
	if !ok {
		return r3.Vector{}, Result{}, errors.New("triangulate: SVD factorization did not converge")
	}

	if rank-n < 3 {
		logger.Debug("triangulate", zap.Int("measurements", n), zap.Int("rank", rank), zap.String("status", StatusUnobservable.String()))
		return r3.Vector{}, Result{Status: StatusUnobservable}, nil
	}

	point := r3.Vector{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	logger.Debug("triangulate", zap.Int("measurements", n), zap.Int("rank", rank), zap.String("status", StatusSuccessful.String()))
	return point, Result{Status: StatusSuccessful}, nil
}
