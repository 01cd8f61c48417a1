package gyrotrack

import "github.com/golang/geo/r3"

// CameraModel is the external contract the tracker consumes for
// converting between pixel measurements and bearing vectors. Image
// decoding, calibration and the projection model itself live outside
// this package; only this capability is required.
type CameraModel interface {
	// ImageWidth returns the width of the image in pixels.
	ImageWidth() int
	// ImageHeight returns the height of the image in pixels.
	ImageHeight() int
	// BackProject undistorts and normalizes a pixel measurement into a
	// bearing vector in camera coordinates. ok is false if the pixel
	// cannot be back-projected (e.g. outside the calibrated field).
	BackProject(pixel Point) (bearing r3.Vector, ok bool)
	// Project re-projects a bearing vector in camera coordinates back
	// onto the image plane. ok is false if the bearing is behind the
	// camera or otherwise falls outside the valid field of view.
	Project(bearing r3.Vector) (pixel Point, ok bool)
}
