package gyrotrack

// Point is a 2D pixel coordinate in an image.
type Point struct {
	X float64
	Y float64
}
