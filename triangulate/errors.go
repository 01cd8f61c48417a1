package triangulate

import "github.com/pkg/errors"

func errLengthMismatch(name string, got, want int) error {
	return errors.Errorf("contract violation: %s has length %d, want %d", name, got, want)
}

func errCameraIndexRange(index, numPoses int) error {
	return errors.Errorf("contract violation: camera index %d out of range [0, %d)", index, numPoses)
}
