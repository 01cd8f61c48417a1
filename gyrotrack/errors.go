package gyrotrack

import "github.com/pkg/errors"

// Contract violations: programmer faults that abort the operation with
// a diagnostic rather than partially updating state.

func errLengthMismatch(name string, got, want int) error {
	return errors.Errorf("contract violation: %s has length %d, want %d", name, got, want)
}

func errDescriptorWidth(got, want int) error {
	return errors.Errorf("contract violation: descriptor width %d, expected %d", got, want)
}

func errNonMonotonicTimestamp(current, previous float64) error {
	return errors.Errorf("contract violation: current frame timestamp %f is not greater than previous frame timestamp %f", current, previous)
}
