package gyrotrack

import "github.com/google/uuid"

// Frame holds one camera frame's worth of pre-detected keypoints with
// binary descriptors, per-keypoint response scores, and a mutable
// track-id channel.
//
// Invariants: len(Keypoints) == len(Descriptors) == len(Scores) ==
// len(TrackIDs); every descriptor has the same width within a run; a
// non-negative track id appearing in a frame is unique within that
// frame.
type Frame struct {
	// ID correlates this frame across log lines. It is never read by
	// the tracker's matching or admission logic and is not an identity
	// key — two Frames with the same ID are not treated as the same
	// frame.
	ID uuid.UUID
	// Timestamp is a monotonic scalar; frames passed to Tracker.AddFrame
	// must have strictly increasing timestamps.
	Timestamp float64
	// Keypoints are 2D pixel coordinates, one per detected feature.
	Keypoints []Point
	// Descriptors are fixed-width byte strings, one per keypoint.
	Descriptors [][]byte
	// Scores are per-keypoint response scores; higher is stronger.
	Scores []float64
	// TrackIDs is the mutable track-identifier channel; -1 denotes
	// "not on any track".
	TrackIDs []int64
}

// NewFrame constructs a Frame, stamping it with a fresh correlation id
// and initializing TrackIDs to -1 for every keypoint. It does not
// validate the invariants above; Tracker.AddFrame does that.
func NewFrame(timestamp float64, keypoints []Point, descriptors [][]byte, scores []float64) *Frame {
	trackIDs := make([]int64, len(keypoints))
	for i := range trackIDs {
		trackIDs[i] = -1
	}
	return &Frame{
		ID:          uuid.New(),
		Timestamp:   timestamp,
		Keypoints:   keypoints,
		Descriptors: descriptors,
		Scores:      scores,
		TrackIDs:    trackIDs,
	}
}

// validateShape checks the per-keypoint slice-length invariant.
func (f *Frame) validateShape() error {
	n := len(f.Keypoints)
	if len(f.Descriptors) != n {
		return errLengthMismatch("descriptors", len(f.Descriptors), n)
	}
	if len(f.Scores) != n {
		return errLengthMismatch("scores", len(f.Scores), n)
	}
	if len(f.TrackIDs) != n {
		return errLengthMismatch("track ids", len(f.TrackIDs), n)
	}
	return nil
}

// validateDescriptorWidth checks that every descriptor has the given
// width, constant within a run.
func (f *Frame) validateDescriptorWidth(width int) error {
	for _, d := range f.Descriptors {
		if len(d) != width {
			return errDescriptorWidth(len(d), width)
		}
	}
	return nil
}
