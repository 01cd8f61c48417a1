package gyrotrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func widelySeparatedFrame(timestamp float64) *Frame {
	keypoints := []Point{{X: 50, Y: 50}, {X: 400, Y: 350}}
	descriptors := [][]byte{descriptor(16, 0x11), descriptor(16, 0x99)}
	scores := []float64{10, 10}
	return NewFrame(timestamp, keypoints, descriptors, scores)
}

func TestTrackerColdStart(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	frame := NewFrame(0, []Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, [][]byte{
		descriptor(16, 1), descriptor(16, 2), descriptor(16, 3),
	}, []float64{1, 1, 1})

	err := tr.AddFrame(frame, identity3())
	require.NoError(t, err)

	for _, id := range frame.TrackIDs {
		assert.EqualValues(t, -1, id)
	}
	assert.EqualValues(t, 0, tr.NextTrackID())
}

func TestTrackerIdentityRotationPromotesNewTracks(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	frameA := widelySeparatedFrame(0)
	require.NoError(t, tr.AddFrame(frameA, identity3()))

	frameB := widelySeparatedFrame(1)
	require.NoError(t, tr.AddFrame(frameB, identity3()))

	require.Len(t, frameB.TrackIDs, 2)
	assert.ElementsMatch(t, []int64{1, 2}, frameB.TrackIDs)
	assert.ElementsMatch(t, []int64{1, 2}, frameA.TrackIDs)
	assert.Equal(t, []int{2, 2}, tr.previousTrackLengths)
}

func TestTrackerContinuedTrackCarriesIDsForward(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	frameA := widelySeparatedFrame(0)
	require.NoError(t, tr.AddFrame(frameA, identity3()))
	frameB := widelySeparatedFrame(1)
	require.NoError(t, tr.AddFrame(frameB, identity3()))
	frameC := widelySeparatedFrame(2)
	require.NoError(t, tr.AddFrame(frameC, identity3()))

	assert.ElementsMatch(t, []int64{1, 2}, frameC.TrackIDs)
	assert.Equal(t, []int{3, 3}, tr.previousTrackLengths)
	assert.EqualValues(t, 2, tr.NextTrackID())
}

func TestTrackerDescriptorGateRejectsFarMatch(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	d := descriptor(16, 0x11)
	frameA := NewFrame(0, []Point{{X: 50, Y: 50}}, [][]byte{d}, []float64{10})
	require.NoError(t, tr.AddFrame(frameA, identity3()))

	farDescriptor := flipBits(d, 120)
	frameB := NewFrame(1, []Point{{X: 50, Y: 50}}, [][]byte{farDescriptor}, []float64{10})
	require.NoError(t, tr.AddFrame(frameB, identity3()))

	assert.EqualValues(t, -1, frameB.TrackIDs[0])
}

func TestTrackerRotationPredictionFindsLargeWindowMatch(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	d := descriptor(16, 0x22)
	frameA := NewFrame(0, []Point{{X: 320, Y: 240}}, [][]byte{d}, []float64{10})
	require.NoError(t, tr.AddFrame(frameA, identity3()))

	// Predicted position moves 7px in x from a rotation-like shear; the
	// actual current keypoint stays put, 7px from the prediction, which
	// is outside MinSearchRadius(5) but inside SearchRadius(10).
	shear := mat.NewDense(3, 3, []float64{1, 0, 7, 0, 1, 0, 0, 0, 1})
	frameB := NewFrame(1, []Point{{X: 320, Y: 240}}, [][]byte{d}, []float64{10})
	require.NoError(t, tr.AddFrame(frameB, shear))

	assert.EqualValues(t, 1, frameB.TrackIDs[0])
}

func TestTrackerReinitializesOnEmptyFrame(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	frameA := widelySeparatedFrame(0)
	require.NoError(t, tr.AddFrame(frameA, identity3()))

	empty := NewFrame(1, nil, nil, nil)
	require.NoError(t, tr.AddFrame(empty, identity3()))

	frameC := widelySeparatedFrame(2)
	require.NoError(t, tr.AddFrame(frameC, identity3()))
	for _, id := range frameC.TrackIDs {
		assert.EqualValues(t, -1, id)
	}
}

func TestTrackerRejectsNonMonotonicTimestamp(t *testing.T) {
	cam := &fakeCamera{width: 640, height: 480}
	tr := NewTracker(cam, nil, nil)

	frameA := widelySeparatedFrame(5)
	require.NoError(t, tr.AddFrame(frameA, identity3()))

	frameB := widelySeparatedFrame(5)
	err := tr.AddFrame(frameB, identity3())
	assert.Error(t, err)
}
