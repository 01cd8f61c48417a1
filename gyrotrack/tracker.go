package gyrotrack

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Tracker maintains the state of the gyro-aided tracking pipeline
// across a stream of frames: the previous frame, the previous frame's
// per-keypoint track lengths, and the monotonic track-id counter.
//
// A Tracker is not safe for concurrent calls to AddFrame: the stream of
// frames must be processed in monotonic timestamp order by one caller.
// The internal Match Search step may itself use multiple goroutines when
// Config.ParallelMatch is set.
type Tracker struct {
	cam    CameraModel
	cfg    *Config
	logger *zap.Logger

	previousFrame        *Frame
	previousTrackLengths []int
	nextTrackID          int64
	descriptorWidth      int // -1 until the first non-empty frame is seen
}

// NewTracker constructs a Tracker over the given camera model and
// configuration. A nil logger disables structured logging.
func NewTracker(cam CameraModel, cfg *Config, logger *zap.Logger) *Tracker {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		cam:             cam,
		cfg:             cfg,
		logger:          logger,
		descriptorWidth: -1,
	}
}

// AddFrame is the tracker's only operation. It predicts where the
// previous frame's keypoints land in the current frame using
// cCurrentPrev (the inter-frame rotation from previous camera frame to
// current camera frame), matches descriptors under that spatial prior,
// admits accepted matches through bucketed admission, and writes track
// identifiers into both frames.
//
// On the first call, or whenever current has zero keypoints, the
// tracker (re)initializes: current's track ids are all set to -1 and
// current becomes the new previous frame.
func (t *Tracker) AddFrame(current *Frame, cCurrentPrev *mat.Dense) error {
	if err := current.validateShape(); err != nil {
		return err
	}
	if len(current.Keypoints) > 0 {
		if t.descriptorWidth < 0 {
			t.descriptorWidth = len(current.Descriptors[0])
		}
		if err := current.validateDescriptorWidth(t.descriptorWidth); err != nil {
			return err
		}
	}

	if t.previousFrame == nil || len(current.Keypoints) == 0 {
		return t.initialize(current)
	}

	if current.Timestamp <= t.previousFrame.Timestamp {
		return errNonMonotonicTimestamp(current.Timestamp, t.previousFrame.Timestamp)
	}

	predicted, predictedOK := predictAll(t.previousFrame.Keypoints, t.cam, cCurrentPrev)
	rowIndex := NewRowIndex(current.Keypoints, t.cam.ImageHeight())
	matches := matchSearch(
		t.previousFrame.Descriptors,
		predicted,
		predictedOK,
		rowIndex,
		current.Descriptors,
		t.cam.ImageHeight(),
		t.cfg,
	)

	currentTrackIDs := make([]int64, len(current.Keypoints))
	for i := range currentTrackIDs {
		currentTrackIDs[i] = -1
	}
	currentTrackLengths := make([]int, len(current.Keypoints))

	grid := newBucketGrid(t.cfg.NumberOfTrackingBuckets, t.cam.ImageWidth(), t.cam.ImageHeight())
	result := admit(
		grid,
		matches,
		current.Scores,
		current.Keypoints,
		t.previousFrame.TrackIDs,
		t.previousTrackLengths,
		currentTrackIDs,
		currentTrackLengths,
		t.cfg,
	)

	continuedCount := 0
	for _, m := range result.accepted {
		if t.previousFrame.TrackIDs[m.PrevIndex] >= 0 {
			continuedCount++
		}
	}

	if err := allocateNewTracks(result.accepted, t.previousFrame.TrackIDs, currentTrackIDs, currentTrackLengths, &t.nextTrackID); err != nil {
		return errors.Wrap(err, "track-id ledger")
	}

	current.TrackIDs = currentTrackIDs

	t.logger.Debug("add_frame",
		zap.String("frame_id", current.ID.String()),
		zap.Int("matched", len(matches)),
		zap.Int("accepted", len(result.accepted)),
		zap.Int("continued", continuedCount),
		zap.Int("new_tracks", len(result.accepted)-continuedCount),
		zap.Int("score_rejected", result.scoreRejected),
		zap.Int("bucket_rejected", result.bucketRejected),
	)

	t.previousTrackLengths = currentTrackLengths
	t.previousFrame = current
	return nil
}

func (t *Tracker) initialize(current *Frame) error {
	trackIDs := make([]int64, len(current.Keypoints))
	for i := range trackIDs {
		trackIDs[i] = -1
	}
	current.TrackIDs = trackIDs
	t.previousTrackLengths = make([]int, len(current.Keypoints))
	t.previousFrame = current
	t.logger.Debug("add_frame_init",
		zap.String("frame_id", current.ID.String()),
		zap.Int("keypoints", len(current.Keypoints)),
	)
	return nil
}

// NextTrackID returns the most recently allocated track id (0 if none
// has been allocated yet).
func (t *Tracker) NextTrackID() int64 {
	return t.nextTrackID
}
