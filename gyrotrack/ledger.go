package gyrotrack

import "github.com/pkg/errors"

// allocateNewTracks runs the track-id ledger: for every accepted match
// whose current id is still -1 (born this frame), the matched
// previous-frame id must also be -1, violating that contract is fatal.
// A fresh, monotonically increasing id is allocated and written to both
// frames' channels.
func allocateNewTracks(
	accepted []Match,
	previousTrackIDs []int64,
	currentTrackIDs []int64,
	currentTrackLengths []int,
	nextTrackID *int64,
) error {
	for _, m := range accepted {
		if currentTrackIDs[m.CurrentIndex] != -1 {
			continue
		}
		if previousTrackIDs[m.PrevIndex] != -1 {
			return errors.Errorf(
				"contract violation: new-track match (prev=%d, curr=%d) has previous-frame id %d, want -1",
				m.PrevIndex, m.CurrentIndex, previousTrackIDs[m.PrevIndex],
			)
		}
		*nextTrackID++
		newID := *nextTrackID
		currentTrackIDs[m.CurrentIndex] = newID
		previousTrackIDs[m.PrevIndex] = newID
		currentTrackLengths[m.CurrentIndex] = 2
	}
	return nil
}
