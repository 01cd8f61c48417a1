package gyrotrack

// bucketGrid is a uniform B x B partition of the image used by bucketed
// admission to cap spatial concentration of newly accepted tracks.
type bucketGrid struct {
	b             int
	bucketWidthX  float64
	bucketWidthY  float64
	occupancy     []int
}

func newBucketGrid(b, imageWidth, imageHeight int) *bucketGrid {
	return &bucketGrid{
		b:            b,
		bucketWidthX: float64(imageWidth) / float64(b),
		bucketWidthY: float64(imageHeight) / float64(b),
		occupancy:    make([]int, b*b),
	}
}

// indexOf returns the bucket index of a pixel.
func (g *bucketGrid) indexOf(p Point) int {
	binX := int(p.X / g.bucketWidthX)
	binY := int(p.Y / g.bucketWidthY)
	return binY*g.b + binX
}

func (g *bucketGrid) increment(p Point) {
	g.occupancy[g.indexOf(p)]++
}

// admissionResult is the outcome of bucketed admission: the set of
// accepted matches (continued and new), in the order they were
// accepted, plus counters for the two ways a new-track candidate can be
// turned away.
type admissionResult struct {
	accepted       []Match
	scoreRejected  int
	bucketRejected int
}

// admit runs the four stages of bucketed admission over the matches
// produced by Match Search, against the current and previous frame
// state. previousTrackIDs/previousTrackLengths are indexed by
// PrevIndex; currentTrackIDs/currentTrackLengths (both preallocated to
// -1/0 by the caller) are written in place. grid must already be sized
// to the current frame's image dimensions.
func admit(
	grid *bucketGrid,
	matches []Match,
	currentScores []float64,
	currentKeypoints []Point,
	previousTrackIDs []int64,
	previousTrackLengths []int,
	currentTrackIDs []int64,
	currentTrackLengths []int,
	cfg *Config,
) admissionResult {
	accepted := make([]Match, 0, len(matches))

	// Stage 1: continued tracks.
	newTrackCandidates := make([]scoredCandidate, 0, len(matches))
	for mi, m := range matches {
		currentTrackIDs[m.CurrentIndex] = previousTrackIDs[m.PrevIndex]
		currentTrackLengths[m.CurrentIndex] = previousTrackLengths[m.PrevIndex] + 1
		if currentTrackIDs[m.CurrentIndex] >= 0 {
			grid.increment(currentKeypoints[m.CurrentIndex])
			accepted = append(accepted, m)
		} else {
			newTrackCandidates = append(newTrackCandidates, scoredCandidate{
				matchIndex: mi,
				score:      currentScores[m.CurrentIndex],
			})
		}
	}

	// Sort new-track candidates ascending by score. Weaker candidates are
	// consumed first by the unconditional and strong admission stages
	// below.
	ordered := sortAscendingByScore(newTrackCandidates)

	capPerBucket := cfg.NumberOfKeyPointsStrong / (cfg.NumberOfTrackingBuckets * cfg.NumberOfTrackingBuckets)

	idx := 0
	scoreRejected := 0
	bucketRejected := 0

	// Stage 3: unconditional admission.
	for ; idx < len(ordered) && idx < cfg.NumberOfKeyPointsUnconditional; idx++ {
		c := ordered[idx]
		if c.score < cfg.ScoreThresholdUnconditional {
			scoreRejected++
			continue
		}
		m := matches[c.matchIndex]
		grid.increment(currentKeypoints[m.CurrentIndex])
		accepted = append(accepted, m)
	}

	// Stage 4: strong admission, bucket-capped.
	for ; idx < len(ordered) && idx < cfg.NumberOfKeyPointsStrong; idx++ {
		c := ordered[idx]
		if c.score < cfg.ScoreThresholdStrong {
			scoreRejected++
			continue
		}
		m := matches[c.matchIndex]
		b := grid.indexOf(currentKeypoints[m.CurrentIndex])
		if grid.occupancy[b] < capPerBucket {
			grid.increment(currentKeypoints[m.CurrentIndex])
			accepted = append(accepted, m)
		} else {
			bucketRejected++
		}
	}

	return admissionResult{accepted: accepted, scoreRejected: scoreRejected, bucketRejected: bucketRejected}
}
