package gyrotrack

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Match is an ordered pair (index in the previous frame, index in the
// current frame) with the descriptor similarity score that produced it.
type Match struct {
	PrevIndex    int
	CurrentIndex int
	Score        float64
}

func clampInt(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}

// matchSearch finds, for each previous-frame keypoint with a valid
// prediction, the best current-frame candidate within a two-tier radius
// search (small window first, large window only if the small window
// found nothing). Determinism relies on iterating the row-indexed range
// in y-sorted order and keeping strictly-greater scores only.
func matchSearch(
	prevDescriptors [][]byte,
	predicted []Point,
	predictedOK []bool,
	rowIndex *RowIndex,
	currentDescriptors [][]byte,
	imageHeight int,
	cfg *Config,
) []Match {
	if cfg.ParallelMatch {
		return matchSearchParallel(prevDescriptors, predicted, predictedOK, rowIndex, currentDescriptors, imageHeight, cfg)
	}
	out := make([]Match, 0, len(prevDescriptors))
	nCurrent := len(currentDescriptors)
	processed := make([]bool, nCurrent)
	for i := range prevDescriptors {
		if !predictedOK[i] {
			continue
		}
		m, found := matchOne(i, prevDescriptors[i], predicted[i], rowIndex, currentDescriptors, imageHeight, cfg, processed)
		if found {
			out = append(out, m)
		}
		for j := range processed {
			processed[j] = false
		}
	}
	return out
}

// matchSearchParallel shards previous-frame indices across goroutines
// via errgroup, each filling its own slot of a preallocated result
// slice so the final merge (a single linear filter-and-append pass) is
// deterministic regardless of goroutine completion order.
func matchSearchParallel(
	prevDescriptors [][]byte,
	predicted []Point,
	predictedOK []bool,
	rowIndex *RowIndex,
	currentDescriptors [][]byte,
	imageHeight int,
	cfg *Config,
) []Match {
	n := len(prevDescriptors)
	slots := make([]*Match, n)
	nCurrent := len(currentDescriptors)

	var g errgroup.Group
	const shardSize = 64
	for start := 0; start < n; start += shardSize {
		end := start + shardSize
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			processed := make([]bool, nCurrent)
			for i := start; i < end; i++ {
				if !predictedOK[i] {
					continue
				}
				m, found := matchOne(i, prevDescriptors[i], predicted[i], rowIndex, currentDescriptors, imageHeight, cfg, processed)
				if found {
					mCopy := m
					slots[i] = &mCopy
				}
				for j := range processed {
					processed[j] = false
				}
			}
			return nil
		})
	}
	_ = g.Wait() // worker closures never return an error

	out := make([]Match, 0, n)
	for _, m := range slots {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// matchOne runs the two-tier radius search for a single previous-frame
// keypoint i. processed must be a nCurrent-length scratch buffer,
// zeroed by the caller before and after use.
func matchOne(
	i int,
	prevDescriptor []byte,
	predicted Point,
	rowIndex *RowIndex,
	currentDescriptors [][]byte,
	imageHeight int,
	cfg *Config,
	processed []bool,
) (Match, bool) {
	predictedRow := round(predicted.Y)
	maxRow := imageHeight - 1

	smallLo := clampInt(0, maxRow, predictedRow-cfg.MinSearchRadius)
	smallHi := clampInt(0, maxRow, predictedRow+cfg.MinSearchRadius)
	largeLo := clampInt(0, maxRow, predictedRow-cfg.SearchRadius)
	largeHi := clampInt(0, maxRow, predictedRow+cfg.SearchRadius)

	floorScore := 512 - cfg.MatchingThresholdBits
	bestScore := floorScore
	bestIndex := -1
	found := false

	// First pass: small window.
	lo, hi := rowIndex.Query(smallLo, smallHi)
	xLoSmall := predicted.X - float64(cfg.MinSearchRadius)
	xHiSmall := predicted.X + float64(cfg.MinSearchRadius)
	for k := lo; k < hi; k++ {
		p, idx := rowIndex.At(k)
		if p.X < xLoSmall || p.X > xHiSmall {
			continue
		}
		processed[idx] = true
		score := 512 - HammingDistance(prevDescriptor, currentDescriptors[idx])
		if score > bestScore {
			bestScore = score
			bestIndex = idx
			found = true
		}
	}

	// Second pass: large window, only if the small window found nothing.
	if !found {
		lo, hi = rowIndex.Query(largeLo, largeHi)
		xLoLarge := predicted.X - float64(cfg.SearchRadius)
		xHiLarge := predicted.X + float64(cfg.SearchRadius)
		for k := lo; k < hi; k++ {
			p, idx := rowIndex.At(k)
			if processed[idx] {
				continue
			}
			if p.X < xLoLarge || p.X > xHiLarge {
				continue
			}
			processed[idx] = true
			score := 512 - HammingDistance(prevDescriptor, currentDescriptors[idx])
			if score > bestScore {
				bestScore = score
				bestIndex = idx
				found = true
			}
		}
	}

	if !found {
		return Match{}, false
	}
	return Match{PrevIndex: i, CurrentIndex: bestIndex, Score: float64(bestScore)}, true
}

// predictAll computes predicted pixel positions for every previous-frame
// keypoint under the given inter-frame rotation.
func predictAll(prevKeypoints []Point, cam CameraModel, cCurrentPrev *mat.Dense) ([]Point, []bool) {
	predicted := make([]Point, len(prevKeypoints))
	ok := make([]bool, len(prevKeypoints))
	for i, p := range prevKeypoints {
		predicted[i], ok[i] = predictKeypoint(p, cam, cCurrentPrev)
	}
	return predicted, ok
}
