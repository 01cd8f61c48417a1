package gyrotrack

import "sort"

// indexedPoint pairs a current-frame keypoint with its original index,
// used once the keypoints are sorted by y-coordinate.
type indexedPoint struct {
	point Point
	index int
}

// RowIndex supports "all keypoints whose y-coordinate lies in
// [yLo, yHi]" queries in O(1) after an O(N log N + H) build, via a
// y-sorted copy of the keypoints plus a cumulative row lookup table.
type RowIndex struct {
	sorted []indexedPoint
	lut    []int // length imageHeight; lut[y] = first sorted index with point.Y > y-1
}

// NewRowIndex builds a RowIndex over keypoints for an image of the
// given height. Rows are clamped into [0, imageHeight-1] by callers of
// Query, not by NewRowIndex itself.
func NewRowIndex(keypoints []Point, imageHeight int) *RowIndex {
	sorted := make([]indexedPoint, len(keypoints))
	for i, p := range keypoints {
		sorted[i] = indexedPoint{point: p, index: i}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].point.Y < sorted[j].point.Y
	})

	lut := make([]int, imageHeight)
	v := 0
	n := len(sorted)
	for y := 0; y < imageHeight; y++ {
		for v < n && float64(y) > sorted[v].point.Y {
			v++
		}
		lut[y] = v
	}
	return &RowIndex{sorted: sorted, lut: lut}
}

// Query returns the half-open range [lo, hi) into the y-sorted keypoint
// slice covering rows [yLo, yHi] inclusive. Callers must clamp yLo/yHi
// into [0, imageHeight-1] beforehand.
func (r *RowIndex) Query(yLo, yHi int) (lo, hi int) {
	lo = r.lut[yLo]
	upper := yHi + 1
	if upper >= len(r.lut) {
		hi = len(r.sorted)
	} else {
		hi = r.lut[upper]
	}
	return lo, hi
}

// At returns the sorted keypoint (and its original index) at position i
// in the y-sorted order, valid for i in a range returned by Query.
func (r *RowIndex) At(i int) (Point, int) {
	ip := r.sorted[i]
	return ip.point, ip.index
}
