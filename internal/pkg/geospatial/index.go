package geospatial

import (
	"math"

	"github.com/tidwall/rtree"
)

// nearestCandidates is how many planar-nearest entries are re-ranked by
// great-circle distance. Planar degree distance distorts at high latitudes,
// so the first planar hit is not always the closest on the sphere.
const nearestCandidates = 8

// PointIndex answers nearest-point queries over an ordered list of points.
// Results are positions in the original list.
type PointIndex struct {
	tr     rtree.RTreeG[int]
	points []Point
}

// NewPointIndex indexes points by their position in the slice.
func NewPointIndex(points []Point) *PointIndex {
	idx := &PointIndex{points: append([]Point(nil), points...)}
	for i, p := range idx.points {
		pt := [2]float64{p.Lon, p.Lat}
		idx.tr.Insert(pt, pt, i)
	}
	return idx
}

// Len returns the number of indexed points.
func (x *PointIndex) Len() int {
	return x.tr.Len()
}

// Nearest returns the position of the point closest to (lat, lon) and its
// great-circle distance in kilometers. ok is false when the index is empty.
func (x *PointIndex) Nearest(lat, lon float64) (pos int, distanceKm float64, ok bool) {
	target := [2]float64{lon, lat}
	best := math.Inf(1)
	seen := 0

	x.tr.Nearby(
		rtree.BoxDist[float64, int](target, target, nil),
		func(_, _ [2]float64, i int, _ float64) bool {
			p := x.points[i]
			d := GreatCircleDistanceKm(lat, lon, p.Lat, p.Lon)
			if d < best || (d == best && i < pos) {
				best, pos, ok = d, i, true
			}
			seen++
			return seen < nearestCandidates
		},
	)

	if !ok {
		return 0, 0, false
	}
	return pos, best, true
}
