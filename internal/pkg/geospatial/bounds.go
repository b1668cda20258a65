package geospatial

import "github.com/paulmach/orb"

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Box is a lat/lon bounding rectangle.
type Box struct {
	Min Point
	Max Point
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	c := b.orb().Center()
	return Point{Lat: c.Lat(), Lon: c.Lon()}
}

func (b Box) orb() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min.Lon, b.Min.Lat},
		Max: orb.Point{b.Max.Lon, b.Max.Lat},
	}
}

// Bounds returns the smallest box containing all points. A single point is
// padded by padMeters so that a map can still frame it. ok is false for an
// empty input.
func Bounds(points []Point, padMeters float64) (box Box, ok bool) {
	if len(points) == 0 {
		return Box{}, false
	}

	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		mp = append(mp, orb.Point{p.Lon, p.Lat})
	}
	b := mp.Bound()

	if b.Min.Equal(b.Max) && padMeters > 0 {
		minLat, minLon, maxLat, maxLon := BoundingBox(b.Min.Lat(), b.Min.Lon(), padMeters)
		return Box{
			Min: Point{Lat: minLat, Lon: minLon},
			Max: Point{Lat: maxLat, Lon: maxLon},
		}, true
	}

	return Box{
		Min: Point{Lat: b.Min.Lat(), Lon: b.Min.Lon()},
		Max: Point{Lat: b.Max.Lat(), Lon: b.Max.Lon()},
	}, true
}
