package export

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// GeoJSON returns one Point feature per waypoint followed by a LineString
// "route" feature when there are at least two waypoints.
func GeoJSON(v domain.ExportView) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(v.Itinerary) == 0 {
		return fc
	}

	line := make(orb.LineString, 0, len(v.Itinerary))
	for i, wp := range v.Itinerary {
		pt := orb.Point{wp.Longitude, wp.Latitude}
		line = append(line, pt)

		f := geojson.NewFeature(pt)
		f.Properties = geojson.Properties{
			"kind":                "waypoint",
			"index":               i,
			"name":                wp.Name,
			"distance_km":         wp.DistanceKm,
			"estimated_speed_kph": wp.EstimatedSpeedKph,
			"altitude_m":          wp.AltitudeM,
		}
		fc.Append(f)
	}

	if len(line) > 1 {
		route := geojson.NewFeature(line)
		route.Properties = geojson.Properties{
			"kind":                 "route",
			"total_distance_km":    v.TotalDistanceKm,
			"estimated_time_hours": v.EstimatedTimeHours,
		}
		fc.Append(route)
	}

	fc.BBox = geojson.NewBBox(line.Bound())
	return fc
}

// WriteGeoJSON writes the GeoJSON feature collection for v.
func WriteGeoJSON(w io.Writer, v domain.ExportView) error {
	data, err := GeoJSON(v).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
