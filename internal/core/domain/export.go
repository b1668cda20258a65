package domain

// ExportWaypoint is the serialized form of a waypoint.
type ExportWaypoint struct {
	Name              string  `json:"name"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	DistanceKm        float64 `json:"distance_km"`
	EstimatedSpeedKph float64 `json:"estimated_speed_kph"`
	AltitudeM         int     `json:"altitude_m"`
}

// ExportView is the serialized form of an itinerary with its totals.
type ExportView struct {
	Itinerary          []ExportWaypoint `json:"itinerary"`
	TotalDistanceKm    float64          `json:"total_distance_km"`
	EstimatedTimeHours float64          `json:"estimated_time_hours"`
}

// ToExportView returns the itinerary in order with its totals. An empty
// itinerary yields an empty, non-nil list.
func (it *Itinerary) ToExportView() ExportView {
	out := make([]ExportWaypoint, 0, len(it.waypoints))
	for _, w := range it.waypoints {
		out = append(out, ExportWaypoint{
			Name:              w.Name,
			Latitude:          w.Latitude,
			Longitude:         w.Longitude,
			DistanceKm:        w.DistanceKm,
			EstimatedSpeedKph: w.EstimatedSpeedKph,
			AltitudeM:         w.AltitudeM,
		})
	}
	return ExportView{
		Itinerary:          out,
		TotalDistanceKm:    it.TotalDistanceKm(),
		EstimatedTimeHours: it.EstimatedTimeHours(),
	}
}

// FromExportView rebuilds an itinerary from an export. Imported distances are
// trusted, so every waypoint is marked DistanceManual.
func FromExportView(v ExportView) (*Itinerary, error) {
	it := &Itinerary{}
	for _, e := range v.Itinerary {
		w := Waypoint{
			Name:              e.Name,
			Latitude:          e.Latitude,
			Longitude:         e.Longitude,
			DistanceKm:        e.DistanceKm,
			EstimatedSpeedKph: e.EstimatedSpeedKph,
			AltitudeM:         e.AltitudeM,
		}
		if err := it.Append(w, DistanceManual); err != nil {
			return nil, err
		}
	}
	return it, nil
}
