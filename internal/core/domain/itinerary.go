package domain

import (
	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
)

// Itinerary is an ordered sequence of waypoints.
//
// Auto waypoints always carry the great-circle distance from their
// predecessor (0 at position 0) after any structural mutation. Manual
// waypoints keep the caller's distance wherever they move.
// The zero value is an empty itinerary ready to use.
type Itinerary struct {
	waypoints []Waypoint
}

// NewItinerary builds an itinerary from a pre-built sequence. Distances are
// taken as given and not recomputed; coordinates must pass validation.
func NewItinerary(waypoints []Waypoint) (*Itinerary, error) {
	for _, w := range waypoints {
		if err := w.validateCoordinates(); err != nil {
			return nil, err
		}
	}
	return &Itinerary{waypoints: append([]Waypoint(nil), waypoints...)}, nil
}

// Len returns the number of waypoints.
func (it *Itinerary) Len() int { return len(it.waypoints) }

// At returns the waypoint at index.
func (it *Itinerary) At(index int) (Waypoint, error) {
	if err := it.checkIndex(index); err != nil {
		return Waypoint{}, err
	}
	return it.waypoints[index], nil
}

// Waypoints returns a copy of the sequence in order.
func (it *Itinerary) Waypoints() []Waypoint {
	out := make([]Waypoint, len(it.waypoints))
	copy(out, it.waypoints)
	return out
}

// Clone returns an independent copy.
func (it *Itinerary) Clone() *Itinerary {
	return &Itinerary{waypoints: it.Waypoints()}
}

// Append validates w and adds it to the end. In DistanceAuto mode the
// distance is computed from the current last waypoint (0 if empty); in
// DistanceManual mode w.DistanceKm is kept verbatim. On error the itinerary
// is unchanged.
func (it *Itinerary) Append(w Waypoint, mode DistanceMode) error {
	if err := w.validate(mode); err != nil {
		return err
	}

	w.Mode = mode
	if mode == DistanceAuto {
		w.DistanceKm = 0
		if n := len(it.waypoints); n > 0 {
			prev := it.waypoints[n-1]
			w.DistanceKm = geospatial.GreatCircleDistanceKm(prev.Latitude, prev.Longitude, w.Latitude, w.Longitude)
		}
	}

	it.waypoints = append(it.waypoints, w)
	return nil
}

// DeleteAt removes the waypoint at index and recomputes auto distances.
func (it *Itinerary) DeleteAt(index int) (Waypoint, error) {
	if err := it.checkIndex(index); err != nil {
		return Waypoint{}, err
	}
	removed := it.waypoints[index]
	it.waypoints = append(it.waypoints[:index], it.waypoints[index+1:]...)
	it.recompute()
	return removed, nil
}

// MoveUp swaps the waypoint at index with its predecessor. Moving the first
// waypoint up is a no-op.
func (it *Itinerary) MoveUp(index int) error {
	if err := it.checkIndex(index); err != nil {
		return err
	}
	if index == 0 {
		return nil
	}
	it.swap(index, index-1)
	return nil
}

// MoveDown swaps the waypoint at index with its successor. Moving the last
// waypoint down is a no-op.
func (it *Itinerary) MoveDown(index int) error {
	if err := it.checkIndex(index); err != nil {
		return err
	}
	if index == len(it.waypoints)-1 {
		return nil
	}
	it.swap(index, index+1)
	return nil
}

// SetAltitude records the altitude in meters of the waypoint at index.
func (it *Itinerary) SetAltitude(index, altitudeM int) error {
	if err := it.checkIndex(index); err != nil {
		return err
	}
	it.waypoints[index].AltitudeM = altitudeM
	return nil
}

// TotalDistanceKm returns the sum of all stored distances.
func (it *Itinerary) TotalDistanceKm() float64 {
	var total float64
	for _, w := range it.waypoints {
		total += w.DistanceKm
	}
	return total
}

// EstimatedTimeHours returns the sum of distance/speed over waypoints with a
// known (positive) speed. The result is not rounded.
func (it *Itinerary) EstimatedTimeHours() float64 {
	var hours float64
	for _, w := range it.waypoints {
		if w.EstimatedSpeedKph > 0 {
			hours += w.DistanceKm / w.EstimatedSpeedKph
		}
	}
	return hours
}

// Summary aggregates the itinerary totals.
type Summary struct {
	Waypoints          int     `json:"waypoints"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
	TotalDistanceMiles float64 `json:"total_distance_miles"`
	EstimatedTimeHours float64 `json:"estimated_time_hours"`
}

// Summary returns the itinerary totals.
func (it *Itinerary) Summary() Summary {
	km := it.TotalDistanceKm()
	return Summary{
		Waypoints:          len(it.waypoints),
		TotalDistanceKm:    km,
		TotalDistanceMiles: geospatial.KmToMiles(km),
		EstimatedTimeHours: it.EstimatedTimeHours(),
	}
}

func (it *Itinerary) checkIndex(index int) error {
	if index < 0 || index >= len(it.waypoints) {
		return &IndexError{Index: index, Len: len(it.waypoints)}
	}
	return nil
}

func (it *Itinerary) swap(i, j int) {
	it.waypoints[i], it.waypoints[j] = it.waypoints[j], it.waypoints[i]
	it.recompute()
}

// recompute re-derives every auto distance from the current order.
func (it *Itinerary) recompute() {
	for i := range it.waypoints {
		w := &it.waypoints[i]
		if w.Mode == DistanceManual {
			continue
		}
		if i == 0 {
			w.DistanceKm = 0
			continue
		}
		prev := it.waypoints[i-1]
		w.DistanceKm = geospatial.GreatCircleDistanceKm(prev.Latitude, prev.Longitude, w.Latitude, w.Longitude)
	}
}
