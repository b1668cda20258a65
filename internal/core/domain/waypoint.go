package domain

import (
	"fmt"
	"math"

	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
)

// DistanceMode decides whether a waypoint's distance is derived from its
// predecessor (Auto) or trusted as supplied by the caller (Manual).
type DistanceMode int

const (
	DistanceAuto DistanceMode = iota
	DistanceManual
)

func (m DistanceMode) String() string {
	switch m {
	case DistanceAuto:
		return "auto"
	case DistanceManual:
		return "manual"
	default:
		return fmt.Sprintf("DistanceMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m DistanceMode) MarshalText() ([]byte, error) {
	switch m {
	case DistanceAuto, DistanceManual:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("unknown distance mode %d", int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text means auto.
func (m *DistanceMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "auto":
		*m = DistanceAuto
	case "manual":
		*m = DistanceManual
	default:
		return fmt.Errorf("unknown distance mode %q", text)
	}
	return nil
}

// Waypoint is a single stop on the route.
//
// DistanceKm is the great-circle distance from the preceding waypoint (0 for
// the first) unless Mode is DistanceManual. EstimatedSpeedKph of 0 means the
// speed is unknown.
type Waypoint struct {
	Name              string       `json:"name"`
	Latitude          float64      `json:"latitude"`
	Longitude         float64      `json:"longitude"`
	DistanceKm        float64      `json:"distance_km"`
	EstimatedSpeedKph float64      `json:"estimated_speed_kph"`
	AltitudeM         int          `json:"altitude_m"`
	Mode              DistanceMode `json:"distance_mode"`
}

// Point returns the waypoint's coordinates.
func (w Waypoint) Point() GeoPoint {
	return GeoPoint{Lat: w.Latitude, Lon: w.Longitude}
}

// LegTimeHours returns the travel time for this waypoint's leg rounded to
// 2 decimal places, or 0 when the speed is unknown.
func (w Waypoint) LegTimeHours() float64 {
	if w.EstimatedSpeedKph > 0 {
		return geospatial.Round(w.DistanceKm/w.EstimatedSpeedKph, 2)
	}
	return 0
}

func (w Waypoint) validateCoordinates() error {
	if !geospatial.IsValidCoordinate(w.Latitude) {
		return &ValidationError{Field: "latitude", Value: w.Latitude, Reason: "out of valid range"}
	}
	if !geospatial.IsValidCoordinate(w.Longitude) {
		return &ValidationError{Field: "longitude", Value: w.Longitude, Reason: "out of valid range"}
	}
	return nil
}

func (w Waypoint) validate(mode DistanceMode) error {
	if err := w.validateCoordinates(); err != nil {
		return err
	}
	if math.IsNaN(w.EstimatedSpeedKph) || math.IsInf(w.EstimatedSpeedKph, 0) || w.EstimatedSpeedKph < 0 {
		return &ValidationError{Field: "estimated_speed_kph", Value: w.EstimatedSpeedKph, Reason: "must be a non-negative number"}
	}
	switch mode {
	case DistanceAuto:
	case DistanceManual:
		if math.IsNaN(w.DistanceKm) || math.IsInf(w.DistanceKm, 0) || w.DistanceKm < 0 {
			return &ValidationError{Field: "distance_km", Value: w.DistanceKm, Reason: "must be a non-negative number"}
		}
	default:
		return &ValidationError{Field: "distance_mode", Value: float64(mode), Reason: "unknown mode"}
	}
	return nil
}
