package geospatial

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const kmToMiles = 0.621371

// IsValidCoordinate reports whether value lies in [-90, 90] or in [-180, 180].
//
// The same predicate is applied to latitude and longitude, so it accepts any
// value in [-180, 180] for either axis (a latitude of 120 passes). Callers that
// need strict per-axis ranges must check them separately.
func IsValidCoordinate(value float64) bool {
	return (value >= -90 && value <= 90) || (value >= -180 && value <= 180)
}

// ParseCoordinate coerces a numeric or numeric-string value to float64.
// Browsers post map clicks as strings ("69.65000"), forms post numbers.
func ParseCoordinate(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("parse coordinate %q: %w", n, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported coordinate type %T", v)
	}
}

// FormatCoordinatePair renders lat/lon to 4 decimal places with a degree marker,
// e.g. "60.0000°, 25.0000°".
func FormatCoordinatePair(lat, lon any) (string, error) {
	la, err := ParseCoordinate(lat)
	if err != nil {
		return "", fmt.Errorf("latitude: %w", err)
	}
	lo, err := ParseCoordinate(lon)
	if err != nil {
		return "", fmt.Errorf("longitude: %w", err)
	}
	return fmt.Sprintf("%.4f°, %.4f°", la, lo), nil
}

// KmToMiles converts kilometers to miles, rounded to 2 decimal places.
func KmToMiles(km float64) float64 {
	return Round(km*kmToMiles, 2)
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
