package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/expedition-planner/internal/adapters/opentopo"
	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// WaypointCoordinate is a waypoint position captured at workflow start.
type WaypointCoordinate struct {
	Index     int
	Latitude  float64
	Longitude float64
}

// ItineraryStore is the part of the itinerary service the activities need.
type ItineraryStore interface {
	Get(ctx context.Context, id string) (*domain.SavedItinerary, error)
	ApplyAltitudes(ctx context.Context, id string, updates []domain.AltitudeUpdate) (int, error)
}

// ElevationLookup resolves altitude in whole meters.
type ElevationLookup interface {
	Lookup(ctx context.Context, lat, lon float64) (int, error)
}

// AltitudeActivities holds the activity implementations for the altitude
// enrichment workflow.
type AltitudeActivities struct {
	Itineraries ItineraryStore
	Elevation   ElevationLookup
}

// ListWaypointCoordinates returns the current coordinates of every waypoint.
func (a *AltitudeActivities) ListWaypointCoordinates(ctx context.Context, itineraryID string) ([]WaypointCoordinate, error) {
	saved, err := a.Itineraries.Get(ctx, itineraryID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary %s: %w", itineraryID, err)
	}

	waypoints := saved.Itinerary.Waypoints()
	out := make([]WaypointCoordinate, len(waypoints))
	for i, w := range waypoints {
		out[i] = WaypointCoordinate{Index: i, Latitude: w.Latitude, Longitude: w.Longitude}
	}
	return out, nil
}

// LookupElevation returns the altitude at a coordinate. Locations outside the
// dataset are not retried.
func (a *AltitudeActivities) LookupElevation(ctx context.Context, lat, lon float64) (int, error) {
	alt, err := a.Elevation.Lookup(ctx, lat, lon)
	switch {
	case errors.Is(err, opentopo.ErrNoElevation):
		return 0, temporal.NewNonRetryableApplicationError(err.Error(), "NoElevation", err)
	case errors.Is(err, domain.ErrValidation):
		return 0, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidCoordinate", err)
	case err != nil:
		return 0, err
	}
	return alt, nil
}

// ApplyAltitudes writes resolved altitudes back and returns how many applied.
func (a *AltitudeActivities) ApplyAltitudes(ctx context.Context, itineraryID string, updates []domain.AltitudeUpdate) (int, error) {
	n, err := a.Itineraries.ApplyAltitudes(ctx, itineraryID, updates)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
	}
	if err != nil {
		return 0, fmt.Errorf("apply altitudes to %s: %w", itineraryID, err)
	}
	return n, nil
}
