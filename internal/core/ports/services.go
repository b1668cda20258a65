package ports

import (
	"context"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// EventPublisher publishes itinerary events to a message broker.
type EventPublisher interface {
	PublishItineraryEvent(ctx context.Context, event *domain.ItineraryEvent) error
}

// EventSubscriber delivers itinerary events for a single itinerary.
// The returned function cancels the subscription.
type EventSubscriber interface {
	SubscribeItinerary(ctx context.Context, itineraryID string, handler func(ctx context.Context, event *domain.ItineraryEvent) error) (func() error, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ElevationProvider looks up terrain elevation in meters.
type ElevationProvider interface {
	Elevation(ctx context.Context, lat, lon float64) (float64, error)
}

// WorkflowStarter launches background workflows.
type WorkflowStarter interface {
	// StartAltitudeEnrichment fills in waypoint altitudes for an itinerary
	// and returns the run ID.
	StartAltitudeEnrichment(ctx context.Context, itineraryID string) (string, error)
}
