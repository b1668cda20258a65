package http

import (
	"context"

	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/core/usecases"
)

// ReadinessCheck probes one backing service for /v1/ready.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Itineraries *usecases.ItineraryService
	Elevation   *usecases.ElevationService
	MapClicks   *usecases.MapClickService

	// Optional backends; nil disables the routes that need them.
	Events    ports.EventSubscriber
	Workflows ports.WorkflowStarter

	Readiness []ReadinessCheck

	AllowedOrigins string
	RateLimit      int // requests per minute per IP, 0 disables
	DocsPath       string
}
