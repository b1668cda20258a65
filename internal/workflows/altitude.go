package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// TaskQueue is the Temporal task queue served by the enricher worker.
const TaskQueue = "altitude-enrichment"

// AltitudeEnrichmentInput is the input for the altitude enrichment workflow.
type AltitudeEnrichmentInput struct {
	ItineraryID string
}

// AltitudeEnrichmentResult reports how many waypoints were looked up,
// resolved by the elevation provider and finally written back.
type AltitudeEnrichmentResult struct {
	Requested int
	Resolved  int
	Applied   int
}

// WorkflowID returns the workflow ID used for an itinerary, so that at most
// one enrichment runs per itinerary at a time.
func WorkflowID(itineraryID string) string {
	return "altitude-enrichment-" + itineraryID
}

// AltitudeEnrichmentWorkflow looks up the terrain elevation of every waypoint
// and writes the results back. Lookups run in parallel; a failed lookup skips
// that waypoint instead of failing the run. Waypoints moved or removed while
// the lookups ran are left alone.
func AltitudeEnrichmentWorkflow(ctx workflow.Context, input AltitudeEnrichmentInput) (AltitudeEnrichmentResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting altitude enrichment", "itineraryID", input.ItineraryID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var result AltitudeEnrichmentResult

	// Step 1: Snapshot coordinates
	var coords []WaypointCoordinate
	if err := workflow.ExecuteActivity(ctx, "ListWaypointCoordinates", input.ItineraryID).Get(ctx, &coords); err != nil {
		return result, err
	}
	result.Requested = len(coords)
	if len(coords) == 0 {
		return result, nil
	}

	// Step 2: Look up elevations
	futures := make([]workflow.Future, len(coords))
	for i, c := range coords {
		futures[i] = workflow.ExecuteActivity(ctx, "LookupElevation", c.Latitude, c.Longitude)
	}

	var updates []domain.AltitudeUpdate
	for i, f := range futures {
		var alt int
		if err := f.Get(ctx, &alt); err != nil {
			logger.Warn("elevation lookup failed, skipping waypoint", "index", coords[i].Index, "error", err)
			continue
		}
		updates = append(updates, domain.AltitudeUpdate{
			Index:     coords[i].Index,
			Latitude:  coords[i].Latitude,
			Longitude: coords[i].Longitude,
			AltitudeM: alt,
		})
	}
	result.Resolved = len(updates)
	if len(updates) == 0 {
		return result, nil
	}

	// Step 3: Write back
	if err := workflow.ExecuteActivity(ctx, "ApplyAltitudes", input.ItineraryID, updates).Get(ctx, &result.Applied); err != nil {
		return result, err
	}

	logger.Info("Altitude enrichment finished",
		"requested", result.Requested, "resolved", result.Resolved, "applied", result.Applied)
	return result, nil
}
