package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/expedition-planner/internal/workflows"
)

// Starter implements ports.WorkflowStarter with a Temporal client.
type Starter struct {
	client    client.Client
	taskQueue string
}

// Dial connects to the Temporal frontend at hostPort.
func Dial(hostPort, namespace string) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal client: %w", err)
	}
	return c, nil
}

// NewStarter creates a Starter submitting to the altitude enrichment queue.
func NewStarter(c client.Client) *Starter {
	return &Starter{client: c, taskQueue: workflows.TaskQueue}
}

// StartAltitudeEnrichment starts the enrichment workflow for an itinerary and
// returns its run ID.
func (s *Starter) StartAltitudeEnrichment(ctx context.Context, itineraryID string) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:        workflows.WorkflowID(itineraryID),
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, workflows.AltitudeEnrichmentWorkflow,
		workflows.AltitudeEnrichmentInput{ItineraryID: itineraryID})
	if err != nil {
		return "", fmt.Errorf("start altitude enrichment: %w", err)
	}
	return run.GetRunID(), nil
}
