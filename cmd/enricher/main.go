package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/expedition-planner/internal/adapters/nats"
	"github.com/samirrijal/expedition-planner/internal/adapters/opentopo"
	"github.com/samirrijal/expedition-planner/internal/adapters/postgres"
	"github.com/samirrijal/expedition-planner/internal/adapters/temporal"
	"github.com/samirrijal/expedition-planner/internal/adapters/valkey"
	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/core/usecases"
	"github.com/samirrijal/expedition-planner/internal/pkg/config"
	"github.com/samirrijal/expedition-planner/internal/pkg/logging"
	"github.com/samirrijal/expedition-planner/internal/workflows"
)

// The enricher shares the itinerary store with the API, so it needs the
// database; an in-memory store would never see the API's itineraries.
func main() {
	cfg, err := config.Load("expedition-enricher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if !cfg.Database.Enabled {
		log.Fatal("enricher requires database.enabled=true")
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		c, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer c.Close()
			cache = c
		}
	}

	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		conn, err := natsadapter.Connect(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer conn.Close()
			if pub, err := natsadapter.NewPublisher(conn); err != nil {
				slog.Warn("nats jetstream unavailable", "error", err)
			} else {
				publisher = pub
			}
		}
	}

	c, err := temporal.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	provider := opentopo.New(cfg.Elevation.BaseURL, cfg.Elevation.Dataset, cfg.Elevation.TimeoutDuration())

	w := worker.New(c, workflows.TaskQueue, worker.Options{
		// api.opentopodata.org allows one request per second.
		TaskQueueActivitiesPerSecond: 1,
	})

	w.RegisterWorkflow(workflows.AltitudeEnrichmentWorkflow)
	w.RegisterActivity(&workflows.AltitudeActivities{
		Itineraries: usecases.NewItineraryService(postgres.NewItineraryRepo(db), publisher),
		Elevation:   usecases.NewElevationService(provider, cache),
	})

	slog.Info("enricher worker started", "task_queue", workflows.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
