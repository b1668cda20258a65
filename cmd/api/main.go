package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/expedition-planner/internal/adapters/http"
	"github.com/samirrijal/expedition-planner/internal/adapters/memory"
	natsadapter "github.com/samirrijal/expedition-planner/internal/adapters/nats"
	"github.com/samirrijal/expedition-planner/internal/adapters/opentopo"
	"github.com/samirrijal/expedition-planner/internal/adapters/postgres"
	"github.com/samirrijal/expedition-planner/internal/adapters/temporal"
	"github.com/samirrijal/expedition-planner/internal/adapters/valkey"
	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/core/usecases"
	"github.com/samirrijal/expedition-planner/internal/pkg/config"
	"github.com/samirrijal/expedition-planner/internal/pkg/logging"
	"github.com/samirrijal/expedition-planner/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("expedition-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	var readiness []http.ReadinessCheck

	// Itinerary store
	var repo ports.ItineraryRepository = memory.NewItineraryRepo()
	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewItineraryRepo(db)
		readiness = append(readiness, http.ReadinessCheck{Name: "database", Ping: db.Ping})
	} else {
		slog.Info("database disabled, itineraries are kept in memory")
	}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		c, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer c.Close()
			cache = c
			readiness = append(readiness, http.ReadinessCheck{Name: "cache", Ping: c.Ping})
		}
	}

	// NATS
	var publisher ports.EventPublisher
	var events ports.EventSubscriber
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
			sub := natsadapter.NewSubscriber(conn)
			events = sub
			readiness = append(readiness, http.ReadinessCheck{Name: "nats", Ping: func(context.Context) error {
				if !sub.Connected() {
					return errors.New("disconnected")
				}
				return nil
			}})
		}
	}

	// Temporal
	var starter ports.WorkflowStarter
	if cfg.Temporal.Enabled {
		tc, err := temporal.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
		if err != nil {
			slog.Warn("temporal unavailable, altitude enrichment disabled", "error", err)
		} else {
			defer tc.Close()
			starter = temporal.NewStarter(tc)
		}
	}

	// Use cases
	elevationProvider := opentopo.New(cfg.Elevation.BaseURL, cfg.Elevation.Dataset, cfg.Elevation.TimeoutDuration())
	itinerarySvc := usecases.NewItineraryService(repo, publisher)
	elevationSvc := usecases.NewElevationService(elevationProvider, cache)
	mapClickSvc := usecases.NewMapClickService(elevationSvc, itinerarySvc, cache)

	deps := &http.Dependencies{
		Itineraries:    itinerarySvc,
		Elevation:      elevationSvc,
		MapClicks:      mapClickSvc,
		Events:         events,
		Workflows:      starter,
		Readiness:      readiness,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Expedition Planner API",
	})

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
