package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/expedition-planner/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacyRoutes are kept for older map pages that still post to them.
var legacyRoutes = []DeprecatedRoute{
	{
		Path:        "/add",
		SunsetDate:  time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
		Alternative: "/map/click",
	},
}

// SetupRoutes registers all REST, GraphQL, map and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(recover.New())

	if deps.AllowedOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: deps.AllowedOrigins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		}))
	}

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "SAMEORIGIN")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(legacyRoutes))

	app.Get("/v1/health", HealthHandler())
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Post("/itineraries", withTimeout(CreateItineraryHandler(deps)))
	v1.Get("/itineraries", withTimeout(ListItinerariesHandler(deps)))
	v1.Get("/itineraries/:id", withTimeout(GetItineraryHandler(deps)))
	v1.Delete("/itineraries/:id", withTimeout(DeleteItineraryHandler(deps)))

	v1.Post("/itineraries/:id/waypoints", withTimeout(AppendWaypointHandler(deps)))
	v1.Get("/itineraries/:id/waypoints/nearest", withTimeout(NearestWaypointHandler(deps)))
	v1.Post("/itineraries/:id/waypoints/from-click", withTimeout(AppendFromClickHandler(deps)))
	v1.Delete("/itineraries/:id/waypoints/:index", withTimeout(DeleteWaypointHandler(deps)))
	v1.Post("/itineraries/:id/waypoints/:index/move-up", withTimeout(MoveWaypointUpHandler(deps)))
	v1.Post("/itineraries/:id/waypoints/:index/move-down", withTimeout(MoveWaypointDownHandler(deps)))
	v1.Put("/itineraries/:id/waypoints/:index/altitude", withTimeout(SetAltitudeHandler(deps)))
	v1.Post("/itineraries/:id/enrich-altitudes", withTimeout(EnrichAltitudesHandler(deps)))

	v1.Get("/itineraries/:id/export.json", withTimeout(ExportJSONHandler(deps)))
	v1.Get("/itineraries/:id/export.pdf", withTimeout(ExportPDFHandler(deps)))
	v1.Get("/itineraries/:id/export.geojson", withTimeout(ExportGeoJSONHandler(deps)))
	v1.Get("/itineraries/:id/map", withTimeout(ItineraryMapHandler(deps)))

	v1.Get("/elevation", withTimeout(ElevationHandler(deps)))

	// Map click page and its callbacks
	app.Get("/map/click", MapClickPageHandler())
	app.Post("/map/click", RecordClickHandler(deps))
	app.Post("/add", RecordClickHandler(deps))
	app.Get("/map/click/last", withTimeout(LastClickHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, deps.DocsPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Events)))
}

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}
