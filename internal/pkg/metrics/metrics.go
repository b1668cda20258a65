package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expedition",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "expedition",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "expedition",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Itinerary metrics
	ItineraryMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expedition",
		Subsystem: "itinerary",
		Name:      "mutations_total",
		Help:      "Itinerary mutations by operation and result",
	}, []string{"op", "result"})

	ItineraryWaypoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "expedition",
		Subsystem: "itinerary",
		Name:      "waypoints",
		Help:      "Waypoint count of an itinerary after a mutation",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expedition",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Itinerary events handed to the broker",
	}, []string{"result"})

	// Elevation metrics
	ElevationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expedition",
		Subsystem: "elevation",
		Name:      "lookups_total",
		Help:      "Elevation lookups by result",
	}, []string{"result"})

	ElevationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "expedition",
		Subsystem: "elevation",
		Name:      "provider_duration_seconds",
		Help:      "Duration of elevation provider calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "expedition",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expedition",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expedition",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// Route pattern keeps itinerary IDs out of the label set.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
