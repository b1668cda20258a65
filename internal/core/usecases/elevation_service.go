package usecases

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
	"github.com/samirrijal/expedition-planner/internal/pkg/metrics"
	"github.com/samirrijal/expedition-planner/internal/pkg/telemetry"
)

const elevationCacheTTL = 24 * 60 * 60 // seconds

// ElevationService resolves terrain altitude for a coordinate.
type ElevationService struct {
	provider ports.ElevationProvider
	cache    ports.CacheService
}

// NewElevationService creates a new ElevationService. cache may be nil.
func NewElevationService(provider ports.ElevationProvider, cache ports.CacheService) *ElevationService {
	return &ElevationService{provider: provider, cache: cache}
}

// Lookup returns the altitude in whole meters at (lat, lon).
func (s *ElevationService) Lookup(ctx context.Context, lat, lon float64) (int, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanElevationLookup)
	defer span.End()

	if !geospatial.IsValidCoordinate(lat) {
		return 0, &domain.ValidationError{Field: "latitude", Value: lat, Reason: "out of valid range"}
	}
	if !geospatial.IsValidCoordinate(lon) {
		return 0, &domain.ValidationError{Field: "longitude", Value: lon, Reason: "out of valid range"}
	}

	cacheKey := fmt.Sprintf("elevation:%.5f:%.5f", lat, lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			if alt, err := strconv.Atoi(string(data)); err == nil {
				metrics.CacheHits.WithLabelValues("elevation").Inc()
				metrics.ElevationLookups.WithLabelValues("cached").Inc()
				span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
				return alt, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("elevation").Inc()
	}

	start := time.Now()
	elev, err := s.provider.Elevation(ctx, lat, lon)
	metrics.ElevationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		fail(span, err)
		metrics.ElevationLookups.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("elevation lookup: %w", err)
	}
	metrics.ElevationLookups.WithLabelValues("ok").Inc()

	alt := int(math.Round(elev))
	span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, false))
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, []byte(strconv.Itoa(alt)), elevationCacheTTL)
	}
	return alt, nil
}

