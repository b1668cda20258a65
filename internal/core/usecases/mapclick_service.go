package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
	"github.com/samirrijal/expedition-planner/internal/pkg/logging"
	"github.com/samirrijal/expedition-planner/internal/pkg/metrics"
	"github.com/samirrijal/expedition-planner/internal/pkg/telemetry"
)

const (
	mapClickKey = "mapclick:last"
	mapClickTTL = 24 * 60 * 60
)

// ErrNoClick is returned when no map click has been recorded yet.
var ErrNoClick = errors.New("no map click recorded")

type clickRecord struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	ClickedAt time.Time `json:"clicked_at"`
}

// MapClickService relays the location picked on the browser map to the
// planner. Only the most recent click is kept.
type MapClickService struct {
	elevation   *ElevationService
	itineraries *ItineraryService
	cache       ports.CacheService

	mu   sync.Mutex
	last *clickRecord
	now  func() time.Time
}

// NewMapClickService creates a new MapClickService. cache and elevation may
// be nil; without a cache the last click lives in process memory only.
func NewMapClickService(elevation *ElevationService, itineraries *ItineraryService, cache ports.CacheService) *MapClickService {
	return &MapClickService{
		elevation:   elevation,
		itineraries: itineraries,
		cache:       cache,
		now:         time.Now,
	}
}

// RecordClick stores a clicked location. Browsers post coordinates either as
// numbers or as numeric strings; anything else is a ValidationError.
func (s *MapClickService) RecordClick(ctx context.Context, latRaw, lonRaw any) error {
	lat, err := geospatial.ParseCoordinate(latRaw)
	if err != nil {
		return &domain.ValidationError{Field: "latitude", Value: math.NaN(), Reason: err.Error()}
	}
	lon, err := geospatial.ParseCoordinate(lonRaw)
	if err != nil {
		return &domain.ValidationError{Field: "longitude", Value: math.NaN(), Reason: err.Error()}
	}

	rec := &clickRecord{Latitude: lat, Longitude: lon, ClickedAt: s.now().UTC()}

	s.mu.Lock()
	s.last = rec
	s.mu.Unlock()

	if s.cache != nil {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := s.cache.Set(ctx, mapClickKey, data, mapClickTTL); err != nil {
			logging.FromContext(ctx).Warn("cache map click failed", "error", err)
		}
	}
	return nil
}

// LastClick returns the most recent click with its altitude when the
// elevation lookup succeeds. A click outside the valid coordinate range is a
// ValidationError.
func (s *MapClickService) LastClick(ctx context.Context) (*domain.ClickedPoint, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanMapClickLast)
	defer span.End()

	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if !geospatial.IsValidCoordinate(rec.Latitude) {
		return nil, &domain.ValidationError{Field: "latitude", Value: rec.Latitude, Reason: "out of valid range"}
	}
	if !geospatial.IsValidCoordinate(rec.Longitude) {
		return nil, &domain.ValidationError{Field: "longitude", Value: rec.Longitude, Reason: "out of valid range"}
	}

	formatted, _ := geospatial.FormatCoordinatePair(rec.Latitude, rec.Longitude)
	point := &domain.ClickedPoint{
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Formatted: formatted,
		ClickedAt: rec.ClickedAt,
	}

	if s.elevation != nil {
		alt, err := s.elevation.Lookup(ctx, rec.Latitude, rec.Longitude)
		if err != nil {
			logging.FromContext(ctx).Warn("elevation for map click unavailable",
				slog.String("coords", formatted), slog.Any("error", err))
		} else {
			point.AltitudeM = &alt
		}
	}
	return point, nil
}

// AppendFromClick appends the last clicked location to an itinerary as an
// auto-distance waypoint. An empty name falls back to the formatted
// coordinates.
func (s *MapClickService) AppendFromClick(ctx context.Context, itineraryID, name string, speedKph float64) (*domain.SavedItinerary, error) {
	point, err := s.LastClick(ctx)
	if err != nil {
		return nil, err
	}

	wp := domain.Waypoint{
		Name:              name,
		Latitude:          point.Latitude,
		Longitude:         point.Longitude,
		EstimatedSpeedKph: speedKph,
	}
	if wp.Name == "" {
		wp.Name = point.Formatted
	}
	if point.AltitudeM != nil {
		wp.AltitudeM = *point.AltitudeM
	}
	return s.itineraries.AppendWaypoint(ctx, itineraryID, wp, domain.DistanceAuto)
}

func (s *MapClickService) load(ctx context.Context) (*clickRecord, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, mapClickKey); err == nil {
			var rec clickRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				metrics.CacheHits.WithLabelValues("mapclick").Inc()
				return &rec, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("mapclick").Inc()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, ErrNoClick
	}
	rec := *s.last
	return &rec, nil
}
