package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
	"github.com/samirrijal/expedition-planner/internal/pkg/logging"
	"github.com/samirrijal/expedition-planner/internal/pkg/metrics"
	"github.com/samirrijal/expedition-planner/internal/pkg/telemetry"
)

const defaultItineraryName = "Expedition"

// ItineraryService handles itinerary business logic. Mutations are serialized
// so that each load-modify-save cycle sees the previous one's result.
type ItineraryService struct {
	repo      ports.ItineraryRepository
	publisher ports.EventPublisher

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewItineraryService creates a new ItineraryService. publisher may be nil.
func NewItineraryService(repo ports.ItineraryRepository, publisher ports.EventPublisher) *ItineraryService {
	return &ItineraryService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create stores a new empty itinerary.
func (s *ItineraryService) Create(ctx context.Context, name string) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanItineraryCreate)
	defer span.End()

	return s.create(ctx, span, "create", name, &domain.Itinerary{})
}

// Import stores a previously exported itinerary under a new ID. Exported
// distances are kept as entered, so every waypoint becomes manual.
func (s *ItineraryService) Import(ctx context.Context, name string, view domain.ExportView) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanItineraryImport,
		trace.WithAttributes(attribute.Int(telemetry.AttrWaypointCount, len(view.Itinerary))))
	defer span.End()

	it, err := domain.FromExportView(view)
	if err != nil {
		fail(span, err)
		metrics.ItineraryMutations.WithLabelValues("import", "error").Inc()
		return nil, err
	}
	return s.create(ctx, span, "import", name, it)
}

func (s *ItineraryService) create(ctx context.Context, span trace.Span, op, name string, it *domain.Itinerary) (*domain.SavedItinerary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultItineraryName
	}

	now := s.now().UTC()
	saved := &domain.SavedItinerary{
		ID:        s.newID(),
		Name:      name,
		Itinerary: it,
		CreatedAt: now,
		UpdatedAt: now,
	}
	span.SetAttributes(attribute.String(telemetry.AttrItineraryID, saved.ID))

	if err := s.repo.Create(ctx, saved); err != nil {
		fail(span, err)
		metrics.ItineraryMutations.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("%s itinerary: %w", op, err)
	}
	metrics.ItineraryMutations.WithLabelValues(op, "ok").Inc()

	s.publish(ctx, saved, domain.EventItineraryCreated, -1, nil)
	return saved, nil
}

// Get returns a saved itinerary.
func (s *ItineraryService) Get(ctx context.Context, id string) (*domain.SavedItinerary, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of itineraries and the total count.
func (s *ItineraryService) List(ctx context.Context, offset, limit int) ([]domain.SavedItinerary, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

// Delete removes an itinerary.
func (s *ItineraryService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanItineraryDelete,
		trace.WithAttributes(attribute.String(telemetry.AttrItineraryID, id)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		fail(span, err)
		metrics.ItineraryMutations.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.ItineraryMutations.WithLabelValues("delete", "ok").Inc()

	s.publish(ctx, &domain.SavedItinerary{ID: id, Itinerary: &domain.Itinerary{}}, domain.EventItineraryDeleted, -1, nil)
	return nil
}

// AppendWaypoint adds a waypoint to the end of an itinerary.
func (s *ItineraryService) AppendWaypoint(ctx context.Context, id string, wp domain.Waypoint, mode domain.DistanceMode) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointAppend, trace.WithAttributes(
		attribute.String(telemetry.AttrItineraryID, id),
		attribute.String(telemetry.AttrDistanceMode, mode.String()),
	))
	defer span.End()

	return s.mutate(ctx, span, "append", id, domain.EventWaypointAppended, func(it *domain.Itinerary) (int, *domain.Waypoint, error) {
		if err := it.Append(wp, mode); err != nil {
			return 0, nil, err
		}
		idx := it.Len() - 1
		added, _ := it.At(idx)
		return idx, &added, nil
	})
}

// DeleteWaypoint removes the waypoint at index.
func (s *ItineraryService) DeleteWaypoint(ctx context.Context, id string, index int) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointDelete, trace.WithAttributes(
		attribute.String(telemetry.AttrItineraryID, id),
		attribute.Int(telemetry.AttrWaypointIndex, index),
	))
	defer span.End()

	return s.mutate(ctx, span, "delete_waypoint", id, domain.EventWaypointDeleted, func(it *domain.Itinerary) (int, *domain.Waypoint, error) {
		removed, err := it.DeleteAt(index)
		if err != nil {
			return 0, nil, err
		}
		return index, &removed, nil
	})
}

// MoveWaypointUp swaps the waypoint at index with its predecessor.
func (s *ItineraryService) MoveWaypointUp(ctx context.Context, id string, index int) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointMove, trace.WithAttributes(
		attribute.String(telemetry.AttrItineraryID, id),
		attribute.Int(telemetry.AttrWaypointIndex, index),
	))
	defer span.End()

	return s.mutate(ctx, span, "move_up", id, domain.EventWaypointMovedUp, func(it *domain.Itinerary) (int, *domain.Waypoint, error) {
		return index, nil, it.MoveUp(index)
	})
}

// MoveWaypointDown swaps the waypoint at index with its successor.
func (s *ItineraryService) MoveWaypointDown(ctx context.Context, id string, index int) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointMove, trace.WithAttributes(
		attribute.String(telemetry.AttrItineraryID, id),
		attribute.Int(telemetry.AttrWaypointIndex, index),
	))
	defer span.End()

	return s.mutate(ctx, span, "move_down", id, domain.EventWaypointMovedDown, func(it *domain.Itinerary) (int, *domain.Waypoint, error) {
		return index, nil, it.MoveDown(index)
	})
}

// SetAltitude records the altitude of the waypoint at index.
func (s *ItineraryService) SetAltitude(ctx context.Context, id string, index, altitudeM int) (*domain.SavedItinerary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointAltitude, trace.WithAttributes(
		attribute.String(telemetry.AttrItineraryID, id),
		attribute.Int(telemetry.AttrWaypointIndex, index),
	))
	defer span.End()

	return s.mutate(ctx, span, "set_altitude", id, domain.EventWaypointAltitudeSet, func(it *domain.Itinerary) (int, *domain.Waypoint, error) {
		if err := it.SetAltitude(index, altitudeM); err != nil {
			return 0, nil, err
		}
		w, _ := it.At(index)
		return index, &w, nil
	})
}

// ApplyAltitudes sets altitudes in bulk, skipping updates whose waypoint has
// moved or been removed since the coordinates were read. It returns the
// number of updates applied.
func (s *ItineraryService) ApplyAltitudes(ctx context.Context, id string, updates []domain.AltitudeUpdate) (int, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointAltitude, trace.WithAttributes(
		attribute.String(telemetry.AttrItineraryID, id),
		attribute.Int(telemetry.AttrWaypointCount, len(updates)),
	))
	defer span.End()

	applied := 0
	_, err := s.mutate(ctx, span, "apply_altitudes", id, domain.EventWaypointAltitudeSet, func(it *domain.Itinerary) (int, *domain.Waypoint, error) {
		for _, u := range updates {
			w, err := it.At(u.Index)
			if err != nil || w.Latitude != u.Latitude || w.Longitude != u.Longitude {
				continue
			}
			if err := it.SetAltitude(u.Index, u.AltitudeM); err != nil {
				return 0, nil, err
			}
			applied++
		}
		if applied == 0 {
			return 0, nil, errUnchanged
		}
		return -1, nil, nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// Export returns the serializable view of an itinerary.
func (s *ItineraryService) Export(ctx context.Context, id string) (domain.ExportView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanItineraryExport,
		trace.WithAttributes(attribute.String(telemetry.AttrItineraryID, id)))
	defer span.End()

	saved, err := s.repo.Get(ctx, id)
	if err != nil {
		fail(span, err)
		return domain.ExportView{}, err
	}
	return saved.Itinerary.ToExportView(), nil
}

// NearestWaypoint returns the waypoint closest to (lat, lon). Ties go to the
// earlier waypoint. An empty itinerary yields an IndexError.
func (s *ItineraryService) NearestWaypoint(ctx context.Context, id string, lat, lon float64) (*domain.WaypointMatch, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWaypointNearest,
		trace.WithAttributes(attribute.String(telemetry.AttrItineraryID, id)))
	defer span.End()

	if !geospatial.IsValidCoordinate(lat) {
		return nil, &domain.ValidationError{Field: "latitude", Value: lat, Reason: "out of valid range"}
	}
	if !geospatial.IsValidCoordinate(lon) {
		return nil, &domain.ValidationError{Field: "longitude", Value: lon, Reason: "out of valid range"}
	}

	saved, err := s.repo.Get(ctx, id)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	waypoints := saved.Itinerary.Waypoints()
	points := make([]geospatial.Point, len(waypoints))
	for i, w := range waypoints {
		points[i] = geospatial.Point{Lat: w.Latitude, Lon: w.Longitude}
	}

	pos, d, ok := geospatial.NewPointIndex(points).Nearest(lat, lon)
	if !ok {
		return nil, &domain.IndexError{Index: 0, Len: 0}
	}
	return &domain.WaypointMatch{Index: pos, Waypoint: waypoints[pos], DistanceKm: d}, nil
}

type mutation func(it *domain.Itinerary) (index int, wp *domain.Waypoint, err error)

// errUnchanged is returned by a mutation that left the itinerary as it was;
// nothing is saved or published.
var errUnchanged = errors.New("itinerary unchanged")

func (s *ItineraryService) mutate(ctx context.Context, span trace.Span, op, id string, kind domain.EventKind, fn mutation) (*domain.SavedItinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.repo.Get(ctx, id)
	if err != nil {
		fail(span, err)
		metrics.ItineraryMutations.WithLabelValues(op, "error").Inc()
		return nil, err
	}

	index, wp, err := fn(saved.Itinerary)
	if errors.Is(err, errUnchanged) {
		metrics.ItineraryMutations.WithLabelValues(op, "unchanged").Inc()
		return saved, nil
	}
	if err != nil {
		fail(span, err)
		metrics.ItineraryMutations.WithLabelValues(op, "rejected").Inc()
		return nil, err
	}

	saved.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, saved); err != nil {
		fail(span, err)
		metrics.ItineraryMutations.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("save itinerary %s: %w", id, err)
	}

	metrics.ItineraryMutations.WithLabelValues(op, "ok").Inc()
	metrics.ItineraryWaypoints.Observe(float64(saved.Itinerary.Len()))
	span.SetAttributes(attribute.Int(telemetry.AttrWaypointCount, saved.Itinerary.Len()))

	s.publish(ctx, saved, kind, index, wp)
	return saved, nil
}

// publish is best effort: the mutation is already persisted.
func (s *ItineraryService) publish(ctx context.Context, saved *domain.SavedItinerary, kind domain.EventKind, index int, wp *domain.Waypoint) {
	if s.publisher == nil {
		return
	}
	event := &domain.ItineraryEvent{
		ItineraryID: saved.ID,
		Kind:        kind,
		Index:       index,
		Waypoint:    wp,
		Summary:     saved.Itinerary.Summary(),
		OccurredAt:  s.now().UTC(),
	}
	err := s.publisher.PublishItineraryEvent(ctx, event)
	metrics.EventsPublished.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logging.FromContext(ctx).Warn("publish itinerary event failed",
			"itinerary_id", saved.ID, "kind", string(kind), "error", err)
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
