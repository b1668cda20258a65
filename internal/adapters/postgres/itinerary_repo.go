package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// ItineraryRepo implements ports.ItineraryRepository with pgx. Waypoints are
// stored one row per position and rewritten as a whole on Save.
type ItineraryRepo struct {
	db *DB
}

// NewItineraryRepo creates a new ItineraryRepo.
func NewItineraryRepo(db *DB) *ItineraryRepo {
	return &ItineraryRepo{db: db}
}

// Create inserts the itinerary and its waypoints in one transaction.
func (r *ItineraryRepo) Create(ctx context.Context, it *domain.SavedItinerary) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO itineraries (id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`, it.ID, it.Name, it.CreatedAt, it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert itinerary: %w", err)
		}
		return insertWaypoints(ctx, tx, it.ID, it.Itinerary)
	})
}

// Get returns an itinerary with its waypoints in order.
func (r *ItineraryRepo) Get(ctx context.Context, id string) (*domain.SavedItinerary, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	var s domain.SavedItinerary
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM itineraries WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	byID, err := r.loadWaypoints(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Itinerary, err = domain.NewItinerary(byID[s.ID])
	if err != nil {
		return nil, fmt.Errorf("itinerary %s: %w", s.ID, err)
	}
	return &s, nil
}

// List returns a page of itineraries ordered by creation time and the total count.
func (r *ItineraryRepo) List(ctx context.Context, offset, limit int) ([]domain.SavedItinerary, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM itineraries`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM itineraries
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	page := []domain.SavedItinerary{}
	var ids []string
	for rows.Next() {
		var s domain.SavedItinerary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		page = append(page, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return page, total, nil
	}

	byID, err := r.loadWaypoints(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range page {
		page[i].Itinerary, err = domain.NewItinerary(byID[page[i].ID])
		if err != nil {
			return nil, 0, fmt.Errorf("itinerary %s: %w", page[i].ID, err)
		}
	}
	return page, total, nil
}

// Save updates the itinerary row and replaces all of its waypoints.
func (r *ItineraryRepo) Save(ctx context.Context, it *domain.SavedItinerary) error {
	if !validID(it.ID) {
		return domain.ErrNotFound
	}
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE itineraries SET name = $2, updated_at = $3 WHERE id = $1
		`, it.ID, it.Name, it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update itinerary: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM waypoints WHERE itinerary_id = $1`, it.ID); err != nil {
			return fmt.Errorf("clear waypoints: %w", err)
		}
		return insertWaypoints(ctx, tx, it.ID, it.Itinerary)
	})
}

// Delete removes an itinerary; waypoints cascade.
func (r *ItineraryRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItineraryRepo) loadWaypoints(ctx context.Context, ids []string) (map[string][]domain.Waypoint, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT itinerary_id, name, latitude, longitude, distance_km,
		       estimated_speed_kph, altitude_m, distance_mode
		FROM waypoints
		WHERE itinerary_id = ANY($1)
		ORDER BY itinerary_id, position
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Waypoint, len(ids))
	for rows.Next() {
		var (
			itineraryID string
			mode        string
			w           domain.Waypoint
		)
		if err := rows.Scan(&itineraryID, &w.Name, &w.Latitude, &w.Longitude, &w.DistanceKm,
			&w.EstimatedSpeedKph, &w.AltitudeM, &mode); err != nil {
			return nil, err
		}
		if err := w.Mode.UnmarshalText([]byte(mode)); err != nil {
			return nil, err
		}
		out[itineraryID] = append(out[itineraryID], w)
	}
	return out, rows.Err()
}

// insertWaypoints writes all waypoints using pgx.Batch.
func insertWaypoints(ctx context.Context, tx pgx.Tx, itineraryID string, it *domain.Itinerary) error {
	if it == nil || it.Len() == 0 {
		return nil
	}

	waypoints := it.Waypoints()
	batch := &pgx.Batch{}
	for pos, w := range waypoints {
		batch.Queue(`
			INSERT INTO waypoints (itinerary_id, position, name, latitude, longitude,
			                       distance_km, estimated_speed_kph, altitude_m, distance_mode)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, itineraryID, pos, w.Name, w.Latitude, w.Longitude,
			w.DistanceKm, w.EstimatedSpeedKph, w.AltitudeM, w.Mode.String())
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range waypoints {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// validID reports whether id can be compared against the UUID key column.
// Anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
