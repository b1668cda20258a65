//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/expedition-planner/internal/adapters/postgres"
	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/pkg/config"
)

// setupTestDB connects to the database configured through EXPEDITION_DATABASE_*
// and applies the schema.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("expedition-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("../../../migrations/001_itineraries.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func TestItineraryRepo_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewItineraryRepo(db)
	ctx := context.Background()

	it := &domain.Itinerary{}
	_ = it.Append(domain.Waypoint{Name: "Camp", Latitude: 70.0, Longitude: 20.0, EstimatedSpeedKph: 10, AltitudeM: 100}, domain.DistanceAuto)
	_ = it.Append(domain.Waypoint{Name: "Lake", Latitude: 70.1, Longitude: 20.1, DistanceKm: 5, EstimatedSpeedKph: 12}, domain.DistanceManual)

	now := time.Now().UTC().Truncate(time.Millisecond)
	saved := &domain.SavedItinerary{ID: uuid.NewString(), Name: "Integration", Itinerary: it, CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, saved); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), saved.ID) })

	got, err := repo.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Itinerary.Len() != 2 {
		t.Fatalf("expected 2 waypoints, got %d", got.Itinerary.Len())
	}
	lake, _ := got.Itinerary.At(1)
	if lake.Mode != domain.DistanceManual || lake.DistanceKm != 5 {
		t.Errorf("manual waypoint not preserved: %+v", lake)
	}

	if _, err := got.Itinerary.DeleteAt(0); err != nil {
		t.Fatal(err)
	}
	got.UpdatedAt = time.Now().UTC()
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := repo.Get(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Itinerary.Len() != 1 {
		t.Errorf("expected 1 waypoint after save, got %d", again.Itinerary.Len())
	}

	page, total, err := repo.List(ctx, 0, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total < 1 || len(page) < 1 {
		t.Errorf("expected at least one itinerary, got total=%d page=%d", total, len(page))
	}
}

func TestItineraryRepo_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewItineraryRepo(db)

	if _, err := repo.Get(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
