package ports

import (
	"context"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// ItineraryRepository persists saved itineraries. Get, Save and Delete
// return domain.ErrNotFound for unknown IDs.
type ItineraryRepository interface {
	Create(ctx context.Context, it *domain.SavedItinerary) error
	Get(ctx context.Context, id string) (*domain.SavedItinerary, error)
	// List returns a page ordered by creation time and the total count.
	List(ctx context.Context, offset, limit int) ([]domain.SavedItinerary, int, error)
	Save(ctx context.Context, it *domain.SavedItinerary) error
	Delete(ctx context.Context, id string) error
}
