package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// ItineraryRepo implements ports.ItineraryRepository in process memory.
// Stored values are copied on the way in and out.
type ItineraryRepo struct {
	mu    sync.RWMutex
	items map[string]*domain.SavedItinerary
}

// NewItineraryRepo creates an empty ItineraryRepo.
func NewItineraryRepo() *ItineraryRepo {
	return &ItineraryRepo{items: make(map[string]*domain.SavedItinerary)}
}

func (r *ItineraryRepo) Create(ctx context.Context, it *domain.SavedItinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it.Clone()
	return nil
}

func (r *ItineraryRepo) Get(ctx context.Context, id string) (*domain.SavedItinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it.Clone(), nil
}

// List returns itineraries ordered by creation time, oldest first.
func (r *ItineraryRepo) List(ctx context.Context, offset, limit int) ([]domain.SavedItinerary, int, error) {
	r.mu.RLock()
	all := make([]*domain.SavedItinerary, 0, len(r.items))
	for _, it := range r.items {
		all = append(all, it)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []domain.SavedItinerary{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]domain.SavedItinerary, 0, end-offset)
	for _, it := range all[offset:end] {
		page = append(page, *it.Clone())
	}
	return page, total, nil
}

func (r *ItineraryRepo) Save(ctx context.Context, it *domain.SavedItinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[it.ID] = it.Clone()
	return nil
}

func (r *ItineraryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
