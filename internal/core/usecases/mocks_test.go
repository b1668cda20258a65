package usecases_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// --- Mock ItineraryRepository ---

// mockItineraryRepo keeps itineraries in a map unless a fn field overrides
// the operation.
type mockItineraryRepo struct {
	mu    sync.Mutex
	items map[string]*domain.SavedItinerary
	saves int

	getFn  func(ctx context.Context, id string) (*domain.SavedItinerary, error)
	saveFn func(ctx context.Context, it *domain.SavedItinerary) error
	listFn func(ctx context.Context, offset, limit int) ([]domain.SavedItinerary, int, error)
}

func newMockRepo() *mockItineraryRepo {
	return &mockItineraryRepo{items: map[string]*domain.SavedItinerary{}}
}

func (m *mockItineraryRepo) Create(ctx context.Context, it *domain.SavedItinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it.Clone()
	return nil
}

func (m *mockItineraryRepo) Get(ctx context.Context, id string) (*domain.SavedItinerary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it.Clone(), nil
}

func (m *mockItineraryRepo) List(ctx context.Context, offset, limit int) ([]domain.SavedItinerary, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SavedItinerary
	for _, it := range m.items {
		out = append(out, *it.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockItineraryRepo) Save(ctx context.Context, it *domain.SavedItinerary) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, it)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	m.saves++
	m.items[it.ID] = it.Clone()
	return nil
}

func (m *mockItineraryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.ItineraryEvent
	err    error
}

func (m *mockPublisher) PublishItineraryEvent(ctx context.Context, event *domain.ItineraryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return m.err
}

func (m *mockPublisher) last() domain.ItineraryEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock ElevationProvider ---

type mockElevation struct {
	calls       int
	elevationFn func(ctx context.Context, lat, lon float64) (float64, error)
}

func (m *mockElevation) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	m.calls++
	if m.elevationFn != nil {
		return m.elevationFn(ctx, lat, lon)
	}
	return 0, nil
}
