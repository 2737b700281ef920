package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// --- Mock VenueRepository ---

type mockVenueRepo struct {
	createFn     func(ctx context.Context, v *domain.Venue) error
	getByIDFn    func(ctx context.Context, id int64) (*domain.Venue, error)
	listAllFn    func(ctx context.Context) ([]domain.Venue, error)
	listByCityFn func(ctx context.Context, cityID int64) ([]domain.Venue, error)
	listByTypeFn func(ctx context.Context, placeTypeID int64) ([]domain.Venue, error)
	updateFn     func(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (m *mockVenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	if m.createFn != nil {
		return m.createFn(ctx, v)
	}
	return nil
}

func (m *mockVenueRepo) UpsertBatch(ctx context.Context, venues []domain.Venue) error { return nil }

func (m *mockVenueRepo) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVenueRepo) ListAll(ctx context.Context) ([]domain.Venue, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockVenueRepo) ListByCity(ctx context.Context, cityID int64) ([]domain.Venue, error) {
	if m.listByCityFn != nil {
		return m.listByCityFn(ctx, cityID)
	}
	return nil, nil
}

func (m *mockVenueRepo) ListByPlaceType(ctx context.Context, placeTypeID int64) ([]domain.Venue, error) {
	if m.listByTypeFn != nil {
		return m.listByTypeFn(ctx, placeTypeID)
	}
	return nil, nil
}

func (m *mockVenueRepo) Update(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVenueRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock CityRepository ---

type mockCityRepo struct {
	createFn  func(ctx context.Context, c *domain.City) error
	getByIDFn func(ctx context.Context, id int64) (*domain.City, error)
	listFn    func(ctx context.Context) ([]domain.City, error)
	updateFn  func(ctx context.Context, id int64, p domain.CityPatch) (*domain.City, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockCityRepo) Create(ctx context.Context, c *domain.City) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCityRepo) UpsertBatch(ctx context.Context, cities []domain.City) error { return nil }

func (m *mockCityRepo) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.City{ID: id}, nil
}

func (m *mockCityRepo) List(ctx context.Context) ([]domain.City, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCityRepo) Update(ctx context.Context, id int64, p domain.CityPatch) (*domain.City, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCityRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock PlaceTypeRepository ---

type mockPlaceRepo struct {
	createFn  func(ctx context.Context, p *domain.PlaceType) error
	getByIDFn func(ctx context.Context, id int64) (*domain.PlaceType, error)
	listFn    func(ctx context.Context) ([]domain.PlaceType, error)
	updateFn  func(ctx context.Context, id int64, p domain.PlaceTypePatch) (*domain.PlaceType, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockPlaceRepo) Create(ctx context.Context, p *domain.PlaceType) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockPlaceRepo) UpsertBatch(ctx context.Context, places []domain.PlaceType) error { return nil }

func (m *mockPlaceRepo) GetByID(ctx context.Context, id int64) (*domain.PlaceType, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.PlaceType{ID: id}, nil
}

func (m *mockPlaceRepo) List(ctx context.Context) ([]domain.PlaceType, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPlaceRepo) Update(ctx context.Context, id int64, p domain.PlaceTypePatch) (*domain.PlaceType, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlaceRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock StopRepository ---

type mockStopRepo struct {
	createFn      func(ctx context.Context, st *domain.Stop) error
	getByIDFn     func(ctx context.Context, id int64) (*domain.Stop, error)
	listFn        func(ctx context.Context) ([]domain.Stop, error)
	listByVenueFn func(ctx context.Context, venueID int64) ([]domain.Stop, error)
	updateFn      func(ctx context.Context, id int64, p domain.StopPatch) (*domain.Stop, error)
	deleteFn      func(ctx context.Context, id int64) error
}

func (m *mockStopRepo) Create(ctx context.Context, st *domain.Stop) error {
	if m.createFn != nil {
		return m.createFn(ctx, st)
	}
	return nil
}

func (m *mockStopRepo) GetByID(ctx context.Context, id int64) (*domain.Stop, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockStopRepo) List(ctx context.Context) ([]domain.Stop, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockStopRepo) ListByVenue(ctx context.Context, venueID int64) ([]domain.Stop, error) {
	if m.listByVenueFn != nil {
		return m.listByVenueFn(ctx, venueID)
	}
	return nil, nil
}

func (m *mockStopRepo) Update(ctx context.Context, id int64, p domain.StopPatch) (*domain.Stop, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return nil, domain.ErrNotFound
}

func (m *mockStopRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock GeofenceRepository ---

type mockGeofenceRepo struct {
	createFn  func(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.GeofenceRegion, error)
	listFn    func(ctx context.Context) ([]domain.GeofenceRegion, error)
	updateFn  func(ctx context.Context, id int64, p domain.GeofencePatch) (*domain.GeofenceRegion, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockGeofenceRepo) Create(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("unexpected create")
}

func (m *mockGeofenceRepo) GetByID(ctx context.Context, id int64) (*domain.GeofenceRegion, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockGeofenceRepo) List(ctx context.Context) ([]domain.GeofenceRegion, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockGeofenceRepo) Update(ctx context.Context, id int64, p domain.GeofencePatch) (*domain.GeofenceRegion, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return nil, errors.New("unexpected update")
}

func (m *mockGeofenceRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Fake CacheService ---

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// --- Fake EventPublisher ---

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (p *fakePublisher) PublishChange(ctx context.Context, e *domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *e)
	return nil
}
