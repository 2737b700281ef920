package http_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// ---- Mock repositories ----

type mockVenueRepo struct {
	listAllFn func(ctx context.Context) ([]domain.Venue, error)
	createFn  func(ctx context.Context, v *domain.Venue) error
	getByIDFn func(ctx context.Context, id int64) (*domain.Venue, error)
	updateFn  func(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error)
}

func (m *mockVenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	if m.createFn != nil {
		return m.createFn(ctx, v)
	}
	v.ID = 1
	return nil
}
func (m *mockVenueRepo) UpsertBatch(ctx context.Context, v []domain.Venue) error { return nil }
func (m *mockVenueRepo) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("venue %w", domain.ErrNotFound)
}
func (m *mockVenueRepo) ListAll(ctx context.Context) ([]domain.Venue, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}
func (m *mockVenueRepo) ListByCity(ctx context.Context, cityID int64) ([]domain.Venue, error) {
	return []domain.Venue{}, nil
}
func (m *mockVenueRepo) ListByPlaceType(ctx context.Context, placeTypeID int64) ([]domain.Venue, error) {
	if m.listAllFn == nil {
		return []domain.Venue{}, nil
	}
	all, err := m.listAllFn(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Venue, 0)
	for _, v := range all {
		if v.PlaceTypeID == placeTypeID {
			out = append(out, v)
		}
	}
	return out, nil
}
func (m *mockVenueRepo) Update(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, p)
	}
	return nil, fmt.Errorf("venue %w", domain.ErrNotFound)
}
func (m *mockVenueRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockCityRepo struct {
	listFn func(ctx context.Context) ([]domain.City, error)
}

func (m *mockCityRepo) Create(ctx context.Context, c *domain.City) error {
	c.ID = 1
	return nil
}
func (m *mockCityRepo) UpsertBatch(ctx context.Context, c []domain.City) error { return nil }
func (m *mockCityRepo) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	if id == 1 {
		return &domain.City{ID: 1, Name: "Bilbao"}, nil
	}
	return nil, fmt.Errorf("city %w", domain.ErrNotFound)
}
func (m *mockCityRepo) List(ctx context.Context) ([]domain.City, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.City{}, nil
}
func (m *mockCityRepo) Update(ctx context.Context, id int64, p domain.CityPatch) (*domain.City, error) {
	return nil, fmt.Errorf("city %w", domain.ErrNotFound)
}
func (m *mockCityRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockPlaceRepo struct {
	listFn func(ctx context.Context) ([]domain.PlaceType, error)
}

func (m *mockPlaceRepo) Create(ctx context.Context, p *domain.PlaceType) error {
	p.ID = 1
	return nil
}
func (m *mockPlaceRepo) UpsertBatch(ctx context.Context, p []domain.PlaceType) error { return nil }
func (m *mockPlaceRepo) GetByID(ctx context.Context, id int64) (*domain.PlaceType, error) {
	if id == 1 {
		return &domain.PlaceType{ID: 1, Name: "Museum"}, nil
	}
	return nil, fmt.Errorf("place type %w", domain.ErrNotFound)
}
func (m *mockPlaceRepo) List(ctx context.Context) ([]domain.PlaceType, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.PlaceType{}, nil
}
func (m *mockPlaceRepo) Update(ctx context.Context, id int64, p domain.PlaceTypePatch) (*domain.PlaceType, error) {
	return nil, fmt.Errorf("place type %w", domain.ErrNotFound)
}
func (m *mockPlaceRepo) Delete(ctx context.Context, id int64) error { return nil }

// memStopRepo is an in-memory StopRepository.
type memStopRepo struct {
	mu     sync.Mutex
	stops  []domain.Stop
	nextID int64
}

func (r *memStopRepo) Create(ctx context.Context, st *domain.Stop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	st.ID = r.nextID
	r.stops = append(r.stops, *st)
	return nil
}

func (r *memStopRepo) GetByID(ctx context.Context, id int64) (*domain.Stop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.stops {
		if st.ID == id {
			return &st, nil
		}
	}
	return nil, fmt.Errorf("stop %w", domain.ErrNotFound)
}

func (r *memStopRepo) List(ctx context.Context) ([]domain.Stop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Stop{}, r.stops...), nil
}

func (r *memStopRepo) ListByVenue(ctx context.Context, venueID int64) ([]domain.Stop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Stop, 0)
	for _, st := range r.stops {
		if st.VenueID == venueID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *memStopRepo) Update(ctx context.Context, id int64, p domain.StopPatch) (*domain.Stop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.stops {
		if r.stops[i].ID != id {
			continue
		}
		if p.Name != nil {
			r.stops[i].Name = *p.Name
		}
		if p.Description != nil {
			r.stops[i].Description = *p.Description
		}
		st := r.stops[i]
		return &st, nil
	}
	return nil, fmt.Errorf("stop %w", domain.ErrNotFound)
}

func (r *memStopRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, st := range r.stops {
		if st.ID == id {
			r.stops = append(r.stops[:i], r.stops[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("stop %w", domain.ErrNotFound)
}

// memGeofenceRepo is an in-memory GeofenceRepository.
type memGeofenceRepo struct {
	mu        sync.Mutex
	regions   map[int64]domain.GeofenceRegion
	nextID    int64
	nextPoint int64
}

func newMemGeofenceRepo() *memGeofenceRepo {
	return &memGeofenceRepo{regions: make(map[int64]domain.GeofenceRegion)}
}

func (r *memGeofenceRepo) assign(in []domain.PolygonPoint) []domain.PolygonPoint {
	out := make([]domain.PolygonPoint, len(in))
	for i, p := range in {
		r.nextPoint++
		out[i] = domain.PolygonPoint{ID: r.nextPoint, Latitude: p.Latitude, Longitude: p.Longitude}
	}
	return out
}

func (r *memGeofenceRepo) Create(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	g := domain.GeofenceRegion{
		ID: r.nextID, Title: in.Title, AlertMessage: in.AlertMessage,
		IsRestricted: in.IsRestricted, PolygonPoints: r.assign(in.Points),
	}
	r.regions[g.ID] = g
	return &g, nil
}

func (r *memGeofenceRepo) GetByID(ctx context.Context, id int64) (*domain.GeofenceRegion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.regions[id]
	if !ok {
		return nil, fmt.Errorf("geofence %w", domain.ErrNotFound)
	}
	return &g, nil
}

func (r *memGeofenceRepo) List(ctx context.Context) ([]domain.GeofenceRegion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.GeofenceRegion, 0, len(r.regions))
	for _, g := range r.regions {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memGeofenceRepo) Update(ctx context.Context, id int64, p domain.GeofencePatch) (*domain.GeofenceRegion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.regions[id]
	if !ok {
		return nil, fmt.Errorf("geofence %w", domain.ErrNotFound)
	}
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.AlertMessage != nil {
		g.AlertMessage = p.AlertMessage
	}
	if p.IsRestricted != nil {
		g.IsRestricted = *p.IsRestricted
	}
	if p.ReplacePoints {
		g.PolygonPoints = r.assign(p.Points)
	}
	r.regions[id] = g
	return &g, nil
}

func (r *memGeofenceRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regions[id]; !ok {
		return fmt.Errorf("geofence %w", domain.ErrNotFound)
	}
	delete(r.regions, id)
	return nil
}
