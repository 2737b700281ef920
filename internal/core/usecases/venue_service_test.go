package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/usecases"
)

func sampleVenues() []domain.Venue {
	var venues []domain.Venue
	for i := 1; i <= 12; i++ {
		venues = append(venues, venueAt(int64(i), "venue", 40.0+float64(i)*degPerKm, -74.0))
	}
	return venues
}

func TestVenueService_Nearest(t *testing.T) {
	repo := &mockVenueRepo{
		listAllFn: func(ctx context.Context) ([]domain.Venue, error) { return sampleVenues(), nil },
	}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, nil, nil)

	got, err := svc.Nearest(context.Background(), domain.GeoPoint{Lat: 40, Lon: -74})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 venues, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("unexpected order: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestVenueService_NearestTen(t *testing.T) {
	repo := &mockVenueRepo{
		listAllFn: func(ctx context.Context) ([]domain.Venue, error) { return sampleVenues(), nil },
	}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, nil, nil)

	got, err := svc.NearestTen(context.Background(), domain.GeoPoint{Lat: 40, Lon: -74})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 venues, got %d", len(got))
	}
	if got[9].ID != 10 {
		t.Errorf("expected venue 10 last, got %d", got[9].ID)
	}
}

func TestVenueService_Nearest_InvalidOrigin(t *testing.T) {
	called := false
	repo := &mockVenueRepo{
		listAllFn: func(ctx context.Context) ([]domain.Venue, error) {
			called = true
			return nil, nil
		},
	}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, nil, nil)

	_, err := svc.Nearest(context.Background(), domain.GeoPoint{Lat: 91, Lon: 0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Error("repository should not be queried for an invalid origin")
	}
}

func TestVenueService_Nearest_RepoError(t *testing.T) {
	repo := &mockVenueRepo{
		listAllFn: func(ctx context.Context) ([]domain.Venue, error) { return nil, errors.New("db down") },
	}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, nil, nil)

	if _, err := svc.Nearest(context.Background(), domain.GeoPoint{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestVenueService_GetByID_Cached(t *testing.T) {
	calls := 0
	repo := &mockVenueRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Venue, error) {
			calls++
			v := venueAt(id, "Guggenheim", 43.2687, -2.934)
			return &v, nil
		},
	}
	cache := newFakeCache()
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, cache, nil)

	for i := 0; i < 3; i++ {
		v, err := svc.GetByID(context.Background(), 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Name != "Guggenheim" {
			t.Fatalf("unexpected venue %+v", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
}

func TestVenueService_Create_Validation(t *testing.T) {
	created := false
	repo := &mockVenueRepo{
		createFn: func(ctx context.Context, v *domain.Venue) error {
			created = true
			return nil
		},
	}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, nil, nil)

	cases := []domain.Venue{
		{CityID: 1, PlaceTypeID: 1, Name: "  ", Latitude: 1, Longitude: 1},
		{CityID: 0, PlaceTypeID: 1, Name: "Museum", Latitude: 1, Longitude: 1},
		{CityID: 1, PlaceTypeID: 0, Name: "Museum", Latitude: 1, Longitude: 1},
		{CityID: 1, PlaceTypeID: 1, Name: "Museum", Latitude: 100, Longitude: 1},
		{CityID: 1, PlaceTypeID: 1, Name: "Museum", Latitude: 1, Longitude: -181},
		{CityID: 1, PlaceTypeID: 1, Name: strings.Repeat("a", 101), Latitude: 1, Longitude: 1},
	}
	for _, v := range cases {
		v := v
		if err := svc.Create(context.Background(), &v); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error for %+v, got %v", v, err)
		}
	}
	if created {
		t.Error("invalid venue reached the repository")
	}
}

func TestVenueService_UpdateInvalidatesCacheAndPublishes(t *testing.T) {
	repo := &mockVenueRepo{
		updateFn: func(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error) {
			v := venueAt(id, *p.Name, 1, 1)
			return &v, nil
		},
	}
	cache := newFakeCache()
	_ = cache.Set(context.Background(), "venues:id:3", []byte(`{"id":3}`), 60)
	pub := &fakePublisher{}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, cache, pub)

	name := "Renamed"
	if _, err := svc.Update(context.Background(), 3, domain.VenuePatch{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background(), "venues:id:3"); err == nil {
		t.Error("expected cache entry to be invalidated")
	}
	if len(pub.events) != 1 || pub.events[0].Entity != "venue" || pub.events[0].Action != "updated" {
		t.Errorf("unexpected events: %+v", pub.events)
	}
}

func TestVenueService_ListByCity_UnknownCity(t *testing.T) {
	cities := &mockCityRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.City, error) { return nil, domain.ErrNotFound },
	}
	svc := usecases.NewVenueService(&mockVenueRepo{}, cities, nil, nil)

	if _, err := svc.ListByCity(context.Background(), 8); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVenueService_NameLengthCountsCharacters(t *testing.T) {
	var stored []string
	repo := &mockVenueRepo{
		createFn: func(ctx context.Context, v *domain.Venue) error {
			stored = append(stored, v.Name)
			return nil
		},
	}
	svc := usecases.NewVenueService(repo, &mockCityRepo{}, nil, nil)

	// 60 characters, 120 bytes in UTF-8.
	accented := strings.Repeat("é", 60)
	v := &domain.Venue{CityID: 1, PlaceTypeID: 1, Name: accented, Latitude: 1, Longitude: 1}
	if err := svc.Create(context.Background(), v); err != nil {
		t.Fatalf("expected 60-character name to be accepted, got %v", err)
	}

	long := &domain.Venue{CityID: 1, PlaceTypeID: 1, Name: strings.Repeat("é", 101), Latitude: 1, Longitude: 1}
	if err := svc.Create(context.Background(), long); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for 101 characters, got %v", err)
	}

	patched := strings.Repeat("ñ", 100)
	repo.updateFn = func(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error) {
		return &domain.Venue{ID: id, Name: *p.Name}, nil
	}
	if _, err := svc.Update(context.Background(), 1, domain.VenuePatch{Name: &patched}); err != nil {
		t.Fatalf("expected 100-character patch to be accepted, got %v", err)
	}
	if len(stored) != 1 || stored[0] != accented {
		t.Errorf("unexpected stored names: %q", stored)
	}
}

func TestVenueService_UpdateRejectsInvalidPlaceType(t *testing.T) {
	svc := usecases.NewVenueService(&mockVenueRepo{}, &mockCityRepo{}, nil, nil)

	zero := int64(0)
	if _, err := svc.Update(context.Background(), 1, domain.VenuePatch{PlaceTypeID: &zero}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
