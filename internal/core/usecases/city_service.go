package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/ports"
)

const (
	cityListCacheKey = "cities:all"
	cityCacheTTL     = 0 // cache default
)

// CityService handles the city catalog.
type CityService struct {
	cities ports.CityRepository
	venues ports.VenueRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewCityService creates a new CityService. cache and events may be nil.
func NewCityService(cities ports.CityRepository, venues ports.VenueRepository, cache ports.CacheService, events ports.EventPublisher) *CityService {
	return &CityService{cities: cities, venues: venues, cache: cache, events: events}
}

// List returns all cities.
func (s *CityService) List(ctx context.Context) ([]domain.City, error) {
	var cached []domain.City
	if cacheGet(ctx, s.cache, "cities", cityListCacheKey, &cached) {
		return cached, nil
	}

	cities, err := s.cities.List(ctx)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, cityListCacheKey, cities, cityCacheTTL)
	return cities, nil
}

// ListWithVenues returns every city with its venues nested, cities ordered by name.
func (s *CityService) ListWithVenues(ctx context.Context) ([]domain.CityVenues, error) {
	cities, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	venues, err := s.venues.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load venues: %w", err)
	}

	byCity := make(map[int64][]domain.Venue, len(cities))
	for _, v := range venues {
		byCity[v.CityID] = append(byCity[v.CityID], v)
	}
	out := make([]domain.CityVenues, len(cities))
	for i, c := range cities {
		vs := byCity[c.ID]
		if vs == nil {
			vs = []domain.Venue{}
		}
		out[i] = domain.CityVenues{City: c, Venues: vs}
	}
	return out, nil
}

// GetByID returns a single city.
func (s *CityService) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	return s.cities.GetByID(ctx, id)
}

// Create validates and stores a new city.
func (s *CityService) Create(ctx context.Context, c *domain.City) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := validateCityName(c.Name); err != nil {
		return rejected("city", err)
	}
	if err := s.cities.Create(ctx, c); err != nil {
		return err
	}
	cacheDelete(ctx, s.cache, cityListCacheKey)

	publishChange(ctx, s.events, "city", actionCreated, c.ID, c)
	return nil
}

// Update applies a partial update.
func (s *CityService) Update(ctx context.Context, id int64, p domain.CityPatch) (*domain.City, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validateCityName(name); err != nil {
			return nil, rejected("city", err)
		}
		p.Name = &name
	}

	c, err := s.cities.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	cacheDelete(ctx, s.cache, cityListCacheKey)

	publishChange(ctx, s.events, "city", actionUpdated, c.ID, c)
	return c, nil
}

// Delete removes a city together with its venues.
func (s *CityService) Delete(ctx context.Context, id int64) error {
	venues, err := s.venues.ListByCity(ctx, id)
	if err != nil {
		return fmt.Errorf("list city venues: %w", err)
	}
	if err := s.cities.Delete(ctx, id); err != nil {
		return err
	}

	keys := []string{cityListCacheKey}
	for _, v := range venues {
		keys = append(keys, venueCacheKey(v.ID))
	}
	cacheDelete(ctx, s.cache, keys...)

	publishChange(ctx, s.events, "city", actionDeleted, id, nil)
	return nil
}

func validateCityName(name string) error {
	if name == "" {
		return domain.Validationf("name is required")
	}
	return checkLength("name", name, maxNameLength)
}
