package usecases

import (
	"context"
	"strings"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/ports"
)

const placeListCacheKey = "places:all"

// PlaceTypeService handles the place type catalog that venues are classified by.
type PlaceTypeService struct {
	places ports.PlaceTypeRepository
	venues ports.VenueRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewPlaceTypeService creates a new PlaceTypeService. cache and events may be nil.
func NewPlaceTypeService(places ports.PlaceTypeRepository, venues ports.VenueRepository, cache ports.CacheService, events ports.EventPublisher) *PlaceTypeService {
	return &PlaceTypeService{places: places, venues: venues, cache: cache, events: events}
}

// List returns all place types ordered by name.
func (s *PlaceTypeService) List(ctx context.Context) ([]domain.PlaceType, error) {
	var cached []domain.PlaceType
	if cacheGet(ctx, s.cache, "places", placeListCacheKey, &cached) {
		return cached, nil
	}

	places, err := s.places.List(ctx)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, placeListCacheKey, places, cityCacheTTL)
	return places, nil
}

// GetByID returns a single place type.
func (s *PlaceTypeService) GetByID(ctx context.Context, id int64) (*domain.PlaceType, error) {
	return s.places.GetByID(ctx, id)
}

// Venues returns the venues classified under one place type. Unknown place types are not found.
func (s *PlaceTypeService) Venues(ctx context.Context, id int64) ([]domain.Venue, error) {
	if _, err := s.places.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.venues.ListByPlaceType(ctx, id)
}

// Create validates and stores a new place type.
func (s *PlaceTypeService) Create(ctx context.Context, p *domain.PlaceType) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validatePlaceName(p.Name); err != nil {
		return rejected("place", err)
	}
	if err := s.places.Create(ctx, p); err != nil {
		return err
	}
	cacheDelete(ctx, s.cache, placeListCacheKey)

	publishChange(ctx, s.events, "place", actionCreated, p.ID, p)
	return nil
}

// Update applies a partial update.
func (s *PlaceTypeService) Update(ctx context.Context, id int64, patch domain.PlaceTypePatch) (*domain.PlaceType, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validatePlaceName(name); err != nil {
			return nil, rejected("place", err)
		}
		patch.Name = &name
	}

	p, err := s.places.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	cacheDelete(ctx, s.cache, placeListCacheKey)

	publishChange(ctx, s.events, "place", actionUpdated, p.ID, p)
	return p, nil
}

// Delete removes a place type. Venues of that type are removed with it.
func (s *PlaceTypeService) Delete(ctx context.Context, id int64) error {
	venues, err := s.venues.ListByPlaceType(ctx, id)
	if err != nil {
		return err
	}
	if err := s.places.Delete(ctx, id); err != nil {
		return err
	}

	keys := []string{placeListCacheKey}
	for _, v := range venues {
		keys = append(keys, venueCacheKey(v.ID))
	}
	cacheDelete(ctx, s.cache, keys...)

	publishChange(ctx, s.events, "place", actionDeleted, id, nil)
	return nil
}

func validatePlaceName(name string) error {
	if name == "" {
		return domain.Validationf("name is required")
	}
	return checkLength("name", name, maxNameLength)
}
