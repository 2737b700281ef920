package usecases

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/ports"
	"github.com/samirrijal/questmap/internal/pkg/metrics"
	"github.com/samirrijal/questmap/internal/pkg/telemetry"
)

const venueCacheTTL = 600

func venueCacheKey(id int64) string {
	return fmt.Sprintf("venues:id:%d", id)
}

// VenueService handles venue lookups, nearest-venue ranking and venue writes.
type VenueService struct {
	venues ports.VenueRepository
	cities ports.CityRepository
	cache  ports.CacheService
	events ports.EventPublisher
	tracer trace.Tracer
}

// NewVenueService creates a new VenueService. cache and events may be nil.
func NewVenueService(venues ports.VenueRepository, cities ports.CityRepository, cache ports.CacheService, events ports.EventPublisher) *VenueService {
	return &VenueService{
		venues: venues,
		cities: cities,
		cache:  cache,
		events: events,
		tracer: otel.Tracer(telemetry.TracerName),
	}
}

// Nearest returns the two venues closest to origin.
func (s *VenueService) Nearest(ctx context.Context, origin domain.GeoPoint) ([]domain.RankedVenue, error) {
	return s.rank(ctx, "nearest", origin, NearestLimit)
}

// NearestTen returns the ten venues closest to origin.
func (s *VenueService) NearestTen(ctx context.Context, origin domain.GeoPoint) ([]domain.RankedVenue, error) {
	return s.rank(ctx, "nearest_ten", origin, NearestTenLimit)
}

func (s *VenueService) rank(ctx context.Context, variant string, origin domain.GeoPoint, k int) ([]domain.RankedVenue, error) {
	ctx, span := s.tracer.Start(ctx, "VenueService."+variant, trace.WithAttributes(
		telemetry.AttrOriginLat.Float64(origin.Lat),
		telemetry.AttrOriginLon.Float64(origin.Lon),
		telemetry.AttrRankLimit.Int(k),
	))
	defer span.End()

	if err := origin.Validate(); err != nil {
		return nil, rejected("nearest", err)
	}

	venues, err := s.venues.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load venues: %w", err)
	}
	span.SetAttributes(telemetry.AttrCandidateCount.Int(len(venues)))

	metrics.NearestQueries.WithLabelValues(variant).Inc()
	metrics.VenuesRanked.Observe(float64(len(venues)))

	return RankNearest(origin, venues, k), nil
}

// List returns every venue ordered by id.
func (s *VenueService) List(ctx context.Context) ([]domain.Venue, error) {
	return s.venues.ListAll(ctx)
}

// ListByCity returns the venues of one city. Unknown cities are not found.
func (s *VenueService) ListByCity(ctx context.Context, cityID int64) ([]domain.Venue, error) {
	if _, err := s.cities.GetByID(ctx, cityID); err != nil {
		return nil, err
	}
	return s.venues.ListByCity(ctx, cityID)
}

// GetByID returns a single venue, served from cache when possible.
func (s *VenueService) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var cached domain.Venue
	if cacheGet(ctx, s.cache, "venue", venueCacheKey(id), &cached) {
		return &cached, nil
	}

	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, venueCacheKey(id), v, venueCacheTTL)
	return v, nil
}

// Create validates and stores a new venue.
func (s *VenueService) Create(ctx context.Context, v *domain.Venue) error {
	ctx, span := s.tracer.Start(ctx, "VenueService.Create")
	defer span.End()

	v.Name = strings.TrimSpace(v.Name)
	if err := validateVenue(v); err != nil {
		return rejected("venue", err)
	}
	if err := s.venues.Create(ctx, v); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(telemetry.AttrVenueID.Int64(v.ID))

	publishChange(ctx, s.events, "venue", actionCreated, v.ID, v)
	return nil
}

// Update applies a partial update. Absent fields keep their stored values.
func (s *VenueService) Update(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error) {
	ctx, span := s.tracer.Start(ctx, "VenueService.Update", trace.WithAttributes(telemetry.AttrVenueID.Int64(id)))
	defer span.End()

	if err := validateVenuePatch(&p); err != nil {
		return nil, rejected("venue", err)
	}

	v, err := s.venues.Update(ctx, id, p)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	cacheDelete(ctx, s.cache, venueCacheKey(id))

	publishChange(ctx, s.events, "venue", actionUpdated, v.ID, v)
	return v, nil
}

// Delete removes a venue.
func (s *VenueService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "VenueService.Delete", trace.WithAttributes(telemetry.AttrVenueID.Int64(id)))
	defer span.End()

	if err := s.venues.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	cacheDelete(ctx, s.cache, venueCacheKey(id))

	publishChange(ctx, s.events, "venue", actionDeleted, id, nil)
	return nil
}

func validateVenue(v *domain.Venue) error {
	if v.Name == "" {
		return domain.Validationf("venue_name is required")
	}
	if err := checkLength("venue_name", v.Name, maxNameLength); err != nil {
		return err
	}
	if v.CityID <= 0 {
		return domain.Validationf("city is required")
	}
	if v.PlaceTypeID <= 0 {
		return domain.Validationf("type_of_place is required")
	}
	return v.Location().Validate()
}

func validateVenuePatch(p *domain.VenuePatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return domain.Validationf("venue_name must not be empty")
		}
		if err := checkLength("venue_name", name, maxNameLength); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.CityID != nil && *p.CityID <= 0 {
		return domain.Validationf("city must be a positive id")
	}
	if p.PlaceTypeID != nil && *p.PlaceTypeID <= 0 {
		return domain.Validationf("type_of_place must be a positive id")
	}
	if p.Latitude != nil {
		if err := (domain.GeoPoint{Lat: *p.Latitude}).Validate(); err != nil {
			return err
		}
	}
	if p.Longitude != nil {
		if err := (domain.GeoPoint{Lon: *p.Longitude}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

