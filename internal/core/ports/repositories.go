package ports

import (
	"context"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// CityRepository persists cities.
type CityRepository interface {
	Create(ctx context.Context, city *domain.City) error
	UpsertBatch(ctx context.Context, cities []domain.City) error
	GetByID(ctx context.Context, id int64) (*domain.City, error)
	List(ctx context.Context) ([]domain.City, error)
	Update(ctx context.Context, id int64, patch domain.CityPatch) (*domain.City, error)
	Delete(ctx context.Context, id int64) error
}

// PlaceTypeRepository persists the venue classification catalog.
type PlaceTypeRepository interface {
	Create(ctx context.Context, place *domain.PlaceType) error
	UpsertBatch(ctx context.Context, places []domain.PlaceType) error
	GetByID(ctx context.Context, id int64) (*domain.PlaceType, error)
	List(ctx context.Context) ([]domain.PlaceType, error)
	Update(ctx context.Context, id int64, patch domain.PlaceTypePatch) (*domain.PlaceType, error)
	Delete(ctx context.Context, id int64) error
}

// VenueRepository persists venues.
type VenueRepository interface {
	Create(ctx context.Context, venue *domain.Venue) error
	UpsertBatch(ctx context.Context, venues []domain.Venue) error
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	// ListAll returns every venue ordered by id. The ranker relies on this order for ties.
	ListAll(ctx context.Context) ([]domain.Venue, error)
	ListByCity(ctx context.Context, cityID int64) ([]domain.Venue, error)
	ListByPlaceType(ctx context.Context, placeTypeID int64) ([]domain.Venue, error)
	Update(ctx context.Context, id int64, patch domain.VenuePatch) (*domain.Venue, error)
	Delete(ctx context.Context, id int64) error
}

// StopRepository persists venue stops.
type StopRepository interface {
	Create(ctx context.Context, stop *domain.Stop) error
	GetByID(ctx context.Context, id int64) (*domain.Stop, error)
	List(ctx context.Context) ([]domain.Stop, error)
	ListByVenue(ctx context.Context, venueID int64) ([]domain.Stop, error)
	Update(ctx context.Context, id int64, patch domain.StopPatch) (*domain.Stop, error)
	Delete(ctx context.Context, id int64) error
}

// GeofenceRepository persists geofence regions together with their polygon points.
// Create and Update must apply the region row and its points atomically.
type GeofenceRepository interface {
	Create(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error)
	GetByID(ctx context.Context, id int64) (*domain.GeofenceRegion, error)
	List(ctx context.Context) ([]domain.GeofenceRegion, error)
	Update(ctx context.Context, id int64, patch domain.GeofencePatch) (*domain.GeofenceRegion, error)
	Delete(ctx context.Context, id int64) error
}
