package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// VenueRepo implements ports.VenueRepository with pgx.
type VenueRepo struct {
	db *DB
}

// NewVenueRepo creates a new VenueRepo.
func NewVenueRepo(db *DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, city_id, place_type_id, venue_name, image, description, latitude, longitude, created_at, updated_at`

func scanVenue(row pgx.Row, v *domain.Venue) error {
	return row.Scan(
		&v.ID, &v.CityID, &v.PlaceTypeID, &v.Name, &v.Image, &v.Description,
		&v.Latitude, &v.Longitude, &v.CreatedAt, &v.UpdatedAt,
	)
}

func (r *VenueRepo) list(ctx context.Context, sql string, args ...any) ([]domain.Venue, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	venues := make([]domain.Venue, 0)
	for rows.Next() {
		var v domain.Venue
		if err := scanVenue(rows, &v); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

// Create inserts a venue and fills in its generated id and timestamps.
func (r *VenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO venues (city_id, place_type_id, venue_name, image, description, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, v.CityID, v.PlaceTypeID, v.Name, v.Image, v.Description, v.Latitude, v.Longitude).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return translate(err, "venue")
}

// UpsertBatch inserts or updates many venues keyed by name using pgx.Batch.
func (r *VenueRepo) UpsertBatch(ctx context.Context, venues []domain.Venue) error {
	batch := &pgx.Batch{}
	for _, v := range venues {
		batch.Queue(`
			INSERT INTO venues (city_id, place_type_id, venue_name, image, description, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (venue_name) DO UPDATE
			SET city_id = EXCLUDED.city_id, place_type_id = EXCLUDED.place_type_id,
			    image = EXCLUDED.image,
			    description = EXCLUDED.description,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			    updated_at = now()
		`, v.CityID, v.PlaceTypeID, v.Name, v.Image, v.Description, v.Latitude, v.Longitude)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range venues {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", translate(err, "venue"))
		}
	}
	return nil
}

// GetByID returns a venue by id.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var v domain.Venue
	err := scanVenue(r.db.Pool.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id), &v)
	if err != nil {
		return nil, translate(err, "venue")
	}
	return &v, nil
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]domain.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues ORDER BY id`)
}

// ListByCity returns the venues of one city ordered by id.
func (r *VenueRepo) ListByCity(ctx context.Context, cityID int64) ([]domain.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues WHERE city_id = $1 ORDER BY id`, cityID)
}

// ListByPlaceType returns the venues of one place type ordered by id.
func (r *VenueRepo) ListByPlaceType(ctx context.Context, placeTypeID int64) ([]domain.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues WHERE place_type_id = $1 ORDER BY id`, placeTypeID)
}

// Update applies a partial update and returns the stored row.
func (r *VenueRepo) Update(ctx context.Context, id int64, p domain.VenuePatch) (*domain.Venue, error) {
	var v domain.Venue
	err := scanVenue(r.db.Pool.QueryRow(ctx, `
		UPDATE venues
		SET city_id = COALESCE($2, city_id),
		    place_type_id = COALESCE($3, place_type_id),
		    venue_name = COALESCE($4, venue_name),
		    image = COALESCE($5, image),
		    description = COALESCE($6, description),
		    latitude = COALESCE($7, latitude),
		    longitude = COALESCE($8, longitude),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+venueColumns,
		id, p.CityID, p.PlaceTypeID, p.Name, p.Image, p.Description, p.Latitude, p.Longitude), &v)
	if err != nil {
		return nil, translate(err, "venue")
	}
	return &v, nil
}

// Delete removes a venue.
func (r *VenueRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("venue %w", domain.ErrNotFound)
	}
	return nil
}
