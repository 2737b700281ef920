package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// PlaceTypeRepo implements ports.PlaceTypeRepository with pgx.
type PlaceTypeRepo struct {
	db *DB
}

// NewPlaceTypeRepo creates a new PlaceTypeRepo.
func NewPlaceTypeRepo(db *DB) *PlaceTypeRepo {
	return &PlaceTypeRepo{db: db}
}

const placeTypeColumns = `id, name, description, created_at, updated_at`

func scanPlaceType(row pgx.Row, p *domain.PlaceType) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a place type and fills in its generated id and timestamps.
func (r *PlaceTypeRepo) Create(ctx context.Context, p *domain.PlaceType) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO place_types (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err, "place type")
}

// UpsertBatch inserts or updates many place types keyed by name using pgx.Batch.
func (r *PlaceTypeRepo) UpsertBatch(ctx context.Context, places []domain.PlaceType) error {
	batch := &pgx.Batch{}
	for _, p := range places {
		batch.Queue(`
			INSERT INTO place_types (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description, updated_at = now()
		`, p.Name, p.Description)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range places {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", translate(err, "place type"))
		}
	}
	return nil
}

// GetByID returns a place type by id.
func (r *PlaceTypeRepo) GetByID(ctx context.Context, id int64) (*domain.PlaceType, error) {
	var p domain.PlaceType
	err := scanPlaceType(r.db.Pool.QueryRow(ctx, `SELECT `+placeTypeColumns+` FROM place_types WHERE id = $1`, id), &p)
	if err != nil {
		return nil, translate(err, "place type")
	}
	return &p, nil
}

// List returns all place types ordered by name.
func (r *PlaceTypeRepo) List(ctx context.Context) ([]domain.PlaceType, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+placeTypeColumns+` FROM place_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list place types: %w", err)
	}
	defer rows.Close()

	places := make([]domain.PlaceType, 0)
	for rows.Next() {
		var p domain.PlaceType
		if err := scanPlaceType(rows, &p); err != nil {
			return nil, fmt.Errorf("scan place type: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// Update applies a partial update and returns the stored row.
func (r *PlaceTypeRepo) Update(ctx context.Context, id int64, patch domain.PlaceTypePatch) (*domain.PlaceType, error) {
	var p domain.PlaceType
	err := scanPlaceType(r.db.Pool.QueryRow(ctx, `
		UPDATE place_types
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+placeTypeColumns,
		id, patch.Name, patch.Description), &p)
	if err != nil {
		return nil, translate(err, "place type")
	}
	return &p, nil
}

// Delete removes a place type. Venues of that type are removed by the foreign key cascade.
func (r *PlaceTypeRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM place_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete place type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("place type %w", domain.ErrNotFound)
	}
	return nil
}
