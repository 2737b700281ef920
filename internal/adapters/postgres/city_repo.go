package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// CityRepo implements ports.CityRepository with pgx.
type CityRepo struct {
	db *DB
}

// NewCityRepo creates a new CityRepo.
func NewCityRepo(db *DB) *CityRepo {
	return &CityRepo{db: db}
}

const citySelect = `SELECT id, name, description, created_at, updated_at FROM cities`

func scanCity(row pgx.Row, c *domain.City) error {
	return row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a city and fills in its generated id and timestamps.
func (r *CityRepo) Create(ctx context.Context, c *domain.City) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO cities (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err, "city")
}

// UpsertBatch inserts or updates many cities keyed by name using pgx.Batch.
func (r *CityRepo) UpsertBatch(ctx context.Context, cities []domain.City) error {
	batch := &pgx.Batch{}
	for _, c := range cities {
		batch.Queue(`
			INSERT INTO cities (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description, updated_at = now()
		`, c.Name, c.Description)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range cities {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a city by id.
func (r *CityRepo) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	var c domain.City
	if err := scanCity(r.db.Pool.QueryRow(ctx, citySelect+` WHERE id = $1`, id), &c); err != nil {
		return nil, translate(err, "city")
	}
	return &c, nil
}

// List returns all cities ordered by name.
func (r *CityRepo) List(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.Pool.Query(ctx, citySelect+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	cities := make([]domain.City, 0)
	for rows.Next() {
		var c domain.City
		if err := scanCity(rows, &c); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// Update applies a partial update and returns the stored row.
func (r *CityRepo) Update(ctx context.Context, id int64, p domain.CityPatch) (*domain.City, error) {
	var c domain.City
	err := scanCity(r.db.Pool.QueryRow(ctx, `
		UPDATE cities
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, created_at, updated_at
	`, id, p.Name, p.Description), &c)
	if err != nil {
		return nil, translate(err, "city")
	}
	return &c, nil
}

// Delete removes a city. Its venues are removed by the foreign key cascade.
func (r *CityRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("city %w", domain.ErrNotFound)
	}
	return nil
}
