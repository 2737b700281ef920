package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// StopRepo implements ports.StopRepository with pgx.
type StopRepo struct {
	db *DB
}

// NewStopRepo creates a new StopRepo.
func NewStopRepo(db *DB) *StopRepo {
	return &StopRepo{db: db}
}

const stopColumns = `id, venue_id, name, description, latitude, longitude, created_at, updated_at`

func scanStop(row pgx.Row, s *domain.Stop) error {
	return row.Scan(&s.ID, &s.VenueID, &s.Name, &s.Description, &s.Latitude, &s.Longitude, &s.CreatedAt, &s.UpdatedAt)
}

func (r *StopRepo) list(ctx context.Context, sql string, args ...any) ([]domain.Stop, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0)
	for rows.Next() {
		var s domain.Stop
		if err := scanStop(rows, &s); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

// Create inserts a stop and fills in its generated id and timestamps.
func (r *StopRepo) Create(ctx context.Context, s *domain.Stop) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO stops (venue_id, name, description, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, s.VenueID, s.Name, s.Description, s.Latitude, s.Longitude).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err, "stop")
}

// GetByID returns a stop by id.
func (r *StopRepo) GetByID(ctx context.Context, id int64) (*domain.Stop, error) {
	var s domain.Stop
	if err := scanStop(r.db.Pool.QueryRow(ctx, `SELECT `+stopColumns+` FROM stops WHERE id = $1`, id), &s); err != nil {
		return nil, translate(err, "stop")
	}
	return &s, nil
}

// List returns every stop ordered by id.
func (r *StopRepo) List(ctx context.Context) ([]domain.Stop, error) {
	return r.list(ctx, `SELECT `+stopColumns+` FROM stops ORDER BY id`)
}

// ListByVenue returns the stops of one venue ordered by id.
func (r *StopRepo) ListByVenue(ctx context.Context, venueID int64) ([]domain.Stop, error) {
	return r.list(ctx, `SELECT `+stopColumns+` FROM stops WHERE venue_id = $1 ORDER BY id`, venueID)
}

// Update applies a partial update and returns the stored row.
func (r *StopRepo) Update(ctx context.Context, id int64, p domain.StopPatch) (*domain.Stop, error) {
	var s domain.Stop
	err := scanStop(r.db.Pool.QueryRow(ctx, `
		UPDATE stops
		SET venue_id = COALESCE($2, venue_id),
		    name = COALESCE($3, name),
		    description = COALESCE($4, description),
		    latitude = COALESCE($5, latitude),
		    longitude = COALESCE($6, longitude),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+stopColumns,
		id, p.VenueID, p.Name, p.Description, p.Latitude, p.Longitude), &s)
	if err != nil {
		return nil, translate(err, "stop")
	}
	return &s, nil
}

// Delete removes a stop.
func (r *StopRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM stops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stop %w", domain.ErrNotFound)
	}
	return nil
}
