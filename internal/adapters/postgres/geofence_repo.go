package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// GeofenceRepo implements ports.GeofenceRepository with pgx.
// A region and its polygon points are always written in one transaction.
type GeofenceRepo struct {
	db *DB
}

// NewGeofenceRepo creates a new GeofenceRepo.
func NewGeofenceRepo(db *DB) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

const geofenceColumns = `id, title, alert_message, is_restricted`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanGeofence(row pgx.Row, g *domain.GeofenceRegion) error {
	return row.Scan(&g.ID, &g.Title, &g.AlertMessage, &g.IsRestricted)
}

// Create inserts the region row and then every vertex.
func (r *GeofenceRepo) Create(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error) {
	var g domain.GeofenceRegion
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := scanGeofence(tx.QueryRow(ctx, `
			INSERT INTO geofences (title, alert_message, is_restricted)
			VALUES ($1, $2, $3)
			RETURNING `+geofenceColumns,
			in.Title, in.AlertMessage, in.IsRestricted), &g)
		if err != nil {
			return fmt.Errorf("insert geofence: %w", translate(err, "geofence"))
		}
		g.PolygonPoints, err = insertPoints(ctx, tx, g.ID, in.Points)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByID returns a region with its points in stored order.
func (r *GeofenceRepo) GetByID(ctx context.Context, id int64) (*domain.GeofenceRegion, error) {
	var g domain.GeofenceRegion
	err := scanGeofence(r.db.Pool.QueryRow(ctx, `SELECT `+geofenceColumns+` FROM geofences WHERE id = $1`, id), &g)
	if err != nil {
		return nil, translate(err, "geofence")
	}
	g.PolygonPoints, err = listPoints(ctx, r.db.Pool, id)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns every region ordered by id, each with its points.
func (r *GeofenceRepo) List(ctx context.Context) ([]domain.GeofenceRegion, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+geofenceColumns+` FROM geofences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list geofences: %w", err)
	}
	defer rows.Close()

	regions := make([]domain.GeofenceRegion, 0)
	index := make(map[int64]int)
	ids := make([]int64, 0)
	for rows.Next() {
		var g domain.GeofenceRegion
		if err := scanGeofence(rows, &g); err != nil {
			return nil, fmt.Errorf("scan geofence: %w", err)
		}
		g.PolygonPoints = make([]domain.PolygonPoint, 0)
		index[g.ID] = len(regions)
		ids = append(ids, g.ID)
		regions = append(regions, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return regions, nil
	}

	prow, err := r.db.Pool.Query(ctx, `
		SELECT id, geofence_id, latitude, longitude
		FROM geofence_points
		WHERE geofence_id = ANY($1)
		ORDER BY geofence_id, id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list geofence points: %w", err)
	}
	defer prow.Close()

	for prow.Next() {
		var (
			p     domain.PolygonPoint
			owner int64
		)
		if err := prow.Scan(&p.ID, &owner, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scan geofence point: %w", err)
		}
		if i, ok := index[owner]; ok {
			regions[i].PolygonPoints = append(regions[i].PolygonPoints, p)
		}
	}
	return regions, prow.Err()
}

// Update applies scalar changes and, when requested, swaps the whole vertex set.
// The region row is updated first so concurrent writers serialize on its lock.
func (r *GeofenceRepo) Update(ctx context.Context, id int64, p domain.GeofencePatch) (*domain.GeofenceRegion, error) {
	var g domain.GeofenceRegion
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := scanGeofence(tx.QueryRow(ctx, `
			UPDATE geofences
			SET title = COALESCE($2, title),
			    alert_message = COALESCE($3, alert_message),
			    is_restricted = COALESCE($4, is_restricted),
			    updated_at = now()
			WHERE id = $1
			RETURNING `+geofenceColumns,
			id, p.Title, p.AlertMessage, p.IsRestricted), &g)
		if err != nil {
			return translate(err, "geofence")
		}

		if !p.ReplacePoints {
			g.PolygonPoints, err = listPoints(ctx, tx, id)
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM geofence_points WHERE geofence_id = $1`, id); err != nil {
			return fmt.Errorf("delete geofence points: %w", err)
		}
		g.PolygonPoints, err = insertPoints(ctx, tx, id, p.Points)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes a region. Points go with it through ON DELETE CASCADE.
func (r *GeofenceRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM geofences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete geofence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("geofence %w", domain.ErrNotFound)
	}
	return nil
}

func insertPoints(ctx context.Context, tx pgx.Tx, geofenceID int64, points []domain.PolygonPoint) ([]domain.PolygonPoint, error) {
	stored := make([]domain.PolygonPoint, 0, len(points))
	for _, pt := range points {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO geofence_points (geofence_id, latitude, longitude)
			VALUES ($1, $2, $3)
			RETURNING id
		`, geofenceID, pt.Latitude, pt.Longitude).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert geofence point: %w", err)
		}
		stored = append(stored, domain.PolygonPoint{ID: id, Latitude: pt.Latitude, Longitude: pt.Longitude})
	}
	return stored, nil
}

func listPoints(ctx context.Context, q querier, geofenceID int64) ([]domain.PolygonPoint, error) {
	rows, err := q.Query(ctx, `
		SELECT id, latitude, longitude
		FROM geofence_points
		WHERE geofence_id = $1
		ORDER BY id
	`, geofenceID)
	if err != nil {
		return nil, fmt.Errorf("list geofence points: %w", err)
	}
	defer rows.Close()

	points := make([]domain.PolygonPoint, 0)
	for rows.Next() {
		var p domain.PolygonPoint
		if err := rows.Scan(&p.ID, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scan geofence point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
