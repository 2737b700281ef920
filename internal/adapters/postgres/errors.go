package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/questmap/internal/core/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgStringTooLong       = "22001"
)

// translate maps driver errors onto domain sentinels. entity names the row kind in messages.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s with this name already exists", domain.ErrConflict, entity)
		case pgForeignKeyViolation:
			return domain.Validationf("%s references a missing record", entity)
		case pgStringTooLong:
			return domain.Validationf("%s has a value that is too long", entity)
		}
	}
	return err
}
