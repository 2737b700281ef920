package usecases

import (
	"unicode/utf8"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// Column widths of the name-like fields. Postgres VARCHAR(n) counts characters, not bytes.
const (
	maxNameLength     = 100
	maxStopNameLength = 200
)

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return domain.Validationf("%s must be at most %d characters", field, max)
	}
	return nil
}
