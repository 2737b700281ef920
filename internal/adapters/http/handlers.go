package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/questmap/internal/core/domain"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 200
)

// messageResponse is the body of successful deletes.
type messageResponse struct {
	Message string `json:"message"`
}

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseOrigin reads the lat/lon query parameters. Both must be present and finite numbers.
func parseOrigin(c *fiber.Ctx) (domain.GeoPoint, bool) {
	latStr := strings.TrimSpace(c.Query("lat"))
	lonStr := strings.TrimSpace(c.Query("lon"))
	if latStr == "" || lonStr == "" {
		return domain.GeoPoint{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	if !finite(lat) || !finite(lon) {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// paginate applies offset/limit query parameters to a full result set.
func paginate[T any](c *fiber.Ctx, items []T) ([]T, Pagination) {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	total := len(items)
	page := make([]T, 0)
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = items[offset:end]
	}

	return page, Pagination{Offset: offset, Limit: limit, Total: total}
}
