package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := strings.TrimSuffix(c.Path(), "/")
		var ttl string

		switch {
		case path == "/health" || path == "/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/nearest-venues"):
			// distances depend on the caller position and live venue data
			ttl = "no-store"

		case strings.HasPrefix(path, "/geofences"):
			ttl = "no-cache"

		case path == "/cities/venues" || path == "/places/venue":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/cities") || strings.HasPrefix(path, "/places"):
			ttl = "public, max-age=300"

		case strings.HasPrefix(path, "/stops"):
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/venues"):
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
