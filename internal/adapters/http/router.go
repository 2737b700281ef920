package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/questmap/internal/pkg/metrics"
)

var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// legacyRoutes are the pre-REST venue and stop paths, kept for old clients.
var legacyRoutes = []DeprecatedRoute{
	{Path: "/venues/create", SunsetDate: legacySunset, Alternative: "/venues"},
	{Path: "/venues/update/:id", SunsetDate: legacySunset, Alternative: "/venues/:id"},
	{Path: "/stops/create", SunsetDate: legacySunset, Alternative: "/stops"},
	{Path: "/stops/list", SunsetDate: legacySunset, Alternative: "/stops"},
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Request-scoped logger in the user context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	app.Use(limiter.New(limiter.Config{
		Max:        deps.rateLimit(),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(legacyRoutes))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/health", HealthHandler(deps))
	app.Get("/ready", ReadyHandler(deps))

	d := deps.requestTimeout()
	h := func(handler fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(handler, d)
	}
	admin := RequireAdmin(deps.JWTSecret, deps.JWTIssuer)

	// Nearest venues
	app.Get("/nearest-venues", h(NearestVenuesHandler(deps)))
	app.Get("/nearest-venues/more/limit", h(NearestTenVenuesHandler(deps)))

	// Geofences
	app.Get("/geofences", h(ListGeofencesHandler(deps)))
	app.Post("/geofences", admin, h(CreateGeofenceHandler(deps)))
	app.Get("/geofences/:id", h(GetGeofenceHandler(deps)))
	app.Put("/geofences/:id", admin, h(UpdateGeofenceHandler(deps)))
	app.Patch("/geofences/:id", admin, h(UpdateGeofenceHandler(deps)))
	app.Delete("/geofences/:id", admin, h(DeleteGeofenceHandler(deps)))
	app.Get("/geofences/:id/geojson", h(GeofenceGeoJSONHandler(deps)))

	// Cities (static paths before /cities/:id)
	app.Get("/cities", h(ListCitiesHandler(deps)))
	app.Get("/cities/venues", h(CitiesWithVenuesHandler(deps)))
	app.Post("/cities", admin, h(CreateCityHandler(deps)))
	app.Get("/cities/:id", h(GetCityHandler(deps)))
	app.Put("/cities/:id", admin, h(UpdateCityHandler(deps)))
	app.Patch("/cities/:id", admin, h(UpdateCityHandler(deps)))
	app.Delete("/cities/:id", admin, h(DeleteCityHandler(deps)))
	app.Get("/cities/:id/venues", h(CityVenuesHandler(deps)))

	// Venues (legacy aliases first so they win over /venues/:id)
	app.Post("/venues/create", admin, h(CreateVenueHandler(deps)))
	app.Put("/venues/update/:id", admin, h(UpdateVenueHandler(deps)))
	app.Get("/venues", h(ListVenuesHandler(deps)))
	app.Post("/venues", admin, h(CreateVenueHandler(deps)))
	app.Get("/venues/:id", h(GetVenueHandler(deps)))
	app.Put("/venues/:id", admin, h(UpdateVenueHandler(deps)))
	app.Patch("/venues/:id", admin, h(UpdateVenueHandler(deps)))
	app.Delete("/venues/:id", admin, h(DeleteVenueHandler(deps)))
	app.Get("/venues/:id/stops", h(VenueStopsHandler(deps)))

	// Place types (static paths before /places/:id)
	app.Get("/places", h(ListPlacesHandler(deps)))
	app.Get("/places/venue", h(PlaceVenuesHandler(deps)))
	app.Post("/places", admin, h(CreatePlaceHandler(deps)))
	app.Get("/places/:id", h(GetPlaceHandler(deps)))
	app.Put("/places/:id", admin, h(UpdatePlaceHandler(deps)))
	app.Patch("/places/:id", admin, h(UpdatePlaceHandler(deps)))
	app.Delete("/places/:id", admin, h(DeletePlaceHandler(deps)))

	// Stops (legacy aliases first so they win over /stops/:id)
	app.Post("/stops/create", admin, h(CreateStopHandler(deps)))
	app.Get("/stops/list", h(ListStopsHandler(deps)))
	app.Get("/stops", h(ListStopsHandler(deps)))
	app.Post("/stops", admin, h(CreateStopHandler(deps)))
	app.Get("/stops/:id", h(GetStopHandler(deps)))
	app.Put("/stops/:id", admin, h(UpdateStopHandler(deps)))
	app.Patch("/stops/:id", admin, h(UpdateStopHandler(deps)))
	app.Delete("/stops/:id", admin, h(DeleteStopHandler(deps)))

	// GraphQL
	app.Post("/graphql", h(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket relay of change events
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
