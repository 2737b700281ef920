package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/questmap/internal/adapters/postgres"
	"github.com/samirrijal/questmap/internal/adapters/valkey"
	"github.com/samirrijal/questmap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Venues    *usecases.VenueService
	Cities    *usecases.CityService
	Places    *usecases.PlaceTypeService
	Stops     *usecases.StopService
	Geofences *usecases.GeofenceService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache

	// JWTSecret verifies admin bearer tokens. Writes are refused when empty.
	JWTSecret string
	JWTIssuer string

	// RequestTimeout bounds each API handler. Zero means 15s.
	RequestTimeout time.Duration
	// RateLimit is the per-IP request budget per minute. Zero means 120.
	RateLimit int
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return 15 * time.Second
}

func (d *Dependencies) rateLimit() int {
	if d.RateLimit > 0 {
		return d.RateLimit
	}
	return 120
}
