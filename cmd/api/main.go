package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/questmap/internal/adapters/http"
	natsadapter "github.com/samirrijal/questmap/internal/adapters/nats"
	"github.com/samirrijal/questmap/internal/adapters/postgres"
	"github.com/samirrijal/questmap/internal/adapters/valkey"
	"github.com/samirrijal/questmap/internal/core/ports"
	"github.com/samirrijal/questmap/internal/core/usecases"
	"github.com/samirrijal/questmap/internal/pkg/config"
	"github.com/samirrijal/questmap/internal/pkg/logging"
	"github.com/samirrijal/questmap/internal/pkg/metrics"
	"github.com/samirrijal/questmap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("questmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache (optional)
	var cache ports.CacheService
	valkeyCache, err := valkey.New(cfg.Valkey.Addr, time.Duration(cfg.Valkey.CacheTTL)*time.Second)
	if err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		defer valkeyCache.Close()
		cache = valkeyCache
	}

	// NATS change events (optional)
	var events ports.EventPublisher
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL, cfg.NATS.Stream)
	if err != nil {
		slog.Warn("nats unavailable, change events disabled", "error", err)
	} else {
		defer publisher.Close()
		events = publisher
	}

	// Repos
	cityRepo := postgres.NewCityRepo(db)
	venueRepo := postgres.NewVenueRepo(db)
	placeRepo := postgres.NewPlaceTypeRepo(db)
	stopRepo := postgres.NewStopRepo(db)
	geofenceRepo := postgres.NewGeofenceRepo(db)

	deps := &http.Dependencies{
		Venues:         usecases.NewVenueService(venueRepo, cityRepo, cache, events),
		Cities:         usecases.NewCityService(cityRepo, venueRepo, cache, events),
		Places:         usecases.NewPlaceTypeService(placeRepo, venueRepo, cache, events),
		Stops:          usecases.NewStopService(stopRepo, venueRepo, events),
		Geofences:      usecases.NewGeofenceService(geofenceRepo, events),
		DB:             db,
		JWTSecret:      cfg.Auth.JWTSecret,
		JWTIssuer:      cfg.Auth.Issuer,
		RequestTimeout: cfg.Server.RequestDeadline(),
		RateLimit:      cfg.Server.RateLimit,
	}
	if valkeyCache != nil {
		deps.Cache = valkeyCache
	}
	if publisher != nil {
		deps.NATS = publisher.Conn()
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("auth.jwt_secret is empty, all write endpoints will return 401")
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "QuestMap API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", http.Version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the DB pool gauges until ctx is cancelled.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if st := db.Stat(); st != nil {
				metrics.UpdateDBPoolMetrics(st)
			}
		}
	}
}
