package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/questmap/internal/adapters/postgres"
	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/usecases"
	"github.com/samirrijal/questmap/internal/pkg/config"
	"github.com/samirrijal/questmap/internal/pkg/logging"
)

// ---------------------------------------------------------------------------
// Manifest types
// ---------------------------------------------------------------------------

type Manifest struct {
	Source     string           `json:"source"`
	PlaceTypes []PlaceTypeEntry `json:"place_types"`
	Cities     []CityEntry      `json:"cities"`
	Geofences  []GeofenceEntry  `json:"geofences"`
}

type PlaceTypeEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CityEntry struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Venues      []VenueEntry `json:"venues"`
}

type VenueEntry struct {
	Name        string  `json:"venue_name"`
	PlaceType   string  `json:"type_of_place"` // place type name
	Image       *string `json:"image,omitempty"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type GeofenceEntry struct {
	Title         string                `json:"title"`
	AlertMessage  *string               `json:"alertMessage,omitempty"`
	IsRestricted  bool                  `json:"isRestricted"`
	PolygonPoints []domain.PolygonPoint `json:"polygon_points"`
}

// ---------------------------------------------------------------------------
// CLI
// ---------------------------------------------------------------------------

var (
	manifestPath string
	cityFilter   []string
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import place types, cities, venues and geofences from a JSON manifest",
	Long: `Reads a manifest and upserts its place types, cities and venues by name in batches.
Geofences are keyed by title: an existing region with the same title gets its
alert, restriction flag and polygon replaced, otherwise a new region is created.
Running the same manifest twice leaves the database unchanged.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "manifest.json", "Path to the JSON manifest")
	rootCmd.Flags().StringSliceVarP(&cityFilter, "cities", "c", nil, "Only import these cities (comma separated names)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the manifest without writing to the database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load("questmap-seed")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	m, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	m.filterCities(cityFilter)
	if err := m.Validate(); err != nil {
		return err
	}
	slog.Info("manifest loaded", "source", m.Source,
		"place_types", len(m.PlaceTypes), "cities", len(m.Cities), "geofences", len(m.Geofences))

	if dryRun {
		slog.Info("dry run, nothing written")
		return nil
	}

	ctx := cmd.Context()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	return seed(ctx, m, stores{
		places:    postgres.NewPlaceTypeRepo(db),
		cities:    postgres.NewCityRepo(db),
		venues:    postgres.NewVenueRepo(db),
		geofences: usecases.NewGeofenceService(postgres.NewGeofenceRepo(db), nil),
	})
}

// ---------------------------------------------------------------------------
// Manifest handling
// ---------------------------------------------------------------------------

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func (m *Manifest) filterCities(names []string) {
	if len(names) == 0 {
		return
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[strings.TrimSpace(n)] = true
	}
	filtered := m.Cities[:0]
	for _, c := range m.Cities {
		if keep[c.Name] {
			filtered = append(filtered, c)
		}
	}
	m.Cities = filtered
}

// Validate reports every problem in the manifest at once.
func (m *Manifest) Validate() error {
	var errs []string
	places := make(map[string]bool)
	cities := make(map[string]bool)
	venues := make(map[string]bool)
	titles := make(map[string]bool)

	for i, p := range m.PlaceTypes {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("place_types[%d]: name is required", i))
		} else if places[name] {
			errs = append(errs, fmt.Sprintf("place_types[%d]: duplicate place type %q", i, name))
		}
		places[name] = true
	}

	for i, c := range m.Cities {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("cities[%d]: name is required", i))
		} else if cities[name] {
			errs = append(errs, fmt.Sprintf("cities[%d]: duplicate city %q", i, name))
		}
		cities[name] = true

		for j, v := range c.Venues {
			vname := strings.TrimSpace(v.Name)
			if vname == "" {
				errs = append(errs, fmt.Sprintf("cities[%d].venues[%d]: venue_name is required", i, j))
			} else if venues[vname] {
				errs = append(errs, fmt.Sprintf("cities[%d].venues[%d]: duplicate venue %q", i, j, vname))
			}
			venues[vname] = true
			if strings.TrimSpace(v.PlaceType) == "" {
				errs = append(errs, fmt.Sprintf("cities[%d].venues[%d]: type_of_place is required", i, j))
			}
			if err := (domain.GeoPoint{Lat: v.Latitude, Lon: v.Longitude}).Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("cities[%d].venues[%d]: %v", i, j, err))
			}
		}
	}

	for i, g := range m.Geofences {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			errs = append(errs, fmt.Sprintf("geofences[%d]: title is required", i))
		} else if titles[title] {
			errs = append(errs, fmt.Sprintf("geofences[%d]: duplicate geofence %q", i, title))
		}
		titles[title] = true
		if len(g.PolygonPoints) < domain.MinPolygonPoints {
			errs = append(errs, fmt.Sprintf("geofences[%d]: a polygon must have at least %d points", i, domain.MinPolygonPoints))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid manifest:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Import
// ---------------------------------------------------------------------------

type placeStore interface {
	UpsertBatch(ctx context.Context, places []domain.PlaceType) error
	List(ctx context.Context) ([]domain.PlaceType, error)
}

type cityStore interface {
	UpsertBatch(ctx context.Context, cities []domain.City) error
	List(ctx context.Context) ([]domain.City, error)
}

type venueStore interface {
	UpsertBatch(ctx context.Context, venues []domain.Venue) error
}

type geofenceStore interface {
	List(ctx context.Context) ([]domain.GeofenceRegion, error)
	Create(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error)
	Update(ctx context.Context, id int64, p domain.GeofencePatch) (*domain.GeofenceRegion, error)
}

type stores struct {
	places    placeStore
	cities    cityStore
	venues    venueStore
	geofences geofenceStore
}

func seed(ctx context.Context, m *Manifest, st stores) error {
	if len(m.PlaceTypes) > 0 {
		batch := make([]domain.PlaceType, 0, len(m.PlaceTypes))
		for _, p := range m.PlaceTypes {
			batch = append(batch, domain.PlaceType{Name: strings.TrimSpace(p.Name), Description: p.Description})
		}
		if err := st.places.UpsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("upsert place types: %w", err)
		}
	}
	storedPlaces, err := st.places.List(ctx)
	if err != nil {
		return fmt.Errorf("list place types: %w", err)
	}
	placeIDs := make(map[string]int64, len(storedPlaces))
	for _, p := range storedPlaces {
		placeIDs[p.Name] = p.ID
	}

	batch := make([]domain.City, 0, len(m.Cities))
	for _, c := range m.Cities {
		batch = append(batch, domain.City{Name: strings.TrimSpace(c.Name), Description: c.Description})
	}
	if err := st.cities.UpsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("upsert cities: %w", err)
	}

	stored, err := st.cities.List(ctx)
	if err != nil {
		return fmt.Errorf("list cities: %w", err)
	}
	ids := make(map[string]int64, len(stored))
	for _, c := range stored {
		ids[c.Name] = c.ID
	}

	var vs []domain.Venue
	for _, c := range m.Cities {
		cityID, ok := ids[strings.TrimSpace(c.Name)]
		if !ok {
			return fmt.Errorf("city %q missing after upsert", c.Name)
		}
		for _, v := range c.Venues {
			placeID, ok := placeIDs[strings.TrimSpace(v.PlaceType)]
			if !ok {
				return fmt.Errorf("venue %q: unknown place type %q", v.Name, v.PlaceType)
			}
			vs = append(vs, domain.Venue{
				CityID:      cityID,
				PlaceTypeID: placeID,
				Name:        strings.TrimSpace(v.Name),
				Image:       v.Image,
				Description: v.Description,
				Latitude:    v.Latitude,
				Longitude:   v.Longitude,
			})
		}
	}
	if len(vs) > 0 {
		if err := st.venues.UpsertBatch(ctx, vs); err != nil {
			return fmt.Errorf("upsert venues: %w", err)
		}
	}
	slog.Info("catalog imported", "place_types", len(m.PlaceTypes), "cities", len(batch), "venues", len(vs))

	if len(m.Geofences) > 0 {
		if err := seedGeofences(ctx, m.Geofences, st.geofences); err != nil {
			return err
		}
	}

	slog.Info("seed complete")
	return nil
}

// seedGeofences upserts regions keyed by title. When several stored regions
// share a title the one with the lowest id is updated.
func seedGeofences(ctx context.Context, entries []GeofenceEntry, geofences geofenceStore) error {
	existing, err := geofences.List(ctx)
	if err != nil {
		return fmt.Errorf("list geofences: %w", err)
	}
	byTitle := make(map[string]int64, len(existing))
	for _, g := range existing {
		if id, ok := byTitle[g.Title]; !ok || g.ID < id {
			byTitle[g.Title] = g.ID
		}
	}

	for _, g := range entries {
		title := strings.TrimSpace(g.Title)
		if id, ok := byTitle[title]; ok {
			restricted := g.IsRestricted
			region, err := geofences.Update(ctx, id, domain.GeofencePatch{
				AlertMessage:  g.AlertMessage,
				IsRestricted:  &restricted,
				ReplacePoints: true,
				Points:        g.PolygonPoints,
			})
			if err != nil {
				return fmt.Errorf("update geofence %q: %w", title, err)
			}
			slog.Info("geofence updated", "id", region.ID, "title", region.Title, "points", len(region.PolygonPoints))
			continue
		}

		region, err := geofences.Create(ctx, domain.GeofenceInput{
			Title:        title,
			AlertMessage: g.AlertMessage,
			IsRestricted: g.IsRestricted,
			Points:       g.PolygonPoints,
		})
		if err != nil {
			return fmt.Errorf("create geofence %q: %w", title, err)
		}
		byTitle[title] = region.ID
		slog.Info("geofence created", "id", region.ID, "title", region.Title, "points", len(region.PolygonPoints))
	}
	return nil
}
