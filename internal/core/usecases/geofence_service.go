package usecases

import (
	"context"
	"strings"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/ports"
	"github.com/samirrijal/questmap/internal/pkg/geospatial"
	"github.com/samirrijal/questmap/internal/pkg/logging"
	"github.com/samirrijal/questmap/internal/pkg/metrics"
	"github.com/samirrijal/questmap/internal/pkg/telemetry"
)

// GeofenceService manages geofence regions and their polygons.
type GeofenceService struct {
	regions ports.GeofenceRepository
	events  ports.EventPublisher
	tracer  trace.Tracer
}

// NewGeofenceService creates a new GeofenceService. events may be nil.
func NewGeofenceService(regions ports.GeofenceRepository, events ports.EventPublisher) *GeofenceService {
	return &GeofenceService{
		regions: regions,
		events:  events,
		tracer:  otel.Tracer(telemetry.TracerName),
	}
}

// Create validates the input and stores the region with all of its points.
func (s *GeofenceService) Create(ctx context.Context, in domain.GeofenceInput) (*domain.GeofenceRegion, error) {
	ctx, span := s.tracer.Start(ctx, "GeofenceService.Create", trace.WithAttributes(
		telemetry.AttrPointCount.Int(len(in.Points)),
	))
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, rejected("geofence", domain.Validationf("title is required"))
	}
	if err := checkLength("title", in.Title, maxNameLength); err != nil {
		return nil, rejected("geofence", err)
	}
	if err := validatePolygon(in.Points); err != nil {
		return nil, rejected("geofence", err)
	}

	g, err := s.regions.Create(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(telemetry.AttrGeofenceID.Int64(g.ID))
	metrics.GeofenceWrites.WithLabelValues("create").Inc()
	logging.FromContext(ctx).Info("geofence created", "id", g.ID, "points", len(g.PolygonPoints))

	publishChange(ctx, s.events, "geofence", actionCreated, g.ID, g)
	return g, nil
}

// Get returns one region with its points.
func (s *GeofenceService) Get(ctx context.Context, id int64) (*domain.GeofenceRegion, error) {
	return s.regions.GetByID(ctx, id)
}

// List returns every region with its points.
func (s *GeofenceService) List(ctx context.Context) ([]domain.GeofenceRegion, error) {
	return s.regions.List(ctx)
}

// Update applies a partial update. When p.ReplacePoints is set the stored
// vertices are swapped for p.Points atomically; otherwise they are untouched.
func (s *GeofenceService) Update(ctx context.Context, id int64, p domain.GeofencePatch) (*domain.GeofenceRegion, error) {
	ctx, span := s.tracer.Start(ctx, "GeofenceService.Update", trace.WithAttributes(
		telemetry.AttrGeofenceID.Int64(id),
		telemetry.AttrReplacePoints.Bool(p.ReplacePoints),
	))
	defer span.End()

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, rejected("geofence", domain.Validationf("title must not be empty"))
		}
		if err := checkLength("title", title, maxNameLength); err != nil {
			return nil, rejected("geofence", err)
		}
		p.Title = &title
	}
	if p.ReplacePoints {
		if err := validatePolygon(p.Points); err != nil {
			return nil, rejected("geofence", err)
		}
		span.SetAttributes(telemetry.AttrPointCount.Int(len(p.Points)))
	}

	g, err := s.regions.Update(ctx, id, p)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	metrics.GeofenceWrites.WithLabelValues("update").Inc()
	logging.FromContext(ctx).Info("geofence updated", "id", id, "replaced_points", p.ReplacePoints)

	publishChange(ctx, s.events, "geofence", actionUpdated, g.ID, g)
	return g, nil
}

// Delete removes a region and its points.
func (s *GeofenceService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "GeofenceService.Delete", trace.WithAttributes(
		telemetry.AttrGeofenceID.Int64(id),
	))
	defer span.End()

	if err := s.regions.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	metrics.GeofenceWrites.WithLabelValues("delete").Inc()
	logging.FromContext(ctx).Info("geofence deleted", "id", id)

	publishChange(ctx, s.events, "geofence", actionDeleted, id, nil)
	return nil
}

// GeoJSON returns the region as a GeoJSON Feature with a closed Polygon ring.
func (s *GeofenceService) GeoJSON(ctx context.Context, id int64) (*geojson.Feature, error) {
	g, err := s.regions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vertices := make([]geospatial.LatLon, len(g.PolygonPoints))
	for i, p := range g.PolygonPoints {
		vertices[i] = geospatial.LatLon{Lat: p.Latitude, Lon: p.Longitude}
	}
	props := map[string]any{
		"title":        g.Title,
		"alertMessage": g.AlertMessage,
		"isRestricted": g.IsRestricted,
	}
	return geospatial.PolygonFeature(g.ID, vertices, props)
}

func validatePolygon(points []domain.PolygonPoint) error {
	if len(points) < domain.MinPolygonPoints {
		return domain.Validationf("a polygon must have at least %d points", domain.MinPolygonPoints)
	}
	for i, p := range points {
		if err := p.Location().Validate(); err != nil {
			return domain.Validationf("polygon_points[%d]: %v", i, err)
		}
	}
	return nil
}
