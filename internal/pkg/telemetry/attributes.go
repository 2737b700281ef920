package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by the service layer.
const (
	AttrGeofenceID     = attribute.Key("questmap.geofence.id")
	AttrVenueID        = attribute.Key("questmap.venue.id")
	AttrCityID         = attribute.Key("questmap.city.id")
	AttrPointCount     = attribute.Key("questmap.polygon.points")
	AttrReplacePoints  = attribute.Key("questmap.polygon.replace")
	AttrRankLimit      = attribute.Key("questmap.rank.k")
	AttrCandidateCount = attribute.Key("questmap.rank.candidates")
	AttrOriginLat      = attribute.Key("questmap.origin.lat")
	AttrOriginLon      = attribute.Key("questmap.origin.lon")
)

// TracerName is the instrumentation scope used for service spans.
const TracerName = "github.com/samirrijal/questmap"
