package domain

import (
	"time"
)

// MinPolygonPoints is the smallest vertex count a geofence polygon may have.
const MinPolygonPoints = 4

// City groups venues.
type City struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// PlaceType classifies venues ("museum", "park", ...).
type PlaceType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Venue is a point of interest belonging to a city.
type Venue struct {
	ID          int64     `json:"id"`
	CityID      int64     `json:"city"`
	PlaceTypeID int64     `json:"type_of_place"`
	Name        string    `json:"venue_name"`
	Image       *string   `json:"image"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Location returns the venue coordinate.
func (v Venue) Location() GeoPoint {
	return GeoPoint{Lat: v.Latitude, Lon: v.Longitude}
}

// CityVenues is a city listed together with all of its venues.
type CityVenues struct {
	City
	Venues []Venue `json:"venues"`
}

// Stop is a waypoint inside a venue, such as a room of a museum.
type Stop struct {
	ID          int64     `json:"id"`
	VenueID     int64     `json:"venue"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Location returns the stop coordinate.
func (s Stop) Location() GeoPoint {
	return GeoPoint{Lat: s.Latitude, Lon: s.Longitude}
}

// RankedVenue is a venue annotated with its distance from a query point.
// It only exists for the duration of a single response.
type RankedVenue struct {
	Venue
	DistanceKm float64 `json:"distance_km"`
}

// PolygonPoint is one vertex of a geofence polygon.
type PolygonPoint struct {
	ID        int64   `json:"id,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location returns the vertex coordinate.
func (p PolygonPoint) Location() GeoPoint {
	return GeoPoint{Lat: p.Latitude, Lon: p.Longitude}
}

// GeofenceRegion is a named polygonal area. Its points are owned exclusively by the region.
type GeofenceRegion struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	AlertMessage  *string        `json:"alertMessage"`
	IsRestricted  bool           `json:"isRestricted"`
	PolygonPoints []PolygonPoint `json:"polygon_points"`
}

// GeofenceInput is the payload for creating a region.
type GeofenceInput struct {
	Title        string
	AlertMessage *string
	IsRestricted bool
	Points       []PolygonPoint
}

// GeofencePatch is a partial update. Nil fields keep their stored values.
// Points are only replaced when ReplacePoints is set.
type GeofencePatch struct {
	Title         *string
	AlertMessage  *string
	IsRestricted  *bool
	ReplacePoints bool
	Points        []PolygonPoint
}

// CityPatch is a partial city update.
type CityPatch struct {
	Name        *string
	Description *string
}

// PlaceTypePatch is a partial place type update.
type PlaceTypePatch struct {
	Name        *string
	Description *string
}

// VenuePatch is a partial venue update.
type VenuePatch struct {
	CityID      *int64
	PlaceTypeID *int64
	Name        *string
	Image       *string
	Description *string
	Latitude    *float64
	Longitude   *float64
}

// StopPatch is a partial stop update.
type StopPatch struct {
	VenueID     *int64
	Name        *string
	Description *string
	Latitude    *float64
	Longitude   *float64
}

// ChangeEvent is published after a catalog or geofence write commits.
type ChangeEvent struct {
	Entity     string    `json:"entity"` // "venue" | "geofence" | "city" | "place" | "stop"
	Action     string    `json:"action"` // "created" | "updated" | "deleted"
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}
