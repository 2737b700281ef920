package domain

import (
	"fmt"
	"math"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the point lies within the valid latitude/longitude ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return Validationf("coordinates must be finite numbers")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return Validationf("latitude must be within [-90, 90], got %g", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return Validationf("longitude must be within [-180, 180], got %g", p.Lon)
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%g, %g)", p.Lat, p.Lon)
}
