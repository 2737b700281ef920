package geospatial

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// LatLon is a vertex in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Polygon builds a single-ring WGS 84 polygon from the given vertices.
// The ring is closed by repeating the first vertex when needed.
func Polygon(vertices []LatLon) (*geom.Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}

	ring := make([]geom.Coord, 0, len(vertices)+1)
	for _, v := range vertices {
		// GeoJSON order is lon, lat
		ring = append(ring, geom.Coord{v.Lon, v.Lat})
	}
	first, last := vertices[0], vertices[len(vertices)-1]
	if first != last {
		ring = append(ring, geom.Coord{first.Lon, first.Lat})
	}

	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, fmt.Errorf("build polygon: %w", err)
	}
	return poly.SetSRID(4326), nil
}

// PolygonFeature encodes the vertices as a GeoJSON Feature with the given properties.
func PolygonFeature(id any, vertices []LatLon, properties map[string]any) (*geojson.Feature, error) {
	poly, err := Polygon(vertices)
	if err != nil {
		return nil, err
	}
	return &geojson.Feature{
		ID:         fmt.Sprint(id),
		Geometry:   poly,
		Properties: properties,
	}, nil
}
