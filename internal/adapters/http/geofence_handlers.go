package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/questmap/internal/core/domain"
)

type pointBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// geofenceBody is the JSON payload of geofence writes. A nil PolygonPoints
// means the field was absent; an empty slice means it was sent empty.
type geofenceBody struct {
	Title         *string      `json:"title"`
	AlertMessage  *string      `json:"alertMessage"`
	IsRestricted  *bool        `json:"isRestricted"`
	PolygonPoints *[]pointBody `json:"polygon_points"`
}

func (b geofenceBody) points() ([]domain.PolygonPoint, error) {
	if b.PolygonPoints == nil {
		return nil, nil
	}
	pts := make([]domain.PolygonPoint, len(*b.PolygonPoints))
	for i, p := range *b.PolygonPoints {
		if p.Latitude == nil || p.Longitude == nil {
			return nil, fmt.Errorf("polygon_points[%d]: latitude and longitude are required", i)
		}
		pts[i] = domain.PolygonPoint{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	return pts, nil
}

func (b geofenceBody) input() (domain.GeofenceInput, error) {
	pts, err := b.points()
	if err != nil {
		return domain.GeofenceInput{}, err
	}
	in := domain.GeofenceInput{AlertMessage: b.AlertMessage, Points: pts}
	if b.Title != nil {
		in.Title = *b.Title
	}
	if b.IsRestricted != nil {
		in.IsRestricted = *b.IsRestricted
	}
	return in, nil
}

func (b geofenceBody) patch() (domain.GeofencePatch, error) {
	pts, err := b.points()
	if err != nil {
		return domain.GeofencePatch{}, err
	}
	return domain.GeofencePatch{
		Title:         b.Title,
		AlertMessage:  b.AlertMessage,
		IsRestricted:  b.IsRestricted,
		ReplacePoints: b.PolygonPoints != nil,
		Points:        pts,
	}, nil
}

// ListGeofencesHandler returns all regions, paginated.
func ListGeofencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		regions, err := deps.Geofences.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		page, pg := paginate(c, regions)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CreateGeofenceHandler stores a new region with its polygon.
func CreateGeofenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body geofenceBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		in, err := body.input()
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		g, err := deps.Geofences.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

// GetGeofenceHandler returns one region.
func GetGeofenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid geofence id")
		}

		g, err := deps.Geofences.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(g)
	}
}

// UpdateGeofenceHandler applies a partial update. PUT and PATCH behave the same;
// sending polygon_points replaces the whole vertex set.
func UpdateGeofenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid geofence id")
		}
		var body geofenceBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		patch, err := body.patch()
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		g, err := deps.Geofences.Update(c.UserContext(), id, patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(g)
	}
}

// DeleteGeofenceHandler removes a region and its points.
func DeleteGeofenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid geofence id")
		}
		if err := deps.Geofences.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Geofence deleted successfully"})
	}
}

// GeofenceGeoJSONHandler returns the region polygon as a GeoJSON Feature.
func GeofenceGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid geofence id")
		}

		feature, err := deps.Geofences.GeoJSON(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		data, err := feature.MarshalJSON()
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}
