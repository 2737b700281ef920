package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/questmap/internal/core/domain"
)

const missingCoordinates = "lat and lon query parameters are required"

// venueBody is the JSON payload of venue writes. Nil fields are absent.
type venueBody struct {
	City        *int64   `json:"city"`
	PlaceType   *int64   `json:"type_of_place"`
	Name        *string  `json:"venue_name"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (b venueBody) venue() (*domain.Venue, string) {
	if b.City == nil || b.PlaceType == nil || b.Name == nil || b.Latitude == nil || b.Longitude == nil {
		return nil, "city, type_of_place, venue_name, latitude and longitude are required"
	}
	v := &domain.Venue{
		CityID:      *b.City,
		PlaceTypeID: *b.PlaceType,
		Name:        *b.Name,
		Image:       b.Image,
		Latitude:    *b.Latitude,
		Longitude:   *b.Longitude,
	}
	if b.Description != nil {
		v.Description = *b.Description
	}
	return v, ""
}

func (b venueBody) patch() domain.VenuePatch {
	return domain.VenuePatch{
		CityID:      b.City,
		PlaceTypeID: b.PlaceType,
		Name:        b.Name,
		Image:       b.Image,
		Description: b.Description,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
	}
}

// NearestVenuesHandler returns the two venues closest to ?lat=&lon=.
func NearestVenuesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, ok := parseOrigin(c)
		if !ok {
			return errBadRequest(c, missingCoordinates)
		}

		venues, err := deps.Venues.Nearest(c.UserContext(), origin)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(venues)
	}
}

// NearestTenVenuesHandler returns the ten venues closest to ?lat=&lon=.
func NearestTenVenuesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, ok := parseOrigin(c)
		if !ok {
			return errBadRequest(c, missingCoordinates)
		}

		venues, err := deps.Venues.NearestTen(c.UserContext(), origin)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(venues)
	}
}

// ListVenuesHandler returns all venues, paginated.
func ListVenuesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		venues, err := deps.Venues.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		page, pg := paginate(c, venues)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetVenueHandler returns a single venue.
func GetVenueHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid venue id")
		}

		v, err := deps.Venues.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// CreateVenueHandler stores a new venue.
func CreateVenueHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body venueBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		v, msg := body.venue()
		if v == nil {
			return errBadRequest(c, msg)
		}

		if err := deps.Venues.Create(c.UserContext(), v); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// UpdateVenueHandler applies a partial update. PUT and PATCH behave the same.
func UpdateVenueHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid venue id")
		}
		var body venueBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		v, err := deps.Venues.Update(c.UserContext(), id, body.patch())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// DeleteVenueHandler removes a venue.
func DeleteVenueHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid venue id")
		}
		if err := deps.Venues.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Venue deleted successfully"})
	}
}

// CityVenuesHandler returns the venues of one city.
func CityVenuesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid city id")
		}

		venues, err := deps.Venues.ListByCity(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(venues)
	}
}
