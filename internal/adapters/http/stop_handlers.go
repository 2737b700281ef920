package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// stopBody is the JSON payload of stop writes. Nil fields are absent.
type stopBody struct {
	Venue       *int64   `json:"venue"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (b stopBody) stop() (*domain.Stop, string) {
	if b.Venue == nil || b.Name == nil || b.Latitude == nil || b.Longitude == nil {
		return nil, "venue, name, latitude and longitude are required"
	}
	st := &domain.Stop{
		VenueID:   *b.Venue,
		Name:      *b.Name,
		Latitude:  *b.Latitude,
		Longitude: *b.Longitude,
	}
	if b.Description != nil {
		st.Description = *b.Description
	}
	return st, ""
}

// ListStopsHandler returns all stops, or the stops of ?venue= when given.
func ListStopsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			stops []domain.Stop
			err   error
		)
		if raw := c.Query("venue"); raw != "" {
			venueID, perr := strconv.ParseInt(raw, 10, 64)
			if perr != nil || venueID <= 0 {
				return errBadRequest(c, "invalid venue id")
			}
			stops, err = deps.Stops.ListByVenue(c.UserContext(), venueID)
		} else {
			stops, err = deps.Stops.List(c.UserContext())
		}
		if err != nil {
			return writeServiceError(c, err)
		}

		page, pg := paginate(c, stops)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// VenueStopsHandler returns the stops of one venue.
func VenueStopsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid venue id")
		}

		stops, err := deps.Stops.ListByVenue(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stops)
	}
}

func GetStopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid stop id")
		}

		st, err := deps.Stops.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st)
	}
}

func CreateStopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body stopBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		st, msg := body.stop()
		if st == nil {
			return errBadRequest(c, msg)
		}

		if err := deps.Stops.Create(c.UserContext(), st); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(st)
	}
}

// UpdateStopHandler applies a partial update. PUT and PATCH behave the same.
func UpdateStopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid stop id")
		}
		var body stopBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		st, err := deps.Stops.Update(c.UserContext(), id, domain.StopPatch{
			VenueID:     body.Venue,
			Name:        body.Name,
			Description: body.Description,
			Latitude:    body.Latitude,
			Longitude:   body.Longitude,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st)
	}
}

func DeleteStopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid stop id")
		}
		if err := deps.Stops.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Stop deleted successfully"})
	}
}
