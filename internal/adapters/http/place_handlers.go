package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/questmap/internal/core/domain"
)

type placeBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListPlacesHandler returns all place types, paginated.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Places.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		page, pg := paginate(c, places)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

func GetPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid place id")
		}

		p, err := deps.Places.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// PlaceVenuesHandler returns the venues of the place type named by ?place=.
func PlaceVenuesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Query("place"), 10, 64)
		if err != nil || id <= 0 {
			return errBadRequest(c, "place query parameter is required")
		}

		venues, err := deps.Places.Venues(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(venues)
	}
}

func CreatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body placeBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p := &domain.PlaceType{}
		if body.Name != nil {
			p.Name = *body.Name
		}
		if body.Description != nil {
			p.Description = *body.Description
		}

		if err := deps.Places.Create(c.UserContext(), p); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func UpdatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid place id")
		}
		var body placeBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		p, err := deps.Places.Update(c.UserContext(), id, domain.PlaceTypePatch{
			Name:        body.Name,
			Description: body.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

func DeletePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid place id")
		}
		if err := deps.Places.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Place deleted successfully"})
	}
}
