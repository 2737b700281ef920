package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/questmap/internal/core/domain"
)

type cityBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListCitiesHandler returns all cities, paginated.
func ListCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cities, err := deps.Cities.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		page, pg := paginate(c, cities)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// CitiesWithVenuesHandler returns every city with its venues nested.
func CitiesWithVenuesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cities, err := deps.Cities.ListWithVenues(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cities)
	}
}

func GetCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid city id")
		}

		city, err := deps.Cities.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(city)
	}
}

func CreateCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body cityBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		city := &domain.City{}
		if body.Name != nil {
			city.Name = *body.Name
		}
		if body.Description != nil {
			city.Description = *body.Description
		}

		if err := deps.Cities.Create(c.UserContext(), city); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(city)
	}
}

func UpdateCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid city id")
		}
		var body cityBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		city, err := deps.Cities.Update(c.UserContext(), id, domain.CityPatch{
			Name:        body.Name,
			Description: body.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(city)
	}
}

func DeleteCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid city id")
		}
		if err := deps.Cities.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "City deleted successfully"})
	}
}
