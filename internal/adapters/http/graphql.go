package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	venueFields := func() graphql.Fields {
		return graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"city":          &graphql.Field{Type: graphql.Int},
			"type_of_place": &graphql.Field{Type: graphql.Int},
			"venue_name":  &graphql.Field{Type: graphql.String},
			"image":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"latitude":    &graphql.Field{Type: graphql.Float},
			"longitude":   &graphql.Field{Type: graphql.Float},
		}
	}

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlaceType",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	stopType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stop",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"venue":       &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"latitude":    &graphql.Field{Type: graphql.Float},
			"longitude":   &graphql.Field{Type: graphql.Float},
		},
	})

	venueType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Venue",
		Fields: venueFields(),
	})

	rankedFields := venueFields()
	for name, f := range rankedFields {
		name := name
		f.Resolve = func(p graphql.ResolveParams) (interface{}, error) {
			rv, ok := p.Source.(domain.RankedVenue)
			if !ok {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			return venueField(rv.Venue, name), nil
		}
	}
	rankedFields["distance_km"] = &graphql.Field{Type: graphql.Float}

	rankedVenueType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "RankedVenue",
		Fields: rankedFields,
	})

	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PolygonPoint",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.Int},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	geofenceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Geofence",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.Int},
			"title":          &graphql.Field{Type: graphql.String},
			"alertMessage":   &graphql.Field{Type: graphql.String},
			"isRestricted":   &graphql.Field{Type: graphql.Boolean},
			"polygon_points": &graphql.Field{Type: graphql.NewList(pointType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"nearestVenues": &graphql.Field{
				Type:        graphql.NewList(rankedVenueType),
				Description: "Venues closest to a point: 2 by default, 10 when more is true",
				Args: graphql.FieldConfigArgument{
					"lat":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"more": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					if more, _ := p.Args["more"].(bool); more {
						return deps.Venues.NearestTen(p.Context, origin)
					}
					return deps.Venues.Nearest(p.Context, origin)
				},
			},
			"venues": &graphql.Field{
				Type:        graphql.NewList(venueType),
				Description: "List venues, optionally restricted to one city or place type",
				Args: graphql.FieldConfigArgument{
					"city":  &graphql.ArgumentConfig{Type: graphql.Int},
					"place": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if city, ok := p.Args["city"].(int); ok {
						return deps.Venues.ListByCity(p.Context, int64(city))
					}
					if place, ok := p.Args["place"].(int); ok {
						return deps.Places.Venues(p.Context, int64(place))
					}
					return deps.Venues.List(p.Context)
				},
			},
			"venue": &graphql.Field{
				Type:        venueType,
				Description: "Get a venue by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Venues.GetByID(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"cities": &graphql.Field{
				Type:        graphql.NewList(cityType),
				Description: "List all cities",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Cities.List(p.Context)
				},
			},
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "List all place types",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.List(p.Context)
				},
			},
			"stops": &graphql.Field{
				Type:        graphql.NewList(stopType),
				Description: "List stops, optionally restricted to one venue",
				Args: graphql.FieldConfigArgument{
					"venue": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if venue, ok := p.Args["venue"].(int); ok {
						return deps.Stops.ListByVenue(p.Context, int64(venue))
					}
					return deps.Stops.List(p.Context)
				},
			},
			"geofences": &graphql.Field{
				Type:        graphql.NewList(geofenceType),
				Description: "List all geofence regions",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geofences.List(p.Context)
				},
			},
			"geofence": &graphql.Field{
				Type:        geofenceType,
				Description: "Get a geofence region by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geofences.Get(p.Context, int64(p.Args["id"].(int)))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func venueField(v domain.Venue, name string) interface{} {
	switch name {
	case "id":
		return v.ID
	case "city":
		return v.CityID
	case "type_of_place":
		return v.PlaceTypeID
	case "venue_name":
		return v.Name
	case "image":
		return v.Image
	case "description":
		return v.Description
	case "latitude":
		return v.Latitude
	case "longitude":
		return v.Longitude
	}
	return nil
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
