package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the itinerary service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"name":                &graphql.Field{Type: graphql.String},
			"latitude":            &graphql.Field{Type: graphql.Float},
			"longitude":           &graphql.Field{Type: graphql.Float},
			"distance_km":         &graphql.Field{Type: graphql.Float},
			"estimated_speed_kph": &graphql.Field{Type: graphql.Float},
			"altitude_m":          &graphql.Field{Type: graphql.Int},
			"distance_mode": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if w, ok := p.Source.(domain.Waypoint); ok {
						return w.Mode.String(), nil
					}
					return nil, nil
				},
			},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Summary",
		Fields: graphql.Fields{
			"waypoints":            &graphql.Field{Type: graphql.Int},
			"total_distance_km":    &graphql.Field{Type: graphql.Float},
			"total_distance_miles": &graphql.Field{Type: graphql.Float},
			"estimated_time_hours": &graphql.Field{Type: graphql.Float},
		},
	})

	itineraryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Itinerary",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"waypoints":  &graphql.Field{Type: graphql.NewList(waypointType)},
			"summary":    &graphql.Field{Type: summaryType},
			"created_at": &graphql.Field{Type: graphql.DateTime},
			"updated_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	indexArgs := graphql.FieldConfigArgument{
		"itineraryId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"index":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"itinerary": &graphql.Field{
				Type:        itineraryType,
				Description: "Get an itinerary by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					saved, err := deps.Itineraries.Get(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return toItineraryResponse(saved), nil
				},
			},
			"itineraries": &graphql.Field{
				Type:        graphql.NewList(itineraryType),
				Description: "List itineraries, oldest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, _, err := deps.Itineraries.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					out := make([]itineraryResponse, 0, len(items))
					for i := range items {
						out = append(out, toItineraryResponse(&items[i]))
					}
					return out, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createItinerary": &graphql.Field{
				Type: itineraryType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					saved, err := deps.Itineraries.Create(p.Context, p.Args["name"].(string))
					if err != nil {
						return nil, err
					}
					return toItineraryResponse(saved), nil
				},
			},
			"appendWaypoint": &graphql.Field{
				Type:        itineraryType,
				Description: "Append a waypoint; manualDistance keeps distanceKm as given",
				Args: graphql.FieldConfigArgument{
					"itineraryId":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":              &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"latitude":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"estimatedSpeedKph": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"altitudeM":         &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"distanceKm":        &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"manualDistance":    &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					wp := domain.Waypoint{
						Name:              p.Args["name"].(string),
						Latitude:          p.Args["latitude"].(float64),
						Longitude:         p.Args["longitude"].(float64),
						EstimatedSpeedKph: p.Args["estimatedSpeedKph"].(float64),
						AltitudeM:         p.Args["altitudeM"].(int),
						DistanceKm:        p.Args["distanceKm"].(float64),
					}
					mode := domain.DistanceAuto
					if p.Args["manualDistance"].(bool) {
						mode = domain.DistanceManual
					}
					saved, err := deps.Itineraries.AppendWaypoint(p.Context, p.Args["itineraryId"].(string), wp, mode)
					if err != nil {
						return nil, err
					}
					return toItineraryResponse(saved), nil
				},
			},
			"deleteWaypoint": &graphql.Field{
				Type: itineraryType,
				Args: indexArgs,
				Resolve: indexMutation(func(p graphql.ResolveParams, id string, index int) (*domain.SavedItinerary, error) {
					return deps.Itineraries.DeleteWaypoint(p.Context, id, index)
				}),
			},
			"moveWaypointUp": &graphql.Field{
				Type: itineraryType,
				Args: indexArgs,
				Resolve: indexMutation(func(p graphql.ResolveParams, id string, index int) (*domain.SavedItinerary, error) {
					return deps.Itineraries.MoveWaypointUp(p.Context, id, index)
				}),
			},
			"moveWaypointDown": &graphql.Field{
				Type: itineraryType,
				Args: indexArgs,
				Resolve: indexMutation(func(p graphql.ResolveParams, id string, index int) (*domain.SavedItinerary, error) {
					return deps.Itineraries.MoveWaypointDown(p.Context, id, index)
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func indexMutation(fn func(p graphql.ResolveParams, id string, index int) (*domain.SavedItinerary, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		saved, err := fn(p, p.Args["itineraryId"].(string), p.Args["index"].(int))
		if err != nil {
			return nil, err
		}
		return toItineraryResponse(saved), nil
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
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
