package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
)

// itineraryResponse is the REST shape of a saved itinerary.
type itineraryResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Waypoints []domain.Waypoint `json:"waypoints"`
	Summary   domain.Summary    `json:"summary"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// itineraryListItem is one row of the paginated itinerary list.
type itineraryListItem struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Summary   domain.Summary `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toItineraryResponse(s *domain.SavedItinerary) itineraryResponse {
	return itineraryResponse{
		ID:        s.ID,
		Name:      s.Name,
		Waypoints: s.Itinerary.Waypoints(),
		Summary:   s.Itinerary.Summary(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type createItineraryRequest struct {
	Name string `json:"name"`
}

// CreateItineraryHandler creates an empty itinerary.
func CreateItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createItineraryRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		if len(req.Name) > 200 {
			return errBadRequest(c, "name too long (max 200 characters)")
		}

		saved, err := deps.Itineraries.Create(c.UserContext(), req.Name)
		if err != nil {
			return errFromService(c, err)
		}
		c.Location("/v1/itineraries/" + saved.ID)
		return c.Status(fiber.StatusCreated).JSON(toItineraryResponse(saved))
	}
}

// ListItinerariesHandler returns a page of itineraries with Link headers.
func ListItinerariesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		items, total, err := deps.Itineraries.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromService(c, err)
		}

		data := make([]itineraryListItem, 0, len(items))
		for _, it := range items {
			data = append(data, itineraryListItem{
				ID:        it.ID,
				Name:      it.Name,
				Summary:   it.Itinerary.Summary(),
				CreatedAt: it.CreatedAt,
				UpdatedAt: it.UpdatedAt,
			})
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: data, Pagination: pg})
	}
}

// GetItineraryHandler returns one itinerary with its summary.
func GetItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		saved, err := deps.Itineraries.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(toItineraryResponse(saved))
	}
}

// DeleteItineraryHandler removes an itinerary.
func DeleteItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Itineraries.Delete(c.UserContext(), c.Params("id")); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type appendWaypointRequest struct {
	Name              string   `json:"name"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	DistanceKm        float64  `json:"distance_km"`
	EstimatedSpeedKph float64  `json:"estimated_speed_kph"`
	AltitudeM         int      `json:"altitude_m"`
	ManualDistance    bool     `json:"manual_distance"`
}

// AppendWaypointHandler appends a waypoint. With manual_distance the given
// distance_km is kept, otherwise it is computed from the previous waypoint.
func AppendWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req appendWaypointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Latitude == nil || req.Longitude == nil {
			return errBadRequest(c, "latitude and longitude are required")
		}

		mode := domain.DistanceAuto
		if req.ManualDistance {
			mode = domain.DistanceManual
		}
		wp := domain.Waypoint{
			Name:              req.Name,
			Latitude:          *req.Latitude,
			Longitude:         *req.Longitude,
			DistanceKm:        req.DistanceKm,
			EstimatedSpeedKph: req.EstimatedSpeedKph,
			AltitudeM:         req.AltitudeM,
		}

		saved, err := deps.Itineraries.AppendWaypoint(c.UserContext(), c.Params("id"), wp, mode)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toItineraryResponse(saved))
	}
}

// DeleteWaypointHandler removes the waypoint at :index.
func DeleteWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return errBadRequest(c, "index must be an integer")
		}
		saved, err := deps.Itineraries.DeleteWaypoint(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(toItineraryResponse(saved))
	}
}

// MoveWaypointUpHandler swaps :index with its predecessor.
func MoveWaypointUpHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return errBadRequest(c, "index must be an integer")
		}
		saved, err := deps.Itineraries.MoveWaypointUp(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(toItineraryResponse(saved))
	}
}

// MoveWaypointDownHandler swaps :index with its successor.
func MoveWaypointDownHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return errBadRequest(c, "index must be an integer")
		}
		saved, err := deps.Itineraries.MoveWaypointDown(c.UserContext(), c.Params("id"), index)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(toItineraryResponse(saved))
	}
}

type setAltitudeRequest struct {
	AltitudeM *int `json:"altitude_m"`
}

// SetAltitudeHandler overwrites the altitude of one waypoint.
func SetAltitudeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return errBadRequest(c, "index must be an integer")
		}
		var req setAltitudeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.AltitudeM == nil {
			return errBadRequest(c, "altitude_m is required")
		}

		saved, err := deps.Itineraries.SetAltitude(c.UserContext(), c.Params("id"), index, *req.AltitudeM)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(toItineraryResponse(saved))
	}
}

// NearestWaypointHandler finds the waypoint closest to ?lat&lon.
func NearestWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		match, err := deps.Itineraries.NearestWaypoint(c.UserContext(), c.Params("id"), lat, lon)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(match)
	}
}

type fromClickRequest struct {
	Name              string  `json:"name"`
	EstimatedSpeedKph float64 `json:"estimated_speed_kph"`
}

// AppendFromClickHandler appends the last map click as a waypoint.
func AppendFromClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.MapClicks == nil {
			return errUnavailable(c, "map clicks are not enabled")
		}
		var req fromClickRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}

		saved, err := deps.MapClicks.AppendFromClick(c.UserContext(), c.Params("id"), req.Name, req.EstimatedSpeedKph)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toItineraryResponse(saved))
	}
}

// EnrichAltitudesHandler starts the altitude enrichment workflow.
func EnrichAltitudesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Workflows == nil {
			return errUnavailable(c, "altitude enrichment is not configured")
		}
		id := c.Params("id")
		if _, err := deps.Itineraries.Get(c.UserContext(), id); err != nil {
			return errFromService(c, err)
		}

		runID, err := deps.Workflows.StartAltitudeEnrichment(c.UserContext(), id)
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("start altitude enrichment", "itinerary_id", id, "error", err)
			return errUnavailable(c, "could not start altitude enrichment")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"itinerary_id": id,
			"run_id":       runID,
		})
	}
}

// queryPoint reads the lat and lon query parameters. Range checks are left
// to the use cases so that they report a validation_error.
func queryPoint(c *fiber.Ctx) (lat, lon float64, err error) {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return 0, 0, errMissingPoint
	}
	if lat, err = geospatial.ParseCoordinate(c.Query("lat")); err != nil {
		return 0, 0, err
	}
	if lon, err = geospatial.ParseCoordinate(c.Query("lon")); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}
