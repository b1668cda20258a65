package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

type clickRequest struct {
	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`
}

// RecordClickHandler stores the location picked on the map page.
// Coordinates may be numbers or numeric strings.
func RecordClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.MapClicks == nil {
			return errUnavailable(c, "map clicks are not enabled")
		}
		var req clickRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.MapClicks.RecordClick(c.UserContext(), req.Latitude, req.Longitude); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// LastClickHandler returns the most recent map click.
func LastClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.MapClicks == nil {
			return errUnavailable(c, "map clicks are not enabled")
		}
		p, err := deps.MapClicks.LastClick(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(p)
	}
}

// ElevationHandler looks up the altitude of ?lat&lon in meters.
func ElevationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Elevation == nil {
			return errUnavailable(c, "elevation lookups are not configured")
		}
		lat, lon, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		alt, err := deps.Elevation.Lookup(c.UserContext(), lat, lon)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return errFromService(c, err)
			}
			LoggerFromCtx(c.UserContext()).Warn("elevation lookup failed", "lat", lat, "lon", lon, "error", err)
			return newError(c, fiber.StatusBadGateway, "upstream_error", "elevation provider unavailable")
		}

		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		return c.JSON(fiber.Map{
			"latitude":   lat,
			"longitude":  lon,
			"altitude_m": alt,
		})
	}
}
