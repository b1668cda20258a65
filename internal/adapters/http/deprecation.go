package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with a sunset date.
type DeprecatedRoute struct {
	Path        string
	SunsetDate  time.Time
	Alternative string // successor endpoint, optional
}

// DeprecationMiddleware adds Deprecation, Sunset and Link headers (RFC 8594,
// RFC 8288) to requests hitting a deprecated path.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	byPath := make(map[string]DeprecatedRoute, len(deprecated))
	for _, d := range deprecated {
		byPath[d.Path] = d
	}

	return func(c *fiber.Ctx) error {
		d, ok := byPath[c.Path()]
		if !ok {
			return c.Next()
		}

		c.Set("Deprecation", "true")
		c.Set("Sunset", d.SunsetDate.UTC().Format(http.TimeFormat))
		if d.Alternative != "" {
			c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
		}
		if days := time.Until(d.SunsetDate).Hours() / 24; days > 0 {
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
		}
		return c.Next()
	}
}
