package http

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/expedition-planner/internal/adapters/export"
	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

// ExportJSONHandler downloads the itinerary as indented JSON.
func ExportJSONHandler(deps *Dependencies) fiber.Handler {
	return exportHandler(deps, "json", fiber.MIMEApplicationJSONCharsetUTF8, export.WriteJSON)
}

// ExportPDFHandler downloads the itinerary as a printable PDF.
func ExportPDFHandler(deps *Dependencies) fiber.Handler {
	return exportHandler(deps, "pdf", "application/pdf", export.WritePDF)
}

// ExportGeoJSONHandler downloads waypoints and route as a FeatureCollection.
func ExportGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return exportHandler(deps, "geojson", "application/geo+json", export.WriteGeoJSON)
}

func exportHandler(deps *Dependencies, ext, contentType string, write func(io.Writer, domain.ExportView) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		saved, err := deps.Itineraries.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		view, err := deps.Itineraries.Export(c.UserContext(), saved.ID)
		if err != nil {
			return errFromService(c, err)
		}

		var buf bytes.Buffer
		if err := write(&buf, view); err != nil {
			return errFromService(c, fmt.Errorf("export %s: %w", ext, err))
		}

		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, exportFilename(saved.Name), ext))
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(buf.Bytes())
	}
}

// exportFilename turns an itinerary name into a safe file stem.
func exportFilename(name string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return unicode.ToLower(r)
		case r == '-' || r == '_':
			return r
		case unicode.IsSpace(r):
			return '-'
		}
		return -1
	}, strings.TrimSpace(name))
	if stem == "" {
		return "itinerary"
	}
	return stem
}
