package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
)

const pdfTitle = "Expedition Itinerary"

// WritePDF renders v as an A4 document: a title, the totals and one line per
// waypoint. Long itineraries continue on new pages.
func WritePDF(w io.Writer, v domain.ExportView) error {
	pdf := newPDF(v)
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func newPDF(v domain.ExportView) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfTitle, true)
	pdf.SetCreator("expedition-planner", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252; waypoint names are UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, pdfTitle, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range pdfSummaryLines(v) {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	for i, wp := range v.Itinerary {
		pdf.CellFormat(0, 6, tr(pdfWaypointLine(i, wp)), "", 1, "L", false, 0, "")
	}
	return pdf
}

func pdfSummaryLines(v domain.ExportView) []string {
	return []string{
		fmt.Sprintf("Total distance: %.2f km", v.TotalDistanceKm),
		fmt.Sprintf("Estimated time: %.2f hours", v.EstimatedTimeHours),
	}
}

func pdfWaypointLine(i int, wp domain.ExportWaypoint) string {
	return fmt.Sprintf("%d. %s | Lat: %.4f, Lon: %.4f | Distance: %.2f km | Speed: %.1f kph | Alt: %d m",
		i+1, wp.Name, wp.Latitude, wp.Longitude, wp.DistanceKm, wp.EstimatedSpeedKph, wp.AltitudeM)
}
