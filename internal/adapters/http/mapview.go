package http

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/pkg/geospatial"
)

const (
	leafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	leafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"

	// Single waypoints are framed with this much padding.
	mapPadMeters = 500
)

var itineraryMapTmpl = template.Must(template.New("itinerary").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Name}} · Expedition map</title>
  <link rel="stylesheet" href="` + leafletCSS + `">
  <style>html,body,#map{height:100%;margin:0}</style>
</head>
<body>
  <div id="map"></div>
  <script src="` + leafletJS + `"></script>
  <script>
    const data = {{.}};
    const map = L.map('map');
    L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
      maxZoom: 18,
      attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);

    const line = [];
    data.waypoints.forEach((w, i) => {
      line.push([w.latitude, w.longitude]);
      L.marker([w.latitude, w.longitude])
        .bindPopup((i + 1) + '. ' + w.name + '<br>' + w.distance_km.toFixed(2) + ' km')
        .addTo(map);
    });
    if (line.length > 1) {
      L.polyline(line, {color: 'blue', weight: 2.5, opacity: 1}).addTo(map);
    }
    if (data.bounds) {
      map.fitBounds([[data.bounds.min_lat, data.bounds.min_lon], [data.bounds.max_lat, data.bounds.max_lon]]);
    } else {
      map.setView([0, 0], 2);
    }
  </script>
</body>
</html>`))

var clickMapTmpl = template.Must(template.New("click").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Select a location</title>
  <link rel="stylesheet" href="` + leafletCSS + `">
  <style>html,body,#map{height:100%;margin:0}#info{position:absolute;top:10px;right:10px;z-index:1000;background:#fff;padding:6px 10px;font:14px sans-serif}</style>
</head>
<body>
  <div id="map"></div>
  <div id="info">Click the map to select a location</div>
  <script src="` + leafletJS + `"></script>
  <script>
    const map = L.map('map').setView([{{.Lat}}, {{.Lon}}], {{.Zoom}});
    L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
      maxZoom: 18,
      attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);

    let marker = null;
    map.on('click', async (e) => {
      const lat = e.latlng.lat.toFixed(5);
      const lon = e.latlng.lng.toFixed(5);
      if (marker) { map.removeLayer(marker); }
      marker = L.marker([lat, lon]).addTo(map);

      await fetch('/map/click', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({latitude: lat, longitude: lon})
      });
      const res = await fetch('/map/click/last');
      const info = document.getElementById('info');
      if (!res.ok) { info.textContent = 'Invalid location'; return; }
      const p = await res.json();
      info.textContent = p.formatted + (p.altitude_m !== undefined ? ' · ' + p.altitude_m + ' m' : '');
      marker.bindPopup(info.textContent).openPopup();
    });
  </script>
</body>
</html>`))

type mapWaypoint struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

type itineraryMapData struct {
	Name      string         `json:"name"`
	Waypoints []mapWaypoint  `json:"waypoints"`
	Bounds    *domain.Bounds `json:"bounds"`
}

// ItineraryMapHandler renders a Leaflet preview with a marker per waypoint
// and the route as a polyline.
func ItineraryMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		saved, err := deps.Itineraries.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}

		data := itineraryMapData{Name: saved.Name, Waypoints: []mapWaypoint{}}
		points := make([]geospatial.Point, 0, saved.Itinerary.Len())
		for _, w := range saved.Itinerary.Waypoints() {
			data.Waypoints = append(data.Waypoints, mapWaypoint{
				Name:       w.Name,
				Latitude:   w.Latitude,
				Longitude:  w.Longitude,
				DistanceKm: w.DistanceKm,
			})
			points = append(points, geospatial.Point(w.Point()))
		}
		if box, ok := geospatial.Bounds(points, mapPadMeters); ok {
			data.Bounds = &domain.Bounds{MinLat: box.Min.Lat, MinLon: box.Min.Lon, MaxLat: box.Max.Lat, MaxLon: box.Max.Lon}
		}

		return renderHTML(c, itineraryMapTmpl, data)
	}
}

type clickMapData struct {
	Lat, Lon float64
	Zoom     int
}

// MapClickPageHandler serves the click-to-select map. ?lat, ?lon and ?zoom
// set the initial view.
func MapClickPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := clickMapData{
			Lat:  c.QueryFloat("lat", 60),
			Lon:  c.QueryFloat("lon", 25),
			Zoom: c.QueryInt("zoom", 5),
		}
		if !geospatial.IsValidCoordinate(data.Lat) || !geospatial.IsValidCoordinate(data.Lon) {
			return errBadRequest(c, "lat and lon must be valid coordinates")
		}
		if data.Zoom < 1 || data.Zoom > 18 {
			data.Zoom = 5
		}
		return renderHTML(c, clickMapTmpl, data)
	}
}

func renderHTML(c *fiber.Ctx, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return errFromService(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(buf.Bytes())
}
