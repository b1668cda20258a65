package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/expedition-planner/internal/adapters/http"
	"github.com/samirrijal/expedition-planner/internal/adapters/memory"
	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/core/usecases"
)

// ---- Fakes ----

type fakeElevation struct {
	elevationFn func(ctx context.Context, lat, lon float64) (float64, error)
}

func (f *fakeElevation) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	if f.elevationFn != nil {
		return f.elevationFn(ctx, lat, lon)
	}
	return 100, nil
}

type fakeStarter struct {
	started []string
	err     error
}

func (f *fakeStarter) StartAltitudeEnrichment(ctx context.Context, itineraryID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.started = append(f.started, itineraryID)
	return "run-1", nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	itineraries := usecases.NewItineraryService(memory.NewItineraryRepo(), nil)
	elevation := usecases.NewElevationService(&fakeElevation{}, nil)
	d := &handler.Dependencies{
		Itineraries: itineraries,
		Elevation:   elevation,
		MapClicks:   usecases.NewMapClickService(elevation, itineraries, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func do(t *testing.T, app *fiber.App, method, path, body string) *httpResponse {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return &httpResponse{Status: resp.StatusCode, Header: resp.Header.Get, Body: b}
}

type httpResponse struct {
	Status int
	Header func(string) string
	Body   []byte
}

type itineraryBody struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Waypoints []domain.Waypoint `json:"waypoints"`
	Summary   domain.Summary    `json:"summary"`
}

func decode[T any](t *testing.T, r *httpResponse) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(r.Body, &v); err != nil {
		t.Fatalf("decode %s: %v", r.Body, err)
	}
	return v
}

func createItinerary(t *testing.T, app *fiber.App, name string) string {
	t.Helper()
	resp := do(t, app, "POST", "/v1/itineraries", fmt.Sprintf(`{"name":%q}`, name))
	if resp.Status != 201 {
		t.Fatalf("create: expected 201, got %d: %s", resp.Status, resp.Body)
	}
	return decode[itineraryBody](t, resp).ID
}

func appendWaypoint(t *testing.T, app *fiber.App, id, body string) *httpResponse {
	t.Helper()
	return do(t, app, "POST", "/v1/itineraries/"+id+"/waypoints", body)
}

const (
	campJSON  = `{"name":"Camp","latitude":70.0,"longitude":20.0,"estimated_speed_kph":10}`
	lakeJSON  = `{"name":"Lake","latitude":70.1,"longitude":20.1,"estimated_speed_kph":12}`
	ridgeJSON = `{"name":"Ridge","latitude":70.2,"longitude":20.2,"estimated_speed_kph":15}`
)

func seeded(t *testing.T, app *fiber.App) string {
	t.Helper()
	id := createItinerary(t, app, "Lyngen Alps")
	for _, body := range []string{campJSON, lakeJSON, ridgeJSON} {
		if resp := appendWaypoint(t, app, id, body); resp.Status != 201 {
			t.Fatalf("append: expected 201, got %d: %s", resp.Status, resp.Body)
		}
	}
	return id
}

// ---- Itinerary handler tests ----

func TestCreateItinerary_DefaultName(t *testing.T) {
	app := setupApp(makeDeps())

	resp := do(t, app, "POST", "/v1/itineraries", "")
	if resp.Status != 201 {
		t.Fatalf("expected 201, got %d", resp.Status)
	}
	body := decode[itineraryBody](t, resp)
	if body.Name != "Expedition" {
		t.Errorf("expected default name, got %q", body.Name)
	}
	if resp.Header("Location") != "/v1/itineraries/"+body.ID {
		t.Errorf("unexpected Location %q", resp.Header("Location"))
	}
	if body.Waypoints == nil || len(body.Waypoints) != 0 {
		t.Errorf("expected empty waypoint list, got %v", body.Waypoints)
	}
}

func TestAppendWaypoint_AutoAndManual(t *testing.T) {
	app := setupApp(makeDeps())
	id := createItinerary(t, app, "Finnmark")

	appendWaypoint(t, app, id, campJSON)
	resp := appendWaypoint(t, app, id, lakeJSON)
	if resp.Status != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.Status, resp.Body)
	}
	body := decode[itineraryBody](t, resp)
	if body.Waypoints[1].DistanceKm != 11.75 {
		t.Errorf("auto distance = %v, want 11.75", body.Waypoints[1].DistanceKm)
	}

	resp = appendWaypoint(t, app, id, `{"name":"Hut","latitude":70.2,"longitude":20.2,"distance_km":4.5,"manual_distance":true}`)
	body = decode[itineraryBody](t, resp)
	hut := body.Waypoints[2]
	if hut.DistanceKm != 4.5 || hut.Mode != domain.DistanceManual {
		t.Errorf("manual waypoint = %+v", hut)
	}
	if body.Summary.TotalDistanceKm != 16.25 {
		t.Errorf("total = %v, want 16.25", body.Summary.TotalDistanceKm)
	}
}

func TestAppendWaypoint_Errors(t *testing.T) {
	app := setupApp(makeDeps())
	id := createItinerary(t, app, "Errors")

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing coordinates", "/v1/itineraries/" + id + "/waypoints", `{"name":"X"}`, 400, "bad_request"},
		{"bad latitude", "/v1/itineraries/" + id + "/waypoints", `{"name":"X","latitude":1000,"longitude":20}`, 400, "validation_error"},
		{"negative speed", "/v1/itineraries/" + id + "/waypoints", `{"name":"X","latitude":70,"longitude":20,"estimated_speed_kph":-1}`, 400, "validation_error"},
		{"malformed body", "/v1/itineraries/" + id + "/waypoints", `{`, 400, "bad_request"},
		{"unknown itinerary", "/v1/itineraries/missing/waypoints", campJSON, 404, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, "POST", tt.path, tt.body)
			if resp.Status != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Status, resp.Body)
			}
			if apiErr := decode[handler.APIError](t, resp); apiErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, apiErr.Code)
			}
		})
	}
}

func TestGetItinerary_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	resp := do(t, app, "GET", "/v1/itineraries/does-not-exist", "")
	if resp.Status != 404 {
		t.Fatalf("expected 404, got %d", resp.Status)
	}
}

func TestDeleteWaypoint(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "DELETE", "/v1/itineraries/"+id+"/waypoints/1", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Status, resp.Body)
	}
	body := decode[itineraryBody](t, resp)
	if len(body.Waypoints) != 2 || body.Waypoints[1].Name != "Ridge" || body.Waypoints[1].DistanceKm != 23.49 {
		t.Errorf("unexpected waypoints %+v", body.Waypoints)
	}

	resp = do(t, app, "DELETE", "/v1/itineraries/"+id+"/waypoints/5", "")
	if resp.Status != 400 || decode[handler.APIError](t, resp).Code != "index_out_of_range" {
		t.Errorf("expected index_out_of_range, got %d %s", resp.Status, resp.Body)
	}

	resp = do(t, app, "DELETE", "/v1/itineraries/"+id+"/waypoints/first", "")
	if resp.Status != 400 {
		t.Errorf("expected 400 for non-numeric index, got %d", resp.Status)
	}
}

func TestMoveWaypoints(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "POST", "/v1/itineraries/"+id+"/waypoints/0/move-down", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Status, resp.Body)
	}
	body := decode[itineraryBody](t, resp)
	got := []float64{body.Waypoints[0].DistanceKm, body.Waypoints[1].DistanceKm, body.Waypoints[2].DistanceKm}
	want := []float64{0, 11.75, 23.49}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("distances = %v, want %v", got, want)
		}
	}

	resp = do(t, app, "POST", "/v1/itineraries/"+id+"/waypoints/0/move-up", "")
	if resp.Status != 200 {
		t.Fatalf("move-up at 0 should be a no-op, got %d", resp.Status)
	}
	if first := decode[itineraryBody](t, resp).Waypoints[0]; first.Name != "Lake" {
		t.Errorf("first waypoint = %s, want Lake", first.Name)
	}

	resp = do(t, app, "POST", "/v1/itineraries/"+id+"/waypoints/2/move-down", "")
	if resp.Status != 200 {
		t.Errorf("move-down at the end should be a no-op, got %d", resp.Status)
	}
}

func TestSetAltitude(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "PUT", "/v1/itineraries/"+id+"/waypoints/2/altitude", `{"altitude_m":812}`)
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Status, resp.Body)
	}
	if alt := decode[itineraryBody](t, resp).Waypoints[2].AltitudeM; alt != 812 {
		t.Errorf("altitude = %d, want 812", alt)
	}

	resp = do(t, app, "PUT", "/v1/itineraries/"+id+"/waypoints/2/altitude", `{}`)
	if resp.Status != 400 {
		t.Errorf("expected 400 without altitude_m, got %d", resp.Status)
	}
}

func TestNearestWaypoint(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "GET", "/v1/itineraries/"+id+"/waypoints/nearest?lat=70.11&lon=20.09", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Status, resp.Body)
	}
	m := decode[domain.WaypointMatch](t, resp)
	if m.Index != 1 || m.Waypoint.Name != "Lake" {
		t.Errorf("nearest = %+v", m)
	}

	if resp := do(t, app, "GET", "/v1/itineraries/"+id+"/waypoints/nearest", ""); resp.Status != 400 {
		t.Errorf("expected 400 without lat/lon, got %d", resp.Status)
	}
}

func TestListItineraries_Pagination(t *testing.T) {
	app := setupApp(makeDeps())
	for i := 0; i < 5; i++ {
		createItinerary(t, app, fmt.Sprintf("Trip %d", i))
	}

	resp := do(t, app, "GET", "/v1/itineraries?offset=2&limit=2", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}

	var result struct {
		Data       []json.RawMessage  `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 5 || len(result.Data) != 2 || result.Pagination.Offset != 2 {
		t.Errorf("unexpected page %+v with %d items", result.Pagination, len(result.Data))
	}

	link := resp.Header("Link")
	for _, want := range []string{`offset=0&limit=2>; rel="prev"`, `offset=4&limit=2>; rel="next"`, `offset=4&limit=2>; rel="last"`} {
		if !strings.Contains(link, want) {
			t.Errorf("Link header %q missing %s", link, want)
		}
	}
}

func TestDeleteItinerary(t *testing.T) {
	app := setupApp(makeDeps())
	id := createItinerary(t, app, "Short trip")

	if resp := do(t, app, "DELETE", "/v1/itineraries/"+id, ""); resp.Status != 204 {
		t.Fatalf("expected 204, got %d", resp.Status)
	}
	if resp := do(t, app, "DELETE", "/v1/itineraries/"+id, ""); resp.Status != 404 {
		t.Errorf("expected 404 on second delete, got %d", resp.Status)
	}
}

// ---- Export tests ----

func TestExportJSON(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "GET", "/v1/itineraries/"+id+"/export.json", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	if cd := resp.Header("Content-Disposition"); cd != `attachment; filename="lyngen-alps.json"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	view := decode[domain.ExportView](t, resp)
	if len(view.Itinerary) != 3 || math.Abs(view.TotalDistanceKm-23.49) > 1e-9 {
		t.Errorf("unexpected export %+v", view)
	}
	if !bytes.Contains(resp.Body, []byte("\n    \"itinerary\"")) {
		t.Errorf("expected 4-space indentation:\n%s", resp.Body)
	}
}

func TestExportPDFAndGeoJSON(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "GET", "/v1/itineraries/"+id+"/export.pdf", "")
	if resp.Status != 200 || !bytes.HasPrefix(resp.Body, []byte("%PDF")) {
		t.Errorf("expected a PDF document, got %d", resp.Status)
	}
	if ct := resp.Header("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}

	resp = do(t, app, "GET", "/v1/itineraries/"+id+"/export.geojson", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	fc := decode[struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}](t, resp)
	if fc.Type != "FeatureCollection" || len(fc.Features) != 4 {
		t.Errorf("expected 3 points and a route, got %s with %d features", fc.Type, len(fc.Features))
	}
}

func TestItineraryMap(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	resp := do(t, app, "GET", "/v1/itineraries/"+id+"/map", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	if !strings.HasPrefix(resp.Header("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", resp.Header("Content-Type"))
	}
	for _, want := range []string{"L.polyline", "Ridge", "fitBounds"} {
		if !bytes.Contains(resp.Body, []byte(want)) {
			t.Errorf("map page missing %q", want)
		}
	}
}

// ---- Map click tests ----

func TestMapClick_RecordAndRead(t *testing.T) {
	app := setupApp(makeDeps())

	if resp := do(t, app, "GET", "/map/click/last", ""); resp.Status != 404 {
		t.Fatalf("expected 404 before any click, got %d", resp.Status)
	}

	resp := do(t, app, "POST", "/map/click", `{"latitude":"69.64960","longitude":"18.95600"}`)
	if resp.Status != 204 {
		t.Fatalf("expected 204, got %d: %s", resp.Status, resp.Body)
	}

	resp = do(t, app, "GET", "/map/click/last", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	p := decode[domain.ClickedPoint](t, resp)
	if p.Formatted != "69.6496°, 18.9560°" || p.AltitudeM == nil || *p.AltitudeM != 100 {
		t.Errorf("unexpected click %+v", p)
	}
}

func TestMapClick_LegacyAliasIsDeprecated(t *testing.T) {
	app := setupApp(makeDeps())

	resp := do(t, app, "POST", "/add", `{"latitude":70.1,"longitude":20.1}`)
	if resp.Status != 204 {
		t.Fatalf("expected 204, got %d", resp.Status)
	}
	if resp.Header("Deprecation") != "true" || resp.Header("Sunset") == "" {
		t.Errorf("missing deprecation headers")
	}
	if !strings.Contains(resp.Header("Link"), "/map/click") {
		t.Errorf("Link = %q", resp.Header("Link"))
	}
}

func TestMapClick_NonNumeric(t *testing.T) {
	app := setupApp(makeDeps())

	resp := do(t, app, "POST", "/map/click", `{"latitude":"north","longitude":20}`)
	if resp.Status != 400 || decode[handler.APIError](t, resp).Code != "validation_error" {
		t.Errorf("expected validation_error, got %d %s", resp.Status, resp.Body)
	}
}

func TestAppendFromClick(t *testing.T) {
	app := setupApp(makeDeps())
	id := createItinerary(t, app, "Clicks")
	appendWaypoint(t, app, id, campJSON)

	do(t, app, "POST", "/map/click", `{"latitude":70.1,"longitude":20.1}`)
	resp := do(t, app, "POST", "/v1/itineraries/"+id+"/waypoints/from-click", `{"estimated_speed_kph":12}`)
	if resp.Status != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.Status, resp.Body)
	}
	w := decode[itineraryBody](t, resp).Waypoints[1]
	if w.Name != "70.1000°, 20.1000°" || w.DistanceKm != 11.75 || w.AltitudeM != 100 {
		t.Errorf("unexpected waypoint %+v", w)
	}
}

func TestMapClickPage(t *testing.T) {
	app := setupApp(makeDeps())

	resp := do(t, app, "GET", "/map/click?lat=69.6&lon=18.9&zoom=9", "")
	if resp.Status != 200 || !bytes.Contains(resp.Body, []byte("69.6")) || !bytes.Contains(resp.Body, []byte("setView")) {
		t.Errorf("unexpected map page %d:\n%s", resp.Status, resp.Body)
	}
}

// ---- Elevation & workflow tests ----

func TestElevation(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Elevation = usecases.NewElevationService(&fakeElevation{
			elevationFn: func(ctx context.Context, lat, lon float64) (float64, error) {
				if lat == 0 {
					return 0, errors.New("upstream timeout")
				}
				return 1449.6, nil
			},
		}, nil)
	}))

	resp := do(t, app, "GET", "/v1/elevation?lat=69.65&lon=18.96", "")
	if resp.Status != 200 {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	if got := decode[map[string]float64](t, resp)["altitude_m"]; got != 1450 {
		t.Errorf("altitude = %v, want 1450", got)
	}

	if resp := do(t, app, "GET", "/v1/elevation?lat=0&lon=18.96", ""); resp.Status != 502 {
		t.Errorf("expected 502 for provider failure, got %d", resp.Status)
	}
	if resp := do(t, app, "GET", "/v1/elevation?lat=500&lon=18.96", ""); resp.Status != 400 {
		t.Errorf("expected 400 for out-of-range latitude, got %d", resp.Status)
	}
}

func TestEnrichAltitudes(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	if resp := do(t, app, "POST", "/v1/itineraries/"+id+"/enrich-altitudes", ""); resp.Status != 503 {
		t.Fatalf("expected 503 without a workflow starter, got %d", resp.Status)
	}

	starter := &fakeStarter{}
	app = setupApp(makeDeps(func(d *handler.Dependencies) { d.Workflows = starter }))
	id = seeded(t, app)

	resp := do(t, app, "POST", "/v1/itineraries/"+id+"/enrich-altitudes", "")
	if resp.Status != 202 {
		t.Fatalf("expected 202, got %d: %s", resp.Status, resp.Body)
	}
	if len(starter.started) != 1 || starter.started[0] != id {
		t.Errorf("started = %v", starter.started)
	}
	if resp := do(t, app, "POST", "/v1/itineraries/missing/enrich-altitudes", ""); resp.Status != 404 {
		t.Errorf("expected 404 for unknown itinerary, got %d", resp.Status)
	}
}

// ---- GraphQL ----

func TestGraphQL_CreateAndAppend(t *testing.T) {
	app := setupApp(makeDeps())

	gql := func(query string, vars map[string]any) map[string]any {
		t.Helper()
		body, _ := json.Marshal(map[string]any{"query": query, "variables": vars})
		resp := do(t, app, "POST", "/graphql", string(body))
		if resp.Status != 200 {
			t.Fatalf("expected 200, got %d", resp.Status)
		}
		out := decode[map[string]any](t, resp)
		if errs, ok := out["errors"]; ok {
			t.Fatalf("graphql errors: %v", errs)
		}
		return out["data"].(map[string]any)
	}

	data := gql(`mutation { createItinerary(name: "Sarek") { id name } }`, nil)
	id := data["createItinerary"].(map[string]any)["id"].(string)

	for _, wp := range []map[string]any{
		{"id": id, "name": "Camp", "lat": 70.0, "lon": 20.0},
		{"id": id, "name": "Lake", "lat": 70.1, "lon": 20.1},
	} {
		gql(`mutation($id: String!, $name: String!, $lat: Float!, $lon: Float!) {
			appendWaypoint(itineraryId: $id, name: $name, latitude: $lat, longitude: $lon, estimatedSpeedKph: 10) { id }
		}`, wp)
	}

	data = gql(`query($id: String!) { itinerary(id: $id) { name waypoints { name distance_km distance_mode } summary { total_distance_km } } }`,
		map[string]any{"id": id})
	it := data["itinerary"].(map[string]any)
	if it["summary"].(map[string]any)["total_distance_km"].(float64) != 11.75 {
		t.Errorf("unexpected summary %v", it["summary"])
	}
	wps := it["waypoints"].([]any)
	if mode := wps[1].(map[string]any)["distance_mode"]; mode != "auto" {
		t.Errorf("distance_mode = %v", mode)
	}
}

// ---- Infrastructure ----

func TestHealthAndReady(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Readiness = []handler.ReadinessCheck{
			{Name: "database", Ping: func(ctx context.Context) error { return nil }},
			{Name: "cache", Ping: func(ctx context.Context) error { return errors.New("connection refused") }},
		}
	}))

	if resp := do(t, app, "GET", "/v1/health", ""); resp.Status != 200 {
		t.Errorf("health: expected 200, got %d", resp.Status)
	}

	resp := do(t, app, "GET", "/v1/ready", "")
	if resp.Status != 503 {
		t.Fatalf("ready: expected 503, got %d", resp.Status)
	}
	body := decode[struct {
		Checks map[string]string `json:"checks"`
	}](t, resp)
	if body.Checks["database"] != "ok" || !strings.HasPrefix(body.Checks["cache"], "error") {
		t.Errorf("unexpected checks %v", body.Checks)
	}
}

func TestETag_NotModified(t *testing.T) {
	app := setupApp(makeDeps())
	id := seeded(t, app)

	first := do(t, app, "GET", "/v1/itineraries/"+id, "")
	etag := first.Header("ETag")
	if etag == "" {
		t.Fatal("expected an ETag")
	}

	req := httptest.NewRequest("GET", "/v1/itineraries/"+id, nil)
	req.Header.Set("If-None-Match", etag)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}
