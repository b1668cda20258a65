package opentopo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL = "https://api.opentopodata.org"
	DefaultDataset = "eudem25m"
	DefaultTimeout = 5 * time.Second
)

// ErrNoElevation is returned when the dataset has no value for a location,
// e.g. outside its coverage area.
var ErrNoElevation = errors.New("no elevation for location")

type response struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Results []struct {
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

// Client implements ports.ElevationProvider against an OpenTopoData server.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	dataset string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client. Empty arguments fall back to the public API, the
// eudem25m dataset and a 5 second timeout.
func New(baseURL, dataset string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if dataset == "" {
		dataset = DefaultDataset
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:    &fasthttp.Client{Name: "expedition-planner"},
		baseURL: strings.TrimRight(baseURL, "/"),
		dataset: dataset,
		timeout: timeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Elevation returns the elevation in meters at (lat, lon).
func (c *Client) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.requestURI(lat, lon))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return 0, fmt.Errorf("opentopodata request: %w", err)
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return 0, fmt.Errorf("opentopodata: HTTP %d", code)
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("decode opentopodata response: %w", err)
	}
	if len(body.Results) == 0 || body.Results[0].Elevation == nil {
		return 0, ErrNoElevation
	}
	return *body.Results[0].Elevation, nil
}

func (c *Client) requestURI(lat, lon float64) string {
	return c.baseURL + "/v1/" + c.dataset + "?locations=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
