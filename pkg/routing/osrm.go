package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gasroute/gasroute/pkg/geo"
	"go.uber.org/zap"
)

const metersPerMile = 1609.344

// Route is the resolved driving route handed to the optimizer. TotalMiles
// here is OSRM's own figure; the optimizer recomputes route length from the
// polyline and reports that instead.
type Route struct {
	DistanceMiles float64
	DurationHours float64
	Coordinates   []geo.Coordinate
}

// OSRMClient calls an OSRM /route endpoint. Single-shot by design: retry
// and backoff policy belongs to whoever drives this client.
type OSRMClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewOSRMClient(baseURL string, timeout time.Duration, log *zap.Logger) *OSRMClient {
	return &OSRMClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		DistanceMeters  float64 `json:"distance"`
		DurationSeconds float64 `json:"duration"`
		Geometry        struct {
			Coordinates [][]float64 `json:"coordinates"` // lon, lat pairs
		} `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the driving route between two coordinates, with full
// GeoJSON geometry.
func (c *OSRMClient) Route(ctx context.Context, from, to geo.Coordinate) (*Route, error) {
	url := fmt.Sprintf("%s/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("osrm: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm: route request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm: route request returned status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("osrm: decode response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("osrm: no route found (code %q)", body.Code)
	}

	best := body.Routes[0]
	coords := make([]geo.Coordinate, len(best.Geometry.Coordinates))
	for i, lonLat := range best.Geometry.Coordinates {
		if len(lonLat) < 2 {
			return nil, fmt.Errorf("osrm: malformed coordinate at index %d", i)
		}
		coords[i] = geo.NewCoordinate(lonLat[1], lonLat[0])
	}

	route := &Route{
		DistanceMiles: best.DistanceMeters / metersPerMile,
		DurationHours: best.DurationSeconds / 3600.0,
		Coordinates:   coords,
	}
	c.log.Info("osrm route resolved",
		zap.Float64("distance_miles", route.DistanceMiles),
		zap.Float64("duration_hours", route.DurationHours),
		zap.Int("polyline_points", len(coords)))
	return route, nil
}
