package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gasroute/gasroute/pkg/geo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NominatimGeocoder resolves free-form US addresses through the Nominatim
// search API. Nominatim's usage policy allows one request per second, so
// every call waits on the shared limiter first.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *zap.Logger
}

func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration, log *zap.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		log:       log,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves one address to coordinates. The country suffix is
// appended because the fuel catalog is US-only.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return geo.Coordinate{}, fmt.Errorf("nominatim: rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("q", address+", USA")
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("nominatim: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, fmt.Errorf("nominatim: search returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Coordinate{}, fmt.Errorf("nominatim: decode response: %w", err)
	}
	if len(results) == 0 {
		return geo.Coordinate{}, fmt.Errorf("nominatim: no result for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("nominatim: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("nominatim: parse lon: %w", err)
	}

	g.log.Info("geocoded address", zap.String("address", address),
		zap.Float64("lat", lat), zap.Float64("lon", lon))
	return geo.NewCoordinate(lat, lon), nil
}
