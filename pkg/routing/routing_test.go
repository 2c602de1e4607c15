package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOSRMClientParsesRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 1609344,
				"duration": 36000,
				"geometry": {"coordinates": [[-74.0, 40.7], [-75.1, 39.9], [-87.6, 41.8]]}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL, 5*time.Second, zap.NewNop())
	route, err := client.Route(context.Background(),
		geo.NewCoordinate(40.7, -74.0), geo.NewCoordinate(41.8, -87.6))
	require.NoError(t, err)

	assert.InDelta(t, 1000, route.DistanceMiles, 1e-6)
	assert.InDelta(t, 10, route.DurationHours, 1e-6)
	require.Len(t, route.Coordinates, 3)
	assert.Equal(t, 40.7, route.Coordinates[0].Lat)
	assert.Equal(t, -74.0, route.Coordinates[0].Lon)
}

func TestOSRMClientRejectsNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := client.Route(context.Background(),
		geo.NewCoordinate(40.7, -74.0), geo.NewCoordinate(41.8, -87.6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestNominatimGeocoderParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("q"), "USA")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat": "40.7128", "lon": "-74.0060"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, "gasroute-test/1.0", 5*time.Second, zap.NewNop())
	coord, err := g.Geocode(context.Background(), "New York, NY")
	require.NoError(t, err)
	assert.InDelta(t, 40.7128, coord.Lat, 1e-9)
	assert.InDelta(t, -74.0060, coord.Lon, 1e-9)
}

func TestNominatimGeocoderNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, "gasroute-test/1.0", 5*time.Second, zap.NewNop())
	_, err := g.Geocode(context.Background(), "Nowhere At All")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result")
}
