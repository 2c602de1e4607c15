package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/gasroute/gasroute/pkg/optimizer"
	"github.com/gasroute/gasroute/pkg/routing"
	"github.com/gasroute/gasroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockGeocoder struct {
	coords map[string]geo.Coordinate
	err    error
}

func (m *mockGeocoder) Geocode(_ context.Context, address string) (geo.Coordinate, error) {
	if m.err != nil {
		return geo.Coordinate{}, m.err
	}
	c, ok := m.coords[address]
	if !ok {
		return geo.Coordinate{}, errors.New("unknown address")
	}
	return c, nil
}

type mockRouteProvider struct {
	route *routing.Route
	err   error
}

func (m *mockRouteProvider) Route(_ context.Context, _, _ geo.Coordinate) (*routing.Route, error) {
	return m.route, m.err
}

type mockCounter struct {
	total, geocoded int
}

func (m *mockCounter) Counts(_ context.Context) (int, int, error) {
	return m.total, m.geocoded, nil
}

func equatorRoute(totalMiles float64) []geo.Coordinate {
	mpd := geo.CalculateHaversineDistance(0, 0, 0, 1)
	return []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, totalMiles/mpd),
	}
}

func ptr(v float64) *float64 { return &v }

func TestPlanRouteWithinVehicleRange(t *testing.T) {
	geocoder := &mockGeocoder{coords: map[string]geo.Coordinate{
		"Amarillo, TX": geo.NewCoordinate(0, 0),
		"Tulsa, OK":    geo.NewCoordinate(0, 4.3),
	}}
	routes := &mockRouteProvider{route: &routing.Route{
		DistanceMiles: 300,
		DurationHours: 5,
		Coordinates:   equatorRoute(300),
	}}

	svc := NewFuelRouteService(zap.NewNop(), geocoder, routes,
		&mockCounter{total: 10, geocoded: 8}, nil, nil, optimizer.DefaultParams())

	route, sol, err := svc.PlanRoute(context.Background(), "Amarillo, TX", "Tulsa, OK")
	require.NoError(t, err)
	assert.InDelta(t, 300, route.DistanceMiles, 1e-9)
	assert.Empty(t, sol.Stops)
	assert.Zero(t, sol.TotalCost)
	assert.InDelta(t, 300, sol.TotalMiles, 0.5)
}

func TestPlanRoutePicksStopsFromSnapshot(t *testing.T) {
	mpd := geo.CalculateHaversineDistance(0, 0, 0, 1)
	stations := []catalog.Station{
		{ID: 1, Name: "Midway Fuel", PricePerGallon: 3.00,
			Latitude: ptr(0.0), Longitude: ptr(450 / mpd)},
	}

	geocoder := &mockGeocoder{coords: map[string]geo.Coordinate{
		"A": geo.NewCoordinate(0, 0),
		"B": geo.NewCoordinate(0, 800/mpd),
	}}
	routes := &mockRouteProvider{route: &routing.Route{
		DistanceMiles: 800,
		Coordinates:   equatorRoute(800),
	}}

	svc := NewFuelRouteService(zap.NewNop(), geocoder, routes,
		&mockCounter{}, stations, nil, optimizer.DefaultParams())

	_, sol, err := svc.PlanRoute(context.Background(), "A", "B")
	require.NoError(t, err)
	require.Len(t, sol.Stops, 1)
	assert.Equal(t, int64(1), sol.Stops[0].Station.ID)
	assert.InDelta(t, 350.0/10*3.00, sol.TotalCost, 0.5)
}

func TestPlanRouteGeocodeFailureIsBadParam(t *testing.T) {
	geocoder := &mockGeocoder{err: errors.New("nominatim: no result")}
	svc := NewFuelRouteService(zap.NewNop(), geocoder, &mockRouteProvider{},
		&mockCounter{}, nil, nil, optimizer.DefaultParams())

	_, _, err := svc.PlanRoute(context.Background(), "Nowhere", "B")
	require.Error(t, err)

	var uerr *util.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, util.ErrBadParamInput, uerr.Code())
	assert.Contains(t, err.Error(), "Nowhere")
}

func TestPlanRouteProviderFailureIsBadParam(t *testing.T) {
	geocoder := &mockGeocoder{coords: map[string]geo.Coordinate{
		"A": geo.NewCoordinate(0, 0),
		"B": geo.NewCoordinate(0, 1),
	}}
	routes := &mockRouteProvider{err: errors.New("osrm: no route found")}
	svc := NewFuelRouteService(zap.NewNop(), geocoder, routes,
		&mockCounter{}, nil, nil, optimizer.DefaultParams())

	_, _, err := svc.PlanRoute(context.Background(), "A", "B")
	require.Error(t, err)

	var uerr *util.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, util.ErrBadParamInput, uerr.Code())
}

func TestOptimizeDelegatesToCore(t *testing.T) {
	svc := NewFuelRouteService(zap.NewNop(), nil, nil, &mockCounter{}, nil, nil,
		optimizer.DefaultParams())

	sol, err := svc.Optimize(equatorRoute(200), nil, optimizer.DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, sol.Stops)
}

func TestCatalogCounts(t *testing.T) {
	svc := NewFuelRouteService(zap.NewNop(), nil, nil,
		&mockCounter{total: 8232, geocoded: 8100}, nil, nil, optimizer.DefaultParams())

	total, geocoded, err := svc.CatalogCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8232, total)
	assert.Equal(t, 8100, geocoded)
}
