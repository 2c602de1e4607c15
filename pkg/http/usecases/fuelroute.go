package usecases

import (
	"context"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/gasroute/gasroute/pkg/optimizer"
	"github.com/gasroute/gasroute/pkg/routing"
	"github.com/gasroute/gasroute/pkg/spatialindex"
	"github.com/gasroute/gasroute/pkg/util"
	"go.uber.org/zap"
)

// FuelRouteService orchestrates one trip-planning request: geocode both
// endpoints, fetch the route, pre-cull the station snapshot around the
// route's bounding box and hand everything to the optimizer. The snapshot
// and its spatial index are immutable after construction, so concurrent
// requests need no locking.
type FuelRouteService struct {
	log          *zap.Logger
	geocoder     Geocoder
	routes       RouteProvider
	counter      CatalogCounter
	stations     []catalog.Station
	spatialIndex *spatialindex.Rtree
	params       optimizer.Params
}

func NewFuelRouteService(log *zap.Logger, geocoder Geocoder, routes RouteProvider,
	counter CatalogCounter, stations []catalog.Station, spatialIndex *spatialindex.Rtree,
	params optimizer.Params) *FuelRouteService {
	return &FuelRouteService{
		log:          log,
		geocoder:     geocoder,
		routes:       routes,
		counter:      counter,
		stations:     stations,
		spatialIndex: spatialIndex,
		params:       params,
	}
}

// PlanRoute resolves both addresses, fetches the driving route and returns
// it with the cost-minimal fuel stop plan.
func (s *FuelRouteService) PlanRoute(ctx context.Context, start, end string) (*routing.Route, *optimizer.Solution, error) {
	startCoord, err := s.geocoder.Geocode(ctx, start)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrBadParamInput, "could not geocode start location %q", start)
	}
	endCoord, err := s.geocoder.Geocode(ctx, end)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrBadParamInput, "could not geocode end location %q", end)
	}

	route, err := s.routes.Route(ctx, startCoord, endCoord)
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrBadParamInput,
			"could not calculate route from %q to %q", start, end)
	}

	candidates := s.stations
	if s.spatialIndex != nil {
		bound := geo.BoundingRect(route.Coordinates)
		candidates = s.spatialIndex.SearchWithinBounds(
			bound.Lo().Lat.Degrees(), bound.Lo().Lng.Degrees(),
			bound.Hi().Lat.Degrees(), bound.Hi().Lng.Degrees(),
			s.params.CorridorThresholdMiles)
		s.log.Debug("spatial pre-cull done",
			zap.Int("snapshot", len(s.stations)),
			zap.Int("candidates", len(candidates)))
	}

	sol, err := optimizer.New(s.params, s.log).Optimize(route.Coordinates, candidates)
	if err != nil {
		return nil, nil, err
	}
	return route, sol, nil
}

// Optimize is the direct core contract: route points and stations already
// resolved by the caller, no collaborator calls.
func (s *FuelRouteService) Optimize(routePoints []geo.Coordinate, stations []catalog.Station,
	params optimizer.Params) (*optimizer.Solution, error) {
	return optimizer.New(params, s.log).Optimize(routePoints, stations)
}

// CatalogCounts reports total and geocoded station counts for the health
// endpoint.
func (s *FuelRouteService) CatalogCounts(ctx context.Context) (int, int, error) {
	return s.counter.Counts(ctx)
}
