package controllers

import (
	"context"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/gasroute/gasroute/pkg/optimizer"
	"github.com/gasroute/gasroute/pkg/routing"
)

type FuelRouteService interface {
	PlanRoute(ctx context.Context, start, end string) (*routing.Route, *optimizer.Solution, error)
	Optimize(routePoints []geo.Coordinate, stations []catalog.Station, params optimizer.Params) (*optimizer.Solution, error)
	CatalogCounts(ctx context.Context) (total int, geocoded int, err error)
}
