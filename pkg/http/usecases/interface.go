package usecases

import (
	"context"

	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/gasroute/gasroute/pkg/routing"
)

// collaborators of the fuel route service. All network-facing work lives
// behind these; the optimizer itself stays purely computational.

type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
}

type RouteProvider interface {
	Route(ctx context.Context, from, to geo.Coordinate) (*routing.Route, error)
}

type CatalogCounter interface {
	Counts(ctx context.Context) (total int, geocoded int, err error)
}
