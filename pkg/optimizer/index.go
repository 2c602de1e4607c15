package optimizer

import (
	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/gasroute/gasroute/pkg/util"
	"github.com/golang/geo/s2"
)

// RouteIndex turns an ordered route polyline into cumulative along-route
// distance (chainage) and answers point-to-route projection queries.
type RouteIndex struct {
	points []geo.Coordinate

	// chainage[i] is the along-route distance in miles from the route start
	// to points[i]; non-decreasing by construction.
	chainage []float64
}

func NewRouteIndex(points []geo.Coordinate) (*RouteIndex, error) {
	if len(points) < 2 {
		return nil, util.WrapErrorf(ErrInvalidRoute, util.ErrBadParamInput,
			"route has %d points, need at least 2", len(points))
	}

	chainage := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		segLen := geo.CalculateHaversineDistance(
			points[i-1].Lat, points[i-1].Lon,
			points[i].Lat, points[i].Lon)
		chainage[i] = chainage[i-1] + segLen
	}

	return &RouteIndex{
		points:   points,
		chainage: chainage,
	}, nil
}

// TotalMiles is the route length recomputed from the polyline. Callers
// report this value, not whatever total the routing collaborator claimed.
func (ri *RouteIndex) TotalMiles() float64 {
	return ri.chainage[len(ri.chainage)-1]
}

func (ri *RouteIndex) Points() []geo.Coordinate {
	return ri.points
}

// Bound returns the lat/lon rectangle enclosing the polyline, used to
// pre-cull catalog snapshots before exact projection.
func (ri *RouteIndex) Bound() s2.Rect {
	return geo.BoundingRect(ri.points)
}

// Project finds the closest point on the route to p over all segments and
// returns its chainage along with the great-circle distance to it in miles.
// When two segments are equidistant the earlier (lower chainage) one wins,
// keeping output deterministic for catalogs near route self-overlaps.
func (ri *RouteIndex) Project(p geo.Coordinate) (float64, float64) {
	bestDist := -1.0
	bestChainage := 0.0

	for i := 0; i+1 < len(ri.points); i++ {
		a, b := ri.points[i], ri.points[i+1]
		segLen := ri.chainage[i+1] - ri.chainage[i]

		var dist, chain float64
		if segLen == 0 {
			// duplicate consecutive route points collapse to a single point
			dist = geo.CalculateHaversineDistance(p.Lat, p.Lon, a.Lat, a.Lon)
			chain = ri.chainage[i]
		} else {
			d, t := geo.PointSegmentDistance(a, b, p)
			dist = d
			chain = ri.chainage[i] + t*segLen
		}

		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestChainage = chain
		}
	}

	return bestChainage, bestDist
}
