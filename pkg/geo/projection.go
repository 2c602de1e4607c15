package geo

import (
	"math"

	"github.com/gasroute/gasroute/pkg/util"
)

// ProjectPointToSegment projects p onto the segment [a, b] and returns the
// closest point on the segment together with the clamped segment parameter
// t in [0, 1]. The projection is done in a planar (equirectangular)
// approximation of the segment's local coordinates; callers compute the
// actual separation back in great-circle terms.
func ProjectPointToSegment(a, b, p Coordinate) (Coordinate, float64) {
	midLat := util.DegreeToRadians((a.Lat + b.Lat) / 2.0)
	cosMid := math.Cos(midLat)

	ax := util.DegreeToRadians(a.Lon) * cosMid
	ay := util.DegreeToRadians(a.Lat)
	bx := util.DegreeToRadians(b.Lon) * cosMid
	by := util.DegreeToRadians(b.Lat)
	px := util.DegreeToRadians(p.Lon) * cosMid
	py := util.DegreeToRadians(p.Lat)

	dx := bx - ax
	dy := by - ay

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// degenerate segment, both endpoints coincide
		return a, 0
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	foot := NewCoordinate(
		a.Lat+t*(b.Lat-a.Lat),
		a.Lon+t*(b.Lon-a.Lon),
	)
	return foot, t
}

// PointSegmentDistance returns the great-circle distance in miles from p to
// the closest point on segment [a, b], along with the clamped parameter of
// that closest point.
func PointSegmentDistance(a, b, p Coordinate) (float64, float64) {
	foot, t := ProjectPointToSegment(a, b, p)
	return CalculateHaversineDistance(p.Lat, p.Lon, foot.Lat, foot.Lon), t
}
