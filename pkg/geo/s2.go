package geo

import (
	"github.com/golang/geo/s2"
)

// ProjectPointToSegmentS2 projects snap onto the geodesic edge [pointA,
// pointB] on the unit sphere. The planar projection in projection.go is the
// one the optimizer uses; this spherical version is the reference it is
// checked against for short segments.
func ProjectPointToSegmentS2(pointA, pointB, snap Coordinate) Coordinate {
	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))

	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// BoundingRect returns the latitude-longitude rectangle enclosing the
// polyline.
func BoundingRect(coords []Coordinate) s2.Rect {
	rb := s2.NewRectBounder()
	for _, c := range coords {
		rb.AddPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)))
	}
	return rb.RectBound()
}
