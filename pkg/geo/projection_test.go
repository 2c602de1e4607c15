package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistanceAlongEquator(t *testing.T) {
	// one degree of longitude on the equator is R * pi/180
	got := CalculateHaversineDistance(0, 0, 0, 1)
	assert.InDelta(t, 69.0975, got, 0.001)
}

func TestHaversineDistanceZero(t *testing.T) {
	assert.Zero(t, CalculateHaversineDistance(40.7128, -74.0060, 40.7128, -74.0060))
}

func TestProjectPointOnSegmentIsZeroDistance(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 1)
	p := NewCoordinate(0, 0.25)

	dist, tParam := PointSegmentDistance(a, b, p)
	assert.InDelta(t, 0.0, dist, 1e-6)
	assert.InDelta(t, 0.25, tParam, 1e-6)
}

func TestProjectPointBeyondSegmentClampsToEndpoint(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 1)

	// perpendicular foot falls past b, distance must equal distance to b
	p := NewCoordinate(0.5, 2)
	dist, tParam := PointSegmentDistance(a, b, p)
	assert.Equal(t, 1.0, tParam)
	assert.InDelta(t, CalculateHaversineDistance(p.Lat, p.Lon, b.Lat, b.Lon), dist, 1e-9)

	// and past a
	p = NewCoordinate(-0.5, -2)
	dist, tParam = PointSegmentDistance(a, b, p)
	assert.Equal(t, 0.0, tParam)
	assert.InDelta(t, CalculateHaversineDistance(p.Lat, p.Lon, a.Lat, a.Lon), dist, 1e-9)
}

func TestProjectDegenerateSegment(t *testing.T) {
	a := NewCoordinate(10, 10)
	p := NewCoordinate(10.1, 10)

	dist, tParam := PointSegmentDistance(a, a, p)
	assert.Equal(t, 0.0, tParam)
	assert.InDelta(t, CalculateHaversineDistance(p.Lat, p.Lon, a.Lat, a.Lon), dist, 1e-9)
}

func TestPlanarProjectionMatchesSphericalReference(t *testing.T) {
	// OSRM polyline segments are short; the planar approximation must agree
	// with the geodesic projection to well under the corridor threshold.
	cases := []struct {
		name    string
		a, b, p Coordinate
	}{
		{"mid latitude", NewCoordinate(40.0, -74.0), NewCoordinate(40.2, -73.7), NewCoordinate(40.15, -73.9)},
		{"east west", NewCoordinate(35.0, -101.0), NewCoordinate(35.0, -100.6), NewCoordinate(35.05, -100.8)},
		{"north south", NewCoordinate(44.0, -93.0), NewCoordinate(44.4, -93.0), NewCoordinate(44.2, -93.1)},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			planar, _ := ProjectPointToSegment(tt.a, tt.b, tt.p)
			spherical := ProjectPointToSegmentS2(tt.a, tt.b, tt.p)

			separation := CalculateHaversineDistance(planar.Lat, planar.Lon, spherical.Lat, spherical.Lon)
			assert.Less(t, separation, 0.05, "planar and spherical feet diverge by %.4f miles", separation)
		})
	}
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}

	encoded := PolylineFromCoords(coords)
	require.NotEmpty(t, encoded)

	decoded, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(coords))
	for i := range coords {
		assert.InDelta(t, coords[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, coords[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestBoundingRectContainsAllPoints(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(33.4, -112.1),
		NewCoordinate(35.1, -106.6),
		NewCoordinate(35.2, -101.8),
	}

	rect := BoundingRect(coords)
	assert.InDelta(t, 33.4, rect.Lo().Lat.Degrees(), 1e-6)
	assert.InDelta(t, 35.2, rect.Hi().Lat.Degrees(), 1e-6)
	assert.InDelta(t, -112.1, rect.Lo().Lng.Degrees(), 1e-6)
	assert.InDelta(t, -101.8, rect.Hi().Lng.Degrees(), 1e-6)
}
