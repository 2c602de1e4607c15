package optimizer

import (
	"testing"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// stationAt places a station on the equator route at the given chainage,
// offset north by offsetMiles.
func stationAt(id int64, chainageMiles, offsetMiles, price float64) catalog.Station {
	mpd := milesPerDegree()
	return catalog.Station{
		ID:             id,
		Name:           "station",
		Latitude:       ptr(offsetMiles / mpd),
		Longitude:      ptr(chainageMiles / mpd),
		PricePerGallon: price,
	}
}

func TestCorridorFilterKeepsOnlyNearbyStations(t *testing.T) {
	index, err := NewRouteIndex(equatorRoute(1000))
	require.NoError(t, err)

	stations := []catalog.Station{
		stationAt(1, 100, 5, 3.00),
		stationAt(2, 200, 14.9, 3.10),
		stationAt(3, 300, 15.5, 3.20),
		stationAt(4, 400, 80, 2.50),
	}

	matches := NewCorridorFilter(index, 15).Filter(stations)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(1), matches[0].Station.ID)
	assert.Equal(t, int64(2), matches[1].Station.ID)
	for _, m := range matches {
		assert.LessOrEqual(t, m.DistanceMiles, 15.0)
	}
}

func TestCorridorFilterSkipsUngeocodedStations(t *testing.T) {
	index, err := NewRouteIndex(equatorRoute(1000))
	require.NoError(t, err)

	bad := stationAt(7, 500, 0, 3.00)
	bad.Longitude = nil

	outOfDomain := stationAt(8, 500, 0, 3.00)
	outOfDomain.Latitude = ptr(120)

	good := stationAt(9, 500, 0, 3.00)

	matches := NewCorridorFilter(index, 15).Filter([]catalog.Station{bad, outOfDomain, good})
	require.Len(t, matches, 1)
	assert.Equal(t, int64(9), matches[0].Station.ID)
}

func TestCorridorFilterSortsByChainageThenID(t *testing.T) {
	index, err := NewRouteIndex(equatorRoute(1000))
	require.NoError(t, err)

	stations := []catalog.Station{
		stationAt(12, 600, 0, 3.00),
		stationAt(3, 600, 0, 3.40),
		stationAt(5, 200, 0, 3.20),
	}

	matches := NewCorridorFilter(index, 15).Filter(stations)
	require.Len(t, matches, 3)
	assert.Equal(t, int64(5), matches[0].Station.ID)
	assert.Equal(t, int64(3), matches[1].Station.ID)
	assert.Equal(t, int64(12), matches[2].Station.ID)
}

func TestCorridorFilterParallelMatchesSerial(t *testing.T) {
	index, err := NewRouteIndex(equatorRoute(2000))
	require.NoError(t, err)

	stations := make([]catalog.Station, 0, parallelProjectionThreshold+50)
	for i := 0; i < parallelProjectionThreshold+50; i++ {
		offset := float64(i%30) - 15 // some inside, some outside the corridor
		stations = append(stations, stationAt(int64(i+1), float64(i%1900)+10, offset, 3.0))
	}

	cf := NewCorridorFilter(index, 10)
	parallel := cf.Filter(stations)

	serial := make([]CorridorMatch, 0, len(stations))
	for _, st := range stations {
		if m, ok := cf.project(st); ok {
			serial = append(serial, m)
		}
	}

	require.Equal(t, len(serial), len(parallel))
	seen := make(map[int64]bool, len(parallel))
	for _, m := range parallel {
		seen[m.Station.ID] = true
	}
	for _, m := range serial {
		assert.True(t, seen[m.Station.ID])
	}
}
