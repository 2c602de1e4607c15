package spatialindex

import (
	"math"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes the geocoded stations of one catalog snapshot so a route
// query only pays exact point-to-segment projection for stations near the
// route's bounding box.
type Rtree struct {
	tr *rtree.RTreeG[catalog.Station]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[catalog.Station]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every station with usable coordinates as a point entry.
func (rt *Rtree) Build(stations []catalog.Station, log *zap.Logger) {
	log.Info("Building station R-tree spatial index...")
	inserted := 0
	for _, st := range stations {
		coord, ok := st.Coordinates()
		if !ok {
			continue
		}
		rt.tr.Insert([2]float64{coord.Lon, coord.Lat}, [2]float64{coord.Lon, coord.Lat}, st)
		inserted++
	}
	log.Info("Station R-tree spatial index built.", zap.Int("stations", inserted))
}

// SearchWithinBounds returns all stations inside the lat/lon box expanded by
// expandMiles on every side.
func (rt *Rtree) SearchWithinBounds(minLat, minLon, maxLat, maxLon, expandMiles float64) []catalog.Station {
	lowerLat, lowerLon := geo.GetDestinationPoint(minLat, minLon, 225, expandMiles*math.Sqrt2)
	upperLat, upperLon := geo.GetDestinationPoint(maxLat, maxLon, 45, expandMiles*math.Sqrt2)

	results := make([]catalog.Station, 0, 64)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data catalog.Station) bool {
			results = append(results, data)
			return true
		})
	return results
}
