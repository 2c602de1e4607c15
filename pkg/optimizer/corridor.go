package optimizer

import (
	"runtime"
	"sort"

	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/concurrent"
)

// CorridorMatch is a station accepted as "on route": its perpendicular
// distance to the polyline is within the corridor threshold, and it has been
// assigned the chainage of its closest segment.
type CorridorMatch struct {
	Station       catalog.Station
	DistanceMiles float64
	ChainageMiles float64
}

// projecting a snapshot this small concurrently costs more than it saves
const parallelProjectionThreshold = 512

// CorridorFilter projects candidate stations onto a route and keeps the ones
// inside the corridor.
type CorridorFilter struct {
	index          *RouteIndex
	thresholdMiles float64
}

func NewCorridorFilter(index *RouteIndex, thresholdMiles float64) *CorridorFilter {
	return &CorridorFilter{
		index:          index,
		thresholdMiles: thresholdMiles,
	}
}

// Filter returns the corridor matches sorted ascending by chainage, ties
// broken by station id. Stations without usable coordinates are skipped
// silently; a partially geocoded catalog is the expected input, not an
// error.
func (cf *CorridorFilter) Filter(stations []catalog.Station) []CorridorMatch {
	var matches []CorridorMatch
	if len(stations) >= parallelProjectionThreshold {
		matches = cf.projectParallel(stations)
	} else {
		matches = make([]CorridorMatch, 0, len(stations))
		for _, st := range stations {
			if m, ok := cf.project(st); ok {
				matches = append(matches, m)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ChainageMiles != matches[j].ChainageMiles {
			return matches[i].ChainageMiles < matches[j].ChainageMiles
		}
		return matches[i].Station.ID < matches[j].Station.ID
	})
	return matches
}

func (cf *CorridorFilter) project(st catalog.Station) (CorridorMatch, bool) {
	coord, ok := st.Coordinates()
	if !ok {
		return CorridorMatch{}, false
	}

	chainage, dist := cf.index.Project(coord)
	if dist > cf.thresholdMiles {
		return CorridorMatch{}, false
	}

	return CorridorMatch{
		Station:       st,
		DistanceMiles: dist,
		ChainageMiles: chainage,
	}, true
}

type projectionResult struct {
	match CorridorMatch
	ok    bool
}

func (cf *CorridorFilter) projectParallel(stations []catalog.Station) []CorridorMatch {
	pool := concurrent.NewWorkerPool[catalog.Station, projectionResult](runtime.NumCPU(), len(stations))
	pool.Start(func(st catalog.Station) projectionResult {
		m, ok := cf.project(st)
		return projectionResult{match: m, ok: ok}
	})
	for _, st := range stations {
		pool.AddJob(st)
	}
	pool.Close()
	pool.Wait()

	matches := make([]CorridorMatch, 0, len(stations))
	for res := range pool.CollectResults() {
		if res.ok {
			matches = append(matches, res.match)
		}
	}
	return matches
}
