package optimizer

import (
	"github.com/gasroute/gasroute/pkg/catalog"
	"github.com/gasroute/gasroute/pkg/geo"
	"github.com/gasroute/gasroute/pkg/util"
	"go.uber.org/zap"
)

// Params are the vehicle and corridor knobs of one optimization call.
type Params struct {
	VehicleRangeMiles      float64
	FuelEconomyMPG         float64
	CorridorThresholdMiles float64

	// MaxCandidates caps the number of stations entering the O(n²) solve;
	// zero disables the cap.
	MaxCandidates int
}

func DefaultParams() Params {
	return Params{
		VehicleRangeMiles:      500,
		FuelEconomyMPG:         10,
		CorridorThresholdMiles: 15,
		MaxCandidates:          300,
	}
}

// Stop is one chosen refueling stop with its purchase detail.
type Stop struct {
	Station        catalog.Station
	ChainageMiles  float64
	DistanceMiles  float64
	Gallons        float64
	Cost           float64
	CumulativeCost float64
}

// Solution is the cost-minimal stop sequence for one route. A route the
// vehicle can finish on its initial tank yields zero stops and zero cost.
type Solution struct {
	Stops        []Stop
	TotalCost    float64
	TotalGallons float64
	TotalMiles   float64

	// CandidatesConsidered counts stations that survived the corridor
	// filter, before any candidate cap.
	CandidatesConsidered int
}

// Optimizer is the route-constrained refueling planner. It is purely
// computational: inputs are an already-resolved route polyline and an
// immutable station snapshot, and concurrent calls share no state.
type Optimizer struct {
	params Params
	log    *zap.Logger
}

func New(params Params, log *zap.Logger) *Optimizer {
	return &Optimizer{
		params: params,
		log:    log,
	}
}

// Optimize computes the minimum-cost subsequence of refueling stops that
// lets the vehicle drive the whole route without any leg exceeding its
// range. Fuel is bought at the stop being left, for exactly the gallons the
// leg burns; the first leg rides on the initial full tank.
func (o *Optimizer) Optimize(routePoints []geo.Coordinate, stations []catalog.Station) (*Solution, error) {
	index, err := NewRouteIndex(routePoints)
	if err != nil {
		return nil, err
	}
	total := index.TotalMiles()
	if total == 0 {
		// all route points coincide, nothing to drive
		return &Solution{Stops: []Stop{}}, nil
	}

	matches := NewCorridorFilter(index, o.params.CorridorThresholdMiles).Filter(stations)
	o.log.Debug("corridor filter done",
		zap.Float64("total_miles", total),
		zap.Int("candidates", len(matches)),
		zap.Int("catalog_size", len(stations)))

	if len(matches) == 0 && total > o.params.VehicleRangeMiles {
		return nil, util.WrapErrorf(ErrNoStationsInCorridor, util.ErrNotFound,
			"no stations within %.1f miles of a %.1f mile route that exceeds the %.1f mile range",
			o.params.CorridorThresholdMiles, total, o.params.VehicleRangeMiles)
	}

	graph := NewRangeGraph(matches, total, o.params.VehicleRangeMiles, o.params.FuelEconomyMPG, o.params.MaxCandidates)

	cost, parent := graph.solve()
	if cost[len(graph.nodes)-1] == infCost {
		from, to, _ := graph.firstUncloseableGap()
		return nil, util.WrapErrorf(ErrInfeasibleRoute, util.ErrUnprocessable,
			"no reachable stop between mile %.1f and mile %.1f: the %.1f mile gap exceeds the %.1f mile range",
			from, to, to-from, o.params.VehicleRangeMiles)
	}

	sol := graph.reconstruct(cost, parent)
	sol.CandidatesConsidered = len(matches)

	o.log.Info("optimization done",
		zap.Float64("total_miles", total),
		zap.Int("stops", len(sol.Stops)),
		zap.Float64("total_cost", sol.TotalCost),
		zap.Int("candidates", len(matches)))
	return sol, nil
}
