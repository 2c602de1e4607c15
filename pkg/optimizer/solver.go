package optimizer

import (
	"github.com/gasroute/gasroute/pkg/util"
)

// solve runs the forward dynamic program over the range graph. Nodes are
// already in chainage order, so every edge points forward and one sweep
// suffices. It returns minimum cost and predecessor per node; a start
// predecessor of -1 marks unreachable nodes.
func (g *RangeGraph) solve() ([]float64, []int) {
	n := len(g.nodes)
	cost := make([]float64, n)
	parent := make([]int, n)
	for i := range cost {
		cost[i] = infCost
		parent[i] = -1
	}
	cost[0] = 0

	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			if cost[i] == infCost || !g.hasEdge(i, j) {
				continue
			}
			if candidate := cost[i] + g.edgeCost(i, j); candidate < cost[j] {
				cost[j] = candidate
				parent[j] = i
			}
		}
	}

	return cost, parent
}

// reconstruct backtracks predecessor links from the end node, reverses the
// path once, drops the synthetic endpoints and prices each retained stop:
// gallons bought at a stop are exactly the gallons burned on the leg to the
// next chosen node.
func (g *RangeGraph) reconstruct(cost []float64, parent []int) *Solution {
	end := len(g.nodes) - 1

	reversed := make([]int, 0, len(g.nodes))
	for v := end; v != -1; v = parent[v] {
		reversed = append(reversed, v)
		if v == 0 {
			break
		}
	}
	path := util.ReverseG(reversed)

	sol := &Solution{
		Stops:      make([]Stop, 0, len(path)),
		TotalMiles: g.nodes[end].chainageMiles,
	}

	cumulative := 0.0
	for k, v := range path {
		node := g.nodes[v]
		if node.synthetic() {
			continue
		}

		next := g.nodes[path[k+1]] // path always ends at the end node
		legMiles := next.chainageMiles - node.chainageMiles
		gallons := legMiles / g.fuelEconomyMPG
		legCost := gallons * node.match.Station.PricePerGallon
		cumulative += legCost

		sol.Stops = append(sol.Stops, Stop{
			Station:        node.match.Station,
			ChainageMiles:  node.chainageMiles,
			DistanceMiles:  node.match.DistanceMiles,
			Gallons:        gallons,
			Cost:           legCost,
			CumulativeCost: cumulative,
		})
		sol.TotalGallons += gallons
	}
	sol.TotalCost = cumulative

	return sol
}
