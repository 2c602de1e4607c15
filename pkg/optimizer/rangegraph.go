package optimizer

import (
	"math"
	"sort"
)

// rangeNode is one vertex of the range graph. The two synthetic endpoints
// carry no station.
type rangeNode struct {
	chainageMiles float64
	match         *CorridorMatch
}

func (n rangeNode) synthetic() bool {
	return n.match == nil
}

// RangeGraph is the DAG of feasible single-leg drives: an edge (A, B) exists
// iff chainage(B) > chainage(A) and the leg fits in the vehicle range. Edges
// are implicit; cost and existence are computed from node order.
type RangeGraph struct {
	// sorted by chainage; nodes[0] is the start, nodes[len-1] the end
	nodes []rangeNode

	rangeMiles     float64
	fuelEconomyMPG float64
}

// NewRangeGraph assembles the node set from the chainage-sorted corridor
// matches plus synthetic start and end nodes. When matches exceed
// maxCandidates they are thinned by bucketing the route into equal chainage
// intervals and keeping the cheapest station per bucket, bounding the O(n²)
// solve regardless of corridor width or catalog size.
func NewRangeGraph(matches []CorridorMatch, totalMiles, rangeMiles, fuelEconomyMPG float64, maxCandidates int) *RangeGraph {
	if maxCandidates > 0 && len(matches) > maxCandidates {
		matches = thinByChainageBucket(matches, totalMiles, maxCandidates)
	}

	nodes := make([]rangeNode, 0, len(matches)+2)
	nodes = append(nodes, rangeNode{chainageMiles: 0})
	for i := range matches {
		nodes = append(nodes, rangeNode{
			chainageMiles: matches[i].ChainageMiles,
			match:         &matches[i],
		})
	}
	nodes = append(nodes, rangeNode{chainageMiles: totalMiles})

	return &RangeGraph{
		nodes:          nodes,
		rangeMiles:     rangeMiles,
		fuelEconomyMPG: fuelEconomyMPG,
	}
}

// hasEdge reports whether the leg from node i to node j is drivable.
func (g *RangeGraph) hasEdge(i, j int) bool {
	leg := g.nodes[j].chainageMiles - g.nodes[i].chainageMiles
	return leg > 0 && leg <= g.rangeMiles
}

// edgeCost is the fuel bill for the leg i→j: exactly the gallons burned on
// the leg, bought at the price of the stop being left. Legs leaving the
// start are free, the vehicle departs on a full tank.
func (g *RangeGraph) edgeCost(i, j int) float64 {
	if g.nodes[i].synthetic() {
		return 0
	}
	leg := g.nodes[j].chainageMiles - g.nodes[i].chainageMiles
	return g.nodes[i].match.Station.PricePerGallon * leg / g.fuelEconomyMPG
}

// firstUncloseableGap returns the chainage pair of the first consecutive
// node gap exceeding the vehicle range. The second value is false when
// every gap is closable.
func (g *RangeGraph) firstUncloseableGap() (float64, float64, bool) {
	for i := 0; i+1 < len(g.nodes); i++ {
		if g.nodes[i+1].chainageMiles-g.nodes[i].chainageMiles > g.rangeMiles {
			return g.nodes[i].chainageMiles, g.nodes[i+1].chainageMiles, true
		}
	}
	return 0, 0, false
}

func thinByChainageBucket(matches []CorridorMatch, totalMiles float64, maxCandidates int) []CorridorMatch {
	bucketWidth := totalMiles / float64(maxCandidates)
	if bucketWidth <= 0 {
		return matches
	}

	cheapest := make(map[int]CorridorMatch, maxCandidates)
	for _, m := range matches {
		b := int(m.ChainageMiles / bucketWidth)
		if b >= maxCandidates {
			b = maxCandidates - 1
		}
		prev, ok := cheapest[b]
		if !ok ||
			m.Station.PricePerGallon < prev.Station.PricePerGallon ||
			(m.Station.PricePerGallon == prev.Station.PricePerGallon && m.Station.ID < prev.Station.ID) {
			cheapest[b] = m
		}
	}

	thinned := make([]CorridorMatch, 0, len(cheapest))
	for _, m := range cheapest {
		thinned = append(thinned, m)
	}
	sort.Slice(thinned, func(i, j int) bool {
		if thinned[i].ChainageMiles != thinned[j].ChainageMiles {
			return thinned[i].ChainageMiles < thinned[j].ChainageMiles
		}
		return thinned[i].Station.ID < thinned[j].Station.ID
	})
	return thinned
}

const infCost = math.MaxFloat64
